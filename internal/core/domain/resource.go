package domain

import "time"

// ResourceType classifies what a resource URL points to.
type ResourceType string

const (
	ResourceDocument ResourceType = "document"
	ResourceImage    ResourceType = "image"
	ResourceVideo    ResourceType = "video"
	ResourceLink     ResourceType = "link"
	ResourceOther    ResourceType = "other"
)

// ResourceTypes lists every valid resource type.
var ResourceTypes = []ResourceType{
	ResourceDocument,
	ResourceImage,
	ResourceVideo,
	ResourceLink,
	ResourceOther,
}

// Valid reports whether t is a known resource type.
func (t ResourceType) Valid() bool {
	for _, known := range ResourceTypes {
		if t == known {
			return true
		}
	}
	return false
}

// Resource is a shared file or link. An empty ClientID makes it global.
type Resource struct {
	ID          string       `json:"id"`
	Title       string       `json:"title"`
	Description string       `json:"description,omitempty"`
	URL         string       `json:"url"`
	Type        ResourceType `json:"type"`
	ClientID    string       `json:"client_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
