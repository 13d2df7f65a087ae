package domain

import "time"

// EntityType names the kind of record an activity refers to.
type EntityType string

const (
	EntityUser     EntityType = "user"
	EntityClient   EntityType = "client"
	EntityProject  EntityType = "project"
	EntityResource EntityType = "resource"
)

// Verbs used to build activity action tags.
const (
	VerbCreate = "create"
	VerbUpdate = "update"
	VerbDelete = "delete"
)

// ActionTag returns the action recorded for verb applied to entity, e.g. "create_client".
func ActionTag(verb string, entity EntityType) string {
	return verb + "_" + string(entity)
}

// DetailKind discriminates the shape carried by ActivityDetails.
type DetailKind string

const (
	DetailCreated  DetailKind = "created"
	DetailChanges  DetailKind = "changes"
	DetailSnapshot DetailKind = "snapshot"
	DetailCustom   DetailKind = "custom"
)

// EntitySnapshot keeps the identifying fields of a record so the audit trail
// stays readable after the record itself is gone.
type EntitySnapshot struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
	Label string `json:"label,omitempty"`
}

// ActivityDetails is a tagged union. Kind selects which field is meaningful:
//
//	created  -> Snapshot
//	changes  -> Changed (field names)
//	snapshot -> Snapshot (record as it was before delete)
//	custom   -> Fields
type ActivityDetails struct {
	Kind     DetailKind        `json:"kind"`
	Snapshot *EntitySnapshot   `json:"snapshot,omitempty"`
	Changed  []string          `json:"changed,omitempty"`
	Fields   map[string]string `json:"fields,omitempty"`
}

// CreatedDetails describes a freshly created record.
func CreatedDetails(s EntitySnapshot) *ActivityDetails {
	return &ActivityDetails{Kind: DetailCreated, Snapshot: &s}
}

// ChangedDetails lists the fields an update touched.
func ChangedDetails(fields []string) *ActivityDetails {
	return &ActivityDetails{Kind: DetailChanges, Changed: fields}
}

// DeletedDetails keeps the identifying fields of a removed record.
func DeletedDetails(s EntitySnapshot) *ActivityDetails {
	return &ActivityDetails{Kind: DetailSnapshot, Snapshot: &s}
}

// CustomDetails wraps a heterogeneous payload.
func CustomDetails(fields map[string]string) *ActivityDetails {
	return &ActivityDetails{Kind: DetailCustom, Fields: fields}
}

// Activity is one immutable audit-trail entry.
type Activity struct {
	ID         string           `json:"id"`
	Action     string           `json:"action"`
	Timestamp  time.Time        `json:"timestamp"`
	EntityType EntityType       `json:"entity_type,omitempty"`
	EntityID   string           `json:"entity_id,omitempty"`
	UserID     string           `json:"user_id"`
	ClientID   string           `json:"client_id,omitempty"`
	ProjectID  string           `json:"project_id,omitempty"`
	Details    *ActivityDetails `json:"details,omitempty"`
}
