package domain

import "time"

// ClientStatus is the relationship state of a client. Transitions are free-form.
type ClientStatus string

const (
	ClientActive     ClientStatus = "active"
	ClientInactive   ClientStatus = "inactive"
	ClientOnboarding ClientStatus = "onboarding"
)

// ClientStatuses lists every valid client status.
var ClientStatuses = []ClientStatus{ClientActive, ClientInactive, ClientOnboarding}

// Valid reports whether s is a known client status.
func (s ClientStatus) Valid() bool {
	for _, known := range ClientStatuses {
		if s == known {
			return true
		}
	}
	return false
}

// Client is a customer organisation managed from the back office.
// UserID is a weak reference to the portal account acting on the client's behalf.
type Client struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	CompanyName string       `json:"company_name"`
	Email       string       `json:"email"`
	Phone       string       `json:"phone,omitempty"`
	Address     string       `json:"address,omitempty"`
	LogoURL     string       `json:"logo_url,omitempty"`
	Status      ClientStatus `json:"status"`
	UserID      string       `json:"user_id,omitempty"`
	CreatedAt   time.Time    `json:"created_at"`
	UpdatedAt   time.Time    `json:"updated_at"`
}
