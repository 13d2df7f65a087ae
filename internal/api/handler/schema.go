package handler

import (
	"time"

	"github.com/clientdesk/portal/internal/core/domain"
)

// errorResponse is the standard error envelope returned on all 4xx/5xx responses.
type errorResponse struct {
	Error string `json:"error"`
}

// --- Users ---

type createUserRequest struct {
	Name        string   `json:"name"        validate:"required"`
	Email       string   `json:"email"       validate:"required,email"`
	Password    string   `json:"password"    validate:"omitempty,min=8"`
	Role        string   `json:"role"        validate:"required,oneof=admin manager user client"`
	Permissions []string `json:"permissions"`
	Active      *bool    `json:"active"`
}

type updateUserRequest struct {
	Name        *string   `json:"name"        validate:"omitempty,min=1"`
	Email       *string   `json:"email"       validate:"omitempty,email"`
	Password    *string   `json:"password"    validate:"omitempty,min=8"`
	Role        *string   `json:"role"        validate:"omitempty,oneof=admin manager user client"`
	Permissions *[]string `json:"permissions"`
	Active      *bool     `json:"active"`
}

type setActiveRequest struct {
	Active *bool `json:"active" validate:"required"`
}

type setPermissionsRequest struct {
	Permissions []string `json:"permissions" validate:"required"`
}

// userResponse is a User without its credential.
type userResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Email       string    `json:"email"`
	Role        string    `json:"role"`
	Permissions []string  `json:"permissions"`
	Active      bool      `json:"active"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func toUserResponse(u *domain.User) userResponse {
	perms := u.Permissions
	if perms == nil {
		perms = []string{}
	}
	return userResponse{
		ID:          u.ID,
		Name:        u.Name,
		Email:       u.Email,
		Role:        string(u.Role),
		Permissions: perms,
		Active:      u.Active,
		CreatedAt:   u.CreatedAt,
		UpdatedAt:   u.UpdatedAt,
	}
}

func toUserResponses(users []domain.User) []userResponse {
	out := make([]userResponse, 0, len(users))
	for i := range users {
		out = append(out, toUserResponse(&users[i]))
	}
	return out
}

// --- Clients ---

type createClientRequest struct {
	Name        string `json:"name"         validate:"required"`
	CompanyName string `json:"company_name" validate:"required"`
	Email       string `json:"email"        validate:"required,email"`
	Phone       string `json:"phone"`
	Address     string `json:"address"`
	LogoURL     string `json:"logo_url"     validate:"omitempty,url"`
	Status      string `json:"status"       validate:"omitempty,oneof=active inactive onboarding"`
	UserID      string `json:"user_id"`
}

type createClientWithAccountRequest struct {
	createClientRequest
	Password    string   `json:"password"    validate:"required,min=8"`
	Permissions []string `json:"permissions"`
}

type updateClientRequest struct {
	Name        *string `json:"name"         validate:"omitempty,min=1"`
	CompanyName *string `json:"company_name" validate:"omitempty,min=1"`
	Email       *string `json:"email"        validate:"omitempty,email"`
	Phone       *string `json:"phone"`
	Address     *string `json:"address"`
	LogoURL     *string `json:"logo_url"`
	Status      *string `json:"status"       validate:"omitempty,oneof=active inactive onboarding"`
	UserID      *string `json:"user_id"`
}

type updateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type clientWithAccountResponse struct {
	Client *domain.Client `json:"client"`
	User   userResponse   `json:"user"`
}

// --- Projects ---

type createProjectRequest struct {
	Name        string     `json:"name"        validate:"required"`
	Description string     `json:"description"`
	Status      string     `json:"status"      validate:"omitempty,oneof=planning active on-hold completed cancelled"`
	ClientID    string     `json:"client_id"   validate:"required"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      *float64   `json:"budget"      validate:"omitempty,gte=0"`
	ManagerID   string     `json:"manager_id"`
}

type updateProjectRequest struct {
	Name        *string    `json:"name"        validate:"omitempty,min=1"`
	Description *string    `json:"description"`
	Status      *string    `json:"status"      validate:"omitempty,oneof=planning active on-hold completed cancelled"`
	ClientID    *string    `json:"client_id"   validate:"omitempty,min=1"`
	StartDate   *time.Time `json:"start_date"`
	EndDate     *time.Time `json:"end_date"`
	Budget      *float64   `json:"budget"      validate:"omitempty,gte=0"`
	ManagerID   *string    `json:"manager_id"`
}

// --- Resources ---

type createResourceRequest struct {
	Title       string `json:"title"       validate:"required"`
	Description string `json:"description"`
	URL         string `json:"url"         validate:"omitempty,url"`
	Type        string `json:"type"        validate:"required,oneof=document image video link other"`
	ClientID    string `json:"client_id"`
}

type updateResourceRequest struct {
	Title       *string `json:"title"       validate:"omitempty,min=1"`
	Description *string `json:"description"`
	URL         *string `json:"url"         validate:"omitempty,url"`
	Type        *string `json:"type"        validate:"omitempty,oneof=document image video link other"`
	ClientID    *string `json:"client_id"`
}

// --- Notifications ---

type createNotificationRequest struct {
	UserID   string `json:"user_id"   validate:"required"`
	ClientID string `json:"client_id"`
	Title    string `json:"title"     validate:"required"`
	Message  string `json:"message"`
	Type     string `json:"type"`
	Link     string `json:"link"`
}

type countResponse struct {
	Count int `json:"count"`
}
