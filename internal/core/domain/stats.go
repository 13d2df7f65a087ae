package domain

// ClientStats counts clients by status. Absent statuses report zero.
type ClientStats struct {
	Total      int `json:"total"`
	Active     int `json:"active"`
	Inactive   int `json:"inactive"`
	Onboarding int `json:"onboarding"`
}

// ProjectStats counts projects by status.
type ProjectStats struct {
	Total     int `json:"total"`
	Planning  int `json:"planning"`
	Active    int `json:"active"`
	OnHold    int `json:"on-hold"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

// ResourceStats counts resources by type.
type ResourceStats struct {
	Total    int `json:"total"`
	Document int `json:"document"`
	Image    int `json:"image"`
	Video    int `json:"video"`
	Link     int `json:"link"`
	Other    int `json:"other"`
}

// UserStats counts users by role.
type UserStats struct {
	Total   int `json:"total"`
	Admin   int `json:"admin"`
	Manager int `json:"manager"`
	User    int `json:"user"`
	Client  int `json:"client"`
}

// Dashboard bundles every breakdown for the back-office overview.
type Dashboard struct {
	Clients   ClientStats   `json:"clients"`
	Projects  ProjectStats  `json:"projects"`
	Resources ResourceStats `json:"resources"`
	Users     UserStats     `json:"users"`
}
