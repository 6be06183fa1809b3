package models

// Sport is a server-owned category payments can be filed under.
type Sport struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Icon        string    `json:"icon"`
	Description string    `json:"description,omitempty"`
	CreatedAt   Timestamp `json:"created_at"`
}

// Label is the "icon name" text used by selectors and badges.
func (s Sport) Label() string {
	if s.Icon == "" {
		return s.Name
	}
	return s.Icon + " " + s.Name
}

// SportCreate is the body of POST /sports.
type SportCreate struct {
	Name        string `json:"name"`
	Icon        string `json:"icon,omitempty"`
	Description string `json:"description,omitempty"`
}
