package models

// User is the profile returned by the auth endpoints and kept in the session.
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	CreatedAt Timestamp `json:"created_at"`
}

// Session is what a successful login or registration leaves behind locally.
type Session struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

// AuthResponse is the body of POST /auth/login and POST /auth/register.
type AuthResponse struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
	User        User   `json:"user"`
}

type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type RegisterRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}
