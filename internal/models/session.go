package models

// Identity is the record produced by credential verification. It is
// derived once from the backend login response and then carried
// forward in token claims; it is never re-fetched on refresh.
type Identity struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	DisplayName string `json:"display_name"`
	Role        Role   `json:"role"`
}

// SessionUser is the outward-facing session view. This is the only
// shape client code reads identity from.
type SessionUser struct {
	ID          string `json:"id"`
	Username    string `json:"username"`
	Role        Role   `json:"role"`
	Email       string `json:"email,omitempty"`
	DisplayName string `json:"display_name,omitempty"`
}

// SessionResponse is returned by /auth/login and /auth/refresh.
type SessionResponse struct {
	Token string      `json:"token"`
	User  SessionUser `json:"user"`
}
