package models

// Role represents a creator account's role. The backend treats this as
// an open string set; the values below are the ones it currently emits.
type Role = string

const (
	RoleCreator Role = "creator"
	RoleAdmin   Role = "admin"
)

// Creator is the backend's primary user entity as returned by the
// login endpoint.
type Creator struct {
	Username    string `json:"username"`
	Email       string `json:"email"`
	ProfileName string `json:"profile_name,omitempty"`
	Role        Role   `json:"role,omitempty"`
}

// LoginRequest is the credential pair submitted to /auth/login and
// forwarded verbatim to the backend login endpoint.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse is the backend login endpoint's success payload.
type LoginResponse struct {
	Creator *Creator `json:"creator"`
}
