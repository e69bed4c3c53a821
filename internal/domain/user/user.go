package user

import "errors"

const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User is the service-facing entity. The repository keeps its own stored
// record shape; this is the projection that flows up through the service
// layer and out of the HTTP handlers.
type User struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"-"` // never expose the password in JSON
	Role     string `json:"role"`
}

var ErrNotFound = errors.New("user not found")

type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,min=1,max=120"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"omitempty,max=120"`
}

// UpdateUserRequest is a partial payload: empty fields fall back to the
// current value, so an explicit empty string is indistinguishable from
// "not provided". That is the PATCH contract.
type UpdateUserRequest struct {
	Name  string `json:"name" binding:"omitempty,max=120"`
	Email string `json:"email" binding:"omitempty,max=254"`
}

type LoginRequest struct {
	// Email is deliberately not format-validated: an unresolvable address
	// must surface as a 404, not a 400.
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}
