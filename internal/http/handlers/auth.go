package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/service"
)

// UserByEmailReader resolves the login email to a user. First-match: email
// is not unique in the store.
type UserByEmailReader interface {
	GetUserByEmail(email string) (user.User, error)
}

type AuthHandler struct {
	users UserByEmailReader
	auth  *service.AuthService
}

func NewAuthHandler(users UserByEmailReader, auth *service.AuthService) *AuthHandler {
	return &AuthHandler{
		users: users,
		auth:  auth,
	}
}

// Login contract: 404 for an unresolvable email, 401 for a bad password,
// 200 {"token": ...} on success. The unknown-email/wrong-password split
// leaks which emails exist; that is the documented behavior of this
// service, kept as-is.
func (h *AuthHandler) Login(ctx *gin.Context) {
	var req user.LoginRequest

	if !BindJSON(ctx, &req) {
		return
	}

	foundUser, err := h.users.GetUserByEmail(req.Email)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not log in")
		return
	}

	if !h.auth.VerifyPassword(req.Password, foundUser.Password) {
		RespondUnauthorized(ctx, "Invalid password")
		return
	}

	token, err := h.auth.Sign(service.Claim{
		ID:    foundUser.ID,
		Email: foundUser.Email,
		Role:  foundUser.Role,
	})

	if err != nil {
		RespondInternal(ctx, "Could not issue token")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"token": token})
}
