package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/notifications"
)

// UsersService is the handler-facing slice of the user service.
type UsersService interface {
	GetUsers() ([]user.User, error)
	GetUser(id string) (user.User, error)
	Create(u user.User) (user.User, error)
	Update(u user.User) (user.User, error)
}

type UsersHandler struct {
	users    UsersService
	notifier notifications.Notifier
	log      *slog.Logger
}

// notifier may be nil (tests).
func NewUsersHandler(users UsersService, notifier notifications.Notifier, log *slog.Logger) *UsersHandler {
	return &UsersHandler{
		users:    users,
		notifier: notifier,
		log:      log,
	}
}

func (h *UsersHandler) ListUsers(ctx *gin.Context) {
	users, err := h.users.GetUsers()

	if err != nil {
		RespondInternal(ctx, "Could not list users")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"users": users})
}

func (h *UsersHandler) GetUserByID(ctx *gin.Context) {
	id := ctx.Param("id")

	u, err := h.users.GetUser(id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondNotFound(ctx, "User not found")
			return
		}
		RespondInternal(ctx, "Could not fetch user")
		return
	}

	RespondJSONWithETag(ctx, http.StatusOK, gin.H{"user": u})
}

func (h *UsersHandler) CreateUser(ctx *gin.Context) {
	var req user.CreateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	// role is never caller-settable on this path
	entity := user.User{
		Name:     req.Name,
		Email:    req.Email,
		Password: req.Password,
		Role:     user.RoleUser,
	}

	created, err := h.users.Create(entity)

	if err != nil {
		RespondInternal(ctx, "Could not create user")
		return
	}

	h.sendWelcome(ctx.Request.Context(), created)

	ctx.JSON(http.StatusCreated, gin.H{"user": created})
}

// PatchUser merges the provided fields over the fetched entity. An empty
// provided value is indistinguishable from "not provided" and falls back to
// the current value; that quirk is part of the contract.
func (h *UsersHandler) PatchUser(ctx *gin.Context) {
	var req user.UpdateUserRequest

	if !BindJSON(ctx, &req) {
		return
	}

	id := ctx.Param("id")

	u, err := h.users.GetUser(id)

	if err != nil {
		if errors.Is(err, user.ErrNotFound) {
			RespondUnprocessable(ctx, "Unprocessable Entity")
			return
		}
		RespondInternal(ctx, "Could not fetch user")
		return
	}

	if req.Name != "" {
		u.Name = req.Name
	}
	if req.Email != "" {
		u.Email = req.Email
	}

	updated, err := h.users.Update(u)

	if err != nil {
		// the id resolved a moment ago; losing it mid-request is a fault
		// upstream of the repo, not a client error
		RespondInternal(ctx, "Could not update user")
		return
	}

	ctx.JSON(http.StatusOK, gin.H{"user": updated})
}

func (h *UsersHandler) sendWelcome(reqCtx context.Context, u user.User) {
	if h.notifier == nil {
		return
	}

	// detach from the request lifetime; delivery must not block the response
	nctx := context.WithoutCancel(reqCtx)

	go func() {
		err := h.notifier.SendWelcome(nctx, notifications.SendWelcomeInput{
			UserID: u.ID,
			Email:  u.Email,
			Name:   u.Name,
		})

		if err != nil {
			h.log.WarnContext(nctx, "welcome notification failed", "user_id", u.ID, "err", err)
		}
	}()
}
