package handlers_test

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"testing"

	"github.com/geocoder89/userhub/internal/domain/user"
	"github.com/geocoder89/userhub/internal/http/handlers"
	"github.com/geocoder89/userhub/internal/service"
)

type fakeUserByEmailReader struct {
	getByEmailFn func(email string) (user.User, error)
}

func (f *fakeUserByEmailReader) GetUserByEmail(email string) (user.User, error) {
	if f.getByEmailFn != nil {
		return f.getByEmailFn(email)
	}
	return user.User{}, nil
}

func TestLoginHandler(t *testing.T) {
	john := user.User{ID: "1", Name: "John Doe", Email: "john@gmail.com", Password: "testpassword", Role: "admin"}

	tests := []struct {
		name           string
		body           string
		setup          func(*fakeUserByEmailReader)
		wantStatusCode int
		wantBody       string
	}{
		{
			name: "success",
			body: `{"email": "john@gmail.com", "password": "testpassword"}`,
			setup: func(f *fakeUserByEmailReader) {
				f.getByEmailFn = func(email string) (user.User, error) { return john, nil }
			},
			wantStatusCode: http.StatusOK,
		},
		{
			name: "unknown_email",
			body: `{"email": "nobody@example.com", "password": "whatever"}`,
			setup: func(f *fakeUserByEmailReader) {
				f.getByEmailFn = func(email string) (user.User, error) { return user.User{}, user.ErrNotFound }
			},
			wantStatusCode: http.StatusNotFound,
			wantBody:       `{"error":"User not found"}`,
		},
		{
			name: "wrong_password",
			body: `{"email": "john@gmail.com", "password": "nope"}`,
			setup: func(f *fakeUserByEmailReader) {
				f.getByEmailFn = func(email string) (user.User, error) { return john, nil }
			},
			wantStatusCode: http.StatusUnauthorized,
			wantBody:       `{"error":"Invalid password"}`,
		},
		{
			name:           "missing_fields",
			body:           `{"email": "john@gmail.com"}`,
			setup:          func(f *fakeUserByEmailReader) {},
			wantStatusCode: http.StatusBadRequest,
		},
		{
			name: "lookup_error",
			body: `{"email": "john@gmail.com", "password": "testpassword"}`,
			setup: func(f *fakeUserByEmailReader) {
				f.getByEmailFn = func(email string) (user.User, error) { return user.User{}, errors.New("boom") }
			},
			wantStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			reader := &fakeUserByEmailReader{}
			tt.setup(reader)

			authService := service.NewAuthService()

			h := handlers.NewAuthHandler(reader, authService)
			r := setupRouter(http.MethodPost, "/auth/login", h.Login)

			w := doJSON(r, http.MethodPost, "/auth/login", tt.body)

			if w.Code != tt.wantStatusCode {
				t.Fatalf("status = %d, want %d, body=%s", w.Code, tt.wantStatusCode, w.Body.String())
			}

			if tt.wantBody != "" && strings.TrimSpace(w.Body.String()) != tt.wantBody {
				t.Fatalf("body = %s, want %s", w.Body.String(), tt.wantBody)
			}

			if w.Code != http.StatusOK {
				return
			}

			// the issued token decodes back to the resolved user's claim
			var resp struct {
				Token string `json:"token"`
			}

			if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			claims, err := authService.Decode(resp.Token)

			if err != nil {
				t.Fatalf("decode token: %v", err)
			}

			if claims.ID != "1" || claims.Email != "john@gmail.com" || claims.Role != "admin" {
				t.Fatalf("unexpected claims: %+v", claims)
			}
		})
	}
}
