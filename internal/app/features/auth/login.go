// internal/app/features/auth/login.go
package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	userstore "github.com/dalemusser/azubihub/internal/app/store/users"
	systemauth "github.com/dalemusser/azubihub/internal/app/system/auth"
	"github.com/dalemusser/azubihub/internal/app/system/httperr"
	"github.com/dalemusser/azubihub/internal/app/system/timeouts"
	"go.mongodb.org/mongo-driver/mongo"
	"golang.org/x/crypto/bcrypt"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin verifies credentials and starts a session. A missing user
// and a wrong password produce the same response, so the endpoint does
// not reveal which emails are registered.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteKind(w, httperr.Validation, "Invalid request body.")
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if req.Email == "" || req.Password == "" {
		httperr.WriteKind(w, httperr.Validation, "Email and password are required.")
		return
	}

	if allowed, reason := h.Limits.Check(r, req.Email); !allowed {
		httperr.WriteJSON(w, http.StatusTooManyRequests, map[string]any{"error": reason})
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := userstore.New(h.DB).GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			httperr.WriteKind(w, httperr.Unauthenticated, "Invalid email or password.")
			return
		}
		httperr.Write(w, err, h.Log)
		return
	}
	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
		httperr.WriteKind(w, httperr.Unauthenticated, "Invalid email or password.")
		return
	}

	h.Limits.ResetEmail(req.Email)

	if err := h.Sessions.SignIn(w, r, systemauth.SessionUser{
		ID:   user.ID.Hex(),
		Name: user.Name,
		Role: user.Role,
	}); err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	httperr.WriteJSON(w, http.StatusOK, user)
}
