// internal/app/features/auth/register.go
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
	"github.com/dalemusser/azubihub/internal/domain/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleRegister creates a local account and signs the new user in.
func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httperr.WriteKind(w, httperr.Validation, "Invalid request body.")
		return
	}
	req.Name = strings.TrimSpace(req.Name)
	req.Email = strings.TrimSpace(req.Email)
	if req.Name == "" || req.Email == "" || req.Password == "" {
		httperr.WriteKind(w, httperr.Validation, "Name, email, and password are required.")
		return
	}
	if !strings.Contains(req.Email, "@") {
		httperr.WriteKind(w, httperr.Validation, "Invalid email address.")
		return
	}
	if len(req.Password) < 8 {
		httperr.WriteKind(w, httperr.Validation, "Password must be at least 8 characters.")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcryptCost)
	if err != nil {
		httperr.Write(w, err, h.Log)
		return
	}

	ctx, cancel := context.WithTimeout(r.Context(), timeouts.Medium())
	defer cancel()

	user, err := userstore.New(h.DB).Create(ctx, models.User{
		Name:         req.Name,
		Email:        req.Email,
		PasswordHash: string(hash),
	})
	if err != nil {
		if errors.Is(err, userstore.ErrDuplicateEmail) {
			httperr.WriteKind(w, httperr.Conflict, "A user with this email already exists.")
			return
		}
		httperr.Write(w, err, h.Log)
		return
	}

	if err := h.Sessions.SignIn(w, r, systemauth.SessionUser{
		ID:   user.ID.Hex(),
		Name: user.Name,
		Role: user.Role,
	}); err != nil {
		h.Log.Error("sign-in after register failed", zap.Error(err))
		httperr.Write(w, err, h.Log)
		return
	}

	httperr.WriteJSON(w, http.StatusCreated, user)
}
