// internal/testutil/http.go
package testutil

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/dalemusser/azubihub/internal/app/system/auth"
	"github.com/dalemusser/azubihub/internal/domain/models"
	"github.com/go-chi/chi/v5"
)

// WithChiURLParam adds a chi URL parameter to the request context.
// Use this in handler tests that need to access chi.URLParam values.
func WithChiURLParam(r *http.Request, key, value string) *http.Request {
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// SignedInRequest builds a request carrying the given user in context,
// bypassing the session middleware.
func SignedInRequest(method, target string, body io.Reader, u models.User) *http.Request {
	req := httptest.NewRequest(method, target, body)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	return auth.WithUser(req, &auth.SessionUser{
		ID:   u.ID.Hex(),
		Name: u.Name,
		Role: u.Role,
	})
}
