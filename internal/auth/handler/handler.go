package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"stipend/internal/auth/device"
	"stipend/internal/auth/models"
	"stipend/internal/platform/middleware"
	dErrors "stipend/pkg/domain-errors"
	"stipend/pkg/httputil"
)

// Service is the slice of the auth service the login endpoint needs.
type Service interface {
	Login(ctx context.Context, email, password, device string) (string, *models.Identity, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/login", h.HandleLogin)
}

// TokenResponse is the login response. token_type is always "bearer".
type TokenResponse struct {
	AccessToken      string `json:"access_token"`
	TokenType        string `json:"token_type"`
	FamilyOfficeName string `json:"family_office_name"`
}

// HandleLogin authenticates form credentials (username, password) and
// returns a 24-hour session token.
func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		httputil.WriteError(w, dErrors.New(dErrors.CodeBadRequest, "malformed form body"))
		return
	}
	email := r.PostFormValue("username")
	password := r.PostFormValue("password")
	if email == "" || password == "" {
		writeLoginError(w, dErrors.New(dErrors.CodeUnauthorized, "incorrect email or password"))
		return
	}

	token, identity, err := h.service.Login(ctx, email, password, device.Describe(r.UserAgent()))
	if err != nil {
		if !dErrors.HasCode(err, dErrors.CodeUnauthorized) {
			h.logger.ErrorContext(ctx, "login failed",
				"error", err,
				"request_id", middleware.GetRequestID(ctx),
			)
		}
		writeLoginError(w, err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, TokenResponse{
		AccessToken:      token,
		TokenType:        "bearer",
		FamilyOfficeName: identity.FamilyOfficeName,
	})
}

// writeLoginError writes a login failure. Rejected credentials carry a
// WWW-Authenticate challenge, matching the bearer scheme clients expect.
func writeLoginError(w http.ResponseWriter, err error) {
	if dErrors.HasCode(err, dErrors.CodeUnauthorized) {
		w.Header().Set("WWW-Authenticate", "Bearer")
	}
	httputil.WriteError(w, err)
}
