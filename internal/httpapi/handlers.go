package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	authservice "github.com/MrEthical07/authservice"
	"github.com/MrEthical07/authservice/jwt"
)

//go:generate mockgen -destination=mocks/mock_service.go -package=mocks github.com/MrEthical07/authservice/internal/httpapi Service

const maxBodyBytes = 1 << 16

// Service is the subset of *authservice.Engine the handlers call.
type Service interface {
	Signup(ctx context.Context, in authservice.SignupInput) error
	Login(ctx context.Context, email, password string) (*authservice.LoginResult, error)
	Verify2FA(ctx context.Context, email, loginAttemptID, code string) (jwt.Token, error)
	Logout(ctx context.Context, token string) error
	VerifyToken(ctx context.Context, token string) (*jwt.Claims, error)
}

// Handler serves the auth routes.
type Handler struct {
	service Service
	cookies CookieConfig
}

// NewHandler creates a Handler.
func NewHandler(service Service, cookies CookieConfig) *Handler {
	return &Handler{service: service, cookies: cookies}
}

type signupRequest struct {
	Email       *string `json:"email"`
	Password    *string `json:"password"`
	Requires2FA *bool   `json:"requires2FA"`
}

type loginRequest struct {
	Email    *string `json:"email"`
	Password *string `json:"password"`
}

type twoFactorAuthResponse struct {
	Message        string `json:"message"`
	LoginAttemptID string `json:"loginAttemptId"`
}

type verify2FARequest struct {
	Email          *string `json:"email"`
	LoginAttemptID *string `json:"loginAttemptId"`
	TwoFACode      *string `json:"2FACode"`
}

type verifyTokenRequest struct {
	Token *string `json:"token"`
}

var errMissingField = errors.New("missing field")

// decodeBody decodes a JSON object into dst. Any field left nil by the
// decoder counts as a shape error.
func decodeBody(w http.ResponseWriter, r *http.Request, dst any, fields ...func() bool) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		return err
	}
	for _, present := range fields {
		if !present() {
			return errMissingField
		}
	}
	return nil
}

// Signup handles POST /signup.
func (h *Handler) Signup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := decodeBody(w, r, &req,
		func() bool { return req.Email != nil },
		func() bool { return req.Password != nil },
		func() bool { return req.Requires2FA != nil },
	); err != nil {
		writeError(w, http.StatusUnprocessableEntity, msgMalformedRequest)
		return
	}

	err := h.service.Signup(r.Context(), authservice.SignupInput{
		Email:       *req.Email,
		Password:    *req.Password,
		Requires2FA: *req.Requires2FA,
	})
	if err != nil {
		writeEngineError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, map[string]string{"message": "User created successfully!"})
}

// Login handles POST /login.
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := decodeBody(w, r, &req,
		func() bool { return req.Email != nil },
		func() bool { return req.Password != nil },
	); err != nil {
		writeError(w, http.StatusUnprocessableEntity, msgMalformedRequest)
		return
	}

	res, err := h.service.Login(r.Context(), *req.Email, *req.Password)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	if res.Requires2FA {
		writeJSON(w, http.StatusPartialContent, twoFactorAuthResponse{
			Message:        "2FA required",
			LoginAttemptID: res.LoginAttemptID,
		})
		return
	}

	http.SetCookie(w, h.cookies.session(res.Token))
	w.WriteHeader(http.StatusOK)
}

// Verify2FA handles POST /verify-2fa.
func (h *Handler) Verify2FA(w http.ResponseWriter, r *http.Request) {
	var req verify2FARequest
	if err := decodeBody(w, r, &req,
		func() bool { return req.Email != nil },
		func() bool { return req.LoginAttemptID != nil },
		func() bool { return req.TwoFACode != nil },
	); err != nil {
		writeError(w, http.StatusUnprocessableEntity, msgMalformedRequest)
		return
	}

	token, err := h.service.Verify2FA(r.Context(), *req.Email, *req.LoginAttemptID, *req.TwoFACode)
	if err != nil {
		writeEngineError(w, err)
		return
	}

	http.SetCookie(w, h.cookies.session(token))
	w.WriteHeader(http.StatusOK)
}

// Logout handles POST /logout. The token is read from the jwt cookie only.
func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	token := ""
	if c, err := r.Cookie(authservice.CookieName); err == nil {
		token = c.Value
	}

	if err := h.service.Logout(r.Context(), token); err != nil {
		writeEngineError(w, err)
		return
	}

	http.SetCookie(w, h.cookies.cleared())
	w.WriteHeader(http.StatusOK)
}

// VerifyToken handles POST /verify-token.
func (h *Handler) VerifyToken(w http.ResponseWriter, r *http.Request) {
	var req verifyTokenRequest
	if err := decodeBody(w, r, &req,
		func() bool { return req.Token != nil },
	); err != nil {
		writeError(w, http.StatusUnprocessableEntity, msgMalformedRequest)
		return
	}

	if _, err := h.service.VerifyToken(r.Context(), *req.Token); err != nil {
		writeEngineError(w, err)
		return
	}

	w.WriteHeader(http.StatusOK)
}

// Health handles GET /health.
func Health(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}
