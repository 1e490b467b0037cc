package auth

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=auth_test

const TokenHeader = "X-GYMLOG-TOKEN"

type authService interface {
	Register(ctx context.Context, creds Credentials) (*User, error)
	Login(ctx context.Context, creds Credentials, createdAt time.Time) (string, *User, error)
	Logout(ctx context.Context, token string) (bool, error)
	DeleteAccount(ctx context.Context, userID string) error
}

// accountCleaner drops everything a user owns outside the users table.
type accountCleaner interface {
	DeleteUserData(ctx context.Context, userID string) error
}

type Handler struct {
	service authService
	cleaner accountCleaner
}

func NewHandler(service authService, cleaner accountCleaner) *Handler {
	return &Handler{
		service: service,
		cleaner: cleaner,
	}
}

type LoginResponse struct {
	Token    string `json:"token"`
	UserID   string `json:"userId"`
	Username string `json:"username"`
}

func decodeCredentials(r *http.Request) (Credentials, error) {
	var creds Credentials
	if r.Header.Get("Content-Type") == "application/json" {
		err := json.NewDecoder(r.Body).Decode(&creds)
		return creds, err
	}
	if err := r.ParseForm(); err != nil {
		return creds, err
	}
	return Credentials{
		Username: r.Form.Get("username"),
		Password: r.Form.Get("password"),
	}, nil
}

func (h *Handler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.register")
	defer span.End()

	creds, err := decodeCredentials(r)
	if err != nil {
		log.Tracef("register, decode credentials: %s", err)
		http.Error(w, "register failed", http.StatusBadRequest)
		return
	}

	user, err := h.service.Register(ctx, creds)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidUser):
			http.Error(w, "error, username must be 3-32 chars [a-z0-9_.-], password at least 8 chars", http.StatusBadRequest)
		case errors.Is(err, ErrUsernameTaken):
			http.Error(w, "error, username taken", http.StatusConflict)
		default:
			log.Errorf("register [%s]: %s", creds.Username, err)
			http.Error(w, "register failed", http.StatusInternalServerError)
		}
		return
	}

	span.SetAttributes(attribute.String("user.id", user.ID))
	log.Debugf("new user registered: %s", user.Username)
	pkg.WriteJSON(w, user, http.StatusCreated)
}

func (h *Handler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.login")
	defer span.End()

	creds, err := decodeCredentials(r)
	if err != nil {
		log.Tracef("login, decode credentials: %s", err)
		http.Error(w, "login failed", http.StatusBadRequest)
		return
	}
	if creds.Username == "" {
		http.Error(w, "error, username empty", http.StatusBadRequest)
		return
	}
	if creds.Password == "" {
		http.Error(w, "error, password empty", http.StatusBadRequest)
		return
	}

	token, user, err := h.service.Login(ctx, creds, time.Now())
	if err != nil {
		if errors.Is(err, ErrUserNotFound) || errors.Is(err, ErrWrongPassword) {
			log.Tracef("failed login attempt for user: %s", creds.Username)
			http.Error(w, "error, wrong credentials", http.StatusBadRequest)
			return
		}
		log.Errorf("login failed, create session: %s", err)
		http.Error(w, "login failed", http.StatusInternalServerError)
		return
	}

	log.Trace("new login success")
	pkg.WriteJSON(w, LoginResponse{Token: token, UserID: user.ID, Username: user.Username}, http.StatusOK)
}

func (h *Handler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.logout")
	defer span.End()

	authToken := r.Header.Get(TokenHeader)
	if authToken == "" {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	loggedOut, err := h.service.Logout(ctx, authToken)
	if err != nil {
		log.Tracef("[failed logout] => %s: %s", r.URL.Path, err)
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}
	if !loggedOut {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	pkg.WriteTextResponseOK(w, "logged-out")
}

func (h *Handler) HandleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.auth.deleteaccount")
	defer span.End()

	userID, ok := UserIDFromContext(ctx)
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
		return
	}

	var req struct {
		Confirm bool `json:"confirm"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || !req.Confirm {
		http.Error(w, "error, deleting the account needs {\"confirm\": true}", http.StatusPreconditionRequired)
		return
	}

	if err := h.cleaner.DeleteUserData(ctx, userID); err != nil {
		log.Errorf("delete account [%s], user data: %s", userID, err)
		http.Error(w, "delete account failed", http.StatusInternalServerError)
		return
	}
	if err := h.service.DeleteAccount(ctx, userID); err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "error, user not found", http.StatusNotFound)
			return
		}
		log.Errorf("delete account [%s]: %s", userID, err)
		http.Error(w, "delete account failed", http.StatusInternalServerError)
		return
	}

	log.Printf("account [%s] deleted", userID)
	pkg.WriteTextResponseOK(w, "deleted")
}
