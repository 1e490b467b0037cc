package social

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/auth"
	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/telemetry/tracing"
	"github.com/2beens/gymlog/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

//go:generate mockgen -source=$GOFILE -destination=handler_mocks_test.go -package=social_test

type socialRepo interface {
	GetProfile(ctx context.Context, userID string) (*Profile, error)
	UpsertProfile(ctx context.Context, p Profile) error
	SendRequest(ctx context.Context, fromUserID, toUsername string) (*FriendRequest, error)
	ListRequests(ctx context.Context, userID string) (*Requests, error)
	RespondRequest(ctx context.Context, requestID, userID string, accept bool) error
	ListFriends(ctx context.Context, userID string) ([]Friend, error)
	RemoveFriend(ctx context.Context, userID, friendID string) error
}

type feedGetter interface {
	Get(ctx context.Context, userID, today string) ([]FeedItem, error)
	Invalidate(userID, today string)
}

type Handler struct {
	repo  socialRepo
	feed  feedGetter
	clock datekey.Clock
}

func NewHandler(repo socialRepo, feed feedGetter, clock datekey.Clock) *Handler {
	return &Handler{
		repo:  repo,
		feed:  feed,
		clock: clock,
	}
}

func (h *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/profile", h.handleGetProfile).Methods("GET", "OPTIONS").Name("get-profile")
	router.HandleFunc("/profile", h.handleUpdateProfile).Methods("PUT", "OPTIONS").Name("update-profile")
	router.HandleFunc("/friends/requests", h.handleSendRequest).Methods("POST", "OPTIONS").Name("send-friend-request")
	router.HandleFunc("/friends/requests", h.handleListRequests).Methods("GET", "OPTIONS").Name("list-friend-requests")
	router.HandleFunc("/friends/requests/{id}/accept", h.handleAccept).Methods("POST", "OPTIONS").Name("accept-friend-request")
	router.HandleFunc("/friends/requests/{id}/decline", h.handleDecline).Methods("POST", "OPTIONS").Name("decline-friend-request")
	router.HandleFunc("/friends", h.handleListFriends).Methods("GET", "OPTIONS").Name("list-friends")
	router.HandleFunc("/friends/{userId}", h.handleRemoveFriend).Methods("DELETE", "OPTIONS").Name("remove-friend")
	router.HandleFunc("/feed", h.handleFeed).Methods("GET", "OPTIONS").Name("feed")
}

func userFromRequest(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := auth.UserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "no can do", http.StatusUnauthorized)
	}
	return userID, ok
}

func (h *Handler) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.social.getprofile")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	profile, err := h.repo.GetProfile(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrUserNotFound) {
			http.Error(w, "error, user not found", http.StatusNotFound)
			return
		}
		log.Errorf("get profile [%s]: %s", userID, err)
		http.Error(w, "get profile failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, profile, http.StatusOK)
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.social.updateprofile")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		DisplayName   string `json:"displayName"`
		ShareWorkouts bool   `json:"shareWorkouts"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "error, invalid profile", http.StatusBadRequest)
		return
	}
	req.DisplayName = strings.TrimSpace(req.DisplayName)
	if !ValidDisplayName(req.DisplayName) {
		http.Error(w, "error, invalid display name", http.StatusBadRequest)
		return
	}

	err := h.repo.UpsertProfile(ctx, Profile{
		UserID:        userID,
		DisplayName:   req.DisplayName,
		ShareWorkouts: req.ShareWorkouts,
		UpdatedAt:     h.clock.Now(),
	})
	if err != nil {
		log.Errorf("update profile [%s]: %s", userID, err)
		http.Error(w, "update profile failed", http.StatusInternalServerError)
		return
	}

	profile, err := h.repo.GetProfile(ctx, userID)
	if err != nil {
		log.Errorf("get profile [%s] after update: %s", userID, err)
		http.Error(w, "get profile failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, profile, http.StatusOK)
}

func (h *Handler) handleSendRequest(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.social.sendrequest")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	var req struct {
		Username string `json:"username"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Username) == "" {
		http.Error(w, "error, username missing", http.StatusBadRequest)
		return
	}
	toUsername := auth.NormalizeUsername(req.Username)
	span.SetAttributes(attribute.String("to.username", toUsername))

	friendRequest, err := h.repo.SendRequest(ctx, userID, toUsername)
	if err != nil {
		switch {
		case errors.Is(err, ErrUserNotFound):
			http.Error(w, "error, user not found", http.StatusNotFound)
		case errors.Is(err, ErrSelfRequest):
			http.Error(w, "error, cannot befriend yourself", http.StatusBadRequest)
		case errors.Is(err, ErrAlreadyFriends), errors.Is(err, ErrRequestExists):
			http.Error(w, "error, "+err.Error(), http.StatusConflict)
		default:
			log.Errorf("send friend request [%s -> %s]: %s", userID, toUsername, err)
			http.Error(w, "send friend request failed", http.StatusInternalServerError)
		}
		return
	}

	pkg.WriteJSON(w, friendRequest, http.StatusCreated)
}

func (h *Handler) handleListRequests(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.social.listrequests")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	requests, err := h.repo.ListRequests(ctx, userID)
	if err != nil {
		log.Errorf("list friend requests [%s]: %s", userID, err)
		http.Error(w, "list friend requests failed", http.StatusInternalServerError)
		return
	}

	pkg.WriteJSON(w, requests, http.StatusOK)
}

func (h *Handler) handleAccept(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, true)
}

func (h *Handler) handleDecline(w http.ResponseWriter, r *http.Request) {
	h.respond(w, r, false)
}

func (h *Handler) respond(w http.ResponseWriter, r *http.Request, accept bool) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.social.respond")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	requestID := mux.Vars(r)["id"]
	if requestID == "" {
		http.Error(w, "error, request id missing", http.StatusBadRequest)
		return
	}

	if err := h.repo.RespondRequest(ctx, requestID, userID, accept); err != nil {
		if errors.Is(err, ErrRequestNotFound) {
			http.Error(w, "error, friend request not found", http.StatusNotFound)
			return
		}
		log.Errorf("respond to friend request %s [%s]: %s", requestID, userID, err)
		http.Error(w, "respond to friend request failed", http.StatusInternalServerError)
		return
	}

	if accept {
		// new friend, new days to see
		h.feed.Invalidate(userID, datekey.Today(h.clock))
		pkg.WriteTextResponseOK(w, "accepted")
		return
	}
	pkg.WriteTextResponseOK(w, "declined")
}

func (h *Handler) handleListFriends(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.social.listfriends")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	friends, err := h.repo.ListFriends(ctx, userID)
	if err != nil {
		log.Errorf("list friends [%s]: %s", userID, err)
		http.Error(w, "list friends failed", http.StatusInternalServerError)
		return
	}
	if friends == nil {
		friends = []Friend{}
	}

	pkg.WriteJSON(w, friends, http.StatusOK)
}

func (h *Handler) handleRemoveFriend(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.social.removefriend")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	friendID := mux.Vars(r)["userId"]
	if err := h.repo.RemoveFriend(ctx, userID, friendID); err != nil {
		if errors.Is(err, ErrFriendNotFound) {
			http.Error(w, "error, friend not found", http.StatusNotFound)
			return
		}
		log.Errorf("remove friend [%s -> %s]: %s", userID, friendID, err)
		http.Error(w, "remove friend failed", http.StatusInternalServerError)
		return
	}

	h.feed.Invalidate(userID, datekey.Today(h.clock))
	pkg.WriteTextResponseOK(w, "removed")
}

type FeedResponse struct {
	Today string     `json:"today"`
	Items []FeedItem `json:"items"`
}

func (h *Handler) handleFeed(w http.ResponseWriter, r *http.Request) {
	ctx, span := tracing.GlobalTracer.Start(r.Context(), "handler.social.feed")
	defer span.End()

	userID, ok := userFromRequest(w, r)
	if !ok {
		return
	}

	today := datekey.Today(h.clock)
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	items, err := h.feed.Get(ctx, userID, today)
	if err != nil {
		log.Errorf("get feed [%s]: %s", userID, err)
		http.Error(w, "get feed failed", http.StatusInternalServerError)
		return
	}
	if items == nil {
		items = []FeedItem{}
	}

	pkg.WriteJSON(w, FeedResponse{Today: today, Items: items}, http.StatusOK)
}
