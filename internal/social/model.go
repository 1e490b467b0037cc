// Package social shares workout days between friends.
package social

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/2beens/gymlog/internal/workouts"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrRequestNotFound    = errors.New("friend request not found")
	ErrRequestExists      = errors.New("friend request already exists")
	ErrAlreadyFriends     = errors.New("already friends")
	ErrSelfRequest        = errors.New("cannot befriend yourself")
	ErrFriendNotFound     = errors.New("friend not found")
	ErrInvalidDisplayName = errors.New("invalid display name")
)

const maxDisplayNameLen = 128

func ValidDisplayName(name string) bool {
	return utf8.RuneCountInString(name) <= maxDisplayNameLen && !strings.ContainsAny(name, "\r\n")
}

type RequestStatus string

const (
	StatusPending  RequestStatus = "pending"
	StatusAccepted RequestStatus = "accepted"
	StatusDeclined RequestStatus = "declined"
)

type Profile struct {
	UserID        string    `json:"userId"`
	Username      string    `json:"username"`
	DisplayName   string    `json:"displayName"`
	ShareWorkouts bool      `json:"shareWorkouts"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

type FriendRequest struct {
	ID           string        `json:"id"`
	FromUserID   string        `json:"fromUserId"`
	FromUsername string        `json:"fromUsername"`
	ToUserID     string        `json:"toUserId"`
	ToUsername   string        `json:"toUsername"`
	Status       RequestStatus `json:"status"`
	CreatedAt    time.Time     `json:"createdAt"`
}

type Requests struct {
	Incoming []FriendRequest `json:"incoming"`
	Outgoing []FriendRequest `json:"outgoing"`
}

type Friend struct {
	UserID      string    `json:"userId"`
	Username    string    `json:"username"`
	DisplayName string    `json:"displayName"`
	Since       time.Time `json:"since"`
}

// FeedItem is one shared day of a friend.
type FeedItem struct {
	UserID      string              `json:"userId"`
	Username    string              `json:"username"`
	DisplayName string              `json:"displayName"`
	Date        string              `json:"date"`
	Day         workouts.WorkoutDay `json:"day"`
	UpdatedAt   time.Time           `json:"updatedAt"`
}

// ShareableDay strips what friends must not see: media paths are private
// to the owner, so only flags about them are kept.
func ShareableDay(d workouts.WorkoutDay) workouts.WorkoutDay {
	out := workouts.WorkoutDay{PB: d.PB}
	for _, e := range d.Entries {
		if workouts.IsBlank(e.Title) && workouts.IsBlank(e.Notes) {
			continue
		}
		shared := workouts.WorkoutEntry{ID: e.ID, Title: e.Title, Notes: e.Notes}
		if e.Media != nil {
			shared.Media = &workouts.Media{Kind: e.Media.Kind, UpdatedAt: e.Media.UpdatedAt}
		}
		out.Entries = append(out.Entries, shared)
	}
	return out
}
