// Package media stores photos and videos attached to journal entries.
package media

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime"
	"path"
	"strings"

	"github.com/2beens/gymlog/internal/workouts"
)

var (
	ErrObjectNotFound     = errors.New("media object not found")
	ErrInvalidKey         = errors.New("invalid media key")
	ErrUnsupportedContent = errors.New("unsupported media content type")
)

// Store keeps media objects under keys of the form {userId}/{date}/{entryId}.{ext}.
type Store interface {
	Put(ctx context.Context, key string, body io.Reader, size int64, contentType string) error
	Delete(ctx context.Context, key string) error
	// URL returns an address a client can fetch the object from.
	URL(ctx context.Context, key string) (string, error)
	DeletePrefix(ctx context.Context, prefix string) error
}

func ObjectKey(userID, date, entryID, ext string) string {
	ext = strings.TrimPrefix(strings.ToLower(ext), ".")
	return fmt.Sprintf("%s/%s/%s.%s", userID, date, entryID, ext)
}

// UserPrefix is the key prefix holding every object of a user.
func UserPrefix(userID string) string {
	return userID + "/"
}

// ValidKey rejects keys that could escape a user's folder.
func ValidKey(key string) bool {
	if key == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "\\") {
		return false
	}
	for _, part := range strings.Split(key, "/") {
		if part == "" || part == "." || part == ".." {
			return false
		}
	}
	return path.Clean(key) == key
}

// OwnedBy reports whether key lives under the user's prefix.
func OwnedBy(key, userID string) bool {
	return ValidKey(key) && strings.HasPrefix(key, UserPrefix(userID))
}

var extensions = map[string]string{
	"image/jpeg":      "jpg",
	"image/png":       "png",
	"image/gif":       "gif",
	"image/webp":      "webp",
	"image/heic":      "heic",
	"video/mp4":       "mp4",
	"video/quicktime": "mov",
	"video/webm":      "webm",
}

// Classify maps a content type to a media kind and a file extension.
func Classify(contentType string) (workouts.MediaKind, string, error) {
	mediaType, _, err := mime.ParseMediaType(contentType)
	if err != nil {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedContent, contentType)
	}
	ext, ok := extensions[mediaType]
	if !ok {
		return "", "", fmt.Errorf("%w: %s", ErrUnsupportedContent, mediaType)
	}
	if strings.HasPrefix(mediaType, "video/") {
		return workouts.MediaVideo, ext, nil
	}
	return workouts.MediaImage, ext, nil
}
