package auth

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/gymlog/pkg"

	"github.com/go-redis/redis/v8"
	log "github.com/sirupsen/logrus"
)

const (
	DefaultTTL       = 24 * 7 * time.Hour
	sessionKeyPrefix = "gymlog-session||"
	tokensSetKey     = "gymlog-sessions"

	minPasswordLen = 8
)

var usernameRegex = regexp.MustCompile(`^[a-z0-9_.-]{3,32}$`)

type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type usersRepo interface {
	Create(ctx context.Context, username, passwordHash string) (*User, error)
	GetByUsername(ctx context.Context, username string) (*User, error)
	Delete(ctx context.Context, id string) error
}

type Service struct {
	redisClient *redis.Client
	users       usersRepo
	ttl         time.Duration
	// ability to inject random string generator func for tokens (for unit and dev testing)
	RandStringFunc func(s int) (string, error)
}

func NewAuthService(
	users usersRepo,
	ttl time.Duration,
	redisClient *redis.Client,
) *Service {
	return &Service{
		users:          users,
		ttl:            ttl,
		redisClient:    redisClient,
		RandStringFunc: pkg.GenerateRandomString,
	}
}

// sessionValue is stored under the session key: "{userID}|{createdAt unix}".
func sessionValue(userID string, createdAt time.Time) string {
	return fmt.Sprintf("%s|%d", userID, createdAt.Unix())
}

func parseSessionValue(val string) (string, time.Time, error) {
	userID, createdAtStr, ok := strings.Cut(val, "|")
	if !ok || userID == "" {
		return "", time.Time{}, ErrSessionInvalid
	}
	createdAtUnix, err := strconv.ParseInt(createdAtStr, 10, 64)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %s", ErrSessionInvalid, err)
	}
	return userID, time.Unix(createdAtUnix, 0), nil
}

func NormalizeUsername(username string) string {
	return strings.ToLower(strings.TrimSpace(username))
}

func (as *Service) Register(ctx context.Context, creds Credentials) (*User, error) {
	username := NormalizeUsername(creds.Username)
	if !usernameRegex.MatchString(username) || len(creds.Password) < minPasswordLen {
		return nil, ErrInvalidUser
	}

	hash, err := pkg.HashPassword(creds.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	return as.users.Create(ctx, username, hash)
}

func (as *Service) Login(ctx context.Context, creds Credentials, createdAt time.Time) (string, *User, error) {
	user, err := as.users.GetByUsername(ctx, NormalizeUsername(creds.Username))
	if err != nil {
		return "", nil, err
	}
	if !pkg.CheckPasswordHash(creds.Password, user.PasswordHash) {
		return "", nil, ErrWrongPassword
	}

	token, err := as.RandStringFunc(35)
	if err != nil {
		return "", nil, err
	}

	sessionKey := sessionKeyPrefix + token
	cmdSet := as.redisClient.Set(ctx, sessionKey, sessionValue(user.ID, createdAt), 0)
	if err := cmdSet.Err(); err != nil {
		return "", nil, err
	}

	// add token to list of sessions
	cmdSAdd := as.redisClient.SAdd(ctx, tokensSetKey, token)
	if err := cmdSAdd.Err(); err != nil {
		return "", nil, err
	}

	return token, user, nil
}

func (as *Service) Logout(ctx context.Context, token string) (bool, error) {
	sessionKey := sessionKeyPrefix + token
	cmd := as.redisClient.Get(ctx, sessionKey)
	if err := cmd.Err(); err != nil {
		return false, err
	}

	if _, _, err := parseSessionValue(cmd.Val()); err != nil {
		return false, err
	}

	if err := as.revoke(ctx, token); err != nil {
		return false, err
	}
	return true, nil
}

func (as *Service) revoke(ctx context.Context, token string) error {
	if err := as.redisClient.Del(ctx, sessionKeyPrefix+token).Err(); err != nil {
		return err
	}
	// remove token from the list of sessions
	return as.redisClient.SRem(ctx, tokensSetKey, token).Err()
}

// DeleteAccount removes the user and revokes all of their sessions.
func (as *Service) DeleteAccount(ctx context.Context, userID string) error {
	if err := as.users.Delete(ctx, userID); err != nil {
		return err
	}

	tokens, err := as.redisClient.SMembers(ctx, tokensSetKey).Result()
	if err != nil {
		return fmt.Errorf("list sessions: %w", err)
	}
	for _, token := range tokens {
		val, err := as.redisClient.Get(ctx, sessionKeyPrefix+token).Result()
		if err != nil && !errors.Is(err, redis.Nil) {
			log.Errorf("=> auth service, delete account, get session %s: %s", token, err)
			continue
		}
		sessionUserID, _, _ := parseSessionValue(val)
		if err == nil && sessionUserID != userID {
			continue
		}
		if err := as.revoke(ctx, token); err != nil {
			log.Errorf("=> auth service, delete account, revoke %s: %s", token, err)
		}
	}
	return nil
}

// ScanAndClean will run through all sessions, check the TTL, and clean them if old
func (as *Service) ScanAndClean(ctx context.Context) {
	cmd := as.redisClient.SMembers(ctx, tokensSetKey)
	if err := cmd.Err(); err != nil {
		log.Errorf("!!! auth service, scan and clean, get sessions: %s", err)
		return
	}

	sessionTokens := cmd.Val()
	if len(sessionTokens) == 0 {
		log.Debugln("=> auth service, scan and clean abort, no sessions")
		return
	}

	log.Debugf("=> auth service, scan and clean [%d sessions] start ...", len(sessionTokens))
	var toRemove []string
	for _, token := range sessionTokens {
		sessionKey := sessionKeyPrefix + token
		cmd := as.redisClient.Get(ctx, sessionKey)
		if err := cmd.Err(); err != nil {
			if errors.Is(err, redis.Nil) {
				toRemove = append(toRemove, token)
				continue
			}
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			continue
		}

		_, createdAt, err := parseSessionValue(cmd.Val())
		if err != nil {
			log.Errorf("=> auth service, scan and clean token %s: %s", token, err)
			toRemove = append(toRemove, token)
			continue
		}

		if time.Since(createdAt) > as.ttl {
			log.Debugf("=>\twill clean the session with token: %s", token)
			toRemove = append(toRemove, token)
		}
	}

	for _, token := range toRemove {
		if err := as.revoke(ctx, token); err != nil {
			log.Errorf("=> auth service, clean token %s: %s", token, err)
		}
	}
}
