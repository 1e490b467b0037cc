package auth

import "context"

var _ Checker = (*LoginChecker)(nil)
var _ Checker = (*LoginTestChecker)(nil)

type Checker interface {
	IsLogged(ctx context.Context, token string) (userID string, logged bool, err error)
}

type ctxKeyUserID struct{}

func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, ctxKeyUserID{}, userID)
}

// UserIDFromContext returns the id the auth middleware attached to the request context.
func UserIDFromContext(ctx context.Context) (string, bool) {
	userID, ok := ctx.Value(ctxKeyUserID{}).(string)
	return userID, ok && userID != ""
}

type LoginTestChecker struct {
	// token -> user id
	LoggedSessions map[string]string
}

func NewLoginTestChecker() *LoginTestChecker {
	return &LoginTestChecker{
		map[string]string{},
	}
}

func (c *LoginTestChecker) IsLogged(_ context.Context, token string) (string, bool, error) {
	userID, ok := c.LoggedSessions[token]
	return userID, ok, nil
}
