//go:build integration_test || all_tests

package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"

	"github.com/2beens/gymlog/internal/auth"

	"github.com/stretchr/testify/require"
)

const testUserAgent = "test-agent"

type credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// doRequest sends body as JSON when it is not nil. token may be empty.
func doRequest(ctx context.Context, t *testing.T, client *http.Client, method, path, token string, body any) *http.Response {
	t.Helper()

	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, serverEndpoint+path, reader)
	require.NoError(t, err)
	req.Header.Set("User-Agent", testUserAgent)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set(auth.TokenHeader, token)
	}

	resp, err := client.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func decodeBody[T any](t *testing.T, resp *http.Response) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&v))
	return v
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(b)
}

// registerAndLogin creates the user and returns its session token and id.
func registerAndLogin(ctx context.Context, t *testing.T, client *http.Client, username, password string) (string, string) {
	t.Helper()
	creds := credentials{Username: username, Password: password}

	resp := doRequest(ctx, t, client, http.MethodPost, "/a/register", "", creds)
	require.Equal(t, http.StatusCreated, resp.StatusCode, readBody(t, resp))

	resp = doRequest(ctx, t, client, http.MethodPost, "/a/login", "", creds)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	loginResp := decodeBody[auth.LoginResponse](t, resp)
	require.NotEmpty(t, loginResp.Token, fmt.Sprintf("login %s", username))

	return loginResp.Token, loginResp.UserID
}
