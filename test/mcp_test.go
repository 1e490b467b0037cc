//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"

	"github.com/2beens/gymlog/internal/auth"
	gymlogmcp "github.com/2beens/gymlog/internal/mcp"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// tokenTransport adds the session token and the user agent the cors
// middleware lets through.
type tokenTransport struct {
	token string
	next  http.RoundTripper
}

func (t *tokenTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	req.Header.Set(auth.TokenHeader, t.token)
	req.Header.Set("User-Agent", testUserAgent)
	return t.next.RoundTrip(req)
}

func toolText(t require.TestingT, res *mcp.CallToolResult) string {
	require.NotNil(t, res)
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(*mcp.TextContent)
	require.True(t, ok)
	return text.Text
}

func (s *IntegrationTestSuite) TestMCPOverHTTP() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	username := "agent_" + strings.ToLower(gofakeit.LetterN(8))
	token, _ := registerAndLogin(ctx, t, s.httpClient, username, "agent-password")

	client := mcp.NewClient(&mcp.Implementation{Name: "gymlog-test", Version: "test"}, nil)
	session, err := client.Connect(ctx, &mcp.StreamableClientTransport{
		Endpoint: serverEndpoint + "/mcp",
		HTTPClient: &http.Client{
			Transport: &tokenTransport{token: token, next: http.DefaultTransport},
		},
	}, nil)
	require.NoError(t, err)
	defer func() { _ = session.Close() }()

	tools, err := session.ListTools(ctx, nil)
	require.NoError(t, err)
	names := make([]string, 0, len(tools.Tools))
	for _, tool := range tools.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{
		"get_today", "get_day", "list_workouts", "log_entry",
		"toggle_pb", "get_streaks", "get_structured_workout",
	}, names)

	res, err := session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "log_entry",
		Arguments: map[string]any{"date": "2024-05-14", "title": "Push", "notes": "bench 5x5"},
	})
	require.NoError(t, err)
	assert.False(t, res.IsError, toolText(t, res))

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "log_entry",
		Arguments: map[string]any{"date": "14.05.2024", "title": "Push"},
	})
	require.NoError(t, err)
	assert.True(t, res.IsError)

	// the tool wrote into the same journal the rest api serves
	resp := doRequest(ctx, t, s.httpClient, http.MethodGet, "/workouts/day/2024-05-14", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "bench 5x5")

	res, err = session.CallTool(ctx, &mcp.CallToolParams{
		Name:      "list_workouts",
		Arguments: map[string]any{"from_date": "2024-05-01", "to_date": "2024-05-31"},
	})
	require.NoError(t, err)
	var days []gymlogmcp.DayRecord
	require.NoError(t, json.Unmarshal([]byte(toolText(t, res)), &days))
	require.Len(t, days, 1)
	assert.Equal(t, "2024-05-14", days[0].Date)
}

func (s *IntegrationTestSuite) TestMCPNeedsToken() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	resp := doRequest(ctx, t, s.httpClient, http.MethodPost, "/mcp", "", map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"method":  "tools/list",
	})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
