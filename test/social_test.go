//go:build integration_test || all_tests

package test

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/journal"
	"github.com/2beens/gymlog/internal/social"
	"github.com/2beens/gymlog/internal/workouts"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestFriendsFeed() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	aliceName := "alice_" + strings.ToLower(gofakeit.LetterN(6))
	bobName := "bob_" + strings.ToLower(gofakeit.LetterN(6))
	aliceToken, _ := registerAndLogin(ctx, t, s.httpClient, aliceName, "alice-password")
	bobToken, bobID := registerAndLogin(ctx, t, s.httpClient, bobName, "bob-password")

	resp := doRequest(ctx, t, s.httpClient, http.MethodPut, "/profile", bobToken, map[string]any{
		"displayName":   "Bob",
		"shareWorkouts": true,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	profile := decodeBody[social.Profile](t, resp)
	assert.True(t, profile.ShareWorkouts)

	resp = doRequest(ctx, t, s.httpClient, http.MethodPost, "/friends/requests", aliceToken, map[string]string{"username": aliceName})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp = doRequest(ctx, t, s.httpClient, http.MethodPost, "/friends/requests", aliceToken, map[string]string{"username": strings.ToUpper(bobName)})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	friendRequest := decodeBody[social.FriendRequest](t, resp)
	assert.Equal(t, social.StatusPending, friendRequest.Status)

	resp = doRequest(ctx, t, s.httpClient, http.MethodPost, "/friends/requests", aliceToken, map[string]string{"username": bobName})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)

	resp = doRequest(ctx, t, s.httpClient, http.MethodGet, "/friends/requests", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	requests := decodeBody[social.Requests](t, resp)
	require.Len(t, requests.Incoming, 1)
	assert.Equal(t, friendRequest.ID, requests.Incoming[0].ID)

	resp = doRequest(ctx, t, s.httpClient, http.MethodPost, "/friends/requests/"+friendRequest.ID+"/accept", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, s.httpClient, http.MethodGet, "/friends", aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	friends := decodeBody[[]social.Friend](t, resp)
	require.Len(t, friends, 1)
	assert.Equal(t, bobID, friends[0].UserID)

	today := time.Now().Format("2006-01-02")
	resp = doRequest(ctx, t, s.httpClient, http.MethodPut, "/workouts/day/"+today, bobToken, journal.SaveDayRequest{
		Entries: []workouts.WorkoutEntry{{Title: "Deadlift", Notes: "3x5 @ 140"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// publishing is async and the feed is cached briefly
	require.Eventually(t, func() bool {
		resp := doRequest(ctx, t, s.httpClient, http.MethodGet, "/feed", aliceToken, nil)
		if resp.StatusCode != http.StatusOK {
			return false
		}
		feed := decodeBody[social.FeedResponse](t, resp)
		for _, item := range feed.Items {
			if item.UserID == bobID && item.Date == today && len(item.Day.Entries) == 1 {
				return item.Day.Entries[0].Title == "Deadlift"
			}
		}
		return false
	}, 5*time.Second, 200*time.Millisecond)

	// bob's own feed holds only friends' days
	resp = doRequest(ctx, t, s.httpClient, http.MethodGet, "/feed", bobToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Empty(t, decodeBody[social.FeedResponse](t, resp).Items)

	resp = doRequest(ctx, t, s.httpClient, http.MethodDelete, "/friends/"+bobID, aliceToken, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Eventually(t, func() bool {
		resp := doRequest(ctx, t, s.httpClient, http.MethodGet, "/feed", aliceToken, nil)
		return resp.StatusCode == http.StatusOK && len(decodeBody[social.FeedResponse](t, resp).Items) == 0
	}, 5*time.Second, 200*time.Millisecond)
}
