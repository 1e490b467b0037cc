//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/backup"
	"github.com/2beens/gymlog/internal/journal"
	"github.com/2beens/gymlog/internal/workouts"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestUnauthorized() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for _, path := range []string{"/workouts", "/workouts/streaks", "/feed", "/settings"} {
		resp := doRequest(ctx, t, s.httpClient, http.MethodGet, path, "", nil)
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode, path)
	}
	resp := doRequest(ctx, t, s.httpClient, http.MethodGet, "/workouts", "not-a-token", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func (s *IntegrationTestSuite) TestJournalRoundTrip() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	username := "lifter_" + strings.ToLower(gofakeit.LetterN(8))
	token, userID := registerAndLogin(ctx, t, s.httpClient, username, gofakeit.Password(true, true, true, false, false, 12))

	resp := doRequest(ctx, t, s.httpClient, http.MethodGet, "/workouts", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	initial := decodeBody[journal.WorkoutsResponse](t, resp)
	assert.Empty(t, initial.Workouts)
	today := initial.Today

	yesterday := time.Now().AddDate(0, 0, -1).Format("2006-01-02")
	for _, date := range []string{yesterday, today} {
		resp = doRequest(ctx, t, s.httpClient, http.MethodPut, "/workouts/day/"+date, token, journal.SaveDayRequest{
			Entries: []workouts.WorkoutEntry{
				{Title: "Push", Notes: "bench 5x5"},
				{Title: "  ", Notes: ""},
				{Title: "Cardio", Notes: "20 min"},
			},
		})
		require.Equal(t, http.StatusOK, resp.StatusCode)
		saved := decodeBody[journal.DayResponse](t, resp)
		require.Len(t, saved.Day.Entries, 2)
		assert.Equal(t, "w2", saved.Day.Entries[1].ID)
	}

	resp = doRequest(ctx, t, s.httpClient, http.MethodPost, "/workouts/day/"+today+"/pb", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, s.httpClient, http.MethodGet, "/workouts/streaks", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	stats := decodeBody[workouts.Stats](t, resp)
	assert.Equal(t, 2, stats.CurrentStreak)
	assert.Equal(t, 2, stats.TotalDays)
	assert.Equal(t, today, stats.LastWorkout)

	resp = doRequest(ctx, t, s.httpClient, http.MethodGet, "/workouts/export.csv", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	csv := readBody(t, resp)
	assert.Contains(t, csv, "bench 5x5")
	assert.Equal(t, 5, strings.Count(strings.TrimSpace(csv), "\n")+1, csv)

	now := time.Now()
	resp = doRequest(ctx, t, s.httpClient, http.MethodGet, fmt.Sprintf("/calendar/%d/%d", now.Year(), now.Month()), token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), `"today":"`+today+`"`)

	// the debounced backup lands in postgres
	require.Eventually(t, func() bool {
		var days int
		err := s.DB.QueryRowContext(ctx, "SELECT days FROM backups WHERE user_id = $1", userID).Scan(&days)
		return err == nil && days == 2
	}, 5*time.Second, 100*time.Millisecond)

	resp = doRequest(ctx, t, s.httpClient, http.MethodGet, "/backup", token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	info := decodeBody[backup.Backup](t, resp)
	assert.Equal(t, 2, info.Days)
	assert.NotZero(t, info.ContentHash)

	resp = doRequest(ctx, t, s.httpClient, http.MethodPost, "/backup/restore", token, nil)
	assert.Equal(t, http.StatusPreconditionRequired, resp.StatusCode)

	resp = doRequest(ctx, t, s.httpClient, http.MethodPost, "/backup/restore", token, map[string]bool{"confirm": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	restored := decodeBody[journal.WorkoutsResponse](t, resp)
	assert.Len(t, restored.Workouts, 2)
}

func (s *IntegrationTestSuite) TestDeleteAccount() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	username := "leaver_" + strings.ToLower(gofakeit.LetterN(8))
	password := "password-" + gofakeit.LetterN(6)
	token, userID := registerAndLogin(ctx, t, s.httpClient, username, password)

	resp := doRequest(ctx, t, s.httpClient, http.MethodPut, "/workouts/day/2024-05-14", token, journal.SaveDayRequest{
		Entries: []workouts.WorkoutEntry{{Title: "Legs"}},
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp = doRequest(ctx, t, s.httpClient, http.MethodDelete, "/a/account", token, nil)
	assert.Equal(t, http.StatusPreconditionRequired, resp.StatusCode)

	resp = doRequest(ctx, t, s.httpClient, http.MethodDelete, "/a/account", token, map[string]bool{"confirm": true})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var users int
	require.NoError(t, s.DB.QueryRowContext(ctx, "SELECT count(*) FROM users WHERE id = $1", userID).Scan(&users))
	assert.Zero(t, users)

	resp = doRequest(ctx, t, s.httpClient, http.MethodPost, "/a/login", "", credentials{Username: username, Password: password})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
}
