package mcp

import (
	"net/http"

	"github.com/2beens/gymlog/internal/auth"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

// NewServer builds an MCP server whose tools read and write the journal of userID.
func NewServer(journal workoutJournal, userID string) *mcp.Server {
	h := NewHandler(journal, userID)
	s := mcp.NewServer(&mcp.Implementation{
		Name:    "gymlog",
		Version: "1.0.0",
	}, nil)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_today",
		Description: "Returns today's day key (YYYY-MM-DD, local time) and the workout logged today, if any.",
	}, h.GetTodayTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_day",
		Description: "Returns the workout logged on a given day: up to 3 entries (title, notes, media) and the PB flag. Arg: date (YYYY-MM-DD).",
	}, h.GetDayTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "list_workouts",
		Description: "Returns all logged days within a date range, oldest first. Args: from_date, to_date (YYYY-MM-DD, inclusive). Use to review training over a period.",
	}, h.ListWorkoutsTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "log_entry",
		Description: "Logs a workout entry on a day. Args: date (YYYY-MM-DD), title; optional: notes, slot (1-3) to overwrite an existing entry. Without a slot the entry is appended, a day holds at most 3 entries.",
	}, h.LogEntryTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "toggle_pb",
		Description: "Toggles the personal best flag of a logged day. Arg: date (YYYY-MM-DD).",
	}, h.TogglePBTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_streaks",
		Description: "Returns current streak, best streak, total workout days and the last workout day.",
	}, h.GetStreaksTool())

	mcp.AddTool(s, &mcp.Tool{
		Name:        "get_structured_workout",
		Description: "Returns the structured workout (name, time, session notes, exercise rows with sets/reps/weight) embedded in an entry's notes. Args: date (YYYY-MM-DD), entry_id (w1-w3).",
	}, h.GetStructuredTool())

	return s
}

// NewHTTPHandler serves MCP over streamable HTTP. Every request gets a
// server bound to the user the auth middleware put into its context.
func NewHTTPHandler(journal workoutJournal) http.Handler {
	return mcp.NewStreamableHTTPHandler(func(r *http.Request) *mcp.Server {
		userID, ok := auth.UserIDFromContext(r.Context())
		if !ok {
			log.Tracef("mcp: request without a user")
			return nil
		}
		return NewServer(journal, userID)
	}, &mcp.StreamableHTTPOptions{
		Stateless: true,
	})
}
