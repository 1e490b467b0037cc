package mcp

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/journal"
	"github.com/2beens/gymlog/internal/workouts"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	log "github.com/sirupsen/logrus"
)

// Handler turns MCP tool calls into journal calls for a single user.
type Handler struct {
	journal workoutJournal
	userID  string
}

func NewHandler(journal workoutJournal, userID string) *Handler {
	return &Handler{
		journal: journal,
		userID:  userID,
	}
}

func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}
}

func errorResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}
}

func jsonResult(v any) *mcp.CallToolResult {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return errorResult("Error encoding response: " + err.Error())
	}
	return textResult(string(raw))
}

// TodayResult is returned by get_today.
type TodayResult struct {
	Today  string              `json:"today"`
	Exists bool                `json:"exists"`
	Day    workouts.WorkoutDay `json:"day"`
}

// GetTodayTool returns the MCP tool handler for get_today.
func (h *Handler) GetTodayTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		today := h.journal.Today()
		day, exists, err := h.journal.Day(ctx, h.userID, today)
		if err != nil {
			log.Errorf("mcp get today [%s]: %s", h.userID, err)
			return errorResult("Error loading today: " + err.Error()), nil, nil
		}
		return jsonResult(TodayResult{Today: today, Exists: exists, Day: day}), nil, nil
	}
}

// DayInput is the input for get_day and toggle_pb.
type DayInput struct {
	Date string `json:"date" jsonschema:"Day key (YYYY-MM-DD)"`
}

// GetDayTool returns the MCP tool handler for get_day.
func (h *Handler) GetDayTool() func(context.Context, *mcp.CallToolRequest, DayInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DayInput) (*mcp.CallToolResult, any, error) {
		if !datekey.Valid(in.Date) {
			return errorResult("Invalid date: use YYYY-MM-DD"), nil, nil
		}
		day, exists, err := h.journal.Day(ctx, h.userID, in.Date)
		if err != nil {
			return errorResult("Error loading day: " + err.Error()), nil, nil
		}
		if !exists {
			return textResult("No workout logged on " + in.Date), nil, nil
		}
		return jsonResult(DayRecord{Date: in.Date, Day: day}), nil, nil
	}
}

// RangeInput is the input for list_workouts.
type RangeInput struct {
	FromDate string `json:"from_date" jsonschema:"Start date (YYYY-MM-DD)"`
	ToDate   string `json:"to_date" jsonschema:"End date (YYYY-MM-DD), inclusive"`
}

// ListWorkoutsTool returns the MCP tool handler for list_workouts.
func (h *Handler) ListWorkoutsTool() func(context.Context, *mcp.CallToolRequest, RangeInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in RangeInput) (*mcp.CallToolResult, any, error) {
		if !validRange(in.FromDate, in.ToDate) {
			return errorResult("Invalid range: use YYYY-MM-DD and from_date <= to_date"), nil, nil
		}
		m, err := h.journal.Workouts(ctx, h.userID)
		if err != nil {
			return errorResult("Error loading workouts: " + err.Error()), nil, nil
		}
		return jsonResult(daysInRange(m, in.FromDate, in.ToDate)), nil, nil
	}
}

// LogEntryInput is the input for log_entry.
type LogEntryInput struct {
	Date  string `json:"date" jsonschema:"Day key (YYYY-MM-DD)"`
	Title string `json:"title" jsonschema:"Entry title (e.g. Legs)"`
	Notes string `json:"notes,omitempty" jsonschema:"Free-form notes of the entry"`
	Slot  int    `json:"slot,omitempty" jsonschema:"Entry slot 1-3 to overwrite; appended when omitted"`
}

// LogEntryTool returns the MCP tool handler for log_entry.
func (h *Handler) LogEntryTool() func(context.Context, *mcp.CallToolRequest, LogEntryInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in LogEntryInput) (*mcp.CallToolResult, any, error) {
		if !datekey.Valid(in.Date) {
			return errorResult("Invalid date: use YYYY-MM-DD"), nil, nil
		}
		if workouts.IsBlank(in.Title) && workouts.IsBlank(in.Notes) {
			return errorResult("Nothing to log: title and notes are empty"), nil, nil
		}

		day, _, err := h.journal.Day(ctx, h.userID, in.Date)
		if err != nil {
			return errorResult("Error loading day: " + err.Error()), nil, nil
		}
		entries, err := workouts.PlaceEntry(day, in.Slot, in.Title, in.Notes)
		switch {
		case errors.Is(err, workouts.ErrDayFull):
			return errorResult("Day already has 3 entries, pass a slot to overwrite one"), nil, nil
		case err != nil:
			return errorResult("Invalid slot: use 1-3, at most one past the last entry"), nil, nil
		}

		saved, err := h.journal.SaveDay(ctx, h.userID, in.Date, entries, day.PB)
		if err != nil {
			log.Errorf("mcp log entry [%s]: %s", h.userID, err)
			return errorResult("Error saving day: " + err.Error()), nil, nil
		}
		return jsonResult(DayRecord{Date: in.Date, Day: saved}), nil, nil
	}
}

// TogglePBTool returns the MCP tool handler for toggle_pb.
func (h *Handler) TogglePBTool() func(context.Context, *mcp.CallToolRequest, DayInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in DayInput) (*mcp.CallToolResult, any, error) {
		pb, err := h.journal.TogglePB(ctx, h.userID, in.Date)
		switch {
		case errors.Is(err, datekey.ErrInvalidKey):
			return errorResult("Invalid date: use YYYY-MM-DD"), nil, nil
		case errors.Is(err, workouts.ErrDayNotFound):
			return errorResult("No workout logged on " + in.Date), nil, nil
		case err != nil:
			return errorResult("Error toggling PB: " + err.Error()), nil, nil
		}
		if pb {
			return textResult(in.Date + " marked as a personal best"), nil, nil
		}
		return textResult(in.Date + " no longer marked as a personal best"), nil, nil
	}
}

// GetStreaksTool returns the MCP tool handler for get_streaks.
func (h *Handler) GetStreaksTool() func(context.Context, *mcp.CallToolRequest, any) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, _ any) (*mcp.CallToolResult, any, error) {
		stats, err := h.journal.Streaks(ctx, h.userID)
		if err != nil {
			return errorResult("Error computing streaks: " + err.Error()), nil, nil
		}
		return jsonResult(stats), nil, nil
	}
}

// StructuredInput is the input for get_structured_workout.
type StructuredInput struct {
	Date    string `json:"date" jsonschema:"Day key (YYYY-MM-DD)"`
	EntryID string `json:"entry_id" jsonschema:"Entry id (w1, w2 or w3)"`
}

// GetStructuredTool returns the MCP tool handler for get_structured_workout.
func (h *Handler) GetStructuredTool() func(context.Context, *mcp.CallToolRequest, StructuredInput) (*mcp.CallToolResult, any, error) {
	return func(ctx context.Context, _ *mcp.CallToolRequest, in StructuredInput) (*mcp.CallToolResult, any, error) {
		sw, err := h.journal.Structured(ctx, h.userID, in.Date, in.EntryID)
		switch {
		case errors.Is(err, journal.ErrStructuredNotFound):
			return textResult("Entry " + in.EntryID + " has no structured workout"), nil, nil
		case errors.Is(err, workouts.ErrDayNotFound), errors.Is(err, workouts.ErrEntryNotFound):
			return errorResult("No such entry: " + in.Date + "/" + in.EntryID), nil, nil
		case err != nil:
			return errorResult("Error loading structured workout: " + err.Error()), nil, nil
		}
		return jsonResult(sw), nil, nil
	}
}
