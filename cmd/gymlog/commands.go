package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/2beens/gymlog/internal/calendar"
	"github.com/2beens/gymlog/internal/csvio"
	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/journal"
	"github.com/2beens/gymlog/internal/snapshot"
	"github.com/2beens/gymlog/internal/workouts"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// dateArg resolves "today" and "yesterday", anything else must be a date key.
func dateArg(j *journal.Service, arg string) (string, error) {
	switch arg {
	case "", "today":
		return j.Today(), nil
	case "yesterday":
		return datekey.AddDays(j.Today(), -1)
	}
	if !datekey.Valid(arg) {
		return "", fmt.Errorf("invalid date [%s], use YYYY-MM-DD", arg)
	}
	return arg, nil
}

func optionalArg(args []string) string {
	if len(args) == 0 {
		return ""
	}
	return args[0]
}

var showCmd = &cobra.Command{
	Use:   "show [date]",
	Short: "Show the workouts of a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, closeJournal, err := localJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		date, err := dateArg(j, optionalArg(args))
		if err != nil {
			return err
		}
		day, ok, err := j.Day(cmd.Context(), localUser, date)
		if err != nil {
			return err
		}
		if !ok {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "no workout logged on %s\n", date)
			return nil
		}
		printDay(cmd.OutOrStdout(), date, day)
		return nil
	},
}

var logCmd = &cobra.Command{
	Use:   "log [date]",
	Short: "Log a workout entry (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		title, _ := cmd.Flags().GetString("title")
		notes, _ := cmd.Flags().GetString("notes")
		slot, _ := cmd.Flags().GetInt("slot")
		if workouts.IsBlank(title) && workouts.IsBlank(notes) {
			return errors.New("nothing to log, set --title or --notes")
		}

		j, closeJournal, err := localJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		date, err := dateArg(j, optionalArg(args))
		if err != nil {
			return err
		}
		day, _, err := j.Day(cmd.Context(), localUser, date)
		if err != nil {
			return err
		}
		entries, err := workouts.PlaceEntry(day, slot, title, notes)
		if err != nil {
			return fmt.Errorf("log entry: %w", err)
		}
		saved, err := j.SaveDay(cmd.Context(), localUser, date, entries, day.PB)
		if err != nil {
			return err
		}
		printDay(cmd.OutOrStdout(), date, saved)
		return nil
	},
}

var pbCmd = &cobra.Command{
	Use:   "pb [date]",
	Short: "Toggle the personal best flag of a day (default today)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		j, closeJournal, err := localJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		date, err := dateArg(j, optionalArg(args))
		if err != nil {
			return err
		}
		pb, err := j.TogglePB(cmd.Context(), localUser, date)
		if err != nil {
			return err
		}
		if pb {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s marked as a personal best\n", date)
		} else {
			_, _ = fmt.Fprintf(cmd.OutOrStdout(), "%s is no longer a personal best\n", date)
		}
		return nil
	},
}

var streaksCmd = &cobra.Command{
	Use:   "streaks",
	Short: "Show the current and best streak",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, closeJournal, err := localJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		stats, err := j.Streaks(cmd.Context(), localUser)
		if err != nil {
			return err
		}
		printStats(cmd.OutOrStdout(), stats)
		return nil
	},
}

// parseMonth reads YYYY-MM. Empty means the month of today.
func parseMonth(arg, today string) (int, time.Month, error) {
	if arg == "" {
		arg = today[:7]
	}
	parts := strings.Split(arg, "-")
	if len(parts) != 2 || len(parts[0]) != 4 || len(parts[1]) != 2 {
		return 0, 0, fmt.Errorf("invalid month [%s], use YYYY-MM", arg)
	}
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("invalid year [%s]", parts[0])
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil || month < 1 || month > 12 {
		return 0, 0, fmt.Errorf("invalid month [%s]", parts[1])
	}
	return year, time.Month(month), nil
}

var calendarCmd = &cobra.Command{
	Use:   "calendar [YYYY-MM]",
	Short: "Print the month calendar",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		weekStart, _ := cmd.Flags().GetString("week-start")
		scope, _ := cmd.Flags().GetString("scope")
		selected, _ := cmd.Flags().GetString("selected")
		if weekStart != "" && !workouts.ValidWeekStart(weekStart) {
			return fmt.Errorf("invalid week start [%s]", weekStart)
		}
		if scope != calendar.ScopeMonth && scope != calendar.ScopeWeek {
			return fmt.Errorf("invalid scope [%s]", scope)
		}

		j, closeJournal, err := localJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		year, month, err := parseMonth(optionalArg(args), j.Today())
		if err != nil {
			return err
		}
		if weekStart == "" {
			settings, err := j.Settings(cmd.Context(), localUser)
			if err != nil {
				return err
			}
			weekStart = settings.WeekStart
			if !workouts.ValidWeekStart(weekStart) {
				weekStart = cliConfig.DefaultWeekStart
			}
		}

		view, err := j.Calendar(cmd.Context(), localUser, journal.CalendarParams{
			Year:      year,
			Month:     month,
			WeekStart: weekStart,
			Scope:     scope,
			Selected:  selected,
		})
		if err != nil {
			return err
		}
		printCalendar(cmd.OutOrStdout(), view)
		return nil
	},
}

var exportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the journal as CSV",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")

		j, closeJournal, err := localJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		text, err := j.ExportCSV(cmd.Context(), localUser)
		if err != nil {
			return err
		}
		if out == "" {
			_, err := fmt.Fprint(cmd.OutOrStdout(), text)
			return err
		}
		if err := os.WriteFile(out, []byte(text), 0o600); err != nil {
			return fmt.Errorf("write export: %w", err)
		}
		log.Infof("exported journal to %s", out)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Merge a CSV export into the journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		content, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read import file: %w", err)
		}

		j, closeJournal, err := localJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		report, err := importCSV(cmd, j, string(content), yes)
		if err != nil {
			return err
		}
		printReport(cmd, report)
		return nil
	},
}

// importCSV tries without overwriting first and asks before replacing
// existing entries.
func importCSV(cmd *cobra.Command, j *journal.Service, text string, yes bool) (csvio.ImportReport, error) {
	ctx := cmd.Context()
	report, err := j.ImportCSV(ctx, localUser, text, yes)
	if !errors.Is(err, journal.ErrConfirmationRequired) {
		return report, err
	}

	question := fmt.Sprintf("import would overwrite %d existing entries, continue?", report.Overwritten)
	if err := confirm(cmd.ErrOrStderr(), question); err != nil {
		return report, err
	}
	return j.ImportCSV(ctx, localUser, text, true)
}

func printReport(cmd *cobra.Command, report csvio.ImportReport) {
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "imported %d rows, skipped %d", report.Imported, report.Skipped)
	if report.Overwritten > 0 {
		_, _ = fmt.Fprintf(out, ", overwrote %d entries", report.Overwritten)
	}
	_, _ = fmt.Fprintln(out)
	if report.Legacy {
		_, _ = fmt.Fprintln(out, "read as the legacy single-entry format")
	}
}

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change settings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		j, closeJournal, err := localJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		settings, err := j.Settings(cmd.Context(), localUser)
		if err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "week start: %s\n", settings.WeekStart)
		return nil
	},
}

var settingsWeekStartCmd = &cobra.Command{
	Use:       "week-start <sunday|monday>",
	Short:     "Set the first day of the calendar week",
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{workouts.WeekStartSunday, workouts.WeekStartMonday},
	RunE: func(cmd *cobra.Command, args []string) error {
		weekStart := strings.ToLower(args[0])
		if !workouts.ValidWeekStart(weekStart) {
			return fmt.Errorf("invalid week start [%s]", args[0])
		}

		j, closeJournal, err := localJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		if err := j.SaveSettings(cmd.Context(), localUser, workouts.Settings{WeekStart: weekStart}); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "week start: %s\n", weekStart)
		return nil
	},
}

var snapshotCmd = &cobra.Command{
	Use:   "snapshot",
	Short: "Encrypted journal snapshots",
}

var snapshotSaveCmd = &cobra.Command{
	Use:   "save <file>",
	Short: "Write an age encrypted snapshot of the journal",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keys, _ := cmd.Flags().GetStringSlice("recipient")
		armored, _ := cmd.Flags().GetBool("armor")
		recipients, err := snapshot.ParseRecipients(keys)
		if err != nil {
			return err
		}

		j, closeJournal, err := localJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		s, err := currentSnapshot(cmd.Context(), j)
		if err != nil {
			return err
		}

		f, err := os.OpenFile(args[0], os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600)
		if err != nil {
			return fmt.Errorf("create snapshot file: %w", err)
		}
		if err := snapshot.Write(f, s, armored, recipients...); err != nil {
			_ = f.Close()
			return err
		}
		if err := f.Close(); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "saved %d days to %s\n", len(s.Workouts), args[0])
		return nil
	},
}

func currentSnapshot(ctx context.Context, j *journal.Service) (snapshot.Snapshot, error) {
	m, err := j.Workouts(ctx, localUser)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	settings, err := j.Settings(ctx, localUser)
	if err != nil {
		return snapshot.Snapshot{}, err
	}
	return snapshot.New(m, settings, time.Now()), nil
}

var snapshotLoadCmd = &cobra.Command{
	Use:   "load <file>",
	Short: "Replace the journal with a snapshot",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		identityPath, _ := cmd.Flags().GetString("identity")
		yes, _ := cmd.Flags().GetBool("yes")
		identities, err := snapshot.ReadIdentityFile(identityPath)
		if err != nil {
			return err
		}

		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("open snapshot: %w", err)
		}
		defer func() { _ = f.Close() }()

		s, err := snapshot.Read(f, identities...)
		if err != nil {
			return err
		}

		if !yes {
			question := fmt.Sprintf("replace the journal with %d days from %s?", len(s.Workouts), s.CreatedAt.Format(time.RFC3339))
			if err := confirm(cmd.ErrOrStderr(), question); err != nil {
				return err
			}
		}

		j, closeJournal, err := localJournal()
		if err != nil {
			return err
		}
		defer closeJournal()

		raw, err := json.Marshal(s.Workouts)
		if err != nil {
			return err
		}
		m, err := j.ReplaceWorkouts(cmd.Context(), localUser, raw)
		if err != nil {
			return err
		}
		if err := j.SaveSettings(cmd.Context(), localUser, s.Settings); err != nil {
			return err
		}
		_, _ = fmt.Fprintf(cmd.OutOrStdout(), "loaded %d days\n", len(m))
		return nil
	},
}

func init() {
	logCmd.Flags().String("title", "", "entry title")
	logCmd.Flags().String("notes", "", "entry notes")
	logCmd.Flags().Int("slot", 0, fmt.Sprintf("entry slot 1..%d to overwrite (default: append)", workouts.MaxEntriesPerDay))

	calendarCmd.Flags().String("week-start", "", "sunday or monday (default from settings)")
	calendarCmd.Flags().String("scope", calendar.ScopeMonth, "entries listed below the grid: month or week")
	calendarCmd.Flags().String("selected", "", "selected date, anchors the week scope")

	exportCmd.Flags().String("out", "", fmt.Sprintf("output file, e.g. %s (default stdout)", csvio.FileName))

	importCmd.Flags().Bool("yes", false, "overwrite existing entries without asking")

	settingsCmd.AddCommand(settingsWeekStartCmd)

	snapshotSaveCmd.Flags().StringSlice("recipient", nil, "age recipient public key (age1...), repeatable")
	snapshotSaveCmd.Flags().Bool("armor", false, "write PEM armored text")
	_ = snapshotSaveCmd.MarkFlagRequired("recipient")

	snapshotLoadCmd.Flags().String("identity", "", "age identity file")
	snapshotLoadCmd.Flags().Bool("yes", false, "replace without asking")
	_ = snapshotLoadCmd.MarkFlagRequired("identity")

	snapshotCmd.AddCommand(snapshotSaveCmd, snapshotLoadCmd)
}
