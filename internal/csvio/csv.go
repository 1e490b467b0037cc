// Package csvio exports a WorkoutMap to CSV and merges CSV files back into one.
//
// Format: header date,entry_index,title,notes with every field quoted.
// Files with the older date,title,notes header are accepted on import and
// map to entry_index 1.
package csvio

import (
	"strconv"
	"strings"

	"github.com/2beens/gymlog/internal/datekey"
	"github.com/2beens/gymlog/internal/workouts"
)

const (
	FileName = "gym-log-workouts.csv"

	utf8BOM = "\ufeff"
)

var (
	header       = []string{"date", "entry_index", "title", "notes"}
	legacyHeader = []string{"date", "title", "notes"}
)

// Export writes one row per entry with a non-blank title or notes,
// ordered by date and then slot.
func Export(m workouts.WorkoutMap) string {
	var sb strings.Builder
	sb.WriteString(strings.Join(header, ","))
	sb.WriteByte('\n')

	for _, key := range m.SortedKeys() {
		for i, e := range m[key].Entries {
			if workouts.IsBlank(e.Title) && workouts.IsBlank(e.Notes) {
				continue
			}
			writeRow(&sb, key, strconv.Itoa(i+1), e.Title, e.Notes)
		}
	}
	return sb.String()
}

func writeRow(sb *strings.Builder, fields ...string) {
	for i, f := range fields {
		if i > 0 {
			sb.WriteByte(',')
		}
		sb.WriteString(quote(f))
	}
	sb.WriteByte('\n')
}

func quote(field string) string {
	return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
}

type ImportReport struct {
	Imported int      `json:"imported"`
	Skipped  int      `json:"skipped"`
	Days     []string `json:"days"`
	// Overwritten counts slots that had content and got different content.
	Overwritten int  `json:"overwritten"`
	Legacy      bool `json:"legacy"`
}

type rowFormat int

const (
	formatUnknown rowFormat = iota
	formatCurrent
	formatLegacy
)

// Import merges text into a copy of existing. A row replaces only the slot
// it targets. Missing slots in between are padded with empty placeholders
// and slots not mentioned are left alone. Bad rows are skipped and counted,
// and so are blank rows for days not in the journal. A day left with only
// blank placeholders is dropped.
func Import(existing workouts.WorkoutMap, text string) (workouts.WorkoutMap, ImportReport) {
	out := workouts.Clone(existing)
	report := ImportReport{}

	records := Tokenize(text)
	if len(records) == 0 {
		return out, report
	}

	format := detectHeader(records[0])
	if format != formatUnknown {
		records = records[1:]
	}
	report.Legacy = format == formatLegacy

	touched := map[string]bool{}
	for _, rec := range records {
		if isBlankRecord(rec) {
			continue
		}

		rowFmt := format
		if rowFmt == formatUnknown {
			rowFmt = inferFormat(rec)
		}

		date, index, title, notes, ok := parseRow(rec, rowFmt)
		if !ok {
			report.Skipped++
			continue
		}

		if _, exists := out[date]; !exists && workouts.IsBlank(title) && workouts.IsBlank(notes) {
			// nothing to place on a day that does not exist yet
			report.Skipped++
			continue
		}

		if mergeSlot(out, date, index, title, notes) {
			report.Overwritten++
		}
		report.Imported++
		if !touched[date] {
			touched[date] = true
			report.Days = append(report.Days, date)
		}
	}

	for date := range touched {
		if !keepsContent(out[date]) {
			delete(out, date)
		}
	}

	return out, report
}

func detectHeader(rec []string) rowFormat {
	normalized := make([]string, len(rec))
	for i, f := range rec {
		if i == 0 {
			f = strings.TrimPrefix(f, utf8BOM)
		}
		normalized[i] = strings.ToLower(strings.TrimSpace(f))
	}
	switch {
	case equalFields(normalized, header):
		return formatCurrent
	case equalFields(normalized, legacyHeader):
		return formatLegacy
	default:
		return formatUnknown
	}
}

func equalFields(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func inferFormat(rec []string) rowFormat {
	if len(rec) >= 4 {
		return formatCurrent
	}
	return formatLegacy
}

func isBlankRecord(rec []string) bool {
	for _, f := range rec {
		if strings.TrimSpace(f) != "" {
			return false
		}
	}
	return true
}

func parseRow(rec []string, format rowFormat) (string, int, string, string, bool) {
	field := func(i int) string {
		if i < len(rec) {
			return rec[i]
		}
		return ""
	}

	date := strings.TrimSpace(strings.TrimPrefix(field(0), utf8BOM))
	if !datekey.Valid(date) {
		return "", 0, "", "", false
	}

	if format == formatLegacy {
		return date, 1, field(1), field(2), true
	}

	index, err := strconv.Atoi(strings.TrimSpace(field(1)))
	if err != nil || index < 1 || index > workouts.MaxEntriesPerDay {
		return "", 0, "", "", false
	}
	return date, index, field(2), field(3), true
}

// keepsContent reports whether a merged day still holds anything besides
// blank placeholder entries.
func keepsContent(d workouts.WorkoutDay) bool {
	if d.PB || d.Image != nil {
		return true
	}
	for _, e := range d.Entries {
		if !workouts.IsEmptyEntry(e) {
			return true
		}
	}
	return false
}

// mergeSlot writes title and notes into slot index (1-based) of date and
// reports whether existing content got replaced.
func mergeSlot(m workouts.WorkoutMap, date string, index int, title, notes string) bool {
	day := m[date]
	if day.Entries == nil {
		day.Entries = []workouts.WorkoutEntry{}
	}
	for len(day.Entries) < index {
		day.Entries = append(day.Entries, workouts.WorkoutEntry{ID: workouts.EntryID(len(day.Entries))})
	}

	slot := &day.Entries[index-1]
	hadContent := !workouts.IsBlank(slot.Title) || !workouts.IsBlank(slot.Notes)
	overwritten := hadContent && (slot.Title != title || slot.Notes != notes)

	slot.Title = title
	slot.Notes = notes
	m[date] = day
	return overwritten
}
