// Package structured embeds a structured exercise table inside free text
// notes. A block is delimited by marker lines and carries a base64 JSON
// payload next to human readable bullet lines:
//
//	✎ Structured workout
//	• Push day (45 min)
//	• Bench press — 3x8 @80kg (10 min) — felt strong
//	• Note: good session
//	[[structured:eyJ3b3Jrb3V0TmFtZSI6...]]
//	✎ End structured
//
// Decoding prefers the payload. Blocks without a payload are parsed from
// the bullets on a best-effort basis: a row note containing " — " or a
// note that looks like "(…)" is misread, so that path is not a lossless
// round trip.
package structured

import (
	"bytes"
	"encoding/base64"
	"encoding/json"
	"regexp"
	"strings"

	log "github.com/sirupsen/logrus"
)

const (
	StartMarker   = "✎ Structured workout"
	EndMarker     = "✎ End structured"
	payloadPrefix = "[[structured:"
	payloadSuffix = "]]"
	bullet        = "• "
	segmentSep    = " — "
	notePrefix    = "Note: "
	defaultName   = "Workout"
)

var (
	payloadRegex  = regexp.MustCompile(`\[\[structured:([A-Za-z0-9+/=_-]*)\]\]`)
	trailingTime  = regexp.MustCompile(`\s*\(([^()]*)\)\s*$`)
	trailingAt    = regexp.MustCompile(`\s*@\s*([^@]*?)\s*$`)
	metricsRegex  = regexp.MustCompile(`^(\d*\s*[xX×]\s*\d*|\d+\s*sets?)?\s*(@\s*[^@()]+)?\s*(\([^()]*\))?$`)
	setsRepsRegex = regexp.MustCompile(`^(\d*)\s*[xX×]\s*(\d*)$`)
)

// Encode renders w as a complete block, markers included.
// Blank rows are dropped from both the bullets and the payload.
func Encode(w Workout) string {
	w.Rows = w.NonEmptyRows()

	var sb strings.Builder
	sb.WriteString(StartMarker)
	sb.WriteByte('\n')
	sb.WriteString(Render(w))
	sb.WriteString(payloadPrefix)
	sb.WriteString(base64.StdEncoding.EncodeToString(marshalPayload(w)))
	sb.WriteString(payloadSuffix)
	sb.WriteByte('\n')
	sb.WriteString(EndMarker)
	return sb.String()
}

// Render returns only the bullet lines of w, each terminated by a newline.
func Render(w Workout) string {
	var sb strings.Builder

	name := strings.TrimSpace(w.WorkoutName)
	if name == "" {
		name = defaultName
	}
	sb.WriteString(bullet)
	sb.WriteString(name)
	if t := strings.TrimSpace(w.Time); t != "" {
		sb.WriteString(" (" + t + ")")
	}
	sb.WriteByte('\n')

	for _, r := range w.NonEmptyRows() {
		sb.WriteString(bullet)
		sb.WriteString(rowLine(r))
		sb.WriteByte('\n')
	}

	if n := strings.TrimSpace(w.SessionNotes); n != "" {
		sb.WriteString(bullet + notePrefix + n + "\n")
	}

	return sb.String()
}

func rowLine(r Row) string {
	var metrics []string
	sets, reps := strings.TrimSpace(r.Sets), strings.TrimSpace(r.Reps)
	if sets != "" || reps != "" {
		metrics = append(metrics, sets+"x"+reps)
	}
	if weight := strings.TrimSpace(r.Weight); weight != "" {
		metrics = append(metrics, "@"+weight)
	}
	if t := strings.TrimSpace(r.Time); t != "" {
		metrics = append(metrics, "("+t+")")
	}

	var segments []string
	for _, seg := range []string{
		strings.TrimSpace(r.Name),
		strings.Join(metrics, " "),
		strings.TrimSpace(r.Note),
	} {
		if seg != "" {
			segments = append(segments, seg)
		}
	}
	return strings.Join(segments, segmentSep)
}

func marshalPayload(w Workout) []byte {
	if w.Rows == nil {
		w.Rows = []Row{}
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(w); err != nil {
		// plain strings only, cannot happen
		log.Errorf("structured: marshal payload: %s", err)
		return []byte("{}")
	}
	return bytes.TrimRight(buf.Bytes(), "\n")
}

// Decode extracts the structured workout from notes, or nil when there is no block.
func Decode(notes string) *Workout {
	b, ok := FindBlock(notes)
	if !ok {
		return nil
	}
	body := notes[b.Start:b.End]

	if w := decodePayload(body); w != nil {
		return w
	}
	return parseBullets(body)
}

func decodePayload(body string) *Workout {
	m := payloadRegex.FindStringSubmatch(body)
	if m == nil {
		return nil
	}
	raw, err := base64.StdEncoding.DecodeString(m[1])
	if err != nil {
		// blocks copied through URL-safe tooling
		raw, err = base64.URLEncoding.DecodeString(m[1])
	}
	if err != nil {
		log.Debugf("structured: payload not base64: %s", err)
		return nil
	}
	var generic any
	if err := json.Unmarshal(raw, &generic); err != nil {
		log.Debugf("structured: payload not json: %s", err)
		return nil
	}
	w := FromAny(generic)
	if w == nil {
		return nil
	}
	if w.Rows == nil {
		w.Rows = []Row{}
	}
	return w
}

func parseBullets(body string) *Workout {
	var (
		w         Workout
		seenFirst bool
	)
	for _, line := range strings.Split(body, "\n") {
		line = strings.TrimSpace(strings.TrimRight(line, "\r"))
		if !strings.HasPrefix(line, bullet) {
			continue
		}
		content := strings.TrimSpace(strings.TrimPrefix(line, bullet))

		if !seenFirst {
			seenFirst = true
			w.WorkoutName, w.Time = peelTime(content)
			continue
		}
		if strings.HasPrefix(content, notePrefix) {
			w.SessionNotes = strings.TrimSpace(strings.TrimPrefix(content, notePrefix))
			continue
		}
		w.Rows = append(w.Rows, parseRowLine(content))
	}

	if !seenFirst {
		return nil
	}
	if w.WorkoutName == defaultName {
		w.WorkoutName = ""
	}
	if w.Rows == nil {
		w.Rows = []Row{}
	}
	return &w
}

func parseRowLine(content string) Row {
	segments := strings.Split(content, segmentSep)
	row := Row{Name: strings.TrimSpace(segments[0])}
	rest := segments[1:]

	if len(rest) > 0 && strings.TrimSpace(rest[0]) != "" && metricsRegex.MatchString(strings.TrimSpace(rest[0])) {
		metrics := strings.TrimSpace(rest[0])
		rest = rest[1:]

		metrics, row.Time = peelTime(metrics)
		if m := trailingAt.FindStringSubmatchIndex(metrics); m != nil {
			row.Weight = strings.TrimSpace(metrics[m[2]:m[3]])
			metrics = strings.TrimSpace(metrics[:m[0]])
		}
		if m := setsRepsRegex.FindStringSubmatch(metrics); m != nil {
			row.Sets, row.Reps = m[1], m[2]
		} else if metrics != "" {
			row.Sets = strings.TrimSpace(strings.TrimSuffix(strings.TrimSuffix(metrics, "s"), " set"))
		}
	}

	if len(rest) > 0 {
		row.Note = strings.TrimSpace(strings.Join(rest, segmentSep))
	}
	return row
}

func peelTime(s string) (string, string) {
	if m := trailingTime.FindStringSubmatchIndex(s); m != nil {
		return strings.TrimSpace(s[:m[0]]), strings.TrimSpace(s[m[2]:m[3]])
	}
	return strings.TrimSpace(s), ""
}
