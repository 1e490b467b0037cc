package structured

import "strings"

// Block is the byte range of a structured block inside notes, from the
// start marker up to the end of the end marker line (or the end of the text).
type Block struct {
	Start int
	End   int
}

// FindBlock locates the first start marker and the first end marker at or
// after it. A missing end marker makes the block run to the end of notes.
func FindBlock(notes string) (Block, bool) {
	start := strings.Index(notes, StartMarker)
	if start < 0 {
		return Block{}, false
	}

	after := start + len(StartMarker)
	rel := strings.Index(notes[after:], EndMarker)
	if rel < 0 {
		return Block{Start: start, End: len(notes)}, true
	}

	end := after + rel + len(EndMarker)
	// swallow the rest of the end marker line
	if nl := strings.IndexByte(notes[end:], '\n'); nl >= 0 {
		if strings.TrimSpace(notes[end:end+nl]) == "" {
			end += nl
		}
	} else if strings.TrimSpace(notes[end:]) == "" {
		end = len(notes)
	}
	return Block{Start: start, End: end}, true
}

// HasBlock reports whether notes contain a structured block.
func HasBlock(notes string) bool {
	_, ok := FindBlock(notes)
	return ok
}

// UpsertBlock replaces the existing block with the encoding of w, or appends
// it after the free text separated by one blank line.
func UpsertBlock(notes string, w Workout) string {
	encoded := Encode(w)
	b, ok := FindBlock(notes)
	if !ok {
		return joinSeam(notes, encoded)
	}
	return joinSeam(joinSeam(notes[:b.Start], encoded), notes[b.End:])
}

// RemoveBlock cuts the block out of notes, leaving at most one blank line
// where it used to be.
func RemoveBlock(notes string) string {
	b, ok := FindBlock(notes)
	if !ok {
		return notes
	}
	return joinSeam(notes[:b.Start], notes[b.End:])
}

// StripBlock returns notes without the block and without surrounding blank space.
// Used when only the free text part is of interest.
func StripBlock(notes string) string {
	return strings.TrimSpace(RemoveBlock(notes))
}

func joinSeam(before, after string) string {
	before = strings.TrimRight(before, " \t\r\n")
	after = trimLeadingBlankLines(after)
	switch {
	case before == "":
		return after
	case after == "":
		return before
	default:
		return before + "\n\n" + after
	}
}

func trimLeadingBlankLines(s string) string {
	for {
		nl := strings.IndexByte(s, '\n')
		if nl < 0 {
			if strings.TrimSpace(s) == "" {
				return ""
			}
			return s
		}
		if strings.TrimSpace(s[:nl]) != "" {
			return s
		}
		s = s[nl+1:]
	}
}
