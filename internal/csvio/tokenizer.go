package csvio

import "strings"

// Tokenize splits CSV text into records. Quoted fields may contain commas,
// doubled quotes and line breaks. Both LF and CRLF end a record.
// It never fails: an unterminated quote runs to the end of the text.
func Tokenize(text string) [][]string {
	text = strings.TrimPrefix(text, utf8BOM)

	var (
		records  [][]string
		record   []string
		field    strings.Builder
		inQuotes bool
		// a record has started once any byte of it was consumed
		started bool
	)

	endField := func() {
		record = append(record, field.String())
		field.Reset()
	}
	endRecord := func() {
		endField()
		records = append(records, record)
		record = nil
		started = false
	}

	for i := 0; i < len(text); i++ {
		c := text[i]

		if inQuotes {
			if c == '"' {
				if i+1 < len(text) && text[i+1] == '"' {
					field.WriteByte('"')
					i++
					continue
				}
				inQuotes = false
				continue
			}
			field.WriteByte(c)
			continue
		}

		switch c {
		case '"':
			inQuotes = true
			started = true
		case ',':
			endField()
			started = true
		case '\r':
			if i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			endRecord()
		case '\n':
			endRecord()
		default:
			field.WriteByte(c)
			started = true
		}
	}

	if started || field.Len() > 0 || len(record) > 0 {
		endRecord()
	}
	return records
}
