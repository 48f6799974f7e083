package csvload

import "strings"

// ParseLine splits a single CSV line into fields.
//
// A double quote toggles quoted mode, in which commas are field data.
// Doubled quotes inside a quoted field are not unescaped.
// A line ending in a comma yields a trailing empty field.
func ParseLine(line string) []string {
	var (
		fields   []string
		current  strings.Builder
		inQuotes bool
	)

	// ',' and '"' are single bytes in UTF-8, so byte iteration is safe.
	for i := 0; i < len(line); i++ {
		c := line[i]
		switch {
		case c == '"':
			inQuotes = !inQuotes
		case c == ',' && !inQuotes:
			fields = append(fields, current.String())
			current.Reset()
		default:
			current.WriteByte(c)
		}
	}
	fields = append(fields, current.String())

	for i, f := range fields {
		fields[i] = unwrapQuotes(f)
	}
	return fields
}

// unwrapQuotes removes one leading and one trailing quote when both are present.
func unwrapQuotes(s string) string {
	if len(s) >= 2 && s[0] == '"' && s[len(s)-1] == '"' {
		return s[1 : len(s)-1]
	}
	return s
}

func trimField(s string) string {
	return strings.TrimSpace(s)
}

// splitLines trims surrounding whitespace from text and splits it into lines.
// A trailing carriage return is dropped from each line.
func splitLines(text string) []string {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func countNonEmpty(lines []string) int {
	n := 0
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			n++
		}
	}
	return n
}
