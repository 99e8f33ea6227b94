package tailoring

import "strings"

var bulletMarkers = []string{"- ", "* ", "• ", "· "}

// Normalize turns a model response into one point per line: line endings are
// unified, code fences and bullet markers are dropped, runs of blank lines are
// collapsed and no trailing newline remains. Every surviving line becomes a
// bullet in the rendered document, so blank lines must never survive.
func Normalize(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")

	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if strings.HasPrefix(line, "```") {
			continue
		}
		line = stripBullet(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return strings.Join(out, "\n")
}

func stripBullet(line string) string {
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(line, marker) {
			return strings.TrimSpace(strings.TrimPrefix(line, marker))
		}
	}
	if line == "-" || line == "*" || line == "•" {
		return ""
	}
	return line
}
