package filters

import (
	"strings"

	"github.com/robert-at-pretension-io/verilog-tmpl/internal/matcher"
)

// RemoveLastComma strips the trailing comma from the last line that holds
// code, skipping blank and comment-only lines. An inline comment on that
// line is kept.
func RemoveLastComma(block string) string {
	lines := matcher.SplitLines(block)
	for i := len(lines) - 1; i >= 0; i-- {
		line := lines[i]
		if strings.TrimSpace(line) == "" || matcher.IsComment(line) {
			continue
		}

		functional, _, hasComment := matcher.SplitComment(line)
		if !strings.HasSuffix(functional, ",") {
			break
		}
		head := strings.TrimSuffix(functional, ",")
		if hasComment {
			// keep the original spacing before the comment
			idx := strings.Index(line, matcher.CommentOpener)
			gap := line[len(functional):idx]
			lines[i] = head + gap + line[idx:]
		} else {
			lines[i] = head + line[len(functional):]
		}
		break
	}
	return strings.Join(lines, "\n")
}
