package domain

import (
	"strings"

	m "github.com/mouse-blink/suspect/internal/model"
)

const (
	ignoreDirective     = "suspect:ignore"
	ignoreFileDirective = "suspect:ignore-file"
)

var commentMarkers = []string{"//", "/*", "#", "--", "<!--"}

// ignoreIndex records which lines of a source file opted out of ranking.
type ignoreIndex struct {
	file  bool
	lines map[int]struct{}
}

func (ix ignoreIndex) ignored(line int) bool {
	if ix.file {
		return true
	}

	_, ok := ix.lines[line]

	return ok
}

// parseIgnoreDirective finds a directive inside a comment on a source line.
// Every occurrence of every comment marker is tried, so markers inside string
// literals earlier on the line do not hide a trailing directive. It reports
// the directive kind and whether the comment is the only thing on the line.
func parseIgnoreDirective(text string) (directive string, leading bool, ok bool) {
	for _, marker := range commentMarkers {
		for from := 0; from < len(text); {
			idx := strings.Index(text[from:], marker)
			if idx < 0 {
				break
			}

			idx += from
			from = idx + len(marker)

			comment := strings.TrimSpace(text[from:])
			comment = strings.TrimLeft(comment, "*/ ")

			switch {
			case strings.HasPrefix(comment, ignoreFileDirective):
				directive = ignoreFileDirective
			case strings.HasPrefix(comment, ignoreDirective):
				directive = ignoreDirective
			default:
				continue
			}

			return directive, strings.TrimSpace(text[:idx]) == "", true
		}
	}

	return "", false, false
}

// buildIgnoreIndex scans source lines for ignore directives. A trailing
// directive applies to its own line; a directive on a line by itself applies
// to the next line.
func buildIgnoreIndex(source []string) ignoreIndex {
	ix := ignoreIndex{lines: make(map[int]struct{})}

	for i, text := range source {
		directive, leading, ok := parseIgnoreDirective(text)
		if !ok {
			continue
		}

		if directive == ignoreFileDirective {
			ix.file = true
			continue
		}

		target := i + 1
		if leading {
			target++
		}

		ix.lines[target] = struct{}{}
	}

	return ix
}

// filterIgnored drops ranked lines whose source opted out.
func filterIgnored(ranked []m.RankedLine, ix ignoreIndex) []m.RankedLine {
	if !ix.file && len(ix.lines) == 0 {
		return ranked
	}

	kept := make([]m.RankedLine, 0, len(ranked))

	for _, r := range ranked {
		if ix.ignored(r.Record.Line) {
			continue
		}

		kept = append(kept, r)
	}

	return kept
}
