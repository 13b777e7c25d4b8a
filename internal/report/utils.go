package report

import "strings"

// sanitizeFilename maps characters that are unsafe in file names to underscores
func sanitizeFilename(s string) string {
	return strings.Map(func(r rune) rune {
		switch r {
		case '.', ':', '/', '\\', ' ':
			return '_'
		}
		return r
	}, s)
}
