package export

import "strings"

const (
	nameFallback = "temp_profile"
	nameMaxRunes = 50
)

// forbiddenRunes are rejected by at least one filesystem the exports land on.
const forbiddenRunes = `\/*?:"<>|`

// SafeName scrubs a user-entered run name into a portable file stem: strips
// forbidden characters, trims whitespace and truncates to 50 runes. An empty
// result falls back to "temp_profile".
func SafeName(name string) string {
	var b strings.Builder
	for _, r := range name {
		if !strings.ContainsRune(forbiddenRunes, r) {
			b.WriteRune(r)
		}
	}
	cleaned := strings.TrimSpace(b.String())
	if cleaned == "" {
		return nameFallback
	}
	if runes := []rune(cleaned); len(runes) > nameMaxRunes {
		cleaned = string(runes[:nameMaxRunes])
	}
	return cleaned
}

// WorkbookFileName is the download/file name for a run's spreadsheet.
func WorkbookFileName(name string) string { return SafeName(name) + ".xlsx" }

// ChartFileName is the download/file name for a run's chart image.
func ChartFileName(name string) string { return SafeName(name) + ".png" }
