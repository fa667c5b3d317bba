package popups

import "strings"

// Transliterations applied before the keep/drop filter. The set is
// deliberately small: only the German letters the dashboards use.
var translit = map[rune]string{
	'ä': "ae",
	'ö': "oe",
	'ü': "ue",
	'ß': "ss",
}

// Slugify derives the area identifier for a room name: lowercase and
// trim, transliterate ä/ö/ü/ß, keep [a-z0-9], map space and '/' to '_',
// and drop every other character. The derivation is deterministic, so
// repeated calls for the same room always address the same area.
func Slugify(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(strings.TrimSpace(name)) {
		if t, ok := translit[r]; ok {
			b.WriteString(t)
			continue
		}
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ' || r == '/':
			b.WriteByte('_')
		}
	}
	return b.String()
}

// anchorToken formats the hash anchor that links a pop-up to its area.
func anchorToken(areaID string) string {
	return "#" + areaID + "-popup"
}
