package roster

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

const (
	// MaxInputLength bounds any free-text argument
	MaxInputLength = 100
	// MaxDescriptionLength bounds group descriptions
	MaxDescriptionLength = 500
)

var (
	characterNamePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z'\- ]{1,19}$`)
	lodestoneIDPattern   = regexp.MustCompile(`^[0-9]{1,12}$`)
	hexColorPattern      = regexp.MustCompile(`^#[0-9a-f]{6}$`)
)

// SanitizeInput decomposes s (NFKD), keeps printable ASCII only, and caps the
// result at MaxInputLength
func SanitizeInput(s string) string {
	return sanitize(s, MaxInputLength)
}

// SanitizeDescription is SanitizeInput with the longer description limit
func SanitizeDescription(s string) string {
	return sanitize(s, MaxDescriptionLength)
}

func sanitize(s string, limit int) string {
	if s == "" {
		return ""
	}

	decomposed := norm.NFKD.String(s)
	var b strings.Builder
	b.Grow(len(decomposed))
	for _, r := range decomposed {
		if r >= 0x20 && r <= 0x7E {
			b.WriteRune(r)
			if b.Len() == limit {
				break
			}
		}
	}
	return strings.TrimSpace(b.String())
}

// ValidCharacterName reports whether name looks like an in-game character name
func ValidCharacterName(name string) bool {
	return characterNamePattern.MatchString(SanitizeInput(name))
}

// ValidLodestoneID reports whether id is a numeric Lodestone id
func ValidLodestoneID(id string) bool {
	return lodestoneIDPattern.MatchString(id)
}

// NormalizeServer title-cases a world name ("twintania" -> "Twintania")
func NormalizeServer(server string) string {
	return cases.Title(language.English).String(strings.ToLower(SanitizeInput(server)))
}

// NormalizeColor turns "3498DB" or "#3498db" into "#3498db". Empty stays empty.
func NormalizeColor(color string) (string, bool) {
	color = strings.ToLower(strings.TrimSpace(color))
	if color == "" {
		return "", true
	}
	if !strings.HasPrefix(color, "#") {
		color = "#" + color
	}
	return color, hexColorPattern.MatchString(color)
}
