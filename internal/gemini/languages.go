package gemini

import "sort"

// languageCodes maps the supported guidance languages to ISO 639-1 codes.
var languageCodes = map[string]string{
	"English": "en",
	"Hindi":   "hi",
	"Kannada": "kn",
	"Tamil":   "ta",
	"Telugu":  "te",
	"Marathi": "mr",
	"Bengali": "bn",
}

// DefaultLanguage is used when a request does not name one.
const DefaultLanguage = "English"

// Languages returns the supported language names, sorted.
func Languages() []string {
	names := make([]string, 0, len(languageCodes))
	for name := range languageCodes {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// LanguageCode returns the ISO code for a language name and whether the
// language is supported.
func LanguageCode(name string) (string, bool) {
	code, ok := languageCodes[name]
	return code, ok
}

// IsLanguageSupported reports whether the given language can be requested.
func IsLanguageSupported(name string) bool {
	_, ok := languageCodes[name]
	return ok
}
