package domain

import "strings"

// Language is the locale the generated script is written in.
// The value is sent to the model verbatim, so the tags are kept in Portuguese
// exactly as the prompt expects them.
type Language string

// Supported languages.
const (
	LanguagePortuguese Language = "Português"
	LanguageSpanish    Language = "Espanhol"
	LanguageEnglish    Language = "Inglês"
)

// languageAliases maps lower-cased aliases to their canonical tag.
var languageAliases = map[string]Language{
	"português":  LanguagePortuguese,
	"portugues":  LanguagePortuguese,
	"portuguese": LanguagePortuguese,
	"pt":         LanguagePortuguese,
	"pt-br":      LanguagePortuguese,
	"espanhol":   LanguageSpanish,
	"spanish":    LanguageSpanish,
	"es":         LanguageSpanish,
	"inglês":     LanguageEnglish,
	"ingles":     LanguageEnglish,
	"english":    LanguageEnglish,
	"en":         LanguageEnglish,
}

// Languages returns the supported languages in display order.
func Languages() []Language {
	return []Language{LanguagePortuguese, LanguageSpanish, LanguageEnglish}
}

// ParseLanguage resolves a canonical tag or a known alias to a Language.
// Returns ErrInvalidLanguage for anything else.
func ParseLanguage(s string) (Language, error) {
	key := strings.ToLower(strings.TrimSpace(s))
	if lang, ok := languageAliases[key]; ok {
		return lang, nil
	}
	return "", ErrInvalidLanguage
}

// Valid reports whether l is one of the supported languages.
func (l Language) Valid() bool {
	switch l {
	case LanguagePortuguese, LanguageSpanish, LanguageEnglish:
		return true
	default:
		return false
	}
}

// String implements fmt.Stringer.
func (l Language) String() string {
	return string(l)
}
