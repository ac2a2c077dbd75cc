// Package i18n holds the bot's user-facing strings for Russian, Kazakh and English.
//
// Russian is the fallback: keys missing in another language resolve to the Russian text,
// which is how the admin-only strings are shared across languages.
package i18n

import (
	"fmt"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/message/catalog"
)

// Supported language codes, as stored on users.
const (
	Russian = "ru"
	Kazakh  = "kz"
	English = "en"

	Default = Russian
)

// Languages lists the supported codes in menu order.
var Languages = []string{Russian, Kazakh, English}

var tags = map[string]language.Tag{
	Russian: language.Russian,
	Kazakh:  language.Kazakh,
	English: language.English,
}

var cat = mustBuild()

// mustBuild registers every language. Catalog lookup only walks tag parents, never the
// fallback language, so keys a language lacks are filled from Russian here.
func mustBuild() catalog.Catalog {
	b := catalog.NewBuilder(catalog.Fallback(language.Russian))
	for code, tag := range tags {
		for key, msg := range withFallback(code) {
			if err := b.SetString(tag, key, msg); err != nil {
				panic(fmt.Sprintf("i18n: %s/%s: %v", code, key, err))
			}
		}
	}
	return b
}

func withFallback(code string) map[string]string {
	merged := make(map[string]string, len(messages[Default]))
	for key, msg := range messages[Default] {
		merged[key] = msg
	}
	for key, msg := range messages[code] {
		merged[key] = msg
	}
	return merged
}

// Normalize maps user supplied codes onto a supported language.
func Normalize(code string) string {
	code = strings.ToLower(strings.TrimSpace(code))
	switch code {
	case Russian, Kazakh, English:
		return code
	case "kk":
		return Kazakh
	}
	return Default
}

// T renders key in the given language.
func T(lang, key string, args ...any) string {
	return message.NewPrinter(tags[Normalize(lang)], message.Catalog(cat)).Sprintf(key, args...)
}

// Day renders a weekday name; 0 is Monday.
func Day(lang string, day int) string {
	if day < 0 || day >= len(dayKeys) {
		return fmt.Sprint(day)
	}
	return T(lang, dayKeys[day])
}

// Subject renders a subject id, falling back to the id itself.
func Subject(lang, subject string) string {
	key := "subject_" + subject
	if text := T(lang, key); text != key {
		return text
	}
	return subject
}

var dayKeys = []string{"monday", "tuesday", "wednesday", "thursday", "friday", "saturday", "sunday"}
