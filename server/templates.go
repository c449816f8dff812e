package server

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/gofiber/template/html/v2"
)

// addTemplateFunctions adds custom functions to the template engine
func addTemplateFunctions(engine *html.Engine) {
	// Pluralize helper: pluralize count "country" "countries"
	engine.AddFunc("pluralize", func(count int, singular, plural string) string {
		if count == 1 {
			return singular
		}
		return plural
	})

	// Initial of a user name for the profile tab
	engine.AddFunc("initial", initial)

	// Default value helper: default value defaultValue
	engine.AddFunc("default", func(value, defaultValue any) any {
		if value == nil || value == "" {
			return defaultValue
		}
		return value
	})

	// Swatches offered on the new-user form
	engine.AddFunc("colors", func() []string {
		return userColors
	})
}

var userColors = []string{"red", "orange", "yellow", "olive", "green", "teal", "blue", "violet", "purple", "pink"}

func initial(name string) string {
	name = strings.TrimSpace(name)
	if name == "" {
		return "?"
	}
	r, _ := utf8.DecodeRuneInString(name)
	return string(unicode.ToUpper(r))
}
