package gen

import (
	"strings"
	"unicode"

	"github.com/go-openapi/inflect"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

var titler = cases.Title(language.English)

// pascal converts a schema identifier to an exported Go identifier.
// It handles camelCase, snake_case and kebab-case inputs and is the single
// source of declaration identifiers, so emitted names are stable across runs
// for an unchanged schema.
func pascal(s string) string {
	s = strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(s)
	name := inflect.Camelize(inflect.Underscore(s))
	if name == "" {
		return name
	}
	if unicode.IsDigit(rune(name[0])) {
		name = "X" + name
	}
	return name
}

// lowerCamel converts a schema identifier to an unexported Go identifier.
func lowerCamel(s string) string {
	s = strings.NewReplacer("-", "_", ".", "_", " ", "_").Replace(s)
	return inflect.CamelizeDownFirst(inflect.Underscore(s))
}

// typeName derives the declaration identifier for an entity uid.
// Content-type uids of the form "api::article.article" map to the camelized
// final segment ("Article"); component uids of the form "shared.seo" keep
// their category prefix ("SharedSeo") so components from different categories
// never collide by name alone.
func typeName(uid string) string {
	if i := strings.LastIndex(uid, "::"); i >= 0 {
		rest := uid[i+2:]
		if j := strings.LastIndex(rest, "."); j >= 0 {
			rest = rest[j+1:]
		}
		return pascal(rest)
	}
	return pascal(uid)
}

// singularName returns the singular form used in generated method names.
func singularName(declared, fallback string) string {
	if declared != "" {
		return declared
	}
	return inflect.Singularize(fallback)
}

// pluralName returns the plural form used in generated method names and
// default route paths.
func pluralName(declared, fallback string) string {
	if declared != "" {
		return declared
	}
	return inflect.Pluralize(fallback)
}

// kebab returns the dashed route segment for a name.
func kebab(s string) string {
	return inflect.Dasherize(inflect.Underscore(s))
}

// displayName humanizes an identifier for doc comments, e.g.
// "order_item" -> "Order Item".
func displayName(declared, fallback string) string {
	if declared != "" {
		return declared
	}
	return titler.String(strings.ReplaceAll(inflect.Underscore(fallback), "_", " "))
}
