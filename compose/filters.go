package compose

import (
	"maps"
	"slices"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/ByLCY/certpress/binding"
	"github.com/ByLCY/certpress/layout"
	"github.com/ByLCY/certpress/record"
)

// Filters available in layout text.
var Filters = binding.Filters{
	"upper": upper,
	"date":  FormatDate,
}

// a Caser keeps state, so one is made per call.
func upper(s string) string {
	return cases.Upper(language.Und).String(s)
}

// LayoutOptions restricts layout references to record fields and Filters.
func LayoutOptions() layout.BuildOptions {
	return layout.BuildOptions{
		Fields:  record.FieldNames(),
		Filters: slices.Sorted(maps.Keys(Filters)),
	}
}

// LoadLayout compiles the layout file at path, or the built-in certificate
// layout if path is empty.
func LoadLayout(path string) (*layout.Spec, error) {
	if path == "" {
		return layout.DefaultSpec(LayoutOptions())
	}
	return layout.Load(path, LayoutOptions())
}
