package fonts

import (
	"fmt"
	"sort"
	"strings"

	"github.com/go-fonts/latin-modern/lmroman10bold"
	"github.com/go-fonts/latin-modern/lmroman10regular"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
)

// Builtin fallback faces, named after the PDF standard 14 fonts they stand in for.
const (
	Helvetica        = "Helvetica"
	HelveticaBold    = "Helvetica-Bold"
	HelveticaOblique = "Helvetica-Oblique"
	TimesRoman       = "Times-Roman"
	TimesBold        = "Times-Bold"
	CourierBold      = "Courier-Bold"
)

var builtinData = map[string][]byte{
	Helvetica:        goregular.TTF,
	HelveticaBold:    gobold.TTF,
	HelveticaOblique: goitalic.TTF,
	TimesRoman:       lmroman10regular.TTF,
	TimesBold:        lmroman10bold.TTF,
	CourierBold:      gomonobold.TTF,
}

// Load returns the font data of a builtin face. name may carry a
// "builtin:" prefix, as in "builtin:Times-Bold".
func Load(name string) ([]byte, error) {
	name = strings.TrimPrefix(strings.TrimPrefix(name, "builtin:"), "built-in:")
	data, ok := builtinData[name]
	if !ok || len(data) == 0 {
		return nil, fmt.Errorf("unknown builtin font %q", name)
	}
	return data, nil
}

// Builtins lists the names accepted by Load, sorted.
func Builtins() []string {
	names := make([]string, 0, len(builtinData))
	for name := range builtinData {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
