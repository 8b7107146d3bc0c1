package layout

import (
	_ "embed"
	"strings"
)

//go:embed certificate.layout
var certificateLayout string

// DefaultSpec 编译内置的证书版式。
func DefaultSpec(opts BuildOptions) (*Spec, error) {
	return parseAndBuild("certificate.layout", strings.NewReader(certificateLayout), opts)
}
