package compose

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"
)

// ErrTemplate marks template documents that cannot be read or parsed.
var ErrTemplate = errors.New("unusable template")

// Template holds the raw bytes of a background document together with the
// geometry of its first page, which is read once at load time. The bytes are
// imported again into every composed document, so the import cost is paid
// per record. They are never modified, so a Template may be shared.
type Template struct {
	Source string  `json:"source"`
	Width  float64 `json:"width"`  // first page MediaBox, pt
	Height float64 `json:"height"` // first page MediaBox, pt
	Pages  int     `json:"pages"`
	data   []byte
}

// LoadTemplate reads and parses the template document at path.
func LoadTemplate(path string) (*Template, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrTemplate, err)
	}
	return ParseTemplate(path, data)
}

// ParseTemplate parses template bytes; source is only used for reporting.
func ParseTemplate(source string, data []byte) (tpl *Template, err error) {
	defer func() {
		if p := recover(); p != nil {
			tpl, err = nil, fmt.Errorf("%w: %s: %v", ErrTemplate, source, p)
		}
	}()
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: %s is empty", ErrTemplate, source)
	}
	scratch := fpdf.New("P", "pt", "A4", "")
	imp := gofpdi.NewImporter()
	rs := io.ReadSeeker(bytes.NewReader(data))
	imp.ImportPageFromStream(scratch, &rs, 1, "/MediaBox")
	if err := scratch.Error(); err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTemplate, source, err)
	}
	sizes := imp.GetPageSizes()
	box := sizes[1]["/MediaBox"]
	w, h := box["w"], box["h"]
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: %s has no usable first page", ErrTemplate, source)
	}
	tracer().Debugf("template %s: %d page(s), first page %.2fx%.2f pt", source, len(sizes), w, h)
	return &Template{Source: source, Width: w, Height: h, Pages: len(sizes), data: data}, nil
}

// reader returns an independent reader over the template bytes.
func (t *Template) reader() io.ReadSeeker {
	return bytes.NewReader(t.data)
}
