package compose

import (
	"bytes"
	"fmt"
	"io"
	"math"

	"codeberg.org/go-pdf/fpdf"
	"codeberg.org/go-pdf/fpdf/contrib/gofpdi"

	"github.com/ByLCY/certpress/layout"
)

// Meta is the document information written to a composed certificate.
type Meta struct {
	Title    string
	Subject  string
	Keywords string
	Author   string
	Creator  string
}

// merge stacks the text layer (a single-page PDF of size page) onto the
// first page of tpl. The output page has the template's size; the layer is
// drawn unscaled with its top-left corner on the page's top-left corner.
func merge(tpl *Template, page layout.Page, layerPDF []byte, meta Meta) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			out, err = nil, fmt.Errorf("merge layer onto %s: %v", tpl.Source, p)
		}
	}()
	if math.Abs(page.Width-tpl.Width) > 0.5 || math.Abs(page.Height-tpl.Height) > 0.5 {
		tracer().Debugf("layer %.2fx%.2f differs from template %.2fx%.2f", page.Width, page.Height, tpl.Width, tpl.Height)
	}

	doc := fpdf.NewCustom(&fpdf.InitType{
		OrientationStr: "P",
		UnitStr:        "pt",
		Size:           fpdf.SizeType{Wd: tpl.Width, Ht: tpl.Height},
	})
	applyMeta(doc, meta)
	doc.AddPage()

	// one importer for both sources, so template names do not collide
	imp := gofpdi.NewImporter()
	base := tpl.reader()
	baseID := imp.ImportPageFromStream(doc, &base, 1, "/MediaBox")
	imp.UseImportedTemplate(doc, baseID, 0, 0, tpl.Width, tpl.Height)

	top := io.ReadSeeker(bytes.NewReader(layerPDF))
	topID := imp.ImportPageFromStream(doc, &top, 1, "/MediaBox")
	imp.UseImportedTemplate(doc, topID, 0, tpl.Height-page.Height, page.Width, page.Height)

	if err := doc.Error(); err != nil {
		return nil, fmt.Errorf("merge layer onto %s: %w", tpl.Source, err)
	}
	var buf bytes.Buffer
	if err := doc.Output(&buf); err != nil {
		return nil, fmt.Errorf("serialize certificate: %w", err)
	}
	return buf.Bytes(), nil
}

func applyMeta(doc *fpdf.Fpdf, meta Meta) {
	doc.SetTitle(meta.Title, !isASCII(meta.Title))
	doc.SetSubject(meta.Subject, !isASCII(meta.Subject))
	doc.SetKeywords(meta.Keywords, !isASCII(meta.Keywords))
	doc.SetAuthor(meta.Author, !isASCII(meta.Author))
	doc.SetCreator(meta.Creator, !isASCII(meta.Creator))
}

func isASCII(s string) bool {
	for i := 0; i < len(s); i++ {
		if s[i] >= 0x80 {
			return false
		}
	}
	return true
}
