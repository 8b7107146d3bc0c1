package compose

import (
	"errors"
	"fmt"

	"github.com/ByLCY/certpress/binding"
	"github.com/ByLCY/certpress/layout"
	"github.com/ByLCY/certpress/record"
	"github.com/ByLCY/certpress/renderer"
	canvasrenderer "github.com/ByLCY/certpress/renderer/canvas"
)

// ErrComposition is wrapped by every error Compose returns.
var ErrComposition = errors.New("composition failed")

// DefaultCreator is written to the Creator field of composed documents.
const DefaultCreator = "certpress"

// Options configure a Compositor. Zero values select defaults.
type Options struct {
	Spec     *layout.Spec      // nil: built-in certificate layout
	Renderer renderer.Renderer // nil: canvas renderer
	Metrics  layout.Measurer   // nil: layout.TextMetrics
	Creator  string
}

// Compositor produces finished certificates. It holds no per-record state,
// so one Compositor may serve concurrent Compose calls.
type Compositor struct {
	spec     *layout.Spec
	engine   *layout.Engine
	renderer renderer.Renderer
	creator  string
}

// Composition is the result of one Compose call.
type Composition struct {
	PDF   []byte
	Layer *layout.Layer
}

// New creates a Compositor laying text out with faces from fonts.
func New(fonts layout.FontResolver, opts Options) (*Compositor, error) {
	if fonts == nil {
		return nil, fmt.Errorf("%w: no font resolver", ErrComposition)
	}
	spec := opts.Spec
	if spec == nil {
		var err error
		if spec, err = LoadLayout(""); err != nil {
			return nil, fmt.Errorf("%w: %w", ErrComposition, err)
		}
	}
	creator := opts.Creator
	if creator == "" {
		creator = DefaultCreator
	}
	r := opts.Renderer
	if r == nil {
		r = canvasrenderer.NewRenderer(canvasrenderer.Meta{Title: "text layer", Creator: creator})
	}
	return &Compositor{
		spec:     spec,
		engine:   layout.NewEngine(spec.Page, fonts, opts.Metrics),
		renderer: r,
		creator:  creator,
	}, nil
}

// Spec returns the layout the compositor applies.
func (c *Compositor) Spec() *layout.Spec { return c.spec }

// Compose lays out rec, renders the text layer and stacks it onto the first
// page of tpl. The template is not modified.
func (c *Compositor) Compose(rec record.Record, tpl *Template) (*Composition, error) {
	if tpl == nil {
		return nil, fmt.Errorf("%w: no template", ErrComposition)
	}
	if err := rec.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrComposition, err)
	}
	fields := rec.Fields()
	layer, err := c.engine.Run(c.spec, func(text string) (string, error) {
		return binding.Expand(text, fields, Filters)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: layout %s: %w", ErrComposition, rec.CertificateID, err)
	}
	layerPDF, err := c.renderer.Render(layer)
	if err != nil {
		return nil, fmt.Errorf("%w: render %s: %w", ErrComposition, rec.CertificateID, err)
	}
	out, err := merge(tpl, layer.Page, layerPDF, c.meta(rec))
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrComposition, err)
	}
	tracer().Debugf("composed %s: %d placements, %d bytes", rec.CertificateID, len(layer.Placements), len(out))
	return &Composition{PDF: out, Layer: layer}, nil
}

func (c *Compositor) meta(rec record.Record) Meta {
	return Meta{
		Title:    "Certificate " + rec.CertificateID,
		Subject:  rec.FullName,
		Keywords: rec.CertificateID + ", " + rec.EventType,
		Author:   rec.InstitutionName,
		Creator:  c.creator,
	}
}
