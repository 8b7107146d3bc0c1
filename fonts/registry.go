package fonts

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/flopp/go-findfont"
	"github.com/tdewolff/canvas"
)

// Logical font names used by the certificate layout.
const (
	UnnaBold    = "Unna-Bold"
	UnnaItalic  = "Unna-Italic"
	LoraBold    = "Lora-Bold"
	LoraRegular = "Lora-Regular"
	AlexBrush   = "AlexBrush"
)

// DefaultFace is the universal fallback for logical names absent from the
// fallback table.
const DefaultFace = Helvetica

// DefaultDir is where font sources are looked up unless configured otherwise.
const DefaultDir = "assets/fonts"

// Spec describes one logical font: where its source lives and which
// builtin face stands in for it.
type Spec struct {
	Name     string `json:"name"`
	Source   string `json:"source,omitempty"`
	Fallback string `json:"fallback"`
}

// Specs lists the fixed logical fonts in registration order.
var Specs = []Spec{
	{Name: UnnaBold, Source: "Unna-Bold.ttf", Fallback: HelveticaBold},
	{Name: UnnaItalic, Source: "Unna-Italic.ttf", Fallback: HelveticaOblique},
	{Name: LoraBold, Source: "Lora-Bold.ttf", Fallback: TimesBold},
	{Name: LoraRegular, Source: "Lora-Regular.ttf", Fallback: TimesRoman},
	{Name: AlexBrush, Source: "Alex_Brush/AlexBrush-Regular.ttf", Fallback: CourierBold},
}

var fallbackTable = map[string]string{
	UnnaBold:    HelveticaBold,
	UnnaItalic:  HelveticaOblique,
	LoraBold:    TimesBold,
	LoraRegular: TimesRoman,
	AlexBrush:   CourierBold,
}

// FallbackFor returns the fixed substitute for a logical font name.
func FallbackFor(name string) string {
	if fb, ok := fallbackTable[name]; ok {
		return fb
	}
	return DefaultFace
}

// Options configures where a Registry looks for font sources.
type Options struct {
	Dir         string // relative Spec sources are joined to Dir
	SystemFonts bool   // search the system font directories when Dir misses
	Specs       []Spec // nil means Specs
}

// Registry maps logical font names to loaded faces.
type Registry struct {
	logical  map[string]*face
	builtins map[string]*face
	usage    Usage
}

var globalRegistry *Registry

var globalRegistryCreation sync.Once

// GlobalRegistry is a process-wide registry, initialized on first use.
// opts only matter for the first call.
func GlobalRegistry(opts Options) *Registry {
	globalRegistryCreation.Do(func() {
		globalRegistry = NewRegistry(opts)
	})
	return globalRegistry
}

// NewRegistry loads every logical font. It never fails: a font which cannot
// be loaded is recorded in the usage report and resolves to its fallback.
func NewRegistry(opts Options) *Registry {
	specs := opts.Specs
	if specs == nil {
		specs = Specs
	}
	r := &Registry{
		logical:  make(map[string]*face, len(specs)),
		builtins: make(map[string]*face, len(builtinData)),
		usage: Usage{
			Loaded:       []string{},
			FallbackUsed: map[string]string{},
			Missing:      []string{},
			Sources:      map[string]string{},
		},
	}
	for _, name := range Builtins() {
		data, err := Load(name)
		var fam *canvas.FontFamily
		if err == nil {
			fam, err = loadFamily(name, data)
		}
		if err != nil {
			tracer().Errorf("builtin font %s unusable: %v", name, err)
		}
		r.builtins[name] = newFace(fam)
	}
	for _, spec := range specs {
		r.register(spec, opts)
	}
	return r
}

func (r *Registry) register(spec Spec, opts Options) {
	if spec.Fallback == "" {
		spec.Fallback = FallbackFor(spec.Name)
	}
	path, err := locate(spec, opts)
	if err == nil {
		var data []byte
		if data, err = os.ReadFile(path); err == nil {
			var fam *canvas.FontFamily
			if fam, err = loadFamily(spec.Name, data); err == nil {
				tracer().Debugf("registered font %s from %s", spec.Name, path)
				r.logical[spec.Name] = newFace(fam)
				r.usage.Loaded = append(r.usage.Loaded, spec.Name)
				r.usage.Sources[spec.Name] = path
				return
			}
		}
	}
	tracer().Infof("font %s unavailable, using %s: %v", spec.Name, spec.Fallback, err)
	r.usage.Missing = append(r.usage.Missing, spec.Name)
	r.usage.FallbackUsed[spec.Name] = spec.Fallback
	r.usage.Degradations = append(r.usage.Degradations, Degradation{
		Name:     spec.Name,
		Fallback: spec.Fallback,
		Reason:   err.Error(),
	})
}

func locate(spec Spec, opts Options) (string, error) {
	if spec.Source == "" {
		return "", errors.New("no source configured")
	}
	path := spec.Source
	if !filepath.IsAbs(path) && opts.Dir != "" {
		path = filepath.Join(opts.Dir, path)
	}
	_, err := os.Stat(path)
	if err == nil {
		return path, nil
	}
	if !opts.SystemFonts {
		return "", err
	}
	found, ferr := findfont.Find(filepath.Base(spec.Source))
	if ferr != nil {
		return "", fmt.Errorf("%s not found in %s or system font dirs: %w", filepath.Base(spec.Source), opts.Dir, ferr)
	}
	return found, nil
}

// loadFamily parses font data into a one-face canvas family.
func loadFamily(name string, data []byte) (fam *canvas.FontFamily, err error) {
	defer func() {
		if p := recover(); p != nil {
			fam, err = nil, fmt.Errorf("parse font %s: %v", name, p)
		}
	}()
	fam = canvas.NewFontFamily(name)
	if err := fam.LoadFont(data, 0, canvas.FontRegular); err != nil {
		return nil, fmt.Errorf("parse font %s: %w", name, err)
	}
	return fam, nil
}

// Resolve returns a renderable face for a logical font name. It is total:
// a registered font resolves to itself, a known logical font to its fixed
// fallback and anything else to DefaultFace.
func (r *Registry) Resolve(name string) Handle {
	if f, ok := r.logical[name]; ok {
		return Handle{Requested: name, Name: name, face: f}
	}
	if f, ok := r.builtins[name]; ok {
		return Handle{Requested: name, Name: name, face: f}
	}
	fb := FallbackFor(name)
	if f, ok := r.builtins[fb]; ok {
		return Handle{Requested: name, Name: fb, Fallback: true, face: f}
	}
	return Handle{Requested: name, Name: DefaultFace, Fallback: true, face: r.builtins[DefaultFace]}
}

// Usage returns a copy of the initialization report.
func (r *Registry) Usage() Usage {
	return r.usage.clone()
}
