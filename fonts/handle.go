package fonts

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"sync/atomic"

	"github.com/tdewolff/canvas"
)

// ErrNoFace is returned when a handle carries no parsed font data.
var ErrNoFace = errors.New("font face not available")

var faceSeq atomic.Uint64

// face guards one canvas family. Neither shaping nor PDF font subsetting in
// canvas is safe for concurrent use of the same font.
type face struct {
	id     uint64 // lock order for Hold
	mu     sync.Mutex
	family *canvas.FontFamily
}

func newFace(fam *canvas.FontFamily) *face {
	return &face{id: faceSeq.Add(1), family: fam}
}

// Handle is a resolved, renderable font.
type Handle struct {
	Requested string `json:"requested"` // logical name asked for
	Name      string `json:"name"`      // face actually used
	Fallback  bool   `json:"fallback,omitempty"`
	face      *face
}

// Valid reports whether the handle carries parsed font data.
func (h Handle) Valid() bool {
	return h.face != nil && h.face.family != nil
}

// Width returns the advance width of text at sizePt, in pt.
func (h Handle) Width(text string, sizePt float64) (w float64, err error) {
	if !h.Valid() {
		return 0, fmt.Errorf("%s: %w", h.Name, ErrNoFace)
	}
	h.face.mu.Lock()
	defer h.face.mu.Unlock()
	defer func() {
		if p := recover(); p != nil {
			w, err = 0, fmt.Errorf("measure with %s: %v", h.Name, p)
		}
	}()
	ff := h.face.family.Face(sizePt, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	return ff.TextWidth(text) * mmToPt, nil
}

// TextLine shapes one left-aligned line of text at sizePt for canvas.
// The returned text still refers to the face; writing it out must happen
// under Hold.
func (h Handle) TextLine(text string, sizePt float64) (t *canvas.Text, err error) {
	if !h.Valid() {
		return nil, fmt.Errorf("%s: %w", h.Name, ErrNoFace)
	}
	h.face.mu.Lock()
	defer h.face.mu.Unlock()
	defer func() {
		if p := recover(); p != nil {
			t, err = nil, fmt.Errorf("shape with %s: %v", h.Name, p)
		}
	}()
	ff := h.face.family.Face(sizePt, canvas.Black, canvas.FontRegular, canvas.FontNormal)
	return canvas.NewTextLine(ff, text, canvas.Left), nil
}

// Hold locks the faces behind hs until release is called. Handles without
// font data are ignored, duplicates are locked once. Faces are always locked
// in the same order, so concurrent Holds cannot deadlock. Width and TextLine
// on a held face block; do not call them before release.
func Hold(hs ...Handle) (release func()) {
	var faces []*face
	for _, h := range hs {
		if h.Valid() && !slices.Contains(faces, h.face) {
			faces = append(faces, h.face)
		}
	}
	slices.SortFunc(faces, func(a, b *face) int {
		switch {
		case a.id < b.id:
			return -1
		case a.id > b.id:
			return 1
		}
		return 0
	})
	for _, f := range faces {
		f.mu.Lock()
	}
	return func() {
		for i := len(faces) - 1; i >= 0; i-- {
			faces[i].mu.Unlock()
		}
	}
}

// canvas works in millimetres.
const mmToPt = 1.0 / 0.352777
