package fonts

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/image/font/gofont/goregular"
)

// TestResolveIsTotal: every name, known or not, resolves to a usable face.
func TestResolveIsTotal(t *testing.T) {
	reg := NewRegistry(Options{Dir: t.TempDir()})
	names := []string{"", "Comic-Sans", "unna-bold"}
	for _, spec := range Specs {
		names = append(names, spec.Name)
	}
	names = append(names, Builtins()...)
	for _, name := range names {
		h := reg.Resolve(name)
		assert.NotEmpty(t, h.Name, "resolve(%q)", name)
		assert.True(t, h.Valid(), "resolve(%q) returned a face without font data", name)
		assert.Equal(t, name, h.Requested)
	}
	assert.Equal(t, DefaultFace, reg.Resolve("Comic-Sans").Name)
	assert.True(t, reg.Resolve("Comic-Sans").Fallback)
	assert.Equal(t, TimesBold, reg.Resolve(TimesBold).Name)
	assert.False(t, reg.Resolve(TimesBold).Fallback)
}

// TestMissingFontsFallBack: without any source file every logical font is
// reported missing and mapped to its fixed substitute.
func TestMissingFontsFallBack(t *testing.T) {
	reg := NewRegistry(Options{Dir: t.TempDir()})
	usage := reg.Usage()

	assert.Empty(t, usage.Loaded)
	assert.ElementsMatch(t, []string{UnnaBold, UnnaItalic, LoraBold, LoraRegular, AlexBrush}, usage.Missing)
	assert.Equal(t, map[string]string{
		UnnaBold:    HelveticaBold,
		UnnaItalic:  HelveticaOblique,
		LoraBold:    TimesBold,
		LoraRegular: TimesRoman,
		AlexBrush:   CourierBold,
	}, usage.FallbackUsed)
	assert.Len(t, usage.Degradations, 5)

	for logical, fb := range usage.FallbackUsed {
		h := reg.Resolve(logical)
		assert.Equal(t, fb, h.Name)
		assert.True(t, h.Fallback)
	}
}

func TestLoadsFontsFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Lora-Regular.ttf"), goregular.TTF, 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Alex_Brush"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Alex_Brush", "AlexBrush-Regular.ttf"), goregular.TTF, 0o644))

	reg := NewRegistry(Options{Dir: dir})
	usage := reg.Usage()

	assert.Equal(t, []string{LoraRegular, AlexBrush}, usage.Loaded)
	assert.ElementsMatch(t, []string{UnnaBold, UnnaItalic, LoraBold}, usage.Missing)
	assert.NotContains(t, usage.FallbackUsed, LoraRegular)
	assert.True(t, usage.IsLoaded(AlexBrush))
	assert.False(t, usage.IsLoaded(LoraBold))
	assert.Equal(t, filepath.Join(dir, "Lora-Regular.ttf"), usage.Sources[LoraRegular])

	h := reg.Resolve(LoraRegular)
	assert.Equal(t, LoraRegular, h.Name)
	assert.False(t, h.Fallback)
}

// TestUnparsableFontDegrades: broken font data is recorded, not raised.
func TestUnparsableFontDegrades(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "Lora-Bold.ttf"), []byte("not a font"), 0o644))

	reg := NewRegistry(Options{Dir: dir})
	usage := reg.Usage()

	assert.Contains(t, usage.Missing, LoraBold)
	assert.Equal(t, TimesBold, usage.FallbackUsed[LoraBold])
	var reason string
	for _, d := range usage.Degradations {
		if d.Name == LoraBold {
			reason = d.Reason
		}
	}
	assert.NotEmpty(t, reason)
	assert.Equal(t, TimesBold, reg.Resolve(LoraBold).Name)
}

func TestUsageIsACopy(t *testing.T) {
	reg := NewRegistry(Options{Dir: t.TempDir()})
	u := reg.Usage()
	u.FallbackUsed[LoraBold] = "changed"
	u.Missing[0] = "changed"
	assert.Equal(t, TimesBold, reg.Usage().FallbackUsed[LoraBold])
	assert.NotEqual(t, "changed", reg.Usage().Missing[0])
}

// TestWidthUsesGlyphAdvances: proportional faces give narrow glyphs less room.
func TestWidthUsesGlyphAdvances(t *testing.T) {
	reg := NewRegistry(Options{Dir: t.TempDir()})
	h := reg.Resolve(Helvetica)

	narrow, err := h.Width("iiiiii", 12)
	require.NoError(t, err)
	wide, err := h.Width("WWWWWW", 12)
	require.NoError(t, err)
	assert.Greater(t, narrow, 0.0)
	assert.Less(t, narrow, wide)

	double, err := h.Width("iiiiii", 24)
	require.NoError(t, err)
	assert.InDelta(t, 2*narrow, double, 0.01)
}

func TestZeroHandleReportsNoFace(t *testing.T) {
	var h Handle
	_, err := h.Width("x", 12)
	assert.ErrorIs(t, err, ErrNoFace)
	_, err = h.TextLine("x", 12)
	assert.ErrorIs(t, err, ErrNoFace)
}

func TestLoadBuiltin(t *testing.T) {
	data, err := Load("builtin:" + CourierBold)
	require.NoError(t, err)
	assert.NotEmpty(t, data)
	_, err = Load("Inter-Regular")
	assert.Error(t, err)
}

// TestHoldBlocksFaceUse: a held face cannot be measured until released,
// and holding the same face through several handles is fine.
func TestHoldBlocksFaceUse(t *testing.T) {
	reg := NewRegistry(Options{Dir: t.TempDir()})
	// LoraBold falls back to Times-Bold, so both handles share one face
	release := Hold(reg.Resolve(TimesBold), reg.Resolve(LoraBold), reg.Resolve(Helvetica), Handle{})

	measured := make(chan struct{})
	go func() {
		_, _ = reg.Resolve(LoraBold).Width("x", 12)
		close(measured)
	}()
	select {
	case <-measured:
		t.Fatal("Width returned while the face was held")
	case <-time.After(50 * time.Millisecond):
	}
	release()
	select {
	case <-measured:
	case <-time.After(5 * time.Second):
		t.Fatal("Width still blocked after release")
	}

	// opposite order from another goroutine must not deadlock
	done := make(chan struct{})
	go func() {
		for range 100 {
			Hold(reg.Resolve(Helvetica), reg.Resolve(TimesBold))()
		}
		close(done)
	}()
	for range 100 {
		Hold(reg.Resolve(TimesBold), reg.Resolve(Helvetica))()
	}
	<-done
}
