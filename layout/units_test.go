package layout

import (
	"math"
	"testing"
)

// TestPtMmRoundTrip 验证 pt↔mm 换算的往返精度（允许极小的浮点误差）。
func TestPtMmRoundTrip(t *testing.T) {
	samples := []float64{0, 0.001, 1, 12, 14.3, 72, 290, 841.89}
	for _, pt := range samples {
		mm := pt * PtToMm
		back := mm * MmToPt
		if diff := math.Abs(back - pt); diff > 1e-9 {
			t.Fatalf("pt→mm→pt 往返误差过大: in=%gpt mm=%g back=%g diff=%g", pt, mm, back, diff)
		}
	}
}

// TestParseLength 覆盖不同单位到 pt 的换算；无单位视为 pt。
func TestParseLength(t *testing.T) {
	cases := []struct {
		in   string
		want float64
	}{
		{"50", 50},
		{"14.3pt", 14.3},
		{"1in", 72},
		{"25.4mm", 25.4 * MmToPt},
		{"2.54cm", 25.4 * MmToPt},
		{" 12PT ", 12},
	}
	for _, c := range cases {
		l, err := ParseLength(c.in)
		if err != nil {
			t.Fatalf("ParseLength(%q) 失败: %v", c.in, err)
		}
		if got := l.ToPT(); math.Abs(got-c.want) > 1e-9 {
			t.Fatalf("ParseLength(%q).ToPT() 期望 %g，实际 %g", c.in, c.want, got)
		}
	}
	for _, bad := range []string{"", "abc", "12px"} {
		if _, err := ParseLength(bad); err == nil {
			t.Fatalf("ParseLength(%q) 应当失败", bad)
		}
	}
}

// TestParseLineHeight 区分倍数行距与绝对行距。
func TestParseLineHeight(t *testing.T) {
	factor, err := ParseLineHeight("1.5x")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := factor.Resolve(20); math.Abs(got-30) > 1e-9 {
		t.Fatalf("1.5x @20pt 期望 30，实际 %g", got)
	}
	abs, err := ParseLineHeight("20")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := abs.Resolve(14.3); got != 20 {
		t.Fatalf("绝对行距期望 20，实际 %g", got)
	}
	if _, err := ParseLineHeight("fastx"); err == nil {
		t.Fatalf("非法倍数应当失败")
	}
}
