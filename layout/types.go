package layout

import (
	"strings"

	"github.com/ByLCY/certpress/fonts"
)

// 该文件定义版式描述与排版结果，供版式编译、排版引擎、渲染与调试 JSON 共用。
// 所有坐标与尺寸单位均为 pt，原点位于页面左下角，y 轴向上。

// Page 描述页面几何尺寸。Margin 为左右两侧的安全边距。
type Page struct {
	Width  float64 `json:"width"`
	Height float64 `json:"height"`
	Margin float64 `json:"margin"`
}

// A4Landscape 是默认的证书页面。
var A4Landscape = Page{Width: 841.89, Height: 595.28, Margin: 50}

// clampX 使宽度为 w 的文本保持在页边距之内。
func (pg Page) clampX(x, w float64) float64 {
	if x < pg.Margin {
		return pg.Margin
	}
	if x+w > pg.Width-pg.Margin {
		return pg.Width - w - pg.Margin
	}
	return x
}

// Anchor 决定指令如何在水平方向定位文本。
type Anchor string

const (
	AnchorCenter    Anchor = "center"
	AnchorLeft      Anchor = "left"
	AnchorParagraph Anchor = "paragraph"
	AnchorColumn    Anchor = "column"
)

// Instruction 是版式中一条编译后的绘制语句。
type Instruction struct {
	Anchor      Anchor  `json:"anchor"`
	Text        string  `json:"text"` // 可包含 ${field|filter} 引用
	Font        string  `json:"font"`
	Size        float64 `json:"size"`
	X           float64 `json:"x,omitempty"`
	Y           float64 `json:"y"`
	MaxWidth    float64 `json:"maxWidth,omitempty"` // 0 表示不限宽
	ColumnStart float64 `json:"columnStart,omitempty"`
	ColumnWidth float64 `json:"columnWidth,omitempty"`
	Leading     float64 `json:"leading,omitempty"`
}

// Spec 是编译后的静态版式：页面几何加上有序的绘制指令。
type Spec struct {
	Name         string        `json:"name"`
	Version      string        `json:"version"`
	Page         Page          `json:"page"`
	Instructions []Instruction `json:"instructions"`
}

// Fallback 表示放置项所走的降级路径。
type Fallback string

const (
	FallbackNone          Fallback = ""
	FallbackFixedPosition Fallback = "fixed-position" // 测量失败，在固定 x 处绘制
	FallbackSingleLine    Fallback = "single-line"    // 换行失败，单行居中绘制
)

// Placement 是一段已定位的文本：渲染器只需按 X/Y（基线左端）绘制即可。
type Placement struct {
	Text        string       `json:"text"`
	Font        string       `json:"font"`
	Face        fonts.Handle `json:"face"`
	Size        float64      `json:"size"`
	X           float64      `json:"x"`
	Y           float64      `json:"y"`
	Width       float64      `json:"width"`
	Anchor      Anchor       `json:"anchor"`
	Line        int          `json:"line,omitempty"` // 段落内的行号
	Truncated   bool         `json:"truncated,omitempty"`
	Approximate bool         `json:"approximate,omitempty"` // 宽度来自逐字符估算
	Fallback    Fallback     `json:"fallback,omitempty"`
	Reason      string       `json:"reason,omitempty"`
}

// Degraded 报告放置项是否偏离了常规排版路径。
func (p Placement) Degraded() bool {
	return p.Fallback != FallbackNone || p.Approximate || p.Face.Fallback
}

// Layer 是单条记录的文本层。
type Layer struct {
	Page       Page        `json:"page"`
	Placements []Placement `json:"placements"`
}

// Lines 按绘制顺序返回已放置的字符串。
func (l *Layer) Lines() []string {
	if l == nil {
		return nil
	}
	out := make([]string, 0, len(l.Placements))
	for _, p := range l.Placements {
		out = append(out, p.Text)
	}
	return out
}

// Contains 报告是否有已放置的字符串包含 s。
func (l *Layer) Contains(s string) bool {
	for _, line := range l.Lines() {
		if strings.Contains(line, s) {
			return true
		}
	}
	return false
}
