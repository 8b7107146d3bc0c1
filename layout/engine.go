package layout

import (
	"fmt"
	"math"
)

// Ellipsis 附加在被截断文本的末尾。
const Ellipsis = "…"

// FallbackCenterOffset：无法测量宽度的居中文本放在 pageWidth/2 - FallbackCenterOffset 处。
const FallbackCenterOffset = 100.0

// minLeftPrefix 是 DrawLeftAligned 截断时保留的最短前缀（按字符计）。
const minLeftPrefix = 3

// Engine 在单页上定位文本。它不保存任何单条记录的状态，
// 只要 FontResolver 与 Measurer 支持并发，即可在多个 goroutine 间共享。
type Engine struct {
	page    Page
	fonts   FontResolver
	metrics Measurer
}

// NewEngine 为 page 创建排版引擎。metrics 为 nil 时使用 TextMetrics。
func NewEngine(page Page, fonts FontResolver, metrics Measurer) *Engine {
	if metrics == nil {
		metrics = TextMetrics{}
	}
	return &Engine{page: page, fonts: fonts, metrics: metrics}
}

// Page 返回引擎所用的页面几何。
func (e *Engine) Page() Page { return e.page }

// width 按 p 的字体与字号测量文本，近似值会标记在 p 上。
func (e *Engine) width(p *Placement, text string) (float64, error) {
	m, err := e.metrics.Measure(text, p.Face, p.Size)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(m.Width) || math.IsInf(m.Width, 0) || m.Width < 0 {
		return 0, fmt.Errorf("文本 %q 的宽度无效：%g", text, m.Width)
	}
	if m.Approximate {
		p.Approximate = true
	}
	return m.Width, nil
}

func (e *Engine) start(anchor Anchor, text, font string, size, y float64) Placement {
	return Placement{
		Text:   text,
		Font:   font,
		Face:   e.fonts.Resolve(font),
		Size:   size,
		Y:      y,
		Anchor: anchor,
	}
}

func fixedPosition(p Placement, x float64, err error) Placement {
	p.X = x
	p.Fallback = FallbackFixedPosition
	p.Reason = err.Error()
	return p
}

// DrawCentered 以 y 为基线将文本水平居中。若 maxWidth > 0 且文本超宽，
// 则逐字符回退直到 前缀+"…" 放得下，最坏情况只剩 "…"。x 会被限制在页边距之内。
func (e *Engine) DrawCentered(text, font string, size, y, maxWidth float64) Placement {
	p := e.start(AnchorCenter, text, font, size, y)
	w, err := e.width(&p, text)
	if err == nil && maxWidth > 0 && w > maxWidth {
		p.Text, w, err = e.fitWithEllipsis(&p, text, maxWidth)
		p.Truncated = true
	}
	if err != nil {
		p.Text, p.Truncated = text, false
		return fixedPosition(p, e.page.Width/2-FallbackCenterOffset, err)
	}
	p.Width = w
	p.X = e.page.clampX((e.page.Width-w)/2, w)
	return p
}

// fitWithEllipsis 缩短前缀，直到 前缀+"…" 不超过 maxWidth。
func (e *Engine) fitWithEllipsis(p *Placement, text string, maxWidth float64) (string, float64, error) {
	prefix := []rune(text)
	for len(prefix) > 0 {
		w, err := e.width(p, string(prefix)+Ellipsis)
		if err != nil {
			return "", 0, err
		}
		if w <= maxWidth {
			return string(prefix) + Ellipsis, w, nil
		}
		prefix = prefix[:len(prefix)-1]
	}
	w, err := e.width(p, Ellipsis)
	return Ellipsis, w, err
}

// DrawLeftAligned 从 x 开始左对齐绘制。超出 maxWidth 的部分截为 前缀+"…"，
// 但前缀不少于三个字符。
func (e *Engine) DrawLeftAligned(text, font string, size, x, y, maxWidth float64) Placement {
	p := e.start(AnchorLeft, text, font, size, y)
	p.X = x
	w, err := e.width(&p, text)
	if err == nil && maxWidth > 0 && w > maxWidth {
		prefix := []rune(text)
		out := text
		for w > maxWidth && len(prefix) > minLeftPrefix {
			prefix = prefix[:len(prefix)-1]
			out = string(prefix) + Ellipsis
			if w, err = e.width(&p, out); err != nil {
				break
			}
		}
		p.Text = out
		p.Truncated = out != text
	}
	if err != nil {
		p.Text, p.Truncated = text, false
		return fixedPosition(p, x, err)
	}
	p.Width = w
	return p
}

// DrawCenteredInColumn 在 [columnStart, columnStart+columnWidth] 内居中文本，栏内文本不截断。
func (e *Engine) DrawCenteredInColumn(text, font string, size, y, columnStart, columnWidth float64) Placement {
	p := e.start(AnchorColumn, text, font, size, y)
	w, err := e.width(&p, text)
	if err != nil {
		return fixedPosition(p, columnStart, err)
	}
	p.Width = w
	p.X = columnStart + (columnWidth-w)/2
	return p
}

// DrawCenteredParagraph 按 maxWidth 换行，并将每一行在页面上居中。
// 段落占据 [y - height, y]，height = 行数 × leading，首行基线位于 y 下方一个字号处。
// 换行失败时改用 DrawCentered 单行绘制。
func (e *Engine) DrawCenteredParagraph(text, font string, size, y, maxWidth, leading float64) []Placement {
	p := e.start(AnchorParagraph, text, font, size, y)
	lines, err := e.wrap(&p, text, maxWidth, leading)
	if err != nil {
		single := e.DrawCentered(text, font, size, y, maxWidth)
		if single.Fallback == FallbackNone {
			single.Fallback = FallbackSingleLine
			single.Reason = err.Error()
		}
		tracer().Debugf("段落 %q 改为单行绘制：%v", text, err)
		return []Placement{single}
	}

	left := (e.page.Width - maxWidth) / 2
	out := make([]Placement, 0, len(lines))
	for i, line := range lines {
		lp := p
		lp.Text = line.Text
		lp.Width = line.Width
		lp.Line = i
		lp.X = left + (maxWidth-line.Width)/2
		lp.Y = y - size - float64(i)*leading
		out = append(out, lp)
	}
	return out
}

func (e *Engine) wrap(p *Placement, text string, maxWidth, leading float64) ([]wrappedLine, error) {
	if leading <= 0 {
		return nil, fmt.Errorf("行距必须为正数，当前为 %g", leading)
	}
	return greedyWrap(text, maxWidth, func(s string) (float64, error) {
		return e.width(p, s)
	})
}

// Run 依次执行 spec 中的指令，用 expand 展开文本并汇总为文本层。
// 只有文本展开失败才返回错误，排版本身的问题一律降级处理。
func (e *Engine) Run(spec *Spec, expand func(string) (string, error)) (*Layer, error) {
	if spec == nil {
		return nil, fmt.Errorf("版式为空")
	}
	layer := &Layer{Page: e.page}
	for i, ins := range spec.Instructions {
		text := ins.Text
		if expand != nil {
			var err error
			if text, err = expand(ins.Text); err != nil {
				return nil, fmt.Errorf("第 %d 条指令（%s）：%w", i+1, ins.Anchor, err)
			}
		}
		switch ins.Anchor {
		case AnchorCenter:
			layer.Placements = append(layer.Placements, e.DrawCentered(text, ins.Font, ins.Size, ins.Y, ins.MaxWidth))
		case AnchorLeft:
			layer.Placements = append(layer.Placements, e.DrawLeftAligned(text, ins.Font, ins.Size, ins.X, ins.Y, ins.MaxWidth))
		case AnchorParagraph:
			layer.Placements = append(layer.Placements, e.DrawCenteredParagraph(text, ins.Font, ins.Size, ins.Y, ins.MaxWidth, ins.Leading)...)
		case AnchorColumn:
			layer.Placements = append(layer.Placements, e.DrawCenteredInColumn(text, ins.Font, ins.Size, ins.Y, ins.ColumnStart, ins.ColumnWidth))
		default:
			return nil, fmt.Errorf("第 %d 条指令：未知的对齐方式 %q", i+1, ins.Anchor)
		}
	}
	for _, p := range layer.Placements {
		if p.Degraded() {
			tracer().Debugf("降级放置 %q：font=%s face=%s fallback=%q approx=%v", p.Text, p.Font, p.Face.Name, p.Fallback, p.Approximate)
		}
	}
	return layer, nil
}
