package canvasrenderer

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tdewolff/canvas"
	"github.com/tdewolff/canvas/renderers/pdf"

	"github.com/ByLCY/certpress/fonts"
	"github.com/ByLCY/certpress/layout"
	"github.com/ByLCY/certpress/renderer"
)

// Renderer 使用 github.com/tdewolff/canvas 绘制文本层，可被多个 goroutine 共用。
type Renderer struct {
	meta Meta
}

var _ renderer.Renderer = (*Renderer)(nil)

// Meta 为文本层 PDF 的文档信息；合成后的文档会另行设置。
type Meta struct {
	Title   string
	Creator string
}

// NewRenderer 创建渲染器，每个文本层 PDF 都带上 meta。
func NewRenderer(meta Meta) *Renderer {
	return &Renderer{meta: meta}
}

// shapedLine 是已排好字形、等待绘制的一行。
type shapedLine struct {
	x, y float64 // mm
	text *canvas.Text
	face fonts.Handle
}

// Render 将文本层渲染为与页面同尺寸的单页 PDF。
// 写出 PDF 时会对字体做子集化并改写共享的字体数据，因此从绘制到 Close
// 期间持有文本层用到的全部字体。
func (r *Renderer) Render(layer *layout.Layer) ([]byte, error) {
	if layer == nil {
		return nil, fmt.Errorf("文本层为空")
	}
	if layer.Page.Width <= 0 || layer.Page.Height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效：%gx%g", layer.Page.Width, layer.Page.Height)
	}

	lines := make([]shapedLine, 0, len(layer.Placements))
	for _, p := range layer.Placements {
		line, ok, err := shape(p)
		if err != nil {
			return nil, err
		}
		if ok {
			lines = append(lines, line)
		}
	}
	faces := make([]fonts.Handle, len(lines))
	for i, l := range lines {
		faces[i] = l.face
	}
	release := fonts.Hold(faces...)
	defer release()

	width, height := toMm(layer.Page.Width), toMm(layer.Page.Height)
	var buf bytes.Buffer
	writer := pdf.New(&buf, width, height, nil)
	writer.SetInfo(r.meta.Title, "", "", "", r.meta.Creator)

	c := canvas.New(width, height)
	ctx := canvas.NewContext(c)
	ctx.SetCoordSystem(canvas.CartesianI) // PDF 坐标：原点在左下角，y 向上
	for _, l := range lines {
		ctx.DrawText(l.x, l.y, l.text)
	}
	c.RenderTo(writer)

	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("写入 PDF 失败: %w", err)
	}
	return buf.Bytes(), nil
}

// shape 为基线左端位于 (X, Y) 的一段文本排字形，坐标由 pt 转为 canvas 使用的 mm。
// 空白文本不绘制。
func shape(p layout.Placement) (shapedLine, bool, error) {
	if strings.TrimSpace(p.Text) == "" {
		return shapedLine{}, false, nil
	}
	text, err := p.Face.TextLine(p.Text, p.Size)
	if err != nil {
		return shapedLine{}, false, fmt.Errorf("排版文本 %q 失败: %w", p.Text, err)
	}
	return shapedLine{x: toMm(p.X), y: toMm(p.Y), text: text, face: p.Face}, true, nil
}

// toMm 将点(pt)转换为毫米(mm)。
func toMm(pt float64) float64 { return pt * layout.PtToMm }
