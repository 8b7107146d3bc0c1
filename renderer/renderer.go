package renderer

import "github.com/ByLCY/certpress/layout"

// Renderer 将单条记录的文本层输出为一页透明背景的文档（例如 PDF）。
// Render 返回生成的二进制数据以及可能的错误。
type Renderer interface {
	Render(layer *layout.Layer) ([]byte, error)
}
