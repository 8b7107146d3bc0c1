package layout

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// debugLayer 是文本层的调试视图，额外列出降级的放置项。
type debugLayer struct {
	*Layer
	Degraded []int `json:"degraded,omitempty"` // Placements 下标
}

// WriteDebugJSON 将文本层输出为 JSON，便于核对坐标与降级情况。必要时创建目录。
func WriteDebugJSON(layer *Layer, path string) error {
	if layer == nil {
		return nil
	}
	dump := debugLayer{Layer: layer}
	for i, p := range layer.Placements {
		if p.Degraded() {
			dump.Degraded = append(dump.Degraded, i)
		}
	}
	data, err := json.MarshalIndent(dump, "", "  ")
	if err != nil {
		return fmt.Errorf("编码调试 JSON 失败: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("创建调试目录失败: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}
