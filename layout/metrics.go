package layout

import (
	"math"
	"unicode/utf8"

	"github.com/ByLCY/certpress/fonts"
)

// ApproxAdvanceFactor 是无法获得字形度量时假定的单字符步进（字号的倍数）。
const ApproxAdvanceFactor = 0.6

// Approximate 按 字符数 × size × ApproxAdvanceFactor 估算文本宽度。
func Approximate(text string, size float64) float64 {
	return float64(utf8.RuneCountInString(text)) * size * ApproxAdvanceFactor
}

// Measurement 是字符串的宽度，单位 pt。
type Measurement struct {
	Width       float64
	Approximate bool // 宽度来自 Approximate 而非字形步进
}

// FontResolver 将逻辑字体名映射为字体。Resolve 对任何名字都必须返回结果。
type FontResolver interface {
	Resolve(name string) fonts.Handle
}

// Measurer 测量文本渲染后的宽度。
type Measurer interface {
	Measure(text string, face fonts.Handle, size float64) (Measurement, error)
}

// TextMetrics 使用字体的字形步进测量，字体无法测量时退化为 Approximate，从不返回错误。
type TextMetrics struct{}

var _ Measurer = TextMetrics{}

// Measure 实现 Measurer。
func (TextMetrics) Measure(text string, face fonts.Handle, size float64) (Measurement, error) {
	if text == "" {
		return Measurement{}, nil
	}
	w, err := face.Width(text, size)
	if err == nil && !math.IsNaN(w) && !math.IsInf(w, 0) && w >= 0 {
		return Measurement{Width: w}, nil
	}
	if err != nil {
		tracer().Debugf("字体 %s 无法测量：%v", face.Name, err)
	}
	return Measurement{Width: Approximate(text, size), Approximate: true}, nil
}
