package layout

import (
	"fmt"
	"strconv"
	"strings"
)

// 版式文件中的长度可以带单位；不带单位时视为 pt。

// Unit 表示长度书写时使用的单位。
type Unit int

const (
	UnitNone Unit = iota // 纯数字，按 pt 处理
	UnitMM
	UnitCM
	UnitIN
	UnitPT
)

// pt 与 mm 之间的换算常量。
const (
	PtToMm = 0.352777
	MmToPt = 1.0 / PtToMm
)

// String 返回单位后缀。
func (u Unit) String() string {
	switch u {
	case UnitMM:
		return "mm"
	case UnitCM:
		return "cm"
	case UnitIN:
		return "in"
	case UnitPT:
		return "pt"
	default:
		return ""
	}
}

// Length 保存数值及其单位。
type Length struct {
	Value float64 `json:"value"`
	Unit  Unit    `json:"unit"`
}

// ToPT 将长度换算为 pt。
func (l Length) ToPT() float64 {
	switch l.Unit {
	case UnitMM:
		return l.Value * MmToPt
	case UnitCM:
		return l.Value * 10 * MmToPt
	case UnitIN:
		return l.Value * 72
	default:
		return l.Value
	}
}

// ToMM 将长度换算为 mm。
func (l Length) ToMM() float64 {
	return l.ToPT() * PtToMm
}

// ParseLength 解析 "50"、"14.3pt"、"20mm" 这样的长度。
func ParseLength(value string) (Length, error) {
	v := strings.ToLower(strings.TrimSpace(value))
	if v == "" {
		return Length{}, fmt.Errorf("空长度值")
	}
	unit := UnitNone
	num := v
	for _, suf := range []struct {
		s string
		u Unit
	}{{"mm", UnitMM}, {"cm", UnitCM}, {"in", UnitIN}, {"pt", UnitPT}} {
		if strings.HasSuffix(v, suf.s) {
			unit = suf.u
			num = strings.TrimSpace(strings.TrimSuffix(v, suf.s))
			break
		}
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return Length{}, fmt.Errorf("长度值 %q 无法解析: %w", value, err)
	}
	return Length{Value: f, Unit: unit}, nil
}

// LineHeightKind 区分倍数行距与绝对行距。
type LineHeightKind int

const (
	LineHeightFactor LineHeightKind = iota
	LineHeightAbsolute
)

// LineHeightSpec 是书写形式的行距：字号的倍数（1.4x）或绝对长度（20、7mm）。
type LineHeightSpec struct {
	Kind   LineHeightKind `json:"kind"`
	Factor float64        `json:"factor,omitempty"`
	Len    Length         `json:"len,omitempty"`
}

// ParseLineHeight 将 "1.4x" 解析为倍数，其余按长度解析。
func ParseLineHeight(value string) (LineHeightSpec, error) {
	v := strings.TrimSpace(value)
	if f, ok := strings.CutSuffix(strings.ToLower(v), "x"); ok {
		factor, err := strconv.ParseFloat(f, 64)
		if err != nil {
			return LineHeightSpec{}, fmt.Errorf("行距倍数 %q 无法解析: %w", value, err)
		}
		return LineHeightSpec{Kind: LineHeightFactor, Factor: factor}, nil
	}
	l, err := ParseLength(v)
	if err != nil {
		return LineHeightSpec{}, err
	}
	return LineHeightSpec{Kind: LineHeightAbsolute, Len: l}, nil
}

// Resolve 根据以 pt 计的字号计算行距（pt）。
func (s LineHeightSpec) Resolve(fontSize float64) float64 {
	switch s.Kind {
	case LineHeightFactor:
		return fontSize * s.Factor
	case LineHeightAbsolute:
		return s.Len.ToPT()
	default:
		return fontSize * 1.4
	}
}
