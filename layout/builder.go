package layout

import (
	"fmt"
	"io"
	"os"
	"slices"

	"github.com/ByLCY/certpress/binding"
	"github.com/ByLCY/certpress/dsl"
)

// Build 将解析后的版式文档编译为 Spec。
func Build(doc *dsl.Document, opts BuildOptions) (*Spec, error) {
	if doc == nil {
		return nil, fmt.Errorf("版式文档为空")
	}
	spec := &Spec{Name: doc.Name, Version: doc.Version, Page: opts.Page}
	if spec.Page == (Page{}) {
		spec.Page = A4Landscape
	}

	var centeredColumns []int
	for _, st := range doc.Statements {
		switch {
		case st.Page != nil:
			if err := applyPage(&spec.Page, st.Page); err != nil {
				return nil, err
			}
		case st.Draw != nil:
			ins, centered, err := buildInstruction(st.Draw, opts)
			if err != nil {
				return nil, err
			}
			if centered {
				centeredColumns = append(centeredColumns, len(spec.Instructions))
			}
			spec.Instructions = append(spec.Instructions, ins)
		}
	}
	if spec.Page.Width <= 0 || spec.Page.Height <= 0 {
		return nil, fmt.Errorf("页面尺寸无效：%gx%g", spec.Page.Width, spec.Page.Height)
	}
	// 未指定 column-start 的栏在页面上居中，需在页面尺寸确定后计算。
	for _, i := range centeredColumns {
		spec.Instructions[i].ColumnStart = (spec.Page.Width - spec.Instructions[i].ColumnWidth) / 2
	}
	if len(spec.Instructions) == 0 {
		return nil, fmt.Errorf("版式 %s 中没有绘制语句", doc.Name)
	}
	return spec, nil
}

// Compile 解析并编译版式源文本。
func Compile(src string, opts BuildOptions) (*Spec, error) {
	doc, err := dsl.ParseString(src)
	if err != nil {
		return nil, fmt.Errorf("解析版式失败: %w", err)
	}
	return Build(doc, opts)
}

// Load 读取并编译版式文件。
func Load(path string, opts BuildOptions) (*Spec, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("无法打开版式文件 %s: %w", path, err)
	}
	defer file.Close()
	return parseAndBuild(path, file, opts)
}

func parseAndBuild(name string, r io.Reader, opts BuildOptions) (*Spec, error) {
	doc, err := dsl.Parse(name, r)
	if err != nil {
		return nil, fmt.Errorf("解析版式失败: %w", err)
	}
	return Build(doc, opts)
}

func applyPage(page *Page, st *dsl.PageStatement) error {
	params, err := collectParams(st.Params, "width", "height", "margin")
	if err != nil {
		return fmt.Errorf("%s: page %w", st.Pos, err)
	}
	for key, dst := range map[string]*float64{"width": &page.Width, "height": &page.Height, "margin": &page.Margin} {
		if _, ok := params[key]; !ok {
			continue
		}
		v, err := params.length(key)
		if err != nil {
			return fmt.Errorf("%s: page %w", st.Pos, err)
		}
		*dst = v
	}
	return nil
}

// 每种绘制语句必填与可选的参数。
var drawParams = map[Anchor]struct{ required, optional []string }{
	AnchorCenter:    {required: []string{"font", "size", "y"}, optional: []string{"max-width"}},
	AnchorLeft:      {required: []string{"font", "size", "x", "y"}, optional: []string{"max-width"}},
	AnchorParagraph: {required: []string{"font", "size", "y", "max-width", "leading"}},
	AnchorColumn:    {required: []string{"font", "size", "y", "column-width"}, optional: []string{"column-start"}},
}

func buildInstruction(st *dsl.DrawStatement, opts BuildOptions) (Instruction, bool, error) {
	anchor := Anchor(st.Kind)
	allowed, ok := drawParams[anchor]
	if !ok {
		return Instruction{}, false, fmt.Errorf("%s: 未知的绘制语句 %s", st.Pos, st.Kind)
	}
	params, err := collectParams(st.Params, append(append([]string{}, allowed.required...), allowed.optional...)...)
	if err != nil {
		return Instruction{}, false, fmt.Errorf("%s: %s %w", st.Pos, st.Kind, err)
	}
	for _, key := range allowed.required {
		if _, ok := params[key]; !ok {
			return Instruction{}, false, fmt.Errorf("%s: %s 缺少参数 %s", st.Pos, st.Kind, key)
		}
	}
	if err := checkReferences(string(st.Text), opts); err != nil {
		return Instruction{}, false, fmt.Errorf("%s: %s %w", st.Pos, st.Kind, err)
	}

	ins := Instruction{Anchor: anchor, Text: string(st.Text), Font: params["font"].Raw()}
	fields := []struct {
		key string
		dst *float64
	}{
		{"size", &ins.Size},
		{"x", &ins.X},
		{"y", &ins.Y},
		{"max-width", &ins.MaxWidth},
		{"column-start", &ins.ColumnStart},
		{"column-width", &ins.ColumnWidth},
	}
	for _, f := range fields {
		if _, ok := params[f.key]; !ok {
			continue
		}
		if *f.dst, err = params.length(f.key); err != nil {
			return Instruction{}, false, fmt.Errorf("%s: %s %w", st.Pos, st.Kind, err)
		}
	}
	if v, ok := params["leading"]; ok {
		lh, err := ParseLineHeight(v.Raw())
		if err != nil {
			return Instruction{}, false, fmt.Errorf("%s: %s %w", st.Pos, st.Kind, err)
		}
		ins.Leading = lh.Resolve(ins.Size)
	}
	if ins.Font == "" {
		return Instruction{}, false, fmt.Errorf("%s: %s 的 font 不能为空", st.Pos, st.Kind)
	}
	if ins.Size <= 0 {
		return Instruction{}, false, fmt.Errorf("%s: %s 的 size 必须为正数", st.Pos, st.Kind)
	}
	_, hasStart := params["column-start"]
	return ins, anchor == AnchorColumn && !hasStart, nil
}

type paramSet map[string]*dsl.Value

func collectParams(list []*dsl.Param, allowed ...string) (paramSet, error) {
	out := make(paramSet, len(list))
	for _, p := range list {
		if !slices.Contains(allowed, p.Key) {
			return nil, fmt.Errorf("不支持参数 %s", p.Key)
		}
		if _, dup := out[p.Key]; dup {
			return nil, fmt.Errorf("参数 %s 重复", p.Key)
		}
		out[p.Key] = p.Value
	}
	return out, nil
}

func (ps paramSet) length(key string) (float64, error) {
	v := ps[key]
	if v == nil || v.Number == nil {
		return 0, fmt.Errorf("参数 %s 需要数值", key)
	}
	l, err := ParseLength(*v.Number)
	if err != nil {
		return 0, fmt.Errorf("参数 %s: %w", key, err)
	}
	return l.ToPT(), nil
}

func checkReferences(text string, opts BuildOptions) error {
	for _, ref := range binding.References(text) {
		if opts.Fields != nil && !slices.Contains(opts.Fields, ref.Path) {
			return fmt.Errorf("引用了未知字段 ${%s}", ref.Path)
		}
		for _, f := range ref.Filters {
			if opts.Filters != nil && !slices.Contains(opts.Filters, f) {
				return fmt.Errorf("引用了未知过滤器 %s", f)
			}
		}
	}
	return nil
}
