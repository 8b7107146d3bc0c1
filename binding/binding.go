package binding

import (
	"fmt"
	"regexp"
	"strings"
)

var exprPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Filter 对解析出的值做变换，例如转为大写。
type Filter func(string) string

// Filters 将 '|' 之后书写的过滤器名映射到其实现。
type Filters map[string]Filter

// Ref 表示文本中的一个 ${field|filter|...} 引用。
type Ref struct {
	Path    string
	Filters []string
}

// References 按出现顺序列出文本中的 ${...} 引用。
func References(text string) []Ref {
	var refs []Ref
	for _, groups := range exprPattern.FindAllStringSubmatch(text, -1) {
		refs = append(refs, parseExpr(groups[1]))
	}
	return refs
}

// Expand 将文本中的 ${field|filter} 替换为 data 中对应字段的值。
// 字段名按原样查找，不解析嵌套路径；未知字段或未知过滤器均返回错误。
func Expand(text string, data map[string]string, filters Filters) (string, error) {
	var firstErr error
	out := exprPattern.ReplaceAllStringFunc(text, func(match string) string {
		if firstErr != nil {
			return match
		}
		val, err := expand(match, data, filters)
		if err != nil {
			firstErr = err
			return match
		}
		return val
	})
	if firstErr != nil {
		return "", firstErr
	}
	return out, nil
}

func expand(match string, data map[string]string, filters Filters) (string, error) {
	groups := exprPattern.FindStringSubmatch(match)
	if len(groups) < 2 {
		return "", fmt.Errorf("引用格式错误 %s", match)
	}
	ref := parseExpr(groups[1])
	if ref.Path == "" {
		return "", fmt.Errorf("空引用 %s", match)
	}
	out, ok := data[ref.Path]
	if !ok {
		return "", fmt.Errorf("未知字段 %q", ref.Path)
	}
	for _, name := range ref.Filters {
		f, ok := filters[name]
		if !ok || f == nil {
			return "", fmt.Errorf("%s 中存在未知过滤器 %q", match, name)
		}
		out = f(out)
	}
	return out, nil
}

func parseExpr(expr string) Ref {
	parts := strings.Split(expr, "|")
	ref := Ref{Path: strings.TrimSpace(parts[0])}
	for _, p := range parts[1:] {
		if name := strings.TrimSpace(p); name != "" {
			ref.Filters = append(ref.Filters, name)
		}
	}
	return ref
}
