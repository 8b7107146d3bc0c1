package layout

// BuildOptions 配置版式编译阶段的校验范围。
type BuildOptions struct {
	// Fields 为 ${...} 中允许引用的字段名；为 nil 时不校验。
	Fields []string
	// Filters 为允许使用的过滤器名；为 nil 时不校验。
	Filters []string
	// Page 为默认页面；零值时使用 A4Landscape。版式中的 page 语句会覆盖它。
	Page Page
}
