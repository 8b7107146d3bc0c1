/*
Package layout 在固定页面上定位证书文本。

版式文件先编译为 Spec（见 Build 与 DefaultSpec）。Engine 针对单条记录执行 Spec，
借助 Measurer 测量文本，产出由 Placement 组成的 Layer。排版不会因文本而失败：
超宽文本以省略号截断，测量问题降级为约定的回退方式并标记在 Placement 上。
*/
package layout

import "github.com/npillmayer/schuko/tracing"

// tracer 输出到键为 'certpress.layout' 的 trace
func tracer() tracing.Trace {
	return tracing.Select("certpress.layout")
}
