package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"time"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"

	"github.com/ByLCY/certpress/batch"
	"github.com/ByLCY/certpress/compose"
	"github.com/ByLCY/certpress/config"
	"github.com/ByLCY/certpress/fonts"
	"github.com/ByLCY/certpress/layout"
	"github.com/ByLCY/certpress/record"
)

func main() {
	recordsPath := flag.String("records", "records.json", "记录文件（JSON 数组，每项为一行数据）")
	templatePath := flag.String("template", "template.pdf", "证书底板 PDF")
	outputDir := flag.String("out", "output", "输出目录")
	report := flag.String("report", "", "生成摘要 JSON 的输出路径")
	debugDir := flag.String("debug", "", "每条记录文本层调试 JSON 的输出目录")
	flag.String("fonts", fonts.DefaultDir, "字体目录")
	flag.Bool("system-fonts", false, "在系统字体目录中查找缺失字体")
	flag.String("layout", "", "版式文件；为空时使用内置证书版式")
	flag.Int("workers", 1, "并行处理的记录数")
	flag.String("timeout", "", "单条记录超时，如 30s；为空不限制")
	flag.String("ext", "pdf", "输出文件扩展名")
	flag.String("trace", "error", "日志级别：debug、info 或 error")
	flag.Parse()

	opts, err := config.FromConfiguration(flagConfiguration())
	if err != nil {
		log.Fatalf("配置无效: %v", err)
	}
	setupTracing(opts.TraceLevel)

	records, err := readRecords(*recordsPath)
	if err != nil {
		log.Fatalf("读取记录失败: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	summary, err := run(ctx, opts, records, *templatePath, *outputDir, *debugDir)
	if err != nil {
		log.Fatalf("批量生成失败: %v", err)
	}
	if *report != "" {
		if err := summary.WriteJSON(*report); err != nil {
			log.Fatalf("输出摘要失败: %v", err)
		}
	}
	printSummary(summary)
	if summary.Failed > 0 {
		os.Exit(1)
	}
}

// run 串联字体加载、合成与批处理。
func run(ctx context.Context, opts config.Options, records []record.Record, templatePath, outputDir, debugDir string) (*batch.Summary, error) {
	registry := fonts.GlobalRegistry(opts.FontOptions())
	composeOpts, err := opts.ComposeOptions()
	if err != nil {
		return nil, fmt.Errorf("加载版式失败: %w", err)
	}
	compositor, err := compose.New(registry, composeOpts)
	if err != nil {
		return nil, err
	}
	var composer batch.Composer = compositor
	if debugDir != "" {
		composer = debugComposer{inner: compositor, dir: debugDir}
	}
	observer := func(e batch.Event) {
		if e.Err != nil {
			tracing.Errorf("第 %d 行 %s 失败: %v", e.Row, e.Name, e.Err)
			return
		}
		tracing.Infof("第 %d 行 %s -> %s", e.Row, e.Name, e.Path)
	}
	p := batch.NewProcessor(composer, registry.Usage(), opts.BatchOptions(observer))
	return p.Run(ctx, records, templatePath, outputDir)
}

// debugComposer 在合成后把文本层写成 {dir}/{certificateId}.json。
type debugComposer struct {
	inner batch.Composer
	dir   string
}

func (d debugComposer) Compose(rec record.Record, tpl *compose.Template) (*compose.Composition, error) {
	out, err := d.inner.Compose(rec, tpl)
	if err != nil {
		return nil, err
	}
	path := filepath.Join(d.dir, rec.CertificateID+".json")
	if err := layout.WriteDebugJSON(out.Layer, path); err != nil {
		tracing.Errorf("输出调试 JSON 失败: %v", err)
	}
	return out, nil
}

// readRecords 读取 JSON 数组；不完整的行原样交给批处理，由其记录为失败行。
func readRecords(path string) ([]record.Record, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var rows []map[string]any
	if err := json.Unmarshal(data, &rows); err != nil {
		return nil, fmt.Errorf("解析 %s 失败: %w", path, err)
	}
	records := make([]record.Record, 0, len(rows))
	for _, row := range rows {
		fields := make(map[string]string, len(row))
		for k, v := range row {
			if v != nil {
				fields[k] = fmt.Sprint(v)
			}
		}
		records = append(records, record.FromRow(fields))
	}
	return records, nil
}

func setupTracing(level tracing.TraceLevel) {
	tracing.SetTraceSelector(tracing.SelectorForAdapter(gologadapter.GetAdapter()))
	// 选择器返回同一个共享的 tracer
	tracing.Select("certpress").SetTraceLevel(level)
}

func printSummary(s *batch.Summary) {
	fmt.Printf("共处理 %d 条：成功 %d，失败 %d（%d 字节，用时 %s）\n",
		s.TotalProcessed, s.Successful, s.Failed, s.TotalBytes(), s.Duration.Round(time.Millisecond))
	fmt.Printf("输出目录：%s\n", s.OutputDirectory)
	for _, e := range s.Errors {
		fmt.Printf("  第 %d 行 %s: %s\n", e.Row, e.Name, e.Message)
	}
	fmt.Println("字体：")
	for _, spec := range fonts.Specs {
		if s.FontUsage.IsLoaded(spec.Name) {
			fmt.Printf("  %s 已加载\n", spec.Name)
		} else if fb, ok := s.FontUsage.FallbackUsed[spec.Name]; ok {
			fmt.Printf("  %s -> %s（替换）\n", spec.Name, fb)
		}
	}
}

// flagConf 把命令行中显式给出的选项作为配置键；未给出的键保持默认值。
type flagConf map[string]string

var _ schuko.Configuration = flagConf{}

var flagKeys = map[string]string{
	"fonts":        config.KeyFontDir,
	"system-fonts": config.KeySystemFonts,
	"layout":       config.KeyLayoutFile,
	"workers":      config.KeyWorkers,
	"timeout":      config.KeyRecordTimeout,
	"ext":          config.KeyOutputExt,
	"trace":        config.KeyTraceLevel,
}

func flagConfiguration() flagConf {
	conf := flagConf{}
	flag.Visit(func(f *flag.Flag) {
		if key, ok := flagKeys[f.Name]; ok {
			conf[key] = f.Value.String()
		}
	})
	return conf
}

func (c flagConf) InitDefaults() {}

func (c flagConf) IsSet(key string) bool {
	_, ok := c[key]
	return ok
}

func (c flagConf) GetString(key string) string { return c[key] }

func (c flagConf) GetInt(key string) int {
	n, _ := strconv.Atoi(c[key])
	return n
}

func (c flagConf) GetBool(key string) bool {
	b, _ := strconv.ParseBool(c[key])
	return b
}

func (c flagConf) IsInteractive() bool { return false }
