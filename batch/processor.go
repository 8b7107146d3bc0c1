package batch

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ByLCY/certpress/compose"
	"github.com/ByLCY/certpress/fonts"
	"github.com/ByLCY/certpress/record"
)

// ErrBatch marks failures which abort a whole run.
var ErrBatch = errors.New("batch failed")

// DefaultExt is the extension of written documents.
const DefaultExt = "pdf"

// Composer produces one document per record. *compose.Compositor
// implements it.
type Composer interface {
	Compose(rec record.Record, tpl *compose.Template) (*compose.Composition, error)
}

var _ Composer = (*compose.Compositor)(nil)

// Event reports the outcome of one record as soon as it is known.
// Err is nil on success, Path is empty on failure.
type Event struct {
	Row           int
	CertificateID string
	Name          string
	Path          string
	Err           error
}

// Options configure a Processor. Zero values select defaults.
type Options struct {
	Workers       int           // <= 1: sequential
	RecordTimeout time.Duration // 0: no per-record limit
	OutputExt     string        // default DefaultExt
	Observer      func(Event)   // called once per record, never concurrently
}

// Processor runs batches against one Composer.
type Processor struct {
	composer Composer
	usage    fonts.Usage
	opts     Options
	observe  sync.Mutex
}

// NewProcessor creates a processor. usage is the font report of the
// registry behind c; it is copied into every Summary unchanged.
func NewProcessor(c Composer, usage fonts.Usage, opts Options) *Processor {
	if opts.Workers < 1 {
		opts.Workers = 1
	}
	opts.OutputExt = strings.TrimPrefix(strings.TrimSpace(opts.OutputExt), ".")
	if opts.OutputExt == "" {
		opts.OutputExt = DefaultExt
	}
	return &Processor{composer: c, usage: usage, opts: opts}
}

// outcome is the result of one record, before it is folded into a Summary.
type outcome struct {
	row  int
	name string
	file FileLocation
	err  error
}

// Run renders every record to {outputDir}/{certificateId}.{ext}. Per-record
// failures, including cancellation of ctx, end up in Summary.Errors; an
// error is only returned, wrapping ErrBatch, if the template cannot be
// loaded or outputDir cannot be written.
func (p *Processor) Run(ctx context.Context, records []record.Record, templatePath, outputDir string) (*Summary, error) {
	if p.composer == nil {
		return nil, fmt.Errorf("%w: no composer", ErrBatch)
	}
	started := time.Now()
	tpl, err := compose.LoadTemplate(templatePath)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBatch, err)
	}
	dir, err := prepareDir(outputDir)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrBatch, err)
	}
	tracer().Infof("batch: %d record(s), template %s, output %s, %d worker(s)", len(records), tpl.Source, dir, p.opts.Workers)

	outcomes := make([]outcome, len(records))
	var g errgroup.Group
	g.SetLimit(p.opts.Workers)
	for i, rec := range records {
		g.Go(func() error {
			o := p.process(ctx, i+1, rec, tpl, dir)
			outcomes[i] = o
			p.notify(rec, o)
			return nil
		})
	}
	_ = g.Wait() // workers never fail, outcomes carry the errors

	summary := newSummary(p.usage)
	summary.OutputDirectory = dir
	summary.TemplateSource = tpl.Source
	summary.StartedAt = started
	for _, o := range outcomes {
		summary.add(o)
	}
	summary.Duration = time.Since(started)
	tracer().Infof("batch: %d processed, %d successful, %d failed in %s",
		summary.TotalProcessed, summary.Successful, summary.Failed, summary.Duration.Round(time.Millisecond))
	return summary, nil
}

// prepareDir creates dir if needed and checks that files can be created in
// it. It returns the absolute path.
func prepareDir(dir string) (string, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return "", fmt.Errorf("output directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	tmp, err := os.CreateTemp(abs, ".certpress-*")
	if err != nil {
		return "", fmt.Errorf("output directory %s is not writable: %w", abs, err)
	}
	tmp.Close()
	os.Remove(tmp.Name())
	return abs, nil
}

// process handles one record. Nothing that goes wrong here escapes as
// anything but the outcome's error.
func (p *Processor) process(ctx context.Context, row int, rec record.Record, tpl *compose.Template, dir string) (o outcome) {
	o = outcome{row: row, name: rec.DisplayName()}
	defer func() {
		if r := recover(); r != nil {
			o.err = fmt.Errorf("unexpected failure: %v", r)
		}
	}()
	if err := ctx.Err(); err != nil {
		o.err = fmt.Errorf("not attempted: %w", err)
		return o
	}
	if err := rec.Validate(); err != nil {
		o.err = err
		return o
	}
	doc, err := p.compose(ctx, rec, tpl)
	if err != nil {
		o.err = err
		return o
	}
	path := filepath.Join(dir, rec.CertificateID+"."+p.opts.OutputExt)
	if err := os.WriteFile(path, doc.PDF, 0o644); err != nil {
		o.err = fmt.Errorf("write %s: %w", path, err)
		return o
	}
	info, err := os.Stat(path)
	if err != nil {
		o.err = fmt.Errorf("stat %s: %w", path, err)
		return o
	}
	o.file = FileLocation{
		CertificateID: rec.CertificateID,
		Name:          o.name,
		Path:          path,
		SizeBytes:     info.Size(),
	}
	tracer().Debugf("row %d: wrote %s (%d bytes)", row, path, info.Size())
	return o
}

type composed struct {
	doc *compose.Composition
	err error
}

// compose runs the composer, bounded by RecordTimeout and ctx. A composer
// which overruns is abandoned; its result is discarded.
func (p *Processor) compose(ctx context.Context, rec record.Record, tpl *compose.Template) (*compose.Composition, error) {
	if p.opts.RecordTimeout <= 0 {
		return p.composer.Compose(rec, tpl)
	}
	ctx, cancel := context.WithTimeout(ctx, p.opts.RecordTimeout)
	defer cancel()
	done := make(chan composed, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- composed{err: fmt.Errorf("unexpected failure: %v", r)}
			}
		}()
		doc, err := p.composer.Compose(rec, tpl)
		done <- composed{doc: doc, err: err}
	}()
	select {
	case res := <-done:
		return res.doc, res.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return nil, fmt.Errorf("timed out after %s", p.opts.RecordTimeout)
		}
		return nil, ctx.Err()
	}
}

func (p *Processor) notify(rec record.Record, o outcome) {
	if p.opts.Observer == nil {
		return
	}
	p.observe.Lock()
	defer p.observe.Unlock()
	p.opts.Observer(Event{
		Row:           o.row,
		CertificateID: rec.CertificateID,
		Name:          o.name,
		Path:          o.file.Path,
		Err:           o.err,
	})
}
