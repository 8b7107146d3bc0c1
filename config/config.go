// Package config maps an application configuration onto the options of the
// font registry, the compositor and the batch processor.
package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/tracing"

	"github.com/ByLCY/certpress/batch"
	"github.com/ByLCY/certpress/compose"
	"github.com/ByLCY/certpress/fonts"
)

// Configuration keys.
const (
	KeyFontDir       = "fonts.dir"
	KeySystemFonts   = "fonts.system"
	KeyLayoutFile    = "layout.file"
	KeyWorkers       = "batch.workers"
	KeyRecordTimeout = "batch.timeout" // duration ("30s") or whole seconds
	KeyOutputExt     = "output.ext"
	KeyCreator       = "output.creator"
	KeyTraceLevel    = "tracing.level"
)

// Options is the complete runtime configuration.
type Options struct {
	FontDir       string
	SystemFonts   bool
	LayoutFile    string // empty: built-in certificate layout
	Workers       int
	RecordTimeout time.Duration
	OutputExt     string
	Creator       string
	TraceLevel    tracing.TraceLevel
}

// Default returns the options used when nothing is configured.
func Default() Options {
	return Options{
		FontDir:    fonts.DefaultDir,
		Workers:    1,
		OutputExt:  batch.DefaultExt,
		Creator:    compose.DefaultCreator,
		TraceLevel: tracing.LevelError,
	}
}

// FromConfiguration overlays every key set in conf onto Default.
func FromConfiguration(conf schuko.Configuration) (Options, error) {
	opts := Default()
	if conf == nil {
		return opts, nil
	}
	if conf.IsSet(KeyFontDir) {
		opts.FontDir = strings.TrimSpace(conf.GetString(KeyFontDir))
	}
	if conf.IsSet(KeySystemFonts) {
		opts.SystemFonts = conf.GetBool(KeySystemFonts)
	}
	if conf.IsSet(KeyLayoutFile) {
		opts.LayoutFile = strings.TrimSpace(conf.GetString(KeyLayoutFile))
	}
	if conf.IsSet(KeyWorkers) {
		opts.Workers = conf.GetInt(KeyWorkers)
	}
	if conf.IsSet(KeyRecordTimeout) {
		d, err := ParseTimeout(conf.GetString(KeyRecordTimeout))
		if err != nil {
			return opts, err
		}
		opts.RecordTimeout = d
	}
	if conf.IsSet(KeyOutputExt) {
		opts.OutputExt = strings.TrimPrefix(strings.TrimSpace(conf.GetString(KeyOutputExt)), ".")
	}
	if conf.IsSet(KeyCreator) {
		opts.Creator = conf.GetString(KeyCreator)
	}
	if conf.IsSet(KeyTraceLevel) {
		opts.TraceLevel = tracing.TraceLevelFromString(conf.GetString(KeyTraceLevel))
	}
	return opts, opts.Validate()
}

// ParseTimeout accepts a Go duration or a whole number of seconds.
func ParseTimeout(s string) (time.Duration, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, nil
	}
	if n, err := strconv.Atoi(s); err == nil {
		return time.Duration(n) * time.Second, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("config: %s: %w", KeyRecordTimeout, err)
	}
	return d, nil
}

// Validate rejects values no component can work with.
func (o Options) Validate() error {
	if o.Workers < 1 {
		return fmt.Errorf("config: %s must be at least 1, got %d", KeyWorkers, o.Workers)
	}
	if o.RecordTimeout < 0 {
		return fmt.Errorf("config: %s must not be negative, got %s", KeyRecordTimeout, o.RecordTimeout)
	}
	if o.OutputExt == "" || strings.ContainsAny(o.OutputExt, `/\`) {
		return fmt.Errorf("config: invalid %s %q", KeyOutputExt, o.OutputExt)
	}
	return nil
}

// FontOptions configures the font registry.
func (o Options) FontOptions() fonts.Options {
	return fonts.Options{Dir: o.FontDir, SystemFonts: o.SystemFonts}
}

// ComposeOptions configures a compositor, compiling the layout file if one
// is set.
func (o Options) ComposeOptions() (compose.Options, error) {
	spec, err := compose.LoadLayout(o.LayoutFile)
	if err != nil {
		return compose.Options{}, err
	}
	return compose.Options{Spec: spec, Creator: o.Creator}, nil
}

// BatchOptions configures a batch processor.
func (o Options) BatchOptions(observer func(batch.Event)) batch.Options {
	return batch.Options{
		Workers:       o.Workers,
		RecordTimeout: o.RecordTimeout,
		OutputExt:     o.OutputExt,
		Observer:      observer,
	}
}
