package render

import (
	"io"

	"github.com/schollz/progressbar/v3"
)

// Reporter receives progress of a render run.
type Reporter interface {
	Start(total int)
	Advance(page string)
	Finish()
}

// NopReporter discards progress.
type NopReporter struct{}

func (NopReporter) Start(int)      {}
func (NopReporter) Advance(string) {}
func (NopReporter) Finish()        {}

// BarReporter draws a progress bar on w.
type BarReporter struct {
	w   io.Writer
	bar *progressbar.ProgressBar
}

// NewBarReporter returns a BarReporter writing to w.
func NewBarReporter(w io.Writer) *BarReporter {
	return &BarReporter{w: w}
}

func (r *BarReporter) Start(total int) {
	r.bar = progressbar.NewOptions(total,
		progressbar.OptionSetWriter(r.w),
		progressbar.OptionSetDescription("Rendering pages"),
		progressbar.OptionSetWidth(40),
		progressbar.OptionShowCount(),
		progressbar.OptionClearOnFinish(),
	)
}

func (r *BarReporter) Advance(page string) {
	if r.bar != nil {
		r.bar.Describe(page)
		_ = r.bar.Add(1)
	}
}

func (r *BarReporter) Finish() {
	if r.bar != nil {
		_ = r.bar.Finish()
	}
}
