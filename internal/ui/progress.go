package ui

import (
	"fmt"
	"io"

	"github.com/schollz/progressbar/v3"
)

// ProgressBar wraps progressbar/v3 with sdklaunch styling.
// A disabled bar accepts every call and renders nothing.
type ProgressBar struct {
	bar *progressbar.ProgressBar
}

// NewCounter creates a spinner that counts processed items of unknown total
func NewCounter(w io.Writer, description string, enabled bool) *ProgressBar {
	if !enabled {
		return &ProgressBar{}
	}

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetWriter(w),
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(10),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionShowCount(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprint(w, "\n")
		}),
		progressbar.OptionSetRenderBlankState(true),
	)

	return &ProgressBar{bar: bar}
}

// Add increments the progress bar by n
func (p *ProgressBar) Add(n int) error {
	if p.bar == nil {
		return nil
	}
	return p.bar.Add(n)
}

// Describe changes the description of the progress bar
func (p *ProgressBar) Describe(description string) {
	if p.bar == nil {
		return
	}
	p.bar.Describe(description)
}

// Finish completes the progress bar
func (p *ProgressBar) Finish() error {
	if p.bar == nil {
		return nil
	}
	return p.bar.Finish()
}

// Clear clears the progress bar
func (p *ProgressBar) Clear() error {
	if p.bar == nil {
		return nil
	}
	return p.bar.Clear()
}

// Enabled reports whether the bar renders anything
func (p *ProgressBar) Enabled() bool {
	return p.bar != nil
}
