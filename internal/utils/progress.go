package utils

import (
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/vbauerster/mpb/v8"
	"github.com/vbauerster/mpb/v8/decor"
	"golang.org/x/term"
)

// Progress represents a progress bar using mpb. A disabled Progress is
// valid and ignores all updates, so callers never need to branch.
type Progress struct {
	container *mpb.Progress
	bar       *mpb.Bar

	// mu guards description, which the dynamic decorator reads on mpb's
	// render goroutine while Update writes it from the caller's.
	mu          sync.Mutex
	description string
}

var descLength = 24

// NewProgress creates a new progress bar with the given total count.
// The bar only renders when enabled and stderr is a terminal.
func NewProgress(total int, enabled bool) *Progress {
	p := &Progress{}

	if !enabled || !term.IsTerminal(int(os.Stderr.Fd())) {
		return p
	}

	// Add space before progress bar
	fmt.Fprintln(os.Stderr)

	p.container = mpb.New(
		mpb.WithOutput(os.Stderr),
		mpb.WithWidth(64),
		mpb.WithRefreshRate(100*time.Millisecond),
	)

	// Create progress bar with decorators including dynamic description
	p.bar = p.container.New(int64(total),
		mpb.BarStyle().Lbound("[").Filler("█").Tip("█").Padding("░").Rbound("]"),
		mpb.PrependDecorators(
			decor.Any(func(statistics decor.Statistics) string {
				desc := p.currentDescription()
				if len(desc) > descLength {
					return desc[:descLength-2] + ".."
				}
				return desc
			}, decor.WC{W: descLength, C: decor.DindentRight}),
			decor.Name("  "),
			decor.CountersNoUnit("%d/%d", decor.WC{C: decor.DindentRight}),
		),
		mpb.AppendDecorators(
			decor.Percentage(),
		),
	)

	return p
}

// Update updates the progress bar with current count and description
func (p *Progress) Update(current int, description string) {
	if p.bar == nil {
		return
	}

	// Update the description which will be shown by the dynamic decorator
	p.setDescription(description)
	p.bar.SetCurrent(int64(current))
}

func (p *Progress) setDescription(description string) {
	p.mu.Lock()
	p.description = description
	p.mu.Unlock()
}

func (p *Progress) currentDescription() string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.description
}

// Finish completes the progress bar and shuts down the container
func (p *Progress) Finish() {
	if p.container == nil {
		return
	}

	// Wait for the progress bar to finish and shutdown
	p.container.Wait()

	// Add space after progress bar
	fmt.Fprintln(os.Stderr)
}
