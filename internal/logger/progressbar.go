package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// DefaultProgressPrefix labels the conversion progress bar.
const DefaultProgressPrefix = "XML to JSON Conversion Progress: "

// ProgressBar represents an ASCII progress bar with color support
type ProgressBar struct {
	current     int
	total       int
	width       int
	enableColor bool
	prefix      string
	mu          sync.RWMutex
}

// NewProgressBar creates a new progress bar
func NewProgressBar(total, width int, enableColor bool) *ProgressBar {
	if width < 1 {
		width = 10
	}
	return &ProgressBar{
		total:       total,
		width:       width,
		enableColor: enableColor,
	}
}

// Update sets the current progress value
func (pb *ProgressBar) Update(current int) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.current = current
}

func (pb *ProgressBar) percentage() int {
	if pb.total == 0 {
		return 0
	}

	perc := (pb.current * 100) / pb.total
	if perc > 100 {
		perc = 100
	}
	if perc < 0 {
		perc = 0
	}
	return perc
}

// SetPrefix sets a custom prefix for the progress bar
func (pb *ProgressBar) SetPrefix(prefix string) {
	pb.mu.Lock()
	defer pb.mu.Unlock()
	pb.prefix = prefix
}

// Render generates the ASCII progress bar string
func (pb *ProgressBar) Render() string {
	pb.mu.RLock()
	defer pb.mu.RUnlock()

	perc := pb.percentage()

	filled := (perc * pb.width) / 100
	if filled > pb.width {
		filled = pb.width
	}

	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", pb.width-filled) + "]"
	result := fmt.Sprintf("%s%s %d/%d (%d%%)", pb.prefix, bar, pb.current, pb.total, perc)

	if pb.enableColor {
		if perc < 100 {
			result = color.New(color.FgCyan).Sprint(result)
		} else {
			result = color.New(color.FgGreen).Sprint(result)
		}
	}

	return result
}

// =============================================================================
// TERMINAL DISPLAY
// =============================================================================

// ProgressDisplay draws a ProgressBar on a writer. On a terminal the bar is
// redrawn in place after every update; elsewhere only the finished bar is
// printed so logs and pipes stay readable.
type ProgressDisplay struct {
	bar         *ProgressBar
	writer      io.Writer
	interactive bool
	mu          sync.Mutex
}

// NewProgressDisplay creates a display for total tasks writing to w.
func NewProgressDisplay(w io.Writer, total int) *ProgressDisplay {
	interactive := isInteractive(w)

	bar := NewProgressBar(total, 30, interactive && !color.NoColor)
	bar.SetPrefix(DefaultProgressPrefix)

	return &ProgressDisplay{
		bar:         bar,
		writer:      w,
		interactive: interactive,
	}
}

func isInteractive(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Update records completed tasks and redraws when interactive.
func (pd *ProgressDisplay) Update(completed, total int) {
	pd.bar.Update(completed)

	if !pd.interactive {
		return
	}

	pd.mu.Lock()
	defer pd.mu.Unlock()
	fmt.Fprint(pd.writer, "\r"+pd.bar.Render())
}

// Finish prints the final state of the bar followed by a newline.
func (pd *ProgressDisplay) Finish() {
	pd.mu.Lock()
	defer pd.mu.Unlock()

	if pd.interactive {
		fmt.Fprint(pd.writer, "\r"+pd.bar.Render()+"\n")
		return
	}
	fmt.Fprintln(pd.writer, pd.bar.Render())
}

