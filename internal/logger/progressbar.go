package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// progressWidth is the number of cells in an upload progress bar.
const progressWidth = 10

// ProgressBar renders upload progress as an ASCII bar, cyan while running
// and green once complete.
type ProgressBar struct {
	done        int
	total       int
	width       int
	enableColor bool
}

// NewProgressBar creates a bar for done of total files. A width below 1
// falls back to progressWidth.
func NewProgressBar(done, total, width int, enableColor bool) *ProgressBar {
	if width < 1 {
		width = progressWidth
	}
	return &ProgressBar{
		done:        done,
		total:       total,
		width:       width,
		enableColor: enableColor,
	}
}

// percentage returns done/total as 0-100. An empty batch is 0%.
func (pb *ProgressBar) percentage() int {
	if pb.total <= 0 {
		return 0
	}
	perc := (pb.done * 100) / pb.total
	if perc > 100 {
		return 100
	}
	if perc < 0 {
		return 0
	}
	return perc
}

// Render returns the bar as "[=====     ] 2/4 (50%)".
func (pb *ProgressBar) Render() string {
	perc := pb.percentage()
	filled := (perc * pb.width) / 100

	bar := "[" + strings.Repeat("=", filled) + strings.Repeat(" ", pb.width-filled) + "]"
	result := fmt.Sprintf("%s %d/%d (%d%%)", bar, pb.done, pb.total, perc)

	if !pb.enableColor {
		return result
	}
	c := color.New(color.FgCyan)
	if perc == 100 {
		c = color.New(color.FgGreen)
	}
	// The caller already decided on color; don't defer to TTY detection.
	c.EnableColor()
	return c.Sprint(result)
}
