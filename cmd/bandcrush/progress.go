package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

const defaultBarWidth = 40

// progress draws a single-line bar on a terminal and stays silent
// otherwise.
type progress struct {
	w     io.Writer
	width int
	last  int
}

func newProgress(f *os.File) *progress {
	fd := int(f.Fd())
	if !term.IsTerminal(fd) {
		return &progress{}
	}
	width := defaultBarWidth
	if cols, _, err := term.GetSize(fd); err == nil && cols > 20 {
		width = min(cols-12, 60)
	}
	return &progress{w: f, width: width, last: -1}
}

func (p *progress) update(done, total int) {
	if p == nil || p.w == nil || total <= 0 {
		return
	}
	pct := done * 100 / total
	if pct == p.last {
		return
	}
	p.last = pct
	filled := p.width * done / total
	fmt.Fprintf(p.w, "\r[%s%s] %3d%%", strings.Repeat("#", filled), strings.Repeat(".", p.width-filled), pct)
}

func (p *progress) done() {
	if p == nil || p.w == nil {
		return
	}
	fmt.Fprintln(p.w)
}
