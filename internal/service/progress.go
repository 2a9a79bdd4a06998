package service

import (
	"fmt"
	"io"
)

// Reporter writes user-facing progress text. A quiet reporter writes nothing.
type Reporter struct {
	w     io.Writer
	quiet bool
}

func NewReporter(w io.Writer, quiet bool) *Reporter {
	return &Reporter{w: w, quiet: quiet}
}

func (r *Reporter) Printf(format string, args ...any) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.w, format, args...)
}

// Banner announces what the run is about to do.
func (r *Reporter) Banner(destination string, weeks int, remove, simulate bool) {
	action := "Downloading"
	if remove {
		action = "Archiving"
	}

	age := ""
	switch {
	case weeks == 1:
		age = "older than 1 week "
	case weeks > 1:
		age = fmt.Sprintf("older than %d weeks ", weeks)
	}

	r.Printf("%s files %sto '%s'.\n", action, age, destination)
	if simulate {
		r.Printf("Running in simulation mode, not actually performing the actions!\n")
	}
}

func (r *Reporter) fileHeader(counter, total int, filename string) {
	r.Printf("[%-4d/%-4d] %-80s: ", counter, total, filename)
}

// mark prints label when done, or blanks of the same width.
func (r *Reporter) mark(done bool, label string) {
	if done {
		r.Printf("%s ", label)
		return
	}
	r.Printf("%*s ", len(label), "")
}
