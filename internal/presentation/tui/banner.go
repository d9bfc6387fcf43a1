package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the codebench banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	lines := []struct {
		text  string
		color string
	}{
		{"                 _      _                     _    ", "#f87171"},
		{"   ___ ___   __| | ___| |__   ___ _ __   ___| |__ ", "#fb7185"},
		{"  / __/ _ \\ / _` |/ _ \\ '_ \\ / _ \\ '_ \\ / __| '_ \\", "#e879f9"},
		{" | (_| (_) | (_| |  __/ |_) |  __/ | | | (__| | | |", "#c084fc"},
		{"  \\___\\___/ \\__,_|\\___|_.__/ \\___|_| |_|\\___|_| |_|", "#818cf8"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
