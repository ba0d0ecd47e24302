package tui

import (
	"fmt"
	"io"

	"github.com/muesli/termenv"
)

// PrintBanner writes the Pathway ASCII art banner to w.
func PrintBanner(w io.Writer) {
	p := termenv.ColorProfile()
	// Teal to green, one shade per line.
	lines := []struct {
		text  string
		color string
	}{
		{"                _   _", "#2dd4bf"},
		{"  _ __  __ _ __| |_| |____ __ ____ _ _  _", "#34d399"},
		{" | '_ \\/ _` / _|  _| ' \\ V  V / _` | || |", "#4ade80"},
		{" | .__/\\__,_\\__|\\__|_||_\\_/\\_/\\__,_|\\_, |", "#86efac"},
		{" |_|                                |__/", "#bbf7d0"},
	}

	fmt.Fprintln(w)
	for _, l := range lines {
		fmt.Fprintln(w, termenv.String(l.text).Foreground(p.Color(l.color)))
	}
	fmt.Fprintln(w)
}
