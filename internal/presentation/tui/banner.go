package tui

import (
	"fmt"

	"github.com/muesli/termenv"
)

// PrintBanner outputs the ASCII art banner for Sentinel.
func PrintBanner(version string) {
	p := termenv.ColorProfile()
	// Teal-to-blue gradient.
	s1 := termenv.String("  ____             _   _            _ ").Foreground(p.Color("#2dd4bf"))
	s2 := termenv.String(" / ___|  ___ _ __ | |_(_)_ __   ___| |").Foreground(p.Color("#22d3ee"))
	s3 := termenv.String(" \\___ \\ / _ \\ '_ \\| __| | '_ \\ / _ \\ |").Foreground(p.Color("#38bdf8"))
	s4 := termenv.String("  ___) |  __/ | | | |_| | | | |  __/ |").Foreground(p.Color("#60a5fa"))
	s5 := termenv.String(" |____/ \\___|_| |_|\\__|_|_| |_|\\___|_|").Foreground(p.Color("#818cf8"))
	tag := termenv.String(fmt.Sprintf("  Pulse Predict command console v%s", version)).Faint()

	fmt.Println()
	fmt.Println(s1)
	fmt.Println(s2)
	fmt.Println(s3)
	fmt.Println(s4)
	fmt.Println(s5)
	fmt.Println(tag)
	fmt.Println()
}
