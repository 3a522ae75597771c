package main

import (
	"flag"
	"fmt"
	"os"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/modsurf/modsurf/internal/app"
	"github.com/modsurf/modsurf/internal/theme"
)

var (
	version = "0.1.0"
)

func main() {
	var (
		themeName   string
		showVersion bool
	)

	flag.StringVar(&themeName, "theme", "default", "color theme (default, gruvbox, catppuccin, nord, dracula, solarized, tokyonight)")
	flag.BoolVar(&showVersion, "version", false, "show version")
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "modsurf - a terminal browser for snippet-driven sites\n\n")
		fmt.Fprintf(os.Stderr, "Usage: modsurf [flags] [url]\n\n")
		fmt.Fprintf(os.Stderr, "Flags:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nExamples:\n")
		fmt.Fprintf(os.Stderr, "  modsurf                        # start with welcome screen\n")
		fmt.Fprintf(os.Stderr, "  modsurf https://example.com    # open a URL\n")
		fmt.Fprintf(os.Stderr, "  modsurf example.com            # auto-adds https://\n")
		fmt.Fprintf(os.Stderr, "  modsurf --theme catppuccin     # use catppuccin theme\n")
	}
	flag.Parse()

	if showVersion {
		fmt.Printf("modsurf %s\n", version)
		os.Exit(0)
	}

	if !theme.Set(themeName) {
		fmt.Fprintf(os.Stderr, "Unknown theme: %s\nAvailable: default, gruvbox, catppuccin, nord, dracula, solarized, tokyonight\n", themeName)
		os.Exit(1)
	}

	var startURL string
	if flag.NArg() > 0 {
		startURL = flag.Arg(0)
	}

	m := app.New(startURL)
	defer m.Close()

	p := tea.NewProgram(m,
		tea.WithAltScreen(),
		tea.WithMouseCellMotion(),
	)

	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
