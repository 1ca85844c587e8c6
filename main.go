package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/glimmer-app/glimmer/internal/analyser"
	"github.com/glimmer-app/glimmer/internal/engine"
	"github.com/glimmer-app/glimmer/internal/media"
	"github.com/glimmer-app/glimmer/internal/player"
	"github.com/glimmer-app/glimmer/internal/ui"
)

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, "Usage: glimmer <file>\nSupported formats: %s\n", media.SupportedExtsList())
		os.Exit(1)
	}
	path := os.Args[1]

	info, err := os.Stat(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if info.IsDir() {
		fmt.Fprintf(os.Stderr, "Error: %s is a directory\n", path)
		os.Exit(1)
	}

	ext := strings.ToLower(filepath.Ext(path))
	if !media.IsSupportedExt(ext) {
		fmt.Fprintf(os.Stderr, "Error: unsupported format %s (supported: %s)\n", ext, media.SupportedExtsList())
		os.Exit(1)
	}

	meta := player.ReadMetadata(path)

	an, err := analyser.New(0)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	p, err := player.New(path, an)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error creating player: %v\n", err)
		os.Exit(1)
	}
	defer p.Close()

	eng := engine.New(an)

	model := ui.New(p, meta, eng)
	program := tea.NewProgram(model, tea.WithAltScreen())

	if _, err := program.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
