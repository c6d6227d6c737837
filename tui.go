package main

import (
	"fmt"

	"github.com/nconklindev/diffcheck/internal/config"
	"github.com/nconklindev/diffcheck/internal/logging"
	"github.com/nconklindev/diffcheck/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

func runTUI(configPath, logPath string, verbose bool) error {
	opts := config.Default()
	if configPath != "" {
		loaded, err := config.LoadFile(configPath)
		if err != nil {
			return &exitError{code: 2, err: err}
		}
		opts = loaded
	}

	logger, closer, err := logging.OpenFile(logPath, verbose)
	if err != nil {
		return &exitError{code: 1, err: err}
	}
	defer closer.Close()

	p := tea.NewProgram(ui.InitialModel(opts, logger), tea.WithAltScreen(), tea.WithMouseCellMotion())
	if _, err := p.Run(); err != nil {
		return &exitError{code: 1, err: fmt.Errorf("running ui: %w", err)}
	}
	return nil
}
