package tui

import (
	"context"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sirupsen/logrus"

	"smarttasks/internal/engine"
)

// RunBoard starts the interactive board. svc must not have been started;
// the model runs the weekly reset on init.
func RunBoard(ctx context.Context, svc *engine.Service, log logrus.FieldLogger, out io.Writer) error {
	m := newBoardModel(ctx, svc, log)
	p := tea.NewProgram(m, tea.WithOutput(out), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
