package watch

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
)

// Run shows the countdown until the user quits or ctx is cancelled.
// Settings received on reloads replace the running ones.
func Run(ctx context.Context, settings Settings, reloads <-chan Settings, opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(New(settings, nil), opts...)

	done := make(chan struct{})
	defer close(done)
	go func() {
		for {
			select {
			case <-done:
				return
			case s, ok := <-reloads:
				if !ok {
					return
				}
				p.Send(ReloadMsg{Settings: s})
			}
		}
	}()

	if _, err := p.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
			return nil
		}
		return fmt.Errorf("countdown failed: %w", err)
	}
	return nil
}
