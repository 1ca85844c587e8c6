package ui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

type frameMsg time.Time
type playbackEndedMsg struct{}

// frameCmd drives the animation at roughly 60 fps. The simulation step uses
// the measured wall-clock delta, so a slow terminal drops frames without
// slowing the animation down.
func frameCmd() tea.Cmd {
	return tea.Tick(time.Second/60, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}
