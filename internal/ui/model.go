package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/glimmer-app/glimmer/internal/engine"
	"github.com/glimmer-app/glimmer/internal/player"
	"github.com/glimmer-app/glimmer/internal/util"
)

const (
	chromeRows      = 9 // header, titles, progress, status, help plus spacing
	minCanvasRows   = 3
	intensityMin    = 0.1
	intensityMax    = 5.0
	maxFrameDelta   = 0.1 // clamp for stalls, seconds
	defaultFrameDur = 1.0 / 60
)

// Model is the Bubbletea model for the glimmer TUI.
type Model struct {
	player   *player.Player
	metadata player.Metadata
	eng      *engine.Engine
	canvas   *Canvas
	cam      camera
	seekBar  progress.Model

	elapsed  time.Duration
	duration time.Duration
	volume   float64
	paused   bool
	width    int
	height   int
	quitting bool
	repeat   bool

	intensity float64
	accentIdx int
	quality   engine.QualityTier
	lastFrame time.Time
	frame     uint64
	yaw       float64
	scene     string
}

// New creates a Model driving the given player and engine.
func New(p *player.Player, meta player.Metadata, eng *engine.Engine) Model {
	bar := progress.New(progress.WithDefaultGradient(), progress.WithoutPercentage())
	return Model{
		player:    p,
		metadata:  meta,
		eng:       eng,
		canvas:    NewCanvas(),
		cam:       newCamera(),
		seekBar:   bar,
		duration:  p.Duration(),
		volume:    p.Volume(),
		intensity: 1.0,
	}
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(frameCmd(), checkDone(m.player), tea.SetWindowTitle(windowTitle(m.metadata.Title, false)))
}

func checkDone(p *player.Player) tea.Cmd {
	return func() tea.Msg {
		<-p.Done()
		return playbackEndedMsg{}
	}
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if isQuit(msg) {
			m.quitting = true
			m.player.Close()
			return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)
		}
		switch msg.String() {
		case " ":
			m.player.TogglePause()
			m.paused = m.player.Paused()
			return m, tea.SetWindowTitle(windowTitle(m.metadata.Title, m.paused))
		case "left", "h":
			m.player.Seek(-5 * time.Second)
		case "right", "l":
			m.player.Seek(5 * time.Second)
		case "up", "k":
			m.player.AdjustVolume(0.05)
			m.volume = m.player.Volume()
		case "down", "j":
			m.player.AdjustVolume(-0.05)
			m.volume = m.player.Volume()
		case "v", "tab":
			m.eng.CycleMode()
		case "c":
			m.accentIdx = (m.accentIdx + 1) % len(accentPresets)
		case "-":
			m.intensity = clampIntensity(m.intensity - 0.1)
		case "=", "+":
			m.intensity = clampIntensity(m.intensity + 0.1)
		case "t":
			if m.quality == engine.QualityHigh {
				m.quality = engine.QualityLow
			} else {
				m.quality = engine.QualityHigh
			}
		case "r":
			m.repeat = !m.repeat
		}
		return m, nil

	case frameMsg:
		now := time.Time(msg)
		dt := defaultFrameDur
		if !m.lastFrame.IsZero() {
			dt = now.Sub(m.lastFrame).Seconds()
			if dt < 0 {
				dt = 0
			}
			if dt > maxFrameDelta {
				dt = maxFrameDelta
			}
		}
		m.lastFrame = now
		m.frame++

		m.elapsed = m.player.Position()
		m.volume = m.player.Volume()
		m.paused = m.player.Paused()

		cfg := engine.Config{
			Playing:   !m.paused,
			Intensity: m.intensity,
			AccentHex: accentPresets[m.accentIdx].hex,
			Quality:   m.quality,
		}
		payload := m.eng.Update(cfg, dt)

		// Low tier advances the camera every other frame with the summed
		// delta. The simulation itself steps every frame regardless, so the
		// visuals never lag the audio.
		if m.quality == engine.QualityLow {
			if m.frame%2 == 0 {
				m.yaw = m.cam.step(2*dt, m.eng.Intensity())
			}
		} else {
			m.yaw = m.cam.step(dt, m.eng.Intensity())
		}

		m.scene = m.canvas.Render(payload, m.yaw)
		return m, frameCmd()

	case playbackEndedMsg:
		if m.repeat {
			m.player.Restart()
			m.elapsed = 0
			return m, checkDone(m.player)
		}
		m.elapsed = m.duration
		m.quitting = true
		m.player.Close()
		return m, tea.Sequence(tea.SetWindowTitle(""), tea.Quit)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.canvas.Resize(msg.Width-2, canvasRows(msg.Height))
		m.seekBar.Width = barWidth(msg.Width)
		return m, nil
	}

	return m, nil
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	w := m.width
	if w < 30 {
		w = 60
	}

	header := headerStyle.Render("glimmer") + "  " + modeStyle.Render(m.eng.SimName())

	title := titleStyle.Render(m.metadata.Title)
	subtitle := ""
	if m.metadata.Artist != "" && m.metadata.Album != "" {
		subtitle = artistStyle.Render(fmt.Sprintf("%s - %s", m.metadata.Artist, m.metadata.Album))
	} else if m.metadata.Artist != "" {
		subtitle = artistStyle.Render(m.metadata.Artist)
	} else if m.metadata.Album != "" {
		subtitle = artistStyle.Render(m.metadata.Album)
	}

	elapsedStr := timeStyle.Render(util.FormatDuration(m.elapsed))
	durationStr := timeStyle.Render(util.FormatDuration(m.duration))
	var ratio float64
	if m.duration > 0 {
		ratio = float64(m.elapsed) / float64(m.duration)
	}
	if ratio > 1 {
		ratio = 1
	}
	progressLine := fmt.Sprintf("%s %s %s", elapsedStr, m.seekBar.ViewAs(ratio), durationStr)

	statusIcon := "▶"
	statusText := "playing"
	if m.paused {
		statusIcon = "❚❚"
		statusText = "paused"
	}
	leftText := fmt.Sprintf("%s  %s  %s", statusIcon, statusText, accentPresets[m.accentIdx].name)
	if m.repeat {
		leftText += "  ↻"
	}
	if m.quality == engine.QualityLow {
		leftText += "  low"
	}
	rightText := fmt.Sprintf("%s  %s", renderIntensity(m.intensity), renderVolumePercent(m.volume))
	gap := w - len([]rune(leftText)) - len([]rune(rightText)) - 4
	if gap < 2 {
		gap = 2
	}
	statusLine := statusStyle.Render(leftText) + spaces(gap) + statusStyle.Render(rightText)

	help := helpStyle.Render(helpText())

	lines := "\n"
	lines += "  " + header + "\n"
	lines += "  " + title + "\n"
	if subtitle != "" {
		lines += "  " + subtitle + "\n"
	} else {
		lines += "\n"
	}
	lines += m.indentScene() + "\n"
	lines += "  " + progressLine + "\n"
	lines += "  " + statusLine + "\n"
	lines += "  " + help + "\n"

	return lines
}

// indentScene shifts the canvas one column right to align with the chrome.
func (m Model) indentScene() string {
	if m.scene == "" {
		return ""
	}
	return " " + strings.ReplaceAll(m.scene, "\n", "\n ")
}

func canvasRows(termHeight int) int {
	rows := termHeight - chromeRows
	if rows < minCanvasRows {
		rows = minCanvasRows
	}
	return rows
}

func barWidth(termWidth int) int {
	w := termWidth - 16
	if w < 10 {
		w = 10
	}
	return w
}

func clampIntensity(v float64) float64 {
	if v < intensityMin {
		return intensityMin
	}
	if v > intensityMax {
		return intensityMax
	}
	return v
}

func windowTitle(title string, paused bool) string {
	if paused {
		return "⏸ " + title + " — glimmer"
	}
	return "▶ " + title + " — glimmer"
}
