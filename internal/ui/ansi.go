package ui

import (
	"fmt"
	"math"
	"os"
	"strings"
	"sync"

	"github.com/lucasb-eyer/go-colorful"
)

type colorProfile uint8

const (
	colorNone colorProfile = iota
	colorANSI16
	colorANSI256
	colorTrueColor
)

type colorRGB struct {
	R uint8
	G uint8
	B uint8
}

// packColor converts the engine's float color to byte RGB for the terminal.
func packColor(c colorful.Color) colorRGB {
	return colorRGB{
		R: uint8(clampUnit(c.R) * 255),
		G: uint8(clampUnit(c.G) * 255),
		B: uint8(clampUnit(c.B) * 255),
	}
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

// luminance approximates perceived brightness, used to pick the winning
// color when several dots land in one cell.
func (c colorRGB) luminance() int {
	return int(c.R)*3 + int(c.G)*6 + int(c.B)
}

var (
	profileOnce sync.Once
	profile     colorProfile
	seqCache    sync.Map
)

func currentColorProfile() colorProfile {
	profileOnce.Do(func() {
		if _, disabled := os.LookupEnv("NO_COLOR"); disabled {
			profile = colorNone
			return
		}
		term := strings.ToLower(os.Getenv("TERM"))
		colorTerm := strings.ToLower(os.Getenv("COLORTERM"))
		switch {
		case strings.Contains(colorTerm, "truecolor"), strings.Contains(colorTerm, "24bit"):
			profile = colorTrueColor
		case strings.Contains(term, "256color"):
			profile = colorANSI256
		case term == "", term == "dumb":
			profile = colorNone
		default:
			profile = colorANSI16
		}
	})
	return profile
}

// ansiState tracks the last emitted foreground color so repeated cells of
// the same color cost nothing.
type ansiState struct {
	profile colorProfile
	current uint32
}

func newANSIState() ansiState {
	return ansiState{profile: currentColorProfile(), current: ^uint32(0)}
}

func (s *ansiState) set(sb *strings.Builder, c colorRGB) {
	if s.profile == colorNone {
		return
	}
	key := uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if key == s.current {
		return
	}
	sb.WriteString(colorSequence(s.profile, c))
	s.current = key
}

func (s *ansiState) reset(sb *strings.Builder) {
	if s.profile == colorNone || s.current == ^uint32(0) {
		return
	}
	sb.WriteString("\x1b[0m")
	s.current = ^uint32(0)
}

func colorSequence(profile colorProfile, c colorRGB) string {
	key := uint32(profile)<<24 | uint32(c.R)<<16 | uint32(c.G)<<8 | uint32(c.B)
	if seq, ok := seqCache.Load(key); ok {
		return seq.(string)
	}

	var seq string
	switch profile {
	case colorTrueColor:
		seq = fmt.Sprintf("\x1b[38;2;%d;%d;%dm", c.R, c.G, c.B)
	case colorANSI256:
		r := int(c.R) * 5 / 255
		g := int(c.G) * 5 / 255
		b := int(c.B) * 5 / 255
		idx := 16 + 36*r + 6*g + b
		seq = fmt.Sprintf("\x1b[38;5;%dm", idx)
	case colorANSI16:
		pal := []colorRGB{
			{R: 0, G: 0, B: 0},
			{R: 205, G: 49, B: 49},
			{R: 13, G: 188, B: 121},
			{R: 229, G: 229, B: 16},
			{R: 36, G: 114, B: 200},
			{R: 188, G: 63, B: 188},
			{R: 17, G: 168, B: 205},
			{R: 229, G: 229, B: 229},
		}
		best := 0
		bestDist := math.MaxFloat64
		for i, p := range pal {
			dr := float64(c.R) - float64(p.R)
			dg := float64(c.G) - float64(p.G)
			db := float64(c.B) - float64(p.B)
			d := dr*dr + dg*dg + db*db
			if d < bestDist {
				bestDist = d
				best = i
			}
		}
		seq = fmt.Sprintf("\x1b[%dm", 30+best)
	default:
		seq = ""
	}

	seqCache.Store(key, seq)
	return seq
}
