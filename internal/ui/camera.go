package ui

import "github.com/charmbracelet/harmonica"

const (
	cameraDriftRate = 0.15 // rad/s orbit drift
	cameraFPS       = 60
)

// camera orbits slowly around the scene. The spring smooths the yaw so
// pulse-driven nudges settle instead of snapping.
type camera struct {
	spring harmonica.Spring
	yaw    float64
	vel    float64
	target float64
}

func newCamera() camera {
	return camera{spring: harmonica.NewSpring(harmonica.FPS(cameraFPS), 1.2, 0.9)}
}

// step advances the orbit by dt and returns the smoothed yaw. A beat pulse
// nudges the orbit target forward slightly.
func (c *camera) step(dt, pulse float64) float64 {
	c.target += dt * cameraDriftRate * (1 + pulse*0.5)
	c.yaw, c.vel = c.spring.Update(c.yaw, c.vel, c.target)
	return c.yaw
}

// Yaw returns the current yaw without advancing the orbit.
func (c *camera) Yaw() float64 { return c.yaw }
