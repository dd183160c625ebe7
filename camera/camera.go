// Package camera provides the perspective camera that frames the arena.
package camera

import "math"

// Camera looks down the -z axis at the z=0 plane from a fixed height.
// World y points up; screen y points down.
type Camera struct {
	// Position is the point on z=0 under the camera
	X, Y float64

	// Distance is the camera height above the z=0 plane
	Distance float64

	// FOV is the vertical field of view in degrees
	FOV float64

	// Viewport dimensions (screen size)
	ViewportW, ViewportH float64
}

// New creates a camera centred on the origin.
func New(viewportW, viewportH, fovDegrees, distance float64) *Camera {
	return &Camera{
		Distance:  distance,
		FOV:       fovDegrees,
		ViewportW: viewportW,
		ViewportH: viewportH,
	}
}

// Aspect returns the viewport width over height.
func (c *Camera) Aspect() float64 {
	return c.ViewportW / c.ViewportH
}

// halfExtents returns the half width and height of the visible z=0 rectangle.
func (c *Camera) halfExtents() (halfW, halfH float64) {
	halfH = c.Distance * math.Tan(c.FOV*math.Pi/360)
	return halfH * c.Aspect(), halfH
}

// ScreenToWorld intersects the pick ray through a screen pixel with z=0.
func (c *Camera) ScreenToWorld(sx, sy float64) (wx, wy float64) {
	halfW, halfH := c.halfExtents()

	// Normalized device coordinates in [-1,1], y up
	nx := 2*sx/c.ViewportW - 1
	ny := 1 - 2*sy/c.ViewportH

	return c.X + nx*halfW, c.Y + ny*halfH
}

// WorldToScreen projects a point on z=0 to screen pixels.
func (c *Camera) WorldToScreen(wx, wy float64) (sx, sy float64) {
	halfW, halfH := c.halfExtents()

	nx := (wx - c.X) / halfW
	ny := (wy - c.Y) / halfH

	sx = (nx + 1) * c.ViewportW / 2
	sy = (1 - ny) * c.ViewportH / 2
	return sx, sy
}

// Bounds projects the screen corners onto z=0.
func (c *Camera) Bounds() (top, bottom, left, right float64) {
	left, top = c.ScreenToWorld(0, 0)
	right, bottom = c.ScreenToWorld(c.ViewportW, c.ViewportH)
	return top, bottom, left, right
}

// IsVisible returns true if a circle at (wx, wy) with given radius
// could be visible on screen (conservative check for culling).
func (c *Camera) IsVisible(wx, wy, radius float64) bool {
	halfW, halfH := c.halfExtents()
	return math.Abs(wx-c.X) <= halfW+radius && math.Abs(wy-c.Y) <= halfH+radius
}

// WorldScale returns screen pixels per world unit on the z=0 plane.
func (c *Camera) WorldScale() float64 {
	_, halfH := c.halfExtents()
	return c.ViewportH / (2 * halfH)
}

// Resize updates viewport dimensions.
func (c *Camera) Resize(viewportW, viewportH float64) {
	c.ViewportW = viewportW
	c.ViewportH = viewportH
}
