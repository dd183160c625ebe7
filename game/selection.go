package game

import (
	"math"

	"github.com/pthm-cable/microbes/camera"
	"github.com/pthm-cable/microbes/sim"
)

// pickSlack widens the click target around small microbes, in pixels.
const pickSlack = 4.0

// pickMicrobe returns the ID of the microbe closest to a screen point,
// if the point lies within its body plus a few pixels of slack.
func pickMicrobe(views []sim.MicrobeView, cam *camera.Camera, sx, sy float64) (uint32, bool) {
	var (
		best     uint32
		bestDist = math.Inf(1)
	)
	scale := cam.WorldScale()

	for i := range views {
		v := &views[i]
		px, py := cam.WorldToScreen(v.Pos.X, v.Pos.Y)
		d := math.Hypot(px-sx, py-sy)
		if d > v.Size/2*scale+pickSlack {
			continue
		}
		if d < bestDist {
			best, bestDist = v.ID, d
		}
	}

	return best, best != 0
}

// selectedView returns the view of the selected microbe, nil if none.
func (g *Game) selectedView() *sim.MicrobeView {
	if g.selected == 0 {
		return nil
	}
	for i := range g.microbes {
		if g.microbes[i].ID == g.selected {
			return &g.microbes[i]
		}
	}
	return nil
}
