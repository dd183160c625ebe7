package systems

import (
	"math"

	"gonum.org/v1/gonum/spatial/r2"

	"github.com/pthm-cable/microbes/vmath"
)

// Repulsion returns the inverse-square force pushing self away from other.
// The distance is floored at minDist so coincident bodies stay finite;
// exactly coincident bodies have no separation direction and get no force.
func Repulsion(self, other r2.Vec, gain, minDist float64) r2.Vec {
	sep := r2.Sub(self, other)
	d := math.Max(r2.Norm(sep), minDist)
	return r2.Scale(gain/(d*d), vmath.Normalize(sep))
}

// EdgeForces returns the horizontal and vertical edge-avoidance forces for a body at pos.
// Only the nearer-checked edge of each axis contributes: left before right,
// top before bottom. A force is zero unless the body is within reach of that edge.
func EdgeForces(pos r2.Vec, b Bounds, reach, gain, minDist float64) (horizontal, vertical r2.Vec) {
	fromLeft := math.Abs(b.Left - pos.X)
	fromRight := math.Abs(b.Right - pos.X)
	fromTop := math.Abs(b.Top - pos.Y)
	fromBottom := math.Abs(b.Bottom - pos.Y)

	if fromLeft < reach {
		horizontal = edgePush(r2.Vec{X: 1}, fromLeft, gain, minDist)
	} else if fromRight < reach {
		horizontal = edgePush(r2.Vec{X: -1}, fromRight, gain, minDist)
	}

	if fromTop < reach {
		vertical = edgePush(r2.Vec{Y: -1}, fromTop, gain, minDist)
	} else if fromBottom < reach {
		vertical = edgePush(r2.Vec{Y: 1}, fromBottom, gain, minDist)
	}
	return horizontal, vertical
}

func edgePush(dir r2.Vec, dist, gain, minDist float64) r2.Vec {
	dist = math.Max(dist, minDist)
	return r2.Scale(gain/(dist*dist), dir)
}

// Friction returns quadratic drag opposing vel: -unit(vel) * coeff * |vel|^2.
func Friction(vel r2.Vec, coeff float64) r2.Vec {
	speed := r2.Norm(vel)
	return r2.Scale(-coeff*speed*speed, vmath.Normalize(vel))
}
