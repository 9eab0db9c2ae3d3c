package physics

import (
	"math"

	"gonum.org/v1/gonum/spatial/r3"
)

// FromSpherical returns the unit vector with polar cosine costheta and
// azimuth phi.
func FromSpherical(costheta, phi float64) r3.Vec {
	sintheta := math.Sqrt(1 - costheta*costheta)
	return r3.Vec{
		X: sintheta * math.Cos(phi),
		Y: sintheta * math.Sin(phi),
		Z: costheta,
	}
}

// Rotate expresses scatter, given in the frame whose z axis is dir, in the
// lab frame. Both arguments must be unit vectors.
func Rotate(scatter, dir r3.Vec) r3.Vec {
	perp := math.Hypot(dir.X, dir.Y)
	if perp == 0 {
		if dir.Z > 0 {
			return scatter
		}
		return r3.Vec{X: -scatter.X, Y: scatter.Y, Z: -scatter.Z}
	}
	return r3.Vec{
		X: (dir.X*dir.Z*scatter.X-dir.Y*scatter.Y)/perp + dir.X*scatter.Z,
		Y: (dir.Y*dir.Z*scatter.X+dir.X*scatter.Y)/perp + dir.Y*scatter.Z,
		Z: -perp*scatter.X + dir.Z*scatter.Z,
	}
}

// IsUnit reports whether v has unit length within a relative tolerance.
func IsUnit(v r3.Vec) bool {
	return math.Abs(r3.Norm2(v)-1) < 1e-12
}

// Axpy returns a*x + y.
func Axpy(a float64, x, y r3.Vec) r3.Vec {
	return r3.Add(r3.Scale(a, x), y)
}
