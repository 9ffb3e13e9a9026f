package engine

import "math"

// Vec is a 3-component vector. Values are plain data; all operations
// return fresh vectors.
type Vec struct {
	X float64 `toml:"x" json:"x" xml:"x,attr"`
	Y float64 `toml:"y" json:"y" xml:"y,attr"`
	Z float64 `toml:"z" json:"z" xml:"z,attr"`
}

func (v Vec) Add(o Vec) Vec { return Vec{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }

func (v Vec) Sub(o Vec) Vec { return Vec{v.X - o.X, v.Y - o.Y, v.Z - o.Z} }

func (v Vec) Scale(f float64) Vec { return Vec{v.X * f, v.Y * f, v.Z * f} }

func (v Vec) Dot(o Vec) float64 { return v.X*o.X + v.Y*o.Y + v.Z*o.Z }

func (v Vec) Cross(o Vec) Vec {
	return Vec{
		v.Y*o.Z - v.Z*o.Y,
		v.Z*o.X - v.X*o.Z,
		v.X*o.Y - v.Y*o.X,
	}
}

func (v Vec) Norm() float64 { return math.Sqrt(v.Dot(v)) }

// WithNorm rescales v to the given magnitude, preserving its direction.
// The zero vector is given the direction +z so a magnitude can always be
// applied.
func (v Vec) WithNorm(norm float64) Vec {
	n := v.Norm()
	if n == 0 {
		return Vec{0, 0, norm}
	}
	return v.Scale(norm / n)
}

// Spherical builds a vector from radius, polar angle theta, and azimuth phi.
func Spherical(r, theta, phi float64) Vec {
	sinT := math.Sin(theta)
	return Vec{
		r * sinT * math.Cos(phi),
		r * sinT * math.Sin(phi),
		r * math.Cos(theta),
	}
}
