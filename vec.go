package main

import "math"

// Vec is a 2D vector. Arena coordinates are centered on the origin,
// +X right and +Y up.
type Vec struct {
	X, Y float64
}

func (v Vec) Add(o Vec) Vec {
	return Vec{v.X + o.X, v.Y + o.Y}
}

func (v Vec) Sub(o Vec) Vec {
	return Vec{v.X - o.X, v.Y - o.Y}
}

func (v Vec) Scale(s float64) Vec {
	return Vec{v.X * s, v.Y * s}
}

func (v Vec) Dot(o Vec) float64 {
	return v.X*o.X + v.Y*o.Y
}

func (v Vec) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y)
}

func (v Vec) LenSq() float64 {
	return v.X*v.X + v.Y*v.Y
}

// Normalized returns the unit vector, or the zero vector when v has
// (near-)zero length. Callers rely on the zero fallback instead of
// checking for it themselves.
func (v Vec) Normalized() Vec {
	l := v.Len()
	if l < 1e-9 {
		return Vec{}
	}
	return Vec{v.X / l, v.Y / l}
}

// ClampLen limits the vector's length to max. A non-positive max means
// no limit.
func (v Vec) ClampLen(max float64) Vec {
	if max <= 0 {
		return v
	}
	l2 := v.LenSq()
	if l2 <= max*max {
		return v
	}
	scale := max / math.Sqrt(l2)
	return Vec{v.X * scale, v.Y * scale}
}

// Damp smoothes v toward target with an exponential low-pass filter.
// Unlike a plain lerp the blend factor depends on elapsed time, so the
// result is frame-rate independent and never overshoots the target.
func Damp(v, target, rate, dt float64) float64 {
	t := 1.0 - math.Exp(-rate*dt)
	return v*(1.0-t) + target*t
}

// DampVec applies Damp per component.
func DampVec(v, target Vec, rate, dt float64) Vec {
	return Vec{
		X: Damp(v.X, target.X, rate, dt),
		Y: Damp(v.Y, target.Y, rate, dt),
	}
}

// Intermediate maps v into [0,1] position between lo and hi (inverse lerp).
func Intermediate(v, lo, hi float64) float64 {
	if hi == lo {
		return 0
	}
	return (v - lo) / (hi - lo)
}
