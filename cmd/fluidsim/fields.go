package main

import "gonum.org/v1/gonum/spatial/r3"

// The solver core only consumes the DistanceField capability; the concrete
// geometry belongs to the host. Two primitives cover the demo scenarios.

// PlaneField is an infinite plane through Point with outward normal N.
// Positive distance is on the N side.
type PlaneField struct {
	Point r3.Vec
	N     r3.Vec // unit
}

func (p PlaneField) Distance(q r3.Vec) float64 {
	return r3.Dot(r3.Sub(q, p.Point), p.N)
}

func (p PlaneField) Normal(r3.Vec) r3.Vec { return p.N }

// SphereField is a solid sphere; distance is signed (negative inside).
type SphereField struct {
	Center r3.Vec
	Radius float64
}

func (s SphereField) Distance(q r3.Vec) float64 {
	return r3.Norm(r3.Sub(q, s.Center)) - s.Radius
}

func (s SphereField) Normal(q r3.Vec) r3.Vec {
	d := r3.Sub(q, s.Center)
	if r3.Norm(d) == 0 {
		return r3.Vec{Y: 1}
	}
	return r3.Unit(d)
}
