/*
Copyright © 2018 the UAStools authors.
This file is part of UAStools.

UAStools is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

UAStools is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with UAStools.  If not, see <http://www.gnu.org/licenses/>.
*/

package uastools

import (
	"math"

	"github.com/ctessum/geom"
)

// DefaultEpsilon is the distance in meters below which two points are
// considered coincident.
const DefaultEpsilon = 1.0e-9

// A Frame is the orthonormal reference frame defined by the AB line of
// a trial. Local coordinates are expressed as a distance along the
// range axis, which runs from A toward B, and a distance along the row
// axis, which runs perpendicular to it; a positive row offset is to
// the right when standing at A and facing B.
type Frame struct {
	// Origin is the A point in absolute coordinates.
	Origin geom.Point
	// U is the unit vector of the range axis and V is the unit
	// vector of the row axis.
	U, V geom.Point
}

// NewFrame creates the reference frame with origin a and range axis
// pointing toward b, using DefaultEpsilon as the minimum distance
// between the two points.
func NewFrame(a, b geom.Point) (*Frame, error) {
	return NewFrameEps(a, b, DefaultEpsilon)
}

// NewFrameEps is like NewFrame but considers a and b coincident when
// they are within eps meters of each other.
func NewFrameEps(a, b geom.Point, eps float64) (*Frame, error) {
	dx := b.X - a.X
	dy := b.Y - a.Y
	d := math.Hypot(dx, dy)
	if math.IsNaN(d) || d <= eps {
		return nil, DegenerateFrameError{A: a, B: b}
	}
	u := geom.Point{X: dx / d, Y: dy / d}
	return &Frame{
		Origin: a,
		U:      u,
		V:      geom.Point{X: u.Y, Y: -u.X},
	}, nil
}

// ToAbsolute converts the local coordinates (rng, row) to an absolute
// point. The range offset is applied first and the row offset second,
// although the order does not change the result.
func (f *Frame) ToAbsolute(rng, row float64) geom.Point {
	return geom.Point{
		X: f.Origin.X + rng*f.U.X + row*f.V.X,
		Y: f.Origin.Y + rng*f.U.Y + row*f.V.Y,
	}
}

// ToLocal converts the absolute point p to local coordinates.
func (f *Frame) ToLocal(p geom.Point) (rng, row float64) {
	dx := p.X - f.Origin.X
	dy := p.Y - f.Origin.Y
	return dx*f.U.X + dy*f.U.Y, dx*f.V.X + dy*f.V.Y
}

// Theta returns the heading of the range axis in radians
// counterclockwise from east.
func (f *Frame) Theta() float64 {
	return math.Atan2(f.U.Y, f.U.X)
}

// A Rect is an axis-aligned rectangle in the local coordinates of a
// reference frame.
type Rect struct {
	RangeMin, RangeMax float64
	RowMin, RowMax     float64
}

// ring returns the closed, counterclockwise ring of the corners of r
// in the absolute coordinates of f.
func (r Rect) ring(f *Frame) []geom.Point {
	return []geom.Point{
		f.ToAbsolute(r.RangeMin, r.RowMin),
		f.ToAbsolute(r.RangeMin, r.RowMax),
		f.ToAbsolute(r.RangeMax, r.RowMax),
		f.ToAbsolute(r.RangeMax, r.RowMin),
		f.ToAbsolute(r.RangeMin, r.RowMin),
	}
}

// Polygon returns r as a closed, counterclockwise polygon in field
// coordinates, where x is the position along the row axis and y is
// the position along the range axis.
func (r Rect) Polygon() geom.Polygon {
	return geom.Polygon{{
		{X: r.RowMin, Y: r.RangeMin},
		{X: r.RowMax, Y: r.RangeMin},
		{X: r.RowMax, Y: r.RangeMax},
		{X: r.RowMin, Y: r.RangeMax},
		{X: r.RowMin, Y: r.RangeMin},
	}}
}
