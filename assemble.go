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
	"fmt"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/index/rtree"
	"github.com/ctessum/geom/proj"
)

// Labels of the two geometry collections produced by CreatePlots.
const (
	LabelRaw      = "raw"
	LabelBuffered = "buffered"
)

// A PlotUnit is one output polygon together with the plot table
// information it was created from.
type PlotUnit struct {
	// Polygon is the outline of the unit in absolute coordinates as
	// a closed, counterclockwise ring. It is empty until the unit
	// has been through Assemble.
	geom.Polygon

	// ID identifies the unit. Merged plots use the barcode of their
	// lowest row; individual rows use the barcode followed by the
	// row's position within its plot, as in "18TX101_2".
	ID string

	// Plot and Range are the plot number and range of the unit as
	// they appear in the plot table.
	Plot  int
	Range int

	// Rows holds the field rows the unit covers, in increasing
	// order, and Barcodes holds the corresponding barcodes.
	Rows     []int
	Barcodes []string

	// Local is the outline of the unit in the local coordinates of
	// the reference frame.
	Local Rect
}

// A GeometryCollection holds the plot units of one trial layout in
// the order their plots appear in the plot table.
type GeometryCollection struct {
	// Label describes the collection, LabelRaw or LabelBuffered.
	Label string

	Units []*PlotUnit

	// UTMZone and Hemisphere describe the coordinate reference
	// system of the absolute coordinates. They may be empty.
	UTMZone    string
	Hemisphere string

	frame *Frame
	index *rtree.Rtree
}

func newCollection(label string, units []*PlotUnit, f *Frame) *GeometryCollection {
	c := &GeometryCollection{
		Label: label,
		Units: units,
		frame: f,
		index: rtree.NewTree(25, 50),
	}
	for _, u := range units {
		c.index.Insert(u)
	}
	return c
}

// Assemble converts the local rectangles of units to absolute
// polygons using the reference frame f and wraps them in a
// collection labeled LabelRaw. The polygons are filled in on the
// units themselves.
func Assemble(f *Frame, units []*PlotUnit) (*GeometryCollection, error) {
	if len(units) == 0 {
		return nil, EmptyLayoutError{}
	}
	for _, u := range units {
		u.Polygon = geom.Polygon{u.Local.ring(f)}
	}
	return newCollection(LabelRaw, units, f), nil
}

// Len returns the number of plot units in the collection.
func (c *GeometryCollection) Len() int { return len(c.Units) }

// Frame returns the reference frame the collection was assembled in.
func (c *GeometryCollection) Frame() *Frame { return c.frame }

// Bounds returns the bounding box of the collection in absolute
// coordinates.
func (c *GeometryCollection) Bounds() *geom.Bounds {
	b := geom.NewBounds()
	for _, u := range c.Units {
		b.Extend(u.Polygon.Bounds())
	}
	return b
}

// At returns the plot unit containing the absolute point p, or nil if
// no unit contains it. Points on the edge of a unit are considered
// inside it.
func (c *GeometryCollection) At(p geom.Point) *PlotUnit {
	for _, s := range c.index.SearchIntersect(p.Bounds()) {
		u := s.(*PlotUnit)
		if p.Within(u.Polygon) != geom.Outside {
			return u
		}
	}
	return nil
}

// CRS returns the PROJ.4 description of the coordinate reference
// system of the collection, or an empty string when no UTM zone has
// been given.
func (c *GeometryCollection) CRS() (string, error) {
	if c.UTMZone == "" {
		return "", nil
	}
	zone, err := strconv.Atoi(c.UTMZone)
	if err != nil || zone < 1 || zone > 60 {
		return "", fmt.Errorf("uastools: invalid UTM zone %q", c.UTMZone)
	}
	s := fmt.Sprintf("+proj=utm +zone=%d", zone)
	if strings.EqualFold(c.Hemisphere, "S") {
		s += " +south"
	}
	s += " +datum=NAD83 +units=m +no_defs +ellps=GRS80"
	if _, err := proj.Parse(s); err != nil {
		return "", fmt.Errorf("uastools: invalid coordinate reference system %q: %v", s, err)
	}
	return s, nil
}

// CreatePlots runs the complete layout for the trial described by c
// and t: it creates the reference frame from the A and B points, lays
// the plots in t out on the grid, assembles the absolute polygons,
// and shrinks them by the row and range buffers. It returns the raw
// and the buffered collections.
func CreatePlots(c *Config, t *Table) (raw, buffered *GeometryCollection, err error) {
	eps := c.Epsilon
	if eps == 0 {
		eps = DefaultEpsilon
	}
	f, err := NewFrameEps(c.A, c.B, eps)
	if err != nil {
		return nil, nil, err
	}
	units, err := LayoutGrid(t, c)
	if err != nil {
		return nil, nil, err
	}
	raw, err = Assemble(f, units)
	if err != nil {
		return nil, nil, err
	}
	raw.UTMZone = c.UTMZone
	raw.Hemisphere = c.Hemisphere
	buffered, err = ApplyBuffer(raw, c.RowBuffer, c.RangeBuffer)
	if err != nil {
		return nil, nil, err
	}
	return raw, buffered, nil
}
