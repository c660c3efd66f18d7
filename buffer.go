/*
Copyright © 2019 the UAStools authors.
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

import "github.com/ctessum/geom"

// ApplyBuffer shrinks each plot in raw by rowbuf meters on each side
// along the row axis and by rangebuf meters on each end along the
// range axis, returning a new collection labeled LabelBuffered. The
// buffering is done in the local frame, so the buffered polygons keep
// the heading of the raw ones. The units in raw are not modified. An
// InvalidBufferError is returned when a buffer is negative or would
// leave no plot area.
func ApplyBuffer(raw *GeometryCollection, rowbuf, rangebuf float64) (*GeometryCollection, error) {
	units := make([]*PlotUnit, len(raw.Units))
	for i, u := range raw.Units {
		rowExtent := u.Local.RowMax - u.Local.RowMin
		if rowbuf < 0 || rowExtent-2*rowbuf <= DefaultEpsilon {
			return nil, InvalidBufferError{Axis: "row", Buffer: rowbuf, Extent: rowExtent,
				Plot: u.Plot, Row: u.Rows[0]}
		}
		rangeExtent := u.Local.RangeMax - u.Local.RangeMin
		if rangebuf < 0 || rangeExtent-2*rangebuf <= DefaultEpsilon {
			return nil, InvalidBufferError{Axis: "range", Buffer: rangebuf, Extent: rangeExtent,
				Plot: u.Plot, Row: u.Rows[0]}
		}
		b := *u
		b.Local.RangeMin += rangebuf
		b.Local.RangeMax -= rangebuf
		b.Local.RowMin += rowbuf
		b.Local.RowMax -= rowbuf
		b.Polygon = geom.Polygon{b.Local.ring(raw.frame)}
		units[i] = &b
	}
	c := newCollection(LabelBuffered, units, raw.frame)
	c.UTMZone = raw.UTMZone
	c.Hemisphere = raw.Hemisphere
	return c, nil
}
