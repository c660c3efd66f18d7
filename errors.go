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
	"strings"

	"github.com/ctessum/geom"
)

// MissingColumnError is returned when a plot table does not contain
// all of the required columns.
type MissingColumnError struct {
	// Columns holds the names of the missing columns.
	Columns []string
}

func (e MissingColumnError) Error() string {
	return fmt.Sprintf("uastools: the plot table is missing the required column(s) %s",
		strings.Join(e.Columns, ", "))
}

// DuplicateRowError is returned when two records in a plot table
// describe the same trial row, either by repeating a row within one
// plot or by placing two records in the same grid cell.
type DuplicateRowError struct {
	// Plot, Range, and Row identify the record that repeats an
	// earlier one.
	Plot, Range, Row int
}

func (e DuplicateRowError) Error() string {
	return fmt.Sprintf("uastools: plot %d row %d (range %d) appears more than once in the plot table",
		e.Plot, e.Row, e.Range)
}

// DegenerateFrameError is returned when the A and B points are too
// close together to define a heading.
type DegenerateFrameError struct {
	A, B geom.Point
}

func (e DegenerateFrameError) Error() string {
	return fmt.Sprintf("uastools: points A (%g, %g) and B (%g, %g) are too close together to define a heading",
		e.A.X, e.A.Y, e.B.X, e.B.Y)
}

// EmptyLayoutError is returned when a layout contains no plot units.
type EmptyLayoutError struct{}

func (e EmptyLayoutError) Error() string {
	return "uastools: the plot layout contains no plots"
}

// InvalidBufferError is returned when a buffer distance is negative
// or would leave no plot area after it is trimmed from both sides.
type InvalidBufferError struct {
	// Axis is either "row" or "range".
	Axis string
	// Buffer is the requested buffer distance and Extent is the
	// plot extent it was applied to, both in meters.
	Buffer, Extent float64
	// Plot and Row identify the first plot unit the buffer does not
	// fit.
	Plot, Row int
}

func (e InvalidBufferError) Error() string {
	return fmt.Sprintf("uastools: invalid %s buffer %g m for the %g m extent of plot %d, row %d",
		e.Axis, e.Buffer, e.Extent, e.Plot, e.Row)
}
