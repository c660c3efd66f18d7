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
	"sort"
	"strconv"
	"strings"

	"github.com/ctessum/geom"
)

// Measurement units accepted by Config.Unit.
const (
	UnitFeet  = "feet"
	UnitMeter = "meter"
)

// feetPerMeter converts foot measurements to meters.
const feetPerMeter = 3.281

// tableColumns are the columns a plot table must contain.
var tableColumns = []string{"Plot", "Range", "Row", "Barcode"}

// A Table holds the contents of a plot table. Each index describes
// one trial row: the plot it belongs to, the grid cell it occupies,
// and the barcode identifying its entry.
type Table struct {
	Plots    []int
	Ranges   []int
	Rows     []int
	Barcodes []string
}

// NewTable creates a Table from a header and a set of records, such
// as those read from a CSV file or a spreadsheet. Column names are
// matched without regard to case, records that are entirely blank are
// skipped, and the remaining records are kept in their original
// order. A table that lists the same row of a plot twice, or that
// places two records in the same grid cell, is rejected.
func NewTable(header []string, records [][]string) (*Table, error) {
	index := make(map[string]int)
	for i, name := range header {
		index[strings.ToLower(strings.TrimSpace(name))] = i
	}
	var missing []string
	cols := make([]int, len(tableColumns))
	maxCol := 0
	for i, name := range tableColumns {
		j, ok := index[strings.ToLower(name)]
		if !ok {
			missing = append(missing, name)
			continue
		}
		cols[i] = j
		if j > maxCol {
			maxCol = j
		}
	}
	if len(missing) > 0 {
		return nil, MissingColumnError{Columns: missing}
	}
	t := new(Table)
	seenPlot := make(map[[2]int]struct{})
	seenCell := make(map[[2]int]struct{})
	for i, rec := range records {
		if blankRecord(rec) {
			continue
		}
		if maxCol >= len(rec) {
			return nil, fmt.Errorf("uastools: record %d of the plot table has %d fields but at least %d are required",
				i+2, len(rec), maxCol+1)
		}
		plot, err := atoi(rec[cols[0]])
		if err != nil {
			return nil, fmt.Errorf("uastools: parsing the Plot field of plot table record %d: %v", i+2, err)
		}
		rng, err := atoi(rec[cols[1]])
		if err != nil {
			return nil, fmt.Errorf("uastools: parsing the Range field of plot table record %d: %v", i+2, err)
		}
		row, err := atoi(rec[cols[2]])
		if err != nil {
			return nil, fmt.Errorf("uastools: parsing the Row field of plot table record %d: %v", i+2, err)
		}
		plotRow := [2]int{plot, row}
		if _, ok := seenPlot[plotRow]; ok {
			return nil, DuplicateRowError{Plot: plot, Range: rng, Row: row}
		}
		seenPlot[plotRow] = struct{}{}
		cell := [2]int{rng, row}
		if _, ok := seenCell[cell]; ok {
			return nil, DuplicateRowError{Plot: plot, Range: rng, Row: row}
		}
		seenCell[cell] = struct{}{}
		t.Plots = append(t.Plots, plot)
		t.Ranges = append(t.Ranges, rng)
		t.Rows = append(t.Rows, row)
		t.Barcodes = append(t.Barcodes, strings.TrimSpace(rec[cols[3]]))
	}
	return t, nil
}

func atoi(s string) (int, error) {
	return strconv.Atoi(strings.TrimSpace(s))
}

func blankRecord(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// A Stagger describes a planter whose alternating passes are offset
// along the range axis, as happens when the planter is wider than the
// plots are.
type Stagger struct {
	// StartRow is the first field row of the first offset pass,
	// counting from 1 at the row nearest the AB line.
	StartRow int
	// PassRows is the number of field rows planted in each pass.
	PassRows int
	// Offset is the distance the offset passes are shifted toward
	// B, in meters.
	Offset float64
}

func (s *Stagger) valid(c *Config) error {
	if s.PassRows < 1 {
		return fmt.Errorf("uastools: invalid plot layout: the stagger pass width is %d rows but should be at least 1", s.PassRows)
	}
	if s.StartRow == 1 {
		return fmt.Errorf("uastools: invalid plot layout: a stagger cannot begin at the first row of the field")
	}
	if s.StartRow < 2 {
		return fmt.Errorf("uastools: invalid plot layout: the stagger start row is %d but should be at least 2", s.StartRow)
	}
	if s.StartRow > s.PassRows+1 {
		return fmt.Errorf("uastools: invalid plot layout: the stagger start row %d cannot be beyond the end of the second pass (row %d)",
			s.StartRow, s.PassRows+1)
	}
	if c.RowsPerPlot > 1 && c.merged() && 2*c.RowsPerPlot > s.PassRows {
		return fmt.Errorf("uastools: invalid plot layout: %d row plots cannot be merged across %d row planter passes",
			c.RowsPerPlot, s.PassRows)
	}
	return nil
}

// shifted reports whether field row w, counting from 1, lies in an
// offset pass.
func (s *Stagger) shifted(w int) bool {
	passes := (w - s.StartRow + 2*s.PassRows) / s.PassRows
	return passes%2 == 0
}

// A Config holds the plot layout parameters for a trial.
type Config struct {
	// A and B are the surveyed endpoints of the AB line in absolute
	// coordinates (UTM meters). Ranges advance from A toward B and
	// rows advance to the right of the AB line.
	A, B geom.Point

	// RowSpacing is the width of a single trial row including the
	// inter-row gap, and RangeSpacing is the length of a plot along
	// the range axis.
	RowSpacing, RangeSpacing float64

	// RowBuffer and RangeBuffer are the distances trimmed from each
	// side of a plot along the corresponding axis when creating the
	// buffered polygons.
	RowBuffer, RangeBuffer float64

	// RowsPerPlot is the number of field rows that make up each plot.
	RowsPerPlot int

	// MultiRowIndividual creates one polygon for every row of a
	// multirow plot instead of a single merged polygon per plot.
	MultiRowIndividual bool

	// Stagger, if it is not nil, describes the planter pass offsets
	// of the trial.
	Stagger *Stagger

	// PlotSubset drops this many rows from each side of every plot
	// and creates individual polygons for the remaining rows.
	PlotSubset int

	// Unit is the measurement unit of the spacing, buffer, and
	// stagger offset values, either UnitFeet or UnitMeter.
	Unit string

	// UTMZone is the UTM longitude zone of the trial site, for
	// example "14". When it is empty, no coordinate reference
	// system is attached to the output.
	UTMZone string

	// Hemisphere is the hemisphere of the UTM zone, "N" or "S".
	Hemisphere string

	// Epsilon is the minimum distance in meters between the A and B
	// points. When it is zero, DefaultEpsilon is used.
	Epsilon float64
}

// DefaultConfig returns a Config holding the default layout
// parameters: 2.5 by 25 foot plots of a single row each, with a 0.1
// foot row buffer and a 2 foot range buffer.
func DefaultConfig() *Config {
	return &Config{
		RowSpacing:   2.5,
		RangeSpacing: 25,
		RowBuffer:    0.1,
		RangeBuffer:  2,
		RowsPerPlot:  1,
		Unit:         UnitFeet,
		Hemisphere:   "N",
		Epsilon:      DefaultEpsilon,
	}
}

// ConvertUnits converts the spacing, buffer, and stagger offset
// values of c to meters when they are given in feet. The A and B
// points are always in meters and are not changed. The layout
// functions do not convert units themselves, so ConvertUnits should
// be called once before creating plots.
func (c *Config) ConvertUnits() error {
	switch c.Unit {
	case UnitMeter:
		return nil
	case UnitFeet:
		c.RowSpacing /= feetPerMeter
		c.RangeSpacing /= feetPerMeter
		c.RowBuffer /= feetPerMeter
		c.RangeBuffer /= feetPerMeter
		if c.Stagger != nil {
			c.Stagger.Offset /= feetPerMeter
		}
		c.Unit = UnitMeter
		return nil
	default:
		return fmt.Errorf("uastools: unknown unit %q; the accepted units are %q and %q",
			c.Unit, UnitFeet, UnitMeter)
	}
}

// merged reports whether the rows of each plot are merged into a
// single polygon.
func (c *Config) merged() bool {
	return c.PlotSubset == 0 && !(c.RowsPerPlot > 1 && c.MultiRowIndividual)
}

func (c *Config) valid() error {
	if c.RowSpacing <= 0 {
		return fmt.Errorf("uastools: invalid plot layout: rowspc=%g but should be greater than 0", c.RowSpacing)
	}
	if c.RangeSpacing <= 0 {
		return fmt.Errorf("uastools: invalid plot layout: rangespc=%g but should be greater than 0", c.RangeSpacing)
	}
	if c.RowBuffer < 0 {
		return fmt.Errorf("uastools: invalid plot layout: rowbuf=%g but should not be negative", c.RowBuffer)
	}
	if c.RangeBuffer < 0 {
		return fmt.Errorf("uastools: invalid plot layout: rangebuf=%g but should not be negative", c.RangeBuffer)
	}
	if c.RowsPerPlot < 1 {
		return fmt.Errorf("uastools: invalid plot layout: nrowplot=%d but should be at least 1", c.RowsPerPlot)
	}
	switch c.Unit {
	case UnitFeet, UnitMeter:
	default:
		return fmt.Errorf("uastools: unknown unit %q; the accepted units are %q and %q",
			c.Unit, UnitFeet, UnitMeter)
	}
	switch strings.ToUpper(c.Hemisphere) {
	case "", "N", "S":
	default:
		return fmt.Errorf("uastools: the hemisphere must be either N or S (got %q)", c.Hemisphere)
	}
	if c.PlotSubset < 0 {
		return fmt.Errorf("uastools: invalid plot layout: plotsubset=%d but should not be negative", c.PlotSubset)
	}
	if c.PlotSubset > 0 {
		if c.RowsPerPlot == 1 {
			return fmt.Errorf("uastools: invalid plot layout: a plot subset requires plots that are more than one row wide")
		}
		if c.RowsPerPlot <= 2*c.PlotSubset {
			return fmt.Errorf("uastools: invalid plot layout: a subset of %d rows on each side leaves nothing of a %d row plot",
				c.PlotSubset, c.RowsPerPlot)
		}
	}
	if c.Stagger != nil {
		return c.Stagger.valid(c)
	}
	return nil
}

// cellRect returns the local rectangle covering field rows wLo
// through wHi of range g, where all three are 1-based grid positions.
func (c *Config) cellRect(g, wLo, wHi int) Rect {
	return Rect{
		RangeMin: float64(g-1) * c.RangeSpacing,
		RangeMax: float64(g) * c.RangeSpacing,
		RowMin:   (float64(wLo) - 1.5) * c.RowSpacing,
		RowMax:   (float64(wHi) - 0.5) * c.RowSpacing,
	}
}

// LayoutGrid arranges the plots in t on the grid described by c,
// returning one plot unit for each polygon that will be created. The
// range and row values in t are normalized so that the smallest of
// each lies at the first grid position, and the units are returned
// grouped by plot in the order the plots first appear in the table.
// The polygons of the returned units are not filled in until the
// units are passed to Assemble.
func LayoutGrid(t *Table, c *Config) ([]*PlotUnit, error) {
	if err := c.valid(); err != nil {
		return nil, err
	}
	if len(t.Rows) == 0 {
		return nil, nil
	}

	minRange := t.Ranges[0]
	minRow := t.Rows[0]
	for i := range t.Ranges {
		if t.Ranges[i] < minRange {
			minRange = t.Ranges[i]
		}
		if t.Rows[i] < minRow {
			minRow = t.Rows[i]
		}
	}

	// Group the records into plots. A plot is identified by its plot
	// number together with its range, so plot numbers may repeat in
	// different ranges.
	type group struct {
		plot, rng int
		index     []int
	}
	var groups []*group
	byCell := make(map[[2]int]*group)
	for i := range t.Plots {
		key := [2]int{t.Plots[i], t.Ranges[i]}
		g, ok := byCell[key]
		if !ok {
			g = &group{plot: t.Plots[i], rng: t.Ranges[i]}
			byCell[key] = g
			groups = append(groups, g)
		}
		g.index = append(g.index, i)
	}

	counts := make(map[string]int)
	var units []*PlotUnit
	for _, g := range groups {
		sort.Slice(g.index, func(a, b int) bool {
			return t.Rows[g.index[a]] < t.Rows[g.index[b]]
		})
		if c.merged() {
			rows := make([]int, len(g.index))
			barcodes := make([]string, len(g.index))
			for j, i := range g.index {
				rows[j] = t.Rows[i]
				barcodes[j] = t.Barcodes[i]
			}
			units = append(units, &PlotUnit{
				ID:       barcodes[0],
				Plot:     g.plot,
				Range:    g.rng,
				Rows:     rows,
				Barcodes: barcodes,
				Local:    c.cellRect(g.rng-minRange+1, rows[0]-minRow+1, rows[len(rows)-1]-minRow+1),
			})
			continue
		}
		// Individual polygons, one per row. The rows of each plot are
		// numbered before any subset is applied, so the polygons that
		// remain keep their position in the full plot.
		loRow := t.Rows[g.index[0]]
		hiRow := t.Rows[g.index[len(g.index)-1]]
		for _, i := range g.index {
			barcode := t.Barcodes[i]
			counts[barcode]++
			k := counts[barcode]
			if c.PlotSubset > 0 && (t.Rows[i] < loRow+c.PlotSubset || t.Rows[i] > hiRow-c.PlotSubset) {
				continue
			}
			w := t.Rows[i] - minRow + 1
			units = append(units, &PlotUnit{
				ID:       fmt.Sprintf("%s_%d", barcode, k),
				Plot:     g.plot,
				Range:    g.rng,
				Rows:     []int{t.Rows[i]},
				Barcodes: []string{barcode},
				Local:    c.cellRect(g.rng-minRange+1, w, w),
			})
		}
	}

	if c.Stagger != nil {
		for _, u := range units {
			if c.Stagger.shifted(u.Rows[0] - minRow + 1) {
				u.Local.RangeMin += c.Stagger.Offset
				u.Local.RangeMax += c.Stagger.Offset
			}
		}
	}
	return units, nil
}
