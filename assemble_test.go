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
	"reflect"
	"testing"

	"github.com/ctessum/geom"
)

// testCollections lays out two single row plots side by side against
// an AB line running due north and returns the raw and buffered
// collections.
func testCollections(t *testing.T) (*GeometryCollection, *GeometryCollection) {
	table := &Table{
		Plots:    []int{1, 2},
		Ranges:   []int{1, 1},
		Rows:     []int{1, 2},
		Barcodes: []string{"A", "B"},
	}
	c := testConfig()
	c.RowBuffer = 0.25
	c.RangeBuffer = 2
	c.UTMZone = "14"
	raw, buffered, err := CreatePlots(c, table)
	if err != nil {
		t.Fatal(err)
	}
	return raw, buffered
}

func TestAssemble(t *testing.T) {
	f, err := NewFrame(geom.Point{X: 0, Y: 0}, geom.Point{X: 0, Y: 100})
	if err != nil {
		t.Fatal(err)
	}
	c := testConfig()
	units, err := LayoutGrid(&Table{
		Plots:    []int{1, 2},
		Ranges:   []int{1, 1},
		Rows:     []int{1, 2},
		Barcodes: []string{"A", "B"},
	}, c)
	if err != nil {
		t.Fatal(err)
	}
	raw, err := Assemble(f, units)
	if err != nil {
		t.Fatal(err)
	}
	if raw.Label != LabelRaw {
		t.Errorf("label %q != %q", raw.Label, LabelRaw)
	}
	want := []geom.Polygon{
		{{
			{X: -1.25, Y: 0},
			{X: 1.25, Y: 0},
			{X: 1.25, Y: 25},
			{X: -1.25, Y: 25},
			{X: -1.25, Y: 0},
		}},
		{{
			{X: 1.25, Y: 0},
			{X: 3.75, Y: 0},
			{X: 3.75, Y: 25},
			{X: 1.25, Y: 25},
			{X: 1.25, Y: 0},
		}},
	}
	for i, u := range raw.Units {
		if !reflect.DeepEqual(u.Polygon, want[i]) {
			t.Errorf("unit %d: %v != %v", i, u.Polygon, want[i])
		}
	}
}

func TestAssembleEmpty(t *testing.T) {
	f, err := NewFrame(geom.Point{X: 0, Y: 0}, geom.Point{X: 0, Y: 100})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Assemble(f, nil); err == nil {
		t.Fatal("expected an error for an empty layout")
	} else if _, ok := err.(EmptyLayoutError); !ok {
		t.Errorf("unexpected error %v", err)
	}
}

func TestCollectionAt(t *testing.T) {
	raw, _ := testCollections(t)
	if u := raw.At(geom.Point{X: 0, Y: 12.5}); u == nil || u.ID != "A" {
		t.Errorf("at (0, 12.5): %v", u)
	}
	if u := raw.At(geom.Point{X: 2.5, Y: 12.5}); u == nil || u.ID != "B" {
		t.Errorf("at (2.5, 12.5): %v", u)
	}
	// The shared edge of the two plots belongs to one of them.
	if u := raw.At(geom.Point{X: 1.25, Y: 12.5}); u == nil {
		t.Error("no unit found on a shared edge")
	}
	if u := raw.At(geom.Point{X: 10, Y: 10}); u != nil {
		t.Errorf("at (10, 10): found %v outside the trial", u.ID)
	}
}

func TestCollectionBounds(t *testing.T) {
	raw, _ := testCollections(t)
	want := &geom.Bounds{
		Min: geom.Point{X: -1.25, Y: 0},
		Max: geom.Point{X: 3.75, Y: 25},
	}
	if got := raw.Bounds(); !reflect.DeepEqual(got, want) {
		t.Errorf("%v != %v", got, want)
	}
}

func TestCollectionCRS(t *testing.T) {
	tests := []struct {
		zone, hemisphere string
		want             string
		wantErr          bool
	}{
		{"14", "N", "+proj=utm +zone=14 +datum=NAD83 +units=m +no_defs +ellps=GRS80", false},
		{"14", "S", "+proj=utm +zone=14 +south +datum=NAD83 +units=m +no_defs +ellps=GRS80", false},
		{"", "N", "", false},
		{"99", "N", "", true},
		{"abc", "N", "", true},
	}
	for _, test := range tests {
		c := &GeometryCollection{UTMZone: test.zone, Hemisphere: test.hemisphere}
		got, err := c.CRS()
		if test.wantErr {
			if err == nil {
				t.Errorf("zone %q: expected an error", test.zone)
			}
			continue
		}
		if err != nil {
			t.Errorf("zone %q: %v", test.zone, err)
			continue
		}
		if got != test.want {
			t.Errorf("zone %q: %q != %q", test.zone, got, test.want)
		}
	}
}

func TestCreatePlots(t *testing.T) {
	raw, buffered := testCollections(t)
	if raw.Len() != 2 || buffered.Len() != 2 {
		t.Fatalf("created %d raw and %d buffered units, want 2 of each", raw.Len(), buffered.Len())
	}
	if buffered.Label != LabelBuffered {
		t.Errorf("label %q != %q", buffered.Label, LabelBuffered)
	}
	if raw.UTMZone != "14" || buffered.UTMZone != "14" {
		t.Errorf("UTM zone not carried through: %q, %q", raw.UTMZone, buffered.UTMZone)
	}
	wantRaw := Rect{RangeMin: 0, RangeMax: 25, RowMin: -1.25, RowMax: 1.25}
	if raw.Units[0].Local != wantRaw {
		t.Errorf("%v != %v", raw.Units[0].Local, wantRaw)
	}
	wantBuffered := geom.Polygon{{
		{X: -1, Y: 2},
		{X: 1, Y: 2},
		{X: 1, Y: 23},
		{X: -1, Y: 23},
		{X: -1, Y: 2},
	}}
	if !reflect.DeepEqual(buffered.Units[0].Polygon, wantBuffered) {
		t.Errorf("%v != %v", buffered.Units[0].Polygon, wantBuffered)
	}

	t.Run("coincident endpoints", func(t *testing.T) {
		c := testConfig()
		c.B = c.A
		_, _, err := CreatePlots(c, testTable())
		if _, ok := err.(DegenerateFrameError); !ok {
			t.Errorf("unexpected error %v", err)
		}
	})
}
