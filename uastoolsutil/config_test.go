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

package uastoolsutil

import (
	"math"
	"reflect"
	"testing"

	"github.com/agphenomics/uastools"
	"github.com/ctessum/geom"
)

func TestPlotConfig(t *testing.T) {
	Cfg.Set("A", "746064.5,3382133")
	Cfg.Set("B", "746063.9,3382341.6")
	Cfg.Set("rowspc", 0.76)
	Cfg.Set("rowbuf", 0.03)
	Cfg.Set("rangespc", 7.62)
	Cfg.Set("rangebuf", 0.61)
	Cfg.Set("nrowplot", 2)
	Cfg.Set("multirowind", true)
	Cfg.Set("plotsubset", 0)
	Cfg.Set("unit", "meter")
	Cfg.Set("UTMzone", "14")
	Cfg.Set("Hemisphere", "N")
	Cfg.Set("Stagger.StartRow", 0)
	Cfg.Set("Stagger.PassRows", 0)
	Cfg.Set("Stagger.Offset", 0.0)

	c, err := PlotConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := &uastools.Config{
		A:                  geom.Point{X: 746064.5, Y: 3382133},
		B:                  geom.Point{X: 746063.9, Y: 3382341.6},
		RowSpacing:         0.76,
		RangeSpacing:       7.62,
		RowBuffer:          0.03,
		RangeBuffer:        0.61,
		RowsPerPlot:        2,
		MultiRowIndividual: true,
		Unit:               uastools.UnitMeter,
		UTMZone:            "14",
		Hemisphere:         "N",
		Epsilon:            uastools.DefaultEpsilon,
	}
	if !reflect.DeepEqual(c, want) {
		t.Errorf("%+v != %+v", c, want)
	}

	t.Run("feet", func(t *testing.T) {
		Cfg.Set("unit", "feet")
		Cfg.Set("rowspc", 2.5)
		c, err := PlotConfig(Cfg)
		if err != nil {
			t.Fatal(err)
		}
		if c.Unit != uastools.UnitMeter {
			t.Errorf("unit %q was not converted to %q", c.Unit, uastools.UnitMeter)
		}
		if want := 2.5 / 3.281; math.Abs(c.RowSpacing-want) > 1.0e-12 {
			t.Errorf("row spacing %g != %g", c.RowSpacing, want)
		}
	})
	t.Run("bad point", func(t *testing.T) {
		Cfg.Set("A", "746064.5")
		defer Cfg.Set("A", "746064.5,3382133")
		if _, err := PlotConfig(Cfg); err == nil {
			t.Error("expected an error")
		}
	})
}

func TestPlotConfigStagger(t *testing.T) {
	Cfg.Set("A", "0,0")
	Cfg.Set("B", "0,100")
	Cfg.Set("unit", "meter")
	Cfg.Set("Stagger.StartRow", 5)
	Cfg.Set("Stagger.PassRows", 8)
	Cfg.Set("Stagger.Offset", 6.1)
	defer func() {
		Cfg.Set("Stagger.StartRow", 0)
		Cfg.Set("Stagger.PassRows", 0)
		Cfg.Set("Stagger.Offset", 0.0)
	}()

	c, err := PlotConfig(Cfg)
	if err != nil {
		t.Fatal(err)
	}
	want := &uastools.Stagger{StartRow: 5, PassRows: 8, Offset: 6.1}
	if !reflect.DeepEqual(c.Stagger, want) {
		t.Errorf("%+v != %+v", c.Stagger, want)
	}
}

func TestParsePoint(t *testing.T) {
	tests := []struct {
		in      string
		want    geom.Point
		wantErr bool
	}{
		{"0,0", geom.Point{}, false},
		{"746064.5, 3382133", geom.Point{X: 746064.5, Y: 3382133}, false},
		{"746064.5", geom.Point{}, true},
		{"a,b", geom.Point{}, true},
		{"1,2,3", geom.Point{}, true},
		{"", geom.Point{}, true},
	}
	for _, test := range tests {
		got, err := parsePoint(test.in)
		if test.wantErr {
			if err == nil {
				t.Errorf("parsePoint(%q): expected an error", test.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("parsePoint(%q): %v", test.in, err)
			continue
		}
		if got != test.want {
			t.Errorf("parsePoint(%q) = %v, want %v", test.in, got, test.want)
		}
	}
}

func TestCheckOutputFile(t *testing.T) {
	if err := checkOutputFile(""); err == nil {
		t.Error("expected an error for an empty output name")
	}
	if err := checkOutputFile("trial.shp"); err == nil {
		t.Error("expected an error for an output name with an extension")
	}
	if err := checkOutputFile("trial"); err != nil {
		t.Error(err)
	}
	if err := checkOutputFile("out/trial"); err != nil {
		t.Error(err)
	}
}
