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

import (
	"bytes"
	"image/png"
	"math"
	"os"
	"testing"

	"gonum.org/v1/plot/vg"
)

// skipWithoutFonts skips the test when the label font cannot be
// loaded.
func skipWithoutFonts(t *testing.T) {
	if _, err := vg.MakeFont("Helvetica", vg.Points(7)); err != nil {
		t.Skipf("font not available: %v", err)
	}
}

func TestRenderPNG(t *testing.T) {
	skipWithoutFonts(t)
	raw, buffered := testCollections(t)
	var buf bytes.Buffer
	if err := RenderRotated(raw, buffered, &buf, FormatPNG); err != nil {
		t.Fatal(err)
	}
	cfg, err := png.DecodeConfig(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Width == 0 || cfg.Height == 0 {
		t.Errorf("empty image: %d by %d", cfg.Width, cfg.Height)
	}
}

func TestRenderPDF(t *testing.T) {
	skipWithoutFonts(t)
	raw, buffered := testCollections(t)
	var buf bytes.Buffer
	if err := RenderSquare(raw, buffered, &buf, FormatPDF); err != nil {
		t.Fatal(err)
	}
	if !bytes.HasPrefix(buf.Bytes(), []byte("%PDF")) {
		t.Error("output is not a PDF document")
	}
}

func TestRenderBadFormat(t *testing.T) {
	raw, buffered := testCollections(t)
	var buf bytes.Buffer
	if err := RenderSquare(raw, buffered, &buf, "svg"); err == nil {
		t.Error("expected an error")
	}
}

func TestLabelRotation(t *testing.T) {
	tests := []struct {
		theta, want float64
	}{
		{0, 0},
		{math.Pi / 2, math.Pi / 2},
		{math.Pi, 0},
		{-math.Pi / 2, math.Pi / 2},
		{3 * math.Pi / 4, -math.Pi / 4},
		{-3 * math.Pi / 4, math.Pi / 4},
	}
	for _, test := range tests {
		if got := labelRotation(test.theta); math.Abs(got-test.want) > frameTol {
			t.Errorf("labelRotation(%g) = %g, want %g", test.theta, got, test.want)
		}
	}
}

func TestImageName(t *testing.T) {
	tests := []struct {
		field, outfile, kind string
		want                 string
	}{
		{"Field1", "trial", "Square", "Field1_trial_Square_plots.pdf"},
		{"", "trial", "Rotated", "trial_Rotated_plots.pdf"},
		{"Field1", "out/trial", "Square", "out/Field1_trial_Square_plots.pdf"},
	}
	for _, test := range tests {
		got := imageName(test.field, test.outfile, test.kind)
		if got != test.want {
			t.Errorf("imageName(%q, %q, %q) = %q, want %q",
				test.field, test.outfile, test.kind, got, test.want)
		}
	}
}

func TestWritePlotImages(t *testing.T) {
	skipWithoutFonts(t)
	raw, buffered := testCollections(t)
	if err := WritePlotImages(raw, buffered, "test", "plots", true, true); err != nil {
		t.Fatal(err)
	}
	for _, fname := range []string{"test_plots_Square_plots.pdf", "test_plots_Rotated_plots.pdf"} {
		if _, err := os.Stat(fname); err != nil {
			t.Error(err)
		}
		os.Remove(fname)
	}
}
