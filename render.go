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
	"fmt"
	"image/color"
	"io"
	"math"
	"os"
	"path/filepath"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/carto"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
)

// Image formats understood by RenderSquare and RenderRotated.
const (
	FormatPDF = "pdf"
	FormatPNG = "png"
)

const (
	pageWidth  = 8.5 * vg.Inch
	pageHeight = 11 * vg.Inch
)

// RenderSquare draws the layout to w in field coordinates, with rows
// running across the page and ranges running up it, ignoring the
// heading of the AB line. Raw plots are drawn filled in black with
// the buffered areas overlaid in red and labeled with the unit IDs.
func RenderSquare(raw, buffered *GeometryCollection, w io.Writer, format string) error {
	return render(raw, buffered, w, format, true)
}

// RenderRotated draws the layout to w in absolute coordinates, rotated
// to the heading of the AB line. Raw plots are drawn as black
// outlines with the buffered areas filled in red and labeled with the
// unit IDs.
func RenderRotated(raw, buffered *GeometryCollection, w io.Writer, format string) error {
	return render(raw, buffered, w, format, false)
}

func render(raw, buffered *GeometryCollection, w io.Writer, format string, square bool) error {
	font, err := vg.MakeFont("Helvetica", vg.Points(7))
	if err != nil {
		return fmt.Errorf("uastools: loading label font: %v", err)
	}
	switch format {
	case FormatPDF:
		c := vgpdf.New(pageWidth, pageHeight)
		if err := drawPlots(draw.New(c), raw, buffered, font, square); err != nil {
			return err
		}
		_, err := c.WriteTo(w)
		return err
	case FormatPNG:
		c := vgimg.New(pageWidth, pageHeight)
		if err := drawPlots(draw.New(c), raw, buffered, font, square); err != nil {
			return err
		}
		_, err := vgimg.PngCanvas{Canvas: c}.WriteTo(w)
		return err
	default:
		return fmt.Errorf("uastools: invalid image format %q; the accepted formats are %q and %q",
			format, FormatPDF, FormatPNG)
	}
}

func drawPlots(dc draw.Canvas, raw, buffered *GeometryCollection, font vg.Font, square bool) error {
	var north, south, east, west float64
	if square {
		xs := make([]float64, 0, 2*len(raw.Units))
		ys := make([]float64, 0, 2*len(raw.Units))
		for _, u := range raw.Units {
			xs = append(xs, u.Local.RowMin, u.Local.RowMax)
			ys = append(ys, u.Local.RangeMin, u.Local.RangeMax)
		}
		west, east = floats.Min(xs), floats.Max(xs)
		south, north = floats.Min(ys), floats.Max(ys)
	} else {
		b := raw.Bounds()
		west, east = b.Min.X, b.Max.X
		south, north = b.Min.Y, b.Max.Y
	}
	c := carto.NewCanvas(north, south, east, west, dc)

	var rawFill color.NRGBA
	labelColor := color.Color(color.NRGBA{B: 255, A: 255})
	if square {
		rawFill = color.NRGBA{A: 255}
		labelColor = color.White
	}
	rawLine := draw.LineStyle{Color: color.NRGBA{A: 255}, Width: vg.Points(0.5)}
	for _, u := range raw.Units {
		if err := c.DrawVector(plotGeom(u, square), rawFill, rawLine, draw.GlyphStyle{}); err != nil {
			return fmt.Errorf("uastools: drawing plot %s: %v", u.ID, err)
		}
	}

	buffFill := color.NRGBA{R: 255, A: 128}
	noLine := draw.LineStyle{Color: color.NRGBA{}}
	for _, u := range buffered.Units {
		if err := c.DrawVector(plotGeom(u, square), buffFill, noLine, draw.GlyphStyle{}); err != nil {
			return fmt.Errorf("uastools: drawing buffered plot %s: %v", u.ID, err)
		}
	}

	rotation := math.Pi / 2
	if !square {
		rotation = labelRotation(raw.Frame().Theta())
	}
	style := draw.TextStyle{
		Color:    labelColor,
		Font:     font,
		Rotation: rotation,
		XAlign:   -0.5,
		YAlign:   -0.5,
	}
	for _, u := range raw.Units {
		var center geom.Point
		if square {
			center = geom.Point{
				X: (u.Local.RowMin + u.Local.RowMax) / 2,
				Y: (u.Local.RangeMin + u.Local.RangeMax) / 2,
			}
		} else {
			center = u.Polygon.Centroid()
		}
		dc.FillText(style, c.Coordinates(center), u.ID)
	}
	return nil
}

// plotGeom returns the geometry to draw for u: the local outline in
// field coordinates for the square map, or the absolute polygon for
// the rotated map.
func plotGeom(u *PlotUnit, square bool) geom.Geom {
	if square {
		return u.Local.Polygon()
	}
	return u.Polygon
}

// labelRotation folds the heading of the range axis into
// (-pi/2, pi/2] so that labels always read left to right.
func labelRotation(theta float64) float64 {
	for theta > math.Pi/2 {
		theta -= math.Pi
	}
	for theta <= -math.Pi/2 {
		theta += math.Pi
	}
	return theta
}

// imageName builds the name of an output map from the field name and
// the output base name.
func imageName(field, outfile, kind string) string {
	dir, base := filepath.Split(outfile)
	if field != "" {
		base = field + "_" + base
	}
	return filepath.Join(dir, base+"_"+kind+"_plots.pdf")
}

// WritePlotImages writes PDF maps of the layout next to the output
// shapefiles: a map in field coordinates named
// "<field>_<outfile>_Square_plots.pdf" when square is true, and a map
// in absolute coordinates named "<field>_<outfile>_Rotated_plots.pdf"
// when rotated is true.
func WritePlotImages(raw, buffered *GeometryCollection, field, outfile string, square, rotated bool) error {
	if square {
		if err := writeImage(raw, buffered, imageName(field, outfile, "Square"), true); err != nil {
			return err
		}
	}
	if rotated {
		return writeImage(raw, buffered, imageName(field, outfile, "Rotated"), false)
	}
	return nil
}

func writeImage(raw, buffered *GeometryCollection, fname string, square bool) error {
	f, err := os.Create(fname)
	if err != nil {
		return fmt.Errorf("uastools: creating plot map: %v", err)
	}
	if err := render(raw, buffered, f, FormatPDF, square); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
