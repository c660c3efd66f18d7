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
	"encoding/json"
	"fmt"
	"html/template"
	"net/http"
	"strconv"

	"github.com/ctessum/geom"
)

// A PreviewServer serves an interactive preview of a plot layout. It
// draws the assembled polygons as PNG maps and identifies the plot at
// a queried location, so a layout can be checked against satellite
// imagery before planting stakes.
type PreviewServer struct {
	*http.ServeMux

	raw, buffered *GeometryCollection
}

// NewPreviewServer creates a preview server for the given raw and
// buffered collections.
func NewPreviewServer(raw, buffered *GeometryCollection) *PreviewServer {
	s := &PreviewServer{
		ServeMux: http.NewServeMux(),
		raw:      raw,
		buffered: buffered,
	}
	s.HandleFunc("/", s.home)
	s.HandleFunc("/map", s.rotatedMap)
	s.HandleFunc("/map/square", s.squareMap)
	s.HandleFunc("/identify", s.identify)
	return s
}

// A ServerConfig holds the configuration of a preview server, as
// decoded from a TOML file. The layout values carry the same names as
// the corresponding command line flags.
type ServerConfig struct {
	// Addr is the address for the server to listen on.
	Addr string `toml:"addr"`

	// TableFile is the path to the plot table, and Sheet is the
	// worksheet holding it when TableFile is an XLSX workbook.
	TableFile string
	Sheet     string

	// A and B are the endpoints of the AB line in UTM meters, each
	// in the form [easting, northing].
	A []float64
	B []float64

	RowSpacing         float64 `toml:"rowspc"`
	RowBuffer          float64 `toml:"rowbuf"`
	RangeSpacing       float64 `toml:"rangespc"`
	RangeBuffer        float64 `toml:"rangebuf"`
	RowsPerPlot        int     `toml:"nrowplot"`
	MultiRowIndividual bool    `toml:"multirowind"`

	// Stagger, when present, has the form [start row, pass rows,
	// offset].
	Stagger []float64

	PlotSubset int    `toml:"plotsubset"`
	Unit       string `toml:"unit"`
	UTMZone    string `toml:"UTMzone"`
	Hemisphere string
}

// NewPreviewServerFromConfig reads the plot table named in c, runs
// the complete layout, and creates a preview server for the result.
func NewPreviewServerFromConfig(c *ServerConfig) (*PreviewServer, error) {
	cfg := &Config{
		RowSpacing:         c.RowSpacing,
		RangeSpacing:       c.RangeSpacing,
		RowBuffer:          c.RowBuffer,
		RangeBuffer:        c.RangeBuffer,
		RowsPerPlot:        c.RowsPerPlot,
		MultiRowIndividual: c.MultiRowIndividual,
		PlotSubset:         c.PlotSubset,
		Unit:               c.Unit,
		UTMZone:            c.UTMZone,
		Hemisphere:         c.Hemisphere,
		Epsilon:            DefaultEpsilon,
	}
	var err error
	if cfg.A, err = configPoint("A", c.A); err != nil {
		return nil, err
	}
	if cfg.B, err = configPoint("B", c.B); err != nil {
		return nil, err
	}
	switch len(c.Stagger) {
	case 0:
	case 3:
		cfg.Stagger = &Stagger{
			StartRow: int(c.Stagger[0]),
			PassRows: int(c.Stagger[1]),
			Offset:   c.Stagger[2],
		}
	default:
		return nil, fmt.Errorf("uastools: Stagger must have the form [start row, pass rows, offset]")
	}
	if err := cfg.ConvertUnits(); err != nil {
		return nil, err
	}
	t, err := LoadTable(c.TableFile, c.Sheet)
	if err != nil {
		return nil, err
	}
	raw, buffered, err := CreatePlots(cfg, t)
	if err != nil {
		return nil, err
	}
	return NewPreviewServer(raw, buffered), nil
}

func configPoint(name string, v []float64) (geom.Point, error) {
	if len(v) != 2 {
		return geom.Point{}, fmt.Errorf("uastools: %s must have the form [easting, northing]", name)
	}
	return geom.Point{X: v[0], Y: v[1]}, nil
}

var previewTemplate = template.Must(template.New("preview").Parse(`<!DOCTYPE html>
<html>
<head><title>UAStools plot preview</title></head>
<body>
<h1>UAStools plot preview</h1>
<p>{{.Plots}} plots. The rotated map is below; the field-coordinate map
is at <a href="/map/square">/map/square</a>, and
/identify?x=&amp;y= reports the plot at a UTM coordinate.</p>
<img src="/map" alt="plot layout">
</body>
</html>
`))

func (s *PreviewServer) home(w http.ResponseWriter, r *http.Request) {
	d := struct{ Plots int }{Plots: s.raw.Len()}
	if err := previewTemplate.Execute(w, d); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *PreviewServer) rotatedMap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	if err := RenderRotated(s.raw, s.buffered, w, FormatPNG); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

func (s *PreviewServer) squareMap(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "image/png")
	if err := RenderSquare(s.raw, s.buffered, w, FormatPNG); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// identifyResponse is the answer to an identify query.
type identifyResponse struct {
	Found    bool
	ID       string   `json:",omitempty"`
	Plot     int      `json:",omitempty"`
	Range    int      `json:",omitempty"`
	Rows     []int    `json:",omitempty"`
	Barcodes []string `json:",omitempty"`
}

func (s *PreviewServer) identify(w http.ResponseWriter, r *http.Request) {
	x, err := s2f(r, "x")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	y, err := s2f(r, "y")
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	var resp identifyResponse
	if u := s.raw.At(geom.Point{X: x, Y: y}); u != nil {
		resp = identifyResponse{
			Found:    true,
			ID:       u.ID,
			Plot:     u.Plot,
			Range:    u.Range,
			Rows:     u.Rows,
			Barcodes: u.Barcodes,
		}
	}
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
	}
}

// s2f converts the query parameter with the given name to a float.
func s2f(r *http.Request, name string) (float64, error) {
	v := r.FormValue(name)
	if v == "" {
		return 0, fmt.Errorf("uastools: missing query parameter %s", name)
	}
	return strconv.ParseFloat(v, 64)
}
