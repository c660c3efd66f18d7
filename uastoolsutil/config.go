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
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/agphenomics/uastools"
	"github.com/ctessum/geom"
	"github.com/lnashier/viper"
	"github.com/sirupsen/logrus"
	"github.com/skratchdot/open-golang/open"
	"github.com/spf13/cast"
)

// PlotConfig builds the layout configuration from the current
// settings in cfg, converting the measurements to meters.
func PlotConfig(cfg *viper.Viper) (*uastools.Config, error) {
	c := uastools.DefaultConfig()
	var err error
	if c.A, err = parsePoint(cfg.GetString("A")); err != nil {
		return nil, fmt.Errorf("uastools: parsing option A: %v", err)
	}
	if c.B, err = parsePoint(cfg.GetString("B")); err != nil {
		return nil, fmt.Errorf("uastools: parsing option B: %v", err)
	}
	c.RowSpacing = cfg.GetFloat64("rowspc")
	c.RowBuffer = cfg.GetFloat64("rowbuf")
	c.RangeSpacing = cfg.GetFloat64("rangespc")
	c.RangeBuffer = cfg.GetFloat64("rangebuf")
	c.RowsPerPlot = cfg.GetInt("nrowplot")
	c.MultiRowIndividual = cfg.GetBool("multirowind")
	c.PlotSubset = cfg.GetInt("plotsubset")
	c.Unit = cfg.GetString("unit")
	c.UTMZone = cfg.GetString("UTMzone")
	c.Hemisphere = cfg.GetString("Hemisphere")
	startRow := cfg.GetInt("Stagger.StartRow")
	passRows := cfg.GetInt("Stagger.PassRows")
	offset := cfg.GetFloat64("Stagger.Offset")
	if startRow != 0 || passRows != 0 || offset != 0 {
		c.Stagger = &uastools.Stagger{
			StartRow: startRow,
			PassRows: passRows,
			Offset:   offset,
		}
	}
	if err := c.ConvertUnits(); err != nil {
		return nil, err
	}
	return c, nil
}

// parsePoint converts an option of the form "easting,northing" to a
// point.
func parsePoint(s string) (geom.Point, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 2 {
		return geom.Point{}, fmt.Errorf("%q should have the form 'easting,northing'", s)
	}
	x, err := cast.ToFloat64E(strings.TrimSpace(parts[0]))
	if err != nil {
		return geom.Point{}, err
	}
	y, err := cast.ToFloat64E(strings.TrimSpace(parts[1]))
	if err != nil {
		return geom.Point{}, err
	}
	return geom.Point{X: x, Y: y}, nil
}

// checkOutputFile makes sure that the output base name has been set
// and does not already carry a file extension.
func checkOutputFile(outfile string) error {
	if outfile == "" {
		return fmt.Errorf("uastools: please specify an output name with the OutFile option")
	}
	if ext := filepath.Ext(outfile); ext != "" {
		return fmt.Errorf("uastools: the output name %s should not include the file extension %s; extensions are added to each output file",
			outfile, ext)
	}
	return nil
}

// checkTable warns when the plot table does not describe a complete
// rectangular field.
func checkTable(t *uastools.Table, c *uastools.Config) {
	plots := make(map[[2]int]struct{})
	for i := range t.Plots {
		plots[[2]int{t.Plots[i], t.Ranges[i]}] = struct{}{}
	}
	if n := len(plots) * c.RowsPerPlot; n != len(t.Rows) {
		logrus.Warnf("uastools: the plot table describes %d plots of %d rows but contains %d rows; the trial may be incomplete",
			len(plots), c.RowsPerPlot, len(t.Rows))
	}
}

// loadInputs builds the layout configuration and reads the plot table
// named in cfg.
func loadInputs(cfg *viper.Viper) (*uastools.Config, *uastools.Table, error) {
	c, err := PlotConfig(cfg)
	if err != nil {
		return nil, nil, err
	}
	t, err := uastools.LoadTable(cfg.GetString("TableFile"), cfg.GetString("Sheet"))
	if err != nil {
		return nil, nil, err
	}
	checkTable(t, c)
	return c, t, nil
}

// Create runs the complete layout and writes the output shapefiles
// and maps. It is used by the create command.
func Create(cfg *viper.Viper) error {
	outfile := cfg.GetString("OutFile")
	if err := checkOutputFile(outfile); err != nil {
		return err
	}
	c, t, err := loadInputs(cfg)
	if err != nil {
		return err
	}
	raw, buffered, err := uastools.CreatePlots(c, t)
	if err != nil {
		return err
	}
	if c.UTMZone == "" {
		logrus.Warn("uastools: no UTM zone was given; the output shapefiles will have no projection files")
	}
	field := cfg.GetString("Field")
	if err := uastools.WriteShapefiles(raw, buffered, field, outfile); err != nil {
		return err
	}
	logrus.Infof("uastools: wrote %d plot polygons", raw.Len())
	return uastools.WritePlotImages(raw, buffered, field, outfile,
		cfg.GetBool("SquarePlot"), cfg.GetBool("RotatePlot"))
}

// Check runs the complete layout without writing any output files and
// reports the result. It is used by the check command.
func Check(cfg *viper.Viper) error {
	c, t, err := loadInputs(cfg)
	if err != nil {
		return err
	}
	raw, buffered, err := uastools.CreatePlots(c, t)
	if err != nil {
		return err
	}
	b := raw.Bounds()
	logrus.Infof("uastools: %d raw and %d buffered plot polygons between (%g, %g) and (%g, %g)",
		raw.Len(), buffered.Len(), b.Min.X, b.Min.Y, b.Max.X, b.Max.Y)
	return nil
}

// Serve runs the complete layout and serves the preview of it. It is
// used by the preview command.
func Serve(cfg *viper.Viper) error {
	c, t, err := loadInputs(cfg)
	if err != nil {
		return err
	}
	raw, buffered, err := uastools.CreatePlots(c, t)
	if err != nil {
		return err
	}
	addr := cfg.GetString("addr")
	logrus.Infof("uastools: serving the plot preview at %s", addr)
	srv := &http.Server{
		Addr:              addr,
		Handler:           uastools.NewPreviewServer(raw, buffered),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	url := addr
	if strings.HasPrefix(url, ":") {
		url = "localhost" + url
	}
	open.Run("http://" + url)
	fmt.Println("If not opened automatically, please visit http://" + url)
	return srv.ListenAndServe()
}
