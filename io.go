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
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/ctessum/geom/encoding/shp"
	"github.com/ctessum/requestcache"
	goshp "github.com/jonas-p/go-shp"
	"github.com/tealeg/xlsx"
)

// ReadTableCSV reads the plot table in the CSV file at path.
func ReadTableCSV(path string) (*Table, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("uastools: opening plot table: %v", err)
	}
	defer f.Close()
	lines, err := csv.NewReader(f).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("uastools: reading plot table %s: %v", path, err)
	}
	if len(lines) == 0 {
		return nil, fmt.Errorf("uastools: plot table %s is empty", path)
	}
	return NewTable(lines[0], lines[1:])
}

// ReadTableXLSX reads the plot table on the given worksheet of the
// XLSX workbook at path. When sheet is empty, the first worksheet in
// the workbook is used.
func ReadTableXLSX(path, sheet string) (*Table, error) {
	f, err := xlsx.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("uastools: opening plot table: %v", err)
	}
	var s *xlsx.Sheet
	if sheet == "" {
		if len(f.Sheets) == 0 {
			return nil, fmt.Errorf("uastools: plot table %s has no worksheets", path)
		}
		s = f.Sheets[0]
	} else {
		var ok bool
		if s, ok = f.Sheet[sheet]; !ok {
			return nil, fmt.Errorf("uastools: plot table %s has no worksheet %s", path, sheet)
		}
	}
	if s.MaxRow == 0 {
		return nil, fmt.Errorf("uastools: plot table %s is empty", path)
	}
	lines := make([][]string, s.MaxRow)
	for i := 0; i < s.MaxRow; i++ {
		line := make([]string, s.MaxCol)
		for j := 0; j < s.MaxCol; j++ {
			line[j] = s.Cell(i, j).Value
		}
		lines[i] = line
	}
	return NewTable(lines[0], lines[1:])
}

var loadCache *requestcache.Cache
var loadCacheOnce sync.Once

type tableRequest struct {
	path, sheet string
}

// LoadTable reads the plot table at path, which may be either a CSV
// file or an XLSX workbook, caching the result so that repeated
// requests for the same table do not read the file again.
func LoadTable(path, sheet string) (*Table, error) {
	loadCacheOnce.Do(func() {
		loadCache = requestcache.NewCache(func(ctx context.Context, req interface{}) (interface{}, error) {
			r := req.(tableRequest)
			if strings.ToLower(filepath.Ext(r.path)) == ".xlsx" {
				return ReadTableXLSX(r.path, r.sheet)
			}
			return ReadTableCSV(r.path)
		}, runtime.GOMAXPROCS(-1), requestcache.Memory(100))
	})
	req := loadCache.NewRequest(context.Background(), tableRequest{path: path, sheet: sheet},
		fmt.Sprintf("plottable_%s_%s", path, sheet))
	result, err := req.Result()
	if err != nil {
		return nil, err
	}
	return result.(*Table), nil
}

// shapefileName builds the name of an output shapefile from the field
// name and the output base name.
func shapefileName(field, outfile string, buffered bool) string {
	dir, base := filepath.Split(outfile)
	if field != "" {
		base = field + "_" + base
	}
	if buffered {
		base += "_buff"
	}
	return filepath.Join(dir, base+".shp")
}

// WriteShapefiles writes the raw and the buffered collections to a
// pair of polygon shapefiles. The raw file is named
// "<field>_<outfile>.shp" and the buffered file has a "_buff" suffix;
// when field is empty the prefix is dropped. When the collections
// carry a UTM zone, a matching ".prj" file is written next to each
// shapefile.
func WriteShapefiles(raw, buffered *GeometryCollection, field, outfile string) error {
	if err := writeShapefile(raw, shapefileName(field, outfile, false)); err != nil {
		return err
	}
	return writeShapefile(buffered, shapefileName(field, outfile, true))
}

func writeShapefile(c *GeometryCollection, fname string) error {
	e, err := shp.NewEncoderFromFields(fname, goshp.POLYGON,
		goshp.StringField("ID", 50),
		goshp.NumberField("Plot", 10),
		goshp.NumberField("Range", 10),
		goshp.NumberField("Row", 10),
		goshp.StringField("Barcode", 50),
	)
	if err != nil {
		return fmt.Errorf("uastools: creating shapefile %s: %v", fname, err)
	}
	for _, u := range c.Units {
		if err := e.EncodeFields(u.Polygon, u.ID, u.Plot, u.Range, u.Rows[0], u.Barcodes[0]); err != nil {
			return fmt.Errorf("uastools: writing plot %s to shapefile %s: %v", u.ID, fname, err)
		}
	}
	e.Close()
	crs, err := c.CRS()
	if err != nil {
		return err
	}
	if crs == "" {
		return nil
	}
	prj, err := os.Create(strings.TrimSuffix(fname, ".shp") + ".prj")
	if err != nil {
		return fmt.Errorf("uastools: creating projection file: %v", err)
	}
	fmt.Fprint(prj, crs)
	return prj.Close()
}
