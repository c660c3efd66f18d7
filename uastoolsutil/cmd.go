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

// Package uastoolsutil holds the setup for the UAStools command line
// interface. It is separate from the main program so that the
// commands can also be run from tests and from other programs.
package uastoolsutil

import (
	"fmt"

	"github.com/agphenomics/uastools"
	"github.com/lnashier/viper"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Cfg holds the global configuration.
var Cfg *viper.Viper

// options are the configuration options available to the commands.
// Each option is bound to the flag sets of the commands it applies
// to, to an environment variable with the UASTOOLS prefix, and to the
// configuration file.
var options []struct {
	name, usage, shorthand string
	defaultVal             interface{}
	flagsets               []*pflag.FlagSet
}

func init() {
	Cfg = viper.New()
	Cfg.SetEnvPrefix("UASTOOLS")

	options = []struct {
		name, usage, shorthand string
		defaultVal             interface{}
		flagsets               []*pflag.FlagSet
	}{
		{
			name:       "config",
			usage:      `config specifies the location of a configuration file holding any of the other options.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{Root.PersistentFlags()},
		},
		{
			name:       "TableFile",
			usage:      `TableFile is the path to the plot table, a CSV file or XLSX workbook with one record per trial row holding the columns Plot, Range, Row, and Barcode.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "Sheet",
			usage:      `Sheet is the worksheet holding the plot table when TableFile is an XLSX workbook. The default is the first worksheet in the workbook.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "A",
			usage:      `A is the surveyed location of the trial's A point in UTM meters, in the form 'easting,northing'. The A point is the start of the AB line and the origin of the plot grid.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "B",
			usage:      `B is the surveyed location of the trial's B point in UTM meters, in the form 'easting,northing'. Ranges advance from A toward B, and rows advance to the right of the AB line.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "rowspc",
			usage:      `rowspc is the width of a single trial row, including the gap between rows, in the units given by the unit option.`,
			defaultVal: 2.5,
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "rowbuf",
			usage:      `rowbuf is the buffer trimmed from each side of a plot along the row axis when creating the buffered polygons, in the units given by the unit option.`,
			defaultVal: 0.1,
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "rangespc",
			usage:      `rangespc is the length of a plot along the range axis, in the units given by the unit option.`,
			defaultVal: 25.0,
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "rangebuf",
			usage:      `rangebuf is the buffer trimmed from each end of a plot along the range axis when creating the buffered polygons, in the units given by the unit option.`,
			defaultVal: 2.0,
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "nrowplot",
			usage:      `nrowplot is the number of field rows that make up each plot.`,
			defaultVal: 1,
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "multirowind",
			usage:      `multirowind creates an individual polygon for every row of a multirow plot instead of one merged polygon per plot.`,
			defaultVal: false,
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "Stagger.StartRow",
			usage:      `Stagger.StartRow is the first field row of the first offset planter pass, counting from 1 at the row nearest the AB line. When all three Stagger options are left at zero, no stagger is applied.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "Stagger.PassRows",
			usage:      `Stagger.PassRows is the number of field rows planted in each planter pass.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "Stagger.Offset",
			usage:      `Stagger.Offset is the distance that alternating planter passes are shifted toward the B point, in the units given by the unit option.`,
			defaultVal: 0.0,
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "plotsubset",
			usage:      `plotsubset drops the given number of rows from each side of every plot and creates individual polygons for the rows that remain.`,
			defaultVal: 0,
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "unit",
			usage:      `unit is the measurement unit of rowspc, rowbuf, rangespc, rangebuf, and Stagger.Offset; either feet or meter.`,
			defaultVal: "feet",
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "UTMzone",
			usage:      `UTMzone is the UTM longitude zone of the trial site, for example 14. When it is left empty, the output shapefiles have no projection files.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "Hemisphere",
			usage:      `Hemisphere is the hemisphere of the UTM zone, N or S.`,
			defaultVal: "N",
			flagsets:   []*pflag.FlagSet{createCmd.Flags(), checkCmd.Flags(), previewCmd.Flags()},
		},
		{
			name:       "OutFile",
			shorthand:  "o",
			usage:      `OutFile is the base name of the output files, without a file extension. The name of each output file is built from the Field option, OutFile, and an extension.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{createCmd.Flags()},
		},
		{
			name:       "Field",
			usage:      `Field is a name for the trial site. When it is set, the output file names are prefixed with it.`,
			defaultVal: "",
			flagsets:   []*pflag.FlagSet{createCmd.Flags()},
		},
		{
			name:       "SquarePlot",
			usage:      `SquarePlot writes a PDF map of the plots in field coordinates, with the ranges running up the page.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{createCmd.Flags()},
		},
		{
			name:       "RotatePlot",
			usage:      `RotatePlot writes a PDF map of the plots in absolute coordinates, rotated to the heading of the AB line.`,
			defaultVal: true,
			flagsets:   []*pflag.FlagSet{createCmd.Flags()},
		},
		{
			name:       "addr",
			usage:      `addr is the address for the preview server to listen on.`,
			defaultVal: ":8080",
			flagsets:   []*pflag.FlagSet{previewCmd.Flags()},
		},
	}

	for _, option := range options {
		for i, set := range option.flagsets {
			if i != 0 {
				// The flag is already created in the first flagset;
				// share it with the others.
				set.AddFlag(option.flagsets[0].Lookup(option.name))
				continue
			}
			switch v := option.defaultVal.(type) {
			case string:
				if option.shorthand == "" {
					set.String(option.name, v, option.usage)
				} else {
					set.StringP(option.name, option.shorthand, v, option.usage)
				}
			case bool:
				if option.shorthand == "" {
					set.Bool(option.name, v, option.usage)
				} else {
					set.BoolP(option.name, option.shorthand, v, option.usage)
				}
			case int:
				if option.shorthand == "" {
					set.Int(option.name, v, option.usage)
				} else {
					set.IntP(option.name, option.shorthand, v, option.usage)
				}
			case float64:
				if option.shorthand == "" {
					set.Float64(option.name, v, option.usage)
				} else {
					set.Float64P(option.name, option.shorthand, v, option.usage)
				}
			default:
				panic(fmt.Sprintf("invalid argument type %T for option %s", v, option.name))
			}
		}
		if err := Cfg.BindPFlag(option.name, option.flagsets[0].Lookup(option.name)); err != nil {
			panic(err)
		}
	}
}

func init() {
	Root.AddCommand(versionCmd, createCmd, checkCmd, previewCmd)
}

// Root is the main command.
var Root = &cobra.Command{
	Use:   "uastools",
	Short: "UAStools creates georeferenced polygons for field trial plots.",
	Long: `UAStools builds ESRI shapefiles of the research plots in an
agricultural field trial from a plot table and the surveyed
coordinates of an AB line, so that measurements from unmanned
aircraft surveys can be extracted plot by plot.`,
	DisableAutoGenTag: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setConfig()
	},
}

// setConfig reads the configuration file if one has been given.
func setConfig() error {
	cfgPath := Cfg.GetString("config")
	if cfgPath == "" {
		return nil
	}
	Cfg.SetConfigFile(cfgPath)
	if err := Cfg.ReadInConfig(); err != nil {
		return fmt.Errorf("uastools: problem reading configuration file: %v", err)
	}
	return nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version number",
	Long:  `version prints the version number of this version of UAStools.`,
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("UAStools v%s\n", uastools.Version)
	},
}

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create the plot polygon shapefiles.",
	Long: `create lays the plots in the plot table out along the AB line and
writes two polygon shapefiles, one holding the full plot areas and
one holding the areas shrunk by the row and range buffers, along
with PDF maps of the layout when the SquarePlot or RotatePlot
options are set.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Create(Cfg)
	},
}

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check the plot table and layout configuration.",
	Long: `check runs the complete plot layout without writing any output
files and reports the number of polygons and the area they cover, so
that a configuration can be validated before a flight.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Check(Cfg)
	},
}

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Serve an interactive preview of the plot layout.",
	Long: `preview starts an HTTP server that draws the assembled plot
polygons as maps and identifies the plot at a queried location.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return Serve(Cfg)
	},
}
