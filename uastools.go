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

// Package uastools creates georeferenced polygons for the research
// plots in an agricultural field trial. Starting from a plot table
// and the surveyed coordinates of an AB line, it lays the plots out
// on a grid of ranges and rows, rotates the grid to the heading of
// the AB line, and produces two sets of polygons: the full plot
// areas and the plot areas shrunk by a buffer on each side. The
// polygons can be written to ESRI shapefiles and drawn to maps so
// that measurements from unmanned aircraft surveys can be extracted
// plot by plot.
package uastools

// Version gives the version number of this version of UAStools.
const Version = "1.1.0"
