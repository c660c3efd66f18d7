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

// Command uastoolsweb serves an interactive preview of a field trial
// plot layout over HTTP.
package main

import (
	"flag"
	"net/http"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/agphenomics/uastools"
	"github.com/sirupsen/logrus"
)

func main() {
	logger := logrus.StandardLogger()
	logrus.SetFormatter(&logrus.TextFormatter{
		ForceColors:     true,
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339Nano,
		DisableSorting:  true,
	})

	config := flag.String("config", "cmd/uastoolsweb/config.toml", "Path to the configuration file")
	flag.Parse()

	f, err := os.Open(*config)
	if err != nil {
		logger.WithError(err).Fatalf("opening configuration file %s", *config)
	}
	var c uastools.ServerConfig
	if _, err := toml.DecodeReader(f, &c); err != nil {
		logger.WithError(err).Fatalf("decoding configuration file %s", *config)
	}
	f.Close()
	if c.Addr == "" {
		c.Addr = ":8080"
	}

	s, err := uastools.NewPreviewServerFromConfig(&c)
	if err != nil {
		logger.WithError(err).Fatal("creating the preview server")
	}

	logger.Infof("uastoolsweb serving at %s", c.Addr)
	srv := &http.Server{
		Addr:              c.Addr,
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       120 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}
	logger.Fatal(srv.ListenAndServe())
}
