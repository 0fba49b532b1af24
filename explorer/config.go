// Copyright 2026 GRAIL, Inc. All rights reserved.
// Use of this source code is governed by the Apache-2.0
// license that can be found in the LICENSE file.

package explorer

import (
	"github.com/caarlos0/env/v11"
	"github.com/grailbio/base/errors"
)

// Config names everything the explorer touches: the service account
// key, the shared drive, the master listing and the local files. Any
// path may use a scheme registered with github.com/grailbio/base/file.
type Config struct {
	Credentials string `env:"TRACKEXPLORER_CREDENTIALS" envDefault:"google-credentials.json"`
	Drive       string `env:"TRACKEXPLORER_DRIVE"       envDefault:"MESA models"`
	AppFolder   string `env:"TRACKEXPLORER_APP_FOLDER"  envDefault:"trackExplorer"`
	Listing     string `env:"TRACKEXPLORER_LISTING"     envDefault:"Model_grid_info"`
	Index       string `env:"TRACKEXPLORER_INDEX"       envDefault:"grid_list.tsv"`
	CacheDir    string `env:"TRACKEXPLORER_CACHE_DIR"   envDefault:"temp"`
}

// LoadConfig reads the configuration from TRACKEXPLORER_* environment
// variables. Unset variables take the defaults above.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, errors.E(errors.Invalid, "explorer: parsing environment", err)
	}
	return cfg, nil
}
