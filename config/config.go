package config

import (
	"os"

	"github.com/BurntSushi/toml"
)

type Config struct {
	LogFile  string `toml:"LogFile"`
	DBPATH   string `toml:"DBPATH"`
	UserRole string `toml:"UserRole"`
	// where import scans for pngs/charx and export writes results
	CardsDir  string `toml:"CardsDir"`
	AssetsDir string `toml:"AssetsDir"`
	ExportDir string `toml:"ExportDir"`
	// asset uri safety opt-ins; off by default since imported cards
	// carry untrusted uris
	AllowHTTPAssets bool `toml:"AllowHTTPAssets"`
	AllowFileAssets bool `toml:"AllowFileAssets"`
	// tokenizer.json for exact counts; empty means heuristic estimates
	TokenizerPath string `toml:"TokenizerPath"`
	// reference document indexing
	EmbedURL     string `toml:"EmbedURL"`
	HFToken      string `toml:"HFToken"`
	IndexWorkers int    `toml:"IndexWorkers"`
	IndexBatch   int    `toml:"IndexBatch"`
	WordLimit    int    `toml:"WordLimit"`
}

func LoadConfig(fn string) (*Config, error) {
	if fn == "" {
		fn = "config.toml"
	}
	config := &Config{}
	// a missing config file just means defaults
	if _, err := toml.DecodeFile(fn, &config); err != nil && !os.IsNotExist(err) {
		return nil, err
	}
	if config.LogFile == "" {
		config.LogFile = "cardsmith.log"
	}
	if config.DBPATH == "" {
		config.DBPATH = "cardsmith.db"
	}
	if config.UserRole == "" {
		config.UserRole = "user"
	}
	if config.CardsDir == "" {
		config.CardsDir = "cards"
	}
	if config.AssetsDir == "" {
		config.AssetsDir = "assets"
	}
	if config.ExportDir == "" {
		config.ExportDir = "exports"
	}
	if config.IndexWorkers == 0 {
		config.IndexWorkers = 5
	}
	if config.IndexBatch == 0 {
		config.IndexBatch = 100
	}
	if config.WordLimit == 0 {
		config.WordLimit = 80
	}
	return config, nil
}
