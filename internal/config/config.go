package config

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/stlalpha/gbbsrecover/internal/msgstore"
)

// DefaultFile is the config file looked for when none is given.
const DefaultFile = "gbbsrecover.json"

// Config holds settings shared by the gbbsrecover commands. Command-line
// flags override any value set here.
type Config struct {
	OutputDir    string      `json:"outputDir"`
	UsersFile    string      `json:"usersFile"`
	Force        bool        `json:"force"`
	DateLocation string      `json:"dateLocation"` // IANA zone for header dates; empty means local time
	DatePatterns []string    `json:"datePatterns"` // Extra date regexes: date, time, AM/PM groups
	Watch        WatchConfig `json:"watch"`
	JAM          JAMConfig   `json:"jam"`
}

// WatchConfig configures the watch command.
type WatchConfig struct {
	Dirs           []string `json:"dirs"`
	Pattern        string   `json:"pattern"`        // Base-name glob for store files
	DebounceMillis int      `json:"debounceMillis"` // Quiet period before a changed file is scanned
	Schedule       string   `json:"schedule"`       // Cron spec with seconds for periodic resweeps
}

// JAMConfig configures JAM imports.
type JAMConfig struct {
	AreaName string `json:"areaName"`
}

// Default returns the built-in settings.
func Default() Config {
	return Config{
		OutputDir: "recovered",
		Watch: WatchConfig{
			DebounceMillis: 500,
		},
	}
}

// Load reads the config file at path on top of the defaults. A missing
// file is not an error; a malformed one returns the defaults with the
// parse error.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			log.Printf("WARN: %s not found. Using default settings.", path)
			return cfg, nil
		}
		return cfg, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Printf("ERROR: Failed to parse config JSON from %s: %v. Using default settings.", path, err)
		return Default(), fmt.Errorf("failed to parse config JSON from %s: %w", path, err)
	}

	log.Printf("INFO: Loaded configuration from %s", path)
	return cfg, nil
}

// DateParser builds the header date parser for the configured zone and
// extra patterns.
func (c Config) DateParser() (*msgstore.DateParser, error) {
	loc := time.Local
	if c.DateLocation != "" {
		var err error
		loc, err = time.LoadLocation(c.DateLocation)
		if err != nil {
			return nil, fmt.Errorf("invalid dateLocation %q: %w", c.DateLocation, err)
		}
	}
	return msgstore.NewDateParser(loc, c.DatePatterns...)
}

// Debounce returns the watch debounce period.
func (c Config) Debounce() time.Duration {
	return time.Duration(c.Watch.DebounceMillis) * time.Millisecond
}
