package main

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

// Config drives a flexcast session. Flags override the file.
type Config struct {
	// Device is the serial device file, usually /dev/ttyACM0.
	Device string `toml:"device"`
	// Baud is the nominal baud rate (USB CDC ignores it).
	Baud int `toml:"baud"`

	// Width and Height describe the strip matrix: Height channels of
	// Width pixels each.
	Width  int  `toml:"width"`
	Height int  `toml:"height"`
	// Serpentine flips odd rows for end-to-end wired strips.
	Serpentine bool `toml:"serpentine"`

	// Gamma is the correction exponent applied before streaming.
	Gamma float64 `toml:"gamma"`
	// Rate is the target frame rate.
	Rate int `toml:"rate"`

	// Images lists the PNG files to cycle through.
	Images []string `toml:"images"`
}

func defaultConfig() Config {
	return Config{
		Device: "/dev/ttyACM0",
		Baud:   115200,
		Width:  64,
		Height: 8,
		Gamma:  2.2,
		Rate:   30,
	}
}

func loadConfig(path string) (Config, error) {
	cfg := defaultConfig()
	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	if err := toml.NewDecoder(f).Decode(&cfg); err != nil {
		return cfg, fmt.Errorf("parse config: %w", err)
	}
	return cfg, cfg.validate()
}

func (c Config) validate() error {
	if c.Width <= 0 || c.Height <= 0 || c.Height > 32 {
		return fmt.Errorf("bad geometry %dx%d: height is limited to 32 channels", c.Width, c.Height)
	}
	if c.Rate <= 0 {
		return fmt.Errorf("bad rate %d", c.Rate)
	}
	if c.Gamma <= 0 {
		return fmt.Errorf("bad gamma %v", c.Gamma)
	}
	if len(c.Images) == 0 {
		return fmt.Errorf("no images configured")
	}
	return nil
}
