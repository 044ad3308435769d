// Package config reads the tally configuration file.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/Rhymond/go-money"
	"github.com/etnz/tally"
	"github.com/etnz/tally/pricedb"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the settings shared by the CLI and the web server.
type Config struct {
	Addr     string        // web server listen address
	File     string        // working CSV file
	Currency string        // currency of every amount
	Prices   string        // price database DSN
	Seed     bool          // seed the price database on start
	LogLevel zapcore.Level // web server log level
}

// ConfigTmp is the YAML form of Config.
type ConfigTmp struct {
	Addr     string `yaml:"addr"`
	File     string `yaml:"file"`
	Currency string `yaml:"currency"`
	Prices   string `yaml:"prices"`
	Seed     *bool  `yaml:"seed,omitempty"`
	LogLevel string `yaml:"log_level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Addr:     ":8080",
		File:     "portfolio.csv",
		Currency: tally.DefaultCurrency,
		Prices:   pricedb.DefaultDSN,
		Seed:     true,
		LogLevel: zapcore.InfoLevel,
	}
}

// Get returns the configuration read from 'path', or the default one when
// path is empty.
func Get(path string) (Config, error) {
	if path == "" {
		return Default(), nil
	}
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("cannot read config: %w", err)
	}
	return parse(f)
}

func parse(data []byte) (Config, error) {
	var tmp ConfigTmp
	if err := yaml.Unmarshal(data, &tmp); err != nil {
		return Config{}, fmt.Errorf("incorrect yaml config: %w", err)
	}

	c := Default()
	if tmp.Addr != "" {
		c.Addr = tmp.Addr
	}
	if tmp.File != "" {
		c.File = tmp.File
	}
	if tmp.Currency != "" {
		code := strings.ToUpper(tmp.Currency)
		if money.GetCurrency(code) == nil {
			return Config{}, fmt.Errorf("incorrect 'currency' param in yaml config: unknown currency %q", tmp.Currency)
		}
		c.Currency = code
	}
	if tmp.Prices != "" {
		c.Prices = tmp.Prices
	}
	if tmp.Seed != nil {
		c.Seed = *tmp.Seed
	}
	if tmp.LogLevel != "" {
		level, err := zapcore.ParseLevel(tmp.LogLevel)
		if err != nil {
			return Config{}, fmt.Errorf("incorrect 'log_level' param in yaml config: %w", err)
		}
		c.LogLevel = level
	}
	return c, nil
}
