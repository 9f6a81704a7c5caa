package config

import (
	"cmp"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/STTM-NSU/portfolio-tracker/internal/logger"
	"github.com/STTM-NSU/portfolio-tracker/internal/portfolio"
	"github.com/STTM-NSU/portfolio-tracker/internal/postgres"
	"gopkg.in/yaml.v3"
)

type HTTPConfig struct {
	Port string `yaml:"port"`
}

type TrackerConfig struct {
	BaseCurrency           string        `yaml:"base_currency"`
	OversellPolicy         string        `yaml:"oversell_policy"`
	SnapshotPath           string        `yaml:"snapshot_path"`
	SnapshotReloadInterval time.Duration `yaml:"snapshot_reload_interval"`
	RefreshInterval        time.Duration `yaml:"refresh_interval"`
	RecomputePerSecond     int           `yaml:"recompute_per_second"`
	HTTP                   HTTPConfig      `yaml:"http"`
	Database               postgres.Config `yaml:"database"`
	LogLevel               string          `yaml:"log_level"`
}

const (
	_baseCurrencyDefault           = "ARS"
	_snapshotPathDefault           = "./configs/snapshot.yaml"
	_snapshotReloadIntervalDefault = time.Minute
	_refreshIntervalDefault        = 5 * time.Minute
	_recomputePerSecondDefault     = 10
	_httpPortDefault               = "8080"
)

func (c *TrackerConfig) ValidateAndSetup() error {
	c.BaseCurrency = strings.ToUpper(cmp.Or(strings.TrimSpace(c.BaseCurrency), _baseCurrencyDefault))

	if _, err := portfolio.ParseOversellPolicy(c.OversellPolicy); err != nil {
		return err
	}
	if _, err := logger.ParseLogLevel(c.LogLevel); err != nil {
		return err
	}

	c.SnapshotPath = cmp.Or(c.SnapshotPath, _snapshotPathDefault)
	if c.SnapshotReloadInterval <= 0 {
		c.SnapshotReloadInterval = _snapshotReloadIntervalDefault
	}
	if c.RefreshInterval <= 0 {
		c.RefreshInterval = _refreshIntervalDefault
	}
	if c.RecomputePerSecond <= 0 {
		c.RecomputePerSecond = _recomputePerSecondDefault
	}

	c.HTTP.Port = cmp.Or(c.HTTP.Port, _httpPortDefault)
	if _, err := strconv.Atoi(c.HTTP.Port); err != nil {
		return fmt.Errorf("%w: invalid http port %q", err, c.HTTP.Port)
	}

	if err := c.Database.ValidateAndSetup(); err != nil {
		return err
	}

	return nil
}

// Evaluation is the part of the config the core engine needs.
func (c TrackerConfig) Evaluation() portfolio.Config {
	policy, _ := portfolio.ParseOversellPolicy(c.OversellPolicy)
	return portfolio.Config{
		BaseCurrency:   c.BaseCurrency,
		OversellPolicy: policy,
	}
}

func (c TrackerConfig) Level() logger.LogLevel {
	level, _ := logger.ParseLogLevel(c.LogLevel)
	return level
}

func LoadTrackerConfig(filename string) (TrackerConfig, error) {
	var cfg TrackerConfig
	input, err := os.ReadFile(filename)
	if err != nil {
		return cfg, fmt.Errorf("%w: can't read file", err)
	}

	if err := yaml.Unmarshal(input, &cfg); err != nil {
		return cfg, fmt.Errorf("%w: can't unmarshal config", err)
	}
	cfg.Database = cfg.Database.WithEnv()

	if err := cfg.ValidateAndSetup(); err != nil {
		return cfg, fmt.Errorf("%w: can't setup cfg", err)
	}

	return cfg, nil
}
