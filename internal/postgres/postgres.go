package postgres

import (
	"cmp"
	"context"
	"fmt"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
)

const (
	_hostDefault           = "localhost"
	_portDefault           = "5432"
	_usernameDefault       = "postgres"
	_passwordDefault       = "postgres"
	_dbNameDefault         = "portfolio"
	_sslModeDefault        = "disable"
	_maxOpenConnsDefault   = 10
	_connectTimeoutDefault = 5 * time.Second
)

// Config is the database section of the tracker config. The password is never
// read from the file.
type Config struct {
	Host           string        `yaml:"host"`
	Port           string        `yaml:"port"`
	Username       string        `yaml:"username"`
	Password       string        `yaml:"-"`
	DBName         string        `yaml:"db_name"`
	SSLMode        string        `yaml:"ssl_mode"`
	MaxOpenConns   int           `yaml:"max_open_conns"`
	ConnectTimeout time.Duration `yaml:"connect_timeout"`
}

// WithEnv overrides the configured connection settings with the POSTGRES_*
// variables that are set.
func (c Config) WithEnv() Config {
	c.Host = cmp.Or(os.Getenv("POSTGRES_HOST"), c.Host)
	c.Port = cmp.Or(os.Getenv("POSTGRES_PORT"), c.Port)
	c.Username = cmp.Or(os.Getenv("POSTGRES_USERNAME"), c.Username)
	c.Password = cmp.Or(os.Getenv("POSTGRES_PASSWORD"), c.Password)
	c.DBName = cmp.Or(os.Getenv("POSTGRES_DB_NAME"), c.DBName)
	c.SSLMode = cmp.Or(os.Getenv("POSTGRES_SSL_MODE"), c.SSLMode)
	return c
}

func (c *Config) ValidateAndSetup() error {
	c.Host = cmp.Or(c.Host, _hostDefault)
	c.Port = cmp.Or(c.Port, _portDefault)
	if _, err := strconv.Atoi(c.Port); err != nil {
		return fmt.Errorf("%w: invalid postgres port %q", err, c.Port)
	}
	c.Username = cmp.Or(c.Username, _usernameDefault)
	c.Password = cmp.Or(c.Password, _passwordDefault)
	c.DBName = cmp.Or(c.DBName, _dbNameDefault)

	switch c.SSLMode = cmp.Or(c.SSLMode, _sslModeDefault); c.SSLMode {
	case "disable", "require", "verify-ca", "verify-full":
	default:
		return fmt.Errorf("unknown postgres ssl mode %q", c.SSLMode)
	}

	if c.MaxOpenConns <= 0 {
		c.MaxOpenConns = _maxOpenConnsDefault
	}
	if c.ConnectTimeout <= 0 {
		c.ConnectTimeout = _connectTimeoutDefault
	}

	return nil
}

// String is the key/value connection string used by lib/pq, also accepted by
// pq.NewListener.
func (c Config) String() string {
	return fmt.Sprintf(
		"host=%s port=%s user=%s dbname=%s password=%s sslmode=%s connect_timeout=%d",
		c.Host, c.Port, c.Username, c.DBName, c.Password, c.SSLMode, int(c.ConnectTimeout.Seconds()),
	)
}

// Redacted is String without the password, safe to log.
func (c Config) Redacted() string {
	u := url.URL{
		Scheme:   "postgres",
		User:     url.User(c.Username),
		Host:     c.Host + ":" + c.Port,
		Path:     c.DBName,
		RawQuery: "sslmode=" + c.SSLMode,
	}
	return u.String()
}

func NewDB(ctx context.Context, cfg Config) (*sqlx.DB, error) {
	ctx, cancel := context.WithTimeout(ctx, cfg.ConnectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", cfg.String())
	if err != nil {
		return nil, fmt.Errorf("%w: can't connect to %s", err, cfg.Redacted())
	}
	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxOpenConns)

	return db, nil
}
