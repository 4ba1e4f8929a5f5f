// Package config loads LearnLink settings from defaults, an optional YAML
// file, an optional .env file and LEARNLINK_* environment variables, in
// increasing order of precedence.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds every runtime setting.
type Config struct {
	Mongo     MongoConfig     `yaml:"mongo"`
	Cassandra CassandraConfig `yaml:"cassandra"`
	Dgraph    DgraphConfig    `yaml:"dgraph"`
	Journal   JournalConfig   `yaml:"journal"`
	Log       LogConfig       `yaml:"log"`
	Grades    GradesConfig    `yaml:"grades"`
}

type MongoConfig struct {
	URI      string        `yaml:"uri"`
	Database string        `yaml:"database"`
	Timeout  time.Duration `yaml:"timeout"`
}

type CassandraConfig struct {
	Hosts             []string      `yaml:"hosts"`
	Port              int           `yaml:"port"`
	Keyspace          string        `yaml:"keyspace"`
	Consistency       string        `yaml:"consistency"`
	Timeout           time.Duration `yaml:"timeout"`
	ReplicationFactor int           `yaml:"replication_factor"`
}

type DgraphConfig struct {
	Address string        `yaml:"address"`
	Timeout time.Duration `yaml:"timeout"`
}

type JournalConfig struct {
	// Path of the local SQLite outcome journal. Empty uses the XDG data dir.
	Path string `yaml:"path"`
}

type LogConfig struct {
	Mode string `yaml:"mode"`
	// File receives log output; "-" means stderr. Empty uses the XDG state dir.
	File string `yaml:"file"`
}

type GradesConfig struct {
	// FailingBelow is the grade under which a completed course counts as failed.
	FailingBelow float64 `yaml:"failing_below"`
}

// DefaultConfig returns settings for a local single-node deployment.
func DefaultConfig() Config {
	return Config{
		Mongo: MongoConfig{
			URI:      "mongodb://localhost:27017",
			Database: "learnlink",
			Timeout:  5 * time.Second,
		},
		Cassandra: CassandraConfig{
			Hosts:             []string{"127.0.0.1"},
			Port:              9042,
			Keyspace:          "learnlink",
			Consistency:       "ONE",
			Timeout:           5 * time.Second,
			ReplicationFactor: 1,
		},
		Dgraph: DgraphConfig{
			Address: "localhost:9080",
			Timeout: 5 * time.Second,
		},
		Log: LogConfig{
			Mode: "prod",
		},
		Grades: GradesConfig{
			FailingBelow: 6,
		},
	}
}

// DefaultPath returns $XDG_CONFIG_HOME/learnlink/config.yaml, falling back
// to ~/.config.
func DefaultPath() (string, error) {
	dir := os.Getenv("XDG_CONFIG_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".config")
	}
	return filepath.Join(dir, "learnlink", "config.yaml"), nil
}

// Load builds the configuration. An explicit path must exist; with an empty
// path the default location is read when present.
func Load(path string) (Config, error) {
	cfg := DefaultConfig()

	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return cfg, err
		}
		path = p
	}
	if err := readFile(path, &cfg); err != nil {
		if explicit || !errors.Is(err, fs.ErrNotExist) {
			return cfg, err
		}
	}

	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return cfg, fmt.Errorf("load .env: %w", err)
	}
	if err := applyEnv(&cfg); err != nil {
		return cfg, err
	}

	return cfg, cfg.Validate()
}

func readFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	setString("LEARNLINK_MONGO_URI", &cfg.Mongo.URI)
	setString("LEARNLINK_MONGO_DATABASE", &cfg.Mongo.Database)
	if v, ok := lookup("LEARNLINK_CASSANDRA_HOSTS"); ok {
		cfg.Cassandra.Hosts = splitList(v)
	}
	setString("LEARNLINK_CASSANDRA_KEYSPACE", &cfg.Cassandra.Keyspace)
	setString("LEARNLINK_CASSANDRA_CONSISTENCY", &cfg.Cassandra.Consistency)
	setString("LEARNLINK_DGRAPH_ADDR", &cfg.Dgraph.Address)
	setString("LEARNLINK_JOURNAL", &cfg.Journal.Path)
	setString("LEARNLINK_LOG_MODE", &cfg.Log.Mode)
	setString("LEARNLINK_LOG_FILE", &cfg.Log.File)

	if v, ok := lookup("LEARNLINK_CASSANDRA_PORT"); ok {
		port, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("LEARNLINK_CASSANDRA_PORT: %w", err)
		}
		cfg.Cassandra.Port = port
	}
	if v, ok := lookup("LEARNLINK_FAILING_GRADE"); ok {
		grade, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return fmt.Errorf("LEARNLINK_FAILING_GRADE: %w", err)
		}
		cfg.Grades.FailingBelow = grade
	}
	if v, ok := lookup("LEARNLINK_STORE_TIMEOUT"); ok {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("LEARNLINK_STORE_TIMEOUT: %w", err)
		}
		cfg.Mongo.Timeout = d
		cfg.Cassandra.Timeout = d
		cfg.Dgraph.Timeout = d
	}
	return nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv(key)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

func setString(key string, dst *string) {
	if v, ok := lookup(key); ok {
		*dst = v
	}
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// Validate reports missing endpoints and out-of-range settings.
func (c Config) Validate() error {
	var errs []error
	if c.Mongo.URI == "" {
		errs = append(errs, errors.New("mongo.uri is required"))
	}
	if c.Mongo.Database == "" {
		errs = append(errs, errors.New("mongo.database is required"))
	}
	if len(c.Cassandra.Hosts) == 0 {
		errs = append(errs, errors.New("cassandra.hosts is required"))
	}
	if c.Cassandra.Keyspace == "" {
		errs = append(errs, errors.New("cassandra.keyspace is required"))
	}
	if c.Cassandra.Port <= 0 || c.Cassandra.Port > 65535 {
		errs = append(errs, fmt.Errorf("cassandra.port %d out of range", c.Cassandra.Port))
	}
	if c.Dgraph.Address == "" {
		errs = append(errs, errors.New("dgraph.address is required"))
	}
	if c.Grades.FailingBelow < 1 || c.Grades.FailingBelow > 10 {
		errs = append(errs, fmt.Errorf("grades.failing_below %v must be within 1..10", c.Grades.FailingBelow))
	}
	return errors.Join(errs...)
}

// LogFile resolves the log destination, defaulting to
// $XDG_STATE_HOME/learnlink/learnlink.log.
func (c Config) LogFile() (string, error) {
	if c.Log.File != "" {
		return c.Log.File, nil
	}
	dir := os.Getenv("XDG_STATE_HOME")
	if dir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		dir = filepath.Join(home, ".local", "state")
	}
	return filepath.Join(dir, "learnlink", "learnlink.log"), nil
}
