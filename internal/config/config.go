// Package config loads robomend configuration from .robomend/config.yaml,
// with environment variables taking precedence over file values.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Default document file names inside a robot directory. These are the names
// the Onshape export pipeline produces.
const (
	DefaultMateValuesFile = "matevalues_data.json"
	DefaultFeaturesFile   = "features_data.json"
	DefaultAssemblyFile   = "assembly_data.json"
	DefaultURDFFile       = "robot.urdf"
)

// Config holds all robomend configuration.
type Config struct {
	// RobotsDir is the directory containing one subdirectory per robot.
	RobotsDir string `yaml:"robots_dir"`

	// Documents names the per-robot document files.
	Documents DocumentsConfig `yaml:"documents"`

	// Backup controls the backup-then-write policy.
	Backup BackupConfig `yaml:"backup"`

	// Convert configures the external onshape-to-robot converter hook.
	Convert ConvertConfig `yaml:"convert"`

	// Audit configures the operation audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Logging configures the categorized file logger.
	Logging LoggingConfig `yaml:"logging"`
}

// DocumentsConfig names the document files within a robot directory.
type DocumentsConfig struct {
	MateValues string `yaml:"mate_values"`
	Features   string `yaml:"features"`
	Assembly   string `yaml:"assembly"`
	URDF       string `yaml:"urdf"`
}

// BackupConfig controls backup file naming.
type BackupConfig struct {
	// Suffix is appended to the original file name, e.g. robot.urdf.backup.
	Suffix string `yaml:"suffix"`
}

// ConvertConfig configures the external converter command.
type ConvertConfig struct {
	// Command is the converter executable; it receives the robot directory
	// as its single argument.
	Command string `yaml:"command"`
	// Timeout is a Go duration string, e.g. "2m".
	Timeout string `yaml:"timeout"`
}

// AuditConfig configures the SQLite audit trail.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path"`
}

// LoggingConfig configures the categorized file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"`
	Categories map[string]bool `yaml:"categories"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		RobotsDir: "robots",
		Documents: DocumentsConfig{
			MateValues: DefaultMateValuesFile,
			Features:   DefaultFeaturesFile,
			Assembly:   DefaultAssemblyFile,
			URDF:       DefaultURDFFile,
		},
		Backup: BackupConfig{
			Suffix: ".backup",
		},
		Convert: ConvertConfig{
			Command: "onshape-to-robot",
			Timeout: "2m",
		},
		Audit: AuditConfig{
			Enabled: true,
			Path:    filepath.Join(".robomend", "audit.db"),
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

// Load reads configuration for the given workspace. Missing config file is
// not an error; defaults apply. A .env file in the workspace is loaded first
// so that env overrides can come from it.
func Load(workspace string) (*Config, error) {
	// Best effort; absence of .env is the normal case.
	_ = godotenv.Load(filepath.Join(workspace, ".env"))

	cfg := Default()

	path := filepath.Join(workspace, ".robomend", "config.yaml")
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}
	cfg.fillDefaults()
	cfg.applyEnvOverrides()
	return cfg, nil
}

// fillDefaults restores built-in values for fields the YAML left empty.
func (c *Config) fillDefaults() {
	d := Default()
	if c.RobotsDir == "" {
		c.RobotsDir = d.RobotsDir
	}
	if c.Documents.MateValues == "" {
		c.Documents.MateValues = d.Documents.MateValues
	}
	if c.Documents.Features == "" {
		c.Documents.Features = d.Documents.Features
	}
	if c.Documents.Assembly == "" {
		c.Documents.Assembly = d.Documents.Assembly
	}
	if c.Documents.URDF == "" {
		c.Documents.URDF = d.Documents.URDF
	}
	if c.Backup.Suffix == "" {
		c.Backup.Suffix = d.Backup.Suffix
	}
	if c.Convert.Command == "" {
		c.Convert.Command = d.Convert.Command
	}
	if c.Convert.Timeout == "" {
		c.Convert.Timeout = d.Convert.Timeout
	}
	if c.Audit.Path == "" {
		c.Audit.Path = d.Audit.Path
	}
	if c.Logging.Level == "" {
		c.Logging.Level = d.Logging.Level
	}
}

// applyEnvOverrides lets environment variables win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("ROBOMEND_ROBOTS_DIR"); v != "" {
		c.RobotsDir = v
	}
	if v := os.Getenv("ROBOMEND_BACKUP_SUFFIX"); v != "" {
		c.Backup.Suffix = v
	}
	if v := os.Getenv("ROBOMEND_CONVERT_COMMAND"); v != "" {
		c.Convert.Command = v
	}
	if v := os.Getenv("ROBOMEND_AUDIT_PATH"); v != "" {
		c.Audit.Path = v
	}
	if v := os.Getenv("ROBOMEND_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			c.Logging.DebugMode = b
		}
	}
	if v := os.Getenv("ROBOMEND_LOG_LEVEL"); v != "" {
		c.Logging.Level = v
	}
}

// Save writes the configuration back to .robomend/config.yaml.
func (c *Config) Save(workspace string) error {
	dir := filepath.Join(workspace, ".robomend")
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config dir: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}
