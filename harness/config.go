//
// (C) Copyright 2025 Red Hat, Inc.
//
// SPDX-License-Identifier: LGPL-2.1-or-later
//

package harness

import (
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"
	yaml "gopkg.in/yaml.v2"

	"github.com/storaged-project/udisks/src/tests/harness/common"
	"github.com/storaged-project/udisks/src/tests/harness/dbustest"
	"github.com/storaged-project/udisks/src/tests/harness/journal"
	"github.com/storaged-project/udisks/src/tests/harness/logging"
	"github.com/storaged-project/udisks/src/tests/harness/udisksd"
)

const (
	// relTargetConfig locates the bundled scratch device configuration
	// inside a project checkout.
	relTargetConfig = "src/tests/dbus-tests/targetcli_config.json"

	configOut = ".udisks_test_runner.active.yml"
)

// Duration wraps time.Duration with human friendly YAML
// serialization ("30s" instead of nanoseconds).
type Duration time.Duration

func (d Duration) Duration() time.Duration {
	return time.Duration(d)
}

func (d Duration) String() string {
	return time.Duration(d).String()
}

func (d *Duration) UnmarshalYAML(unmarshal func(interface{}) error) error {
	var strVal string
	if err := unmarshal(&strVal); err != nil {
		return err
	}

	parsed, err := time.ParseDuration(strVal)
	if err != nil {
		return err
	}
	*d = Duration(parsed)

	return nil
}

func (d Duration) MarshalYAML() (interface{}, error) {
	return d.String(), nil
}

// Config describes one harness run. Zero values are filled in from the
// project directory during validation.
type Config struct {
	ProjectDir    string   `yaml:"project_dir"`
	SystemDaemon  bool     `yaml:"system_daemon,omitempty"`
	Tests         []string `yaml:"tests,omitempty"`
	TargetConfig  string   `yaml:"target_config,omitempty"`
	DaemonLogFile string   `yaml:"daemon_log_file,omitempty"`
	ReadyTimeout  Duration `yaml:"ready_timeout,omitempty"`
	JournalDump   string   `yaml:"journal_dump,omitempty"`
	FlightRecord  string   `yaml:"flight_record,omitempty"`

	Path string `yaml:"-"` // path to config file
}

// DefaultConfig creates a new instance of configuration struct
// populated with defaults.
func DefaultConfig() *Config {
	return &Config{
		ReadyTimeout: Duration(udisksd.DefaultReadyTimeout),
		JournalDump:  journal.DefaultDumpFile,
		FlightRecord: dbustest.DefaultRecordFile,
	}
}

// WithProjectDir sets the project checkout the harness operates on.
func (cfg *Config) WithProjectDir(dir string) *Config {
	cfg.ProjectDir = dir
	return cfg
}

// WithSystemDaemon selects the system installed daemon instead of a
// development tree build.
func (cfg *Config) WithSystemDaemon(enabled bool) *Config {
	cfg.SystemDaemon = enabled
	return cfg
}

// WithTests restricts the run to the named suites or cases.
func (cfg *Config) WithTests(tests ...string) *Config {
	cfg.Tests = tests
	return cfg
}

// WithTargetConfig sets the targetcli JSON used to provision scratch
// devices.
func (cfg *Config) WithTargetConfig(path string) *Config {
	cfg.TargetConfig = path
	return cfg
}

// WithDaemonLogFile redirects the daemon's output to a file.
func (cfg *Config) WithDaemonLogFile(path string) *Config {
	cfg.DaemonLogFile = path
	return cfg
}

// WithReadyTimeout bounds the wait for the daemon to claim its bus
// name.
func (cfg *Config) WithReadyTimeout(timeout time.Duration) *Config {
	cfg.ReadyTimeout = Duration(timeout)
	return cfg
}

// WithJournalDump sets the path the cropped system journal is written
// to after the run.
func (cfg *Config) WithJournalDump(path string) *Config {
	cfg.JournalDump = path
	return cfg
}

// WithFlightRecord sets the flight record path shared with the test
// cases.
func (cfg *Config) WithFlightRecord(path string) *Config {
	cfg.FlightRecord = path
	return cfg
}

// Load reads the serialized configuration from disk.
func (cfg *Config) Load() error {
	if cfg.Path == "" {
		return errors.New("no config path set")
	}

	bytes, err := os.ReadFile(cfg.Path)
	if err != nil {
		return errors.WithMessage(err, "reading file")
	}

	if err := yaml.UnmarshalStrict(bytes, cfg); err != nil {
		return errors.WithMessagef(err, "parse of %q failed; config contains invalid "+
			"parameters and may be out of date", cfg.Path)
	}

	return nil
}

// SaveToFile serializes the configuration and saves it to the specified filename.
func (cfg *Config) SaveToFile(filename string) error {
	bytes, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return common.WriteFileAtomic(filename, bytes, 0644)
}

// SaveActiveConfig saves a read-only copy of the effective run
// configuration, next to the config file first and under /tmp as the
// fallback.
func (cfg *Config) SaveActiveConfig(log logging.Logger) {
	activeConfig := filepath.Join(filepath.Dir(cfg.Path), configOut)
	if err := cfg.SaveToFile(activeConfig); err != nil {
		log.Debugf("active config could not be saved: %s", err)

		activeConfig = filepath.Join("/tmp", configOut)
		if err := cfg.SaveToFile(activeConfig); err != nil {
			log.Debugf("active config could not be saved: %s", err)
			return
		}
	}

	log.Debugf("active config saved to %s (read-only)", activeConfig)
}

// SetPath sets the path to the configuration file.
func (cfg *Config) SetPath(inPath string) error {
	newPath, err := common.ResolvePath(inPath, cfg.Path)
	if err != nil {
		return err
	}
	cfg.Path = newPath

	if _, err = os.Stat(cfg.Path); err != nil {
		return err
	}

	return nil
}

// Validate asserts that the config meets minimum requirements and
// fills in derived defaults.
func (cfg *Config) Validate() error {
	if cfg.ProjectDir == "" {
		return errors.New("no project directory configured")
	}

	projDir, err := common.NormalizePath(cfg.ProjectDir)
	if err != nil {
		return errors.Wrapf(err, "unable to resolve project directory %q", cfg.ProjectDir)
	}
	cfg.ProjectDir = projDir

	if len(cfg.Tests) > 0 {
		cfg.Tests = common.DedupeStringSlice(cfg.Tests)
	}
	if cfg.TargetConfig == "" {
		cfg.TargetConfig = filepath.Join(cfg.ProjectDir, relTargetConfig)
	}
	if cfg.ReadyTimeout <= 0 {
		cfg.ReadyTimeout = Duration(udisksd.DefaultReadyTimeout)
	}
	if cfg.JournalDump == "" {
		cfg.JournalDump = journal.DefaultDumpFile
	}
	if cfg.FlightRecord == "" {
		cfg.FlightRecord = dbustest.DefaultRecordFile
	}

	return nil
}
