package logging

import (
	stderrs "errors"
	"os"
	"path/filepath"
	"strings"

	smerrors "github.com/Station-Manager/errors"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/rawbytes"
	"github.com/knadh/koanf/v2"
)

// Config is the logging section of the application configuration. Empty
// fields fall back to defaults; File may also be FileDisabled.
type Config struct {
	Level    string      `koanf:"level" validate:"omitempty,loglevel"`
	Console  string      `koanf:"console" validate:"omitempty,loglevel"`
	File     string      `koanf:"file" validate:"omitempty,loglevel|eq=false"`
	Rotation FileOptions `koanf:"rotation"`
}

// FileOptions tunes the rotating file sink.
type FileOptions struct {
	Prefix     string `koanf:"prefix" validate:"omitempty,excludesall=/\\"`
	MaxSizeMB  int    `koanf:"max_size_mb" validate:"gte=0"`
	MaxBackups int    `koanf:"max_backups" validate:"gte=0"`
	MaxAgeDays int    `koanf:"max_age_days" validate:"gte=0"`
	Compress   bool   `koanf:"compress"`
	Format     string `koanf:"format" validate:"omitempty,oneof=text json"`
}

// Environment carries the process settings that influence logging.
type Environment struct {
	// ConfigDir is the base directory holding the logs directory (CONFIG_DIR).
	ConfigDir string
	// LogLevel overrides the default level when the config sets none (LOG_LEVEL).
	LogLevel string
	// WorkingDir is redacted from stacks and anchors the default config dir.
	WorkingDir string
}

// LogDir is where the file sink writes.
func (e Environment) LogDir() string {
	if e.ConfigDir != emptyString {
		return filepath.Join(e.ConfigDir, logsDirName)
	}
	return filepath.Join(e.WorkingDir, defaultConfigDirName, logsDirName)
}

// Settings is a Config resolved against an Environment.
type Settings struct {
	// Level is the handle threshold: the most verbose enabled sink level.
	Level       Level
	Console     Level
	File        Level
	FileEnabled bool
	Dir         string
	Rotation    FileOptions
}

// LoadEnvironment reads CONFIG_DIR and LOG_LEVEL.
func LoadEnvironment() (Environment, error) {
	const op smerrors.Op = "logging.LoadEnvironment"
	e := Environment{WorkingDir: workingDir()}

	k := koanf.New(".")
	if err := k.Load(env.Provider(emptyString, ".", func(s string) string {
		switch s {
		case envConfigDir, envLogLevel:
			return strings.ToLower(s)
		default:
			return emptyString
		}
	}), nil); err != nil {
		return e, smerrors.New(op).Err(err).Msg(errMsgEnvRead)
	}

	e.ConfigDir = k.String(strings.ToLower(envConfigDir))
	e.LogLevel = k.String(strings.ToLower(envLogLevel))
	return e, nil
}

// LoadConfig reads a YAML file holding either the logging keys at the top
// level or under a "logging" section. "file: false" disables the file sink.
func LoadConfig(path string) (Config, error) {
	const op smerrors.Op = "logging.LoadConfig"
	var cfg Config

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, smerrors.New(op).Err(err).Msg(errMsgConfigRead)
	}

	k := koanf.New(".")
	if err = k.Load(rawbytes.Provider(data), yaml.Parser()); err != nil {
		return cfg, smerrors.New(op).Err(err).Msg(errMsgConfigParse)
	}

	root := emptyString
	if k.Exists("logging") {
		root = "logging"
	}
	fileKey := "file"
	if root != emptyString {
		fileKey = root + ".file"
	}
	if enabled, ok := k.Get(fileKey).(bool); ok {
		if enabled {
			k.Delete(fileKey)
		} else if err = k.Set(fileKey, FileDisabled); err != nil {
			return cfg, smerrors.New(op).Err(err).Msg(errMsgConfigParse)
		}
	}

	if err = k.Unmarshal(root, &cfg); err != nil {
		return cfg, smerrors.New(op).Err(err).Msg(errMsgConfigParse)
	}
	return cfg, nil
}

// Resolve applies defaults and the environment to c. An invalid config is
// replaced by the defaults; the returned error explains why, and the
// settings are usable either way.
//
// Level seeds the sink levels that are not set. The handle threshold is the
// most verbose enabled sink level, so each sink's own level decides.
func (c Config) Resolve(e Environment) (Settings, error) {
	const op smerrors.Op = "logging.Config.Resolve"
	var problems []error

	if err := validateConfig(&c); err != nil {
		problems = append(problems, err)
		c = Config{}
	}

	def := LevelInfo
	if e.LogLevel != emptyString {
		l, err := ParseLevel(e.LogLevel)
		if err != nil {
			problems = append(problems, smerrors.New(op).Msg(errMsgEnvLevelInvalid))
		} else {
			def = l
		}
	}

	explicit := c.Level != emptyString
	level := def
	if explicit {
		level = mustParseLevel(c.Level, def)
	}

	s := Settings{
		Level:       level,
		Console:     LevelDebug,
		File:        level,
		FileEnabled: c.File != FileDisabled,
		Dir:         e.LogDir(),
		Rotation:    c.Rotation.withDefaults(),
	}
	if explicit {
		s.Console = level
	}
	if c.Console != emptyString {
		s.Console = mustParseLevel(c.Console, s.Console)
	}
	if s.FileEnabled && c.File != emptyString {
		s.File = mustParseLevel(c.File, s.File)
	}
	s.Level = s.Console
	if s.FileEnabled && s.File > s.Level {
		s.Level = s.File
	}

	return s, stderrs.Join(problems...)
}

func (o FileOptions) withDefaults() FileOptions {
	if o.Prefix == emptyString {
		o.Prefix = defaultFilePrefix
	}
	if o.MaxSizeMB == 0 {
		o.MaxSizeMB = defaultMaxSizeMB
	}
	if o.Format == emptyString {
		o.Format = formatText
	}
	return o
}

func mustParseLevel(name string, fallback Level) Level {
	l, err := ParseLevel(name)
	if err != nil {
		return fallback
	}
	return l
}
