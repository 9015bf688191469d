// Package config reads the application configuration from a YAML file, an
// optional .env file and SBGEN_ environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
	"gopkg.in/natefinch/lumberjack.v2"
	"gopkg.in/yaml.v2"

	"github.com/Okorin/osu-sbgen/stream"
)

// Song locates the beatmap the storyboard is generated for.
type Song struct {
	Folder           string `yaml:"folder" env:"FOLDER"`
	Difficulty       string `yaml:"difficulty" env:"DIFFICULTY"`
	StoryboardFolder string `yaml:"storyboardFolder" env:"STORYBOARD_FOLDER"`
	Output           string `yaml:"output" env:"OUTPUT"`
}

// Serve configures the HTTP preview server.
type Serve struct {
	Addr      string `yaml:"addr" env:"ADDR"`
	ClientDir string `yaml:"clientDir" env:"CLIENT_DIR"`
}

// Log configures logrus. Without a file, logs only go to stderr.
type Log struct {
	Level      string `yaml:"level" env:"LEVEL"`
	File       string `yaml:"file" env:"FILE"`
	MaxSizeMB  int    `yaml:"maxSizeMB" env:"MAX_SIZE_MB"`
	MaxBackups int    `yaml:"maxBackups" env:"MAX_BACKUPS"`
	MaxAgeDays int    `yaml:"maxAgeDays" env:"MAX_AGE_DAYS"`
}

// Config is the whole application configuration.
type Config struct {
	Song  Song          `yaml:"song" envPrefix:"SONG_"`
	Scene string        `yaml:"scene" env:"SCENE"`
	Mqtt  stream.Config `yaml:"mqtt" envPrefix:"MQTT_"`
	Serve Serve         `yaml:"serve" envPrefix:"SERVE_"`
	Log   Log           `yaml:"log" envPrefix:"LOG_"`
}

// Default returns the configuration used for anything left unset.
func Default() Config {
	var c Config
	c.Mqtt.Topics.Storyboard = "osu/storyboard"
	c.Mqtt.Topics.Preview = "osu/storyboard/preview"
	c.Mqtt.Topics.Control = "osu/storyboard/control"
	c.Serve.Addr = ":3000"
	c.Log.Level = "info"
	c.Log.MaxSizeMB = 10
	c.Log.MaxBackups = 3
	c.Log.MaxAgeDays = 28
	return c
}

// Load reads the YAML file at path over the defaults, then applies envFile
// and the environment. Missing files are skipped; an empty path skips the
// YAML file.
func Load(path, envFile string) (Config, error) {
	c := Default()
	if path != "" {
		if err := readYAML(path, &c); err != nil {
			return c, err
		}
	}
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return c, fmt.Errorf("load %s: %w", envFile, err)
		}
	}
	if err := ParseEnv(&c); err != nil {
		return c, err
	}
	return c, nil
}

func readYAML(path string, c *Config) error {
	f, err := os.Open(path)
	if errors.Is(err, fs.ErrNotExist) {
		log.WithField("path", path).Debug("No config file, using defaults")
		return nil
	}
	if err != nil {
		return fmt.Errorf("open config: %w", err)
	}
	defer f.Close()

	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(c); err != nil && err != io.EOF {
		return fmt.Errorf("decode config: %w", err)
	}
	return nil
}

// Setup applies the level and output to the standard logrus logger. The
// returned closer releases the log file.
func (l Log) Setup() (io.Closer, error) {
	level, err := log.ParseLevel(l.Level)
	if err != nil {
		return nil, fmt.Errorf("parse log level: %w", err)
	}
	log.SetLevel(level)
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	if l.File == "" {
		log.SetOutput(os.Stderr)
		return io.NopCloser(nil), nil
	}

	file := &lumberjack.Logger{
		Filename:   l.File,
		MaxSize:    l.MaxSizeMB,
		MaxBackups: l.MaxBackups,
		MaxAge:     l.MaxAgeDays,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, file))
	return file, nil
}
