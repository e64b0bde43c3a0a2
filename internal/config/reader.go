package config

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
)

const PathEnv = "CONFIG_PATH"

type Reader interface {
	Read() (*Config, error)
}

type EnvReader struct{}

func NewEnvReader() EnvReader {
	return EnvReader{}
}

func (EnvReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadEnv(cfg)
	if err != nil {
		return nil, err
	}

	return cfg, nil
}

// FileReader reads a yaml, json, toml or .env file. Environment
// variables still take precedence over the file contents.
type FileReader struct {
	path string
}

func NewFileReader(path string) FileReader {
	return FileReader{path: path}
}

func (r FileReader) Read() (*Config, error) {
	cfg := new(Config)
	err := cleanenv.ReadConfig(r.path, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", r.path, err)
	}

	return cfg, nil
}
