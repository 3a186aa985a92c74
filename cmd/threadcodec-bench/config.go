package main

import (
	"bytes"
	"fmt"
	"os"
	"time"

	"github.com/xaionaro-go/threadcodec/codec/passthrough"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Inputs      uint               `yaml:"inputs"`
	PayloadSize int                `yaml:"payload_size"`
	ExtraData   string             `yaml:"extra_data"`
	BusyBackoff time.Duration      `yaml:"busy_backoff"`
	Consumers   uint               `yaml:"consumers"`
	Passthrough passthrough.Config `yaml:"passthrough"`
}

func DefaultConfig() Config {
	return Config{
		Inputs:      10000,
		PayloadSize: 1024,
		ExtraData:   "parameter sets",
		BusyBackoff: time.Millisecond,
		Consumers:   1,
	}
}

// LoadConfig overlays the YAML file at path onto cfg.
func LoadConfig(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("unable to read the config file: %w", err)
	}
	decoder := yaml.NewDecoder(bytes.NewReader(data))
	decoder.KnownFields(true)
	if err := decoder.Decode(cfg); err != nil {
		return fmt.Errorf("unable to decode the config: %w", err)
	}
	return nil
}
