package configs

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cast"
)

type TimerConfig struct {
	LogLevel          string
	TickDuration      time.Duration
	HeartbeatInterval time.Duration
}

func DefaultConfig() TimerConfig {
	return TimerConfig{
		LogLevel:          "info",
		TickDuration:      100 * time.Millisecond,
		HeartbeatInterval: 1 * time.Second,
	}
}

// fileConfig mirrors TimerConfig with loosely typed durations, so a file may
// say either "250ms" or 250000000.
type fileConfig struct {
	LogLevel          string      `json:"logLevel"`
	TickDuration      interface{} `json:"tickDuration"`
	HeartbeatInterval interface{} `json:"heartbeatInterval"`
}

// ReadConfigFromFile loads a JSON config. Missing fields keep their defaults.
func ReadConfigFromFile(filePath string) (TimerConfig, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		return TimerConfig{}, err
	}
	return ParseConfig(data)
}

func ParseConfig(data []byte) (TimerConfig, error) {
	raw := fileConfig{}
	if err := json.Unmarshal(data, &raw); err != nil {
		return TimerConfig{}, err
	}

	config := DefaultConfig()
	if raw.LogLevel != "" {
		config.LogLevel = raw.LogLevel
	}
	if err := setDuration(&config.TickDuration, "tickDuration", raw.TickDuration); err != nil {
		return TimerConfig{}, err
	}
	if err := setDuration(&config.HeartbeatInterval, "heartbeatInterval", raw.HeartbeatInterval); err != nil {
		return TimerConfig{}, err
	}
	return config, nil
}

func setDuration(dst *time.Duration, field string, value interface{}) error {
	if value == nil {
		return nil
	}
	// json numbers decode as float64, which cast reads as nanoseconds
	d, err := cast.ToDurationE(value)
	if err != nil {
		return fmt.Errorf("%s: %w", field, err)
	}
	if d <= 0 {
		return fmt.Errorf("%s: must be positive, got %s", field, d)
	}
	*dst = d
	return nil
}
