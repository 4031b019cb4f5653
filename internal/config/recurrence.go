package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/viper"
)

// CadenceConfig is one row of the recurrence table.
type CadenceConfig struct {
	Name                  string `mapstructure:"name" yaml:"name"`
	Months                int    `mapstructure:"months" yaml:"months"`
	LongIndicator         string `mapstructure:"longIndicator" yaml:"longIndicator"`
	ShortIndicator        string `mapstructure:"shortIndicator" yaml:"shortIndicator"`
	SinglePeriodIndicator string `mapstructure:"singlePeriodIndicator" yaml:"singlePeriodIndicator"`
}

type RecurrenceConfig struct {
	Cadences []CadenceConfig `mapstructure:"cadences" yaml:"cadences"`
}

func DefaultRecurrenceConfig() RecurrenceConfig {
	return RecurrenceConfig{
		Cadences: []CadenceConfig{
			{Name: "monthly", Months: 1, LongIndicator: "a month", ShortIndicator: "/ month", SinglePeriodIndicator: "1-month"},
			{Name: "quarterly", Months: 3, LongIndicator: "a quarter", ShortIndicator: "/ quarter", SinglePeriodIndicator: "3-month"},
			{Name: "biannually", Months: 6, LongIndicator: "6 months", ShortIndicator: "/ 6 months", SinglePeriodIndicator: "6-month"},
			{Name: "yearly", Months: 12, LongIndicator: "a year", ShortIndicator: "/ year", SinglePeriodIndicator: "1-year"},
			{Name: "every_two_years", Months: 24, LongIndicator: "2 years", ShortIndicator: "/ 2 years", SinglePeriodIndicator: "2-year"},
		},
	}
}

// LoadRecurrence reads recurrence.yml once. The table is never reloaded: the
// catalog built from it is shared read-only for the life of the process.
func LoadRecurrence(path string) (RecurrenceConfig, error) {
	v := viper.New()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("recurrence")
		v.SetConfigType("yml")
		v.AddConfigPath("/var/lib/priceterm/config")
		v.AddConfigPath("/etc/priceterm")
		v.AddConfigPath(".")
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return RecurrenceConfig{}, fmt.Errorf("read recurrence config: %w", err)
		}
		return DefaultRecurrenceConfig(), nil
	}

	var cfg RecurrenceConfig
	if err := v.UnmarshalKey("recurrence", &cfg); err != nil {
		return RecurrenceConfig{}, fmt.Errorf("decode recurrence config: %w", err)
	}
	if err := ValidateRecurrenceConfig(cfg); err != nil {
		return RecurrenceConfig{}, err
	}
	return cfg, nil
}

func ValidateRecurrenceConfig(cfg RecurrenceConfig) error {
	if len(cfg.Cadences) == 0 {
		return errors.New("recurrence.cadences cannot be empty")
	}
	seen := make(map[string]struct{}, len(cfg.Cadences))
	for i, c := range cfg.Cadences {
		name := strings.ToLower(strings.TrimSpace(c.Name))
		if name == "" {
			return fmt.Errorf("recurrence.cadences[%d].name is required", i)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("recurrence.cadences[%d]: duplicate cadence %q", i, name)
		}
		seen[name] = struct{}{}
		if c.Months <= 0 {
			return fmt.Errorf("recurrence.cadences[%d].months must be positive", i)
		}
		if strings.TrimSpace(c.LongIndicator) == "" || strings.TrimSpace(c.ShortIndicator) == "" || strings.TrimSpace(c.SinglePeriodIndicator) == "" {
			return fmt.Errorf("recurrence.cadences[%d]: indicators are required", i)
		}
	}
	return nil
}
