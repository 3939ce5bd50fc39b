package config

import (
	"fmt"
	"os"
	"reflect"
	"strconv"
	"strings"
	"time"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}

	if err := loadStruct(reflect.ValueOf(cfg).Elem()); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// loadStruct recursively populates struct fields from environment variables.
func loadStruct(v reflect.Value) error {
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		fieldVal := v.Field(i)

		if !fieldVal.CanSet() {
			continue
		}

		if field.Type.Kind() == reflect.Struct && field.Type != reflect.TypeOf(time.Time{}) {
			if err := loadStruct(fieldVal); err != nil {
				return err
			}
			continue
		}

		envName := field.Tag.Get("env")
		envAlt := field.Tag.Get("envAlt")
		defaultVal := field.Tag.Get("default")
		required := field.Tag.Get("required") == "true"

		if envName == "" {
			continue
		}

		value := os.Getenv(envName)
		if value == "" && envAlt != "" {
			value = os.Getenv(envAlt)
		}

		if value == "" {
			if required {
				return fmt.Errorf("required environment variable %s is not set", envName)
			}
			value = defaultVal
		}

		if value == "" {
			continue
		}

		if err := setField(fieldVal, value); err != nil {
			return fmt.Errorf("invalid value for %s=%q: %w", envName, value, err)
		}
	}

	return nil
}

// setField sets a reflect.Value from a string based on its type.
func setField(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)

	case reflect.Int, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			d, err := time.ParseDuration(value)
			if err != nil {
				return fmt.Errorf("invalid duration: %w", err)
			}
			field.Set(reflect.ValueOf(d))
		} else {
			i, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return fmt.Errorf("invalid integer: %w", err)
			}
			field.SetInt(i)
		}

	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("invalid boolean: %w", err)
		}
		field.SetBool(b)

	default:
		return fmt.Errorf("unsupported field type: %s", field.Kind())
	}

	return nil
}

// Validate checks that the configuration is valid.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if c.Watch.Dir == "" {
		errs = append(errs, "WATCH_DIR is required")
	}
	validTriggers := map[string]bool{"poll": true, "notify": true, "cron": true}
	if !validTriggers[strings.ToLower(c.Watch.Trigger)] {
		errs = append(errs, fmt.Sprintf("WATCH_TRIGGER (%q) must be one of: poll, notify, cron", c.Watch.Trigger))
	}
	if c.Watch.Interval <= 0 {
		errs = append(errs, "WATCH_INTERVAL must be positive")
	}
	if strings.ToLower(c.Watch.Trigger) == "cron" && strings.TrimSpace(c.Watch.CronSpec) == "" {
		errs = append(errs, "WATCH_CRON is required when WATCH_TRIGGER is cron")
	}

	validKinds := map[string]bool{"mysql": true, "postgres": true, "sqlite": true, "mssql": true}
	if !validKinds[strings.ToLower(c.Storage.Kind)] {
		errs = append(errs, fmt.Sprintf("STORAGE_KIND (%q) must be one of: mysql, postgres, sqlite, mssql", c.Storage.Kind))
	}
	if c.Storage.DSN == "" {
		errs = append(errs, "STORAGE_DSN is required")
	}
	if c.Storage.BatchSize <= 0 {
		errs = append(errs, "STORAGE_BATCH_SIZE must be positive")
	}

	validBackends := map[string]bool{"none": true, "datadog": true}
	if !validBackends[strings.ToLower(c.Metrics.Backend)] {
		errs = append(errs, fmt.Sprintf("METRICS_BACKEND (%q) must be one of: none, datadog", c.Metrics.Backend))
	}
	if c.Metrics.FlushInterval <= 0 {
		errs = append(errs, "METRICS_FLUSH_INTERVAL must be positive")
	}

	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		errs = append(errs, fmt.Sprintf("LOG_LEVEL (%q) must be one of: debug, info, warn, error", c.Logging.Level))
	}
	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		errs = append(errs, fmt.Sprintf("LOG_FORMAT (%q) must be one of: text, json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

// String returns a safe representation of the config for logging.
// The DSN is masked since it may carry credentials.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Watch: {Dir: %q, Trigger: %q, Interval: %s}, ",
		c.Watch.Dir, c.Watch.Trigger, c.Watch.Interval))
	b.WriteString(fmt.Sprintf("Storage: {Kind: %q, DSN: [MASKED], BatchSize: %d}, ",
		c.Storage.Kind, c.Storage.BatchSize))
	b.WriteString(fmt.Sprintf("Metrics: {Backend: %q}, ", c.Metrics.Backend))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}",
		c.Logging.Level, c.Logging.Format))
	b.WriteString("}")
	return b.String()
}
