package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"reflect"
	"strings"

	"github.com/caarlos0/env/v6"
	"github.com/go-playground/validator/v10"

	"github.com/JonMunkholm/catalog-import/internal/product"
)

// Load reads configuration from environment variables.
// It applies defaults for unset values and validates the result.
// Returns an error if required values are missing or validation fails.
func Load() (*Config, error) {
	return LoadFrom(nil)
}

// LoadFrom is Load reading from environ instead of the process environment.
// A nil map uses the process environment.
func LoadFrom(environ map[string]string) (*Config, error) {
	cfg := &Config{}

	opts := env.Options{}
	if environ != nil {
		opts.Environment = environ
	}
	if err := env.Parse(cfg, opts); err != nil {
		return nil, fmt.Errorf("config load: %w", err)
	}

	cfg.Logging.Level = strings.ToLower(cfg.Logging.Level)
	cfg.Logging.Format = strings.ToLower(cfg.Logging.Format)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	if cfg.Import.CallbacksFile != "" {
		layers, err := LoadCallbacks(cfg.Import.CallbacksFile)
		if err != nil {
			return nil, fmt.Errorf("config load: %w", err)
		}
		cfg.callbacks = layers
	}

	return cfg, nil
}

// MustLoad loads configuration and panics on error.
// Use this only in main() where early termination is desired.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic(fmt.Sprintf("failed to load configuration: %v", err))
	}
	return cfg
}

// LoadCallbacks reads callback override layers from a JSON file. The file is
// either a list of layers or a single layer:
//
//	[{"color": ["select"]}, {"visibility": ["visibility"]}]
//	{"color": ["select"]}
func LoadCallbacks(path string) ([]map[string][]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read callbacks file: %w", err)
	}

	var layers []map[string][]string
	if err := json.Unmarshal(data, &layers); err == nil {
		return layers, nil
	}

	var layer map[string][]string
	if err := json.Unmarshal(data, &layer); err != nil {
		return nil, fmt.Errorf("parse callbacks file %s: %w", path, err)
	}
	return []map[string][]string{layer}, nil
}

var validate = newValidator()

// newValidator reports fields by their environment variable name.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("env"), ",")
		if name == "" {
			return f.Name
		}
		return name
	})
	return v
}

// Validate checks all configuration values for correctness.
// Returns an error describing all validation failures.
func (c *Config) Validate() error {
	var errs []string

	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		for _, fe := range verrs {
			errs = append(errs, describe(fe))
		}
	}

	if c.Database.Bootstrap && c.Database.Driver != "sqlite" {
		errs = append(errs, fmt.Sprintf("DB_BOOTSTRAP is only supported with DB_DRIVER=sqlite, got %q", c.Database.Driver))
	}

	if c.Import.SourceDateFormat != "" {
		if err := product.ValidateDateFormat(c.Import.SourceDateFormat); err != nil {
			errs = append(errs, fmt.Sprintf("IMPORT_SOURCE_DATE_FORMAT: %v", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}

	return nil
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", fe.Field())
	case "oneof":
		return fmt.Sprintf("%s (%q) must be one of: %s", fe.Field(), fe.Value(), strings.ReplaceAll(fe.Param(), " ", ", "))
	case "gtefield":
		return fmt.Sprintf("%s (%v) must be >= %s", fe.Field(), fe.Value(), fe.Param())
	case "gt":
		return fmt.Sprintf("%s must be positive", fe.Field())
	case "gte":
		return fmt.Sprintf("%s must be non-negative", fe.Field())
	case "min", "max":
		return fmt.Sprintf("%s (%v) is out of range", fe.Field(), fe.Value())
	default:
		return fmt.Sprintf("%s (%v) fails %s", fe.Field(), fe.Value(), fe.Tag())
	}
}

// String returns a safe string representation of the config for logging.
// Sensitive values like database URLs are masked.
func (c *Config) String() string {
	var b strings.Builder
	b.WriteString("Config{")
	b.WriteString(fmt.Sprintf("Server: {Host: %q, Port: %d}, ", c.Server.Host, c.Server.Port))
	b.WriteString(fmt.Sprintf("Database: {Driver: %q, URL: [MASKED], MaxConns: %d, MinConns: %d}, ",
		c.Database.Driver, c.Database.MaxConns, c.Database.MinConns))
	b.WriteString(fmt.Sprintf("Import: {Mode: %q, StoreID: %d, WebsiteID: %d, StockID: %d, SourceDateFormat: %q, CallbackLayers: %d, MaxConcurrent: %d}, ",
		c.Import.Mode, c.Import.StoreID, c.Import.WebsiteID, c.Import.StockID, c.Import.SourceDateFormat, len(c.callbacks), c.Import.MaxConcurrent))
	b.WriteString(fmt.Sprintf("Logging: {Level: %q, Format: %q}, ",
		c.Logging.Level, c.Logging.Format))
	b.WriteString(fmt.Sprintf("Metrics: {Enabled: %v}, ", c.Metrics.Enabled))
	b.WriteString(fmt.Sprintf("History: {Retention: %v, PruneInterval: %v}", c.History.Retention, c.History.PruneInterval))
	b.WriteString("}")
	return b.String()
}
