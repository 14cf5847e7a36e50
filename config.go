package assembler

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"struct-assembler/container"
	"struct-assembler/executor"
	"struct-assembler/handler"
	"struct-assembler/internal/diagnostic"
	"struct-assembler/operation"
)

// Config holds the settings of an Assembler.
type Config struct {
	// Policy is "disordered" (default) or "ordered".
	Policy string `yaml:"policy" toml:"policy" validate:"omitempty,oneof=disordered ordered"`
	// Separator splits many-to-many key strings.
	Separator string `yaml:"separator" toml:"separator" validate:"required"`
	// BatchSize caps the targets of one handler call; zero means unlimited.
	BatchSize int `yaml:"batch_size" toml:"batch_size" validate:"gte=0"`
	// ValidateProperties rejects operations naming properties their type lacks.
	ValidateProperties bool `yaml:"validate_properties" toml:"validate_properties"`
	// Descriptors are YAML or TOML operation descriptor files.
	Descriptors []string `yaml:"descriptors" toml:"descriptors" validate:"dive,required"`
	// Cache sizes the caches of containers registered with RegisterCached.
	Cache container.CacheConfig `yaml:"cache" toml:"cache"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		Policy:             executor.PolicyDisordered.String(),
		Separator:          handler.DefaultSeparator,
		ValidateProperties: true,
		Cache:              container.DefaultCacheConfig(),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	err := container.Validator().Struct(c)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}

	var diags diagnostic.Diagnostics
	for _, fe := range verrs {
		diags.AddCause("config", operation.Configf("config", fe.Namespace(), "failed %q validation", fe.Tag()))
	}

	return diags.Err()
}

// LoadConfig reads a YAML (.yaml, .yml) or TOML (.toml) file over DefaultConfig.
// Relative descriptor paths are resolved against the file's directory.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("read config: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		dec := yaml.NewDecoder(bytes.NewReader(data))
		dec.KnownFields(true)

		if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	case ".toml":
		dec := toml.NewDecoder(bytes.NewReader(data))
		dec.DisallowUnknownFields()

		if err := dec.Decode(&cfg); err != nil {
			return cfg, fmt.Errorf("decode config %s: %w", path, err)
		}
	default:
		return cfg, fmt.Errorf("config %s: unsupported format %q", path, filepath.Ext(path))
	}

	dir := filepath.Dir(path)
	for i, d := range cfg.Descriptors {
		if !filepath.IsAbs(d) {
			cfg.Descriptors[i] = filepath.Join(dir, d)
		}
	}

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("config %s: %w", path, err)
	}

	return cfg, nil
}
