package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

// Config holds runtime configuration for the labeller.
// Fields may be loaded from a JSON file, then overridden by BOXLABEL_*
// environment variables and finally by command-line flags.
type Config struct {
	Debug bool `json:"debug"`

	// Editor geometry
	SizeMin    int `json:"size_min" validate:"min=1"`
	HandleSize int `json:"handle_size" validate:"min=2"`

	// Classes in id order. Ids are fixed for the session.
	Classes []string `json:"classes" validate:"min=1,unique,dive,required"`

	// Files
	AnnotationFile string   `json:"annotation_file" validate:"required"`
	ImageDir       string   `json:"image_dir" validate:"required"`
	ImageExts      []string `json:"image_exts" validate:"dive,required"`
	LogFile        string   `json:"log_file"`

	// Drawing surface; images are centered, never scaled.
	CanvasWidth  int `json:"canvas_width" validate:"min=100"`
	CanvasHeight int `json:"canvas_height" validate:"min=100"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Debug:          false,
		SizeMin:        10,
		HandleSize:     8,
		Classes:        []string{"chat", "chien", "voiture"},
		AnnotationFile: "annotation.txt",
		ImageDir:       ".",
		ImageExts:      []string{".jpg", ".jpeg", ".png", ".bmp", ".tif", ".tiff", ".webp"},
		LogFile:        "",
		CanvasWidth:    1000,
		CanvasHeight:   700,
	}
}

var validate = validator.New()

// Validate normalizes values and reports configuration that cannot be used.
func (c *Config) Validate() error {
	cleaned := c.Classes[:0]
	for _, n := range c.Classes {
		if n = strings.TrimSpace(n); n != "" {
			cleaned = append(cleaned, n)
		}
	}
	c.Classes = cleaned
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			fe := verrs[0]
			return fmt.Errorf("config %s: failed %q (value %v)", fe.Field(), fe.Tag(), fe.Value())
		}
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

// Load attempts to read configuration from the given JSON file path. If the file does not
// exist defaults are used. Environment overrides are applied afterwards.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		f, err := os.Open(path)
		switch {
		case err == nil:
			defer f.Close()
			if err := json.NewDecoder(f).Decode(cfg); err != nil {
				return cfg, fmt.Errorf("config %s: %w", path, err)
			}
		case !os.IsNotExist(err):
			return cfg, err
		}
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	return cfg, cfg.Validate()
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}

// Environment variables recognized by ApplyEnv.
const (
	EnvDebug          = "BOXLABEL_DEBUG"
	EnvSizeMin        = "BOXLABEL_SIZE_MIN"
	EnvHandleSize     = "BOXLABEL_HANDLE_SIZE"
	EnvClasses        = "BOXLABEL_CLASSES" // comma separated
	EnvAnnotationFile = "BOXLABEL_ANNOTATION_FILE"
	EnvImageDir       = "BOXLABEL_IMAGE_DIR"
	EnvLogFile        = "BOXLABEL_LOG_FILE"
)

// ApplyEnv loads an optional .env file from the working directory and applies
// BOXLABEL_* overrides. Variables already set in the process take precedence
// over the .env file.
func (c *Config) ApplyEnv() error {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("load .env: %w", err)
	}
	if v, ok := os.LookupEnv(EnvDebug); ok {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvDebug, err)
		}
		c.Debug = b
	}
	for _, iv := range []struct {
		key string
		dst *int
	}{{EnvSizeMin, &c.SizeMin}, {EnvHandleSize, &c.HandleSize}} {
		v, ok := os.LookupEnv(iv.key)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%s: %w", iv.key, err)
		}
		*iv.dst = n
	}
	if v, ok := os.LookupEnv(EnvClasses); ok {
		c.Classes = strings.Split(v, ",")
	}
	for _, sv := range []struct {
		key string
		dst *string
	}{{EnvAnnotationFile, &c.AnnotationFile}, {EnvImageDir, &c.ImageDir}, {EnvLogFile, &c.LogFile}} {
		if v, ok := os.LookupEnv(sv.key); ok {
			*sv.dst = v
		}
	}
	return nil
}
