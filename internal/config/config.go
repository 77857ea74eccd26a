package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/shoestat-cli/internal/analysis"
	"github.com/KaramelBytes/shoestat-cli/internal/parser"
	"github.com/KaramelBytes/shoestat-cli/internal/pipeline"
	"github.com/KaramelBytes/shoestat-cli/internal/sales"
)

const (
	envPrefix = "SHOESTAT"
	dirName   = ".shoestat"
)

// Global configuration structure.
type Global struct {
	SampleFraction float64  `mapstructure:"sample_fraction" yaml:"sample_fraction" validate:"gt=0,lte=1"`
	Seed           int64    `mapstructure:"seed" yaml:"seed"`
	StratifyBy     string   `mapstructure:"stratify_by" yaml:"stratify_by" validate:"oneof=shoe_type country"`
	OutlierFields  []string `mapstructure:"outlier_fields" yaml:"outlier_fields" validate:"dive,oneof=size sale_amount profit quantity store_id"`
	IQRMultiplier  float64  `mapstructure:"iqr_multiplier" yaml:"iqr_multiplier" validate:"gt=0"`

	// Extra header names mapped to canonical fields, e.g. "monto: sale_amount".
	ColumnAliases map[string]string `mapstructure:"column_aliases" yaml:"column_aliases"`

	// Report shape
	TopSizes      int `mapstructure:"top_sizes" yaml:"top_sizes" validate:"gte=1"`
	TopQuantities int `mapstructure:"top_quantities" yaml:"top_quantities" validate:"gte=1"`
	TopShoeTypes  int `mapstructure:"top_shoe_types" yaml:"top_shoe_types" validate:"gte=1"`
	SizeColumns   int `mapstructure:"size_columns" yaml:"size_columns" validate:"gte=1"`
	StoreColumns  int `mapstructure:"store_columns" yaml:"store_columns" validate:"gte=1"`

	LogLevel     string `mapstructure:"log_level" yaml:"log_level" validate:"oneof=debug info warn error"`
	LogFormat    string `mapstructure:"log_format" yaml:"log_format" validate:"oneof=text json"`
	OutputFormat string `mapstructure:"output_format" yaml:"output_format" validate:"oneof=markdown yaml json xlsx"`
	ProjectsDir  string `mapstructure:"projects_dir" yaml:"projects_dir"`
}

var validate = newValidator()

// newValidator reports fields by their yaml key.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("yaml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate checks value ranges and enumerations.
func (c *Global) Validate() error {
	if err := validate.Struct(c); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) {
			msgs := make([]string, 0, len(verrs))
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q (got %v)", fe.Field(), fe.Tag(), fe.Value()))
			}
			return fmt.Errorf("invalid config: %s", strings.Join(msgs, "; "))
		}
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}

func configDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home dir: %w", err)
	}
	return filepath.Join(home, dirName), nil
}

// Save writes the given configuration to the cfgFile path. If cfgFile is empty,
// it writes to ~/.shoestat/config.yaml, creating the directory if necessary.
func Save(c *Global, cfgFile string) error {
	if err := c.Validate(); err != nil {
		return err
	}
	path := cfgFile
	if path == "" {
		dir, err := configDir()
		if err != nil {
			return err
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("mkdir config dir: %w", err)
		}
		path = filepath.Join(dir, "config.yaml")
	}
	b, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal yaml: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// Load loads configuration from file, env, and defaults.
// Precedence: flags (cfgFile) > env > config file > defaults.
// A .env file in the working directory is loaded into the environment first.
func Load(cfgFile string) (*Global, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	def := pipeline.DefaultOptions()
	bat := analysis.DefaultBatteryOptions()
	v.SetDefault("sample_fraction", def.Sampling.Fraction)
	v.SetDefault("seed", def.Sampling.Seed)
	v.SetDefault("stratify_by", string(def.Sampling.By))
	v.SetDefault("outlier_fields", fieldNames(def.CapFields))
	v.SetDefault("iqr_multiplier", def.IQRMultiplier)
	v.SetDefault("column_aliases", map[string]string{})
	v.SetDefault("top_sizes", bat.TopSizes)
	v.SetDefault("top_quantities", bat.TopQuantities)
	v.SetDefault("top_shoe_types", bat.TopShoeTypes)
	v.SetDefault("size_columns", bat.SizeColumns)
	v.SetDefault("store_columns", bat.StoreColumns)
	v.SetDefault("log_level", "warn")
	v.SetDefault("log_format", "text")
	v.SetDefault("output_format", "markdown")

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		_ = os.MkdirAll(dir, 0o755)
		v.AddConfigPath(dir)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}
	// optional read
	_ = v.ReadInConfig()

	var c Global
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if c.ProjectsDir == "" {
		dir, err := configDir()
		if err != nil {
			return nil, err
		}
		c.ProjectsDir = filepath.Join(dir, "projects")
	}
	if err := c.Validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func fieldNames(fs []sales.Field) []string {
	out := make([]string, len(fs))
	for i, f := range fs {
		out[i] = string(f)
	}
	return out
}

// PipelineOptions converts the cleaning and sampling keys into pipeline options.
func (c *Global) PipelineOptions() (pipeline.Options, error) {
	opt := pipeline.DefaultOptions()
	opt.Sampling.Fraction = c.SampleFraction
	opt.Sampling.Seed = c.Seed
	if c.StratifyBy != "" {
		f, err := sales.ParseField(c.StratifyBy)
		if err != nil {
			return opt, fmt.Errorf("stratify_by: %w", err)
		}
		opt.Sampling.By = f
	}
	if len(c.OutlierFields) > 0 {
		opt.CapFields = make([]sales.Field, 0, len(c.OutlierFields))
		for _, name := range c.OutlierFields {
			f, err := sales.ParseField(name)
			if err != nil {
				return opt, fmt.Errorf("outlier_fields: %w", err)
			}
			opt.CapFields = append(opt.CapFields, f)
		}
	}
	if c.IQRMultiplier > 0 {
		opt.IQRMultiplier = c.IQRMultiplier
	}
	return opt, nil
}

// ParserOptions returns ingestion options carrying the configured aliases.
func (c *Global) ParserOptions() parser.Options {
	return parser.Options{Aliases: c.ColumnAliases}
}

// BatteryOptions returns the report shape.
func (c *Global) BatteryOptions() analysis.BatteryOptions {
	opt := analysis.DefaultBatteryOptions()
	if c.TopSizes > 0 {
		opt.TopSizes = c.TopSizes
	}
	if c.TopQuantities > 0 {
		opt.TopQuantities = c.TopQuantities
	}
	if c.TopShoeTypes > 0 {
		opt.TopShoeTypes = c.TopShoeTypes
	}
	if c.SizeColumns > 0 {
		opt.SizeColumns = c.SizeColumns
	}
	if c.StoreColumns > 0 {
		opt.StoreColumns = c.StoreColumns
	}
	return opt
}
