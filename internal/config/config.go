package config

import (
	"os"
	"strconv"
	"strings"

	"assaystat/internal/errors"
)

// Config represents the complete application configuration
type Config struct {
	Output   OutputConfig
	Plot     PlotConfig
	Analysis AnalysisConfig
	Workers  int
	LogLevel string
}

// OutputConfig controls where and what gets exported
type OutputConfig struct {
	Dir               string // empty: next to the input file
	ExportDescriptive bool
	ExportXLSX        bool
	Report            bool
}

// PlotConfig holds rendering settings
type PlotConfig struct {
	Format     string // svg, html or none
	Style      string // box, bar or both
	Width      int
	Height     int
	JitterSeed int64
}

// AnalysisConfig holds statistical defaults
type AnalysisConfig struct {
	FenceMultiplier float64
	TTestVariance   string // pooled or welch
	Alpha           float64
}

// Allowed enum values
var (
	PlotFormats    = []string{"svg", "html", "none"}
	PlotStyles     = []string{"box", "bar", "both"}
	TTestVariances = []string{"pooled", "welch"}
)

// Default returns the configuration used when no environment is set
func Default() *Config {
	return &Config{
		Output: OutputConfig{
			ExportDescriptive: true,
		},
		Plot: PlotConfig{
			Format:     "svg",
			Style:      "both",
			Width:      900,
			Height:     1500,
			JitterSeed: 1,
		},
		Analysis: AnalysisConfig{
			FenceMultiplier: 2,
			TTestVariance:   "pooled",
			Alpha:           0.05,
		},
		Workers:  4,
		LogLevel: "INFO",
	}
}

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	def := Default()
	config := &Config{
		Output: OutputConfig{
			Dir:               getEnvOrDefault("ASSAYSTAT_OUTPUT_DIR", def.Output.Dir),
			ExportDescriptive: getEnvBoolOrDefault("ASSAYSTAT_EXPORT_DESCRIPTIVE", def.Output.ExportDescriptive),
			ExportXLSX:        getEnvBoolOrDefault("ASSAYSTAT_EXPORT_XLSX", def.Output.ExportXLSX),
			Report:            getEnvBoolOrDefault("ASSAYSTAT_REPORT", def.Output.Report),
		},
		Plot: PlotConfig{
			Format:     strings.ToLower(getEnvOrDefault("ASSAYSTAT_PLOT_FORMAT", def.Plot.Format)),
			Style:      strings.ToLower(getEnvOrDefault("ASSAYSTAT_PLOT_STYLE", def.Plot.Style)),
			Width:      getEnvIntOrDefault("ASSAYSTAT_PLOT_WIDTH", def.Plot.Width),
			Height:     getEnvIntOrDefault("ASSAYSTAT_PLOT_HEIGHT", def.Plot.Height),
			JitterSeed: int64(getEnvIntOrDefault("ASSAYSTAT_JITTER_SEED", int(def.Plot.JitterSeed))),
		},
		Analysis: AnalysisConfig{
			FenceMultiplier: getEnvFloatOrDefault("ASSAYSTAT_FENCE_MULTIPLIER", def.Analysis.FenceMultiplier),
			TTestVariance:   strings.ToLower(getEnvOrDefault("ASSAYSTAT_TTEST_VARIANCE", def.Analysis.TTestVariance)),
			Alpha:           getEnvFloatOrDefault("ASSAYSTAT_ALPHA", def.Analysis.Alpha),
		},
		Workers:  getEnvIntOrDefault("ASSAYSTAT_WORKERS", def.Workers),
		LogLevel: getEnvOrDefault("LOG_LEVEL", def.LogLevel),
	}

	if err := config.Validate(); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return config, nil
}

// Validate checks enum fields and numeric ranges
func (c *Config) Validate() error {
	if !contains(PlotFormats, c.Plot.Format) {
		return errors.ConfigInvalid("ASSAYSTAT_PLOT_FORMAT must be one of " + strings.Join(PlotFormats, ", "))
	}
	if !contains(PlotStyles, c.Plot.Style) {
		return errors.ConfigInvalid("ASSAYSTAT_PLOT_STYLE must be one of " + strings.Join(PlotStyles, ", "))
	}
	if !contains(TTestVariances, c.Analysis.TTestVariance) {
		return errors.ConfigInvalid("ASSAYSTAT_TTEST_VARIANCE must be one of " + strings.Join(TTestVariances, ", "))
	}
	if c.Plot.Width <= 0 || c.Plot.Height <= 0 {
		return errors.ConfigInvalid("plot width and height must be positive")
	}
	if c.Analysis.FenceMultiplier <= 0 {
		return errors.ConfigInvalid("ASSAYSTAT_FENCE_MULTIPLIER must be positive")
	}
	if c.Analysis.Alpha <= 0 || c.Analysis.Alpha >= 1 {
		return errors.ConfigInvalid("ASSAYSTAT_ALPHA must be in (0, 1)")
	}
	if c.Workers < 1 {
		return errors.ConfigInvalid("ASSAYSTAT_WORKERS must be at least 1")
	}
	return nil
}

func contains(values []string, v string) bool {
	for _, candidate := range values {
		if candidate == v {
			return true
		}
	}
	return false
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
