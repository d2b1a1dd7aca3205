package contract

import (
	"fmt"
	"os"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/germtrack/schema"
)

// Default values for configuration.
const (
	DefaultSeedTotal              = 25
	DefaultPrecision              = 2
	MaxPrecision                  = 4
	DefaultGerminabilityThreshold = 0.0
)

// StdinPath is the input path that reads the document from standard input.
const StdinPath = "-"

// DefaultWorkers is the default number of concurrent workers to use.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// DateTimeFormat is the default date time representation.
var DateTimeFormat = time.RFC3339

// ProfileConfig holds profiling settings.
type ProfileConfig struct {
	Enabled bool
	Prefix  string
}

// ThresholdsRawInput holds check thresholds from the YAML config file.
type ThresholdsRawInput struct {
	Germinability *float64           `mapstructure:"germinability"`
	Treatments    map[string]float64 `mapstructure:"treatments"`
}

// Config holds the runtime configuration for the analysis.
// This struct remains the "final, validated" config.
type Config struct {
	InputPath        string
	Workers          int
	SeedTotal        int
	T50Basis         schema.T50Basis
	CorrelationScope schema.CorrelationScope
	Precision        int
	Output           schema.OutputMode
	OutputFile       string
	Width            int // Terminal width override (0 = auto-detect)
	Treatments       []string

	HistoryBackend   schema.DatabaseBackend
	HistoryDBConnect string // Please use env var as this is plaintext

	// GerminabilityThreshold is the minimum mean G% every treatment must reach in check
	GerminabilityThreshold float64

	// TreatmentThresholds overrides GerminabilityThreshold per treatment name
	TreatmentThresholds map[string]float64

	UseEmojis bool // Enable emojis in output headers
	UseColors bool // Enable colored markers in table output
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	InputPathStr string

	// --- Fields from rootCmd.PersistentFlags() ---
	Workers          int    `mapstructure:"workers"`
	SeedTotal        int    `mapstructure:"seed-total"`
	T50Basis         string `mapstructure:"t50-basis"`
	Correlation      string `mapstructure:"correlation"`
	Precision        int    `mapstructure:"precision"`
	Output           string `mapstructure:"output"`
	OutputFile       string `mapstructure:"output-file"`
	Width            int    `mapstructure:"width"`
	Treatment        string `mapstructure:"treatment"`
	HistoryBackend   string `mapstructure:"history-backend"`
	HistoryDBConnect string `mapstructure:"history-db-connect"`
	Emoji            string `mapstructure:"emoji"`
	Color            string `mapstructure:"color"`

	// --- Fields from checkCmd.Flags() ---
	ThresholdOverride string `mapstructure:"threshold"`

	// --- Thresholds from config file ---
	Thresholds ThresholdsRawInput `mapstructure:"thresholds"`
}

// Clone returns a deep copy of the Config struct.
func (c *Config) Clone() *Config {
	clone := *c
	clone.Treatments = slices.Clone(c.Treatments)
	if c.TreatmentThresholds != nil {
		clone.TreatmentThresholds = make(map[string]float64, len(c.TreatmentThresholds))
		for k, v := range c.TreatmentThresholds {
			clone.TreatmentThresholds[k] = v
		}
	}
	return &clone
}

// AnalysisOptions returns the engine options carried by this config.
func (c *Config) AnalysisOptions() schema.AnalysisOptions {
	return schema.AnalysisOptions{
		Workers:          c.Workers,
		CorrelationScope: c.CorrelationScope,
		T50Basis:         c.T50Basis,
	}
}

// ThresholdFor returns the germinability threshold that applies to a treatment.
func (c *Config) ThresholdFor(treatment string) float64 {
	if v, ok := c.TreatmentThresholds[treatment]; ok {
		return v
	}
	return c.GerminabilityThreshold
}

// KeepTreatment reports whether the treatment filter admits the given name.
func (c *Config) KeepTreatment(name string) bool {
	return len(c.Treatments) == 0 || slices.Contains(c.Treatments, name)
}

// ProcessAndValidate performs all complex parsing and validation on the raw inputs
// and updates the final Config struct.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	if err := processEngineOptions(cfg, input); err != nil {
		return err
	}
	if err := processThresholds(cfg, input); err != nil {
		return err
	}
	return resolveInputPath(cfg, input)
}

// ValidateDatabaseConnectionString validates the format of database connection strings
// for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("history-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}

// ParseHistoryBackend maps a raw backend name to a DatabaseBackend, treating empty as none.
func ParseHistoryBackend(raw string) (schema.DatabaseBackend, error) {
	if strings.TrimSpace(raw) == "" {
		return schema.NoneBackend, nil
	}
	backend := schema.DatabaseBackend(strings.ToLower(strings.TrimSpace(raw)))
	if _, ok := schema.ValidDatabaseBackends[backend]; !ok {
		return "", fmt.Errorf("invalid history backend '%s'. must be sqlite, mysql, postgresql, none", raw)
	}
	return backend, nil
}

// validateSimpleInputs processes and validates the presentation and storage fields.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.OutputFile = input.OutputFile
	cfg.Width = input.Width

	emojis, err := ParseBoolString(input.Emoji)
	if err != nil {
		return fmt.Errorf("invalid --emoji value: %w", err)
	}
	cfg.UseEmojis = emojis

	colors, err := ParseBoolString(input.Color)
	if err != nil {
		return fmt.Errorf("invalid --color value: %w", err)
	}
	cfg.UseColors = colors

	if input.Workers <= 0 {
		return fmt.Errorf("workers must be greater than 0 (received %d)", input.Workers)
	}
	cfg.Workers = input.Workers

	if input.Precision < 1 || input.Precision > MaxPrecision {
		return fmt.Errorf("precision must be between 1 and %d (received %d)", MaxPrecision, input.Precision)
	}
	cfg.Precision = input.Precision

	cfg.Output = schema.OutputMode(strings.ToLower(input.Output))
	if _, ok := schema.ValidOutputModes[cfg.Output]; !ok {
		return fmt.Errorf("invalid output format '%s'. must be text, csv, json, parquet", input.Output)
	}
	if cfg.Output == schema.ParquetOut && cfg.OutputFile == "" {
		return fmt.Errorf("parquet output requires --output-file")
	}

	backend, err := ParseHistoryBackend(input.HistoryBackend)
	if err != nil {
		return err
	}
	cfg.HistoryBackend = backend
	cfg.HistoryDBConnect = input.HistoryDBConnect
	if err := ValidateDatabaseConnectionString(cfg.HistoryBackend, cfg.HistoryDBConnect); err != nil {
		return err
	}

	cfg.Treatments = nil
	for name := range strings.SplitSeq(input.Treatment, ",") {
		if trimmed := strings.TrimSpace(name); trimmed != "" {
			cfg.Treatments = append(cfg.Treatments, trimmed)
		}
	}

	return nil
}

// processEngineOptions validates the options handed to the analysis engine.
func processEngineOptions(cfg *Config, input *ConfigRawInput) error {
	if input.SeedTotal <= 0 {
		return fmt.Errorf("seed-total must be greater than 0 (received %d)", input.SeedTotal)
	}
	cfg.SeedTotal = input.SeedTotal

	cfg.T50Basis = schema.SownBasis
	if input.T50Basis != "" {
		cfg.T50Basis = schema.T50Basis(strings.ToLower(input.T50Basis))
	}
	if _, ok := schema.ValidT50Bases[cfg.T50Basis]; !ok {
		return fmt.Errorf("invalid t50-basis '%s'. must be sown, germinated", input.T50Basis)
	}

	cfg.CorrelationScope = schema.GlobalScope
	if input.Correlation != "" {
		cfg.CorrelationScope = schema.CorrelationScope(strings.ToLower(input.Correlation))
	}
	if _, ok := schema.ValidCorrelationScopes[cfg.CorrelationScope]; !ok {
		return fmt.Errorf("invalid correlation scope '%s'. must be global, treatment", input.Correlation)
	}

	return nil
}

// RevalidateAnalysis applies per-request engine overrides on top of an already validated config.
// Empty or zero overrides keep the config's current values.
func RevalidateAnalysis(cfg *Config, seedTotal int, t50Basis, correlation string) error {
	input := &ConfigRawInput{
		SeedTotal:   cfg.SeedTotal,
		T50Basis:    string(cfg.T50Basis),
		Correlation: string(cfg.CorrelationScope),
	}
	if seedTotal != 0 {
		input.SeedTotal = seedTotal
	}
	if t50Basis != "" {
		input.T50Basis = t50Basis
	}
	if correlation != "" {
		input.Correlation = correlation
	}
	return processEngineOptions(cfg, input)
}

// processThresholds resolves the check thresholds.
// The --threshold flag takes precedence over config file settings.
func processThresholds(cfg *Config, input *ConfigRawInput) error {
	cfg.GerminabilityThreshold = DefaultGerminabilityThreshold
	if input.Thresholds.Germinability != nil {
		cfg.GerminabilityThreshold = *input.Thresholds.Germinability
	}

	cfg.TreatmentThresholds = make(map[string]float64, len(input.Thresholds.Treatments))
	for name, v := range input.Thresholds.Treatments {
		cfg.TreatmentThresholds[name] = v
	}

	if input.ThresholdOverride != "" {
		if err := parseThresholdOverride(cfg, input.ThresholdOverride); err != nil {
			return fmt.Errorf("invalid --threshold format: %w", err)
		}
	}

	if err := validatePercent("germinability threshold", cfg.GerminabilityThreshold); err != nil {
		return err
	}
	for name, v := range cfg.TreatmentThresholds {
		if err := validatePercent(fmt.Sprintf("threshold for treatment %s", name), v); err != nil {
			return err
		}
	}
	return nil
}

// parseThresholdOverride parses "60" or "60,Control:80,Primed:90".
// A bare number sets the default; name:value pairs set per-treatment values.
func parseThresholdOverride(cfg *Config, s string) error {
	for part := range strings.SplitSeq(s, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, valueStr, hasName := strings.Cut(part, ":")
		if !hasName {
			valueStr = name
		}
		value, err := strconv.ParseFloat(strings.TrimSpace(valueStr), 64)
		if err != nil {
			return fmt.Errorf("invalid threshold value '%s': %w", valueStr, err)
		}
		if !hasName {
			cfg.GerminabilityThreshold = value
			continue
		}
		name = strings.TrimSpace(name)
		if name == "" {
			return fmt.Errorf("empty treatment name in '%s'", part)
		}
		cfg.TreatmentThresholds[name] = value
	}
	return nil
}

func validatePercent(label string, v float64) error {
	if v < 0.0 || v > 100.0 {
		return fmt.Errorf("%s must be between 0.0 and 100.0 (received %.2f)", label, v)
	}
	return nil
}

// ProcessProfilingConfig handles the profiling flag and sets up profiling configuration.
func ProcessProfilingConfig(profile *ProfileConfig, profilePrefix string) error {
	if profilePrefix != "" {
		profile.Enabled = true
		profile.Prefix = profilePrefix
	}
	return nil
}

// resolveInputPath checks that the positional input document exists.
// Commands that take no document leave InputPath empty.
func resolveInputPath(cfg *Config, input *ConfigRawInput) error {
	path := strings.TrimSpace(input.InputPathStr)
	cfg.InputPath = ""
	if path == "" {
		return nil
	}
	if path != StdinPath {
		info, err := os.Stat(path)
		if err != nil {
			return fmt.Errorf("cannot read input document %q: %w", path, err)
		}
		if info.IsDir() {
			return fmt.Errorf("input document %q is a directory", path)
		}
	}
	cfg.InputPath = path
	return nil
}
