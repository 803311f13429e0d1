package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"

	"github.com/codepulse/codepulse/domain"
)

// Default analysis thresholds. These mirror the thresholds the detectors
// were calibrated against; changing them changes which findings are emitted.
const (
	// DefaultMinCloneLines is the sliding window size for exact clone detection
	DefaultMinCloneLines = 6

	// DefaultStructuralSimilarityThreshold is the alignment ratio above which
	// two function fingerprints count as a Type-2 clone
	DefaultStructuralSimilarityThreshold = 0.80

	// DefaultSemanticSimilarityThreshold is the weighted behavior score above
	// which two functions count as a Type-4 clone
	DefaultSemanticSimilarityThreshold = 0.70

	// DefaultBranchThreshold is the decision point count above which a file
	// is flagged for high branching
	DefaultBranchThreshold = 10

	// DefaultCouplingThreshold is the average call graph degree above which
	// a file is flagged for high coupling
	DefaultCouplingThreshold = 5.0

	// DefaultLargeCloneLines marks a clone HIGH severity above this size
	DefaultLargeCloneLines = 20

	// DefaultLongFunctionLines flags a function as a long-method smell
	DefaultLongFunctionLines = 50

	// DefaultMaxParameters flags a function as a long-parameter-list smell
	DefaultMaxParameters = 5
)

// CloneConfig holds clone detection configuration
type CloneConfig struct {
	MinLines            int     `mapstructure:"min_lines" yaml:"min_lines" toml:"min_lines"`
	StructuralThreshold float64 `mapstructure:"structural_threshold" yaml:"structural_threshold" toml:"structural_threshold"`
	SemanticThreshold   float64 `mapstructure:"semantic_threshold" yaml:"semantic_threshold" toml:"semantic_threshold"`
	LargeCloneLines     int     `mapstructure:"large_clone_lines" yaml:"large_clone_lines" toml:"large_clone_lines"`
}

// FlowConfig holds flow analysis thresholds
type FlowConfig struct {
	BranchThreshold   int     `mapstructure:"branch_threshold" yaml:"branch_threshold" toml:"branch_threshold"`
	CouplingThreshold float64 `mapstructure:"coupling_threshold" yaml:"coupling_threshold" toml:"coupling_threshold"`
}

// SmellConfig holds code smell thresholds
type SmellConfig struct {
	LongFunctionLines int `mapstructure:"long_function_lines" yaml:"long_function_lines" toml:"long_function_lines"`
	MaxParameters     int `mapstructure:"max_parameters" yaml:"max_parameters" toml:"max_parameters"`
}

// AnalysisConfig holds file selection configuration
type AnalysisConfig struct {
	IncludePatterns []string `mapstructure:"include_patterns" yaml:"include_patterns" toml:"include_patterns"`
	ExcludePatterns []string `mapstructure:"exclude_patterns" yaml:"exclude_patterns" toml:"exclude_patterns"`
	Recursive       bool     `mapstructure:"recursive" yaml:"recursive" toml:"recursive"`
}

// OutputConfig holds output formatting configuration
type OutputConfig struct {
	Format       string `mapstructure:"format" yaml:"format" toml:"format"`
	ShowProgress bool   `mapstructure:"show_progress" yaml:"show_progress" toml:"show_progress"`
}

// Config is the main configuration structure
type Config struct {
	Clones   CloneConfig    `mapstructure:"clones" yaml:"clones" toml:"clones"`
	Flow     FlowConfig     `mapstructure:"flow" yaml:"flow" toml:"flow"`
	Smells   SmellConfig    `mapstructure:"smells" yaml:"smells" toml:"smells"`
	Analysis AnalysisConfig `mapstructure:"analysis" yaml:"analysis" toml:"analysis"`
	Output   OutputConfig   `mapstructure:"output" yaml:"output" toml:"output"`
}

// DefaultConfig returns the configuration with all default thresholds
func DefaultConfig() *Config {
	return &Config{
		Clones: CloneConfig{
			MinLines:            DefaultMinCloneLines,
			StructuralThreshold: DefaultStructuralSimilarityThreshold,
			SemanticThreshold:   DefaultSemanticSimilarityThreshold,
			LargeCloneLines:     DefaultLargeCloneLines,
		},
		Flow: FlowConfig{
			BranchThreshold:   DefaultBranchThreshold,
			CouplingThreshold: DefaultCouplingThreshold,
		},
		Smells: SmellConfig{
			LongFunctionLines: DefaultLongFunctionLines,
			MaxParameters:     DefaultMaxParameters,
		},
		Analysis: AnalysisConfig{
			IncludePatterns: []string{"**/*.py"},
			ExcludePatterns: []string{"**/venv/**", "**/.venv/**", "**/__pycache__/**"},
			Recursive:       true,
		},
		Output: OutputConfig{
			Format:       "text",
			ShowProgress: true,
		},
	}
}

// configFileNames lists supported config files in search order
var configFileNames = []string{
	".codepulse.toml",
	".codepulse.yaml",
	"codepulse.toml",
	"codepulse.yaml",
}

// LoadConfig loads configuration from the given path, or searches the start
// directory and its ancestors when path is empty. Missing config files are
// not an error; defaults apply.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()

	v := viper.New()
	if path != "" {
		v.SetConfigFile(path)
	} else {
		found := findConfigFile(".")
		if found == "" {
			return cfg, nil
		}
		v.SetConfigFile(found)
	}

	if err := v.ReadInConfig(); err != nil {
		return nil, domain.NewConfigError("failed to read config file", err)
	}

	if err := v.Unmarshal(cfg); err != nil {
		return nil, domain.NewConfigError("failed to unmarshal config", err)
	}

	return cfg, nil
}

// WriteDefault writes the default configuration to path. The extension
// picks the encoding: .toml or .yaml/.yml.
func WriteDefault(path string) error {
	cfg := DefaultConfig()

	var data []byte
	var err error
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		data, err = toml.Marshal(cfg)
	case ".yaml", ".yml":
		data, err = yaml.Marshal(cfg)
	default:
		return domain.NewConfigError(fmt.Sprintf("unsupported config extension: %s", filepath.Ext(path)), nil)
	}
	if err != nil {
		return domain.NewConfigError("failed to encode default config", err)
	}

	return os.WriteFile(path, data, 0o644)
}

// findConfigFile walks up from startDir looking for a known config file
func findConfigFile(startDir string) string {
	dir, err := filepath.Abs(startDir)
	if err != nil {
		return ""
	}

	for {
		for _, name := range configFileNames {
			candidate := filepath.Join(dir, name)
			if info, err := os.Stat(candidate); err == nil && !info.IsDir() {
				return candidate
			}
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}
