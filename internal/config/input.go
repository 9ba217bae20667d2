package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/CapitalsFunds/site-demo/internal/domain"
	"github.com/shopspring/decimal"
	"gopkg.in/yaml.v3"
)

// MaxHorizonYears bounds the fund growth horizon accepted from files and requests.
const MaxHorizonYears = 50

// InputParser handles parsing of input configuration files
type InputParser struct{}

// NewInputParser creates a new input parser
func NewInputParser() *InputParser {
	return &InputParser{}
}

// LoadFromFile loads configuration from a YAML or JSON file
func (ip *InputParser) LoadFromFile(filename string) (*domain.Configuration, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	return ip.Parse(data)
}

// Parse decodes a configuration document. Fields missing from the inputs
// block take the calculator defaults.
func (ip *InputParser) Parse(data []byte) (*domain.Configuration, error) {
	config := domain.Configuration{Inputs: domain.DefaultInputs()}
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	// Validate the configuration
	if err := ip.ValidateConfiguration(&config); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &config, nil
}

// ValidateConfiguration validates the loaded configuration
func (ip *InputParser) ValidateConfiguration(config *domain.Configuration) error {
	if err := ip.ValidateInputs(&config.Inputs); err != nil {
		return fmt.Errorf("inputs validation failed: %w", err)
	}

	for _, f := range config.Formats {
		if strings.TrimSpace(f) == "" {
			return fmt.Errorf("formats: empty format name")
		}
	}

	return nil
}

// ValidateInputs checks a single parameter bundle. An unknown baseline is
// rejected here even though the engine tolerates it, so that typos in
// files surface early.
func (ip *InputParser) ValidateInputs(in *domain.Inputs) error {
	if err := in.Validate(); err != nil {
		return err
	}
	if in.HorizonYears > MaxHorizonYears {
		return fmt.Errorf("%w: horizon must be at most %d years", domain.ErrInvalidInputs, MaxHorizonYears)
	}
	if in.Baseline == "" {
		return fmt.Errorf("baseline structure is required")
	}
	if _, ok := domain.ParseStructure(in.Baseline); !ok {
		return fmt.Errorf("unknown baseline structure %q", in.Baseline)
	}
	return nil
}

// Marshal encodes a configuration as YAML.
func (ip *InputParser) Marshal(config *domain.Configuration) ([]byte, error) {
	data, err := yaml.Marshal(config)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal configuration: %w", err)
	}
	return data, nil
}

// SaveConfiguration writes a configuration as YAML.
func (ip *InputParser) SaveConfiguration(config *domain.Configuration, filename string) error {
	data, err := ip.Marshal(config)
	if err != nil {
		return err
	}
	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return fmt.Errorf("failed to write file %s: %w", filename, err)
	}
	return nil
}

// CreateExampleConfiguration creates an example configuration file
func (ip *InputParser) CreateExampleConfiguration() *domain.Configuration {
	return &domain.Configuration{
		Inputs: domain.Inputs{
			EBT:                  decimal.NewFromInt(10),
			PersonalSharePercent: decimal.NewFromInt(30),
			KeyRatePercent:       decimal.NewFromFloat(16.5),
			HorizonYears:         5,
			Fees:                 decimal.NewFromFloat(0.1),
			Baseline:             domain.SoleProprietor.ID(),
		},
		FetchKeyRate: false,
		Formats:      []string{"console"},
	}
}
