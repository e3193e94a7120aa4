package fsm

import (
	"fmt"
	"io/fs"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/storefront-labs/ui-common/errors"
)

// Config defines a machine declaratively. Navigation and modal
// machines built into this module are constructed in code; YAML
// configs exist for the walker CLI and for applications that define
// their own surfaces.
type Config struct {
	Name        string             `json:"name"        yaml:"name"`
	Initial     Kind               `json:"initial"     yaml:"initial"`
	States      []Kind             `json:"states"      yaml:"states"`
	Transitions []TransitionConfig `json:"transitions" yaml:"transitions"`
	Guard       string             `json:"guard"       yaml:"guard"`
	LogCapacity int                `json:"logCapacity" yaml:"logCapacity"`
}

// TransitionConfig declares the edges leaving one state.
type TransitionConfig struct {
	From Kind   `json:"from" yaml:"from"`
	To   []Kind `json:"to"   yaml:"to"`
}

// LoadConfig loads a machine configuration from a YAML file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path) //nolint:gosec // Intentional path-based loading
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %q: %w", path, err)
	}

	return LoadConfigFromBytes(data)
}

// LoadConfigFromBytes loads a machine configuration from YAML bytes.
func LoadConfigFromBytes(data []byte) (*Config, error) {
	var config Config

	err := yaml.Unmarshal(data, &config)
	if err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	err = config.Validate()
	if err != nil {
		return nil, err
	}

	return &config, nil
}

// LoadConfigFromFS loads a configuration from an embedded filesystem.
// This is a convenience function for loading from embed.FS.
func LoadConfigFromFS(fsys fs.FS, path string) (*Config, error) {
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config from FS: %w", err)
	}

	return LoadConfigFromBytes(data)
}

// Validate checks the configuration, reporting every defect at once.
func (c *Config) Validate() error {
	var errs errors.Collection

	if c.Name == "" {
		errs.Add(ErrConfigNameRequired)
	}

	if c.Initial == "" {
		errs.Add(ErrInitialStateRequired)
	}

	if len(c.States) == 0 {
		errs.Add(ErrStateRequired)
	}

	seen := make(map[Kind]bool, len(c.States))

	for _, state := range c.States {
		if seen[state] {
			errs.Add(fmt.Errorf("%w: %s", ErrDuplicateState, state))
		}

		seen[state] = true
	}

	if c.Initial != "" && len(c.States) > 0 && !seen[c.Initial] {
		errs.Add(fmt.Errorf("%w: %s", ErrInitialStateUnknown, c.Initial))
	}

	for i, tc := range c.Transitions {
		if !seen[tc.From] {
			errs.Add(fmt.Errorf("transition %d: %w: %s", i, ErrTransitionFromUnknown, tc.From))
		}

		for _, to := range tc.To {
			if !seen[to] {
				errs.Add(fmt.Errorf("transition %d: %w: %s", i, ErrTransitionToUnknown, to))
			}
		}
	}

	if c.LogCapacity < 0 {
		errs.Add(fmt.Errorf("%w: %d", ErrLogCapacityInvalid, c.LogCapacity))
	}

	if c.Guard != "" {
		_, err := NewExpressionGuard(c.Guard)
		errs.Add(err)
	}

	return errs.GetError()
}

// Table converts the declared transitions into a Table.
func (c *Config) Table() Table {
	table := make(Table, len(c.Transitions))
	for _, tc := range c.Transitions {
		table[tc.From] = append(table[tc.From], slices.Clone(tc.To)...)
	}

	return table
}

// Build constructs a machine from the configuration.
func (c *Config) Build(opts ...Option) (*Machine, error) {
	err := c.Validate()
	if err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	if c.Guard != "" {
		guard, err := NewExpressionGuard(c.Guard)
		if err != nil {
			return nil, err
		}

		opts = append([]Option{WithGuard(guard)}, opts...)
	}

	if c.LogCapacity > 0 {
		opts = append(opts, WithLogCapacity(c.LogCapacity))
	}

	return New(c.Name, c.Initial, c.Table(), opts...), nil
}
