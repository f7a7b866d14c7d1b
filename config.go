package fedledger

import (
	"fmt"
	"os"

	"github.com/pelletier/go-toml"
)

type Config struct {
	Coordinator CoordinatorConfig `toml:"coordinator"`
	Identity    IdentityConfig    `toml:"identity"`
}

type CoordinatorConfig struct {
	URL             string `toml:"url"`
	TLSVerification bool   `toml:"tls_verification"`
}

// IdentityConfig is the party identity the CLI presents to the coordinator.
// Roles holds the certificate attributes, e.g. flAdmin, trainer or
// leadAggregator.
type IdentityConfig struct {
	ClientID     string   `toml:"client_id"`
	MSPID        string   `toml:"msp_id"`
	EnrollmentID string   `toml:"enrollment_id"`
	Roles        []string `toml:"roles"`
}

func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	tree, err := toml.Load(string(data))
	if err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	var cfg Config
	if err := tree.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	return &cfg, nil
}
