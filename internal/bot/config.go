package bot

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"

	coreconfig "barbot/core/config"
	coredatabase "barbot/core/database"
	"barbot/internal/domain"
	"barbot/internal/service/auth"
)

// StaffEntry is one line of the static staff directory.
type StaffEntry struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
	Role     string `yaml:"role"`
}

// EventConfig carries the per-event reference data: who may log in, which
// drinks exist, and which drinks each bar is assigned.
type EventConfig struct {
	Staff  []StaffEntry        `yaml:"staff"`
	Drinks []string            `yaml:"drinks"`
	Bars   map[string][]string `yaml:"bars"`
}

// Config is the full application configuration file.
type Config struct {
	Core     *coreconfig.Config
	Database coredatabase.Config
	Event    EventConfig
}

// CoreConfig exposes the embedded core configuration.
func (c *Config) CoreConfig() *coreconfig.Config {
	return c.Core
}

type configFile struct {
	Database coredatabase.Config `yaml:"database"`
	Event    EventConfig         `yaml:"event"`
}

// LoadConfig reads the shared core sections plus the app-level database and
// event sections from a single YAML file, then applies environment overrides.
func LoadConfig(path string) (*Config, error) {
	core, err := coreconfig.Load(path)
	if err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	var file configFile
	if err := yaml.Unmarshal(raw, &file); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}
	if err := envconfig.Process("", &file.Database); err != nil {
		return nil, fmt.Errorf("config: env overrides: %w", err)
	}

	cfg := &Config{
		Core:     core,
		Database: file.Database,
		Event:    file.Event,
	}
	if err := cfg.Event.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the event reference data for internal consistency.
func (e EventConfig) Validate() error {
	if len(e.Staff) == 0 {
		return fmt.Errorf("config: event.staff must not be empty")
	}
	seen := make(map[string]struct{}, len(e.Staff))
	for _, s := range e.Staff {
		if s.Username == "" || s.Password == "" {
			return fmt.Errorf("config: staff entry with empty username or password")
		}
		if s.Role != domain.RoleBar && s.Role != domain.RoleSupply {
			return fmt.Errorf("config: staff %q has unknown role %q", s.Username, s.Role)
		}
		if _, dup := seen[s.Username]; dup {
			return fmt.Errorf("config: duplicate staff username %q", s.Username)
		}
		seen[s.Username] = struct{}{}
	}

	catalog := make(map[string]struct{}, len(e.Drinks))
	for _, d := range e.Drinks {
		catalog[d] = struct{}{}
	}
	for bar, drinks := range e.Bars {
		if _, ok := seen[bar]; !ok {
			return fmt.Errorf("config: bars entry %q matches no staff username", bar)
		}
		for _, d := range drinks {
			if _, ok := catalog[d]; !ok {
				return fmt.Errorf("config: bar %q assigned unknown drink %q", bar, d)
			}
		}
	}
	return nil
}

// StaffDirectory converts the staff list to the auth service lookup form.
func (e EventConfig) StaffDirectory() auth.Staff {
	staff := make(auth.Staff, len(e.Staff))
	for _, s := range e.Staff {
		staff[s.Username] = auth.Member{Password: s.Password, Role: s.Role}
	}
	return staff
}
