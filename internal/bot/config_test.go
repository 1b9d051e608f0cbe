package bot

import (
	"os"
	"path/filepath"
	"testing"

	"barbot/internal/domain"
)

const sampleConfig = `
telegram:
  token: "123:abc"
  run_mode: longpoll
logging:
  level: info
  format: kv
database:
  host: localhost
  port: "5432"
  user: barbot
  name: barbot
event:
  staff:
    - username: north_bar
      password: pw1
      role: bar
    - username: runner1
      password: pw2
      role: supply
  drinks: [Beer, Cola]
  bars:
    north_bar: [Beer]
`

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfig(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, sampleConfig))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Core == nil || cfg.Core.Telegram.Token != "123:abc" {
		t.Fatalf("unexpected core config: %+v", cfg.Core)
	}
	if cfg.Database.Host != "localhost" || cfg.Database.Name != "barbot" {
		t.Fatalf("unexpected database config: %+v", cfg.Database)
	}
	if len(cfg.Event.Staff) != 2 || len(cfg.Event.Drinks) != 2 {
		t.Fatalf("unexpected event config: %+v", cfg.Event)
	}

	staff := cfg.Event.StaffDirectory()
	m, ok := staff["runner1"]
	if !ok || m.Role != domain.RoleSupply || m.Password != "pw2" {
		t.Fatalf("unexpected staff directory entry: %+v ok=%v", m, ok)
	}
}

func TestEventConfigValidate(t *testing.T) {
	base := func() EventConfig {
		return EventConfig{
			Staff: []StaffEntry{
				{Username: "north_bar", Password: "pw", Role: domain.RoleBar},
			},
			Drinks: []string{"Beer"},
			Bars:   map[string][]string{"north_bar": {"Beer"}},
		}
	}

	t.Run("valid", func(t *testing.T) {
		if err := base().Validate(); err != nil {
			t.Fatalf("expected valid config, got %v", err)
		}
	})

	t.Run("unknown role", func(t *testing.T) {
		e := base()
		e.Staff[0].Role = "manager"
		if err := e.Validate(); err == nil {
			t.Fatal("expected error for unknown role")
		}
	})

	t.Run("unknown drink in bar assignment", func(t *testing.T) {
		e := base()
		e.Bars["north_bar"] = []string{"Absinthe"}
		if err := e.Validate(); err == nil {
			t.Fatal("expected error for unknown drink")
		}
	})

	t.Run("bar without staff entry", func(t *testing.T) {
		e := base()
		e.Bars["ghost_bar"] = []string{"Beer"}
		if err := e.Validate(); err == nil {
			t.Fatal("expected error for unknown bar")
		}
	})

	t.Run("duplicate username", func(t *testing.T) {
		e := base()
		e.Staff = append(e.Staff, StaffEntry{Username: "north_bar", Password: "pw2", Role: domain.RoleSupply})
		if err := e.Validate(); err == nil {
			t.Fatal("expected error for duplicate username")
		}
	})

	t.Run("empty staff", func(t *testing.T) {
		e := base()
		e.Staff = nil
		if err := e.Validate(); err == nil {
			t.Fatal("expected error for empty staff")
		}
	})
}
