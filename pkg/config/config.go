package config

import (
	"fmt"
	"os"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"

	"tableflip.dev/progressly/pkg/task"
)

const (
	BackendDiskv  = "diskv"
	BackendSQLite = "sqlite"
	BackendMemory = "memory"

	SchemePlaintext = "plaintext"
	SchemeBcrypt    = "bcrypt"
)

// Settings is the resolved configuration for a progressly process.
type Settings struct {
	Path        string   `json:"path"`
	StoreKind   string   `json:"backend"`
	Categories  []string `json:"categories"`
	AuthScheme  string   `json:"authScheme"`
	RequireAuth bool     `json:"requireAuth"`
	ConfigFile  string   `json:"configFile,omitempty"`
}

// Load reads .progressly.yaml from $PROGRESSLY_CONFIG_PATH, the working
// directory or $HOME, with PROGRESSLY_* environment overrides.
func Load() (*Settings, error) {
	v := viper.New()
	v.SetDefault("path", "~/.progressly")
	v.SetDefault("backend", BackendDiskv)
	v.SetDefault("categories", task.DefaultCategories)
	v.SetDefault("auth.scheme", SchemePlaintext)
	v.SetDefault("auth.required", false)
	v.SetConfigName(".progressly") // .yaml is implicit
	v.SetEnvPrefix("PROGRESSLY")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if override := os.Getenv("PROGRESSLY_CONFIG_PATH"); override != "" {
		v.AddConfigPath(override)
	}
	v.AddConfigPath("./")
	if home, err := homedir.Dir(); err == nil {
		v.AddConfigPath(home)
	}

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("config: reading config file: %w", err)
		}
	}
	return fromViper(v)
}

func fromViper(v *viper.Viper) (*Settings, error) {
	path, err := homedir.Expand(v.GetString("path"))
	if err != nil {
		return nil, fmt.Errorf("config: expanding path: %w", err)
	}
	s := &Settings{
		Path:        path,
		StoreKind:   strings.ToLower(v.GetString("backend")),
		Categories:  cleanCategories(v.GetStringSlice("categories")),
		AuthScheme:  strings.ToLower(v.GetString("auth.scheme")),
		RequireAuth: v.GetBool("auth.required"),
		ConfigFile:  v.ConfigFileUsed(),
	}
	switch s.StoreKind {
	case BackendDiskv, BackendSQLite, BackendMemory:
	default:
		return nil, fmt.Errorf("config: unknown backend %q", s.StoreKind)
	}
	switch s.AuthScheme {
	case SchemePlaintext, SchemeBcrypt:
	default:
		return nil, fmt.Errorf("config: unknown auth scheme %q", s.AuthScheme)
	}
	return s, nil
}

func cleanCategories(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]bool, len(in))
	for _, c := range in {
		c = strings.TrimSpace(c)
		if c == "" || seen[c] {
			continue
		}
		seen[c] = true
		out = append(out, c)
	}
	if len(out) == 0 {
		return append([]string(nil), task.DefaultCategories...)
	}
	return out
}

func (s *Settings) BasePath() string {
	return s.Path
}

func (s *Settings) Backend() string {
	return s.StoreKind
}

// KnownCategory reports whether c is one of the configured categories.
func (s *Settings) KnownCategory(c string) bool {
	for _, known := range s.Categories {
		if known == c {
			return true
		}
	}
	return false
}
