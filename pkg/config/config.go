// Package config persists the console's session state: API URL, current
// user, last-used account, and the token pair. The console never writes
// credentials outside this package.
package config

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/fincon/fincon/pkg/api"
)

const (
	dirName  = ".fincon"
	fileName = "config.yaml"
)

type fileModel struct {
	URL          string            `yaml:"url"`
	User         api.Object        `yaml:"user"`
	Account      api.Object        `yaml:"account"`
	AccessTokens map[string]string `yaml:"access_tokens"` // keyed by account id
	RefreshToken string            `yaml:"refresh_token"`
}

// Config is the persisted console state. It satisfies api.CredentialStore,
// so the HTTP client reads and rotates tokens through it directly. Client
// commands run in concurrent goroutines, so every access to the state goes
// through the mutex.
type Config struct {
	mu   sync.Mutex
	path string
	data fileModel
}

// Load reads the config file under the user's home directory. A missing
// file yields an unconfigured Config, not an error.
func Load() (*Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return LoadFrom(filepath.Join(home, dirName, fileName))
}

// LoadFrom reads the config from an explicit path.
func LoadFrom(path string) (*Config, error) {
	cfg := &Config{path: path, data: fileModel{AccessTokens: map[string]string{}}}
	raw, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, err
	}
	if err := yaml.Unmarshal(raw, &cfg.data); err != nil {
		return nil, err
	}
	if cfg.data.AccessTokens == nil {
		cfg.data.AccessTokens = map[string]string{}
	}
	return cfg, nil
}

// IsConfigured reports whether a prior login has been persisted.
func (c *Config) IsConfigured() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.URL != "" && c.data.RefreshToken != ""
}

func (c *Config) URL() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.URL
}

func (c *Config) User() api.Object {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.User
}

func (c *Config) Account() api.Object {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.Account
}

// SetURL overrides the API root in memory only, for environment
// overrides that should not be persisted.
func (c *Config) SetURL(url string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.URL = url
}

// SetSession stores the outcome of a login in one write.
func (c *Config) SetSession(url string, user, account api.Object, access, refresh string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.URL = url
	c.data.User = user
	c.data.Account = account
	c.data.AccessTokens[objectID(account)] = access
	c.data.RefreshToken = refresh
	return c.save()
}

// SetAccount records an account switch. Token rotation happens separately
// through SetTokens.
func (c *Config) SetAccount(account api.Object) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.Account = account
	return c.save()
}

// --- api.CredentialStore ---

func (c *Config) AccessToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.AccessTokens[c.accountID()]
}

func (c *Config) RefreshToken() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.data.RefreshToken
}

func (c *Config) AccountID() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.accountID()
}

func (c *Config) accountID() string { return objectID(c.data.Account) }

func (c *Config) SetTokens(access, refresh string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data.AccessTokens[c.accountID()] = access
	c.data.RefreshToken = refresh
	// Persist failures here are non-fatal: the in-memory pair stays valid
	// for the rest of the process.
	_ = c.save()
}

// Delete wipes the persisted state (logout).
func (c *Config) Delete() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data = fileModel{AccessTokens: map[string]string{}}
	err := os.Remove(c.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

func (c *Config) save() error {
	if err := os.MkdirAll(filepath.Dir(c.path), 0o700); err != nil {
		return err
	}
	raw, err := yaml.Marshal(c.data)
	if err != nil {
		return err
	}
	return os.WriteFile(c.path, raw, 0o600)
}

func objectID(obj api.Object) string {
	id, _ := obj["id"].(string)
	return id
}
