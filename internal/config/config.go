// Package config stores API credentials in the OS keyring and resolves the
// effective client settings from flags, environment, config file and the
// active profile.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strings"

	"github.com/99designs/keyring"
)

const (
	serviceName       = "aanbieders"
	defaultProfile    = "default"
	profilePrefix     = "profile:"
	profileIndexKey   = "profiles_index"
	currentProfileKey = "current_profile"

	envKeyringBackend  = "AB_KEYRING_BACKEND"
	envKeyringPassword = "AB_KEYRING_PASSWORD"
	envCredentialsDir  = "AB_CREDENTIALS_DIR"
)

// openKeyring can be replaced in tests, see SetOpenKeyring.
var openKeyring = func(cfg keyring.Config) (keyring.Keyring, error) {
	return keyring.Open(cfg)
}

var userConfigDir = os.UserConfigDir

var stdinHasTTY = func() bool {
	info, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (info.Mode() & os.ModeCharDevice) != 0
}

// SetOpenKeyring replaces the keyring opener and returns a function that
// restores the previous one.
func SetOpenKeyring(fn func(keyring.Config) (keyring.Keyring, error)) func() {
	original := openKeyring
	openKeyring = fn
	return func() { openKeyring = original }
}

// Profile holds the API credentials stored under one profile name.
type Profile struct {
	Key    string `json:"key"`
	Secret string `json:"secret"`
	Host   string `json:"host,omitempty"`
}

// ErrNotConfigured is returned when no credentials are available
var ErrNotConfigured = errors.New("aanbieders not configured - run 'ab auth login' or set AANBIEDERS_KEY and AANBIEDERS_SECRET")

func keyringConfig() keyring.Config {
	cfg := keyring.Config{ServiceName: serviceName}

	backend := strings.ToLower(firstNonBlankEnv(envKeyringBackend))
	switch backend {
	case "system", "os", "native":
		return cfg
	}

	cfg.FileDir = keyringFileDir()
	cfg.FilePasswordFunc = keyringFilePassword

	// Headless Linux has no secret service, go straight to the encrypted file.
	if backend == "file" || (runtime.GOOS == "linux" && strings.TrimSpace(os.Getenv("DBUS_SESSION_BUS_ADDRESS")) == "") {
		cfg.AllowedBackends = []keyring.BackendType{keyring.FileBackend}
	}
	return cfg
}

func keyringFileDir() string {
	base := firstNonBlankEnv(envCredentialsDir)
	if base == "" {
		if dir, err := userConfigDir(); err == nil && strings.TrimSpace(dir) != "" {
			base = filepath.Join(dir, serviceName)
		}
	}
	if base == "" {
		base = filepath.Join(os.TempDir(), serviceName)
	}
	return filepath.Join(base, "keyring")
}

func keyringFilePassword(prompt string) (string, error) {
	if password, ok := os.LookupEnv(envKeyringPassword); ok && strings.TrimSpace(password) != "" {
		return password, nil
	}
	if !stdinHasTTY() {
		return "", fmt.Errorf("set %s when using file keyring in non-interactive environments", envKeyringPassword)
	}
	return keyring.TerminalPrompt(prompt)
}

func firstNonBlankEnv(keys ...string) string {
	for _, key := range keys {
		if trimmed := strings.TrimSpace(os.Getenv(key)); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func profileKey(name string) string {
	if name == "" {
		name = defaultProfile
	}
	return profilePrefix + name
}

func openRing() (keyring.Keyring, error) {
	ring, err := openKeyring(keyringConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to open keyring: %w", err)
	}
	return ring, nil
}

func loadProfileIndex(ring keyring.Keyring) ([]string, error) {
	item, err := ring.Get(profileIndexKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return []string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile index: %w", err)
	}
	var profiles []string
	if err := json.Unmarshal(item.Data, &profiles); err != nil {
		return nil, fmt.Errorf("failed to unmarshal profile index: %w", err)
	}
	return profiles, nil
}

func saveProfileIndex(ring keyring.Keyring, profiles []string) error {
	data, err := json.Marshal(profiles)
	if err != nil {
		return fmt.Errorf("failed to marshal profile index: %w", err)
	}
	return ring.Set(keyring.Item{Key: profileIndexKey, Data: data})
}

// SaveProfile stores credentials under a named profile and makes it current.
func SaveProfile(name string, p Profile) error {
	if name == "" {
		name = defaultProfile
	}
	ring, err := openRing()
	if err != nil {
		return err
	}

	data, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("failed to marshal profile: %w", err)
	}
	if err := ring.Set(keyring.Item{Key: profileKey(name), Data: data}); err != nil {
		return fmt.Errorf("failed to save profile: %w", err)
	}

	profiles, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	if !slices.Contains(profiles, name) {
		profiles = append(profiles, name)
		if err := saveProfileIndex(ring, profiles); err != nil {
			return err
		}
	}
	return ring.Set(keyring.Item{Key: currentProfileKey, Data: []byte(name)})
}

// LoadProfile returns the credentials stored under name.
func LoadProfile(name string) (Profile, error) {
	ring, err := openRing()
	if err != nil {
		return Profile{}, err
	}

	item, err := ring.Get(profileKey(name))
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return Profile{}, ErrNotConfigured
	}
	if err != nil {
		return Profile{}, fmt.Errorf("failed to get profile: %w", err)
	}

	var p Profile
	if err := json.Unmarshal(item.Data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to unmarshal profile: %w", err)
	}
	return p, nil
}

// DeleteProfile removes a stored profile. When it was current, the first
// remaining profile becomes current.
func DeleteProfile(name string) error {
	if name == "" {
		name = defaultProfile
	}
	ring, err := openRing()
	if err != nil {
		return err
	}

	if err := ring.Remove(profileKey(name)); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return fmt.Errorf("failed to remove profile: %w", err)
	}

	profiles, err := loadProfileIndex(ring)
	if err != nil {
		return err
	}
	remaining := slices.DeleteFunc(profiles, func(p string) bool { return p == name })
	if err := saveProfileIndex(ring, remaining); err != nil {
		return err
	}

	current, err := CurrentProfile()
	if err == nil && current == name {
		next := defaultProfile
		if len(remaining) > 0 {
			next = remaining[0]
		}
		return SetCurrentProfile(next)
	}
	return nil
}

// ListProfiles returns the known profile names in creation order.
func ListProfiles() ([]string, error) {
	ring, err := openRing()
	if err != nil {
		return nil, err
	}
	return loadProfileIndex(ring)
}

// CurrentProfile returns the active profile name.
func CurrentProfile() (string, error) {
	ring, err := openRing()
	if err != nil {
		return "", err
	}

	item, err := ring.Get(currentProfileKey)
	if errors.Is(err, keyring.ErrKeyNotFound) {
		return defaultProfile, nil
	}
	if err != nil {
		return "", fmt.Errorf("failed to get current profile: %w", err)
	}
	return string(item.Data), nil
}

// SetCurrentProfile sets the active profile name.
func SetCurrentProfile(name string) error {
	if name == "" {
		name = defaultProfile
	}
	ring, err := openRing()
	if err != nil {
		return err
	}
	return ring.Set(keyring.Item{Key: currentProfileKey, Data: []byte(name)})
}
