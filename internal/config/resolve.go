package config

import (
	"errors"
	"strings"
	"time"
)

// Overrides are values given on the command line. Empty fields are unset.
type Overrides struct {
	Key      string
	Secret   string
	Host     string
	Output   string
	Timeout  time.Duration
	RedisURL string
	Profile  string
}

// Source names where the credentials were found.
type Source string

const (
	SourceFlags   Source = "flags"
	SourceEnv     Source = "environment"
	SourceProfile Source = "profile"
)

// Resolved is the effective client configuration.
type Resolved struct {
	Profile  string
	Key      string
	Secret   string
	Host     string
	Output   string
	Timeout  time.Duration
	RedisURL string
	Source   Source
}

// Resolve merges flags, settings and the keyring profile, in that order of
// precedence. Missing credentials yield ErrNotConfigured; the rest of the
// result is still filled in.
func Resolve(flags Overrides, settings Settings) (Resolved, error) {
	r := Resolved{
		Profile:  first(flags.Profile, settings.Profile),
		Host:     first(flags.Host, settings.Host),
		Output:   first(flags.Output, settings.Output),
		RedisURL: first(flags.RedisURL, settings.RedisURL),
		Timeout:  flags.Timeout,
	}
	if r.Timeout <= 0 {
		r.Timeout = settings.Timeout
	}

	switch {
	case flags.Key != "" && flags.Secret != "":
		r.Key, r.Secret, r.Source = flags.Key, flags.Secret, SourceFlags
	case first(flags.Key, settings.Key) != "" && first(flags.Secret, settings.Secret) != "":
		r.Key = first(flags.Key, settings.Key)
		r.Secret = first(flags.Secret, settings.Secret)
		r.Source = SourceEnv
	}

	if r.Profile == "" {
		current, err := CurrentProfile()
		if err != nil {
			current = defaultProfile
		}
		r.Profile = current
	}

	if r.Source == "" || r.Host == "" {
		p, err := LoadProfile(r.Profile)
		if err != nil && !errors.Is(err, ErrNotConfigured) {
			if r.Source == "" {
				return r, err
			}
		}
		if err == nil {
			if r.Source == "" {
				r.Key = first(flags.Key, settings.Key, p.Key)
				r.Secret = first(flags.Secret, settings.Secret, p.Secret)
				r.Source = SourceProfile
			}
			r.Host = first(r.Host, p.Host)
		}
	}

	if r.Key == "" || r.Secret == "" {
		return r, ErrNotConfigured
	}
	return r, nil
}

func first(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
