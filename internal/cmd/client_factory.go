package cmd

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/aanbieders/aanbieders-cli/internal/api"
	"github.com/aanbieders/aanbieders-cli/internal/config"
	"github.com/aanbieders/aanbieders-cli/internal/debug"
	"github.com/aanbieders/aanbieders-cli/internal/outfmt"
	"github.com/aanbieders/aanbieders-cli/internal/session"
)

// resolveConfig merges the global flags, settings and stored profile.
func resolveConfig(cmd *cobra.Command) (config.Resolved, error) {
	return config.Resolve(config.Overrides{
		Key:      flags.Key,
		Secret:   flags.Secret,
		Host:     flags.Host,
		Output:   flags.Output,
		Timeout:  flags.Timeout,
		RedisURL: flags.RedisURL,
		Profile:  flags.Profile,
	}, settingsFromContext(cmd.Context()))
}

// outputMode picks how the client decodes bodies for the active format.
func outputMode(cmd *cobra.Command) api.OutputMode {
	if !outfmt.NeedsParsedResponse(cmd.Context()) {
		return api.OutputRaw
	}
	if flags.Ordered {
		return api.OutputMap
	}
	return api.OutputObject
}

// newClient builds an API client for the command. The returned cleanup
// releases the tracking store connection and is never nil.
func newClient(cmd *cobra.Command) (*api.Client, func(), error) {
	ctx := cmd.Context()
	noop := func() {}

	resolved, err := resolveConfig(cmd)
	if err != nil {
		return nil, noop, err
	}

	store, cleanup, err := trackingStore(cmd, resolved)
	if err != nil {
		return nil, noop, err
	}

	client, err := api.New(ctx, api.Config{
		Credentials: api.Credentials{Key: resolved.Key, Secret: resolved.Secret},
		BaseHost:    resolved.Host,
		Output:      outputMode(cmd),
		Timeout:     resolved.Timeout,
		UserAgent:   "aanbieders-cli/" + version,
		Tracking:    store,
		IP:          session.StaticIP(flags.IP),
	})
	if err != nil {
		cleanup()
		return nil, noop, err
	}
	if debug.IsEnabled(ctx) {
		slog.Debug("client ready",
			"host", client.BaseHost(),
			"profile", resolved.Profile,
			"source", string(resolved.Source),
			"mode", client.OutputMode().String(),
		)
	}
	return client, cleanup, nil
}

// trackingStore returns where the abcid lives: Redis when a URL is
// configured, otherwise a file in the user config directory.
func trackingStore(cmd *cobra.Command, resolved config.Resolved) (session.Store, func(), error) {
	noop := func() {}
	if flags.NoTracking {
		return nil, noop, nil
	}

	if resolved.RedisURL != "" {
		rdb, err := session.NewRedisClient(resolved.RedisURL)
		if err != nil {
			return nil, noop, &api.ConfigError{Field: "redis_url", Reason: err.Error()}
		}
		return session.NewRedisStore(rdb, resolved.Profile), func() { _ = rdb.Close() }, nil
	}

	path, err := session.DefaultPath()
	if err != nil {
		if debug.IsEnabled(cmd.Context()) {
			slog.Debug("no tracking file location", "error", err)
		}
		return nil, noop, nil
	}
	return session.NewFileStore(path), noop, nil
}
