package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/aanbieders/aanbieders-cli/internal/api"
	"github.com/aanbieders/aanbieders-cli/internal/config"
	"github.com/aanbieders/aanbieders-cli/internal/outfmt"
	"github.com/aanbieders/aanbieders-cli/internal/validation"
)

func newAuthCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "auth",
		Short: "Manage stored API credentials",
	}
	cmd.AddCommand(newAuthLoginCmd())
	cmd.AddCommand(newAuthStatusCmd())
	cmd.AddCommand(newAuthLogoutCmd())
	cmd.AddCommand(newAuthListCmd())
	cmd.AddCommand(newAuthUseCmd())
	return cmd
}

func newAuthLoginCmd() *cobra.Command {
	var secretStdin bool
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Store API credentials in the keyring",
		Example: `  ab auth login --key my-key --secret my-secret
  printf '%s' "$SECRET" | ab auth login --key my-key --secret-stdin --profile staging`,
		Args: cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			settings := settingsFromContext(cmd.Context())
			key := firstNonEmpty(flags.Key, settings.Key)
			secret := firstNonEmpty(flags.Secret, settings.Secret)
			if secretStdin {
				line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
				if err != nil && line == "" {
					return fmt.Errorf("failed to read secret from stdin: %w", err)
				}
				secret = strings.TrimSpace(line)
			}
			if key == "" {
				return &api.ConfigError{Field: "key", Reason: "is required (use --key)"}
			}
			if secret == "" {
				return &api.ConfigError{Field: "secret", Reason: "is required (use --secret or --secret-stdin)"}
			}

			host := strings.TrimRight(firstNonEmpty(flags.Host, settings.Host), "/")
			if host != "" {
				if err := validation.ValidateBaseHost(host); err != nil {
					return &api.ConfigError{Field: "host", Reason: err.Error()}
				}
			}

			name := firstNonEmpty(flags.Profile, settings.Profile)
			if err := config.SaveProfile(name, config.Profile{Key: key, Secret: secret, Host: host}); err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}
			newFormatter(cmd).Note(fmt.Sprintf("Saved credentials to profile %q", current))
			return nil
		}),
	}
	cmd.Flags().BoolVar(&secretStdin, "secret-stdin", false, "Read the secret from stdin")
	return cmd
}

func newAuthStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show which credentials would be used",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			resolved, err := resolveConfig(cmd)
			if err != nil {
				return err
			}
			host := resolved.Host
			if host == "" {
				host = api.DefaultBaseHost
			}

			status := api.NewMap()
			status.Set("profile", resolved.Profile)
			status.Set("source", string(resolved.Source))
			status.Set("key", maskKey(resolved.Key))
			status.Set("host", host)
			if resolved.RedisURL != "" {
				status.Set("tracking", "redis")
			} else {
				status.Set("tracking", "file")
			}

			f := newFormatter(cmd)
			if outfmt.FormatFromContext(cmd.Context()) == outfmt.Raw && outfmt.GetQuery(cmd.Context()) == "" {
				for _, k := range status.Keys() {
					v, _ := status.Get(k)
					f.Line("%-9s %v", k+":", v)
				}
				return nil
			}
			return f.Output(status)
		}),
	}
}

func newAuthLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Remove a stored profile",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			name := flags.Profile
			if name == "" {
				current, err := config.CurrentProfile()
				if err != nil {
					return err
				}
				name = current
			}
			if _, err := config.LoadProfile(name); err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					return fmt.Errorf("profile %q not found", name)
				}
				return err
			}
			if err := config.DeleteProfile(name); err != nil {
				return err
			}
			newFormatter(cmd).Note(fmt.Sprintf("Removed profile %q", name))
			return nil
		}),
	}
}

func newAuthListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored profiles",
		Args:  cobra.NoArgs,
		RunE: RunE(func(cmd *cobra.Command, _ []string) error {
			profiles, err := config.ListProfiles()
			if err != nil {
				return err
			}
			current, err := config.CurrentProfile()
			if err != nil {
				return err
			}

			f := newFormatter(cmd)
			if outfmt.FormatFromContext(cmd.Context()) == outfmt.Raw && outfmt.GetQuery(cmd.Context()) == "" {
				if len(profiles) == 0 {
					f.Note("No profiles stored. Run: ab auth login")
					return nil
				}
				for _, name := range profiles {
					marker := " "
					if name == current {
						marker = "*"
					}
					f.Line("%s %s", marker, name)
				}
				return nil
			}
			items := make([]any, len(profiles))
			for i, name := range profiles {
				items[i] = map[string]any{"name": name, "current": name == current}
			}
			return f.Output(items)
		}),
	}
}

func newAuthUseCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "use <profile>",
		Short: "Make a stored profile the current one",
		Args:  cobra.ExactArgs(1),
		RunE: RunE(func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if _, err := config.LoadProfile(name); err != nil {
				if errors.Is(err, config.ErrNotConfigured) {
					profiles, _ := config.ListProfiles()
					if suggestion := suggestName(name, profiles); suggestion != "" {
						return fmt.Errorf("profile %q not found (did you mean %q?)", name, suggestion)
					}
					return fmt.Errorf("profile %q not found", name)
				}
				return err
			}
			if err := config.SetCurrentProfile(name); err != nil {
				return err
			}
			newFormatter(cmd).Note(fmt.Sprintf("Now using profile %q", name))
			return nil
		}),
	}
}

// maskKey keeps the first and last two characters of a key.
func maskKey(key string) string {
	if len(key) <= 4 {
		return strings.Repeat("*", len(key))
	}
	return key[:2] + strings.Repeat("*", len(key)-4) + key[len(key)-2:]
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
