package cmd

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/aanbieders/aanbieders-cli/internal/config"
	"github.com/aanbieders/aanbieders-cli/internal/debug"
	"github.com/aanbieders/aanbieders-cli/internal/outfmt"
)

// rootFlags holds global CLI flags
type rootFlags struct {
	Output     string
	Ordered    bool
	Query      string
	Compact    bool
	Debug      bool
	Timeout    time.Duration
	Host       string
	Key        string
	Secret     string
	Profile    string
	Config     string
	EnvFile    string
	RedisURL   string
	IP         string
	NoTracking bool
}

// flags holds the global command flags. It is reset at the start of every
// Execute call; reading it outside a command's RunE sees the previous run.
var flags = rootFlags{Ordered: true}

type settingsKey struct{}

func withSettings(ctx context.Context, s config.Settings) context.Context {
	return context.WithValue(ctx, settingsKey{}, s)
}

func settingsFromContext(ctx context.Context) config.Settings {
	s, _ := ctx.Value(settingsKey{}).(config.Settings)
	return s
}

// Execute runs the root command
func Execute(ctx context.Context, args []string) error {
	flags = rootFlags{Ordered: true}
	streams := streamsFromContext(ctx)

	root := &cobra.Command{
		Use:                "ab",
		Short:              "CLI for the Aanbieders comparison and contracting API",
		SilenceUsage:       true,
		SilenceErrors:      true,
		DisableSuggestions: true, // did-you-mean comes from enhanceUnknownError
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			if err := config.LoadDotEnv(flags.EnvFile); err != nil {
				return err
			}
			settings, err := config.LoadSettings(flags.Config)
			if err != nil {
				return err
			}
			ctx = withSettings(ctx, settings)

			output := flags.Output
			if !cmd.Flags().Changed("output") && settings.Output != "" {
				output = settings.Output
			}
			format, err := outfmt.Parse(strings.ToLower(strings.TrimSpace(output)))
			if err != nil {
				if suggestion := suggestName(output, outfmt.Names); suggestion != "" {
					return fmt.Errorf("%w (did you mean %q?)", err, suggestion)
				}
				return err
			}
			ctx = outfmt.WithFormat(ctx, format)
			ctx = outfmt.WithCompact(ctx, flags.Compact)
			if flags.Query != "" {
				ctx = outfmt.WithQuery(ctx, flags.Query)
			}

			debug.SetupLoggerTo(cmd.ErrOrStderr(), flags.Debug)
			ctx = debug.WithDebug(ctx, flags.Debug)

			if flags.Timeout < 0 {
				return fmt.Errorf("--timeout must be >= 0")
			}

			cmd.SetContext(ctx)
			return nil
		},
	}

	root.SetContext(ctx)
	root.SetArgs(args)
	root.SetIn(streams.In)
	root.SetOut(streams.Out)
	root.SetErr(streams.ErrOut)

	pf := root.PersistentFlags()
	pf.StringVarP(&flags.Output, "output", "o", "raw", "Output format: raw|json|yaml (env AANBIEDERS_OUTPUT)")
	pf.BoolVar(&flags.Ordered, "ordered", true, "Keep response key order when re-encoding")
	pf.StringVarP(&flags.Query, "query", "q", "", "JQ expression to filter output (implies parsing the response; object keys are sorted in the result)")
	pf.BoolVar(&flags.Compact, "compact-json", false, "Compact JSON output (no indentation)")
	pf.BoolVar(&flags.Debug, "debug", false, "Enable debug logging")
	pf.DurationVar(&flags.Timeout, "timeout", 0, "HTTP request timeout (e.g., 30s, 2m)")
	pf.StringVar(&flags.Host, "host", "", "API base URL (env AANBIEDERS_HOST)")
	pf.StringVar(&flags.Key, "key", "", "API key (env AANBIEDERS_KEY)")
	pf.StringVar(&flags.Secret, "secret", "", "API secret (env AANBIEDERS_SECRET)")
	pf.StringVar(&flags.Profile, "profile", "", "Stored credential profile (env AANBIEDERS_PROFILE)")
	pf.StringVar(&flags.Config, "config", "", "Config file (default $XDG_CONFIG_HOME/aanbieders/config.yaml)")
	pf.StringVar(&flags.EnvFile, "env-file", "", "Load environment variables from this file (default ./.env)")
	pf.StringVar(&flags.RedisURL, "redis-url", "", "Keep the tracking id in Redis instead of a local file (env AANBIEDERS_REDIS_URL)")
	pf.StringVar(&flags.IP, "ip", "", "End-user IP address sent with every request")
	pf.BoolVar(&flags.NoTracking, "no-tracking", false, "Send an empty tracking id")

	root.AddCommand(newAuthCmd())
	root.AddCommand(newUsagesCmd())
	root.AddCommand(newCompareCmd())
	root.AddCommand(newComparisonCmd())
	root.AddCommand(newProductsCmd())
	root.AddCommand(newOrderCmd())
	root.AddCommand(newSuppliersCmd())
	root.AddCommand(newOptionsCmd())
	root.AddCommand(newAffiliatesCmd())
	root.AddCommand(newPromotionsCmd())
	root.AddCommand(newReviewsCmd())
	root.AddCommand(newContractCmd())
	root.AddCommand(newDnbCmd())
	root.AddCommand(newDualfuelCmd())
	root.AddCommand(newEANCmd())
	root.AddCommand(newRoutesCmd())
	root.AddCommand(newVersionCmd())

	targetCmd, err := root.ExecuteC()
	if err != nil {
		if !errors.Is(err, errAlreadyHandled) {
			_, _ = fmt.Fprintln(root.ErrOrStderr(), enhanceUnknownError(err, root, targetCmd))
		}
		return err
	}
	return nil
}

// enhanceUnknownError adds "did you mean?" suggestions to unknown command/flag errors.
func enhanceUnknownError(err error, root *cobra.Command, targetCmd *cobra.Command) string {
	msg := err.Error()

	if strings.Contains(msg, "unknown command") {
		if unknown := extractQuoted(msg); unknown != "" {
			parent := root
			if targetCmd != nil {
				parent = targetCmd
			}
			var names []string
			for _, c := range parent.Commands() {
				if c.IsAvailableCommand() {
					names = append(names, c.Name())
					names = append(names, c.Aliases...)
				}
			}
			if suggestion := suggestName(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	if strings.Contains(msg, "unknown flag") || strings.Contains(msg, "unknown shorthand flag") {
		if unknown := extractFlag(msg); unknown != "" {
			cmd := root
			if targetCmd != nil {
				cmd = targetCmd
			}
			var names []string
			add := func(fs *pflag.FlagSet) {
				fs.VisitAll(func(f *pflag.Flag) {
					names = append(names, "--"+f.Name)
				})
			}
			add(cmd.Flags())
			add(cmd.InheritedFlags())
			if suggestion := suggestFlag(unknown, names); suggestion != "" {
				return fmt.Sprintf("%s\n\nDid you mean %q?", msg, suggestion)
			}
		}
	}

	return msg
}

// extractQuoted returns the first double-quoted substring in msg.
func extractQuoted(msg string) string {
	start := strings.IndexByte(msg, '"')
	if start < 0 {
		return ""
	}
	end := strings.IndexByte(msg[start+1:], '"')
	if end < 0 {
		return ""
	}
	return msg[start+1 : start+1+end]
}

// extractFlag returns the flag named in a pflag error such as
// "unknown flag: --outptu".
func extractFlag(msg string) string {
	idx := strings.Index(msg, ": ")
	if idx < 0 {
		return ""
	}
	fields := strings.Fields(msg[idx+2:])
	if len(fields) == 0 {
		return ""
	}
	return strings.Trim(fields[0], "'\"")
}
