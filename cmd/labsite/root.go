package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// envPrefix is the prefix of environment variables that set flags.
const envPrefix = "LABSITE"

// NewRootCmd creates the root command for labsite.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "labsite",
		Short: "Build and serve an academic homepage",
		Long: `labsite renders a personal or laboratory homepage from two JSON documents:
a configuration document with the profile and research directions, and a
publications document.

It serves the page interactively, builds a static snapshot of it, and keeps
the publications in sync with ORCID.

Every flag can also be set through the environment as LABSITE_<FLAG>, with
dashes replaced by underscores (e.g. LABSITE_CONFIG_DOC).`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return bindEnv(cmd)
		},
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")
	cmd.PersistentFlags().Bool("log-json", false, "Write logs as JSON lines")
	cmd.PersistentFlags().StringP("config", "c", "",
		"Project file path (default: .labsite in current or home directory)")

	// Add subcommands
	cmd.AddCommand(NewServeCmd())
	cmd.AddCommand(NewBuildCmd())
	cmd.AddCommand(NewPreviewCmd())
	cmd.AddCommand(NewSyncCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// bindEnv sets every flag the user did not pass from its LABSITE_ variable.
// Flags set this way count as changed, so they override the project file.
func bindEnv(cmd *cobra.Command) error {
	v := viper.New()
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Changed || !v.IsSet(f.Name) {
			return
		}
		if err := cmd.Flags().Set(f.Name, v.GetString(f.Name)); err != nil {
			errs = append(errs, fmt.Errorf("invalid value for %s_%s: %w",
				envPrefix, strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_")), err))
		}
	})
	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
