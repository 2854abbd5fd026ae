package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/toyz/delegate/internal/cli"
	"github.com/toyz/delegate/internal/config"
	"github.com/toyz/delegate/internal/utils"
)

const examples = `  delegate ./...                                  # Scan everything recursively
  delegate ./internal/family                      # Scan one package
  delegate --dry-run ./...                        # Print units instead of writing them
  delegate --inline-directive //go:noinline ./... # Custom directive for -Inline members
  delegate clean ./...                            # Delete all generated units`

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:   "delegate [flags] <directory-paths...>",
		Short: "Delegate forwarding code generator",
		Long: "Scans Go packages for struct members marked //delegate::to and generates\n" +
			"forwarding methods, getters and setters on the containing type.\n\n" +
			"Directories support Go-style patterns: ./... scans recursively.",
		Example:       examples,
		Args:          cobra.MinimumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runGenerate,
	}
	root.SetOut(out)
	root.SetErr(errOut)

	persistent := root.PersistentFlags()
	persistent.String("config", config.DefaultFile, "Path to the configuration file")
	persistent.BoolP("verbose", "v", false, "Enable verbose output and detailed error reporting")
	persistent.BoolP("quiet", "q", false, "Only show errors")
	root.MarkFlagsMutuallyExclusive("verbose", "quiet")

	flags := root.Flags()
	flags.String("module", "", "Module path to use instead of the one in go.mod")
	flags.StringSlice("tags", nil, "Build tags used when loading packages")
	flags.Bool("strict", false, "Fail on forwarded name collisions")
	flags.Bool("dry-run", false, "Print generated units instead of writing them")
	flags.String("inline-directive", "", "Directive emitted above forwarders of -Inline members")

	root.AddCommand(newCleanCmd())
	return root
}

func newCleanCmd() *cobra.Command {
	return &cobra.Command{
		Use:          "clean <directory-paths...>",
		Short:        "Delete all generated units from the specified directories",
		Args:         cobra.MinimumNArgs(1),
		SilenceUsage: true,
		RunE:         runClean,
	}
}

func runGenerate(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	reporter := newReporter(cmd, verbose)

	settings, err := loadSettings(cmd)
	if err != nil {
		reporter.ReportError(err)
		return err
	}

	diagnostics := newDiagnostics(cmd, settings)
	diagnostics.Section("Delegate Code Generator")
	if verbose {
		diagnostics.Subsection("Configuration")
		diagnostics.List("Target directories: %s", strings.Join(args, ", "))
		if settings.Module != "" {
			diagnostics.List("Custom module: %s", settings.Module)
		}
		diagnostics.List("Inline directive: %s", settings.InlineDirective)
		diagnostics.List("Strict: %t", settings.Strict)
	}

	generator := cli.NewGenerator(diagnostics)
	err = generator.Run(cmd.Context(), cli.Config{
		Directories: args,
		Settings:    settings,
		Output:      cmd.OutOrStdout(),
	})
	if err != nil {
		reporter.ReportError(err)
		return err
	}

	if diagnostics.Level() >= utils.DiagnosticInfo {
		reporter.ReportSuccess(generator.GetSummary())
	}
	return nil
}

func runClean(cmd *cobra.Command, args []string) error {
	verbose, _ := cmd.Flags().GetBool("verbose")
	reporter := newReporter(cmd, verbose)

	settings, err := loadSettings(cmd)
	if err != nil {
		reporter.ReportError(err)
		return err
	}

	diagnostics := newDiagnostics(cmd, settings)
	diagnostics.StartProgress("Cleaning generated files")
	removed, err := cli.NewGenerator(diagnostics).Clean(settings, args)
	if err != nil {
		diagnostics.EndProgress(false, "")
		reporter.ReportError(err)
		return err
	}
	diagnostics.EndProgress(true, "")
	diagnostics.Success("Removed %d generated units", len(removed))
	return nil
}

// loadSettings merges defaults, the config file, DELEGATE_* variables and
// the flags the user actually set
func loadSettings(cmd *cobra.Command) (*config.Config, error) {
	file, _ := cmd.Flags().GetString("config")
	required := cmd.Flags().Changed("config")
	return config.NewLoader().Load(file, required, flagOverrides(cmd.Flags()))
}

// flagOverrides maps changed flags onto configuration keys
func flagOverrides(flags *pflag.FlagSet) map[string]any {
	overrides := make(map[string]any)

	keys := map[string]string{
		"module":           "module",
		"tags":             "tags",
		"strict":           "strict",
		"dry-run":          "dry_run",
		"inline-directive": "inline_directive",
	}
	flags.Visit(func(f *pflag.Flag) {
		key, ok := keys[f.Name]
		if !ok {
			return
		}
		switch f.Value.Type() {
		case "bool":
			overrides[key], _ = flags.GetBool(f.Name)
		case "stringSlice":
			overrides[key], _ = flags.GetStringSlice(f.Name)
		default:
			overrides[key] = f.Value.String()
		}
	})

	if verbose, _ := flags.GetBool("verbose"); verbose {
		overrides["log_level"] = "verbose"
	}
	if quiet, _ := flags.GetBool("quiet"); quiet {
		overrides["log_level"] = "error"
	}
	return overrides
}

func newDiagnostics(cmd *cobra.Command, settings *config.Config) *utils.DiagnosticSystem {
	level := utils.ParseDiagnosticLevel(settings.LogLevel)
	if cmd.OutOrStdout() == os.Stdout {
		return utils.NewDiagnosticSystem(level)
	}
	return utils.NewBufferedDiagnostics(level, cmd.OutOrStdout())
}

func newReporter(cmd *cobra.Command, verbose bool) *cli.DiagnosticReporter {
	if cmd.ErrOrStderr() == os.Stderr {
		return cli.NewDiagnosticReporter(verbose)
	}
	return cli.NewDiagnosticReporterTo(verbose, cmd.OutOrStdout(), cmd.ErrOrStderr())
}
