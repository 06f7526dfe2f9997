// Command polyglot translates text, Markdown, HTML and JSON documents while
// keeping their structure intact.
package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/ZaguanLabs/polyglot"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// Build-time variables (can be overridden with ldflags)
var (
	version   = polyglot.Version
	commit    = polyglot.GitCommit
	buildDate = polyglot.BuildDate
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	root := newRootCmd(stdout, stderr)
	root.SetArgs(args)
	return root.ExecuteContext(ctx)
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	opts := &globalOptions{}

	root := &cobra.Command{
		Use:   polyglot.Name,
		Short: polyglot.Description,
		Long: `polyglot translates documents into several languages at once.

Translatable fragments are extracted from plain text, Markdown, HTML and JSON,
sent to a translation backend (OpenAI, Gemini, LibreTranslate), and spliced
back into an otherwise untouched copy of the document. One output file is
written per target language: guide.md -> guide_sk.md, guide_de.md, ...

Settings come from a YAML file (--config), a .env file and POLYGLOT_*
environment variables, in increasing order of precedence.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	addGlobalFlags(root.PersistentFlags(), opts)

	root.AddCommand(
		newTranslateCmd(opts),
		newExtractCmd(),
		newDiffCmd(),
		newCacheCmd(opts),
		newVersionCmd(),
	)

	return root
}

func addGlobalFlags(fs *pflag.FlagSet, opts *globalOptions) {
	fs.StringVarP(&opts.configPath, "config", "c", "", "Path to a YAML config file")
	fs.StringVar(&opts.envFile, "env-file", ".env", "Path to a .env file (skipped if missing)")
	fs.StringVar(&opts.logLevel, "log-level", "", "Override the configured log level")
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%s %s\n", polyglot.Name, version)
			if commit != "unknown" && commit != "" {
				fmt.Fprintf(out, "  commit:  %s\n", commit)
			}
			if buildDate != "unknown" && buildDate != "" {
				fmt.Fprintf(out, "  built:   %s\n", buildDate)
			}
		},
	}
}
