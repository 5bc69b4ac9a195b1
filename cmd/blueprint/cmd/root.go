package cmd

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/cwbudde/blueprint/internal/obslog"
)

var (
	// Version information (set by build flags)
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "blueprint",
	Short: "Blueprint scripting runtime",
	Long: `blueprint runs programs written against the Blueprint engine: a
Python/Starlark-flavored language with a cooperative asynchronous
scheduler, capability-based permissions, and serve/cron/interval
background triggers.

blueprint accepts a serialized AST (JSON) rather than source text; the
lexer and parser that produce that tree live outside this binary.`,
	Version:       Version,
	SilenceUsage:  true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose {
			obslog.SetLevel(zerolog.DebugLevel)
		} else {
			obslog.SetLevel(zerolog.InfoLevel)
		}
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose logging")
}
