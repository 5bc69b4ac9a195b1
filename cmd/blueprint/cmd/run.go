package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/eval"
	"github.com/cwbudde/blueprint/internal/native"
	"github.com/cwbudde/blueprint/internal/obslog"
	"github.com/cwbudde/blueprint/internal/permission"
	"github.com/cwbudde/blueprint/internal/scope"
	"github.com/cwbudde/blueprint/internal/trigger"
	"github.com/cwbudde/blueprint/internal/value"
)

var (
	permissionsFile string
	allowAll        bool
	interactive     bool
)

var runCmd = &cobra.Command{
	Use:   "run <ast.json>",
	Short: "Run a program from its serialized AST",
	Long: `run loads a JSON-encoded AST document and executes it. This engine
accepts no source text directly (spec'd front-end work is out of scope
for this binary); produce the AST with an external lexer/parser and feed
its output here.

If the program registers any serve/cron/interval triggers, run blocks
until every trigger is stopped (by the program itself, or by Ctrl+C)
before exiting.`,
	Args: cobra.ExactArgs(1),
	RunE: runProgram,
}

func init() {
	runCmd.Flags().StringVar(&permissionsFile, "permissions", "", "path to a permissions policy YAML file (default: deny everything)")
	runCmd.Flags().BoolVar(&allowAll, "allow-all", false, "grant every capability without prompting (overrides --permissions)")
	runCmd.Flags().BoolVar(&interactive, "interactive", false, "prompt on ask-policy rules instead of denying them")
	rootCmd.AddCommand(runCmd)
}

func runProgram(cmd *cobra.Command, args []string) error {
	path := args[0]

	data, err := os.ReadFile(path)
	if err != nil {
		return berrors.NewIoError(path, err.Error())
	}

	prog, err := decodeProgram(data)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}

	perms, err := loadPermissions()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = permission.WithPermissions(ctx, perms, interactive)

	registry := trigger.New()
	e := eval.New()
	native.Register(e, registry)

	e.CurrentFile = path
	sc := scope.NewGlobal()

	abs, absErr := filepath.Abs(path)
	if absErr != nil {
		abs = path
	}
	sc.Define("__file__", value.NewString(abs))

	argv := make([]value.Value, 0, len(args))
	argv = append(argv, value.NewString(path))
	for _, a := range args[1:] {
		argv = append(argv, value.NewString(a))
	}
	sc.Define("argv", value.NewList(argv))

	if _, err := e.Run(ctx, prog, sc); err != nil {
		if sig, ok := berrors.AsSignal(err, "exit"); ok {
			code, _ := sig.Payload.(int)
			return waitForTriggers(ctx, registry, exitError(code))
		}
		return waitForTriggers(ctx, registry, fmt.Errorf("%s: %s", path, err))
	}

	return waitForTriggers(ctx, registry, nil)
}

// ExitError lets runProgram propagate a script's exit() code through
// cobra's error return; main.go type-asserts on it to pick the process
// exit status instead of always exiting 1.
type ExitError int

func (e ExitError) Error() string { return fmt.Sprintf("exit(%d)", int(e)) }

func exitError(code int) error {
	if code == 0 {
		return nil
	}
	return ExitError(code)
}

func waitForTriggers(ctx context.Context, registry *trigger.Registry, runErr error) error {
	if len(registry.List()) > 0 {
		obslog.Info().Int("count", len(registry.List())).Msg("active triggers, waiting for shutdown")
		registry.Wait(ctx)
	}
	return runErr
}

func loadPermissions() (*permission.Permissions, error) {
	if allowAll {
		return permission.All(), nil
	}
	if permissionsFile == "" {
		return permission.None(), nil
	}
	perms, err := permission.LoadPolicy(permissionsFile)
	if err != nil {
		return nil, fmt.Errorf("loading permissions file %s: %w", permissionsFile, err)
	}
	return perms, nil
}
