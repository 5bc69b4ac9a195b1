package native

import (
	"context"
	"os/exec"
	"runtime"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/permission"
	"github.com/cwbudde/blueprint/internal/value"
)

// processModule ports the reference engine's process.rs: run() dispatches
// to a shell when given a string and to a direct argv exec when given a
// list (the Open Question resolution recorded in DESIGN.md), shell()
// always goes through the host shell, and env/set_env round out the
// module the way modules/process.rs::get_functions does.
func processModule() map[string]*value.NativeFunction {
	return map[string]*value.NativeFunction{
		"run":    nf("run", processRun),
		"shell":  nf("shell", processShell),
		"env":    nf("env", processEnv),
		"getenv": nf("getenv", processEnv),
		"setenv": nf("setenv", processSetEnv),
		"set_env": nf("set_env", processSetEnv),
	}
}

func processRun(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, berrors.NewArgumentError("process.run() takes exactly 1 argument (%d given)", len(args))
	}

	switch cmd := args[0].(type) {
	case *value.String:
		return runShell(ctx, cmd.Go(), kwargs)
	case *value.List:
		items := cmd.Snapshot()
		if len(items) == 0 {
			return nil, berrors.NewArgumentError("run() requires at least one command argument")
		}
		argv := make([]string, len(items))
		for i, it := range items {
			argv[i] = it.Display()
		}
		if err := permission.CheckProcessRun(ctx, argv[0]); err != nil {
			return nil, err
		}
		return runCommand(argv[0], argv[1:], kwargs)
	default:
		return nil, berrors.NewTypeError("list or string", value.TypeName(args[0]))
	}
}

func processShell(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) != 1 {
		return nil, berrors.NewArgumentError("process.shell() takes exactly 1 argument (%d given)", len(args))
	}
	cmdStr, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	return runShell(ctx, cmdStr, kwargs)
}

func runShell(ctx context.Context, cmdStr string, kwargs map[string]value.Value) (value.Value, error) {
	if err := permission.CheckProcessShell(ctx); err != nil {
		return nil, err
	}
	shell, flag := "sh", "-c"
	if runtime.GOOS == "windows" {
		shell, flag = "cmd", "/C"
	}
	result, err := runCommand(shell, []string{flag, cmdStr}, kwargs)
	if err != nil {
		return nil, berrors.NewProcessError("%s: %s", cmdStr, err.Error())
	}
	return result, nil
}

func runCommand(program string, args []string, kwargs map[string]value.Value) (value.Value, error) {
	cmd := exec.Command(program, args...)

	if cwd, ok := kwargs["cwd"]; ok {
		cmd.Dir = cwd.Display()
	}
	if envVal, ok := kwargs["env"]; ok {
		d, ok := envVal.(*value.Dict)
		if !ok {
			return nil, berrors.NewTypeError("dict", value.TypeName(envVal))
		}
		for _, entry := range d.Items() {
			cmd.Env = append(cmd.Env, entry.Key+"="+entry.Value.Display())
		}
	}

	var stdout, stderr []byte
	outPipe, err := cmd.StdoutPipe()
	if err != nil {
		return nil, berrors.NewProcessError("%s: %s", program, err.Error())
	}
	errPipe, err := cmd.StderrPipe()
	if err != nil {
		return nil, berrors.NewProcessError("%s: %s", program, err.Error())
	}

	if err := cmd.Start(); err != nil {
		return nil, berrors.NewProcessError("%s: %s", program, err.Error())
	}
	stdout, _ = readAll(outPipe)
	stderr, _ = readAll(errPipe)
	waitErr := cmd.Wait()

	code := 0
	if waitErr != nil {
		if exitErr, ok := waitErr.(*exec.ExitError); ok {
			code = exitErr.ExitCode()
		} else {
			return nil, berrors.NewProcessError("%s: %s", program, waitErr.Error())
		}
	}

	return &value.ProcessResult{
		Code:   int64(code),
		Stdout: string(stdout),
		Stderr: string(stderr),
	}, nil
}

func readAll(r interface{ Read([]byte) (int, error) }) ([]byte, error) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := r.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			return buf, nil
		}
	}
}
