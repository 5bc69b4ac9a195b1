package native

import (
	"context"
	"sync"
	"time"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/value"
)

// registerParallel wires the concurrency surface of natives/parallel.rs
// (parallel, a bare global) and modules/task.rs (task, module-scoped),
// grounded on the reference engine's two crates. parallel spawns every
// callable in its argument concurrently and gathers results indexed by
// submission order, the exact case value.List's interior lock exists to
// serve; task runs a single callable under an optional deadline.
func registerParallel(call callFn) *value.NativeFunction {
	return nf("parallel", parallelFn(call))
}

func taskModule(call callFn) map[string]*value.NativeFunction {
	return map[string]*value.NativeFunction{
		"task": nf("task", taskFn(call)),
	}
}

func parallelFn(call callFn) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, berrors.NewArgumentError("parallel() takes exactly 1 argument (%d given)", len(args))
		}
		jobs, err := asCallableSeq(args[0])
		if err != nil {
			return nil, err
		}
		if len(jobs) == 0 {
			return value.NewList(nil), nil
		}

		results := make([]value.Value, len(jobs))
		errs := make([]error, len(jobs))
		var wg sync.WaitGroup
		wg.Add(len(jobs))
		for i, fn := range jobs {
			go func(i int, fn value.Value) {
				defer wg.Done()
				v, err := call(ctx, fn, nil)
				if err != nil {
					errs[i] = err
					return
				}
				results[i] = v
			}(i, fn)
		}
		wg.Wait()

		for _, err := range errs {
			if err != nil {
				return nil, err
			}
		}
		return value.NewList(results), nil
	}
}

func asCallableSeq(v value.Value) ([]value.Value, error) {
	switch vv := v.(type) {
	case *value.List:
		return vv.Snapshot(), nil
	case *value.Tuple:
		return vv.Items(), nil
	default:
		return nil, berrors.NewTypeError("list or tuple of callables", value.TypeName(v))
	}
}

func taskFn(call callFn) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, berrors.NewArgumentError("task.task() takes exactly 1 argument (%d given)", len(args))
		}
		fn := args[0]

		maxWaitVal, hasMaxWait := kwargs["max_wait"]
		waitUntilVal, hasWaitUntil := kwargs["wait_until"]
		if hasMaxWait && hasWaitUntil {
			return nil, berrors.NewArgumentError("task.task() accepts max_wait or wait_until, not both")
		}

		var deadline time.Time
		hasDeadline := false
		if hasMaxWait {
			seconds, err := value.AsFloat(maxWaitVal)
			if err != nil {
				return nil, err
			}
			if seconds < 0 {
				return nil, berrors.NewValueError("task.task(): max_wait must not be negative")
			}
			deadline = time.Now().Add(time.Duration(seconds * float64(time.Second)))
			hasDeadline = true
		}
		if hasWaitUntil {
			seconds, err := value.AsFloat(waitUntilVal)
			if err != nil {
				return nil, err
			}
			deadline = time.Unix(0, int64(seconds*float64(time.Second)))
			hasDeadline = true
		}

		if hasDeadline && !time.Now().Before(deadline) {
			return deadlinePassedResult(), nil
		}

		start := time.Now()
		if !hasDeadline {
			v, err := call(ctx, fn, nil)
			if err != nil {
				return nil, err
			}
			return taskResult(v, time.Since(start)), nil
		}

		runCtx, cancel := context.WithDeadline(ctx, deadline)
		defer cancel()

		type outcome struct {
			v   value.Value
			err error
		}
		done := make(chan outcome, 1)
		go func() {
			v, err := call(runCtx, fn, nil)
			done <- outcome{v, err}
		}()

		select {
		case o := <-done:
			elapsed := time.Since(start)
			if o.err != nil {
				return nil, o.err
			}
			return taskResult(o.v, elapsed), nil
		case <-runCtx.Done():
			return taskTimeoutResult(time.Since(start)), nil
		}
	}
}

func deadlinePassedResult() *value.Dict {
	d := value.NewDict()
	d.Set("value", value.None)
	d.Set("success", value.Bool(false))
	d.Set("reason", value.NewString("deadline_passed"))
	return d
}

func taskTimeoutResult(elapsed time.Duration) *value.Dict {
	d := value.NewDict()
	d.Set("value", value.None)
	d.Set("success", value.Bool(false))
	d.Set("reason", value.NewString("timeout"))
	d.Set("elapsed", value.Float(elapsed.Seconds()))
	return d
}

func taskResult(v value.Value, elapsed time.Duration) *value.Dict {
	d := value.NewDict()
	d.Set("value", v)
	d.Set("success", value.Bool(true))
	d.Set("elapsed", value.Float(elapsed.Seconds()))
	return d
}
