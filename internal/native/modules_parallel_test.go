package native

import (
	"context"
	"sync"
	"testing"
	"time"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/value"
)

// testCall adapts a plain Go function into the callFn shape parallel/task
// expect, without going through internal/eval, mirroring how the existing
// trigger tests stub out Caller invocation.
func testCall() callFn {
	return func(ctx context.Context, fn value.Value, args []value.Value) (value.Value, error) {
		nfn, ok := fn.(*value.NativeFunction)
		if !ok {
			return nil, berrors.NewNotCallable(value.TypeName(fn))
		}
		return nfn.Call(ctx, args, nil)
	}
}

func nativeCallable(name string, f value.NativeFn) *value.NativeFunction {
	return nf(name, f)
}

func TestParallelGathersInSubmissionOrder(t *testing.T) {
	call := testCall()
	order := []int{5, 1, 4, 2, 3}
	jobs := make([]value.Value, len(order))
	for i, delayMs := range order {
		delayMs := delayMs
		jobs[i] = nativeCallable("job", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
			time.Sleep(time.Duration(delayMs) * time.Millisecond)
			return value.Int(delayMs), nil
		})
	}

	fn := parallelFn(call)
	result, err := fn(context.Background(), []value.Value{value.NewList(jobs)}, nil)
	if err != nil {
		t.Fatalf("parallel(): %v", err)
	}
	list, ok := result.(*value.List)
	if !ok {
		t.Fatalf("parallel() = %T, want *value.List", result)
	}
	got := list.Snapshot()
	if len(got) != len(order) {
		t.Fatalf("len(result) = %d, want %d", len(got), len(order))
	}
	for i, want := range order {
		if int64(got[i].(value.Int)) != int64(want) {
			t.Errorf("result[%d] = %v, want %d", i, got[i], want)
		}
	}
}

func TestParallelEmptyListReturnsEmptyList(t *testing.T) {
	fn := parallelFn(testCall())
	result, err := fn(context.Background(), []value.Value{value.NewList(nil)}, nil)
	if err != nil {
		t.Fatalf("parallel(): %v", err)
	}
	if result.(*value.List).Len() != 0 {
		t.Errorf("expected empty list")
	}
}

func TestParallelPropagatesFirstError(t *testing.T) {
	jobs := []value.Value{
		nativeCallable("ok", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
			return value.None, nil
		}),
		nativeCallable("bad", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
			return nil, berrors.NewUserError("boom")
		}),
	}
	fn := parallelFn(testCall())
	_, err := fn(context.Background(), []value.Value{value.NewList(jobs)}, nil)
	if err == nil {
		t.Fatal("expected an error from the failing task")
	}
}

// TestParallelConcurrentListMutationIsSafe exercises the shared-list
// scenario parallel exists to serve: two parallel() calls each spawning
// four appenders onto the same list must not race or panic.
func TestParallelConcurrentListMutationIsSafe(t *testing.T) {
	xs := value.NewList([]value.Value{value.Int(0), value.Int(0), value.Int(0)})
	call := testCall()
	fn := parallelFn(call)

	appender := func() value.Value {
		return nativeCallable("append", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
			xs.Append(value.Int(1))
			return value.None, nil
		})
	}
	batch := func() []value.Value {
		jobs := make([]value.Value, 4)
		for i := range jobs {
			jobs[i] = appender()
		}
		return jobs
	}

	var wg sync.WaitGroup
	wg.Add(2)
	for i := 0; i < 2; i++ {
		go func() {
			defer wg.Done()
			if _, err := fn(context.Background(), []value.Value{value.NewList(batch())}, nil); err != nil {
				t.Errorf("parallel(): %v", err)
			}
		}()
	}
	wg.Wait()

	if xs.Len() != 11 {
		t.Errorf("len(xs) = %d, want 11", xs.Len())
	}
}

func TestTaskRunsSynchronouslyWithoutDeadline(t *testing.T) {
	call := testCall()
	fn := taskFn(call)
	job := nativeCallable("job", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		return value.NewString("done"), nil
	})
	result, err := fn(context.Background(), []value.Value{job}, nil)
	if err != nil {
		t.Fatalf("task(): %v", err)
	}
	d := result.(*value.Dict)
	success, _ := d.Get("success")
	if success != value.Bool(true) {
		t.Errorf("success = %v, want true", success)
	}
	v, _ := d.Get("value")
	if v.(*value.String).Go() != "done" {
		t.Errorf("value = %v, want done", v)
	}
}

func TestTaskTimesOutUnderMaxWait(t *testing.T) {
	call := testCall()
	fn := taskFn(call)
	job := nativeCallable("slow", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		select {
		case <-time.After(200 * time.Millisecond):
			return value.None, nil
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	})
	result, err := fn(context.Background(), []value.Value{job}, map[string]value.Value{
		"max_wait": value.Float(0.01),
	})
	if err != nil {
		t.Fatalf("task(): %v", err)
	}
	d := result.(*value.Dict)
	success, _ := d.Get("success")
	if success != value.Bool(false) {
		t.Errorf("success = %v, want false", success)
	}
	reason, _ := d.Get("reason")
	if reason.(*value.String).Go() != "timeout" {
		t.Errorf("reason = %v, want timeout", reason)
	}
}

func TestTaskPastWaitUntilReturnsDeadlinePassed(t *testing.T) {
	call := testCall()
	fn := taskFn(call)
	job := nativeCallable("job", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		t.Fatal("job should not run once its deadline has already passed")
		return value.None, nil
	})
	past := float64(time.Now().Add(-time.Hour).UnixNano()) / float64(time.Second)
	result, err := fn(context.Background(), []value.Value{job}, map[string]value.Value{
		"wait_until": value.Float(past),
	})
	if err != nil {
		t.Fatalf("task(): %v", err)
	}
	d := result.(*value.Dict)
	reason, _ := d.Get("reason")
	if reason.(*value.String).Go() != "deadline_passed" {
		t.Errorf("reason = %v, want deadline_passed", reason)
	}
}

func TestTaskRejectsBothMaxWaitAndWaitUntil(t *testing.T) {
	call := testCall()
	fn := taskFn(call)
	job := nativeCallable("job", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		return value.None, nil
	})
	_, err := fn(context.Background(), []value.Value{job}, map[string]value.Value{
		"max_wait":   value.Float(1),
		"wait_until": value.Float(1),
	})
	if err == nil {
		t.Fatal("expected an error when both max_wait and wait_until are given")
	}
}

func TestTaskRejectsNegativeMaxWait(t *testing.T) {
	call := testCall()
	fn := taskFn(call)
	job := nativeCallable("job", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		return value.None, nil
	})
	_, err := fn(context.Background(), []value.Value{job}, map[string]value.Value{
		"max_wait": value.Float(-1),
	})
	if err == nil {
		t.Fatal("expected an error for a negative max_wait")
	}
}

func TestTaskPropagatesCallableError(t *testing.T) {
	call := testCall()
	fn := taskFn(call)
	job := nativeCallable("bad", func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		return nil, berrors.NewUserError("boom")
	})
	_, err := fn(context.Background(), []value.Value{job}, nil)
	if err == nil {
		t.Fatal("expected the callable's error to propagate")
	}
}
