package trigger

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/cwbudde/blueprint/internal/value"
)

func echoCaller(_ context.Context, fn value.Value, args []value.Value) (value.Value, error) {
	if s, ok := fn.(*value.String); ok {
		return s, nil
	}
	if len(args) > 0 {
		return args[0], nil
	}
	return value.None, nil
}

func TestRegisterHTTPRoutesAndResponds(t *testing.T) {
	r := New()
	handler := value.NewString("hello")
	h, err := r.RegisterHTTP("127.0.0.1:0", map[string]value.Value{"GET /ping": handler}, echoCaller)
	if err != nil {
		t.Fatalf("RegisterHTTP: %v", err)
	}
	if h.Kind != KindHTTP {
		t.Errorf("Kind = %v, want http", h.Kind)
	}
	if !r.Running(h.ID) {
		t.Error("expected handle to be registered immediately")
	}

	d := h.ToDict()
	if ty, _ := d.Get("type"); ty.(*value.String).Go() != "http" {
		t.Errorf("ToDict type = %v, want http", ty)
	}

	r.Stop(h.ID)
	waitUntilRemoved(t, r, h.ID)
}

func TestHTTPHandlerDispatchesRequestDict(t *testing.T) {
	r := New()
	addr := "127.0.0.1:18731"
	var captured value.Value
	caller := func(_ context.Context, fn value.Value, args []value.Value) (value.Value, error) {
		if len(args) > 0 {
			captured = args[0]
		}
		return value.NewString("ok"), nil
	}

	h, err := r.RegisterHTTP(addr, map[string]value.Value{"GET /echo": value.None}, caller)
	if err != nil {
		t.Fatalf("RegisterHTTP: %v", err)
	}
	defer func() {
		r.Stop(h.ID)
		waitUntilRemoved(t, r, h.ID)
	}()

	time.Sleep(20 * time.Millisecond)
	resp, err := http.Get("http://" + addr + "/echo?x=1")
	if err != nil {
		t.Fatalf("GET: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("body = %q, want ok", body)
	}

	reqDict, ok := captured.(*value.Dict)
	if !ok {
		t.Fatal("expected handler to receive a request dict")
	}
	query, _ := reqDict.Get("query")
	qd, ok := query.(*value.Dict)
	if !ok {
		t.Fatal("expected query to be a dict")
	}
	xv, _ := qd.Get("x")
	if xv.(*value.String).Go() != "1" {
		t.Errorf("query.x = %v, want 1", xv)
	}
}

func TestRegisterIntervalFiresAndStops(t *testing.T) {
	r := New()
	count := make(chan struct{}, 10)
	fn := value.NewString("tick")
	caller := func(_ context.Context, _ value.Value, _ []value.Value) (value.Value, error) {
		count <- struct{}{}
		return value.None, nil
	}

	h, err := r.RegisterInterval(0.01, fn, caller)
	if err != nil {
		t.Fatalf("RegisterInterval: %v", err)
	}

	select {
	case <-count:
	case <-time.After(time.Second):
		t.Fatal("interval never fired")
	}

	r.Stop(h.ID)
	waitUntilRemoved(t, r, h.ID)
}

func TestRegisterIntervalRejectsNonPositive(t *testing.T) {
	r := New()
	if _, err := r.RegisterInterval(0, value.None, echoCaller); err == nil {
		t.Error("expected an error for a non-positive interval")
	}
}

func TestRegisterCronRejectsInvalidExpression(t *testing.T) {
	r := New()
	if _, err := r.RegisterCron("not a cron expr", value.None, echoCaller); err == nil {
		t.Error("expected an error for an invalid cron expression")
	}
}

func TestStopAllRemovesEveryTrigger(t *testing.T) {
	r := New()
	h1, err := r.RegisterInterval(10, value.None, echoCaller)
	if err != nil {
		t.Fatalf("RegisterInterval: %v", err)
	}
	h2, err := r.RegisterInterval(10, value.None, echoCaller)
	if err != nil {
		t.Fatalf("RegisterInterval: %v", err)
	}

	if len(r.List()) != 2 {
		t.Fatalf("List() len = %d, want 2", len(r.List()))
	}

	r.StopAll()
	waitUntilRemoved(t, r, h1.ID)
	waitUntilRemoved(t, r, h2.ID)

	if len(r.List()) != 0 {
		t.Errorf("List() len = %d, want 0 after StopAll", len(r.List()))
	}
}

func TestWaitReturnsOnceRegistryIsEmpty(t *testing.T) {
	r := New()
	h, err := r.RegisterInterval(10, value.None, echoCaller)
	if err != nil {
		t.Fatalf("RegisterInterval: %v", err)
	}
	r.Stop(h.ID)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	r.Wait(ctx)

	if ctx.Err() != nil {
		t.Error("Wait did not return before context deadline")
	}
}

func waitUntilRemoved(t *testing.T, r *Registry, id string) {
	t.Helper()
	deadline := time.Now().Add(time.Second)
	for time.Now().Before(deadline) {
		if !r.Running(id) {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("trigger %s was never removed", id)
}
