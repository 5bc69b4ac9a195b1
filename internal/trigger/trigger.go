// Package trigger implements the long-lived trigger registry of spec
// §4.6: named background HTTP servers, cron jobs, and intervals, each
// carrying a one-shot shutdown signal, with graceful shutdown ordering
// (spec §4.8's Registered → Running → Stopping → Removed state machine).
//
// Grounded on the reference engine's triggers.rs; ported to net/http (HTTP
// server), github.com/robfig/cron/v3 (cron scheduling, pulled in from the
// `rakunlabs-at` sibling example per SPEC_FULL.md §B), and time.Ticker
// (interval). Handle IDs use github.com/google/uuid, also sourced from
// that sibling example.
package trigger

import (
	"context"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/robfig/cron/v3"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/jsonvalue"
	"github.com/cwbudde/blueprint/internal/obslog"
	"github.com/cwbudde/blueprint/internal/value"
)

// Kind distinguishes the three trigger flavors spec §4.6 names.
type Kind string

const (
	KindHTTP     Kind = "http"
	KindCron     Kind = "cron"
	KindInterval Kind = "interval"
)

// Caller invokes a Blueprint callable from native code; natives
// registering a trigger supply this bound to the Evaluator that created
// them, so this package has no dependency on internal/eval.
type Caller func(ctx context.Context, fn value.Value, args []value.Value) (value.Value, error)

// Handle is the opaque, richer trigger identity of SPEC_FULL.md §C.3:
// an ID plus kind-specific descriptive fields, all of which
// ToDict exposes for the `triggers()`/`stop()` natives.
type Handle struct {
	ID       string
	Kind     Kind
	Host     string   // http
	Routes   []string // http: "METHOD /path" entries
	Schedule string   // cron
	Seconds  float64  // interval
}

// ToDict renders the handle the way `triggers.rs::handle_to_value` does:
// a dict with `id`, `type`, and type-specific fields.
func (h *Handle) ToDict() *value.Dict {
	d := value.NewDict()
	d.Set("id", value.NewString(h.ID))
	d.Set("type", value.NewString(string(h.Kind)))
	switch h.Kind {
	case KindHTTP:
		d.Set("host", value.NewString(h.Host))
		routes := make([]value.Value, len(h.Routes))
		for i, r := range h.Routes {
			routes[i] = value.NewString(r)
		}
		d.Set("routes", value.NewList(routes))
	case KindCron:
		d.Set("schedule", value.NewString(h.Schedule))
	case KindInterval:
		d.Set("seconds", value.Float(h.Seconds))
	}
	return d
}

type entry struct {
	handle   *Handle
	stop     chan struct{}
	stopOnce sync.Once
}

func (e *entry) signalStop() {
	e.stopOnce.Do(func() { close(e.stop) })
}

// Registry is the process-wide table of active triggers (spec §4.6),
// guarded by a single read-write lock held only for registration, lookup,
// and removal (spec §5's shared-resource policy).
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
	wg      sync.WaitGroup
}

// New constructs an empty registry.
func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

func (r *Registry) add(e *entry) {
	r.mu.Lock()
	r.entries[e.handle.ID] = e
	r.mu.Unlock()
	r.wg.Add(1)
}

// remove is called by a trigger's own background task once it has
// actually exited (the Stopping→Removed transition of spec §4.8), not at
// the moment Stop() is requested.
func (r *Registry) remove(id string) {
	r.mu.Lock()
	delete(r.entries, id)
	r.mu.Unlock()
	r.wg.Done()
}

// RegisterHTTP starts an HTTP server bound to addr, dispatching each
// configured "METHOD /path" route to its Blueprint handler (spec §4.6).
func (r *Registry) RegisterHTTP(addr string, routes map[string]value.Value, call Caller) (*Handle, error) {
	mux := http.NewServeMux()
	routeList := make([]string, 0, len(routes))
	for pattern, handlerFn := range routes {
		method, path, ok := strings.Cut(pattern, " ")
		if !ok {
			return nil, berrors.NewArgumentError("http route %q must be \"METHOD /path\"", pattern)
		}
		routeList = append(routeList, pattern)
		fn := handlerFn
		mux.HandleFunc(path, func(w http.ResponseWriter, req *http.Request) {
			if req.Method != method {
				http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
				return
			}
			reqDict, err := buildRequestDict(req)
			if err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			result, err := call(req.Context(), fn, []value.Value{reqDict})
			if err != nil {
				obslog.Warn().Err(err).Str("path", path).Msg("http trigger handler failed")
				http.Error(w, err.Error(), http.StatusInternalServerError)
				return
			}
			if err := writeResponse(w, result); err != nil {
				obslog.Warn().Err(err).Str("path", path).Msg("http trigger response encoding failed")
			}
		})
	}

	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, berrors.NewIoError(addr, err.Error())
	}

	h := &Handle{ID: uuid.NewString(), Kind: KindHTTP, Host: addr, Routes: routeList}
	e := &entry{handle: h, stop: make(chan struct{})}
	r.add(e)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		<-e.stop
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = srv.Shutdown(shutdownCtx)
	}()
	go func() {
		defer r.remove(h.ID)
		obslog.Info().Str("id", h.ID).Str("addr", addr).Msg("http trigger listening")
		if err := srv.Serve(ln); err != nil && err != http.ErrServerClosed {
			obslog.Error().Err(err).Str("id", h.ID).Msg("http trigger server error")
		}
	}()

	return h, nil
}

func buildRequestDict(req *http.Request) (*value.Dict, error) {
	d := value.NewDict()
	d.Set("method", value.NewString(req.Method))
	d.Set("path", value.NewString(req.URL.Path))

	query := value.NewDict()
	for k, vs := range req.URL.Query() {
		if len(vs) > 0 {
			query.Set(k, value.NewString(vs[0]))
		}
	}
	d.Set("query", query)

	headers := value.NewDict()
	for k, vs := range req.Header {
		headers.Set(strings.ToLower(k), value.NewString(strings.Join(vs, ", ")))
	}
	d.Set("headers", headers)

	body := make([]byte, 0)
	if req.Body != nil {
		buf := make([]byte, 32*1024)
		for {
			n, err := req.Body.Read(buf)
			if n > 0 {
				body = append(body, buf[:n]...)
			}
			if err != nil {
				break
			}
		}
	}
	d.Set("body", value.NewString(string(body)))
	return d, nil
}

// writeResponse interprets a handler's return value per spec §6.3: a
// String is a 200 with that body; a Dict carrying status/body is used
// explicitly; any other Dict or List is JSON-encoded with a 200; None is
// a 204.
func writeResponse(w http.ResponseWriter, result value.Value) error {
	switch v := result.(type) {
	case nil:
		w.WriteHeader(http.StatusNoContent)
		return nil
	case *value.String:
		w.WriteHeader(http.StatusOK)
		_, err := w.Write([]byte(v.Go()))
		return err
	case *value.Dict:
		status, hasStatus := v.Get("status")
		body, hasBody := v.Get("body")
		if hasStatus || hasBody {
			code := http.StatusOK
			if hasStatus {
				if n, err := value.AsInt(status); err == nil {
					code = int(n)
				}
			}
			w.WriteHeader(code)
			if hasBody {
				if s, ok := body.(*value.String); ok {
					_, err := w.Write([]byte(s.Go()))
					return err
				}
				enc, err := jsonvalue.Encode(body)
				if err != nil {
					return err
				}
				_, err = w.Write([]byte(enc))
				return err
			}
			return nil
		}
		enc, err := jsonvalue.Encode(v)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, err = w.Write([]byte(enc))
		return err
	default:
		if result == value.None {
			w.WriteHeader(http.StatusNoContent)
			return nil
		}
		enc, err := jsonvalue.Encode(result)
		if err != nil {
			return err
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, err = w.Write([]byte(enc))
		return err
	}
}

// RegisterCron schedules fn on a standard five-field cron expression
// (spec §4.6).
func (r *Registry) RegisterCron(expr string, fn value.Value, call Caller) (*Handle, error) {
	c := cron.New()
	_, err := c.AddFunc(expr, func() {
		if _, err := call(context.Background(), fn, nil); err != nil {
			obslog.Warn().Err(err).Str("schedule", expr).Msg("cron trigger invocation failed")
		}
	})
	if err != nil {
		return nil, berrors.NewValueError("invalid cron expression %q: %s", expr, err.Error())
	}

	h := &Handle{ID: uuid.NewString(), Kind: KindCron, Schedule: expr}
	e := &entry{handle: h, stop: make(chan struct{})}
	r.add(e)

	c.Start()
	go func() {
		defer r.remove(h.ID)
		<-e.stop
		stopCtx := c.Stop()
		<-stopCtx.Done()
	}()

	return h, nil
}

// RegisterInterval fires fn every period seconds, after an initial tick
// (spec §4.6).
func (r *Registry) RegisterInterval(seconds float64, fn value.Value, call Caller) (*Handle, error) {
	if seconds <= 0 {
		return nil, berrors.NewValueError("interval seconds must be positive")
	}

	h := &Handle{ID: uuid.NewString(), Kind: KindInterval, Seconds: seconds}
	e := &entry{handle: h, stop: make(chan struct{})}
	r.add(e)

	go func() {
		defer r.remove(h.ID)
		ticker := time.NewTicker(time.Duration(seconds * float64(time.Second)))
		defer ticker.Stop()
		for {
			select {
			case <-e.stop:
				return
			case <-ticker.C:
				if _, err := call(context.Background(), fn, nil); err != nil {
					obslog.Warn().Err(err).Str("id", h.ID).Msg("interval trigger invocation failed")
				}
			}
		}
	}()

	return h, nil
}

// Stop sends the one-shot shutdown signal for id; the background task
// finishes pending work and removes itself (spec §4.8's Stopping state).
// Stopping an unknown or already-stopped id is a no-op.
func (r *Registry) Stop(id string) {
	r.mu.RLock()
	e, ok := r.entries[id]
	r.mu.RUnlock()
	if ok {
		e.signalStop()
	}
}

// StopAll signals every currently registered trigger.
func (r *Registry) StopAll() {
	r.mu.RLock()
	snapshot := make([]*entry, 0, len(r.entries))
	for _, e := range r.entries {
		snapshot = append(snapshot, e)
	}
	r.mu.RUnlock()
	for _, e := range snapshot {
		e.signalStop()
	}
}

// Running reports whether id is still registered.
func (r *Registry) Running(id string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[id]
	return ok
}

// List returns every currently registered handle.
func (r *Registry) List() []*Handle {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Handle, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.handle)
	}
	return out
}

// Wait blocks until every registered trigger has been removed (spec
// §2's "the runtime blocks until the trigger registry is empty before
// exit") or ctx is canceled.
func (r *Registry) Wait(ctx context.Context) {
	done := make(chan struct{})
	go func() {
		r.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-ctx.Done():
	}
}
