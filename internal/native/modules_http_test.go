package native

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/cwbudde/blueprint/internal/value"
)

func TestHTTPGetReturnsStatusAndBody(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Test", "yes")
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("i am a teapot"))
	}))
	defer srv.Close()

	mod := httpModule()
	v, err := mod["get"].Call(context.Background(), []value.Value{value.NewString(srv.URL)}, nil)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	resp, ok := v.(*value.HTTPResponse)
	if !ok {
		t.Fatalf("get() = %T, want *value.HTTPResponse", v)
	}
	if resp.Status != http.StatusTeapot {
		t.Errorf("status = %d, want %d", resp.Status, http.StatusTeapot)
	}
	if resp.Body != "i am a teapot" {
		t.Errorf("body = %q, want %q", resp.Body, "i am a teapot")
	}
	header, ok := resp.Headers.Get("x-test")
	if !ok || header.(*value.String).Go() != "yes" {
		t.Errorf("headers[x-test] = %v, want yes", header)
	}
}

func TestHTTPPostSendsBody(t *testing.T) {
	var receivedBody string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		buf := make([]byte, 1024)
		n, _ := r.Body.Read(buf)
		receivedBody = string(buf[:n])
		w.WriteHeader(http.StatusCreated)
	}))
	defer srv.Close()

	mod := httpModule()
	_, err := mod["post"].Call(context.Background(), []value.Value{value.NewString(srv.URL)}, map[string]value.Value{
		"body": value.NewString(`{"ok":true}`),
	})
	if err != nil {
		t.Fatalf("post: %v", err)
	}
	if receivedBody != `{"ok":true}` {
		t.Errorf("server received body = %q, want %q", receivedBody, `{"ok":true}`)
	}
}

func TestHTTPRequestMergesPositionalBodyAndHeaders(t *testing.T) {
	var gotHeader string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotHeader = r.Header.Get("X-Custom")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	headers := value.NewDict()
	headers.Set("X-Custom", value.NewString("abc"))

	mod := httpModule()
	_, err := mod["request"].Call(context.Background(), []value.Value{
		value.NewString("get"),
		value.NewString(srv.URL),
		value.None,
		headers,
	}, nil)
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if gotHeader != "abc" {
		t.Errorf("received X-Custom header = %q, want abc", gotHeader)
	}
}
