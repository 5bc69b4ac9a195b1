package native

import (
	"context"
	"io"
	"net/http"
	"strings"
	"time"

	berrors "github.com/cwbudde/blueprint/internal/errors"
	"github.com/cwbudde/blueprint/internal/permission"
	"github.com/cwbudde/blueprint/internal/value"
)

// httpModule ports the reference engine's modules/http.rs http_request
// function (non-streaming path; streaming responses are out of scope for
// this port, see DESIGN.md) over net/http, permission-gated by
// permission.CheckHTTP.
func httpModule() map[string]*value.NativeFunction {
	return map[string]*value.NativeFunction{
		"request": nf("request", httpRequestFn),
		"get":     nf("get", httpMethodFn("GET")),
		"post":    nf("post", httpMethodFn("POST")),
		"put":     nf("put", httpMethodFn("PUT")),
		"delete":  nf("delete", httpMethodFn("DELETE")),
	}
}

func httpMethodFn(method string) value.NativeFn {
	return func(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
		if len(args) != 1 {
			return nil, berrors.NewArgumentError("http.%s() takes exactly 1 argument (%d given)", strings.ToLower(method), len(args))
		}
		return doRequest(ctx, method, args[0], kwargs)
	}
}

func httpRequestFn(ctx context.Context, args []value.Value, kwargs map[string]value.Value) (value.Value, error) {
	if len(args) < 2 || len(args) > 4 {
		return nil, berrors.NewArgumentError("http.request() takes 2 to 4 arguments (%d given)", len(args))
	}
	method, err := value.AsString(args[0])
	if err != nil {
		return nil, err
	}
	if len(args) >= 3 && args[2] != value.None {
		kwargs = mergeKwarg(kwargs, "body", args[2])
	}
	if len(args) == 4 {
		kwargs = mergeKwarg(kwargs, "headers", args[3])
	}
	return doRequest(ctx, strings.ToUpper(method), args[1], kwargs)
}

func mergeKwarg(kwargs map[string]value.Value, key string, v value.Value) map[string]value.Value {
	out := make(map[string]value.Value, len(kwargs)+1)
	for k, kv := range kwargs {
		out[k] = kv
	}
	out[key] = v
	return out
}

func doRequest(ctx context.Context, method string, urlVal value.Value, kwargs map[string]value.Value) (value.Value, error) {
	url, err := value.AsString(urlVal)
	if err != nil {
		return nil, err
	}
	if err := permission.CheckHTTP(ctx, url); err != nil {
		return nil, err
	}

	var body io.Reader
	if b, ok := kwargs["body"]; ok && b != value.None {
		body = strings.NewReader(b.Display())
	}

	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, berrors.NewHttpError("%s", err.Error())
	}

	if h, ok := kwargs["headers"]; ok {
		d, ok := h.(*value.Dict)
		if !ok {
			return nil, berrors.NewTypeError("dict", value.TypeName(h))
		}
		for _, entry := range d.Items() {
			req.Header.Set(entry.Key, entry.Value.Display())
		}
	}

	client := &http.Client{Timeout: 30 * time.Second}
	if t, ok := kwargs["timeout"]; ok {
		seconds, err := value.AsFloat(t)
		if err != nil {
			return nil, err
		}
		client.Timeout = time.Duration(seconds * float64(time.Second))
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, berrors.NewHttpError("%s: %s", url, err.Error())
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, berrors.NewHttpError("%s: %s", url, err.Error())
	}

	headers := value.NewDict()
	for k, vs := range resp.Header {
		headers.Set(strings.ToLower(k), value.NewString(strings.Join(vs, ", ")))
	}

	return &value.HTTPResponse{
		Status:  int64(resp.StatusCode),
		Headers: headers,
		Body:    string(respBody),
	}, nil
}
