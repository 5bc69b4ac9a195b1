package value

import "fmt"

// HTTPResponse is a record-like opaque value returned by the HTTP client
// native module, exposing status/headers/body as named attributes (spec
// §3.1).
type HTTPResponse struct {
	Status  int64
	Headers *Dict
	Body    string
}

func (r *HTTPResponse) Kind() Kind      { return KindHTTPResponse }
func (r *HTTPResponse) Display() string { return fmt.Sprintf("<Response status=%d>", r.Status) }
func (r *HTTPResponse) Repr() string    { return r.Display() }

// GetAttr resolves a named field of the response.
func (r *HTTPResponse) GetAttr(name string) (Value, bool) {
	switch name {
	case "status":
		return Int(r.Status), true
	case "headers":
		return r.Headers, true
	case "body":
		return NewString(r.Body), true
	default:
		return nil, false
	}
}

// ProcessResult is a record-like opaque value returned by process.run /
// process.shell, exposing exit code and captured streams.
type ProcessResult struct {
	Code   int64
	Stdout string
	Stderr string
}

func (r *ProcessResult) Kind() Kind      { return KindProcessResult }
func (r *ProcessResult) Display() string { return fmt.Sprintf("<Result code=%d>", r.Code) }
func (r *ProcessResult) Repr() string    { return r.Display() }

// GetAttr resolves a named field of the process result.
func (r *ProcessResult) GetAttr(name string) (Value, bool) {
	switch name {
	case "code":
		return Int(r.Code), true
	case "stdout":
		return NewString(r.Stdout), true
	case "stderr":
		return NewString(r.Stderr), true
	case "success":
		return Bool(r.Code == 0), true
	default:
		return nil, false
	}
}
