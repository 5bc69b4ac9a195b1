package permission

import (
	"context"
	"sync"

	berrors "github.com/cwbudde/blueprint/internal/errors"
)

type ctxKey int

const (
	permissionsKey ctxKey = iota
	promptStateKey
)

// PromptState is the per-run session cache for interactively-resolved
// "ask" decisions (spec §4.5), ported from context.rs's PromptState:
// once a key has been allowed or denied interactively, later checks for
// the same key short-circuit without prompting again.
type PromptState struct {
	mu          sync.RWMutex
	allowed     map[string]bool
	denied      map[string]bool
	interactive bool
}

// NewPromptState creates an empty session cache. interactive selects
// whether Ask decisions prompt on stderr/stdin or fail closed.
func NewPromptState(interactive bool) *PromptState {
	return &PromptState{
		allowed:     make(map[string]bool),
		denied:      make(map[string]bool),
		interactive: interactive,
	}
}

// WithPermissions attaches a Permissions set and a fresh PromptState to
// ctx, scoping them to everything evaluated under it (the Go analogue of
// the original's tokio task_local scope).
func WithPermissions(ctx context.Context, perms *Permissions, interactive bool) context.Context {
	ctx = context.WithValue(ctx, permissionsKey, perms)
	return context.WithValue(ctx, promptStateKey, NewPromptState(interactive))
}

func fromContext(ctx context.Context) (*Permissions, *PromptState, bool) {
	perms, ok := ctx.Value(permissionsKey).(*Permissions)
	if !ok {
		return nil, nil, false
	}
	state, _ := ctx.Value(promptStateKey).(*PromptState)
	return perms, state, true
}

func ruleKey(operation, resource string, hasResource bool) string {
	if !hasResource {
		return operation
	}
	return operation + ":" + resource
}

// handlePermissionCheck implements the deny/ask/allow branches shared by
// every CheckXxx entry point below (context.rs::handle_permission_check).
func handlePermissionCheck(ctx context.Context, state *PromptState, check Check, operation, resource string, hasResource bool) error {
	switch check {
	case CheckAllow:
		return nil
	case CheckDeny:
		hint := "Add '" + operation + ":" + hintResource(resource, hasResource) + "' to permissions.allow in the policy file"
		return berrors.NewPermissionDenied(operation, resource, hint)
	case CheckAsk:
		key := ruleKey(operation, resource, hasResource)
		if state == nil {
			hint := "Add '" + operation + ":" + hintResource(resource, hasResource) + "' to permissions.allow (or run interactively to be prompted)"
			return berrors.NewPermissionDenied(operation, resource, hint)
		}

		state.mu.RLock()
		isAllowed := state.allowed[key]
		isDenied := state.denied[key]
		state.mu.RUnlock()
		if isAllowed {
			return nil
		}
		if isDenied {
			return berrors.NewPermissionDenied(operation, resource, "Permission was denied earlier in this session")
		}

		if !state.interactive {
			hint := "Add '" + operation + ":" + hintResource(resource, hasResource) + "' to permissions.allow (or run interactively to be prompted)"
			return berrors.NewPermissionDenied(operation, resource, hint)
		}

		allowed, err := promptUser(operation, resource)
		if err != nil {
			return err
		}
		state.mu.Lock()
		if allowed {
			state.allowed[key] = true
		} else {
			state.denied[key] = true
		}
		state.mu.Unlock()

		if !allowed {
			return berrors.NewPermissionDenied(operation, resource, "Permission denied by user")
		}
		return nil
	default:
		return berrors.NewInternalError("unknown permission check result %q", check)
	}
}

func hintResource(resource string, hasResource bool) string {
	if !hasResource || resource == "" {
		return "*"
	}
	return resource
}

// check resolves and enforces operation/resource against ctx's attached
// Permissions, treating a missing Permissions (no policy configured for
// this run) as unrestricted — matching the original's `None => Ok(())`.
func check(ctx context.Context, operation, resource string, hasResource bool) error {
	perms, state, ok := fromContext(ctx)
	if !ok {
		return nil
	}
	c := perms.Check(operation, resource, hasResource)
	return handlePermissionCheck(ctx, state, c, operation, resource, hasResource)
}

func CheckFSRead(ctx context.Context, path string) error   { return check(ctx, "fs.read", path, true) }
func CheckFSWrite(ctx context.Context, path string) error  { return check(ctx, "fs.write", path, true) }
func CheckFSDelete(ctx context.Context, path string) error { return check(ctx, "fs.delete", path, true) }
func CheckHTTP(ctx context.Context, url string) error      { return check(ctx, "net.http", url, true) }
func CheckWS(ctx context.Context, url string) error        { return check(ctx, "net.ws", url, true) }

func CheckProcessRun(ctx context.Context, binary string) error {
	perms, state, ok := fromContext(ctx)
	if !ok {
		return nil
	}
	c := perms.CheckProcessRun(binary)
	return handlePermissionCheck(ctx, state, c, "process.run", binary, true)
}

func CheckProcessShell(ctx context.Context) error {
	return check(ctx, "process.shell", "", false)
}
func CheckEnvRead(ctx context.Context, v string) error { return check(ctx, "env.read", v, true) }
func CheckEnvWrite(ctx context.Context) error          { return check(ctx, "env.write", "", false) }
