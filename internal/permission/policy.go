// Package permission implements the engine's capability-checking layer
// (spec §4.5): a declarative rule list plus a default Policy, an
// interactive ask/allow/deny prompt cache, and context.Context-carried
// permission state for the evaluator's native modules to consult before
// touching the filesystem, network, or a subprocess.
package permission

import (
	"strings"

	"github.com/ryanuber/go-glob"
)

// Policy is the fallback decision when no rule matches (spec §4.5).
type Policy string

const (
	PolicyAllow Policy = "allow"
	PolicyDeny  Policy = "deny"
	PolicyAsk   Policy = "ask"
)

// Check is the outcome of evaluating one operation/resource pair against
// a Permissions set.
type Check string

const (
	CheckAllow Check = "allow"
	CheckDeny  Check = "deny"
	CheckAsk   Check = "ask"
)

// Permissions is the full rule set, loaded from a policy YAML file
// (internal/permission/config.go) or built programmatically.
type Permissions struct {
	Policy Policy   `yaml:"policy"`
	Allow  []string `yaml:"allow"`
	Ask    []string `yaml:"ask"`
	Deny   []string `yaml:"deny"`
}

// None denies every operation: the default when no policy file is given.
func None() *Permissions { return &Permissions{Policy: PolicyDeny} }

// All allows every operation; used by the CLI's `--allow-all` escape
// hatch and by tests.
func All() *Permissions { return &Permissions{Policy: PolicyAllow} }

// AskAll prompts for every operation regardless of rules.
func AskAll() *Permissions { return &Permissions{Policy: PolicyAsk} }

// Check resolves operation/resource against deny, then ask, then allow
// rules, falling back to the default Policy (spec §4.5's stated priority:
// deny > ask > allow > default).
func (p *Permissions) Check(operation string, resource string, hasResource bool) Check {
	var res *string
	if hasResource {
		res = &resource
	}

	if p.matchesAny(p.Deny, operation, res) {
		return CheckDeny
	}
	if p.matchesAny(p.Ask, operation, res) {
		return CheckAsk
	}
	if p.matchesAny(p.Allow, operation, res) {
		return CheckAllow
	}

	switch p.Policy {
	case PolicyAllow:
		return CheckAllow
	case PolicyAsk:
		return CheckAsk
	default:
		return CheckDeny
	}
}

func (p *Permissions) matchesAny(rules []string, operation string, resource *string) bool {
	for _, rule := range rules {
		if p.matchesRule(rule, operation, resource) {
			return true
		}
	}
	return false
}

func (p *Permissions) matchesRule(rule string, operation string, resource *string) bool {
	ruleOp, rulePattern, hasPattern := strings.Cut(rule, ":")
	if hasPattern {
		if !matchesOperation(ruleOp, operation) {
			return false
		}
		if resource != nil {
			return matchesPattern(rulePattern, *resource)
		}
		return rulePattern == "*"
	}
	return matchesOperation(rule, operation) && resource == nil
}

func matchesOperation(ruleOp, operation string) bool {
	if ruleOp == "*" {
		return true
	}
	if strings.HasSuffix(ruleOp, ".*") {
		prefix := ruleOp[:len(ruleOp)-1]
		return strings.HasPrefix(operation, prefix)
	}
	return ruleOp == operation
}

func matchesPattern(pattern, value string) bool {
	if pattern == "*" {
		return true
	}

	if strings.HasPrefix(pattern, "*.") {
		suffix := pattern[1:]
		host := extractHost(value)
		return strings.HasSuffix(host, suffix) || host == pattern[2:]
	}

	if strings.Contains(pattern, "*") {
		if glob.Glob(pattern, value) {
			return true
		}
		prefix := strings.TrimRight(pattern, "*")
		if prefix != "" && strings.HasPrefix(value, prefix) {
			return true
		}
	}

	if isURL(value) {
		return extractHost(value) == pattern
	}

	return pattern == value
}

func isURL(s string) bool {
	for _, scheme := range []string{"http://", "https://", "ws://", "wss://"} {
		if strings.HasPrefix(s, scheme) {
			return true
		}
	}
	return false
}

func extractHost(url string) string {
	rest := url
	for _, scheme := range []string{"https://", "http://", "wss://", "ws://"} {
		if strings.HasPrefix(rest, scheme) {
			rest = rest[len(scheme):]
			break
		}
	}
	if i := strings.IndexByte(rest, '/'); i >= 0 {
		rest = rest[:i]
	}
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		rest = rest[:i]
	}
	return rest
}

// Convenience checks mirroring the operation names spec §4.5 names.

func (p *Permissions) CheckFSRead(path string) Check   { return p.Check("fs.read", path, true) }
func (p *Permissions) CheckFSWrite(path string) Check  { return p.Check("fs.write", path, true) }
func (p *Permissions) CheckFSDelete(path string) Check { return p.Check("fs.delete", path, true) }
func (p *Permissions) CheckHTTP(url string) Check      { return p.Check("net.http", url, true) }
func (p *Permissions) CheckWS(url string) Check        { return p.Check("net.ws", url, true) }

// CheckProcessRun tries the full binary path then its basename, matching
// `permissions.rs::check_process_run`: a rule naming just the executable
// ("process.run:git") should allow callers that invoke it by full path.
func (p *Permissions) CheckProcessRun(binary string) Check {
	check := p.Check("process.run", binary, true)
	if check == CheckAllow {
		return check
	}
	if base := baseName(binary); base != binary {
		if baseCheck := p.Check("process.run", base, true); baseCheck == CheckAllow {
			return baseCheck
		}
	}
	return check
}

func baseName(path string) string {
	if i := strings.LastIndexAny(path, "/\\"); i >= 0 {
		return path[i+1:]
	}
	return path
}

func (p *Permissions) CheckProcessShell() Check { return p.Check("process.shell", "", false) }
func (p *Permissions) CheckEnvRead(v string) Check {
	return p.Check("env.read", v, true)
}
func (p *Permissions) CheckEnvWrite() Check { return p.Check("env.write", "", false) }
