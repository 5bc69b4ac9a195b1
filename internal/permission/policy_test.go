package permission

import "testing"

func TestPolicyDefaultDeny(t *testing.T) {
	p := None()
	if got := p.CheckFSRead("/etc/passwd"); got != CheckDeny {
		t.Errorf("CheckFSRead = %v, want Deny", got)
	}
	if got := p.CheckHTTP("https://example.com"); got != CheckDeny {
		t.Errorf("CheckHTTP = %v, want Deny", got)
	}
	if got := p.CheckProcessShell(); got != CheckDeny {
		t.Errorf("CheckProcessShell = %v, want Deny", got)
	}
}

func TestPolicyAllowAll(t *testing.T) {
	p := All()
	if got := p.CheckFSRead("/etc/passwd"); got != CheckAllow {
		t.Errorf("CheckFSRead = %v, want Allow", got)
	}
	if got := p.CheckHTTP("https://example.com"); got != CheckAllow {
		t.Errorf("CheckHTTP = %v, want Allow", got)
	}
	if got := p.CheckProcessShell(); got != CheckAllow {
		t.Errorf("CheckProcessShell = %v, want Allow", got)
	}
}

func TestPolicyAskAll(t *testing.T) {
	p := AskAll()
	if got := p.CheckFSRead("/etc/passwd"); got != CheckAsk {
		t.Errorf("CheckFSRead = %v, want Ask", got)
	}
	if got := p.CheckHTTP("https://example.com"); got != CheckAsk {
		t.Errorf("CheckHTTP = %v, want Ask", got)
	}
	if got := p.CheckProcessShell(); got != CheckAsk {
		t.Errorf("CheckProcessShell = %v, want Ask", got)
	}
}

func TestAllowPatterns(t *testing.T) {
	p := &Permissions{
		Policy: PolicyDeny,
		Allow: []string{
			"fs.read:./data/*",
			"fs.read:/tmp/*",
			"net.http:api.github.com",
			"net.http:*.internal.corp",
			"process.run:git",
			"process.run:jq",
			"env.read:HOME",
		},
	}

	if got := p.CheckFSRead("./data/file.json"); got != CheckAllow {
		t.Errorf("./data/file.json = %v, want Allow", got)
	}
	if got := p.CheckFSRead("/tmp/test"); got != CheckAllow {
		t.Errorf("/tmp/test = %v, want Allow", got)
	}
	if got := p.CheckFSRead("/etc/passwd"); got != CheckDeny {
		t.Errorf("/etc/passwd = %v, want Deny", got)
	}

	if got := p.CheckHTTP("https://api.github.com/repos"); got != CheckAllow {
		t.Errorf("api.github.com = %v, want Allow", got)
	}
	if got := p.CheckHTTP("https://foo.internal.corp/api"); got != CheckAllow {
		t.Errorf("foo.internal.corp = %v, want Allow", got)
	}
	if got := p.CheckHTTP("https://evil.com"); got != CheckDeny {
		t.Errorf("evil.com = %v, want Deny", got)
	}

	if got := p.CheckProcessRun("git"); got != CheckAllow {
		t.Errorf("git = %v, want Allow", got)
	}
	if got := p.CheckProcessRun("/usr/bin/git"); got != CheckAllow {
		t.Errorf("/usr/bin/git = %v, want Allow", got)
	}
	if got := p.CheckProcessRun("rm"); got != CheckDeny {
		t.Errorf("rm = %v, want Deny", got)
	}

	if got := p.CheckEnvRead("HOME"); got != CheckAllow {
		t.Errorf("HOME = %v, want Allow", got)
	}
	if got := p.CheckEnvRead("SECRET"); got != CheckDeny {
		t.Errorf("SECRET = %v, want Deny", got)
	}
}

func TestAskPatterns(t *testing.T) {
	p := &Permissions{
		Policy: PolicyDeny,
		Allow:  []string{"fs.read:./config/*"},
		Ask:    []string{"fs.read:*", "net.http:*"},
		Deny:   []string{"process.shell"},
	}

	if got := p.CheckFSRead("./config/settings.json"); got != CheckAllow {
		t.Errorf("./config/settings.json = %v, want Allow", got)
	}
	if got := p.CheckFSRead("/etc/passwd"); got != CheckAsk {
		t.Errorf("/etc/passwd = %v, want Ask", got)
	}
	if got := p.CheckHTTP("https://example.com"); got != CheckAsk {
		t.Errorf("https://example.com = %v, want Ask", got)
	}
	if got := p.CheckProcessShell(); got != CheckDeny {
		t.Errorf("CheckProcessShell = %v, want Deny", got)
	}
	if got := p.CheckProcessRun("git"); got != CheckDeny {
		t.Errorf("CheckProcessRun(git) = %v, want Deny", got)
	}
}

func TestPriorityDenyOverAskOverAllow(t *testing.T) {
	p := &Permissions{
		Policy: PolicyAllow,
		Allow:  []string{"fs.read:*"},
		Ask:    []string{"fs.read:/home/*"},
		Deny:   []string{"fs.read:/etc/*"},
	}

	if got := p.CheckFSRead("./data/file"); got != CheckAllow {
		t.Errorf("./data/file = %v, want Allow", got)
	}
	if got := p.CheckFSRead("/home/user/file"); got != CheckAsk {
		t.Errorf("/home/user/file = %v, want Ask (overrides Allow)", got)
	}
	if got := p.CheckFSRead("/etc/passwd"); got != CheckDeny {
		t.Errorf("/etc/passwd = %v, want Deny (overrides Ask and Allow)", got)
	}
}

func TestAskOverridesAllow(t *testing.T) {
	p := &Permissions{
		Policy: PolicyDeny,
		Allow:  []string{"net.http:*"},
		Ask:    []string{"net.http:*.dangerous.com"},
	}

	if got := p.CheckHTTP("https://safe.com"); got != CheckAllow {
		t.Errorf("safe.com = %v, want Allow", got)
	}
	if got := p.CheckHTTP("https://foo.dangerous.com"); got != CheckAsk {
		t.Errorf("foo.dangerous.com = %v, want Ask", got)
	}
}

func TestWildcardOperation(t *testing.T) {
	p := &Permissions{
		Policy: PolicyDeny,
		Allow:  []string{"fs.*:./workspace/*"},
	}

	if got := p.CheckFSRead("./workspace/file"); got != CheckAllow {
		t.Errorf("read = %v, want Allow", got)
	}
	if got := p.CheckFSWrite("./workspace/file"); got != CheckAllow {
		t.Errorf("write = %v, want Allow", got)
	}
	if got := p.CheckFSDelete("./workspace/file"); got != CheckAllow {
		t.Errorf("delete = %v, want Allow", got)
	}
	if got := p.CheckFSRead("/etc/passwd"); got != CheckDeny {
		t.Errorf("/etc/passwd = %v, want Deny", got)
	}
}

func TestExtractHost(t *testing.T) {
	cases := []struct{ url, want string }{
		{"https://api.example.com/v1", "api.example.com"},
		{"http://localhost:8080/path", "localhost"},
		{"wss://stream.example.com", "stream.example.com"},
	}
	for _, c := range cases {
		if got := extractHost(c.url); got != c.want {
			t.Errorf("extractHost(%q) = %q, want %q", c.url, got, c.want)
		}
	}
}
