package fetcher

import (
	"strings"
	"testing"
	"time"
)

func TestCloneURL(t *testing.T) {
	tests := []struct {
		name  string
		token string
		want  string
	}{
		{"no token", "", "https://github.com/octocat/hello.git"},
		{"with token", "ghp_abc123", "https://ghp_abc123@github.com/octocat/hello.git"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := New(tt.token)
			got := f.cloneURL("octocat", "hello")
			if got != tt.want {
				t.Errorf("cloneURL() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestRedact(t *testing.T) {
	f := New("ghp_supersecret")
	out := f.redact("fatal: could not read from https://ghp_supersecret@github.com/a/b.git\n")
	if strings.Contains(out, "ghp_supersecret") {
		t.Errorf("redact() leaked token: %q", out)
	}
	if !strings.Contains(out, "***") {
		t.Errorf("redact() did not substitute marker: %q", out)
	}
}

func TestNew_Options(t *testing.T) {
	f := New("", WithTimeout(5*time.Second), WithBaseDir("/srv/checkouts"))
	if f.timeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", f.timeout)
	}
	if f.baseDir != "/srv/checkouts" {
		t.Errorf("baseDir = %q, want /srv/checkouts", f.baseDir)
	}

	// Non-positive timeout is ignored.
	f = New("", WithTimeout(0))
	if f.timeout != DefaultCloneTimeout {
		t.Errorf("timeout = %s, want default %s", f.timeout, DefaultCloneTimeout)
	}
}

func TestClone_RequiresOwnerAndRepo(t *testing.T) {
	f := New("")
	if _, err := f.Clone(t.Context(), "", "repo"); err == nil {
		t.Error("Clone() with empty owner should fail")
	}
	if _, err := f.Clone(t.Context(), "owner", ""); err == nil {
		t.Error("Clone() with empty repo should fail")
	}
}

func TestCleanup_MissingDirIsQuiet(t *testing.T) {
	f := New("")
	// Must not panic or error on an already-removed directory.
	f.Cleanup(t.TempDir() + "/never-created")
	f.Cleanup("")
}
