// Package fetcher produces ephemeral local checkouts of remote repositories.
package fetcher

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// DefaultCloneTimeout bounds a single clone invocation.
const DefaultCloneTimeout = 60 * time.Second

// Fetcher clones repositories into unique temporary directories.
type Fetcher struct {
	token   string
	host    string
	timeout time.Duration
	baseDir string // parent for checkout dirs; defaults to os.TempDir()
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout overrides the clone timeout ceiling.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		if d > 0 {
			f.timeout = d
		}
	}
}

// WithBaseDir places checkouts under dir instead of the system temp dir.
func WithBaseDir(dir string) Option {
	return func(f *Fetcher) { f.baseDir = dir }
}

// New creates a Fetcher. token may be empty for public repositories.
func New(token string, opts ...Option) *Fetcher {
	f := &Fetcher{
		token:   token,
		host:    "github.com",
		timeout: DefaultCloneTimeout,
		baseDir: os.TempDir(),
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Clone performs a depth-1 checkout of the default branch of owner/repo into
// a unique directory and returns its path. The caller owns the directory and
// is responsible for calling Cleanup. Clone does not retry; a slow clone is
// killed once the timeout ceiling is reached.
func (f *Fetcher) Clone(ctx context.Context, owner, repo string) (string, error) {
	if owner == "" || repo == "" {
		return "", fmt.Errorf("fetcher: owner and repo are required")
	}

	dir := filepath.Join(f.baseDir, fmt.Sprintf("repotronium-%s-%s-%s", owner, repo, uuid.NewString()))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("fetcher: create checkout dir: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, "git", "clone", "--depth", "1", f.cloneURL(owner, repo), dir)
	// Never fall back to interactive credential prompts inside a server.
	cmd.Env = append(os.Environ(), "GIT_TERMINAL_PROMPT=0")

	out, err := cmd.CombinedOutput()
	if err != nil {
		os.RemoveAll(dir)
		if ctx.Err() == context.DeadlineExceeded {
			return "", fmt.Errorf("fetcher: clone %s/%s timed out after %s", owner, repo, f.timeout)
		}
		return "", fmt.Errorf("fetcher: clone %s/%s: %v: %s", owner, repo, err, f.redact(string(out)))
	}

	return dir, nil
}

// Cleanup removes a checkout directory. Failures are logged and swallowed so
// they never mask the primary analysis result.
func (f *Fetcher) Cleanup(dir string) {
	if dir == "" {
		return
	}
	if err := os.RemoveAll(dir); err != nil {
		log.Printf("fetcher: cleanup %s: %v", dir, err)
	}
}

// cloneURL builds the HTTPS clone URL, embedding the token when present.
func (f *Fetcher) cloneURL(owner, repo string) string {
	if f.token != "" {
		return fmt.Sprintf("https://%s@%s/%s/%s.git", f.token, f.host, owner, repo)
	}
	return fmt.Sprintf("https://%s/%s/%s.git", f.host, owner, repo)
}

// redact strips the access token from git output before it reaches logs or
// error messages.
func (f *Fetcher) redact(s string) string {
	if f.token == "" {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(strings.ReplaceAll(s, f.token, "***"))
}
