// Package git wraps the git executable for versioning the data file.
package git

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Client runs git commands in a working directory.
type Client struct {
	WorkDir string
	Logger  *slog.Logger
}

// NewClient creates a new git client for the given working directory.
func NewClient(workDir string, logger *slog.Logger) *Client {
	return &Client{
		WorkDir: workDir,
		Logger:  logger,
	}
}

// IsInstalled reports whether a git executable is on PATH.
func IsInstalled() bool {
	_, err := exec.LookPath("git")
	return err == nil
}

// IsRepo reports whether WorkDir is the root of a git repository.
func (c *Client) IsRepo() bool {
	info, err := os.Stat(filepath.Join(c.WorkDir, ".git"))
	return err == nil && info.IsDir()
}

// Run executes a raw git command in the working directory.
// Callers serialise access themselves; the data file lock covers commits made by Save.
func (c *Client) Run(ctx context.Context, args ...string) (string, error) {
	if c.Logger != nil {
		c.Logger.Debug("executing git", "args", args, "dir", c.WorkDir)
	}

	cmd := exec.CommandContext(ctx, "git", args...)
	cmd.Dir = c.WorkDir

	out, err := cmd.CombinedOutput()
	output := string(out)

	if err != nil {
		return output, fmt.Errorf("git %s failed: %w\nOutput: %s", subcommand(args), err, output)
	}

	return strings.TrimSpace(output), nil
}

// Init initializes a new git repository. Re-running it on an existing repository is safe.
func (c *Client) Init(ctx context.Context) error {
	_, err := c.Run(ctx, "init")
	return err
}

// Add adds files to the stage.
func (c *Client) Add(ctx context.Context, files ...string) error {
	if len(files) == 0 {
		return nil
	}
	args := append([]string{"add"}, files...)
	_, err := c.Run(ctx, args...)
	return err
}

// Commit records staged changes. A configured user.name/user.email wins; only
// when git has none is a local identity supplied.
func (c *Client) Commit(ctx context.Context, msg string) error {
	args := c.identityArgs(ctx)
	args = append(args, "commit", "-m", msg)
	_, err := c.Run(ctx, args...)
	return err
}

// identityArgs returns "-c key=value" overrides for identity settings git
// cannot resolve on its own.
func (c *Client) identityArgs(ctx context.Context) []string {
	fallbacks := []struct{ key, env, def string }{
		{"user.name", "GIT_AUTHOR_NAME", "jotter"},
		{"user.email", "GIT_AUTHOR_EMAIL", "jotter@localhost"},
	}

	var args []string
	for _, f := range fallbacks {
		if os.Getenv(f.env) != "" {
			continue
		}
		if v, err := c.Run(ctx, "config", "--get", f.key); err == nil && v != "" {
			continue
		}
		args = append(args, "-c", f.key+"="+f.def)
	}
	return args
}

// HasChanges reports whether the given paths differ from HEAD or the index.
func (c *Client) HasChanges(ctx context.Context, files ...string) (bool, error) {
	args := append([]string{"status", "--porcelain", "--"}, files...)
	out, err := c.Run(ctx, args...)
	if err != nil {
		return false, err
	}
	return out != "", nil
}

// Log returns the one-line history of path, newest first.
func (c *Client) Log(ctx context.Context, path string, limit int) ([]string, error) {
	out, err := c.Run(ctx, "log", "--format=%s", fmt.Sprintf("-n%d", limit), "--", path)
	if err != nil {
		return nil, err
	}
	if out == "" {
		return nil, nil
	}
	return strings.Split(out, "\n"), nil
}

// subcommand returns the git command name, skipping leading "-c key=value" options.
func subcommand(args []string) string {
	for i := 0; i < len(args); i++ {
		switch {
		case args[i] == "-c":
			i++
		case strings.HasPrefix(args[i], "-"):
		default:
			return args[i]
		}
	}
	return ""
}
