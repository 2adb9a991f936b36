package publish

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/erraggy/o2t/o2terrors"
	"github.com/erraggy/o2t/parser"
)

// Credentials are handed to the publish script through its environment.
type Credentials struct {
	Registry string
	Username string
	Password string
	Email    string
}

// env returns the credentials as environment entries.
func (c Credentials) env() []string {
	return []string{
		"REGISTRY=" + c.Registry,
		"USERNAME=" + c.Username,
		"PASSWORD=" + c.Password,
		"EMAIL=" + c.Email,
	}
}

// Publisher runs a publish script against a generated package directory.
type Publisher struct {
	// Script is the path of the shell script to run.
	Script string
	// Credentials are exported to the script.
	Credentials Credentials
	// Stdout and Stderr receive the script's output.
	// If nil, the process's own streams are used.
	Stdout io.Writer
	Stderr io.Writer
	// Logger is the structured logger. If nil, logging is disabled.
	Logger parser.Logger
}

// Publish runs the script with sh, using dir as the working directory.
// A non-zero exit status is returned as an error.
func (p *Publisher) Publish(ctx context.Context, dir string) error {
	if p.Script == "" {
		return &o2terrors.ConfigError{Option: "publish script", Message: "no publish script configured"}
	}
	if _, err := os.Stat(p.Script); err != nil {
		return &o2terrors.ConfigError{Option: "publish script", Value: p.Script, Cause: err}
	}
	script, err := filepath.Abs(p.Script)
	if err != nil {
		return &o2terrors.ConfigError{Option: "publish script", Value: p.Script, Cause: err}
	}
	logger := parser.OrNop(p.Logger)

	cmd := exec.CommandContext(ctx, "sh", script) //nolint:gosec // G204: the script path is operator configuration
	cmd.Dir = dir
	cmd.Env = append(os.Environ(), p.Credentials.env()...)
	cmd.Stdout = p.Stdout
	if cmd.Stdout == nil {
		cmd.Stdout = os.Stdout
	}
	cmd.Stderr = p.Stderr
	if cmd.Stderr == nil {
		cmd.Stderr = os.Stderr
	}

	logger.Info("running publish script", "script", p.Script, "dir", dir, "registry", p.Credentials.Registry)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("publish: %s: %w", p.Script, err)
	}
	logger.Info("publish script finished", "script", p.Script)
	return nil
}
