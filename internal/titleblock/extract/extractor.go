// Package extract bridges to the external title-block extraction tool. The
// tool is an opaque collaborator: it is handed the upload directory and a
// drawing number and must emit one JSON document on stdout.
package extract

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"
)

// ErrTimeout reports that the extraction tool did not finish within the
// configured deadline.
var ErrTimeout = errors.New("extraction timed out")

// Result is the tool's stdout contract: {success, data?, error?}.
type Result struct {
	Success bool              `json:"success"`
	Data    map[string]string `json:"data,omitempty"`
	Error   string            `json:"error,omitempty"`
}

// ProcessError reports a non-zero exit from the extraction tool, with
// whatever it wrote to stderr attached for operator troubleshooting.
type ProcessError struct {
	Err    error
	Stderr string
}

func (e *ProcessError) Error() string {
	if e.Stderr != "" {
		return fmt.Sprintf("extraction failed: %v: %s", e.Err, e.Stderr)
	}
	return fmt.Sprintf("extraction failed: %v", e.Err)
}

func (e *ProcessError) Unwrap() error { return e.Err }

// ParseError reports stdout that was not valid JSON; the raw output is kept
// for diagnosis.
type ParseError struct {
	Err    error
	Output string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("extraction output is not valid JSON: %v", e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Runner runs one extraction. The command runner is the real thing; tests
// substitute their own.
type Runner interface {
	Run(ctx context.Context, uploadDir, zeichnungsnummer string) (*Result, error)
}

// CommandRunner invokes the extraction tool as a subprocess, bounded by a
// deadline so a hung tool cannot hang the request forever.
type CommandRunner struct {
	Bin     string
	Timeout time.Duration
}

func NewCommandRunner(bin string, timeout time.Duration) *CommandRunner {
	if timeout == 0 {
		timeout = 2 * time.Minute
	}
	return &CommandRunner{Bin: bin, Timeout: timeout}
}

func (r *CommandRunner) Run(ctx context.Context, uploadDir, zeichnungsnummer string) (*Result, error) {
	if _, err := exec.LookPath(r.Bin); err != nil {
		return nil, fmt.Errorf("extractor binary not found (%q): %w", r.Bin, err)
	}

	cctx, cancel := context.WithTimeout(ctx, r.Timeout)
	defer cancel()

	cmd := exec.CommandContext(cctx, r.Bin, uploadDir, zeichnungsnummer)

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	if cctx.Err() == context.DeadlineExceeded {
		return nil, fmt.Errorf("%w after %s", ErrTimeout, r.Timeout)
	}
	if err != nil {
		return nil, &ProcessError{Err: err, Stderr: strings.TrimSpace(stderr.String())}
	}

	var res Result
	if err := json.Unmarshal(stdout.Bytes(), &res); err != nil {
		return nil, &ParseError{Err: err, Output: stdout.String()}
	}
	return &res, nil
}
