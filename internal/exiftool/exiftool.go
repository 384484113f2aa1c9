// Package exiftool runs the exiftool binary out of process to pull
// embedded previews and date tags from camera RAW files.
//
// Every invocation is bounded by a timeout and by the caller's context;
// the child process is killed when either expires. A missing binary is
// reported as ErrNotInstalled so callers can degrade instead of failing.
package exiftool

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"time"

	"github.com/ray-u/bare-photos/internal/logging"
	"github.com/ray-u/bare-photos/internal/metrics"
)

// DefaultTimeout bounds a single exiftool invocation.
const DefaultTimeout = 30 * time.Second

var (
	// ErrNotInstalled is returned when the exiftool binary cannot be found.
	ErrNotInstalled = errors.New("exiftool not installed")
	// ErrEmptyValue is returned when a tag query produced no output.
	ErrEmptyValue = errors.New("exiftool returned no value")
)

// Runner is the subset of exiftool the photo pipeline depends on.
type Runner interface {
	// ExtractBinary writes the binary value of field (e.g. PreviewImage)
	// from src into w.
	ExtractBinary(ctx context.Context, field, src string, w io.Writer) error
	// QueryTag returns the printed value of field from src.
	QueryTag(ctx context.Context, field, src string) (string, error)
}

// Tool invokes a local exiftool binary.
type Tool struct {
	path    string
	timeout time.Duration
}

// New returns a Tool that runs the binary at path (looked up in PATH if
// it has no separator). A non-positive timeout means DefaultTimeout.
func New(path string, timeout time.Duration) *Tool {
	if path == "" {
		path = "exiftool"
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Tool{path: path, timeout: timeout}
}

// Available reports whether the binary can be found.
func (t *Tool) Available() bool {
	_, err := exec.LookPath(t.path)
	return err == nil
}

// Version returns the exiftool version string.
func (t *Tool) Version(ctx context.Context) (string, error) {
	var stdout bytes.Buffer
	if err := t.run(ctx, "version", []string{"-ver"}, &stdout); err != nil {
		return "", err
	}
	return strings.TrimSpace(stdout.String()), nil
}

// ExtractBinary runs `exiftool -b -<field> <src>` with stdout sent to w.
func (t *Tool) ExtractBinary(ctx context.Context, field, src string, w io.Writer) error {
	return t.run(ctx, field, []string{"-b", "-" + field, fileArg(src)}, w)
}

// QueryTag runs `exiftool -s3 -<field> <src>` and returns the trimmed value.
func (t *Tool) QueryTag(ctx context.Context, field, src string) (string, error) {
	var stdout bytes.Buffer
	if err := t.run(ctx, field, []string{"-s3", "-" + field, fileArg(src)}, &stdout); err != nil {
		return "", err
	}
	value := strings.TrimSpace(stdout.String())
	if value == "" {
		return "", ErrEmptyValue
	}
	return value, nil
}

func (t *Tool) run(ctx context.Context, field string, args []string, stdout io.Writer) error {
	bin, err := exec.LookPath(t.path)
	if err != nil {
		metrics.ExiftoolInvocationsTotal.WithLabelValues(field, "missing").Inc()
		return fmt.Errorf("%w: %v", ErrNotInstalled, err)
	}

	ctx, cancel := context.WithTimeout(ctx, t.timeout)
	defer cancel()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, bin, args...)
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = time.Second

	logging.Debug("exiftool: %s %s", bin, strings.Join(args, " "))

	start := time.Now()
	err = cmd.Run()
	metrics.ExiftoolDuration.WithLabelValues(field).Observe(time.Since(start).Seconds())

	if err != nil {
		if ctx.Err() != nil {
			metrics.ExiftoolInvocationsTotal.WithLabelValues(field, "timeout").Inc()
			return fmt.Errorf("exiftool -%s: %w", field, ctx.Err())
		}
		metrics.ExiftoolInvocationsTotal.WithLabelValues(field, "error").Inc()
		return fmt.Errorf("exiftool -%s failed: %v, stderr: %s", field, err, strings.TrimSpace(stderr.String()))
	}

	metrics.ExiftoolInvocationsTotal.WithLabelValues(field, "success").Inc()
	return nil
}

// fileArg keeps a file name from being parsed as an option. Arguments are
// passed to the process directly, never through a shell.
func fileArg(p string) string {
	if strings.HasPrefix(p, "-") {
		return "./" + p
	}
	return p
}
