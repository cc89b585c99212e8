package viewer

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"os"
	"time"

	"geoview/internal/geodata"
)

// FailureKind classifies a command failure. The kind decides both the
// user-facing wording and whether the failure reaches the error log:
// validation failures are reported but never logged.
type FailureKind int

const (
	// KindIO marks an unreadable or unwritable source.
	KindIO FailureKind = iota
	// KindValidation marks malformed user input.
	KindValidation
	// KindUnexpected marks any other collaborator error.
	KindUnexpected
)

func (k FailureKind) String() string {
	switch k {
	case KindIO:
		return "I/O error"
	case KindValidation:
		return "invalid input"
	case KindUnexpected:
		return "unexpected error"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Failure names the operation that failed and the underlying cause. Command
// handlers build one at their boundary; it never escapes to crash the shell.
type Failure struct {
	Op   string
	Kind FailureKind
	Err  error
}

func (f *Failure) Error() string {
	return fmt.Sprintf("%s: %s: %v", f.Op, f.Kind, f.Err)
}

func (f *Failure) Unwrap() error { return f.Err }

// classify maps a collaborator error to a failure kind. Path errors from
// the filesystem are I/O failures, the geodata sentinels are validation
// failures, everything else is unexpected.
func classify(err error) FailureKind {
	var pathErr *fs.PathError
	if errors.As(err, &pathErr) {
		return KindIO
	}
	switch {
	case errors.Is(err, geodata.ErrUnsupportedFormat),
		errors.Is(err, geodata.ErrNoFeatures),
		errors.Is(err, geodata.ErrUndefinedCRS),
		errors.Is(err, geodata.ErrUnsupportedCRS),
		errors.Is(err, geodata.ErrNoClipGeometry),
		errors.Is(err, geodata.ErrNotGeoTIFF):
		return KindValidation
	}
	return KindUnexpected
}

// Reporter is the surface command handlers report through. The shell backs
// it with modal dialogs and the status bar.
type Reporter interface {
	// Failure reports an operation failure (modal).
	Failure(f *Failure)
	// Warn reports a precondition or validation warning (modal).
	Warn(op, msg string)
	// Info reports an operation's success message (modal).
	Info(op, msg string)
	// Status updates the passive status line.
	Status(msg string)
}

// FailureLog appends uncaught failures to a plain-text log file, one line
// per entry: timestamp, severity, message.
type FailureLog struct {
	l *log.Logger
	f *os.File
}

// NewFailureLog opens (or creates) the log file for appending.
func NewFailureLog(path string) (*FailureLog, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	return &FailureLog{l: log.New(f, "", 0), f: f}, nil
}

// Error appends an ERROR entry.
func (fl *FailureLog) Error(msg string) {
	if fl == nil {
		return
	}
	fl.l.Printf("%s - ERROR - %s", time.Now().Format("2006-01-02 15:04:05"), msg)
}

// Close releases the underlying file.
func (fl *FailureLog) Close() error {
	if fl == nil || fl.f == nil {
		return nil
	}
	return fl.f.Close()
}
