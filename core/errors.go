package core

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies bootstrap and frame loop failures.
// Every Kind is an error itself, so errors.Is(err, NoSuitableDeviceError) works.
type Kind int

// Failure kinds
const (
	InitializationError Kind = iota + 1
	NoDeviceFoundError
	NoSuitableDeviceError
	ExtensionUnsupportedError
	SwapchainCreationError
	ShaderCompileError
	PipelineCreationError
	ResourceAcquisitionTimeout
)

var kindNames = map[Kind]string{
	InitializationError:        "initialization failed",
	NoDeviceFoundError:         "no vulkan capable device found",
	NoSuitableDeviceError:      "no suitable device found",
	ExtensionUnsupportedError:  "extension unsupported",
	SwapchainCreationError:     "swapchain creation failed",
	ShaderCompileError:         "shader compilation failed",
	PipelineCreationError:      "pipeline creation failed",
	ResourceAcquisitionTimeout: "resource acquisition timed out",
}

func (k Kind) Error() string {
	if name, ok := kindNames[k]; ok {
		return name
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Error is a failure tagged with its Kind and the operation that failed.
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

// Unwrap returns the underlying cause.
func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches the Kind of e.
func (e *Error) Is(target error) bool {
	k, ok := target.(Kind)
	return ok && k == e.Kind
}

func newError(kind Kind, op string, err error) error {
	return &Error{Kind: kind, Op: op, Err: err}
}

func newErrorf(kind Kind, op string, format string, args ...interface{}) error {
	return &Error{Kind: kind, Op: op, Err: errors.Errorf(format, args...)}
}

// KindOf returns the Kind of err, or zero if err carries none.
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return 0
}

// errorAt tags err with the position of the element that failed.
func errorAt(idx int, err error) error {
	return errors.Wrapf(err, "index %d", idx)
}
