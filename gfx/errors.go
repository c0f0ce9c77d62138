package gfx

import "github.com/pkg/errors"

// Driver results that callers are expected to act on. Backends wrap
// them with the name of the failing call, use errors.Is to test.
var (
	ErrOutOfDate   = errors.New("swapchain is out of date")
	ErrSuboptimal  = errors.New("swapchain is suboptimal")
	ErrTimeout     = errors.New("wait timed out")
	ErrNotReady    = errors.New("no image ready")
	ErrDeviceLost  = errors.New("device lost")
	ErrSurfaceLost = errors.New("surface lost")
)

// IsRecoverable reports whether err is cured by rebuilding the swapchain.
func IsRecoverable(err error) bool {
	return errors.Is(err, ErrOutOfDate)
}
