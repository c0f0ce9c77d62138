package core_test

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pkg/errors"

	"github.com/devblok/vkboot/core"
)

func TestErrorKinds(t *testing.T) {
	c := qt.New(t)
	cause := errors.New("out of memory")
	err := errors.Wrap(&core.Error{Kind: core.SwapchainCreationError, Op: "build", Err: cause}, "recreate")

	c.Assert(err, qt.ErrorMatches, "recreate: build: swapchain creation failed: out of memory")
	c.Assert(errors.Is(err, core.SwapchainCreationError), qt.IsTrue)
	c.Assert(errors.Is(err, core.PipelineCreationError), qt.IsFalse)
	c.Assert(errors.Is(err, cause), qt.IsTrue)
	c.Assert(core.KindOf(err), qt.Equals, core.SwapchainCreationError)
}

func TestKindOf(t *testing.T) {
	c := qt.New(t)
	c.Assert(core.KindOf(nil), qt.Equals, core.Kind(0))
	c.Assert(core.KindOf(errors.New("plain")), qt.Equals, core.Kind(0))
	c.Assert(core.KindOf(errors.Wrap(core.NoDeviceFoundError, "select")), qt.Equals, core.NoDeviceFoundError)
}

func TestKindMessages(t *testing.T) {
	c := qt.New(t)
	c.Assert(core.ResourceAcquisitionTimeout.Error(), qt.Equals, "resource acquisition timed out")
	c.Assert(core.Kind(42).Error(), qt.Equals, "kind(42)")
	c.Assert((&core.Error{Kind: core.ShaderCompileError, Op: "load"}).Error(), qt.Equals, "load: shader compilation failed")
}
