package gfxtest

import (
	"testing"

	qt "github.com/frankban/quicktest"
	"github.com/pkg/errors"

	"github.com/devblok/vkboot/gfx"
)

func TestCheckLIFO(t *testing.T) {
	c := qt.New(t)
	d := New()
	instance, err := d.CreateInstance(gfx.InstanceInfo{})
	c.Assert(err, qt.IsNil)
	surface := d.SurfaceFromPointer(1)

	d.DestroyInstance(instance)
	d.DestroySurface(instance, surface)
	c.Assert(d.CheckLIFO(), qt.ErrorMatches, `driver misuse: .*use of released instance#1.*`)
}

func TestCheckLIFOOrder(t *testing.T) {
	c := qt.New(t)
	d := New(SuitableDevice("gpu"))
	instance, _ := d.CreateInstance(gfx.InstanceInfo{})
	device, _ := d.CreateDevice(d.Devices[0], gfx.DeviceInfo{QueueFamilies: []uint32{0}})
	fence, _ := d.CreateFence(device, false)

	d.DestroyDevice(device)
	d.DestroyFence(device, fence)
	d.DestroyInstance(instance)
	c.Assert(d.CheckLIFO(), qt.ErrorMatches, `event 3: destroy device#2 while fence#3 is the newest alive`)
	c.Assert(d.CheckLIFO(KindFence), qt.IsNil)
}

func TestFailNth(t *testing.T) {
	c := qt.New(t)
	d := New()
	d.Fail("CreateInstance", 2, errors.New("boom"))

	_, err := d.CreateInstance(gfx.InstanceInfo{})
	c.Assert(err, qt.IsNil)
	_, err = d.CreateInstance(gfx.InstanceInfo{})
	c.Assert(err, qt.ErrorMatches, "CreateInstance: boom")
	_, err = d.CreateInstance(gfx.InstanceInfo{})
	c.Assert(err, qt.IsNil)
	c.Assert(d.Calls("CreateInstance"), qt.Equals, 3)
}

func TestSynchronizationDiscipline(t *testing.T) {
	c := qt.New(t)
	d := New(SuitableDevice("gpu"))
	device, _ := d.CreateDevice(d.Devices[0], gfx.DeviceInfo{QueueFamilies: []uint32{0}})
	queue := d.DeviceQueue(device, 0)
	pool, _ := d.CreateCommandPool(device, 0)
	buffers, _ := d.AllocateCommandBuffers(device, pool, 1)
	sem, _ := d.CreateSemaphore(device)
	fence, _ := d.CreateFence(device, false)

	// unrecorded buffer and unsignaled wait
	c.Assert(d.QueueSubmit(queue, gfx.SubmitInfo{
		WaitSemaphores: []gfx.Semaphore{sem},
		WaitStages:     []gfx.PipelineStage{gfx.StageColorAttachmentOutput},
		CommandBuffers: buffers,
		Fence:          fence,
	}), qt.IsNil)
	c.Assert(d.Problems(), qt.HasLen, 2)

	// the submission completes on the fence wait, not before
	c.Assert(d.WaitForFence(device, fence, gfx.NoTimeout), qt.IsNil)
	c.Assert(d.ResetFence(device, fence), qt.IsNil)
	c.Assert(d.WaitForFence(device, fence, 10), qt.ErrorMatches, "WaitForFence: wait timed out")
	c.Assert(d.Problems(), qt.HasLen, 2)
}

func TestAcquireRoundRobin(t *testing.T) {
	c := qt.New(t)
	d := New(SuitableDevice("gpu"))
	d.Acquires = []Acquire{{}, {Err: gfx.ErrOutOfDate}}
	device, _ := d.CreateDevice(d.Devices[0], gfx.DeviceInfo{QueueFamilies: []uint32{0}})
	surface := d.SurfaceFromPointer(1)
	sc, err := d.CreateSwapchain(device, gfx.SwapchainInfo{Surface: surface, MinImageCount: 2})
	c.Assert(err, qt.IsNil)
	images, err := d.SwapchainImages(device, sc)
	c.Assert(err, qt.IsNil)
	c.Assert(images, qt.HasLen, 2)

	sem, _ := d.CreateSemaphore(device)
	index, _, err := d.AcquireNextImage(device, sc, gfx.NoTimeout, sem)
	c.Assert(err, qt.IsNil)
	c.Assert(index, qt.Equals, uint32(0))

	_, _, err = d.AcquireNextImage(device, sc, gfx.NoTimeout, sem)
	c.Assert(gfx.IsRecoverable(err), qt.IsTrue)

	// the semaphore is still signaled from the first acquire
	_, _, err = d.AcquireNextImage(device, sc, gfx.NoTimeout, sem)
	c.Assert(err, qt.IsNil)
	c.Assert(d.Problems(), qt.HasLen, 1)
}
