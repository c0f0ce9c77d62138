package core_test

import (
	"encoding/binary"

	qt "github.com/frankban/quicktest"
	"github.com/gobuffalo/packd"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/gfx"
	"github.com/devblok/vkboot/gfx/gfxtest"
)

// spirv returns a minimal blob that passes SPIR-V validation.
func spirv(words ...uint32) []byte {
	words = append([]uint32{0x07230203, 0x00010000}, words...)
	code := make([]byte, 4*len(words))
	for i, w := range words {
		binary.LittleEndian.PutUint32(code[4*i:], w)
	}
	return code
}

// shaderBox holds a valid vertex and fragment shader under the default names.
func shaderBox(c *qt.C) *packd.MemoryBox {
	box := packd.NewMemoryBox()
	c.Assert(box.AddBytes("triangle.vert.spv", spirv(1)), qt.IsNil)
	c.Assert(box.AddBytes("triangle.frag.spv", spirv(2)), qt.IsNil)
	return box
}

func testConfig() core.Configuration {
	cfg := core.DefaultConfiguration()
	cfg.Instance.Validation = true
	return cfg
}

// instanceAndSurface creates the handles selection needs straight on the driver.
func instanceAndSurface(c *qt.C, d *gfxtest.Driver) (gfx.Instance, gfx.Surface) {
	instance, err := d.CreateInstance(gfx.InstanceInfo{})
	c.Assert(err, qt.IsNil)
	surface := d.SurfaceFromPointer(0x1000)
	c.Cleanup(func() {
		d.DestroySurface(instance, surface)
		d.DestroyInstance(instance)
	})
	return instance, surface
}

// logicalDevice creates a device for the first suitable device of d.
func logicalDevice(c *qt.C, d *gfxtest.Driver, cfg core.Configuration) (*core.LogicalDevice, core.DeviceCandidate, gfx.Surface) {
	instance, surface := instanceAndSurface(c, d)
	candidate, err := core.NewDeviceSelector(d, cfg.Renderer).Select(instance, surface)
	c.Assert(err, qt.IsNil)
	device, err := core.NewLogicalDeviceFactory(d, cfg.Renderer, nil).Create(candidate)
	c.Assert(err, qt.IsNil)
	c.Cleanup(device.Release)
	return device, candidate, surface
}

// liveObjects indexes the objects d has not destroyed yet.
func liveObjects(d *gfxtest.Driver) map[*gfxtest.Object]bool {
	live := make(map[*gfxtest.Object]bool)
	for _, o := range d.Live() {
		live[o] = true
	}
	return live
}
