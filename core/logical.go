package core

import (
	"github.com/devblok/vkboot/gfx"
	log "github.com/sirupsen/logrus"
)

// LogicalDevice is the device the context renders with, along with
// its graphics and present queues.
type LogicalDevice struct {
	Handle        gfx.Device
	Physical      gfx.PhysicalDevice
	Indices       QueueFamilyIndices
	GraphicsQueue gfx.Queue
	PresentQueue  gfx.Queue

	driver gfx.DeviceDriver
	owned  releaseStack
}

// WaitIdle blocks until the device has no work left.
func (d *LogicalDevice) WaitIdle() error {
	return d.driver.WaitIdle(d.Handle)
}

// Release destroys the device.
func (d *LogicalDevice) Release() {
	d.owned.Release()
}

// NewLogicalDeviceFactory creates a LogicalDeviceFactory.
// Layers are passed on to the device for older loaders that still
// distinguish device layers.
func NewLogicalDeviceFactory(driver gfx.DeviceDriver, cfg RendererConfiguration, layers []string) *LogicalDeviceFactory {
	return &LogicalDeviceFactory{
		driver:     driver,
		extensions: cfg.DeviceExtensions,
		layers:     layers,
		logger:     log.WithField("component", "device"),
	}
}

// LogicalDeviceFactory creates logical devices for selected candidates.
type LogicalDeviceFactory struct {
	driver     gfx.DeviceDriver
	extensions []string
	layers     []string
	logger     *log.Entry
}

// Create creates a device with one queue in every distinct family of
// candidate and retrieves the graphics and present queues.
func (f *LogicalDeviceFactory) Create(candidate DeviceCandidate) (*LogicalDevice, error) {
	if !candidate.Indices.IsComplete() {
		return nil, newErrorf(InitializationError, "core.LogicalDeviceFactory.Create()",
			"queue families incomplete (graphics %s, present %s)", candidate.Indices.Graphics, candidate.Indices.Present)
	}

	handle, err := f.driver.CreateDevice(candidate.Device, gfx.DeviceInfo{
		QueueFamilies: candidate.Indices.Unique(),
		Extensions:    f.extensions,
		Layers:        f.layers,
	})
	if err != nil {
		return nil, newError(InitializationError, "core.LogicalDeviceFactory.Create()", err)
	}

	device := &LogicalDevice{
		Handle:        handle,
		Physical:      candidate.Device,
		Indices:       candidate.Indices,
		GraphicsQueue: f.driver.DeviceQueue(handle, candidate.Indices.Graphics.Value()),
		PresentQueue:  f.driver.DeviceQueue(handle, candidate.Indices.Present.Value()),
		driver:        f.driver,
	}
	device.owned.push("device", func() {
		f.driver.DestroyDevice(handle)
	})

	f.logger.WithField("queues", len(candidate.Indices.Unique())).Debug("logical device created")
	return device, nil
}
