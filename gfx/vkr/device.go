// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"github.com/devblok/vkboot/gfx"
	vk "github.com/vulkan-go/vulkan"
)

// CreateDevice implements interface
func (d *Driver) CreateDevice(physical gfx.PhysicalDevice, info gfx.DeviceInfo) (gfx.Device, error) {
	queueInfos := make([]vk.DeviceQueueCreateInfo, 0, len(info.QueueFamilies))
	for _, family := range info.QueueFamilies {
		queueInfos = append(queueInfos, vk.DeviceQueueCreateInfo{
			SType:            vk.StructureTypeDeviceQueueCreateInfo,
			QueueFamilyIndex: family,
			QueueCount:       1,
			PQueuePriorities: []float32{1},
		})
	}

	extensions := safeStrings(info.Extensions)
	layers := safeStrings(info.Layers)
	dci := vk.DeviceCreateInfo{
		SType:                   vk.StructureTypeDeviceCreateInfo,
		QueueCreateInfoCount:    uint32(len(queueInfos)),
		PQueueCreateInfos:       queueInfos,
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var device vk.Device
	if err := result("vk.CreateDevice()", vk.CreateDevice(physical.(vk.PhysicalDevice), &dci, nil, &device)); err != nil {
		return nil, err
	}

	d.logger.WithField("queues", info.QueueFamilies).Debug("device created")
	return device, nil
}

// DestroyDevice implements interface
func (d *Driver) DestroyDevice(device gfx.Device) {
	vk.DestroyDevice(device.(vk.Device), nil)
}

// DeviceQueue implements interface
func (d *Driver) DeviceQueue(device gfx.Device, family uint32) gfx.Queue {
	var queue vk.Queue
	vk.GetDeviceQueue(device.(vk.Device), family, 0, &queue)
	return queue
}

// WaitIdle implements interface
func (d *Driver) WaitIdle(device gfx.Device) error {
	return result("vk.DeviceWaitIdle()", vk.DeviceWaitIdle(device.(vk.Device)))
}
