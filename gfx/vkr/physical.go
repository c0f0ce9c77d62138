// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"github.com/devblok/vkboot/gfx"
	vk "github.com/vulkan-go/vulkan"
)

// EnumeratePhysicalDevices implements interface
func (d *Driver) EnumeratePhysicalDevices(instance gfx.Instance) ([]gfx.PhysicalDevice, error) {
	var count uint32
	if err := result("vk.EnumeratePhysicalDevices()", vk.EnumeratePhysicalDevices(instance.(vk.Instance), &count, nil)); err != nil {
		return nil, err
	}
	available := make([]vk.PhysicalDevice, count)
	if err := result("vk.EnumeratePhysicalDevices()", vk.EnumeratePhysicalDevices(instance.(vk.Instance), &count, available)); err != nil {
		return nil, err
	}
	devices := make([]gfx.PhysicalDevice, 0, count)
	for _, pd := range available[:count] {
		devices = append(devices, pd)
	}
	return devices, nil
}

// PhysicalDeviceInfo implements interface
func (d *Driver) PhysicalDeviceInfo(device gfx.PhysicalDevice) gfx.PhysicalDeviceInfo {
	pd := device.(vk.PhysicalDevice)

	var props vk.PhysicalDeviceProperties
	vk.GetPhysicalDeviceProperties(pd, &props)
	props.Deref()

	info := gfx.PhysicalDeviceInfo{
		ID:            props.DeviceID,
		VendorID:      props.VendorID,
		DriverVersion: props.DriverVersion,
		APIVersion:    props.ApiVersion,
		Name:          goString(props.DeviceName[:]),
		Type:          gfx.DeviceType(props.DeviceType),
	}

	var memory vk.PhysicalDeviceMemoryProperties
	vk.GetPhysicalDeviceMemoryProperties(pd, &memory)
	memory.Deref()
	for i := uint32(0); i < memory.MemoryHeapCount; i++ {
		memory.MemoryHeaps[i].Deref()
		info.Memory += uint64(memory.MemoryHeaps[i].Size)
	}
	return info
}

// QueueFamilies implements interface
func (d *Driver) QueueFamilies(device gfx.PhysicalDevice) []gfx.QueueFamily {
	pd := device.(vk.PhysicalDevice)
	var count uint32
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, nil)
	props := make([]vk.QueueFamilyProperties, count)
	vk.GetPhysicalDeviceQueueFamilyProperties(pd, &count, props)

	families := make([]gfx.QueueFamily, 0, count)
	for _, family := range props[:count] {
		family.Deref()
		families = append(families, gfx.QueueFamily{
			Flags: gfx.QueueFlags(family.QueueFlags),
			Count: family.QueueCount,
		})
	}
	return families
}

// SurfaceSupport implements interface
func (d *Driver) SurfaceSupport(device gfx.PhysicalDevice, family uint32, surface gfx.Surface) (bool, error) {
	var supported vk.Bool32
	if err := result("vk.GetPhysicalDeviceSurfaceSupport()",
		vk.GetPhysicalDeviceSurfaceSupport(device.(vk.PhysicalDevice), family, surface.(vk.Surface), &supported)); err != nil {
		return false, err
	}
	return supported.B(), nil
}

// DeviceExtensions implements interface
func (d *Driver) DeviceExtensions(device gfx.PhysicalDevice) ([]string, error) {
	pd := device.(vk.PhysicalDevice)
	var count uint32
	if err := result("vk.EnumerateDeviceExtensionProperties()", vk.EnumerateDeviceExtensionProperties(pd, "", &count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, count)
	if err := result("vk.EnumerateDeviceExtensionProperties()", vk.EnumerateDeviceExtensionProperties(pd, "", &count, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, ext := range props[:count] {
		ext.Deref()
		names = append(names, goString(ext.ExtensionName[:]))
	}
	return names, nil
}

// SurfaceCapabilities implements interface
func (d *Driver) SurfaceCapabilities(device gfx.PhysicalDevice, surface gfx.Surface) (gfx.SurfaceCapabilities, error) {
	var caps vk.SurfaceCapabilities
	if err := result("vk.GetPhysicalDeviceSurfaceCapabilities()",
		vk.GetPhysicalDeviceSurfaceCapabilities(device.(vk.PhysicalDevice), surface.(vk.Surface), &caps)); err != nil {
		return gfx.SurfaceCapabilities{}, err
	}
	caps.Deref()
	caps.CurrentExtent.Deref()
	caps.MinImageExtent.Deref()
	caps.MaxImageExtent.Deref()

	return gfx.SurfaceCapabilities{
		MinImageCount:           caps.MinImageCount,
		MaxImageCount:           caps.MaxImageCount,
		CurrentExtent:           extentFromVk(caps.CurrentExtent),
		MinImageExtent:          extentFromVk(caps.MinImageExtent),
		MaxImageExtent:          extentFromVk(caps.MaxImageExtent),
		SupportedTransforms:     gfx.SurfaceTransform(caps.SupportedTransforms),
		CurrentTransform:        gfx.SurfaceTransform(caps.CurrentTransform),
		SupportedCompositeAlpha: gfx.CompositeAlpha(caps.SupportedCompositeAlpha),
	}, nil
}

// SurfaceFormats implements interface
func (d *Driver) SurfaceFormats(device gfx.PhysicalDevice, surface gfx.Surface) ([]gfx.SurfaceFormat, error) {
	pd, s := device.(vk.PhysicalDevice), surface.(vk.Surface)
	var count uint32
	if err := result("vk.GetPhysicalDeviceSurfaceFormats()", vk.GetPhysicalDeviceSurfaceFormats(pd, s, &count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.SurfaceFormat, count)
	if err := result("vk.GetPhysicalDeviceSurfaceFormats()", vk.GetPhysicalDeviceSurfaceFormats(pd, s, &count, props)); err != nil {
		return nil, err
	}
	formats := make([]gfx.SurfaceFormat, 0, count)
	for _, f := range props[:count] {
		f.Deref()
		formats = append(formats, gfx.SurfaceFormat{
			Format:     gfx.Format(f.Format),
			ColorSpace: gfx.ColorSpace(f.ColorSpace),
		})
	}
	return formats, nil
}

// SurfacePresentModes implements interface
func (d *Driver) SurfacePresentModes(device gfx.PhysicalDevice, surface gfx.Surface) ([]gfx.PresentMode, error) {
	pd, s := device.(vk.PhysicalDevice), surface.(vk.Surface)
	var count uint32
	if err := result("vk.GetPhysicalDeviceSurfacePresentModes()", vk.GetPhysicalDeviceSurfacePresentModes(pd, s, &count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.PresentMode, count)
	if err := result("vk.GetPhysicalDeviceSurfacePresentModes()", vk.GetPhysicalDeviceSurfacePresentModes(pd, s, &count, props)); err != nil {
		return nil, err
	}
	modes := make([]gfx.PresentMode, 0, count)
	for _, m := range props[:count] {
		modes = append(modes, gfx.PresentMode(m))
	}
	return modes, nil
}
