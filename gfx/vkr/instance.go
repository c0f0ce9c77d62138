// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package vkr

import (
	"unsafe"

	"github.com/devblok/vkboot/gfx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// InstanceExtensions implements interface
func (d *Driver) InstanceExtensions() ([]string, error) {
	var count uint32
	if err := result("vk.EnumerateInstanceExtensionProperties()", vk.EnumerateInstanceExtensionProperties("", &count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.ExtensionProperties, count)
	if err := result("vk.EnumerateInstanceExtensionProperties()", vk.EnumerateInstanceExtensionProperties("", &count, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, ext := range props[:count] {
		ext.Deref()
		names = append(names, goString(ext.ExtensionName[:]))
	}
	return names, nil
}

// InstanceLayers implements interface
func (d *Driver) InstanceLayers() ([]string, error) {
	var count uint32
	if err := result("vk.EnumerateInstanceLayerProperties()", vk.EnumerateInstanceLayerProperties(&count, nil)); err != nil {
		return nil, err
	}
	props := make([]vk.LayerProperties, count)
	if err := result("vk.EnumerateInstanceLayerProperties()", vk.EnumerateInstanceLayerProperties(&count, props)); err != nil {
		return nil, err
	}
	names := make([]string, 0, count)
	for _, layer := range props[:count] {
		layer.Deref()
		names = append(names, goString(layer.LayerName[:]))
	}
	return names, nil
}

// CreateInstance implements interface
func (d *Driver) CreateInstance(info gfx.InstanceInfo) (gfx.Instance, error) {
	extensions := safeStrings(info.Extensions)
	layers := safeStrings(info.Layers)
	instanceInfo := vk.InstanceCreateInfo{
		SType: vk.StructureTypeInstanceCreateInfo,
		PApplicationInfo: &vk.ApplicationInfo{
			SType:              vk.StructureTypeApplicationInfo,
			ApiVersion:         vk.MakeVersion(1, 0, 0),
			ApplicationVersion: vk.MakeVersion(1, 0, 0),
			EngineVersion:      vk.MakeVersion(1, 0, 0),
			PApplicationName:   safeString(info.ApplicationName),
			PEngineName:        safeString(info.EngineName),
		},
		EnabledExtensionCount:   uint32(len(extensions)),
		PpEnabledExtensionNames: extensions,
		EnabledLayerCount:       uint32(len(layers)),
		PpEnabledLayerNames:     layers,
	}

	var instance vk.Instance
	if err := result("vk.CreateInstance()", vk.CreateInstance(&instanceInfo, nil, &instance)); err != nil {
		return nil, err
	}
	if err := vk.InitInstance(instance); err != nil {
		vk.DestroyInstance(instance, nil)
		return nil, errors.Wrap(err, "vk.InitInstance()")
	}

	d.logger.WithFields(log.Fields{
		"extensions": info.Extensions,
		"layers":     info.Layers,
	}).Debug("instance created")
	return instance, nil
}

// DestroyInstance implements interface
func (d *Driver) DestroyInstance(instance gfx.Instance) {
	vk.DestroyInstance(instance.(vk.Instance), nil)
}

// severity maps debug report flags onto the most severe gfx severity.
func severity(flags vk.DebugReportFlags) gfx.DebugSeverity {
	switch {
	case flags&vk.DebugReportFlags(vk.DebugReportErrorBit) != 0:
		return gfx.SeverityError
	case flags&vk.DebugReportFlags(vk.DebugReportWarningBit) != 0:
		return gfx.SeverityWarning
	case flags&vk.DebugReportFlags(vk.DebugReportPerformanceWarningBit) != 0:
		return gfx.SeverityPerformance
	case flags&vk.DebugReportFlags(vk.DebugReportInformationBit) != 0:
		return gfx.SeverityInfo
	}
	return gfx.SeverityVerbose
}

// CreateDebugMessenger implements interface
func (d *Driver) CreateDebugMessenger(instance gfx.Instance, cb gfx.DebugCallback) (gfx.DebugMessenger, error) {
	info := vk.DebugReportCallbackCreateInfo{
		SType: vk.StructureTypeDebugReportCallbackCreateInfo,
		Flags: vk.DebugReportFlags(vk.DebugReportErrorBit | vk.DebugReportWarningBit |
			vk.DebugReportPerformanceWarningBit | vk.DebugReportInformationBit),
		PfnCallback: func(flags vk.DebugReportFlags, objectType vk.DebugReportObjectType,
			object uint64, location uint, messageCode int32, pLayerPrefix string,
			pMessage string, pUserData unsafe.Pointer) vk.Bool32 {
			cb(severity(flags), pLayerPrefix+": "+pMessage)
			return vk.False
		},
	}

	var callback vk.DebugReportCallback
	if err := result("vk.CreateDebugReportCallback()", vk.CreateDebugReportCallback(instance.(vk.Instance), &info, nil, &callback)); err != nil {
		return nil, err
	}
	return callback, nil
}

// DestroyDebugMessenger implements interface
func (d *Driver) DestroyDebugMessenger(instance gfx.Instance, messenger gfx.DebugMessenger) {
	vk.DestroyDebugReportCallback(instance.(vk.Instance), messenger.(vk.DebugReportCallback), nil)
}

// SurfaceFromPointer implements interface
func (d *Driver) SurfaceFromPointer(ptr uintptr) gfx.Surface {
	return vk.SurfaceFromPointer(ptr)
}

// DestroySurface implements interface
func (d *Driver) DestroySurface(instance gfx.Instance, surface gfx.Surface) {
	vk.DestroySurface(instance.(vk.Instance), surface.(vk.Surface), nil)
}
