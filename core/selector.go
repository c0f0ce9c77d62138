package core

import (
	"fmt"
	"strings"

	"github.com/devblok/vkboot/gfx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// SwapchainSupportDetails is what a device can do with a surface.
type SwapchainSupportDetails struct {
	Capabilities gfx.SurfaceCapabilities `json:"capabilities"`
	Formats      []gfx.SurfaceFormat     `json:"formats"`
	PresentModes []gfx.PresentMode       `json:"presentModes"`
}

// Adequate reports whether a swapchain can be built at all.
func (s SwapchainSupportDetails) Adequate() bool {
	return len(s.Formats) > 0 && len(s.PresentModes) > 0
}

// DeviceCandidate is a physical device under evaluation.
type DeviceCandidate struct {
	Device            gfx.PhysicalDevice      `json:"-"`
	Info              gfx.PhysicalDeviceInfo  `json:"info"`
	Indices           QueueFamilyIndices      `json:"queueFamilies"`
	Support           SwapchainSupportDetails `json:"swapchainSupport"`
	MissingExtensions []string                `json:"missingExtensions,omitempty"`
	Suitable          bool                    `json:"suitable"`

	// Reason says why an unsuitable device was rejected
	Reason string `json:"reason,omitempty"`
}

// NewDeviceSelector creates a DeviceSelector that requires the
// configured device extensions.
func NewDeviceSelector(driver gfx.PhysicalDeviceDriver, cfg RendererConfiguration) *DeviceSelector {
	return &DeviceSelector{
		driver:     driver,
		extensions: cfg.DeviceExtensions,
		logger:     log.WithField("component", "selector"),
	}
}

// DeviceSelector picks the physical device to render with.
type DeviceSelector struct {
	driver     gfx.PhysicalDeviceDriver
	extensions []string
	logger     *log.Entry
}

// FindQueueFamilies scans the family table of device once. Graphics is
// the lowest family with the graphics bit, present is, independently,
// the lowest family that can present to surface. Families without
// queues are skipped.
func (s *DeviceSelector) FindQueueFamilies(device gfx.PhysicalDevice, surface gfx.Surface) (QueueFamilyIndices, error) {
	var indices QueueFamilyIndices
	for i, family := range s.driver.QueueFamilies(device) {
		if family.Count == 0 {
			continue
		}
		idx := uint32(i)
		if !indices.Graphics.IsSet() && family.Flags&gfx.QueueGraphics != 0 {
			indices.Graphics = Index(idx)
		}
		if !indices.Present.IsSet() {
			supported, err := s.driver.SurfaceSupport(device, idx, surface)
			if err != nil {
				return indices, errors.Wrapf(err, "surface support of family %d", idx)
			}
			if supported {
				indices.Present = Index(idx)
			}
		}
		if indices.IsComplete() {
			break
		}
	}
	return indices, nil
}

// QuerySwapchainSupport queries the capabilities, formats and present
// modes device has for surface.
func (s *DeviceSelector) QuerySwapchainSupport(device gfx.PhysicalDevice, surface gfx.Surface) (SwapchainSupportDetails, error) {
	var (
		details SwapchainSupportDetails
		err     error
	)
	if details.Capabilities, err = s.driver.SurfaceCapabilities(device, surface); err != nil {
		return details, err
	}
	if details.Formats, err = s.driver.SurfaceFormats(device, surface); err != nil {
		return details, err
	}
	if details.PresentModes, err = s.driver.SurfacePresentModes(device, surface); err != nil {
		return details, err
	}
	return details, nil
}

// Evaluate runs every suitability check on device. Swapchain support
// is only queried when the required extensions are there.
func (s *DeviceSelector) Evaluate(device gfx.PhysicalDevice, surface gfx.Surface) (DeviceCandidate, error) {
	candidate := DeviceCandidate{
		Device: device,
		Info:   s.driver.PhysicalDeviceInfo(device),
	}

	indices, err := s.FindQueueFamilies(device, surface)
	if err != nil {
		return candidate, err
	}
	candidate.Indices = indices

	available, err := s.driver.DeviceExtensions(device)
	if err != nil {
		return candidate, err
	}
	candidate.MissingExtensions = missingNames(s.extensions, available)

	if len(candidate.MissingExtensions) == 0 {
		if candidate.Support, err = s.QuerySwapchainSupport(device, surface); err != nil {
			return candidate, err
		}
	}

	switch {
	case !indices.IsComplete():
		candidate.Reason = fmt.Sprintf("incomplete queue families (graphics %s, present %s)", indices.Graphics, indices.Present)
	case len(candidate.MissingExtensions) > 0:
		candidate.Reason = "missing extensions " + strings.Join(candidate.MissingExtensions, ", ")
	case !candidate.Support.Adequate():
		candidate.Reason = fmt.Sprintf("inadequate swapchain support (%d formats, %d present modes)",
			len(candidate.Support.Formats), len(candidate.Support.PresentModes))
	default:
		candidate.Suitable = true
	}
	return candidate, nil
}

func (s *DeviceSelector) enumerate(instance gfx.Instance) ([]gfx.PhysicalDevice, error) {
	devices, err := s.driver.EnumeratePhysicalDevices(instance)
	if err != nil {
		return nil, newError(InitializationError, "core.DeviceSelector.enumerate()", err)
	}
	if len(devices) == 0 {
		return nil, newErrorf(NoDeviceFoundError, "core.DeviceSelector.enumerate()", "enumeration returned no devices")
	}
	return devices, nil
}

// evaluate is Evaluate with query failures turned into a rejection.
func (s *DeviceSelector) evaluate(device gfx.PhysicalDevice, surface gfx.Surface) DeviceCandidate {
	candidate, err := s.Evaluate(device, surface)
	if err != nil {
		candidate.Suitable = false
		candidate.Reason = err.Error()
	}
	return candidate
}

// Survey evaluates every device, in enumeration order.
func (s *DeviceSelector) Survey(instance gfx.Instance, surface gfx.Surface) ([]DeviceCandidate, error) {
	devices, err := s.enumerate(instance)
	if err != nil {
		return nil, err
	}
	candidates := make([]DeviceCandidate, len(devices))
	for i, device := range devices {
		candidates[i] = s.evaluate(device, surface)
	}
	return candidates, nil
}

// Select returns the first device, in enumeration order, that passes
// every suitability check.
func (s *DeviceSelector) Select(instance gfx.Instance, surface gfx.Surface) (DeviceCandidate, error) {
	devices, err := s.enumerate(instance)
	if err != nil {
		return DeviceCandidate{}, err
	}

	reasons := make([]string, 0, len(devices))
	for _, device := range devices {
		candidate := s.evaluate(device, surface)
		if candidate.Suitable {
			s.logger.WithFields(log.Fields{
				"device":   candidate.Info.Name,
				"type":     candidate.Info.Type.String(),
				"graphics": candidate.Indices.Graphics.String(),
				"present":  candidate.Indices.Present.String(),
			}).Info("device selected")
			return candidate, nil
		}
		s.logger.WithFields(log.Fields{
			"device": candidate.Info.Name,
			"reason": candidate.Reason,
		}).Warn("device rejected")
		reasons = append(reasons, fmt.Sprintf("%s: %s", candidate.Info.Name, candidate.Reason))
	}
	return DeviceCandidate{}, newErrorf(NoSuitableDeviceError, "core.DeviceSelector.Select()", "%s", strings.Join(reasons, "; "))
}
