package core

import (
	"strings"

	"github.com/devblok/vkboot/gfx"
	log "github.com/sirupsen/logrus"
)

// Instance is a created API instance along with the
// diagnostic callback registered on it, if any.
type Instance struct {
	Handle     gfx.Instance
	Extensions []string
	Layers     []string

	// Validation reports whether validation actually got enabled
	Validation bool

	owned releaseStack
}

// Release destroys the diagnostic callback and the instance.
func (i *Instance) Release() {
	i.owned.Release()
}

// NewInstanceFactory creates an InstanceFactory.
func NewInstanceFactory(driver gfx.InstanceDriver, cfg InstanceConfiguration) *InstanceFactory {
	return &InstanceFactory{
		driver: driver,
		cfg:    cfg,
		logger: log.WithField("component", "instance"),
	}
}

// InstanceFactory creates API instances with the extensions a window
// needs and, when configured, the validation layer.
type InstanceFactory struct {
	driver gfx.InstanceDriver
	cfg    InstanceConfiguration
	logger *log.Entry
}

// Create creates an instance that can present to windows needing
// platformExtensions.
func (f *InstanceFactory) Create(platformExtensions []string) (*Instance, error) {
	available, err := f.driver.InstanceExtensions()
	if err != nil {
		return nil, newError(InitializationError, "core.InstanceFactory.Create()", err)
	}
	f.logger.WithField("count", len(available)).Debug("available instance extensions")
	for _, ext := range available {
		f.logger.Debug("\t" + ext)
	}

	validation := f.cfg.Validation
	if validation {
		installed, err := f.driver.InstanceLayers()
		if err != nil {
			return nil, newError(InitializationError, "core.InstanceFactory.Create()", err)
		}
		switch {
		case !containsName(installed, ValidationLayer):
			f.logger.WithField("layer", ValidationLayer).Warn("validation requested but layer is not installed, continuing without")
			validation = false
		case !containsName(available, DebugReportExtension):
			f.logger.WithField("extension", DebugReportExtension).Warn("validation requested but diagnostics are unavailable, continuing without")
			validation = false
		}
	}

	extensions := appendUnique(nil, platformExtensions...)
	extensions = appendUnique(extensions, f.cfg.Extensions...)
	layers := appendUnique(nil, f.cfg.Layers...)
	if validation {
		extensions = appendUnique(extensions, DebugReportExtension)
		layers = appendUnique(layers, ValidationLayer)
	}

	if missing := missingNames(extensions, available); len(missing) > 0 {
		return nil, newErrorf(ExtensionUnsupportedError, "core.InstanceFactory.Create()",
			"missing instance extensions: %s", strings.Join(missing, ", "))
	}

	handle, err := f.driver.CreateInstance(gfx.InstanceInfo{
		ApplicationName: f.cfg.ApplicationName,
		EngineName:      f.cfg.EngineName,
		Extensions:      extensions,
		Layers:          layers,
	})
	if err != nil {
		return nil, newError(InitializationError, "core.InstanceFactory.Create()", err)
	}

	instance := &Instance{
		Handle:     handle,
		Extensions: extensions,
		Layers:     layers,
		Validation: validation,
	}
	instance.owned.push("instance", func() {
		f.driver.DestroyInstance(handle)
	})

	if validation {
		messenger, err := f.driver.CreateDebugMessenger(handle, f.diagnostic)
		if err != nil {
			instance.Release()
			return nil, newError(InitializationError, "core.InstanceFactory.Create()", err)
		}
		instance.owned.push("debug messenger", func() {
			f.driver.DestroyDebugMessenger(handle, messenger)
		})
	}

	f.logger.WithFields(log.Fields{
		"extensions": strings.Join(extensions, ","),
		"validation": validation,
	}).Info("instance created")
	return instance, nil
}

// diagnostic forwards driver messages to the log.
func (f *InstanceFactory) diagnostic(severity gfx.DebugSeverity, message string) {
	entry := f.logger.WithField("severity", severity.String())
	switch severity {
	case gfx.SeverityError:
		entry.Error(message)
	case gfx.SeverityWarning, gfx.SeverityPerformance:
		entry.Warn(message)
	case gfx.SeverityInfo:
		entry.Info(message)
	default:
		entry.Debug(message)
	}
}

func containsName(names []string, name string) bool {
	for _, n := range names {
		if n == name {
			return true
		}
	}
	return false
}

func appendUnique(names []string, add ...string) []string {
	for _, n := range add {
		if !containsName(names, n) {
			names = append(names, n)
		}
	}
	return names
}

// missingNames returns required minus available, in the order of required.
func missingNames(required, available []string) []string {
	have := make(map[string]struct{}, len(available))
	for _, n := range available {
		have[n] = struct{}{}
	}
	var missing []string
	for _, n := range required {
		if _, ok := have[n]; !ok {
			missing = append(missing, n)
		}
	}
	return missing
}
