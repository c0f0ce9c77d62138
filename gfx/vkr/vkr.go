// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

// Package vkr implements gfx.Driver on the Vulkan API.
//
// Handles passed through gfx are the native vulkan-go handles. Results
// that callers act on are mapped to the gfx sentinel errors, everything
// else is wrapped with the name of the failing call.
package vkr

import (
	"unsafe"

	"github.com/devblok/vkboot/gfx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	vk "github.com/vulkan-go/vulkan"
)

// NewDriver loads the Vulkan entry points. procAddr is the
// vkGetInstanceProcAddr of a windowing library, when nil the
// system loader is used instead.
func NewDriver(procAddr unsafe.Pointer) (*Driver, error) {
	if procAddr == nil {
		if err := vk.SetDefaultGetInstanceProcAddr(); err != nil {
			return nil, errors.Wrap(err, "vk.SetDefaultGetInstanceProcAddr()")
		}
	} else {
		vk.SetGetInstanceProcAddr(procAddr)
	}

	if err := vk.Init(); err != nil {
		return nil, errors.Wrap(err, "vk.Init()")
	}

	return &Driver{
		logger: log.WithField("component", "vkr"),
	}, nil
}

// Driver is a gfx.Driver backed by vulkan-go.
type Driver struct {
	logger *log.Entry
}

var _ gfx.Driver = (*Driver)(nil)

// result converts a Vulkan result into an error naming op.
func result(op string, r vk.Result) error {
	switch r {
	case vk.Success, vk.Incomplete:
		return nil
	case vk.Suboptimal:
		return errors.Wrap(gfx.ErrSuboptimal, op)
	case vk.ErrorOutOfDate:
		return errors.Wrap(gfx.ErrOutOfDate, op)
	case vk.Timeout:
		return errors.Wrap(gfx.ErrTimeout, op)
	case vk.NotReady:
		return errors.Wrap(gfx.ErrNotReady, op)
	case vk.ErrorDeviceLost:
		return errors.Wrap(gfx.ErrDeviceLost, op)
	case vk.ErrorSurfaceLost:
		return errors.Wrap(gfx.ErrSurfaceLost, op)
	}
	return errors.Wrap(vk.Error(r), op)
}

// suboptimal splits a suboptimal result off err.
func suboptimal(err error) (bool, error) {
	if errors.Is(err, gfx.ErrSuboptimal) {
		return true, nil
	}
	return false, err
}
