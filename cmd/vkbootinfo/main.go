// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"encoding/json"
	"flag"
	"os"
	"runtime"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/gfx/vkr"
	"github.com/devblok/vkboot/platform"
	log "github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

var (
	backend = flag.String("backend", "", "Window backend to probe with, sdl or glfw")
	indent  = flag.Bool("indent", true, "Indent the JSON output")
)

// report is everything vkbootinfo prints.
type report struct {
	Extensions []string               `json:"instanceExtensions"`
	Layers     []string               `json:"instanceLayers"`
	Validation bool                   `json:"validation"`
	Devices    []core.DeviceCandidate `json:"devices"`
}

func main() {
	flag.Parse()

	r, err := survey()
	if err != nil {
		log.WithError(err).Fatal("surveying devices")
	}

	enc := json.NewEncoder(os.Stdout)
	if *indent {
		enc.SetIndent("", "  ")
	}
	if err := enc.Encode(r); err != nil {
		log.WithError(err).Fatal("encoding report")
	}
}

func survey() (report, error) {
	cfg, err := core.LoadConfiguration()
	if err != nil {
		return report{}, err
	}
	if *backend != "" {
		cfg.Window.Backend = *backend
	}
	cfg.Window.Title = "vkbootinfo"
	cfg.Window.Resizable = false

	window, err := platform.NewWindow(cfg.Window)
	if err != nil {
		return report{}, err
	}
	defer window.Destroy()

	driver, err := vkr.NewDriver(window.ProcAddr())
	if err != nil {
		return report{}, err
	}

	instance, err := core.NewInstanceFactory(driver, cfg.Instance).Create(window.RequiredInstanceExtensions())
	if err != nil {
		return report{}, err
	}
	defer instance.Release()

	ptr, err := window.CreateSurface(instance.Handle)
	if err != nil {
		return report{}, err
	}
	surface := driver.SurfaceFromPointer(ptr)
	defer driver.DestroySurface(instance.Handle, surface)

	devices, err := core.NewDeviceSelector(driver, cfg.Renderer).Survey(instance.Handle, surface)
	if err != nil {
		return report{}, err
	}

	return report{
		Extensions: instance.Extensions,
		Layers:     instance.Layers,
		Validation: instance.Validation,
		Devices:    devices,
	}, nil
}
