// Copyright (c) 2019 devblok
//
// This software is released under the MIT License.
// https://opensource.org/licenses/MIT

package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"runtime/pprof"
	"runtime/trace"
	"syscall"

	"github.com/devblok/vkboot/core"
	"github.com/devblok/vkboot/gfx/vkr"
	"github.com/devblok/vkboot/platform"
	"github.com/devblok/vkboot/utility/kar"
	"github.com/gobuffalo/packr"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

func init() {
	runtime.LockOSThread()
}

// Profiling and setup
var (
	cpuProfile   = flag.String("cpuprofile", "", "Profile CPU usage to file")
	traceProfile = flag.String("trace", "", "Trace output for profiling")
	logLevel     = flag.String("loglevel", "", "Log level, overrides VKBOOT_LOG_LEVEL")
	envFile      = flag.String("env", "", "Load configuration overrides from a .env file")
)

// builtinShaders are compiled into the binary and used when
// neither an archive nor a shader directory is found
var builtinShaders = packr.NewBox("../../shaders")

func main() {
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.WithError(err).Fatal("creating cpu profile")
		}
		if err := pprof.StartCPUProfile(f); err != nil {
			log.WithError(err).Fatal("starting cpu profile")
		}
		defer pprof.StopCPUProfile()
	}

	if *traceProfile != "" {
		f, err := os.Create(*traceProfile)
		if err != nil {
			log.WithError(err).Fatal("creating trace")
		}
		if err := trace.Start(f); err != nil {
			log.WithError(err).Fatal("starting trace")
		}
		defer trace.Stop()
	}

	if err := run(); err != nil {
		log.WithError(err).WithField("kind", core.KindOf(err)).Error("vkboot failed")
		pprof.StopCPUProfile()
		trace.Stop()
		os.Exit(1)
	}
}

func run() error {
	var files []string
	if *envFile != "" {
		files = append(files, *envFile)
	}
	cfg, err := core.LoadConfiguration(files...)
	if err != nil {
		return err
	}
	if *logLevel != "" {
		cfg.LogLevel = *logLevel
	}
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return errors.Wrap(err, "log level")
	}
	log.SetLevel(level)

	window, err := platform.NewWindow(cfg.Window)
	if err != nil {
		return err
	}
	defer window.Destroy()

	driver, err := vkr.NewDriver(window.ProcAddr())
	if err != nil {
		return err
	}

	shaders, closeShaders, err := shaderSource(cfg.Renderer)
	if err != nil {
		return err
	}
	defer closeShaders()

	renderer := core.NewContext(cfg, driver, window, shaders)
	if err := renderer.Initialise(); err != nil {
		return err
	}
	defer renderer.Destroy()

	fields := log.Fields{
		"device": renderer.Candidate().Info.Name,
		"type":   renderer.Candidate().Info.Type,
	}
	if sc := renderer.Swapchain(); sc != nil {
		fields["format"] = sc.Config.Format
		fields["present"] = sc.Config.PresentMode
		fields["extent"] = sc.Config.Extent
	}
	log.WithFields(fields).Info("context initialised")

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	t := core.NewTime(cfg.Time)
	defer t.Stop()
	err = renderer.Run(ctx, t)

	stats := t.Stats()
	log.WithFields(log.Fields{
		"frames":    stats.Frames,
		"elapsed":   stats.Elapsed,
		"fps":       stats.Average,
		"slowest":   stats.Slowest,
		"recreated": stats.Recreated,
	}).Info("frame loop finished")
	return err
}

// shaderSource picks where compiled shaders are read from.
func shaderSource(cfg core.RendererConfiguration) (core.ShaderSource, func(), error) {
	if cfg.ShaderArchive != "" {
		archive, err := kar.OpenFile(cfg.ShaderArchive)
		if err != nil {
			return nil, nil, errors.Wrap(err, "opening shader archive")
		}
		log.WithField("archive", cfg.ShaderArchive).Debug("using shader archive")
		return core.NewArchiveShaderSource(archive), func() { archive.Close() }, nil
	}

	if info, err := os.Stat(cfg.ShaderDirectory); err == nil && info.IsDir() {
		log.WithField("directory", cfg.ShaderDirectory).Debug("using shader directory")
		return core.DirectoryShaderSource(cfg.ShaderDirectory), func() {}, nil
	}

	log.Debug("using built-in shaders")
	return core.FinderShaderSource{Finder: builtinShaders}, func() {}, nil
}
