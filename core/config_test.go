package core

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"
	glm "github.com/go-gl/mathgl/mgl32"
	"github.com/gobuffalo/envy"

	"github.com/devblok/vkboot/gfx"
)

func TestLoadConfigurationDefaults(t *testing.T) {
	c := qt.New(t)
	envy.Temp(func() {
		cfg, err := LoadConfiguration()
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Window.Width, qt.Equals, uint32(800))
		c.Assert(cfg.Window.Backend, qt.Equals, BackendSDL)
		c.Assert(cfg.Renderer.FramesInFlight, qt.Equals, 2)
		c.Assert(cfg.Renderer.ClearColor, qt.Equals, glm.Vec4{0, 0, 0, 1})
		c.Assert(cfg.Renderer.DeviceExtensions, qt.DeepEquals, []string{SwapchainExtension})
	})
}

func TestLoadConfigurationOverrides(t *testing.T) {
	c := qt.New(t)
	envy.Temp(func() {
		envy.Set("VKBOOT_WIDTH", "1280")
		envy.Set("VKBOOT_HEIGHT", "720")
		envy.Set("VKBOOT_BACKEND", "glfw")
		envy.Set("VKBOOT_VALIDATION", "false")
		envy.Set("VKBOOT_FPS", "0")
		envy.Set("VKBOOT_FRAMES_IN_FLIGHT", "3")
		envy.Set("VKBOOT_ACQUIRE_TIMEOUT", "250ms")
		envy.Set("VKBOOT_CLEAR_COLOR", "0.1, 0.2, 0.3, 1")

		cfg, err := LoadConfiguration()
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Window.Width, qt.Equals, uint32(1280))
		c.Assert(cfg.Window.Height, qt.Equals, uint32(720))
		c.Assert(cfg.Window.Backend, qt.Equals, BackendGLFW)
		c.Assert(cfg.Instance.Validation, qt.IsFalse)
		c.Assert(cfg.Time.FramesPerSecond, qt.Equals, 0)
		c.Assert(cfg.Renderer.FramesInFlight, qt.Equals, 3)
		c.Assert(cfg.Renderer.AcquireTimeout, qt.Equals, 250*time.Millisecond)
		c.Assert(cfg.Renderer.ClearColor, qt.Equals, glm.Vec4{0.1, 0.2, 0.3, 1})
	})
}

func TestLoadConfigurationRejectsBadValues(t *testing.T) {
	c := qt.New(t)
	tests := []struct {
		key, value, expect string
	}{
		{"VKBOOT_WIDTH", "wide", `.*VKBOOT_WIDTH: strconv.ParseUint: parsing "wide": invalid syntax`},
		{"VKBOOT_VALIDATION", "maybe", `.*VKBOOT_VALIDATION: .*`},
		{"VKBOOT_ACQUIRE_TIMEOUT", "soon", `.*VKBOOT_ACQUIRE_TIMEOUT: .*`},
		{"VKBOOT_CLEAR_COLOR", "1,1,1", `.*VKBOOT_CLEAR_COLOR: want 4 components, got 3`},
		{"VKBOOT_BACKEND", "x11", `.*unknown window backend "x11"`},
		{"VKBOOT_FRAMES_IN_FLIGHT", "0", `.*frames in flight 0`},
		{"VKBOOT_HEIGHT", "0", `.*window size 800x0`},
	}
	for _, test := range tests {
		c.Run(test.key, func(c *qt.C) {
			envy.Temp(func() {
				envy.Set(test.key, test.value)
				_, err := LoadConfiguration()
				c.Assert(KindOf(err), qt.Equals, InitializationError)
				c.Assert(err, qt.ErrorMatches, test.expect)
			})
		})
	}
}

func TestLoadConfigurationFile(t *testing.T) {
	c := qt.New(t)
	path := filepath.Join(c.TempDir(), "vkboot.env")
	c.Assert(ioutil.WriteFile(path, []byte("VKBOOT_TITLE=triangle\nVKBOOT_FPS=144\n"), 0644), qt.IsNil)
	c.Cleanup(func() {
		os.Unsetenv("VKBOOT_TITLE")
		os.Unsetenv("VKBOOT_FPS")
	})

	envy.Temp(func() {
		cfg, err := LoadConfiguration(path)
		c.Assert(err, qt.IsNil)
		c.Assert(cfg.Window.Title, qt.Equals, "triangle")
		c.Assert(cfg.Time.FramesPerSecond, qt.Equals, 144)

		_, err = LoadConfiguration(filepath.Join(c.TempDir(), "missing.env"))
		c.Assert(KindOf(err), qt.Equals, InitializationError)
	})
}

func TestValidate(t *testing.T) {
	c := qt.New(t)
	c.Assert(DefaultConfiguration().Validate(), qt.IsNil)

	cfg := DefaultConfiguration()
	cfg.Time.FramesPerSecond = -1
	c.Assert(cfg.Validate(), qt.ErrorMatches, ".*frames per second -1")

	cfg = DefaultConfiguration()
	cfg.Renderer.AcquireTimeout = -time.Second
	c.Assert(cfg.Validate(), qt.ErrorMatches, ".*acquire timeout -1s")
}

func TestAcquireTimeout(t *testing.T) {
	c := qt.New(t)
	var cfg RendererConfiguration
	c.Assert(cfg.acquireTimeout(), qt.Equals, gfx.NoTimeout)

	cfg.AcquireTimeout = 2 * time.Millisecond
	c.Assert(cfg.acquireTimeout(), qt.Equals, uint64(2000000))
}
