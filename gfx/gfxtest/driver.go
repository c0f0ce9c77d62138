// Package gfxtest provides an in-memory gfx.Driver for tests.
//
// The fake hands out *Object handles, records every create and destroy,
// and checks the synchronization discipline of the frame loop: semaphores
// must be signaled before they are waited on, and a command buffer must not
// be submitted again while its previous submission is still pending.
// Submitted work completes when a fence it signals is waited on, or when
// the device is waited idle.
package gfxtest

import (
	"fmt"
	"sync"

	"github.com/devblok/vkboot/gfx"
	"github.com/pkg/errors"
)

// Object is a handle handed out by Driver.
type Object struct {
	Kind string
	ID   int

	// Info is the creation info the handle was created from, if any.
	Info interface{}

	device   *PhysicalDevice
	images   []*Object
	signaled bool
}

func (o *Object) String() string {
	return fmt.Sprintf("%s#%d", o.Kind, o.ID)
}

// Object kinds tracked in the lifecycle log
const (
	KindInstance       = "instance"
	KindDebugMessenger = "debug-messenger"
	KindSurface        = "surface"
	KindDevice         = "device"
	KindSwapchain      = "swapchain"
	KindImageView      = "image-view"
	KindShaderModule   = "shader-module"
	KindRenderPass     = "render-pass"
	KindPipelineLayout = "pipeline-layout"
	KindPipeline       = "pipeline"
	KindFramebuffer    = "framebuffer"
	KindCommandPool    = "command-pool"
	KindCommandBuffer  = "command-buffer"
	KindSemaphore      = "semaphore"
	KindFence          = "fence"
)

// Event is one entry of the lifecycle log.
type Event struct {
	Create bool
	Object *Object
}

func (e Event) String() string {
	if e.Create {
		return "create " + e.Object.String()
	}
	return "destroy " + e.Object.String()
}

// PhysicalDevice describes a fake GPU.
type PhysicalDevice struct {
	Info            gfx.PhysicalDeviceInfo
	Families        []gfx.QueueFamily
	PresentFamilies []uint32
	Extensions      []string
	Capabilities    gfx.SurfaceCapabilities
	Formats         []gfx.SurfaceFormat
	PresentModes    []gfx.PresentMode
}

// SuitableDevice returns a device that passes every suitability check:
// one graphics family with present support, the swapchain extension,
// and a surface with one BGRA format and FIFO + MAILBOX.
func SuitableDevice(name string) *PhysicalDevice {
	return &PhysicalDevice{
		Info: gfx.PhysicalDeviceInfo{
			Name: name,
			Type: gfx.DeviceTypeDiscreteGPU,
		},
		Families:        []gfx.QueueFamily{{Flags: gfx.QueueGraphics | gfx.QueueTransfer, Count: 1}},
		PresentFamilies: []uint32{0},
		Extensions:      []string{"VK_KHR_swapchain"},
		Capabilities: gfx.SurfaceCapabilities{
			MinImageCount:           2,
			MaxImageCount:           8,
			CurrentExtent:           gfx.Extent2D{Width: 800, Height: 600},
			MinImageExtent:          gfx.Extent2D{Width: 1, Height: 1},
			MaxImageExtent:          gfx.Extent2D{Width: 4096, Height: 4096},
			SupportedTransforms:     gfx.SurfaceTransformIdentity,
			CurrentTransform:        gfx.SurfaceTransformIdentity,
			SupportedCompositeAlpha: gfx.CompositeAlphaOpaque,
		},
		Formats:      []gfx.SurfaceFormat{{Format: gfx.FormatB8G8R8A8Unorm, ColorSpace: gfx.ColorSpaceSrgbNonlinear}},
		PresentModes: []gfx.PresentMode{gfx.PresentModeFifo, gfx.PresentModeMailbox},
	}
}

// Acquire is a scripted result of AcquireNextImage.
type Acquire struct {
	Suboptimal bool
	Err        error
}

// Present is a scripted result of QueuePresent.
type Present struct {
	Suboptimal bool
	Err        error
}

type failure struct {
	nth int
	err error
}

type submission struct {
	buffers []*Object
	fence   *Object
}

// Driver is a fake gfx.Driver. The exported fields configure it and
// must be set before use.
type Driver struct {
	Devices                []*PhysicalDevice
	InstanceExtensionNames []string
	LayerNames             []string

	// Acquires and Presents are consumed one per call, after they
	// run out every call succeeds.
	Acquires []Acquire
	Presents []Present

	// Messages are delivered to the debug callback on registration.
	Messages []string

	mu        sync.Mutex
	nextID    int
	events    []Event
	live      map[*Object]bool
	problems  []string
	calls     map[string]int
	failures  map[string]failure
	queues    map[uint32]*Object
	pending   []submission
	recorded  map[*Object]gfx.DrawInfo
	submits   []gfx.SubmitInfo
	presented []gfx.PresentInfo
	nextImage map[*Object]uint32
	idleWaits int
	callback  gfx.DebugCallback
}

var _ gfx.Driver = (*Driver)(nil)

// New returns a Driver exposing devices, with the surface extensions
// and the validation layer installed.
func New(devices ...*PhysicalDevice) *Driver {
	return &Driver{
		Devices:                devices,
		InstanceExtensionNames: []string{"VK_KHR_surface", "VK_KHR_xlib_surface", "VK_EXT_debug_report"},
		LayerNames:             []string{"VK_LAYER_KHRONOS_validation"},
		live:                   make(map[*Object]bool),
		calls:                  make(map[string]int),
		failures:               make(map[string]failure),
		queues:                 make(map[uint32]*Object),
		recorded:               make(map[*Object]gfx.DrawInfo),
		nextImage:              make(map[*Object]uint32),
	}
}

// Fail makes the nth call of method return err, counting from 1.
// An nth of 0 fails every call.
func (d *Driver) Fail(method string, nth int, err error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.failures[method] = failure{nth: nth, err: err}
}

// call counts a call of method and returns the injected failure, if any.
func (d *Driver) call(method string) error {
	d.calls[method]++
	f, ok := d.failures[method]
	if !ok {
		return nil
	}
	if f.nth == 0 || f.nth == d.calls[method] {
		return errors.Wrap(f.err, method)
	}
	return nil
}

func (d *Driver) problem(format string, args ...interface{}) {
	d.problems = append(d.problems, fmt.Sprintf(format, args...))
}

func (d *Driver) create(kind string, info interface{}) *Object {
	d.nextID++
	o := &Object{Kind: kind, ID: d.nextID, Info: info}
	d.live[o] = true
	d.events = append(d.events, Event{Create: true, Object: o})
	return o
}

func (d *Driver) destroy(kind string, h interface{}) {
	o, ok := h.(*Object)
	if !ok || o == nil {
		d.problem("destroy %s: foreign handle %v", kind, h)
		return
	}
	if o.Kind != kind {
		d.problem("destroy %s: got %s", kind, o)
		return
	}
	if !d.live[o] {
		d.problem("destroy %s: not alive", o)
		return
	}
	delete(d.live, o)
	d.events = append(d.events, Event{Object: o})
}

func (d *Driver) object(kind string, h interface{}) *Object {
	o, ok := h.(*Object)
	if !ok || o == nil || o.Kind != kind {
		d.problem("expected %s handle, got %v", kind, h)
		return &Object{Kind: kind}
	}
	if !d.live[o] && kind != KindImage && kind != KindQueue {
		d.problem("use of released %s", o)
	}
	return o
}

// Kinds that are not part of the lifecycle log
const (
	KindImage = "image"
	KindQueue = "queue"
)

// Calls returns how many times method was called.
func (d *Driver) Calls(method string) int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.calls[method]
}

// Events returns the lifecycle log.
func (d *Driver) Events() []Event {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]Event(nil), d.events...)
}

// Created returns every object of kind ever created, in creation order.
func (d *Driver) Created(kind string) []*Object {
	d.mu.Lock()
	defer d.mu.Unlock()
	var objs []*Object
	for _, e := range d.events {
		if e.Create && e.Object.Kind == kind {
			objs = append(objs, e.Object)
		}
	}
	return objs
}

// Live returns the objects that were created but not destroyed.
func (d *Driver) Live() []*Object {
	d.mu.Lock()
	defer d.mu.Unlock()
	var objs []*Object
	for _, e := range d.events {
		if e.Create && d.live[e.Object] {
			objs = append(objs, e.Object)
		}
	}
	return objs
}

// Problems returns every misuse the driver noticed.
func (d *Driver) Problems() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.problems...)
}

// Recorded returns what was recorded into buffer.
func (d *Driver) Recorded(buffer gfx.CommandBuffer) (gfx.DrawInfo, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	o, _ := buffer.(*Object)
	info, ok := d.recorded[o]
	return info, ok
}

// Submits returns every queue submission in order.
func (d *Driver) Submits() []gfx.SubmitInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gfx.SubmitInfo(nil), d.submits...)
}

// Presented returns every presentation request in order.
func (d *Driver) Presented() []gfx.PresentInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]gfx.PresentInfo(nil), d.presented...)
}

// IdleWaits returns how many times the device was waited idle.
func (d *Driver) IdleWaits() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.idleWaits
}

// CheckLIFO verifies that every object was destroyed exactly once and
// that, ignoring the given kinds, each destroy released the most recently
// created object still alive.
func (d *Driver) CheckLIFO(ignore ...string) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if len(d.problems) > 0 {
		return errors.Errorf("driver misuse: %v", d.problems)
	}
	skip := make(map[string]bool)
	for _, k := range ignore {
		skip[k] = true
	}

	var stack []*Object
	for i, e := range d.events {
		if skip[e.Object.Kind] {
			continue
		}
		if e.Create {
			stack = append(stack, e.Object)
			continue
		}
		if len(stack) == 0 {
			return errors.Errorf("event %d: %s with nothing alive", i, e)
		}
		if top := stack[len(stack)-1]; top != e.Object {
			return errors.Errorf("event %d: %s while %s is the newest alive", i, e, top)
		}
		stack = stack[:len(stack)-1]
	}
	if len(d.live) > 0 {
		var leaked []string
		for _, e := range d.events {
			if e.Create && d.live[e.Object] {
				leaked = append(leaked, e.Object.String())
			}
		}
		return errors.Errorf("leaked: %v", leaked)
	}
	return nil
}

// complete finishes every pending submission that signals fence,
// or all of them when fence is nil.
func (d *Driver) complete(fence *Object) bool {
	var (
		done bool
		keep []submission
	)
	for _, s := range d.pending {
		if fence != nil && s.fence != fence {
			keep = append(keep, s)
			continue
		}
		if s.fence != nil {
			s.fence.signaled = true
		}
		done = true
	}
	d.pending = keep
	return done
}
