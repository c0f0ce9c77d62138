package gfxtest

import (
	"github.com/devblok/vkboot/gfx"
	"github.com/pkg/errors"
)

// InstanceExtensions implements interface
func (d *Driver) InstanceExtensions() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("InstanceExtensions"); err != nil {
		return nil, err
	}
	return append([]string(nil), d.InstanceExtensionNames...), nil
}

// InstanceLayers implements interface
func (d *Driver) InstanceLayers() ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("InstanceLayers"); err != nil {
		return nil, err
	}
	return append([]string(nil), d.LayerNames...), nil
}

// CreateInstance implements interface
func (d *Driver) CreateInstance(info gfx.InstanceInfo) (gfx.Instance, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreateInstance"); err != nil {
		return nil, err
	}
	return d.create(KindInstance, info), nil
}

// DestroyInstance implements interface
func (d *Driver) DestroyInstance(instance gfx.Instance) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroy(KindInstance, instance)
}

// CreateDebugMessenger implements interface
func (d *Driver) CreateDebugMessenger(instance gfx.Instance, cb gfx.DebugCallback) (gfx.DebugMessenger, error) {
	d.mu.Lock()
	if err := d.call("CreateDebugMessenger"); err != nil {
		d.mu.Unlock()
		return nil, err
	}
	d.object(KindInstance, instance)
	m := d.create(KindDebugMessenger, nil)
	d.callback = cb
	messages := append([]string(nil), d.Messages...)
	d.mu.Unlock()

	for _, msg := range messages {
		cb(gfx.SeverityWarning, msg)
	}
	return m, nil
}

// DestroyDebugMessenger implements interface
func (d *Driver) DestroyDebugMessenger(instance gfx.Instance, messenger gfx.DebugMessenger) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.object(KindInstance, instance)
	d.destroy(KindDebugMessenger, messenger)
	d.callback = nil
}

// SurfaceFromPointer implements interface
func (d *Driver) SurfaceFromPointer(ptr uintptr) gfx.Surface {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.create(KindSurface, ptr)
}

// DestroySurface implements interface
func (d *Driver) DestroySurface(instance gfx.Instance, surface gfx.Surface) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.object(KindInstance, instance)
	d.destroy(KindSurface, surface)
}

func (d *Driver) physical(h gfx.PhysicalDevice) *PhysicalDevice {
	pd, ok := h.(*PhysicalDevice)
	if !ok || pd == nil {
		d.problem("expected physical device, got %v", h)
		return &PhysicalDevice{}
	}
	return pd
}

// EnumeratePhysicalDevices implements interface
func (d *Driver) EnumeratePhysicalDevices(instance gfx.Instance) ([]gfx.PhysicalDevice, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("EnumeratePhysicalDevices"); err != nil {
		return nil, err
	}
	d.object(KindInstance, instance)
	devices := make([]gfx.PhysicalDevice, len(d.Devices))
	for i, pd := range d.Devices {
		devices[i] = pd
	}
	return devices, nil
}

// PhysicalDeviceInfo implements interface
func (d *Driver) PhysicalDeviceInfo(device gfx.PhysicalDevice) gfx.PhysicalDeviceInfo {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.physical(device).Info
}

// QueueFamilies implements interface
func (d *Driver) QueueFamilies(device gfx.PhysicalDevice) []gfx.QueueFamily {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.calls["QueueFamilies"]++
	return append([]gfx.QueueFamily(nil), d.physical(device).Families...)
}

// SurfaceSupport implements interface
func (d *Driver) SurfaceSupport(device gfx.PhysicalDevice, family uint32, surface gfx.Surface) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("SurfaceSupport"); err != nil {
		return false, err
	}
	d.object(KindSurface, surface)
	for _, f := range d.physical(device).PresentFamilies {
		if f == family {
			return true, nil
		}
	}
	return false, nil
}

// DeviceExtensions implements interface
func (d *Driver) DeviceExtensions(device gfx.PhysicalDevice) ([]string, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("DeviceExtensions"); err != nil {
		return nil, err
	}
	return append([]string(nil), d.physical(device).Extensions...), nil
}

// SurfaceCapabilities implements interface
func (d *Driver) SurfaceCapabilities(device gfx.PhysicalDevice, surface gfx.Surface) (gfx.SurfaceCapabilities, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("SurfaceCapabilities"); err != nil {
		return gfx.SurfaceCapabilities{}, err
	}
	d.object(KindSurface, surface)
	return d.physical(device).Capabilities, nil
}

// SurfaceFormats implements interface
func (d *Driver) SurfaceFormats(device gfx.PhysicalDevice, surface gfx.Surface) ([]gfx.SurfaceFormat, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("SurfaceFormats"); err != nil {
		return nil, err
	}
	d.object(KindSurface, surface)
	return append([]gfx.SurfaceFormat(nil), d.physical(device).Formats...), nil
}

// SurfacePresentModes implements interface
func (d *Driver) SurfacePresentModes(device gfx.PhysicalDevice, surface gfx.Surface) ([]gfx.PresentMode, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("SurfacePresentModes"); err != nil {
		return nil, err
	}
	d.object(KindSurface, surface)
	return append([]gfx.PresentMode(nil), d.physical(device).PresentModes...), nil
}

// CreateDevice implements interface
func (d *Driver) CreateDevice(physical gfx.PhysicalDevice, info gfx.DeviceInfo) (gfx.Device, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreateDevice"); err != nil {
		return nil, err
	}
	pd := d.physical(physical)
	for _, f := range info.QueueFamilies {
		if int(f) >= len(pd.Families) {
			d.problem("queue family %d out of range", f)
		}
	}
	o := d.create(KindDevice, info)
	o.device = pd
	return o, nil
}

// DestroyDevice implements interface
func (d *Driver) DestroyDevice(device gfx.Device) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroy(KindDevice, device)
}

// DeviceQueue implements interface
func (d *Driver) DeviceQueue(device gfx.Device, family uint32) gfx.Queue {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.object(KindDevice, device)
	q, ok := d.queues[family]
	if !ok {
		d.nextID++
		q = &Object{Kind: KindQueue, ID: d.nextID, Info: family}
		d.queues[family] = q
	}
	return q
}

// WaitIdle implements interface
func (d *Driver) WaitIdle(device gfx.Device) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("WaitIdle"); err != nil {
		return err
	}
	d.object(KindDevice, device)
	d.idleWaits++
	d.complete(nil)
	return nil
}

// CreateSwapchain implements interface. The swapchain gets
// MinImageCount images.
func (d *Driver) CreateSwapchain(device gfx.Device, info gfx.SwapchainInfo) (gfx.Swapchain, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreateSwapchain"); err != nil {
		return nil, err
	}
	d.object(KindDevice, device)
	d.object(KindSurface, info.Surface)
	sc := d.create(KindSwapchain, info)
	for i := uint32(0); i < info.MinImageCount; i++ {
		d.nextID++
		sc.images = append(sc.images, &Object{Kind: KindImage, ID: d.nextID, Info: i})
	}
	return sc, nil
}

// DestroySwapchain implements interface
func (d *Driver) DestroySwapchain(device gfx.Device, swapchain gfx.Swapchain) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.object(KindDevice, device)
	d.destroy(KindSwapchain, swapchain)
}

// SwapchainImages implements interface
func (d *Driver) SwapchainImages(device gfx.Device, swapchain gfx.Swapchain) ([]gfx.Image, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("SwapchainImages"); err != nil {
		return nil, err
	}
	sc := d.object(KindSwapchain, swapchain)
	images := make([]gfx.Image, len(sc.images))
	for i, img := range sc.images {
		images[i] = img
	}
	return images, nil
}

// CreateImageView implements interface
func (d *Driver) CreateImageView(device gfx.Device, image gfx.Image, format gfx.Format) (gfx.ImageView, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreateImageView"); err != nil {
		return nil, err
	}
	d.object(KindDevice, device)
	return d.create(KindImageView, d.object(KindImage, image)), nil
}

// DestroyImageView implements interface
func (d *Driver) DestroyImageView(device gfx.Device, view gfx.ImageView) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroy(KindImageView, view)
}

// CreateShaderModule implements interface
func (d *Driver) CreateShaderModule(device gfx.Device, code []byte) (gfx.ShaderModule, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreateShaderModule"); err != nil {
		return nil, err
	}
	d.object(KindDevice, device)
	return d.create(KindShaderModule, append([]byte(nil), code...)), nil
}

// DestroyShaderModule implements interface
func (d *Driver) DestroyShaderModule(device gfx.Device, module gfx.ShaderModule) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroy(KindShaderModule, module)
}

// CreateRenderPass implements interface
func (d *Driver) CreateRenderPass(device gfx.Device, info gfx.RenderPassInfo) (gfx.RenderPass, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreateRenderPass"); err != nil {
		return nil, err
	}
	d.object(KindDevice, device)
	return d.create(KindRenderPass, info), nil
}

// DestroyRenderPass implements interface
func (d *Driver) DestroyRenderPass(device gfx.Device, pass gfx.RenderPass) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroy(KindRenderPass, pass)
}

// CreatePipelineLayout implements interface
func (d *Driver) CreatePipelineLayout(device gfx.Device) (gfx.PipelineLayout, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreatePipelineLayout"); err != nil {
		return nil, err
	}
	d.object(KindDevice, device)
	return d.create(KindPipelineLayout, nil), nil
}

// DestroyPipelineLayout implements interface
func (d *Driver) DestroyPipelineLayout(device gfx.Device, layout gfx.PipelineLayout) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroy(KindPipelineLayout, layout)
}

// CreateGraphicsPipeline implements interface
func (d *Driver) CreateGraphicsPipeline(device gfx.Device, info gfx.GraphicsPipelineInfo) (gfx.Pipeline, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreateGraphicsPipeline"); err != nil {
		return nil, err
	}
	d.object(KindDevice, device)
	d.object(KindRenderPass, info.RenderPass)
	d.object(KindPipelineLayout, info.Layout)
	for _, st := range info.Stages {
		d.object(KindShaderModule, st.Module)
	}
	return d.create(KindPipeline, info), nil
}

// DestroyPipeline implements interface
func (d *Driver) DestroyPipeline(device gfx.Device, pipeline gfx.Pipeline) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroy(KindPipeline, pipeline)
}

// CreateFramebuffer implements interface
func (d *Driver) CreateFramebuffer(device gfx.Device, info gfx.FramebufferInfo) (gfx.Framebuffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreateFramebuffer"); err != nil {
		return nil, err
	}
	d.object(KindRenderPass, info.RenderPass)
	for _, view := range info.Attachments {
		d.object(KindImageView, view)
	}
	return d.create(KindFramebuffer, info), nil
}

// DestroyFramebuffer implements interface
func (d *Driver) DestroyFramebuffer(device gfx.Device, framebuffer gfx.Framebuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroy(KindFramebuffer, framebuffer)
}

// CreateCommandPool implements interface
func (d *Driver) CreateCommandPool(device gfx.Device, family uint32) (gfx.CommandPool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreateCommandPool"); err != nil {
		return nil, err
	}
	d.object(KindDevice, device)
	return d.create(KindCommandPool, family), nil
}

// DestroyCommandPool implements interface
func (d *Driver) DestroyCommandPool(device gfx.Device, pool gfx.CommandPool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroy(KindCommandPool, pool)
}

// AllocateCommandBuffers implements interface
func (d *Driver) AllocateCommandBuffers(device gfx.Device, pool gfx.CommandPool, count int) ([]gfx.CommandBuffer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("AllocateCommandBuffers"); err != nil {
		return nil, err
	}
	p := d.object(KindCommandPool, pool)
	buffers := make([]gfx.CommandBuffer, count)
	for i := range buffers {
		buffers[i] = d.create(KindCommandBuffer, p)
	}
	return buffers, nil
}

// FreeCommandBuffers implements interface. Buffers are released
// last to first.
func (d *Driver) FreeCommandBuffers(device gfx.Device, pool gfx.CommandPool, buffers []gfx.CommandBuffer) {
	d.mu.Lock()
	defer d.mu.Unlock()
	for i := len(buffers) - 1; i >= 0; i-- {
		if o, ok := buffers[i].(*Object); ok {
			for _, s := range d.pending {
				for _, b := range s.buffers {
					if b == o {
						d.problem("free of pending %s", o)
					}
				}
			}
		}
		d.destroy(KindCommandBuffer, buffers[i])
	}
}

// RecordDraw implements interface
func (d *Driver) RecordDraw(buffer gfx.CommandBuffer, info gfx.DrawInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("RecordDraw"); err != nil {
		return err
	}
	cb := d.object(KindCommandBuffer, buffer)
	d.object(KindRenderPass, info.RenderPass)
	d.object(KindFramebuffer, info.Framebuffer)
	d.object(KindPipeline, info.Pipeline)
	d.recorded[cb] = info
	return nil
}

// CreateSemaphore implements interface
func (d *Driver) CreateSemaphore(device gfx.Device) (gfx.Semaphore, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreateSemaphore"); err != nil {
		return nil, err
	}
	d.object(KindDevice, device)
	return d.create(KindSemaphore, nil), nil
}

// DestroySemaphore implements interface
func (d *Driver) DestroySemaphore(device gfx.Device, semaphore gfx.Semaphore) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroy(KindSemaphore, semaphore)
}

// CreateFence implements interface
func (d *Driver) CreateFence(device gfx.Device, signaled bool) (gfx.Fence, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("CreateFence"); err != nil {
		return nil, err
	}
	d.object(KindDevice, device)
	f := d.create(KindFence, nil)
	f.signaled = signaled
	return f, nil
}

// DestroyFence implements interface
func (d *Driver) DestroyFence(device gfx.Device, fence gfx.Fence) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.destroy(KindFence, fence)
}

// WaitForFence implements interface. Waiting finishes the
// work that signals the fence.
func (d *Driver) WaitForFence(device gfx.Device, fence gfx.Fence, timeout uint64) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("WaitForFence"); err != nil {
		return err
	}
	f := d.object(KindFence, fence)
	if f.signaled {
		return nil
	}
	if d.complete(f) {
		return nil
	}
	if timeout == gfx.NoTimeout {
		d.problem("wait on %s would never return", f)
	}
	return errors.Wrap(gfx.ErrTimeout, "WaitForFence")
}

// ResetFence implements interface
func (d *Driver) ResetFence(device gfx.Device, fence gfx.Fence) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("ResetFence"); err != nil {
		return err
	}
	f := d.object(KindFence, fence)
	for _, s := range d.pending {
		if s.fence == f {
			d.problem("reset of pending %s", f)
		}
	}
	f.signaled = false
	return nil
}

// AcquireNextImage implements interface. Images are handed out
// round robin.
func (d *Driver) AcquireNextImage(device gfx.Device, swapchain gfx.Swapchain, timeout uint64, signal gfx.Semaphore) (uint32, bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("AcquireNextImage"); err != nil {
		return 0, false, err
	}
	sc := d.object(KindSwapchain, swapchain)
	sem := d.object(KindSemaphore, signal)

	var script Acquire
	if len(d.Acquires) > 0 {
		script, d.Acquires = d.Acquires[0], d.Acquires[1:]
	}
	if script.Err != nil {
		return 0, false, errors.Wrap(script.Err, "AcquireNextImage")
	}
	if sem.signaled {
		d.problem("acquire signals %s that is already signaled", sem)
	}
	sem.signaled = true

	index := d.nextImage[sc]
	if len(sc.images) > 0 {
		d.nextImage[sc] = (index + 1) % uint32(len(sc.images))
	}
	return index, script.Suboptimal, nil
}

// QueueSubmit implements interface
func (d *Driver) QueueSubmit(queue gfx.Queue, info gfx.SubmitInfo) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("QueueSubmit"); err != nil {
		return err
	}
	d.object(KindQueue, queue)

	if len(info.WaitStages) != len(info.WaitSemaphores) {
		d.problem("submit with %d wait semaphores and %d stages", len(info.WaitSemaphores), len(info.WaitStages))
	}
	for _, h := range info.WaitSemaphores {
		sem := d.object(KindSemaphore, h)
		if !sem.signaled {
			d.problem("submit waits on unsignaled %s", sem)
		}
		sem.signaled = false
	}

	s := submission{}
	for _, h := range info.CommandBuffers {
		cb := d.object(KindCommandBuffer, h)
		if _, ok := d.recorded[cb]; !ok {
			d.problem("submit of unrecorded %s", cb)
		}
		for _, p := range d.pending {
			for _, b := range p.buffers {
				if b == cb {
					d.problem("%s submitted while still pending", cb)
				}
			}
		}
		s.buffers = append(s.buffers, cb)
	}
	for _, h := range info.SignalSemaphores {
		sem := d.object(KindSemaphore, h)
		if sem.signaled {
			d.problem("submit signals %s that is already signaled", sem)
		}
		sem.signaled = true
	}
	if info.Fence != nil {
		f := d.object(KindFence, info.Fence)
		if f.signaled {
			d.problem("submit with signaled %s", f)
		}
		s.fence = f
	}
	d.pending = append(d.pending, s)
	d.submits = append(d.submits, info)
	return nil
}

// QueuePresent implements interface
func (d *Driver) QueuePresent(queue gfx.Queue, info gfx.PresentInfo) (bool, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.call("QueuePresent"); err != nil {
		return false, err
	}
	d.object(KindQueue, queue)
	d.object(KindSwapchain, info.Swapchain)
	for _, h := range info.WaitSemaphores {
		sem := d.object(KindSemaphore, h)
		if !sem.signaled {
			d.problem("present waits on unsignaled %s", sem)
		}
		sem.signaled = false
	}

	var script Present
	if len(d.Presents) > 0 {
		script, d.Presents = d.Presents[0], d.Presents[1:]
	}
	d.presented = append(d.presented, info)
	if script.Err != nil {
		return false, errors.Wrap(script.Err, "QueuePresent")
	}
	return script.Suboptimal, nil
}
