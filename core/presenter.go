package core

import (
	"fmt"

	"github.com/devblok/vkboot/gfx"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// FrameState is where a frame slot is in its cycle.
type FrameState int

// Frame slot states, in cycle order
const (
	FrameIdle FrameState = iota
	FrameRecording
	FrameSubmitted
	FramePresented
)

func (s FrameState) String() string {
	switch s {
	case FrameIdle:
		return "idle"
	case FrameRecording:
		return "recording"
	case FrameSubmitted:
		return "submitted"
	case FramePresented:
		return "presented"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// next is the only state s may move to.
func (s FrameState) next() FrameState {
	if s == FramePresented {
		return FrameIdle
	}
	return s + 1
}

// frameSlot is the sync state of one frame in flight.
type frameSlot struct {
	imageAvailable gfx.Semaphore
	inFlight       gfx.Fence
	state          FrameState
}

// NewFramePresenter creates the sync objects for a swapchain with imageCount images.
func NewFramePresenter(driver gfx.SyncDriver, device *LogicalDevice, cfg RendererConfiguration, imageCount int) (*FramePresenter, error) {
	const op = "core.NewFramePresenter()"
	p := &FramePresenter{
		driver:         driver,
		device:         device,
		timeout:        cfg.acquireTimeout(),
		slots:          make([]frameSlot, cfg.FramesInFlight),
		renderFinished: make([]gfx.Semaphore, imageCount),
		imagesInFlight: make([]gfx.Fence, imageCount),
		logger:         log.WithField("component", "presenter"),
	}

	for idx := range p.slots {
		sem, err := p.semaphore()
		if err != nil {
			p.Release()
			return nil, newError(InitializationError, op, err)
		}
		fence, err := driver.CreateFence(device.Handle, true)
		if err != nil {
			p.Release()
			return nil, newError(InitializationError, op, err)
		}
		p.owned.push("fence", func() {
			driver.DestroyFence(device.Handle, fence)
		})
		p.slots[idx] = frameSlot{imageAvailable: sem, inFlight: fence}
	}

	for idx := range p.renderFinished {
		sem, err := p.semaphore()
		if err != nil {
			p.Release()
			return nil, newError(InitializationError, op, err)
		}
		p.renderFinished[idx] = sem
	}
	return p, nil
}

// FramePresenter runs the acquire, submit and present cycle. Up to
// FramesInFlight frames are in flight, each with its own slot.
type FramePresenter struct {
	driver  gfx.SyncDriver
	device  *LogicalDevice
	timeout uint64
	logger  *log.Entry

	slots          []frameSlot
	renderFinished []gfx.Semaphore

	// imagesInFlight is the fence of the slot that last rendered each image
	imagesInFlight []gfx.Fence

	current int
	owned   releaseStack
}

func (p *FramePresenter) semaphore() (gfx.Semaphore, error) {
	sem, err := p.driver.CreateSemaphore(p.device.Handle)
	if err != nil {
		return nil, err
	}
	p.owned.push("semaphore", func() {
		p.driver.DestroySemaphore(p.device.Handle, sem)
	})
	return sem, nil
}

// Release destroys every sync object. The device must be idle.
func (p *FramePresenter) Release() {
	p.owned.Release()
}

// Slot returns the index of the slot the next frame uses.
func (p *FramePresenter) Slot() int {
	return p.current
}

// State returns the state of slot.
func (p *FramePresenter) State(slot int) FrameState {
	return p.slots[slot].state
}

func (p *FramePresenter) advance(slot *frameSlot, to FrameState) error {
	if slot.state.next() != to {
		return errors.Errorf("frame slot %d: illegal transition %s -> %s", p.current, slot.state, to)
	}
	slot.state = to
	return nil
}

// wait waits for fence within the acquire timeout.
func (p *FramePresenter) wait(op string, fence gfx.Fence) error {
	if err := p.driver.WaitForFence(p.device.Handle, fence, p.timeout); err != nil {
		return classify(op, err)
	}
	return nil
}

// classify maps a frame loop failure onto its Kind.
func classify(op string, err error) error {
	if errors.Is(err, gfx.ErrTimeout) || errors.Is(err, gfx.ErrNotReady) {
		return newError(ResourceAcquisitionTimeout, op, err)
	}
	return errors.Wrap(err, op)
}

// Present renders one frame into the next swapchain image using the
// command buffers of commands, and presents it. stale reports that the
// swapchain no longer matches the surface and needs to be recreated,
// in which case the frame may not have been drawn.
func (p *FramePresenter) Present(swapchain *Swapchain, commands *CommandExecutor) (stale bool, err error) {
	const op = "core.FramePresenter.Present()"
	slot := &p.slots[p.current]
	if slot.state != FrameIdle {
		return false, errors.Errorf("frame slot %d is %s, not idle", p.current, slot.state)
	}

	if err := p.wait(op, slot.inFlight); err != nil {
		return false, err
	}

	image, suboptimal, err := p.driver.AcquireNextImage(p.device.Handle, swapchain.Handle, p.timeout, slot.imageAvailable)
	switch {
	case gfx.IsRecoverable(err):
		p.logger.Debug("swapchain out of date on acquire")
		return true, nil
	case err != nil:
		return false, classify(op, err)
	}
	if err := p.advance(slot, FrameRecording); err != nil {
		return false, err
	}

	// Another slot may still be rendering into this image
	if fence := p.imagesInFlight[image]; fence != nil && fence != slot.inFlight {
		if err := p.wait(op, fence); err != nil {
			return false, err
		}
	}
	p.imagesInFlight[image] = slot.inFlight

	if err := p.driver.ResetFence(p.device.Handle, slot.inFlight); err != nil {
		return false, errors.Wrap(err, op)
	}
	if err := p.driver.QueueSubmit(p.device.GraphicsQueue, gfx.SubmitInfo{
		WaitSemaphores:   []gfx.Semaphore{slot.imageAvailable},
		WaitStages:       []gfx.PipelineStage{gfx.StageColorAttachmentOutput},
		CommandBuffers:   []gfx.CommandBuffer{commands.Buffer(image)},
		SignalSemaphores: []gfx.Semaphore{p.renderFinished[image]},
		Fence:            slot.inFlight,
	}); err != nil {
		return false, errors.Wrap(err, op)
	}
	if err := p.advance(slot, FrameSubmitted); err != nil {
		return false, err
	}

	presentSuboptimal, err := p.driver.QueuePresent(p.device.PresentQueue, gfx.PresentInfo{
		WaitSemaphores: []gfx.Semaphore{p.renderFinished[image]},
		Swapchain:      swapchain.Handle,
		ImageIndex:     image,
	})
	outOfDate := gfx.IsRecoverable(err)
	if err != nil && !outOfDate {
		return false, classify(op, err)
	}
	if err := p.advance(slot, FramePresented); err != nil {
		return false, err
	}
	if err := p.advance(slot, FrameIdle); err != nil {
		return false, err
	}
	p.current = (p.current + 1) % len(p.slots)

	return suboptimal || presentSuboptimal || outOfDate, nil
}
