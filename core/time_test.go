package core_test

import (
	"context"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/devblok/vkboot/core"
)

func TestTimeUnlimited(t *testing.T) {
	c := qt.New(t)
	clock := core.NewTime(core.TimeConfiguration{})
	c.Assert(clock.FpsTicker(), qt.IsNil)
	c.Assert(clock.Wait(context.Background()), qt.IsNil)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c.Assert(clock.Wait(ctx), qt.Equals, context.Canceled)
}

func TestTimePacing(t *testing.T) {
	c := qt.New(t)
	clock := core.NewTime(core.TimeConfiguration{FramesPerSecond: 200})
	defer clock.Stop()
	c.Assert(clock.Fps(), qt.Equals, 200)

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	for i := 0; i < 3; i++ {
		c.Assert(clock.Wait(ctx), qt.IsNil)
		clock.Frame()
	}
	clock.Recreated()

	stats := clock.Stats()
	c.Assert(stats.Frames, qt.Equals, int64(3))
	c.Assert(stats.Recreated, qt.Equals, int64(1))
	c.Assert(stats.Slowest > 0, qt.IsTrue)
	c.Assert(stats.Average > 0, qt.IsTrue)
}
