package engine

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/petrijr/formflow/pkg/api"
)

// coordinator sequences the single finalize call of a wizard.
type coordinator struct {
	finalize api.FinalizeFunc
	observer api.Observer
	now      func() time.Time

	inFlight atomic.Bool
}

func newCoordinator(fn api.FinalizeFunc, obs api.Observer, now func() time.Time) *coordinator {
	return &coordinator{finalize: fn, observer: obs, now: now}
}

// begin claims the in-flight slot. It reports false if a submission is
// already running.
func (c *coordinator) begin() bool {
	return c.inFlight.CompareAndSwap(false, true)
}

// submit runs finalize with a copy of values and releases the slot claimed
// by begin. A failure is returned as *api.SubmissionError.
func (c *coordinator) submit(ctx context.Context, ref api.WizardRef, step api.StepDescriptor, values *api.FormValues) error {
	defer c.inFlight.Store(false)

	c.observer.OnSubmitStart(ctx, ref, step)
	start := c.now()

	err := c.call(ctx, values.Clone())
	if err != nil {
		err = &api.SubmissionError{Step: step.Label, Err: err}
	}

	c.observer.OnSubmitCompleted(ctx, ref, step, err, c.now().Sub(start))
	return err
}

func (c *coordinator) call(ctx context.Context, values *api.FormValues) (err error) {
	if c.finalize == nil {
		return nil
	}
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("finalize panicked: %v", r)
		}
	}()
	return c.finalize(ctx, values)
}
