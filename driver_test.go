package corobridge

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDriver_FirstStep_NoAwait_Finishes(t *testing.T) {
	task := newSuspendableTask(true)
	result := task.driver.firstStep(task, func(_ *Ctx) (any, error) {
		return "immediate", nil
	})
	require.Equal(t, driverFinished, result.kind)
	require.Equal(t, "immediate", result.value)
}

func TestDriver_FirstStep_Error_Fails(t *testing.T) {
	boom := errors.New("boom")
	task := newSuspendableTask(true)
	result := task.driver.firstStep(task, func(_ *Ctx) (any, error) {
		return nil, boom
	})
	require.Equal(t, driverFailed, result.kind)
	require.ErrorIs(t, result.err, boom)
}

func TestDriver_Panic_Fails(t *testing.T) {
	task := newSuspendableTask(true)
	result := task.driver.firstStep(task, func(_ *Ctx) (any, error) {
		panic("bug")
	})
	require.Equal(t, driverFailed, result.kind)
	require.ErrorIs(t, result.err, ErrTaskPanicked)
	require.Contains(t, result.err.Error(), "bug")
}

func TestDriver_YieldAdvance_ValueInjection(t *testing.T) {
	task := newSuspendableTask(true)
	result := task.driver.firstStep(task, func(ctx *Ctx) (any, error) {
		v, err := ctx.Run(func() (any, error) { return nil, nil })
		if err != nil {
			return nil, err
		}
		return v, nil
	})
	require.Equal(t, driverYielded, result.kind)
	require.NotNil(t, result.req)
	require.Len(t, result.req.subs, 1)

	// Inject a value at the await point; the submission's callable is
	// deliberately never run, the driver does not care where an Outcome
	// came from.
	result = task.driver.advance(valueOutcome("injected"))
	require.Equal(t, driverFinished, result.kind)
	require.Equal(t, "injected", result.value)
}

func TestDriver_YieldAdvance_ErrorInjection(t *testing.T) {
	boom := errors.New("boom")
	task := newSuspendableTask(true)
	result := task.driver.firstStep(task, func(ctx *Ctx) (any, error) {
		_, err := ctx.Run(func() (any, error) { return nil, nil })
		return nil, err
	})
	require.Equal(t, driverYielded, result.kind)

	result = task.driver.advance(errorOutcome(boom))
	require.Equal(t, driverFailed, result.kind)
	require.ErrorIs(t, result.err, boom)
}

func TestDriver_MultipleSuspensions(t *testing.T) {
	task := newSuspendableTask(true)
	result := task.driver.firstStep(task, func(ctx *Ctx) (any, error) {
		a, err := ctx.Run(func() (any, error) { return nil, nil })
		if err != nil {
			return nil, err
		}
		b, err := ctx.Run(func() (any, error) { return nil, nil })
		if err != nil {
			return nil, err
		}
		return a.(int) + b.(int), nil
	})
	require.Equal(t, driverYielded, result.kind)

	result = task.driver.advance(valueOutcome(40))
	require.Equal(t, driverYielded, result.kind)

	result = task.driver.advance(valueOutcome(2))
	require.Equal(t, driverFinished, result.kind)
	require.Equal(t, 42, result.value)
}

func TestAwaitRequest_BufferAndPop(t *testing.T) {
	req := newAwaitRequest([]Submission{
		newSubmission(func() (any, error) { return nil, nil }),
		newSubmission(func() (any, error) { return nil, nil }),
	})
	require.False(t, req.exhausted())

	_, ok := req.popPending()
	require.False(t, ok, "nothing buffered yet")

	req.buffer(valueOutcome("first"))
	req.buffer(valueOutcome("second"))

	o, ok := req.popPending()
	require.True(t, ok)
	require.Equal(t, "first", o.Value, "buffered outcomes pop in arrival order")
	require.False(t, req.exhausted())

	o, ok = req.popPending()
	require.True(t, ok)
	require.Equal(t, "second", o.Value)
	require.True(t, req.exhausted())
}

func TestAwaitRequest_Empty_IsExhausted(t *testing.T) {
	req := newAwaitRequest(nil)
	require.True(t, req.exhausted())
}

func TestSubmission_Run_CapturesOutcome(t *testing.T) {
	boom := errors.New("boom")
	tests := []struct {
		name    string
		fn      func() (any, error)
		wantVal any
		wantErr error
	}{
		{name: "value", fn: func() (any, error) { return 7, nil }, wantVal: 7},
		{name: "error", fn: func() (any, error) { return nil, boom }, wantErr: boom},
		{name: "panic", fn: func() (any, error) { panic("kaboom") }, wantErr: ErrSubmissionPanicked},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newSubmission(tt.fn).run()
			if tt.wantErr != nil {
				require.ErrorIs(t, o.Err, tt.wantErr)
				return
			}
			require.NoError(t, o.Err)
			require.Equal(t, tt.wantVal, o.Value)
		})
	}
}
