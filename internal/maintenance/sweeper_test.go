package maintenance

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeSweeper struct {
	removed int
	err     error
	calls   int
}

func (f *fakeSweeper) Sweep(context.Context) (int, error) {
	f.calls++
	return f.removed, f.err
}

func TestRunSweepInvokesSweeper(t *testing.T) {
	fs := &fakeSweeper{removed: 2}
	s := NewScheduler(fs)

	s.runSweep()

	assert.Equal(t, 1, fs.calls)
}

func TestRunSweepSurvivesErrors(t *testing.T) {
	fs := &fakeSweeper{err: errors.New("redis down")}
	s := NewScheduler(fs)

	// must not panic; the failure is logged and the next run tries again
	s.runSweep()

	assert.Equal(t, 1, fs.calls)
}
