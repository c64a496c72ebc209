package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/luwen/surgelens/pkg/logger"
)

type fakeJob struct {
	name     string
	schedule string
	err      error
	ran      chan struct{}
}

func (j *fakeJob) Name() string     { return j.name }
func (j *fakeJob) Schedule() string { return j.schedule }
func (j *fakeJob) Run(ctx context.Context) error {
	if j.ran != nil {
		close(j.ran)
	}
	return j.err
}

func TestAddJob_DuplicateRejected(t *testing.T) {
	s := New(logger.Nop())
	job := &fakeJob{name: "dup", schedule: "@hourly"}

	require.NoError(t, s.AddJob(job))
	assert.Error(t, s.AddJob(job))
	assert.Equal(t, []string{"dup"}, s.Jobs())
}

func TestAddJob_BadSchedule(t *testing.T) {
	s := New(logger.Nop())
	assert.Error(t, s.AddJob(&fakeJob{name: "bad", schedule: "not a cron expression"}))
}

func TestRunNow(t *testing.T) {
	s := New(logger.Nop())
	job := &fakeJob{name: "once", schedule: "@hourly", ran: make(chan struct{})}
	require.NoError(t, s.AddJob(job))

	require.NoError(t, s.RunNow("once"))
	select {
	case <-job.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("job did not run")
	}

	assert.Error(t, s.RunNow("missing"))
}

func TestHistory_RecordsOutcome(t *testing.T) {
	s := New(logger.Nop())
	job := &fakeJob{name: "ok", schedule: "@hourly"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	history, err := s.History("ok")
	require.NoError(t, err)
	last, found := history.Last()
	require.True(t, found)
	assert.True(t, last.Success)
	assert.Equal(t, 1.0, history.SuccessRate())

	_, err = s.History("missing")
	assert.Error(t, err)
}

func TestHistory_ReturnsSnapshot(t *testing.T) {
	s := New(logger.Nop())
	job := &fakeJob{name: "snap", schedule: "@hourly"}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)
	before, err := s.History("snap")
	require.NoError(t, err)
	require.Len(t, before.Results, 1)

	// Later runs must not show up in an already-taken snapshot.
	s.runJob(job)
	assert.Len(t, before.Results, 1)

	after, err := s.History("snap")
	require.NoError(t, err)
	assert.Len(t, after.Results, 2)
}

func TestHistory_Cap(t *testing.T) {
	h := &JobHistory{}
	for i := 0; i < 150; i++ {
		h.Add(JobResult{JobName: "x", Success: i%2 == 0})
	}
	assert.Len(t, h.Results, 100)
}

func TestRunJob_RetriesThenFails(t *testing.T) {
	s := New(logger.Nop())
	s.maxRetries = 1
	s.retryDelay = time.Millisecond

	job := &fakeJob{name: "fail", schedule: "@hourly", err: errors.New("boom")}
	require.NoError(t, s.AddJob(job))

	s.runJob(job)

	history, err := s.History("fail")
	require.NoError(t, err)
	last, found := history.Last()
	require.True(t, found)
	assert.False(t, last.Success)
	assert.Equal(t, "boom", last.Error)
}
