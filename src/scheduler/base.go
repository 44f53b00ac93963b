package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// ScheduledTask runs a job on a cron schedule until cancelled. Overlapping
// runs are skipped.
type ScheduledTask struct {
	Name   string
	cronID cron.EntryID
	cron   *cron.Cron
	ctx    context.Context
	cancel context.CancelFunc
}

func NewScheduledTask(name, cronSpec string, logger *logrus.Entry, taskFunc func(ctx context.Context) error) (*ScheduledTask, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	logger = logger.WithField("task", name)

	c := cron.New(
		cron.WithLocation(time.UTC),
		cron.WithChain(cron.SkipIfStillRunning(cron.DiscardLogger)),
	)
	ctx, cancel := context.WithCancel(context.Background())
	task := &ScheduledTask{
		Name:   name,
		cron:   c,
		ctx:    ctx,
		cancel: cancel,
	}

	id, err := c.AddFunc(cronSpec, func() {
		select {
		case <-ctx.Done():
			return
		default:
		}
		start := time.Now()
		if err := taskFunc(ctx); err != nil {
			logger.WithError(err).Error("scheduled task failed")
			return
		}
		logger.WithField("duration", time.Since(start).String()).Info("scheduled task finished")
	})
	if err != nil {
		cancel()
		return nil, err
	}

	task.cronID = id
	c.Start()
	logger.WithField("next_run", task.Next()).Info("task scheduled")
	return task, nil
}

// Next returns the next activation time, or the zero time once cancelled.
func (s *ScheduledTask) Next() time.Time {
	return s.cron.Entry(s.cronID).Next
}

// Cancel removes the task and cancels the context of a run in progress.
func (s *ScheduledTask) Cancel() {
	s.cron.Remove(s.cronID)
	s.cancel()
	s.cron.Stop()
}
