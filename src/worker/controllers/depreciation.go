package controllers

import (
	"context"
	"time"

	"autobooks/src/scheduler"
	"autobooks/src/schemas"
	"autobooks/src/utils"
)

const DepreciationTask = "depreciation"

// RunDepreciation records the depreciation of the month containing asOf.
func (c *Controller) RunDepreciation(ctx context.Context, asOf time.Time) (*schemas.DepreciationRunResult, error) {
	ctx = utils.WithLogger(ctx, c.Logger.WithField("task", DepreciationTask))
	return c.Depreciation.Run(ctx, asOf)
}

// ScheduleDepreciation (re)schedules the monthly depreciation run, replacing any
// previously scheduled one.
func (c *Controller) ScheduleDepreciation(cronSpec string) error {
	c.SchedulerMutex.Lock()
	if existingTask, exists := c.Schedulers[DepreciationTask]; exists {
		existingTask.Cancel()
		delete(c.Schedulers, DepreciationTask)
	}
	c.SchedulerMutex.Unlock()

	newTask, err := scheduler.NewScheduledTask(DepreciationTask, cronSpec, c.Logger.WithField("cron", cronSpec),
		func(ctx context.Context) error {
			_, err := c.RunDepreciation(ctx, time.Now().UTC())
			return err
		})
	if err != nil {
		return err
	}

	c.SchedulerMutex.Lock()
	c.Schedulers[DepreciationTask] = newTask
	c.SchedulerMutex.Unlock()
	return nil
}
