package controllers

import (
	"sync"

	"autobooks/src/scheduler"
	"autobooks/src/services"

	"github.com/sirupsen/logrus"
)

type Controller struct {
	Depreciation   services.DepreciationServiceI
	Logger         *logrus.Logger
	SchedulerMutex sync.Mutex
	Schedulers     map[string]*scheduler.ScheduledTask
}

func NewController(depreciation services.DepreciationServiceI, logger *logrus.Logger) *Controller {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return &Controller{
		Depreciation:   depreciation,
		Logger:         logger,
		SchedulerMutex: sync.Mutex{},
		Schedulers:     map[string]*scheduler.ScheduledTask{},
	}
}

func (c *Controller) GetSchedulers() map[string]*scheduler.ScheduledTask {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()
	out := make(map[string]*scheduler.ScheduledTask, len(c.Schedulers))
	for name, task := range c.Schedulers {
		out[name] = task
	}
	return out
}

// Stop cancels every scheduled task.
func (c *Controller) Stop() {
	c.SchedulerMutex.Lock()
	defer c.SchedulerMutex.Unlock()
	for name, task := range c.Schedulers {
		task.Cancel()
		delete(c.Schedulers, name)
	}
}
