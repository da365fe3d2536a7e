package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	overdueDeliveryJob *OverdueDeliveryJob
}

func NewJobManager(overdueDeliveryJob *OverdueDeliveryJob) *JobManager {
	return &JobManager{overdueDeliveryJob: overdueDeliveryJob}
}

// StartAll starts all scheduled jobs.
func (jm *JobManager) StartAll() error {
	if err := jm.overdueDeliveryJob.Start(); err != nil {
		return fmt.Errorf("failed to start overdue delivery job: %w", err)
	}
	return nil
}

// StopAll stops all scheduled jobs gracefully.
func (jm *JobManager) StopAll() {
	jm.overdueDeliveryJob.Stop()
}
