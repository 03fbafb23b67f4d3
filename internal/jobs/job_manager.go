package jobs

import (
	"fmt"
)

// JobManager coordinates all scheduled jobs in the application.
type JobManager struct {
	stalePaymentJob  *StalePaymentJob
	reviewBacklogJob *ReviewBacklogJob
}

func NewJobManager(stalePaymentJob *StalePaymentJob, reviewBacklogJob *ReviewBacklogJob) *JobManager {
	return &JobManager{
		stalePaymentJob:  stalePaymentJob,
		reviewBacklogJob: reviewBacklogJob,
	}
}

// StartAll starts all scheduled jobs.
// Returns an error if any job fails to start.
func (jm *JobManager) StartAll() error {
	if err := jm.stalePaymentJob.Start(); err != nil {
		return fmt.Errorf("failed to start stale payment job: %w", err)
	}

	if err := jm.reviewBacklogJob.Start(); err != nil {
		// Stop already started jobs if this one fails
		jm.stalePaymentJob.Stop()
		return fmt.Errorf("failed to start review backlog job: %w", err)
	}

	return nil
}

// StopAll stops all scheduled jobs and waits for running ones.
func (jm *JobManager) StopAll() {
	jm.reviewBacklogJob.Stop()
	jm.stalePaymentJob.Stop()
}
