// Package jobs provides scheduled background tasks for the order service.
//
// Jobs use github.com/robfig/cron/v3 with second precision. A run that is
// still in progress when the next tick fires is skipped.
//
// # Available Jobs
//
// 1. StalePaymentJob - moves Prepaid orders still waiting for payment after
// the configured window to payment_failed, acting as "system"
// 2. ReviewBacklogJob - reports the number of orders flagged for manual
// review to the review backlog gauge
//
// # Usage
//
//	jobManager := jobs.NewJobManager(stalePaymentJob, reviewBacklogJob)
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// Failed runs are logged and retried on the next tick. Failed job starts
// stop any already running jobs.
package jobs
