// Package jobs provides scheduled background tasks for the workflow engine.
//
// Jobs are cron-based, built on github.com/robfig/cron/v3 with second precision.
//
// # Available Jobs
//
// 1. OverdueDeliveryJob - scans for artifacts whose requested delivery date has
// passed while administration has not delivered them, and asks the notification
// center to tell commercial. Runs every five minutes unless configured otherwise.
//
// # Usage
//
//	job := jobs.NewOverdueDeliveryJob(handler, cfg.OverdueScanSchedule, kernel.SystemClock, recorder.ObserveOverdueScan, logger)
//	jobManager := jobs.NewJobManager(job)
//
//	if err := jobManager.StartAll(); err != nil {
//		log.Fatal("Failed to start jobs:", err)
//	}
//	defer jobManager.StopAll()
//
// # Error Handling
//
// A failed scan is logged and reported to the observer; the next tick runs as usual.
package jobs
