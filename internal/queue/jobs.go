package queue

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"StockNotifier/internal/models"
)

// CreatePushNotificationsJobs creates one push notification job per element
// of the JSON array in data, in input order, and submits each for
// processing. A non-array body fails with ErrJobsNotSequence before any job
// is created. Jobs are submitted independently: a submission failure is
// collected but does not roll back jobs already created.
func (q *Queue) CreatePushNotificationsJobs(ctx context.Context, data []byte) ([]*Job, error) {
	var infos []models.PushNotification
	if err := json.Unmarshal(data, &infos); err != nil {
		return nil, fmt.Errorf("%w: %s", models.ErrJobsNotSequence, err)
	}
	// a JSON null decodes into a nil slice without error, but it is not a
	// sequence either
	if infos == nil {
		return nil, fmt.Errorf("%w: payload is null", models.ErrJobsNotSequence)
	}

	jobs := make([]*Job, 0, len(infos))
	var errs []error
	for _, info := range infos {
		job, err := q.CreateJob(ctx, models.JobTypePushNotification, info)
		if err != nil {
			q.log.Error("failed to submit notification job", "id", job.ID, "error", err)
			errs = append(errs, err)
		}
		go q.logJobEvents(job)
		jobs = append(jobs, job)
	}
	return jobs, errors.Join(errs...)
}

// logJobEvents reports a job's lifecycle to the service log. Runs until the
// job's stream closes on its terminal event.
func (q *Queue) logJobEvents(job *Job) {
	for ev := range job.Events() {
		switch ev.Kind {
		case EventEnqueue:
			q.log.Info("Notification job created", "id", ev.JobID)
		case EventProgress:
			percent := 0
			if ev.Total > 0 {
				percent = ev.Current * 100 / ev.Total
			}
			q.log.Info("Notification job progress", "id", ev.JobID, "percent", percent)
		case EventComplete:
			q.log.Info("Notification job completed", "id", ev.JobID)
		case EventFailed:
			q.log.Error("Notification job failed", "id", ev.JobID, "error", ev.Err)
		}
	}
}
