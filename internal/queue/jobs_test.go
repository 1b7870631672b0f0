package queue

import (
	"context"
	"errors"
	"testing"

	"StockNotifier/internal/models"
)

// Mock Transport для тестирования
type MockTransport struct {
	*LocalTransport
	PublishFunc func(ctx context.Context, jobType string, body []byte) error
}

func (m *MockTransport) Publish(ctx context.Context, jobType string, body []byte) error {
	if m.PublishFunc != nil {
		return m.PublishFunc(ctx, jobType, body)
	}
	return m.LocalTransport.Publish(ctx, jobType, body)
}

func TestCreatePushNotificationsJobs(t *testing.T) {
	tests := []struct {
		name        string
		data        string
		expectedErr error
		expectedLen int
	}{
		{
			name:        "Not an array",
			data:        `{}`,
			expectedErr: models.ErrJobsNotSequence,
			expectedLen: 0,
		},
		{
			name:        "Not even JSON",
			data:        `not json`,
			expectedErr: models.ErrJobsNotSequence,
			expectedLen: 0,
		},
		{
			name:        "Null payload",
			data:        `null`,
			expectedErr: models.ErrJobsNotSequence,
			expectedLen: 0,
		},
		{
			name:        "Empty array",
			data:        `[]`,
			expectedErr: nil,
			expectedLen: 0,
		},
		{
			name: "Two valid jobs",
			data: `[
				{"phoneNumber": "44556677889", "message": "Use the code 1982 to verify your account"},
				{"phoneNumber": "98877665544", "message": "Use the code 1738 to verify your account"}
			]`,
			expectedErr: nil,
			expectedLen: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q, store := newTestQueue()

			jobs, err := q.CreatePushNotificationsJobs(context.Background(), []byte(tt.data))
			if !errors.Is(err, tt.expectedErr) {
				t.Fatalf("expected error %v, got %v", tt.expectedErr, err)
			}
			if len(jobs) != tt.expectedLen {
				t.Fatalf("expected %d jobs, got %d", tt.expectedLen, len(jobs))
			}
			if tt.expectedErr != nil && store.SavedJobs() != 0 {
				t.Fatalf("expected no jobs saved on invalid input, got %d", store.SavedJobs())
			}
		})
	}
}

func TestCreatePushNotificationsJobs_OrderAndPayload(t *testing.T) {
	q, _ := newTestQueue()

	infos := []models.PushNotification{
		{PhoneNumber: "44556677889", Message: "Use the code 1982 to verify your account"},
		{PhoneNumber: "98877665544", Message: "Use the code 1738 to verify your account"},
	}
	data := `[
		{"phoneNumber": "44556677889", "message": "Use the code 1982 to verify your account"},
		{"phoneNumber": "98877665544", "message": "Use the code 1738 to verify your account"}
	]`

	jobs, err := q.CreatePushNotificationsJobs(context.Background(), []byte(data))
	if err != nil {
		t.Fatalf("CreatePushNotificationsJobs failed: %v", err)
	}
	if len(jobs) != 2 {
		t.Fatalf("expected 2 jobs, got %d", len(jobs))
	}
	for i, job := range jobs {
		if job.Type != models.JobTypePushNotification {
			t.Fatalf("job %d: expected type %q, got %q", i, models.JobTypePushNotification, job.Type)
		}
		if job.Data != infos[i] {
			t.Fatalf("job %d: expected data %+v, got %+v", i, infos[i], job.Data)
		}
		if job.ID == "" {
			t.Fatalf("job %d: empty id", i)
		}
	}
	if jobs[0].ID == jobs[1].ID {
		t.Fatal("job ids are not unique")
	}
}

func TestCreateJob_PublishFailureFailsJob(t *testing.T) {
	store := NewMockStatusStore()
	transport := &MockTransport{
		LocalTransport: NewLocalTransport(),
		PublishFunc: func(ctx context.Context, jobType string, body []byte) error {
			return errors.New("broker is down")
		},
	}
	q := New(testLogger(), transport, store)

	job, err := q.CreateJob(context.Background(), models.JobTypePushNotification, models.PushNotification{
		PhoneNumber: "1",
		Message:     "hi",
	})
	if err == nil {
		t.Fatal("expected a submission error")
	}
	if state := job.State(); state != models.StatusFailed {
		t.Fatalf("expected unsubmittable job to fail, got state %q", state)
	}
	if status := store.Status(job.ID); status != models.StatusFailed {
		t.Fatalf("expected stored status %q, got %q", models.StatusFailed, status)
	}

	// the stream must close on the terminal event so listeners exit
	ev, ok := <-job.Events()
	if !ok || ev.Kind != EventFailed {
		t.Fatalf("expected terminal failed event, got %+v (open=%v)", ev, ok)
	}
	if _, ok := <-job.Events(); ok {
		t.Fatal("expected event stream closed after terminal event")
	}

	// nothing may stay behind in the in-process job table
	q.mu.Lock()
	entries := len(q.jobs)
	q.mu.Unlock()
	if entries != 0 {
		t.Fatalf("expected empty job table, got %d entries", entries)
	}
}

func TestCreatePushNotificationsJobs_SubmissionFailureDoesNotRollBack(t *testing.T) {
	store := NewMockStatusStore()
	transport := &MockTransport{LocalTransport: NewLocalTransport()}

	failures := 0
	transport.PublishFunc = func(ctx context.Context, jobType string, body []byte) error {
		if failures == 0 {
			failures++
			return errors.New("broker is down")
		}
		return transport.LocalTransport.Publish(ctx, jobType, body)
	}

	q := New(testLogger(), transport, store)
	data := `[
		{"phoneNumber": "1", "message": "first"},
		{"phoneNumber": "2", "message": "second"}
	]`

	jobs, err := q.CreatePushNotificationsJobs(context.Background(), []byte(data))
	if err == nil {
		t.Fatal("expected a submission error")
	}
	if len(jobs) != 2 {
		t.Fatalf("expected both jobs to be created, got %d", len(jobs))
	}
	if store.SavedJobs() != 2 {
		t.Fatalf("expected 2 saved jobs, got %d", store.SavedJobs())
	}
	if jobs[0].State() != models.StatusFailed {
		t.Fatalf("expected unsubmitted job to fail, got %q", jobs[0].State())
	}
	if jobs[1].State() != models.StatusEnqueued {
		t.Fatalf("expected second job enqueued, got %q", jobs[1].State())
	}
}
