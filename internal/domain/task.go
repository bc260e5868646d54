package domain

import "context"

// Task names understood by the dispatcher.
const (
	TaskSendConfirmationEmail = "send_confirmation_email"
	TaskSetFeaturedSpeaker    = "set_featured_speaker"
)

// Task parameter names.
const (
	ParamEmail                = "email"
	ParamConferenceInfo       = "conferenceInfo"
	ParamSpeaker              = "speaker"
	ParamWebsafeConferenceKey = "websafeConferenceKey"
)

// TaskDispatcher submits asynchronous jobs with at-least-once, best-effort delivery.
// Enqueue returns once the job is accepted; it never waits for the job to run.
type TaskDispatcher interface {
	Enqueue(ctx context.Context, name string, params map[string]string) error
}

// TaskHandler runs one delivery of a task. A non-nil error schedules a retry.
type TaskHandler func(ctx context.Context, params map[string]string) error
