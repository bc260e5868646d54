package services

import (
	"context"

	"conferencecentral/internal/domain"
)

// TaskRegistry accepts handlers for named background tasks.
type TaskRegistry interface {
	Handle(name string, h domain.TaskHandler)
}

// RegisterTaskHandlers wires the confirmation-email and featured-speaker jobs.
func RegisterTaskHandlers(r TaskRegistry, email domain.EmailService, announcements domain.AnnouncementService) {
	r.Handle(domain.TaskSendConfirmationEmail, func(ctx context.Context, params map[string]string) error {
		return email.SendConferenceCreated(ctx, &domain.ConferenceCreatedEmailData{
			Email:          params[domain.ParamEmail],
			ConferenceInfo: params[domain.ParamConferenceInfo],
		})
	})
	r.Handle(domain.TaskSetFeaturedSpeaker, func(ctx context.Context, params map[string]string) error {
		_, err := announcements.RefreshFeaturedSpeaker(ctx, params[domain.ParamSpeaker], params[domain.ParamWebsafeConferenceKey])
		return err
	})
}
