package services

import (
	"context"
	"testing"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type handlerMap map[string]domain.TaskHandler

func (m handlerMap) Handle(name string, h domain.TaskHandler) { m[name] = h }

func TestRegisterTaskHandlers(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	conf := store.seedConference(&domain.Conference{OrganizerUserID: "user-1", Name: "GopherCon"})
	store.seedSession(&domain.Session{ConferenceID: conf.ID, Name: "One", SpeakerDisplayName: "Rob"})
	store.seedSession(&domain.Session{ConferenceID: conf.ID, Name: "Two", SpeakerDisplayName: "Rob"})
	cache := newFakeCache()
	mailer := &fakeMailer{}

	handlers := handlerMap{}
	RegisterTaskHandlers(handlers,
		NewEmailService(mailer, &fakeRenderer{}, discardLogger()),
		NewAnnouncementService(store.Stores(), cache, nil, discardLogger()),
	)
	require.Len(t, handlers, 2)

	err := handlers[domain.TaskSendConfirmationEmail](ctx, map[string]string{
		domain.ParamEmail:          "ada@example.com",
		domain.ParamConferenceInfo: "Name: GopherCon",
	})
	require.NoError(t, err)
	assert.Equal(t, "ada@example.com", mailer.to)

	err = handlers[domain.TaskSetFeaturedSpeaker](ctx, map[string]string{
		domain.ParamSpeaker:              "Rob",
		domain.ParamWebsafeConferenceKey: conf.Key().Encode(),
	})
	require.NoError(t, err)
	assert.Equal(t, "Our featured speaker is Rob. Sessions: One, Two", cache.data[domain.CacheKeyFeaturedSpeaker])
}
