package services

import (
	"testing"
	"time"

	"conferencecentral/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "2024-06-15", want: "2024-06-15"},
		{in: "2024-06-15T10:00:00Z", want: "2024-06-15"},
		{in: " 2024-01-02 ", want: "2024-01-02"},
		{in: "15/06/2024", wantErr: true},
		{in: "2024-13-01", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate("startDate", tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatDate(got))
		})
	}
}

func TestParseClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: "09:30", want: "09:30"},
		{in: "18:45:59", want: "18:45"},
		{in: "25:00", wantErr: true},
		{in: "noon", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseClock("startTime", tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, domain.ErrInvalidInput)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, formatClock(got))
		})
	}
}

func TestConferenceFromForm_Defaults(t *testing.T) {
	c, err := conferenceFromForm(&domain.ConferenceForm{Name: " Gophers "}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, "Gophers", c.Name)
	assert.Equal(t, domain.DefaultConferenceCity, c.City)
	assert.Equal(t, domain.DefaultConferenceTopics(), c.Topics)
	assert.Equal(t, 0, c.MaxAttendees)
	assert.Equal(t, 0, c.SeatsAvailable)
	assert.Equal(t, 0, c.Month)
	assert.Nil(t, c.StartDate)
}

func TestConferenceFromForm_SeatsAndMonth(t *testing.T) {
	c, err := conferenceFromForm(&domain.ConferenceForm{
		Name:         "Gophers",
		StartDate:    "2024-09-03",
		MaxAttendees: intPtr(40),
		Topics:       []string{"Go"},
		City:         "Berlin",
	}, "user-1")
	require.NoError(t, err)
	assert.Equal(t, 40, c.SeatsAvailable)
	assert.Equal(t, int(time.September), c.Month)
	assert.Equal(t, []string{"Go"}, c.Topics)
}

func TestApplyConferenceUpdate_Capacity(t *testing.T) {
	tests := []struct {
		name      string
		max       int
		wantSeats int
		wantErr   error
	}{
		{name: "grow", max: 20, wantSeats: 16},
		{name: "shrink", max: 6, wantSeats: 2},
		{name: "shrink to registered", max: 4, wantSeats: 0},
		{name: "below registered", max: 3, wantErr: domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := &domain.Conference{Name: "Gophers", MaxAttendees: 10, SeatsAvailable: 6}
			err := applyConferenceUpdate(c, &domain.ConferenceForm{MaxAttendees: intPtr(tt.max)})
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				assert.Equal(t, 10, c.MaxAttendees)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.max, c.MaxAttendees)
			assert.Equal(t, tt.wantSeats, c.SeatsAvailable)
		})
	}
}

func TestApplyConferenceUpdate_KeepsEmptyFields(t *testing.T) {
	start := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	c := &domain.Conference{Name: "Gophers", City: "Paris", Topics: []string{"Go"}, StartDate: &start, Month: 3}

	require.NoError(t, applyConferenceUpdate(c, &domain.ConferenceForm{Description: "new"}))
	assert.Equal(t, "Gophers", c.Name)
	assert.Equal(t, "Paris", c.City)
	assert.Equal(t, []string{"Go"}, c.Topics)
	assert.Equal(t, 3, c.Month)
	assert.Equal(t, "new", c.Description)

	require.NoError(t, applyConferenceUpdate(c, &domain.ConferenceForm{StartDate: "2024-11-20"}))
	assert.Equal(t, 11, c.Month)
}

func TestConferenceSummary(t *testing.T) {
	start := time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC)
	got := conferenceSummary(&domain.Conference{
		Name: "Gophers", City: "Lyon", Topics: []string{"Go", "Cloud"}, StartDate: &start, MaxAttendees: 50,
	})
	assert.Equal(t, "Name: Gophers\nCity: Lyon\nTopics: Go, Cloud\nStart date: 2024-05-02\nMax attendees: 50\n", got)
}
