package services

import (
	"fmt"
	"strings"
	"time"

	"conferencecentral/internal/domain"
)

const (
	dateLayout  = "2006-01-02"
	clockLayout = "15:04"
)

// parseDate reads the YYYY-MM-DD prefix of s. Empty input means no date.
func parseDate(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if len(s) > len(dateLayout) {
		s = s[:len(dateLayout)]
	}
	t, err := time.Parse(dateLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be YYYY-MM-DD, got %q", domain.ErrInvalidInput, field, s)
	}
	return &t, nil
}

// parseClock reads the HH:MM prefix of s. Empty input means no time.
func parseClock(field, s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if len(s) > len(clockLayout) {
		s = s[:len(clockLayout)]
	}
	t, err := time.Parse(clockLayout, s)
	if err != nil {
		return nil, fmt.Errorf("%w: %s must be HH:MM, got %q", domain.ErrInvalidInput, field, s)
	}
	return &t, nil
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(dateLayout)
}

func formatClock(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(clockLayout)
}

func monthOf(t *time.Time) int {
	if t == nil {
		return 0
	}
	return int(t.Month())
}

func intPtr(n int) *int { return &n }

// conferenceFromForm builds a new conference, backfilling defaults for empty fields.
// Seats start equal to capacity; month derives from the start date.
func conferenceFromForm(form *domain.ConferenceForm, organizerUserID string) (*domain.Conference, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	start, err := parseDate("startDate", form.StartDate)
	if err != nil {
		return nil, err
	}
	end, err := parseDate("endDate", form.EndDate)
	if err != nil {
		return nil, err
	}
	c := &domain.Conference{
		OrganizerUserID: organizerUserID,
		Name:            strings.TrimSpace(form.Name),
		Description:     form.Description,
		Topics:          append([]string(nil), form.Topics...),
		City:            form.City,
		StartDate:       start,
		EndDate:         end,
		Month:           monthOf(start),
		MaxAttendees:    domain.DefaultConferenceMaxAttendees,
	}
	if len(c.Topics) == 0 {
		c.Topics = domain.DefaultConferenceTopics()
	}
	if c.City == "" {
		c.City = domain.DefaultConferenceCity
	}
	if form.MaxAttendees != nil {
		c.MaxAttendees = *form.MaxAttendees
	}
	c.SeatsAvailable = c.MaxAttendees
	return c, nil
}

// applyConferenceUpdate copies the non-empty fields of form onto c. A capacity change
// moves seatsAvailable by the same delta and may not drop below the seats already taken.
func applyConferenceUpdate(c *domain.Conference, form *domain.ConferenceForm) error {
	if name := strings.TrimSpace(form.Name); name != "" {
		c.Name = name
	}
	if form.Description != "" {
		c.Description = form.Description
	}
	if len(form.Topics) > 0 {
		c.Topics = append([]string(nil), form.Topics...)
	}
	if form.City != "" {
		c.City = form.City
	}
	if form.StartDate != "" {
		start, err := parseDate("startDate", form.StartDate)
		if err != nil {
			return err
		}
		c.StartDate = start
		c.Month = monthOf(start)
	}
	if form.EndDate != "" {
		end, err := parseDate("endDate", form.EndDate)
		if err != nil {
			return err
		}
		c.EndDate = end
	}
	if form.MaxAttendees != nil && *form.MaxAttendees != c.MaxAttendees {
		registered := c.Registered()
		if *form.MaxAttendees < registered {
			return fmt.Errorf("%w: maxAttendees %d is below the %d seats already taken",
				domain.ErrInvalidInput, *form.MaxAttendees, registered)
		}
		c.MaxAttendees = *form.MaxAttendees
		c.SeatsAvailable = c.MaxAttendees - registered
	}
	return nil
}

func conferenceToForm(c *domain.Conference, organizerDisplayName string) *domain.ConferenceForm {
	return &domain.ConferenceForm{
		Name:                 c.Name,
		Description:          c.Description,
		OrganizerUserID:      c.OrganizerUserID,
		Topics:               append([]string{}, c.Topics...),
		City:                 c.City,
		StartDate:            formatDate(c.StartDate),
		Month:                c.Month,
		MaxAttendees:         intPtr(c.MaxAttendees),
		SeatsAvailable:       intPtr(c.SeatsAvailable),
		EndDate:              formatDate(c.EndDate),
		WebsafeKey:           c.Key().Encode(),
		OrganizerDisplayName: organizerDisplayName,
	}
}

// conferenceSummary renders the conference details carried in the confirmation email.
func conferenceSummary(c *domain.Conference) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Name: %s\n", c.Name)
	if c.Description != "" {
		fmt.Fprintf(&sb, "Description: %s\n", c.Description)
	}
	fmt.Fprintf(&sb, "City: %s\n", c.City)
	fmt.Fprintf(&sb, "Topics: %s\n", strings.Join(c.Topics, ", "))
	if c.StartDate != nil {
		fmt.Fprintf(&sb, "Start date: %s\n", formatDate(c.StartDate))
	}
	if c.EndDate != nil {
		fmt.Fprintf(&sb, "End date: %s\n", formatDate(c.EndDate))
	}
	fmt.Fprintf(&sb, "Max attendees: %d\n", c.MaxAttendees)
	return sb.String()
}

// sessionFromForm builds a session under conf. The session type falls back to NOT_SPECIFIED.
func sessionFromForm(form *domain.SessionForm, conf *domain.Conference) (*domain.Session, error) {
	if errs := form.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidInput, strings.Join(errs, "; "))
	}
	date, err := parseDate("date", form.Date)
	if err != nil {
		return nil, err
	}
	start, err := parseClock("startTime", form.StartTime)
	if err != nil {
		return nil, err
	}
	return &domain.Session{
		ConferenceID:       conf.ID,
		OrganizerUserID:    conf.OrganizerUserID,
		Name:               strings.TrimSpace(form.Name),
		Highlights:         append([]string{}, form.Highlights...),
		SpeakerDisplayName: strings.TrimSpace(form.SpeakerDisplayName),
		Duration:           form.Duration,
		Type:               domain.SessionTypes.Parse(form.SessionType),
		Date:               date,
		StartTime:          start,
	}, nil
}

func sessionToForm(s *domain.Session) *domain.SessionForm {
	return &domain.SessionForm{
		Name:               s.Name,
		Highlights:         append([]string{}, s.Highlights...),
		SpeakerDisplayName: s.SpeakerDisplayName,
		Duration:           s.Duration,
		SessionType:        string(s.Type),
		Date:               formatDate(s.Date),
		StartTime:          formatClock(s.StartTime),
		WebsafeKey:         s.Key().Encode(),
	}
}

func sessionsToForms(sessions []*domain.Session) *domain.SessionForms {
	out := &domain.SessionForms{Items: make([]*domain.SessionForm, 0, len(sessions))}
	for _, s := range sessions {
		out.Items = append(out.Items, sessionToForm(s))
	}
	return out
}

func profileToForm(p *domain.Profile) *domain.ProfileForm {
	return &domain.ProfileForm{
		DisplayName:            p.DisplayName,
		MainEmail:              p.MainEmail,
		TeeShirtSize:           string(p.TeeShirtSize),
		ConferenceKeysToAttend: append([]string{}, p.ConferenceKeysToAttend...),
	}
}

func reviewToForm(r *domain.Review) *domain.ReviewForm {
	return &domain.ReviewForm{
		ConferenceName: r.ConferenceName,
		SessionName:    r.SessionName,
		SpeakerName:    r.SpeakerName,
		Review:         string(r.Rating),
	}
}
