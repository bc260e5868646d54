package domain

import "strings"

// ConferenceForm is the wire record for a conference.
// swagger:model ConferenceForm
type ConferenceForm struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description,omitempty"`
	OrganizerUserID      string   `json:"organizerUserId,omitempty"`
	Topics               []string `json:"topics,omitempty"`
	City                 string   `json:"city,omitempty"`
	StartDate            string   `json:"startDate,omitempty"`
	Month                int      `json:"month,omitempty"`
	MaxAttendees         *int     `json:"maxAttendees,omitempty"`
	SeatsAvailable       *int     `json:"seatsAvailable,omitempty"`
	EndDate              string   `json:"endDate,omitempty"`
	WebsafeKey           string   `json:"websafeKey,omitempty"`
	OrganizerDisplayName string   `json:"organizerDisplayName,omitempty"`
}

func (f ConferenceForm) Validate() []string {
	if strings.TrimSpace(f.Name) == "" {
		return []string{"name is required"}
	}
	var errs []string
	if f.MaxAttendees != nil && *f.MaxAttendees < 0 {
		errs = append(errs, "maxAttendees must be zero or greater")
	}
	return errs
}

// ConferenceForms is a list of conferences.
// swagger:model ConferenceForms
type ConferenceForms struct {
	Items []*ConferenceForm `json:"items"`
}

// ConferenceQueryForm is one symbolic filter, e.g. {"field":"CITY","operator":"EQ","value":"London"}.
// swagger:model ConferenceQueryForm
type ConferenceQueryForm struct {
	Field    string `json:"field"`
	Operator string `json:"operator"`
	Value    string `json:"value"`
}

// ConferenceQueryForms is the body of queryConferences.
// swagger:model ConferenceQueryForms
type ConferenceQueryForms struct {
	Filters []ConferenceQueryForm `json:"filters"`
}

// SessionForm is the wire record for a session. ConferenceName is only read when
// conferences are addressed by name.
// swagger:model SessionForm
type SessionForm struct {
	Name               string   `json:"name"`
	Highlights         []string `json:"highlights,omitempty"`
	SpeakerDisplayName string   `json:"speakerDisplayName"`
	Duration           int      `json:"duration,omitempty"`
	SessionType        string   `json:"sessionType,omitempty"`
	Date               string   `json:"date,omitempty"`
	StartTime          string   `json:"startTime,omitempty"`
	ConferenceName     string   `json:"conferenceName,omitempty"`
	WebsafeKey         string   `json:"websafeKey,omitempty"`
}

func (f SessionForm) Validate() []string {
	var errs []string
	if strings.TrimSpace(f.Name) == "" {
		errs = append(errs, "name is required")
	}
	if strings.TrimSpace(f.SpeakerDisplayName) == "" {
		errs = append(errs, "speakerDisplayName is required")
	}
	if f.Duration < 0 {
		errs = append(errs, "duration must be zero or greater")
	}
	return errs
}

// SessionForms is a list of sessions.
// swagger:model SessionForms
type SessionForms struct {
	Items []*SessionForm `json:"items"`
}

// SessionQueryForm carries a single query string: a conference name, session type or speaker.
// swagger:model SessionQueryForm
type SessionQueryForm struct {
	Query string `json:"query"`
}

// SessionsExcludingTypeForm selects sessions not of SessionType starting in
// [SessionAfterTime, SessionBeforeTime). Times are HH:MM; either may be empty.
// swagger:model SessionsExcludingTypeForm
type SessionsExcludingTypeForm struct {
	SessionType          string `json:"sessionType"`
	SessionAfterTime     string `json:"sessionAfterTime,omitempty"`
	SessionBeforeTime    string `json:"sessionBeforeTime,omitempty"`
	WebsafeConferenceKey string `json:"websafeConferenceKey,omitempty"`
}

func (f SessionsExcludingTypeForm) Validate() []string {
	if strings.TrimSpace(f.SessionType) == "" {
		return []string{"sessionType is required"}
	}
	return nil
}

// ProfileForm is the outbound profile record.
// swagger:model ProfileForm
type ProfileForm struct {
	DisplayName            string   `json:"displayName"`
	MainEmail              string   `json:"mainEmail"`
	TeeShirtSize           string   `json:"teeShirtSize"`
	ConferenceKeysToAttend []string `json:"conferenceKeysToAttend"`
}

// ProfileMiniForm holds the profile fields a user may change.
// swagger:model ProfileMiniForm
type ProfileMiniForm struct {
	DisplayName  string `json:"displayName,omitempty"`
	TeeShirtSize string `json:"teeShirtSize,omitempty"`
}

// WishlistForm adds a session by websafe key.
// swagger:model WishlistForm
type WishlistForm struct {
	WebsafeSessionKey string `json:"websafeSessionKey"`
}

func (f WishlistForm) Validate() []string {
	if strings.TrimSpace(f.WebsafeSessionKey) == "" {
		return []string{"websafeSessionKey is required"}
	}
	return nil
}

// WishlistFormName adds a session by name.
// swagger:model WishlistFormName
type WishlistFormName struct {
	SessionName string `json:"sessionName"`
}

func (f WishlistFormName) Validate() []string {
	if strings.TrimSpace(f.SessionName) == "" {
		return []string{"sessionName is required"}
	}
	return nil
}

// ReviewForm is the wire record for a review.
// swagger:model ReviewForm
type ReviewForm struct {
	ConferenceName string `json:"conference_name"`
	SessionName    string `json:"session_name"`
	SpeakerName    string `json:"speaker_name,omitempty"`
	Review         string `json:"review"`
}

func (f ReviewForm) Validate() []string {
	var errs []string
	if strings.TrimSpace(f.ConferenceName) == "" {
		errs = append(errs, "conference_name is required")
	}
	if strings.TrimSpace(f.SessionName) == "" {
		errs = append(errs, "session_name is required")
	}
	if strings.TrimSpace(f.Review) == "" {
		errs = append(errs, "review is required")
	}
	return errs
}

// ReviewForms is a list of reviews.
// swagger:model ReviewForms
type ReviewForms struct {
	Items []*ReviewForm `json:"items"`
}

// ReviewQueryForm selects reviews by session name.
// swagger:model ReviewQueryForm
type ReviewQueryForm struct {
	SessionName string `json:"session_name"`
}

func (f ReviewQueryForm) Validate() []string {
	if strings.TrimSpace(f.SessionName) == "" {
		return []string{"session_name is required"}
	}
	return nil
}
