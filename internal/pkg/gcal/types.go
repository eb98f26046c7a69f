package gcal

// Wire types for the Google Calendar v3 REST surface. Only the fields the
// sync protocol depends on are mapped.

// TokenResponse is the OAuth token endpoint response for both the
// authorization-code and refresh-token grants. Google omits refresh_token
// on refresh grants.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
	ExpiresIn    int    `json:"expires_in"`
	TokenType    string `json:"token_type"`
	Scope        string `json:"scope"`
}

// EventDateTime carries either a timed dateTime or an all-day date.
type EventDateTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

// Event is a calendar event.
type Event struct {
	ID          string         `json:"id,omitempty"`
	Status      string         `json:"status,omitempty"`
	Summary     string         `json:"summary,omitempty"`
	Location    string         `json:"location,omitempty"`
	Description string         `json:"description,omitempty"`
	ColorID     string         `json:"colorId,omitempty"`
	Start       *EventDateTime `json:"start,omitempty"`
	End         *EventDateTime `json:"end,omitempty"`
	Updated     string         `json:"updated,omitempty"`
}

// EventList is one page of a list-events response.
type EventList struct {
	Items         []Event `json:"items"`
	NextPageToken string  `json:"nextPageToken"`
	NextSyncToken string  `json:"nextSyncToken"`
}

// Channel is a push notification channel registration.
type Channel struct {
	ID         string `json:"id"`
	Type       string `json:"type,omitempty"`
	Address    string `json:"address,omitempty"`
	Token      string `json:"token,omitempty"`
	ResourceID string `json:"resourceId,omitempty"`
	Expiration int64  `json:"expiration,omitempty,string"`
}

// apiError is the provider's error envelope.
type apiError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Errors  []struct {
			Reason string `json:"reason"`
		} `json:"errors"`
	} `json:"error"`
}
