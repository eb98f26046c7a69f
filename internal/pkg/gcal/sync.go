package gcal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

const (
	// echoBuffer suppresses the write-back loop between push and pull:
	// an event updated within this window of the gig's own last write is
	// treated as our own echo and skipped.
	echoBuffer = 5 * time.Second

	// Full-scan pull window around now.
	pullWindowPast   = 30 * 24 * time.Hour
	pullWindowFuture = 90 * 24 * time.Hour
)

// Service drives the two-way sync between gigs and the connected Google
// Calendar.
type Service struct {
	client *Client
	tokens TokenSource
	conns  ConnectionRepository
	gigs   GigRepository
	now    func() time.Time
}

func NewService(client *Client, tokens TokenSource, conns ConnectionRepository, gigs GigRepository) *Service {
	return &Service{
		client: client,
		tokens: tokens,
		conns:  conns,
		gigs:   gigs,
		now:    time.Now,
	}
}

// SyncGigToCalendar pushes one gig out to the calendar, creating the event
// on first sync and updating it afterwards. The stored event id is the
// permanent link; it is set once and never re-pointed.
func (s *Service) SyncGigToCalendar(ctx context.Context, gigUUID string) (*models.Gig, error) {
	conn, err := s.conns.Get()
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.AccessToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	gig, err := s.gigs.GetByUUID(gigUUID)
	if err != nil {
		return nil, err
	}

	event := buildEvent(gig)
	if gig.GoogleCalendarEventID != nil && *gig.GoogleCalendarEventID != "" {
		if _, err := s.client.UpdateEvent(ctx, token, conn.CalendarID, *gig.GoogleCalendarEventID, event); err != nil {
			return nil, err
		}
		return gig, nil
	}

	created, err := s.client.InsertEvent(ctx, token, conn.CalendarID, event)
	if err != nil {
		return nil, err
	}
	gig.GoogleCalendarEventID = &created.ID
	if err := s.gigs.Save(gig); err != nil {
		return nil, err
	}
	return gig, nil
}

// PullCalendarToGigs runs a full bounded scan of the calendar, 30 days back
// to 90 days ahead, and applies every event to the gig table. The scan also
// re-arms the incremental cursor for subsequent webhook pulls.
func (s *Service) PullCalendarToGigs(ctx context.Context) (*apperr.BatchResult, error) {
	conn, err := s.conns.Get()
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.AccessToken(ctx, conn)
	if err != nil {
		return nil, err
	}
	return s.fullScan(ctx, token, conn)
}

// ProcessWebhook handles a calendar push notification: an incremental pull
// when a sync token is stored, otherwise a full scan. A stale token clears
// the cursor and falls back to the full scan in the same call.
func (s *Service) ProcessWebhook(ctx context.Context) (*apperr.BatchResult, error) {
	conn, err := s.conns.Get()
	if err != nil {
		return nil, err
	}
	token, err := s.tokens.AccessToken(ctx, conn)
	if err != nil {
		return nil, err
	}

	if conn.SyncToken == "" {
		return s.fullScan(ctx, token, conn)
	}

	result, err := s.incrementalScan(ctx, token, conn)
	if errors.Is(err, ErrSyncTokenExpired) {
		log.Printf("calendar sync token expired; falling back to full scan")
		conn.SyncToken = ""
		if saveErr := s.conns.Save(conn); saveErr != nil {
			return nil, saveErr
		}
		return s.fullScan(ctx, token, conn)
	}
	return result, err
}

func (s *Service) fullScan(ctx context.Context, token string, conn *models.CalendarConnection) (*apperr.BatchResult, error) {
	now := s.now()
	opts := ListOptions{
		TimeMin: now.Add(-pullWindowPast),
		TimeMax: now.Add(pullWindowFuture),
	}
	return s.scan(ctx, token, conn, opts)
}

func (s *Service) incrementalScan(ctx context.Context, token string, conn *models.CalendarConnection) (*apperr.BatchResult, error) {
	return s.scan(ctx, token, conn, ListOptions{SyncToken: conn.SyncToken})
}

// scan pages through a list call, applies each event and persists the new
// cursor. Individual event failures do not abort the scan.
func (s *Service) scan(ctx context.Context, token string, conn *models.CalendarConnection, opts ListOptions) (*apperr.BatchResult, error) {
	result := &apperr.BatchResult{}
	for {
		page, err := s.client.ListEvents(ctx, token, conn.CalendarID, opts)
		if err != nil {
			return result, err
		}

		for i := range page.Items {
			event := &page.Items[i]
			result.Total++
			outcome, err := s.applyEvent(event)
			if err != nil {
				result.Fail(event.ID, err)
				log.Printf("calendar event %s failed to apply: %v", event.ID, err)
				continue
			}
			switch outcome {
			case eventCreated:
				result.Created++
			case eventUpdated:
				result.Updated++
			default:
				result.Skipped++
			}
		}

		if page.NextSyncToken != "" {
			conn.SyncToken = page.NextSyncToken
			if err := s.conns.Save(conn); err != nil {
				return result, err
			}
		}
		if page.NextPageToken == "" {
			return result, nil
		}
		opts.PageToken = page.NextPageToken
	}
}

type eventOutcome int

const (
	eventSkipped eventOutcome = iota
	eventCreated
	eventUpdated
)

// applyEvent maps one inbound calendar event onto the gig table.
func (s *Service) applyEvent(event *Event) (eventOutcome, error) {
	if event.Status == "cancelled" {
		return s.cancelLinkedGig(event.ID)
	}
	if strings.TrimSpace(event.Summary) == "" || event.Start == nil {
		return eventSkipped, nil
	}

	data := decodeEvent(event)

	gig, err := s.gigs.GetByCalendarEventID(event.ID)
	switch {
	case err == nil:
		return s.updateLinkedGig(gig, event, data)
	case errors.Is(err, apperr.ErrNotFound):
		return s.createGigFromEvent(event.ID, data)
	default:
		return eventSkipped, err
	}
}

func (s *Service) cancelLinkedGig(eventID string) (eventOutcome, error) {
	gig, err := s.gigs.GetByCalendarEventID(eventID)
	if errors.Is(err, apperr.ErrNotFound) {
		return eventSkipped, nil
	}
	if err != nil {
		return eventSkipped, err
	}
	if gig.IsCancelled() {
		return eventSkipped, nil
	}
	gig.Status = models.GigStatusCancelled
	if err := s.gigs.Save(gig); err != nil {
		return eventSkipped, err
	}
	return eventUpdated, nil
}

func (s *Service) updateLinkedGig(gig *models.Gig, event *Event, data GigEventData) (eventOutcome, error) {
	// Events touched within the echo window of our own last write are our
	// own push coming back around.
	if event.Updated != "" {
		updated, err := time.Parse(time.RFC3339, event.Updated)
		if err == nil && !updated.After(gig.UpdatedAt.Add(echoBuffer)) {
			return eventSkipped, nil
		}
	}

	applyEventData(gig, data)
	if err := s.gigs.Save(gig); err != nil {
		return eventSkipped, err
	}
	return eventUpdated, nil
}

func (s *Service) createGigFromEvent(eventID string, data GigEventData) (eventOutcome, error) {
	if data.Date == "" {
		return eventSkipped, fmt.Errorf("event %s has no usable date: %w", eventID, apperr.ErrValidation)
	}
	date, err := time.Parse("2006-01-02", data.Date)
	if err != nil {
		return eventSkipped, fmt.Errorf("event %s has malformed date %q: %w", eventID, data.Date, apperr.ErrValidation)
	}

	gig := &models.Gig{
		Title:                 data.Title,
		Venue:                 data.Venue,
		City:                  data.City,
		Address:               data.Address,
		Date:                  date,
		StartTime:             data.StartTime,
		EndTime:               data.EndTime,
		OrganizerName:         data.OrganizerName,
		OrganizerPhone:        data.OrganizerPhone,
		OrganizerEmail:        data.OrganizerEmail,
		Notes:                 data.Notes,
		Status:                models.GigStatusLead,
		GoogleCalendarEventID: &eventID,
	}
	if data.Status != "" {
		gig.Status = data.Status
	}
	if data.Amount != nil {
		gig.QuotedAmount = data.Amount
	}

	if err := s.gigs.Create(gig); err != nil {
		return eventSkipped, err
	}
	return eventCreated, nil
}

// applyEventData overwrites gig fields from an inbound event. The amount
// lands on the confirmed side when the gig is already confirmed, otherwise
// on the quote.
func applyEventData(gig *models.Gig, data GigEventData) {
	gig.Title = data.Title
	gig.Venue = data.Venue
	gig.City = data.City
	gig.Address = data.Address
	if data.Date != "" {
		if date, err := time.Parse("2006-01-02", data.Date); err == nil {
			gig.Date = date
		}
	}
	gig.StartTime = data.StartTime
	gig.EndTime = data.EndTime
	if data.OrganizerName != "" {
		gig.OrganizerName = data.OrganizerName
	}
	if data.OrganizerPhone != "" {
		gig.OrganizerPhone = data.OrganizerPhone
	}
	if data.OrganizerEmail != "" {
		gig.OrganizerEmail = data.OrganizerEmail
	}
	if data.Notes != "" {
		gig.Notes = data.Notes
	}
	if data.Status != "" {
		gig.Status = data.Status
	}
	if data.Amount != nil {
		switch gig.Status {
		case models.GigStatusConfirmed, models.GigStatusCompleted, models.GigStatusPaid:
			gig.ConfirmedAmount = data.Amount
		default:
			gig.QuotedAmount = data.Amount
		}
	}
}

// buildEvent renders a gig into its outbound calendar event.
func buildEvent(gig *models.Gig) *Event {
	amount := gig.GrossAmount()
	data := GigEventData{
		OrganizerName:  gig.OrganizerName,
		OrganizerPhone: gig.OrganizerPhone,
		OrganizerEmail: gig.OrganizerEmail,
		Notes:          gig.Notes,
		Status:         gig.Status,
	}
	if !amount.IsZero() {
		data.Amount = &amount
	}

	start, end := EncodeEventTimes(gig.Date.Format("2006-01-02"), gig.StartTime, gig.EndTime)
	return &Event{
		Summary:     gig.Title,
		Location:    EncodeLocation(gig.Venue, gig.City, gig.Address),
		Description: EncodeDescription(data),
		ColorID:     gig.CalendarColorID(),
		Start:       &start,
		End:         &end,
	}
}

// decodeEvent maps an inbound calendar event to gig field values.
func decodeEvent(event *Event) GigEventData {
	data := GigEventData{Title: strings.TrimSpace(event.Summary)}
	data.Venue, data.City, data.Address = DecodeLocation(event.Location)

	var end EventDateTime
	if event.End != nil {
		end = *event.End
	}
	data.Date, data.StartTime, data.EndTime = DecodeEventTimes(*event.Start, end)

	DecodeDescription(event.Description, &data)
	return data
}
