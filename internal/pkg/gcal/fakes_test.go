package gcal

import (
	"context"
	"fmt"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

// fakeConns holds at most one connection, like the real table.
type fakeConns struct {
	conn  *models.CalendarConnection
	saves int
}

func (f *fakeConns) Get() (*models.CalendarConnection, error) {
	if f.conn == nil {
		return nil, apperr.ErrNotConnected
	}
	return f.conn, nil
}

func (f *fakeConns) Save(conn *models.CalendarConnection) error {
	f.conn = conn
	f.saves++
	return nil
}

func (f *fakeConns) Delete(conn *models.CalendarConnection) error {
	f.conn = nil
	return nil
}

type fakeGigs struct {
	gigs   []*models.Gig
	nextID uint
}

func (f *fakeGigs) GetByUUID(uuid string) (*models.Gig, error) {
	for _, g := range f.gigs {
		if g.UUID == uuid {
			return g, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeGigs) GetByCalendarEventID(eventID string) (*models.Gig, error) {
	for _, g := range f.gigs {
		if g.GoogleCalendarEventID != nil && *g.GoogleCalendarEventID == eventID {
			return g, nil
		}
	}
	return nil, apperr.ErrNotFound
}

func (f *fakeGigs) Create(gig *models.Gig) error {
	f.nextID++
	gig.ID = f.nextID
	if gig.UUID == "" {
		gig.UUID = fmt.Sprintf("gig-%d", f.nextID)
	}
	f.gigs = append(f.gigs, gig)
	return nil
}

func (f *fakeGigs) Save(gig *models.Gig) error {
	for i, g := range f.gigs {
		if g.ID == gig.ID {
			f.gigs[i] = gig
			return nil
		}
	}
	return f.Create(gig)
}

// staticTokens never refreshes; sync tests are not about the token path.
type staticTokens struct {
	token string
}

func (s *staticTokens) AccessToken(ctx context.Context, conn *models.CalendarConnection) (string, error) {
	return s.token, nil
}
