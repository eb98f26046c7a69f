package gcal

import (
	"errors"

	"gorm.io/gorm"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/internal/pkg/apperr"
)

// ConnectionRepository persists the band's single calendar connection.
type ConnectionRepository interface {
	Get() (*models.CalendarConnection, error)
	Save(conn *models.CalendarConnection) error
	Delete(conn *models.CalendarConnection) error
}

// GigRepository is the slice of gig persistence the sync protocol needs.
type GigRepository interface {
	GetByUUID(uuid string) (*models.Gig, error)
	GetByCalendarEventID(eventID string) (*models.Gig, error)
	Create(gig *models.Gig) error
	Save(gig *models.Gig) error
}

type gormConnectionRepository struct {
	db *gorm.DB
}

func NewConnectionRepository(db *gorm.DB) ConnectionRepository {
	return &gormConnectionRepository{db: db}
}

func (r *gormConnectionRepository) Get() (*models.CalendarConnection, error) {
	var conn models.CalendarConnection
	if err := r.db.Order("id ASC").First(&conn).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.ErrNotConnected
		}
		return nil, errors.Join(apperr.ErrStorage, err)
	}
	return &conn, nil
}

func (r *gormConnectionRepository) Save(conn *models.CalendarConnection) error {
	if err := r.db.Save(conn).Error; err != nil {
		return errors.Join(apperr.ErrStorage, err)
	}
	return nil
}

func (r *gormConnectionRepository) Delete(conn *models.CalendarConnection) error {
	if err := r.db.Delete(conn).Error; err != nil {
		return errors.Join(apperr.ErrStorage, err)
	}
	return nil
}

type gormGigRepository struct {
	db *gorm.DB
}

func NewGigRepository(db *gorm.DB) GigRepository {
	return &gormGigRepository{db: db}
}

func (r *gormGigRepository) GetByUUID(uuid string) (*models.Gig, error) {
	var gig models.Gig
	if err := r.db.Where("uuid = ?", uuid).First(&gig).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Join(apperr.ErrNotFound, err)
		}
		return nil, errors.Join(apperr.ErrStorage, err)
	}
	return &gig, nil
}

func (r *gormGigRepository) GetByCalendarEventID(eventID string) (*models.Gig, error) {
	var gig models.Gig
	if err := r.db.Where("google_calendar_event_id = ?", eventID).First(&gig).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, errors.Join(apperr.ErrNotFound, err)
		}
		return nil, errors.Join(apperr.ErrStorage, err)
	}
	return &gig, nil
}

func (r *gormGigRepository) Create(gig *models.Gig) error {
	if err := r.db.Create(gig).Error; err != nil {
		return errors.Join(apperr.ErrStorage, err)
	}
	return nil
}

func (r *gormGigRepository) Save(gig *models.Gig) error {
	if err := r.db.Save(gig).Error; err != nil {
		return errors.Join(apperr.ErrStorage, err)
	}
	return nil
}
