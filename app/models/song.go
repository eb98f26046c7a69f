package models

import (
	"time"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"
)

const (
	SongStatusActive   = "active"
	SongStatusLearning = "learning"
	SongStatusRetired  = "retired"
)

// Song is an entry in the band's repertoire.
type Song struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Title           string         `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Artist          string         `gorm:"type:varchar(150)" json:"artist" validate:"max=150"`
	DurationSeconds int            `gorm:"default:0" json:"duration_seconds" validate:"gte=0"`
	MusicalKey      string         `gorm:"type:varchar(10)" json:"musical_key" validate:"max=10"`
	Tempo           int            `gorm:"default:0" json:"tempo" validate:"gte=0,lte=400"`
	Tags            string         `gorm:"type:varchar(255)" json:"tags"`
	Status          string         `gorm:"type:varchar(20);default:'active'" json:"status" validate:"oneof=active learning retired"`
	Notes           string         `gorm:"type:text" json:"notes"`
	CreatedBy       uint           `gorm:"index" json:"created_by"`
	CreatedAt       time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt       time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`
}

func (s *Song) Validate() error {
	v := validator.New()

	return v.Struct(s)
}

// SetlistEntry places a song at a position in a gig's setlist.
type SetlistEntry struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	GigID     uint      `gorm:"not null;index:ux_setlist_gig_position,unique,priority:1" json:"gig_id"`
	SongID    uint      `gorm:"not null;index" json:"song_id"`
	Song      *Song     `gorm:"foreignKey:SongID" json:"song,omitempty"`
	Position  int       `gorm:"not null;index:ux_setlist_gig_position,unique,priority:2" json:"position"`
	Notes     string    `gorm:"type:varchar(255)" json:"notes"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}
