package repository

import (
	"github.com/gigbookhq/gigbook/app/models"
	"gorm.io/gorm"
)

// songRepository implements the SongRepository interface
type songRepository struct {
	db *gorm.DB
}

// NewSongRepository creates a new song repository instance
func NewSongRepository(db *gorm.DB) SongRepository {
	return &songRepository{db: db}
}

// Create adds a song to the repertoire
func (r *songRepository) Create(song *models.Song) error {
	return r.db.Create(song).Error
}

// GetByID retrieves a song by its ID
func (r *songRepository) GetByID(id uint) (*models.Song, error) {
	var song models.Song
	err := r.db.First(&song, id).Error
	if err != nil {
		return nil, err
	}
	return &song, nil
}

// Update updates an existing song
func (r *songRepository) Update(song *models.Song) error {
	return r.db.Save(song).Error
}

// Delete soft deletes a song by its ID
func (r *songRepository) Delete(id uint) error {
	return r.db.Delete(&models.Song{}, id).Error
}

// List retrieves the full repertoire ordered by title
func (r *songRepository) List() ([]models.Song, error) {
	var songs []models.Song
	err := r.db.Order("title ASC").Find(&songs).Error
	return songs, err
}

// Search finds songs by title or artist
func (r *songRepository) Search(query string) ([]models.Song, error) {
	var songs []models.Song
	pattern := "%" + query + "%"
	err := r.db.Where("title LIKE ? OR artist LIKE ?", pattern, pattern).Order("title ASC").Find(&songs).Error
	return songs, err
}

// SetSetlist replaces a gig's setlist with the given songs in order
func (r *songRepository) SetSetlist(gigID uint, songIDs []uint) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("gig_id = ?", gigID).Delete(&models.SetlistEntry{}).Error; err != nil {
			return err
		}
		for i, songID := range songIDs {
			entry := models.SetlistEntry{
				GigID:    gigID,
				SongID:   songID,
				Position: i + 1,
			}
			if err := tx.Create(&entry).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// GetSetlist retrieves a gig's setlist in playing order
func (r *songRepository) GetSetlist(gigID uint) ([]models.SetlistEntry, error) {
	var entries []models.SetlistEntry
	err := r.db.Preload("Song").Where("gig_id = ?", gigID).Order("position ASC").Find(&entries).Error
	return entries, err
}

// ClearSetlist removes a gig's setlist entirely
func (r *songRepository) ClearSetlist(gigID uint) error {
	return r.db.Where("gig_id = ?", gigID).Delete(&models.SetlistEntry{}).Error
}
