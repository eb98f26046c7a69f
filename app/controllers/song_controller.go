package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/app/repository"
	"github.com/gigbookhq/gigbook/internal/pkg/usercontext"
)

type songRequest struct {
	Title           string `json:"title"`
	Artist          string `json:"artist"`
	DurationSeconds int    `json:"duration_seconds"`
	MusicalKey      string `json:"musical_key"`
	Tempo           int    `json:"tempo"`
	Tags            string `json:"tags"`
	Status          string `json:"status"`
	Notes           string `json:"notes"`
}

// HandleCreateSong adds a song to the repertoire.
func HandleCreateSong(c *fiber.Ctx) error {
	var req songRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	song := &models.Song{
		Title:           req.Title,
		Artist:          req.Artist,
		DurationSeconds: req.DurationSeconds,
		MusicalKey:      req.MusicalKey,
		Tempo:           req.Tempo,
		Tags:            req.Tags,
		Status:          models.SongStatusActive,
		Notes:           req.Notes,
		CreatedBy:       usercontext.GetUserID(c),
	}
	if req.Status != "" {
		song.Status = req.Status
	}
	if err := song.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}

	if err := repository.GetGlobalFactory().GetSongRepository().Create(song); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(song)
}

// HandleListSongs lists the repertoire, optionally filtered by search query.
func HandleListSongs(c *fiber.Ctx) error {
	repo := repository.GetGlobalFactory().GetSongRepository()

	if query := c.Query("q"); query != "" {
		songs, err := repo.Search(query)
		if err != nil {
			return respondError(c, err)
		}
		return c.JSON(fiber.Map{"songs": songs})
	}

	songs, err := repo.List()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"songs": songs})
}

// HandleUpdateSong applies a partial update to a song.
func HandleUpdateSong(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetSongRepository()
	song, err := repo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}

	var req songRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	if req.Title != "" {
		song.Title = req.Title
	}
	if req.Artist != "" {
		song.Artist = req.Artist
	}
	if req.DurationSeconds > 0 {
		song.DurationSeconds = req.DurationSeconds
	}
	if req.MusicalKey != "" {
		song.MusicalKey = req.MusicalKey
	}
	if req.Tempo > 0 {
		song.Tempo = req.Tempo
	}
	if req.Tags != "" {
		song.Tags = req.Tags
	}
	if req.Status != "" {
		song.Status = req.Status
	}
	if req.Notes != "" {
		song.Notes = req.Notes
	}

	if err := song.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Update(song); err != nil {
		return respondError(c, err)
	}
	return c.JSON(song)
}

// HandleDeleteSong retires a song from the repertoire.
func HandleDeleteSong(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetSongRepository()
	if _, err := repo.GetByID(id); err != nil {
		return respondError(c, err)
	}
	if err := repo.Delete(id); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "song deleted"})
}

type setlistRequest struct {
	SongIDs []uint `json:"song_ids"`
}

// HandleSetSetlist replaces a gig's setlist with the given songs in order.
func HandleSetSetlist(c *fiber.Ctx) error {
	gig, err := repository.GetGlobalFactory().GetGigRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}

	var req setlistRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	repo := repository.GetGlobalFactory().GetSongRepository()
	if err := repo.SetSetlist(gig.ID, req.SongIDs); err != nil {
		return respondError(c, err)
	}

	entries, err := repo.GetSetlist(gig.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"setlist": entries})
}

// HandleGetSetlist returns a gig's setlist in playing order.
func HandleGetSetlist(c *fiber.Ctx) error {
	gig, err := repository.GetGlobalFactory().GetGigRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}

	entries, err := repository.GetGlobalFactory().GetSongRepository().GetSetlist(gig.ID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"setlist": entries})
}

// HandleClearSetlist removes a gig's setlist.
func HandleClearSetlist(c *fiber.Ctx) error {
	gig, err := repository.GetGlobalFactory().GetGigRepository().GetByUUID(c.Params("uuid"))
	if err != nil {
		return respondError(c, err)
	}

	if err := repository.GetGlobalFactory().GetSongRepository().ClearSetlist(gig.ID); err != nil {
		return respondError(c, err)
	}
	return c.JSON(fiber.Map{"message": "setlist cleared"})
}
