package controllers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	gothfiber "github.com/shareed2k/goth_fiber"
	"gorm.io/gorm"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/app/repository"
	"github.com/gigbookhq/gigbook/internal/pkg/session"
	"github.com/gigbookhq/gigbook/internal/pkg/usercontext"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// HandleLogin authenticates a member with email and password.
func HandleLogin(c *fiber.Ctx) error {
	var req loginRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(req.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "invalid credentials")
		}
		return respondError(c, err)
	}

	if !user.CheckPassword(req.Password) {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "invalid credentials")
	}
	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "account is inactive")
	}

	if err := establishSession(c, user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(userResponse(user))
}

// HandleGoogleLogin starts the Google OAuth login flow.
func HandleGoogleLogin(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleGoogleCallback finishes the Google OAuth login flow. Only emails
// already registered as band members may log in this way.
func HandleGoogleCallback(c *fiber.Ctx) error {
	gothUser, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		log.Errorf("[Auth] Google OAuth callback failed: %v", err)
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "google login failed")
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByEmail(gothUser.Email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return jsonError(c, fiber.StatusForbidden, "forbidden", "email is not a registered band member")
		}
		return respondError(c, err)
	}
	if !user.IsActive() {
		return jsonError(c, fiber.StatusForbidden, "forbidden", "account is inactive")
	}

	if err := establishSession(c, user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(userResponse(user))
}

// HandleLogout ends the current session.
func HandleLogout(c *fiber.Ctx) error {
	store := session.GetSessionStore()
	if store != nil {
		if sess, err := store.Get(c); err == nil {
			if err := sess.Destroy(); err != nil {
				log.Errorf("[Auth] Session destroy failed: %v", err)
			}
		}
	}
	return c.JSON(fiber.Map{"message": "logged out"})
}

// HandleMe returns the authenticated member's account.
func HandleMe(c *fiber.Ctx) error {
	userCtx := usercontext.GetUserContext(c)
	if !userCtx.IsLoggedIn {
		return jsonError(c, fiber.StatusUnauthorized, "unauthorized", "login required")
	}

	user, err := repository.GetGlobalFactory().GetUserRepository().GetByID(userCtx.UserID)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(userResponse(user))
}

func establishSession(c *fiber.Ctx, user *models.User) error {
	store := session.GetSessionStore()
	if store == nil {
		return errors.New("session store not initialized")
	}
	sess, err := store.Get(c)
	if err != nil {
		return err
	}
	sess.Set(usercontext.KeyUserID, strconv.FormatUint(uint64(user.ID), 10))
	sess.Set(usercontext.KeyUsername, user.Name)
	sess.Set(usercontext.KeyIsAdmin, user.IsAdmin())
	if err := sess.Save(); err != nil {
		return err
	}

	now := time.Now()
	user.LastLoginAt = &now
	if err := repository.GetGlobalFactory().GetUserRepository().Update(user); err != nil {
		log.Errorf("[Auth] Updating last login failed: %v", err)
	}
	return nil
}

func userResponse(user *models.User) fiber.Map {
	return fiber.Map{
		"id":         user.ID,
		"name":       user.Name,
		"email":      user.Email,
		"role":       user.Role,
		"status":     user.Status,
		"instrument": user.Instrument,
		"is_admin":   user.IsAdmin(),
	}
}
