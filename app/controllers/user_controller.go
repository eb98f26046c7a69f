package controllers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/gigbookhq/gigbook/app/models"
	"github.com/gigbookhq/gigbook/app/repository"
)

type memberRequest struct {
	Name       string `json:"name"`
	Email      string `json:"email"`
	Password   string `json:"password"`
	Role       string `json:"role"`
	Status     string `json:"status"`
	Phone      string `json:"phone"`
	Instrument string `json:"instrument"`
}

// HandleListMembers lists all band members.
func HandleListMembers(c *fiber.Ctx) error {
	offset, limit := pagination(c)
	users, err := repository.GetGlobalFactory().GetUserRepository().List(offset, limit)
	if err != nil {
		return respondError(c, err)
	}

	members := make([]fiber.Map, 0, len(users))
	for i := range users {
		members = append(members, userResponse(&users[i]))
	}
	return c.JSON(fiber.Map{"members": members})
}

// HandleCreateMember registers a new band member. Admin only.
func HandleCreateMember(c *fiber.Ctx) error {
	var req memberRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	user, err := models.CreateUser(req.Name, req.Email, req.Password)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if req.Role == models.ROLE_ADMIN {
		user.Role = models.ROLE_ADMIN
	}
	user.Phone = req.Phone
	user.Instrument = req.Instrument

	if err := repository.GetGlobalFactory().GetUserRepository().Create(user); err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(userResponse(user))
}

// HandleUpdateMember updates a member's profile, role or status. Admin only.
func HandleUpdateMember(c *fiber.Ctx) error {
	id, err := paramID(c, "id")
	if err != nil {
		return respondError(c, err)
	}

	repo := repository.GetGlobalFactory().GetUserRepository()
	user, err := repo.GetByID(id)
	if err != nil {
		return respondError(c, err)
	}

	var req memberRequest
	if err := c.BodyParser(&req); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "bad_request", "invalid request body")
	}

	if req.Name != "" {
		user.Name = req.Name
	}
	if req.Email != "" {
		user.Email = req.Email
	}
	if req.Password != "" {
		if err := user.SetPassword(req.Password); err != nil {
			return respondError(c, err)
		}
	}
	if req.Role != "" {
		if req.Role != models.ROLE_MEMBER && req.Role != models.ROLE_ADMIN {
			return jsonError(c, fiber.StatusBadRequest, "validation_failed", "role must be member or admin")
		}
		user.Role = req.Role
	}
	if req.Status != "" {
		if req.Status != models.STATUS_ACTIVE && req.Status != models.STATUS_INACTIVE {
			return jsonError(c, fiber.StatusBadRequest, "validation_failed", "status must be active or inactive")
		}
		user.Status = req.Status
	}
	if req.Phone != "" {
		user.Phone = req.Phone
	}
	if req.Instrument != "" {
		user.Instrument = req.Instrument
	}

	if err := user.Validate(); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "validation_failed", err.Error())
	}
	if err := repo.Update(user); err != nil {
		return respondError(c, err)
	}
	return c.JSON(userResponse(user))
}
