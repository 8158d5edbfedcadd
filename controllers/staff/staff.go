package staff

import (
	"time"

	"arena-app/database"
	"arena-app/helpers"
	"arena-app/models"

	"github.com/gofiber/fiber/v2"
)

type RegisterRequest struct {
	Username string `json:"username"`
	FullName string `json:"full_name"`
	Role     string `json:"role"`
}

// Register creates a staff account. Master-guarded bootstrap endpoint.
func Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Username == "" {
		return helpers.JSONError(c, "USERNAME_REQUIRED")
	}
	switch req.Role {
	case models.RoleTeller, models.RoleDeclarator, models.RoleAdmin:
	default:
		return helpers.JSONError(c, "ROLE_MUST_BE_TELLER_DECLARATOR_OR_ADMIN")
	}

	s := models.Staff{
		Username: req.Username,
		FullName: req.FullName,
		Role:     req.Role,
		IsActive: true,
	}
	if err := database.DB.Create(&s).Error; err != nil {
		return helpers.JSONError(c, "USERNAME_ALREADY_TAKEN")
	}

	return helpers.JSONSuccess(c, "Staff registered", s)
}

type SessionRequest struct {
	Username string `json:"username"`
}

// IssueSession creates a session for a staff member. The master
// signature gate stands in for real credential verification, which is
// owned by the external authentication provider.
func IssueSession(c *fiber.Ctx) error {
	var req SessionRequest
	if err := c.BodyParser(&req); err != nil {
		return helpers.JSONError(c, "INVALID_JSON")
	}
	if req.Username == "" {
		return helpers.JSONError(c, "USERNAME_REQUIRED")
	}

	var s models.Staff
	if err := database.DB.Where("username = ? AND is_active = true", req.Username).First(&s).Error; err != nil {
		return helpers.JSONError(c, "STAFF_NOT_FOUND_OR_INACTIVE")
	}

	session := models.Session{
		StaffID:   s.ID,
		ExpiresAt: time.Now().Add(12 * time.Hour),
	}
	if err := database.DB.Create(&session).Error; err != nil {
		return helpers.JSONError(c, "FAILED_TO_CREATE_SESSION")
	}

	return helpers.JSONSuccess(c, "Session issued", fiber.Map{
		"sid":        session.SID,
		"staff_id":   s.ID,
		"role":       s.Role,
		"expires_at": session.ExpiresAt,
	})
}
