package handlers

import (
	"context"
	"errors"
	"strings"

	"github.com/SahilDudhatWork/Synthia.AI/internal/auth"
	"github.com/SahilDudhatWork/Synthia.AI/internal/logger"
	"github.com/SahilDudhatWork/Synthia.AI/internal/repo"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

// PasswordSetter sets account passwords. *libraries.IdentityAdmin satisfies it.
type PasswordSetter interface {
	UpdatePassword(ctx context.Context, userID string, password string) error
}

// CheckoutLookup reads checkout sessions. *libraries.CheckoutSessions
// satisfies it.
type CheckoutLookup interface {
	CustomerEmail(ctx context.Context, sessionID string) (string, error)
}

type UserHandler struct {
	users     repo.UserRepoInterface
	appUsers  repo.AppUserRepoInterface
	passwords PasswordSetter
	checkout  CheckoutLookup
}

// NewUserHandler builds the handler. passwords and checkout may be nil when
// the identity admin API or billing is not configured.
func NewUserHandler(users repo.UserRepoInterface, appUsers repo.AppUserRepoInterface, passwords PasswordSetter, checkout CheckoutLookup) *UserHandler {
	return &UserHandler{users: users, appUsers: appUsers, passwords: passwords, checkout: checkout}
}

func (h *UserHandler) GetUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	if err := auth.CheckUser(c, userID.String()); err != nil {
		return err
	}

	user, err := h.users.GetByID(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

// UpdateUser changes the settings fields present in the body.
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	userID, err := uuid.Parse(c.Params("userId"))
	if err != nil {
		return badRequest(c, "Invalid user ID")
	}
	if err := auth.CheckUser(c, userID.String()); err != nil {
		return err
	}

	var dto struct {
		Name      *string `json:"name"`
		AvatarURL *string `json:"avatar_url"`
		Timezone  *string `json:"timezone"`
		Locale    *string `json:"locale"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}

	fields := map[string]interface{}{}
	set := func(column string, v *string) {
		if v != nil {
			fields[column] = strings.TrimSpace(*v)
		}
	}
	set("name", dto.Name)
	set("avatar_url", dto.AvatarURL)
	set("timezone", dto.Timezone)
	set("locale", dto.Locale)
	if len(fields) == 0 {
		return badRequest(c, "Nothing to update")
	}

	if err := h.users.Update(userID, fields); err != nil {
		return respondError(c, err)
	}
	user, err := h.users.GetByID(userID)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(user)
}

func (h *UserHandler) CreateUserPassword(c *fiber.Ctx) error {
	var dto struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}
	if err := c.BodyParser(&dto); err != nil {
		return badRequest(c, "Invalid request body")
	}
	if dto.Email == "" || dto.Password == "" {
		return badRequest(c, "Email and password are required")
	}
	if h.passwords == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "identity admin is not configured",
		})
	}

	user, err := h.users.GetByEmail(dto.Email)
	if err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "User not found"})
		}
		return respondError(c, err)
	}

	if err := h.passwords.UpdatePassword(c.UserContext(), user.ID.String(), dto.Password); err != nil {
		logger.Log.WithError(err).WithField("user_id", user.ID).Warn("password update rejected")
		return badRequest(c, err.Error())
	}

	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

// CheckoutSession resolves the account behind a finished Stripe checkout.
func (h *UserHandler) CheckoutSession(c *fiber.Ctx) error {
	sessionID := c.Query("session_id")
	if sessionID == "" {
		return badRequest(c, "session_id is required")
	}
	if h.checkout == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(fiber.Map{
			"error": "billing is not configured",
		})
	}

	email, err := h.checkout.CustomerEmail(c.UserContext(), sessionID)
	if err != nil {
		logger.Log.WithError(err).Error("checkout session lookup failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if email == "" {
		return badRequest(c, "No email found")
	}

	user, err := h.appUsers.GetByEmail(email)
	if err != nil && !errors.Is(err, repo.ErrNotFound) {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"email": email,
		"user":  user,
	})
}
