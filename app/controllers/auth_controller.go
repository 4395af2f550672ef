package controllers

import (
	"errors"
	"fmt"

	"github.com/gofiber/fiber/v2"
	gothfiber "github.com/shareed2k/goth_fiber"
	"gorm.io/gorm"

	"github.com/eurodash/eurodash/app/models"
	"github.com/eurodash/eurodash/app/repository"
	"github.com/eurodash/eurodash/internal/pkg/session"
	"github.com/eurodash/eurodash/internal/pkg/usercontext"
)

// HandleOAuthLogin redirects to the provider's consent screen.
func HandleOAuthLogin(c *fiber.Ctx) error {
	return gothfiber.BeginAuthHandler(c)
}

// HandleOAuthCallback completes the provider flow and logs the user in.
func HandleOAuthCallback(c *fiber.Ctx) error {
	u, err := gothfiber.CompleteUserAuth(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).SendString(fmt.Sprintf("OAuth failed: %v", err))
	}

	userRepo := repository.GetGlobalFactory().GetUserRepository()
	openID := u.Provider + ":" + u.UserID

	appUser, err := userRepo.GetByOpenID(openID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		appUser = &models.User{
			OpenID:      openID,
			Name:        firstNonEmpty(u.Name, u.NickName, u.Email, "User"),
			Email:       u.Email,
			LoginMethod: u.Provider,
			Role:        models.ROLE_USER,
		}
		if err := userRepo.Create(appUser); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("create user failed: %v", err))
		}
	} else if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("db error: %v", err))
	} else {
		// Refresh profile data from the provider on every login.
		appUser.Name = firstNonEmpty(u.Name, u.NickName, appUser.Name)
		if u.Email != "" {
			appUser.Email = u.Email
		}
		if err := userRepo.Update(appUser); err != nil {
			return c.Status(fiber.StatusInternalServerError).SendString(fmt.Sprintf("update user failed: %v", err))
		}
	}

	sess, err := session.GetSessionStore().Get(c)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("session init failed")
	}
	sess.Set(usercontext.AuthKey, true)
	sess.Set(usercontext.KeyUserID, appUser.ID)
	sess.Set(usercontext.KeyUserName, appUser.Name)
	sess.Set(usercontext.KeyUserEmail, appUser.Email)
	sess.Set(usercontext.KeyIsAdmin, appUser.Role == models.ROLE_ADMIN)
	if err := sess.Save(); err != nil {
		return c.Status(fiber.StatusInternalServerError).SendString("session save failed")
	}

	_ = userRepo.TouchLastSignedIn(appUser.ID)

	return c.Redirect("/", fiber.StatusSeeOther)
}

// HandleAuthMe returns the session user, or null when anonymous.
func HandleAuthMe(c *fiber.Ctx) error {
	if !usercontext.IsLoggedIn(c) {
		return c.Status(fiber.StatusOK).JSON(nil)
	}
	userCtx := usercontext.GetUserContext(c)
	return c.Status(fiber.StatusOK).JSON(fiber.Map{
		"id":       userCtx.UserID,
		"name":     userCtx.Name,
		"email":    userCtx.Email,
		"is_admin": userCtx.IsAdmin,
	})
}

// HandleLogout clears the session.
func HandleLogout(c *fiber.Ctx) error {
	sess, err := session.GetSessionStore().Get(c)
	if err == nil {
		_ = sess.Destroy()
	}
	return c.Status(fiber.StatusOK).JSON(fiber.Map{"success": true})
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if v != "" {
			return v
		}
	}
	return ""
}
