package controllers

import (
	"crm-backend/database"
	"crm-backend/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

func GetSettings(c *fiber.Ctx) error {
	var settings []models.Setting

	db := database.RequestDB(c)
	db.Order("key").Find(&settings)

	return c.JSON(settings)
}

// UpsertSetting sets one company-wide key (CompanyName, CompanyNIP, ...).
func UpsertSetting(c *fiber.Ctx) error {
	var input struct {
		Value string `json:"value"`
	}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	key := c.Params("key")
	if key == "" {
		return fiber.NewError(fiber.StatusBadRequest, "setting key missing")
	}

	db := database.RequestDB(c)

	var setting models.Setting
	err := db.Where("key = ?", key).First(&setting).Error
	switch {
	case err == nil:
		setting.Value = input.Value
		err = db.Save(&setting).Error
	case err == gorm.ErrRecordNotFound:
		setting = models.Setting{Key: key, Value: input.Value}
		err = db.Create(&setting).Error
	}
	if err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not save setting")
	}

	return c.JSON(setting)
}
