package controllers

import (
	"time"

	"crm-backend/billing"
	"crm-backend/database"
	"crm-backend/middlewares"
	"crm-backend/models"

	"github.com/gofiber/fiber/v2"
)

type TemplateInput struct {
	Name     string `json:"name" validate:"required"`
	FileName string `json:"fileName" validate:"required"`
	FilePath string `json:"filePath" validate:"required"`
}

func CreateTemplate(c *fiber.Ctx) error {
	var input TemplateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db := database.RequestDB(c)

	template := models.Template{
		Name:       input.Name,
		FileName:   input.FileName,
		FilePath:   input.FilePath,
		UploadedAt: time.Now(),
	}
	if err := db.Create(&template).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create template",
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(template)
}

func GetTemplates(c *fiber.Ctx) error {
	var templates []models.Template

	db := database.RequestDB(c)
	db.Order("name").Find(&templates)

	return c.JSON(templates)
}

func GetTemplate(c *fiber.Ctx) error {
	db := database.RequestDB(c)

	var template models.Template
	if err := db.First(&template, c.Params("id")).Error; err != nil {
		return billing.NotFound("template")
	}

	return c.JSON(template)
}

func UpdateTemplate(c *fiber.Ctx) error {
	var input struct {
		Name     *string `json:"name"`
		FileName *string `json:"fileName"`
		FilePath *string `json:"filePath"`
	}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	db := database.RequestDB(c)

	var template models.Template
	if err := db.First(&template, c.Params("id")).Error; err != nil {
		return billing.NotFound("template")
	}

	if input.Name != nil {
		template.Name = *input.Name
	}
	if input.FileName != nil {
		template.FileName = *input.FileName
	}
	if input.FilePath != nil {
		template.FilePath = *input.FilePath
	}

	if err := db.Save(&template).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not update template",
			"error":   err.Error(),
		})
	}

	return c.JSON(template)
}

func DeleteTemplate(c *fiber.Ctx) error {
	db := database.RequestDB(c)

	var template models.Template
	if err := db.First(&template, c.Params("id")).Error; err != nil {
		return billing.NotFound("template")
	}

	if err := db.Delete(&template).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "template deleted"})
}
