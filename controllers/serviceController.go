package controllers

import (
	"crm-backend/database"
	"crm-backend/middlewares"
	"crm-backend/models"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ServiceInput struct {
	Name    string           `json:"name" validate:"required"`
	Price   decimal.Decimal  `json:"price"`
	TaxRate *decimal.Decimal `json:"taxRate"`
}

func CreateService(c *fiber.Ctx) error {
	var input ServiceInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	if input.Price.IsNegative() {
		return c.Status(400).JSON(fiber.Map{"message": "price must not be negative"})
	}

	db := database.RequestDB(c)

	service := models.Service{
		Name:    input.Name,
		Price:   input.Price,
		TaxRate: input.TaxRate,
		Active:  true,
	}

	if err := db.Create(&service).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create service",
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(service)
}

func GetServices(c *fiber.Ctx) error {
	var services []models.Service

	db := database.RequestDB(c)
	db.Where("active = ?", true).Order("name").Find(&services)

	return c.JSON(services)
}

func GetService(c *fiber.Ctx) error {
	var service models.Service

	db := database.RequestDB(c)
	if err := db.First(&service, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"message": "service not found"})
	}

	return c.JSON(service)
}

func UpdateService(c *fiber.Ctx) error {
	var input struct {
		Name    *string          `json:"name"`
		Price   *decimal.Decimal `json:"price"`
		TaxRate *decimal.Decimal `json:"taxRate"`
	}
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	db := database.RequestDB(c)

	var service models.Service
	if err := db.First(&service, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"message": "service not found"})
	}

	if input.Name != nil {
		service.Name = *input.Name
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return c.Status(400).JSON(fiber.Map{"message": "price must not be negative"})
		}
		service.Price = *input.Price
	}
	if input.TaxRate != nil {
		service.TaxRate = input.TaxRate
	}

	if err := db.Save(&service).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not update service",
			"error":   err.Error(),
		})
	}

	return c.JSON(service)
}

// DeleteService deactivates a service instead of deleting it, so invoice
// items that reference it keep resolving.
func DeleteService(c *fiber.Ctx) error {
	db := database.RequestDB(c)

	var service models.Service
	if err := db.First(&service, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"message": "service not found"})
	}

	if err := db.Model(&service).Update("active", false).Error; err != nil {
		return c.Status(500).JSON(fiber.Map{"message": "Could not delete service"})
	}

	return c.JSON(fiber.Map{"message": "service deleted"})
}

type TaxRateInput struct {
	Name string          `json:"name" validate:"required"`
	Rate decimal.Decimal `json:"rate"`
}

func CreateTaxRate(c *fiber.Ctx) error {
	var input TaxRateInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}
	if input.Rate.IsNegative() {
		return c.Status(400).JSON(fiber.Map{"message": "rate must not be negative"})
	}

	db := database.RequestDB(c)

	rate := models.TaxRate{
		Name:     input.Name,
		Rate:     input.Rate,
		IsActive: true,
	}
	if err := db.Create(&rate).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create tax rate",
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(rate)
}

func GetTaxRates(c *fiber.Ctx) error {
	var rates []models.TaxRate

	db := database.RequestDB(c)
	db.Where("is_active = ?", true).Order("rate").Find(&rates)

	return c.JSON(rates)
}
