package controllers

import (
	"crm-backend/database"
	"crm-backend/models"

	"github.com/gofiber/fiber/v2"
)

func CreateCustomer(c *fiber.Ctx) error {
	var data map[string]string

	if err := c.BodyParser(&data); err != nil {
		return err
	}
	if data["name"] == "" {
		return c.Status(400).JSON(fiber.Map{"message": "name is required"})
	}

	db := database.RequestDB(c)

	customer := models.Customer{
		Name:           data["name"],
		Email:          data["email"],
		Phone:          data["phone"],
		Company:        data["company"],
		Address:        data["address"],
		NIP:            data["nip"],
		Representative: data["representative"],
	}

	if err := db.Create(&customer).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not create customer",
			"error":   err.Error(),
		})
	}

	return c.Status(201).JSON(customer)
}

func GetCustomers(c *fiber.Ctx) error {
	var customers []models.Customer

	db := database.RequestDB(c)
	db.Order("id desc").Find(&customers)

	return c.JSON(customers)
}

func GetCustomer(c *fiber.Ctx) error {
	var customer models.Customer

	db := database.RequestDB(c)
	if err := db.First(&customer, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"message": "customer not found"})
	}

	return c.JSON(customer)
}

func UpdateCustomer(c *fiber.Ctx) error {
	var data map[string]string

	if err := c.BodyParser(&data); err != nil {
		return err
	}

	db := database.RequestDB(c)

	var customer models.Customer
	if err := db.First(&customer, c.Params("id")).Error; err != nil {
		return c.Status(404).JSON(fiber.Map{"message": "customer not found"})
	}

	fields := map[string]*string{
		"name":           &customer.Name,
		"email":          &customer.Email,
		"phone":          &customer.Phone,
		"company":        &customer.Company,
		"address":        &customer.Address,
		"nip":            &customer.NIP,
		"representative": &customer.Representative,
	}
	for key, dst := range fields {
		if v, ok := data[key]; ok {
			*dst = v
		}
	}

	if err := db.Save(&customer).Error; err != nil {
		c.Status(fiber.StatusBadRequest)
		return c.JSON(fiber.Map{
			"message": "Could not update customer",
			"error":   err.Error(),
		})
	}

	return c.JSON(customer)
}
