package controllers

import (
	"time"

	"crm-backend/billing"
	"crm-backend/database"
	"crm-backend/middlewares"
	"crm-backend/models"
	"crm-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type PaymentInput struct {
	InvoiceId   uint            `json:"invoiceId" validate:"required"`
	Amount      decimal.Decimal `json:"amount"`
	PaymentDate string          `json:"paymentDate"`
}

func CreatePayment(c *fiber.Ctx) error {
	var input PaymentInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	paidAt := time.Now()
	if t, err := utils.ParseISODate(input.PaymentDate); err != nil {
		return billing.Invalid("invalid paymentDate: %v", err)
	} else if t != nil {
		paidAt = *t
	}

	db := database.RequestDB(c)

	payment, err := billing.RecordPayment(db, input.InvoiceId, input.Amount, paidAt)
	if err != nil {
		return err
	}

	return c.Status(201).JSON(payment)
}

func GetPayments(c *fiber.Ctx) error {
	var payments []models.Payment

	db := database.RequestDB(c)
	q := db.Order("paid_at desc")
	if invoiceID := c.QueryInt("invoiceId"); invoiceID > 0 {
		q = q.Where("invoice_id = ?", invoiceID)
	}
	q.Find(&payments)

	return c.JSON(payments)
}

func GetPayment(c *fiber.Ctx) error {
	var payment models.Payment

	db := database.RequestDB(c)
	if err := db.First(&payment, c.Params("id")).Error; err != nil {
		return billing.NotFound("payment")
	}

	return c.JSON(payment)
}

type PaymentUpdateInput struct {
	Amount      *decimal.Decimal `json:"amount"`
	PaymentDate *string          `json:"paymentDate"`
}

func UpdatePayment(c *fiber.Ctx) error {
	var input PaymentUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	var paidAt *time.Time
	if input.PaymentDate != nil {
		t, err := utils.ParseISODate(*input.PaymentDate)
		if err != nil {
			return billing.Invalid("invalid paymentDate: %v", err)
		}
		paidAt = t
	}

	db := database.RequestDB(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment id")
	}

	payment, err := billing.UpdatePayment(db, uint(id), input.Amount, paidAt)
	if err != nil {
		return err
	}

	return c.JSON(payment)
}

func DeletePayment(c *fiber.Ctx) error {
	db := database.RequestDB(c)

	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid payment id")
	}

	if err := billing.DeletePayment(db, uint(id)); err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "payment deleted"})
}
