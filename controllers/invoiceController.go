package controllers

import (
	"errors"
	"time"

	"crm-backend/billing"
	"crm-backend/database"
	"crm-backend/middlewares"
	"crm-backend/models"
	"crm-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type InvoiceInput struct {
	CustomerId      uint             `json:"customerId" validate:"required"`
	InvoiceNumber   string           `json:"invoiceNumber"`
	IssuedAt        string           `json:"issuedAt"`
	DueDate         string           `json:"dueDate"`
	AssignedGroupId *uint            `json:"assignedGroupId"`
	Items           []billing.Line   `json:"items"`
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
}

// missingServiceAsBadRequest downgrades a missing catalog service to a 400:
// the service id came out of the request body, so the request is malformed,
// not the URL target.
func missingServiceAsBadRequest(err error) error {
	var nf *billing.NotFoundError
	if errors.As(err, &nf) && nf.Entity == "service" {
		return billing.Invalid("referenced service does not exist")
	}
	return err
}

func CreateInvoice(c *fiber.Ctx) error {
	var input InvoiceInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	db := database.RequestDB(c)

	priced, err := billing.PriceItems(billing.CatalogFromDB(db), input.Items)
	if err != nil {
		return missingServiceAsBadRequest(err)
	}

	issuedAt := time.Now()
	if t, err := utils.ParseISODate(input.IssuedAt); err != nil {
		return billing.Invalid("invalid issuedAt: %v", err)
	} else if t != nil {
		issuedAt = *t
	}

	dueDate, err := utils.ParseISODate(input.DueDate)
	if err != nil {
		return billing.Invalid("invalid dueDate: %v", err)
	}
	if dueDate == nil {
		d := issuedAt.AddDate(0, 0, 14)
		dueDate = &d
	}

	total := priced.Total
	if input.TotalAmount != nil {
		total = input.TotalAmount.Round(2)
	}

	userID, _ := c.Locals("userID").(string)

	invoice := models.Invoice{
		Number:          input.InvoiceNumber,
		CustomerId:      input.CustomerId,
		Items:           priced.Items,
		TotalAmount:     total,
		IssuedAt:        issuedAt,
		DueDate:         dueDate,
		CreatedByUserId: userID,
		AssignedGroupId: input.AssignedGroupId,
	}

	if err := db.Create(&invoice).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create invoice")
	}

	return c.Status(201).JSON(invoice)
}

func GetInvoices(c *fiber.Ctx) error {
	var invoices []models.Invoice

	db := database.RequestDB(c)
	db.Preload("Customer").Order("id desc").Find(&invoices)

	return c.JSON(invoices)
}

type invoiceDetail struct {
	models.Invoice
	PaidAmount      decimal.Decimal  `json:"paidAmount"`
	RemainingAmount decimal.Decimal  `json:"remainingAmount"`
	Payments        []models.Payment `json:"payments"`
}

func GetInvoice(c *fiber.Ctx) error {
	db := database.RequestDB(c)

	var invoice models.Invoice
	if err := db.Preload("Customer").Preload("Items").First(&invoice, c.Params("id")).Error; err != nil {
		return billing.NotFound("invoice")
	}

	var payments []models.Payment
	db.Where("invoice_id = ?", invoice.Id).Order("paid_at desc").Find(&payments)

	paid := billing.PaidTotal(payments)
	return c.JSON(invoiceDetail{
		Invoice:         invoice,
		PaidAmount:      paid,
		RemainingAmount: invoice.TotalAmount.Sub(paid),
		Payments:        payments,
	})
}

type InvoiceUpdateInput struct {
	CustomerId      *uint            `json:"customerId"`
	InvoiceNumber   *string          `json:"invoiceNumber"`
	IssuedAt        *string          `json:"issuedAt"`
	DueDate         *string          `json:"dueDate"`
	AssignedGroupId *uint            `json:"assignedGroupId"`
	Items           *[]billing.Line  `json:"items"`
	TotalAmount     *decimal.Decimal `json:"totalAmount"`
}

// UpdateInvoice patches invoice fields; when items are present the whole item
// set is replaced and the total recomputed. A client-supplied isPaid is
// ignored — the flag only ever comes from the settlement ledger.
func UpdateInvoice(c *fiber.Ctx) error {
	var input InvoiceUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	db := database.RequestDB(c)

	var invoice models.Invoice
	if err := db.First(&invoice, c.Params("id")).Error; err != nil {
		return billing.NotFound("invoice")
	}

	if input.InvoiceNumber != nil {
		invoice.Number = *input.InvoiceNumber
	}
	if input.CustomerId != nil {
		invoice.CustomerId = *input.CustomerId
	}
	if input.AssignedGroupId != nil {
		invoice.AssignedGroupId = input.AssignedGroupId
	}
	if input.IssuedAt != nil {
		t, err := utils.ParseISODate(*input.IssuedAt)
		if err != nil {
			return billing.Invalid("invalid issuedAt: %v", err)
		}
		if t != nil {
			invoice.IssuedAt = *t
		}
	}
	if input.DueDate != nil {
		t, err := utils.ParseISODate(*input.DueDate)
		if err != nil {
			return billing.Invalid("invalid dueDate: %v", err)
		}
		invoice.DueDate = t
	}

	if err := db.Save(&invoice).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update invoice")
	}

	totalChanged := false
	if input.Items != nil {
		priced, err := billing.PriceItems(billing.CatalogFromDB(db), *input.Items)
		if err != nil {
			return missingServiceAsBadRequest(err)
		}
		if err := billing.ReplaceItems(db, &invoice, priced, input.TotalAmount); err != nil {
			return err
		}
		totalChanged = true
	} else if input.TotalAmount != nil {
		invoice.TotalAmount = input.TotalAmount.Round(2)
		if err := db.Model(&models.Invoice{}).Where("id = ?", invoice.Id).
			Update("total_amount", invoice.TotalAmount).Error; err != nil {
			return err
		}
		totalChanged = true
	}

	// A new total can settle or unsettle the invoice against its payments.
	if totalChanged {
		if err := billing.Resettle(db, invoice.Id); err != nil {
			return err
		}
		db.First(&invoice, invoice.Id)
	}

	db.Preload("Items").First(&invoice, invoice.Id)
	return c.JSON(invoice)
}

func DeleteInvoice(c *fiber.Ctx) error {
	db := database.RequestDB(c)

	var invoice models.Invoice
	if err := db.First(&invoice, c.Params("id")).Error; err != nil {
		return billing.NotFound("invoice")
	}

	// Items go with the invoice; payments reference it weakly and are
	// removed explicitly.
	if err := db.Where("invoice_id = ?", invoice.Id).Delete(&models.Payment{}).Error; err != nil {
		return err
	}
	if err := db.Where("invoice_id = ?", invoice.Id).Delete(&models.InvoiceItem{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&invoice).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "invoice deleted"})
}
