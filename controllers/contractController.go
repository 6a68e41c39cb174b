package controllers

import (
	"fmt"
	"time"

	"crm-backend/billing"
	"crm-backend/database"
	"crm-backend/middlewares"
	"crm-backend/models"
	"crm-backend/utils"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type ContractInput struct {
	Title              string           `json:"title" validate:"required"`
	CustomerId         uint             `json:"customerId" validate:"required"`
	ContractNumber     string           `json:"contractNumber"`
	SignedAt           string           `json:"signedAt"`
	StartDate          string           `json:"startDate"`
	EndDate            string           `json:"endDate"`
	PaymentTermDays    *int             `json:"paymentTermDays"`
	ScopeOfServices    string           `json:"scopeOfServices"`
	PlaceOfSigning     string           `json:"placeOfSigning"`
	ResponsibleGroupId *uint            `json:"responsibleGroupId"`
	Services           []billing.Line   `json:"services"`
	ServiceIds         []uint           `json:"serviceIds"`
	NetAmount          *decimal.Decimal `json:"netAmount"`
}

// serviceLines merges the two accepted shapes: `services` with quantities,
// or the plain `serviceIds` list (quantity 1 each).
func serviceLines(services []billing.Line, serviceIds []uint) []billing.Line {
	if len(services) > 0 {
		return services
	}
	lines := make([]billing.Line, 0, len(serviceIds))
	for _, id := range serviceIds {
		lines = append(lines, billing.Line{ServiceId: id, Quantity: 1})
	}
	return lines
}

func CreateContract(c *fiber.Ctx) error {
	var input ContractInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	signedAt, err := utils.ParseISODate(input.SignedAt)
	if err != nil {
		return billing.Invalid("invalid signedAt: %v", err)
	}
	startDate, err := utils.ParseISODate(input.StartDate)
	if err != nil {
		return billing.Invalid("invalid startDate: %v", err)
	}
	endDate, err := utils.ParseISODate(input.EndDate)
	if err != nil {
		return billing.Invalid("invalid endDate: %v", err)
	}

	userID, _ := c.Locals("userID").(string)

	contract := models.Contract{
		Title:              input.Title,
		ContractNumber:     input.ContractNumber,
		CustomerId:         input.CustomerId,
		SignedAt:           signedAt,
		StartDate:          startDate,
		EndDate:            endDate,
		PaymentTermDays:    input.PaymentTermDays,
		ScopeOfServices:    input.ScopeOfServices,
		PlaceOfSigning:     input.PlaceOfSigning,
		CreatedByUserId:    userID,
		ResponsibleGroupId: input.ResponsibleGroupId,
	}

	db := database.RequestDB(c)

	if err := db.Create(&contract).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not create contract")
	}

	lines := serviceLines(input.Services, input.ServiceIds)
	if err := billing.AttachServices(db, &contract, lines, input.NetAmount); err != nil {
		return err
	}

	return c.Status(201).JSON(contract)
}

func GetContracts(c *fiber.Ctx) error {
	var contracts []models.Contract

	db := database.RequestDB(c)
	db.Preload("Services").Order("id desc").Find(&contracts)

	return c.JSON(contracts)
}

func GetContract(c *fiber.Ctx) error {
	db := database.RequestDB(c)

	var contract models.Contract
	if err := db.Preload("Services").First(&contract, c.Params("id")).Error; err != nil {
		return billing.NotFound("contract")
	}

	return c.JSON(contract)
}

type ContractUpdateInput struct {
	Title              *string          `json:"title"`
	CustomerId         *uint            `json:"customerId"`
	ContractNumber     *string          `json:"contractNumber"`
	SignedAt           *string          `json:"signedAt"`
	StartDate          *string          `json:"startDate"`
	EndDate            *string          `json:"endDate"`
	PaymentTermDays    *int             `json:"paymentTermDays"`
	ScopeOfServices    *string          `json:"scopeOfServices"`
	PlaceOfSigning     *string          `json:"placeOfSigning"`
	ResponsibleGroupId *uint            `json:"responsibleGroupId"`
	Services           *[]billing.Line  `json:"services"`
	ServiceIds         *[]uint          `json:"serviceIds"`
	NetAmount          *decimal.Decimal `json:"netAmount"`
}

func UpdateContract(c *fiber.Ctx) error {
	var input ContractUpdateInput
	if err := c.BodyParser(&input); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid request body")
	}

	db := database.RequestDB(c)

	var contract models.Contract
	if err := db.First(&contract, c.Params("id")).Error; err != nil {
		return billing.NotFound("contract")
	}

	if input.Title != nil {
		contract.Title = *input.Title
	}
	if input.ContractNumber != nil {
		contract.ContractNumber = *input.ContractNumber
	}
	if input.CustomerId != nil {
		contract.CustomerId = *input.CustomerId
	}
	if input.PaymentTermDays != nil {
		contract.PaymentTermDays = input.PaymentTermDays
	}
	if input.ScopeOfServices != nil {
		contract.ScopeOfServices = *input.ScopeOfServices
	}
	if input.PlaceOfSigning != nil {
		contract.PlaceOfSigning = *input.PlaceOfSigning
	}
	if input.ResponsibleGroupId != nil {
		contract.ResponsibleGroupId = input.ResponsibleGroupId
	}
	if input.SignedAt != nil {
		t, err := utils.ParseISODate(*input.SignedAt)
		if err != nil {
			return billing.Invalid("invalid signedAt: %v", err)
		}
		contract.SignedAt = t
	}
	if input.StartDate != nil {
		t, err := utils.ParseISODate(*input.StartDate)
		if err != nil {
			return billing.Invalid("invalid startDate: %v", err)
		}
		contract.StartDate = t
	}
	if input.EndDate != nil {
		t, err := utils.ParseISODate(*input.EndDate)
		if err != nil {
			return billing.Invalid("invalid endDate: %v", err)
		}
		contract.EndDate = t
	}

	if err := db.Save(&contract).Error; err != nil {
		return fiber.NewError(fiber.StatusInternalServerError, "could not update contract")
	}

	if input.Services != nil || input.ServiceIds != nil {
		var services []billing.Line
		var ids []uint
		if input.Services != nil {
			services = *input.Services
		}
		if input.ServiceIds != nil {
			ids = *input.ServiceIds
		}
		lines := serviceLines(services, ids)
		if err := billing.AttachServices(db, &contract, lines, input.NetAmount); err != nil {
			return err
		}
	} else if input.NetAmount != nil {
		contract.NetAmount = input.NetAmount.Round(2)
		if err := db.Model(&models.Contract{}).Where("id = ?", contract.Id).
			Update("net_amount", contract.NetAmount).Error; err != nil {
			return err
		}
	}

	db.Preload("Services").First(&contract, contract.Id)
	return c.JSON(contract)
}

func DeleteContract(c *fiber.Ctx) error {
	db := database.RequestDB(c)

	var contract models.Contract
	if err := db.First(&contract, c.Params("id")).Error; err != nil {
		return billing.NotFound("contract")
	}

	if err := db.Where("contract_id = ?", contract.Id).Delete(&models.ContractService{}).Error; err != nil {
		return err
	}
	if err := db.Delete(&contract).Error; err != nil {
		return err
	}

	return c.JSON(fiber.Map{"message": "contract deleted"})
}

type GenerateDocumentInput struct {
	TemplateId uint `json:"templateId" validate:"required"`
}

// GenerateFromTemplate renders the contract into the chosen template and
// streams the result back; nothing is persisted.
func GenerateFromTemplate(c *fiber.Ctx) error {
	var input GenerateDocumentInput
	if err := middlewares.BindAndValidate(c, &input); err != nil {
		return err
	}

	id, err := c.ParamsInt("id")
	if err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid contract id")
	}

	db := database.RequestDB(c)

	doc, err := billing.RenderDocument(db, uint(id), input.TemplateId, time.Now())
	if err != nil {
		return err
	}

	c.Set(fiber.HeaderContentType, doc.ContentType)
	c.Set(fiber.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, doc.FileName))
	return c.Send(doc.Data)
}
