package billing

import (
	"errors"

	"crm-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DefaultTaxRate applies when a catalog service carries no rate of its own.
var DefaultTaxRate = decimal.RequireFromString("0.23")

// Line is one requested (service, quantity) pair. Quantity 0 means "omitted"
// and defaults to 1.
type Line struct {
	ServiceId uint `json:"serviceId" validate:"required"`
	Quantity  int  `json:"quantity" validate:"gte=0"`
}

// ServiceLookup resolves a catalog service by id. A (nil, nil) return means
// the service does not exist.
type ServiceLookup func(id uint) (*models.Service, error)

// CatalogFromDB backs a ServiceLookup with the given DB handle.
func CatalogFromDB(db *gorm.DB) ServiceLookup {
	return func(id uint) (*models.Service, error) {
		var svc models.Service
		if err := db.First(&svc, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, nil
			}
			return nil, err
		}
		return &svc, nil
	}
}

// PricedItems is the result of pricing a line set: tax-aware items plus the
// gross total. Nothing is persisted here.
type PricedItems struct {
	Items []models.InvoiceItem
	Total decimal.Decimal
}

// PriceItems turns (serviceId, quantity) pairs into priced invoice items.
// Unit price and tax rate are copied from the catalog at this moment; a
// missing service fails the whole call. Pure apart from the lookup.
func PriceItems(lookup ServiceLookup, lines []Line) (*PricedItems, error) {
	priced := &PricedItems{Total: decimal.Zero}

	for i, line := range lines {
		qty := line.Quantity
		if qty == 0 {
			qty = 1
		}
		if qty < 0 {
			return nil, Invalid("invalid quantity at index %d", i)
		}

		svc, err := lookup(line.ServiceId)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return nil, NotFound("service")
		}

		rate := DefaultTaxRate
		if svc.TaxRate != nil {
			rate = *svc.TaxRate
		}

		net := svc.Price.Mul(decimal.NewFromInt(int64(qty))).Round(2)
		tax := net.Mul(rate).Round(2)
		gross := net.Add(tax)

		priced.Items = append(priced.Items, models.InvoiceItem{
			ServiceId:   svc.Id,
			Description: svc.Name,
			Quantity:    qty,
			UnitPrice:   svc.Price,
			TaxRate:     rate,
			NetAmount:   net,
			TaxAmount:   tax,
			GrossAmount: gross,
		})
		priced.Total = priced.Total.Add(gross)
	}

	return priced, nil
}

// ReplaceItems swaps an invoice's whole item set for the priced one and
// updates the total, all on the caller's transaction. Existing items are
// deleted first; there is no per-item patching. overrideTotal, when given,
// wins over the computed sum.
func ReplaceItems(tx *gorm.DB, invoice *models.Invoice, priced *PricedItems, overrideTotal *decimal.Decimal) error {
	if err := tx.Where("invoice_id = ?", invoice.Id).Delete(&models.InvoiceItem{}).Error; err != nil {
		return err
	}

	for i := range priced.Items {
		priced.Items[i].Id = 0
		priced.Items[i].InvoiceId = invoice.Id
	}
	if len(priced.Items) > 0 {
		if err := tx.Create(&priced.Items).Error; err != nil {
			return err
		}
	}

	total := priced.Total
	if overrideTotal != nil {
		total = overrideTotal.Round(2)
	}
	invoice.Items = priced.Items
	invoice.TotalAmount = total

	return tx.Model(&models.Invoice{}).Where("id = ?", invoice.Id).
		Update("total_amount", total).Error
}
