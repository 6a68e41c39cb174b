package billing

import (
	"errors"
	"time"

	"crm-backend/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Settled reports whether a paid sum covers an invoice total. Overpayment
// still counts as settled; no separate state is modeled for it.
func Settled(paid, total decimal.Decimal) bool {
	return paid.GreaterThanOrEqual(total)
}

// PaidTotal sums payment amounts.
func PaidTotal(payments []models.Payment) decimal.Decimal {
	total := decimal.Zero
	for _, p := range payments {
		total = total.Add(p.Amount)
	}
	return total
}

// lockInvoice reads the invoice row FOR UPDATE so concurrent payment writes
// for the same invoice serialize on it.
func lockInvoice(tx *gorm.DB, invoiceID uint) (*models.Invoice, error) {
	var invoice models.Invoice
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&invoice, invoiceID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, NotFound("invoice")
	}
	if err != nil {
		return nil, err
	}
	return &invoice, nil
}

// settle recomputes is_paid from the committed payment sum. Must run after
// lockInvoice on the same transaction.
func settle(tx *gorm.DB, invoice *models.Invoice) error {
	var row struct {
		Total decimal.Decimal
	}
	err := tx.Model(&models.Payment{}).
		Where("invoice_id = ?", invoice.Id).
		Select("COALESCE(SUM(amount), 0) AS total").
		Scan(&row).Error
	if err != nil {
		return err
	}

	invoice.IsPaid = Settled(row.Total, invoice.TotalAmount)
	return tx.Model(&models.Invoice{}).Where("id = ?", invoice.Id).
		Update("is_paid", invoice.IsPaid).Error
}

// Resettle recomputes the paid flag after the invoice's own total changed
// (item replacement, manual total override).
func Resettle(tx *gorm.DB, invoiceID uint) error {
	invoice, err := lockInvoice(tx, invoiceID)
	if err != nil {
		return err
	}
	return settle(tx, invoice)
}

// RecordPayment persists a payment and brings the invoice's paid flag in line
// with the new payment sum, atomically on the caller's transaction.
func RecordPayment(tx *gorm.DB, invoiceID uint, amount decimal.Decimal, paidAt time.Time) (*models.Payment, error) {
	if !amount.IsPositive() {
		return nil, Invalid("payment amount must be positive")
	}

	invoice, err := lockInvoice(tx, invoiceID)
	if err != nil {
		return nil, err
	}

	payment := models.Payment{
		InvoiceId: invoiceID,
		Amount:    amount.Round(2),
		PaidAt:    paidAt,
	}
	if err := tx.Create(&payment).Error; err != nil {
		return nil, err
	}

	return &payment, settle(tx, invoice)
}

// UpdatePayment patches amount and/or paid-at and recomputes the flag under
// the same contract as RecordPayment.
func UpdatePayment(tx *gorm.DB, paymentID uint, amount *decimal.Decimal, paidAt *time.Time) (*models.Payment, error) {
	var payment models.Payment
	if err := tx.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, NotFound("payment")
		}
		return nil, err
	}

	if amount != nil {
		if !amount.IsPositive() {
			return nil, Invalid("payment amount must be positive")
		}
		payment.Amount = amount.Round(2)
	}
	if paidAt != nil {
		payment.PaidAt = *paidAt
	}

	invoice, err := lockInvoice(tx, payment.InvoiceId)
	if err != nil {
		return nil, err
	}
	if err := tx.Save(&payment).Error; err != nil {
		return nil, err
	}

	return &payment, settle(tx, invoice)
}

// DeletePayment removes a payment and recomputes the flag over the remaining
// ones. Deleting the only payment on a settled invoice flips it back to
// unpaid.
func DeletePayment(tx *gorm.DB, paymentID uint) error {
	var payment models.Payment
	if err := tx.First(&payment, paymentID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return NotFound("payment")
		}
		return err
	}

	invoice, err := lockInvoice(tx, payment.InvoiceId)
	if err != nil {
		return err
	}
	if err := tx.Delete(&payment).Error; err != nil {
		return err
	}

	return settle(tx, invoice)
}
