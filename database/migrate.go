package database

import (
	"fmt"

	"crm-backend/models"

	"gorm.io/gorm"
)

// Migrate applies (idempotent) schema migrations:
// - AutoMigrate (tables/columns)
// - Money column types (NUMERIC(12,2), rates NUMERIC(8,4))
// - Indexes (payments, invoice_items, contract_services)
// - Basic CHECK constraints
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// --- AutoMigrate tables/columns/index tags (non-destructive) ---
		if err := tx.AutoMigrate(
			&models.User{},
			&models.Group{},
			&models.Customer{},
			&models.Service{},
			&models.TaxRate{},
			&models.Invoice{},
			&models.InvoiceItem{},
			&models.Payment{},
			&models.Contract{},
			&models.ContractService{},
			&models.Template{},
			&models.Setting{},
			&models.IdempotencyKey{},
		); err != nil {
			return fmt.Errorf("automigrate failed: %w", err)
		}

		// --- Enforce money/rate column types (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE services          ALTER COLUMN price        TYPE numeric(12,2)`,
			`ALTER TABLE services          ALTER COLUMN tax_rate     TYPE numeric(8,4)`,
			`ALTER TABLE tax_rates         ALTER COLUMN rate         TYPE numeric(8,4)`,
			`ALTER TABLE invoices          ALTER COLUMN total_amount TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items     ALTER COLUMN unit_price   TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items     ALTER COLUMN tax_rate     TYPE numeric(8,4)`,
			`ALTER TABLE invoice_items     ALTER COLUMN net_amount   TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items     ALTER COLUMN tax_amount   TYPE numeric(12,2)`,
			`ALTER TABLE invoice_items     ALTER COLUMN gross_amount TYPE numeric(12,2)`,
			`ALTER TABLE payments          ALTER COLUMN amount       TYPE numeric(12,2)`,
			`ALTER TABLE contracts         ALTER COLUMN net_amount   TYPE numeric(12,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Composite / helpful indexes (idempotent) ---
		indexes := []string{
			`CREATE INDEX IF NOT EXISTS idx_payments_invoice_paid_at ON payments (invoice_id, paid_at)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_items_invoice ON invoice_items (invoice_id)`,
			`CREATE INDEX IF NOT EXISTS idx_invoice_items_service ON invoice_items (service_id)`,
			`CREATE INDEX IF NOT EXISTS idx_contract_services_contract ON contract_services (contract_id)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_idempotency_keys_key ON idempotency_keys (key)`,
			`CREATE UNIQUE INDEX IF NOT EXISTS idx_settings_key ON settings (key)`,
		}
		for _, stmt := range indexes {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("index migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Basic CHECK constraints (idempotent) ---
		checks := []string{
			// Non-negative service price
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'services'::regclass
					  AND conname  = 'chk_services_price_nonneg'
				) THEN
					ALTER TABLE services
					ADD CONSTRAINT chk_services_price_nonneg
					CHECK (price >= 0);
				END IF;
			END $$;`,
			// Payments must be positive
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'payments'::regclass
					  AND conname  = 'chk_payments_amount_positive'
				) THEN
					ALTER TABLE payments
					ADD CONSTRAINT chk_payments_amount_positive
					CHECK (amount > 0);
				END IF;
			END $$;`,
			// Item quantities must be positive
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'invoice_items'::regclass
					  AND conname  = 'chk_invoice_items_quantity_positive'
				) THEN
					ALTER TABLE invoice_items
					ADD CONSTRAINT chk_invoice_items_quantity_positive
					CHECK (quantity > 0);
				END IF;
			END $$;`,
			// Contract link quantities must be positive
			`DO $$
			BEGIN
				IF NOT EXISTS (
					SELECT 1 FROM pg_constraint
					WHERE conrelid = 'contract_services'::regclass
					  AND conname  = 'chk_contract_services_quantity_positive'
				) THEN
					ALTER TABLE contract_services
					ADD CONSTRAINT chk_contract_services_quantity_positive
					CHECK (quantity > 0);
				END IF;
			END $$;`,
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		return nil
	})
}
