package database

import (
	"fmt"

	"gorm.io/gorm"
)

// Migrate applies idempotent schema hardening on top of AutoMigrate:
// - money/quantity column types pinned to NUMERIC
// - CHECK constraints for enum columns and non-negative amounts
// - invoice_sync_log FK with ON DELETE RESTRICT so audit history blocks
//   deletion of a synced sale
// All statements are safe to re-run on every startup.
func Migrate() error {
	return DB.Transaction(func(tx *gorm.DB) error {
		// --- Pin money columns to NUMERIC (idempotent ALTERs) ---
		alters := []string{
			`ALTER TABLE tax_rates   ALTER COLUMN rate              TYPE numeric(5,2)`,
			`ALTER TABLE products    ALTER COLUMN price             TYPE numeric(12,2)`,
			`ALTER TABLE sales       ALTER COLUMN total_qty         TYPE numeric(10,2)`,
			`ALTER TABLE sales       ALTER COLUMN total_sales_value TYPE numeric(14,2)`,
			`ALTER TABLE sales       ALTER COLUMN total_tax         TYPE numeric(14,2)`,
			`ALTER TABLE sales       ALTER COLUMN total_discount    TYPE numeric(14,2)`,
			`ALTER TABLE sales       ALTER COLUMN total_amount      TYPE numeric(14,2)`,
			`ALTER TABLE sale_items  ALTER COLUMN quantity          TYPE numeric(10,2)`,
			`ALTER TABLE sale_items  ALTER COLUMN unit_price        TYPE numeric(12,2)`,
			`ALTER TABLE sale_items  ALTER COLUMN value_excl_tax    TYPE numeric(14,2)`,
			`ALTER TABLE sale_items  ALTER COLUMN sales_tax         TYPE numeric(14,2)`,
			`ALTER TABLE sale_items  ALTER COLUMN further_tax       TYPE numeric(14,2)`,
			`ALTER TABLE sale_items  ALTER COLUMN c_v_t             TYPE numeric(14,2)`,
			`ALTER TABLE sale_items  ALTER COLUMN w_h_tax_1         TYPE numeric(14,2)`,
			`ALTER TABLE sale_items  ALTER COLUMN w_h_tax_2         TYPE numeric(14,2)`,
			`ALTER TABLE sale_items  ALTER COLUMN discount          TYPE numeric(14,2)`,
			`ALTER TABLE sale_items  ALTER COLUMN line_total        TYPE numeric(14,2)`,
			`ALTER TABLE payments    ALTER COLUMN amount            TYPE numeric(14,2)`,
		}
		for _, stmt := range alters {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("money type migration failed on: %s - %w", stmt, err)
			}
		}

		// --- Enum CHECK constraints ---
		checks := []string{
			addCheck("sales", "chk_sales_invoice_type",
				`invoice_type IN ('PURCHASE','SALE','DEBIT_NOTE','CREDIT_NOTE')`),
			addCheck("sales", "chk_sales_fbr_status",
				`fbr_status IN ('PENDING','SENT','SUCCESS','FAILED')`),
			addCheck("invoice_sync_log", "chk_sync_log_status",
				`status IN ('PENDING','SENT','SUCCESS','FAILED')`),
			addCheck("sales", "chk_sales_sync_attempts_nonneg", `sync_attempts >= 0`),
			addCheck("sale_items", "chk_sale_items_quantity_nonneg", `quantity >= 0`),
			addCheck("payments", "chk_payments_amount_nonneg", `amount >= 0`),
			addCheck("products", "chk_products_price_nonneg", `price >= 0`),
		}
		for _, stmt := range checks {
			if err := tx.Exec(stmt).Error; err != nil {
				return fmt.Errorf("check constraint migration failed: %w", err)
			}
		}

		// --- Sync log FK: RESTRICT, history must outlive sale mutation ---
		fk := `
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1
		FROM pg_constraint
		WHERE conrelid = 'invoice_sync_log'::regclass
		  AND conname  = 'fk_invoice_sync_log_sale'
	) THEN
		ALTER TABLE invoice_sync_log
		ADD CONSTRAINT fk_invoice_sync_log_sale
		FOREIGN KEY (sale_id)
		REFERENCES sales(id)
		ON UPDATE RESTRICT
		ON DELETE RESTRICT;
	END IF;
END $$;`
		if err := tx.Exec(fk).Error; err != nil {
			return fmt.Errorf("sync log foreign key migration failed: %w", err)
		}

		// --- One attempt number per sale ---
		if err := tx.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_sync_log_sale_attempt
			ON invoice_sync_log (sale_id, attempt_no)`).Error; err != nil {
			return fmt.Errorf("sync log index migration failed: %w", err)
		}

		return nil
	})
}

func addCheck(table, name, expr string) string {
	return fmt.Sprintf(`
DO $$
BEGIN
	IF NOT EXISTS (
		SELECT 1 FROM pg_constraint
		WHERE conrelid = '%s'::regclass
		  AND conname  = '%s'
	) THEN
		ALTER TABLE %s ADD CONSTRAINT %s CHECK (%s);
	END IF;
END $$;`, table, name, table, name, expr)
}
