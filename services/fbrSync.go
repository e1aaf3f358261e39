package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/fbr"
	"pos-fbr-backend/models"
)

// RequestSync records one FBR sync attempt for a sale and, when a submitter
// is configured, performs the submission and applies the outcome.
//
// Every call is one attempt: it appends exactly one InvoiceSyncLog row with
// attempt_no = sync_attempts + 1, increments the counter, moves fbr_status to
// SENT and stamps last_synced_at. Calls are rejected with an illegal-transition
// error once the sale has reached SUCCESS; FAILED sales may always retry.
//
// With submitter == nil (no endpoint configured) the attempt is recorded with
// a PENDING snapshot and the sale stays SENT. With a live submitter the
// outcome (SUCCESS or FAILED) is applied to the sale and the attempt's log
// row carries the final status and response; the row is never touched again.
func RequestSync(ctx context.Context, db *gorm.DB, submitter fbr.Submitter, saleID uint) (*models.Sale, error) {
	sale, err := GetSale(db, saleID)
	if err != nil {
		return nil, err
	}

	if !sale.FBRStatus.CanTransition(models.FBRStatusSent) {
		return nil, fmt.Errorf("sale %d already reported to FBR as %s: %w",
			sale.ID, sale.FBRStatus, apperrors.ErrIllegalTransition)
	}

	payload := BuildInvoicePayload(sale)
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal sync payload: %w", err)
	}

	now := time.Now().UTC()
	attemptNo := sale.SyncAttempts + 1

	// Stub mode: record the attempt exactly as requested, nothing is sent.
	if submitter == nil {
		err := db.Transaction(func(tx *gorm.DB) error {
			logRow := models.InvoiceSyncLog{
				SaleID:      sale.ID,
				AttemptNo:   attemptNo,
				Payload:     datatypes.JSON(payloadJSON),
				Status:      models.FBRStatusPending,
				AttemptedAt: now,
			}
			if err := tx.Create(&logRow).Error; err != nil {
				return apperrors.FromDB(err)
			}
			return tx.Model(&models.Sale{}).Where("id = ?", sale.ID).
				Updates(map[string]any{
					"sync_attempts":  attemptNo,
					"fbr_status":     models.FBRStatusSent,
					"last_synced_at": now,
					"fbr_payload":    datatypes.JSON(payloadJSON),
				}).Error
		})
		if err != nil {
			return nil, err
		}
		return GetSale(db, sale.ID)
	}

	// Live mode: claim the attempt first so the counter and SENT state are
	// durable even if the process dies mid-call; the external call runs
	// outside any transaction.
	err = db.Model(&models.Sale{}).Where("id = ?", sale.ID).
		Updates(map[string]any{
			"sync_attempts":  attemptNo,
			"fbr_status":     models.FBRStatusSent,
			"last_synced_at": now,
			"fbr_payload":    datatypes.JSON(payloadJSON),
		}).Error
	if err != nil {
		return nil, err
	}

	resp, submitErr := submitter.Submit(ctx, payload)

	outcome := models.FBRStatusFailed
	var responseJSON []byte
	updates := map[string]any{}
	switch {
	case submitErr != nil:
		responseJSON, _ = json.Marshal(map[string]string{"error": submitErr.Error()})
		log.Warn().Err(submitErr).Uint("sale_id", sale.ID).Int("attempt", attemptNo).
			Msg("fbr submission failed")
	case resp.OK():
		outcome = models.FBRStatusSuccess
		responseJSON, _ = json.Marshal(resp)
		if resp.InvoiceNumber != "" {
			updates["fbr_invoice_no"] = resp.InvoiceNumber
		}
		if resp.QRCode != "" {
			updates["qr_payload"] = resp.QRCode
		}
		log.Info().Uint("sale_id", sale.ID).Str("fbr_invoice_no", resp.InvoiceNumber).
			Msg("fbr submission accepted")
	default:
		responseJSON, _ = json.Marshal(resp)
		log.Warn().Uint("sale_id", sale.ID).Str("status", resp.Status).Str("message", resp.Message).
			Msg("fbr rejected invoice")
	}
	updates["fbr_status"] = outcome
	updates["fbr_response"] = datatypes.JSON(responseJSON)

	err = db.Transaction(func(tx *gorm.DB) error {
		logRow := models.InvoiceSyncLog{
			SaleID:      sale.ID,
			AttemptNo:   attemptNo,
			Payload:     datatypes.JSON(payloadJSON),
			Response:    datatypes.JSON(responseJSON),
			Status:      outcome,
			AttemptedAt: now,
		}
		if err := tx.Create(&logRow).Error; err != nil {
			return apperrors.FromDB(err)
		}
		return tx.Model(&models.Sale{}).Where("id = ?", sale.ID).Updates(updates).Error
	})
	if err != nil {
		return nil, err
	}

	updated, err := GetSale(db, sale.ID)
	if err != nil {
		return nil, err
	}
	if outcome == models.FBRStatusFailed {
		detail := "submission error"
		if submitErr != nil {
			detail = submitErr.Error()
		} else if resp != nil {
			detail = resp.Message
		}
		return updated, fmt.Errorf("fbr sync attempt %d for sale %d: %s: %w",
			attemptNo, sale.ID, detail, apperrors.ErrSyncFailure)
	}
	return updated, nil
}

// BuildInvoicePayload maps a hydrated sale onto the authority's wire shape.
func BuildInvoicePayload(sale *models.Sale) *fbr.InvoicePayload {
	p := &fbr.InvoicePayload{
		InvoiceNumber: sale.InvoiceNo,
		USIN:          sale.USIN,
		BuyerNTN:      sale.BuyerNTN,
		BuyerName:     sale.BuyerName,
		InvoiceDate:   sale.InvoiceDate.Format(time.RFC3339),
		InvoiceType:   string(sale.InvoiceType),
		SaleTypeCode:  sale.SaleTypeCode,
		SellerNTN:     sale.SellerNTN,
		SellerSTRN:    sale.SellerSTRN,
		TotalAmount:   sale.TotalAmount,
		TotalTax:      sale.TotalTax,
	}
	if sale.Device != nil {
		p.POSID = sale.Device.FBRPosReg
	}
	for _, it := range sale.Items {
		line := fbr.ItemPayload{
			HSCode:          it.HSCode,
			Quantity:        it.Quantity,
			UnitPrice:       it.UnitPrice,
			ValueExclTax:    it.ValueExclTax,
			SalesTax:        it.SalesTax,
			Discount:        it.Discount,
			SROItemSerialNo: it.SROItemSerialNo,
			LineTotal:       it.LineTotal,
		}
		if it.Product != nil {
			line.ProductCode = it.Product.Code
		}
		p.Items = append(p.Items, line)
	}
	return p
}

// SyncStatusResult is the FBR-status view of a sale.
type SyncStatusResult struct {
	SaleID       uint                    `json:"sale_id"`
	FBRStatus    models.FBRStatus        `json:"fbr_status"`
	SyncAttempts int                     `json:"sync_attempts"`
	LastSyncedAt *time.Time              `json:"last_synced_at"`
	FBRInvoiceNo *string                 `json:"fbr_invoice_no"`
	SyncLogs     []models.InvoiceSyncLog `json:"sync_logs"`
}

// SyncStatus returns the current sync state plus the full attempt history,
// most recent attempt first.
func SyncStatus(db *gorm.DB, saleID uint) (*SyncStatusResult, error) {
	var sale models.Sale
	if err := db.First(&sale, saleID).Error; err != nil {
		return nil, apperrors.NotFoundf("sale %d", saleID)
	}

	var logs []models.InvoiceSyncLog
	if err := db.Where("sale_id = ?", saleID).Order("attempt_no DESC").Find(&logs).Error; err != nil {
		return nil, err
	}

	return &SyncStatusResult{
		SaleID:       sale.ID,
		FBRStatus:    sale.FBRStatus,
		SyncAttempts: sale.SyncAttempts,
		LastSyncedAt: sale.LastSyncedAt,
		FBRInvoiceNo: sale.FBRInvoiceNo,
		SyncLogs:     logs,
	}, nil
}
