package services_test

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"pos-fbr-backend/apperrors"
	"pos-fbr-backend/fbr"
	"pos-fbr-backend/models"
	"pos-fbr-backend/services"
)

// fakeSubmitter returns canned responses and records the payloads it saw.
type fakeSubmitter struct {
	resp     *fbr.Response
	err      error
	payloads []*fbr.InvoicePayload
}

func (f *fakeSubmitter) Submit(_ context.Context, p *fbr.InvoicePayload) (*fbr.Response, error) {
	f.payloads = append(f.payloads, p)
	if f.err != nil {
		return nil, f.err
	}
	return f.resp, nil
}

func createSyncableSale(t *testing.T, db *gorm.DB) *models.Sale {
	t.Helper()
	branch, device, product := seedSaleDeps(t, db)
	sale, err := services.CreateSale(db, saleInput(branch, device, product))
	require.NoError(t, err)
	return sale
}

func TestRequestSync_StubModeRecordsAttempts(t *testing.T) {
	db := openTestDB(t)
	sale := createSyncableSale(t, db)

	for want := 1; want <= 3; want++ {
		updated, err := services.RequestSync(context.Background(), db, nil, sale.ID)
		require.NoError(t, err)
		assert.Equal(t, models.FBRStatusSent, updated.FBRStatus)
		assert.Equal(t, want, updated.SyncAttempts)
		require.NotNil(t, updated.LastSyncedAt)
	}

	status, err := services.SyncStatus(db, sale.ID)
	require.NoError(t, err)
	require.Len(t, status.SyncLogs, 3)

	// Newest first, attempt numbers dense from 1, all PENDING snapshots.
	for i, logRow := range status.SyncLogs {
		assert.Equal(t, 3-i, logRow.AttemptNo)
		assert.Equal(t, models.FBRStatusPending, logRow.Status)
		assert.NotEmpty(t, logRow.Payload)
		assert.Empty(t, logRow.Response)
	}
}

func TestRequestSync_LiveSuccessAppliesOutcome(t *testing.T) {
	db := openTestDB(t)
	sale := createSyncableSale(t, db)

	sub := &fakeSubmitter{resp: &fbr.Response{
		Status:        "success",
		InvoiceNumber: "FBR-777",
		QRCode:        "qr-data",
	}}

	updated, err := services.RequestSync(context.Background(), db, sub, sale.ID)
	require.NoError(t, err)

	assert.Equal(t, models.FBRStatusSuccess, updated.FBRStatus)
	assert.Equal(t, 1, updated.SyncAttempts)
	require.NotNil(t, updated.FBRInvoiceNo)
	assert.Equal(t, "FBR-777", *updated.FBRInvoiceNo)
	assert.Equal(t, "qr-data", updated.QRPayload)

	// The submitted payload carries the device registration and product codes.
	require.Len(t, sub.payloads, 1)
	assert.Equal(t, "POS-9001", sub.payloads[0].POSID)
	require.Len(t, sub.payloads[0].Items, 2)
	assert.Equal(t, "SKU-100", sub.payloads[0].Items[0].ProductCode)

	status, err := services.SyncStatus(db, sale.ID)
	require.NoError(t, err)
	require.Len(t, status.SyncLogs, 1)
	assert.Equal(t, 1, status.SyncLogs[0].AttemptNo)
	assert.Equal(t, models.FBRStatusSuccess, status.SyncLogs[0].Status)

	var parsed fbr.Response
	require.NoError(t, json.Unmarshal(status.SyncLogs[0].Response, &parsed))
	assert.Equal(t, "FBR-777", parsed.InvoiceNumber)
}

func TestRequestSync_SuccessIsTerminal(t *testing.T) {
	db := openTestDB(t)
	sale := createSyncableSale(t, db)

	sub := &fakeSubmitter{resp: &fbr.Response{Status: "00", InvoiceNumber: "FBR-1"}}
	_, err := services.RequestSync(context.Background(), db, sub, sale.ID)
	require.NoError(t, err)

	_, err = services.RequestSync(context.Background(), db, sub, sale.ID)
	assert.ErrorIs(t, err, apperrors.ErrIllegalTransition)
	assert.Len(t, sub.payloads, 1, "no second submission may happen")
}

func TestRequestSync_FailureIsRetryable(t *testing.T) {
	db := openTestDB(t)
	sale := createSyncableSale(t, db)

	failing := &fakeSubmitter{err: errors.New("connection refused")}
	updated, err := services.RequestSync(context.Background(), db, failing, sale.ID)
	assert.ErrorIs(t, err, apperrors.ErrSyncFailure)
	require.NotNil(t, updated)
	assert.Equal(t, models.FBRStatusFailed, updated.FBRStatus)
	assert.Equal(t, 1, updated.SyncAttempts)

	// A rejection from the authority is also FAILED, with the response kept.
	rejecting := &fakeSubmitter{resp: &fbr.Response{Status: "error", Message: "invalid NTN"}}
	updated, err = services.RequestSync(context.Background(), db, rejecting, sale.ID)
	assert.ErrorIs(t, err, apperrors.ErrSyncFailure)
	assert.Equal(t, models.FBRStatusFailed, updated.FBRStatus)
	assert.Equal(t, 2, updated.SyncAttempts)

	// FAILED -> SENT -> SUCCESS still works.
	ok := &fakeSubmitter{resp: &fbr.Response{Status: "success", InvoiceNumber: "FBR-2"}}
	updated, err = services.RequestSync(context.Background(), db, ok, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FBRStatusSuccess, updated.FBRStatus)
	assert.Equal(t, 3, updated.SyncAttempts)

	status, err := services.SyncStatus(db, sale.ID)
	require.NoError(t, err)
	require.Len(t, status.SyncLogs, 3)
	assert.Equal(t, models.FBRStatusSuccess, status.SyncLogs[0].Status)
	assert.Equal(t, models.FBRStatusFailed, status.SyncLogs[1].Status)
	assert.Equal(t, models.FBRStatusFailed, status.SyncLogs[2].Status)
}

func TestSyncStatus_ZeroState(t *testing.T) {
	db := openTestDB(t)
	sale := createSyncableSale(t, db)

	status, err := services.SyncStatus(db, sale.ID)
	require.NoError(t, err)
	assert.Equal(t, models.FBRStatusPending, status.FBRStatus)
	assert.Zero(t, status.SyncAttempts)
	assert.Nil(t, status.LastSyncedAt)
	assert.Nil(t, status.FBRInvoiceNo)
	assert.Empty(t, status.SyncLogs)

	_, err = services.SyncStatus(db, 9999)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
