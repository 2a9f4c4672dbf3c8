package corebanking

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

func newTestInternalAdapter() *InternalAdapter {
	a := NewInternalAdapter("BANK001")
	a.SeedAccount(&entities.Account{AccountNumber: "ACC-1", BankCode: "BANK001", HolderName: "Alice", Balance: 1000, Currency: "USD"})
	a.SeedAccount(&entities.Account{AccountNumber: "ACC-2", BankCode: "BANK001", HolderName: "Bob", Balance: 50, Currency: "USD"})
	return a
}

func TestInternalAdapter_ProcessDebitInsufficientFunds(t *testing.T) {
	a := newTestInternalAdapter()
	result, err := a.ProcessDebit(context.Background(), "tenant-1", LegRequest{TransactionReference: "tx-1", AccountNumber: "ACC-2", Amount: 500, Currency: "USD"})
	require.NoError(t, err)
	require.Equal(t, entities.TransactionStatusFailed, result.Status)
	require.Equal(t, "INSUFFICIENT_FUNDS", result.BusinessErr)
}

func TestInternalAdapter_ProcessTransferMovesFunds(t *testing.T) {
	a := newTestInternalAdapter()
	result, err := a.ProcessTransfer(context.Background(), "tenant-1", TransferRequest{TransactionReference: "tx-2", FromAccount: "ACC-1", ToAccount: "ACC-2", Amount: 100, Currency: "USD"})
	require.NoError(t, err)
	require.Equal(t, entities.TransactionStatusCompleted, result.Status)

	balance1, err := a.GetAccountBalance(context.Background(), "tenant-1", "ACC-1")
	require.NoError(t, err)
	require.Equal(t, 900.0, balance1)

	balance2, err := a.GetAccountBalance(context.Background(), "tenant-1", "ACC-2")
	require.NoError(t, err)
	require.Equal(t, 150.0, balance2)
}

func TestInternalAdapter_HoldAndReleaseFunds(t *testing.T) {
	a := newTestInternalAdapter()
	_, err := a.HoldFunds(context.Background(), "tenant-1", "ACC-1", 200, "hold-1")
	require.NoError(t, err)

	balance, err := a.GetAccountBalance(context.Background(), "tenant-1", "ACC-1")
	require.NoError(t, err)
	require.Equal(t, 800.0, balance)

	_, err = a.ReleaseFunds(context.Background(), "tenant-1", "hold-1")
	require.NoError(t, err)

	balance, err = a.GetAccountBalance(context.Background(), "tenant-1", "ACC-1")
	require.NoError(t, err)
	require.Equal(t, 1000.0, balance)
}

func TestInternalAdapter_GetAccountInfoNotFound(t *testing.T) {
	a := newTestInternalAdapter()
	_, err := a.GetAccountInfo(context.Background(), "tenant-1", "MISSING")
	require.Error(t, err)
}

func TestInternalAdapter_Supports(t *testing.T) {
	a := newTestInternalAdapter()
	require.True(t, a.Supports(CapabilityProcessDebit))
	require.True(t, a.Supports(CapabilityGetAccountBalance))
}

func TestInternalAdapter_IsSameBankPayment(t *testing.T) {
	a := newTestInternalAdapter()
	require.True(t, a.IsSameBankPayment("BANK001", "BANK001"))
	require.False(t, a.IsSameBankPayment("BANK001", "BANK002"))
}
