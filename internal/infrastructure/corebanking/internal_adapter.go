package corebanking

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
)

var internalSupported = map[Capability]bool{
	CapabilityGetAccountInfo:           true,
	CapabilityValidateAccount:          true,
	CapabilityGetAccountBalance:        true,
	CapabilityHasSufficientFunds:       true,
	CapabilityGetAccountHolder:         true,
	CapabilityProcessDebit:             true,
	CapabilityProcessCredit:            true,
	CapabilityProcessTransfer:          true,
	CapabilityHoldFunds:                true,
	CapabilityReleaseFunds:             true,
	CapabilityGetTransactionStatus:     true,
	CapabilityIsSameBankPayment:        true,
	CapabilityGetClearingSystem:        true,
	CapabilityGetLocalInstrumentCode:   true,
	CapabilityProcessIso20022Payment:   true,
	CapabilityGenerateIso20022Response: true,
	CapabilityValidateIso20022Message:  true,
}

// InternalAdapter is an in-process fake core banking backend: same-process
// "core banking" for tenants configured with adapterKind=INTERNAL, and for
// tests that need a deterministic adapter with no network. Grounded on the
// teacher's blockchain.ClientFactory cached-client shape, generalized from a
// per-RPC-URL cache of blockchain clients to a per-accountNumber ledger.
type InternalAdapter struct {
	bankCode string

	mu           sync.Mutex
	accounts     map[string]*entities.Account
	transactions map[string]*entities.TransactionResult
	holds        map[string]float64 // reference -> held amount, keyed by account via holdAccounts
	holdAccounts map[string]string
}

// NewInternalAdapter constructs an InternalAdapter seeded with no accounts;
// callers (usually tests) use SeedAccount to populate the ledger.
func NewInternalAdapter(bankCode string) *InternalAdapter {
	return &InternalAdapter{
		bankCode:     bankCode,
		accounts:     make(map[string]*entities.Account),
		transactions: make(map[string]*entities.TransactionResult),
		holds:        make(map[string]float64),
		holdAccounts: make(map[string]string),
	}
}

// SeedAccount registers or overwrites an account in the in-memory ledger.
func (a *InternalAdapter) SeedAccount(acc *entities.Account) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.accounts[acc.AccountNumber] = acc
}

func (a *InternalAdapter) Supports(capability Capability) bool {
	return supportsFromSet(internalSupported, capability)
}

func (a *InternalAdapter) GetAccountInfo(_ context.Context, _, accountNumber string) (*entities.Account, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[accountNumber]
	if !ok {
		return nil, domainerrors.NotFound("account not found")
	}
	copied := *acc
	return &copied, nil
}

func (a *InternalAdapter) ValidateAccount(ctx context.Context, tenantID, accountNumber string) (bool, error) {
	_, err := a.GetAccountInfo(ctx, tenantID, accountNumber)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (a *InternalAdapter) GetAccountBalance(ctx context.Context, tenantID, accountNumber string) (float64, error) {
	acc, err := a.GetAccountInfo(ctx, tenantID, accountNumber)
	if err != nil {
		return 0, err
	}
	return acc.Balance, nil
}

func (a *InternalAdapter) HasSufficientFunds(ctx context.Context, tenantID, accountNumber string, amount float64) (bool, error) {
	balance, err := a.GetAccountBalance(ctx, tenantID, accountNumber)
	if err != nil {
		return false, err
	}
	return balance >= amount, nil
}

func (a *InternalAdapter) GetAccountHolder(ctx context.Context, tenantID, accountNumber string) (string, error) {
	acc, err := a.GetAccountInfo(ctx, tenantID, accountNumber)
	if err != nil {
		return "", err
	}
	return acc.HolderName, nil
}

func (a *InternalAdapter) ProcessDebit(_ context.Context, _ string, req LegRequest) (*entities.TransactionResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[req.AccountNumber]
	if !ok {
		return &entities.TransactionResult{Status: entities.TransactionStatusFailed, BusinessErr: "ACCOUNT_NOT_FOUND"}, nil
	}
	if acc.Balance < req.Amount {
		return &entities.TransactionResult{Status: entities.TransactionStatusFailed, BusinessErr: "INSUFFICIENT_FUNDS"}, nil
	}
	acc.Balance -= req.Amount
	result := &entities.TransactionResult{Reference: req.TransactionReference, Status: entities.TransactionStatusCompleted}
	a.transactions[req.TransactionReference] = result
	return result, nil
}

func (a *InternalAdapter) ProcessCredit(_ context.Context, _ string, req LegRequest) (*entities.TransactionResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[req.AccountNumber]
	if !ok {
		return &entities.TransactionResult{Status: entities.TransactionStatusFailed, BusinessErr: "ACCOUNT_NOT_FOUND"}, nil
	}
	acc.Balance += req.Amount
	result := &entities.TransactionResult{Reference: req.TransactionReference, Status: entities.TransactionStatusCompleted}
	a.transactions[req.TransactionReference] = result
	return result, nil
}

func (a *InternalAdapter) ProcessTransfer(ctx context.Context, tenantID string, req TransferRequest) (*entities.TransactionResult, error) {
	debit, err := a.ProcessDebit(ctx, tenantID, LegRequest{TransactionReference: req.TransactionReference, AccountNumber: req.FromAccount, Amount: req.Amount, Currency: req.Currency})
	if err != nil || debit.Status != entities.TransactionStatusCompleted {
		return debit, err
	}
	return a.ProcessCredit(ctx, tenantID, LegRequest{TransactionReference: req.TransactionReference, AccountNumber: req.ToAccount, Amount: req.Amount, Currency: req.Currency})
}

func (a *InternalAdapter) HoldFunds(_ context.Context, _ string, accountNumber string, amount float64, reference string) (*entities.TransactionResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	acc, ok := a.accounts[accountNumber]
	if !ok || acc.Balance < amount {
		return &entities.TransactionResult{Status: entities.TransactionStatusFailed, BusinessErr: "INSUFFICIENT_FUNDS"}, nil
	}
	acc.Balance -= amount
	a.holds[reference] = amount
	a.holdAccounts[reference] = accountNumber
	return &entities.TransactionResult{Reference: reference, Status: entities.TransactionStatusCompleted}, nil
}

func (a *InternalAdapter) ReleaseFunds(_ context.Context, _ string, reference string) (*entities.TransactionResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	amount, ok := a.holds[reference]
	if !ok {
		return nil, domainerrors.NotFound("hold not found")
	}
	accountNumber := a.holdAccounts[reference]
	if acc, ok := a.accounts[accountNumber]; ok {
		acc.Balance += amount
	}
	delete(a.holds, reference)
	delete(a.holdAccounts, reference)
	return &entities.TransactionResult{Reference: reference, Status: entities.TransactionStatusCompleted}, nil
}

func (a *InternalAdapter) GetTransactionStatus(_ context.Context, _, reference string) (*entities.TransactionResult, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	result, ok := a.transactions[reference]
	if !ok {
		return nil, domainerrors.NotFound("transaction not found")
	}
	return result, nil
}

func (a *InternalAdapter) IsSameBankPayment(sourceBankCode, destBankCode string) bool {
	return sourceBankCode == a.bankCode && destBankCode == a.bankCode
}

func (a *InternalAdapter) GetClearingSystemForPayment(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func (a *InternalAdapter) GetLocalInstrumentationCode(_ context.Context, _, _ string) (string, error) {
	return "", nil
}

func (a *InternalAdapter) ProcessIso20022Payment(ctx context.Context, tenantID, _ string, payload map[string]interface{}) (*entities.TransactionResult, error) {
	amount, _ := payload["amount"].(float64)
	fromAccount, _ := payload["fromAccount"].(string)
	toAccount, _ := payload["toAccount"].(string)
	reference := uuid.NewString()
	return a.ProcessTransfer(ctx, tenantID, TransferRequest{TransactionReference: reference, FromAccount: fromAccount, ToAccount: toAccount, Amount: amount})
}

func (a *InternalAdapter) GenerateIso20022Response(_ context.Context, _, messageType string, result *entities.TransactionResult) (map[string]interface{}, error) {
	return map[string]interface{}{
		"messageType":    responseMessageType(messageType),
		"reference":      result.Reference,
		"status":         string(result.Status),
		"generatedAt":    time.Now().UTC().Format(time.RFC3339),
	}, nil
}

func (a *InternalAdapter) ValidateIso20022Message(_ context.Context, _, _ string, payload map[string]interface{}) error {
	if _, ok := payload["amount"]; !ok {
		return domainerrors.BadRequest("missing amount field")
	}
	return nil
}

func responseMessageType(requestMessageType string) string {
	switch requestMessageType {
	case "pacs.008":
		return "pacs.002"
	default:
		return requestMessageType
	}
}
