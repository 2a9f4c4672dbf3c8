// Package corebanking implements the C5 capability interface the orchestrator
// depends on, with three transports: REST, GRPC, and an in-process INTERNAL
// fake. Every call goes through the caller's resiliency envelope.
package corebanking

import (
	"context"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
)

// Capability names one unit of adapter functionality, advertised per
// implementation via Supports so callers can fail fast with ErrNotSupported
// instead of a panic.
type Capability string

const (
	CapabilityGetAccountInfo            Capability = "GET_ACCOUNT_INFO"
	CapabilityValidateAccount           Capability = "VALIDATE_ACCOUNT"
	CapabilityGetAccountBalance         Capability = "GET_ACCOUNT_BALANCE"
	CapabilityHasSufficientFunds        Capability = "HAS_SUFFICIENT_FUNDS"
	CapabilityGetAccountHolder          Capability = "GET_ACCOUNT_HOLDER"
	CapabilityProcessDebit              Capability = "PROCESS_DEBIT"
	CapabilityProcessCredit             Capability = "PROCESS_CREDIT"
	CapabilityProcessTransfer           Capability = "PROCESS_TRANSFER"
	CapabilityHoldFunds                 Capability = "HOLD_FUNDS"
	CapabilityReleaseFunds              Capability = "RELEASE_FUNDS"
	CapabilityGetTransactionStatus      Capability = "GET_TRANSACTION_STATUS"
	CapabilityIsSameBankPayment         Capability = "IS_SAME_BANK_PAYMENT"
	CapabilityGetClearingSystem         Capability = "GET_CLEARING_SYSTEM"
	CapabilityGetLocalInstrumentCode    Capability = "GET_LOCAL_INSTRUMENT_CODE"
	CapabilityProcessIso20022Payment    Capability = "PROCESS_ISO20022_PAYMENT"
	CapabilityGenerateIso20022Response  Capability = "GENERATE_ISO20022_RESPONSE"
	CapabilityValidateIso20022Message   Capability = "VALIDATE_ISO20022_MESSAGE"
)

// TransferRequest moves funds between two accounts at the same adapter in a
// single call.
type TransferRequest struct {
	TransactionReference string
	FromAccount           string
	ToAccount             string
	Amount                float64
	Currency              string
}

// LegRequest is the input to ProcessDebit/ProcessCredit.
type LegRequest struct {
	TransactionReference string
	AccountNumber        string
	Amount               float64
	Currency             string
}

// Adapter is the capability interface the orchestrator, routing engine, and
// ISO 20022 dispatch path depend on. Implementations: REST, GRPC, INTERNAL.
type Adapter interface {
	Supports(capability Capability) bool

	GetAccountInfo(ctx context.Context, tenantID, accountNumber string) (*entities.Account, error)
	ValidateAccount(ctx context.Context, tenantID, accountNumber string) (bool, error)
	GetAccountBalance(ctx context.Context, tenantID, accountNumber string) (float64, error)
	HasSufficientFunds(ctx context.Context, tenantID, accountNumber string, amount float64) (bool, error)
	GetAccountHolder(ctx context.Context, tenantID, accountNumber string) (string, error)

	ProcessDebit(ctx context.Context, tenantID string, req LegRequest) (*entities.TransactionResult, error)
	ProcessCredit(ctx context.Context, tenantID string, req LegRequest) (*entities.TransactionResult, error)
	ProcessTransfer(ctx context.Context, tenantID string, req TransferRequest) (*entities.TransactionResult, error)
	HoldFunds(ctx context.Context, tenantID, accountNumber string, amount float64, reference string) (*entities.TransactionResult, error)
	ReleaseFunds(ctx context.Context, tenantID, reference string) (*entities.TransactionResult, error)
	GetTransactionStatus(ctx context.Context, tenantID, reference string) (*entities.TransactionResult, error)

	IsSameBankPayment(sourceBankCode, destBankCode string) bool
	GetClearingSystemForPayment(ctx context.Context, tenantID, paymentType string) (string, error)
	GetLocalInstrumentationCode(ctx context.Context, tenantID, paymentType string) (string, error)

	ProcessIso20022Payment(ctx context.Context, tenantID, messageType string, payload map[string]interface{}) (*entities.TransactionResult, error)
	GenerateIso20022Response(ctx context.Context, tenantID, messageType string, result *entities.TransactionResult) (map[string]interface{}, error)
	ValidateIso20022Message(ctx context.Context, tenantID, messageType string, payload map[string]interface{}) error
}

// supportsFromSet implements Supports for a fixed capability set, shared by
// every implementation to avoid repeating the same switch three times.
func supportsFromSet(set map[Capability]bool, capability Capability) bool {
	return set[capability]
}
