package corebanking

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/google/uuid"
	"github.com/sony/gobreaker"

	"github.com/paynet/iso20022-orchestrator/internal/domain/entities"
	domainerrors "github.com/paynet/iso20022-orchestrator/internal/domain/errors"
	"github.com/paynet/iso20022-orchestrator/internal/infrastructure/resiliency"
)

var restSupported = map[Capability]bool{
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
	CapabilityProcessIso20022Payment:   true,
	CapabilityGenerateIso20022Response: true,
	CapabilityValidateIso20022Message:  true,
}

// RESTAdapter dispatches core banking capability calls over HTTP. Every call
// is stateless across invocations and goes through the supplied resiliency
// envelope, keyed by targetName, so retries/circuit-breaking apply uniformly
// regardless of which capability is invoked.
//
// A second, independent gobreaker.CircuitBreaker guards the raw transport
// itself (connection resets, DNS failures) below the component-level C1
// envelope breaker, which trips on business-level call outcomes.
type RESTAdapter struct {
	baseURL      string
	httpClient   *http.Client
	envelope     *resiliency.Envelope
	policy       resiliency.Policy
	targetName   string
	transportCB  *gobreaker.CircuitBreaker
}

// NewRESTAdapter constructs a RESTAdapter targeting baseURL, wrapping every
// call through envelope under policy.
func NewRESTAdapter(baseURL string, envelope *resiliency.Envelope, policy resiliency.Policy) *RESTAdapter {
	return &RESTAdapter{
		baseURL:    baseURL,
		httpClient: &http.Client{},
		envelope:   envelope,
		policy:     policy,
		targetName: policy.TargetName,
		transportCB: gobreaker.NewCircuitBreaker(gobreaker.Settings{
			Name:        policy.TargetName + "-transport",
			MaxRequests: 1,
		}),
	}
}

func (a *RESTAdapter) Supports(capability Capability) bool {
	return supportsFromSet(restSupported, capability)
}

// call issues method/path against baseURL with tenantID/X-Request-ID headers
// and a JSON body, decoding the JSON response into out, all through the
// envelope so retries/circuit-breaking/rate-limiting apply uniformly.
func (a *RESTAdapter) call(ctx context.Context, tenantID, method, path string, body, out interface{}) error {
	return a.envelope.Execute(ctx, a.policy, func(ctx context.Context) error {
		var reader *bytes.Reader
		if body != nil {
			encoded, err := json.Marshal(body)
			if err != nil {
				return fmt.Errorf("encode request: %w", err)
			}
			reader = bytes.NewReader(encoded)
		} else {
			reader = bytes.NewReader(nil)
		}

		req, err := http.NewRequestWithContext(ctx, method, a.baseURL+path, reader)
		if err != nil {
			return fmt.Errorf("build request: %w", err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Tenant-ID", tenantID)
		req.Header.Set("X-Request-ID", uuid.NewString())

		rawResp, err := a.transportCB.Execute(func() (interface{}, error) {
			return a.httpClient.Do(req)
		})
		if err != nil {
			return domainerrors.ErrAdapterUnavailable
		}
		resp := rawResp.(*http.Response)
		defer resp.Body.Close()

		if resp.StatusCode >= 500 {
			return domainerrors.ErrAdapterUnavailable
		}
		if resp.StatusCode >= 400 {
			return domainerrors.NewAppError(resp.StatusCode, domainerrors.CodeBusiness, "core banking adapter rejected request", nil)
		}
		if out == nil {
			return nil
		}
		return json.NewDecoder(resp.Body).Decode(out)
	})
}

func (a *RESTAdapter) GetAccountInfo(ctx context.Context, tenantID, accountNumber string) (*entities.Account, error) {
	var acc entities.Account
	if err := a.call(ctx, tenantID, http.MethodGet, "/accounts/"+accountNumber, nil, &acc); err != nil {
		return nil, err
	}
	return &acc, nil
}

func (a *RESTAdapter) ValidateAccount(ctx context.Context, tenantID, accountNumber string) (bool, error) {
	var out struct {
		Valid bool `json:"valid"`
	}
	if err := a.call(ctx, tenantID, http.MethodGet, "/accounts/"+accountNumber+"/validate", nil, &out); err != nil {
		return false, err
	}
	return out.Valid, nil
}

func (a *RESTAdapter) GetAccountBalance(ctx context.Context, tenantID, accountNumber string) (float64, error) {
	var out struct {
		Balance float64 `json:"balance"`
	}
	if err := a.call(ctx, tenantID, http.MethodGet, "/accounts/"+accountNumber+"/balance", nil, &out); err != nil {
		return 0, err
	}
	return out.Balance, nil
}

func (a *RESTAdapter) HasSufficientFunds(ctx context.Context, tenantID, accountNumber string, amount float64) (bool, error) {
	balance, err := a.GetAccountBalance(ctx, tenantID, accountNumber)
	if err != nil {
		return false, err
	}
	return balance >= amount, nil
}

func (a *RESTAdapter) GetAccountHolder(ctx context.Context, tenantID, accountNumber string) (string, error) {
	acc, err := a.GetAccountInfo(ctx, tenantID, accountNumber)
	if err != nil {
		return "", err
	}
	return acc.HolderName, nil
}

func (a *RESTAdapter) ProcessDebit(ctx context.Context, tenantID string, req LegRequest) (*entities.TransactionResult, error) {
	var result entities.TransactionResult
	if err := a.call(ctx, tenantID, http.MethodPost, "/transactions/debit", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *RESTAdapter) ProcessCredit(ctx context.Context, tenantID string, req LegRequest) (*entities.TransactionResult, error) {
	var result entities.TransactionResult
	if err := a.call(ctx, tenantID, http.MethodPost, "/transactions/credit", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *RESTAdapter) ProcessTransfer(ctx context.Context, tenantID string, req TransferRequest) (*entities.TransactionResult, error) {
	var result entities.TransactionResult
	if err := a.call(ctx, tenantID, http.MethodPost, "/transactions/transfer", req, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *RESTAdapter) HoldFunds(ctx context.Context, tenantID, accountNumber string, amount float64, reference string) (*entities.TransactionResult, error) {
	var result entities.TransactionResult
	body := map[string]interface{}{"accountNumber": accountNumber, "amount": amount, "reference": reference}
	if err := a.call(ctx, tenantID, http.MethodPost, "/transactions/hold", body, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *RESTAdapter) ReleaseFunds(ctx context.Context, tenantID, reference string) (*entities.TransactionResult, error) {
	var result entities.TransactionResult
	if err := a.call(ctx, tenantID, http.MethodPost, "/transactions/hold/"+reference+"/release", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *RESTAdapter) GetTransactionStatus(ctx context.Context, tenantID, reference string) (*entities.TransactionResult, error) {
	var result entities.TransactionResult
	if err := a.call(ctx, tenantID, http.MethodGet, "/transactions/"+reference, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *RESTAdapter) IsSameBankPayment(sourceBankCode, destBankCode string) bool {
	return sourceBankCode == destBankCode
}

func (a *RESTAdapter) GetClearingSystemForPayment(ctx context.Context, tenantID, paymentType string) (string, error) {
	var out struct {
		ClearingSystemCode string `json:"clearingSystemCode"`
	}
	if err := a.call(ctx, tenantID, http.MethodGet, "/routing/clearing-system?paymentType="+paymentType, nil, &out); err != nil {
		return "", err
	}
	return out.ClearingSystemCode, nil
}

func (a *RESTAdapter) GetLocalInstrumentationCode(ctx context.Context, tenantID, paymentType string) (string, error) {
	var out struct {
		LocalInstrumentCode string `json:"localInstrumentCode"`
	}
	if err := a.call(ctx, tenantID, http.MethodGet, "/routing/local-instrument?paymentType="+paymentType, nil, &out); err != nil {
		return "", err
	}
	return out.LocalInstrumentCode, nil
}

func (a *RESTAdapter) ProcessIso20022Payment(ctx context.Context, tenantID, messageType string, payload map[string]interface{}) (*entities.TransactionResult, error) {
	var result entities.TransactionResult
	if err := a.call(ctx, tenantID, http.MethodPost, "/iso20022/"+messageType, payload, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (a *RESTAdapter) GenerateIso20022Response(ctx context.Context, tenantID, messageType string, result *entities.TransactionResult) (map[string]interface{}, error) {
	var out map[string]interface{}
	body := map[string]interface{}{"messageType": messageType, "result": result}
	if err := a.call(ctx, tenantID, http.MethodPost, "/iso20022/response", body, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (a *RESTAdapter) ValidateIso20022Message(ctx context.Context, tenantID, messageType string, payload map[string]interface{}) error {
	body := map[string]interface{}{"messageType": messageType, "payload": payload}
	return a.call(ctx, tenantID, http.MethodPost, "/iso20022/validate", body, nil)
}
