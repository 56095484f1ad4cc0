package ledger

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/feral-file/propfi-txbuilder/internal/adapter"
	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/logger"
)

const contentTypeJSON = "application/json"

type utxosResponse struct {
	UTxOs []UTxO `json:"utxos"`
}

type keyHashResponse struct {
	PubKeyHash domain.PubKeyHash `json:"pub_key_hash"`
}

type addressResponse struct {
	Address string `json:"address"`
}

type httpService struct {
	baseURL string
	client  adapter.HTTPClient
	json    adapter.JSON
}

// NewHTTPService creates a ledger Service backed by a JSON HTTP API
func NewHTTPService(baseURL string, client adapter.HTTPClient, json adapter.JSON) Service {
	return &httpService{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  client,
		json:    json,
	}
}

// FetchUnspentOutputs lists the unspent outputs at an address. An address the service
// has never seen holds nothing.
func (s *httpService) FetchUnspentOutputs(ctx context.Context, address string) ([]UTxO, error) {
	endpoint := fmt.Sprintf("%s/v1/addresses/%s/utxos", s.baseURL, url.PathEscape(address))

	var resp utxosResponse
	if err := s.client.Get(ctx, endpoint, &resp); err != nil {
		if code, ok := adapter.StatusCode(err); ok && code == http.StatusNotFound {
			return []UTxO{}, nil
		}
		return nil, classify("fetch unspent outputs", err)
	}

	logger.DebugCtx(ctx, "Fetched unspent outputs", zap.String("address", address), zap.Int("count", len(resp.UTxOs)))
	return resp.UTxOs, nil
}

// PaymentKeyHash extracts the payment key hash of a wallet address
func (s *httpService) PaymentKeyHash(ctx context.Context, address string) (domain.PubKeyHash, error) {
	endpoint := fmt.Sprintf("%s/v1/addresses/%s/payment-key-hash", s.baseURL, url.PathEscape(address))

	var resp keyHashResponse
	if err := s.client.Get(ctx, endpoint, &resp); err != nil {
		return "", classify("payment key hash", err)
	}
	if _, err := resp.PubKeyHash.Bytes(); err != nil {
		return "", fmt.Errorf("%w: payment key hash: %w", domain.ErrExternalServiceFailure, err)
	}
	return domain.PubKeyHash(strings.ToLower(string(resp.PubKeyHash))), nil
}

// ResolveAddress encodes a script or key hash as an address
func (s *httpService) ResolveAddress(ctx context.Context, destination Destination) (string, error) {
	var resp addressResponse
	if err := s.post(ctx, "/v1/addresses/resolve", destination, &resp); err != nil {
		return "", classify("resolve address", err)
	}
	if resp.Address == "" {
		return "", fmt.Errorf("%w: resolve address: empty address", domain.ErrExternalServiceFailure)
	}
	return resp.Address, nil
}

// BuildUnsignedTransaction hands the skeleton to the service for balancing. Never retried.
func (s *httpService) BuildUnsignedTransaction(ctx context.Context, skeleton Skeleton) (UnsignedTransaction, error) {
	var tx UnsignedTransaction
	if err := s.post(ctx, "/v1/transactions/build", skeleton, &tx); err != nil {
		return UnsignedTransaction{}, fmt.Errorf("%w: build transaction: %w", domain.ErrExternalServiceFailure, err)
	}
	if tx.CBOR == "" {
		return UnsignedTransaction{}, fmt.Errorf("%w: build transaction: empty transaction", domain.ErrExternalServiceFailure)
	}
	return tx, nil
}

func (s *httpService) post(ctx context.Context, path string, body interface{}, result interface{}) error {
	payload, err := s.json.Marshal(body)
	if err != nil {
		return fmt.Errorf("failed to marshal request: %w", err)
	}

	respBody, err := s.client.Post(ctx, s.baseURL+path, contentTypeJSON, bytes.NewReader(payload))
	if err != nil {
		return err
	}

	if err := s.json.Unmarshal(respBody, result); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	return nil
}

// classify maps address-level rejections to MalformedRecord and everything else
// to ExternalServiceFailure
func classify(op string, err error) error {
	if code, ok := adapter.StatusCode(err); ok && (code == http.StatusBadRequest || code == http.StatusUnprocessableEntity) {
		return fmt.Errorf("%w: %s: %w", domain.ErrMalformedRecord, op, err)
	}
	return fmt.Errorf("%w: %s: %w", domain.ErrExternalServiceFailure, op, err)
}
