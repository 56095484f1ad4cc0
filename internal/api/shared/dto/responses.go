package dto

import (
	"encoding/json"
	"time"

	"github.com/feral-file/propfi-txbuilder/internal/store/schema"
)

// PreparedTransactionResponse represents an unsigned transaction ready for wallet signing
type PreparedTransactionResponse struct {
	ID             string            `json:"id"`
	Action         string            `json:"action"`
	Actor          string            `json:"actor"`
	Subject        string            `json:"subject"`
	TxCBOR         string            `json:"tx_cbor"`
	TxHash         string            `json:"tx_hash,omitempty"`
	Fee            string            `json:"fee,omitempty"`
	Datums         map[string]string `json:"datums"`
	SkeletonDigest string            `json:"skeleton_digest"`
	CreatedAt      time.Time         `json:"created_at"`
}

// TransactionResponse represents a journaled prepared transaction including its skeleton
type TransactionResponse struct {
	PreparedTransactionResponse
	Skeleton json.RawMessage `json:"skeleton"`
}

// TransactionListResponse represents a page of journaled transactions
type TransactionListResponse struct {
	Items  []TransactionResponse `json:"items"`
	Total  uint64                `json:"total"`
	Offset uint64                `json:"offset"`
	Limit  int                   `json:"limit"`
}

// HealthResponse represents the health status of the API
type HealthResponse struct {
	Status  string `json:"status"`
	Service string `json:"service"`
	Details string `json:"details,omitempty"`
}

// MapTransactionToDTO converts a journal record to a response
func MapTransactionToDTO(record *schema.PreparedTransaction) (*TransactionResponse, error) {
	datums := map[string]string{}
	if len(record.Datums) > 0 {
		if err := json.Unmarshal(record.Datums, &datums); err != nil {
			return nil, err
		}
	}

	return &TransactionResponse{
		PreparedTransactionResponse: PreparedTransactionResponse{
			ID:             record.ID,
			Action:         record.Action,
			Actor:          record.Actor,
			Subject:        record.Subject,
			TxCBOR:         record.TxCBOR,
			TxHash:         record.TxHash,
			Fee:            record.Fee,
			Datums:         datums,
			SkeletonDigest: record.SkeletonDigest,
			CreatedAt:      record.CreatedAt,
		},
		Skeleton: json.RawMessage(record.Skeleton),
	}, nil
}
