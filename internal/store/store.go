package store

import (
	"context"
	"time"

	"gorm.io/datatypes"

	"github.com/feral-file/propfi-txbuilder/internal/store/schema"
)

// CreatePreparedTransactionInput represents the data needed to journal a prepared transaction
type CreatePreparedTransactionInput struct {
	ID             string
	Action         string
	Actor          string
	Subject        string
	TxCBOR         string
	TxHash         string
	Fee            string
	Skeleton       datatypes.JSON
	Datums         datatypes.JSON
	SkeletonDigest string
	CreatedAt      time.Time
}

// PreparedTransactionFilter narrows a journal listing
type PreparedTransactionFilter struct {
	Actor   string
	Actions []string
	Subject string
	Limit   int
	Offset  uint64
}

// Store defines the interface for database operations
//
//go:generate mockgen -source=store.go -destination=../mocks/store.go -package=mocks -mock_names=Store=MockStore
type Store interface {
	// CreatePreparedTransaction journals a prepared transaction
	CreatePreparedTransaction(ctx context.Context, input CreatePreparedTransactionInput) (*schema.PreparedTransaction, error)
	// GetPreparedTransaction retrieves a prepared transaction by id, nil when absent
	GetPreparedTransaction(ctx context.Context, id string) (*schema.PreparedTransaction, error)
	// ListPreparedTransactions lists prepared transactions newest first with the total count
	ListPreparedTransactions(ctx context.Context, filter PreparedTransactionFilter) ([]*schema.PreparedTransaction, uint64, error)
	// Ping checks the database connection
	Ping(ctx context.Context) error
}
