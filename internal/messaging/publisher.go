package messaging

import (
	"context"

	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

// Publisher defines the interface for publishing events to message queue
//
//go:generate mockgen -source=publisher.go -destination=../mocks/publisher.go -package=mocks -mock_names=Publisher=MockPublisher
type Publisher interface {
	// PublishTransactionPrepared announces a journaled unsigned transaction
	PublishTransactionPrepared(ctx context.Context, event *domain.TransactionPreparedEvent) error
	// Close closes the connection
	Close()
}

type nopPublisher struct{}

// NewNopPublisher returns a Publisher that drops every event, used when no broker is configured
func NewNopPublisher() Publisher {
	return nopPublisher{}
}

func (nopPublisher) PublishTransactionPrepared(context.Context, *domain.TransactionPreparedEvent) error {
	return nil
}

func (nopPublisher) Close() {}
