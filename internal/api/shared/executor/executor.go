package executor

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"time"

	"github.com/oklog/ulid/v2"
	"go.uber.org/zap"
	"gorm.io/datatypes"

	"github.com/feral-file/propfi-txbuilder/internal/adapter"
	"github.com/feral-file/propfi-txbuilder/internal/api/shared/dto"
	apierrors "github.com/feral-file/propfi-txbuilder/internal/api/shared/errors"
	"github.com/feral-file/propfi-txbuilder/internal/composer"
	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/logger"
	"github.com/feral-file/propfi-txbuilder/internal/messaging"
	"github.com/feral-file/propfi-txbuilder/internal/metrics"
	"github.com/feral-file/propfi-txbuilder/internal/store"
)

// outcomeJournalFailure is the metrics outcome when a built transaction could not be journaled
const outcomeJournalFailure = "journal_failure"

// Executor is the interface for the API executor
//
//go:generate mockgen -source=executor.go -destination=../../../mocks/mock_api_executor.go -package=mocks -mock_names=Executor=MockAPIExecutor
type Executor interface {
	// Fractionalize prepares the mint of a property's CIP-68 token pair
	Fractionalize(ctx context.Context, req composer.FractionalizeRequest) (*dto.PreparedTransactionResponse, error)

	// ListForSale prepares a marketplace listing
	ListForSale(ctx context.Context, req composer.ListRequest) (*dto.PreparedTransactionResponse, error)

	// Buy prepares the settlement of a listing
	Buy(ctx context.Context, req composer.BuyRequest) (*dto.PreparedTransactionResponse, error)

	// CancelListing prepares the withdrawal of a listing
	CancelListing(ctx context.Context, req composer.CancelRequest) (*dto.PreparedTransactionResponse, error)

	// CreateSyndicate prepares a new fundraising escrow
	CreateSyndicate(ctx context.Context, req composer.CreateSyndicateRequest) (*dto.PreparedTransactionResponse, error)

	// DepositToSyndicate prepares an investor contribution
	DepositToSyndicate(ctx context.Context, req composer.SyndicateDepositRequest) (*dto.PreparedTransactionResponse, error)

	// CreateYieldTreasury prepares a new yield treasury
	CreateYieldTreasury(ctx context.Context, req composer.CreateTreasuryRequest) (*dto.PreparedTransactionResponse, error)

	// DepositYield prepares a rental income deposit
	DepositYield(ctx context.Context, req composer.DepositYieldRequest) (*dto.PreparedTransactionResponse, error)

	// ClaimYield prepares a holder's yield claim
	ClaimYield(ctx context.Context, req composer.ClaimYieldRequest) (*dto.PreparedTransactionResponse, error)

	// GetTransaction retrieves a journaled transaction, nil when absent
	GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error)

	// ListTransactions lists journaled transactions newest first
	ListTransactions(ctx context.Context, query dto.ListTransactionsQuery) (*dto.TransactionListResponse, error)

	// Ready checks the executor's dependencies are reachable
	Ready(ctx context.Context) error
}

type executor struct {
	composer  composer.Composer
	store     store.Store
	publisher messaging.Publisher
	clock     adapter.Clock
	json      adapter.JSON
	jcs       adapter.JCS
}

// NewExecutor creates an executor that builds, journals and announces transactions
func NewExecutor(
	composer composer.Composer,
	store store.Store,
	publisher messaging.Publisher,
	clock adapter.Clock,
	json adapter.JSON,
	jcs adapter.JCS,
) Executor {
	return &executor{
		composer:  composer,
		store:     store,
		publisher: publisher,
		clock:     clock,
		json:      json,
		jcs:       jcs,
	}
}

func (e *executor) Fractionalize(ctx context.Context, req composer.FractionalizeRequest) (*dto.PreparedTransactionResponse, error) {
	return e.prepare(ctx, domain.ActionFractionalize, func() (*composer.Prepared, error) {
		return e.composer.Fractionalize(ctx, req)
	})
}

func (e *executor) ListForSale(ctx context.Context, req composer.ListRequest) (*dto.PreparedTransactionResponse, error) {
	return e.prepare(ctx, domain.ActionList, func() (*composer.Prepared, error) {
		return e.composer.ListForSale(ctx, req)
	})
}

func (e *executor) Buy(ctx context.Context, req composer.BuyRequest) (*dto.PreparedTransactionResponse, error) {
	return e.prepare(ctx, domain.ActionBuy, func() (*composer.Prepared, error) {
		return e.composer.Buy(ctx, req)
	})
}

func (e *executor) CancelListing(ctx context.Context, req composer.CancelRequest) (*dto.PreparedTransactionResponse, error) {
	return e.prepare(ctx, domain.ActionCancel, func() (*composer.Prepared, error) {
		return e.composer.CancelListing(ctx, req)
	})
}

func (e *executor) CreateSyndicate(ctx context.Context, req composer.CreateSyndicateRequest) (*dto.PreparedTransactionResponse, error) {
	return e.prepare(ctx, domain.ActionCreateSyndicate, func() (*composer.Prepared, error) {
		return e.composer.CreateSyndicate(ctx, req)
	})
}

func (e *executor) DepositToSyndicate(ctx context.Context, req composer.SyndicateDepositRequest) (*dto.PreparedTransactionResponse, error) {
	return e.prepare(ctx, domain.ActionSyndicateDeposit, func() (*composer.Prepared, error) {
		return e.composer.DepositToSyndicate(ctx, req)
	})
}

func (e *executor) CreateYieldTreasury(ctx context.Context, req composer.CreateTreasuryRequest) (*dto.PreparedTransactionResponse, error) {
	return e.prepare(ctx, domain.ActionCreateYieldTreasury, func() (*composer.Prepared, error) {
		return e.composer.CreateYieldTreasury(ctx, req)
	})
}

func (e *executor) DepositYield(ctx context.Context, req composer.DepositYieldRequest) (*dto.PreparedTransactionResponse, error) {
	return e.prepare(ctx, domain.ActionDepositYield, func() (*composer.Prepared, error) {
		return e.composer.DepositYield(ctx, req)
	})
}

func (e *executor) ClaimYield(ctx context.Context, req composer.ClaimYieldRequest) (*dto.PreparedTransactionResponse, error) {
	return e.prepare(ctx, domain.ActionClaimYield, func() (*composer.Prepared, error) {
		return e.composer.ClaimYield(ctx, req)
	})
}

// prepare runs a composer call, journals the result and publishes the prepared event
func (e *executor) prepare(ctx context.Context, action domain.Action, build func() (*composer.Prepared, error)) (*dto.PreparedTransactionResponse, error) {
	start := e.clock.Now()

	prepared, err := build()
	if err != nil {
		metrics.RecordPrepared(string(action), domain.ErrorKind(err), e.clock.Since(start))
		return nil, apierrors.FromDomainError(err)
	}

	response, err := e.journal(ctx, prepared)
	if err != nil {
		metrics.RecordPrepared(string(action), outcomeJournalFailure, e.clock.Since(start))
		return nil, err
	}

	event := &domain.TransactionPreparedEvent{
		ID:             response.ID,
		Action:         prepared.Action,
		Actor:          prepared.Actor,
		Subject:        prepared.Subject,
		SkeletonDigest: response.SkeletonDigest,
		PreparedAt:     response.CreatedAt,
	}
	if err := e.publisher.PublishTransactionPrepared(ctx, event); err != nil {
		// The transaction is already journaled, the event is best effort
		logger.WarnCtx(ctx, "Failed to publish transaction prepared event",
			zap.Error(err),
			zap.String("id", event.ID),
			zap.String("action", string(action)))
		metrics.RecordPublishFailure(string(action))
	}

	metrics.RecordPrepared(string(action), domain.ErrorKind(nil), e.clock.Since(start))
	logger.InfoCtx(ctx, "Prepared transaction",
		zap.String("id", response.ID),
		zap.String("action", string(action)),
		zap.String("subject", response.Subject))

	return response, nil
}

// journal stores the prepared transaction under a new ULID
func (e *executor) journal(ctx context.Context, prepared *composer.Prepared) (*dto.PreparedTransactionResponse, error) {
	skeleton, err := e.json.Marshal(prepared.Skeleton)
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to encode skeleton", err.Error())
	}
	digest, err := e.digest(skeleton)
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to digest skeleton", err.Error())
	}

	datums := prepared.Datums
	if datums == nil {
		datums = map[string]string{}
	}
	datumsJSON, err := e.json.Marshal(datums)
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to encode datums", err.Error())
	}

	now := e.clock.Now().UTC()
	id, err := ulid.New(ulid.Timestamp(now), ulid.DefaultEntropy())
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to generate transaction id", err.Error())
	}

	record, err := e.store.CreatePreparedTransaction(ctx, store.CreatePreparedTransactionInput{
		ID:             id.String(),
		Action:         string(prepared.Action),
		Actor:          string(prepared.Actor),
		Subject:        prepared.Subject,
		TxCBOR:         prepared.Tx.CBOR,
		TxHash:         prepared.Tx.TxHash,
		Fee:            prepared.Tx.Fee,
		Skeleton:       datatypes.JSON(skeleton),
		Datums:         datatypes.JSON(datumsJSON),
		SkeletonDigest: digest,
		CreatedAt:      now,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to journal transaction: %v", err))
	}

	return &dto.PreparedTransactionResponse{
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
	}, nil
}

// digest returns the hex sha256 of the RFC 8785 canonical form of data
func (e *executor) digest(data []byte) (string, error) {
	canonical, err := e.jcs.Transform(data)
	if err != nil {
		return "", err
	}
	sum := sha256.Sum256(canonical)
	return hex.EncodeToString(sum[:]), nil
}

func (e *executor) GetTransaction(ctx context.Context, id string) (*dto.TransactionResponse, error) {
	if _, err := ulid.ParseStrict(id); err != nil {
		return nil, apierrors.NewBadRequestError("Invalid transaction id", err.Error())
	}

	record, err := e.store.GetPreparedTransaction(ctx, id)
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to get transaction: %v", err))
	}
	if record == nil {
		return nil, nil
	}
	logger.InfoCtx(ctx, "Journal read", zap.String("transaction_id", id), zap.String("action", string(record.Action)))

	response, err := dto.MapTransactionToDTO(record)
	if err != nil {
		return nil, apierrors.NewInternalError("Failed to decode journaled datums", err.Error())
	}
	return response, nil
}

func (e *executor) ListTransactions(ctx context.Context, query dto.ListTransactionsQuery) (*dto.TransactionListResponse, error) {
	records, total, err := e.store.ListPreparedTransactions(ctx, store.PreparedTransactionFilter{
		Actor:   query.Actor,
		Actions: query.Actions,
		Subject: query.Subject,
		Limit:   query.Limit,
		Offset:  query.Offset,
	})
	if err != nil {
		return nil, apierrors.NewDatabaseError(fmt.Sprintf("Failed to list transactions: %v", err))
	}

	items := make([]dto.TransactionResponse, 0, len(records))
	for _, record := range records {
		item, err := dto.MapTransactionToDTO(record)
		if err != nil {
			return nil, apierrors.NewInternalError("Failed to decode journaled datums", err.Error())
		}
		items = append(items, *item)
	}
	logger.InfoCtx(ctx, "Journal listed", zap.Int("returned", len(items)), zap.Uint64("total", total))

	return &dto.TransactionListResponse{
		Items:  items,
		Total:  total,
		Offset: query.Offset,
		Limit:  query.Limit,
	}, nil
}

func (e *executor) Ready(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return e.store.Ping(ctx)
}
