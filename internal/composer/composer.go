// Package composer assembles transaction skeletons for every protocol action. It reads the
// current on-chain datum of the entity being transitioned, applies the state transition
// rules, encodes datums and redeemers, and hands the skeleton to the ledger service for
// balancing. Nothing read from the ledger is cached between calls.
package composer

import (
	"context"
	"fmt"
	"math/big"

	"github.com/alitto/pond/v2"
	"go.uber.org/zap"

	"github.com/feral-file/propfi-txbuilder/internal/adapter"
	"github.com/feral-file/propfi-txbuilder/internal/domain"
	"github.com/feral-file/propfi-txbuilder/internal/ledger"
	"github.com/feral-file/propfi-txbuilder/internal/logger"
	"github.com/feral-file/propfi-txbuilder/internal/plutus"
	"github.com/feral-file/propfi-txbuilder/internal/registry"
	"github.com/feral-file/propfi-txbuilder/internal/rules"
	"github.com/feral-file/propfi-txbuilder/internal/value"
)

// Datum names used in Prepared.Datums
const (
	DatumReference = "reference"
	DatumProperty  = "property"
	DatumListing   = "listing"
	DatumSyndicate = "syndicate"
	DatumTreasury  = "treasury"
)

// Config holds the protocol constants the composer needs
type Config struct {
	Network     domain.Network
	Labels      rules.Labels
	Stablecoins []domain.Stablecoin
	// MinUserLovelace is attached to wallet and listing outputs
	MinUserLovelace int64
	// MinScriptLovelace is attached to syndicate and treasury state outputs
	MinScriptLovelace int64
	// FetchWorkers bounds concurrent ledger reads
	FetchWorkers int
	// FetchQueueSize bounds queued ledger reads, 0 means unbounded
	FetchQueueSize int
}

// Prepared is an unsigned transaction together with the skeleton it was built from
type Prepared struct {
	Action  domain.Action
	Actor   domain.PubKeyHash
	Subject string
	Tx      ledger.UnsignedTransaction
	// Skeleton is what was handed to the ledger service
	Skeleton ledger.Skeleton
	// Datums are the hex encoded datums written by the transaction, keyed by name
	Datums map[string]string
}

// Composer builds unsigned transactions for protocol actions
//
//go:generate mockgen -source=composer.go -destination=../mocks/composer.go -package=mocks -mock_names=Composer=MockComposer
type Composer interface {
	// Fractionalize mints the CIP-68 token pair of a property
	Fractionalize(ctx context.Context, req FractionalizeRequest) (*Prepared, error)

	// ListForSale locks fractions at the marketplace for a fixed total price
	ListForSale(ctx context.Context, req ListRequest) (*Prepared, error)

	// Buy settles a listing in full
	Buy(ctx context.Context, req BuyRequest) (*Prepared, error)

	// CancelListing returns listed fractions to the seller
	CancelListing(ctx context.Context, req CancelRequest) (*Prepared, error)

	// CreateSyndicate opens a fundraising escrow
	CreateSyndicate(ctx context.Context, req CreateSyndicateRequest) (*Prepared, error)

	// DepositToSyndicate adds an investor contribution to a fundraising escrow
	DepositToSyndicate(ctx context.Context, req SyndicateDepositRequest) (*Prepared, error)

	// CreateYieldTreasury opens an empty yield treasury for a property
	CreateYieldTreasury(ctx context.Context, req CreateTreasuryRequest) (*Prepared, error)

	// DepositYield adds rental income to a treasury
	DepositYield(ctx context.Context, req DepositYieldRequest) (*Prepared, error)

	// ClaimYield pays a holder their proportional share of a treasury
	ClaimYield(ctx context.Context, req ClaimYieldRequest) (*Prepared, error)

	// Close stops the fetch workers
	Close()
}

type fetchResult struct {
	utxos []ledger.UTxO
	err   error
}

type composer struct {
	cfg       Config
	contracts *registry.Lazy
	ledger    ledger.Service
	clock     adapter.Clock
	pool      pond.ResultPool[fetchResult]
}

// New creates a Composer
func New(cfg Config, contracts *registry.Lazy, ledgerService ledger.Service, clock adapter.Clock) Composer {
	workers := cfg.FetchWorkers
	if workers <= 0 {
		workers = 4
	}
	var opts []pond.Option
	if cfg.FetchQueueSize > 0 {
		opts = append(opts, pond.WithQueueSize(cfg.FetchQueueSize))
	}

	return &composer{
		cfg:       cfg,
		contracts: contracts,
		ledger:    ledgerService,
		clock:     clock,
		pool:      pond.NewResultPool[fetchResult](workers, opts...),
	}
}

func (c *composer) Close() {
	c.pool.StopAndWait()
}

// scripts loads the contract set and returns the requested validators in order
func (c *composer) scripts(roles ...registry.Role) ([]registry.Script, error) {
	contracts, err := c.contracts.Contracts()
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrContractUnavailable, err)
	}
	if err := contracts.Require(roles...); err != nil {
		return nil, err
	}

	out := make([]registry.Script, 0, len(roles))
	for _, role := range roles {
		s, err := contracts.Script(role)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

// caller resolves the payment key hash of a wallet address
func (c *composer) caller(ctx context.Context, walletAddress string) (domain.PubKeyHash, error) {
	if walletAddress == "" {
		return "", domain.NewMalformedRecordError("wallet address", "missing")
	}
	return c.ledger.PaymentKeyHash(ctx, walletAddress)
}

func (c *composer) scriptAddress(ctx context.Context, script registry.Script) (string, error) {
	return c.ledger.ResolveAddress(ctx, ledger.Destination{Network: c.cfg.Network, ScriptHash: script.Hash})
}

func (c *composer) keyAddress(ctx context.Context, pkh domain.PubKeyHash) (string, error) {
	return c.ledger.ResolveAddress(ctx, ledger.Destination{Network: c.cfg.Network, PubKeyHash: pkh})
}

// fetch lists the unspent outputs of every address concurrently, results in input order
func (c *composer) fetch(ctx context.Context, addresses ...string) ([][]ledger.UTxO, error) {
	tasks := make([]pond.Result[fetchResult], 0, len(addresses))
	for _, address := range addresses {
		tasks = append(tasks, c.pool.Submit(func() fetchResult {
			utxos, err := c.ledger.FetchUnspentOutputs(ctx, address)
			return fetchResult{utxos: utxos, err: err}
		}))
	}

	out := make([][]ledger.UTxO, len(addresses))
	var firstErr error
	for i, task := range tasks {
		res, err := task.Wait()
		if err == nil {
			err = res.err
		}
		if err != nil {
			if firstErr == nil {
				firstErr = err
			}
			continue
		}
		out[i] = res.utxos
	}
	if firstErr != nil {
		return nil, firstErr
	}
	return out, nil
}

// submit hands the skeleton to the ledger service
func (c *composer) submit(ctx context.Context, prepared *Prepared) (*Prepared, error) {
	tx, err := c.ledger.BuildUnsignedTransaction(ctx, prepared.Skeleton)
	if err != nil {
		return nil, err
	}
	prepared.Tx = tx

	logger.DebugCtx(ctx, "Composed transaction",
		zap.String("action", string(prepared.Action)),
		zap.String("subject", prepared.Subject),
		zap.Int("script_inputs", len(prepared.Skeleton.ScriptInputs)),
		zap.Int("outputs", len(prepared.Skeleton.Outputs)),
		zap.Int("mints", len(prepared.Skeleton.Mints)))

	return prepared, nil
}

func (c *composer) skeleton(walletAddress string, wallet []ledger.UTxO, signers ...domain.PubKeyHash) ledger.Skeleton {
	return ledger.Skeleton{
		Network:         c.cfg.Network,
		ChangeAddress:   walletAddress,
		SelectFrom:      wallet,
		ScriptInputs:    []ledger.ScriptInput{},
		Inputs:          []domain.OutputRef{},
		Mints:           []ledger.Mint{},
		Outputs:         []ledger.Output{},
		RequiredSigners: signers,
	}
}

// userOutput tops the value up to the user minimum coin
func (c *composer) userOutput(address string, v value.Value, datum string) ledger.Output {
	return output(address, withMinLovelace(v, c.cfg.MinUserLovelace), datum)
}

// scriptOutput tops the value up to the script state minimum coin
func (c *composer) scriptOutput(address string, v value.Value, datum string) ledger.Output {
	return output(address, withMinLovelace(v, c.cfg.MinScriptLovelace), datum)
}

func output(address string, v value.Value, datum string) ledger.Output {
	return ledger.Output{
		Address:     address,
		Amount:      ledger.AmountOf(v),
		InlineDatum: datum,
	}
}

func withMinLovelace(v value.Value, minimum int64) value.Value {
	have := v.Quantity(domain.Lovelace)
	need := big.NewInt(minimum)
	if have.Cmp(need) >= 0 {
		return v
	}
	return value.Add(v, value.SingletonBig(domain.Lovelace, need.Sub(need, have)))
}

func toLedgerScript(s registry.Script) ledger.Script {
	return ledger.Script{
		Hash:    s.Hash,
		Code:    s.Code,
		Version: s.PlutusVersion,
	}
}

// spend consumes a script output, the datum is inlined in it
func spend(utxo ledger.UTxO, script registry.Script, redeemer string) ledger.ScriptInput {
	return ledger.ScriptInput{
		OutRef:             utxo.Input,
		Script:             toLedgerScript(script),
		Redeemer:           redeemer,
		InlineDatumPresent: true,
	}
}

// locate finds a referenced output at a script address
func locate(utxos []ledger.UTxO, ref domain.OutputRef, what string) (ledger.UTxO, error) {
	utxo, ok := ledger.Find(utxos, ref)
	if !ok {
		return ledger.UTxO{}, fmt.Errorf("%w: %s %s", domain.ErrResourceNotFound, what, ref)
	}
	return utxo, nil
}

func requireOutputRef(field string, ref domain.OutputRef) error {
	if !ref.Valid() {
		return domain.NewMalformedRecordError(field, "invalid output reference "+ref.String())
	}
	return nil
}

// inlineDatum decodes the inline datum of an output
func inlineDatum(utxo ledger.UTxO) (plutus.Data, error) {
	if utxo.InlineDatum == "" {
		return nil, domain.NewMalformedRecordError("inline datum", "missing on "+utxo.Input.String())
	}
	return plutus.UnmarshalHex(utxo.InlineDatum)
}

func encodeHex(d plutus.Data, err error) (string, error) {
	if err != nil {
		return "", err
	}
	return plutus.MarshalHex(d)
}

func redeemerHex(r plutus.Redeemer) (string, error) {
	return encodeHex(plutus.EncodeRedeemer(r))
}

// requireHolding checks that a script output carries at least the value its datum accounts for
func requireHolding(utxo ledger.UTxO, expected value.Value) (value.Value, error) {
	held, err := utxo.Value()
	if err != nil {
		return value.Value{}, err
	}
	if _, err := value.Subtract(held, expected); err != nil {
		return value.Value{}, fmt.Errorf("%w (output %s)", err, utxo.Input)
	}
	return held, nil
}
