package dto

import (
	"fmt"
	"strings"
	"time"

	"github.com/feral-file/propfi-txbuilder/internal/api/shared/constants"
	apierrors "github.com/feral-file/propfi-txbuilder/internal/api/shared/errors"
	"github.com/feral-file/propfi-txbuilder/internal/composer"
	"github.com/feral-file/propfi-txbuilder/internal/domain"
)

// validateWalletAddress checks the wallet address is present and bounded
func validateWalletAddress(address string) error {
	if strings.TrimSpace(address) == "" {
		return apierrors.NewValidationError("wallet_address is required")
	}
	if len(address) > constants.MAX_WALLET_ADDRESS_LENGTH {
		return apierrors.NewValidationError(fmt.Sprintf("wallet_address exceeds %d characters", constants.MAX_WALLET_ADDRESS_LENGTH))
	}
	return nil
}

// validateOutputRef checks an output reference names a 32-byte transaction hash
func validateOutputRef(field string, ref domain.OutputRef) error {
	if ref.TxHash == "" {
		return apierrors.NewValidationError(fmt.Sprintf("%s.tx_hash is required", field))
	}
	if !ref.Valid() {
		return apierrors.NewValidationError(fmt.Sprintf("invalid %s.tx_hash: %s", field, ref.TxHash))
	}
	return nil
}

// validateToken checks an asset reference names a native token
func validateToken(field string, asset domain.AssetRef) error {
	if asset.IsLovelace() {
		return apierrors.NewValidationError(fmt.Sprintf("%s is required", field))
	}
	if err := asset.Validate(); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("invalid %s: %s", field, err.Error()))
	}
	return nil
}

// FractionalizeRequest represents the request body for fractionalizing a property
type FractionalizeRequest struct {
	WalletAddress  string                  `json:"wallet_address"`
	PropertyID     string                  `json:"property_id"`
	Metadata       domain.PropertyMetadata `json:"metadata"`
	TotalFractions int64                   `json:"total_fractions"`
}

// Validate validates the request body
func (r *FractionalizeRequest) Validate() error {
	if err := validateWalletAddress(r.WalletAddress); err != nil {
		return err
	}

	// Validate: property id must be provided
	if strings.TrimSpace(r.PropertyID) == "" {
		return apierrors.NewValidationError("property_id is required")
	}
	if len(r.PropertyID) > constants.MAX_PROPERTY_ID_LENGTH {
		return apierrors.NewValidationError(fmt.Sprintf("property_id exceeds %d characters", constants.MAX_PROPERTY_ID_LENGTH))
	}

	if strings.TrimSpace(r.Metadata.Name) == "" {
		return apierrors.NewValidationError("metadata.name is required")
	}

	return nil
}

// ToComposer converts the request body into a composer request
func (r *FractionalizeRequest) ToComposer() composer.FractionalizeRequest {
	return composer.FractionalizeRequest{
		WalletAddress:  r.WalletAddress,
		PropertyID:     r.PropertyID,
		Metadata:       r.Metadata,
		TotalFractions: r.TotalFractions,
	}
}

// ListRequest represents the request body for listing fractions for sale
type ListRequest struct {
	WalletAddress    string          `json:"wallet_address"`
	FractionAsset    domain.AssetRef `json:"fraction_asset"`
	Amount           int64           `json:"amount"`
	PricePerFraction int64           `json:"price_per_fraction"`
	Stablecoin       string          `json:"stablecoin"`
}

// Validate validates the request body
func (r *ListRequest) Validate() error {
	if err := validateWalletAddress(r.WalletAddress); err != nil {
		return err
	}
	if err := validateToken("fraction_asset", r.FractionAsset); err != nil {
		return err
	}
	if r.Stablecoin == "" {
		return apierrors.NewValidationError("stablecoin is required")
	}
	return nil
}

// ToComposer converts the request body into a composer request
func (r *ListRequest) ToComposer() composer.ListRequest {
	return composer.ListRequest{
		WalletAddress:    r.WalletAddress,
		FractionAsset:    r.FractionAsset.Normalize(),
		Amount:           r.Amount,
		PricePerFraction: r.PricePerFraction,
		Stablecoin:       r.Stablecoin,
	}
}

// ListingActionRequest represents the request body for buying or cancelling a listing
type ListingActionRequest struct {
	WalletAddress string           `json:"wallet_address"`
	Listing       domain.OutputRef `json:"listing"`
}

// Validate validates the request body
func (r *ListingActionRequest) Validate() error {
	if err := validateWalletAddress(r.WalletAddress); err != nil {
		return err
	}
	return validateOutputRef("listing", r.Listing)
}

// ToBuy converts the request body into a composer buy request
func (r *ListingActionRequest) ToBuy() composer.BuyRequest {
	return composer.BuyRequest{
		WalletAddress: r.WalletAddress,
		Listing:       r.Listing,
	}
}

// ToCancel converts the request body into a composer cancel request
func (r *ListingActionRequest) ToCancel() composer.CancelRequest {
	return composer.CancelRequest{
		WalletAddress: r.WalletAddress,
		Listing:       r.Listing,
	}
}

// CreateSyndicateRequest represents the request body for opening a syndicate escrow
type CreateSyndicateRequest struct {
	WalletAddress string                  `json:"wallet_address"`
	Target        int64                   `json:"target"`
	Deadline      time.Time               `json:"deadline"`
	Seller        domain.PubKeyHash       `json:"seller"`
	Stablecoin    string                  `json:"stablecoin"`
	FractionAsset domain.AssetRef         `json:"fraction_asset"`
	GovernanceDoc domain.Hash32           `json:"governance_doc"`
	Limits        domain.InvestmentLimits `json:"limits"`
}

// Validate validates the request body
func (r *CreateSyndicateRequest) Validate() error {
	if err := validateWalletAddress(r.WalletAddress); err != nil {
		return err
	}
	if r.Deadline.IsZero() {
		return apierrors.NewValidationError("deadline is required")
	}
	if _, err := r.Seller.Bytes(); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("invalid seller: %s", err.Error()))
	}
	if r.Stablecoin == "" {
		return apierrors.NewValidationError("stablecoin is required")
	}
	if err := validateToken("fraction_asset", r.FractionAsset); err != nil {
		return err
	}
	if _, err := r.GovernanceDoc.Bytes(); err != nil {
		return apierrors.NewValidationError(fmt.Sprintf("invalid governance_doc: %s", err.Error()))
	}
	return nil
}

// ToComposer converts the request body into a composer request
func (r *CreateSyndicateRequest) ToComposer() composer.CreateSyndicateRequest {
	return composer.CreateSyndicateRequest{
		WalletAddress: r.WalletAddress,
		Target:        r.Target,
		Deadline:      r.Deadline,
		Seller:        domain.PubKeyHash(strings.ToLower(string(r.Seller))),
		Stablecoin:    r.Stablecoin,
		FractionAsset: r.FractionAsset.Normalize(),
		GovernanceDoc: domain.Hash32(strings.ToLower(string(r.GovernanceDoc))),
		Limits:        r.Limits,
	}
}

// SyndicateDepositRequest represents the request body for depositing into a syndicate
type SyndicateDepositRequest struct {
	WalletAddress string           `json:"wallet_address"`
	Syndicate     domain.OutputRef `json:"syndicate"`
	Amount        int64            `json:"amount"`
}

// Validate validates the request body
func (r *SyndicateDepositRequest) Validate() error {
	if err := validateWalletAddress(r.WalletAddress); err != nil {
		return err
	}
	return validateOutputRef("syndicate", r.Syndicate)
}

// ToComposer converts the request body into a composer request
func (r *SyndicateDepositRequest) ToComposer() composer.SyndicateDepositRequest {
	return composer.SyndicateDepositRequest{
		WalletAddress: r.WalletAddress,
		Syndicate:     r.Syndicate,
		Amount:        r.Amount,
	}
}

// CreateTreasuryRequest represents the request body for opening a yield treasury
type CreateTreasuryRequest struct {
	WalletAddress  string          `json:"wallet_address"`
	PropertyToken  domain.AssetRef `json:"property_token"`
	TotalFractions int64           `json:"total_fractions"`
	Stablecoin     string          `json:"stablecoin"`
}

// Validate validates the request body
func (r *CreateTreasuryRequest) Validate() error {
	if err := validateWalletAddress(r.WalletAddress); err != nil {
		return err
	}
	if err := validateToken("property_token", r.PropertyToken); err != nil {
		return err
	}
	if r.Stablecoin == "" {
		return apierrors.NewValidationError("stablecoin is required")
	}
	return nil
}

// ToComposer converts the request body into a composer request
func (r *CreateTreasuryRequest) ToComposer() composer.CreateTreasuryRequest {
	return composer.CreateTreasuryRequest{
		WalletAddress:  r.WalletAddress,
		PropertyToken:  r.PropertyToken.Normalize(),
		TotalFractions: r.TotalFractions,
		Stablecoin:     r.Stablecoin,
	}
}

// DepositYieldRequest represents the request body for depositing rental income
type DepositYieldRequest struct {
	WalletAddress string           `json:"wallet_address"`
	Treasury      domain.OutputRef `json:"treasury"`
	Amount        int64            `json:"amount"`
}

// Validate validates the request body
func (r *DepositYieldRequest) Validate() error {
	if err := validateWalletAddress(r.WalletAddress); err != nil {
		return err
	}
	return validateOutputRef("treasury", r.Treasury)
}

// ToComposer converts the request body into a composer request
func (r *DepositYieldRequest) ToComposer() composer.DepositYieldRequest {
	return composer.DepositYieldRequest{
		WalletAddress: r.WalletAddress,
		Treasury:      r.Treasury,
		Amount:        r.Amount,
	}
}

// ClaimYieldRequest represents the request body for claiming a yield share
type ClaimYieldRequest struct {
	WalletAddress  string           `json:"wallet_address"`
	Treasury       domain.OutputRef `json:"treasury"`
	FractionAmount int64            `json:"fraction_amount"`
}

// Validate validates the request body
func (r *ClaimYieldRequest) Validate() error {
	if err := validateWalletAddress(r.WalletAddress); err != nil {
		return err
	}
	return validateOutputRef("treasury", r.Treasury)
}

// ToComposer converts the request body into a composer request
func (r *ClaimYieldRequest) ToComposer() composer.ClaimYieldRequest {
	return composer.ClaimYieldRequest{
		WalletAddress:  r.WalletAddress,
		Treasury:       r.Treasury,
		FractionAmount: r.FractionAmount,
	}
}

// ListTransactionsQuery represents the query parameters for listing journaled transactions
type ListTransactionsQuery struct {
	Actor   string   `form:"actor"`
	Actions []string `form:"action"`
	Subject string   `form:"subject"`
	Limit   int      `form:"limit"`
	Offset  uint64   `form:"offset"`
}

// Validate validates the query and applies defaults
func (q *ListTransactionsQuery) Validate() error {
	for _, action := range q.Actions {
		if !domain.IsValidAction(domain.Action(action)) {
			return apierrors.NewValidationError(fmt.Sprintf("invalid action: %s", action))
		}
	}

	if q.Limit < 0 {
		return apierrors.NewValidationError("limit must not be negative")
	}
	if q.Limit == 0 {
		q.Limit = constants.DEFAULT_TRANSACTIONS_LIMIT
	}
	if q.Limit > constants.MAX_PAGE_SIZE {
		return apierrors.NewValidationError(fmt.Sprintf("limit must not exceed %d", constants.MAX_PAGE_SIZE))
	}

	return nil
}
