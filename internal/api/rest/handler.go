package rest

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/feral-file/propfi-txbuilder/internal/api/shared/dto"
	"github.com/feral-file/propfi-txbuilder/internal/api/shared/executor"
	"github.com/feral-file/propfi-txbuilder/internal/logger"
)

const serviceName = "propfi-txbuilder-api"

// Handler defines the interface for REST API handlers
// This interface allows for easy mocking and testing
type Handler interface {
	// Fractionalize prepares the mint of a property's token pair
	// POST /api/v1/properties/fractionalize
	Fractionalize(c *gin.Context)

	// ListForSale prepares a marketplace listing
	// POST /api/v1/listings
	ListForSale(c *gin.Context)

	// Buy prepares the settlement of a listing
	// POST /api/v1/listings/buy
	Buy(c *gin.Context)

	// CancelListing prepares the withdrawal of a listing
	// POST /api/v1/listings/cancel
	CancelListing(c *gin.Context)

	// CreateSyndicate prepares a fundraising escrow
	// POST /api/v1/syndicates
	CreateSyndicate(c *gin.Context)

	// DepositToSyndicate prepares a syndicate contribution
	// POST /api/v1/syndicates/deposit
	DepositToSyndicate(c *gin.Context)

	// CreateYieldTreasury prepares a yield treasury
	// POST /api/v1/treasuries
	CreateYieldTreasury(c *gin.Context)

	// DepositYield prepares a rental income deposit
	// POST /api/v1/treasuries/deposit
	DepositYield(c *gin.Context)

	// ClaimYield prepares a yield claim
	// POST /api/v1/treasuries/claim
	ClaimYield(c *gin.Context)

	// GetTransaction retrieves a journaled transaction (requires authentication)
	// GET /api/v1/transactions/:id
	GetTransaction(c *gin.Context)

	// ListTransactions lists journaled transactions (requires authentication)
	// GET /api/v1/transactions?actor=<key hash>&action=<action>&subject=<subject>&limit=<limit>&offset=<offset>
	ListTransactions(c *gin.Context)

	// HealthCheck returns the health status of the API
	// GET /health
	HealthCheck(c *gin.Context)
}

// handler implements the Handler interface
type handler struct {
	debug    bool
	executor executor.Executor
}

// NewHandler creates a new REST API handler using the shared executor
func NewHandler(debug bool, exec executor.Executor) Handler {
	return &handler{
		debug:    debug,
		executor: exec,
	}
}

// validatable is a request body that checks itself
type validatable interface {
	Validate() error
}

// bindRequest decodes and validates a JSON body, responding on failure
func bindRequest(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid request body: %v", err))
		return false
	}

	// Validate request body
	if err := req.Validate(); err != nil {
		respondError(c, err)
		return false
	}

	return true
}

// respondPrepared writes a prepared transaction or the error that prevented it
func respondPrepared(c *gin.Context, response *dto.PreparedTransactionResponse, err error) {
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, response)
}

func (h *handler) Fractionalize(c *gin.Context) {
	var req dto.FractionalizeRequest
	if !bindRequest(c, &req) {
		return
	}

	response, err := h.executor.Fractionalize(c.Request.Context(), req.ToComposer())
	respondPrepared(c, response, err)
}

func (h *handler) ListForSale(c *gin.Context) {
	var req dto.ListRequest
	if !bindRequest(c, &req) {
		return
	}

	response, err := h.executor.ListForSale(c.Request.Context(), req.ToComposer())
	respondPrepared(c, response, err)
}

func (h *handler) Buy(c *gin.Context) {
	var req dto.ListingActionRequest
	if !bindRequest(c, &req) {
		return
	}

	response, err := h.executor.Buy(c.Request.Context(), req.ToBuy())
	respondPrepared(c, response, err)
}

func (h *handler) CancelListing(c *gin.Context) {
	var req dto.ListingActionRequest
	if !bindRequest(c, &req) {
		return
	}

	response, err := h.executor.CancelListing(c.Request.Context(), req.ToCancel())
	respondPrepared(c, response, err)
}

func (h *handler) CreateSyndicate(c *gin.Context) {
	var req dto.CreateSyndicateRequest
	if !bindRequest(c, &req) {
		return
	}

	response, err := h.executor.CreateSyndicate(c.Request.Context(), req.ToComposer())
	respondPrepared(c, response, err)
}

func (h *handler) DepositToSyndicate(c *gin.Context) {
	var req dto.SyndicateDepositRequest
	if !bindRequest(c, &req) {
		return
	}

	response, err := h.executor.DepositToSyndicate(c.Request.Context(), req.ToComposer())
	respondPrepared(c, response, err)
}

func (h *handler) CreateYieldTreasury(c *gin.Context) {
	var req dto.CreateTreasuryRequest
	if !bindRequest(c, &req) {
		return
	}

	response, err := h.executor.CreateYieldTreasury(c.Request.Context(), req.ToComposer())
	respondPrepared(c, response, err)
}

func (h *handler) DepositYield(c *gin.Context) {
	var req dto.DepositYieldRequest
	if !bindRequest(c, &req) {
		return
	}

	response, err := h.executor.DepositYield(c.Request.Context(), req.ToComposer())
	respondPrepared(c, response, err)
}

func (h *handler) ClaimYield(c *gin.Context) {
	var req dto.ClaimYieldRequest
	if !bindRequest(c, &req) {
		return
	}

	response, err := h.executor.ClaimYield(c.Request.Context(), req.ToComposer())
	respondPrepared(c, response, err)
}

// GetTransaction retrieves a journaled transaction by its id
func (h *handler) GetTransaction(c *gin.Context) {
	id := c.Param("id")
	if id == "" {
		respondBadRequest(c, "Transaction id is required")
		return
	}

	response, err := h.executor.GetTransaction(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}

	if response == nil {
		respondNotFound(c, "Transaction not found")
		return
	}

	c.JSON(http.StatusOK, response)
}

// ListTransactions lists journaled transactions with optional filters
func (h *handler) ListTransactions(c *gin.Context) {
	var query dto.ListTransactionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondValidationError(c, fmt.Sprintf("Invalid query parameters: %v", err))
		return
	}

	if err := query.Validate(); err != nil {
		respondError(c, err)
		return
	}

	response, err := h.executor.ListTransactions(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, response)
}

// HealthCheck returns the health status of the API
func (h *handler) HealthCheck(c *gin.Context) {
	if err := h.executor.Ready(c.Request.Context()); err != nil {
		logger.WarnCtx(c.Request.Context(), "Health check failed", zap.Error(err))

		response := dto.HealthResponse{Status: "unavailable", Service: serviceName}
		if h.debug {
			response.Details = err.Error()
		}
		c.JSON(http.StatusServiceUnavailable, response)
		return
	}

	c.JSON(http.StatusOK, dto.HealthResponse{
		Status:  "ok",
		Service: serviceName,
	})
}
