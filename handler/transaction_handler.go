package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"farm-ledger-api/common"
	"farm-ledger-api/model"
	"farm-ledger-api/service"
)

// TransactionHandler holds dependencies for ledger-related handlers.
type TransactionHandler struct {
	service *service.LedgerService
}

// NewTransactionHandler creates a new TransactionHandler with its dependencies.
func NewTransactionHandler(s *service.LedgerService) *TransactionHandler {
	return &TransactionHandler{service: s}
}

// mapLedgerError translates the service error taxonomy into an HTTP error
// envelope with a machine-readable kind.
func mapLedgerError(err error) *common.AppError {
	switch {
	case errors.Is(err, service.ErrUnsupportedOperation):
		return common.NewAppError(http.StatusBadRequest, common.KindUnsupportedOperation, err.Error(), err)
	case errors.Is(err, service.ErrInvalidAmount):
		return common.NewAppError(http.StatusBadRequest, common.KindInvalidAmount, err.Error(), err)
	case errors.Is(err, service.ErrInvalidDestination):
		return common.NewAppError(http.StatusBadRequest, common.KindInvalidDestination, err.Error(), err)
	case errors.Is(err, service.ErrInsufficientFunds):
		return common.NewAppError(http.StatusBadRequest, common.KindInsufficientFunds, err.Error(), err)
	case errors.Is(err, service.ErrAccountNotFound), errors.Is(err, service.ErrDestinationNotFound):
		return common.NewAppError(http.StatusNotFound, common.KindNotFound, err.Error(), err)
	default:
		return common.NewAppError(http.StatusInternalServerError, common.KindPersistence, "Could not process transaction", err)
	}
}

func accountIDFromPath(r *http.Request) (int, *common.AppError) {
	accountID, err := strconv.Atoi(r.PathValue("accountId"))
	if err != nil {
		return 0, common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid account ID in URL path", err)
	}
	return accountID, nil
}

// dateRangeFromQuery pulls the optional from/to date bounds off the query
// string. Values are passed through to the repository as date literals.
func dateRangeFromQuery(r *http.Request) (from, to *string) {
	if v := r.URL.Query().Get("from"); v != "" {
		from = &v
	}
	if v := r.URL.Query().Get("to"); v != "" {
		to = &v
	}
	return from, to
}

// CreateTransaction godoc
// @Summary      Apply a financial movement to a bank account
// @Description  Processes a deposit, withdrawal, transfer, policy disbursement or tax payment against the account, recording one ledger entry per affected account.
// @Tags         transactions
// @Accept       json
// @Produce      json
// @Param        accountId path int true "The ID of the source bank account"
// @Param        transaction body model.ApplyTransactionRequest true "Details of the movement"
// @Success      201  {object}  model.TransactionResult
// @Failure      400  {object}  common.AppError "Invalid amount, unsupported type, invalid destination or insufficient funds"
// @Failure      404  {object}  common.AppError "Source or destination account not found"
// @Failure      500  {object}  common.AppError "Internal server error while processing the transaction"
// @Router       /bank/accounts/{accountId}/transactions [post]
func (h *TransactionHandler) CreateTransaction(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	var req model.ApplyTransactionRequest
	if appErr := common.ValidateAndDecode(r, &req); appErr != nil {
		return appErr
	}

	result, err := h.service.Apply(r.Context(), accountID, req)
	if err != nil {
		return mapLedgerError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(result)
	return nil
}

// ListTransactions godoc
// @Summary      List a bank account's ledger entries
// @Description  Retrieves the transaction history for the account, newest first, optionally bounded by from/to dates.
// @Tags         transactions
// @Produce      json
// @Param        accountId path int true "The ID of the bank account"
// @Param        from query string false "Earliest date to include (YYYY-MM-DD)"
// @Param        to query string false "Latest date to include (YYYY-MM-DD)"
// @Success      200  {array}   model.LedgerEntry
// @Failure      404  {object}  common.AppError "Account not found"
// @Failure      500  {object}  common.AppError "Internal server error while retrieving transactions"
// @Router       /bank/accounts/{accountId}/transactions [get]
func (h *TransactionHandler) ListTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	from, to := dateRangeFromQuery(r)
	entries, err := h.service.ListEntries(r.Context(), accountID, from, to)
	if err != nil {
		return mapLedgerError(err)
	}
	if entries == nil {
		entries = []*model.LedgerEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(entries)
	return nil
}

// GetSummary godoc
// @Summary      Summarize a bank account's ledger
// @Description  Aggregates the account's successful entries per transaction type.
// @Tags         transactions
// @Produce      json
// @Param        accountId path int true "The ID of the bank account"
// @Success      200  {object}  model.AccountSummary
// @Failure      404  {object}  common.AppError "Account not found"
// @Failure      500  {object}  common.AppError "Internal server error while summarizing the ledger"
// @Router       /bank/accounts/{accountId}/transactions/summary [get]
func (h *TransactionHandler) GetSummary(w http.ResponseWriter, r *http.Request) *common.AppError {
	accountID, appErr := accountIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	summary, err := h.service.Summarize(r.Context(), accountID)
	if err != nil {
		return mapLedgerError(err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(summary)
	return nil
}

// ListFarmerTransactions godoc
// @Summary      List ledger entries across all of a farmer's accounts
// @Description  Retrieves the combined transaction history for every account the farmer owns, newest first.
// @Tags         transactions
// @Produce      json
// @Param        farmerId path int true "The ID of the farmer"
// @Param        from query string false "Earliest date to include (YYYY-MM-DD)"
// @Param        to query string false "Latest date to include (YYYY-MM-DD)"
// @Success      200  {array}   model.LedgerEntry
// @Failure      500  {object}  common.AppError "Internal server error while retrieving transactions"
// @Router       /farmers/{farmerId}/bank/transactions [get]
func (h *TransactionHandler) ListFarmerTransactions(w http.ResponseWriter, r *http.Request) *common.AppError {
	farmerID, err := strconv.Atoi(r.PathValue("farmerId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid farmer ID in URL path", err)
	}

	from, to := dateRangeFromQuery(r)
	entries, svcErr := h.service.ListEntriesForFarmer(r.Context(), farmerID, from, to)
	if svcErr != nil {
		return mapLedgerError(svcErr)
	}
	if entries == nil {
		entries = []*model.LedgerEntry{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(entries)
	return nil
}
