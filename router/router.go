package router

import (
	"net/http"

	"farm-ledger-api/handler"
)

func NewRouter(accountHandler *handler.AccountHandler, transactionHandler *handler.TransactionHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HealthCheck)

	mux.Handle("POST /bank/accounts/{accountId}/transactions", handler.ErrorHandlingMiddleware(transactionHandler.CreateTransaction))
	mux.Handle("GET /bank/accounts/{accountId}/transactions", handler.ErrorHandlingMiddleware(transactionHandler.ListTransactions))
	mux.Handle("GET /bank/accounts/{accountId}/transactions/summary", handler.ErrorHandlingMiddleware(transactionHandler.GetSummary))

	mux.Handle("GET /farmers/{farmerId}/bank", handler.ErrorHandlingMiddleware(accountHandler.ListAccounts))
	mux.Handle("GET /farmers/{farmerId}/bank/primary", handler.ErrorHandlingMiddleware(accountHandler.GetPrimaryAccount))
	mux.Handle("PUT /farmers/{farmerId}/bank/{accountId}/set-primary", handler.ErrorHandlingMiddleware(accountHandler.SetPrimaryAccount))
	mux.Handle("GET /farmers/{farmerId}/bank/transactions", handler.ErrorHandlingMiddleware(transactionHandler.ListFarmerTransactions))

	return handler.RequestLoggingMiddleware(mux)
}
