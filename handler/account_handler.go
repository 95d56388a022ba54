package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"farm-ledger-api/common"
	"farm-ledger-api/logger"
	"farm-ledger-api/model"
	"farm-ledger-api/service"

	"github.com/sirupsen/logrus"
)

type AccountHandler struct {
	service *service.AccountService
}

func NewAccountHandler(service *service.AccountService) *AccountHandler {
	return &AccountHandler{service: service}
}

func farmerIDFromPath(r *http.Request) (int, *common.AppError) {
	farmerID, err := strconv.Atoi(r.PathValue("farmerId"))
	if err != nil {
		return 0, common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid farmer ID in URL path", err)
	}
	return farmerID, nil
}

// ListAccounts godoc
// @Summary      List a farmer's bank accounts
// @Tags         accounts
// @Produce      json
// @Param        farmerId path int true "The ID of the farmer"
// @Success      200  {array}   model.Account
// @Failure      500  {object}  common.AppError "Internal server error while retrieving accounts"
// @Router       /farmers/{farmerId}/bank [get]
func (h *AccountHandler) ListAccounts(w http.ResponseWriter, r *http.Request) *common.AppError {
	farmerID, appErr := farmerIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	log := logger.Log.WithField("farmer_id", farmerID)
	log.Info("List accounts request received")

	accounts, err := h.service.ListAccountsForFarmer(r.Context(), farmerID)
	if err != nil {
		return common.NewAppError(http.StatusInternalServerError, common.KindPersistence, "Could not retrieve accounts", err)
	}
	if accounts == nil {
		accounts = []*model.Account{}
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(accounts)
	return nil
}

// GetPrimaryAccount godoc
// @Summary      Get the farmer's primary bank account
// @Tags         accounts
// @Produce      json
// @Param        farmerId path int true "The ID of the farmer"
// @Success      200  {object}  model.Account
// @Failure      404  {object}  common.AppError "Primary bank account not found"
// @Router       /farmers/{farmerId}/bank/primary [get]
func (h *AccountHandler) GetPrimaryAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	farmerID, appErr := farmerIDFromPath(r)
	if appErr != nil {
		return appErr
	}

	account, err := h.service.GetPrimaryAccount(r.Context(), farmerID)
	if err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return common.NewAppError(http.StatusNotFound, common.KindNotFound, "Primary bank account not found", err)
		}
		return common.NewAppError(http.StatusInternalServerError, common.KindPersistence, "Could not retrieve primary account", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(account)
	return nil
}

// SetPrimaryAccount godoc
// @Summary      Make an account the farmer's primary account
// @Description  Clears the primary flag on every account the farmer owns, then sets it on the given account. At most one account per farmer is primary at any time.
// @Tags         accounts
// @Produce      json
// @Param        farmerId path int true "The ID of the farmer"
// @Param        accountId path int true "The ID of the account to promote"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  common.AppError "Account does not exist or does not belong to the farmer"
// @Failure      500  {object}  common.AppError "Internal server error while reassigning the primary account"
// @Router       /farmers/{farmerId}/bank/{accountId}/set-primary [put]
func (h *AccountHandler) SetPrimaryAccount(w http.ResponseWriter, r *http.Request) *common.AppError {
	farmerID, appErr := farmerIDFromPath(r)
	if appErr != nil {
		return appErr
	}
	accountID, err := strconv.Atoi(r.PathValue("accountId"))
	if err != nil {
		return common.NewAppError(http.StatusBadRequest, common.KindValidation, "Invalid account ID in URL path", err)
	}

	log := logger.Log.WithFields(logrus.Fields{
		"farmer_id":  farmerID,
		"account_id": accountID,
	})
	log.Info("Set primary account request received")

	if err := h.service.SetPrimary(r.Context(), farmerID, accountID); err != nil {
		if errors.Is(err, service.ErrAccountNotFound) {
			return common.NewAppError(http.StatusNotFound, common.KindNotFound, "Bank account not found for farmer", err)
		}
		return common.NewAppError(http.StatusInternalServerError, common.KindPersistence, "Could not set primary account", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{"message": "Primary bank account set"})
	return nil
}
