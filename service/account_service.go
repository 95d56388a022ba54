// file: service/account_service.go

package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"farm-ledger-api/logger"
	"farm-ledger-api/model"
	"farm-ledger-api/repository"

	"github.com/sirupsen/logrus"
)

const accountCacheTTL = 10 * time.Minute

// AccountService owns the account-level operations that sit next to the
// ledger processor: primary-account reassignment and the cached read paths.
type AccountService struct {
	db    *sql.DB
	repo  repository.IAccountRepository
	cache ICacheClient
}

// NewAccountService wires the service. cache may be nil, in which case every
// read goes straight to the database.
func NewAccountService(db *sql.DB, repo repository.IAccountRepository, cache ICacheClient) *AccountService {
	return &AccountService{
		db:    db,
		repo:  repo,
		cache: cache,
	}
}

func accountCacheKey(farmerID int) string {
	return fmt.Sprintf("accounts:%d", farmerID)
}

// SetPrimary makes accountID the farmer's single primary account. Both
// updates run in one transaction so no moment exposes two primary accounts.
// An account that does not belong to the farmer yields ErrAccountNotFound.
func (s *AccountService) SetPrimary(ctx context.Context, farmerID, accountID int) error {
	log := logger.Log.WithFields(logrus.Fields{
		"farmer_id":  farmerID,
		"account_id": accountID,
	})
	log.Info("Starting primary account reassignment")

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return persistence("could not begin transaction", err)
	}
	defer tx.Rollback()

	if err := s.repo.ClearPrimaryFlags(tx, farmerID); err != nil {
		return persistence("could not clear primary flags", err)
	}

	affected, err := s.repo.MarkPrimary(tx, farmerID, accountID)
	if err != nil {
		return persistence("could not mark primary account", err)
	}
	if affected == 0 {
		return ErrAccountNotFound
	}

	if err := tx.Commit(); err != nil {
		return persistence("could not commit transaction", err)
	}

	if s.cache != nil {
		s.cache.Del(ctx, accountCacheKey(farmerID))
	}

	log.Info("Primary account reassigned")
	return nil
}

// ListAccountsForFarmer lists a farmer's bank accounts, utilizing a
// cache-aside strategy.
func (s *AccountService) ListAccountsForFarmer(ctx context.Context, farmerID int) ([]*model.Account, error) {
	cacheKey := accountCacheKey(farmerID)

	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, cacheKey).Result(); err == nil {
			var accounts []*model.Account
			if err := json.Unmarshal([]byte(cached), &accounts); err == nil {
				return accounts, nil
			}
		}
	}

	accounts, err := s.repo.GetAccountsByFarmerID(farmerID)
	if err != nil {
		return nil, persistence("could not load accounts", err)
	}

	if s.cache != nil {
		if data, err := json.Marshal(accounts); err == nil {
			s.cache.Set(ctx, cacheKey, data, accountCacheTTL)
		}
	}

	return accounts, nil
}

// GetPrimaryAccount returns the farmer's primary account, or
// ErrAccountNotFound when none is flagged.
func (s *AccountService) GetPrimaryAccount(ctx context.Context, farmerID int) (*model.Account, error) {
	account, err := s.repo.GetPrimaryAccount(farmerID)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, ErrAccountNotFound
		}
		return nil, persistence("could not load primary account", err)
	}
	return account, nil
}
