package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/Fi44er/storefront/internal/models"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/Fi44er/storefront/utils"
	"gorm.io/gorm"
)

type CryptoAccountInput struct {
	Name        string
	Symbol      string
	Address     string
	Network     string
	Description string
	IsActive    bool
	Order       int
}

// CryptoAccountPatch holds optional fields; nil means unchanged.
type CryptoAccountPatch struct {
	Name        *string
	Symbol      *string
	Address     *string
	Network     *string
	Description *string
	IsActive    *bool
	Order       *int
}

func (s *Service) CreateCryptoAccount(ctx context.Context, in CryptoAccountInput) (*models.CryptoAccount, error) {
	in.Symbol = strings.ToUpper(strings.TrimSpace(in.Symbol))
	if in.Name == "" || in.Symbol == "" {
		return nil, apperrors.Validation("name and symbol are required", nil)
	}
	if in.Order < 0 {
		return nil, apperrors.Validation("order must not be negative", nil)
	}
	if err := utils.ValidateCryptoAddress(in.Symbol, in.Address, s.btcParams); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	existing, err := s.repo.GetCryptoAccountBySymbol(ctx, in.Symbol)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, symbolConflict(in.Symbol)
	}

	account := &models.CryptoAccount{
		Name:        in.Name,
		Symbol:      in.Symbol,
		Address:     strings.TrimSpace(in.Address),
		Network:     strPtr(in.Network),
		Description: strPtr(in.Description),
		IsActive:    in.IsActive,
		Order:       in.Order,
	}
	if err := s.repo.CreateCryptoAccount(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, symbolConflict(in.Symbol)
		}
		return nil, err
	}
	return account, nil
}

func (s *Service) ListCryptoAccounts(ctx context.Context) ([]models.CryptoAccount, error) {
	return s.repo.ListCryptoAccounts(ctx, false)
}

func (s *Service) ListActiveCryptoAccounts(ctx context.Context) ([]models.CryptoAccount, error) {
	return s.repo.ListCryptoAccounts(ctx, true)
}

func (s *Service) GetCryptoAccount(ctx context.Context, id string) (*models.CryptoAccount, error) {
	account, err := s.repo.GetCryptoAccountByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound(fmt.Sprintf("Crypto account with ID '%s'", id), nil)
	}
	return account, nil
}

func (s *Service) UpdateCryptoAccount(ctx context.Context, id string, patch CryptoAccountPatch) (*models.CryptoAccount, error) {
	account, err := s.GetCryptoAccount(ctx, id)
	if err != nil {
		return nil, err
	}

	if patch.Symbol != nil {
		symbol := strings.ToUpper(strings.TrimSpace(*patch.Symbol))
		if symbol != account.Symbol {
			other, err := s.repo.GetCryptoAccountBySymbol(ctx, symbol)
			if err != nil {
				return nil, err
			}
			if other != nil {
				return nil, symbolConflict(symbol)
			}
			account.Symbol = symbol
		}
	}
	if patch.Name != nil {
		account.Name = *patch.Name
	}
	if patch.Address != nil {
		account.Address = strings.TrimSpace(*patch.Address)
	}
	if patch.Network != nil {
		account.Network = strPtr(*patch.Network)
	}
	if patch.Description != nil {
		account.Description = strPtr(*patch.Description)
	}
	if patch.IsActive != nil {
		account.IsActive = *patch.IsActive
	}
	if patch.Order != nil {
		if *patch.Order < 0 {
			return nil, apperrors.Validation("order must not be negative", nil)
		}
		account.Order = *patch.Order
	}

	if err := utils.ValidateCryptoAddress(account.Symbol, account.Address, s.btcParams); err != nil {
		return nil, apperrors.Validation(err.Error(), err)
	}

	if err := s.repo.UpdateCryptoAccount(ctx, account); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, symbolConflict(account.Symbol)
		}
		return nil, err
	}
	return account, nil
}

func (s *Service) DeleteCryptoAccount(ctx context.Context, id string) error {
	if _, err := s.GetCryptoAccount(ctx, id); err != nil {
		return err
	}
	if err := s.repo.DeleteCryptoAccount(ctx, id); err != nil {
		if errors.Is(err, gorm.ErrForeignKeyViolated) {
			return apperrors.Conflict("crypto account is referenced by topup requests; deactivate it instead")
		}
		return err
	}
	return nil
}

// SeedCryptoAccounts creates the given accounts, skipping symbols that already
// exist and entries that fail validation.
func (s *Service) SeedCryptoAccounts(ctx context.Context, seeds []CryptoAccountInput) error {
	for _, seed := range seeds {
		existing, err := s.repo.GetCryptoAccountBySymbol(ctx, strings.ToUpper(seed.Symbol))
		if err != nil {
			return err
		}
		if existing != nil {
			continue
		}

		if _, err := s.CreateCryptoAccount(ctx, seed); err != nil {
			if apperrors.Is(err, apperrors.CodeValidation) {
				s.logger.Warnf("Skipping crypto account seed %s: %v", seed.Symbol, err)
				continue
			}
			return err
		}
		s.logger.Infof("💰 Crypto account seeded: %s", seed.Symbol)
	}
	return nil
}

func symbolConflict(symbol string) error {
	return apperrors.Conflict(fmt.Sprintf("Crypto account with symbol '%s' already exists", symbol))
}
