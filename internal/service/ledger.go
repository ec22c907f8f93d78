package service

import (
	"context"
	"fmt"

	"github.com/Fi44er/storefront/internal/models"
	apperrors "github.com/Fi44er/storefront/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// LedgerEntry is one balance movement. Amount is signed.
type LedgerEntry struct {
	UserID        string
	Amount        decimal.Decimal
	Type          models.BalanceTransactionType
	Reason        string
	ReferenceID   string
	ReferenceType string
}

type AdjustBalanceInput struct {
	Amount        decimal.Decimal
	Type          models.BalanceTransactionType
	Reason        string
	ReferenceID   string
	ReferenceType string
}

type Reconciliation struct {
	UserID         string          `json:"userId"`
	Balance        decimal.Decimal `json:"balance"`
	OpeningBalance decimal.Decimal `json:"openingBalance"`
	HistoryTotal   decimal.Decimal `json:"historyTotal"`
	Consistent     bool            `json:"consistent"`
}

var minAdjustment = decimal.RequireFromString("0.01")

// creditBalance is the only code path that changes User.Balance. It must run
// inside tx: the user row is locked, the new balance written and the history
// row appended before tx commits.
func (s *Service) creditBalance(ctx context.Context, tx *gorm.DB, entry LedgerEntry) (*models.BalanceHistory, error) {
	user, err := s.repo.LockUser(ctx, entry.UserID, tx)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperrors.NotFound("User", nil)
	}

	previous := user.Balance
	next := previous.Add(entry.Amount)
	if next.IsNegative() {
		return nil, apperrors.InvalidState(fmt.Sprintf("insufficient balance: %s available, %s requested", previous.String(), entry.Amount.Abs().String()))
	}

	if err := s.repo.UpdateUserBalance(ctx, user.ID, next, tx); err != nil {
		return nil, err
	}

	history := &models.BalanceHistory{
		UserID:          user.ID,
		Amount:          entry.Amount,
		Type:            entry.Type,
		Reason:          entry.Reason,
		PreviousBalance: previous,
		NewBalance:      next,
		ReferenceID:     strPtr(entry.ReferenceID),
		ReferenceType:   strPtr(entry.ReferenceType),
	}
	if err := s.repo.CreateBalanceHistory(ctx, history, tx); err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"user":      user.ID,
		"type":      entry.Type,
		"amount":    entry.Amount.String(),
		"previous":  previous.String(),
		"new":       next.String(),
		"reference": entry.ReferenceID,
	}).Info("Balance updated")

	return history, nil
}

// AdjustBalance applies an admin balance change. Amount is unsigned; the
// type decides the direction.
func (s *Service) AdjustBalance(ctx context.Context, userID string, in AdjustBalanceInput) (*models.User, error) {
	if in.Amount.LessThan(minAdjustment) {
		return nil, apperrors.Validation("amount must be at least 0.01", nil)
	}
	if in.Reason == "" {
		return nil, apperrors.Validation("reason is required", nil)
	}

	amount := in.Amount
	if in.Type.IsDebit() {
		amount = amount.Neg()
	}

	err := s.inTx(ctx, func(tx *gorm.DB) error {
		_, err := s.creditBalance(ctx, tx, LedgerEntry{
			UserID:        userID,
			Amount:        amount,
			Type:          in.Type,
			Reason:        in.Reason,
			ReferenceID:   in.ReferenceID,
			ReferenceType: in.ReferenceType,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return s.GetUser(ctx, userID)
}

func (s *Service) GetBalance(ctx context.Context, userID string) (decimal.Decimal, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return decimal.Zero, err
	}
	return user.Balance, nil
}

func (s *Service) GetBalanceHistory(ctx context.Context, userID string, page models.Page) ([]models.BalanceHistory, int64, models.Page, error) {
	page = page.Normalize()
	if _, err := s.GetUser(ctx, userID); err != nil {
		return nil, 0, page, err
	}

	history, total, err := s.repo.ListBalanceHistory(ctx, userID, page)
	if err != nil {
		return nil, 0, page, err
	}
	return history, total, page, nil
}

// ReconcileBalance checks that the stored balance equals the opening balance
// plus every recorded movement.
func (s *Service) ReconcileBalance(ctx context.Context, userID string) (*Reconciliation, error) {
	user, err := s.GetUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	total, err := s.repo.SumBalanceHistory(ctx, userID)
	if err != nil {
		return nil, err
	}

	rec := &Reconciliation{
		UserID:         user.ID,
		Balance:        user.Balance,
		OpeningBalance: user.OpeningBalance,
		HistoryTotal:   total,
		Consistent:     user.OpeningBalance.Add(total).Equal(user.Balance),
	}
	if !rec.Consistent {
		s.logger.Errorf("Balance mismatch for user %s: balance %s, opening %s, history %s",
			user.ID, user.Balance, user.OpeningBalance, total)
	}
	return rec, nil
}
