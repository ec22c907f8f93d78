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

type CreateTopupInput struct {
	Amount          decimal.Decimal
	CryptoAccountID string
	PaymentProofURL string
}

func (s *Service) CreateTopupRequest(ctx context.Context, userID string, in CreateTopupInput) (*models.TopupRequest, error) {
	if !in.Amount.IsPositive() {
		return nil, apperrors.Validation("amount must be positive", nil)
	}

	account, err := s.repo.GetCryptoAccountByID(ctx, in.CryptoAccountID)
	if err != nil {
		return nil, err
	}
	if account == nil {
		return nil, apperrors.NotFound("Crypto account", nil)
	}
	if !account.IsActive {
		return nil, apperrors.InvalidState("Crypto account is not active")
	}

	topup := &models.TopupRequest{
		UserID:          userID,
		Amount:          in.Amount,
		CryptoAccountID: account.ID,
		Status:          models.TopupPending,
		PaymentProofURL: strPtr(in.PaymentProofURL),
	}
	if err := s.repo.CreateTopup(ctx, topup); err != nil {
		return nil, err
	}

	created, err := s.GetTopupRequest(ctx, topup.ID)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{
		"topup":  created.ID,
		"user":   userID,
		"amount": in.Amount.String(),
		"asset":  account.Symbol,
	}).Info("Topup request created")
	s.notifier.TopupCreated(created)

	return created, nil
}

func (s *Service) ListTopupRequests(ctx context.Context, filter models.TopupFilter) ([]models.TopupRequest, int64, models.Page, error) {
	filter.Page = filter.Page.Normalize()
	topups, total, err := s.repo.ListTopups(ctx, filter)
	if err != nil {
		return nil, 0, filter.Page, err
	}
	return topups, total, filter.Page, nil
}

func (s *Service) ListUserTopupRequests(ctx context.Context, userID string, page models.Page) ([]models.TopupRequest, int64, models.Page, error) {
	return s.ListTopupRequests(ctx, models.TopupFilter{Page: page, UserID: userID})
}

func (s *Service) GetTopupRequest(ctx context.Context, id string) (*models.TopupRequest, error) {
	topup, err := s.repo.GetTopupByID(ctx, id, nil)
	if err != nil {
		return nil, err
	}
	if topup == nil {
		return nil, apperrors.NotFound("Topup request", nil)
	}
	return topup, nil
}

// ApproveTopupRequest moves a pending request to APPROVED and credits the
// user in the same transaction, so a request is credited at most once.
func (s *Service) ApproveTopupRequest(ctx context.Context, id, adminID string, notes *string) (*models.TopupRequest, error) {
	return s.processTopup(ctx, id, adminID, notes, models.TopupApproved)
}

func (s *Service) RejectTopupRequest(ctx context.Context, id, adminID string, notes *string) (*models.TopupRequest, error) {
	return s.processTopup(ctx, id, adminID, notes, models.TopupRejected)
}

func (s *Service) processTopup(ctx context.Context, id, adminID string, notes *string, status models.TopupStatus) (*models.TopupRequest, error) {
	err := s.inTx(ctx, func(tx *gorm.DB) error {
		topup, err := s.repo.LockTopup(ctx, id, tx)
		if err != nil {
			return err
		}
		if topup == nil {
			return apperrors.NotFound("Topup request", nil)
		}
		if topup.Status != models.TopupPending {
			return apperrors.InvalidState("Topup request is not pending")
		}

		fields := map[string]interface{}{
			"status":       status,
			"admin_notes":  notes,
			"processed_at": s.now(),
			"processed_by": adminID,
		}
		if err := s.repo.UpdateTopup(ctx, id, fields, tx); err != nil {
			return err
		}

		if status != models.TopupApproved {
			return nil
		}

		_, err = s.creditBalance(ctx, tx, LedgerEntry{
			UserID:        topup.UserID,
			Amount:        topup.Amount,
			Type:          models.BalanceTopupApproval,
			Reason:        fmt.Sprintf("Topup request approved - %s", topup.Amount.String()),
			ReferenceID:   topup.ID,
			ReferenceType: models.ReferenceTopup,
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	processed, err := s.GetTopupRequest(ctx, id)
	if err != nil {
		return nil, err
	}

	s.logger.WithFields(logrus.Fields{"topup": id, "admin": adminID, "status": status}).Info("Topup request processed")
	s.notifier.TopupProcessed(processed)

	return processed, nil
}

func (s *Service) DeleteTopupRequest(ctx context.Context, id string) error {
	deleted, err := s.repo.DeleteTopup(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return apperrors.NotFound("Topup request", nil)
	}
	s.logger.Warnf("Topup request %s deleted", id)
	return nil
}

func (s *Service) GetTopupStats(ctx context.Context) (*models.TopupStats, error) {
	return s.repo.GetTopupStats(ctx)
}
