package app

import (
	"context"
	"fmt"
	"strings"

	"rations/internal/domain"
)

// ComplaintService files and resolves complaints.
type ComplaintService struct {
	store domain.Store
	options
}

// NewComplaintService creates a ComplaintService backed by store.
func NewComplaintService(store domain.Store, opts ...Option) *ComplaintService {
	return &ComplaintService{store: store, options: newOptions(opts)}
}

// File records a new Pending complaint from a beneficiary against shopID.
func (s *ComplaintService) File(ctx context.Context, beneficiaryID, shopID int64, text string) (domain.Complaint, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return domain.Complaint{}, fmt.Errorf("%w: complaint text is empty", domain.ErrInvalidInput)
	}

	var c domain.Complaint
	err := s.store.Update(ctx, func(tx domain.Tx) error {
		if _, err := tx.Beneficiary(beneficiaryID); err != nil {
			return err
		}
		if _, err := tx.Shop(shopID); err != nil {
			return err
		}
		var err error
		c, err = tx.InsertComplaint(domain.Complaint{
			BeneficiaryID: beneficiaryID,
			ShopID:        shopID,
			Text:          text,
			Status:        domain.ComplaintPending,
			CreatedAt:     s.now(),
		})
		return err
	})
	if err != nil {
		return domain.Complaint{}, err
	}

	s.metrics.IncrementComplaintFiled()
	s.logger.InfoContext(ctx, "complaint filed", "complaint_id", c.ID, "beneficiary_id", beneficiaryID, "shop_id", shopID)
	return c, nil
}

// Resolve marks a complaint Resolved. Resolving an already resolved complaint
// returns it unchanged.
func (s *ComplaintService) Resolve(ctx context.Context, complaintID, adminID int64) (domain.Complaint, error) {
	var (
		c       domain.Complaint
		changed bool
	)
	err := s.store.Update(ctx, func(tx domain.Tx) error {
		var err error
		c, err = tx.Complaint(complaintID)
		if err != nil {
			return err
		}
		if c.Status == domain.ComplaintResolved {
			return nil
		}

		at := s.now().UTC()
		c.Status = domain.ComplaintResolved
		c.ResolvedAt = &at
		c.ResolvedBy = adminID
		changed = true
		return tx.PutComplaint(c)
	})
	if err != nil {
		return domain.Complaint{}, err
	}

	if changed {
		s.metrics.IncrementComplaintResolved()
		s.logger.InfoContext(ctx, "complaint resolved", "complaint_id", complaintID, "admin_id", adminID)
	}
	return c, nil
}

// Get returns one complaint.
func (s *ComplaintService) Get(ctx context.Context, complaintID int64) (domain.Complaint, error) {
	var c domain.Complaint
	err := s.store.View(ctx, func(tx domain.Tx) error {
		var err error
		c, err = tx.Complaint(complaintID)
		return err
	})
	return c, err
}
