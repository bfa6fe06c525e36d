package app

import (
	"context"
	"fmt"

	"rations/internal/domain"
)

// DirectoryService lists entities. Callers scope results through the filter.
type DirectoryService struct {
	store domain.Store
}

// NewDirectoryService creates a DirectoryService backed by store.
func NewDirectoryService(store domain.Store) *DirectoryService {
	return &DirectoryService{store: store}
}

// Beneficiaries lists beneficiaries, optionally of one shop.
func (s *DirectoryService) Beneficiaries(ctx context.Context, f domain.Filter) ([]domain.Beneficiary, error) {
	var out []domain.Beneficiary
	err := s.store.View(ctx, func(tx domain.Tx) error {
		out = make([]domain.Beneficiary, 0)
		for _, b := range tx.Beneficiaries() {
			if f.ShopID != 0 && b.ShopID != f.ShopID {
				continue
			}
			if f.BeneficiaryID != 0 && b.ID != f.BeneficiaryID {
				continue
			}
			out = append(out, b)
		}
		return nil
	})
	return out, err
}

// Shops lists every shop.
func (s *DirectoryService) Shops(ctx context.Context) ([]domain.Shop, error) {
	var out []domain.Shop
	err := s.store.View(ctx, func(tx domain.Tx) error {
		out = tx.Shops()
		return nil
	})
	return out, err
}

// Stocks lists stock records, optionally of one shop.
func (s *DirectoryService) Stocks(ctx context.Context, f domain.Filter) ([]domain.Stock, error) {
	var out []domain.Stock
	err := s.store.View(ctx, func(tx domain.Tx) error {
		out = make([]domain.Stock, 0)
		for _, st := range tx.Stocks() {
			if f.ShopID != 0 && st.ShopID != f.ShopID {
				continue
			}
			out = append(out, st)
		}
		return nil
	})
	return out, err
}

// Distributions lists distribution records newest first.
func (s *DirectoryService) Distributions(ctx context.Context, f domain.Filter) ([]domain.DistributionRecord, error) {
	var out []domain.DistributionRecord
	err := s.store.View(ctx, func(tx domain.Tx) error {
		out = filterDistributions(tx.Distributions(), f)
		return nil
	})
	return out, err
}

// Complaints lists complaints newest first.
func (s *DirectoryService) Complaints(ctx context.Context, f domain.Filter) ([]domain.Complaint, error) {
	switch f.Status {
	case "", domain.ComplaintPending, domain.ComplaintResolved:
	default:
		return nil, fmt.Errorf("%w: unknown complaint status %q", domain.ErrInvalidInput, f.Status)
	}

	var out []domain.Complaint
	err := s.store.View(ctx, func(tx domain.Tx) error {
		out = filterComplaints(tx.Complaints(), f)
		return nil
	})
	return out, err
}

func filterComplaints(all []domain.Complaint, f domain.Filter) []domain.Complaint {
	out := make([]domain.Complaint, 0, len(all))
	for _, c := range all {
		if f.ShopID != 0 && c.ShopID != f.ShopID {
			continue
		}
		if f.BeneficiaryID != 0 && c.BeneficiaryID != f.BeneficiaryID {
			continue
		}
		if f.Status != "" && c.Status != f.Status {
			continue
		}
		out = append(out, c)
	}
	return out
}
