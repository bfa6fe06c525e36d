package app

import (
	"cmp"
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	"rations/internal/domain"
)

// DistributionResult is what a successful distribution produced.
type DistributionResult struct {
	Beneficiary domain.Beneficiary          `json:"beneficiary"`
	Stock       domain.Stock                `json:"stock"`
	Records     []domain.DistributionRecord `json:"records"`
}

// DistributionService hands out rations against a shop's stock.
type DistributionService struct {
	store  domain.Store
	ledger *StockLedger
	options
}

// NewDistributionService creates a DistributionService. Stock changes go
// through ledger.
func NewDistributionService(store domain.Store, ledger *StockLedger, opts ...Option) *DistributionService {
	return &DistributionService{store: store, ledger: ledger, options: newOptions(opts)}
}

// Distribute gives the requested quantities to the beneficiary holding
// rationCardNumber, who must be assigned to shopID. The stock check, stock
// update and record creation happen in one transaction: either every item is
// handed out or nothing changes.
func (s *DistributionService) Distribute(ctx context.Context, shopID int64, rationCardNumber string, requested domain.Quantities) (*DistributionResult, error) {
	res := &DistributionResult{}
	err := s.store.Update(ctx, func(tx domain.Tx) error {
		b, err := findAssigned(tx, shopID, strings.TrimSpace(rationCardNumber))
		if err != nil {
			return err
		}
		res.Beneficiary = b

		if err := requested.CheckAmounts(); err != nil {
			return err
		}
		if requested.IsZero() {
			return fmt.Errorf("%w: nothing requested", domain.ErrInvalidInput)
		}

		now := s.now()
		res.Stock, err = s.ledger.AdjustTx(tx, shopID, requested.Negate(), now)
		if err != nil {
			return err
		}

		for _, it := range domain.Items {
			q := requested.Get(it)
			if q <= 0 {
				continue
			}
			rec, err := tx.AppendDistribution(domain.DistributionRecord{
				BeneficiaryID: b.ID,
				ShopID:        shopID,
				Item:          it,
				Quantity:      q,
				Unit:          it.Unit(),
				CreatedAt:     now,
			})
			if err != nil {
				return err
			}
			res.Records = append(res.Records, rec)
		}
		return nil
	})
	if err != nil {
		s.metrics.ObserveDistributionRejected(rejectionReason(err))
		s.logger.InfoContext(ctx, "distribution rejected", "shop_id", shopID, "error", err)
		return nil, err
	}

	handed := make(map[string]float64, len(res.Records))
	for _, r := range res.Records {
		handed[string(r.Item)] = r.Quantity
	}
	s.metrics.ObserveDistribution(handed)
	s.logger.InfoContext(ctx, "distribution recorded",
		"shop_id", shopID, "beneficiary_id", res.Beneficiary.ID, "records", len(res.Records))
	return res, nil
}

func findAssigned(tx domain.Tx, shopID int64, rationCardNumber string) (domain.Beneficiary, error) {
	for _, b := range tx.Beneficiaries() {
		if b.RationCardNumber == rationCardNumber && b.ShopID == shopID {
			return b, nil
		}
	}
	return domain.Beneficiary{}, domain.ErrBeneficiaryNotFound
}

func rejectionReason(err error) string {
	switch {
	case errors.Is(err, domain.ErrBeneficiaryNotFound):
		return "beneficiary_not_found"
	case errors.Is(err, domain.ErrInsufficientStock):
		return "insufficient_stock"
	case errors.Is(err, domain.ErrInvalidInput):
		return "invalid_input"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	}
	return "error"
}

// History returns a beneficiary's distribution records, newest first.
func (s *DistributionService) History(ctx context.Context, beneficiaryID int64) ([]domain.DistributionRecord, error) {
	var out []domain.DistributionRecord
	err := s.store.View(ctx, func(tx domain.Tx) error {
		if _, err := tx.Beneficiary(beneficiaryID); err != nil {
			return err
		}
		out = filterDistributions(tx.Distributions(), domain.Filter{BeneficiaryID: beneficiaryID})
		return nil
	})
	return out, err
}

// newestFirst orders records by date descending, later ids first on ties.
func newestFirst(records []domain.DistributionRecord) {
	slices.SortStableFunc(records, func(a, b domain.DistributionRecord) int {
		if c := b.CreatedAt.Compare(a.CreatedAt); c != 0 {
			return c
		}
		return cmp.Compare(b.ID, a.ID)
	})
}

func filterDistributions(all []domain.DistributionRecord, f domain.Filter) []domain.DistributionRecord {
	out := make([]domain.DistributionRecord, 0, len(all))
	for _, r := range all {
		if f.ShopID != 0 && r.ShopID != f.ShopID {
			continue
		}
		if f.BeneficiaryID != 0 && r.BeneficiaryID != f.BeneficiaryID {
			continue
		}
		out = append(out, r)
	}
	newestFirst(out)
	return out
}
