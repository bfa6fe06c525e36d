package app

import (
	"context"
	"time"

	"rations/internal/domain"
)

// DashboardService builds the per-role overview pages.
type DashboardService struct {
	store domain.Store
	options
}

// NewDashboardService creates a DashboardService backed by store.
func NewDashboardService(store domain.Store, opts ...Option) *DashboardService {
	return &DashboardService{store: store, options: newOptions(opts)}
}

// BeneficiaryDashboard is what a ration-card holder sees after login.
type BeneficiaryDashboard struct {
	Beneficiary       domain.Beneficiary          `json:"beneficiary"`
	Shop              domain.Shop                 `json:"shop"`
	Stock             domain.Stock                `json:"stock"`
	Entitlement       domain.Quantities           `json:"entitlement"`
	ReceivedThisMonth domain.Quantities           `json:"receivedThisMonth"`
	Remaining         domain.Quantities           `json:"remaining"`
	History           []domain.DistributionRecord `json:"history"`
	Complaints        []domain.Complaint          `json:"complaints"`
}

// DealerDashboard summarises one shop.
type DealerDashboard struct {
	Shop              domain.Shop        `json:"shop"`
	Stock             domain.Stock       `json:"stock"`
	BeneficiaryCount  int                `json:"beneficiaryCount"`
	PendingComplaints int                `json:"pendingComplaints"`
	Complaints        []domain.Complaint `json:"complaints"`
}

// ShopOverview is one row of the admin dashboard.
type ShopOverview struct {
	Shop             domain.Shop  `json:"shop"`
	Stock            domain.Stock `json:"stock"`
	BeneficiaryCount int          `json:"beneficiaryCount"`
}

// AdminDashboard summarises the whole system.
type AdminDashboard struct {
	BeneficiaryCount  int            `json:"beneficiaryCount"`
	ShopCount         int            `json:"shopCount"`
	PendingComplaints int            `json:"pendingComplaints"`
	Shops             []ShopOverview `json:"shops"`
}

// ForBeneficiary builds the dashboard of one beneficiary. The month window is
// the current UTC calendar month.
func (s *DashboardService) ForBeneficiary(ctx context.Context, beneficiaryID int64) (*BeneficiaryDashboard, error) {
	now := s.now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	var d BeneficiaryDashboard
	err := s.store.View(ctx, func(tx domain.Tx) error {
		b, err := tx.Beneficiary(beneficiaryID)
		if err != nil {
			return err
		}
		shop, err := tx.Shop(b.ShopID)
		if err != nil {
			return err
		}
		stock, err := tx.StockForShop(b.ShopID)
		if err != nil {
			return err
		}

		d.Beneficiary = b
		d.Shop = shop
		d.Stock = stock
		d.Entitlement = domain.Entitlement(b.FamilySize)
		d.History = filterDistributions(tx.Distributions(), domain.Filter{BeneficiaryID: b.ID})
		d.Complaints = filterComplaints(tx.Complaints(), domain.Filter{BeneficiaryID: b.ID})

		for _, r := range d.History {
			if r.CreatedAt.Before(monthStart) {
				continue
			}
			d.ReceivedThisMonth = d.ReceivedThisMonth.With(r.Item, d.ReceivedThisMonth.Get(r.Item)+r.Quantity)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	left := d.Entitlement.Sub(d.ReceivedThisMonth)
	for _, it := range domain.Items {
		d.Remaining = d.Remaining.With(it, max(0, left.Get(it)))
	}
	return &d, nil
}

// ForDealer builds the dashboard of one shop.
func (s *DashboardService) ForDealer(ctx context.Context, shopID int64) (*DealerDashboard, error) {
	var d DealerDashboard
	err := s.store.View(ctx, func(tx domain.Tx) error {
		shop, err := tx.Shop(shopID)
		if err != nil {
			return err
		}
		stock, err := tx.StockForShop(shopID)
		if err != nil {
			return err
		}

		d.Shop = shop
		d.Stock = stock
		d.BeneficiaryCount = countAssigned(tx.Beneficiaries(), shopID)
		d.Complaints = filterComplaints(tx.Complaints(), domain.Filter{ShopID: shopID})
		d.PendingComplaints = len(filterComplaints(d.Complaints, domain.Filter{Status: domain.ComplaintPending}))
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

// ForAdmin builds the system-wide dashboard.
func (s *DashboardService) ForAdmin(ctx context.Context) (*AdminDashboard, error) {
	var d AdminDashboard
	err := s.store.View(ctx, func(tx domain.Tx) error {
		beneficiaries := tx.Beneficiaries()
		shops := tx.Shops()

		d.BeneficiaryCount = len(beneficiaries)
		d.ShopCount = len(shops)
		d.PendingComplaints = len(filterComplaints(tx.Complaints(), domain.Filter{Status: domain.ComplaintPending}))
		d.Shops = make([]ShopOverview, 0, len(shops))
		for _, sh := range shops {
			row := ShopOverview{Shop: sh, BeneficiaryCount: countAssigned(beneficiaries, sh.ID)}
			if st, err := tx.StockForShop(sh.ID); err == nil {
				row.Stock = st
			}
			d.Shops = append(d.Shops, row)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &d, nil
}

func countAssigned(beneficiaries []domain.Beneficiary, shopID int64) int {
	n := 0
	for _, b := range beneficiaries {
		if b.ShopID == shopID {
			n++
		}
	}
	return n
}
