// Package memory implements the in-memory entity store and session registry.
package memory

import (
	"context"
	"fmt"
	"slices"
	"sync"

	"rations/internal/domain"
)

// DB implements an in-memory entity store. Every View and Update runs under
// one mutex, so callers observe whole transactions only.
type DB struct {
	mu   sync.Mutex
	data domain.Dataset

	distributionIDCounter int64
	complaintIDCounter    int64
}

// New creates a store holding a copy of ds. Id counters start above the
// highest id present in ds.
func New(ds domain.Dataset) *DB {
	db := &DB{data: cloneDataset(ds)}
	for _, r := range db.data.Distributions {
		db.distributionIDCounter = max(db.distributionIDCounter, r.ID)
	}
	for _, c := range db.data.Complaints {
		db.complaintIDCounter = max(db.complaintIDCounter, c.ID)
	}
	return db
}

// Ensure interfaces are met.
var _ domain.Store = (*DB)(nil)
var _ domain.Tx = (*tx)(nil)
var _ domain.SessionRepository = (*SessionRepo)(nil)

// View runs fn against the current state. Writes inside fn fail.
func (db *DB) View(ctx context.Context, fn func(tx domain.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	return fn(&tx{data: &db.data, readOnly: true})
}

// Update runs fn against a working copy and commits it only if fn succeeds.
func (db *DB) Update(ctx context.Context, fn func(tx domain.Tx) error) error {
	db.mu.Lock()
	defer db.mu.Unlock()

	work := domain.Dataset{
		Beneficiaries: db.data.Beneficiaries,
		Shops:         db.data.Shops,
		Admins:        db.data.Admins,
		Stocks:        slices.Clone(db.data.Stocks),
		Distributions: slices.Clone(db.data.Distributions),
		Complaints:    slices.Clone(db.data.Complaints),
	}
	t := &tx{
		data:           &work,
		distributionID: db.distributionIDCounter,
		complaintID:    db.complaintIDCounter,
	}
	if err := fn(t); err != nil {
		return err
	}

	db.data = work
	db.distributionIDCounter = t.distributionID
	db.complaintIDCounter = t.complaintID
	return nil
}

// Snapshot returns a copy of everything in the store.
func (db *DB) Snapshot() domain.Dataset {
	db.mu.Lock()
	defer db.mu.Unlock()
	return cloneDataset(db.data)
}

type tx struct {
	data     *domain.Dataset
	readOnly bool

	distributionID int64
	complaintID    int64
}

// --- reads ---

func (t *tx) Beneficiaries() []domain.Beneficiary        { return slices.Clone(t.data.Beneficiaries) }
func (t *tx) Shops() []domain.Shop                       { return slices.Clone(t.data.Shops) }
func (t *tx) Admins() []domain.Admin                     { return slices.Clone(t.data.Admins) }
func (t *tx) Stocks() []domain.Stock                     { return slices.Clone(t.data.Stocks) }
func (t *tx) Distributions() []domain.DistributionRecord { return slices.Clone(t.data.Distributions) }

func (t *tx) Complaints() []domain.Complaint {
	out := make([]domain.Complaint, len(t.data.Complaints))
	for i, c := range t.data.Complaints {
		out[i] = cloneComplaint(c)
	}
	return out
}

func (t *tx) Beneficiary(id int64) (domain.Beneficiary, error) {
	for _, b := range t.data.Beneficiaries {
		if b.ID == id {
			return b, nil
		}
	}
	return domain.Beneficiary{}, fmt.Errorf("beneficiary %d: %w", id, domain.ErrNotFound)
}

func (t *tx) Shop(id int64) (domain.Shop, error) {
	for _, s := range t.data.Shops {
		if s.ID == id {
			return s, nil
		}
	}
	return domain.Shop{}, fmt.Errorf("shop %d: %w", id, domain.ErrNotFound)
}

func (t *tx) StockForShop(shopID int64) (domain.Stock, error) {
	for _, s := range t.data.Stocks {
		if s.ShopID == shopID {
			return s, nil
		}
	}
	return domain.Stock{}, fmt.Errorf("stock for shop %d: %w", shopID, domain.ErrNotFound)
}

func (t *tx) Complaint(id int64) (domain.Complaint, error) {
	for _, c := range t.data.Complaints {
		if c.ID == id {
			return cloneComplaint(c), nil
		}
	}
	return domain.Complaint{}, fmt.Errorf("complaint %d: %w", id, domain.ErrNotFound)
}

// --- writes ---

func (t *tx) PutStock(s domain.Stock) error {
	if t.readOnly {
		return domain.ErrReadOnly
	}
	for i, cur := range t.data.Stocks {
		if cur.ShopID == s.ShopID {
			s.ID = cur.ID
			t.data.Stocks[i] = s
			return nil
		}
	}
	return fmt.Errorf("stock for shop %d: %w", s.ShopID, domain.ErrNotFound)
}

func (t *tx) AppendDistribution(r domain.DistributionRecord) (domain.DistributionRecord, error) {
	if t.readOnly {
		return domain.DistributionRecord{}, domain.ErrReadOnly
	}
	t.distributionID++
	r.ID = t.distributionID
	r.CreatedAt = r.CreatedAt.UTC()
	t.data.Distributions = append(t.data.Distributions, r)
	return r, nil
}

func (t *tx) InsertComplaint(c domain.Complaint) (domain.Complaint, error) {
	if t.readOnly {
		return domain.Complaint{}, domain.ErrReadOnly
	}
	t.complaintID++
	c.ID = t.complaintID
	c.CreatedAt = c.CreatedAt.UTC()
	t.data.Complaints = slices.Insert(t.data.Complaints, 0, cloneComplaint(c))
	return cloneComplaint(c), nil
}

func (t *tx) PutComplaint(c domain.Complaint) error {
	if t.readOnly {
		return domain.ErrReadOnly
	}
	for i, cur := range t.data.Complaints {
		if cur.ID == c.ID {
			t.data.Complaints[i] = cloneComplaint(c)
			return nil
		}
	}
	return fmt.Errorf("complaint %d: %w", c.ID, domain.ErrNotFound)
}

func cloneComplaint(c domain.Complaint) domain.Complaint {
	if c.ResolvedAt != nil {
		at := *c.ResolvedAt
		c.ResolvedAt = &at
	}
	return c
}

func cloneDataset(ds domain.Dataset) domain.Dataset {
	out := domain.Dataset{
		Beneficiaries: slices.Clone(ds.Beneficiaries),
		Shops:         slices.Clone(ds.Shops),
		Admins:        slices.Clone(ds.Admins),
		Stocks:        slices.Clone(ds.Stocks),
		Distributions: slices.Clone(ds.Distributions),
		Complaints:    make([]domain.Complaint, len(ds.Complaints)),
	}
	for i, c := range ds.Complaints {
		out.Complaints[i] = cloneComplaint(c)
	}
	return out
}
