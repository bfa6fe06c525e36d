package domain

import "context"

// Store is the port for the entity store. View runs fn against a read-only
// snapshot. Update runs fn as one transaction: if fn returns an error none of
// its writes become visible.
type Store interface {
	View(ctx context.Context, fn func(tx Tx) error) error
	Update(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is a consistent view of every collection. Accessors return copies.
// Write methods fail with ErrReadOnly inside View.
type Tx interface {
	Beneficiaries() []Beneficiary
	Shops() []Shop
	Admins() []Admin
	Stocks() []Stock
	// Distributions are returned in creation order.
	Distributions() []DistributionRecord
	// Complaints are returned newest first.
	Complaints() []Complaint

	Beneficiary(id int64) (Beneficiary, error)
	Shop(id int64) (Shop, error)
	StockForShop(shopID int64) (Stock, error)
	Complaint(id int64) (Complaint, error)

	PutStock(s Stock) error
	// AppendDistribution assigns the record a fresh id.
	AppendDistribution(r DistributionRecord) (DistributionRecord, error)
	// InsertComplaint assigns the complaint a fresh id and prepends it.
	InsertComplaint(c Complaint) (Complaint, error)
	PutComplaint(c Complaint) error
}

// Filter narrows entity listings. Zero fields do not filter.
type Filter struct {
	ShopID        int64
	BeneficiaryID int64
	Status        ComplaintStatus
}

// Dataset is the full contents of an entity store, used to seed it.
type Dataset struct {
	Beneficiaries []Beneficiary
	Shops         []Shop
	Admins        []Admin
	Stocks        []Stock
	Distributions []DistributionRecord
	Complaints    []Complaint
}
