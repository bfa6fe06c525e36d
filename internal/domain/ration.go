package domain

import "time"

// Beneficiary is a ration-card holder assigned to one shop.
type Beneficiary struct {
	ID               int64  `json:"id"`
	Name             string `json:"name"`
	RationCardNumber string `json:"rationCardNumber"`
	NationalID       string `json:"nationalId"`
	FamilySize       int    `json:"familySize"`
	Contact          string `json:"contact"`
	Address          string `json:"address"`
	ShopID           int64  `json:"shopId"`
	SecretHash       string `json:"-"`
}

// Shop is a fair-price shop run by one dealer.
type Shop struct {
	ID         int64  `json:"id"`
	DealerID   string `json:"dealerId"`
	DealerName string `json:"dealerName"`
	Location   string `json:"shopLocation"`
	Contact    string `json:"contact"`
	SecretHash string `json:"-"`
}

// Admin is a programme administrator.
type Admin struct {
	ID         int64  `json:"id"`
	Name       string `json:"name"`
	AdminID    string `json:"adminId"`
	SecretHash string `json:"-"`
}

// Stock is the current inventory of a shop. Quantities are never negative.
type Stock struct {
	ID             int64     `json:"id"`
	ShopID         int64     `json:"shopId"`
	WheatKg        float64   `json:"wheatKg"`
	RiceKg         float64   `json:"riceKg"`
	SugarKg        float64   `json:"sugarKg"`
	KeroseneLiters float64   `json:"keroseneLiters"`
	LastUpdated    time.Time `json:"lastUpdated"`
}

// Levels returns the stock quantities.
func (s Stock) Levels() Quantities {
	return Quantities{Wheat: s.WheatKg, Rice: s.RiceKg, Sugar: s.SugarKg, Kerosene: s.KeroseneLiters}
}

// WithLevels returns a copy of s holding q, stamped at.
func (s Stock) WithLevels(q Quantities, at time.Time) Stock {
	s.WheatKg = q.Wheat
	s.RiceKg = q.Rice
	s.SugarKg = q.Sugar
	s.KeroseneLiters = q.Kerosene
	s.LastUpdated = at.UTC()
	return s
}

// DistributionRecord is an immutable fact: goods handed to a beneficiary.
type DistributionRecord struct {
	ID            int64     `json:"id"`
	BeneficiaryID int64     `json:"userId"`
	ShopID        int64     `json:"shopId"`
	Item          Item      `json:"itemName"`
	Quantity      float64   `json:"quantityGiven"`
	Unit          string    `json:"unit"`
	CreatedAt     time.Time `json:"date"`
}

// ComplaintStatus is the lifecycle state of a complaint.
type ComplaintStatus string

// Complaint states. The only transition is Pending -> Resolved.
const (
	ComplaintPending  ComplaintStatus = "Pending"
	ComplaintResolved ComplaintStatus = "Resolved"
)

// Complaint is a grievance a beneficiary raised against a shop.
type Complaint struct {
	ID            int64           `json:"id"`
	BeneficiaryID int64           `json:"userId"`
	ShopID        int64           `json:"shopId"`
	Text          string          `json:"complaintText"`
	Status        ComplaintStatus `json:"status"`
	CreatedAt     time.Time       `json:"date"`
	ResolvedAt    *time.Time      `json:"resolvedAt,omitempty"`
	ResolvedBy    int64           `json:"resolvedBy,omitempty"`
}
