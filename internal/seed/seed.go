// Package seed loads the initial contents of the entity store from YAML.
package seed

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"math"
	"os"
	"slices"
	"time"

	"github.com/go-playground/validator/v10"
	"golang.org/x/crypto/bcrypt"
	"gopkg.in/yaml.v3"

	"rations/internal/domain"
)

//go:embed default.yaml
var defaultSeed []byte

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	_ = v.RegisterValidation("finite", func(fl validator.FieldLevel) bool {
		f := fl.Field().Float()
		return !math.IsNaN(f) && !math.IsInf(f, 0)
	})
	return v
}

// File is the on-disk seed format. Secrets are plaintext here and hashed when
// the dataset is built.
type File struct {
	Beneficiaries []Beneficiary  `yaml:"beneficiaries" validate:"dive"`
	Shops         []Shop         `yaml:"shops" validate:"dive"`
	Stocks        []Stock        `yaml:"stocks" validate:"dive"`
	Distributions []Distribution `yaml:"distributions" validate:"dive"`
	Complaints    []Complaint    `yaml:"complaints" validate:"dive"`
	Admins        []Admin        `yaml:"admins" validate:"dive"`
}

// Beneficiary is a seeded ration-card holder.
type Beneficiary struct {
	ID               int64  `yaml:"id" validate:"gt=0"`
	Name             string `yaml:"name" validate:"required"`
	RationCardNumber string `yaml:"ration_card_number" validate:"required"`
	NationalID       string `yaml:"national_id" validate:"required"`
	FamilySize       int    `yaml:"family_size" validate:"gt=0"`
	Contact          string `yaml:"contact"`
	Address          string `yaml:"address"`
	ShopID           int64  `yaml:"shop_id" validate:"gt=0"`
	Secret           string `yaml:"secret" validate:"required"`
}

// Shop is a seeded shop and its dealer login.
type Shop struct {
	ID         int64  `yaml:"id" validate:"gt=0"`
	DealerID   string `yaml:"dealer_id" validate:"required"`
	DealerName string `yaml:"dealer_name" validate:"required"`
	Location   string `yaml:"location"`
	Contact    string `yaml:"contact"`
	Secret     string `yaml:"secret" validate:"required"`
}

// Stock is the opening inventory of a shop.
type Stock struct {
	ID             int64     `yaml:"id" validate:"gt=0"`
	ShopID         int64     `yaml:"shop_id" validate:"gt=0"`
	WheatKg        float64   `yaml:"wheat_kg" validate:"finite,gte=0"`
	RiceKg         float64   `yaml:"rice_kg" validate:"finite,gte=0"`
	SugarKg        float64   `yaml:"sugar_kg" validate:"finite,gte=0"`
	KeroseneLiters float64   `yaml:"kerosene_liters" validate:"finite,gte=0"`
	LastUpdated    time.Time `yaml:"last_updated"`
}

// Distribution is a historical distribution record.
type Distribution struct {
	ID            int64     `yaml:"id" validate:"gt=0"`
	BeneficiaryID int64     `yaml:"beneficiary_id" validate:"gt=0"`
	ShopID        int64     `yaml:"shop_id" validate:"gt=0"`
	Item          string    `yaml:"item" validate:"oneof=Wheat Rice Sugar Kerosene"`
	Quantity      float64   `yaml:"quantity" validate:"finite,gt=0"`
	Date          time.Time `yaml:"date" validate:"required"`
}

// Complaint is a seeded complaint.
type Complaint struct {
	ID            int64     `yaml:"id" validate:"gt=0"`
	BeneficiaryID int64     `yaml:"beneficiary_id" validate:"gt=0"`
	ShopID        int64     `yaml:"shop_id" validate:"gt=0"`
	Text          string    `yaml:"text" validate:"required"`
	Status        string    `yaml:"status" validate:"oneof=Pending Resolved"`
	Date          time.Time `yaml:"date" validate:"required"`
}

// Admin is a seeded administrator login.
type Admin struct {
	ID      int64  `yaml:"id" validate:"gt=0"`
	Name    string `yaml:"name" validate:"required"`
	AdminID string `yaml:"admin_id" validate:"required"`
	Secret  string `yaml:"secret" validate:"required"`
}

// Default returns the embedded seed.
func Default() (*File, error) {
	return Parse(defaultSeed)
}

// LoadFile reads and validates a seed file.
func LoadFile(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("seed: %w", err)
	}
	return Parse(data)
}

// Load returns the seed at path, or the embedded default when path is empty.
func Load(path string) (*File, error) {
	if path == "" {
		return Default()
	}
	return LoadFile(path)
}

// Parse decodes and validates a YAML seed. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var f File
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("seed: decode: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks field constraints, uniqueness of ids and login identifiers,
// and that every reference points at an existing entity.
func (f *File) Validate() error {
	if err := validate.Struct(f); err != nil {
		return fmt.Errorf("seed: %w", err)
	}

	var errs []error
	fail := func(format string, args ...any) {
		errs = append(errs, fmt.Errorf(format, args...))
	}

	shops := map[int64]bool{}
	dealerIDs := map[string]bool{}
	for _, s := range f.Shops {
		if shops[s.ID] {
			fail("shop %d: duplicate id", s.ID)
		}
		if dealerIDs[s.DealerID] {
			fail("shop %d: duplicate dealer id %q", s.ID, s.DealerID)
		}
		shops[s.ID] = true
		dealerIDs[s.DealerID] = true
	}

	beneficiaries := map[int64]int64{}
	cards := map[string]bool{}
	for _, b := range f.Beneficiaries {
		if _, dup := beneficiaries[b.ID]; dup {
			fail("beneficiary %d: duplicate id", b.ID)
		}
		if cards[b.RationCardNumber] {
			fail("beneficiary %d: duplicate ration card number %q", b.ID, b.RationCardNumber)
		}
		if cards[b.NationalID] {
			fail("beneficiary %d: duplicate national id %q", b.ID, b.NationalID)
		}
		if !shops[b.ShopID] {
			fail("beneficiary %d: unknown shop %d", b.ID, b.ShopID)
		}
		beneficiaries[b.ID] = b.ShopID
		cards[b.RationCardNumber] = true
		cards[b.NationalID] = true
	}

	stocked := map[int64]bool{}
	stockIDs := map[int64]bool{}
	for _, s := range f.Stocks {
		if stockIDs[s.ID] {
			fail("stock %d: duplicate id", s.ID)
		}
		if !shops[s.ShopID] {
			fail("stock %d: unknown shop %d", s.ID, s.ShopID)
		}
		if stocked[s.ShopID] {
			fail("stock %d: shop %d already has stock", s.ID, s.ShopID)
		}
		stockIDs[s.ID] = true
		stocked[s.ShopID] = true
	}
	for id := range shops {
		if !stocked[id] {
			fail("shop %d: no stock record", id)
		}
	}

	recordIDs := map[int64]bool{}
	for _, d := range f.Distributions {
		if recordIDs[d.ID] {
			fail("distribution %d: duplicate id", d.ID)
		}
		recordIDs[d.ID] = true
		if _, ok := beneficiaries[d.BeneficiaryID]; !ok {
			fail("distribution %d: unknown beneficiary %d", d.ID, d.BeneficiaryID)
		}
		if !shops[d.ShopID] {
			fail("distribution %d: unknown shop %d", d.ID, d.ShopID)
		}
	}

	complaintIDs := map[int64]bool{}
	for _, c := range f.Complaints {
		if complaintIDs[c.ID] {
			fail("complaint %d: duplicate id", c.ID)
		}
		complaintIDs[c.ID] = true
		if _, ok := beneficiaries[c.BeneficiaryID]; !ok {
			fail("complaint %d: unknown beneficiary %d", c.ID, c.BeneficiaryID)
		}
		if !shops[c.ShopID] {
			fail("complaint %d: unknown shop %d", c.ID, c.ShopID)
		}
	}

	adminIDs := map[int64]bool{}
	logins := map[string]bool{}
	for _, a := range f.Admins {
		if adminIDs[a.ID] {
			fail("admin %d: duplicate id", a.ID)
		}
		if logins[a.AdminID] {
			fail("admin %d: duplicate admin id %q", a.ID, a.AdminID)
		}
		adminIDs[a.ID] = true
		logins[a.AdminID] = true
	}

	if len(errs) > 0 {
		return fmt.Errorf("seed: %w", errors.Join(errs...))
	}
	return nil
}

// Dataset builds the store contents. Secrets are hashed with bcrypt at the
// given cost; stocks without a timestamp are stamped with now. Complaints are
// ordered newest first.
func (f *File) Dataset(cost int, now time.Time) (domain.Dataset, error) {
	var ds domain.Dataset

	hash := func(secret string) (string, error) {
		h, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
		if err != nil {
			return "", fmt.Errorf("seed: hash secret: %w", err)
		}
		return string(h), nil
	}

	for _, b := range f.Beneficiaries {
		h, err := hash(b.Secret)
		if err != nil {
			return domain.Dataset{}, err
		}
		ds.Beneficiaries = append(ds.Beneficiaries, domain.Beneficiary{
			ID:               b.ID,
			Name:             b.Name,
			RationCardNumber: b.RationCardNumber,
			NationalID:       b.NationalID,
			FamilySize:       b.FamilySize,
			Contact:          b.Contact,
			Address:          b.Address,
			ShopID:           b.ShopID,
			SecretHash:       h,
		})
	}

	for _, s := range f.Shops {
		h, err := hash(s.Secret)
		if err != nil {
			return domain.Dataset{}, err
		}
		ds.Shops = append(ds.Shops, domain.Shop{
			ID:         s.ID,
			DealerID:   s.DealerID,
			DealerName: s.DealerName,
			Location:   s.Location,
			Contact:    s.Contact,
			SecretHash: h,
		})
	}

	for _, a := range f.Admins {
		h, err := hash(a.Secret)
		if err != nil {
			return domain.Dataset{}, err
		}
		ds.Admins = append(ds.Admins, domain.Admin{ID: a.ID, Name: a.Name, AdminID: a.AdminID, SecretHash: h})
	}

	for _, s := range f.Stocks {
		updated := s.LastUpdated
		if updated.IsZero() {
			updated = now
		}
		ds.Stocks = append(ds.Stocks, domain.Stock{
			ID:             s.ID,
			ShopID:         s.ShopID,
			WheatKg:        s.WheatKg,
			RiceKg:         s.RiceKg,
			SugarKg:        s.SugarKg,
			KeroseneLiters: s.KeroseneLiters,
			LastUpdated:    updated.UTC(),
		})
	}

	for _, d := range f.Distributions {
		item, err := domain.ParseItem(d.Item)
		if err != nil {
			return domain.Dataset{}, fmt.Errorf("seed: distribution %d: %w", d.ID, err)
		}
		ds.Distributions = append(ds.Distributions, domain.DistributionRecord{
			ID:            d.ID,
			BeneficiaryID: d.BeneficiaryID,
			ShopID:        d.ShopID,
			Item:          item,
			Quantity:      d.Quantity,
			Unit:          item.Unit(),
			CreatedAt:     d.Date.UTC(),
		})
	}

	for _, c := range f.Complaints {
		ds.Complaints = append(ds.Complaints, domain.Complaint{
			ID:            c.ID,
			BeneficiaryID: c.BeneficiaryID,
			ShopID:        c.ShopID,
			Text:          c.Text,
			Status:        domain.ComplaintStatus(c.Status),
			CreatedAt:     c.Date.UTC(),
		})
	}
	slices.SortStableFunc(ds.Complaints, func(a, b domain.Complaint) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})

	return ds, nil
}
