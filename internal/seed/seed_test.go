package seed_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"rations/internal/domain"
	"rations/internal/seed"
)

func TestDefaultSeed(t *testing.T) {
	f, err := seed.Default()
	require.NoError(t, err)

	now := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	ds, err := f.Dataset(bcrypt.MinCost, now)
	require.NoError(t, err)

	assert.Len(t, ds.Beneficiaries, 3)
	assert.Len(t, ds.Shops, 1)
	assert.Len(t, ds.Admins, 1)
	assert.Len(t, ds.Distributions, 4)
	require.Len(t, ds.Stocks, 1)

	stock := ds.Stocks[0]
	assert.Equal(t, int64(101), stock.ShopID)
	assert.Equal(t, domain.Quantities{Wheat: 500, Rice: 750, Sugar: 200, Kerosene: 150}, stock.Levels())
	assert.Equal(t, now, stock.LastUpdated)

	arjun := ds.Beneficiaries[0]
	assert.Equal(t, "RCN12345", arjun.RationCardNumber)
	assert.Equal(t, 4, arjun.FamilySize)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(arjun.SecretHash), []byte("user123")))

	assert.Equal(t, domain.Kerosene.Unit(), "liters")
	assert.Equal(t, "kg", ds.Distributions[1].Unit)
	assert.Equal(t, domain.Rice, ds.Distributions[1].Item)

	require.Len(t, ds.Complaints, 2)
	assert.Equal(t, int64(401), ds.Complaints[0].ID)
	assert.Equal(t, domain.ComplaintPending, ds.Complaints[0].Status)
	assert.Equal(t, domain.ComplaintResolved, ds.Complaints[1].Status)
}

func TestComplaintsOrderedNewestFirst(t *testing.T) {
	f, err := seed.Parse([]byte(`
shops:
  - {id: 1, dealer_id: D1, dealer_name: Dee, secret: s}
stocks:
  - {id: 1, shop_id: 1}
beneficiaries:
  - {id: 1, name: B, ration_card_number: R1, national_id: N1, family_size: 1, shop_id: 1, secret: s}
complaints:
  - {id: 1, beneficiary_id: 1, shop_id: 1, text: old, status: Pending, date: 2023-01-01T00:00:00Z}
  - {id: 2, beneficiary_id: 1, shop_id: 1, text: new, status: Pending, date: 2023-06-01T00:00:00Z}
`))
	require.NoError(t, err)

	ds, err := f.Dataset(bcrypt.MinCost, time.Now())
	require.NoError(t, err)
	require.Len(t, ds.Complaints, 2)
	assert.Equal(t, int64(2), ds.Complaints[0].ID)
}

func TestParseRejectsInvalidSeeds(t *testing.T) {
	const base = `
shops:
  - {id: 101, dealer_id: D1, dealer_name: Dee, secret: s}
stocks:
  - {id: 201, shop_id: 101}
`
	tests := []struct {
		name string
		yaml string
		want string
	}{
		{
			name: "unknown field",
			yaml: base + "widgets: []\n",
			want: "widgets",
		},
		{
			name: "zero family size",
			yaml: base + `beneficiaries:
  - {id: 1, name: B, ration_card_number: R1, national_id: N1, family_size: 0, shop_id: 101, secret: s}
`,
			want: "FamilySize",
		},
		{
			name: "unknown shop",
			yaml: base + `beneficiaries:
  - {id: 1, name: B, ration_card_number: R1, national_id: N1, family_size: 2, shop_id: 999, secret: s}
`,
			want: "unknown shop 999",
		},
		{
			name: "duplicate ration card",
			yaml: base + `beneficiaries:
  - {id: 1, name: B, ration_card_number: R1, national_id: N1, family_size: 2, shop_id: 101, secret: s}
  - {id: 2, name: C, ration_card_number: R1, national_id: N2, family_size: 2, shop_id: 101, secret: s}
`,
			want: "duplicate ration card number",
		},
		{
			name: "negative stock",
			yaml: `
shops:
  - {id: 101, dealer_id: D1, dealer_name: Dee, secret: s}
stocks:
  - {id: 201, shop_id: 101, wheat_kg: -1}
`,
			want: "WheatKg",
		},
		{
			name: "infinite stock",
			yaml: `
shops:
  - {id: 101, dealer_id: D1, dealer_name: Dee, secret: s}
stocks:
  - {id: 201, shop_id: 101, rice_kg: .inf}
`,
			want: "RiceKg",
		},
		{
			name: "nan quantity",
			yaml: base + `beneficiaries:
  - {id: 1, name: B, ration_card_number: R1, national_id: N1, family_size: 2, shop_id: 101, secret: s}
distributions:
  - {id: 1, beneficiary_id: 1, shop_id: 101, item: Wheat, quantity: .nan, date: 2023-01-01T00:00:00Z}
`,
			want: "Quantity",
		},
		{
			name: "shop without stock",
			yaml: `
shops:
  - {id: 101, dealer_id: D1, dealer_name: Dee, secret: s}
`,
			want: "no stock record",
		},
		{
			name: "bad item",
			yaml: base + `beneficiaries:
  - {id: 1, name: B, ration_card_number: R1, national_id: N1, family_size: 2, shop_id: 101, secret: s}
distributions:
  - {id: 1, beneficiary_id: 1, shop_id: 101, item: Salt, quantity: 1, date: 2023-01-01T00:00:00Z}
`,
			want: "Item",
		},
		{
			name: "bad complaint status",
			yaml: base + `beneficiaries:
  - {id: 1, name: B, ration_card_number: R1, national_id: N1, family_size: 2, shop_id: 101, secret: s}
complaints:
  - {id: 1, beneficiary_id: 1, shop_id: 101, text: x, status: Open, date: 2023-01-01T00:00:00Z}
`,
			want: "Status",
		},
		{
			name: "duplicate admin login",
			yaml: base + `admins:
  - {id: 1, name: A, admin_id: ADMIN, secret: s}
  - {id: 2, name: B, admin_id: ADMIN, secret: s}
`,
			want: "duplicate admin id",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := seed.Parse([]byte(tc.yaml))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoad(t *testing.T) {
	f, err := seed.Load("")
	require.NoError(t, err)
	assert.Len(t, f.Shops, 1)

	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
shops:
  - {id: 7, dealer_id: D7, dealer_name: Dee, secret: s}
stocks:
  - {id: 70, shop_id: 7, wheat_kg: 1}
`), 0o600))

	f, err = seed.Load(path)
	require.NoError(t, err)
	require.Len(t, f.Shops, 1)
	assert.Equal(t, int64(7), f.Shops[0].ID)

	_, err = seed.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}
