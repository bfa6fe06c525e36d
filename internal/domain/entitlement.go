package domain

// Monthly per-person quota.
var perPersonQuota = Quantities{Wheat: 5, Rice: 5, Sugar: 1, Kerosene: 0.5}

// Entitlement returns the monthly quota for a household of familySize people.
// familySize is validated where beneficiaries are created, not here.
func Entitlement(familySize int) Quantities {
	return perPersonQuota.Scale(float64(familySize))
}
