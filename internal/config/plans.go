package config

import (
	"fmt"
	"sort"

	"servicehub/internal/domain"

	"github.com/BurntSushi/toml"
)

type planCatalog struct {
	Plans []domain.Plan `toml:"plan"`
}

// DefaultPlans is used when no catalog file is configured.
var DefaultPlans = []domain.Plan{
	{ID: "starter", Name: "Starter", PriceMonthly: 999, PriceYearly: 9990, MaxProperties: 1, TrialDays: 14, SortOrder: 1, IsActive: true},
	{ID: "growth", Name: "Growth", PriceMonthly: 2999, PriceYearly: 29990, MaxProperties: 5, TrialDays: 14, SortOrder: 2, IsActive: true},
	{ID: "scale", Name: "Scale", PriceMonthly: 7999, PriceYearly: 79990, MaxProperties: -1, TrialDays: 14, SortOrder: 3, IsActive: true},
}

// LoadPlans reads the subscription plan catalog from a TOML file with one
// [[plan]] table per tier.
func LoadPlans(path string) ([]domain.Plan, error) {
	var catalog planCatalog
	if _, err := toml.DecodeFile(path, &catalog); err != nil {
		return nil, fmt.Errorf("decode plans %s: %w", path, err)
	}
	return normalizePlans(catalog.Plans)
}

// ParsePlans is LoadPlans for an in-memory document.
func ParsePlans(doc string) ([]domain.Plan, error) {
	var catalog planCatalog
	if _, err := toml.Decode(doc, &catalog); err != nil {
		return nil, fmt.Errorf("decode plans: %w", err)
	}
	return normalizePlans(catalog.Plans)
}

func normalizePlans(plans []domain.Plan) ([]domain.Plan, error) {
	if len(plans) == 0 {
		return nil, fmt.Errorf("plan catalog is empty")
	}
	seen := make(map[string]bool, len(plans))
	for i, p := range plans {
		if p.ID == "" || p.Name == "" {
			return nil, fmt.Errorf("plan #%d: id and name are required", i+1)
		}
		if seen[p.ID] {
			return nil, fmt.Errorf("duplicate plan id %q", p.ID)
		}
		seen[p.ID] = true
		if p.PriceMonthly < 0 || p.PriceYearly < 0 || p.TrialDays < 0 {
			return nil, fmt.Errorf("plan %q: prices and trial days must not be negative", p.ID)
		}
		if p.MaxProperties == 0 {
			return nil, fmt.Errorf("plan %q: max_properties must be positive or -1 for unlimited", p.ID)
		}
	}
	sort.SliceStable(plans, func(i, j int) bool { return plans[i].SortOrder < plans[j].SortOrder })
	return plans, nil
}
