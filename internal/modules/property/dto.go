package property

import "servicehub/internal/domain"

type ServiceInput struct {
	Name  string  `json:"name" validate:"required,max=120"`
	Price float64 `json:"price" validate:"gte=0"`
}

type SpecialistInput struct {
	Name  string `json:"name" validate:"required,max=120"`
	Title string `json:"title" validate:"max=120"`
}

type CreatePropertyRequest struct {
	// OwnerID is only read when an admin creates a property.
	OwnerID            int64                          `json:"owner_id"`
	Department         domain.Department              `json:"department" validate:"required,oneof=hotel salon hospital cab"`
	Name               string                         `json:"name" validate:"required,min=2,max=200"`
	City               string                         `json:"city" validate:"max=120"`
	Address            string                         `json:"address" validate:"max=300"`
	Description        string                         `json:"description" validate:"max=2000"`
	BasePrice          float64                        `json:"base_price" validate:"gte=0"`
	CabRates           map[domain.CabCategory]float64 `json:"cab_rates"`
	RequiresPrepayment bool                           `json:"requires_prepayment"`
	Services           []ServiceInput                 `json:"services" validate:"dive"`
	Specialists        []SpecialistInput              `json:"specialists" validate:"dive"`
}

// UpdatePropertyRequest replaces the editable fields. Department, owner and
// status are not editable here.
type UpdatePropertyRequest struct {
	Name               string                         `json:"name" validate:"required,min=2,max=200"`
	City               string                         `json:"city" validate:"max=120"`
	Address            string                         `json:"address" validate:"max=300"`
	Description        string                         `json:"description" validate:"max=2000"`
	BasePrice          float64                        `json:"base_price" validate:"gte=0"`
	CabRates           map[domain.CabCategory]float64 `json:"cab_rates"`
	RequiresPrepayment bool                           `json:"requires_prepayment"`
}

type UpdateStatusRequest struct {
	Status domain.PropertyStatus `json:"status" validate:"required,oneof=active inactive pending cancelled"`
}

type ListQuery struct {
	Department domain.Department `form:"department"`
	City       string            `form:"city"`
	Limit      int               `form:"limit"`
	Page       int               `form:"page"`
}
