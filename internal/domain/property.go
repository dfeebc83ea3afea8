package domain

import "time"

type PropertyStatus string

const (
	PropertyActive    PropertyStatus = "active"
	PropertyInactive  PropertyStatus = "inactive"
	PropertyPending   PropertyStatus = "pending"
	PropertyCancelled PropertyStatus = "cancelled"
)

func (s PropertyStatus) Valid() bool {
	switch s {
	case PropertyActive, PropertyInactive, PropertyPending, PropertyCancelled:
		return true
	}
	return false
}

type Property struct {
	ID                 int64                   `json:"id"`
	Department         Department              `json:"department"`
	OwnerID            int64                   `json:"owner_id"`
	Name               string                  `json:"name"`
	City               string                  `json:"city,omitempty"`
	Address            string                  `json:"address,omitempty"`
	Description        string                  `json:"description,omitempty"`
	BasePrice          float64                 `json:"base_price"`
	CabRates           map[CabCategory]float64 `json:"cab_rates,omitempty"`
	RequiresPrepayment bool                    `json:"requires_prepayment"`
	Status             PropertyStatus          `json:"status"`
	Services           []OfferedService        `json:"services,omitempty"`
	Specialists        []Specialist            `json:"specialists,omitempty"`
	CreatedAt          time.Time               `json:"created_at"`
	UpdatedAt          time.Time               `json:"updated_at"`
}

type OfferedService struct {
	ID         int64   `json:"id"`
	PropertyID int64   `json:"property_id"`
	Name       string  `json:"name"`
	Price      float64 `json:"price"`
}

type Specialist struct {
	ID         int64  `json:"id"`
	PropertyID int64  `json:"property_id"`
	Name       string `json:"name"`
	Title      string `json:"title,omitempty"`
}

// AcceptsBookings is false for every status other than active.
func (p *Property) AcceptsBookings() bool {
	return p.Status == PropertyActive
}

func (p *Property) FindService(id int64) (*OfferedService, bool) {
	for i := range p.Services {
		if p.Services[i].ID == id {
			return &p.Services[i], true
		}
	}
	return nil, false
}

func (p *Property) FindSpecialist(id int64) (*Specialist, bool) {
	for i := range p.Specialists {
		if p.Specialists[i].ID == id {
			return &p.Specialists[i], true
		}
	}
	return nil, false
}
