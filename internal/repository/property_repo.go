package repository

import (
	"context"
	"time"

	"servicehub/internal/domain"

	"gorm.io/gorm"
)

type PropertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) *PropertyRepository {
	return &PropertyRepository{db: db}
}

type propertyModel struct {
	ID                 int64     `gorm:"column:id;primaryKey"`
	Department         string    `gorm:"column:department;index;not null"`
	OwnerID            int64     `gorm:"column:owner_id;index;not null"`
	Name               string    `gorm:"column:name;not null"`
	City               string    `gorm:"column:city;index"`
	Address            string    `gorm:"column:address"`
	Description        string    `gorm:"column:description;type:text"`
	BasePrice          float64   `gorm:"column:base_price"`
	RequiresPrepayment bool      `gorm:"column:requires_prepayment"`
	Status             string    `gorm:"column:status;index;not null"`
	CreatedAt          time.Time `gorm:"column:created_at"`
	UpdatedAt          time.Time `gorm:"column:updated_at"`
}

func (propertyModel) TableName() string { return "properties" }

type cabRateModel struct {
	PropertyID int64   `gorm:"column:property_id;primaryKey"`
	Category   string  `gorm:"column:category;primaryKey"`
	RatePerKm  float64 `gorm:"column:rate_per_km"`
}

func (cabRateModel) TableName() string { return "cab_rates" }

type offeredServiceModel struct {
	ID         int64   `gorm:"column:id;primaryKey"`
	PropertyID int64   `gorm:"column:property_id;index;not null"`
	Name       string  `gorm:"column:name;not null"`
	Price      float64 `gorm:"column:price"`
}

func (offeredServiceModel) TableName() string { return "offered_services" }

type specialistModel struct {
	ID         int64  `gorm:"column:id;primaryKey"`
	PropertyID int64  `gorm:"column:property_id;index;not null"`
	Name       string `gorm:"column:name;not null"`
	Title      string `gorm:"column:title"`
}

func (specialistModel) TableName() string { return "specialists" }

func toDomainProperty(m propertyModel, rates []cabRateModel, services []offeredServiceModel, specialists []specialistModel) *domain.Property {
	p := &domain.Property{
		ID:                 m.ID,
		Department:         domain.Department(m.Department),
		OwnerID:            m.OwnerID,
		Name:               m.Name,
		City:               m.City,
		Address:            m.Address,
		Description:        m.Description,
		BasePrice:          m.BasePrice,
		RequiresPrepayment: m.RequiresPrepayment,
		Status:             domain.PropertyStatus(m.Status),
		CreatedAt:          m.CreatedAt,
		UpdatedAt:          m.UpdatedAt,
	}
	if len(rates) > 0 {
		p.CabRates = make(map[domain.CabCategory]float64, len(rates))
		for _, r := range rates {
			p.CabRates[domain.CabCategory(r.Category)] = r.RatePerKm
		}
	}
	for _, s := range services {
		p.Services = append(p.Services, toDomainService(s))
	}
	for _, s := range specialists {
		p.Specialists = append(p.Specialists, toDomainSpecialist(s))
	}
	return p
}

func toPropertyModel(p *domain.Property) propertyModel {
	return propertyModel{
		ID:                 p.ID,
		Department:         string(p.Department),
		OwnerID:            p.OwnerID,
		Name:               p.Name,
		City:               p.City,
		Address:            p.Address,
		Description:        p.Description,
		BasePrice:          p.BasePrice,
		RequiresPrepayment: p.RequiresPrepayment,
		Status:             string(p.Status),
		CreatedAt:          p.CreatedAt,
		UpdatedAt:          p.UpdatedAt,
	}
}

func toCabRateModels(propertyID int64, rates map[domain.CabCategory]float64) []cabRateModel {
	out := make([]cabRateModel, 0, len(rates))
	for cat, rate := range rates {
		out = append(out, cabRateModel{PropertyID: propertyID, Category: string(cat), RatePerKm: rate})
	}
	return out
}

func toDomainService(m offeredServiceModel) domain.OfferedService {
	return domain.OfferedService{ID: m.ID, PropertyID: m.PropertyID, Name: m.Name, Price: m.Price}
}

func toDomainSpecialist(m specialistModel) domain.Specialist {
	return domain.Specialist{ID: m.ID, PropertyID: m.PropertyID, Name: m.Name, Title: m.Title}
}

// Create inserts the property together with its cab rates, services and
// specialists.
func (r *PropertyRepository) Create(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		m := toPropertyModel(p)
		if err := tx.Create(&m).Error; err != nil {
			return translate(err)
		}
		p.ID = m.ID
		p.CreatedAt = m.CreatedAt
		p.UpdatedAt = m.UpdatedAt

		if err := replaceRates(tx, p.ID, p.CabRates); err != nil {
			return err
		}
		for i := range p.Services {
			s := offeredServiceModel{PropertyID: p.ID, Name: p.Services[i].Name, Price: p.Services[i].Price}
			if err := tx.Create(&s).Error; err != nil {
				return err
			}
			p.Services[i] = toDomainService(s)
		}
		for i := range p.Specialists {
			s := specialistModel{PropertyID: p.ID, Name: p.Specialists[i].Name, Title: p.Specialists[i].Title}
			if err := tx.Create(&s).Error; err != nil {
				return err
			}
			p.Specialists[i] = toDomainSpecialist(s)
		}
		return nil
	})
}

// Update writes the editable fields and replaces the cab rate table.
func (r *PropertyRepository) Update(ctx context.Context, p *domain.Property) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&propertyModel{}).Where("id = ?", p.ID).Updates(map[string]any{
			"name":                p.Name,
			"city":                p.City,
			"address":             p.Address,
			"description":         p.Description,
			"base_price":          p.BasePrice,
			"requires_prepayment": p.RequiresPrepayment,
			"updated_at":          time.Now().UTC(),
		})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return replaceRates(tx, p.ID, p.CabRates)
	})
}

func replaceRates(tx *gorm.DB, propertyID int64, rates map[domain.CabCategory]float64) error {
	if err := tx.Where("property_id = ?", propertyID).Delete(&cabRateModel{}).Error; err != nil {
		return err
	}
	if len(rates) == 0 {
		return nil
	}
	models := toCabRateModels(propertyID, rates)
	return tx.Create(&models).Error
}

func (r *PropertyRepository) UpdateStatus(ctx context.Context, id int64, status domain.PropertyStatus) error {
	res := r.db.WithContext(ctx).Model(&propertyModel{}).Where("id = ?", id).Updates(map[string]any{
		"status":     string(status),
		"updated_at": time.Now().UTC(),
	})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) GetByID(ctx context.Context, id int64) (*domain.Property, error) {
	var m propertyModel
	if err := r.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, translate(err)
	}
	props, err := r.hydrate(ctx, []propertyModel{m})
	if err != nil {
		return nil, err
	}
	return props[0], nil
}

type PropertyFilter struct {
	OwnerID    int64
	Department domain.Department
	City       string
	Status     domain.PropertyStatus
	Limit      int
	Offset     int
}

func (r *PropertyRepository) List(ctx context.Context, f PropertyFilter) ([]*domain.Property, error) {
	q := r.db.WithContext(ctx).Model(&propertyModel{})
	if f.OwnerID != 0 {
		q = q.Where("owner_id = ?", f.OwnerID)
	}
	if f.Department != "" {
		q = q.Where("department = ?", string(f.Department))
	}
	if f.City != "" {
		q = q.Where("LOWER(city) = LOWER(?)", f.City)
	}
	if f.Status != "" {
		q = q.Where("status = ?", string(f.Status))
	}
	if f.Limit > 0 {
		q = q.Limit(f.Limit).Offset(f.Offset)
	}

	var rows []propertyModel
	if err := q.Order("id ASC").Find(&rows).Error; err != nil {
		return nil, err
	}
	return r.hydrate(ctx, rows)
}

// CountByOwner counts the properties that occupy a plan slot; cancelled ones
// do not.
func (r *PropertyRepository) CountByOwner(ctx context.Context, ownerID int64) (int, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&propertyModel{}).
		Where("owner_id = ? AND status <> ?", ownerID, string(domain.PropertyCancelled)).
		Count(&n).Error
	return int(n), err
}

// Delete removes the property and everything attached to it.
func (r *PropertyRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for _, child := range []any{&cabRateModel{}, &offeredServiceModel{}, &specialistModel{}} {
			if err := tx.Where("property_id = ?", id).Delete(child).Error; err != nil {
				return err
			}
		}
		res := tx.Delete(&propertyModel{}, id)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
}

func (r *PropertyRepository) AddService(ctx context.Context, s *domain.OfferedService) error {
	m := offeredServiceModel{PropertyID: s.PropertyID, Name: s.Name, Price: s.Price}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = toDomainService(m)
	return nil
}

func (r *PropertyRepository) DeleteService(ctx context.Context, propertyID, serviceID int64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND property_id = ?", serviceID, propertyID).Delete(&offeredServiceModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *PropertyRepository) AddSpecialist(ctx context.Context, s *domain.Specialist) error {
	m := specialistModel{PropertyID: s.PropertyID, Name: s.Name, Title: s.Title}
	if err := r.db.WithContext(ctx).Create(&m).Error; err != nil {
		return err
	}
	*s = toDomainSpecialist(m)
	return nil
}

func (r *PropertyRepository) DeleteSpecialist(ctx context.Context, propertyID, specialistID int64) error {
	res := r.db.WithContext(ctx).Where("id = ? AND property_id = ?", specialistID, propertyID).Delete(&specialistModel{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// hydrate loads the child rows of all given properties with one query per
// child table.
func (r *PropertyRepository) hydrate(ctx context.Context, rows []propertyModel) ([]*domain.Property, error) {
	if len(rows) == 0 {
		return []*domain.Property{}, nil
	}
	ids := make([]int64, len(rows))
	for i, m := range rows {
		ids[i] = m.ID
	}

	db := r.db.WithContext(ctx)
	var (
		rates       []cabRateModel
		services    []offeredServiceModel
		specialists []specialistModel
	)
	if err := db.Where("property_id IN ?", ids).Find(&rates).Error; err != nil {
		return nil, err
	}
	if err := db.Where("property_id IN ?", ids).Order("id ASC").Find(&services).Error; err != nil {
		return nil, err
	}
	if err := db.Where("property_id IN ?", ids).Order("id ASC").Find(&specialists).Error; err != nil {
		return nil, err
	}

	ratesBy := make(map[int64][]cabRateModel)
	for _, x := range rates {
		ratesBy[x.PropertyID] = append(ratesBy[x.PropertyID], x)
	}
	servicesBy := make(map[int64][]offeredServiceModel)
	for _, x := range services {
		servicesBy[x.PropertyID] = append(servicesBy[x.PropertyID], x)
	}
	specialistsBy := make(map[int64][]specialistModel)
	for _, x := range specialists {
		specialistsBy[x.PropertyID] = append(specialistsBy[x.PropertyID], x)
	}

	out := make([]*domain.Property, 0, len(rows))
	for _, m := range rows {
		out = append(out, toDomainProperty(m, ratesBy[m.ID], servicesBy[m.ID], specialistsBy[m.ID]))
	}
	return out, nil
}
