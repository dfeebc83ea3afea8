package repository

import (
	"context"
	"fmt"
	"strings"
	"testing"
	"time"

	"servicehub/internal/database"
	"servicehub/internal/domain"
	"servicehub/internal/pkg/logger"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	name := strings.NewReplacer("/", "_", " ", "_").Replace(t.Name())
	dsn := fmt.Sprintf("file:repo_%s?mode=memory&cache=shared", name)

	db, err := database.Connect(dsn, logger.Nop(), database.Options{MaxOpenConns: 1})
	require.NoError(t, err)
	require.NoError(t, Migrate(db))

	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

func seedSalon(t *testing.T, repo *PropertyRepository, ownerID int64) *domain.Property {
	t.Helper()
	p := &domain.Property{
		Department:  domain.DepartmentSalon,
		OwnerID:     ownerID,
		Name:        "Lotus Salon",
		City:        "Pune",
		BasePrice:   400,
		Status:      domain.PropertyActive,
		Services:    []domain.OfferedService{{Name: "Haircut", Price: 250}, {Name: "Facial", Price: 900}},
		Specialists: []domain.Specialist{{Name: "Meera", Title: "Senior stylist"}},
	}
	require.NoError(t, repo.Create(context.Background(), p))
	return p
}

func seedBooking(t *testing.T, repo *BookingRepository, p *domain.Property, customerID int64, status domain.BookingStatus) *domain.Booking {
	t.Helper()
	b := &domain.Booking{
		Department: p.Department,
		PropertyID: p.ID,
		HostID:     p.OwnerID,
		CustomerID: customerID,
		Details:    domain.AppointmentDetails{At: time.Date(2026, 7, 1, 10, 0, 0, 0, time.UTC)},
		BasePrice:  p.BasePrice,
		FinalPrice: p.BasePrice,
		Status:     status,
	}
	require.NoError(t, repo.Create(context.Background(), b))
	return b
}
