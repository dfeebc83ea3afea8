package main

import (
	"context"
	"errors"
	"os"
	"time"

	"servicehub/internal/config"
	"servicehub/internal/database"
	"servicehub/internal/domain"
	"servicehub/internal/modules/auth"
	"servicehub/internal/pkg/logger"
	"servicehub/internal/repository"

	"golang.org/x/crypto/bcrypt"
)

type seedUser struct {
	email    string
	password string
	name     string
	role     domain.Role
}

var users = []seedUser{
	{"admin@servicehub.local", "admin-pass-123", "Admin", domain.RoleAdmin},
	{"stays@servicehub.local", "host-pass-123", "Sea View Stays", domain.RoleHost},
	{"wellness@servicehub.local", "host-pass-123", "City Wellness", domain.RoleHost},
	{"asha@servicehub.local", "customer-pass-123", "Asha Rao", domain.RoleCustomer},
	{"vikram@servicehub.local", "customer-pass-123", "Vikram Shah", domain.RoleCustomer},
}

func main() {
	log, _ := logger.New("info", false)

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("config: %v", err)
	}
	db, err := database.Connect(cfg.DatabaseURL, log, database.Options{MaxOpenConns: 1})
	if err != nil {
		log.Fatal("DB connection failed: %v", err)
	}
	if err := repository.Migrate(db); err != nil {
		log.Fatal("migrate failed: %v", err)
	}
	ctx := context.Background()

	// ================== PLANS ==================
	plans := config.DefaultPlans
	if _, err := os.Stat(cfg.PlansFile); err == nil {
		if plans, err = config.LoadPlans(cfg.PlansFile); err != nil {
			log.Fatal("plans: %v", err)
		}
	}
	subs := repository.NewSubscriptionRepository(db)
	if err := subs.UpsertPlans(ctx, plans); err != nil {
		log.Fatal("plans: %v", err)
	}
	log.Info("plans upserted: %d", len(plans))

	// ================== USERS ==================
	userRepo := repository.NewUserRepository(db)
	ids := make(map[string]int64, len(users))
	for _, su := range users {
		if existing, err := userRepo.GetByEmail(ctx, su.email); err == nil {
			ids[su.email] = existing.ID
			log.Info("user exists: %s", su.email)
			continue
		}
		hash, err := auth.HashPassword(su.password, bcrypt.DefaultCost)
		if err != nil {
			log.Fatal("hash: %v", err)
		}
		u := &domain.User{Email: su.email, PasswordHash: hash, Role: su.role, Name: su.name}
		if err := userRepo.Create(ctx, u); err != nil {
			log.Fatal("create user %s: %v", su.email, err)
		}
		ids[su.email] = u.ID
		log.Info("user created: %s / %s (%s)", su.email, su.password, su.role)
	}
	stays := ids["stays@servicehub.local"]
	wellness := ids["wellness@servicehub.local"]

	// ================== SUBSCRIPTIONS ==================
	now := time.Now().UTC()
	adminID := ids["admin@servicehub.local"]
	for hostID, planID := range map[int64]string{stays: "scale", wellness: "growth"} {
		if _, err := subs.GetByHost(ctx, hostID); err == nil {
			continue
		} else if !errors.Is(err, repository.ErrNotFound) {
			log.Fatal("subscription lookup: %v", err)
		}
		end := domain.BillingYearly.Extend(now)
		sub := &domain.HostSubscription{
			HostID:         hostID,
			PlanID:         planID,
			Status:         domain.SubscriptionActive,
			StartDate:      &now,
			EndDate:        &end,
			BillingPeriod:  domain.BillingYearly,
			PaymentStatus:  domain.BillingVerified,
			TransactionRef: "SEED",
			ReviewedBy:     &adminID,
			ReviewedAt:     &now,
		}
		if err := subs.Create(ctx, sub); err != nil {
			log.Fatal("create subscription: %v", err)
		}
		log.Info("subscription: host_id=%d plan=%s until=%s", hostID, planID, end.Format("2006-01-02"))
	}

	// ================== PROPERTIES ==================
	props := repository.NewPropertyRepository(db)
	existing, err := props.CountByOwner(ctx, stays)
	if err != nil {
		log.Fatal("count properties: %v", err)
	}
	if existing > 0 {
		log.Info("properties already seeded")
	} else {
		for _, p := range demoProperties(stays, wellness) {
			if err := props.Create(ctx, p); err != nil {
				log.Fatal("create property %s: %v", p.Name, err)
			}
			log.Info("property: id=%d %s (%s)", p.ID, p.Name, p.Department)
		}
	}

	// ================== COUPONS ==================
	coupons := repository.NewCouponRepository(db)
	for _, c := range []*domain.Coupon{
		{Code: "WELCOME10", Description: "10% off your first booking", DiscountType: domain.DiscountPercentage, DiscountValue: 10},
		{Code: "FLAT200", Description: "200 off any booking", DiscountType: domain.DiscountFlat, DiscountValue: 200},
	} {
		c.ValidFrom = now.AddDate(0, 0, -1)
		c.ValidTo = now.AddDate(0, 3, 0)
		c.Status = domain.CouponActive
		c.CreatedAt = now
		if err := coupons.Create(ctx, c); err != nil {
			if errors.Is(err, repository.ErrDuplicate) {
				log.Info("coupon exists: %s", c.Code)
				continue
			}
			log.Fatal("create coupon %s: %v", c.Code, err)
		}
		log.Info("coupon: %s", c.Code)
	}

	log.Info("seed completed")
}

func demoProperties(stays, wellness int64) []*domain.Property {
	return []*domain.Property{
		{
			Department: domain.DepartmentHotel, OwnerID: stays, Name: "Sea View Residency", City: "Goa",
			Address: "Calangute Beach Road", BasePrice: 4200, RequiresPrepayment: true, Status: domain.PropertyActive,
			Services: []domain.OfferedService{{Name: "Airport pickup", Price: 900}, {Name: "Breakfast", Price: 450}},
		},
		{
			Department: domain.DepartmentCab, OwnerID: stays, Name: "Sea View Cabs", City: "Goa",
			BasePrice: 18, Status: domain.PropertyActive,
			CabRates: map[domain.CabCategory]float64{domain.CabEconomy: 14, domain.CabPremium: 22, domain.CabXL: 28},
		},
		{
			Department: domain.DepartmentSalon, OwnerID: wellness, Name: "City Wellness Salon", City: "Pune",
			Address: "FC Road", BasePrice: 300, Status: domain.PropertyActive,
			Services:    []domain.OfferedService{{Name: "Haircut", Price: 250}, {Name: "Facial", Price: 900}},
			Specialists: []domain.Specialist{{Name: "Meera", Title: "Senior stylist"}, {Name: "Kabir", Title: "Stylist"}},
		},
		{
			Department: domain.DepartmentHospital, OwnerID: wellness, Name: "City Wellness Clinic", City: "Pune",
			Address: "Baner Road", BasePrice: 700, RequiresPrepayment: true, Status: domain.PropertyActive,
			Specialists: []domain.Specialist{{Name: "Dr. Iyer", Title: "General physician"}},
		},
	}
}
