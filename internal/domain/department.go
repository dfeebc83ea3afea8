package domain

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

type Department string

const (
	DepartmentHotel    Department = "hotel"
	DepartmentSalon    Department = "salon"
	DepartmentHospital Department = "hospital"
	DepartmentCab      Department = "cab"
)

func (d Department) Valid() bool {
	switch d {
	case DepartmentHotel, DepartmentSalon, DepartmentHospital, DepartmentCab:
		return true
	}
	return false
}

type CabCategory string

const (
	CabEconomy CabCategory = "economy"
	CabPremium CabCategory = "premium"
	CabXL      CabCategory = "xl"
)

func (c CabCategory) Valid() bool {
	switch c {
	case CabEconomy, CabPremium, CabXL:
		return true
	}
	return false
}

// Details holds the department-specific part of a booking. The set of
// implementations is closed: StayDetails, AppointmentDetails,
// ConsultationDetails and RideDetails.
type Details interface {
	Department() Department
	Validate() error
	sealed()
}

// StayDetails is used by hotel bookings.
type StayDetails struct {
	CheckIn  time.Time `json:"check_in"`
	CheckOut time.Time `json:"check_out"`
}

func (StayDetails) Department() Department { return DepartmentHotel }
func (StayDetails) sealed()                {}

func (d StayDetails) Validate() error {
	if d.CheckIn.IsZero() || d.CheckOut.IsZero() {
		return Validation("check_in and check_out are required")
	}
	if !d.CheckOut.After(d.CheckIn) {
		return Validation("check_out must be after check_in")
	}
	return nil
}

// Nights is the number of started 24h periods between check-in and check-out.
func (d StayDetails) Nights() int {
	h := d.CheckOut.Sub(d.CheckIn).Hours()
	n := int(h / 24)
	if float64(n*24) < h {
		n++
	}
	return n
}

// AppointmentDetails is used by salon bookings.
type AppointmentDetails struct {
	At time.Time `json:"at"`
}

func (AppointmentDetails) Department() Department { return DepartmentSalon }
func (AppointmentDetails) sealed()                {}

func (d AppointmentDetails) Validate() error {
	if d.At.IsZero() {
		return Validation("appointment time is required")
	}
	return nil
}

// ConsultationDetails is used by hospital bookings.
type ConsultationDetails struct {
	At     time.Time `json:"at"`
	Reason string    `json:"reason"`
}

func (ConsultationDetails) Department() Department { return DepartmentHospital }
func (ConsultationDetails) sealed()                {}

func (d ConsultationDetails) Validate() error {
	if d.At.IsZero() {
		return Validation("consultation time is required")
	}
	if strings.TrimSpace(d.Reason) == "" {
		return Validation("reason for visit is required")
	}
	return nil
}

// RideDetails is used by cab bookings. Distance is supplied by the caller.
type RideDetails struct {
	At         time.Time   `json:"at"`
	Pickup     string      `json:"pickup"`
	Dropoff    string      `json:"dropoff"`
	Category   CabCategory `json:"category"`
	DistanceKm float64     `json:"distance_km"`
}

func (RideDetails) Department() Department { return DepartmentCab }
func (RideDetails) sealed()                {}

func (d RideDetails) Validate() error {
	if d.At.IsZero() {
		return Validation("pickup time is required")
	}
	if strings.TrimSpace(d.Pickup) == "" || strings.TrimSpace(d.Dropoff) == "" {
		return Validation("pickup and dropoff are required")
	}
	if !d.Category.Valid() {
		return Validation("unknown cab category %q", d.Category)
	}
	if d.DistanceKm <= 0 {
		return Validation("distance must be positive")
	}
	return nil
}

// DecodeDetails parses raw JSON into the details variant of dep.
func DecodeDetails(dep Department, raw []byte) (Details, error) {
	if len(raw) == 0 {
		return nil, Validation("details are required for %s bookings", dep)
	}

	var (
		d   Details
		err error
	)
	switch dep {
	case DepartmentHotel:
		var v StayDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case DepartmentSalon:
		var v AppointmentDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case DepartmentHospital:
		var v ConsultationDetails
		err = json.Unmarshal(raw, &v)
		d = v
	case DepartmentCab:
		var v RideDetails
		err = json.Unmarshal(raw, &v)
		d = v
	default:
		return nil, Validation("unknown department %q", dep)
	}
	if err != nil {
		return nil, Validation("invalid %s details: %v", dep, err)
	}
	return d, nil
}

func EncodeDetails(d Details) ([]byte, error) {
	if d == nil {
		return nil, fmt.Errorf("nil details")
	}
	return json.Marshal(d)
}
