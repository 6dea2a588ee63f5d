package models

import (
	"time"

	"github.com/google/uuid"
)

// ReservationStatus is the lifecycle state of a reservation. Any status may
// follow any other.
type ReservationStatus string

const (
	ReservationPending   ReservationStatus = "pending"
	ReservationConfirmed ReservationStatus = "confirmed"
	ReservationCancelled ReservationStatus = "cancelled"
	ReservationCompleted ReservationStatus = "completed"
	ReservationNoShow    ReservationStatus = "no_show"
)

func (s ReservationStatus) Valid() bool {
	switch s {
	case ReservationPending, ReservationConfirmed, ReservationCancelled, ReservationCompleted, ReservationNoShow:
		return true
	}
	return false
}

// Orderable reports whether an order may be created for a reservation in this status.
func (s ReservationStatus) Orderable() bool {
	return s == ReservationCompleted
}

// Reservation is a table booking. Date and time are kept in their
// PostgreSQL text forms (YYYY-MM-DD and HH:MM:SS).
type Reservation struct {
	ID              uuid.UUID         `json:"id"`
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	ReservationDate string            `json:"reservation_date"`
	ReservationTime string            `json:"reservation_time"`
	NumberOfGuests  int               `json:"number_of_guests"`
	Status          ReservationStatus `json:"status"`
	Notes           *string           `json:"notes"`
	CreatedAt       time.Time         `json:"created_at"`
	UpdatedAt       time.Time         `json:"updated_at"`
}

// ReservationCreate is the request body for POST /reservations.
type ReservationCreate struct {
	CustomerName    string            `json:"customer_name"`
	CustomerEmail   string            `json:"customer_email"`
	CustomerPhone   string            `json:"customer_phone"`
	ReservationDate string            `json:"reservation_date"`
	ReservationTime string            `json:"reservation_time"`
	NumberOfGuests  int               `json:"number_of_guests"`
	Status          ReservationStatus `json:"status"`
	Notes           *string           `json:"notes"`
}

func (req *ReservationCreate) Validate() (*Reservation, error) {
	if err := validateRequired("customer_name", req.CustomerName, 255); err != nil {
		return nil, err
	}
	if err := validateRequired("customer_email", req.CustomerEmail, 255); err != nil {
		return nil, err
	}
	if err := validateRequired("customer_phone", req.CustomerPhone, 50); err != nil {
		return nil, err
	}
	date, err := normalizeDate("reservation_date", req.ReservationDate)
	if err != nil {
		return nil, err
	}
	clock, err := normalizeTime("reservation_time", req.ReservationTime)
	if err != nil {
		return nil, err
	}
	if req.NumberOfGuests < 1 {
		return nil, ValidationError{Field: "number_of_guests", Message: "must be at least 1"}
	}
	status := req.Status
	if status == "" {
		status = ReservationPending
	}
	if !status.Valid() {
		return nil, invalidStatus()
	}

	return &Reservation{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ReservationDate: date,
		ReservationTime: clock,
		NumberOfGuests:  req.NumberOfGuests,
		Status:          status,
		Notes:           optionalText(req.Notes),
	}, nil
}

// ReservationPatch lists the fields PUT /reservations/{id} may change.
type ReservationPatch struct {
	CustomerName    *string            `json:"customer_name"`
	CustomerEmail   *string            `json:"customer_email"`
	CustomerPhone   *string            `json:"customer_phone"`
	ReservationDate *string            `json:"reservation_date"`
	ReservationTime *string            `json:"reservation_time"`
	NumberOfGuests  *int               `json:"number_of_guests"`
	Status          *ReservationStatus `json:"status"`
	Notes           *string            `json:"notes"`
}

func (p *ReservationPatch) Empty() bool {
	return p.CustomerName == nil && p.CustomerEmail == nil && p.CustomerPhone == nil &&
		p.ReservationDate == nil && p.ReservationTime == nil && p.NumberOfGuests == nil &&
		p.Status == nil && p.Notes == nil
}

// Validate checks the supplied fields and normalizes date and time in place.
func (p *ReservationPatch) Validate() error {
	if p.Empty() {
		return ValidationError{Field: "body", Message: "no fields to update"}
	}
	if p.CustomerName != nil {
		if err := validateRequired("customer_name", *p.CustomerName, 255); err != nil {
			return err
		}
	}
	if p.CustomerEmail != nil {
		if err := validateRequired("customer_email", *p.CustomerEmail, 255); err != nil {
			return err
		}
	}
	if p.CustomerPhone != nil {
		if err := validateRequired("customer_phone", *p.CustomerPhone, 50); err != nil {
			return err
		}
	}
	if p.ReservationDate != nil {
		date, err := normalizeDate("reservation_date", *p.ReservationDate)
		if err != nil {
			return err
		}
		p.ReservationDate = &date
	}
	if p.ReservationTime != nil {
		clock, err := normalizeTime("reservation_time", *p.ReservationTime)
		if err != nil {
			return err
		}
		p.ReservationTime = &clock
	}
	if p.NumberOfGuests != nil && *p.NumberOfGuests < 1 {
		return ValidationError{Field: "number_of_guests", Message: "must be at least 1"}
	}
	if p.Status != nil && !p.Status.Valid() {
		return invalidStatus()
	}
	return nil
}

func (p *ReservationPatch) Apply(r *Reservation) {
	if p.CustomerName != nil {
		r.CustomerName = *p.CustomerName
	}
	if p.CustomerEmail != nil {
		r.CustomerEmail = *p.CustomerEmail
	}
	if p.CustomerPhone != nil {
		r.CustomerPhone = *p.CustomerPhone
	}
	if p.ReservationDate != nil {
		r.ReservationDate = *p.ReservationDate
	}
	if p.ReservationTime != nil {
		r.ReservationTime = *p.ReservationTime
	}
	if p.NumberOfGuests != nil {
		r.NumberOfGuests = *p.NumberOfGuests
	}
	if p.Status != nil {
		r.Status = *p.Status
	}
	if p.Notes != nil {
		r.Notes = optionalText(p.Notes)
	}
}

func invalidStatus() error {
	return ValidationError{
		Field:   "status",
		Message: "must be one of: pending, confirmed, cancelled, completed, no_show",
	}
}
