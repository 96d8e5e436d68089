package models

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/HouseRent-BookingService/internal/domain"
)

var (
	// ErrInvalidStatus is returned for an unknown booking status
	ErrInvalidStatus = errors.New("invalid booking status")

	// ErrInvalidPaymentStatus is returned for an unknown payment status
	ErrInvalidPaymentStatus = errors.New("invalid payment status")
)

// Request models

// ListTenantBookingsRequest lists the bookings made by a tenant
type ListTenantBookingsRequest struct {
	Caller   domain.Caller
	TenantID string
	Status   *string
	Limit    uint64
	Offset   uint64
}

// ListOwnerBookingsRequest lists the bookings on an owner's properties
type ListOwnerBookingsRequest struct {
	Caller     domain.Caller
	OwnerID    string
	PropertyID *string
	Status     *string
	Limit      uint64
	Offset     uint64
}

// UpdateStatusRequest moves a booking along the lifecycle
type UpdateStatusRequest struct {
	Caller domain.Caller
	Status string
	Reason string // used when Status is cancelled
}

// CancelBookingRequest records a cancellation request
type CancelBookingRequest struct {
	Caller domain.Caller
	Reason string
}

// AddMessageRequest appends a negotiation message
type AddMessageRequest struct {
	Caller domain.Caller
	Text   string
}

// UpdatePaymentStatusRequest changes the payment axis of a booking
type UpdatePaymentStatusRequest struct {
	Caller        domain.Caller
	PaymentStatus string
}

// Page is one page of a booking listing
type Page struct {
	Bookings []*domain.Booking
	Total    int
	Limit    uint64
	Offset   uint64
}

// Response models

// MessageResponse is one negotiation message
type MessageResponse struct {
	SenderID  string    `json:"senderId"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// CancellationResponse is the cancellation record of a booking
type CancellationResponse struct {
	Date         time.Time       `json:"date"`
	Reason       string          `json:"reason"`
	RequestedBy  string          `json:"requestedBy"`
	RefundAmount decimal.Decimal `json:"refundAmount"`
	Status       string          `json:"status"`
}

// BookingResponse is the booking as returned to API clients
type BookingResponse struct {
	ID            string                `json:"id"`
	PropertyID    string                `json:"propertyId"`
	TenantID      string                `json:"tenantId"`
	OwnerID       string                `json:"ownerId"`
	StartDate     string                `json:"startDate"` // "2024-01-01"
	EndDate       string                `json:"endDate"`
	TotalAmount   decimal.Decimal       `json:"totalAmount"`
	DepositAmount decimal.Decimal       `json:"depositAmount"`
	Status        string                `json:"status"`
	PaymentStatus string                `json:"paymentStatus"`
	Messages      []MessageResponse     `json:"messages"`
	Cancellation  *CancellationResponse `json:"cancellation,omitempty"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}

// BookingListResponse is one page of bookings
type BookingListResponse struct {
	Bookings []BookingResponse `json:"bookings"`
	Total    int               `json:"total"`
	Limit    uint64            `json:"limit"`
	Offset   uint64            `json:"offset"`
}

// Conversion

// FromDomainBooking converts the domain model into the response DTO
func FromDomainBooking(b *domain.Booking) *BookingResponse {
	if b == nil {
		return nil
	}

	resp := &BookingResponse{
		ID:            b.ID.String(),
		PropertyID:    b.PropertyID,
		TenantID:      b.TenantID,
		OwnerID:       b.OwnerID,
		StartDate:     b.StartDate.Format(domain.DateFormat),
		EndDate:       b.EndDate.Format(domain.DateFormat),
		TotalAmount:   b.TotalAmount,
		DepositAmount: b.DepositAmount,
		Status:        string(b.Status),
		PaymentStatus: string(b.PaymentStatus),
		Messages:      make([]MessageResponse, len(b.Messages)),
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}

	for i, m := range b.Messages {
		resp.Messages[i] = MessageResponse{SenderID: m.SenderID, Text: m.Text, Timestamp: m.Timestamp}
	}

	if c := b.Cancellation; c != nil {
		resp.Cancellation = &CancellationResponse{
			Date:         c.Date,
			Reason:       c.Reason,
			RequestedBy:  c.RequestedBy,
			RefundAmount: c.RefundAmount,
			Status:       string(c.Status),
		}
	}

	return resp
}

// FromDomainPage converts a page of bookings into the list DTO
func FromDomainPage(page *Page) *BookingListResponse {
	resp := &BookingListResponse{
		Bookings: make([]BookingResponse, 0, len(page.Bookings)),
		Total:    page.Total,
		Limit:    page.Limit,
		Offset:   page.Offset,
	}

	for _, b := range page.Bookings {
		if bookingResp := FromDomainBooking(b); bookingResp != nil {
			resp.Bookings = append(resp.Bookings, *bookingResp)
		}
	}

	return resp
}

// ToDomainBookingStatus converts a string into domain.BookingStatus with validation
func ToDomainBookingStatus(status string) (domain.BookingStatus, error) {
	s := domain.BookingStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidStatus
	}
	return s, nil
}

// ToDomainPaymentStatus converts a string into domain.PaymentStatus with validation
func ToDomainPaymentStatus(status string) (domain.PaymentStatus, error) {
	s := domain.PaymentStatus(status)
	if !s.IsValid() {
		return "", ErrInvalidPaymentStatus
	}
	return s, nil
}

// NormalizePage applies the default and maximum page size
func NormalizePage(limit uint64) uint64 {
	switch {
	case limit == 0:
		return domain.DefaultListLimit
	case limit > domain.MaxListLimit:
		return domain.MaxListLimit
	default:
		return limit
	}
}
