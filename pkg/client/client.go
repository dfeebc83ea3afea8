// Package client is a Go client for the servicehub HTTP API. Every failed
// call returns a *domain.Error, whatever error shape the server sent.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"servicehub/internal/domain"
	"servicehub/internal/lifecycle"
	"servicehub/internal/modules/auth"
	"servicehub/internal/modules/booking"
	"servicehub/internal/modules/coupon"
	"servicehub/internal/modules/payment"
	"servicehub/internal/modules/property"
	"servicehub/internal/modules/subscription"
)

type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

// New returns a client for baseURL, e.g. http://localhost:8080/api/v1.
func New(baseURL string, timeout time.Duration) *Client {
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

// WithToken returns a copy of the client that authenticates as token.
func (c *Client) WithToken(token string) *Client {
	cp := *c
	cp.token = token
	return &cp
}

type envelope struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%w: encode request: %v", ErrInternal, err)
		}
		reader = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("%w: build request: %v", ErrInternal, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: %s %s: %v", ErrInternal, method, path, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read response: %v", ErrInternal, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return DecodeError(resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("%w: decode data: %v", ErrInvalidResponse, err)
	}
	return nil
}

/* ---------- auth ---------- */

func (c *Client) Register(ctx context.Context, req auth.RegisterRequest) (*auth.AuthResponse, error) {
	var out auth.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/register", req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*auth.AuthResponse, error) {
	var out auth.AuthResponse
	if err := c.do(ctx, http.MethodPost, "/auth/login", auth.LoginRequest{Email: email, Password: password}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

/* ---------- properties ---------- */

func (c *Client) CreateProperty(ctx context.Context, req property.CreatePropertyRequest) (*domain.Property, error) {
	var out struct {
		Property *domain.Property `json:"property"`
	}
	if err := c.do(ctx, http.MethodPost, "/host/properties", req, &out); err != nil {
		return nil, err
	}
	return out.Property, nil
}

func (c *Client) GetProperty(ctx context.Context, id int64) (*domain.Property, error) {
	var out struct {
		Property *domain.Property `json:"property"`
	}
	if err := c.do(ctx, http.MethodGet, fmt.Sprintf("/properties/%d", id), nil, &out); err != nil {
		return nil, err
	}
	return out.Property, nil
}

/* ---------- bookings ---------- */

func (c *Client) Quote(ctx context.Context, propertyID int64, req booking.BookingRequest) (*booking.QuoteResult, error) {
	var out booking.QuoteResult
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/properties/%d/quote", propertyID), req, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateBooking(ctx context.Context, propertyID int64, req booking.BookingRequest) (*domain.Booking, error) {
	return c.bookingCall(ctx, http.MethodPost, fmt.Sprintf("/properties/%d/bookings", propertyID), req)
}

func (c *Client) GetBooking(ctx context.Context, id int64) (*domain.Booking, error) {
	return c.bookingCall(ctx, http.MethodGet, fmt.Sprintf("/bookings/%d", id), nil)
}

func (c *Client) CancelBooking(ctx context.Context, id int64, reason string) (*domain.Booking, error) {
	return c.bookingCall(ctx, http.MethodPatch, fmt.Sprintf("/bookings/%d/cancel", id), booking.CancelRequest{Reason: reason})
}

func (c *Client) UpdateBookingStatus(ctx context.Context, id int64, status domain.BookingStatus) (*domain.Booking, error) {
	return c.bookingCall(ctx, http.MethodPatch, fmt.Sprintf("/bookings/%d/status", id), booking.UpdateStatusRequest{Status: status})
}

func (c *Client) ConfirmByCash(ctx context.Context, id int64) (*domain.Booking, error) {
	return c.bookingCall(ctx, http.MethodPatch, fmt.Sprintf("/bookings/%d/confirm-cash", id), nil)
}

func (c *Client) bookingCall(ctx context.Context, method, path string, body any) (*domain.Booking, error) {
	var out struct {
		Booking *domain.Booking `json:"booking"`
	}
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out.Booking, nil
}

/* ---------- payments ---------- */

func (c *Client) SubmitPayment(ctx context.Context, bookingID int64, req payment.SubmitPaymentRequest) (*domain.Payment, error) {
	var out struct {
		Payment *domain.Payment `json:"payment"`
	}
	if err := c.do(ctx, http.MethodPost, fmt.Sprintf("/bookings/%d/payments", bookingID), req, &out); err != nil {
		return nil, err
	}
	return out.Payment, nil
}

func (c *Client) ApprovePayment(ctx context.Context, paymentID, notes string) (*payment.Decision, error) {
	var out payment.Decision
	path := "/payments/" + url.PathEscape(paymentID) + "/approve"
	if err := c.do(ctx, http.MethodPatch, path, payment.ApproveRequest{Notes: notes}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) RejectPayment(ctx context.Context, paymentID, reason string) (*payment.Decision, error) {
	var out payment.Decision
	path := "/payments/" + url.PathEscape(paymentID) + "/reject"
	if err := c.do(ctx, http.MethodPatch, path, payment.RejectRequest{Reason: reason}, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

/* ---------- coupons ---------- */

func (c *Client) CreateCoupon(ctx context.Context, req coupon.CreateCouponRequest) (*domain.Coupon, error) {
	var out struct {
		Coupon *domain.Coupon `json:"coupon"`
	}
	if err := c.do(ctx, http.MethodPost, "/admin/coupons", req, &out); err != nil {
		return nil, err
	}
	return out.Coupon, nil
}

/* ---------- subscriptions ---------- */

func (c *Client) SelectPlan(ctx context.Context, planID string, period domain.BillingPeriod) (*domain.HostSubscription, error) {
	return c.subscriptionCall(ctx, http.MethodPost, "/host/subscription", subscription.SelectPlanRequest{PlanID: planID, BillingPeriod: period})
}

func (c *Client) SubmitSubscriptionPayment(ctx context.Context, req subscription.SubmitPaymentRequest) (*domain.HostSubscription, error) {
	return c.subscriptionCall(ctx, http.MethodPost, "/host/subscription/payment", req)
}

func (c *Client) ApproveSubscription(ctx context.Context, id string) (*domain.HostSubscription, error) {
	return c.subscriptionCall(ctx, http.MethodPatch, "/admin/subscriptions/"+url.PathEscape(id)+"/approve", nil)
}

func (c *Client) RejectSubscription(ctx context.Context, id, reason string) (*domain.HostSubscription, error) {
	return c.subscriptionCall(ctx, http.MethodPatch, "/admin/subscriptions/"+url.PathEscape(id)+"/reject", subscription.RejectRequest{Reason: reason})
}

func (c *Client) Access(ctx context.Context) (*lifecycle.AccessDecision, error) {
	var out lifecycle.AccessDecision
	if err := c.do(ctx, http.MethodGet, "/host/subscription/access", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) subscriptionCall(ctx context.Context, method, path string, body any) (*domain.HostSubscription, error) {
	var out struct {
		Subscription *domain.HostSubscription `json:"subscription"`
	}
	if err := c.do(ctx, method, path, body, &out); err != nil {
		return nil, err
	}
	return out.Subscription, nil
}
