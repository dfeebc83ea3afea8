package payment

import "servicehub/internal/domain"

type SubmitPaymentRequest struct {
	Amount         float64              `json:"amount" validate:"required,gt=0"`
	Method         domain.PaymentMethod `json:"method" validate:"required,oneof=upi net_banking card"`
	TransactionRef string               `json:"transaction_ref" validate:"required,max=128"`
	ReceiptRef     string               `json:"receipt_ref" validate:"required,max=512"`
}

type ApproveRequest struct {
	Notes string `json:"notes" validate:"max=1000"`
}

type RejectRequest struct {
	Reason string `json:"reason" validate:"max=1000"`
}

// Decision is the outcome of approving or rejecting a payment.
type Decision struct {
	Booking *domain.Booking `json:"booking"`
	Payment *domain.Payment `json:"payment"`
}
