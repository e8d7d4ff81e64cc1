package order

import (
	"math/rand"
	"time"

	"github.com/corray333/backend-labs/store/internal/service/models/currency"
	"github.com/corray333/backend-labs/store/internal/service/models/orderitem"
)

// Order represents a customer's purchase intent. TotalPriceCents is derived
// from the line items at write time and never supplied by the caller.
type Order struct {
	ID                 int64                 `json:"id"`
	UserID             int64                 `json:"user_id"`
	Status             string                `json:"status"`
	ShippingAddress    string                `json:"shipping_address"`
	PaymentMethod      string                `json:"payment_method"`
	PaymentStatus      string                `json:"payment_status"`
	ShippingStatus     string                `json:"shipping_status"`
	TrackingNumber     string                `json:"tracking_number"`
	TotalPriceCents    int64                 `json:"total_price"`
	TotalPriceCurrency currency.Currency     `json:"total_price_currency"`
	CreatedAt          time.Time             `json:"created_at"`
	UpdatedAt          time.Time             `json:"updated_at"`
	OrderItems         []orderitem.OrderItem `json:"order_items"`
}

// Patch holds a selective header update. A nil field means "leave the stored
// value alone"; presence is expressed by the type, not by convention.
type Patch struct {
	UserID          *int64  `json:"user_id,omitempty"`
	Status          *string `json:"status,omitempty"`
	ShippingAddress *string `json:"shipping_address,omitempty"`
	PaymentMethod   *string `json:"payment_method,omitempty"`
	PaymentStatus   *string `json:"payment_status,omitempty"`
	ShippingStatus  *string `json:"shipping_status,omitempty"`
	TrackingNumber  *string `json:"tracking_number,omitempty"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (p *Patch) IsEmpty() bool {
	return p.UserID == nil &&
		p.Status == nil &&
		p.ShippingAddress == nil &&
		p.PaymentMethod == nil &&
		p.PaymentStatus == nil &&
		p.ShippingStatus == nil &&
		p.TrackingNumber == nil
}

const (
	trackingNumberPrefix  = "TRK"
	trackingNumberLength  = 10
	trackingNumberCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewTrackingNumber generates a tracking number of the form
// "TRK:" followed by 10 random uppercase-alphanumeric characters.
func NewTrackingNumber() string {
	b := make([]byte, trackingNumberLength)
	for i := range b {
		b[i] = trackingNumberCharset[rand.Intn(len(trackingNumberCharset))]
	}

	return trackingNumberPrefix + ":" + string(b)
}
