package market

import (
	"encoding/json"
	"time"

	"github.com/shopspring/decimal"
)

type User struct {
	ID        int64     `json:"user_id"`
	Username  string    `json:"username"`
	Role      string    `json:"role"` // artisan | buyer | admin
	FullName  string    `json:"full_name"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type Product struct {
	ID          int64           `json:"product_id"`
	ArtisanID   int64           `json:"artisan_id"`
	Name        string          `json:"product_name"`
	Description string          `json:"description"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock_quantity"`
	Category    string          `json:"category"`
	ImageURL    string          `json:"image_url,omitempty"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}

type Order struct {
	ID              int64           `json:"order_id"`
	BuyerID         int64           `json:"buyer_id"`
	ProductID       int64           `json:"product_id"`
	Quantity        int             `json:"quantity"`
	TotalPrice      decimal.Decimal `json:"total_price"`
	Status          Status          `json:"status"`
	ShippingAddress string          `json:"shipping_address"`
	CreatedAt       time.Time       `json:"created_at"`
}

// LedgerEntry is the commission-split financial record created atomically
// with its order. Immutable once written except for payment status.
type LedgerEntry struct {
	ID            int64           `json:"transaction_id"`
	OrderID       int64           `json:"order_id"`
	ArtisanID     int64           `json:"artisan_id"`
	BuyerID       int64           `json:"buyer_id"`
	ProductID     int64           `json:"product_id"`
	Amount        decimal.Decimal `json:"amount"`
	CommissionFee decimal.Decimal `json:"commission_fee"`
	ArtisanPayout decimal.Decimal `json:"artisan_payout"`
	PaymentStatus string          `json:"payment_status"`
	CreatedAt     time.Time       `json:"created_at"`
}

// AuditEntry is append-only; one row is written for every purchase attempt,
// successful or not.
type AuditEntry struct {
	ID         int64           `json:"log_id"`
	UserID     *int64          `json:"user_id,omitempty"`
	ActionType string          `json:"action_type"`
	EntityType string          `json:"entity_type,omitempty"`
	EntityID   int64           `json:"entity_id,omitempty"`
	Details    json.RawMessage `json:"details,omitempty"`
	IPAddress  string          `json:"ip_address,omitempty"`
	CreatedAt  time.Time       `json:"created_at"`
}
