package models

import "time"

// OrderStatus is the lifecycle tag on an order. Placed is the only
// state an order can be cancelled from.
type OrderStatus string

const (
	OrderPlaced     OrderStatus = "Placed"
	OrderProcessing OrderStatus = "Processing"
	OrderShipped    OrderStatus = "Shipped"
	OrderDelivered  OrderStatus = "Delivered"
	OrderCancelled  OrderStatus = "Cancelled"
)

// ValidOrderStatus reports whether s belongs to the order status vocabulary.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderPlaced, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Order is the historical record of a checkout. TotalAmount and
// DeliveryAddress are snapshots taken at purchase time; only Status
// changes after creation.
type Order struct {
	ID              string      `json:"id" gorm:"primaryKey;type:varchar(36)"`
	UserID          string      `json:"user_id" gorm:"type:varchar(36);index"`
	OrderDate       time.Time   `json:"order_date"`
	TotalAmount     float64     `json:"total_amount"`
	DeliveryAddress string      `json:"delivery_address" gorm:"type:varchar(500)"`
	Status          OrderStatus `json:"status" gorm:"type:varchar(20)"`
	Items           []OrderItem `json:"items" gorm:"foreignKey:OrderID"`
}

// OrderItem snapshots one purchased line. Unit price, title and image
// are copied from the product at the moment of purchase so later edits
// or deletion of the product cannot corrupt the order history. Rows are
// never altered once created.
type OrderItem struct {
	ID              string  `json:"id" gorm:"primaryKey;type:varchar(36)"`
	OrderID         string  `json:"order_id" gorm:"type:varchar(36);index"`
	ProductID       string  `json:"product_id" gorm:"type:varchar(36)"`
	Quantity        int     `json:"quantity"`
	UnitPrice       float64 `json:"unit_price"`
	ProductTitle    string  `json:"product_title" gorm:"type:varchar(200)"`
	ProductImageURL string  `json:"product_image_url" gorm:"type:varchar(500)"`
}
