package migrations

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Run applies the counter backend schema.
func Run(db *gorm.DB) error {
	if db == nil {
		return nil
	}
	return db.AutoMigrate(
		&productRecord{},
		&orderRecord{},
		&orderItemRecord{},
	)
}

// Product schema mirrors the counter Postgres adapter.
type productRecord struct {
	ID        int64           `gorm:"primaryKey;column:id"`
	Name      string          `gorm:"column:name;not null"`
	Price     decimal.Decimal `gorm:"column:price;type:numeric(10,2);not null"`
	Category  string          `gorm:"column:category;type:varchar(32);index"`
	Available bool            `gorm:"column:available;not null;default:true"`
	Image     string          `gorm:"column:image;type:text"`
	CreatedAt time.Time       `gorm:"column:created_at"`
	UpdatedAt time.Time       `gorm:"column:updated_at"`
}

func (productRecord) TableName() string { return "products" }

// Order schema mirrors the counter Postgres adapter.
type orderRecord struct {
	ID           int64               `gorm:"primaryKey;column:id"`
	CustomerName string              `gorm:"column:customer_name"`
	Status       string              `gorm:"column:status;type:varchar(32);index"`
	Total        decimal.NullDecimal `gorm:"column:total;type:numeric(10,2)"`
	Items        []orderItemRecord   `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE"`
	CreatedAt    time.Time           `gorm:"column:created_at;index"`
	UpdatedAt    time.Time           `gorm:"column:updated_at"`
}

func (orderRecord) TableName() string { return "orders" }

type orderItemRecord struct {
	ID        int64               `gorm:"primaryKey;column:id"`
	OrderID   int64               `gorm:"column:order_id;index"`
	Position  int                 `gorm:"column:position"`
	Name      string              `gorm:"column:name"`
	Quantity  int                 `gorm:"column:quantity"`
	UnitPrice decimal.NullDecimal `gorm:"column:unit_price;type:numeric(10,2)"`
	Note      string              `gorm:"column:note"`
}

func (orderItemRecord) TableName() string { return "order_items" }
