// Package postgres persists the counter's catalog and orders with GORM.
package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/Apurer/counter-panel/internal/counterapi/ports"
	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	"github.com/Apurer/counter-panel/internal/shared/ident"
)

var (
	_ ports.ProductRepository = (*Repository)(nil)
	_ ports.OrderRepository   = (*Repository)(nil)
)

// Repository persists products and orders in PostgreSQL. Caller manages DB lifecycle.
type Repository struct {
	db *gorm.DB
}

// NewRepository wires a PostgreSQL-backed repository. Schema is applied by
// the migrations package.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

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

func (r *Repository) ListProducts(ctx context.Context) ([]catalogdomain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []productRecord
	if err := r.db.WithContext(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	products := make([]catalogdomain.Product, 0, len(records))
	for _, rec := range records {
		products = append(products, rec.toDomain())
	}
	return products, nil
}

func (r *Repository) GetProduct(ctx context.Context, id ident.ID) (catalogdomain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return catalogdomain.Product{}, err
	}
	key, err := rowKey(id)
	if err != nil {
		return catalogdomain.Product{}, err
	}
	var rec productRecord
	if err := r.db.WithContext(ctx).First(&rec, "id = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return catalogdomain.Product{}, ports.ErrNotFound
		}
		return catalogdomain.Product{}, err
	}
	return rec.toDomain(), nil
}

func (r *Repository) CreateProduct(ctx context.Context, product catalogdomain.Product) (catalogdomain.Product, error) {
	if err := r.ensureDB(); err != nil {
		return catalogdomain.Product{}, err
	}
	rec := productRecord{
		Name:      product.Name,
		Price:     product.Price,
		Category:  string(product.Category),
		Available: product.Available,
		Image:     string(product.Image),
	}
	// Select forces Available=false to be written instead of the column default.
	if err := r.db.WithContext(ctx).Select("*").Omit("id").Create(&rec).Error; err != nil {
		return catalogdomain.Product{}, err
	}
	return rec.toDomain(), nil
}

func (r *Repository) DeleteProduct(ctx context.Context, id ident.ID) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	key, err := rowKey(id)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Delete(&productRecord{}, key)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) SetAvailability(ctx context.Context, id ident.ID, available bool) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	key, err := rowKey(id)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&productRecord{}).Where("id = ?", key).
		Updates(map[string]any{"available": available, "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) ListOrders(ctx context.Context) ([]orderdomain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return nil, err
	}
	var records []orderRecord
	if err := r.withItems(ctx).Order("id").Find(&records).Error; err != nil {
		return nil, err
	}
	orders := make([]orderdomain.Order, 0, len(records))
	for _, rec := range records {
		orders = append(orders, rec.toDomain())
	}
	return orders, nil
}

func (r *Repository) GetOrder(ctx context.Context, id ident.ID) (orderdomain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return orderdomain.Order{}, err
	}
	key, err := rowKey(id)
	if err != nil {
		return orderdomain.Order{}, err
	}
	var rec orderRecord
	if err := r.withItems(ctx).First(&rec, "id = ?", key).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return orderdomain.Order{}, ports.ErrNotFound
		}
		return orderdomain.Order{}, err
	}
	return rec.toDomain(), nil
}

func (r *Repository) CreateOrder(ctx context.Context, order orderdomain.Order) (orderdomain.Order, error) {
	if err := r.ensureDB(); err != nil {
		return orderdomain.Order{}, err
	}
	rec := orderRecord{
		CustomerName: order.CustomerName,
		Status:       string(order.Status),
		Total:        order.Total,
		CreatedAt:    order.CreatedAt,
	}
	for i, item := range order.Items {
		rec.Items = append(rec.Items, orderItemRecord{
			Position:  i,
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Note:      item.Note,
		})
	}
	if err := r.db.WithContext(ctx).Create(&rec).Error; err != nil {
		return orderdomain.Order{}, err
	}
	return r.GetOrder(ctx, ident.FromInt64(rec.ID))
}

func (r *Repository) UpdateStatus(ctx context.Context, id ident.ID, status orderdomain.Status) error {
	if err := r.ensureDB(); err != nil {
		return err
	}
	key, err := rowKey(id)
	if err != nil {
		return err
	}
	result := r.db.WithContext(ctx).Model(&orderRecord{}).Where("id = ?", key).
		Updates(map[string]any{"status": string(status), "updated_at": gorm.Expr("NOW()")})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ports.ErrNotFound
	}
	return nil
}

func (r *Repository) withItems(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).Preload("Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("position")
	})
}

func (r *Repository) ensureDB() error {
	if r == nil || r.db == nil {
		return errors.New("postgres counter repository not configured")
	}
	return nil
}

// rowKey maps an identifier to its integer primary key. Identifiers this
// store never issued cannot exist.
func rowKey(id ident.ID) (int64, error) {
	key, err := id.Int64()
	if err != nil {
		return 0, fmt.Errorf("%w: %s", ports.ErrNotFound, id)
	}
	return key, nil
}

func (r productRecord) toDomain() catalogdomain.Product {
	return catalogdomain.Product{
		ID:        ident.FromInt64(r.ID),
		Name:      r.Name,
		Price:     r.Price,
		Category:  catalogdomain.Category(r.Category),
		Available: r.Available,
		Image:     catalogdomain.ImagePayload(r.Image),
	}
}

func (r orderRecord) toDomain() orderdomain.Order {
	order := orderdomain.Order{
		ID:           ident.FromInt64(r.ID),
		CustomerName: r.CustomerName,
		CreatedAt:    r.CreatedAt.UTC(),
		Status:       orderdomain.Status(r.Status),
		Total:        r.Total,
	}
	for _, item := range r.Items {
		order.Items = append(order.Items, orderdomain.LineItem{
			Name:      item.Name,
			Quantity:  item.Quantity,
			UnitPrice: item.UnitPrice,
			Note:      item.Note,
		})
	}
	return order
}
