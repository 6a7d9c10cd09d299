package panel

import (
	"strings"

	catalogdomain "github.com/Apurer/counter-panel/internal/domains/catalog/domain"
	orderdomain "github.com/Apurer/counter-panel/internal/domains/orders/domain"
	"github.com/Apurer/counter-panel/internal/shared/projection"
)

// Tab is the panel section the operator is looking at.
type Tab string

const (
	TabOrders  Tab = "orders"
	TabCatalog Tab = "catalog"
)

// ParseTab accepts the tab names and their Italian labels.
func ParseTab(raw string) (Tab, error) {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "orders", "ordini":
		return TabOrders, nil
	case "catalog", "catalogo", "products", "prodotti":
		return TabCatalog, nil
	}
	return "", ErrUnknownTab
}

// View is everything a renderer needs for one frame.
type View struct {
	Tab          Tab
	Category     catalogdomain.Category
	Lanes        []orderdomain.Lane
	Products     []catalogdomain.Product
	Orders       projection.Metadata
	Catalog      projection.Metadata
	PendingDraft *catalogdomain.Draft
}

// OrderCount returns how many orders the lanes hold.
func (v View) OrderCount() int {
	n := 0
	for _, lane := range v.Lanes {
		n += len(lane.Orders)
	}
	return n
}
