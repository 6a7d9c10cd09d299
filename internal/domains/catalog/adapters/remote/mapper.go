package remote

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	counterclient "github.com/Apurer/counter-panel/internal/clients/http/counter"
	"github.com/Apurer/counter-panel/internal/domains/catalog/domain"
)

// ToDomainProduct converts the wire product into the domain model. Only the
// shape is checked: a missing price is zero, a missing availability flag means
// available, a missing category means Menu and a category outside the menu
// set, such as "Altro", is kept as sent.
func ToDomainProduct(payload counterclient.ProductPayload) (domain.Product, error) {
	price := decimal.Zero
	if payload.Price != "" {
		var err error
		price, err = decimal.NewFromString(payload.Price.String())
		if err != nil {
			return domain.Product{}, fmt.Errorf("product %s price: %w", payload.ID, err)
		}
	}
	category := domain.CategoryMenu
	if raw := strings.TrimSpace(payload.Category); raw != "" {
		parsed, err := domain.ParseCategory(raw)
		if err != nil || parsed.IsAll() {
			parsed = domain.Category(raw)
		}
		category = parsed
	}
	available := true
	if payload.Available != nil {
		available = *payload.Available
	}
	return domain.Product{
		ID:        payload.ID,
		Name:      payload.Name,
		Price:     price,
		Category:  category,
		Available: available,
		Image:     domain.ImagePayload(payload.Image),
	}, nil
}

// FromDomainDraft converts a draft to the POST /products body. The draft is
// sent as is.
func FromDomainDraft(draft domain.Draft) counterclient.DraftPayload {
	return counterclient.DraftPayload{
		Name:     draft.Name,
		Price:    json.Number(draft.Price.String()),
		Category: string(draft.Category),
		Image:    string(draft.Image),
	}
}
