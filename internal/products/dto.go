package product

import (
	"github.com/angelmondragon/catalog-pricing/pkg/db/models"
	"github.com/angelmondragon/catalog-pricing/pkg/types"
)

// ProductDTO is the public product payload.
type ProductDTO struct {
	ID    int64       `json:"id"`
	Code  string      `json:"code"`
	Name  string      `json:"name"`
	Price types.Money `json:"price"`
}

func FromModel(p *models.Product) ProductDTO {
	return ProductDTO{
		ID:    p.ID,
		Code:  p.Code,
		Name:  p.Name,
		Price: types.NewMoney(p.Price),
	}
}

func fromModels(products []models.Product) []ProductDTO {
	out := make([]ProductDTO, 0, len(products))
	for i := range products {
		out = append(out, FromModel(&products[i]))
	}
	return out
}
