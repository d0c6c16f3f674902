package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/angelmondragon/catalog-pricing/api/responses"
	"github.com/angelmondragon/catalog-pricing/api/validators"
	"github.com/angelmondragon/catalog-pricing/internal/pricing"
	productsvc "github.com/angelmondragon/catalog-pricing/internal/products"
	pkgerrors "github.com/angelmondragon/catalog-pricing/pkg/errors"
	"github.com/angelmondragon/catalog-pricing/pkg/logger"
)

// Calculator prices a batch of line items.
type Calculator interface {
	Calculate(ctx context.Context, items []pricing.LineItemInput) (*pricing.Result, error)
}

// ListProducts returns every product ordered by id.
func ListProducts(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		products, err := svc.ListProducts(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, products)
	}
}

// UpdateProductPrice changes the price of one product. Other product
// attributes in the payload are ignored.
func UpdateProductPrice(svc productsvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "product service unavailable"))
			return
		}

		productID, err := parseProductID(chi.URLParam(r, "productId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updatePriceRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		ctx := r.Context()
		if logg != nil {
			ctx = logg.WithProductID(ctx, productID)
		}
		product, err := svc.UpdatePrice(ctx, productID, payload.toInput())
		if err != nil {
			responses.WriteError(ctx, logg, w, err)
			return
		}

		responses.WriteOK(w, product)
	}
}

// CalculateProducts prices the submitted line items.
func CalculateProducts(calc Calculator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if calc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "pricing calculator unavailable"))
			return
		}

		var payload calculateRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := calc.Calculate(r.Context(), payload.Items)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteOK(w, result)
	}
}

type calculateRequest struct {
	Items []pricing.LineItemInput `json:"items" validate:"required"`
}

// updatePriceRequest accepts either {"price": ...} or the nested
// {"product": {"price": ...}} form.
type updatePriceRequest struct {
	Price   *priceValue          `json:"price"`
	Product *productPriceRequest `json:"product"`
}

type productPriceRequest struct {
	Price *priceValue `json:"price"`
	Code  *string     `json:"code"`
	Name  *string     `json:"name"`
}

func (p updatePriceRequest) toInput() productsvc.UpdatePriceInput {
	price := p.Price
	if p.Product != nil && p.Product.Price != nil {
		price = p.Product.Price
	}
	if price == nil {
		return productsvc.UpdatePriceInput{}
	}
	raw := string(*price)
	return productsvc.UpdatePriceInput{Price: &raw}
}

// priceValue holds a price sent as a JSON number or string.
type priceValue string

func (p *priceValue) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*p = priceValue(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return err
	}
	*p = priceValue(n.String())
	return nil
}

func parseProductID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return id, nil
}
