package httpapi

import (
	"fmt"
	"net/http"

	"github.com/dmitrijs2005/storefront/internal/common"
	"github.com/dmitrijs2005/storefront/internal/server/models"
)

type productView struct {
	ID          string  `json:"id"`
	StoreID     string  `json:"storeId"`
	Title       string  `json:"title"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
}

// storeView is what anonymous visitors see. It never carries the secret key.
type storeView struct {
	ID                      string        `json:"id"`
	Name                    string        `json:"name"`
	BackgroundColor         string        `json:"backgroundColor"`
	Description             *string       `json:"description"`
	ProcessorPublishableKey string        `json:"processorPublishableKey"`
	PaymentConfigured       bool          `json:"paymentConfigured"`
	Products                []productView `json:"products"`
}

type adminStoreView struct {
	storeView
	ProcessorSecretKey string `json:"processorSecretKey"`
}

func newStoreView(s *models.Store) storeView {
	v := storeView{
		ID:                      s.ID,
		Name:                    s.Name,
		BackgroundColor:         s.BackgroundColor,
		Description:             s.Description,
		ProcessorPublishableKey: s.ProcessorPublishableKey,
		PaymentConfigured:       s.PaymentConfigured(),
		Products:                make([]productView, 0, len(s.Products)),
	}
	for _, p := range s.Products {
		v.Products = append(v.Products, productView{
			ID:          p.ID,
			StoreID:     p.StoreID,
			Title:       p.Title,
			Price:       p.Price,
			Description: p.Description,
		})
	}
	return v
}

func newAdminStoreView(s *models.Store) adminStoreView {
	return adminStoreView{storeView: newStoreView(s), ProcessorSecretKey: s.ProcessorSecretKey}
}

type productUpdateRequest struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Price       *float64 `json:"price"`
	Description *string  `json:"description"`
}

type storeUpdateRequest struct {
	Name                    string                 `json:"name"`
	BackgroundColor         string                 `json:"backgroundColor"`
	Description             *string                `json:"description"`
	ProcessorSecretKey      *string                `json:"processorSecretKey"`
	ProcessorPublishableKey *string                `json:"processorPublishableKey"`
	Products                []productUpdateRequest `json:"products"`
}

func (req *storeUpdateRequest) toPatch() (*models.StorePatch, error) {
	patch := &models.StorePatch{
		Name:                    req.Name,
		BackgroundColor:         req.BackgroundColor,
		Description:             req.Description,
		ProcessorSecretKey:      req.ProcessorSecretKey,
		ProcessorPublishableKey: req.ProcessorPublishableKey,
		Products:                make([]models.ProductPatch, 0, len(req.Products)),
	}
	for i, p := range req.Products {
		if p.Price == nil {
			return nil, fmt.Errorf("%w: products[%d].price is required", common.ErrValidation, i)
		}
		patch.Products = append(patch.Products, models.ProductPatch{
			ID:          p.ID,
			Title:       p.Title,
			Price:       *p.Price,
			Description: p.Description,
		})
	}
	return patch, nil
}

func (a *API) getStore(w http.ResponseWriter, r *http.Request) {
	store, err := a.store.Get(r.Context())
	if err != nil {
		a.writeError(w, r, "failed to load store", err)
		return
	}
	writeJSON(w, http.StatusOK, newStoreView(store))
}

func (a *API) getAdminStore(w http.ResponseWriter, r *http.Request) {
	store, err := a.store.Get(r.Context())
	if err != nil {
		a.writeError(w, r, "failed to load store", err)
		return
	}
	writeJSON(w, http.StatusOK, newAdminStoreView(store))
}

func (a *API) updateStore(w http.ResponseWriter, r *http.Request) {
	var req storeUpdateRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, "", fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}

	patch, err := req.toPatch()
	if err != nil {
		a.writeError(w, r, "", err)
		return
	}

	store, err := a.store.Update(r.Context(), patch)
	if err != nil {
		a.writeError(w, r, "failed to update store", err)
		return
	}

	if id, ok := IdentityFromContext(r.Context()); ok {
		a.logger.Info(r.Context(), "store settings saved", "user_id", id.UserID)
	}
	writeJSON(w, http.StatusOK, newAdminStoreView(store))
}
