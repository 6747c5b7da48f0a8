package httpapi

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/dmitrijs2005/storefront/internal/common"
)

type checkoutRequest struct {
	ProductID string `json:"productId"`
}

type checkoutResponse struct {
	SessionID string `json:"sessionId"`
	URL       string `json:"url,omitempty"`
}

func (a *API) createCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		a.writeError(w, r, "", fmt.Errorf("%w: %v", common.ErrValidation, err))
		return
	}
	productID := strings.TrimSpace(req.ProductID)
	if productID == "" {
		a.writeError(w, r, "", fmt.Errorf("%w: productId is required", common.ErrValidation))
		return
	}

	idemKey := strings.TrimSpace(r.Header.Get(common.IdempotencyKeyHeaderName))

	h, err := a.checkout.CreateCheckoutSession(r.Context(), productID, idemKey)
	if err != nil {
		a.writeError(w, r, "failed to create checkout session", err)
		return
	}

	writeJSON(w, http.StatusOK, checkoutResponse{SessionID: h.ID, URL: h.URL})
}
