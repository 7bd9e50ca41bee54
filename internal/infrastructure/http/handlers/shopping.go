package handlers

import (
	"net/http"

	"github.com/foodgram/platform/internal/infrastructure/http/middleware"
)

// DownloadShoppingCart renders the aggregated cart as a PDF
func (h *Handlers) DownloadShoppingCart(w http.ResponseWriter, r *http.Request) {
	userID, err := actor(r)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	pdf, err := h.shopping.RenderPDF(r.Context(), userID)
	if err != nil {
		middleware.WriteError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="shopping_list.pdf"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(pdf)
}
