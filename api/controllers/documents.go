package controllers

import (
	"context"
	"io"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/api/responses"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/documents"
	orderssvc "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/internal/orders"
	pkgerrors "github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/errors"
	"github.com/LakshiRajika/dhananjee-fruit-and-sweet-centre-sub000/pkg/logger"
)

// OrderInvoicePDF renders a single-order invoice.
func OrderInvoicePDF(svc orderssvc.Service, gen documents.Generator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || gen == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice generation unavailable"))
			return
		}

		order, err := svc.Get(r.Context(), chi.URLParam(r, "orderId"))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pdf, err := gen.Invoice(order)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writePDF(r.Context(), logg, w, pdf)
	}
}

// OrderHistoryPDF renders a statement of all of a user's orders.
func OrderHistoryPDF(svc orderssvc.Service, gen documents.Generator, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil || gen == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "invoice generation unavailable"))
			return
		}

		userID := chi.URLParam(r, "userId")
		orders, err := svc.ListByUser(r.Context(), userID, "")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		pdf, err := gen.OrderStatement(userID, orders)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		writePDF(r.Context(), logg, w, pdf)
	}
}

func writePDF(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, pdf []byte) {
	w.Header().Set("Content-Type", "application/pdf")
	if _, err := w.Write(pdf); err != nil && logg != nil {
		logg.Error(ctx, "write pdf response", err)
	}
}

func serveStream(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, rc io.Reader) {
	if _, err := io.Copy(w, rc); err != nil && logg != nil {
		logg.Error(ctx, "stream response", err)
	}
}
