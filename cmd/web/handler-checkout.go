package main

import (
	"github.com/homecrimes/caseroom/internal/checkout"
	"github.com/homecrimes/caseroom/internal/errors"
	"net/http"
)

type checkoutTemplateData struct {
	BaseTemplateData
	Grant checkout.Grant
}

// checkoutSuccess is where the payment provider sends the buyer back. It shows the access code for the
// paid session.
func (app *application) checkoutSuccess(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()
	grant, err := checkout.Exchange(r.Context(), app.checkout, app.codec, query.Get("session_id"), query.Get("product"))
	switch {
	case err == nil:
	case errors.Is(err, checkout.ErrNotConfigured):
		http.Error(w, "checkout not configured", http.StatusServiceUnavailable)
		return
	case errors.Is(err, checkout.ErrMissingSession):
		http.Error(w, "Falta session_id", http.StatusBadRequest)
		return
	case errors.Is(err, checkout.ErrNotPaid):
		http.Error(w, "Pago no completado", http.StatusPaymentRequired)
		return
	default:
		app.serverError(w, r, err)
		return
	}

	data := checkoutTemplateData{
		BaseTemplateData: app.newBaseTemplateData(r),
		Grant:            grant,
	}
	app.render(w, r, http.StatusOK, "checkout", data)
}
