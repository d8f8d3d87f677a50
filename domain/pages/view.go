package pages

import (
	"html/template"

	"github.com/akeren/tablebook/domain/occupancy"
	apperrors "github.com/akeren/tablebook/pkg/errors"
)

const (
	ReservationSuccessMessage = "Reservation successful!"
	ReservationInvalidMessage = "Please check your reservation details."
	ReservationFailedMessage  = "Something went wrong while saving your reservation. Please try again."

	EmailSuccessMessage = "Email submitted successfully!"
	EmailFailedMessage  = "Error submitting email. Please try again."
)

// PageData is rendered by index.html.
type PageData struct {
	ReservationStatus string
	Name              string
	EmailStatus       string
	// Errors belong to the reservation form, EmailErrors to the mailing-list form.
	Errors      []apperrors.ValidationErrorResponse
	EmailErrors []apperrors.ValidationErrorResponse

	// Chart is a data URI; empty means the placeholder is shown.
	Chart            template.URL
	ChartUnavailable bool
}

func (d *PageData) setChart(chart *occupancy.Chart) {
	if chart == nil {
		d.ChartUnavailable = true
		return
	}
	if chart.Empty {
		return
	}
	d.Chart = template.URL("data:image/png;base64," + chart.Base64())
}
