package reservation

import (
	"github.com/akeren/tablebook/internal/models"
	"github.com/akeren/tablebook/pkg/constants"
)

// CreateReservationRequest binds both the HTML form and the JSON API.
type CreateReservationRequest struct {
	Name   string `form:"name" json:"name" binding:"required,max=255"`
	Date   string `form:"date" json:"date" binding:"required,datetime=2006-01-02"`
	Time   string `form:"time" json:"time" binding:"required,datetime=15:04"`
	Guests int    `form:"guests" json:"guests" binding:"required,gt=0"`
}

type AvailabilityRequest struct {
	Date string `form:"date" json:"date" binding:"required,datetime=2006-01-02"`
	Time string `form:"time" json:"time" binding:"required,datetime=15:04"`
}

type AvailabilityResponse struct {
	Date      string `json:"date"`
	Slot      Slot   `json:"slot"`
	Booked    int    `json:"booked"`
	Capacity  int    `json:"capacity"`
	Remaining int    `json:"remaining"`
}

type ReservationResponse struct {
	ID        uint   `json:"id"`
	Name      string `json:"name"`
	Date      string `json:"date"`
	Time      string `json:"time"`
	Guests    int    `json:"guests"`
	Slot      Slot   `json:"slot"`
	Booked    int    `json:"booked"`
	Remaining int    `json:"remaining"`
	CreatedAt string `json:"created_at"`
}

func ToReservationModel(req *CreateReservationRequest, slot Slot) *models.Reservation {
	if req == nil {
		return nil
	}
	return &models.Reservation{
		Name:   req.Name,
		Date:   req.Date,
		Time:   slot.End,
		Guests: req.Guests,
	}
}

func ToReservationResponse(reservation *models.Reservation, slot Slot, booked, capacity int) ReservationResponse {
	if reservation == nil {
		return ReservationResponse{}
	}
	return ReservationResponse{
		ID:        reservation.ID,
		Name:      reservation.Name,
		Date:      reservation.Date,
		Time:      reservation.Time,
		Guests:    reservation.Guests,
		Slot:      slot,
		Booked:    booked,
		Remaining: remaining(booked, capacity),
		CreatedAt: reservation.CreatedAt.Format(constants.RFC3339DateTimeFormat),
	}
}

func remaining(booked, capacity int) int {
	if booked >= capacity {
		return 0
	}
	return capacity - booked
}
