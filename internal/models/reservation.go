package models

import "time"

// Wire formats for the text columns of the reservations table.
const (
	ReservationDateLayout = "2006-01-02"
	ReservationTimeLayout = "15:04"
)

type Reservation struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(255);not null" json:"name"`
	Date      string    `gorm:"type:varchar(10);not null;index:idx_reservations_date_time,priority:1" json:"date"`
	Time      string    `gorm:"type:varchar(5);not null;index:idx_reservations_date_time,priority:2" json:"time"`
	Guests    int       `gorm:"not null" json:"guests"`
	CreatedAt time.Time `gorm:"not null" json:"created_at"`
}

func (Reservation) TableName() string {
	return "reservations"
}
