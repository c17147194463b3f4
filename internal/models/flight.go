package models

import (
	"gorm.io/gorm"
)

type FlightDirection string

const (
	DirectionOutbound FlightDirection = "outbound"
	DirectionReturn   FlightDirection = "return"
)

// FlightEndpoint is one end of a leg. Times are kept as the airline
// publishes them (local wall clock plus a calendar date), not UTC instants.
type FlightEndpoint struct {
	Airport   string `json:"airport"`
	IATACode  string `json:"iata_code"`
	LocalTime string `json:"local_time"` // "HH:MM"
	Date      string `json:"date"`       // "2006-01-02"
}

type Flight struct {
	gorm.Model
	Event        string          `json:"event" gorm:"index"`
	Direction    FlightDirection `json:"direction" gorm:"index:idx_direction_group"`
	GroupName    string          `json:"group_name" gorm:"index:idx_direction_group"`
	Departure    FlightEndpoint  `json:"departure" gorm:"embedded;embeddedPrefix:departure_"`
	Arrival      FlightEndpoint  `json:"arrival" gorm:"embedded;embeddedPrefix:arrival_"`
	Carrier      string          `json:"carrier"`
	FlightNumber string          `json:"flight_number"`
	Duration     string          `json:"duration"` // e.g. "1h55m"
}
