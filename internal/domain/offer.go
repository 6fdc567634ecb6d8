package domain

// ChargerStatus tracks whether an offered charger can accept a reservation.
type ChargerStatus string

const (
	ChargerStatusActive      ChargerStatus = "Active"
	ChargerStatusBusy        ChargerStatus = "Busy"
	ChargerStatusInactive    ChargerStatus = "Inactive"
	ChargerStatusUnspecified ChargerStatus = "Unspecified"
)

// PlugType is the physical connector standard of a charger.
type PlugType string

const (
	PlugTypeType1       PlugType = "Type1"
	PlugTypeType2       PlugType = "Type2"
	PlugTypeCHAdeMO     PlugType = "CHAdeMO"
	PlugTypeCCS         PlugType = "CCS"
	PlugTypeUnspecified PlugType = "Unspecified"
)

// ParsePlugType maps transport input to a known plug type, falling back to
// Unspecified for anything unrecognised.
func ParsePlugType(s string) PlugType {
	switch PlugType(s) {
	case PlugTypeType1, PlugTypeType2, PlugTypeCHAdeMO, PlugTypeCCS:
		return PlugType(s)
	}
	return PlugTypeUnspecified
}

// EnergyTransferOffer is a published, reservable charging slot.
type EnergyTransferOffer struct {
	ID            uint64        `db:"id" json:"id"`
	Owner         string        `db:"owner" json:"owner"`
	ChargerID     string        `db:"charger_id" json:"charger_id"`
	ChargerStatus ChargerStatus `db:"charger_status" json:"charger_status"`
	Latitude      float64       `db:"latitude" json:"latitude"`
	Longitude     float64       `db:"longitude" json:"longitude"`
	Tariff        uint64        `db:"tariff" json:"tariff"`
	Name          string        `db:"name" json:"name"`
	PlugType      PlugType      `db:"plug_type" json:"plug_type"`
}
