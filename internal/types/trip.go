package types

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Accommodation, transport and season are app-managed enumerations; the
// database stores the raw string.
const (
	AccommodationHotel     = "hotel"
	AccommodationApartment = "apartment"
	AccommodationCamping   = "camping"
	AccommodationHostel    = "hostel"
	AccommodationOther     = "other"

	TransportCar    = "car"
	TransportPlane  = "plane"
	TransportTrain  = "train"
	TransportOnFoot = "on_foot"
	TransportBus    = "bus"
	TransportOther  = "other"

	SeasonSummer = "summer"
	SeasonWinter = "winter"
	SeasonSpring = "spring"
	SeasonAutumn = "autumn"
)

type Luggage struct {
	MaxWeight  *float64 `json:"max_weight,omitempty"`
	Dimensions string   `json:"dimensions,omitempty"`
}

type Trip struct {
	ID               uuid.UUID                    `gorm:"type:uuid;primaryKey" json:"id"`
	UserID           uuid.UUID                    `gorm:"type:uuid;not null;index" json:"user_id"`
	User             *User                        `gorm:"constraint:OnDelete:CASCADE;foreignKey:UserID;references:ID" json:"user,omitempty"`
	Destination      string                       `gorm:"column:destination;not null" json:"destination"`
	StartDate        *time.Time                   `gorm:"column:start_date" json:"start_date,omitempty"`
	EndDate          *time.Time                   `gorm:"column:end_date" json:"end_date,omitempty"`
	DurationDays     int                          `gorm:"column:duration_days;not null;check:duration_days > 0" json:"duration_days"`
	NumAdults        int                          `gorm:"column:num_adults;not null;default:1;check:num_adults >= 0" json:"num_adults"`
	ChildrenAges     datatypes.JSONSlice[int]     `gorm:"column:children_ages" json:"children_ages,omitempty"`
	Accommodation    string                       `gorm:"column:accommodation" json:"accommodation,omitempty"`
	Catering         datatypes.JSONSlice[int]     `gorm:"column:catering" json:"catering,omitempty"`
	Transport        string                       `gorm:"column:transport" json:"transport,omitempty"`
	Activities       datatypes.JSONSlice[string]  `gorm:"column:activities" json:"activities,omitempty"`
	Season           string                       `gorm:"column:season" json:"season,omitempty"`
	AvailableLuggage *datatypes.JSONType[Luggage] `gorm:"column:available_luggage" json:"available_luggage,omitempty"`
	CreatedAt        time.Time                    `gorm:"not null" json:"created_at"`
	UpdatedAt        time.Time                    `gorm:"not null" json:"updated_at"`

	GeneratedList *GeneratedList `gorm:"foreignKey:TripID;references:ID" json:"generated_list,omitempty"`
}

func (Trip) TableName() string { return "trips" }
