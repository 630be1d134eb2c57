package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/tripacker/tripacker-backend/internal/logger"
	"github.com/tripacker/tripacker-backend/internal/repos"
	"github.com/tripacker/tripacker-backend/internal/types"
)

var (
	validAccommodations = []string{
		types.AccommodationHotel, types.AccommodationApartment,
		types.AccommodationCamping, types.AccommodationHostel,
		types.AccommodationOther,
	}
	validTransports = []string{
		types.TransportCar, types.TransportPlane, types.TransportTrain,
		types.TransportOnFoot, types.TransportBus, types.TransportOther,
	}
	validSeasons = []string{
		types.SeasonSummer, types.SeasonWinter,
		types.SeasonSpring, types.SeasonAutumn,
	}
)

type TripInput struct {
	Destination      string         `json:"destination"`
	StartDate        *time.Time     `json:"start_date,omitempty"`
	EndDate          *time.Time     `json:"end_date,omitempty"`
	DurationDays     int            `json:"duration_days"`
	NumAdults        int            `json:"num_adults"`
	ChildrenAges     []int          `json:"children_ages,omitempty"`
	Accommodation    string         `json:"accommodation,omitempty"`
	Catering         []int          `json:"catering,omitempty"`
	Transport        string         `json:"transport,omitempty"`
	Activities       []string       `json:"activities,omitempty"`
	Season           string         `json:"season,omitempty"`
	AvailableLuggage *types.Luggage `json:"available_luggage,omitempty"`
}

type TripService interface {
	Create(ctx context.Context, userID uuid.UUID, input TripInput) (*types.Trip, error)
	GetByID(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error)
	ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int, sort string) ([]*types.Trip, int64, error)
}

type tripService struct {
	db       *gorm.DB
	log      *logger.Logger
	tripRepo repos.TripRepo
}

func NewTripService(db *gorm.DB, log *logger.Logger, tripRepo repos.TripRepo) TripService {
	return &tripService{
		db:       db,
		log:      log.With("service", "TripService"),
		tripRepo: tripRepo,
	}
}

func (ts *tripService) Create(ctx context.Context, userID uuid.UUID, input TripInput) (*types.Trip, error) {
	if err := validateTripInput(&input); err != nil {
		return nil, err
	}

	trip := &types.Trip{
		ID:            uuid.New(),
		UserID:        userID,
		Destination:   strings.TrimSpace(input.Destination),
		StartDate:     input.StartDate,
		EndDate:       input.EndDate,
		DurationDays:  input.DurationDays,
		NumAdults:     input.NumAdults,
		ChildrenAges:  datatypes.NewJSONSlice(input.ChildrenAges),
		Accommodation: input.Accommodation,
		Catering:      datatypes.NewJSONSlice(input.Catering),
		Transport:     input.Transport,
		Activities:    datatypes.NewJSONSlice(input.Activities),
		Season:        input.Season,
	}
	if input.AvailableLuggage != nil {
		luggage := datatypes.NewJSONType(*input.AvailableLuggage)
		trip.AvailableLuggage = &luggage
	}

	if _, err := ts.tripRepo.Create(ctx, nil, []*types.Trip{trip}); err != nil {
		return nil, fmt.Errorf("creating trip: %w", err)
	}
	ts.log.Info("Trip created", "tripID", trip.ID, "userID", userID)
	return trip, nil
}

func (ts *tripService) GetByID(ctx context.Context, userID, tripID uuid.UUID) (*types.Trip, error) {
	trips, err := ts.tripRepo.GetByIDs(ctx, nil, []uuid.UUID{tripID})
	if err != nil {
		return nil, fmt.Errorf("loading trip: %w", err)
	}
	if len(trips) == 0 {
		return nil, ErrTripNotFound
	}
	if trips[0].UserID != userID {
		return nil, ErrAccessDenied
	}
	return trips[0], nil
}

func (ts *tripService) ListByUser(ctx context.Context, userID uuid.UUID, limit, offset int, sort string) ([]*types.Trip, int64, error) {
	if sort != "" && !repos.ValidTripSortField(sort) {
		return nil, 0, fmt.Errorf("%w: invalid sort field %q", ErrInvalidInput, sort)
	}
	return ts.tripRepo.ListByUserID(ctx, nil, userID, limit, offset, sort)
}

func validateTripInput(input *TripInput) error {
	if strings.TrimSpace(input.Destination) == "" {
		return fmt.Errorf("%w: destination is required", ErrInvalidInput)
	}
	if input.DurationDays == 0 && input.StartDate != nil && input.EndDate != nil {
		input.DurationDays = int(input.EndDate.Sub(*input.StartDate).Hours()/24) + 1
	}
	if input.DurationDays <= 0 {
		return fmt.Errorf("%w: duration_days must be positive", ErrInvalidInput)
	}
	if input.NumAdults < 0 {
		return fmt.Errorf("%w: num_adults must not be negative", ErrInvalidInput)
	}
	if input.StartDate != nil && input.EndDate != nil && input.EndDate.Before(*input.StartDate) {
		return fmt.Errorf("%w: end_date must not precede start_date", ErrInvalidInput)
	}
	if input.Accommodation != "" && !lo.Contains(validAccommodations, input.Accommodation) {
		return fmt.Errorf("%w: unknown accommodation %q", ErrInvalidInput, input.Accommodation)
	}
	if input.Transport != "" && !lo.Contains(validTransports, input.Transport) {
		return fmt.Errorf("%w: unknown transport %q", ErrInvalidInput, input.Transport)
	}
	if input.Season != "" && !lo.Contains(validSeasons, input.Season) {
		return fmt.Errorf("%w: unknown season %q", ErrInvalidInput, input.Season)
	}
	if input.AvailableLuggage != nil && input.AvailableLuggage.MaxWeight != nil && *input.AvailableLuggage.MaxWeight < 0 {
		return fmt.Errorf("%w: luggage max_weight must not be negative", ErrInvalidInput)
	}
	return nil
}
