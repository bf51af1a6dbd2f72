package stamp

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/evhartley/fiction-passport/internal/dependencies/clock"
	"github.com/evhartley/fiction-passport/internal/model"
	"github.com/evhartley/fiction-passport/internal/storage"
)

// History paging behavior. Requests below the default silently fall back
// to it; requests above the cap are clamped so a hostile ?offset= cannot
// force a full-table scan. The "offset" is additive: each load-more asks
// for a larger absolute count.
const (
	DefaultHistoryLimit = 5
	MaxHistoryLimit     = 100
	historyPageStep     = 5
)

// PinInput is the validated payload for creating a stamp. Coordinate
// parsing from form strings happens at the web boundary; range checks
// happen here.
type PinInput struct {
	LocationType string  `validate:"required"`
	LocationName string  `validate:"required"`
	Source       string  `validate:"required"`
	Means        string  // optional
	Latitude     float64 `validate:"gte=-90,lte=90"`
	Longitude    float64 `validate:"gte=-180,lte=180"`
}

// HistoryStamp is a stamp annotated with its date-only projection for
// the history view.
type HistoryStamp struct {
	*model.Stamp
	DateOnly string
}

// HistoryPage is everything the history view needs in one shot.
type HistoryPage struct {
	Stamps       []HistoryStamp
	MediaStats   []model.GroupCount // stamps per means, count descending
	TypeStats    []model.GroupCount // stamps per location type, count descending
	HasMore      bool
	NextOffset   int
	StampsLoaded int
}

// MapData is the map view payload: every stamp plus a center point.
type MapData struct {
	Stamps    []*model.Stamp
	CenterLat float64
	CenterLon float64
}

// Service owns stamp creation, history aggregation and deletion
type Service struct {
	storage  storage.Storage
	clock    clock.Clock
	validate *validator.Validate
	logger   *slog.Logger
}

// New creates a new stamp Service
func New(storage storage.Storage, clk clock.Clock, logger *slog.Logger) *Service {
	return &Service{
		storage:  storage,
		clock:    clk,
		validate: validator.New(),
		logger:   logger,
	}
}

// Pin validates and persists a new stamp for the user. On any validation
// failure nothing is written.
func (s *Service) Pin(ctx context.Context, userID int64, input PinInput) (*model.Stamp, error) {
	if err := s.validate.Struct(input); err != nil {
		return nil, pinValidationError(err)
	}

	stamp := &model.Stamp{
		UserID:       userID,
		LocationType: input.LocationType,
		LocationName: input.LocationName,
		Source:       input.Source,
		Means:        input.Means,
		Latitude:     input.Latitude,
		Longitude:    input.Longitude,
		CreatedAt:    s.clock.Now().UTC().Truncate(time.Second),
	}

	if err := s.storage.CreateStamp(ctx, stamp); err != nil {
		return nil, err
	}

	s.logger.Info("stamp pinned",
		slog.Int64("user_id", userID),
		slog.String("location", stamp.LocationName),
		slog.String("source", stamp.Source),
	)

	return stamp, nil
}

// History returns the additive-pagination history page. The effective
// limit is clamped to [DefaultHistoryLimit, MaxHistoryLimit]; anything
// unparseable arrives here as zero and falls back to the default.
func (s *Service) History(ctx context.Context, userID int64, requested int) (*HistoryPage, error) {
	limit := requested
	if limit < DefaultHistoryLimit {
		limit = DefaultHistoryLimit
	}
	if limit > MaxHistoryLimit {
		limit = MaxHistoryLimit
	}

	stamps, err := s.storage.RecentStamps(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("fetching stamps: %w", err)
	}

	annotated := make([]HistoryStamp, 0, len(stamps))
	for _, stamp := range stamps {
		annotated = append(annotated, HistoryStamp{Stamp: stamp, DateOnly: stamp.DateOnly()})
	}

	mediaStats, err := s.storage.CountStampsByMeans(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregating means: %w", err)
	}

	typeStats, err := s.storage.CountStampsByLocationType(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("aggregating location types: %w", err)
	}

	hasMore, err := s.storage.HasStampsBeyond(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("probing for more stamps: %w", err)
	}

	return &HistoryPage{
		Stamps:       annotated,
		MediaStats:   mediaStats,
		TypeStats:    typeStats,
		HasMore:      hasMore,
		NextOffset:   limit + historyPageStep,
		StampsLoaded: limit,
	}, nil
}

// Delete removes the stamp only if it belongs to userID. Absent and
// not-owned stamps both surface as model.ErrStampNotFound.
func (s *Service) Delete(ctx context.Context, userID, stampID int64) error {
	err := s.storage.DeleteStamp(ctx, userID, stampID)
	if err != nil {
		s.logger.Debug("stamp delete failed",
			slog.Int64("user_id", userID),
			slog.Int64("stamp_id", stampID),
			slog.String("error", err.Error()),
		)
		return err
	}

	s.logger.Info("stamp deleted",
		slog.Int64("user_id", userID),
		slog.Int64("stamp_id", stampID),
	)
	return nil
}

// Map returns all of the user's stamps and the map center: the most
// recently pinned location, or a default when the passport is empty.
func (s *Service) Map(ctx context.Context, userID int64) (*MapData, error) {
	stamps, err := s.storage.AllStamps(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("fetching stamps: %w", err)
	}

	data := &MapData{
		Stamps:    stamps,
		CenterLat: model.DefaultCenterLatitude,
		CenterLon: model.DefaultCenterLongitude,
	}

	last, err := s.storage.LatestStamp(ctx, userID)
	switch {
	case err == nil:
		data.CenterLat = last.Latitude
		data.CenterLon = last.Longitude
	case !errors.Is(err, model.ErrStampNotFound):
		return nil, fmt.Errorf("fetching latest stamp: %w", err)
	}

	return data, nil
}

// Count returns the user's total stamp count for the passport summary
func (s *Service) Count(ctx context.Context, userID int64) (int64, error) {
	return s.storage.CountStamps(ctx, userID)
}

// pinValidationError converts validator output into one user-facing
// validation error.
func pinValidationError(err error) error {
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return fmt.Errorf("%w: invalid stamp", model.ErrValidation)
	}

	fe := errs[0]
	switch fe.Field() {
	case "LocationType", "LocationName", "Source":
		return fmt.Errorf("%w: must provide a location type, a location name and source of fiction", model.ErrValidation)
	case "Latitude", "Longitude":
		return fmt.Errorf("%w: invalid geographic coordinates", model.ErrValidation)
	default:
		return fmt.Errorf("%w: invalid stamp", model.ErrValidation)
	}
}
