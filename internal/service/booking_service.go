package service

import (
	"context"
	"fmt"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

// CreateBookingRequest captures fields for creating a room booking. The
// teacher id is optional; when given it must reference a registered teacher.
type CreateBookingRequest struct {
	RoomID    string `json:"roomId" validate:"required"`
	TeacherID string `json:"teacherId"`
	Date      string `json:"date" validate:"required"`
	Period    int    `json:"period" validate:"min=0"`
	Purpose   string `json:"purpose"`
}

// BookingService is the booking ledger. Ids are monotonic and derived from the
// current ledger length. Overlapping reservations are deliberately allowed;
// callers are expected to consult the availability resolver first.
type BookingService struct {
	store     instituteStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(store instituteStore, validate *validator.Validate, logger *zap.Logger) *BookingService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingService{store: store, validator: validate, logger: logger}
}

// List returns the ledger, optionally filtered to one date.
func (s *BookingService) List(ctx context.Context, code, date string) ([]models.Booking, error) {
	institute, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	if date == "" {
		return append([]models.Booking(nil), institute.RoomBookings...), nil
	}
	filtered := make([]models.Booking, 0)
	for _, booking := range institute.RoomBookings {
		if booking.Date == date {
			filtered = append(filtered, booking)
		}
	}
	return filtered, nil
}

// Create validates the referenced room and, when given, the teacher, then
// assigns the next ledger id and appends the booking.
func (s *BookingService) Create(ctx context.Context, code string, req CreateBookingRequest) (*models.Booking, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid booking payload")
	}
	if _, err := time.Parse(bookingDateLayout, req.Date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	var created models.Booking
	_, err := s.store.Mutate(ctx, code, func(inst *models.Institute) error {
		if _, ok := inst.FindRoom(req.RoomID); !ok {
			return appErrors.Clone(appErrors.ErrValidation, "room does not exist")
		}
		if req.TeacherID != "" {
			if _, ok := inst.FindTeacher(req.TeacherID); !ok {
				return appErrors.Clone(appErrors.ErrValidation, "teacher does not exist")
			}
		}
		if req.Period >= inst.MasterTimetable.PeriodCount() {
			return appErrors.Clone(appErrors.ErrValidation, "period index out of range")
		}

		created = models.Booking{
			ID:        fmt.Sprintf("BK%03d", len(inst.RoomBookings)+1),
			RoomID:    req.RoomID,
			TeacherID: req.TeacherID,
			Date:      req.Date,
			Period:    req.Period,
			Purpose:   req.Purpose,
		}
		inst.RoomBookings = append(inst.RoomBookings, created)
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("booking created", zap.String("code", code), zap.String("booking_id", created.ID))
	return &created, nil
}

// Cancel removes a booking by id. Unknown ids are reported, not ignored.
func (s *BookingService) Cancel(ctx context.Context, code, bookingID string) error {
	_, err := s.store.Mutate(ctx, code, func(inst *models.Institute) error {
		for i, booking := range inst.RoomBookings {
			if booking.ID == bookingID {
				inst.RoomBookings = append(inst.RoomBookings[:i], inst.RoomBookings[i+1:]...)
				return nil
			}
		}
		return appErrors.Clone(appErrors.ErrNotFound, "booking not found")
	})
	return err
}
