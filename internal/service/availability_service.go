package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

const bookingDateLayout = "2006-01-02"

// AvailabilityService answers which rooms are free for an ad-hoc booking at a
// given date and period. Only explicit bookings block a room; a standing
// weekly class at that weekday does not (the ledger and the grids are
// independent).
type AvailabilityService struct {
	store  instituteStore
	logger *zap.Logger
}

// NewAvailabilityService creates a new availability service.
func NewAvailabilityService(store instituteStore, logger *zap.Logger) *AvailabilityService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AvailabilityService{store: store, logger: logger}
}

// AvailableRooms returns every room with its free/busy state for the exact
// (date, period) pair, in registry order.
func (s *AvailabilityService) AvailableRooms(ctx context.Context, code, date string, periodIndex int) ([]models.RoomAvailability, error) {
	if _, err := time.Parse(bookingDateLayout, date); err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}

	institute, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if periodIndex < 0 || periodIndex >= institute.MasterTimetable.PeriodCount() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "period index out of range")
	}

	bookedBy := make(map[string]string)
	for _, booking := range institute.RoomBookings {
		if booking.Date == date && booking.Period == periodIndex {
			name := booking.TeacherID
			if teacher, ok := institute.FindTeacher(booking.TeacherID); ok {
				name = teacher.Name
			}
			bookedBy[booking.RoomID] = name
		}
	}

	result := make([]models.RoomAvailability, 0, len(institute.Infrastructure.Rooms))
	for _, room := range institute.Infrastructure.Rooms {
		holder, booked := bookedBy[room.ID]
		entry := models.RoomAvailability{Room: room, Available: !booked}
		if booked {
			entry.BookedBy = holder
		}
		result = append(result, entry)
	}
	return result, nil
}
