package service

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/campushq/institute-portal-api/internal/models"
)

// ConflictService finds double-bookings of teachers and rooms across all
// class timetables of an institute.
type ConflictService struct {
	store  instituteStore
	logger *zap.Logger
}

// NewConflictService creates a new conflict service.
func NewConflictService(store instituteStore, logger *zap.Logger) *ConflictService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ConflictService{store: store, logger: logger}
}

type occupancy struct {
	timetableKey string
	subject      string
}

// Detect runs a single pass over every timetable, day and period. A slot only
// participates when both a teacher and a room are assigned; a slot missing
// either is never considered conflicting. Iteration order is fixed (sorted
// timetable keys, master day order, ascending periods) so the result is
// reproducible for identical input.
func (s *ConflictService) Detect(ctx context.Context, code string) ([]models.Conflict, error) {
	institute, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(institute.Timetables))
	for key := range institute.Timetables {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	teacherSeen := make(map[string]occupancy)
	roomSeen := make(map[string]occupancy)
	conflicts := make([]models.Conflict, 0)

	for _, key := range keys {
		tt := institute.Timetables[key]
		for _, day := range institute.MasterTimetable.Days {
			for periodIndex, slot := range tt.Schedule[day] {
				if slot.Teacher == "" || slot.Room == "" {
					continue
				}

				teacherKey := occupancyKey(day, periodIndex, slot.Teacher)
				if prior, ok := teacherSeen[teacherKey]; ok {
					conflicts = append(conflicts, models.Conflict{
						Type:         models.ConflictTypeTeacher,
						Identifier:   slot.Teacher,
						Day:          day,
						PeriodIndex:  periodIndex,
						TimetableKey: key,
						ConflictWith: prior.timetableKey,
						Subject:      slot.Subject,
					})
				} else {
					teacherSeen[teacherKey] = occupancy{timetableKey: key, subject: slot.Subject}
				}

				roomKey := occupancyKey(day, periodIndex, slot.Room)
				if prior, ok := roomSeen[roomKey]; ok {
					conflicts = append(conflicts, models.Conflict{
						Type:         models.ConflictTypeRoom,
						Identifier:   slot.Room,
						Day:          day,
						PeriodIndex:  periodIndex,
						TimetableKey: key,
						ConflictWith: prior.timetableKey,
						Subject:      slot.Subject,
					})
				} else {
					roomSeen[roomKey] = occupancy{timetableKey: key, subject: slot.Subject}
				}
			}
		}
	}
	return conflicts, nil
}

func occupancyKey(day string, periodIndex int, id string) string {
	return fmt.Sprintf("%s|%d|%s", day, periodIndex, id)
}
