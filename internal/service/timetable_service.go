package service

import (
	"context"
	"fmt"
	"sort"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

// instituteStore is the slice of InstituteService the domain services depend on.
type instituteStore interface {
	Get(ctx context.Context, code string) (*models.Institute, error)
	Mutate(ctx context.Context, code string, fn func(*models.Institute) error) (*models.Institute, error)
}

// SlotRequest captures the content written into a grid cell.
type SlotRequest struct {
	Subject string `json:"subject" validate:"required"`
	Teacher string `json:"teacher"`
	Room    string `json:"room"`
	Type    string `json:"type" validate:"omitempty,oneof=theory lab tutorial other"`
	Merged  bool   `json:"merged"`
}

// TimetableSummary lists a class grid without its schedule body.
type TimetableSummary struct {
	Key        string `json:"key"`
	Year       int    `json:"year"`
	Department string `json:"department"`
	Division   string `json:"division"`
}

// TimetableService is the grid engine: it creates class timetables against the
// master grid shape and keeps every cell write inside the grid invariants.
// Merged pairs are maintained symmetrically here so no caller ever needs to
// touch both cells itself.
type TimetableService struct {
	store     instituteStore
	validator *validator.Validate
	logger    *zap.Logger
}

// NewTimetableService creates a new timetable service.
func NewTimetableService(store instituteStore, validate *validator.Validate, logger *zap.Logger) *TimetableService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TimetableService{store: store, validator: validate, logger: logger}
}

// List returns summaries for every class timetable, ordered by key.
func (s *TimetableService) List(ctx context.Context, code string) ([]TimetableSummary, error) {
	institute, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	summaries := make([]TimetableSummary, 0, len(institute.Timetables))
	for key, tt := range institute.Timetables {
		summaries = append(summaries, TimetableSummary{
			Key:        key,
			Year:       tt.Year,
			Department: tt.Department,
			Division:   tt.Division,
		})
	}
	sort.Slice(summaries, func(i, j int) bool { return summaries[i].Key < summaries[j].Key })
	return summaries, nil
}

// Get returns one class timetable by its grid coordinates.
func (s *TimetableService) Get(ctx context.Context, code string, year int, department, division string) (*models.Timetable, error) {
	institute, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	tt, ok := institute.Timetables[models.TimetableKey(year, department, division)]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
	}
	return tt, nil
}

// CreateEmpty registers a new class timetable with an all-empty schedule
// shaped by the master grid. Creating the same key twice fails with a
// duplicate error and leaves the stored timetable untouched.
func (s *TimetableService) CreateEmpty(ctx context.Context, code string, year int, department, division string) (*models.Timetable, error) {
	if division == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "division is required")
	}

	key := models.TimetableKey(year, department, division)
	var created *models.Timetable
	_, err := s.store.Mutate(ctx, code, func(inst *models.Institute) error {
		if !inst.MasterTimetable.HasYear(year) {
			return appErrors.Clone(appErrors.ErrValidation, "year is not part of the master timetable")
		}
		if _, ok := inst.FindDepartment(department); !ok {
			return appErrors.Clone(appErrors.ErrValidation, "department does not exist")
		}
		if _, ok := inst.Timetables[key]; ok {
			return appErrors.Clone(appErrors.ErrConflict, "timetable already exists for this class")
		}

		schedule := make(map[string][]models.Slot, len(inst.MasterTimetable.Days))
		for _, day := range inst.MasterTimetable.Days {
			schedule[day] = make([]models.Slot, inst.MasterTimetable.PeriodCount())
		}
		if inst.Timetables == nil {
			inst.Timetables = map[string]*models.Timetable{}
		}
		created = &models.Timetable{Year: year, Department: department, Division: division, Schedule: schedule}
		inst.Timetables[key] = created
		return nil
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

// Delete removes a class timetable.
func (s *TimetableService) Delete(ctx context.Context, code string, year int, department, division string) error {
	key := models.TimetableKey(year, department, division)
	_, err := s.store.Mutate(ctx, code, func(inst *models.Institute) error {
		if _, ok := inst.Timetables[key]; !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		delete(inst.Timetables, key)
		return nil
	})
	return err
}

// SetSlot writes a cell. With Merged set, the class occupies two consecutive
// periods: the head cell and a continuation copy at periodIndex+1. Any merged
// pair the write overlaps is cleared first so pairs never interleave.
func (s *TimetableService) SetSlot(ctx context.Context, code string, year int, department, division, day string, periodIndex int, req SlotRequest) (*models.Timetable, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid slot payload")
	}

	key := models.TimetableKey(year, department, division)
	var updated *models.Timetable
	_, err := s.store.Mutate(ctx, code, func(inst *models.Institute) error {
		tt, ok := inst.Timetables[key]
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		if !inst.MasterTimetable.HasDay(day) {
			return appErrors.Clone(appErrors.ErrValidation, "day is not part of the master timetable")
		}
		periods := inst.MasterTimetable.PeriodCount()
		if periodIndex < 0 || periodIndex >= periods {
			return appErrors.Clone(appErrors.ErrValidation, "period index out of range")
		}
		if req.Merged && periodIndex+1 >= periods {
			return appErrors.Clone(appErrors.ErrValidation, "cannot merge across the end of the day")
		}
		if req.Teacher != "" {
			if _, ok := inst.FindTeacher(req.Teacher); !ok {
				return appErrors.Clone(appErrors.ErrValidation, "teacher does not exist")
			}
		}
		if req.Room != "" {
			if _, ok := inst.FindRoom(req.Room); !ok {
				return appErrors.Clone(appErrors.ErrValidation, "room does not exist")
			}
		}

		slots := ensureDay(tt, day, periods)
		clearMergedPair(slots, periodIndex)
		if req.Merged {
			clearMergedPair(slots, periodIndex+1)
		}

		slot := models.Slot{
			Subject: req.Subject,
			Teacher: req.Teacher,
			Room:    req.Room,
			Type:    req.Type,
			Merged:  req.Merged,
		}
		slots[periodIndex] = slot
		if req.Merged {
			tail := slot
			tail.Continuation = true
			slots[periodIndex+1] = tail
		}
		updated = tt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// ClearSlot empties a cell. Targeting either end of a merged pair clears both
// ends, so a dangling head or tail can never be left behind.
func (s *TimetableService) ClearSlot(ctx context.Context, code string, year int, department, division, day string, periodIndex int) (*models.Timetable, error) {
	key := models.TimetableKey(year, department, division)
	var updated *models.Timetable
	_, err := s.store.Mutate(ctx, code, func(inst *models.Institute) error {
		tt, ok := inst.Timetables[key]
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "timetable not found")
		}
		if !inst.MasterTimetable.HasDay(day) {
			return appErrors.Clone(appErrors.ErrValidation, "day is not part of the master timetable")
		}
		periods := inst.MasterTimetable.PeriodCount()
		if periodIndex < 0 || periodIndex >= periods {
			return appErrors.Clone(appErrors.ErrValidation, "period index out of range")
		}

		slots := ensureDay(tt, day, periods)
		clearMergedPair(slots, periodIndex)
		updated = tt
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// UpdatePeriods replaces the master period list and resizes every class
// timetable to the new period count. A merged head whose tail falls off the
// end of a shortened day is demoted to a plain single-period slot.
func (s *TimetableService) UpdatePeriods(ctx context.Context, code string, periods []models.Period) (*models.MasterTimetable, error) {
	if len(periods) == 0 {
		return nil, appErrors.Clone(appErrors.ErrValidation, "at least one period is required")
	}
	for i, period := range periods {
		if period.Start == "" || period.End == "" || period.Start >= period.End {
			return nil, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("Period %d: Start time must be before end time", i+1))
		}
	}

	var master models.MasterTimetable
	_, err := s.store.Mutate(ctx, code, func(inst *models.Institute) error {
		inst.MasterTimetable.Periods = periods
		count := len(periods)
		for _, tt := range inst.Timetables {
			for _, day := range inst.MasterTimetable.Days {
				slots := ensureDay(tt, day, count)
				if len(slots) > count {
					slots = slots[:count]
				}
				if count > 0 && slots[count-1].Merged && !slots[count-1].Continuation {
					slots[count-1].Merged = false
				}
				if slots[0].Continuation {
					slots[0] = models.Slot{}
				}
				tt.Schedule[day] = slots
			}
		}
		master = inst.MasterTimetable
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &master, nil
}

// GetMaster returns the master timetable shape.
func (s *TimetableService) GetMaster(ctx context.Context, code string) (*models.MasterTimetable, error) {
	institute, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	return &institute.MasterTimetable, nil
}

// ensureDay returns the slot slice for a day, growing it to the period count.
func ensureDay(tt *models.Timetable, day string, periods int) []models.Slot {
	if tt.Schedule == nil {
		tt.Schedule = map[string][]models.Slot{}
	}
	slots := tt.Schedule[day]
	for len(slots) < periods {
		slots = append(slots, models.Slot{})
	}
	tt.Schedule[day] = slots
	return slots
}

// clearMergedPair empties the cell at index and, when the cell belongs to a
// merged pair, its partner cell as well.
func clearMergedPair(slots []models.Slot, index int) {
	if index < 0 || index >= len(slots) {
		return
	}
	slot := slots[index]
	switch {
	case slot.Continuation:
		slots[index] = models.Slot{}
		if index > 0 {
			slots[index-1] = models.Slot{}
		}
	case slot.Merged:
		slots[index] = models.Slot{}
		if index+1 < len(slots) {
			slots[index+1] = models.Slot{}
		}
	default:
		slots[index] = models.Slot{}
	}
}
