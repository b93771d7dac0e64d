package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

// WorkloadService computes per-teacher teaching load from timetable data.
// Workload is never stored on the teacher record; it is derived on demand so
// it cannot diverge from the grids.
type WorkloadService struct {
	store  instituteStore
	logger *zap.Logger
}

// NewWorkloadService creates a new workload service.
func NewWorkloadService(store instituteStore, logger *zap.Logger) *WorkloadService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WorkloadService{store: store, logger: logger}
}

// ForTeacher counts assigned periods across every timetable. Each period is
// one unit regardless of its wall-clock length; both cells of a merged pair
// count. Every master day appears in the daily map, zero when free.
func (s *WorkloadService) ForTeacher(ctx context.Context, code, teacherID string) (*models.Workload, error) {
	institute, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if _, ok := institute.FindTeacher(teacherID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	workload := computeWorkload(institute, teacherID)
	return workload, nil
}

// DailyBreakdown classifies each day of a teacher's load in master day order.
func (s *WorkloadService) DailyBreakdown(ctx context.Context, code, teacherID string) ([]models.DailyStatus, error) {
	institute, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}
	if _, ok := institute.FindTeacher(teacherID); !ok {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
	}

	workload := computeWorkload(institute, teacherID)
	breakdown := make([]models.DailyStatus, 0, len(institute.MasterTimetable.Days))
	for _, day := range institute.MasterTimetable.Days {
		count := workload.Daily[day]
		breakdown = append(breakdown, models.DailyStatus{
			Day:     day,
			Periods: count,
			Status:  ClassifyDaily(count),
		})
	}
	return breakdown, nil
}

// Report summarises the weekly load of every teacher, in registry order.
func (s *WorkloadService) Report(ctx context.Context, code string) ([]models.WorkloadReportRow, error) {
	institute, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	rows := make([]models.WorkloadReportRow, 0, len(institute.Teachers))
	for _, teacher := range institute.Teachers {
		workload := computeWorkload(institute, teacher.ID)
		rows = append(rows, models.WorkloadReportRow{
			TeacherID:  teacher.ID,
			Code:       teacher.Code,
			Name:       teacher.Name,
			Department: teacher.Department,
			Weekly:     workload.Weekly,
			Status:     workload.Status,
		})
	}
	return rows, nil
}

func computeWorkload(institute *models.Institute, teacherID string) *models.Workload {
	daily := make(map[string]int, len(institute.MasterTimetable.Days))
	for _, day := range institute.MasterTimetable.Days {
		daily[day] = 0
	}

	weekly := 0
	for _, tt := range institute.Timetables {
		for day, slots := range tt.Schedule {
			for _, slot := range slots {
				if slot.Teacher == teacherID {
					weekly++
					daily[day]++
				}
			}
		}
	}
	return &models.Workload{
		TeacherID: teacherID,
		Weekly:    weekly,
		Status:    ClassifyWeekly(weekly),
		Daily:     daily,
	}
}

// ClassifyWeekly maps a weekly period count to its load status.
func ClassifyWeekly(weekly int) string {
	switch {
	case weekly > 25:
		return models.WorkloadHeavy
	case weekly > 18:
		return models.WorkloadModerate
	case weekly < 12:
		return models.WorkloadLight
	default:
		return models.WorkloadOptimal
	}
}

// ClassifyDaily maps a single day's period count to its load status.
func ClassifyDaily(count int) string {
	switch {
	case count > 4:
		return models.WorkloadHeavy
	case count == 0:
		return models.WorkloadFree
	default:
		return models.WorkloadOptimal
	}
}
