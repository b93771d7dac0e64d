package service

import (
	"context"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

type instituteRepository interface {
	Load(ctx context.Context, code string) (*models.Institute, error)
	Save(ctx context.Context, institute *models.Institute) error
	Delete(ctx context.Context, code string) error
	Exists(ctx context.Context, code string) (bool, error)
	ListCodes(ctx context.Context) ([]string, error)
}

type documentCache interface {
	Get(ctx context.Context, key string, dest interface{}) error
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string)
}

// RegisterInstituteRequest captures fields for registering an institute.
type RegisterInstituteRequest struct {
	Code     string `json:"code" validate:"required,alphanum,min=4,max=16"`
	Name     string `json:"name" validate:"required,min=3"`
	Password string `json:"password" validate:"required,min=6"`
}

// DepartmentRequest captures fields for creating or updating a department.
type DepartmentRequest struct {
	ID    string `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Years int    `json:"years" validate:"required,min=3,max=5"`
}

// TeacherRequest captures fields for creating or updating a teacher.
type TeacherRequest struct {
	ID         string `json:"id" validate:"required"`
	Code       string `json:"code" validate:"required"`
	Name       string `json:"name" validate:"required"`
	Department string `json:"department" validate:"required"`
	Email      string `json:"email" validate:"omitempty,email"`
}

// BuildingRequest captures fields for creating or updating a building.
type BuildingRequest struct {
	ID     string `json:"id" validate:"required"`
	Name   string `json:"name" validate:"required"`
	Floors int    `json:"floors" validate:"required,min=1"`
}

// RoomRequest captures fields for creating or updating a room.
type RoomRequest struct {
	ID       string `json:"id" validate:"required"`
	Building string `json:"building" validate:"required"`
	Floor    int    `json:"floor" validate:"min=0"`
	Number   string `json:"number" validate:"required"`
	Type     string `json:"type" validate:"required,oneof=classroom lab other"`
	LabType  string `json:"labType"`
	Capacity int    `json:"capacity" validate:"required,min=1"`
}

// InstituteService is the entity store: it owns loading, caching and mutating
// institute documents. All writes are serialized per institute and applied to
// a fresh copy, so a failed persistence never leaves memory and store diverged.
type InstituteService struct {
	repo      instituteRepository
	cache     documentCache
	validator *validator.Validate
	logger    *zap.Logger
	metrics   *MetricsService
	cacheTTL  time.Duration

	locks sync.Map
}

// NewInstituteService creates a new institute service.
func NewInstituteService(repo instituteRepository, cache documentCache, validate *validator.Validate, logger *zap.Logger, cacheTTL time.Duration) *InstituteService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if cacheTTL <= 0 {
		cacheTTL = 5 * time.Minute
	}
	return &InstituteService{repo: repo, cache: cache, validator: validate, logger: logger, cacheTTL: cacheTTL}
}

// WithMetrics attaches Prometheus instrumentation. Safe to skip.
func (s *InstituteService) WithMetrics(metrics *MetricsService) *InstituteService {
	s.metrics = metrics
	return s
}

func cacheKey(code string) string {
	return "institute:" + code
}

func (s *InstituteService) lockFor(code string) *sync.Mutex {
	mu, _ := s.locks.LoadOrStore(code, &sync.Mutex{})
	return mu.(*sync.Mutex)
}

// Get returns the institute document, serving from cache when possible.
func (s *InstituteService) Get(ctx context.Context, code string) (*models.Institute, error) {
	if s.cache != nil {
		var cached models.Institute
		if err := s.cache.Get(ctx, cacheKey(code), &cached); err == nil {
			s.metrics.RecordCacheLookup(true)
			cached.Code = code
			return &cached, nil
		}
		s.metrics.RecordCacheLookup(false)
	}

	institute, err := s.repo.Load(ctx, code)
	if err != nil {
		if err == appErrors.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institute not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load institute")
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey(code), institute, s.cacheTTL); err != nil {
			s.logger.Warn("institute cache set failed", zap.String("code", code), zap.Error(err))
		}
	}
	return institute, nil
}

// Mutate applies fn to a freshly loaded copy of the institute document and
// persists the result. The write lock is held per institute code, so
// concurrent mutations of the same institute are serialized. The cache entry
// is invalidated after a successful save.
func (s *InstituteService) Mutate(ctx context.Context, code string, fn func(*models.Institute) error) (*models.Institute, error) {
	mu := s.lockFor(code)
	mu.Lock()
	defer mu.Unlock()

	institute, err := s.repo.Load(ctx, code)
	if err != nil {
		if err == appErrors.ErrNotFound {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "institute not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to load institute")
	}

	if err := fn(institute); err != nil {
		s.metrics.RecordMutation("rejected")
		return nil, err
	}

	if err := s.repo.Save(ctx, institute); err != nil {
		s.metrics.RecordMutation("error")
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to save institute")
	}
	if s.cache != nil {
		s.cache.Delete(ctx, cacheKey(code))
	}
	s.metrics.RecordMutation("success")
	return institute, nil
}

// Register creates a new institute with the default master grid and a
// bootstrap admin account.
func (s *InstituteService) Register(ctx context.Context, req RegisterInstituteRequest) (*models.Institute, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid institute payload")
	}

	exists, err := s.repo.Exists(ctx, req.Code)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to check institute code")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "institute code already registered")
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to hash password")
	}

	institute := &models.Institute{
		Code:            req.Code,
		Name:            req.Name,
		Password:        string(hashed),
		Created:         time.Now().UTC(),
		MasterTimetable: DefaultMasterTimetable(),
		Timetables:      map[string]*models.Timetable{},
		Users: models.UserDirectory{
			Admin: []models.PortalUser{
				{Username: "admin", Password: string(hashed), Name: "Administrator", Role: models.RoleAdmin},
			},
		},
	}

	if err := s.repo.Save(ctx, institute); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to save institute")
	}
	s.logger.Info("institute registered", zap.String("code", institute.Code))
	return institute, nil
}

// Delete removes an institute document entirely.
func (s *InstituteService) Delete(ctx context.Context, code string) error {
	mu := s.lockFor(code)
	mu.Lock()
	defer mu.Unlock()

	if err := s.repo.Delete(ctx, code); err != nil {
		if err == appErrors.ErrNotFound {
			return appErrors.Clone(appErrors.ErrNotFound, "institute not found")
		}
		return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to delete institute")
	}
	if s.cache != nil {
		s.cache.Delete(ctx, cacheKey(code))
	}
	return nil
}

// List returns public summaries of every registered institute.
func (s *InstituteService) List(ctx context.Context) ([]models.InstituteSummary, error) {
	codes, err := s.repo.ListCodes(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to list institutes")
	}

	summaries := make([]models.InstituteSummary, 0, len(codes))
	for _, code := range codes {
		institute, err := s.Get(ctx, code)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, institute.Summary())
	}
	return summaries, nil
}

// AddDepartment appends a department after checking id uniqueness.
func (s *InstituteService) AddDepartment(ctx context.Context, code string, req DepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}

	department := models.Department{ID: req.ID, Name: req.Name, Years: req.Years}
	_, err := s.Mutate(ctx, code, func(inst *models.Institute) error {
		if _, ok := inst.FindDepartment(req.ID); ok {
			return appErrors.Clone(appErrors.ErrConflict, "department id already exists")
		}
		inst.Departments = append(inst.Departments, department)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &department, nil
}

// UpdateDepartment modifies an existing department in place.
func (s *InstituteService) UpdateDepartment(ctx context.Context, code, departmentID string, req DepartmentRequest) (*models.Department, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid department payload")
	}
	if req.ID != departmentID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "department id cannot be changed")
	}

	var updated models.Department
	_, err := s.Mutate(ctx, code, func(inst *models.Institute) error {
		department, ok := inst.FindDepartment(departmentID)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		department.Name = req.Name
		department.Years = req.Years
		updated = *department
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteDepartment removes a department unless teachers or timetables still
// reference it.
func (s *InstituteService) DeleteDepartment(ctx context.Context, code, departmentID string) error {
	_, err := s.Mutate(ctx, code, func(inst *models.Institute) error {
		if _, ok := inst.FindDepartment(departmentID); !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "department not found")
		}
		if inst.DepartmentInUse(departmentID) {
			return appErrors.Clone(appErrors.ErrConflict, "department is referenced by teachers or timetables")
		}
		kept := inst.Departments[:0]
		for _, department := range inst.Departments {
			if department.ID != departmentID {
				kept = append(kept, department)
			}
		}
		inst.Departments = kept
		return nil
	})
	return err
}

// AddTeacher appends a teacher after validating the department reference.
func (s *InstituteService) AddTeacher(ctx context.Context, code string, req TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}

	teacher := models.Teacher{ID: req.ID, Code: req.Code, Name: req.Name, Department: req.Department, Email: req.Email}
	_, err := s.Mutate(ctx, code, func(inst *models.Institute) error {
		if _, ok := inst.FindTeacher(req.ID); ok {
			return appErrors.Clone(appErrors.ErrConflict, "teacher id already exists")
		}
		if _, ok := inst.FindDepartment(req.Department); !ok {
			return appErrors.Clone(appErrors.ErrValidation, "department does not exist")
		}
		inst.Teachers = append(inst.Teachers, teacher)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &teacher, nil
}

// UpdateTeacher modifies an existing teacher in place.
func (s *InstituteService) UpdateTeacher(ctx context.Context, code, teacherID string, req TeacherRequest) (*models.Teacher, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid teacher payload")
	}
	if req.ID != teacherID {
		return nil, appErrors.Clone(appErrors.ErrValidation, "teacher id cannot be changed")
	}

	var updated models.Teacher
	_, err := s.Mutate(ctx, code, func(inst *models.Institute) error {
		teacher, ok := inst.FindTeacher(teacherID)
		if !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		if _, ok := inst.FindDepartment(req.Department); !ok {
			return appErrors.Clone(appErrors.ErrValidation, "department does not exist")
		}
		teacher.Code = req.Code
		teacher.Name = req.Name
		teacher.Department = req.Department
		teacher.Email = req.Email
		updated = *teacher
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &updated, nil
}

// DeleteTeacher removes a teacher unless timetable slots or bookings still
// reference them.
func (s *InstituteService) DeleteTeacher(ctx context.Context, code, teacherID string) error {
	_, err := s.Mutate(ctx, code, func(inst *models.Institute) error {
		if _, ok := inst.FindTeacher(teacherID); !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "teacher not found")
		}
		if inst.TeacherInUse(teacherID) {
			return appErrors.Clone(appErrors.ErrConflict, "teacher is referenced by timetable slots or bookings")
		}
		kept := inst.Teachers[:0]
		for _, teacher := range inst.Teachers {
			if teacher.ID != teacherID {
				kept = append(kept, teacher)
			}
		}
		inst.Teachers = kept
		return nil
	})
	return err
}

// AddBuilding appends a building after checking id uniqueness.
func (s *InstituteService) AddBuilding(ctx context.Context, code string, req BuildingRequest) (*models.Building, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid building payload")
	}

	building := models.Building{ID: req.ID, Name: req.Name, Floors: req.Floors}
	_, err := s.Mutate(ctx, code, func(inst *models.Institute) error {
		if _, ok := inst.FindBuilding(req.ID); ok {
			return appErrors.Clone(appErrors.ErrConflict, "building id already exists")
		}
		inst.Infrastructure.Buildings = append(inst.Infrastructure.Buildings, building)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &building, nil
}

// DeleteBuilding removes a building unless it still contains rooms.
func (s *InstituteService) DeleteBuilding(ctx context.Context, code, buildingID string) error {
	_, err := s.Mutate(ctx, code, func(inst *models.Institute) error {
		if _, ok := inst.FindBuilding(buildingID); !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "building not found")
		}
		if inst.RoomCountInBuilding(buildingID) > 0 {
			return appErrors.Clone(appErrors.ErrConflict, "building still contains rooms")
		}
		kept := inst.Infrastructure.Buildings[:0]
		for _, building := range inst.Infrastructure.Buildings {
			if building.ID != buildingID {
				kept = append(kept, building)
			}
		}
		inst.Infrastructure.Buildings = kept
		return nil
	})
	return err
}

// AddRoom appends a room after validating the building reference and number
// uniqueness within that building.
func (s *InstituteService) AddRoom(ctx context.Context, code string, req RoomRequest) (*models.Room, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid room payload")
	}
	if req.Type == models.RoomTypeLab && req.LabType == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "lab rooms require a lab type")
	}

	room := models.Room{
		ID:       req.ID,
		Building: req.Building,
		Floor:    req.Floor,
		Number:   req.Number,
		Type:     req.Type,
		LabType:  req.LabType,
		Capacity: req.Capacity,
	}
	_, err := s.Mutate(ctx, code, func(inst *models.Institute) error {
		if _, ok := inst.FindRoom(req.ID); ok {
			return appErrors.Clone(appErrors.ErrConflict, "room id already exists")
		}
		building, ok := inst.FindBuilding(req.Building)
		if !ok {
			return appErrors.Clone(appErrors.ErrValidation, "building does not exist")
		}
		if req.Floor > building.Floors {
			return appErrors.Clone(appErrors.ErrValidation, "floor exceeds building floor count")
		}
		for _, existing := range inst.Infrastructure.Rooms {
			if existing.Building == req.Building && existing.Number == req.Number {
				return appErrors.Clone(appErrors.ErrConflict, "room number already exists in building")
			}
		}
		inst.Infrastructure.Rooms = append(inst.Infrastructure.Rooms, room)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &room, nil
}

// DeleteRoom removes a room unless timetable slots or bookings still reference it.
func (s *InstituteService) DeleteRoom(ctx context.Context, code, roomID string) error {
	_, err := s.Mutate(ctx, code, func(inst *models.Institute) error {
		if _, ok := inst.FindRoom(roomID); !ok {
			return appErrors.Clone(appErrors.ErrNotFound, "room not found")
		}
		if inst.RoomInUse(roomID) {
			return appErrors.Clone(appErrors.ErrConflict, "room is referenced by timetable slots or bookings")
		}
		kept := inst.Infrastructure.Rooms[:0]
		for _, room := range inst.Infrastructure.Rooms {
			if room.ID != roomID {
				kept = append(kept, room)
			}
		}
		inst.Infrastructure.Rooms = kept
		return nil
	})
	return err
}

// DefaultMasterTimetable returns the grid shape new institutes start with.
func DefaultMasterTimetable() models.MasterTimetable {
	return models.MasterTimetable{
		Years: []int{1, 2, 3, 4},
		Days:  []string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday", "Saturday"},
		Periods: []models.Period{
			{Start: "09:00", End: "10:00"},
			{Start: "10:00", End: "11:00"},
			{Start: "11:00", End: "12:00"},
			{Start: "12:00", End: "13:00"},
			{Start: "14:00", End: "15:00"},
			{Start: "15:00", End: "16:00"},
			{Start: "16:00", End: "17:00"},
		},
	}
}
