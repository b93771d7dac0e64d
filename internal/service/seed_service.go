package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

// SeedService provisions the two sample institutes on startup: INST001 with a
// populated campus and INST002 as a blank slate. Seeding is idempotent and
// never overwrites an existing document.
type SeedService struct {
	repo   instituteRepository
	logger *zap.Logger
}

// NewSeedService creates a new seed service.
func NewSeedService(repo instituteRepository, logger *zap.Logger) *SeedService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SeedService{repo: repo, logger: logger}
}

// Run seeds any missing sample institute.
func (s *SeedService) Run(ctx context.Context) error {
	for _, institute := range []*models.Institute{sampleInstitute(), emptyInstitute()} {
		exists, err := s.repo.Exists(ctx, institute.Code)
		if err != nil {
			return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to check sample institute")
		}
		if exists {
			continue
		}
		if err := s.repo.Save(ctx, institute); err != nil {
			return appErrors.Wrap(err, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to seed sample institute")
		}
		s.logger.Info("sample institute seeded", zap.String("code", institute.Code))
	}
	return nil
}

func sampleInstitute() *models.Institute {
	return &models.Institute{
		Code:          "INST001",
		Name:          "Sample Institute of Technology",
		Password:      "inst@123",
		Created:       time.Now().UTC(),
		HasSampleData: true,
		Infrastructure: models.Infrastructure{
			Buildings: []models.Building{
				{ID: "B001", Name: "Main Building", Floors: 5},
				{ID: "B002", Name: "Science Block", Floors: 4},
				{ID: "B003", Name: "Engineering Wing", Floors: 3},
			},
			Rooms: []models.Room{
				{ID: "R001", Building: "B001", Floor: 1, Number: "101", Type: models.RoomTypeClassroom, Capacity: 60},
				{ID: "R002", Building: "B001", Floor: 1, Number: "102", Type: models.RoomTypeClassroom, Capacity: 60},
				{ID: "R003", Building: "B001", Floor: 1, Number: "103", Type: models.RoomTypeLab, LabType: "Computer", Capacity: 40},
				{ID: "R004", Building: "B001", Floor: 2, Number: "201", Type: models.RoomTypeClassroom, Capacity: 80},
				{ID: "R005", Building: "B001", Floor: 2, Number: "202", Type: models.RoomTypeLab, LabType: "Physics", Capacity: 30},
				{ID: "R006", Building: "B002", Floor: 1, Number: "S101", Type: models.RoomTypeLab, LabType: "Chemistry", Capacity: 35},
				{ID: "R007", Building: "B002", Floor: 2, Number: "S201", Type: models.RoomTypeClassroom, Capacity: 70},
				{ID: "R008", Building: "B003", Floor: 1, Number: "E101", Type: models.RoomTypeLab, LabType: "Electrical", Capacity: 25},
				{ID: "R009", Building: "B003", Floor: 1, Number: "E102", Type: models.RoomTypeLab, LabType: "Mechanical", Capacity: 25},
				{ID: "R010", Building: "B003", Floor: 2, Number: "E201", Type: models.RoomTypeClassroom, Capacity: 50},
			},
		},
		Departments: []models.Department{
			{ID: "CS", Name: "Computer Science", Years: 4},
			{ID: "IT", Name: "Information Technology", Years: 4},
			{ID: "AIML", Name: "AI & Machine Learning", Years: 4},
			{ID: "ELEC", Name: "Electrical Engineering", Years: 4},
			{ID: "MECH", Name: "Mechanical Engineering", Years: 4},
			{ID: "CIVIL", Name: "Civil Engineering", Years: 4},
		},
		Teachers: []models.Teacher{
			{ID: "T001", Code: "PROF001", Name: "Dr. Sarah Johnson", Department: "CS", Email: "sarah@institute.edu"},
			{ID: "T002", Code: "PROF002", Name: "Prof. Michael Chen", Department: "IT", Email: "michael@institute.edu"},
			{ID: "T003", Code: "PROF003", Name: "Dr. Emily Williams", Department: "AIML", Email: "emily@institute.edu"},
			{ID: "T004", Code: "PROF004", Name: "Prof. Robert Kim", Department: "ELEC", Email: "robert@institute.edu"},
			{ID: "T005", Code: "PROF005", Name: "Dr. Lisa Rodriguez", Department: "MECH", Email: "lisa@institute.edu"},
			{ID: "T006", Code: "PROF006", Name: "Prof. James Wilson", Department: "CIVIL", Email: "james@institute.edu"},
		},
		Users: models.UserDirectory{
			Admin: []models.PortalUser{
				{Username: "admin", Password: "admin123", Name: "System Administrator", Role: models.RoleAdmin},
				{Username: "director", Password: "director123", Name: "Institute Director", Role: models.RoleAdmin},
			},
			Teacher: []models.PortalUser{
				{Username: "teacher1", Password: "teacher123", Name: "Dr. Sarah Johnson", TeacherID: "T001", Role: models.RoleTeacher},
				{Username: "teacher2", Password: "teacher456", Name: "Prof. Michael Chen", TeacherID: "T002", Role: models.RoleTeacher},
			},
			Student: []models.PortalUser{
				{Username: "student1", Password: "student123", Name: "John Smith", RollNo: "CS2001", Year: 2, Department: "CS", Division: "A", Role: models.RoleStudent},
				{Username: "student2", Password: "student456", Name: "Emma Davis", RollNo: "IT2002", Year: 2, Department: "IT", Division: "B", Role: models.RoleStudent},
			},
		},
		MasterTimetable: DefaultMasterTimetable(),
		Timetables: map[string]*models.Timetable{
			"1-CS-A": {
				Year: 1, Department: "CS", Division: "A",
				Schedule: map[string][]models.Slot{
					"Monday": {
						{Subject: "Mathematics-I", Teacher: "T001", Room: "R001", Type: models.ClassTypeTheory},
						{Subject: "Physics", Teacher: "T003", Room: "R005", Type: models.ClassTypeLab},
						{Subject: "Programming Basics", Teacher: "T002", Room: "R003", Type: models.ClassTypeLab},
						{Subject: "English", Teacher: "T004", Room: "R002", Type: models.ClassTypeTheory},
						{Subject: "Mathematics-I", Teacher: "T001", Room: "R001", Type: models.ClassTypeTheory},
						{Subject: "Engineering Drawing", Teacher: "T005", Room: "R004", Type: models.ClassTypeTheory},
						{Subject: "Library", Room: "LIB", Type: models.ClassTypeOther},
					},
					"Tuesday": {
						{Subject: "Physics", Teacher: "T003", Room: "R002", Type: models.ClassTypeTheory},
						{Subject: "Chemistry", Teacher: "T006", Room: "R006", Type: models.ClassTypeLab},
						{Subject: "Programming Basics", Teacher: "T002", Room: "R001", Type: models.ClassTypeTheory},
						{Subject: "Mathematics-I", Teacher: "T001", Room: "R001", Type: models.ClassTypeTheory},
						{Subject: "Workshop", Teacher: "T005", Room: "WS001", Type: models.ClassTypeLab},
						{Subject: "Physics", Teacher: "T003", Room: "R005", Type: models.ClassTypeLab},
						{Subject: "Sports", Room: "Ground", Type: models.ClassTypeOther},
					},
					"Wednesday": {
						{Subject: "Chemistry", Teacher: "T006", Room: "R002", Type: models.ClassTypeTheory},
						{Subject: "Mathematics-I", Teacher: "T001", Room: "R001", Type: models.ClassTypeTheory},
						{Subject: "Programming Basics Lab", Teacher: "T002", Room: "R003", Type: models.ClassTypeLab},
						{Subject: "Physics", Teacher: "T003", Room: "R002", Type: models.ClassTypeTheory},
						{Subject: "English", Teacher: "T004", Room: "R005", Type: models.ClassTypeTheory},
						{Subject: "Tutorial", Teacher: "T001", Room: "R001", Type: models.ClassTypeTutorial},
						{Subject: "Project Work", Teacher: "T002", Room: "R003", Type: models.ClassTypeLab},
					},
				},
			},
			"2-CS-A": {
				Year: 2, Department: "CS", Division: "A",
				Schedule: map[string][]models.Slot{
					"Monday": {
						{Subject: "Data Structures", Teacher: "T001", Room: "R001", Type: models.ClassTypeTheory},
						{Subject: "Data Structures Lab", Teacher: "T001", Room: "R003", Type: models.ClassTypeLab},
						{Subject: "Discrete Mathematics", Teacher: "T002", Room: "R002", Type: models.ClassTypeTheory},
						{Subject: "Digital Electronics", Teacher: "T004", Room: "R004", Type: models.ClassTypeTheory},
						{Subject: "Digital Electronics Lab", Teacher: "T004", Room: "R008", Type: models.ClassTypeLab},
						{Subject: "Communication Skills", Teacher: "T003", Room: "R005", Type: models.ClassTypeTheory},
						{Subject: "Library", Room: "LIB", Type: models.ClassTypeOther},
					},
					"Tuesday": {
						{Subject: "Discrete Mathematics", Teacher: "T002", Room: "R001", Type: models.ClassTypeTheory},
						{Subject: "Data Structures", Teacher: "T001", Room: "R001", Type: models.ClassTypeTheory},
						{Subject: "Object Oriented Programming", Teacher: "T001", Room: "R003", Type: models.ClassTypeLab},
						{Subject: "Digital Electronics", Teacher: "T004", Room: "R004", Type: models.ClassTypeTheory},
						{Subject: "Workshop", Teacher: "T005", Room: "WS001", Type: models.ClassTypeLab},
						{Subject: "Physics Lab", Teacher: "T003", Room: "R005", Type: models.ClassTypeLab},
						{Subject: "Sports", Room: "Ground", Type: models.ClassTypeOther},
					},
					"Wednesday": {
						{Subject: "Data Structures", Teacher: "T001", Room: "R001", Type: models.ClassTypeTheory},
						{Subject: "Discrete Mathematics", Teacher: "T002", Room: "R002", Type: models.ClassTypeTheory},
						{Subject: "Digital Electronics Lab", Teacher: "T004", Room: "R008", Type: models.ClassTypeLab},
						{Subject: "Object Oriented Programming", Teacher: "T001", Room: "R001", Type: models.ClassTypeTheory},
						{Subject: "Communication Skills", Teacher: "T003", Room: "R005", Type: models.ClassTypeTheory},
						{Subject: "Tutorial", Teacher: "T001", Room: "R001", Type: models.ClassTypeTutorial},
						{Subject: "Project Work", Teacher: "T002", Room: "R003", Type: models.ClassTypeLab},
					},
				},
			},
		},
		RoomBookings: []models.Booking{
			{ID: "BK001", RoomID: "R001", TeacherID: "T001", Date: "2023-10-15", Period: 3, Purpose: "Guest Lecture"},
			{ID: "BK002", RoomID: "R003", TeacherID: "T002", Date: "2023-10-16", Period: 5, Purpose: "Project Work"},
		},
	}
}

func emptyInstitute() *models.Institute {
	return &models.Institute{
		Code:            "INST002",
		Name:            "New Institute of Engineering",
		Password:        "inst@123",
		Created:         time.Now().UTC(),
		MasterTimetable: DefaultMasterTimetable(),
		Timetables:      map[string]*models.Timetable{},
		Users: models.UserDirectory{
			Admin: []models.PortalUser{
				{Username: "admin", Password: "admin123", Name: "Administrator", Role: models.RoleAdmin},
			},
			Teacher: []models.PortalUser{
				{Username: "teacher1", Password: "teacher123", Name: "New Teacher", Role: models.RoleTeacher},
			},
		},
	}
}
