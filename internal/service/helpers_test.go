package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

// fakeStore is an in-memory instituteStore. Get and Mutate hand out deep
// copies, mirroring the repository round-trip through JSON.
type fakeStore struct {
	mu        sync.Mutex
	institute *models.Institute
	saveErr   error
	getCalls  int
}

func newFakeStore(institute *models.Institute) *fakeStore {
	return &fakeStore{institute: institute}
}

func (f *fakeStore) Get(_ context.Context, code string) (*models.Institute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.getCalls++
	if f.institute == nil || f.institute.Code != code {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "institute not found")
	}
	return deepCopyInstitute(f.institute), nil
}

func (f *fakeStore) Mutate(_ context.Context, code string, fn func(*models.Institute) error) (*models.Institute, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.institute == nil || f.institute.Code != code {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "institute not found")
	}

	working := deepCopyInstitute(f.institute)
	if err := fn(working); err != nil {
		return nil, err
	}
	if f.saveErr != nil {
		return nil, appErrors.Wrap(f.saveErr, appErrors.ErrPersistence.Code, appErrors.ErrPersistence.Status, "failed to save institute")
	}
	f.institute = working
	return deepCopyInstitute(working), nil
}

func deepCopyInstitute(src *models.Institute) *models.Institute {
	payload, err := json.Marshal(src)
	if err != nil {
		panic(err)
	}
	copied := &models.Institute{}
	if err := json.Unmarshal(payload, copied); err != nil {
		panic(err)
	}
	copied.Code = src.Code
	return copied
}

func testInstitute() *models.Institute {
	return &models.Institute{
		Code:    "INST100",
		Name:    "Test Institute",
		Created: time.Now().UTC(),
		Infrastructure: models.Infrastructure{
			Buildings: []models.Building{{ID: "B1", Name: "Main", Floors: 3}},
			Rooms: []models.Room{
				{ID: "R1", Building: "B1", Floor: 1, Number: "101", Type: models.RoomTypeClassroom, Capacity: 50},
				{ID: "R2", Building: "B1", Floor: 1, Number: "102", Type: models.RoomTypeClassroom, Capacity: 50},
			},
		},
		Departments: []models.Department{
			{ID: "CS", Name: "Computer Science", Years: 4},
			{ID: "IT", Name: "Information Technology", Years: 4},
		},
		Teachers: []models.Teacher{
			{ID: "T001", Code: "PROF001", Name: "Dr. Ada Lovelace", Department: "CS", Email: "ada@test.edu"},
			{ID: "T002", Code: "PROF002", Name: "Dr. Alan Turing", Department: "CS", Email: "alan@test.edu"},
		},
		Users: models.UserDirectory{
			Admin: []models.PortalUser{
				{Username: "admin", Password: "admin123", Name: "Admin", Role: models.RoleAdmin},
			},
			Teacher: []models.PortalUser{
				{Username: "teacher1", Password: "teacher123", Name: "Dr. Ada Lovelace", TeacherID: "T001", Role: models.RoleTeacher},
			},
		},
		MasterTimetable: DefaultMasterTimetable(),
		Timetables:      map[string]*models.Timetable{},
	}
}
