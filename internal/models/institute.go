package models

import "time"

// Room types recognised by the infrastructure registry.
const (
	RoomTypeClassroom = "classroom"
	RoomTypeLab       = "lab"
	RoomTypeOther     = "other"
)

// Department groups teachers and timetables. Referenced by id (soft relation).
type Department struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Years int    `json:"years"`
}

// Building owns rooms through the Room.Building soft reference.
type Building struct {
	ID     string `json:"id"`
	Name   string `json:"name"`
	Floors int    `json:"floors"`
}

// Room is a bookable space inside a building.
type Room struct {
	ID       string `json:"id"`
	Building string `json:"building"`
	Floor    int    `json:"floor"`
	Number   string `json:"number"`
	Type     string `json:"type"`
	LabType  string `json:"labType,omitempty"`
	Capacity int    `json:"capacity"`
}

// Infrastructure bundles the physical assets of an institute.
type Infrastructure struct {
	Buildings []Building `json:"buildings"`
	Rooms     []Room     `json:"rooms"`
}

// Teacher is a staff member. Workload is never stored; it is always computed
// from timetable data (see WorkloadService).
type Teacher struct {
	ID         string `json:"id"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Email      string `json:"email"`
}

// PortalUser is a dashboard login within an institute.
type PortalUser struct {
	Username   string `json:"username"`
	Password   string `json:"password"`
	Name       string `json:"name"`
	Role       string `json:"role"`
	TeacherID  string `json:"teacherId,omitempty"`
	RollNo     string `json:"rollNo,omitempty"`
	Year       int    `json:"year,omitempty"`
	Department string `json:"department,omitempty"`
	Division   string `json:"division,omitempty"`
}

// UserDirectory holds portal users grouped by role.
type UserDirectory struct {
	Admin   []PortalUser `json:"admin"`
	Teacher []PortalUser `json:"teacher"`
	Student []PortalUser `json:"student"`
}

// ByRole returns the user list for a role, nil for unknown roles.
func (d UserDirectory) ByRole(role string) []PortalUser {
	switch role {
	case RoleAdmin:
		return d.Admin
	case RoleTeacher:
		return d.Teacher
	case RoleStudent:
		return d.Student
	}
	return nil
}

// Institute is the root aggregate: one JSON document per institute, persisted
// whole (last write wins).
type Institute struct {
	Code            string                `json:"-"`
	Name            string                `json:"name"`
	Password        string                `json:"password"`
	Created         time.Time             `json:"created"`
	HasSampleData   bool                  `json:"hasSampleData"`
	Infrastructure  Infrastructure        `json:"infrastructure"`
	Departments     []Department          `json:"departments"`
	Teachers        []Teacher             `json:"teachers"`
	Users           UserDirectory         `json:"users"`
	MasterTimetable MasterTimetable       `json:"masterTimetable"`
	Timetables      map[string]*Timetable `json:"timetables"`
	RoomBookings    []Booking             `json:"roomBookings"`
}

// InstituteSummary is the public projection of an institute (no credentials).
type InstituteSummary struct {
	Code          string    `json:"code"`
	Name          string    `json:"name"`
	HasSampleData bool      `json:"hasSampleData"`
	Created       time.Time `json:"created"`
}

// Summary projects the institute without its password.
func (i *Institute) Summary() InstituteSummary {
	return InstituteSummary{
		Code:          i.Code,
		Name:          i.Name,
		HasSampleData: i.HasSampleData,
		Created:       i.Created,
	}
}

// FindDepartment looks a department up by id.
func (i *Institute) FindDepartment(id string) (*Department, bool) {
	for idx := range i.Departments {
		if i.Departments[idx].ID == id {
			return &i.Departments[idx], true
		}
	}
	return nil, false
}

// FindTeacher looks a teacher up by id.
func (i *Institute) FindTeacher(id string) (*Teacher, bool) {
	for idx := range i.Teachers {
		if i.Teachers[idx].ID == id {
			return &i.Teachers[idx], true
		}
	}
	return nil, false
}

// FindBuilding looks a building up by id.
func (i *Institute) FindBuilding(id string) (*Building, bool) {
	for idx := range i.Infrastructure.Buildings {
		if i.Infrastructure.Buildings[idx].ID == id {
			return &i.Infrastructure.Buildings[idx], true
		}
	}
	return nil, false
}

// FindRoom looks a room up by id.
func (i *Institute) FindRoom(id string) (*Room, bool) {
	for idx := range i.Infrastructure.Rooms {
		if i.Infrastructure.Rooms[idx].ID == id {
			return &i.Infrastructure.Rooms[idx], true
		}
	}
	return nil, false
}

// RoomCountInBuilding counts rooms referencing the given building.
func (i *Institute) RoomCountInBuilding(buildingID string) int {
	count := 0
	for _, room := range i.Infrastructure.Rooms {
		if room.Building == buildingID {
			count++
		}
	}
	return count
}

// TeacherInUse reports whether a teacher is referenced by a timetable slot or booking.
func (i *Institute) TeacherInUse(teacherID string) bool {
	for _, tt := range i.Timetables {
		for _, slots := range tt.Schedule {
			for _, slot := range slots {
				if slot.Teacher == teacherID {
					return true
				}
			}
		}
	}
	for _, booking := range i.RoomBookings {
		if booking.TeacherID == teacherID {
			return true
		}
	}
	return false
}

// RoomInUse reports whether a room is referenced by a timetable slot or booking.
func (i *Institute) RoomInUse(roomID string) bool {
	for _, tt := range i.Timetables {
		for _, slots := range tt.Schedule {
			for _, slot := range slots {
				if slot.Room == roomID {
					return true
				}
			}
		}
	}
	for _, booking := range i.RoomBookings {
		if booking.RoomID == roomID {
			return true
		}
	}
	return false
}

// DepartmentInUse reports whether any teacher or timetable references the department.
func (i *Institute) DepartmentInUse(departmentID string) bool {
	for _, teacher := range i.Teachers {
		if teacher.Department == departmentID {
			return true
		}
	}
	for _, tt := range i.Timetables {
		if tt.Department == departmentID {
			return true
		}
	}
	return false
}
