package models

// Weekly workload statuses, ordered from lightest to heaviest.
const (
	WorkloadLight    = "Light"
	WorkloadOptimal  = "Optimal"
	WorkloadModerate = "Moderate"
	WorkloadHeavy    = "Heavy"
	WorkloadFree     = "Free"
)

// Workload is the computed teaching load for one teacher. Daily is keyed by
// master timetable day name and pre-seeded with zeroes so every configured
// day appears even when empty.
type Workload struct {
	TeacherID string         `json:"teacherId"`
	Weekly    int            `json:"weekly"`
	Status    string         `json:"status"`
	Daily     map[string]int `json:"daily"`
}

// DailyStatus pairs a day with its load classification.
type DailyStatus struct {
	Day     string `json:"day"`
	Periods int    `json:"periods"`
	Status  string `json:"status"`
}

// WorkloadReportRow summarises one teacher for the institute-wide report.
type WorkloadReportRow struct {
	TeacherID  string `json:"teacherId"`
	Code       string `json:"code"`
	Name       string `json:"name"`
	Department string `json:"department"`
	Weekly     int    `json:"weekly"`
	Status     string `json:"status"`
}
