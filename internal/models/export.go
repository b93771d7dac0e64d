package models

import "time"

// Export datasets.
const (
	ExportDatasetTimetables = "timetables"
	ExportDatasetConflicts  = "conflicts"
	ExportDatasetWorkload   = "workload"
	ExportDatasetBookings   = "bookings"
)

// Export formats.
const (
	ExportFormatCSV  = "csv"
	ExportFormatJSON = "json"
	ExportFormatPDF  = "pdf"
)

// Export job lifecycle states.
const (
	ExportStatusQueued     = "queued"
	ExportStatusProcessing = "processing"
	ExportStatusCompleted  = "completed"
	ExportStatusFailed     = "failed"
)

// ExportJob tracks one asynchronous export request.
type ExportJob struct {
	ID            string     `json:"id"`
	InstituteCode string     `json:"instituteCode"`
	Dataset       string     `json:"dataset"`
	Format        string     `json:"format"`
	Status        string     `json:"status"`
	FileName      string     `json:"fileName,omitempty"`
	DownloadToken string     `json:"downloadToken,omitempty"`
	ExpiresAt     *time.Time `json:"expiresAt,omitempty"`
	Error         string     `json:"error,omitempty"`
	CreatedAt     time.Time  `json:"createdAt"`
	CompletedAt   *time.Time `json:"completedAt,omitempty"`
}

// ExportRequest is the payload accepted when queueing an export.
type ExportRequest struct {
	Dataset string `json:"dataset" binding:"required,oneof=timetables conflicts workload bookings"`
	Format  string `json:"format" binding:"required,oneof=csv json pdf"`
}
