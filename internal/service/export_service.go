package service

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
	"github.com/campushq/institute-portal-api/pkg/export"
	"github.com/campushq/institute-portal-api/pkg/jobs"
	"github.com/campushq/institute-portal-api/pkg/storage"
)

type conflictDetector interface {
	Detect(ctx context.Context, code string) ([]models.Conflict, error)
}

type workloadReporter interface {
	Report(ctx context.Context, code string) ([]models.WorkloadReportRow, error)
}

// timetableCSVHeaders is the flattened row format, period numbers 1-based.
var timetableCSVHeaders = []string{"Year", "Department", "Division", "Day", "Period", "Subject", "Teacher", "Room"}

type exportPayload struct {
	JobID         string
	InstituteCode string
	Dataset       string
	Format        string
}

// ExportService renders institute datasets synchronously and runs the
// asynchronous export pipeline: queued job, rendered file on local storage,
// signed download token. Job state lives in memory; exports are disposable
// artifacts regenerated on demand.
type ExportService struct {
	store     instituteStore
	conflicts conflictDetector
	workloads workloadReporter
	files     *storage.LocalStorage
	signer    *storage.SignedURLSigner
	logger    *zap.Logger
	metrics   *MetricsService

	csv  *export.CSVExporter
	json *export.JSONExporter
	pdf  *export.PDFExporter

	queue *jobs.Queue

	mu   sync.RWMutex
	jobs map[string]*models.ExportJob
}

// ExportQueueConfig tunes the background worker pool.
type ExportQueueConfig struct {
	Workers    int
	MaxRetries int
}

// NewExportService creates a new export service with its own worker queue.
func NewExportService(store instituteStore, conflicts conflictDetector, workloads workloadReporter, files *storage.LocalStorage, signer *storage.SignedURLSigner, cfg ExportQueueConfig, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &ExportService{
		store:     store,
		conflicts: conflicts,
		workloads: workloads,
		files:     files,
		signer:    signer,
		logger:    logger,
		csv:       export.NewCSVExporter(),
		json:      export.NewJSONExporter(),
		pdf:       export.NewPDFExporter(),
		jobs:      make(map[string]*models.ExportJob),
	}
	s.queue = jobs.NewQueue("exports", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		MaxRetries: cfg.MaxRetries,
		Logger:     logger,
	})
	return s
}

// WithMetrics attaches Prometheus instrumentation. Safe to skip.
func (s *ExportService) WithMetrics(metrics *MetricsService) *ExportService {
	s.metrics = metrics
	return s
}

// Start launches the export workers.
func (s *ExportService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop drains the export workers.
func (s *ExportService) Stop() {
	s.queue.Stop()
}

// Render produces the dataset synchronously and returns content bytes with
// their media type and suggested filename.
func (s *ExportService) Render(ctx context.Context, code, dataset, format string) ([]byte, string, string, error) {
	content, err := s.render(ctx, code, dataset, format)
	if err != nil {
		return nil, "", "", err
	}
	filename := exportFilename(code, dataset, format)
	return content, contentTypeFor(format), filename, nil
}

// Enqueue registers an export job and schedules it for background rendering.
func (s *ExportService) Enqueue(ctx context.Context, code string, req models.ExportRequest) (*models.ExportJob, error) {
	// Fail fast on unknown institutes before burning a worker slot.
	if _, err := s.store.Get(ctx, code); err != nil {
		return nil, err
	}

	job := &models.ExportJob{
		ID:            uuid.NewString(),
		InstituteCode: code,
		Dataset:       req.Dataset,
		Format:        req.Format,
		Status:        models.ExportStatusQueued,
		CreatedAt:     time.Now().UTC(),
	}

	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()

	err := s.queue.Enqueue(jobs.Job{
		ID:   job.ID,
		Type: "export",
		Payload: exportPayload{
			JobID:         job.ID,
			InstituteCode: code,
			Dataset:       req.Dataset,
			Format:        req.Format,
		},
	})
	if err != nil {
		s.markFailed(job.ID, err)
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to queue export")
	}
	return s.snapshot(job.ID), nil
}

// GetJob returns the current state of an export job.
func (s *ExportService) GetJob(jobID string) (*models.ExportJob, error) {
	job := s.snapshot(jobID)
	if job == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "export job not found")
	}
	return job, nil
}

// ResolveDownload validates a signed token and opens the stored file.
func (s *ExportService) ResolveDownload(token string) (io.ReadCloser, string, string, error) {
	jobID, relPath, _, err := s.signer.Parse(token, false)
	if err != nil {
		return nil, "", "", appErrors.Clone(appErrors.ErrUnauthorized, "invalid or expired download token")
	}

	job := s.snapshot(jobID)
	if job == nil || job.Status != models.ExportStatusCompleted {
		return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "export not available")
	}

	file, err := s.files.Open(relPath)
	if err != nil {
		return nil, "", "", appErrors.Clone(appErrors.ErrNotFound, "export file missing")
	}
	return file, contentTypeFor(job.Format), job.FileName, nil
}

// ImportTimetables rebuilds timetable slots from a flattened CSV previously
// produced by the timetables export. Rows replace the targeted cells; missing
// timetables are created against the master grid shape.
func (s *ExportService) ImportTimetables(ctx context.Context, code string, payload []byte) (int, error) {
	reader := csv.NewReader(bytes.NewReader(payload))
	records, err := reader.ReadAll()
	if err != nil {
		return 0, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "malformed csv payload")
	}
	if len(records) == 0 {
		return 0, appErrors.Clone(appErrors.ErrValidation, "csv payload is empty")
	}
	if !equalHeaders(records[0], timetableCSVHeaders) {
		return 0, appErrors.Clone(appErrors.ErrValidation, "unexpected csv header row")
	}

	imported := 0
	_, err = s.store.Mutate(ctx, code, func(inst *models.Institute) error {
		for i, record := range records[1:] {
			if len(record) != len(timetableCSVHeaders) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d: wrong column count", i+2))
			}
			year, err := strconv.Atoi(record[0])
			if err != nil {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d: invalid year", i+2))
			}
			department, division, day := record[1], record[2], record[3]
			periodNum, err := strconv.Atoi(record[4])
			if err != nil || periodNum < 1 || periodNum > inst.MasterTimetable.PeriodCount() {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d: invalid period", i+2))
			}
			if !inst.MasterTimetable.HasDay(day) {
				return appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("row %d: unknown day", i+2))
			}

			key := models.TimetableKey(year, department, division)
			tt, ok := inst.Timetables[key]
			if !ok {
				schedule := make(map[string][]models.Slot, len(inst.MasterTimetable.Days))
				for _, d := range inst.MasterTimetable.Days {
					schedule[d] = make([]models.Slot, inst.MasterTimetable.PeriodCount())
				}
				tt = &models.Timetable{Year: year, Department: department, Division: division, Schedule: schedule}
				if inst.Timetables == nil {
					inst.Timetables = map[string]*models.Timetable{}
				}
				inst.Timetables[key] = tt
			}

			slots := ensureDay(tt, day, inst.MasterTimetable.PeriodCount())
			slots[periodNum-1] = models.Slot{
				Subject: record[5],
				Teacher: record[6],
				Room:    record[7],
			}
			imported++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return imported, nil
}

func (s *ExportService) handleJob(ctx context.Context, job jobs.Job) error {
	payload, ok := job.Payload.(exportPayload)
	if !ok {
		s.logger.Error("export job carries unexpected payload", zap.String("job_id", job.ID))
		return nil
	}

	s.setStatus(payload.JobID, models.ExportStatusProcessing)

	content, err := s.render(ctx, payload.InstituteCode, payload.Dataset, payload.Format)
	if err != nil {
		s.markFailed(payload.JobID, err)
		return err
	}

	filename := exportFilename(payload.InstituteCode, payload.Dataset, payload.Format)
	relPath := fmt.Sprintf("%s/%s", payload.InstituteCode, filename)
	if _, err := s.files.Save(relPath, content); err != nil {
		s.markFailed(payload.JobID, err)
		return err
	}

	token, expiresAt, err := s.signer.Generate(payload.JobID, relPath)
	if err != nil {
		s.markFailed(payload.JobID, err)
		return err
	}

	now := time.Now().UTC()
	s.mu.Lock()
	if job, ok := s.jobs[payload.JobID]; ok {
		job.Status = models.ExportStatusCompleted
		job.FileName = filename
		job.DownloadToken = token
		job.ExpiresAt = &expiresAt
		job.CompletedAt = &now
		job.Error = ""
	}
	s.mu.Unlock()
	s.metrics.RecordExportJob(models.ExportStatusCompleted)

	s.logger.Info("export completed",
		zap.String("job_id", payload.JobID),
		zap.String("institute", payload.InstituteCode),
		zap.String("dataset", payload.Dataset),
		zap.String("format", payload.Format))
	return nil
}

func (s *ExportService) render(ctx context.Context, code, dataset, format string) ([]byte, error) {
	ds, err := s.buildDataset(ctx, code, dataset)
	if err != nil {
		return nil, err
	}

	switch format {
	case models.ExportFormatCSV:
		out, err := s.csv.Render(*ds)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render csv")
		}
		return out, nil
	case models.ExportFormatJSON:
		out, err := s.json.Render(datasetObjects(*ds))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render json")
		}
		return out, nil
	case models.ExportFormatPDF:
		out, err := s.pdf.Render(*ds, fmt.Sprintf("%s %s", code, dataset))
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render pdf")
		}
		return out, nil
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export format")
	}
}

func (s *ExportService) buildDataset(ctx context.Context, code, dataset string) (*export.Dataset, error) {
	switch dataset {
	case models.ExportDatasetTimetables:
		return s.timetableDataset(ctx, code)
	case models.ExportDatasetConflicts:
		return s.conflictDataset(ctx, code)
	case models.ExportDatasetWorkload:
		return s.workloadDataset(ctx, code)
	case models.ExportDatasetBookings:
		return s.bookingDataset(ctx, code)
	default:
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported export dataset")
	}
}

// timetableDataset flattens every grid into rows, period numbers 1-based.
// Raw slot values are exported so a re-import reconstructs the same cells.
func (s *ExportService) timetableDataset(ctx context.Context, code string) (*export.Dataset, error) {
	institute, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	keys := make([]string, 0, len(institute.Timetables))
	for key := range institute.Timetables {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]map[string]string, 0)
	for _, key := range keys {
		tt := institute.Timetables[key]
		for _, day := range institute.MasterTimetable.Days {
			for periodIndex, slot := range tt.Schedule[day] {
				if !slot.Occupied() {
					continue
				}
				rows = append(rows, map[string]string{
					"Year":       strconv.Itoa(tt.Year),
					"Department": tt.Department,
					"Division":   tt.Division,
					"Day":        day,
					"Period":     strconv.Itoa(periodIndex + 1),
					"Subject":    slot.Subject,
					"Teacher":    slot.Teacher,
					"Room":       slot.Room,
				})
			}
		}
	}
	return &export.Dataset{Headers: timetableCSVHeaders, Rows: rows}, nil
}

func (s *ExportService) conflictDataset(ctx context.Context, code string) (*export.Dataset, error) {
	conflicts, err := s.conflicts.Detect(ctx, code)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(conflicts))
	for _, c := range conflicts {
		rows = append(rows, map[string]string{
			"Type":          c.Type,
			"Identifier":    c.Identifier,
			"Day":           c.Day,
			"Period":        strconv.Itoa(c.PeriodIndex + 1),
			"Timetable":     c.TimetableKey,
			"Conflict With": c.ConflictWith,
			"Subject":       c.Subject,
		})
	}
	return &export.Dataset{
		Headers: []string{"Type", "Identifier", "Day", "Period", "Timetable", "Conflict With", "Subject"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) workloadDataset(ctx context.Context, code string) (*export.Dataset, error) {
	report, err := s.workloads.Report(ctx, code)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(report))
	for _, row := range report {
		rows = append(rows, map[string]string{
			"Teacher ID":     row.TeacherID,
			"Code":           row.Code,
			"Name":           row.Name,
			"Department":     row.Department,
			"Weekly Periods": strconv.Itoa(row.Weekly),
			"Status":         row.Status,
		})
	}
	return &export.Dataset{
		Headers: []string{"Teacher ID", "Code", "Name", "Department", "Weekly Periods", "Status"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) bookingDataset(ctx context.Context, code string) (*export.Dataset, error) {
	institute, err := s.store.Get(ctx, code)
	if err != nil {
		return nil, err
	}

	rows := make([]map[string]string, 0, len(institute.RoomBookings))
	for _, booking := range institute.RoomBookings {
		rows = append(rows, map[string]string{
			"ID":      booking.ID,
			"Room":    booking.RoomID,
			"Teacher": booking.TeacherID,
			"Date":    booking.Date,
			"Period":  strconv.Itoa(booking.Period + 1),
			"Purpose": booking.Purpose,
		})
	}
	return &export.Dataset{
		Headers: []string{"ID", "Room", "Teacher", "Date", "Period", "Purpose"},
		Rows:    rows,
	}, nil
}

func (s *ExportService) snapshot(jobID string) *models.ExportJob {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[jobID]
	if !ok {
		return nil
	}
	copied := *job
	return &copied
}

func (s *ExportService) setStatus(jobID, status string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = status
	}
}

func (s *ExportService) markFailed(jobID string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if job, ok := s.jobs[jobID]; ok {
		job.Status = models.ExportStatusFailed
		job.Error = err.Error()
	}
	s.metrics.RecordExportJob(models.ExportStatusFailed)
}

// datasetObjects converts a tabular dataset into ordered JSON objects.
func datasetObjects(ds export.Dataset) []map[string]string {
	objects := make([]map[string]string, 0, len(ds.Rows))
	for _, row := range ds.Rows {
		obj := make(map[string]string, len(ds.Headers))
		for _, header := range ds.Headers {
			obj[header] = row[header]
		}
		objects = append(objects, obj)
	}
	return objects
}

func exportFilename(code, dataset, format string) string {
	return fmt.Sprintf("%s_%s_%s.%s", code, dataset, time.Now().UTC().Format("20060102T150405"), format)
}

func contentTypeFor(format string) string {
	switch format {
	case models.ExportFormatCSV:
		return "text/csv"
	case models.ExportFormatJSON:
		return "application/json"
	case models.ExportFormatPDF:
		return "application/pdf"
	default:
		return "application/octet-stream"
	}
}

func equalHeaders(got, want []string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range want {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}
