package service

import (
	"context"
	"encoding/json"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
	"github.com/campushq/institute-portal-api/pkg/storage"
)

func newTestExportService(t *testing.T, store instituteStore) *ExportService {
	t.Helper()
	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("export-test-secret", time.Hour)
	return NewExportService(store, NewConflictService(store, nil), NewWorkloadService(store, nil), files, signer, ExportQueueConfig{Workers: 1}, nil)
}

func instituteWithOneSlot() *models.Institute {
	inst := testInstitute()
	schedule := map[string][]models.Slot{"Monday": make([]models.Slot, 7)}
	schedule["Monday"][1] = models.Slot{Subject: "Algorithms", Teacher: "T001", Room: "R1"}
	inst.Timetables = map[string]*models.Timetable{
		"2-CS-A": {Year: 2, Department: "CS", Division: "A", Schedule: schedule},
	}
	return inst
}

func TestRenderTimetablesCSV(t *testing.T) {
	svc := newTestExportService(t, newFakeStore(instituteWithOneSlot()))

	content, contentType, filename, err := svc.Render(context.Background(), "INST100", models.ExportDatasetTimetables, models.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", contentType)
	assert.True(t, strings.HasSuffix(filename, ".csv"))

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "Year,Department,Division,Day,Period,Subject,Teacher,Room", strings.TrimSpace(lines[0]))
	assert.Equal(t, "2,CS,A,Monday,2,Algorithms,T001,R1", strings.TrimSpace(lines[1]))
}

func TestRenderWorkloadJSON(t *testing.T) {
	svc := newTestExportService(t, newFakeStore(instituteWithOneSlot()))

	content, contentType, _, err := svc.Render(context.Background(), "INST100", models.ExportDatasetWorkload, models.ExportFormatJSON)
	require.NoError(t, err)
	assert.Equal(t, "application/json", contentType)

	var rows []map[string]string
	require.NoError(t, json.Unmarshal(content, &rows))
	require.Len(t, rows, 2)
	assert.Equal(t, "T001", rows[0]["Teacher ID"])
	assert.Equal(t, "1", rows[0]["Weekly Periods"])
	assert.Equal(t, models.WorkloadLight, rows[0]["Status"])
}

func TestRenderRejectsUnknownDatasetAndFormat(t *testing.T) {
	svc := newTestExportService(t, newFakeStore(testInstitute()))
	ctx := context.Background()

	_, _, _, err := svc.Render(ctx, "INST100", "grades", models.ExportFormatCSV)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, _, _, err = svc.Render(ctx, "INST100", models.ExportDatasetTimetables, "xlsx")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestTimetableCSVRoundTrip(t *testing.T) {
	source := newTestExportService(t, newFakeStore(instituteWithOneSlot()))
	ctx := context.Background()

	content, _, _, err := source.Render(ctx, "INST100", models.ExportDatasetTimetables, models.ExportFormatCSV)
	require.NoError(t, err)

	// Import into an institute with no timetables at all.
	targetStore := newFakeStore(testInstitute())
	target := newTestExportService(t, targetStore)

	imported, err := target.ImportTimetables(ctx, "INST100", content)
	require.NoError(t, err)
	assert.Equal(t, 1, imported)

	restored, err := targetStore.Get(ctx, "INST100")
	require.NoError(t, err)
	tt, ok := restored.Timetables["2-CS-A"]
	require.True(t, ok)
	slot := tt.Schedule["Monday"][1]
	assert.Equal(t, "Algorithms", slot.Subject)
	assert.Equal(t, "T001", slot.Teacher)
	assert.Equal(t, "R1", slot.Room)

	// Re-exporting the restored institute yields byte-identical content.
	again, _, _, err := target.Render(ctx, "INST100", models.ExportDatasetTimetables, models.ExportFormatCSV)
	require.NoError(t, err)
	assert.Equal(t, string(content), string(again))
}

func TestImportTimetablesValidation(t *testing.T) {
	svc := newTestExportService(t, newFakeStore(testInstitute()))
	ctx := context.Background()

	cases := []struct {
		name    string
		payload string
	}{
		{"empty payload", ""},
		{"wrong header", "A,B,C\n1,2,3\n"},
		{"bad year", "Year,Department,Division,Day,Period,Subject,Teacher,Room\nabc,CS,A,Monday,1,X,,\n"},
		{"period out of range", "Year,Department,Division,Day,Period,Subject,Teacher,Room\n2,CS,A,Monday,8,X,,\n"},
		{"unknown day", "Year,Department,Division,Day,Period,Subject,Teacher,Room\n2,CS,A,Sunday,1,X,,\n"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.ImportTimetables(ctx, "INST100", []byte(tc.payload))
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestExportPipelineEndToEnd(t *testing.T) {
	svc := newTestExportService(t, newFakeStore(instituteWithOneSlot()))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	svc.Start(ctx)
	defer svc.Stop()

	job, err := svc.Enqueue(ctx, "INST100", models.ExportRequest{
		Dataset: models.ExportDatasetTimetables,
		Format:  models.ExportFormatCSV,
	})
	require.NoError(t, err)
	assert.Equal(t, models.ExportStatusQueued, job.Status)

	require.Eventually(t, func() bool {
		current, err := svc.GetJob(job.ID)
		return err == nil && current.Status == models.ExportStatusCompleted
	}, 5*time.Second, 10*time.Millisecond)

	completed, err := svc.GetJob(job.ID)
	require.NoError(t, err)
	assert.NotEmpty(t, completed.FileName)
	require.NotEmpty(t, completed.DownloadToken)
	require.NotNil(t, completed.ExpiresAt)

	file, contentType, filename, err := svc.ResolveDownload(completed.DownloadToken)
	require.NoError(t, err)
	defer file.Close()
	assert.Equal(t, "text/csv", contentType)
	assert.Equal(t, completed.FileName, filename)

	payload, err := io.ReadAll(file)
	require.NoError(t, err)
	assert.Contains(t, string(payload), "Algorithms")
}

func TestEnqueueUnknownInstitute(t *testing.T) {
	svc := newTestExportService(t, newFakeStore(testInstitute()))

	_, err := svc.Enqueue(context.Background(), "INST999", models.ExportRequest{
		Dataset: models.ExportDatasetTimetables,
		Format:  models.ExportFormatCSV,
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestResolveDownloadRejectsGarbageToken(t *testing.T) {
	svc := newTestExportService(t, newFakeStore(testInstitute()))

	_, _, _, err := svc.ResolveDownload("not-a-token")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrUnauthorized.Code, appErrors.FromError(err).Code)
}
