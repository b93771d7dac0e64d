package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/institute-portal-api/internal/models"
	"github.com/campushq/institute-portal-api/internal/service"
	"github.com/campushq/institute-portal-api/pkg/config"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
	"github.com/campushq/institute-portal-api/pkg/response"
	"github.com/campushq/institute-portal-api/pkg/storage"
)

// memRepo is an in-memory institute repository used to run the full router
// without postgres.
type memRepo struct {
	docs map[string]*models.Institute
}

func newMemRepo(institutes ...*models.Institute) *memRepo {
	repo := &memRepo{docs: map[string]*models.Institute{}}
	for _, inst := range institutes {
		repo.docs[inst.Code] = copyInstitute(inst)
	}
	return repo
}

func copyInstitute(src *models.Institute) *models.Institute {
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

func (m *memRepo) Load(_ context.Context, code string) (*models.Institute, error) {
	inst, ok := m.docs[code]
	if !ok {
		return nil, appErrors.ErrNotFound
	}
	return copyInstitute(inst), nil
}

func (m *memRepo) Save(_ context.Context, institute *models.Institute) error {
	m.docs[institute.Code] = copyInstitute(institute)
	return nil
}

func (m *memRepo) Delete(_ context.Context, code string) error {
	if _, ok := m.docs[code]; !ok {
		return appErrors.ErrNotFound
	}
	delete(m.docs, code)
	return nil
}

func (m *memRepo) Exists(_ context.Context, code string) (bool, error) {
	_, ok := m.docs[code]
	return ok, nil
}

func (m *memRepo) ListCodes(_ context.Context) ([]string, error) {
	codes := make([]string, 0, len(m.docs))
	for code := range m.docs {
		codes = append(codes, code)
	}
	return codes, nil
}

func portalFixture() *models.Institute {
	return &models.Institute{
		Code:     "INST100",
		Name:     "Test Institute",
		Password: "inst@123",
		Created:  time.Now().UTC(),
		Infrastructure: models.Infrastructure{
			Buildings: []models.Building{{ID: "B1", Name: "Main", Floors: 3}},
			Rooms: []models.Room{
				{ID: "R1", Building: "B1", Floor: 1, Number: "101", Type: models.RoomTypeClassroom, Capacity: 50},
			},
		},
		Departments: []models.Department{{ID: "CS", Name: "Computer Science", Years: 4}},
		Teachers: []models.Teacher{
			{ID: "T001", Code: "PROF001", Name: "Dr. Ada Lovelace", Department: "CS"},
		},
		Users: models.UserDirectory{
			Admin: []models.PortalUser{
				{Username: "admin", Password: "admin123", Name: "Admin", Role: models.RoleAdmin},
			},
			Teacher: []models.PortalUser{
				{Username: "teacher1", Password: "teacher123", Name: "Dr. Ada Lovelace", TeacherID: "T001", Role: models.RoleTeacher},
			},
		},
		MasterTimetable: service.DefaultMasterTimetable(),
		Timetables:      map[string]*models.Timetable{},
	}
}

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	repo := newMemRepo(portalFixture())
	validate := validator.New()

	institutes := service.NewInstituteService(repo, nil, validate, nil, time.Minute)
	timetables := service.NewTimetableService(institutes, validate, nil)
	conflicts := service.NewConflictService(institutes, nil)
	workloads := service.NewWorkloadService(institutes, nil)
	availability := service.NewAvailabilityService(institutes, nil)
	bookings := service.NewBookingService(institutes, validate, nil)
	auth := service.NewAuthService(institutes, testJWT(), validate, nil)
	metrics := service.NewMetricsService()

	files, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("router-test-secret", time.Hour)
	exports := service.NewExportService(institutes, conflicts, workloads, files, signer, service.ExportQueueConfig{Workers: 1}, nil)

	r := gin.New()
	Register(r, "/api/v1", auth, metrics, Handlers{
		Auth:       NewAuthHandler(auth),
		Institutes: NewInstituteHandler(institutes),
		Timetables: NewTimetableHandler(timetables, conflicts),
		Bookings:   NewBookingHandler(bookings, availability),
		Workload:   NewWorkloadHandler(workloads),
		Exports:    NewExportHandler(exports),
		Metrics:    NewMetricsHandler(metrics),
	})
	return r
}

func doJSON(r *gin.Engine, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			panic(err)
		}
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func login(t *testing.T, r *gin.Engine, role, username, password string) string {
	t.Helper()
	w := doJSON(r, http.MethodPost, "/api/v1/auth/login", "", models.LoginRequest{
		Institute: "INST100",
		Role:      role,
		Username:  username,
		Password:  password,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope struct {
		Data models.LoginResponse `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotEmpty(t, envelope.Data.AccessToken)
	return envelope.Data.AccessToken
}

func TestRouterRequiresAuthentication(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodGet, "/api/v1/institutes/INST100", "", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestRouterBlocksCrossInstituteAccess(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, models.RoleAdmin, "admin", "admin123")

	w := doJSON(r, http.MethodGet, "/api/v1/institutes/INST999/departments", token, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestRouterEnforcesAdminRole(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, models.RoleTeacher, "teacher1", "teacher123")

	w := doJSON(r, http.MethodPost, "/api/v1/institutes/INST100/departments", token, gin.H{
		"id": "EE", "name": "Electrical", "years": 4,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)

	// Teachers can still read.
	w = doJSON(r, http.MethodGet, "/api/v1/institutes/INST100/departments", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestTimetableLifecycleOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, models.RoleAdmin, "admin", "admin123")

	w := doJSON(r, http.MethodPost, "/api/v1/institutes/INST100/timetables", token, gin.H{
		"year": 2, "department": "CS", "division": "A",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = doJSON(r, http.MethodPut, "/api/v1/institutes/INST100/timetables/2/CS/A/slots/Monday/1", token, gin.H{
		"subject": "Algorithms", "teacher": "T001", "room": "R1", "type": "theory",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = doJSON(r, http.MethodGet, "/api/v1/institutes/INST100/timetables/2/CS/A", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var envelope struct {
		Data models.Timetable `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, "Algorithms", envelope.Data.Schedule["Monday"][1].Subject)

	w = doJSON(r, http.MethodGet, "/api/v1/institutes/INST100/conflicts", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var conflictsEnvelope struct {
		Data []models.Conflict `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &conflictsEnvelope))
	assert.Empty(t, conflictsEnvelope.Data)

	w = doJSON(r, http.MethodDelete, "/api/v1/institutes/INST100/timetables/2/CS/A/slots/Monday/1", token, nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestBookingFlowOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, models.RoleTeacher, "teacher1", "teacher123")

	w := doJSON(r, http.MethodPost, "/api/v1/institutes/INST100/bookings", token, gin.H{
		"roomId": "R1", "teacherId": "T001", "date": "2024-01-10", "period": 3, "purpose": "Guest Lecture",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created struct {
		Data models.Booking `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &created))
	assert.Equal(t, "BK001", created.Data.ID)

	w = doJSON(r, http.MethodGet, "/api/v1/institutes/INST100/rooms/available?date=2024-01-10&period=3", token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var availability struct {
		Data []models.RoomAvailability `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &availability))
	require.Len(t, availability.Data, 1)
	assert.False(t, availability.Data[0].Available)
	assert.Equal(t, "Dr. Ada Lovelace", availability.Data[0].BookedBy)

	w = doJSON(r, http.MethodDelete, "/api/v1/institutes/INST100/bookings/BK001", token, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	// Teachers may not book in someone else's name.
	w = doJSON(r, http.MethodPost, "/api/v1/institutes/INST100/bookings", token, gin.H{
		"roomId": "R1", "teacherId": "T999", "date": "2024-01-10", "period": 3,
	})
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestExportRenderOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, models.RoleAdmin, "admin", "admin123")

	w := doJSON(r, http.MethodGet, "/api/v1/institutes/INST100/export?dataset=workload&format=csv", token, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), "attachment")
	assert.True(t, strings.HasPrefix(w.Body.String(), "Teacher ID,Code,Name,Department,Weekly Periods,Status"))
}

func TestImportTimetablesOverHTTP(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, models.RoleAdmin, "admin", "admin123")

	csvPayload := "Year,Department,Division,Day,Period,Subject,Teacher,Room\n2,CS,A,Monday,2,Algorithms,T001,R1\n"
	req := httptest.NewRequest(http.MethodPost, "/api/v1/institutes/INST100/imports/timetables", strings.NewReader(csvPayload))
	req.Header.Set("Content-Type", "text/csv")
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var envelope struct {
		Data map[string]int `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 1, envelope.Data["imported"])
}

func TestInstituteRegistrationIsPublic(t *testing.T) {
	r := newTestRouter(t)

	w := doJSON(r, http.MethodPost, "/api/v1/institutes", "", gin.H{
		"code": "INST300", "name": "Another Institute", "password": "secret1",
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Nil(t, envelope.Error)
}

func TestErrorEnvelopeShape(t *testing.T) {
	r := newTestRouter(t)
	token := login(t, r, models.RoleAdmin, "admin", "admin123")

	w := doJSON(r, http.MethodGet, "/api/v1/institutes/INST100/timetables/9/CS/A", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)

	var envelope response.Envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	require.NotNil(t, envelope.Error)
	assert.Equal(t, appErrors.ErrNotFound.Code, envelope.Error.Code)
}

func testJWT() config.JWTConfig {
	return config.JWTConfig{Secret: "router-test-secret", Expiration: time.Hour, Issuer: "institute-portal"}
}
