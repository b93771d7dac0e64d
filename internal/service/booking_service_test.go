package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

func TestBookingCreateAssignsSequentialIDs(t *testing.T) {
	store := newFakeStore(testInstitute())
	svc := NewBookingService(store, nil, nil)
	ctx := context.Background()

	first, err := svc.Create(ctx, "INST100", CreateBookingRequest{
		RoomID: "R1", TeacherID: "T001", Date: "2024-01-10", Period: 3, Purpose: "Guest Lecture",
	})
	require.NoError(t, err)
	assert.Equal(t, "BK001", first.ID)

	second, err := svc.Create(ctx, "INST100", CreateBookingRequest{
		RoomID: "R1", TeacherID: "T002", Date: "2024-01-10", Period: 3, Purpose: "Project Work",
	})
	require.NoError(t, err)
	assert.Equal(t, "BK002", second.ID)

	// Same room, date and period on purpose: the ledger does not reject
	// overlaps, availability is checked separately.
	bookings, err := svc.List(ctx, "INST100", "")
	require.NoError(t, err)
	assert.Len(t, bookings, 2)
}

func TestBookingCreateWithoutTeacher(t *testing.T) {
	store := newFakeStore(testInstitute())
	svc := NewBookingService(store, nil, nil)
	ctx := context.Background()

	// The teacher id is optional; a room can be held without naming anyone.
	created, err := svc.Create(ctx, "INST100", CreateBookingRequest{
		RoomID: "R1", Date: "2024-01-10", Period: 2, Purpose: "Maintenance",
	})
	require.NoError(t, err)
	assert.Equal(t, "BK001", created.ID)
	assert.Empty(t, created.TeacherID)

	bookings, err := svc.List(ctx, "INST100", "")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Empty(t, bookings[0].TeacherID)
}

func TestBookingCreateValidation(t *testing.T) {
	svc := NewBookingService(newFakeStore(testInstitute()), nil, nil)
	ctx := context.Background()

	cases := []struct {
		name string
		req  CreateBookingRequest
	}{
		{"unknown room", CreateBookingRequest{RoomID: "R999", TeacherID: "T001", Date: "2024-01-10"}},
		{"unknown teacher", CreateBookingRequest{RoomID: "R1", TeacherID: "T999", Date: "2024-01-10"}},
		{"bad date", CreateBookingRequest{RoomID: "R1", TeacherID: "T001", Date: "Jan 10"}},
		{"period out of range", CreateBookingRequest{RoomID: "R1", TeacherID: "T001", Date: "2024-01-10", Period: 7}},
		{"missing room", CreateBookingRequest{TeacherID: "T001", Date: "2024-01-10"}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.Create(ctx, "INST100", tc.req)
			require.Error(t, err)
			assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
		})
	}
}

func TestBookingListFiltersByDate(t *testing.T) {
	store := newFakeStore(testInstitute())
	svc := NewBookingService(store, nil, nil)
	ctx := context.Background()

	_, err := svc.Create(ctx, "INST100", CreateBookingRequest{RoomID: "R1", TeacherID: "T001", Date: "2024-01-10", Period: 1})
	require.NoError(t, err)
	_, err = svc.Create(ctx, "INST100", CreateBookingRequest{RoomID: "R2", TeacherID: "T001", Date: "2024-01-11", Period: 1})
	require.NoError(t, err)

	bookings, err := svc.List(ctx, "INST100", "2024-01-11")
	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "BK002", bookings[0].ID)
}

func TestBookingCancel(t *testing.T) {
	store := newFakeStore(testInstitute())
	svc := NewBookingService(store, nil, nil)
	ctx := context.Background()

	created, err := svc.Create(ctx, "INST100", CreateBookingRequest{RoomID: "R1", TeacherID: "T001", Date: "2024-01-10", Period: 2})
	require.NoError(t, err)

	require.NoError(t, svc.Cancel(ctx, "INST100", created.ID))

	bookings, err := svc.List(ctx, "INST100", "")
	require.NoError(t, err)
	assert.Empty(t, bookings)

	err = svc.Cancel(ctx, "INST100", created.ID)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}
