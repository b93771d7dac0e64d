package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/institute-portal-api/internal/models"
	appErrors "github.com/campushq/institute-portal-api/pkg/errors"
)

func TestAvailableRoomsChecksLedgerOnly(t *testing.T) {
	inst := testInstitute()
	inst.RoomBookings = []models.Booking{
		{ID: "BK001", RoomID: "R1", TeacherID: "T001", Date: "2024-01-10", Period: 3, Purpose: "Seminar"},
	}
	svc := NewAvailabilityService(newFakeStore(inst), nil)
	ctx := context.Background()

	rooms, err := svc.AvailableRooms(ctx, "INST100", "2024-01-10", 3)
	require.NoError(t, err)
	require.Len(t, rooms, 2)
	assert.Equal(t, "R1", rooms[0].Room.ID)
	assert.False(t, rooms[0].Available)
	assert.Equal(t, "Dr. Ada Lovelace", rooms[0].BookedBy)
	assert.True(t, rooms[1].Available)
	assert.Empty(t, rooms[1].BookedBy)

	// Adjacent period is unaffected by the booking.
	rooms, err = svc.AvailableRooms(ctx, "INST100", "2024-01-10", 4)
	require.NoError(t, err)
	assert.True(t, rooms[0].Available)
	assert.True(t, rooms[1].Available)
}

func TestAvailableRoomsFallsBackToTeacherID(t *testing.T) {
	inst := testInstitute()
	inst.RoomBookings = []models.Booking{
		{ID: "BK001", RoomID: "R2", TeacherID: "T404", Date: "2024-01-10", Period: 0},
	}
	svc := NewAvailabilityService(newFakeStore(inst), nil)

	rooms, err := svc.AvailableRooms(context.Background(), "INST100", "2024-01-10", 0)
	require.NoError(t, err)
	assert.Equal(t, "T404", rooms[1].BookedBy)
}

func TestAvailableRoomsValidation(t *testing.T) {
	svc := NewAvailabilityService(newFakeStore(testInstitute()), nil)
	ctx := context.Background()

	_, err := svc.AvailableRooms(ctx, "INST100", "10/01/2024", 0)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.AvailableRooms(ctx, "INST100", "2024-01-10", 7)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}
