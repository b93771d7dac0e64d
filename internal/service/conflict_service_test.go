package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campushq/institute-portal-api/internal/models"
)

func instituteWithTwoGrids(slotA, slotB models.Slot) *models.Institute {
	inst := testInstitute()
	emptyDay := func() []models.Slot { return make([]models.Slot, 7) }

	scheduleA := map[string][]models.Slot{"Monday": emptyDay()}
	scheduleA["Monday"][2] = slotA
	scheduleB := map[string][]models.Slot{"Monday": emptyDay()}
	scheduleB["Monday"][2] = slotB

	inst.Timetables = map[string]*models.Timetable{
		"2-CS-A": {Year: 2, Department: "CS", Division: "A", Schedule: scheduleA},
		"2-IT-B": {Year: 2, Department: "IT", Division: "B", Schedule: scheduleB},
	}
	return inst
}

func TestConflictTeacherDoubleBooked(t *testing.T) {
	inst := instituteWithTwoGrids(
		models.Slot{Subject: "Maths", Teacher: "T001", Room: "R1"},
		models.Slot{Subject: "Physics", Teacher: "T001", Room: "R2"},
	)
	svc := NewConflictService(newFakeStore(inst), nil)

	conflicts, err := svc.Detect(context.Background(), "INST100")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)

	c := conflicts[0]
	assert.Equal(t, models.ConflictTypeTeacher, c.Type)
	assert.Equal(t, "T001", c.Identifier)
	assert.Equal(t, "Monday", c.Day)
	assert.Equal(t, 2, c.PeriodIndex)
	assert.Equal(t, "2-IT-B", c.TimetableKey)
	assert.Equal(t, "2-CS-A", c.ConflictWith)
}

func TestConflictRoomDoubleBooked(t *testing.T) {
	inst := instituteWithTwoGrids(
		models.Slot{Subject: "Maths", Teacher: "T001", Room: "R1"},
		models.Slot{Subject: "Physics", Teacher: "T002", Room: "R1"},
	)
	svc := NewConflictService(newFakeStore(inst), nil)

	conflicts, err := svc.Detect(context.Background(), "INST100")
	require.NoError(t, err)
	require.Len(t, conflicts, 1)
	assert.Equal(t, models.ConflictTypeRoom, conflicts[0].Type)
	assert.Equal(t, "R1", conflicts[0].Identifier)
}

func TestConflictSkipsSlotsMissingTeacherOrRoom(t *testing.T) {
	inst := instituteWithTwoGrids(
		models.Slot{Subject: "Maths", Teacher: "T001"},
		models.Slot{Subject: "Physics", Teacher: "T001", Room: "R2"},
	)
	svc := NewConflictService(newFakeStore(inst), nil)

	conflicts, err := svc.Detect(context.Background(), "INST100")
	require.NoError(t, err)
	assert.Empty(t, conflicts)
}

func TestConflictDetectionIsReproducible(t *testing.T) {
	inst := instituteWithTwoGrids(
		models.Slot{Subject: "Maths", Teacher: "T001", Room: "R1"},
		models.Slot{Subject: "Physics", Teacher: "T001", Room: "R1"},
	)
	svc := NewConflictService(newFakeStore(inst), nil)

	first, err := svc.Detect(context.Background(), "INST100")
	require.NoError(t, err)
	second, err := svc.Detect(context.Background(), "INST100")
	require.NoError(t, err)
	assert.Equal(t, first, second)

	// Same teacher and same room collide at the same cell: one of each type.
	require.Len(t, first, 2)
	assert.Equal(t, models.ConflictTypeTeacher, first[0].Type)
	assert.Equal(t, models.ConflictTypeRoom, first[1].Type)
}
