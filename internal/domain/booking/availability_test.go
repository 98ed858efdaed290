package booking

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/services-booking/internal/models"
)

func haircut() *models.Service {
	price := 20.0
	return &models.Service{
		ID:           1,
		Title:        "Haircut",
		SlotDuration: 30,
		Status:       models.StatusActive,
		Price:        &price,
		Days: []models.ServiceDay{
			{Name: "Monday", OpeningTiming: "09:00", CloseTiming: "12:00", Status: models.StatusActive},
			{Name: "Tuesday", OpeningTiming: "09:00", CloseTiming: "12:00", Status: models.StatusInactive},
		},
	}
}

func TestCandidateStarts(t *testing.T) {
	tests := []struct {
		name     string
		window   Window
		slot     int
		expected []string
	}{
		{
			name:     "haircut morning",
			window:   Window{Open: 9 * 60, Close: 12 * 60},
			slot:     30,
			expected: []string{"09:00", "09:30", "10:00", "10:30", "11:00", "11:30"},
		},
		{
			name:     "slot does not divide window",
			window:   Window{Open: 9 * 60, Close: 10*60 + 50},
			slot:     45,
			expected: []string{"09:00", "09:45"},
		},
		{
			name:     "window shorter than slot",
			window:   Window{Open: 9 * 60, Close: 9*60 + 20},
			slot:     30,
			expected: nil,
		},
		{
			name:     "zero slot",
			window:   Window{Open: 9 * 60, Close: 12 * 60},
			slot:     0,
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, s := range CandidateStarts(tt.window, tt.slot) {
				got = append(got, FormatClock(s))
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestCandidateStartsAreCongruentToOpening(t *testing.T) {
	w := Window{Open: 8*60 + 10, Close: 19*60 + 5}
	for _, slot := range []int{5, 15, 20, 45, 60, 90} {
		for _, s := range CandidateStarts(w, slot) {
			assert.Zero(t, (s-w.Open)%slot, "slot %d start %s", slot, FormatClock(s))
			assert.LessOrEqual(t, s+slot, w.Close)
		}
	}
}

func TestFreeSlots(t *testing.T) {
	w := Window{Open: 9 * 60, Close: 12 * 60}

	t.Run("no bookings", func(t *testing.T) {
		assert.Len(t, FreeSlots(w, 30, nil), 6)
	})

	t.Run("booking at opening removes only its slot", func(t *testing.T) {
		got := FreeSlots(w, 30, []Interval{NewInterval(9*60, 30)})
		assert.Equal(t, []string{"09:30", "10:00", "10:30", "11:00", "11:30"}, got)
	})

	t.Run("long booking removes every covered start", func(t *testing.T) {
		got := FreeSlots(w, 30, []Interval{NewInterval(10*60, 60)})
		assert.Equal(t, []string{"09:00", "09:30", "11:00", "11:30"}, got)
	})

	t.Run("fully booked is empty not nil", func(t *testing.T) {
		got := FreeSlots(w, 30, []Interval{NewInterval(9*60, 180)})
		require.NotNil(t, got)
		assert.Empty(t, got)
	})

	t.Run("idempotent", func(t *testing.T) {
		occ := []Interval{NewInterval(10*60, 30)}
		assert.Equal(t, FreeSlots(w, 30, occ), FreeSlots(w, 30, occ))
	})
}

func TestOccupiedSkipsCancelled(t *testing.T) {
	got := Occupied([]models.Booking{
		{BookingTime: "09:00", BookedDuration: 30, Status: string(StatusPending)},
		{BookingTime: "10:00", BookedDuration: 30, Status: string(StatusCancelled)},
		{BookingTime: "bad", BookedDuration: 30, Status: string(StatusConfirmed)},
	})
	assert.Equal(t, []Interval{{Start: 540, End: 570}}, got)
}

func TestWindowOf(t *testing.T) {
	svc := haircut()

	w, ok, err := WindowOf(svc, "Monday")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, Window{Open: 540, Close: 720}, w)
	assert.Equal(t, "09:00 - 12:00", w.String())

	_, ok, err = WindowOf(svc, "Tuesday")
	require.NoError(t, err)
	assert.False(t, ok, "inactive day")

	_, ok, err = WindowOf(svc, "Sunday")
	require.NoError(t, err)
	assert.False(t, ok, "missing day")

	svc.Days[0].CloseTiming = "25:00"
	_, _, err = WindowOf(svc, "Monday")
	assert.Error(t, err)
}
