package timezone

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	for _, name := range []string{"", "Local"} {
		loc, err := Load(name)
		require.NoError(t, err)
		assert.Equal(t, time.Local, loc)
	}

	loc, err := Load("UTC")
	require.NoError(t, err)
	assert.Equal(t, "UTC", loc.String())

	_, err = Load("Mars/Olympus")
	assert.Error(t, err)
}

func TestToday(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	// 20:00 UTC is already the next day in IST.
	got := Today(time.Date(2030, 5, 5, 20, 0, 0, 0, time.UTC), ist)
	assert.Equal(t, time.Date(2030, 5, 6, 0, 0, 0, 0, ist), got)
}
