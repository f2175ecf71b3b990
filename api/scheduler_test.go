package api

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/lettings-engine/billing"
)

func TestTargetMonth_AlwaysNextCalendarMonth(t *testing.T) {
	cases := []struct {
		now  time.Time
		want billing.Month
	}{
		{time.Date(2026, time.April, 1, 0, 0, 0, 0, time.UTC), billing.NewMonth(2026, time.May)},
		{time.Date(2026, time.April, 30, 23, 59, 0, 0, time.UTC), billing.NewMonth(2026, time.May)},
		{time.Date(2026, time.December, 15, 12, 0, 0, 0, time.UTC), billing.NewMonth(2027, time.January)},
	}

	for _, tc := range cases {
		if got := TargetMonth(tc.now); !got.Equal(tc.want) {
			t.Errorf("TargetMonth(%s) = %s, want %s", tc.now.Format("2006-01-02"), got, tc.want)
		}
	}
}

func TestScheduler_RunNowGeneratesLookAhead(t *testing.T) {
	h, router := newTestServer(t)
	seedViaAPI(t, router, "2020-01-01")

	scheduler := NewAdvanceScheduler(h.Store, h)
	scheduler.RunNow()

	rec := doJSON(t, router, http.MethodGet, "/api/tenancies/ten-1/schedules", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	rows := decodeBody[[]ScheduleDTO](t, rec)
	require.Len(t, rows, 1)

	want := TargetMonth(time.Now()).Start().String()
	assert.Equal(t, want, rows[0].DueDate)

	// A second pass of the same day is harmless.
	scheduler.RunNow()
	rec = doJSON(t, router, http.MethodGet, "/api/tenancies/ten-1/schedules", nil)
	assert.Len(t, decodeBody[[]ScheduleDTO](t, rec), 1)
}

func TestScheduler_StartStop(t *testing.T) {
	h, router := newTestServer(t)
	seedViaAPI(t, router, "2020-01-01")

	scheduler := NewAdvanceScheduler(h.Store, h)
	scheduler.CheckInterval = time.Hour
	scheduler.Start()
	scheduler.Stop()

	// The startup pass already generated before Stop returned.
	rec := doJSON(t, router, http.MethodGet, "/api/tenancies/ten-1/schedules", nil)
	assert.Len(t, decodeBody[[]ScheduleDTO](t, rec), 1)
}

func TestScheduler_DisabledDoesNotStart(t *testing.T) {
	h, _ := newTestServer(t)

	scheduler := NewAdvanceScheduler(h.Store, h)
	scheduler.Enabled = false
	scheduler.Start()
	scheduler.Stop() // must not block or panic when never started
}
