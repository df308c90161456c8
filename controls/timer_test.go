package controls

import (
	"testing"
	"time"

	"torc/bus"
	"torc/device"
	"torc/types"
)

func newTimerForTest(t *testing.T, timerType types.TimerType, duration, anchorSeconds int64) *Timer {
	t.Helper()
	conn := bus.NewBus(4).NewConnection("test")
	tm, err := NewTimer(conn, device.Config{UniqueID: "t1", ModelID: "Timer"}, timerType, duration, 0, anchorSeconds, time.Sunday)
	if err != nil {
		t.Fatal(err)
	}
	return tm
}

func TestTimerDailyBoundaries(t *testing.T) {
	tm := newTimerForTest(t, types.TimerDaily, 3600, 6*3600)

	at := func(h, m, s int) time.Time {
		now := time.Now()
		y, mo, d := now.Date()
		return time.Date(y, mo, d, h, m, s, 0, now.Location())
	}

	cases := []struct {
		label string
		when  time.Time
		want  float64
	}{
		{"05:59:59", at(5, 59, 59), 0},
		{"06:00:00", at(6, 0, 0), 1},
		{"06:59:59", at(6, 59, 59), 1},
		{"07:00:00", at(7, 0, 0), 0},
	}
	for _, c := range cases {
		v, _, _ := tm.valueAt(c.when)
		if v != c.want {
			t.Errorf("%s: value = %v, want %v", c.label, v, c.want)
		}
	}
}
