package billing

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestShouldCharge(t *testing.T) {
	today := date(2026, 8, 31)

	tests := []struct {
		name        string
		moveIn      time.Time
		lastPayment *time.Time
		moveOut     *time.Time
		want        bool
	}{
		{
			name:   "no prior payment, moved in 35 days ago",
			moveIn: today.AddDate(0, 0, -35),
			want:   true,
		},
		{
			name:   "no prior payment, moved in 29 days ago",
			moveIn: today.AddDate(0, 0, -29),
			want:   false,
		},
		{
			name:   "exactly 30 days is inclusive",
			moveIn: today.AddDate(0, 0, -30),
			want:   true,
		},
		{
			name:   "move-in in the future",
			moveIn: today.AddDate(0, 0, 10),
			want:   false,
		},
		{
			name:        "recent payment resets the clock",
			moveIn:      today.AddDate(0, 0, -90),
			lastPayment: datePtr(2026, 8, 15),
			want:        false,
		},
		{
			name:        "payment 30 days ago is due again",
			moveIn:      today.AddDate(0, 0, -90),
			lastPayment: datePtr(2026, 8, 1),
			want:        true,
		},
		{
			name:        "payment today prevents same-day re-charge",
			moveIn:      today.AddDate(0, 0, -90),
			lastPayment: &today,
			want:        false,
		},
		{
			name:    "moved out today",
			moveIn:  today.AddDate(0, 0, -90),
			moveOut: &today,
			want:    false,
		},
		{
			name:    "moved out in the past overrides the day count",
			moveIn:  today.AddDate(0, 0, -400),
			moveOut: datePtr(2026, 6, 1),
			want:    false,
		},
		{
			name:    "future move-out does not block charging",
			moveIn:  today.AddDate(0, 0, -45),
			moveOut: datePtr(2027, 1, 31),
			want:    true,
		},
		{
			name:        "future move-out with recent payment",
			moveIn:      today.AddDate(0, 0, -45),
			lastPayment: datePtr(2026, 8, 20),
			moveOut:     datePtr(2027, 1, 31),
			want:        false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ShouldCharge(today, tt.moveIn, tt.lastPayment, tt.moveOut, DefaultChargeIntervalDays)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestShouldChargeFractionalDaysFloor(t *testing.T) {
	// 29 days and 23 hours floors to 29, under the threshold
	today := time.Date(2026, 8, 31, 11, 0, 0, 0, time.UTC)
	moveIn := time.Date(2026, 8, 1, 12, 0, 0, 0, time.UTC)

	assert.False(t, ShouldCharge(today, moveIn, nil, nil, DefaultChargeIntervalDays))

	// one more hour crosses the 30-day boundary
	assert.True(t, ShouldCharge(today.Add(time.Hour), moveIn, nil, nil, DefaultChargeIntervalDays))
}

func TestShouldChargeCustomInterval(t *testing.T) {
	today := date(2026, 8, 31)
	moveIn := today.AddDate(0, 0, -10)

	assert.True(t, ShouldCharge(today, moveIn, nil, nil, 7))
	assert.False(t, ShouldCharge(today, moveIn, nil, nil, 14))
}
