package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func leave(t LeaveType) *LeaveType { return &t }

func TestRecord_Label(t *testing.T) {
	tests := []struct {
		name   string
		record Record
		want   string
	}{
		{"present", Record{Outcome: OutcomePresent}, LabelHadir},
		{"late", Record{Outcome: OutcomeLate}, LabelTerlambat},
		{"alpha", Record{Outcome: OutcomeAbsent}, LabelAlpha},
		{"izin", Record{Outcome: OutcomeAbsent, LeaveType: leave(LeaveIzin)}, LabelIzin},
		{"sakit", Record{Outcome: OutcomeAbsent, LeaveType: leave(LeaveSakit)}, LabelSakit},
		{"cuti", Record{Outcome: OutcomeAbsent, LeaveType: leave(LeaveCuti)}, LabelCuti},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.record.Label())
		})
	}
}

func TestRecord_IsAlpha(t *testing.T) {
	assert.True(t, Record{Outcome: OutcomeAbsent}.IsAlpha())
	assert.False(t, Record{Outcome: OutcomeAbsent, LeaveType: leave(LeaveSakit)}.IsAlpha())
	assert.False(t, Record{Outcome: OutcomeLate}.IsAlpha())
}

func TestDeriveOutcome_CutoffIsOnTime(t *testing.T) {
	wib := time.FixedZone("WIB", 7*60*60)
	cutoff := time.Date(2025, 4, 15, 8, 0, 0, 0, wib)

	assert.Equal(t, OutcomePresent, DeriveOutcome(cutoff.Add(-time.Minute), cutoff))
	assert.Equal(t, OutcomePresent, DeriveOutcome(cutoff, cutoff))
	assert.Equal(t, OutcomeLate, DeriveOutcome(cutoff.Add(time.Second), cutoff))
}

func TestParseLeaveType(t *testing.T) {
	for _, in := range []string{"izin", "Izin", " SAKIT ", "Cuti"} {
		_, ok := ParseLeaveType(in)
		assert.True(t, ok, in)
	}
	_, ok := ParseLeaveType("alpha")
	assert.False(t, ok)
}

func TestOutOfRangeError_Unwraps(t *testing.T) {
	err := error(&OutOfRangeError{DistanceMeters: 152.4, RadiusMeters: 100})
	assert.ErrorIs(t, err, ErrOutOfRange)
	assert.Contains(t, err.Error(), "152 m")
}
