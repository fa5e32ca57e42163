package vod

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func TestParseComponents(t *testing.T) {
	tests := []struct {
		in      string
		want    Components
		wantErr bool
	}{
		{in: "", want: Components{}},
		{in: "1h2m3s", want: Components{Hours: 1, Minutes: 2, Seconds: 3}},
		{in: "3h0m0s", want: Components{Hours: 3}},
		{in: "45m", want: Components{Minutes: 45}},
		{in: "90s", want: Components{Seconds: 90}},
		{in: "2m3s", want: Components{Minutes: 2, Seconds: 3}},
		{in: "1h5s", want: Components{Hours: 1, Seconds: 5}},
		{in: "125m", want: Components{Minutes: 125}},
		{in: "3s2m", wantErr: true},
		{in: "1x", wantErr: true},
		{in: "h", wantErr: true},
		{in: "-1h", wantErr: true},
		{in: "2000000h", want: Components{Hours: 2000000}},
		{in: "3000000h", wantErr: true},
		{in: "2562047h47m17s", wantErr: true},
		{in: "99999999999999999999h", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseComponents(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				require.True(t, errors.Is(err, ErrInvalidOffset))
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestComponentsString(t *testing.T) {
	require.Equal(t, "0h0m0s", Components{}.String())
	require.Equal(t, "1h2m3s", Components{Hours: 1, Minutes: 2, Seconds: 3}.String())
	require.Equal(t, "12h30m5s", Components{Hours: 12, Minutes: 30, Seconds: 5}.String())
}

func TestComponentsFromSeconds(t *testing.T) {
	require.Equal(t, Components{Hours: 1, Minutes: 2, Seconds: 3}, ComponentsFromSeconds(3723))
	require.Equal(t, Components{Seconds: 59}, ComponentsFromSeconds(59))
	require.Equal(t, Components{}, ComponentsFromSeconds(-5))
}

func TestAddOffset(t *testing.T) {
	require.Equal(t, time.Date(2024, 1, 1, 1, 2, 3, 0, time.UTC), AddOffset(t0, Components{Hours: 1, Minutes: 2, Seconds: 3}))

	// out-of-range components carry over
	require.Equal(t, time.Date(2024, 1, 1, 2, 5, 0, 0, time.UTC), AddOffset(t0, Components{Minutes: 125}))
	require.Equal(t, time.Date(2024, 1, 1, 0, 1, 30, 0, time.UTC), AddOffset(t0, Components{Seconds: 90}))

	for _, c := range []Components{
		{}, {Seconds: 1}, {Hours: 48}, {Hours: 1, Minutes: 200, Seconds: 7000},
		{Hours: 3000000}, {Hours: 1 << 60}, {Hours: math.MaxInt, Minutes: math.MaxInt, Seconds: math.MaxInt},
	} {
		require.False(t, AddOffset(t0, c).Before(t0), "AddOffset(%v) moved backwards", c)
	}
}

func TestAddOffsetSaturates(t *testing.T) {
	limit := t0.Add(time.Duration(maxOffsetMillis) * time.Millisecond)
	require.Equal(t, limit, AddOffset(t0, Components{Hours: 1 << 60}))
	require.Equal(t, limit, AddOffset(t0, Components{Hours: 3000000}))
	require.True(t, AddOffset(t0, Components{Hours: 1 << 60}).After(t0))

	// largest offset ParseComponents accepts still moves forward exactly
	c, err := ParseComponents("2562047h47m16s")
	require.NoError(t, err)
	require.Equal(t, t0.Add(2562047*time.Hour+47*time.Minute+16*time.Second), AddOffset(t0, c))
}

func TestDifference(t *testing.T) {
	later := t0.Add(time.Hour + 2*time.Minute + 3*time.Second)

	// 3723s - 30s = 3693s
	require.Equal(t, Components{Hours: 1, Minutes: 1, Seconds: 33}, Difference(later, t0))
	// |-3723s - 30s| = 3753s: the delay is removed before taking the magnitude
	require.Equal(t, Components{Hours: 1, Minutes: 2, Seconds: 33}, Difference(t0, later))

	require.Equal(t, Components{Seconds: 30}, Difference(t0, t0))
	require.Equal(t, Components{}, Difference(t0.Add(ClipDelay), t0))
	require.Equal(t, Components{Seconds: 10}, Difference(t0.Add(20*time.Second), t0))

	// sub-second remainders are floored
	require.Equal(t, Components{Minutes: 1, Seconds: 0}, Difference(t0.Add(90*time.Second+999*time.Millisecond), t0))
}
