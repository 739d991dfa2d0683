package devserver

import (
	"testing"
	"time"

	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNextReset(t *testing.T) {
	tests := []struct {
		name     string
		raidType lapinstance.RaidType
		now      time.Time
		want     time.Time
	}{
		{
			name:     "weekly right after the anchor",
			raidType: lapinstance.RaidTypeMoltenCore,
			now:      time.Date(2020, 1, 1, 8, 0, 0, 0, time.UTC),
			want:     time.Date(2020, 1, 8, 7, 0, 0, 0, time.UTC),
		},
		{
			name:     "exactly on a reset is not the next one",
			raidType: lapinstance.RaidTypeNaxxramas,
			now:      time.Date(2020, 1, 8, 7, 0, 0, 0, time.UTC),
			want:     time.Date(2020, 1, 15, 7, 0, 0, 0, time.UTC),
		},
		{
			name:     "onyxia every five days",
			raidType: lapinstance.RaidTypeOnyxia,
			now:      time.Date(2020, 1, 3, 0, 0, 0, 0, time.UTC),
			want:     time.Date(2020, 1, 6, 7, 0, 0, 0, time.UTC),
		},
		{
			name:     "zul'gurub every three days",
			raidType: lapinstance.RaidTypeZulGurub,
			now:      time.Date(2020, 1, 4, 6, 59, 0, 0, time.UTC),
			want:     time.Date(2020, 1, 4, 7, 0, 0, 0, time.UTC),
		},
		{
			name:     "before the anchor",
			raidType: lapinstance.RaidTypeAhnQiraj20,
			now:      time.Date(2019, 12, 31, 0, 0, 0, 0, time.UTC),
			want:     time.Date(2020, 1, 1, 7, 0, 0, 0, time.UTC),
		},
		{
			name:     "other time zones",
			raidType: lapinstance.RaidTypeBlackwingLair,
			now:      time.Date(2023, 11, 15, 9, 0, 0, 0, time.FixedZone("CET", 3600)),
			want:     time.Date(2023, 11, 22, 7, 0, 0, 0, time.UTC),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NextReset(tt.raidType, tt.now)
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
			assert.True(t, got.After(tt.now))
		})
	}
}

func TestNextResetEveryRaidType(t *testing.T) {
	now := time.Now()
	for _, rt := range lapinstance.RaidTypes() {
		got, err := NextReset(rt, now)
		require.NoError(t, err, rt)
		assert.True(t, got.After(now))
		assert.LessOrEqual(t, got.Sub(now), 7*24*time.Hour)
	}
}

func TestNextResetUnknownRaidType(t *testing.T) {
	_, err := NextReset("HOGGER", time.Now())
	assert.ErrorIs(t, err, lapinstance.ErrInvalidEnum)
}
