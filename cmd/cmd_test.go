package cmd

import (
	"bytes"
	"io"
	"testing"
	"time"

	"github.com/jon4hz/lapinstance/internal/config"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	loc := time.FixedZone("CET", 3600)
	tests := []struct {
		in      string
		want    time.Time
		wantErr bool
	}{
		{in: "2024-03-20 19:30", want: time.Date(2024, 3, 20, 19, 30, 0, 0, loc)},
		{in: "2024-03-20T19:30", want: time.Date(2024, 3, 20, 19, 30, 0, 0, loc)},
		{in: " 2024-03-20 ", want: time.Date(2024, 3, 20, 0, 0, 0, 0, loc)},
		{in: "2024-03-20T18:30:00Z", want: time.Date(2024, 3, 20, 18, 30, 0, 0, time.UTC)},
		{in: "next wednesday", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := parseDate(tt.in, loc)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.True(t, tt.want.Equal(got), "want %s, got %s", tt.want, got)
		})
	}
}

func TestApplyRaidFields(t *testing.T) {
	current := lapinstance.Raid{
		ID:       12,
		Date:     1700000000000,
		Comment:  "old",
		RaidType: lapinstance.RaidTypeOnyxia,
		RaidLog:  "https://logs.example.com/1",

		FormattedDate: "Tue 14/11/2023 22:13",
	}
	changedOnly := func(names ...string) func(string) bool {
		return func(name string) bool {
			for _, n := range names {
				if n == name {
					return true
				}
			}
			return false
		}
	}

	t.Run("only changed fields are applied", func(t *testing.T) {
		got, err := applyRaidFields(current, raidFields{RaidType: "naxxramas", Comment: "new"}, changedOnly("comment"), time.UTC)
		require.NoError(t, err)
		assert.Equal(t, int64(12), got.ID)
		assert.Equal(t, "new", got.Comment)
		assert.Equal(t, lapinstance.RaidTypeOnyxia, got.RaidType)
		assert.Equal(t, current.Date, got.Date)
		assert.Equal(t, current.RaidLog, got.RaidLog)
		assert.Empty(t, got.FormattedDate)
	})

	t.Run("type and date", func(t *testing.T) {
		got, err := applyRaidFields(current, raidFields{RaidType: "naxxramas", Date: "2024-03-20 19:30"}, changedOnly("type", "date"), time.UTC)
		require.NoError(t, err)
		assert.Equal(t, lapinstance.RaidTypeNaxxramas, got.RaidType)
		assert.Equal(t, time.Date(2024, 3, 20, 19, 30, 0, 0, time.UTC).UnixMilli(), got.Date)
	})

	t.Run("comment can be cleared", func(t *testing.T) {
		got, err := applyRaidFields(current, raidFields{}, changedOnly("comment"), time.UTC)
		require.NoError(t, err)
		assert.Empty(t, got.Comment)
	})

	t.Run("unknown raid type", func(t *testing.T) {
		_, err := applyRaidFields(current, raidFields{RaidType: "HOGGER"}, changedOnly("type"), time.UTC)
		assert.ErrorIs(t, err, lapinstance.ErrInvalidEnum)
	})
}

func TestRender(t *testing.T) {
	raids := []lapinstance.Raid{{ID: 1, Date: 1700000000000, RaidType: lapinstance.RaidTypeMoltenCore, Comment: "fire resist"}}

	var buf bytes.Buffer
	called := false
	require.NoError(t, render(&buf, config.OutputJSON, raids, func(io.Writer) error {
		called = true
		return nil
	}))
	assert.False(t, called)
	assert.JSONEq(t, `[{"id":1,"date":1700000000000,"raidType":"MOLTEN_CORE","comment":"fire resist"}]`, buf.String())

	buf.Reset()
	require.NoError(t, render(&buf, config.OutputText, raids, func(w io.Writer) error {
		return writeRaids(w, raids)
	}))
	assert.Contains(t, buf.String(), "Molten Core")
	assert.Contains(t, buf.String(), "fire resist")
	assert.Contains(t, buf.String(), "1 raid")
}

func TestWriteRaidOverview(t *testing.T) {
	grom := lapinstance.UserCharacter{ID: 1, Name: "Grom", Spec: lapinstance.CharacterSpecWarriorTank}
	jaina := lapinstance.UserCharacter{ID: 2, Name: "Jaina", Spec: lapinstance.CharacterSpecMage}
	overview := raidOverview{
		Raid: lapinstance.Raid{ID: 12, Date: time.Now().Add(48 * time.Hour).UnixMilli(), RaidType: lapinstance.RaidTypeOnyxia},
		Subscriptions: []lapinstance.RaidSubscription{
			{ID: 1, Response: lapinstance.RaidSubscriptionResponsePresent, Character: &grom, User: lapinstance.User{Name: "Bob"}},
			{ID: 2, Response: lapinstance.RaidSubscriptionResponsePresent, Character: &jaina, User: lapinstance.User{Name: "Alice"}},
			{ID: 3, Response: lapinstance.RaidSubscriptionResponseBench, User: lapinstance.User{Name: "Carol"}},
		},
		Missing: []lapinstance.User{{Name: "Dave"}, {Name: "Eve"}},
	}

	var buf bytes.Buffer
	require.NoError(t, writeRaidOverview(&buf, overview))
	out := buf.String()
	assert.Contains(t, out, "Onyxia")
	assert.Contains(t, out, "PRESENT  2")
	assert.Contains(t, out, "BENCH    1")
	assert.Contains(t, out, "tank 1")
	assert.Contains(t, out, "dps_ranged 1")
	assert.Contains(t, out, "3 subscriptions")
	assert.Contains(t, out, "no answer yet: Dave, Eve")
}
