package lapinstance

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCatalogue(t *testing.T) {
	all := Endpoints()
	assert.Len(t, all, 20)

	seen := make(map[Operation]bool)
	for _, e := range all {
		assert.False(t, seen[e.Operation], "duplicate operation %s", e.Operation)
		seen[e.Operation] = true
		assert.Contains(t, []string{http.MethodGet, http.MethodPost, http.MethodDelete}, e.Method)
	}

	assert.Equal(t, []Resource{
		ResourceRaids,
		ResourceUserCharacters,
		ResourceApplicationSettings,
		ResourceUsers,
		ResourceSession,
		ResourceRaidTypes,
		ResourceRoster,
	}, Resources())

	assert.Len(t, Operations(ResourceRaids), 8)
	assert.Len(t, Operations(ResourceUsers), 5)
	assert.Equal(t, []Operation{OpAddRosterMember, OpFindAllRosterMembers, OpRemoveRosterMember}, Operations(ResourceRoster))
	assert.Empty(t, Operations("guilds"))
}

func TestEndpointsReturnsCopy(t *testing.T) {
	all := Endpoints()
	all[0].Path = "/changed"

	e, ok := Lookup(all[0].Operation)
	require.True(t, ok)
	assert.Equal(t, "/raids", e.Path)
}

func TestEndpointExpand(t *testing.T) {
	tests := []struct {
		name    string
		op      Operation
		args    []any
		want    string
		wantErr bool
	}{
		{
			name: "no placeholder",
			op:   OpFindAllRaids,
			want: "/raids",
		},
		{
			name: "numeric id",
			op:   OpGetRaid,
			args: []any{int64(42)},
			want: "/raids/42",
		},
		{
			name: "placeholder in the middle",
			op:   OpNotifyMissingRaidSubscriptions,
			args: []any{int64(7)},
			want: "/raids/7/missingSubscriptions/notify",
		},
		{
			name: "enum value passes through",
			op:   OpNextReset,
			args: []any{RaidTypeMoltenCore},
			want: "/raidTypes/MOLTEN_CORE/nextReset",
		},
		{
			name: "special characters are escaped",
			op:   OpNextReset,
			args: []any{"a b/c?d"},
			want: "/raidTypes/a%20b%2Fc%3Fd/nextReset",
		},
		{
			name:    "unknown enum value",
			op:      OpNextReset,
			args:    []any{RaidType("HOGGER")},
			wantErr: true,
		},
		{
			name:    "missing argument",
			op:      OpGetRaid,
			wantErr: true,
		},
		{
			name:    "too many arguments",
			op:      OpFindAllRaids,
			args:    []any{1},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, ok := Lookup(tt.op)
			require.True(t, ok)

			got, err := e.Expand(tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEndpointExpandRejectsEnumWithSentinel(t *testing.T) {
	e, _ := Lookup(OpNextReset)
	_, err := e.Expand(RaidType("molten_core"))
	assert.ErrorIs(t, err, ErrInvalidEnum)
}
