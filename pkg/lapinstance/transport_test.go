package lapinstance

import (
	"net/http"
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRequestOptionsOverride(t *testing.T) {
	query := url.Values{
		"page": {"1"},
		"sort": {"date"},
	}

	req := NewRequest(http.MethodGet, "/raids", query, nil,
		WithQuery("page", "2"),
		WithQuery("limit", "10"),
		WithHeader("X-Guild", "lapin"),
		nil,
	)

	assert.Equal(t, http.MethodGet, req.Method)
	assert.Equal(t, "/raids", req.URL)
	assert.Equal(t, "2", req.Query.Get("page"), "option must win on collision")
	assert.Equal(t, "date", req.Query.Get("sort"), "computed value must survive")
	assert.Equal(t, "10", req.Query.Get("limit"), "new keys are added")
	assert.Equal(t, "lapin", req.Header.Get("X-Guild"))

	// the caller's values are left alone
	assert.Equal(t, "1", query.Get("page"))
	assert.Empty(t, query.Get("limit"))
}

func TestNewRequestLaterOptionWins(t *testing.T) {
	req := NewRequest(http.MethodPost, "/roster", nil, RosterMember{},
		WithHeader("X-Trace", "first"),
		WithHeader("X-Trace", "second"),
	)
	assert.Equal(t, "second", req.Header.Get("X-Trace"))
	assert.Equal(t, RosterMember{}, req.Body)
}

func TestDecode(t *testing.T) {
	body := []byte(`{"id":3,"date":1700000000000,"raidType":"ONYXIA","comment":"bring fire resist"}`)

	t.Run("no transform", func(t *testing.T) {
		resp, err := decode[Raid](OpGetRaid, &RawResponse{StatusCode: 200, Body: body}, nil)
		require.NoError(t, err)
		assert.Equal(t, int64(3), resp.Data.ID)
		assert.Equal(t, RaidTypeOnyxia, resp.Data.RaidType)
		assert.Nil(t, resp.Original)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("transform keeps original", func(t *testing.T) {
		transform := func(r Raid) Raid {
			r.Comment = "changed"
			return r
		}
		resp, err := decode[Raid](OpGetRaid, &RawResponse{StatusCode: 200, Body: body}, transform)
		require.NoError(t, err)
		assert.Equal(t, "changed", resp.Data.Comment)
		require.NotNil(t, resp.Original)
		assert.Equal(t, "bring fire resist", resp.Original.Comment)
	})

	t.Run("in-place mutation does not leak into original", func(t *testing.T) {
		listBody := []byte(`[{"id":1,"date":1,"raidType":"ONYXIA","comment":"a"}]`)
		transform := func(raids []Raid) []Raid {
			for i := range raids {
				raids[i].Comment = "mutated"
			}
			return raids
		}
		resp, err := decode[[]Raid](OpFindAllRaids, &RawResponse{Body: listBody}, transform)
		require.NoError(t, err)
		assert.Equal(t, "mutated", resp.Data[0].Comment)
		require.NotNil(t, resp.Original)
		assert.Equal(t, "a", (*resp.Original)[0].Comment)
	})

	for name, empty := range map[string][]byte{
		"nil body":   nil,
		"whitespace": []byte(" \n"),
		"json null":  []byte("null"),
	} {
		t.Run("transform skipped for "+name, func(t *testing.T) {
			called := false
			transform := func(r Raid) Raid {
				called = true
				return r
			}
			resp, err := decode[Raid](OpGetRaid, &RawResponse{StatusCode: 200, Body: empty}, transform)
			require.NoError(t, err)
			assert.False(t, called)
			assert.Nil(t, resp.Original)
			assert.Equal(t, Raid{}, resp.Data)
		})
	}

	t.Run("mismatched transform", func(t *testing.T) {
		_, err := decode[Raid](OpGetRaid, &RawResponse{Body: body}, func(u User) User { return u })
		assert.Error(t, err)
	})

	t.Run("invalid json", func(t *testing.T) {
		_, err := decode[Raid](OpGetRaid, &RawResponse{Body: []byte(`{"id":`)}, nil)
		assert.Error(t, err)
	})

	t.Run("unknown enum value", func(t *testing.T) {
		_, err := decode[Raid](OpGetRaid, &RawResponse{Body: []byte(`{"id":1,"date":1,"raidType":"HOGGER"}`)}, nil)
		assert.ErrorIs(t, err, ErrInvalidEnum)
	})
}
