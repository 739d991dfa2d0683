package lapinstance

import (
	"context"
	"time"
)

// RosterClient covers /roster.
type RosterClient struct {
	resource
}

func (c *RosterClient) Add(ctx context.Context, member RosterMember, opts ...RequestOption) (*Response[RosterMember], error) {
	return call[RosterMember](ctx, c.resource, OpAddRosterMember, nil, member, opts)
}

func (c *RosterClient) FindAll(ctx context.Context, opts ...RequestOption) (*Response[[]RosterMember], error) {
	return call[[]RosterMember](ctx, c.resource, OpFindAllRosterMembers, nil, nil, opts)
}

// Remove deletes a roster member. The member is sent as request body.
func (c *RosterClient) Remove(ctx context.Context, member RosterMember, opts ...RequestOption) error {
	return callVoid(ctx, c.resource, OpRemoveRosterMember, nil, member, opts)
}

// RaidTypeClient covers /raidTypes.
type RaidTypeClient struct {
	resource
}

// NextReset returns the next reset of the raid instance as unix milliseconds.
func (c *RaidTypeClient) NextReset(ctx context.Context, raidType RaidType, opts ...RequestOption) (*Response[int64], error) {
	return call[int64](ctx, c.resource, OpNextReset, args(raidType), nil, opts)
}

// NextResetTime is NextReset converted to a time.Time.
func (c *RaidTypeClient) NextResetTime(ctx context.Context, raidType RaidType, opts ...RequestOption) (time.Time, error) {
	resp, err := c.NextReset(ctx, raidType, opts...)
	if err != nil {
		return time.Time{}, err
	}
	return time.UnixMilli(resp.Data), nil
}
