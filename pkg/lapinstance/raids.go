package lapinstance

import "context"

// RaidClient covers /raids.
type RaidClient struct {
	resource
}

// FindAll lists every raid.
func (c *RaidClient) FindAll(ctx context.Context, opts ...RequestOption) (*Response[[]Raid], error) {
	return call[[]Raid](ctx, c.resource, OpFindAllRaids, nil, nil, opts)
}

// Save creates the raid, or updates it when it has an id.
func (c *RaidClient) Save(ctx context.Context, raid Raid, opts ...RequestOption) (*Response[Raid], error) {
	return call[Raid](ctx, c.resource, OpSaveRaid, nil, raid, opts)
}

func (c *RaidClient) Delete(ctx context.Context, id int64, opts ...RequestOption) error {
	return callVoid(ctx, c.resource, OpDeleteRaid, args(id), nil, opts)
}

func (c *RaidClient) Get(ctx context.Context, id int64, opts ...RequestOption) (*Response[Raid], error) {
	return call[Raid](ctx, c.resource, OpGetRaid, args(id), nil, opts)
}

// FindMissingSubscriptions lists the users that did not answer the raid yet.
func (c *RaidClient) FindMissingSubscriptions(ctx context.Context, raidID int64, opts ...RequestOption) (*Response[[]User], error) {
	return call[[]User](ctx, c.resource, OpFindMissingRaidSubscriptions, args(raidID), nil, opts)
}

// NotifyMissingSubscriptions asks the server to remind the given users.
func (c *RaidClient) NotifyMissingSubscriptions(ctx context.Context, raidID int64, users []User, opts ...RequestOption) error {
	if users == nil {
		users = []User{}
	}
	return callVoid(ctx, c.resource, OpNotifyMissingRaidSubscriptions, args(raidID), users, opts)
}

func (c *RaidClient) FindSubscriptions(ctx context.Context, raidID int64, opts ...RequestOption) (*Response[[]RaidSubscription], error) {
	return call[[]RaidSubscription](ctx, c.resource, OpFindRaidSubscriptions, args(raidID), nil, opts)
}

// SaveSubscription creates or updates the answer of a user to the raid.
func (c *RaidClient) SaveSubscription(ctx context.Context, raidID int64, sub RaidSubscription, opts ...RequestOption) (*Response[RaidSubscription], error) {
	return call[RaidSubscription](ctx, c.resource, OpSaveRaidSubscription, args(raidID), sub, opts)
}
