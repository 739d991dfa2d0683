package lapinstance

import "context"

// UserClient covers /users.
type UserClient struct {
	resource
}

func (c *UserClient) FindAll(ctx context.Context, opts ...RequestOption) (*Response[[]User], error) {
	return call[[]User](ctx, c.resource, OpFindAllUsers, nil, nil, opts)
}

// FindCharacters lists the characters owned by a user.
func (c *UserClient) FindCharacters(ctx context.Context, userID int64, opts ...RequestOption) (*Response[[]UserCharacter], error) {
	return call[[]UserCharacter](ctx, c.resource, OpFindUserCharacters, args(userID), nil, opts)
}

// SaveCharacter adds a character to a user, or updates it when it has an id.
func (c *UserClient) SaveCharacter(ctx context.Context, userID int64, character UserCharacter, opts ...RequestOption) (*Response[UserCharacter], error) {
	return call[UserCharacter](ctx, c.resource, OpSaveUserCharacter, args(userID), character, opts)
}

func (c *UserClient) FindRosterMemberships(ctx context.Context, userID int64, opts ...RequestOption) (*Response[[]RosterMember], error) {
	return call[[]RosterMember](ctx, c.resource, OpFindUserRosterMemberships, args(userID), nil, opts)
}

func (c *UserClient) FindSubscriptions(ctx context.Context, userID int64, opts ...RequestOption) (*Response[[]RaidSubscription], error) {
	return call[[]RaidSubscription](ctx, c.resource, OpFindUserSubscriptions, args(userID), nil, opts)
}

// UserCharacterClient covers /userCharacters.
type UserCharacterClient struct {
	resource
}

// FindAll lists the characters of every user.
func (c *UserCharacterClient) FindAll(ctx context.Context, opts ...RequestOption) (*Response[[]UserCharacter], error) {
	return call[[]UserCharacter](ctx, c.resource, OpFindAllUserCharacters, nil, nil, opts)
}

// SessionClient covers /session.
type SessionClient struct {
	resource
}

// CurrentUser returns the session of the authenticated user.
func (c *SessionClient) CurrentUser(ctx context.Context, opts ...RequestOption) (*Response[Session], error) {
	return call[Session](ctx, c.resource, OpGetCurrentUser, nil, nil, opts)
}

// ApplicationSettingsClient covers /applicationSettings.
type ApplicationSettingsClient struct {
	resource
}

func (c *ApplicationSettingsClient) Get(ctx context.Context, opts ...RequestOption) (*Response[ApplicationSettings], error) {
	return call[ApplicationSettings](ctx, c.resource, OpGetApplicationSettings, nil, nil, opts)
}
