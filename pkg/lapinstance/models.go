package lapinstance

import (
	"fmt"
	"slices"
	"time"
)

// Raid represents a scheduled raid.
type Raid struct {
	ID int64 `json:"id,omitempty"`
	// Date is the raid start as a unix timestamp in milliseconds.
	Date             int64    `json:"date"`
	Comment          string   `json:"comment,omitempty"`
	RaidType         RaidType `json:"raidType,omitempty"`
	RaidLog          string   `json:"raidLog,omitempty"`
	DiscordMessageID string   `json:"discordMessageId,omitempty"`
	// FormattedDate is filled in by the server and ignored on writes.
	FormattedDate string `json:"formattedDate,omitempty"`
}

// Time returns the raid date as a time.Time.
func (r Raid) Time() time.Time {
	return time.UnixMilli(r.Date)
}

// EpochMillis converts t to the millisecond timestamps used on the wire.
func EpochMillis(t time.Time) int64 {
	return t.UnixMilli()
}

// RaidParticipant links a raid to a character that took part in it.
type RaidParticipant struct {
	ID        int64         `json:"id,omitempty"`
	Raid      Raid          `json:"raid"`
	Character UserCharacter `json:"character"`
}

// RaidSubscription is the answer of a user to a raid.
type RaidSubscription struct {
	ID       int64                    `json:"id,omitempty"`
	Raid     Raid                     `json:"raid"`
	Response RaidSubscriptionResponse `json:"response,omitempty"`
	// Character is the character the user plans to bring, if any.
	Character *UserCharacter `json:"character,omitempty"`
	User      User           `json:"user"`
}

// RosterMember registers a character in the roster of a raid type.
type RosterMember struct {
	ID            int64         `json:"id,omitempty"`
	RaidType      RaidType      `json:"raidType,omitempty"`
	UserCharacter UserCharacter `json:"userCharacter"`
}

// User is a guild member.
type User struct {
	ID        int64  `json:"id,omitempty"`
	Name      string `json:"name"`
	DiscordID string `json:"discordId,omitempty"`
}

// UserCharacter is a character owned by a user.
type UserCharacter struct {
	ID   int64         `json:"id,omitempty"`
	Name string        `json:"name"`
	Spec CharacterSpec `json:"spec,omitempty"`
	Main bool          `json:"main"`
	User User          `json:"user"`
}

// Session describes the currently logged in user.
type Session struct {
	User  User       `json:"user"`
	Roles []UserRole `json:"roles"`
}

// HasRole reports whether the session holds the given role.
func (s Session) HasRole(role UserRole) bool {
	return slices.Contains(s.Roles, role)
}

func (s Session) IsAdmin() bool {
	return s.HasRole(UserRoleAdmin)
}

// ApplicationSettings holds the server side feature flags.
type ApplicationSettings struct {
	// RoasterEnabled toggles the roster feature. The field name matches the backend.
	RoasterEnabled bool `json:"roasterEnabled"`
}

// Validate checks the enumerations of a raid before it is sent.
func (r Raid) Validate() error {
	if err := r.RaidType.Validate(); err != nil {
		return fmt.Errorf("invalid raid: %w", err)
	}
	return nil
}

// Validate checks the enumerations of a subscription before it is sent.
// Nested entities are only checked for the values they carry.
func (s RaidSubscription) Validate() error {
	if err := s.Response.Validate(); err != nil {
		return fmt.Errorf("invalid raid subscription: %w", err)
	}
	if s.Raid.RaidType != "" {
		if err := s.Raid.RaidType.Validate(); err != nil {
			return fmt.Errorf("invalid raid subscription: %w", err)
		}
	}
	if s.Character != nil && s.Character.Spec != "" {
		if err := s.Character.Spec.Validate(); err != nil {
			return fmt.Errorf("invalid raid subscription: %w", err)
		}
	}
	return nil
}

// Validate checks the enumerations of a roster member before it is sent.
func (m RosterMember) Validate() error {
	if err := m.RaidType.Validate(); err != nil {
		return fmt.Errorf("invalid roster member: %w", err)
	}
	if m.UserCharacter.Spec != "" {
		if err := m.UserCharacter.Spec.Validate(); err != nil {
			return fmt.Errorf("invalid roster member: %w", err)
		}
	}
	return nil
}

// Validate checks the enumerations of a character before it is sent.
func (c UserCharacter) Validate() error {
	if err := c.Spec.Validate(); err != nil {
		return fmt.Errorf("invalid character: %w", err)
	}
	return nil
}
