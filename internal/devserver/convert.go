package devserver

import (
	"fmt"
	"time"

	"github.com/ccoveille/go-safecast"
	"github.com/jon4hz/lapinstance/internal/database"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
	"github.com/samber/lo"
)

// toID converts a storage id to its wire representation.
// Storage ids come from sqlite and always fit.
func toID(id uint) int64 {
	v, err := safecast.Convert[int64](id)
	if err != nil {
		panic(fmt.Sprintf("id %d out of range: %v", id, err))
	}
	return v
}

// fromID converts a wire id to a storage id.
func fromID(id int64) (uint, error) {
	v, err := safecast.Convert[uint](id)
	if err != nil {
		return 0, fmt.Errorf("invalid id %d: %w", id, err)
	}
	return v, nil
}

func toRaid(r database.Raid) lapinstance.Raid {
	return lapinstance.Raid{
		ID:               toID(r.ID),
		Date:             r.Date,
		Comment:          r.Comment,
		RaidType:         lapinstance.RaidType(r.RaidType),
		RaidLog:          r.RaidLog,
		DiscordMessageID: r.DiscordMessageID,
		FormattedDate:    formatDate(r.Date),
	}
}

func toRaids(raids []database.Raid) []lapinstance.Raid {
	return lo.Map(raids, func(r database.Raid, _ int) lapinstance.Raid { return toRaid(r) })
}

func fromRaid(r lapinstance.Raid) (database.Raid, error) {
	id, err := fromID(r.ID)
	if err != nil {
		return database.Raid{}, err
	}
	return database.Raid{
		ID:               id,
		Date:             r.Date,
		Comment:          r.Comment,
		RaidType:         string(r.RaidType),
		RaidLog:          r.RaidLog,
		DiscordMessageID: r.DiscordMessageID,
	}, nil
}

func toUser(u database.User) lapinstance.User {
	return lapinstance.User{
		ID:        toID(u.ID),
		Name:      u.Name,
		DiscordID: u.DiscordID,
	}
}

func toUsers(users []database.User) []lapinstance.User {
	return lo.Map(users, func(u database.User, _ int) lapinstance.User { return toUser(u) })
}

func toCharacter(c database.Character) lapinstance.UserCharacter {
	return lapinstance.UserCharacter{
		ID:   toID(c.ID),
		Name: c.Name,
		Spec: lapinstance.CharacterSpec(c.Spec),
		Main: c.Main,
		User: toUser(c.User),
	}
}

func toCharacters(chars []database.Character) []lapinstance.UserCharacter {
	return lo.Map(chars, func(c database.Character, _ int) lapinstance.UserCharacter { return toCharacter(c) })
}

func toSubscription(s database.Subscription) lapinstance.RaidSubscription {
	sub := lapinstance.RaidSubscription{
		ID:       toID(s.ID),
		Raid:     toRaid(s.Raid),
		Response: lapinstance.RaidSubscriptionResponse(s.Response),
		User:     toUser(s.User),
	}
	if s.Character != nil {
		sub.Character = lo.ToPtr(toCharacter(*s.Character))
	}
	return sub
}

func toSubscriptions(subs []database.Subscription) []lapinstance.RaidSubscription {
	return lo.Map(subs, func(s database.Subscription, _ int) lapinstance.RaidSubscription { return toSubscription(s) })
}

func toRosterMember(m database.RosterMember) lapinstance.RosterMember {
	return lapinstance.RosterMember{
		ID:            toID(m.ID),
		RaidType:      lapinstance.RaidType(m.RaidType),
		UserCharacter: toCharacter(m.Character),
	}
}

func toRosterMembers(members []database.RosterMember) []lapinstance.RosterMember {
	return lo.Map(members, func(m database.RosterMember, _ int) lapinstance.RosterMember { return toRosterMember(m) })
}

// formatDate renders a raid date the way the raid calendar shows it.
func formatDate(ms int64) string {
	return time.UnixMilli(ms).UTC().Format("Mon 02/01/2006 15:04")
}
