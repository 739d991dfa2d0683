package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type RosterDB interface {
	GetRosterMembers(ctx context.Context) ([]RosterMember, error)
	GetRosterMembersByUser(ctx context.Context, userID uint) ([]RosterMember, error)
	AddRosterMember(ctx context.Context, member *RosterMember) error
	RemoveRosterMember(ctx context.Context, member RosterMember) error
}

// RosterMember registers a character in the roster of a raid type.
type RosterMember struct {
	ID          uint   `gorm:"primaryKey"`
	RaidType    string `gorm:"not null;uniqueIndex:idx_roster_member"`
	CharacterID uint   `gorm:"not null;uniqueIndex:idx_roster_member"`
	Character   Character
}

func (c *Client) rosterMembers(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).Preload("Character").Preload("Character.User")
}

func (c *Client) GetRosterMembers(ctx context.Context) ([]RosterMember, error) {
	var members []RosterMember
	if err := c.rosterMembers(ctx).Order("raid_type asc, id asc").Find(&members).Error; err != nil {
		log.Error("failed to get roster members", "error", err)
		return nil, err
	}
	return members, nil
}

func (c *Client) GetRosterMembersByUser(ctx context.Context, userID uint) ([]RosterMember, error) {
	owned := c.db.Model(&Character{}).Select("id").Where("user_id = ?", userID)

	var members []RosterMember
	if err := c.rosterMembers(ctx).Where("character_id IN (?)", owned).Order("raid_type asc, id asc").Find(&members).Error; err != nil {
		log.Error("failed to get roster members by user", "user_id", userID, "error", err)
		return nil, err
	}
	return members, nil
}

// AddRosterMember adds the character to the roster. Adding it twice to the
// same raid type is a no-op. member is reloaded with its associations.
func (c *Client) AddRosterMember(ctx context.Context, member *RosterMember) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "raid_type"}, {Name: "character_id"}},
			DoNothing: true,
		}).Omit(clause.Associations).Create(&RosterMember{
			RaidType:    member.RaidType,
			CharacterID: member.CharacterID,
		}).Error; err != nil {
			return err
		}
		var saved RosterMember
		if err := tx.Preload("Character").Preload("Character.User").
			Where("raid_type = ? AND character_id = ?", member.RaidType, member.CharacterID).
			First(&saved).Error; err != nil {
			return err
		}
		*member = saved
		return nil
	})
	if err != nil {
		log.Error("failed to add roster member", "error", err)
	}
	return err
}

// RemoveRosterMember deletes the member by id, or by raid type and character when the id is unset.
func (c *Client) RemoveRosterMember(ctx context.Context, member RosterMember) error {
	tx := c.db.WithContext(ctx)
	if member.ID != 0 {
		tx = tx.Where("id = ?", member.ID)
	} else {
		tx = tx.Where("raid_type = ? AND character_id = ?", member.RaidType, member.CharacterID)
	}
	result := tx.Delete(&RosterMember{})
	if result.Error != nil {
		log.Error("failed to remove roster member", "error", result.Error)
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
