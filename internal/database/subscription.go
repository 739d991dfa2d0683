package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscriptionDB interface {
	GetSubscriptionsByRaid(ctx context.Context, raidID uint) ([]Subscription, error)
	GetSubscriptionsByUser(ctx context.Context, userID uint) ([]Subscription, error)
	SaveSubscription(ctx context.Context, sub *Subscription) error
}

// Subscription is the answer of a user to a raid. A user answers a raid at most once.
type Subscription struct {
	ID          uint   `gorm:"primaryKey"`
	RaidID      uint   `gorm:"not null;uniqueIndex:idx_subscription_raid_user"`
	UserID      uint   `gorm:"not null;uniqueIndex:idx_subscription_raid_user"`
	Response    string `gorm:"not null"`
	CharacterID *uint
	Raid        Raid
	User        User
	Character   *Character
}

func (Subscription) TableName() string { return "raid_subscriptions" }

func (c *Client) subscriptions(ctx context.Context) *gorm.DB {
	return c.db.WithContext(ctx).
		Preload("Raid").
		Preload("User").
		Preload("Character").
		Preload("Character.User")
}

func (c *Client) GetSubscriptionsByRaid(ctx context.Context, raidID uint) ([]Subscription, error) {
	var subs []Subscription
	if err := c.subscriptions(ctx).Where("raid_id = ?", raidID).Order("id asc").Find(&subs).Error; err != nil {
		log.Error("failed to get subscriptions by raid", "raid_id", raidID, "error", err)
		return nil, err
	}
	return subs, nil
}

func (c *Client) GetSubscriptionsByUser(ctx context.Context, userID uint) ([]Subscription, error) {
	var subs []Subscription
	if err := c.subscriptions(ctx).Where("user_id = ?", userID).Order("id asc").Find(&subs).Error; err != nil {
		log.Error("failed to get subscriptions by user", "user_id", userID, "error", err)
		return nil, err
	}
	return subs, nil
}

// SaveSubscription inserts the subscription or replaces the answer the user
// already gave to the raid. sub is reloaded with its associations.
func (c *Client) SaveSubscription(ctx context.Context, sub *Subscription) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "raid_id"}, {Name: "user_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"response", "character_id"}),
		}).Omit(clause.Associations).Create(&Subscription{
			RaidID:      sub.RaidID,
			UserID:      sub.UserID,
			Response:    sub.Response,
			CharacterID: sub.CharacterID,
		}).Error; err != nil {
			return err
		}
		var saved Subscription
		if err := tx.Preload("Raid").Preload("User").Preload("Character").Preload("Character.User").
			Where("raid_id = ? AND user_id = ?", sub.RaidID, sub.UserID).
			First(&saved).Error; err != nil {
			return err
		}
		*sub = saved
		return nil
	})
	if err != nil {
		log.Error("failed to save subscription", "error", err)
	}
	return err
}
