package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

type RaidDB interface {
	GetRaids(ctx context.Context) ([]Raid, error)
	GetRaidByID(ctx context.Context, id uint) (*Raid, error)
	SaveRaid(ctx context.Context, raid *Raid) error
	DeleteRaid(ctx context.Context, id uint) error
}

// Raid is a scheduled raid.
type Raid struct {
	ID               uint   `gorm:"primaryKey"`
	// Date is the start of the raid in unix milliseconds.
	Date             int64  `gorm:"not null;index"`
	Comment          string
	RaidType         string `gorm:"not null;index"`
	RaidLog          string
	DiscordMessageID string
}

// GetRaids returns all raids, oldest first.
func (c *Client) GetRaids(ctx context.Context) ([]Raid, error) {
	var raids []Raid
	if err := c.db.WithContext(ctx).Order("date asc, id asc").Find(&raids).Error; err != nil {
		log.Error("failed to get raids", "error", err)
		return nil, err
	}
	return raids, nil
}

func (c *Client) GetRaidByID(ctx context.Context, id uint) (*Raid, error) {
	var raid Raid
	if err := c.db.WithContext(ctx).First(&raid, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get raid by ID", "error", err)
		}
		return nil, err
	}
	return &raid, nil
}

// SaveRaid inserts the raid when it has no id and updates it otherwise.
func (c *Client) SaveRaid(ctx context.Context, raid *Raid) error {
	if err := c.db.WithContext(ctx).Save(raid).Error; err != nil {
		log.Error("failed to save raid", "error", err)
		return err
	}
	return nil
}

// DeleteRaid removes the raid together with its subscriptions.
func (c *Client) DeleteRaid(ctx context.Context, id uint) error {
	return c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("raid_id = ?", id).Delete(&Subscription{}).Error; err != nil {
			log.Error("failed to delete raid subscriptions", "raid_id", id, "error", err)
			return err
		}
		result := tx.Delete(&Raid{}, id)
		if result.Error != nil {
			log.Error("failed to delete raid", "raid_id", id, "error", result.Error)
			return result.Error
		}
		if result.RowsAffected == 0 {
			return gorm.ErrRecordNotFound
		}
		return nil
	})
}
