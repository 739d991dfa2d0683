package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
)

type UserDB interface {
	GetOrCreateUser(ctx context.Context, name, discordID string) (*User, error)
	GetUserByID(ctx context.Context, id uint) (*User, error)
	GetAllUsers(ctx context.Context) ([]User, error)
	GetUsersWithoutSubscription(ctx context.Context, raidID uint) ([]User, error)
}

// User represents a guild member.
type User struct {
	ID        uint   `gorm:"primaryKey"`
	Name      string `gorm:"uniqueIndex;not null"`
	DiscordID string `gorm:"index"`
}

func (c *Client) CreateUser(ctx context.Context, name, discordID string) (*User, error) {
	user := User{
		Name:      name,
		DiscordID: discordID,
	}
	if err := c.db.WithContext(ctx).Create(&user).Error; err != nil {
		log.Error("failed to create user", "error", err)
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByID(ctx context.Context, id uint) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).First(&user, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get user by ID", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetUserByName(ctx context.Context, name string) (*User, error) {
	var user User
	if err := c.db.WithContext(ctx).Where("name = ?", name).First(&user).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get user by name", "error", err)
		}
		return nil, err
	}
	return &user, nil
}

func (c *Client) GetOrCreateUser(ctx context.Context, name, discordID string) (*User, error) {
	user, err := c.GetUserByName(ctx, name)
	if err == nil {
		return user, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}
	return c.CreateUser(ctx, name, discordID)
}

func (c *Client) GetAllUsers(ctx context.Context) ([]User, error) {
	var users []User
	if err := c.db.WithContext(ctx).Order("name asc").Find(&users).Error; err != nil {
		log.Error("failed to get all users", "error", err)
		return nil, err
	}
	return users, nil
}

// GetUsersWithoutSubscription returns the users that did not answer the raid yet.
func (c *Client) GetUsersWithoutSubscription(ctx context.Context, raidID uint) ([]User, error) {
	answered := c.db.Model(&Subscription{}).Select("user_id").Where("raid_id = ?", raidID)

	var users []User
	if err := c.db.WithContext(ctx).Where("id NOT IN (?)", answered).Order("name asc").Find(&users).Error; err != nil {
		log.Error("failed to get users without subscription", "raid_id", raidID, "error", err)
		return nil, err
	}
	return users, nil
}
