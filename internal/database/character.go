package database

import (
	"context"

	"github.com/charmbracelet/log"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CharacterDB interface {
	GetAllCharacters(ctx context.Context) ([]Character, error)
	GetCharactersByUser(ctx context.Context, userID uint) ([]Character, error)
	GetCharacterByID(ctx context.Context, id uint) (*Character, error)
	SaveCharacter(ctx context.Context, character *Character) error
}

// Character is a character owned by a user.
type Character struct {
	ID     uint   `gorm:"primaryKey"`
	Name   string `gorm:"not null"`
	Spec   string `gorm:"not null"`
	Main   bool   `gorm:"default:false"`
	UserID uint   `gorm:"not null;index"`
	User   User
}

func (Character) TableName() string { return "user_characters" }

func (c *Client) GetAllCharacters(ctx context.Context) ([]Character, error) {
	var characters []Character
	if err := c.db.WithContext(ctx).Preload("User").Order("name asc").Find(&characters).Error; err != nil {
		log.Error("failed to get characters", "error", err)
		return nil, err
	}
	return characters, nil
}

func (c *Client) GetCharactersByUser(ctx context.Context, userID uint) ([]Character, error) {
	var characters []Character
	if err := c.db.WithContext(ctx).Preload("User").Where("user_id = ?", userID).Order("main desc, name asc").Find(&characters).Error; err != nil {
		log.Error("failed to get characters by user", "user_id", userID, "error", err)
		return nil, err
	}
	return characters, nil
}

func (c *Client) GetCharacterByID(ctx context.Context, id uint) (*Character, error) {
	var character Character
	if err := c.db.WithContext(ctx).Preload("User").First(&character, id).Error; err != nil {
		if err != gorm.ErrRecordNotFound {
			log.Error("failed to get character by ID", "error", err)
		}
		return nil, err
	}
	return &character, nil
}

// SaveCharacter upserts the character. A user has at most one main character,
// saving a main demotes the others.
func (c *Client) SaveCharacter(ctx context.Context, character *Character) error {
	err := c.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if character.Main {
			if err := tx.Model(&Character{}).
				Where("user_id = ? AND id <> ?", character.UserID, character.ID).
				Update("main", false).Error; err != nil {
				return err
			}
		}
		if err := tx.Omit(clause.Associations).Save(character).Error; err != nil {
			return err
		}
		return tx.Preload("User").First(character, character.ID).Error
	})
	if err != nil {
		log.Error("failed to save character", "error", err)
	}
	return err
}
