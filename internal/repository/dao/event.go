package dao

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Event rows are only ever inserted. ObjType and ObjID are not a foreign
// key; the object may have been deleted since.
type Event struct {
	ID      uint      `gorm:"primaryKey"`
	UserID  uint      `gorm:"not null;index"`
	User    User      `gorm:"foreignKey:UserID"`
	Action  string    `gorm:"not null"`
	ObjType string    `gorm:"column:objtype"`
	ObjID   uint      `gorm:"column:objid"`
	Time    time.Time `gorm:"not null;index"`
}

type EventDAO struct {
	db *gorm.DB
}

func NewEventDAO(db *gorm.DB) *EventDAO {
	return &EventDAO{
		db: db,
	}
}

func (d *EventDAO) Insert(ctx context.Context, event Event) (Event, error) {
	result := d.db.WithContext(ctx).Omit(clause.Associations).Create(&event)
	if result.Error != nil {
		return Event{}, result.Error
	}

	if err := d.db.WithContext(ctx).Preload("User").First(&event, event.ID).Error; err != nil {
		return Event{}, err
	}

	return event, nil
}

// FindRecent returns up to limit events, newest first.
func (d *EventDAO) FindRecent(ctx context.Context, limit int) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Preload("User").
		Order("id DESC").
		Limit(limit).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}

func (d *EventDAO) FindByUserID(ctx context.Context, userID uint, limit int) ([]Event, error) {
	var events []Event

	result := d.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("id DESC").
		Limit(limit).
		Find(&events)
	if result.Error != nil {
		return nil, result.Error
	}

	return events, nil
}
