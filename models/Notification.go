package models

import (
	"time"

	"gorm.io/gorm"
)

const NotificationFollowRequest = "follow_request"

// Notification is an immutable inbox entry. It is only ever created or deleted.
type Notification struct {
	ID          uint      `gorm:"primary_key;autoIncrement" json:"-"`
	RecipientID uint      `gorm:"not null;index:idx_notifications_recipient_origin,priority:1;index:idx_notifications_recipient_created,priority:1" json:"-"`
	OriginID    uint      `gorm:"not null;index:idx_notifications_recipient_origin,priority:2" json:"-"`
	Type        string    `gorm:"size:30;not null;index" json:"type"`
	Message     string    `gorm:"size:255;not null" json:"message"`
	CreatedAt   time.Time `gorm:"autoCreateTime;index:idx_notifications_recipient_created,priority:2" json:"created_at"`
	Origin      User      `gorm:"foreignKey:OriginID" json:"-"`
}

func (n *Notification) SaveNotification(db *gorm.DB) (*Notification, error) {
	if err := db.Create(n).Error; err != nil {
		return nil, err
	}
	return n, nil
}

// FindByRecipient returns every notification for a user, newest first.
func (n *Notification) FindByRecipient(db *gorm.DB, recipientID uint) ([]Notification, error) {
	notifications := []Notification{}
	err := db.Preload("Origin").
		Where("recipient_id = ?", recipientID).
		Order("created_at desc, id desc").
		Find(&notifications).Error
	if err != nil {
		return nil, err
	}
	return notifications, nil
}

// FindPending returns the oldest matching notification, or nil when there is none.
func (n *Notification) FindPending(db *gorm.DB, recipientID, originID uint, kind string) (*Notification, error) {
	var found []Notification
	err := db.Where("recipient_id = ? AND origin_id = ? AND type = ?", recipientID, originID, kind).
		Order("created_at asc, id asc").
		Limit(1).
		Find(&found).Error
	if err != nil {
		return nil, err
	}
	if len(found) == 0 {
		return nil, nil
	}
	return &found[0], nil
}

// DeleteBy removes every notification matching (recipient, origin, type).
func (n *Notification) DeleteBy(db *gorm.DB, recipientID, originID uint, kind string) (int64, error) {
	result := db.Where("recipient_id = ? AND origin_id = ? AND type = ?", recipientID, originID, kind).
		Delete(&Notification{})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
