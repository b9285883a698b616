package model

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	ID        int64  `gorm:"primaryKey;autoIncrement:false" json:"id"`
	Username  string `gorm:"type:varchar(20);not null;uniqueIndex" json:"username"`
	Email     string `gorm:"type:varchar(120);not null;uniqueIndex" json:"email"`
	Password  string `gorm:"type:varchar(128);not null" json:"-"`
	Avatar    string `gorm:"type:varchar(200);default:'default_avatar.svg'" json:"avatar"`
	CreatedAt time.Time      `json:"created_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// 好友关系，成对存储 (A,B) 和 (B,A)
type Friendship struct {
	UserID   int64 `gorm:"primaryKey;autoIncrement:false"`
	FriendID int64 `gorm:"primaryKey;autoIncrement:false"`
	CreatedAt time.Time

	User   User `gorm:"foreignKey:UserID"`
	Friend User `gorm:"foreignKey:FriendID"`
}

type FriendRequest struct {
	ID         int64 `gorm:"primaryKey" json:"id"`
	SenderID   int64 `gorm:"not null;index" json:"sender_id"`
	ReceiverID int64 `gorm:"not null;index" json:"receiver_id"`
	CreatedAt  time.Time `json:"created_at"`

	Sender   User `gorm:"foreignKey:SenderID" json:"sender"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"receiver"`
}
