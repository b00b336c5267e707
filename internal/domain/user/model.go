package user

import "time"

type User struct {
	UID       uint      `gorm:"primaryKey;column:u_id" json:"u_id"`
	Username  string    `gorm:"size:50;not null;uniqueIndex" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	Email     *string   `gorm:"size:100" json:"email,omitempty"`
	FullName  *string   `gorm:"size:50" json:"full_name,omitempty"`
	IsAdmin   bool      `gorm:"not null;default:false" json:"is_admin"`
	CreatedAt time.Time `gorm:"column:create_at" json:"create_at"`
	UpdatedAt time.Time `gorm:"column:update_at" json:"update_at"`
}

func (User) TableName() string {
	return "users"
}
