package db

import "time"

// AdminUser 定义了后台管理员账号。Password 只保存 bcrypt 哈希，永不序列化。
type AdminUser struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Username  string    `gorm:"size:50;uniqueIndex;not null" json:"username"`
	Password  string    `gorm:"size:255;not null" json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// TableName 指定自定义表名，与既有数据库保持一致。
func (AdminUser) TableName() string {
	return "admin_users"
}
