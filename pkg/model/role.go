package model

import "time"

// Well-known role ids created by the seeder. New registrations default to
// the buyer role.
const (
	RoleAdminID = 1
	RoleBuyerID = 2
)

// Role is a named bundle of permissions.
type Role struct {
	ID        int       `gorm:"column:rol_id;primaryKey;autoIncrement" json:"rol_id"`
	Name      string    `gorm:"column:rol_nombre;size:50;not null;uniqueIndex" json:"rol_nombre"`
	CreatedAt time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (Role) TableName() string {
	return "roles"
}
