package model

import "time"

// RolePermission is the role↔permission association. It carries no payload
// beyond the edge itself and is only ever created or removed through
// explicit assignment operations.
type RolePermission struct {
	RoleID       int       `gorm:"column:rol_id;primaryKey" json:"rol_id"`
	PermissionID int       `gorm:"column:permiso_id;primaryKey" json:"permiso_id"`
	CreatedAt    time.Time `gorm:"column:created_at;autoCreateTime" json:"created_at"`
}

func (RolePermission) TableName() string {
	return "rol_permiso"
}
