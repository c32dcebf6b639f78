package model

import "time"

// User represents an account holder.
type User struct {
	ID           int        `gorm:"column:usu_id;primaryKey;autoIncrement" json:"usu_id"`
	Username     string     `gorm:"column:usu_usuario;size:50;not null;uniqueIndex" json:"usu_usuario"`
	PasswordHash string     `gorm:"column:usu_contrasenia;size:255;not null" json:"-"`
	RoleID       int        `gorm:"column:usu_rol_id;not null" json:"usu_rol_id"`
	FullName     string     `gorm:"column:usu_nombre_completo;size:100;not null" json:"usu_nombre_completo"`
	Birthdate    *time.Time `gorm:"column:birthdate" json:"birthdate,omitempty"`
	CreatedAt    time.Time  `gorm:"column:created_at;autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time  `gorm:"column:updated_at;autoUpdateTime" json:"updated_at"`
}

func (User) TableName() string {
	return "usuarios"
}
