package model

// Permission grants access to one (path template, HTTP method) pair.
// Inactive permissions are invisible to the authorization lookup.
type Permission struct {
	ID          int    `gorm:"column:permiso_id;primaryKey;autoIncrement" json:"permiso_id"`
	Name        string `gorm:"column:permiso_nombre;size:100;not null;uniqueIndex" json:"permiso_nombre"`
	Path        string `gorm:"column:permiso_ruta;size:255;not null" json:"permiso_ruta"`
	Method      string `gorm:"column:permiso_metodo;size:10;not null" json:"permiso_metodo"`
	Description string `gorm:"column:permiso_descripcion;size:500" json:"permiso_descripcion,omitempty"`
	Active      bool   `gorm:"column:permiso_activo;not null;default:true" json:"permiso_activo"`
}

func (Permission) TableName() string {
	return "permisos"
}
