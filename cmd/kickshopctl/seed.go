package main

import (
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/kickshopping/kickshop/pkg/db"
	"github.com/kickshopping/kickshop/pkg/model"
)

// seedRoles are created with fixed ids so that registration and the
// default grants can refer to them.
var seedRoles = []model.Role{
	{ID: model.RoleAdminID, Name: "administrador"},
	{ID: model.RoleBuyerID, Name: "comprador"},
}

// seedPermissions is the default permission catalog. Routes are stored in
// their normalized template form, the same shape the request gate produces
// when it rewrites a concrete path.
var seedPermissions = []model.Permission{
	{Name: "ver_carrito", Path: "/cart_items/user/{id}", Method: "GET", Description: "Permite ver el carrito propio", Active: true},
	{Name: "agregar_al_carrito", Path: "/cart_items", Method: "POST", Description: "Permite agregar items al carrito", Active: true},
	{Name: "modificar_carrito", Path: "/cart_items/{id}", Method: "PATCH", Description: "Permite modificar cantidades en el carrito propio", Active: true},
	{Name: "eliminar_item_carrito", Path: "/cart_items/{id}", Method: "DELETE", Description: "Permite eliminar items del carrito propio", Active: true},
	{Name: "vaciar_carrito", Path: "/cart_items/user/{id}/clear", Method: "DELETE", Description: "Permite vaciar el carrito propio", Active: true},
	{Name: "cart_items.purchase", Path: "/cart_items/purchase", Method: "POST", Description: "Realizar compra de items en el carrito", Active: true},
	{Name: "crear_producto", Path: "/productos", Method: "POST", Description: "Crear nuevos productos", Active: true},
	{Name: "editar_producto", Path: "/productos/{id}", Method: "PATCH", Description: "Editar productos existentes", Active: true},
	{Name: "eliminar_producto", Path: "/productos/{id}", Method: "DELETE", Description: "Eliminar productos", Active: true},
	{Name: "listar_usuarios", Path: "/usuarios", Method: "GET", Description: "Ver la lista de usuarios", Active: true},
	{Name: "editar_usuario", Path: "/usuarios/{id}", Method: "PATCH", Description: "Editar usuarios", Active: true},
	{Name: "eliminar_usuario", Path: "/usuarios/{id}", Method: "DELETE", Description: "Eliminar usuarios", Active: true},
}

// buyerPermissionNames are the catalog entries granted to the buyer role.
// The admin role is granted the whole catalog.
var buyerPermissionNames = []string{
	"ver_carrito",
	"agregar_al_carrito",
	"modificar_carrito",
	"eliminar_item_carrito",
	"vaciar_carrito",
	"cart_items.purchase",
}

var seedProducts = []model.Product{
	{Name: "Air Runner 2000", Description: "Zapatilla de running con amortiguación reactiva", Price: 120.00, Category: "running", Discount: 0},
	{Name: "Street Classic", Description: "Zapatilla urbana de cuero", Price: 85.50, Category: "urbana", Discount: 10},
	{Name: "Court Pro", Description: "Zapatilla de tenis con suela de arcilla", Price: 99.99, Category: "tenis", Discount: 0},
	{Name: "Trail Max", Description: "Zapatilla de trail con suela de alto agarre", Price: 140.00, Category: "trail", Discount: 15},
}

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load the default roles, permissions and admin user",
	Long: `Load the default roles, permissions and admin user.

Seeding is idempotent: rows that already exist are left untouched, so the
command is safe to run repeatedly. The admin password is taken from the
ADMIN_PASSWORD environment variable.

Example:
  ADMIN_PASSWORD=s3cret kickshopctl seed`,
	Run: func(cmd *cobra.Command, args []string) {
		database, err := db.Connect(db.Config{})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Unable to connect to DB: %v\n", err)
			os.Exit(1)
		}

		if err := runSeed(database); err != nil {
			fmt.Fprintf(os.Stderr, "Seeding failed: %v\n", err)
			os.Exit(1)
		}

		fmt.Println("Seeding complete")
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func runSeed(database *gorm.DB) error {
	return database.Transaction(func(tx *gorm.DB) error {
		for _, role := range seedRoles {
			if err := ensureRole(tx, role); err != nil {
				return err
			}
		}

		permsByName := make(map[string]int, len(seedPermissions))
		for _, perm := range seedPermissions {
			id, err := ensurePermission(tx, perm)
			if err != nil {
				return err
			}
			permsByName[perm.Name] = id
		}

		// Admin gets the whole catalog
		for _, perm := range seedPermissions {
			if err := ensureGrant(tx, model.RoleAdminID, permsByName[perm.Name]); err != nil {
				return err
			}
		}
		for _, name := range buyerPermissionNames {
			id, ok := permsByName[name]
			if !ok {
				return fmt.Errorf("unknown permission in buyer grant list: %s", name)
			}
			if err := ensureGrant(tx, model.RoleBuyerID, id); err != nil {
				return err
			}
		}

		if err := ensureAdminUser(tx); err != nil {
			return err
		}

		for _, product := range seedProducts {
			if err := ensureProduct(tx, product); err != nil {
				return err
			}
		}

		return nil
	})
}

func ensureRole(tx *gorm.DB, role model.Role) error {
	var count int64
	if err := tx.Model(&model.Role{}).Where("rol_id = ?", role.ID).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	logrus.Infof("Creating role %q", role.Name)
	return tx.Create(&role).Error
}

func ensurePermission(tx *gorm.DB, perm model.Permission) (int, error) {
	var existing model.Permission
	err := tx.Where("permiso_nombre = ?", perm.Name).First(&existing).Error
	if err == nil {
		return existing.ID, nil
	}
	if err != gorm.ErrRecordNotFound {
		return 0, err
	}
	logrus.Infof("Creating permission %q (%s %s)", perm.Name, perm.Method, perm.Path)
	if err := tx.Create(&perm).Error; err != nil {
		return 0, err
	}
	return perm.ID, nil
}

func ensureGrant(tx *gorm.DB, roleID, permissionID int) error {
	var count int64
	err := tx.Model(&model.RolePermission{}).
		Where("rol_id = ? AND permiso_id = ?", roleID, permissionID).
		Count(&count).Error
	if err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.Create(&model.RolePermission{RoleID: roleID, PermissionID: permissionID}).Error
}

func ensureAdminUser(tx *gorm.DB) error {
	var count int64
	if err := tx.Model(&model.User{}).Where("usu_usuario = ?", "admin").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
		logrus.Warn("ADMIN_PASSWORD is not set; seeding admin with the default password. Change it.")
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}

	logrus.Info("Creating admin user")
	return tx.Create(&model.User{
		Username:     "admin",
		PasswordHash: string(hash),
		RoleID:       model.RoleAdminID,
		FullName:     "Administrador",
	}).Error
}

func ensureProduct(tx *gorm.DB, product model.Product) error {
	var count int64
	if err := tx.Model(&model.Product{}).Where("name = ?", product.Name).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return tx.Create(&product).Error
}
