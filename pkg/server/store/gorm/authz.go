package gorm

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/kickshopping/kickshop/pkg/server/store"
)

// Ensure AuthzStore implements the store interfaces
var (
	_ store.AuthzStore            = (*AuthzStore)(nil)
	_ store.AuthzCacheInvalidator = (*AuthzStore)(nil)
)

const (
	authzCacheSize = 1024
	authzCacheTTL  = 30 * time.Second
)

type authzKey struct {
	RoleID   int
	Template string
	Method   string
}

// AuthzStore implements store.AuthzStore using GORM, with a short-lived
// decision cache. Decisions are cached per (role, template, method);
// the cache is purged whenever permissions or assignments mutate.
type AuthzStore struct {
	db    *gorm.DB
	cache *expirable.LRU[authzKey, bool]
}

// NewAuthzStore creates a new AuthzStore.
func NewAuthzStore(db *gorm.DB) *AuthzStore {
	return &AuthzStore{
		db:    db,
		cache: expirable.NewLRU[authzKey, bool](authzCacheSize, nil, authzCacheTTL),
	}
}

// HasPermission reports whether the role is linked to an active permission
// for the (path template, method) pair. Query failures are logged and
// denied; they are never cached.
func (s *AuthzStore) HasPermission(roleID int, template, method string) bool {
	key := authzKey{RoleID: roleID, Template: template, Method: method}
	if allowed, ok := s.cache.Get(key); ok {
		return allowed
	}

	var count int64
	tx := s.db.Raw(`
		SELECT COUNT(1)
		FROM permisos p
		INNER JOIN rol_permiso rp ON p.permiso_id = rp.permiso_id
		WHERE rp.rol_id = ?
		  AND p.permiso_ruta = ?
		  AND p.permiso_metodo = ?
		  AND p.permiso_activo = TRUE
	`, roleID, template, method).Scan(&count)
	if tx.Error != nil {
		logrus.WithError(tx.Error).WithFields(logrus.Fields{
			"rol_id":   roleID,
			"template": template,
			"method":   method,
		}).Error("permission lookup failed; denying")
		return false
	}

	allowed := count > 0
	s.cache.Add(key, allowed)
	return allowed
}

// InvalidateAuthz drops every cached decision.
func (s *AuthzStore) InvalidateAuthz() {
	s.cache.Purge()
}
