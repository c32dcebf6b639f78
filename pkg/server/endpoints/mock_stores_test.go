package endpoints

import (
	"sort"

	"github.com/kickshopping/kickshop/pkg/model"
	"github.com/kickshopping/kickshop/pkg/server/store"
)

// In-memory store implementations for endpoint tests. They are not safe
// for concurrent use; each test builds its own.

type memUsers struct {
	nextID int
	users  map[int]*model.User
}

func newMemUsers() *memUsers {
	return &memUsers{nextID: 1, users: map[int]*model.User{}}
}

func (m *memUsers) ListUsers() ([]model.User, error) {
	var list []model.User
	for _, u := range m.users {
		list = append(list, *u)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *memUsers) UserByID(id int) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *u
	return &copied, nil
}

func (m *memUsers) UserByUsername(username string) (*model.User, error) {
	for _, u := range m.users {
		if u.Username == username {
			copied := *u
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memUsers) CreateUser(user *model.User) error {
	if _, err := m.UserByUsername(user.Username); err == nil {
		return store.ErrConflict
	}
	user.ID = m.nextID
	m.nextID++
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memUsers) UpdateUser(user *model.User) error {
	copied := *user
	m.users[user.ID] = &copied
	return nil
}

func (m *memUsers) DeleteUser(id int) error {
	if _, ok := m.users[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.users, id)
	return nil
}

type memRoles struct {
	nextID int
	roles  map[int]*model.Role
}

func newMemRoles() *memRoles {
	return &memRoles{nextID: 1, roles: map[int]*model.Role{}}
}

func (m *memRoles) ListRoles() ([]model.Role, error) {
	var list []model.Role
	for _, r := range m.roles {
		list = append(list, *r)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *memRoles) RoleByID(id int) (*model.Role, error) {
	r, ok := m.roles[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *r
	return &copied, nil
}

func (m *memRoles) CreateRole(role *model.Role) error {
	for _, r := range m.roles {
		if r.Name == role.Name {
			return store.ErrConflict
		}
	}
	role.ID = m.nextID
	m.nextID++
	copied := *role
	m.roles[role.ID] = &copied
	return nil
}

func (m *memRoles) UpdateRole(role *model.Role) error {
	copied := *role
	m.roles[role.ID] = &copied
	return nil
}

func (m *memRoles) DeleteRole(id int) error {
	if _, ok := m.roles[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.roles, id)
	return nil
}

type memProducts struct {
	nextID   int
	products map[int]*model.Product
}

func newMemProducts() *memProducts {
	return &memProducts{nextID: 1, products: map[int]*model.Product{}}
}

func (m *memProducts) ListProducts() ([]model.Product, error) {
	var list []model.Product
	for _, p := range m.products {
		list = append(list, *p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *memProducts) ProductsByCategory(category string) ([]model.Product, error) {
	var list []model.Product
	for _, p := range m.products {
		if p.Category == category {
			list = append(list, *p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *memProducts) ProductByID(id int) (*model.Product, error) {
	p, ok := m.products[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memProducts) CreateProduct(product *model.Product) error {
	product.ID = m.nextID
	m.nextID++
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *memProducts) UpdateProduct(product *model.Product) error {
	copied := *product
	m.products[product.ID] = &copied
	return nil
}

func (m *memProducts) DeleteProduct(id int) error {
	if _, ok := m.products[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.products, id)
	return nil
}

type memCart struct {
	nextID   int
	items    map[int]*model.CartItem
	products *memProducts
}

func newMemCart(products *memProducts) *memCart {
	return &memCart{nextID: 1, items: map[int]*model.CartItem{}, products: products}
}

func (m *memCart) ListCartItems() ([]model.CartItem, error) {
	var list []model.CartItem
	for _, i := range m.items {
		list = append(list, *i)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *memCart) CartItemByID(id int) (*model.CartItem, error) {
	i, ok := m.items[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *i
	return &copied, nil
}

func (m *memCart) CartForUser(userID int) ([]model.CartItem, error) {
	var list []model.CartItem
	for _, i := range m.items {
		if i.UserID != userID {
			continue
		}
		copied := *i
		if m.products != nil {
			if p, err := m.products.ProductByID(i.ProductID); err == nil {
				copied.Product = p
			}
		}
		list = append(list, copied)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

func (m *memCart) AddCartItem(item *model.CartItem) error {
	for _, existing := range m.items {
		if existing.UserID == item.UserID && existing.ProductID == item.ProductID {
			existing.Quantity += item.Quantity
			*item = *existing
			return nil
		}
	}
	item.ID = m.nextID
	m.nextID++
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *memCart) UpdateCartItem(item *model.CartItem) error {
	copied := *item
	m.items[item.ID] = &copied
	return nil
}

func (m *memCart) DeleteCartItem(id int) error {
	if _, ok := m.items[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *memCart) ClearCart(userID int) error {
	for id, i := range m.items {
		if i.UserID == userID {
			delete(m.items, id)
		}
	}
	return nil
}

type memPurchases struct {
	nextID    int
	purchases []model.Purchase
	cart      *memCart
}

func newMemPurchases(cart *memCart) *memPurchases {
	return &memPurchases{nextID: 1, cart: cart}
}

func (m *memPurchases) CreatePurchase(purchase *model.Purchase) error {
	purchase.ID = m.nextID
	m.nextID++
	m.purchases = append(m.purchases, *purchase)
	if m.cart != nil {
		_ = m.cart.ClearCart(purchase.UserID)
	}
	return nil
}

func (m *memPurchases) PurchasesForUser(userID int) ([]model.Purchase, error) {
	var list []model.Purchase
	for _, p := range m.purchases {
		if p.UserID == userID {
			list = append(list, p)
		}
	}
	return list, nil
}

type memPermissions struct {
	nextID      int
	permissions map[int]*model.Permission
	grants      map[int][]int
	roles       *memRoles
}

func newMemPermissions(roles *memRoles) *memPermissions {
	return &memPermissions{
		nextID:      1,
		permissions: map[int]*model.Permission{},
		grants:      map[int][]int{},
		roles:       roles,
	}
}

func (m *memPermissions) ListPermissions(filter store.PermissionFilter) ([]model.Permission, error) {
	var list []model.Permission
	for _, p := range m.permissions {
		if filter.Active != nil && p.Active != *filter.Active {
			continue
		}
		list = append(list, *p)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	if filter.Skip > 0 {
		if filter.Skip >= len(list) {
			return nil, nil
		}
		list = list[filter.Skip:]
	}
	if filter.Limit > 0 && len(list) > filter.Limit {
		list = list[:filter.Limit]
	}
	return list, nil
}

func (m *memPermissions) PermissionByID(id int) (*model.Permission, error) {
	p, ok := m.permissions[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	copied := *p
	return &copied, nil
}

func (m *memPermissions) PermissionByPathMethod(path, method string) (*model.Permission, error) {
	for _, p := range m.permissions {
		if p.Path == path && p.Method == method && p.Active {
			copied := *p
			return &copied, nil
		}
	}
	return nil, store.ErrNotFound
}

func (m *memPermissions) CreatePermission(permission *model.Permission) error {
	for _, p := range m.permissions {
		if p.Name == permission.Name || (p.Path == permission.Path && p.Method == permission.Method) {
			return store.ErrConflict
		}
	}
	permission.ID = m.nextID
	m.nextID++
	copied := *permission
	m.permissions[permission.ID] = &copied
	return nil
}

func (m *memPermissions) UpdatePermission(permission *model.Permission) error {
	for _, p := range m.permissions {
		if p.ID != permission.ID && p.Path == permission.Path && p.Method == permission.Method {
			return store.ErrConflict
		}
	}
	copied := *permission
	m.permissions[permission.ID] = &copied
	return nil
}

func (m *memPermissions) DeletePermission(id int) error {
	if _, ok := m.permissions[id]; !ok {
		return store.ErrNotFound
	}
	delete(m.permissions, id)
	for roleID, ids := range m.grants {
		var kept []int
		for _, pid := range ids {
			if pid != id {
				kept = append(kept, pid)
			}
		}
		m.grants[roleID] = kept
	}
	return nil
}

func (m *memPermissions) AssignToRole(roleID int, permissionIDs []int) error {
	if m.roles != nil {
		if _, err := m.roles.RoleByID(roleID); err != nil {
			return store.ErrNotFound
		}
	}
	m.grants[roleID] = append([]int(nil), permissionIDs...)
	return nil
}

func (m *memPermissions) RemoveFromRole(roleID int, permissionIDs []int) error {
	remove := map[int]bool{}
	for _, id := range permissionIDs {
		remove[id] = true
	}
	var kept []int
	for _, id := range m.grants[roleID] {
		if !remove[id] {
			kept = append(kept, id)
		}
	}
	m.grants[roleID] = kept
	return nil
}

func (m *memPermissions) PermissionsForRole(roleID int) ([]model.Permission, error) {
	var list []model.Permission
	for _, id := range m.grants[roleID] {
		if p, ok := m.permissions[id]; ok && p.Active {
			list = append(list, *p)
		}
	}
	sort.Slice(list, func(i, j int) bool { return list[i].ID < list[j].ID })
	return list, nil
}

// memAuthz answers from the permission fakes and counts invalidations.
type memAuthz struct {
	permissions   *memPermissions
	invalidations int
}

func (m *memAuthz) HasPermission(roleID int, template, method string) bool {
	for _, id := range m.permissions.grants[roleID] {
		p, ok := m.permissions.permissions[id]
		if ok && p.Active && p.Path == template && p.Method == method {
			return true
		}
	}
	return false
}

func (m *memAuthz) InvalidateAuthz() {
	m.invalidations++
}

type memHealth struct {
	err error
}

func (m *memHealth) Ping() error {
	return m.err
}
