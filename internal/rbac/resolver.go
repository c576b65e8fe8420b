package rbac

import (
	"sort"
	"strings"
)

// PermissionSet 用户的有效权限集合
// universal 为 true 时包含任意权限标识
type PermissionSet struct {
	universal bool
	perms     map[string]struct{}
}

// UniversalSet 管理员的全量权限集合
func UniversalSet() PermissionSet {
	return PermissionSet{universal: true}
}

// NewPermissionSet 由权限标识构造集合，忽略空串
func NewPermissionSet(perms ...string) PermissionSet {
	s := PermissionSet{perms: make(map[string]struct{}, len(perms))}
	for _, p := range perms {
		s.add(p)
	}
	return s
}

func (s *PermissionSet) add(p string) {
	if s.perms == nil {
		s.perms = make(map[string]struct{})
	}
	if p = strings.TrimSpace(p); p != "" {
		s.perms[p] = struct{}{}
	}
}

// Has 精确匹配；全量集合对任意标识返回 true
func (s PermissionSet) Has(p string) bool {
	if s.universal {
		return true
	}
	if p == "" {
		return false
	}
	_, ok := s.perms[p]
	return ok
}

// Universal 是否为管理员全量集合
func (s PermissionSet) Universal() bool { return s.universal }

// Len 显式权限个数（全量集合为 0）
func (s PermissionSet) Len() int { return len(s.perms) }

// List 排序后的权限标识；全量集合返回 ["*:*:*"]
func (s PermissionSet) List() []string {
	if s.universal {
		return []string{"*:*:*"}
	}
	out := make([]string, 0, len(s.perms))
	for p := range s.perms {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// IsAdmin 角色中存在 admin 标识即为管理员，与角色状态和菜单关联无关
func IsAdmin(s *Subject) bool {
	if s == nil {
		return false
	}
	for _, r := range s.Roles {
		if r.Key == AdminRoleKey {
			return true
		}
	}
	return false
}

// EffectivePermissions 计算有效权限
// 停用/删除用户为空集；管理员为全量集合；
// 其余用户取启用角色所关联菜单的非空 perms 并集，逗号分隔的 perms 拆分为多项
func EffectivePermissions(s *Subject, catalog Catalog) PermissionSet {
	if !s.Usable() {
		return NewPermissionSet()
	}
	if IsAdmin(s) {
		return UniversalSet()
	}

	set := NewPermissionSet()
	for _, r := range s.Roles {
		if r.Status != StatusActive {
			continue
		}
		for _, id := range r.MenuIDs {
			m, ok := catalog[id]
			if !ok || m.Perms == "" {
				continue
			}
			for _, p := range strings.Split(m.Perms, ",") {
				set.add(p)
			}
		}
	}
	return set
}

// HasPermission 判定单个权限；空标识仅对管理员为真
func HasPermission(s *Subject, catalog Catalog, p string) bool {
	return EffectivePermissions(s, catalog).Has(p)
}

// SelectNavigable 选出可进入导航树的菜单
// 管理员取全部可导航菜单，其余用户取启用角色可达的可导航菜单；
// 结果去重并按 (parent_id, order_num, id) 排序
func SelectNavigable(s *Subject, catalog Catalog) []Menu {
	if !s.Usable() {
		return nil
	}

	var out []Menu
	if IsAdmin(s) {
		for _, m := range catalog {
			if m.Navigable() {
				out = append(out, m)
			}
		}
	} else {
		seen := make(map[int64]struct{})
		for _, r := range s.Roles {
			if r.Status != StatusActive {
				continue
			}
			for _, id := range r.MenuIDs {
				if _, dup := seen[id]; dup {
					continue
				}
				m, ok := catalog[id]
				if !ok || !m.Navigable() {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, m)
			}
		}
	}

	sort.Slice(out, func(i, j int) bool {
		a, b := out[i], out[j]
		if a.ParentID != b.ParentID {
			return a.ParentID < b.ParentID
		}
		if a.OrderNum != b.OrderNum {
			return a.OrderNum < b.OrderNum
		}
		return a.ID < b.ID
	})
	return out
}
