package rbac

import (
	"reflect"
	"testing"
)

func testCatalog() Catalog {
	return NewCatalog([]Menu{
		{ID: 1, ParentID: 0, Name: "系统管理", OrderNum: 1, Type: MenuDirectory, Visible: VisibleShown},
		{ID: 10, ParentID: 0, Name: "文档", OrderNum: 2, Type: MenuLeaf, Visible: VisibleShown, Perms: "doc:edit"},
		{ID: 100, ParentID: 1, Name: "用户管理", OrderNum: 1, Type: MenuLeaf, Visible: VisibleShown, Perms: "system:user:view"},
		{ID: 101, ParentID: 1, Name: "隐藏菜单", OrderNum: 2, Type: MenuLeaf, Visible: VisibleHidden, Perms: "system:hidden:view"},
		{ID: 1000, ParentID: 100, Name: "用户查询", OrderNum: 1, Type: MenuButton, Visible: VisibleShown, Perms: " system:user:list , system:user:query "},
	})
}

func activeUser(roles ...Role) *Subject {
	return &Subject{UserID: 2, LoginName: "alice", Status: StatusActive, DelFlag: DelFlagPresent, Roles: roles}
}

func TestIsAdmin(t *testing.T) {
	tests := []struct {
		name string
		s    *Subject
		want bool
	}{
		{"nil 主体", nil, false},
		{"无角色", activeUser(), false},
		{"普通角色", activeUser(Role{ID: 2, Key: "common", Status: StatusActive}), false},
		{"admin 角色", activeUser(Role{ID: 1, Key: AdminRoleKey, Status: StatusActive}), true},
		{"停用的 admin 角色仍是管理员", activeUser(Role{ID: 1, Key: AdminRoleKey, Status: StatusDisabled}), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsAdmin(tt.s); got != tt.want {
				t.Errorf("IsAdmin() = %v, want %v", got, tt.want)
			}
		})
	}
}

// editor 角色关联 doc:edit 菜单
func TestHasPermission_Editor(t *testing.T) {
	cat := testCatalog()
	u := activeUser(Role{ID: 3, Key: "editor", Status: StatusActive, MenuIDs: []int64{10}})

	if !HasPermission(u, cat, "doc:edit") {
		t.Error("期望拥有 doc:edit")
	}
	if HasPermission(u, cat, "doc:delete") {
		t.Error("不应拥有 doc:delete")
	}
	if HasPermission(u, cat, "doc") {
		t.Error("前缀不应匹配")
	}
	if HasPermission(u, cat, "") {
		t.Error("空标识不应匹配")
	}
}

func TestEffectivePermissions(t *testing.T) {
	cat := testCatalog()

	t.Run("停用角色不贡献权限", func(t *testing.T) {
		u := activeUser(
			Role{ID: 2, Key: "common", Status: StatusActive, MenuIDs: []int64{100}},
			Role{ID: 3, Key: "editor", Status: StatusDisabled, MenuIDs: []int64{10}},
		)
		got := EffectivePermissions(u, cat).List()
		want := []string{"system:user:view"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("List() = %v, want %v", got, want)
		}
	})

	t.Run("隐藏菜单与按钮的权限同样生效", func(t *testing.T) {
		u := activeUser(Role{ID: 2, Key: "common", Status: StatusActive, MenuIDs: []int64{101, 1000, 1}})
		got := EffectivePermissions(u, cat).List()
		want := []string{"system:hidden:view", "system:user:list", "system:user:query"}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("List() = %v, want %v", got, want)
		}
	})

	t.Run("关联了不存在的菜单", func(t *testing.T) {
		u := activeUser(Role{ID: 2, Key: "common", Status: StatusActive, MenuIDs: []int64{999}})
		if n := EffectivePermissions(u, cat).Len(); n != 0 {
			t.Errorf("Len() = %d, want 0", n)
		}
	})

	t.Run("管理员为全量集合", func(t *testing.T) {
		u := activeUser(Role{ID: 1, Key: AdminRoleKey, Status: StatusActive})
		set := EffectivePermissions(u, cat)
		if !set.Universal() || !set.Has("anything:at:all") {
			t.Error("管理员应拥有任意权限")
		}
	})
}

func TestUnusableSubjectHasNothing(t *testing.T) {
	cat := testCatalog()
	roles := []Role{
		{ID: 1, Key: AdminRoleKey, Status: StatusActive},
		{ID: 3, Key: "editor", Status: StatusActive, MenuIDs: []int64{10}},
	}
	subjects := map[string]*Subject{
		"停用": {Status: StatusDisabled, DelFlag: DelFlagPresent, Roles: roles},
		"删除": {Status: StatusActive, DelFlag: DelFlagDeleted, Roles: roles},
		"nil": nil,
	}
	for name, s := range subjects {
		t.Run(name, func(t *testing.T) {
			if HasPermission(s, cat, "doc:edit") {
				t.Error("不可用用户不应拥有权限")
			}
			if EffectivePermissions(s, cat).Universal() {
				t.Error("不可用用户不应获得全量集合")
			}
			if len(SelectNavigable(s, cat)) != 0 {
				t.Error("不可用用户不应有导航菜单")
			}
		})
	}
}

func TestSelectNavigable(t *testing.T) {
	cat := testCatalog()

	t.Run("普通用户去重且只含可导航菜单", func(t *testing.T) {
		u := activeUser(
			Role{ID: 2, Key: "common", Status: StatusActive, MenuIDs: []int64{100, 1000, 101, 1}},
			Role{ID: 4, Key: "viewer", Status: StatusActive, MenuIDs: []int64{100}},
		)
		got := ids(SelectNavigable(u, cat))
		want := []int64{1, 100}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ids = %v, want %v", got, want)
		}
	})

	// admin 无菜单关联仍得到全量可见树
	t.Run("管理员无菜单关联", func(t *testing.T) {
		u := activeUser(Role{ID: 1, Key: AdminRoleKey, Status: StatusActive})
		got := ids(SelectNavigable(u, cat))
		want := []int64{1, 10, 100}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("ids = %v, want %v", got, want)
		}
		tree := BuildMenuTree(SelectNavigable(u, cat))
		if len(tree) != 2 || len(tree[0].Children) != 1 {
			t.Errorf("管理员菜单树结构不符: %+v", tree)
		}
	})
}

func ids(menus []Menu) []int64 {
	out := make([]int64, 0, len(menus))
	for _, m := range menus {
		out = append(out, m.ID)
	}
	return out
}
