package rbac

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

func TestBuildMenuTree_Empty(t *testing.T) {
	tree := BuildMenuTree(nil)
	require.NotNil(t, tree)
	assert.Empty(t, tree)

	raw, err := json.Marshal(tree)
	require.NoError(t, err)
	assert.Equal(t, "[]", string(raw))
}

func TestBuildMenuTree_OrderAndChildren(t *testing.T) {
	flat := []Menu{
		{ID: 2, ParentID: 0, OrderNum: 2, Name: "监控"},
		{ID: 1, ParentID: 0, OrderNum: 1, Name: "系统"},
		{ID: 12, ParentID: 1, OrderNum: 2, Name: "角色"},
		{ID: 11, ParentID: 1, OrderNum: 1, Name: "用户"},
		{ID: 13, ParentID: 1, OrderNum: 1, Name: "部门"},
	}
	tree := BuildMenuTree(flat)

	require.Len(t, tree, 2)
	assert.Equal(t, int64(1), tree[0].ID)
	assert.Equal(t, int64(2), tree[1].ID)
	assert.Nil(t, tree[1].Children)

	// 同 order_num 保留输入次序
	var got []int64
	for _, c := range tree[0].Children {
		got = append(got, c.ID)
	}
	assert.Equal(t, []int64{11, 13, 12}, got)

	raw, err := json.Marshal(tree[1])
	require.NoError(t, err)
	assert.NotContains(t, string(raw), "children")
}

func TestBuildMenuTree_Malformed(t *testing.T) {
	flat := []Menu{
		{ID: 1, ParentID: 0},
		{ID: 5, ParentID: 5},  // 自引用
		{ID: 6, ParentID: 7},  // 环 6 -> 7 -> 6
		{ID: 7, ParentID: 6},
		{ID: 8, ParentID: 99}, // 父节点不存在
		{ID: 1, ParentID: 0},  // 重复记录
		{ID: 2, ParentID: 1},
	}
	tree := BuildMenuTree(flat)

	seen := map[int64]int{}
	Walk(tree, func(n *TreeNode, _ int) bool {
		seen[n.ID]++
		return true
	})
	assert.Equal(t, map[int64]int{1: 1, 2: 1}, seen)
}

func TestBuildMenuTree_RootWithIDZero(t *testing.T) {
	tree := BuildMenuTree([]Menu{{ID: 0, ParentID: 0}, {ID: 3, ParentID: 0}})
	require.Len(t, tree, 2)
	assert.Nil(t, tree[0].Children)
}

// 任意 parent_id 组合（含自引用与环）都能终止，且每个 ID 至多出现一次
func TestBuildMenuTree_Property(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		n := rapid.IntRange(0, 40).Draw(t, "n")
		flat := make([]Menu, 0, n)
		for i := 0; i < n; i++ {
			flat = append(flat, Menu{
				ID:       rapid.Int64Range(1, 30).Draw(t, "id"),
				ParentID: rapid.Int64Range(0, 30).Draw(t, "parent"),
				OrderNum: rapid.IntRange(0, 5).Draw(t, "order"),
			})
		}

		tree := BuildMenuTree(flat)

		seen := map[int64]bool{}
		var check func(ns []*TreeNode, parent int64)
		check = func(ns []*TreeNode, parent int64) {
			for i, node := range ns {
				if seen[node.ID] {
					t.Fatalf("菜单 %d 出现多次", node.ID)
				}
				seen[node.ID] = true
				if node.ParentID != parent {
					t.Fatalf("菜单 %d 挂在错误的父节点 %d 下", node.ID, parent)
				}
				if i > 0 && ns[i-1].OrderNum > node.OrderNum {
					t.Fatalf("同级菜单未按 order_num 排序")
				}
				if node.Children != nil && len(node.Children) == 0 {
					t.Fatalf("空 children 应为 nil")
				}
				check(node.Children, node.ID)
			}
		}
		check(tree, RootParentID)
	})
}

// 含 admin 角色的用户：IsAdmin 恒真；可用时任意权限为真
func TestAdminProperty(t *testing.T) {
	rapid.Check(t, func(t *rapid.T) {
		extra := rapid.SliceOfN(rapid.StringMatching(`[a-z]{1,6}`), 0, 4).Draw(t, "keys")
		roles := []Role{{ID: 1, Key: AdminRoleKey, Status: Status(rapid.SampledFrom([]string{"0", "1"}).Draw(t, "status"))}}
		for i, k := range extra {
			roles = append(roles, Role{ID: int64(i + 2), Key: k, Status: StatusActive})
		}
		s := activeUser(roles...)
		p := rapid.String().Draw(t, "perm")

		if !IsAdmin(s) {
			t.Fatal("IsAdmin 应为 true")
		}
		if !HasPermission(s, nil, p) {
			t.Fatalf("管理员应拥有 %q", p)
		}
	})
}

// 停用或删除用户对任意权限均为 false
func TestUnusableProperty(t *testing.T) {
	cat := testCatalog()
	rapid.Check(t, func(t *rapid.T) {
		s := &Subject{
			Status:  Status(rapid.SampledFrom([]string{"0", "1"}).Draw(t, "status")),
			DelFlag: DelFlag(rapid.SampledFrom([]string{"0", "2"}).Draw(t, "del")),
			Roles: []Role{
				{ID: 1, Key: AdminRoleKey, Status: StatusActive},
				{ID: 2, Key: "editor", Status: StatusActive, MenuIDs: []int64{10, 100, 1000}},
			},
		}
		if s.Usable() {
			t.Skip("可用用户不在本属性范围内")
		}
		p := rapid.SampledFrom([]string{"doc:edit", "system:user:view", "monitor:online:list", ""}).Draw(t, "perm")
		if HasPermission(s, cat, p) {
			t.Fatalf("不可用用户不应拥有 %q", p)
		}
	})
}
