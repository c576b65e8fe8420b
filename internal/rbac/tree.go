package rbac

import "sort"

// TreeNode 菜单树节点，无子节点时不输出 children 字段
type TreeNode struct {
	Menu
	Children []*TreeNode `json:"children,omitempty"`
}

// RootParentID 顶级菜单的 parent_id
const RootParentID int64 = 0

// BuildMenuTree 由扁平菜单列表重建导航树
//
// 先按 parent_id 建立 父→子 索引（同级按 order_num 稳定排序，
// 保留调用方给定的次序），再从根节点 0 做一次广度遍历。
// 已放置的 ID 不再放置：自引用、环以及根不可达的记录都会被丢弃，
// 每个 ID 在结果中至多出现一次。
func BuildMenuTree(flat []Menu) []*TreeNode {
	if len(flat) == 0 {
		return []*TreeNode{}
	}

	index := make(map[int64][]Menu, len(flat))
	for _, m := range flat {
		index[m.ParentID] = append(index[m.ParentID], m)
	}
	for pid := range index {
		siblings := index[pid]
		sort.SliceStable(siblings, func(i, j int) bool {
			return siblings[i].OrderNum < siblings[j].OrderNum
		})
	}

	placed := make(map[int64]struct{}, len(flat))
	place := func(parentID int64) []*TreeNode {
		var nodes []*TreeNode
		for _, m := range index[parentID] {
			if _, ok := placed[m.ID]; ok {
				continue
			}
			placed[m.ID] = struct{}{}
			nodes = append(nodes, &TreeNode{Menu: m})
		}
		return nodes
	}

	roots := place(RootParentID)
	queue := append([]*TreeNode(nil), roots...)
	for len(queue) > 0 {
		node := queue[0]
		queue = queue[1:]
		node.Children = place(node.ID)
		queue = append(queue, node.Children...)
	}

	if roots == nil {
		return []*TreeNode{}
	}
	return roots
}

// Walk 深度优先遍历树，fn 返回 false 时停止
func Walk(nodes []*TreeNode, fn func(n *TreeNode, depth int) bool) {
	var walk func(ns []*TreeNode, depth int) bool
	walk = func(ns []*TreeNode, depth int) bool {
		for _, n := range ns {
			if !fn(n, depth) {
				return false
			}
			if !walk(n.Children, depth+1) {
				return false
			}
		}
		return true
	}
	walk(nodes, 0)
}
