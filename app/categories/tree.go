package categories

import (
	"errors"
	"fmt"
	"slices"
	"sort"

	"github.com/joefazee/catalog/models"
)

var ErrTreeCycle = errors.New("category tree: node visited twice")

// Forest is the result of materializing store rows.
type Forest struct {
	Roots []CategoryNode
	// Unreachable holds ids of rows no root reaches: a dangling parent or a closed cycle.
	Unreachable []int64
}

// BuildTree groups rows by parent id and attaches children depth first.
// Siblings are ordered by display order, then name, then id, so the result does not
// depend on row order. Visiting an id a second time fails with ErrTreeCycle.
func BuildTree(rows []models.Category) (Forest, error) {
	byParent := make(map[int64][]*models.Category, len(rows))
	roots := make([]*models.Category, 0)
	for i := range rows {
		row := &rows[i]
		if row.ParentID == nil {
			roots = append(roots, row)
			continue
		}
		byParent[*row.ParentID] = append(byParent[*row.ParentID], row)
	}

	sortRows(roots)
	for _, siblings := range byParent {
		sortRows(siblings)
	}

	visited := make(map[int64]struct{}, len(rows))
	var attach func(row *models.Category) (CategoryNode, error)
	attach = func(row *models.Category) (CategoryNode, error) {
		if _, seen := visited[row.ID]; seen {
			return CategoryNode{}, fmt.Errorf("%w: category %d", ErrTreeCycle, row.ID)
		}
		visited[row.ID] = struct{}{}

		node := NodeFromModel(row)
		children := byParent[row.ID]
		if len(children) > 0 {
			node.Children = make([]CategoryNode, 0, len(children))
		}
		for _, child := range children {
			cn, err := attach(child)
			if err != nil {
				return CategoryNode{}, err
			}
			node.Children = append(node.Children, cn)
		}
		return node, nil
	}

	forest := Forest{Roots: make([]CategoryNode, 0, len(roots))}
	for _, root := range roots {
		node, err := attach(root)
		if err != nil {
			return Forest{}, err
		}
		forest.Roots = append(forest.Roots, node)
	}

	for i := range rows {
		if _, ok := visited[rows[i].ID]; !ok {
			forest.Unreachable = append(forest.Unreachable, rows[i].ID)
		}
	}
	slices.Sort(forest.Unreachable)
	forest.Unreachable = slices.Compact(forest.Unreachable)

	return forest, nil
}

func sortRows(rows []*models.Category) {
	sort.Slice(rows, func(i, j int) bool {
		return lessSibling(rows[i].DisplayOrder, rows[i].Name, rows[i].ID, rows[j].DisplayOrder, rows[j].Name, rows[j].ID)
	})
}

func sortNodes(nodes []CategoryNode) {
	sort.Slice(nodes, func(i, j int) bool {
		return lessSibling(nodes[i].DisplayOrder, nodes[i].Name, nodes[i].ID, nodes[j].DisplayOrder, nodes[j].Name, nodes[j].ID)
	})
}

func lessSibling(orderA int, nameA string, idA int64, orderB int, nameB string, idB int64) bool {
	if orderA != orderB {
		return orderA < orderB
	}
	if nameA != nameB {
		return nameA < nameB
	}
	return idA < idB
}

// Flatten lists every node in pre-order with children stripped.
func Flatten(roots []CategoryNode) []CategoryNode {
	out := make([]CategoryNode, 0, CountNodes(roots))
	var walk func(nodes []CategoryNode)
	walk = func(nodes []CategoryNode) {
		for i := range nodes {
			out = append(out, nodes[i].Flat())
			walk(nodes[i].Children)
		}
	}
	walk(roots)
	return out
}

// FindNode returns the subtree rooted at id. The result shares children with roots.
func FindNode(roots []CategoryNode, id int64) (CategoryNode, bool) {
	for i := range roots {
		if roots[i].ID == id {
			return roots[i], true
		}
		if found, ok := FindNode(roots[i].Children, id); ok {
			return found, true
		}
	}
	return CategoryNode{}, false
}

// CountNodes counts every node in the forest.
func CountNodes(roots []CategoryNode) int {
	n := 0
	for i := range roots {
		n += 1 + CountNodes(roots[i].Children)
	}
	return n
}

// MaxDepth is 0 for an empty forest and 1 for a forest of leaves.
func MaxDepth(roots []CategoryNode) int {
	deepest := 0
	for i := range roots {
		if d := 1 + MaxDepth(roots[i].Children); d > deepest {
			deepest = d
		}
	}
	return deepest
}

// CloneForest deep-copies roots.
func CloneForest(roots []CategoryNode) []CategoryNode {
	if roots == nil {
		return nil
	}
	out := make([]CategoryNode, len(roots))
	for i := range roots {
		out[i] = roots[i].Clone()
	}
	return out
}
