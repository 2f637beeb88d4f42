package categories

import (
	"strings"

	"github.com/joefazee/catalog/models"
)

// FilterTree keeps the nodes whose name contains needle (case-insensitive) together with
// their ancestors. Kept nodes carry only kept children. A blank needle returns roots as is.
// The input is never modified.
func FilterTree(roots []CategoryNode, needle string) []CategoryNode {
	needle = strings.TrimSpace(needle)
	if needle == "" {
		return roots
	}
	lowered := strings.ToLower(needle)

	out := make([]CategoryNode, 0)
	for i := range roots {
		if kept, ok := filterNode(roots[i], lowered); ok {
			out = append(out, kept)
		}
	}
	return out
}

// FilterSubtree applies FilterTree below the node rootID. The root is always returned,
// with no children when nothing beneath it matches.
func FilterSubtree(roots []CategoryNode, rootID int64, needle string) (CategoryNode, error) {
	base, ok := FindNode(roots, rootID)
	if !ok {
		return CategoryNode{}, &models.CategoryNotFoundError{ID: rootID}
	}

	needle = strings.TrimSpace(needle)
	if needle == "" {
		return base, nil
	}

	if kept, ok := filterNode(base, strings.ToLower(needle)); ok {
		return kept, nil
	}
	return base.Flat(), nil
}

func filterNode(node CategoryNode, lowered string) (CategoryNode, bool) {
	var kept []CategoryNode
	for i := range node.Children {
		if child, ok := filterNode(node.Children[i], lowered); ok {
			kept = append(kept, child)
		}
	}

	if len(kept) == 0 && !nameMatches(node.Name, lowered) {
		return CategoryNode{}, false
	}

	out := node.Flat()
	out.Children = kept
	return out, true
}

func nameMatches(name, lowered string) bool {
	return strings.Contains(strings.ToLower(name), lowered)
}
