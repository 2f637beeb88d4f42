package categories

import (
	"time"

	"github.com/joefazee/catalog/models"
)

// CategoryNode is the unit stored in both cache tiers. Children is populated only
// inside a materialized forest; node-cache entries never carry it.
type CategoryNode struct {
	ID           int64               `json:"id"`
	Name         string              `json:"name"`
	Description  string              `json:"description"`
	ParentID     *int64              `json:"parent_id"`
	DisplayOrder int                 `json:"display_order"`
	Code         string              `json:"code"`
	StoreCode    string              `json:"store_code"`
	StoreTitle   string              `json:"store_title"`
	GroupTitle   string              `json:"group_title"`
	GenderFilter models.GenderFilter `json:"gender_filter"`
	LinkURL      string              `json:"link_url"`
	CreatedAt    time.Time           `json:"created_at"`
	UpdatedAt    time.Time           `json:"updated_at"`
	Children     []CategoryNode      `json:"children,omitempty"`
}

// NodeFromModel copies a store row into a childless node.
func NodeFromModel(c *models.Category) CategoryNode {
	n := CategoryNode{
		ID:           c.ID,
		Name:         c.Name,
		Description:  c.Description,
		DisplayOrder: c.DisplayOrder,
		Code:         c.Code,
		StoreCode:    c.StoreCode,
		StoreTitle:   c.StoreTitle,
		GroupTitle:   c.GroupTitle,
		GenderFilter: models.ParseGenderFilter(string(c.GenderFilter)),
		LinkURL:      c.LinkURL,
		CreatedAt:    c.CreatedAt,
		UpdatedAt:    c.UpdatedAt,
	}
	if c.ParentID != nil {
		pid := *c.ParentID
		n.ParentID = &pid
	}
	return n
}

func (n CategoryNode) IsRoot() bool {
	return n.ParentID == nil
}

func (n CategoryNode) IsLeaf() bool {
	return len(n.Children) == 0
}

// Flat returns a copy of n without children.
func (n CategoryNode) Flat() CategoryNode {
	n.Children = nil
	if n.ParentID != nil {
		pid := *n.ParentID
		n.ParentID = &pid
	}
	return n
}

// Clone deep-copies n and its whole subtree.
func (n CategoryNode) Clone() CategoryNode {
	out := n.Flat()
	if len(n.Children) > 0 {
		out.Children = make([]CategoryNode, len(n.Children))
		for i := range n.Children {
			out.Children[i] = n.Children[i].Clone()
		}
	}
	return out
}

func sameParent(a, b *int64) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	return *a == *b
}
