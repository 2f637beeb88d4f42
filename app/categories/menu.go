package categories

import (
	"strconv"
	"strings"

	"github.com/joefazee/catalog/models"
)

const (
	TabCategory = "category"
	TabBrand    = "brand"
	TabService  = "service"

	viewAllTitle = "View all"
)

var menuTabs = []struct {
	id       string
	title    string
	emphasis bool
}{
	{TabCategory, "Category", false},
	{TabBrand, "Brand", true},
	{TabService, "Service", false},
}

// MenuResponse is the storefront navigation built from the forest.
type MenuResponse struct {
	List   []CategoryMenu `json:"list"`
	Tabs   []MenuTab      `json:"tabs"`
	Gender []GenderOption `json:"gender"`
}

// CategoryMenu is one root category with its children grouped by group title.
type CategoryMenu struct {
	ID           int64       `json:"id"`
	Code         string      `json:"code"`
	Title        string      `json:"title"`
	StoreCode    string      `json:"store_code"`
	StoreTitle   string      `json:"store_title"`
	LinkURLTitle string      `json:"link_url_title"`
	LinkURL      string      `json:"link_url"`
	Groups       []MenuGroup `json:"list"`
}

type MenuGroup struct {
	Title string     `json:"title"`
	Items []MenuItem `json:"list"`
}

type MenuItem struct {
	ID      int64  `json:"id"`
	Code    string `json:"code"`
	Title   string `json:"title"`
	LinkURL string `json:"link_url"`
}

type MenuTab struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Selected bool   `json:"selected"`
	Emphasis bool   `json:"is_emphasis"`
}

type GenderOption struct {
	Key      string `json:"key"`
	Title    string `json:"title"`
	Selected bool   `json:"selected"`
}

// IsMenuTab reports whether tab names a known menu tab.
func IsMenuTab(tab string) bool {
	for _, t := range menuTabs {
		if t.id == tab {
			return true
		}
	}
	return false
}

// BuildMenu turns the forest into menus. Roots and their direct children are kept when
// their gender filter allows the requested one; children are grouped by GroupTitle in
// first-appearance order.
func BuildMenu(roots []CategoryNode, tab string, gender models.GenderFilter) *MenuResponse {
	menu := &MenuResponse{
		List:   make([]CategoryMenu, 0, len(roots)),
		Tabs:   make([]MenuTab, 0, len(menuTabs)),
		Gender: make([]GenderOption, 0, len(models.GenderFilters)),
	}

	for i := range roots {
		root := roots[i]
		if !root.GenderFilter.Allows(gender) {
			continue
		}
		menu.List = append(menu.List, buildCategoryMenu(root, gender))
	}

	for _, t := range menuTabs {
		menu.Tabs = append(menu.Tabs, MenuTab{ID: t.id, Title: t.title, Selected: t.id == tab, Emphasis: t.emphasis})
	}
	for _, g := range models.GenderFilters {
		menu.Gender = append(menu.Gender, GenderOption{Key: string(g), Title: g.DisplayName(), Selected: g == gender})
	}
	return menu
}

func buildCategoryMenu(root CategoryNode, gender models.GenderFilter) CategoryMenu {
	cm := CategoryMenu{
		ID:           root.ID,
		Code:         codeOrID(root),
		Title:        root.Name,
		StoreCode:    root.StoreCode,
		StoreTitle:   root.StoreTitle,
		LinkURLTitle: viewAllTitle,
		LinkURL:      root.LinkURL,
		Groups:       make([]MenuGroup, 0),
	}

	index := make(map[string]int)
	for _, child := range root.Children {
		if !child.GenderFilter.Allows(gender) {
			continue
		}
		title := strings.TrimSpace(child.GroupTitle)
		pos, ok := index[title]
		if !ok {
			pos = len(cm.Groups)
			index[title] = pos
			cm.Groups = append(cm.Groups, MenuGroup{Title: title})
		}
		cm.Groups[pos].Items = append(cm.Groups[pos].Items, MenuItem{
			ID:      child.ID,
			Code:    codeOrID(child),
			Title:   child.Name,
			LinkURL: linkOrDefault(child),
		})
	}
	return cm
}

func codeOrID(n CategoryNode) string {
	if n.Code != "" {
		return n.Code
	}
	return strconv.FormatInt(n.ID, 10)
}

func linkOrDefault(n CategoryNode) string {
	if n.LinkURL != "" {
		return n.LinkURL
	}
	return "/category/" + strconv.FormatInt(n.ID, 10)
}
