package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// TreeNode is one category line of a rendered forest.
type TreeNode struct {
	ID       int64
	Title    string
	Detail   string
	Children []TreeNode
}

const (
	treeBranch = "├─ "
	treeCorner = "└─ "
	treePipe   = "│  "
	treeBlank  = "   "
)

type treeLine struct {
	content string
	badge   string
}

// RenderTree draws a forest with box-drawing connectors and right-aligned detail badges.
func RenderTree(roots []TreeNode) string {
	var lines []treeLine
	for i := range roots {
		lines = appendTree(lines, roots[i], "", "", i == len(roots)-1, true)
	}
	if len(lines) == 0 {
		return ""
	}

	widest := 0
	for _, l := range lines {
		if w := lipgloss.Width(l.content); w > widest {
			widest = w
		}
	}

	var b strings.Builder
	for _, l := range lines {
		b.WriteString(l.content)
		if l.badge != "" {
			b.WriteString(strings.Repeat(" ", widest-lipgloss.Width(l.content)+colGap))
			b.WriteString(l.badge)
		}
		b.WriteString("\n")
	}
	return b.String()
}

func appendTree(lines []treeLine, node TreeNode, indent, connector string, last, root bool) []treeLine {
	title := StyleDim.Render(fmt.Sprintf("#%d ", node.ID)) + node.Title
	if len(node.Children) == 0 {
		title = StyleGreen.Render(title)
	}

	line := treeLine{content: indent + connector + title}
	if node.Detail != "" {
		line.badge = StyleBlue.Render("[ " + node.Detail + " ]")
	}
	lines = append(lines, line)

	childIndent := indent
	if !root {
		if last {
			childIndent += treeBlank
		} else {
			childIndent += treePipe
		}
	}
	for i := range node.Children {
		isLast := i == len(node.Children)-1
		c := treeBranch
		if isLast {
			c = treeCorner
		}
		lines = appendTree(lines, node.Children[i], childIndent, c, isLast, false)
	}
	return lines
}
