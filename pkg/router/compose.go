package router

import (
	"context"
	"io"
)

// Node is one level of a composed page tree. The page is the innermost
// node; each layout wraps the node below it.
type Node struct {
	Module *Module
	Props  Props
	Child  *Node
}

// Compose nests the matched page inside its layouts. The root layout is
// the outermost node.
func Compose(m *MatchResult) *Node {
	node := &Node{
		Module: m.Entry.Module,
		Props:  Props{Params: m.Params},
	}
	layouts := m.Entry.Layouts
	for i := len(layouts) - 1; i >= 0; i-- {
		node = &Node{Module: layouts[i], Child: node}
	}
	return node
}

// Render renders the tree rooted at n. Each layout renders its child
// through Props.Children.
func (n *Node) Render(ctx context.Context, w io.Writer) error {
	props := n.Props
	if child := n.Child; child != nil {
		props.Children = func(ctx context.Context, w io.Writer) error {
			return child.Render(ctx, w)
		}
	}
	return n.Module.Component.Render(ctx, w, props)
}

// chain returns the nodes from the outermost layout down to the page.
func (n *Node) chain() []*Node {
	var chain []*Node
	for cur := n; cur != nil; cur = cur.Child {
		chain = append(chain, cur)
	}
	return chain
}
