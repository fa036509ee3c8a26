// Package discussion serves forum topics, their replies and lecture comments.
package discussion

// Forest is a flat arena of items with child index lists. Items whose parent id does not
// resolve are left out of every list.
type Forest[T any] struct {
	Items    []T
	Roots    []int
	Children [][]int
}

// BuildForest links items to their parents in one pass. Sibling order follows input order.
func BuildForest[T any](items []T, id func(T) uint, parent func(T) *uint) Forest[T] {
	f := Forest[T]{Items: items, Children: make([][]int, len(items))}
	index := make(map[uint]int, len(items))
	for i, it := range items {
		index[id(it)] = i
	}
	for i, it := range items {
		p := parent(it)
		if p == nil {
			f.Roots = append(f.Roots, i)
			continue
		}
		if pi, ok := index[*p]; ok {
			f.Children[pi] = append(f.Children[pi], i)
		}
	}
	return f
}

// Render walks the forest from its roots, building each node after its children.
func Render[T, N any](f Forest[T], node func(item T, children []N) N) []N {
	var walk func(idx []int) []N
	walk = func(idx []int) []N {
		out := make([]N, 0, len(idx))
		for _, i := range idx {
			out = append(out, node(f.Items[i], walk(f.Children[i])))
		}
		return out
	}
	return walk(f.Roots)
}
