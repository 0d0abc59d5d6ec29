// Package group buckets catalog items and list entries by category.
package group

// Categorized is anything that belongs to a category.
type Categorized interface {
	GroupKey() string
	GroupLabel() string
}

// Group is one category bucket. Label is taken from the first member seen.
type Group[T Categorized] struct {
	Key   string
	Label string
	Items []T
}

// ByCategory groups items by category key in a single pass. Groups appear in
// first-seen order and each group keeps the input order of its members.
func ByCategory[T Categorized](items []T) []Group[T] {
	var groups []Group[T]
	index := make(map[string]int)
	for _, it := range items {
		k := it.GroupKey()
		i, ok := index[k]
		if !ok {
			i = len(groups)
			index[k] = i
			groups = append(groups, Group[T]{Key: k, Label: it.GroupLabel()})
		}
		groups[i].Items = append(groups[i].Items, it)
	}
	return groups
}

// Keys returns the group keys in order.
func Keys[T Categorized](groups []Group[T]) []string {
	keys := make([]string, 0, len(groups))
	for _, g := range groups {
		keys = append(keys, g.Key)
	}
	return keys
}

// Lookup returns the members of the group with the given key.
func Lookup[T Categorized](groups []Group[T], key string) ([]T, bool) {
	for _, g := range groups {
		if g.Key == key {
			return g.Items, true
		}
	}
	return nil, false
}

// Flatten concatenates the groups back into one slice.
func Flatten[T Categorized](groups []Group[T]) []T {
	var out []T
	for _, g := range groups {
		out = append(out, g.Items...)
	}
	return out
}
