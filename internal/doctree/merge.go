package doctree

// Merge layers source onto target and returns the result as a new tree.
// Neither argument is modified.
//
// Attribute bags are unioned with source winning on collisions. Mapping
// children present on both sides are merged recursively; any other source
// child (scalar, sequence, null, or a mapping over a non-mapping) replaces the
// target child outright. Keys only present in target are kept.
func Merge(target, source *Node) *Node {
	if target == nil {
		return source.Clone()
	}
	if source == nil {
		return target.Clone()
	}
	if !target.IsMapping() || !source.IsMapping() {
		return source.Clone()
	}

	result := target.Clone()

	if source.HasAttrs() {
		result.ensureAttrs()
		for pair := source.Attrs.Oldest(); pair != nil; pair = pair.Next() {
			result.Attrs.Set(pair.Key, pair.Value)
		}
	}

	if source.Children == nil {
		return result
	}
	for pair := source.Children.Oldest(); pair != nil; pair = pair.Next() {
		existing, ok := result.Get(pair.Key)
		if ok && existing.IsMapping() && pair.Value.IsMapping() {
			result.Set(pair.Key, Merge(existing, pair.Value))
			continue
		}
		result.Set(pair.Key, pair.Value.Clone())
	}
	return result
}

// MergeAll folds fragments onto base from left to right.
func MergeAll(base *Node, fragments ...*Node) *Node {
	result := base
	for _, f := range fragments {
		result = Merge(result, f)
	}
	return result
}
