package calc

// Partition splits items into those taking part in a calculation tree and
// those independent of every calculation. An item is in a tree when it is a
// calculation or when some item's formula references it. Both groups keep
// the input order.
func Partition(items []*Item, g *Graph) (inTree, independent []*Item) {
	targets := g.Targets()

	inTree = make([]*Item, 0)
	independent = make([]*Item, 0)
	for _, it := range items {
		if it.IsCalculation || targets[it.Name] {
			inTree = append(inTree, it)
		} else {
			independent = append(independent, it)
		}
	}
	return inTree, independent
}
