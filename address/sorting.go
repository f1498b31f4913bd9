package address

import "sort"

type ordered []Address

func (it ordered) Len() int           { return len(it) }
func (it ordered) Less(i, j int) bool { return it[i].Less(it[j]) }
func (it ordered) Swap(i, j int)      { it[i], it[j] = it[j], it[i] }

// Sort orders addresses structurally, segment by segment, parents first.
func Sort(addresses []Address) {
	sort.Stable(ordered(addresses))
}
