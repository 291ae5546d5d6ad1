package algorithm

import (
	"sync/atomic"

	"golang.org/x/exp/constraints"
)

// rangeNode 是 ExistenceTree 的节点摘要：区间的精确最小值与最大值。
type rangeNode[T constraints.Integer] struct {
	min T
	max T
}

func mergeRange[T constraints.Integer](a, b rangeNode[T]) rangeNode[T] {
	return rangeNode[T]{min: min(a.min, b.min), max: max(a.max, b.max)}
}

// ExistenceTree 回答 "区间 [l, r] 内是否存在值恰好为 k 的位置"。
// 构建后不可变：每个节点只保存区间 min/max，查询时 k 落在 [min, max] 之外的子树被直接剪掉。
// 最坏情况（k 不存在但处处落在 [min, max] 内）单次查询为 O(n)。
//
// 树本身不可变，统计计数使用原子操作，因此可以被多个 goroutine 同时查询。
type ExistenceTree[T constraints.Integer] struct {
	tree []rangeNode[T]
	n    int

	queries atomic.Uint64
	visits  atomic.Uint64
	pruned  atomic.Uint64
}

// NewExistenceTree 由 values 构建一棵 ExistenceTree，复杂度 O(n)。
func NewExistenceTree[T constraints.Integer](values []T) *ExistenceTree[T] {
	t := &ExistenceTree[T]{
		tree: make([]rangeNode[T], nodeCount(len(values))),
		n:    len(values),
	}
	if t.n > 0 {
		t.build(root, 0, t.n-1, values)
	}
	return t
}

func (t *ExistenceTree[T]) build(node, start, end int, values []T) {
	if start == end {
		t.tree[node] = rangeNode[T]{min: values[start], max: values[start]}
		return
	}

	mid := split(start, end)
	lc, rc := children(node)
	t.build(lc, start, mid, values)
	t.build(rc, mid+1, end, values)
	t.tree[node] = mergeRange(t.tree[lc], t.tree[rc])
}

// Len 返回底层数组长度。
func (t *ExistenceTree[T]) Len() int {
	return t.n
}

// Bounds 返回整个数组的最小值与最大值；空树时 ok 为 false。
func (t *ExistenceTree[T]) Bounds() (lo, hi T, ok bool) {
	if t.n == 0 {
		return lo, hi, false
	}
	return t.tree[root].min, t.tree[root].max, true
}

// Stats 返回累计的查询计数。
func (t *ExistenceTree[T]) Stats() TreeStats {
	return TreeStats{
		Queries: t.queries.Load(),
		Visits:  t.visits.Load(),
		Pruned:  t.pruned.Load(),
	}
}

// ExistsInRange 判断 [left, right] 内是否存在 value[i] == k。
// 空树恒为 false；非空树上下标越界返回 xerrors.ErrIndexOutOfRange。
func (t *ExistenceTree[T]) ExistsInRange(left, right int, k T) (bool, error) {
	if t.n == 0 {
		return false, nil
	}
	if err := checkRange(left, right, t.n); err != nil {
		return false, err
	}

	var visits, pruned uint64
	found := t.exists(root, 0, t.n-1, left, right, k, &visits, &pruned)

	t.queries.Add(1)
	t.visits.Add(visits)
	t.pruned.Add(pruned)
	return found, nil
}

func (t *ExistenceTree[T]) exists(node, start, end, left, right int, k T, visits, pruned *uint64) bool {
	*visits++
	if disjoint(start, end, left, right) {
		return false
	}

	cur := t.tree[node]
	// k 不在 [min, max] 内，该子树不可能包含 k。
	if k < cur.min || k > cur.max {
		*pruned++
		return false
	}

	if start == end {
		return cur.min == k
	}

	// 先查左子树，命中即短路返回。
	mid := split(start, end)
	lc, rc := children(node)
	if t.exists(lc, start, mid, left, right, k, visits, pruned) {
		return true
	}
	return t.exists(rc, mid+1, end, left, right, k, visits, pruned)
}
