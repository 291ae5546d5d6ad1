package algorithm

import (
	"golang.org/x/exp/constraints"

	"github.com/wyfcoding/rangetree/xerrors"
)

// beatsNode 是 BeatsTree 的节点摘要。
// second 只在 hasSecond 为真时有意义，表示区间内严格小于 max 的最大值；
// 区间内所有值都等于 max 时 hasSecond 为假（相当于负无穷）。
// present 为假表示超出数组范围的填充节点。
type beatsNode[T constraints.Integer] struct {
	max       T
	second    T
	hasSecond bool
	present   bool
}

func beatsLeaf[T constraints.Integer](v T) beatsNode[T] {
	return beatsNode[T]{max: v, present: true}
}

// mergeBeats 合并左右子节点摘要。纯函数，不修改子节点。
func mergeBeats[T constraints.Integer](a, b beatsNode[T]) beatsNode[T] {
	if !a.present {
		return b
	}
	if !b.present {
		return a
	}

	switch {
	case a.max == b.max:
		out := beatsNode[T]{max: a.max, present: true}
		out.second, out.hasSecond = maxOptional(a.second, a.hasSecond, b.second, b.hasSecond)
		return out
	case a.max > b.max:
		out := beatsNode[T]{max: a.max, present: true}
		out.second, out.hasSecond = maxOptional(a.second, a.hasSecond, b.max, true)
		return out
	default:
		out := beatsNode[T]{max: b.max, present: true}
		out.second, out.hasSecond = maxOptional(b.second, b.hasSecond, a.max, true)
		return out
	}
}

// maxOptional 返回两个可缺省值中的较大者，缺省视为负无穷。
func maxOptional[T constraints.Integer](x T, okX bool, y T, okY bool) (T, bool) {
	switch {
	case okX && okY:
		return max(x, y), true
	case okX:
		return x, true
	case okY:
		return y, true
	default:
		var zero T
		return zero, false
	}
}

// absorbs 判断 chmin(x) 能否在该节点 O(1) 完成：second < x < max。
// 条件放宽到 x <= max 会破坏 second 的含义，收紧到 x < second 会失去均摊复杂度。
func (n beatsNode[T]) absorbs(x T) bool {
	return (!n.hasSecond || n.second < x) && x < n.max
}

// BeatsTree (吉司机线段树 / Segment Tree Beats) 支持区间取 min（A[k] = min(A[k], x)）与区间最大值查询。
// 节点只保存最大值与严格次大值，不需要额外的懒标记：父节点的 max 本身就是待下推的约束。
// q 次更新与查询的总代价均摊为 O((n + q) log² n)。
//
// BeatsTree 不是并发安全的，RangeMax 在下推时也会修改子节点；
// 多个 goroutine 共享时使用 LockedBeatsTree。
type BeatsTree[T constraints.Integer] struct {
	tree  []beatsNode[T]
	n     int
	stats TreeStats
}

// NewBeatsTree 由 values 自底向上构建一棵 BeatsTree，复杂度 O(n)。
// 构建后数组长度固定，values 不会被保留引用。
func NewBeatsTree[T constraints.Integer](values []T) *BeatsTree[T] {
	t := &BeatsTree[T]{
		tree: make([]beatsNode[T], nodeCount(len(values))),
		n:    len(values),
	}
	if t.n > 0 {
		t.build(root, 0, t.n-1, values)
	}
	return t
}

func (t *BeatsTree[T]) build(node, start, end int, values []T) {
	if start == end {
		t.tree[node] = beatsLeaf(values[start])
		return
	}

	mid := split(start, end)
	lc, rc := children(node)
	t.build(lc, start, mid, values)
	t.build(rc, mid+1, end, values)
	t.tree[node] = mergeBeats(t.tree[lc], t.tree[rc])
}

// Len 返回底层数组长度。
func (t *BeatsTree[T]) Len() int {
	return t.n
}

// Stats 返回累计的操作计数。
func (t *BeatsTree[T]) Stats() TreeStats {
	return t.stats
}

// RangeChmin 对 [left, right] 内每个下标 k 执行 A[k] = min(A[k], x)。
// 空树上是空操作；下标越界返回 xerrors.ErrIndexOutOfRange。
func (t *BeatsTree[T]) RangeChmin(left, right int, x T) error {
	if t.n == 0 {
		return nil
	}
	if err := checkRange(left, right, t.n); err != nil {
		return err
	}

	t.stats.Updates++
	t.chmin(root, 0, t.n-1, left, right, x)
	return nil
}

func (t *BeatsTree[T]) chmin(node, start, end, left, right int, x T) {
	t.stats.Visits++
	cur := t.tree[node]

	// 情况1: 不相交，或该子树的最大值已经不超过 x。
	if disjoint(start, end, left, right) || cur.max <= x {
		return
	}

	// 情况2: 完全覆盖且 second < x < max，只有等于 max 的元素会变成 x。
	if covers(start, end, left, right) && cur.absorbs(x) {
		t.stats.Shortcuts++
		t.clamp(node, x)
		return
	}

	// 情况3: 叶子直接钳制。
	if start == end {
		t.clamp(node, x)
		return
	}

	// 情况4: 先下推父节点的 max 约束，再递归两侧并重新合并。
	t.pushDown(node)
	mid := split(start, end)
	lc, rc := children(node)
	t.chmin(lc, start, mid, left, right, x)
	t.chmin(rc, mid+1, end, left, right, x)
	t.tree[node] = mergeBeats(t.tree[lc], t.tree[rc])
}

// clamp 将节点的 max 降到 limit，limit 不小于 max 时不做任何事。
// 调用方保证 limit 大于节点的 second，因此 second 保持不变。
func (t *BeatsTree[T]) clamp(node int, limit T) {
	if limit >= t.tree[node].max {
		return
	}
	t.tree[node].max = limit
}

// pushDown 把父节点已被降低的 max 传递给最大值过期的子节点。
// 子节点的最大值永远不能超过父节点。
func (t *BeatsTree[T]) pushDown(node int) {
	limit := t.tree[node].max
	lc, rc := children(node)
	if t.tree[lc].max > limit {
		t.stats.PushDowns++
		t.clamp(lc, limit)
	}
	if t.tree[rc].max > limit {
		t.stats.PushDowns++
		t.clamp(rc, limit)
	}
}

// RangeMax 返回 [left, right] 内的最大值。
// 空树返回 xerrors.ErrEmptyTree，下标越界返回 xerrors.ErrIndexOutOfRange。
func (t *BeatsTree[T]) RangeMax(left, right int) (T, error) {
	var zero T
	if t.n == 0 {
		return zero, xerrors.ErrEmptyTree.Derive("range max [%d, %d] on empty tree", left, right)
	}
	if err := checkRange(left, right, t.n); err != nil {
		return zero, err
	}

	t.stats.Queries++
	res := t.queryMax(root, 0, t.n-1, left, right)
	return res.max, nil
}

// queryMax 返回区间最大值；不相交时返回缺省摘要（负无穷）。
func (t *BeatsTree[T]) queryMax(node, start, end, left, right int) beatsNode[T] {
	t.stats.Visits++
	if disjoint(start, end, left, right) {
		return beatsNode[T]{}
	}
	if covers(start, end, left, right) {
		return beatsNode[T]{max: t.tree[node].max, present: true}
	}

	// 部分重叠时必须先修正过期的子节点最大值。
	t.pushDown(node)
	mid := split(start, end)
	lc, rc := children(node)
	l := t.queryMax(lc, start, mid, left, right)
	r := t.queryMax(rc, mid+1, end, left, right)
	switch {
	case !l.present:
		return r
	case !r.present:
		return l
	default:
		return beatsNode[T]{max: max(l.max, r.max), present: true}
	}
}

// Values 下推所有约束并返回当前数组的副本。复杂度 O(n)。
func (t *BeatsTree[T]) Values() []T {
	out := make([]T, t.n)
	if t.n > 0 {
		t.collect(root, 0, t.n-1, out)
	}
	return out
}

func (t *BeatsTree[T]) collect(node, start, end int, out []T) {
	if start == end {
		out[start] = t.tree[node].max
		return
	}
	t.pushDown(node)
	mid := split(start, end)
	lc, rc := children(node)
	t.collect(lc, start, mid, out)
	t.collect(rc, mid+1, end, out)
}
