// Package algorithm 提供静态区间聚合树（线段树）引擎及其两种特化：
// 区间取 min / 区间最大值的 Segment Tree Beats，以及基于 min/max 剪枝的区间存在性查询树。
package algorithm

import (
	"github.com/wyfcoding/rangetree/xerrors"
)

// root 是线段树根节点的下标。节点 i 的左右子节点分别是 2i 与 2i+1。
const root = 1

// nodeCount 返回长度为 n 的数组所需的节点存储大小。
// 通常线段树需要 4N 大小的存储空间，空数组也保留 4 个槽位。
func nodeCount(n int) int {
	return 4 * max(n, 1)
}

// children 返回节点 node 的左右子节点下标。
func children(node int) (int, int) {
	left := 2 * node
	return left, left + 1
}

// split 计算区间 [start, end] 的中点。
// 构建、更新与查询必须使用同一种切分方式，否则节点下标与区间会错位。
func split(start, end int) int {
	return (start + end) / 2
}

// disjoint 判断节点区间 [start, end] 与目标区间 [left, right] 是否完全不重叠。
func disjoint(start, end, left, right int) bool {
	return right < start || end < left
}

// covers 判断目标区间 [left, right] 是否完全包含节点区间 [start, end]。
func covers(start, end, left, right int) bool {
	return left <= start && end <= right
}

// checkRange 校验 0 <= left <= right < n。
func checkRange(left, right, n int) error {
	if left < 0 || right >= n || left > right {
		return xerrors.ErrIndexOutOfRange.Derive("[%d, %d] not within [0, %d)", left, right, n).
			WithContext("left", left).
			WithContext("right", right).
			WithContext("n", n)
	}
	return nil
}

// TreeStats 记录一棵树自创建以来的操作计数，用于指标导出。
type TreeStats struct {
	Updates   uint64 // 区间更新次数。
	Queries   uint64 // 区间查询次数。
	Visits    uint64 // 递归访问的节点数。
	Shortcuts uint64 // Beats 快速路径（second < x < max）命中次数。
	PushDowns uint64 // 下推时实际被钳制的子节点数。
	Pruned    uint64 // 因 min/max 摘要被剪掉的子树数。
}
