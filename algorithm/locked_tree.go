package algorithm

import (
	"sync"

	"golang.org/x/exp/constraints"
)

// LockedBeatsTree 用互斥锁包装 BeatsTree，供多个 goroutine 共享。
// 这里不用读写锁：RangeMax 的下推同样会写子节点。
type LockedBeatsTree[T constraints.Integer] struct {
	mu   sync.Mutex
	tree *BeatsTree[T]
}

// NewLockedBeatsTree 构建一棵带锁的 BeatsTree。
func NewLockedBeatsTree[T constraints.Integer](values []T) *LockedBeatsTree[T] {
	return &LockedBeatsTree[T]{tree: NewBeatsTree(values)}
}

// Len 返回底层数组长度。
func (l *LockedBeatsTree[T]) Len() int {
	return l.tree.Len()
}

// RangeChmin 见 BeatsTree.RangeChmin。
func (l *LockedBeatsTree[T]) RangeChmin(left, right int, x T) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tree.RangeChmin(left, right, x)
}

// RangeMax 见 BeatsTree.RangeMax。
func (l *LockedBeatsTree[T]) RangeMax(left, right int) (T, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tree.RangeMax(left, right)
}

// Values 见 BeatsTree.Values。
func (l *LockedBeatsTree[T]) Values() []T {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tree.Values()
}

// Stats 见 BeatsTree.Stats。
func (l *LockedBeatsTree[T]) Stats() TreeStats {
	l.mu.Lock()
	defer l.mu.Unlock()

	return l.tree.Stats()
}
