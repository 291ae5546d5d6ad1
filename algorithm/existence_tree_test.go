package algorithm

import (
	"errors"
	"math"
	"math/rand/v2"
	"sync"
	"testing"

	"github.com/samber/lo"

	"github.com/wyfcoding/rangetree/xerrors"
)

func TestExistenceTreeCoverage(t *testing.T) {
	tree := NewExistenceTree([]int64{0, 1, 1, 2, 1, 0})

	cases := []struct {
		l, r int
		k    int64
		want bool
	}{
		{0, 5, 2, true},
		{0, 5, 3, false},
		{0, 2, 2, false},
		{3, 3, 2, true},
		{4, 5, 0, true},
		{1, 4, 0, false},
		{0, 5, -1, false},
	}
	for _, c := range cases {
		got, err := tree.ExistsInRange(c.l, c.r, c.k)
		if err != nil {
			t.Fatalf("ExistsInRange(%d, %d, %d): %v", c.l, c.r, c.k, err)
		}
		if got != c.want {
			t.Errorf("ExistsInRange(%d, %d, %d) = %v, want %v", c.l, c.r, c.k, got, c.want)
		}
	}
}

func TestExistenceTreeEmpty(t *testing.T) {
	tree := NewExistenceTree[int64](nil)
	for _, k := range []int64{0, 1, math.MinInt64} {
		got, err := tree.ExistsInRange(0, 10, k)
		if err != nil || got {
			t.Errorf("ExistsInRange on empty tree = %v, %v", got, err)
		}
	}
	if _, _, ok := tree.Bounds(); ok {
		t.Errorf("empty tree reported bounds")
	}
}

func TestExistenceTreeIndexOutOfRange(t *testing.T) {
	tree := NewExistenceTree([]int64{4, 5})
	if _, err := tree.ExistsInRange(1, 0, 4); !errors.Is(err, xerrors.ErrIndexOutOfRange) {
		t.Errorf("l > r err = %v", err)
	}
	if _, err := tree.ExistsInRange(0, 2, 4); !errors.Is(err, xerrors.ErrIndexOutOfRange) {
		t.Errorf("r >= n err = %v", err)
	}
}

func TestExistenceTreeRootSummary(t *testing.T) {
	r := rand.New(rand.NewPCG(3, 5))
	for range 100 {
		values := make([]int64, 1+r.IntN(50))
		for i := range values {
			values[i] = r.Int64N(1000) - 500
		}
		low, high, ok := NewExistenceTree(values).Bounds()
		if !ok || low != lo.Min(values) || high != lo.Max(values) {
			t.Fatalf("%v: Bounds() = (%d, %d, %v)", values, low, high, ok)
		}
	}
}

func TestExistenceTreeAgainstBruteForce(t *testing.T) {
	r := rand.New(rand.NewPCG(9, 9))
	for range 30 {
		n := 1 + r.IntN(40)
		values := make([]int64, n)
		for i := range values {
			values[i] = r.Int64N(6)
		}
		tree := NewExistenceTree(values)

		for l := range n {
			for rr := l; rr < n; rr++ {
				for k := int64(-1); k <= 6; k++ {
					got, err := tree.ExistsInRange(l, rr, k)
					if err != nil {
						t.Fatal(err)
					}
					if want := lo.Contains(values[l:rr+1], k); got != want {
						t.Fatalf("%v: ExistsInRange(%d, %d, %d) = %v, want %v", values, l, rr, k, got, want)
					}
				}
			}
		}
	}
}

func TestExistenceTreePrunes(t *testing.T) {
	values := make([]int64, 1024)
	for i := range values {
		values[i] = int64(i)
	}
	tree := NewExistenceTree(values)

	found, err := tree.ExistsInRange(0, len(values)-1, 700)
	if err != nil || !found {
		t.Fatalf("ExistsInRange(700) = %v, %v", found, err)
	}
	s := tree.Stats()
	if s.Queries != 1 || s.Pruned == 0 {
		t.Errorf("expected pruning on sorted input, got %+v", s)
	}
	// 有序数组上只会沿一条路径下降，每层最多多访问一个兄弟节点。
	if s.Visits > 2*11 {
		t.Errorf("visited %d nodes for a sorted lookup", s.Visits)
	}
}

func TestExistenceTreeConcurrentReaders(t *testing.T) {
	values := []int64{3, 1, 4, 1, 5, 9, 2, 6}
	tree := NewExistenceTree(values)

	var wg sync.WaitGroup
	for range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for k := int64(0); k < 10; k++ {
				got, err := tree.ExistsInRange(0, len(values)-1, k)
				if err != nil {
					t.Error(err)
					return
				}
				if got != lo.Contains(values, k) {
					t.Errorf("ExistsInRange(%d) = %v", k, got)
				}
			}
		}()
	}
	wg.Wait()

	if s := tree.Stats(); s.Queries != 80 {
		t.Errorf("Queries = %d, want 80", s.Queries)
	}
}
