package algorithm

import (
	"github.com/wyfcoding/rangetree/xerrors"
)

// Segment 是闭区间 [L, R] 上的一条线段。
type Segment struct {
	L, R int
}

// Coverage 用差分数组与前缀和计算覆盖数组：cov[x] 为覆盖位置 x 的线段数。
// 每条线段必须满足 0 <= L <= R < length。
func Coverage(segments []Segment, length int) ([]int64, error) {
	if length < 0 {
		return nil, xerrors.ErrInvalidSegment.Derive("negative length %d", length)
	}

	diff := make([]int64, length+1)
	for i, seg := range segments {
		if seg.L < 0 || seg.L > seg.R || seg.R >= length {
			return nil, xerrors.ErrInvalidSegment.Derive("segment %d [%d, %d] with length %d", i, seg.L, seg.R, length)
		}
		diff[seg.L]++
		diff[seg.R+1]--
	}

	cov := make([]int64, length)
	var running int64
	for x := range length {
		running += diff[x]
		cov[x] = running
	}
	return cov, nil
}
