package algorithm

import (
	"errors"
	"slices"
	"testing"

	"github.com/wyfcoding/rangetree/xerrors"
)

func TestCoverage(t *testing.T) {
	tests := []struct {
		name     string
		segments []Segment
		length   int
		want     []int64
	}{
		{"two overlapping", []Segment{{1, 2}, {2, 4}}, 6, []int64{0, 1, 2, 1, 1, 0}},
		{"touching end", []Segment{{0, 5}, {5, 5}}, 6, []int64{1, 1, 1, 1, 1, 2}},
		{"no segments", nil, 3, []int64{0, 0, 0}},
		{"empty", nil, 0, []int64{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Coverage(tt.segments, tt.length)
			if err != nil {
				t.Fatal(err)
			}
			if !slices.Equal(got, tt.want) {
				t.Errorf("Coverage() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestCoverageInvalidSegment(t *testing.T) {
	for _, seg := range []Segment{{-1, 2}, {3, 2}, {0, 6}} {
		if _, err := Coverage([]Segment{seg}, 6); !errors.Is(err, xerrors.ErrInvalidSegment) {
			t.Errorf("Coverage(%v) err = %v", seg, err)
		}
	}
}

func TestCoverageFeedsExistenceTree(t *testing.T) {
	cov, err := Coverage([]Segment{{1, 2}, {2, 4}}, 6)
	if err != nil {
		t.Fatal(err)
	}
	tree := NewExistenceTree(cov)
	if ok, _ := tree.ExistsInRange(0, 5, 2); !ok {
		t.Errorf("coverage 2 not found")
	}
	if ok, _ := tree.ExistsInRange(0, 5, 3); ok {
		t.Errorf("coverage 3 reported present")
	}
}
