// Package solver 在文本输入上运行两类区间题：区间取 min / 区间最大值，以及线段覆盖数的存在性查询。
// 输入为空白分隔的整数，输出每行一个结果，行间以 "\n" 分隔，末尾不带换行。
package solver

import (
	"context"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"

	"github.com/wyfcoding/rangetree/algorithm"
	"github.com/wyfcoding/rangetree/logging"
	"github.com/wyfcoding/rangetree/xerrors"
)

// Problem 标识输入格式。
type Problem string

const (
	// ProblemChmin 输入 "n q"、n 个初值、q 个操作：
	// "0 i j T" 对 1-based 闭区间 [i, j] 取 min，"1 i j" 输出区间最大值。
	ProblemChmin Problem = "chmin"
	// ProblemCoverage 输入 "n m"、n 条线段 "l r"、m 个查询 "l r k"：
	// 若 [l, r] 内某个位置恰好被 k 条线段覆盖输出 1，否则输出 0。
	ProblemCoverage Problem = "coverage"
)

const (
	opChmin = 0
	opMax   = 1
)

// MaxCoordinate 是 coverage 输入中线段与查询右端点的上限，覆盖数组按最大坐标分配。
const MaxCoordinate = 1 << 24

// Report 汇总一次求解的结果。
type Report struct {
	Problem  Problem
	Tree     string // 使用的树："beats" 或 "existence"。
	Lines    int    // 输出行数。
	Stats    algorithm.TreeStats
	Duration time.Duration
}

// Solve 从 r 读取一个用例并把答案写入 w。
// ctx 用于日志关联与取消：每处理一个操作检查一次 ctx.Err()。
func Solve(ctx context.Context, problem Problem, r io.Reader, w io.Writer) (Report, error) {
	start := time.Now()

	var (
		lines  []string
		report Report
		err    error
	)
	switch problem {
	case ProblemChmin:
		lines, report, err = solveChmin(ctx, newTokens(r))
	case ProblemCoverage:
		lines, report, err = solveCoverage(ctx, newTokens(r))
	default:
		return Report{Problem: problem}, xerrors.ErrUnknownProblem.Derive("problem %q", problem)
	}
	report.Problem = problem
	report.Duration = time.Since(start)
	if err != nil {
		return report, err
	}

	if _, werr := io.WriteString(w, strings.Join(lines, "\n")); werr != nil {
		return report, xerrors.Wrap(werr, xerrors.ErrInternal, "write output")
	}
	report.Lines = len(lines)

	logging.Debug(ctx, "case solved",
		"problem", string(problem),
		"lines", report.Lines,
		"visits", report.Stats.Visits,
		"duration", report.Duration)
	return report, nil
}

func solveChmin(ctx context.Context, in *tokens) ([]string, Report, error) {
	report := Report{Tree: "beats"}

	n, err := in.optional("n")
	if err != nil {
		return nil, report, err
	}
	q, err := in.optional("q")
	if err != nil {
		return nil, report, err
	}

	// 计数来自输入头，不可信：按实际读到的值增长切片。
	var values []int64
	for range n {
		v, err := in.value()
		if err != nil {
			return nil, report, err
		}
		values = append(values, v)
	}

	tree := algorithm.NewBeatsTree(values)
	var out []string
	for op := range q {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}

		kind, err := in.value()
		if err != nil {
			return nil, report, err
		}
		i, err := in.value()
		if err != nil {
			return nil, report, err
		}
		j, err := in.value()
		if err != nil {
			return nil, report, err
		}
		left, right := int(i-1), int(j-1)

		switch kind {
		case opChmin:
			x, err := in.value()
			if err != nil {
				return nil, report, err
			}
			if err := tree.RangeChmin(left, right, x); err != nil {
				return nil, report, xerrors.Wrap(err, xerrors.ErrOutOfRange, "operation "+strconv.Itoa(op+1))
			}
		case opMax:
			v, err := tree.RangeMax(left, right)
			if err != nil {
				return nil, report, xerrors.Wrap(err, xerrors.ErrOutOfRange, "operation "+strconv.Itoa(op+1))
			}
			out = append(out, strconv.FormatInt(v, 10))
		default:
			return nil, report, xerrors.ErrUnknownOperation.Derive("operation %d has type %d", op+1, kind)
		}
	}

	report.Stats = tree.Stats()
	return out, report, nil
}

type coverageQuery struct {
	left, right int
	k           int64
}

func solveCoverage(ctx context.Context, in *tokens) ([]string, Report, error) {
	report := Report{Tree: "existence"}

	n, err := in.optional("n")
	if err != nil {
		return nil, report, err
	}
	m, err := in.optional("m")
	if err != nil {
		return nil, report, err
	}

	maxCoord := 0
	var segments []algorithm.Segment
	for range n {
		l, err := in.nonNegative("segment left")
		if err != nil {
			return nil, report, err
		}
		r, err := in.nonNegative("segment right")
		if err != nil {
			return nil, report, err
		}
		if r > MaxCoordinate {
			return nil, report, xerrors.ErrMalformedInput.Derive("segment right %d exceeds %d", r, MaxCoordinate)
		}
		segments = append(segments, algorithm.Segment{L: l, R: r})
		maxCoord = max(maxCoord, r)
	}

	var queries []coverageQuery
	for range m {
		l, err := in.nonNegative("query left")
		if err != nil {
			return nil, report, err
		}
		r, err := in.nonNegative("query right")
		if err != nil {
			return nil, report, err
		}
		k, err := in.value()
		if err != nil {
			return nil, report, err
		}
		if r > MaxCoordinate {
			return nil, report, xerrors.ErrMalformedInput.Derive("query right %d exceeds %d", r, MaxCoordinate)
		}
		queries = append(queries, coverageQuery{left: l, right: r, k: k})
		// 查询可能越过最后一条线段的右端点。
		maxCoord = max(maxCoord, r)
	}

	if maxCoord == 0 && n == 0 && m == 0 {
		return nil, report, nil
	}

	coverage, err := algorithm.Coverage(segments, maxCoord+1)
	if err != nil {
		return nil, report, err
	}
	tree := algorithm.NewExistenceTree(coverage)

	out := make([]string, 0, len(queries))
	for i, q := range queries {
		if err := ctx.Err(); err != nil {
			return nil, report, err
		}
		found, err := tree.ExistsInRange(q.left, q.right, q.k)
		if err != nil {
			return nil, report, xerrors.Wrap(err, xerrors.ErrOutOfRange, "query "+strconv.Itoa(i+1))
		}
		out = append(out, lo.Ternary(found, "1", "0"))
	}

	report.Stats = tree.Stats()
	return out, report, nil
}
