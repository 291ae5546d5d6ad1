package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sourcegraph/conc/pool"

	"github.com/wyfcoding/rangetree/config"
	"github.com/wyfcoding/rangetree/logging"
	"github.com/wyfcoding/rangetree/metrics"
	"github.com/wyfcoding/rangetree/solver"
	"github.com/wyfcoding/rangetree/xerrors"
)

const stdinName = "-"

type runner struct {
	cfg     config.SolverConfig
	metrics *metrics.Metrics
	stdin   io.Reader
	stdout  io.Writer
}

// caseResult 保存单个输入的输出，按参数顺序统一打印。
type caseResult struct {
	output []byte
	lines  int
	err    error
}

// run 并行求解所有输入。单个文件失败不影响其它文件，所有错误合并返回。
func (r *runner) run(ctx context.Context, inputs []string) error {
	if len(inputs) == 0 {
		inputs = []string{stdinName}
	}
	if r.cfg.OutDir != "" {
		if err := checkOutputNames(inputs); err != nil {
			return err
		}
		if err := os.MkdirAll(r.cfg.OutDir, 0o755); err != nil {
			return xerrors.Internal("create out dir", err)
		}
	}

	defer logging.LogDuration(ctx, "rangetree run", "inputs", len(inputs), "workers", r.cfg.Workers)()

	results := make([]caseResult, len(inputs))
	p := pool.New().WithMaxGoroutines(max(r.cfg.Workers, 1)).WithErrors().WithContext(ctx)
	for i, input := range inputs {
		p.Go(func(ctx context.Context) error {
			results[i] = r.solveOne(ctx, input)
			return results[i].err
		})
	}
	poolErr := p.Wait()

	if r.cfg.OutDir != "" {
		return poolErr
	}
	for _, res := range results {
		if res.err != nil || res.lines == 0 {
			continue
		}
		if _, err := fmt.Fprintf(r.stdout, "%s\n", res.output); err != nil {
			return xerrors.Internal("write output", err)
		}
	}
	return poolErr
}

func (r *runner) solveOne(ctx context.Context, input string) caseResult {
	start := time.Now()
	problem := solver.Problem(r.cfg.Problem)

	in, closeFn, err := r.open(input)
	if err != nil {
		r.metrics.ObserveCase(string(problem), "error", time.Since(start))
		return caseResult{err: err}
	}
	defer closeFn()

	var out bytes.Buffer
	report, err := solver.Solve(ctx, problem, in, &out)
	r.metrics.ObserveTree(report.Tree, report.Stats)
	if err != nil {
		r.metrics.ObserveCase(string(problem), "error", time.Since(start))
		logging.Warn(ctx, "solve failed", "input", input, "error", err)
		return caseResult{err: fmt.Errorf("%s: %w", input, err)}
	}
	r.metrics.ObserveCase(string(problem), "ok", time.Since(start))
	logging.Info(ctx, "case solved", "input", input, "tree", report.Tree, "lines", report.Lines,
		"visits", report.Stats.Visits, "duration", report.Duration)

	if r.cfg.OutDir != "" {
		path := filepath.Join(r.cfg.OutDir, outputName(input))
		data := out.Bytes()
		if report.Lines > 0 {
			data = append(data, '\n')
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return caseResult{err: xerrors.Internal("write "+path, err)}
		}
	}
	return caseResult{output: out.Bytes(), lines: report.Lines}
}

func (r *runner) open(input string) (io.Reader, func(), error) {
	if input == stdinName {
		return r.stdin, func() {}, nil
	}
	f, err := os.Open(input)
	if err != nil {
		return nil, nil, xerrors.Wrap(err, xerrors.ErrNotFound, "open input "+input)
	}
	return f, func() { _ = f.Close() }, nil
}

// checkOutputNames 拒绝映射到同一个输出文件的输入，例如 a/case.txt 与 b/case.txt。
func checkOutputNames(inputs []string) error {
	seen := make(map[string]string, len(inputs))
	for _, input := range inputs {
		name := outputName(input)
		if prev, ok := seen[name]; ok {
			return xerrors.ErrDuplicateOutput.Derive("%s and %s both write %s", prev, input, name)
		}
		seen[name] = input
	}
	return nil
}

// outputName 把 "dir/case1.txt" 映射为 "case1.out"，标准输入映射为 "stdin.out"。
func outputName(input string) string {
	if input == stdinName {
		return "stdin.out"
	}
	base := filepath.Base(input)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".out"
}
