package solver

import (
	"bufio"
	"io"
	"strconv"

	"github.com/wyfcoding/rangetree/xerrors"
)

// tokens 按空白切分输入并逐个解析为整数。
type tokens struct {
	sc    *bufio.Scanner
	count int
}

func newTokens(r io.Reader) *tokens {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(bufio.ScanWords)
	return &tokens{sc: sc}
}

// next 返回下一个整数；ok 为假表示输入已耗尽。
func (t *tokens) next() (v int64, ok bool, err error) {
	if !t.sc.Scan() {
		if err := t.sc.Err(); err != nil {
			return 0, false, xerrors.Wrap(err, xerrors.ErrInternal, "read input")
		}
		return 0, false, nil
	}
	t.count++
	v, err = strconv.ParseInt(t.sc.Text(), 10, 64)
	if err != nil {
		return 0, false, xerrors.ErrMalformedInput.Derive("token %d %q is not an integer", t.count, t.sc.Text())
	}
	return v, true, nil
}

// value 返回下一个整数，输入耗尽视为截断错误。
func (t *tokens) value() (int64, error) {
	v, ok, err := t.next()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, xerrors.ErrMalformedInput.Derive("unexpected end of input after %d tokens", t.count)
	}
	return v, nil
}

// nonNegative 读取一个非负的计数或坐标。
func (t *tokens) nonNegative(what string) (int, error) {
	v, err := t.value()
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, xerrors.ErrMalformedInput.Derive("%s must be non-negative, got %d", what, v)
	}
	return int(v), nil
}

// optional 读取开头的计数；输入已耗尽时返回 0 而不是错误。
func (t *tokens) optional(what string) (int, error) {
	v, ok, err := t.next()
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	if v < 0 {
		return 0, xerrors.ErrMalformedInput.Derive("%s must be non-negative, got %d", what, v)
	}
	return int(v), nil
}
