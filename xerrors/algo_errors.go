package xerrors

var (
	// ErrIndexOutOfRange 区间下标越界或 l > r。
	ErrIndexOutOfRange = New(ErrOutOfRange, 416001, "index out of range", "", nil)
	// ErrEmptyTree 空树上没有可返回的最大值。
	ErrEmptyTree = New(ErrNotFound, 404001, "empty tree", "tree holds no elements", nil)
	// ErrInvalidSegment 覆盖区间端点非法。
	ErrInvalidSegment = New(ErrInvalidArg, 400101, "invalid segment", "segment must satisfy 0 <= l <= r < length", nil)
	// ErrUnknownOperation 未知的操作类型。
	ErrUnknownOperation = New(ErrInvalidArg, 400102, "unknown operation", "supported operations: 0 (chmin), 1 (max)", nil)
	// ErrMalformedInput 输入被截断或含有非整数。
	ErrMalformedInput = New(ErrInvalidArg, 400103, "malformed input", "input must be whitespace separated integers", nil)
	// ErrUnknownProblem 未知的题型。
	ErrUnknownProblem = New(ErrInvalidArg, 400104, "unknown problem", "supported problems: chmin, coverage", nil)
	// ErrDuplicateOutput 多个输入映射到同一个输出文件。
	ErrDuplicateOutput = New(ErrInvalidArg, 400105, "duplicate output name", "inputs must have distinct base names with --out-dir", nil)
)
