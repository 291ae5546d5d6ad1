// Command rangetree 批量求解区间题输入文件：每个文件一棵独立的树，由有界的 worker 池并行处理。
package main

import (
	"os"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
