// main.go 是 goloc 的程序入口。
// 该文件仅负责注入版本号并执行 Cobra 根命令。
package main

import (
	"fmt"
	"os"

	"goloc/cmd"
	"goloc/internal/console"
)

// version 默认值为 dev。
// 发布时可以通过 -ldflags "-X main.version=vX.Y.Z" 覆盖该值。
var version = "dev"

func main() {
	if err := cmd.Execute(version); err != nil {
		colored := console.Enabled(console.ModeAuto, os.Stderr)
		fmt.Fprintf(os.Stderr, "%s %v\n", console.Paint(colored, console.Fail, "goloc error:"), err)
		os.Exit(1)
	}
}
