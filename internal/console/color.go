// Package console 处理终端相关的输出细节（ANSI 颜色）。
package console

import (
	"io"
	"os"

	"golang.org/x/term"
)

// Mode 控制是否输出 ANSI 颜色。
type Mode string

const (
	ModeAuto   Mode = "auto"
	ModeAlways Mode = "always"
	ModeNever  Mode = "never"
)

// ANSI 颜色序列。
const (
	Header    = "\033[95m"
	OKBlue    = "\033[94m"
	OKCyan    = "\033[96m"
	OKGreen   = "\033[92m"
	Warning   = "\033[93m"
	Fail      = "\033[91m"
	Reset     = "\033[0m"
	Bold      = "\033[1m"
	Underline = "\033[4m"
)

// Enabled 判断写入 writer 时是否应该着色。
// auto 模式下只有 writer 是连接到终端的 *os.File 才着色。
func Enabled(mode Mode, writer io.Writer) bool {
	switch mode {
	case ModeAlways:
		return true
	case ModeNever:
		return false
	}

	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	return term.IsTerminal(int(file.Fd()))
}

// Paint 在 enabled 时用颜色包裹 text。
func Paint(enabled bool, color string, text string) string {
	if !enabled || text == "" {
		return text
	}
	return color + text + Reset
}
