package languages

import "strings"

// BlockDelimiter 描述一对块注释起止符。
type BlockDelimiter struct {
	Open  string
	Close string
}

// CommentStyle 描述一种语言的注释写法。
// 判定只看去除首尾空白后的行首，不做任何词法分析。
type CommentStyle struct {
	LinePrefixes []string
	Blocks       []BlockDelimiter
}

var (
	// PythonStyle 覆盖 # 行注释以及三引号文档字符串。
	PythonStyle = CommentStyle{
		LinePrefixes: []string{"#"},
		Blocks: []BlockDelimiter{
			{Open: `"""`, Close: `"""`},
			{Open: "'''", Close: "'''"},
		},
	}

	// CStyle 用于 C / Java / C# / JavaScript。
	CStyle = CommentStyle{
		LinePrefixes: []string{"//"},
		Blocks:       []BlockDelimiter{{Open: "/*", Close: "*/"}},
	}

	// CSSStyle 只有块注释。
	CSSStyle = CommentStyle{
		Blocks: []BlockDelimiter{{Open: "/*", Close: "*/"}},
	}

	// HTMLStyle 只有 <!-- --> 块注释。
	HTMLStyle = CommentStyle{
		Blocks: []BlockDelimiter{{Open: "<!--", Close: "-->"}},
	}
)

// Markers 返回便于展示的注释标记，例如 "//" 与 "/* */"。
func (s CommentStyle) Markers() []string {
	markers := append([]string(nil), s.LinePrefixes...)
	for _, block := range s.Blocks {
		markers = append(markers, block.Open+" "+block.Close)
	}
	return markers
}

// commentTracker 按行追踪块注释状态。
// 一个 tracker 只服务于一个文件（或 notebook 的一个 cell）。
type commentTracker struct {
	style   CommentStyle
	inBlock bool
	closer  string
}

func newCommentTracker(style CommentStyle) *commentTracker {
	return &commentTracker{style: style}
}

// isComment 判定当前行是否为注释行，并推进块注释状态。
func (c *commentTracker) isComment(line string) bool {
	text := strings.TrimSpace(line)

	// 块注释内部的任何内容（包括空行）都算注释，遇到结束符即退出。
	if c.inBlock {
		if strings.Contains(text, c.closer) {
			c.inBlock = false
			c.closer = ""
		}
		return true
	}

	for _, prefix := range c.style.LinePrefixes {
		if strings.HasPrefix(text, prefix) {
			return true
		}
	}

	for _, block := range c.style.Blocks {
		if !strings.HasPrefix(text, block.Open) {
			continue
		}
		// 同一行内闭合的块注释（例如单行 docstring）不进入块状态。
		if !strings.Contains(text[len(block.Open):], block.Close) {
			c.inBlock = true
			c.closer = block.Close
		}
		return true
	}

	return false
}
