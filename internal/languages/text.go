package languages

import (
	"bufio"
	"errors"
	"io"

	"goloc/internal/model"
)

// TextAnalyzer 是纯文本源码文件的分析器。
// 不同语言之间只有注释写法不同，统计流程完全一致。
type TextAnalyzer struct {
	name       string
	extensions []string
	style      CommentStyle
}

// NewTextAnalyzer 创建一个按给定注释写法统计的文本分析器。
func NewTextAnalyzer(name string, style CommentStyle, extensions ...string) *TextAnalyzer {
	return &TextAnalyzer{
		name:       name,
		extensions: extensions,
		style:      style,
	}
}

// Name 返回语言名称。
func (a *TextAnalyzer) Name() string {
	return a.name
}

// Extensions 返回该语言的后缀。
func (a *TextAnalyzer) Extensions() []string {
	return a.extensions
}

// Style 返回注释写法。
func (a *TextAnalyzer) Style() CommentStyle {
	return a.style
}

// Analyze 流式读取并逐行统计。
func (a *TextAnalyzer) Analyze(reader io.Reader) (model.LineMetrics, error) {
	return analyzeLines(reader, a.style)
}

// analyzeLines 逐行读取文本，块注释状态跨行保持。
func analyzeLines(reader io.Reader, style CommentStyle) (model.LineMetrics, error) {
	var metrics model.LineMetrics

	tracker := newCommentTracker(style)
	bufferedReader := bufio.NewReader(reader)

	for {
		line, err := bufferedReader.ReadString('\n')
		// 完整 EOF（无残余字符）直接结束。
		if errors.Is(err, io.EOF) && len(line) == 0 {
			break
		}
		if err != nil && !errors.Is(err, io.EOF) {
			return metrics, err
		}

		applyLineClassification(&metrics, line, tracker.isComment(line), countChars(line))

		// EOF 但仍有本行内容时，需要在本轮统计后再退出。
		if errors.Is(err, io.EOF) {
			break
		}
	}

	return metrics, nil
}
