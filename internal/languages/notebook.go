package languages

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"goloc/internal/model"
)

// NotebookAnalyzer 统计 Jupyter / IPython notebook。
// code cell 计入行数、注释与空行；markdown cell 单独计数。
type NotebookAnalyzer struct {
	// ScriptFallback 为 true 时，非 JSON 内容按 IPython 脚本（Python 文本）统计。
	// .ipynb 始终是 JSON，不开启该选项。
	ScriptFallback bool
}

// Name 返回语言名称。
func (a *NotebookAnalyzer) Name() string {
	return "Python Notebook"
}

// Extensions 返回 notebook 后缀。
func (a *NotebookAnalyzer) Extensions() []string {
	return []string{".ipy", ".ipython", ".ipynb"}
}

// ForExtension 返回处理指定后缀的分析器，只有 .ipy / .ipython 允许按脚本统计。
func (a *NotebookAnalyzer) ForExtension(ext string) Analyzer {
	return &NotebookAnalyzer{ScriptFallback: strings.ToLower(ext) != ".ipynb"}
}

// Style 返回 code cell 使用的注释写法。
func (a *NotebookAnalyzer) Style() CommentStyle {
	return PythonStyle
}

// notebook 只解析统计需要的字段。
type notebook struct {
	Cells []notebookCell `json:"cells"`
}

type notebookCell struct {
	CellType string         `json:"cell_type"`
	Source   notebookSource `json:"source"`
}

// notebookSource 兼容 nbformat 的两种写法：字符串数组或单个字符串。
type notebookSource []string

// UnmarshalJSON 实现 json.Unmarshaler。
func (s *notebookSource) UnmarshalJSON(data []byte) error {
	var lines []string
	if err := json.Unmarshal(data, &lines); err == nil {
		*s = lines
		return nil
	}

	var text string
	if err := json.Unmarshal(data, &text); err != nil {
		return fmt.Errorf("cell source must be a string or a list of strings: %w", err)
	}
	*s = splitKeepNewline(text)
	return nil
}

// splitKeepNewline 按行切分且保留每行的换行符。
func splitKeepNewline(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// Analyze 解析 notebook JSON 并统计。
// 开启 ScriptFallback 时，首个非空白字符不是 { 的内容按 Python 文本处理。
func (a *NotebookAnalyzer) Analyze(reader io.Reader) (model.LineMetrics, error) {
	content, err := io.ReadAll(reader)
	if err != nil {
		return model.LineMetrics{}, err
	}

	trimmed := bytes.TrimSpace(content)
	if a.ScriptFallback && (len(trimmed) == 0 || trimmed[0] != '{') {
		return analyzeLines(bytes.NewReader(content), PythonStyle)
	}
	if len(trimmed) == 0 {
		return model.LineMetrics{}, errors.New("decode notebook: empty file")
	}

	var doc notebook
	if err := json.Unmarshal(content, &doc); err != nil {
		return model.LineMetrics{}, fmt.Errorf("decode notebook: %w", err)
	}

	var metrics model.LineMetrics
	for _, cell := range doc.Cells {
		switch cell.CellType {
		case "code":
			// 每个 cell 独立追踪块注释，未闭合的 docstring 不会串到下一个 cell。
			tracker := newCommentTracker(PythonStyle)
			for _, line := range cell.Source {
				applyLineClassification(&metrics, line, tracker.isComment(line), rawChars(line))
			}
		case "markdown":
			for _, line := range cell.Source {
				metrics.Markdown++
				metrics.Chars += rawChars(line)
			}
		}
	}

	return metrics, nil
}

// rawChars 统计 JSON 字符串的全部字符，\r\n 按 2 个字符计，与源文件中的内容保持一致。
func rawChars(line string) int64 {
	return int64(utf8.RuneCountInString(line))
}
