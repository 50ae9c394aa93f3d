// Package model 定义 goloc 的核心数据模型。
// 这些结构会被扫描器、输出层和命令层共同使用。
package model

// LineMetrics 表示单个文件（或一组文件）的行级统计值。
//
// 注意：
// - Lines 对 notebook 而言只统计 code cell 的行
// - Comment 与 Blank 相互独立：块注释里的空行会同时计入两者
// - Markdown 仅 notebook 会产生
// - Chars 按字符（rune）统计，包含换行符
type LineMetrics struct {
	Lines    int64 `json:"line_count" yaml:"line_count"`
	Comment  int64 `json:"comment_count" yaml:"comment_count"`
	Blank    int64 `json:"blank_line_count" yaml:"blank_line_count"`
	Markdown int64 `json:"markdown_line_count" yaml:"markdown_line_count"`
	Chars    int64 `json:"char_count" yaml:"char_count"`
}

// Add 将另一个统计结果叠加到当前对象。
func (m *LineMetrics) Add(other LineMetrics) {
	m.Lines += other.Lines
	m.Comment += other.Comment
	m.Blank += other.Blank
	m.Markdown += other.Markdown
	m.Chars += other.Chars
}

// FileMetrics 表示单文件扫描结果。
type FileMetrics struct {
	Path      string      `json:"path" yaml:"path"`
	Extension string      `json:"file_extension" yaml:"file_extension"`
	Language  string      `json:"language" yaml:"language"`
	Metrics   LineMetrics `json:"metrics" yaml:"metrics"`
}

// ExtensionMetrics 是按文件后缀聚合的统计记录，对应报表中的一行。
// 所有计数只会在扫描过程中单调递增。
type ExtensionMetrics struct {
	Extension   string `json:"file_extension" yaml:"file_extension"`
	Language    string `json:"language" yaml:"language"`
	Files       int64  `json:"file_count" yaml:"file_count"`
	LineMetrics `yaml:",inline"`
}

// AddFileMetrics 把一个文件的统计值计入该后缀。
func (m *ExtensionMetrics) AddFileMetrics(other LineMetrics) {
	m.Files++
	m.LineMetrics.Add(other)
}

// Empty 表示该后缀本次扫描没有命中任何文件。
func (m ExtensionMetrics) Empty() bool {
	return m.Files == 0
}

// ScanError 记录单文件扫描失败信息。
// 设计为“错误不阻断全量扫描”，便于大仓库分析时容错。
type ScanError struct {
	Path  string `json:"path" yaml:"path"`
	Error string `json:"error" yaml:"error"`
}

// TotalMetrics 表示项目级总计信息。
type TotalMetrics struct {
	Files       int64 `json:"file_count" yaml:"file_count"`
	LineMetrics `yaml:",inline"`
}

// AddFileMetrics 累加一个文件的统计值到项目总计中。
func (m *TotalMetrics) AddFileMetrics(other LineMetrics) {
	m.Files++
	m.LineMetrics.Add(other)
}

// ScanResult 是 scan 命令的完整输出模型。
type ScanResult struct {
	ScannedPath string             `json:"scanned_path" yaml:"scanned_path"`
	MaxDepth    int                `json:"max_depth" yaml:"max_depth"`
	Filter      []string           `json:"file_types,omitempty" yaml:"file_types,omitempty"`
	Extensions  []ExtensionMetrics `json:"extensions" yaml:"extensions"`
	Files       []FileMetrics      `json:"files" yaml:"files"`
	Total       TotalMetrics       `json:"total" yaml:"total"`
	Errors      []ScanError        `json:"errors" yaml:"errors"`
}
