// Package report 提供 goloc 的输出能力。
// 当前实现支持 table 控制台格式、JSON 与 YAML（含文件导出）。
package report

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"goloc/internal/config"
	"goloc/internal/console"
	"goloc/internal/model"
)

// TableOptions 控制表格输出细节。
type TableOptions struct {
	// Color 为 true 时表头、总计与错误区块使用 ANSI 颜色。
	Color bool
	// HideEmpty 隐藏没有命中文件的后缀行。
	HideEmpty bool
	// ShowFiles 额外输出文件级明细。
	ShowFiles bool
}

const (
	extensionHeader = "EXTENSION\tLANGUAGE\tFILES\tLINES\tCOMMENTS\tBLANKS\tMARKDOWN\tCHARS"
	fileHeader      = "FILE\tLANGUAGE\tLINES\tCOMMENTS\tBLANKS\tMARKDOWN\tCHARS"
	errorHeader     = "ERROR FILE\tMESSAGE"
	totalLabel      = "TOTAL"
)

// rowKind 标记表格中每一行的用途，决定着色方式。
type rowKind int

const (
	rowPlain rowKind = iota
	rowHeader
	rowTotal
	rowErrorHeader
	rowError
)

// tableWriter 包装 tabwriter，并按写入顺序记录每一行的 rowKind。
// tabwriter 输出的行与输入的换行一一对应，因此对齐后可以按行号着色。
type tableWriter struct {
	tw    *tabwriter.Writer
	kinds []rowKind
}

func (w *tableWriter) row(kind rowKind, format string, args ...any) error {
	text := fmt.Sprintf(format, args...)
	for range strings.Count(text, "\n") {
		w.kinds = append(w.kinds, kind)
	}
	_, err := io.WriteString(w.tw, text)
	return err
}

// PrintTable 使用表格展示扫描结果。
// tabwriter 按字节计算列宽，颜色在对齐完成后按整行追加，避免转义序列破坏对齐。
func PrintTable(writer io.Writer, result model.ScanResult, options TableOptions) error {
	var buffer bytes.Buffer
	table := &tableWriter{tw: tabwriter.NewWriter(&buffer, 0, 4, 2, ' ', 0)}

	if err := table.row(rowPlain, "SCANNED PATH\t%s\nMAX DEPTH\t%s\n\n", result.ScannedPath, depthLabel(result.MaxDepth)); err != nil {
		return err
	}

	if options.ShowFiles && len(result.Files) > 0 {
		if err := table.row(rowHeader, "%s\n", fileHeader); err != nil {
			return err
		}
		for _, item := range result.Files {
			if err := table.row(rowPlain, "%s\t%s\t%s\n", item.Path, item.Language, metricsColumns(item.Metrics)); err != nil {
				return err
			}
		}
		if err := table.row(rowPlain, "\n"); err != nil {
			return err
		}
	}

	if err := table.row(rowHeader, "%s\n", extensionHeader); err != nil {
		return err
	}
	for _, item := range result.Extensions {
		if options.HideEmpty && item.Empty() {
			continue
		}
		if err := table.row(
			rowPlain,
			"%s\t%s\t%s\t%s\n",
			item.Extension,
			item.Language,
			humanize.Comma(item.Files),
			metricsColumns(item.LineMetrics),
		); err != nil {
			return err
		}
	}

	if err := table.row(
		rowTotal,
		"%s\t\t%s\t%s\n",
		totalLabel,
		humanize.Comma(result.Total.Files),
		metricsColumns(result.Total.LineMetrics),
	); err != nil {
		return err
	}

	if len(result.Errors) > 0 {
		if err := table.row(rowPlain, "\n"); err != nil {
			return err
		}
		if err := table.row(rowErrorHeader, "%s\n", errorHeader); err != nil {
			return err
		}
		for _, item := range result.Errors {
			if err := table.row(rowError, "%s\t%s\n", item.Path, item.Error); err != nil {
				return err
			}
		}
	}

	if err := table.tw.Flush(); err != nil {
		return err
	}

	content := buffer.String()
	if options.Color {
		content = colorize(content, table.kinds)
	}
	_, err := io.WriteString(writer, content)
	return err
}

// metricsColumns 返回 LINES..CHARS 五列，以制表符分隔。
func metricsColumns(metrics model.LineMetrics) string {
	return strings.Join([]string{
		humanize.Comma(metrics.Lines),
		humanize.Comma(metrics.Comment),
		humanize.Comma(metrics.Blank),
		humanize.Comma(metrics.Markdown),
		humanize.Comma(metrics.Chars),
	}, "\t")
}

func depthLabel(depth int) string {
	if depth == 0 {
		return config.DepthAll
	}
	return strconv.Itoa(depth)
}

// colorize 按写入时记录的 rowKind 给已经对齐的表格着色。
func colorize(content string, kinds []rowKind) string {
	lines := strings.Split(content, "\n")

	for i := range lines {
		if i >= len(kinds) {
			break
		}
		switch kinds[i] {
		case rowHeader:
			lines[i] = console.Paint(true, console.Bold, lines[i])
		case rowTotal:
			lines[i] = console.Paint(true, console.OKGreen, lines[i])
		case rowErrorHeader:
			lines[i] = console.Paint(true, console.Fail+console.Bold, lines[i])
		case rowError:
			lines[i] = console.Paint(true, console.Warning, lines[i])
		}
	}
	return strings.Join(lines, "\n")
}

// PrintJSON 把扫描结果按易读 JSON 输出到任意 writer。
func PrintJSON(writer io.Writer, result model.ScanResult) error {
	content, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal json: %w", err)
	}

	if _, err := writer.Write(append(content, '\n')); err != nil {
		return fmt.Errorf("write json: %w", err)
	}
	return nil
}

// PrintYAML 把扫描结果输出为 YAML。
func PrintYAML(writer io.Writer, result model.ScanResult) error {
	encoder := yaml.NewEncoder(writer)
	encoder.SetIndent(2)

	if err := encoder.Encode(result); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	if err := encoder.Close(); err != nil {
		return fmt.Errorf("encode yaml: %w", err)
	}
	return nil
}

// Print 按格式输出到 writer。
func Print(writer io.Writer, format config.Format, result model.ScanResult, options TableOptions) error {
	switch format {
	case config.FormatTable:
		return PrintTable(writer, result, options)
	case config.FormatJSON:
		return PrintJSON(writer, result)
	case config.FormatYAML:
		return PrintYAML(writer, result)
	default:
		return fmt.Errorf("%w: %q", config.ErrInvalidFormat, format)
	}
}

// WriteFile 将结果导出到指定路径，格式为 json 或 yaml。
// 如果目录不存在会自动创建。
func WriteFile(path string, format config.Format, result model.ScanResult) error {
	var buffer bytes.Buffer

	switch format {
	case config.FormatJSON:
		if err := PrintJSON(&buffer, result); err != nil {
			return err
		}
	case config.FormatYAML:
		if err := PrintYAML(&buffer, result); err != nil {
			return err
		}
	default:
		return fmt.Errorf("export supports json or yaml, got %q", format)
	}

	directory := filepath.Dir(path)
	if directory != "." && directory != "" {
		if mkErr := os.MkdirAll(directory, 0o755); mkErr != nil {
			return fmt.Errorf("create output directory: %w", mkErr)
		}
	}

	if writeErr := os.WriteFile(path, buffer.Bytes(), 0o644); writeErr != nil {
		return fmt.Errorf("write output file: %w", writeErr)
	}
	return nil
}

// ExportFormat 根据导出文件后缀推断格式：.yaml/.yml 为 YAML，其余为 JSON。
func ExportFormat(path string) config.Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return config.FormatYAML
	default:
		return config.FormatJSON
	}
}
