package languages

import (
	"strings"
	"unicode/utf8"

	"goloc/internal/model"
)

// normalizeLine 用于去除每行末尾的换行符。
// 该函数适配 Windows 的 \r\n 与 Unix 的 \n。
func normalizeLine(line string) string {
	line = strings.TrimSuffix(line, "\n")
	line = strings.TrimSuffix(line, "\r")
	return line
}

// countChars 返回一行的字符数，换行符（\n 或 \r\n）按 1 个字符计。
func countChars(raw string) int64 {
	content := normalizeLine(raw)
	count := int64(utf8.RuneCountInString(content))
	if len(content) < len(raw) {
		count++
	}
	return count
}

// applyLineClassification 根据注释判定结果更新统计值。
//
// 约束说明：
// - 每次调用都默认是“处理完一整行”，因此 Lines 固定 +1
// - 空白行判定与注释判定相互独立
// - 字符数由调用方按来源计算后传入
func applyLineClassification(metrics *model.LineMetrics, raw string, isComment bool, chars int64) {
	metrics.Lines++
	metrics.Chars += chars

	if strings.TrimSpace(raw) == "" {
		metrics.Blank++
	}
	if isComment {
		metrics.Comment++
	}
}
