package languages

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"goloc/internal/model"
)

// ErrUnsupportedExtension 表示用户传入了不在后缀表中的文件类型。
var ErrUnsupportedExtension = errors.New("unsupported file type")

// Analyzer 定义单语言分析器接口。
type Analyzer interface {
	// Name 返回语言名称（例如 C、Python Notebook）。
	Name() string
	// Extensions 返回该语言支持的后缀列表（包含点号，如 .py）。
	Extensions() []string
	// Style 返回该语言的注释写法。
	Style() CommentStyle
	// Analyze 执行流式扫描并输出统计结果。
	Analyze(reader io.Reader) (model.LineMetrics, error)
}

// extensionSpecific 由需要按后缀区分行为的分析器实现。
type extensionSpecific interface {
	ForExtension(ext string) Analyzer
}

// LanguageDescriptor 用于对外展示语言、后缀及注释标记。
type LanguageDescriptor struct {
	Name       string
	Extensions []string
	Comments   []string
}

// Registry 管理语言分析器注册与后缀映射。
// extensions 保留注册顺序，报表按这个顺序输出。
type Registry struct {
	analyzers     []Analyzer
	analyzerByExt map[string]Analyzer
	extensions    []string
}

// NewRegistry 创建并注册所有内置语言分析器。
func NewRegistry() *Registry {
	analyzers := []Analyzer{
		NewTextAnalyzer("C", CStyle, ".c", ".h"),
		NewTextAnalyzer("Java", CStyle, ".java", ".class"),
		NewTextAnalyzer("Python", PythonStyle, ".py"),
		&NotebookAnalyzer{},
		NewTextAnalyzer("C#", CStyle, ".cs"),
		NewTextAnalyzer("JavaScript", CStyle, ".js"),
		NewTextAnalyzer("HTML", HTMLStyle, ".html"),
		NewTextAnalyzer("CSS", CSSStyle, ".css"),
	}

	registry := &Registry{
		analyzers:     analyzers,
		analyzerByExt: make(map[string]Analyzer),
	}

	for _, analyzer := range analyzers {
		for _, ext := range analyzer.Extensions() {
			ext = strings.ToLower(ext)
			registry.analyzerByExt[ext] = analyzer
			if specific, ok := analyzer.(extensionSpecific); ok {
				registry.analyzerByExt[ext] = specific.ForExtension(ext)
			}
			registry.extensions = append(registry.extensions, ext)
		}
	}

	return registry
}

// AnalyzerForFile 根据文件后缀查找分析器。
func (r *Registry) AnalyzerForFile(path string) (Analyzer, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	analyzer, ok := r.analyzerByExt[ext]
	return analyzer, ok
}

// Extensions 按注册顺序返回全部后缀。
func (r *Registry) Extensions() []string {
	return append([]string(nil), r.extensions...)
}

// LanguageForExtension 返回后缀对应的语言名，未知后缀返回空串。
func (r *Registry) LanguageForExtension(ext string) string {
	analyzer, ok := r.analyzerByExt[strings.ToLower(ext)]
	if !ok {
		return ""
	}
	return analyzer.Name()
}

// ValidateExtensions 规范化用户传入的文件类型并校验。
// 允许省略点号（py 等价于 .py），重复项只保留一次，顺序与注册顺序一致。
func (r *Registry) ValidateExtensions(requested []string) ([]string, error) {
	if len(requested) == 0 {
		return nil, nil
	}

	wanted := make(map[string]struct{}, len(requested))
	for _, raw := range requested {
		ext := strings.ToLower(strings.TrimSpace(raw))
		if ext == "" {
			continue
		}
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		if _, ok := r.analyzerByExt[ext]; !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnsupportedExtension, raw)
		}
		wanted[ext] = struct{}{}
	}

	result := make([]string, 0, len(wanted))
	for _, ext := range r.extensions {
		if _, ok := wanted[ext]; ok {
			result = append(result, ext)
		}
	}
	return result, nil
}

// Languages 返回已注册语言清单。
func (r *Registry) Languages() []LanguageDescriptor {
	result := make([]LanguageDescriptor, 0, len(r.analyzers))
	for _, analyzer := range r.analyzers {
		extensions := append([]string(nil), analyzer.Extensions()...)
		sort.Strings(extensions)
		result = append(result, LanguageDescriptor{
			Name:       analyzer.Name(),
			Extensions: extensions,
			Comments:   analyzer.Style().Markers(),
		})
	}

	sort.Slice(result, func(i int, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}
