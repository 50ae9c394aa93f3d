// Package scanner 提供限深目录遍历与按后缀聚合的能力。
// 该层负责目录遍历、任务分发、并发执行和结果聚合，不负责行分类细节。
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"

	"golang.org/x/sync/errgroup"

	"goloc/internal/languages"
	"goloc/internal/model"
)

// ErrInvalidDirectory 表示扫描目标不存在或不是目录。
var ErrInvalidDirectory = errors.New("invalid directory")

// Options 描述一次扫描的范围。
type Options struct {
	// MaxDepth 为 0 表示不限深度；根目录深度为 0，其直接子目录深度为 1。
	MaxDepth int
	// Extensions 非空时只统计这些后缀，报表也只包含这些行。
	Extensions []string
}

// Service 是扫描服务对象。
type Service struct {
	registry *languages.Registry
	workers  int
}

// scanTask 表示一个待分析文件任务。
type scanTask struct {
	absolutePath string
	displayPath  string
	extension    string
	analyzer     languages.Analyzer
}

// aggregator 在 worker 之间共享，所有写入都需持有锁。
type aggregator struct {
	mu     sync.Mutex
	rows   map[string]*model.ExtensionMetrics
	files  []model.FileMetrics
	errors []model.ScanError
}

// NewService 创建扫描服务。
func NewService(registry *languages.Registry, workers int) *Service {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Service{
		registry: registry,
		workers:  workers,
	}
}

// ScanPath 按 Options 扫描目录并返回按后缀聚合的结果。
// 单个文件或子目录读取失败只会记录到 Errors，不会中断扫描。
func (s *Service) ScanPath(ctx context.Context, targetPath string, options Options) (model.ScanResult, error) {
	var result model.ScanResult

	if options.MaxDepth < 0 {
		return result, fmt.Errorf("max depth must not be negative, got %d", options.MaxDepth)
	}

	trimmedPath := strings.TrimSpace(targetPath)
	if trimmedPath == "" {
		return result, fmt.Errorf("%w: scan path is empty", ErrInvalidDirectory)
	}

	absoluteTarget, err := filepath.Abs(trimmedPath)
	if err != nil {
		return result, fmt.Errorf("resolve absolute path: %w", err)
	}

	info, err := os.Stat(absoluteTarget)
	if err != nil {
		return result, fmt.Errorf("%w: %s: %w", ErrInvalidDirectory, trimmedPath, err)
	}
	if !info.IsDir() {
		return result, fmt.Errorf("%w: %s is not a directory", ErrInvalidDirectory, trimmedPath)
	}

	extensions, err := s.registry.ValidateExtensions(options.Extensions)
	if err != nil {
		return result, err
	}

	result.ScannedPath = absoluteTarget
	result.MaxDepth = options.MaxDepth
	result.Filter = extensions

	if len(extensions) == 0 {
		extensions = s.registry.Extensions()
	}

	agg := &aggregator{rows: make(map[string]*model.ExtensionMetrics, len(extensions))}
	for _, ext := range extensions {
		agg.rows[ext] = &model.ExtensionMetrics{
			Extension: ext,
			Language:  s.registry.LanguageForExtension(ext),
		}
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.SetLimit(s.workers)

	walkErr := s.walk(groupCtx, absoluteTarget, options.MaxDepth, agg, func(task scanTask) {
		group.Go(func() error {
			s.analyze(task, agg)
			return nil
		})
	})

	// 即使遍历失败也要等待已派发的任务结束，避免 goroutine 泄漏。
	if err := group.Wait(); err != nil && walkErr == nil {
		walkErr = err
	}
	if walkErr != nil {
		return result, walkErr
	}

	s.buildSummaries(&result, extensions, agg)
	return result, nil
}

// walk 遍历目录，把可识别后缀的文件交给 dispatch。
func (s *Service) walk(ctx context.Context, root string, maxDepth int, agg *aggregator, dispatch func(scanTask)) error {
	return filepath.WalkDir(root, func(path string, entry fs.DirEntry, walkErr error) error {
		if err := ctx.Err(); err != nil {
			return err
		}

		relativePath, relErr := filepath.Rel(root, path)
		if relErr != nil {
			relativePath = path
		}
		displayPath := filepath.ToSlash(relativePath)

		if walkErr != nil {
			// 根目录本身不可读时直接失败，子目录失败则记录后跳过。
			if path == root {
				return fmt.Errorf("%w: %s: %w", ErrInvalidDirectory, root, walkErr)
			}
			slog.Warn("skip unreadable path", "path", displayPath, "error", walkErr)
			agg.addError(displayPath, walkErr)
			if entry != nil && entry.IsDir() {
				return filepath.SkipDir
			}
			return nil
		}

		if entry.IsDir() {
			if maxDepth > 0 && depthOf(relativePath) > maxDepth {
				slog.Debug("skip directory beyond max depth", "path", displayPath, "maxDepth", maxDepth)
				return filepath.SkipDir
			}
			return nil
		}

		if !isRegularFile(path, entry) {
			return nil
		}

		analyzer, ok := s.registry.AnalyzerForFile(path)
		if !ok {
			return nil
		}

		extension := strings.ToLower(filepath.Ext(path))
		if _, wanted := agg.rows[extension]; !wanted {
			return nil
		}

		dispatch(scanTask{
			absolutePath: path,
			displayPath:  displayPath,
			extension:    extension,
			analyzer:     analyzer,
		})
		return nil
	})
}

// isRegularFile 判断是否为普通文件；指向普通文件的符号链接也算，但不会跟随目录链接。
func isRegularFile(path string, entry fs.DirEntry) bool {
	if entry.Type().IsRegular() {
		return true
	}
	if entry.Type()&fs.ModeSymlink == 0 {
		return false
	}
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// depthOf 返回相对路径的目录层级，根目录（"."）为 0。
func depthOf(relativePath string) int {
	if relativePath == "." || relativePath == "" {
		return 0
	}
	return strings.Count(relativePath, string(filepath.Separator)) + 1
}

// analyze 执行真实的文件读取和行分类。
func (s *Service) analyze(task scanTask, agg *aggregator) {
	file, openErr := os.Open(task.absolutePath)
	if openErr != nil {
		slog.Warn("open file failed", "path", task.displayPath, "error", openErr)
		agg.addError(task.displayPath, openErr)
		return
	}

	metrics, analyzeErr := task.analyzer.Analyze(file)
	closeErr := file.Close()

	if analyzeErr != nil {
		slog.Warn("analyze file failed", "path", task.displayPath, "error", analyzeErr)
		agg.addError(task.displayPath, analyzeErr)
		return
	}
	if closeErr != nil {
		agg.addError(task.displayPath, closeErr)
		return
	}

	slog.Debug("file analyzed", "path", task.displayPath, "language", task.analyzer.Name(), "lines", metrics.Lines)
	agg.addFile(model.FileMetrics{
		Path:      task.displayPath,
		Extension: task.extension,
		Language:  task.analyzer.Name(),
		Metrics:   metrics,
	})
}

func (a *aggregator) addFile(file model.FileMetrics) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.rows[file.Extension].AddFileMetrics(file.Metrics)
	a.files = append(a.files, file)
}

func (a *aggregator) addError(path string, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	a.errors = append(a.errors, model.ScanError{Path: path, Error: err.Error()})
}

// buildSummaries 按后缀表顺序输出记录并计算总计。
func (s *Service) buildSummaries(result *model.ScanResult, extensions []string, agg *aggregator) {
	result.Files = agg.files
	if result.Files == nil {
		result.Files = make([]model.FileMetrics, 0)
	}
	result.Errors = agg.errors
	if result.Errors == nil {
		result.Errors = make([]model.ScanError, 0)
	}

	sort.Slice(result.Files, func(i int, j int) bool {
		return result.Files[i].Path < result.Files[j].Path
	})
	sort.Slice(result.Errors, func(i int, j int) bool {
		return result.Errors[i].Path < result.Errors[j].Path
	})

	result.Total = model.TotalMetrics{}
	result.Extensions = make([]model.ExtensionMetrics, 0, len(extensions))
	for _, ext := range extensions {
		row := *agg.rows[ext]
		result.Total.Files += row.Files
		result.Total.Add(row.LineMetrics)
		result.Extensions = append(result.Extensions, row)
	}
}
