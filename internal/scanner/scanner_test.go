package scanner

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"goloc/internal/languages"
	"goloc/internal/model"
)

// writeFixtureFile 是测试辅助函数，用于在临时目录快速落地测试文件。
func writeFixtureFile(t *testing.T, path string, content string) {
	t.Helper()

	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// rowFor 按后缀取出报表行。
func rowFor(t *testing.T, result model.ScanResult, extension string) model.ExtensionMetrics {
	t.Helper()

	for _, row := range result.Extensions {
		if row.Extension == extension {
			return row
		}
	}
	t.Fatalf("no row for extension %s", extension)
	return model.ExtensionMetrics{}
}

// TestScanDirectoryAggregatesByExtension 验证按后缀聚合与总计。
func TestScanDirectoryAggregatesByExtension(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "main.py"), "# c\nx = 1\n")
	writeFixtureFile(t, filepath.Join(tempDir, "lib", "util.c"), "int a;\n")
	writeFixtureFile(t, filepath.Join(tempDir, "README.md"), "not a source file\n")
	writeFixtureFile(t, filepath.Join(tempDir, "nb.ipynb"),
		`{"cells":[{"cell_type":"markdown","source":["hi\n"]},{"cell_type":"code","source":["print(1)\n"]}]}`)

	service := NewService(languages.NewRegistry(), 4)
	result, err := service.ScanPath(context.Background(), tempDir, Options{})
	require.NoError(t, err)

	absolute, err := filepath.Abs(tempDir)
	require.NoError(t, err)
	assert.Equal(t, absolute, result.ScannedPath)

	// 未过滤时每个已知后缀都有一行，且顺序固定。
	require.Len(t, result.Extensions, 12)
	assert.Equal(t, ".c", result.Extensions[0].Extension)
	assert.Equal(t, ".css", result.Extensions[11].Extension)

	assert.Equal(t, model.ExtensionMetrics{
		Extension:   ".py",
		Language:    "Python",
		Files:       1,
		LineMetrics: model.LineMetrics{Lines: 2, Comment: 1, Chars: 10},
	}, rowFor(t, result, ".py"))
	assert.EqualValues(t, 1, rowFor(t, result, ".c").Files)
	assert.EqualValues(t, 1, rowFor(t, result, ".ipynb").Markdown)
	assert.True(t, rowFor(t, result, ".java").Empty())

	assert.Equal(t, model.TotalMetrics{
		Files:       3,
		LineMetrics: model.LineMetrics{Lines: 4, Comment: 1, Markdown: 1, Chars: 29},
	}, result.Total)

	require.Len(t, result.Files, 3)
	assert.Equal(t, "lib/util.c", result.Files[0].Path)
	assert.Equal(t, "main.py", result.Files[1].Path)
	assert.Equal(t, "nb.ipynb", result.Files[2].Path)
	assert.Empty(t, result.Errors)
}

// TestScanRespectsMaxDepth 验证深度限制，且跳过深层目录后兄弟目录仍会被访问。
func TestScanRespectsMaxDepth(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "a.py"), "a = 1\n")
	writeFixtureFile(t, filepath.Join(tempDir, "d1", "b.py"), "b = 1\n")
	writeFixtureFile(t, filepath.Join(tempDir, "d1", "d2", "c.py"), "c = 1\n")
	writeFixtureFile(t, filepath.Join(tempDir, "d1", "d2", "d3", "e.py"), "e = 1\n")
	writeFixtureFile(t, filepath.Join(tempDir, "x", "f.py"), "f = 1\n")

	service := NewService(languages.NewRegistry(), 2)

	cases := []struct {
		maxDepth int
		files    int64
	}{
		{maxDepth: 0, files: 5},
		{maxDepth: 1, files: 3},
		{maxDepth: 2, files: 4},
		{maxDepth: 3, files: 5},
	}
	for _, tc := range cases {
		result, err := service.ScanPath(context.Background(), tempDir, Options{MaxDepth: tc.maxDepth})
		require.NoError(t, err)
		assert.Equal(t, tc.files, result.Total.Files, "max depth %d", tc.maxDepth)
		assert.Equal(t, tc.maxDepth, result.MaxDepth)
	}
}

// TestScanExtensionFilter 验证文件类型过滤同时作用于统计与报表行。
func TestScanExtensionFilter(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "main.py"), "x = 1\n")
	writeFixtureFile(t, filepath.Join(tempDir, "util.c"), "int a;\n")

	service := NewService(languages.NewRegistry(), 1)
	result, err := service.ScanPath(context.Background(), tempDir, Options{Extensions: []string{"py"}})
	require.NoError(t, err)

	require.Len(t, result.Extensions, 1)
	assert.Equal(t, ".py", result.Extensions[0].Extension)
	assert.Equal(t, []string{".py"}, result.Filter)
	assert.EqualValues(t, 1, result.Total.Files)
}

// TestScanUnsupportedFilter 验证未知文件类型会被拒绝。
func TestScanUnsupportedFilter(t *testing.T) {
	service := NewService(languages.NewRegistry(), 1)
	_, err := service.ScanPath(context.Background(), t.TempDir(), Options{Extensions: []string{".go"}})

	require.ErrorIs(t, err, languages.ErrUnsupportedExtension)
}

// TestScanInvalidDirectory 验证目标不存在或不是目录时返回错误。
func TestScanInvalidDirectory(t *testing.T) {
	tempDir := t.TempDir()
	filePath := filepath.Join(tempDir, "single.py")
	writeFixtureFile(t, filePath, "x = 1\n")

	service := NewService(languages.NewRegistry(), 1)

	_, err := service.ScanPath(context.Background(), filepath.Join(tempDir, "missing"), Options{})
	require.ErrorIs(t, err, ErrInvalidDirectory)

	_, err = service.ScanPath(context.Background(), filePath, Options{})
	require.ErrorIs(t, err, ErrInvalidDirectory)

	_, err = service.ScanPath(context.Background(), "  ", Options{})
	require.ErrorIs(t, err, ErrInvalidDirectory)

	_, err = service.ScanPath(context.Background(), tempDir, Options{MaxDepth: -1})
	require.Error(t, err)
}

// TestScanRecordsFileErrors 验证单文件分析失败不会中断扫描。
func TestScanRecordsFileErrors(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "broken.ipynb"), `{"cells": [`)
	writeFixtureFile(t, filepath.Join(tempDir, "ok.js"), "// hi\nlet a = 1;\n")

	service := NewService(languages.NewRegistry(), 2)
	result, err := service.ScanPath(context.Background(), tempDir, Options{})
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "broken.ipynb", result.Errors[0].Path)
	assert.EqualValues(t, 0, rowFor(t, result, ".ipynb").Files)
	assert.EqualValues(t, 1, rowFor(t, result, ".js").Comment)
}

// lockDirectory 去掉目录的全部权限，测试结束后恢复，便于 TempDir 清理。
// root 用户或 Windows 上权限不生效，直接跳过。
func lockDirectory(t *testing.T, path string) {
	t.Helper()

	if runtime.GOOS == "windows" || os.Geteuid() == 0 {
		t.Skip("directory permissions are not enforced for this user")
	}
	require.NoError(t, os.Chmod(path, 0o000))
	t.Cleanup(func() { _ = os.Chmod(path, 0o755) })
}

// TestScanSkipsUnreadableSubdirectory 验证不可读的子目录被记录并跳过，兄弟目录照常统计。
func TestScanSkipsUnreadableSubdirectory(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "locked", "hidden.py"), "x = 1\n")
	writeFixtureFile(t, filepath.Join(tempDir, "open", "visible.py"), "y = 2\n")
	writeFixtureFile(t, filepath.Join(tempDir, "top.py"), "z = 3\n")
	lockDirectory(t, filepath.Join(tempDir, "locked"))

	service := NewService(languages.NewRegistry(), 2)
	result, err := service.ScanPath(context.Background(), tempDir, Options{})
	require.NoError(t, err)

	require.Len(t, result.Errors, 1)
	assert.Equal(t, "locked", result.Errors[0].Path)
	assert.EqualValues(t, 2, result.Total.Files)
	assert.EqualValues(t, 2, rowFor(t, result, ".py").Files)
}

// TestScanUnreadableRoot 验证目标目录本身不可读时返回 ErrInvalidDirectory。
func TestScanUnreadableRoot(t *testing.T) {
	tempDir := t.TempDir()
	target := filepath.Join(tempDir, "target")
	writeFixtureFile(t, filepath.Join(target, "a.py"), "a = 1\n")
	lockDirectory(t, target)

	service := NewService(languages.NewRegistry(), 1)
	_, err := service.ScanPath(context.Background(), target, Options{})
	require.ErrorIs(t, err, ErrInvalidDirectory)
	require.ErrorIs(t, err, os.ErrPermission)
}

// TestScanRejectsNonNotebookIpynb 验证内容不是 notebook 的 .ipynb 记为错误，而 .ipy 脚本照常统计。
func TestScanRejectsNonNotebookIpynb(t *testing.T) {
	tempDir := t.TempDir()

	writeFixtureFile(t, filepath.Join(tempDir, "list.ipynb"), "[1,2]")
	writeFixtureFile(t, filepath.Join(tempDir, "plain.ipynb"), "print(1)\n")
	writeFixtureFile(t, filepath.Join(tempDir, "script.ipy"), "# setup\nprint(1)\n")

	service := NewService(languages.NewRegistry(), 2)
	result, err := service.ScanPath(context.Background(), tempDir, Options{})
	require.NoError(t, err)

	require.Len(t, result.Errors, 2)
	assert.Equal(t, "list.ipynb", result.Errors[0].Path)
	assert.Equal(t, "plain.ipynb", result.Errors[1].Path)
	assert.EqualValues(t, 0, rowFor(t, result, ".ipynb").Files)

	script := rowFor(t, result, ".ipy")
	assert.EqualValues(t, 1, script.Files)
	assert.EqualValues(t, 2, script.Lines)
	assert.EqualValues(t, 1, script.Comment)
}

// TestScanCanceledContext 验证取消上下文会终止遍历。
func TestScanCanceledContext(t *testing.T) {
	tempDir := t.TempDir()
	writeFixtureFile(t, filepath.Join(tempDir, "a.py"), "a = 1\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	service := NewService(languages.NewRegistry(), 1)
	_, err := service.ScanPath(ctx, tempDir, Options{})
	require.ErrorIs(t, err, context.Canceled)
}

func TestDepthOf(t *testing.T) {
	assert.Equal(t, 0, depthOf("."))
	assert.Equal(t, 1, depthOf("a"))
	assert.Equal(t, 3, depthOf(filepath.Join("a", "b", "c")))
}
