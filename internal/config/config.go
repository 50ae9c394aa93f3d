// Package config 负责运行参数的加载与校验。
// 默认值来自环境变量（可由 .env 文件提供），命令行 flag 会覆盖这些值。
package config

import (
	"errors"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/joho/godotenv"

	"goloc/internal/console"
)

const (
	envDepth   = "GOLOC_DEPTH"
	envFormat  = "GOLOC_FORMAT"
	envOutput  = "GOLOC_OUTPUT"
	envWorkers = "GOLOC_WORKERS"
	envColor   = "GOLOC_COLOR"
	envDebug   = "GOLOC_DEBUG"

	// DepthAll 表示不限制递归深度。
	DepthAll = "all"
)

var (
	// ErrInvalidDepth 表示深度参数既不是非负整数也不是 all。
	ErrInvalidDepth = errors.New(`depth must be a non-negative integer or "all"`)
	// ErrInvalidFormat 表示不支持的输出格式。
	ErrInvalidFormat = errors.New("unsupported format, allowed values: table, json, yaml")
	// ErrInvalidColorMode 表示不支持的颜色模式。
	ErrInvalidColorMode = errors.New("unsupported color mode, allowed values: auto, always, never")
)

// Format 是报表输出格式。
type Format string

const (
	FormatTable Format = "table"
	FormatJSON  Format = "json"
	FormatYAML  Format = "yaml"
)

// Config 汇总一次运行的默认参数。
type Config struct {
	Depth   string
	Format  string
	Output  string
	Workers int
	Color   string
	Debug   bool
}

// Load 读取 .env 与环境变量并返回配置。
// 未指定 envFiles 时静默尝试当前目录下的 .env；显式指定的文件不存在会返回错误。
func Load(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		_ = godotenv.Load()
	} else if err := godotenv.Load(envFiles...); err != nil {
		return Config{}, fmt.Errorf("load env file: %w", err)
	}

	cfg := Config{
		Depth:   firstNonEmpty(os.Getenv(envDepth), DepthAll),
		Format:  firstNonEmpty(os.Getenv(envFormat), string(FormatTable)),
		Output:  strings.TrimSpace(os.Getenv(envOutput)),
		Workers: runtime.NumCPU(),
		Color:   firstNonEmpty(os.Getenv(envColor), string(console.ModeAuto)),
	}

	if raw := strings.TrimSpace(os.Getenv(envWorkers)); raw != "" {
		workers, err := strconv.Atoi(raw)
		if err != nil || workers <= 0 {
			return Config{}, fmt.Errorf("%s must be a positive integer, got %q", envWorkers, raw)
		}
		cfg.Workers = workers
	}

	if raw := strings.TrimSpace(os.Getenv(envDebug)); raw != "" {
		debug, err := strconv.ParseBool(raw)
		if err != nil {
			return Config{}, fmt.Errorf("%s must be a boolean, got %q", envDebug, raw)
		}
		cfg.Debug = debug
	}

	return cfg, nil
}

// ParseDepth 解析深度参数。
// "all" 与 "0" 都表示不限深度，返回 0；正整数 n 表示最多进入 n 层子目录。
func ParseDepth(raw string) (int, error) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == DepthAll {
		return 0, nil
	}

	depth, err := strconv.Atoi(value)
	if err != nil || depth < 0 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidDepth, raw)
	}
	return depth, nil
}

// ParseFormat 校验输出格式。
func ParseFormat(raw string) (Format, error) {
	switch format := Format(strings.ToLower(strings.TrimSpace(raw))); format {
	case FormatTable, FormatJSON, FormatYAML:
		return format, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidFormat, raw)
	}
}

// ParseColorMode 校验颜色模式。
func ParseColorMode(raw string) (console.Mode, error) {
	switch mode := console.Mode(strings.ToLower(strings.TrimSpace(raw))); mode {
	case console.ModeAuto, console.ModeAlways, console.ModeNever:
		return mode, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidColorMode, raw)
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}
