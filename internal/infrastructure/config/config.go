// Package config 提供客户端配置加载
// 优先级：代码默认值 < 配置文件 < 环境变量
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config 应用配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Upload UploadConfig `yaml:"upload"`
}

// ServerConfig 后端服务配置
type ServerConfig struct {
	// BaseURL 后端服务地址
	BaseURL string `yaml:"base_url"`
	// Timeout 单次请求超时（聊天请求包含 LLM 生成，耗时较长）
	Timeout time.Duration `yaml:"timeout"`
}

// UploadConfig 上传相关配置
type UploadConfig struct {
	// WatchDir 自动上传监听目录，留空表示关闭
	WatchDir string `yaml:"watch_dir"`
	// DebounceDelay 文件事件防抖延迟
	DebounceDelay time.Duration `yaml:"debounce_delay"`
}

// NewConfig 创建配置（默认值）
func NewConfig() *Config {
	return &Config{
		Server: ServerConfig{
			BaseURL: "http://localhost:8000",
			Timeout: 120 * time.Second,
		},
		Upload: UploadConfig{
			WatchDir:      "", // 空表示不启用自动上传
			DebounceDelay: 500 * time.Millisecond,
		},
	}
}

// Load 加载完整配置
// 依次应用配置文件和环境变量覆盖
func Load() (*Config, error) {
	cfg := NewConfig()

	path := configFilePath()
	if path != "" {
		if err := cfg.loadFile(path); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", path, err)
		}
	}

	cfg.applyEnv()

	if cfg.Server.BaseURL == "" {
		return nil, fmt.Errorf("server base_url is required")
	}

	return cfg, nil
}

// configFilePath 确定配置文件路径
// DOCCHAT_CONFIG 指定则必须存在，否则探测 ~/.docchat/config.yaml
func configFilePath() string {
	if path := os.Getenv("DOCCHAT_CONFIG"); path != "" {
		return path
	}

	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	path := filepath.Join(homeDir, ".docchat", "config.yaml")
	if _, err := os.Stat(path); err != nil {
		return ""
	}
	return path
}

// loadFile 从 YAML 文件加载配置
func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, c)
}

// applyEnv 应用环境变量覆盖
func (c *Config) applyEnv() {
	if url := os.Getenv("DOCCHAT_SERVER_URL"); url != "" {
		c.Server.BaseURL = url
	}
	if timeout := os.Getenv("DOCCHAT_SERVER_TIMEOUT"); timeout != "" {
		if d, err := time.ParseDuration(timeout); err == nil {
			c.Server.Timeout = d
		}
	}
	if dir := os.Getenv("DOCCHAT_WATCH_DIR"); dir != "" {
		c.Upload.WatchDir = dir
	}
}

// NewServerConfig 创建后端服务配置
func NewServerConfig(cfg *Config) *ServerConfig {
	return &cfg.Server
}

// NewUploadConfig 创建上传配置
func NewUploadConfig(cfg *Config) *UploadConfig {
	return &cfg.Upload
}
