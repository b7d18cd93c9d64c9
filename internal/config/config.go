package config

import (
	"errors"
	"fmt"
	"net"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"
)

// デフォルト値
const (
	DefaultPort            = 8000
	DefaultIndex           = "index.html"
	DefaultBrowserDelay    = 1500 * time.Millisecond
	DefaultBrowserHost     = "localhost"
	DefaultReadTimeout     = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
	DefaultMode            = "release"
)

// Config はアプリケーション全体の設定を保持する構造体
type Config struct {
	Server  ServerConfig  `yaml:"server" toml:"server"`
	Static  StaticConfig  `yaml:"static" toml:"static"`
	Browser BrowserConfig `yaml:"browser" toml:"browser"`

	// gin の動作モード (debug / release / test)
	Mode string `yaml:"mode" toml:"mode"`
}

// ServerConfig はHTTPサーバーの設定
type ServerConfig struct {
	Host string `yaml:"host" toml:"host"` // リッスンするホスト (空文字は全インターフェース)
	Port int    `yaml:"port" toml:"port"` // リッスンするポート番号

	// タイムアウト設定
	ReadTimeout     time.Duration `yaml:"read_timeout" toml:"read_timeout"`         // 読み込みタイムアウト
	WriteTimeout    time.Duration `yaml:"write_timeout" toml:"write_timeout"`       // 書き込みタイムアウト
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" toml:"shutdown_timeout"` // グレースフルシャットダウンの待ち時間
}

// StaticConfig は静的ファイル配信の設定
type StaticConfig struct {
	Root  string `yaml:"root" toml:"root"`   // 配信するルートディレクトリ
	Index string `yaml:"index" toml:"index"` // ブラウザで開くページ
}

// BrowserConfig は起動時のブラウザ起動設定
type BrowserConfig struct {
	Enabled bool          `yaml:"enabled" toml:"enabled"`
	Delay   time.Duration `yaml:"delay" toml:"delay"` // 起動までの待ち時間
	Host    string        `yaml:"host" toml:"host"`   // URLに使うホスト名
}

// Default はデフォルト設定を返す。Static.Root は空のまま。
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "",
			Port:            DefaultPort,
			ReadTimeout:     DefaultReadTimeout,
			WriteTimeout:    0,
			ShutdownTimeout: DefaultShutdownTimeout,
		},
		Static: StaticConfig{
			Index: DefaultIndex,
		},
		Browser: BrowserConfig{
			Enabled: true,
			Delay:   DefaultBrowserDelay,
			Host:    DefaultBrowserHost,
		},
		Mode: DefaultMode,
	}
}

// Load は設定を読み込む
// DASHSERVE_CONFIG が指定されていれば設定ファイルも読み込む
func Load() (*Config, error) {
	return LoadFile(os.Getenv("DASHSERVE_CONFIG"))
}

// LoadFile は Read で読み込んだ設定を検証して返す
func LoadFile(path string) (*Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return nil, err
	}

	// 設定の検証
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("設定の検証に失敗: %w", err)
	}

	return cfg, nil
}

// Read はデフォルト値、設定ファイル、環境変数の順に設定を重ねて読み込む。
// 検証は行わないので、値を上書きした後に呼び出し側で Validate すること。
// path が空の場合は設定ファイルを読まない。
func Read(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := applyFile(cfg, path); err != nil {
			return nil, err
		}
	}

	applyEnv(cfg)

	if err := cfg.resolveRoot(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// applyEnv は環境変数の値で設定を上書きする
func applyEnv(cfg *Config) {
	cfg.Server.Host = getEnvOrDefault("SERVER_HOST", cfg.Server.Host)
	cfg.Server.Port = getEnvAsIntOrDefault("PORT", cfg.Server.Port)
	cfg.Static.Root = getEnvOrDefault("DASHSERVE_ROOT", cfg.Static.Root)
	cfg.Mode = getEnvOrDefault("GIN_MODE", cfg.Mode)

	if getEnvAsBoolOrDefault("DASHSERVE_NO_BROWSER", false) {
		cfg.Browser.Enabled = false
	}
}

// resolveRoot はルートディレクトリを絶対パスに揃える。
// 未指定の場合は実行ファイルのあるディレクトリを使う。
func (c *Config) resolveRoot() error {
	if c.Static.Root == "" {
		dir, err := ExecutableDir()
		if err != nil {
			return err
		}
		c.Static.Root = dir
		return nil
	}

	abs, err := filepath.Abs(c.Static.Root)
	if err != nil {
		return fmt.Errorf("ルートディレクトリの解決に失敗 (%s): %w", c.Static.Root, err)
	}
	c.Static.Root = abs
	return nil
}

// Validate は設定の妥当性を検証する
func (c *Config) Validate() error {
	// サーバー設定の検証
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("無効なポート番号: %d", c.Server.Port)
	}
	if c.Server.ReadTimeout < 0 || c.Server.WriteTimeout < 0 || c.Server.ShutdownTimeout < 0 {
		return errors.New("タイムアウトに負の値は指定できません")
	}

	// 配信ディレクトリの検証
	if c.Static.Root == "" {
		return errors.New("ルートディレクトリが指定されていません")
	}
	info, err := os.Stat(c.Static.Root)
	if err != nil {
		return fmt.Errorf("ルートディレクトリにアクセスできません: %w", err)
	}
	if !info.IsDir() {
		return fmt.Errorf("ルートディレクトリではありません: %s", c.Static.Root)
	}
	if c.Static.Index == "" {
		return errors.New("インデックスページが指定されていません")
	}

	if c.Browser.Delay < 0 {
		return fmt.Errorf("無効なブラウザ起動待ち時間: %v", c.Browser.Delay)
	}

	switch c.Mode {
	case "", "debug", "release", "test":
	default:
		return fmt.Errorf("無効な動作モード: %s", c.Mode)
	}

	return nil
}

// ServerAddress はサーバーのリッスンアドレスを返す
func (c *Config) ServerAddress() string {
	return net.JoinHostPort(c.Server.Host, strconv.Itoa(c.Server.Port))
}

// BaseURL はブラウザからアクセスするためのURLを返す。
// port には実際に待ち受けているポートを渡す。
func (c *Config) BaseURL(port int) string {
	host := c.Browser.Host
	if host == "" {
		host = DefaultBrowserHost
	}
	return "http://" + net.JoinHostPort(host, strconv.Itoa(port))
}

// IndexURL はインデックスページのURLを返す
func (c *Config) IndexURL(port int) string {
	return c.BaseURL(port) + "/" + strings.TrimPrefix(c.Static.Index, "/")
}

// ExecutableDir は実行中のプログラムが置かれているディレクトリを返す
func ExecutableDir() (string, error) {
	exe, err := os.Executable()
	if err != nil {
		return "", fmt.Errorf("実行ファイルのパス取得に失敗: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// getEnvOrDefault は環境変数を取得し、設定されていない場合はデフォルト値を返す
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsIntOrDefault は環境変数を整数として取得し、設定されていない場合はデフォルト値を返す
func getEnvAsIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultValue
}

// getEnvAsBoolOrDefault は環境変数を真偽値として取得する
func getEnvAsBoolOrDefault(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}
