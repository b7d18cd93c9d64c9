package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// fileConfig は設定ファイルの表現。時間は "1.5s" のような文字列で書く。
type fileConfig struct {
	Server struct {
		Host            string `yaml:"host" toml:"host"`
		Port            int    `yaml:"port" toml:"port"`
		ReadTimeout     string `yaml:"read_timeout" toml:"read_timeout"`
		WriteTimeout    string `yaml:"write_timeout" toml:"write_timeout"`
		ShutdownTimeout string `yaml:"shutdown_timeout" toml:"shutdown_timeout"`
	} `yaml:"server" toml:"server"`

	Static struct {
		Root  string `yaml:"root" toml:"root"`
		Index string `yaml:"index" toml:"index"`
	} `yaml:"static" toml:"static"`

	Browser struct {
		Enabled *bool  `yaml:"enabled" toml:"enabled"`
		Delay   string `yaml:"delay" toml:"delay"`
		Host    string `yaml:"host" toml:"host"`
	} `yaml:"browser" toml:"browser"`

	Mode string `yaml:"mode" toml:"mode"`
}

// applyFile は設定ファイルを読み込み、指定された項目だけを cfg に反映する。
// 拡張子で形式を判定する (.toml / .yaml / .yml)。
func applyFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("設定ファイルの読み込みに失敗: %w", err)
	}

	var fc fileConfig
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".toml":
		err = toml.Unmarshal(data, &fc)
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		return fmt.Errorf("未対応の設定ファイル形式: %s", ext)
	}
	if err != nil {
		return fmt.Errorf("設定ファイルの解析に失敗 (%s): %w", path, err)
	}

	return fc.apply(cfg, filepath.Dir(path))
}

// apply は設定ファイルの値を cfg に重ねる。
// 相対パスのルートは設定ファイルのディレクトリを基準に解決する。
func (fc *fileConfig) apply(cfg *Config, baseDir string) error {
	if fc.Server.Host != "" {
		cfg.Server.Host = fc.Server.Host
	}
	if fc.Server.Port != 0 {
		cfg.Server.Port = fc.Server.Port
	}

	durations := []struct {
		name  string
		value string
		dst   *time.Duration
	}{
		{"server.read_timeout", fc.Server.ReadTimeout, &cfg.Server.ReadTimeout},
		{"server.write_timeout", fc.Server.WriteTimeout, &cfg.Server.WriteTimeout},
		{"server.shutdown_timeout", fc.Server.ShutdownTimeout, &cfg.Server.ShutdownTimeout},
		{"browser.delay", fc.Browser.Delay, &cfg.Browser.Delay},
	}
	for _, d := range durations {
		if d.value == "" {
			continue
		}
		v, err := time.ParseDuration(d.value)
		if err != nil {
			return fmt.Errorf("%s の値が不正です: %w", d.name, err)
		}
		*d.dst = v
	}

	if root := fc.Static.Root; root != "" {
		if !filepath.IsAbs(root) {
			root = filepath.Join(baseDir, root)
		}
		cfg.Static.Root = root
	}
	if fc.Static.Index != "" {
		cfg.Static.Index = fc.Static.Index
	}

	if fc.Browser.Enabled != nil {
		cfg.Browser.Enabled = *fc.Browser.Enabled
	}
	if fc.Browser.Host != "" {
		cfg.Browser.Host = fc.Browser.Host
	}

	if fc.Mode != "" {
		cfg.Mode = fc.Mode
	}

	return nil
}
