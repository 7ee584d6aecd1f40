//
// Copyright (C) 2026 The weft authors. All rights reserved.
//
// weft is licensed under the Apache License Version 2.0.
//
//

package main

import (
	"database/sql"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3" // SQLite driver.
	"gopkg.in/yaml.v3"

	"github.com/weftworks/weft/graph"
	redissaver "github.com/weftworks/weft/graph/checkpoint/redis"
	sqlitesaver "github.com/weftworks/weft/graph/checkpoint/sqlite"
)

// Config selects and configures the snapshot store the CLI talks to.
type Config struct {
	// Store is "sqlite" or "redis".
	Store  string       `yaml:"store"`
	SQLite SQLiteConfig `yaml:"sqlite"`
	Redis  RedisConfig  `yaml:"redis"`
}

// SQLiteConfig configures the SQLite backend.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// RedisConfig configures the Redis backend.
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// loadConfig reads the YAML config file.
func loadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// openSaver opens the configured snapshot store.
// The caller owns the returned saver and must Close it.
func openSaver(cfg *Config) (graph.Saver, error) {
	switch cfg.Store {
	case "sqlite":
		if cfg.SQLite.Path == "" {
			return nil, fmt.Errorf("sqlite.path is required")
		}
		db, err := sql.Open("sqlite3", cfg.SQLite.Path)
		if err != nil {
			return nil, fmt.Errorf("open sqlite db: %w", err)
		}
		saver, err := sqlitesaver.NewSaver(db)
		if err != nil {
			db.Close()
			return nil, err
		}
		return saver, nil
	case "redis":
		var opts []redissaver.Option
		if cfg.Redis.Prefix != "" {
			opts = append(opts, redissaver.WithPrefix(cfg.Redis.Prefix))
		}
		return redissaver.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, opts...), nil
	default:
		return nil, fmt.Errorf("unknown store %q (want sqlite or redis)", cfg.Store)
	}
}
