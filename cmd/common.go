/*
Copyright © 2025 Valentyn Solomko <valentyn.solomko@gmail.com>

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/valpere/transtask/internal/config"
	"github.com/valpere/transtask/internal/store"
	"github.com/valpere/transtask/internal/task"
	"github.com/valpere/transtask/internal/translator"
)

// loadConfig decodes the merged flag, env and file settings and builds the
// logger, which writes to stderr so stdout carries only results.
func loadConfig() (config.Config, *slog.Logger, error) {
	cfg, err := config.Load(viper.GetViper())
	if err != nil {
		return config.Config{}, nil, err
	}
	log, err := cfg.Log.NewLogger(os.Stderr)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, log, nil
}

// openStore opens the translation memory, creating its directory.
func openStore(path string) (*store.Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := store.New(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return db, nil
}

// buildTask acquires the configured backend, optionally behind the
// translation memory, and wraps it in the translation task. The returned
// cleanup closes everything buildTask opened.
func buildTask(ctx context.Context, cfg config.Config, log *slog.Logger) (*task.TranslationTask, func(), error) {
	var db *store.Store
	if cfg.Cache.Enabled {
		var err error
		db, err = openStore(cfg.CachePath())
		if err != nil {
			return nil, nil, err
		}
	}

	factory := func() (task.Backend, error) {
		svc, err := translator.New(ctx, cfg.Backend, cfg.ServiceConfig())
		if err != nil {
			return nil, err
		}
		if db != nil {
			return translator.NewCached(svc, db, log), nil
		}
		return svc, nil
	}

	t, err := task.NewTranslationTask(factory,
		task.WithLogger(log),
		task.WithTimeout(cfg.Timeout),
	)
	if err != nil {
		if db != nil {
			db.Close()
		}
		return nil, nil, err
	}

	cleanup := func() {
		if err := t.Close(); err != nil {
			log.Warn("backend_close_error", "error", err.Error())
		}
		if db != nil {
			db.Close()
		}
	}
	return t, cleanup, nil
}
