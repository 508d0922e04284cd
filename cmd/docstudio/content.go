package main

import (
	"context"
	"fmt"

	"docstudio/internal/config"
	"docstudio/internal/docs"
	"docstudio/internal/navmenu"
	"docstudio/internal/storage"
)

// openContent returns the content tree the server would read. A non-empty
// dir overrides the configured source.
func openContent(ctx context.Context, cfg *config.Config, dir string) (docs.Source, error) {
	if dir != "" {
		return docs.OpenSource(ctx, dir, nil)
	}
	bucket, err := bucketFromConfig(cfg)
	if err != nil {
		return docs.Source{}, err
	}
	return docs.OpenSource(ctx, cfg.DocsDir, bucket)
}

func bucketFromConfig(cfg *config.Config) (*storage.Client, error) {
	bucket, err := storage.New(cfg.S3Endpoint, cfg.S3Region, cfg.S3AccessKey, cfg.S3SecretKey, cfg.S3Bucket, cfg.S3Prefix)
	if err != nil {
		return nil, fmt.Errorf("initialize s3 storage: %w", err)
	}
	return bucket, nil
}

// loadMenus opens the content tree and loads its menu table.
func loadMenus(ctx context.Context, dir string) (docs.Source, *navmenu.Table, error) {
	cfg, err := config.Load()
	if err != nil {
		return docs.Source{}, nil, fmt.Errorf("load configuration: %w", err)
	}
	src, err := openContent(ctx, cfg, dir)
	if err != nil {
		return docs.Source{}, nil, err
	}
	table, err := navmenu.LoadFS(src.FS, cfg.MenusFile)
	if err != nil {
		return src, nil, err
	}
	return src, table, nil
}
