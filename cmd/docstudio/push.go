package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"docstudio/internal/config"
	"docstudio/internal/docs"
	"docstudio/internal/store"
)

func newDocsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docs",
		Short: "Manage the docs content tree",
	}

	var (
		from  string
		purge bool
	)
	push := &cobra.Command{
		Use:   "push",
		Short: "Upload a content tree to the configured S3 bucket",
		Long: `Upload every file of a content tree to the S3 bucket the server reads
docs from. Without --from the tree embedded in this binary is pushed.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("load configuration: %w", err)
			}
			bucket, err := bucketFromConfig(cfg)
			if err != nil {
				return err
			}
			if bucket == nil {
				return errors.New("S3_ENDPOINT, S3_ACCESS_KEY and S3_SECRET_KEY must be set to push docs")
			}

			src := docs.Embedded()
			if from != "" {
				if src, err = docs.OpenSource(ctx, from, nil); err != nil {
					return err
				}
			}

			n, err := docs.Push(ctx, src.FS, bucket)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s pushed %s files from %s to s3:%s\n",
				color.GreenString("✓"), humanize.Comma(int64(n)), src.Name, bucket.Bucket())
			slog.Info("docs pushed", "files", n, "source", src.Name, "bucket", bucket.Bucket())

			if !purge {
				return nil
			}
			removed, err := purgePages(ctx, cfg, "", store.PurgeContent)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "%s purged %s cached pages\n", color.GreenString("✓"), humanize.Comma(int64(removed)))
			return nil
		},
	}
	push.Flags().StringVar(&from, "from", "", "content tree to push (default the embedded tree)")
	push.Flags().BoolVar(&purge, "purge", false, "purge the page cache after the upload")

	cmd.AddCommand(push)
	return cmd
}
