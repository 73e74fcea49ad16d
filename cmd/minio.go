package cmd

import (
	"context"
	"fmt"
	"time"

	"NovaStream/internal/bootstrap"
	"NovaStream/storage"

	"github.com/spf13/cobra"
)

var (
	minioPrefix string
	minioStats  bool
)

var minioCmd = &cobra.Command{
	Use:   "minio",
	Short: "MinIO存储桶管理",
	Long:  `列出MinIO存储桶中的媒体文件，支持按前缀过滤和查看统计信息。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := context.Background()
		fmt.Printf("MinIO配置: %s, Bucket: %s\n", cfg.MinioEndpoint, cfg.MinioBucket)

		store, err := storage.NewMinioStore(ctx, bootstrap.MinioConfig(cfg))
		if err != nil {
			return fmt.Errorf("无法连接到MinIO: %w", err)
		}

		objects, stats, err := store.List(ctx, minioPrefix)
		if err != nil {
			return err
		}

		if minioStats {
			fmt.Printf("\n存储桶信息:\n")
			fmt.Printf("名称: %s\n", store.Bucket())
			fmt.Printf("总大小: %.2f MB\n", float64(stats.TotalSize)/1024/1024)
			fmt.Printf("对象数量: %d\n", stats.TotalObjects)
			if !stats.LastModified.IsZero() {
				fmt.Printf("最后修改时间: %s\n", stats.LastModified.Format(time.RFC3339))
			}
			return nil
		}

		fmt.Printf("\n文件列表 (前缀: %q):\n", minioPrefix)
		for _, object := range objects {
			fmt.Printf("%s  %.2f MB  %s\n",
				object.Key,
				float64(object.Size)/1024/1024,
				object.LastModified.Format(time.RFC3339))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(minioCmd)

	minioCmd.Flags().StringVarP(&minioPrefix, "prefix", "p", "", "按前缀过滤文件，例如 videos/ 或 avatars/")
	minioCmd.Flags().BoolVarP(&minioStats, "stats", "s", false, "显示存储桶统计信息")

	minioCmd.Example = `  # 列出所有媒体文件
  novastream minio

  # 只看视频
  novastream minio -p "videos/"

  # 显示存储桶统计信息
  novastream minio -s`
}
