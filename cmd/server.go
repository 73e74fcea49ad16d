package cmd

import (
	"time"

	"NovaStream/server"

	"github.com/spf13/cobra"
)

var (
	watchEnabled bool
	watchDir     string
	watchSettle  time.Duration
)

var serverCmd = &cobra.Command{
	Use:   "server",
	Short: "启动NovaStream服务器",
	Long: `启动HTTP API服务器，提供视频、会话、播放列表接口以及 /ws 事件推送。
使用 --watch 时同一进程还会监听投递目录，新出现的视频文件 (.mp4 .mov .webm .mkv .avi .m4v)
以当前登录用户的身份上传；没有登录用户时文件保留在队列中稍后重试。`,
	RunE: runServer,
}

func runServer(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()
	if flags.Changed("watch") {
		cfg.WatchEnabled = watchEnabled
	}
	if flags.Changed("watch-dir") {
		cfg.WatchDir = watchDir
	}
	if flags.Changed("watch-settle") {
		cfg.WatchSettle = watchSettle
	}
	return server.Start(cfg)
}

func addServerFlags(cmd *cobra.Command) {
	cmd.Flags().BoolVar(&watchEnabled, "watch", false, "同时监听投递目录 (WATCH_ENABLED)")
	cmd.Flags().StringVar(&watchDir, "watch-dir", "", "投递目录 (WATCH_DIR)")
	cmd.Flags().DurationVar(&watchSettle, "watch-settle", 2*time.Second, "文件多久没有变化才视为写入完成 (WATCH_SETTLE)")
}

func init() {
	rootCmd.AddCommand(serverCmd)
	addServerFlags(serverCmd)
	addServerFlags(rootCmd)
}
