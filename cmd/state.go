package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"NovaStream/core/state"
	"NovaStream/internal/bootstrap"

	"github.com/spf13/cobra"
)

var stateJSON bool

var stateCmd = &cobra.Command{
	Use:   "state",
	Short: "查看持久化状态",
	Long:  `读取持久化的会话用户、视频目录和创作者统计并打印摘要。`,
	RunE: func(cmd *cobra.Command, args []string) error {
		repo, _, err := bootstrap.OpenRepository(cfg)
		if err != nil {
			return err
		}
		defer repo.Close()

		store := state.NewStore(repo, cfg.StoreKeyPrefix)
		if err := store.Load(context.Background()); err != nil {
			return err
		}
		snap := store.Snapshot()

		if stateJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(snap)
		}

		if snap.User == nil {
			fmt.Println("会话: 未登录")
		} else {
			fmt.Printf("会话: %s (订阅 %d, 喜欢 %d, 播放列表 %d)\n",
				snap.User.Username,
				len(snap.User.Subscriptions),
				len(snap.User.LikedVideos),
				len(snap.User.Playlists))
		}
		fmt.Printf("视频: %d\n", len(snap.Videos))
		for name, stat := range snap.AuthorStats {
			fmt.Printf("  %s: 订阅者 %d, 视频 %d\n", name, stat.SubscriberCount, stat.VideoCount)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(stateCmd)
	stateCmd.Flags().BoolVar(&stateJSON, "json", false, "以 JSON 输出完整快照")
}
