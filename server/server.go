package server

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"NovaStream/config"
	"NovaStream/internal/bootstrap"
	"NovaStream/logger"

	"github.com/gorilla/mux"
)

// corsMiddleware 添加 CORS 头
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, HEAD")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Range")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Range")
		w.Header().Set("Access-Control-Max-Age", "86400") // 24 hours

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// NewRouter registers every route on a new mux router.
func NewRouter(h *APIHandler) *mux.Router {
	router := mux.NewRouter()
	router.Use(corsMiddleware)

	// 会话
	router.HandleFunc("/api/auth/login", h.LoginHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/auth/logout", h.AuthMiddleware(h.LogoutHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/session", h.AuthMiddleware(h.SessionHandler)).Methods(http.MethodGet)

	// 视频
	router.HandleFunc("/api/videos", h.SearchVideosHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/videos", h.AuthMiddleware(h.UploadVideoHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/videos/suggest", h.AuthMiddleware(h.SuggestHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/videos/{id}", h.GetVideoHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/videos/{id}/view", h.WatchVideoHandler).Methods(http.MethodPost)
	router.HandleFunc("/api/videos/{id}/related", h.RelatedVideosHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/videos/{id}/like", h.AuthMiddleware(h.LikeVideoHandler)).Methods(http.MethodPost)

	// 创作者
	router.HandleFunc("/api/authors/{name}", h.AuthorProfileHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/authors/{name}/subscribe", h.AuthMiddleware(h.SubscribeHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/me/avatar", h.AuthMiddleware(h.ChangeAvatarHandler)).Methods(http.MethodPut)

	// 播放列表
	router.HandleFunc("/api/playlists", h.AuthMiddleware(h.ListPlaylistsHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists", h.AuthMiddleware(h.CreatePlaylistHandler)).Methods(http.MethodPost)
	router.HandleFunc("/api/playlists/{id}", h.AuthMiddleware(h.GetPlaylistHandler)).Methods(http.MethodGet)
	router.HandleFunc("/api/playlists/{id}/videos/{videoId}", h.AuthMiddleware(h.TogglePlaylistVideoHandler)).Methods(http.MethodPost)

	router.HandleFunc("/api/navigation", h.NavigationHandler).Methods(http.MethodGet)
	router.HandleFunc("/api/navigation/home", h.HomeHandler).Methods(http.MethodPost)

	router.PathPrefix("/media/").HandlerFunc(h.MediaHandler).Methods(http.MethodGet, http.MethodHead)
	router.HandleFunc("/ws", h.WebSocketHandler)

	return router
}

// Start wires the runtime and serves HTTP until SIGINT or SIGTERM.
func Start(cfg *config.Config) error {
	ctx := context.Background()
	rt, err := bootstrap.Start(ctx, cfg)
	if err != nil {
		return err
	}
	defer rt.Close()

	go rt.Hub.Run()

	// 投递目录导入与 HTTP 共用同一个 App，关闭时先停 watcher 再释放存储
	var wg sync.WaitGroup
	defer wg.Wait()
	watchCtx, stopWatch := context.WithCancel(ctx)
	defer stopWatch()
	if cfg.WatchEnabled {
		w := rt.NewWatcher(cfg.WatchDir, cfg.WatchSettle)
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := w.Run(watchCtx); err != nil {
				logger.Error("[Server] drop folder watcher stopped", logger.ErrorField(err))
			}
		}()
	}

	handler := NewAPIHandler(rt.App, rt.Tokens, rt.Hub)

	// 设置服务器超时
	server := &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      NewRouter(handler),
		ReadTimeout:  5 * time.Minute, // uploads
		WriteTimeout: 5 * time.Minute,
		IdleTimeout:  120 * time.Second,
	}

	// 创建一个通道来接收操作系统信号
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("[Server] listening", logger.String("addr", cfg.HTTPAddr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	// 等待中断信号
	select {
	case <-stop:
	case err := <-errCh:
		return err
	}
	logger.Info("[Server] shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	// 优雅关闭服务器
	if err := server.Shutdown(shutdownCtx); err != nil {
		return err
	}
	logger.Info("[Server] stopped")
	return nil
}
