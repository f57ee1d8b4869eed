package corpus

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/rs/zerolog"
)

// Watcher 监听语料文件变化，防抖后触发回调（通常是重建索引）。
// 监听的是文件所在目录，以兼容编辑器“写临时文件再 rename”的保存方式。
type Watcher struct {
	Path     string
	Debounce time.Duration
	OnChange func(ctx context.Context)
	Logger   zerolog.Logger
}

// NewWatcher 创建语料文件监听器
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewWatcher(path string, debounce time.Duration, onChange func(ctx context.Context), logger zerolog.Logger) *Watcher {
	if debounce <= 0 {
		debounce = time.Second
	}
	return &Watcher{
		Path:     path,
		Debounce: debounce,
		OnChange: onChange,
		Logger:   logger.With().Str("component", "corpus_watcher").Logger(),
	}
}

// Serve 阻塞运行直到 ctx 结束，满足 suture.Service 接口。
func (w *Watcher) Serve(ctx context.Context) (err error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() {
		if closeErr := watcher.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()

	target, err := filepath.Abs(w.Path)
	if err != nil {
		return fmt.Errorf("resolve corpus path: %w", err)
	}
	if err := watcher.Add(filepath.Dir(target)); err != nil {
		return fmt.Errorf("failed to watch corpus directory: %w", err)
	}

	w.Logger.Info().Str("path", target).Msg("watching corpus")

	timer := time.NewTimer(w.Debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(target, event) {
				continue
			}
			w.Logger.Debug().Str("op", event.Op.String()).Msg("corpus changed")
			timer.Reset(w.Debounce)
		case werr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.Logger.Warn().Err(werr).Msg("file watcher error")
		case <-timer.C:
			if w.OnChange != nil {
				w.OnChange(ctx)
			}
		}
	}
}

func (w *Watcher) relevant(target string, event fsnotify.Event) bool {
	name, err := filepath.Abs(event.Name)
	if err != nil || name != target {
		return false
	}
	return event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Rename)
}

func (w *Watcher) String() string {
	return "corpus-watcher"
}
