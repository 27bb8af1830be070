package fbvideo

import (
	"log/slog"
	"os"

	"github.com/BeatGlow/fbvideo/internal/logger"
)

func init() {
	if os.Getenv("FBVIDEO_DEBUG") != "" {
		SetLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		})))
	}
}

// SetLogger sets the logger used by all fbvideo packages. By default nothing
// is logged, unless the FBVIDEO_DEBUG environment variable is set. A nil
// logger disables logging.
func SetLogger(l *slog.Logger) {
	logger.Set(l)
}

// Logger returns the current logger.
func Logger() *slog.Logger {
	return logger.Get()
}
