package cache

import (
	"log/slog"

	"guestlist/internal/domain"
)

// logInvalidator implements domain.PathInvalidator by logging the path.
// Deployments fronted by a CDN or render cache swap in a real purge client;
// nothing in the write path depends on the outcome either way.
type logInvalidator struct {
	logger *slog.Logger
}

// NewLogInvalidator returns a PathInvalidator that records invalidations in
// the application log.
func NewLogInvalidator(logger *slog.Logger) domain.PathInvalidator {
	return &logInvalidator{logger: logger}
}

func (i *logInvalidator) Invalidate(path string) {
	i.logger.Debug("cache invalidate", "path", path)
}
