package notify

import (
	"github.com/nulzo/model-sync-api/internal/logger"
	"go.uber.org/zap"
)

// LogNotifier surfaces change events through the structured log. Hosts
// with a real notification surface plug their own ports.Notifier in.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

func (n *LogNotifier) Notify(title, message string) {
	logger.Info("notification",
		zap.String("title", title),
		zap.String("message", message),
	)
}
