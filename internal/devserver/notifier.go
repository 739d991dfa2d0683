package devserver

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/jon4hz/lapinstance/pkg/lapinstance"
)

// Notifier reminds users that they did not answer a raid yet.
type Notifier interface {
	NotifyMissingSubscriptions(ctx context.Context, raid lapinstance.Raid, users []lapinstance.User) error
}

// LogNotifier writes the reminders to the log instead of sending them.
type LogNotifier struct {
	logger *log.Logger
}

func NewLogNotifier(logger *log.Logger) *LogNotifier {
	if logger == nil {
		logger = log.Default().WithPrefix("notify")
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) NotifyMissingSubscriptions(_ context.Context, raid lapinstance.Raid, users []lapinstance.User) error {
	for _, u := range users {
		n.logger.Info("reminding user to answer raid",
			"user", u.Name,
			"discord_id", u.DiscordID,
			"raid_id", raid.ID,
			"raid", raid.RaidType.Label(),
			"date", raid.Time().UTC(),
		)
	}
	return nil
}
