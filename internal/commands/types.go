package commands

import (
	"time"

	"github.com/aifusion/aifusionbot/internal/telegram"
)

type Command interface {
	Name() string
	Aliases() []string
	Handle(update telegram.Update) error
	Execute(update telegram.Update) error
	GetQueueConfig() QueueConfig
	Requirements() Requirements
}

// Requirements is the declared precondition set of a command, checked
// uniformly before the handler body runs.
type Requirements struct {
	ChatKey  bool
	ImageKey bool
	History  bool
	Args     bool
}

type ThrottleConfig struct {
	Period      time.Duration
	Requests    int
	Concurrency int
}

type QueueConfig struct {
	MaxRetries int
	RetryDelay time.Duration
	Timeout    time.Duration
	Throttle   ThrottleConfig
}
