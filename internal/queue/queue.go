package queue

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"github.com/aifusion/aifusionbot/internal/commands"
	"github.com/aifusion/aifusionbot/internal/logger"
	"github.com/aifusion/aifusionbot/internal/telegram"
)

type TaskStatus string

const (
	TaskStatusPending  TaskStatus = "pending"
	TaskStatusRunning  TaskStatus = "running"
	TaskStatusComplete TaskStatus = "complete"
	TaskStatusFailed   TaskStatus = "failed"
)

type Task struct {
	ID          string
	Command     string
	Update      telegram.Update
	RetryCount  int
	MaxRetries  int
	RetryDelay  time.Duration
	NextAttempt time.Time
	Status      TaskStatus
}

// Queue holds per-command task lists in memory and drains them through
// rate-limited workers. Tasks do not survive a restart.
type Queue struct {
	mu                sync.Mutex
	tasks             map[string][]*Task
	commandLimiters   map[string]*rate.Limiter
	commandSemaphores map[string]chan struct{}
	logger            logger.Logger
}

func NewQueue(logger logger.Logger) *Queue {
	return &Queue{
		tasks:             make(map[string][]*Task),
		commandLimiters:   make(map[string]*rate.Limiter),
		commandSemaphores: make(map[string]chan struct{}),
		logger:            logger,
	}
}

func (q *Queue) Add(cmd commands.Command, update telegram.Update, maxRetries int, retryDelay time.Duration) error {
	cmdName := cmd.Name()
	if cmdName == "" {
		return fmt.Errorf("command name cannot be empty")
	}

	task := &Task{
		ID:          uuid.NewString(),
		Command:     cmdName,
		Update:      update,
		MaxRetries:  maxRetries,
		RetryDelay:  retryDelay,
		NextAttempt: time.Now(),
		Status:      TaskStatusPending,
	}

	q.mu.Lock()
	q.tasks[cmdName] = append(q.tasks[cmdName], task)
	q.mu.Unlock()

	q.logger.WithFields(logger.Fields{
		"command": cmdName,
		"task_id": task.ID,
	}).Debug("Task added to queue")
	return nil
}

func (q *Queue) Start(ctx context.Context, handlers map[string]commands.Command) {
	for cmd, handler := range handlers {
		cfg := handler.GetQueueConfig()

		interval := cfg.Throttle.Period / time.Duration(cfg.Throttle.Requests)
		q.logger.WithFields(logger.Fields{
			"command":     cmd,
			"period":      cfg.Throttle.Period,
			"requests":    cfg.Throttle.Requests,
			"interval":    interval,
			"concurrency": cfg.Throttle.Concurrency,
		}).Info("Configured rate limiter")

		q.commandLimiters[cmd] = rate.NewLimiter(
			rate.Every(interval),
			cfg.Throttle.Requests,
		)
		q.commandSemaphores[cmd] = make(chan struct{}, cfg.Throttle.Concurrency)
		go q.processCommandQueue(ctx, cmd, handler)
	}
}

func (q *Queue) processCommandQueue(ctx context.Context, command string, handler commands.Command) {
	sem := q.commandSemaphores[command]
	lim := q.commandLimiters[command]

	for range cap(sem) {
		go q.taskWorker(ctx, command, handler, sem, lim)
	}

	<-ctx.Done()
}

func (q *Queue) taskWorker(ctx context.Context, command string, h commands.Command, sem chan struct{}, lim *rate.Limiter) {
	log := q.logger.WithField("command", command)
	log.Debug("Worker started")
	defer func() {
		log.Debug("Worker stopped")
		if r := recover(); r != nil {
			log.Error(fmt.Sprintf("recovered from panic: %v", r))
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case sem <- struct{}{}:
			task := q.claimTask(command)
			<-sem

			if task == nil {
				log.Trace("No tasks available")
				select {
				case <-time.After(1 * time.Second):
				case <-ctx.Done():
					return
				}
				continue
			}

			reserve := lim.Reserve()
			if delay := reserve.Delay(); delay > 0 {
				log.WithFields(logger.Fields{
					"task":     task.ID,
					"wait_for": delay.String(),
				}).Debug("Rate limiting - delaying task")

				select {
				case <-time.After(delay):
				case <-ctx.Done():
					reserve.Cancel()
					log.Debug("Cancelled due to context")
					return
				}
			}

			if err := q.handleTask(ctx, task, h); err != nil {
				log.WithError(err).WithField("task_id", task.ID).Error("Task processing failed")
			}
		}
	}
}

// claimTask pops the oldest pending task whose next attempt is due and
// marks it running.
func (q *Queue) claimTask(command string) *Task {
	q.mu.Lock()
	defer q.mu.Unlock()

	now := time.Now()
	for _, task := range q.tasks[command] {
		if task.Status == TaskStatusPending && !task.NextAttempt.After(now) {
			task.Status = TaskStatusRunning
			return task
		}
	}
	return nil
}

func (q *Queue) setTaskStatus(task *Task, status TaskStatus) {
	q.mu.Lock()
	task.Status = status
	if status == TaskStatusComplete || status == TaskStatusFailed {
		q.removeTask(task)
	}
	q.mu.Unlock()
}

// removeTask drops a finished task from its command list. Caller holds
// the lock.
func (q *Queue) removeTask(task *Task) {
	list := q.tasks[task.Command]
	for i, t := range list {
		if t.ID == task.ID {
			q.tasks[task.Command] = append(list[:i], list[i+1:]...)
			return
		}
	}
}

func (q *Queue) handleTaskError(task *Task) {
	log := q.logger.WithFields(logger.Fields{
		"command":     task.Command,
		"task_id":     task.ID,
		"retry_count": task.RetryCount,
		"max_retries": task.MaxRetries,
	})

	if task.RetryCount >= task.MaxRetries {
		log.Warn("Max retries exceeded, marking as failed")
		q.setTaskStatus(task, TaskStatusFailed)
		return
	}

	var delay time.Duration
	if limiter, exists := q.commandLimiters[task.Command]; exists {
		delay = limiter.Reserve().Delay()
	} else {
		delay = task.RetryDelay
	}

	q.mu.Lock()
	task.RetryCount++
	task.NextAttempt = time.Now().Add(delay)
	task.Status = TaskStatusPending
	q.mu.Unlock()

	log.WithField("next_attempt", task.NextAttempt).Info("Task rescheduled")
}

func (q *Queue) handleTask(ctx context.Context, task *Task, handler commands.Command) error {
	cfg := handler.GetQueueConfig()
	timeout := cfg.Timeout

	log := q.logger.WithFields(logger.Fields{
		"command": task.Command,
		"task_id": task.ID,
	})
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	log.WithField("timeout", timeout.String()).Debug("Start processing task")
	start := time.Now()
	defer func() {
		log.WithFields(logger.Fields{
			"duration": time.Since(start).String(),
			"status":   task.Status,
		}).Debug("Task processing completed")
	}()

	resultCh := make(chan error, 1)
	go func() {
		resultCh <- handler.Execute(task.Update)
	}()

	select {
	case err := <-resultCh:
		if err != nil {
			log.WithError(err).Error("Handler execution failed")
			q.handleTaskError(task)
			return err
		}
	case <-ctx.Done():
		log.WithFields(logger.Fields{
			"actual_duration": time.Since(start).String(),
			"retry_count":     task.RetryCount,
		}).Warn("Execution timeout exceeded")
		q.handleTaskError(task)
		return ctx.Err()
	}

	q.setTaskStatus(task, TaskStatusComplete)
	log.Info("Task completed successfully")
	return nil
}

// Len reports how many tasks are queued for a command, for tests.
func (q *Queue) Len(command string) int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks[command])
}
