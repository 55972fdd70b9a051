package imagine

import (
	"context"
	"time"

	"github.com/aifusion/aifusionbot/internal/ai"
)

type State string

const (
	StatePromptReceived State = "prompt_received"
	StatePromptEnhanced State = "prompt_enhanced"
	StateImageRequested State = "image_requested"
	StateCompleted      State = "completed"
	StateFailed         State = "failed"
)

// FailStage names the step a failed run broke at.
type FailStage string

const (
	FailStageEnhance  FailStage = "enhance"
	FailStageGenerate FailStage = "generate"
)

// Result is the terminal outcome of one generation run. State is either
// StateCompleted or StateFailed; FailedAt is set only on failure.
type Result struct {
	State          State
	EnhancedPrompt string
	Image          []byte
	Elapsed        time.Duration
	FailedAt       FailStage
	FailReason     string
	Err            error
}

// Workflow is the enhance-then-generate sequence. The enhanced prompt,
// never the raw one, is what reaches the image generator.
type Workflow struct {
	enhancer  ai.ChatClient
	generator ai.ImageClient
}

func NewWorkflow(enhancer ai.ChatClient, generator ai.ImageClient) *Workflow {
	return &Workflow{
		enhancer:  enhancer,
		generator: generator,
	}
}

// Run drives the state machine to a terminal state. onTransition is
// called at every state entry, including the terminal one.
func (w *Workflow) Run(ctx context.Context, prompt, chatKey, imageKey string, onTransition func(State)) Result {
	if onTransition == nil {
		onTransition = func(State) {}
	}
	start := time.Now()

	onTransition(StatePromptReceived)

	enhanced, err := w.enhancer.EnhancePrompt(ctx, prompt, chatKey)
	if err != nil || enhanced == "" {
		onTransition(StateFailed)
		return Result{
			State:      StateFailed,
			Elapsed:    time.Since(start),
			FailedAt:   FailStageEnhance,
			FailReason: "enhancement failed",
			Err:        err,
		}
	}
	onTransition(StatePromptEnhanced)

	onTransition(StateImageRequested)
	image, err := w.generator.Generate(ctx, enhanced, imageKey)
	if err != nil {
		onTransition(StateFailed)
		return Result{
			State:          StateFailed,
			EnhancedPrompt: enhanced,
			Elapsed:        time.Since(start),
			FailedAt:       FailStageGenerate,
			FailReason:     err.Error(),
			Err:            err,
		}
	}

	onTransition(StateCompleted)
	return Result{
		State:          StateCompleted,
		EnhancedPrompt: enhanced,
		Image:          image,
		Elapsed:        time.Since(start),
	}
}
