package domain

import "context"

// AssistPort is the surface web callers use, every call blocks until the
// bridge resolves or times out
type AssistPort interface {
	UnderstandText(ctx context.Context, in UnderstandTextInput) (UnderstandTextResult, error)
	ClassifyEvent(ctx context.Context, in ClassifyEventInput) (ClassifyEventResult, error)
	OptimizeSchedule(ctx context.Context, in OptimizeScheduleInput) (OptimizeScheduleResult, error)
}
