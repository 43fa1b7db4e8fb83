package mutator

import (
	"context"
	"sync"

	"github.com/soyunomas/folderly/internal/entities"
)

// Confirmer decides whether a destructive request may proceed.
type Confirmer interface {
	Confirm(ctx context.Context, req entities.MutationRequest) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, req entities.MutationRequest) bool

func (f ConfirmFunc) Confirm(ctx context.Context, req entities.MutationRequest) bool {
	return f(ctx, req)
}

// Decision returns a Confirmer that always gives the same answer.
func Decision(yes bool) Confirmer {
	return ConfirmFunc(func(context.Context, entities.MutationRequest) bool { return yes })
}

// Once asks c a single time and reuses that answer for every later request.
func Once(c Confirmer) Confirmer {
	var (
		once   sync.Once
		answer bool
	)
	return ConfirmFunc(func(ctx context.Context, req entities.MutationRequest) bool {
		once.Do(func() {
			answer = c != nil && c.Confirm(ctx, req)
		})
		return answer
	})
}
