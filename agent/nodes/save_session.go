package orchestratornode

import (
	"context"
	"fmt"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
	sessionx "github.com/aryansharma/shopassistant/agent/session"
)

func SaveSession(ctx context.Context, in *GraphState, store sessionx.Store) (*GraphState, error) {
	if in == nil || in.Session == nil {
		return nil, fmt.Errorf("%w: graph state is incomplete", contractx.ErrValidation)
	}

	if err := store.Save(ctx, in.Session); err != nil {
		return nil, fmt.Errorf("save session state: %w", err)
	}
	return in, nil
}
