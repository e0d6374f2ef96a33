package orchestratornode

import (
	"context"
	"errors"
	"fmt"

	contractx "github.com/aryansharma/shopassistant/agent/contract"
	sessionx "github.com/aryansharma/shopassistant/agent/session"
)

func LoadOrCreateSession(
	ctx context.Context,
	in *GraphState,
	store sessionx.Store,
	userID string,
) (*GraphState, error) {
	if in == nil {
		return nil, fmt.Errorf("%w: graph state is nil", contractx.ErrValidation)
	}

	st, err := store.Load(ctx, in.SessionID)
	if err != nil {
		if !errors.Is(err, sessionx.ErrStateNotFound) {
			return nil, err
		}
		st = sessionx.NewSessionState(in.SessionID, userID, in.Now)
	}
	in.Session = st
	return in, nil
}
