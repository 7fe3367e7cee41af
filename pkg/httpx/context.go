package httpx

import "context"

type ctxKey string

const CtxKeyGuardState ctxKey = "guard_state"

// GuardStateFromContext returns the state the route guard decided on.
func GuardStateFromContext(ctx context.Context) (GuardState, bool) {
	st, ok := ctx.Value(CtxKeyGuardState).(GuardState)
	return st, ok
}
