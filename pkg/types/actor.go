package types

import "context"

// Actor identifies who is calling a service and from where.
type Actor struct {
	UserID    uint
	Username  string
	IsAdmin   bool
	IP        string
	UserAgent string
}

type actorKey struct{}

func WithActor(ctx context.Context, a Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, a)
}

// ActorFrom reports the actor stored on ctx. Anonymous requests have none.
func ActorFrom(ctx context.Context) (Actor, bool) {
	if ctx == nil {
		return Actor{}, false
	}
	a, ok := ctx.Value(actorKey{}).(Actor)
	return a, ok
}

// CanManage reports whether the actor may edit a resource owned by ownerID.
func (a Actor) CanManage(ownerID uint) bool {
	return a.IsAdmin || (a.UserID != 0 && a.UserID == ownerID)
}
