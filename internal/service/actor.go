package service

import (
	"context"
	"errors"

	"medreps/internal/directory"
	"medreps/internal/models"
)

var (
	ErrUnauthenticated       = errors.New("unauthenticated")
	ErrForbidden             = errors.New("forbidden")
	ErrUnknownRepresentative = errors.New("unknown representative")
)

type actorKey struct{}

// WithActor attaches the authenticated caller to ctx.
func WithActor(ctx context.Context, actor models.Identity) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

func ActorFrom(ctx context.Context) (models.Identity, bool) {
	actor, ok := ctx.Value(actorKey{}).(models.Identity)
	return actor, ok
}

// owner decides which representative a write is recorded against. A
// representative always writes as themselves; the manager must name a
// representative known to the directory.
func owner(ctx context.Context, dir *directory.Directory, requested string) (code string, name string, err error) {
	actor, ok := ActorFrom(ctx)
	if !ok {
		return "", "", ErrUnauthenticated
	}

	if !actor.IsManager() {
		if requested != "" && requested != actor.Code {
			return "", "", ErrForbidden
		}
		return actor.Code, actor.Name, nil
	}

	rep, ok := dir.Representative(requested)
	if !ok {
		return "", "", ErrUnknownRepresentative
	}
	return rep.Code, rep.Name, nil
}

// readScope resolves a list filter. all is true when the caller may see every row.
func readScope(ctx context.Context, filter string) (code string, all bool, err error) {
	actor, ok := ActorFrom(ctx)
	if !ok {
		return "", false, ErrUnauthenticated
	}

	if actor.IsManager() {
		return filter, filter == "", nil
	}
	if filter != "" && filter != actor.Code {
		return "", false, ErrForbidden
	}
	return actor.Code, false, nil
}

// canModify reports whether the actor may mutate a row owned by representative.
func canModify(ctx context.Context, representative string) error {
	actor, ok := ActorFrom(ctx)
	if !ok {
		return ErrUnauthenticated
	}
	if actor.IsManager() || actor.Code == representative {
		return nil
	}
	return ErrForbidden
}
