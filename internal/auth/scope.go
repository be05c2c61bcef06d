package auth

import (
	"context"
	"errors"
)

type ctxKey string

const ContextUserKey ctxKey = "user"

var ErrForbidden = errors.New("forbidden")

func UserFromContext(ctx context.Context) (*User, bool) {
	u, ok := ctx.Value(ContextUserKey).(*User)
	return u, ok
}

func ContextWithUser(ctx context.Context, u *User) context.Context {
	return context.WithValue(ctx, ContextUserKey, u)
}

// ChildLister resolves the direct children of a user in the hierarchy.
type ChildLister interface {
	ChildIDs(parentID int64) ([]int64, error)
}

// Scope is the visibility window of one actor, applied by every repository
// query. Resources are visible when their owner (admin column) is in OwnerIDs
// or their creator equals CreatorID. Filtering doubles as an existence check:
// anything outside the scope reads as not-found, never as forbidden.
type Scope struct {
	Actor     *User
	OwnerIDs  []int64
	CreatorID int64
}

// ScopeFor computes the visible owner set for an actor.
//
//   - Director: themself plus every user they created (their Admins own
//     products too). Never another Director's tree.
//   - Admin: themself and their Director.
//   - Seller: their Director's resources plus anything they created.
func ScopeFor(actor *User, children ChildLister) (*Scope, error) {
	s := &Scope{Actor: actor, CreatorID: actor.ID}

	switch actor.Role {
	case RoleDirector:
		ids, err := children.ChildIDs(actor.ID)
		if err != nil {
			return nil, err
		}
		s.OwnerIDs = append([]int64{actor.ID}, ids...)
	case RoleAdmin:
		s.OwnerIDs = []int64{actor.ID, actor.DirectorID()}
	case RoleSeller:
		s.OwnerIDs = []int64{actor.DirectorID()}
	default:
		return nil, ErrForbidden
	}

	return s, nil
}

// CanManage is the canonical ownership predicate for writes, given a resource
// already fetched through this scope: the actor mutates it when they created
// it, own it, or are the Director of the tree it was fetched from.
func (s *Scope) CanManage(ownerID, creatorID int64) bool {
	if s.Actor.ID == ownerID || s.Actor.ID == creatorID {
		return true
	}
	return s.Actor.IsDirector()
}

// Sees reports whether an owner id is inside the scope.
func (s *Scope) Sees(ownerID int64) bool {
	for _, id := range s.OwnerIDs {
		if id == ownerID {
			return true
		}
	}
	return false
}
