package service

import (
	"context"
	"errors"

	"github.com/MouazMsh/Bookfliy/internal/model"
	"github.com/MouazMsh/Bookfliy/internal/repository"
)

var ErrCannotAddSelf = errors.New("cannot add yourself as friend")

// FriendService implements the friend-request state machine. Per ordered
// pair (A,B) the states are: none, pending A->B, pending B->A, friends.
type FriendService struct {
	friends FriendStore
	users   UserStore
}

// NewFriendService creates a friend service.
func NewFriendService(friends FriendStore, users UserStore) *FriendService {
	return &FriendService{friends: friends, users: users}
}

// SendRequest moves (user, target) from none to pending. The target is
// addressed by username. The duplicate check inspects only requests already
// sent by the caller; a pending request in the opposite direction does not
// block a new one and is not auto-accepted (kept as an open product
// question, see DESIGN.md).
func (s *FriendService) SendRequest(ctx context.Context, userID int64, username string) error {
	target, err := s.users.GetByUsername(ctx, username)
	if err != nil {
		return err
	}
	if target.ID == userID {
		return ErrCannotAddSelf
	}

	isFriend, err := s.friends.AreFriends(ctx, userID, target.ID)
	if err != nil {
		return err
	}
	if isFriend {
		return repository.ErrAlreadyFriends
	}

	pending, err := s.friends.HasPendingFrom(ctx, userID, target.ID)
	if err != nil {
		return err
	}
	if pending {
		return repository.ErrRequestPending
	}

	return s.friends.CreateRequest(ctx, userID, target.ID)
}

// AcceptRequest moves pending from->user to friends. The friendship rows,
// both counters and the notification delete commit atomically.
func (s *FriendService) AcceptRequest(ctx context.Context, userID, fromUser int64) error {
	return s.friends.Accept(ctx, fromUser, userID)
}

// DeclineRequest drops the pending request from->user without forming a
// friendship.
func (s *FriendService) DeclineRequest(ctx context.Context, userID, fromUser int64) error {
	return s.friends.DeleteRequest(ctx, fromUser, userID)
}

// RemoveFriend moves friends back to none for both directions.
func (s *FriendService) RemoveFriend(ctx context.Context, userID, friendID int64) error {
	return s.friends.Remove(ctx, userID, friendID)
}

// Friends returns the user's friend list with display fields.
func (s *FriendService) Friends(ctx context.Context, userID int64) ([]*model.FriendEntry, error) {
	return s.friends.ListFriends(ctx, userID)
}

// Notifications builds the feed: incoming pending requests joined in memory
// against the full user directory. A sender missing from the directory gets
// a nil name rather than an error.
func (s *FriendService) Notifications(ctx context.Context, userID int64) ([]*model.NotificationView, error) {
	incoming, err := s.friends.ListIncoming(ctx, userID)
	if err != nil {
		return nil, err
	}
	if len(incoming) == 0 {
		return nil, nil
	}

	directory, err := s.users.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	names := make(map[int64]string, len(directory))
	for _, u := range directory {
		names[u.ID] = u.Name
	}

	feed := make([]*model.NotificationView, 0, len(incoming))
	for _, n := range incoming {
		view := &model.NotificationView{FromUser: n.FromUser}
		if name, ok := names[n.FromUser]; ok {
			view.Name = &name
		}
		feed = append(feed, view)
	}
	return feed, nil
}
