package service_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MouazMsh/Bookfliy/internal/model"
	"github.com/MouazMsh/Bookfliy/internal/repository"
	"github.com/MouazMsh/Bookfliy/internal/service"
	"github.com/MouazMsh/Bookfliy/internal/storetest"
)

func seedUser(t *testing.T, stores *storetest.Stores, name, username string) *model.User {
	t.Helper()
	user := &model.User{
		Name:         name,
		Username:     username,
		Email:        username + "@x.com",
		PasswordHash: "hash",
		Role:         model.RoleUser,
	}
	require.NoError(t, stores.Users.Create(context.Background(), user))
	return user
}

func TestFriendService_SendRequestValidation(t *testing.T) {
	ctx := context.Background()
	stores := storetest.New()
	friends := service.NewFriendService(stores.Friends, stores.Users)

	alice := seedUser(t, stores, "Alice", "alice")
	seedUser(t, stores, "Bob", "bob")

	err := friends.SendRequest(ctx, alice.ID, "nobody")
	assert.ErrorIs(t, err, repository.ErrUserNotFound)

	err = friends.SendRequest(ctx, alice.ID, "alice")
	assert.ErrorIs(t, err, service.ErrCannotAddSelf)

	require.NoError(t, friends.SendRequest(ctx, alice.ID, "bob"))
	assert.Equal(t, 1, stores.Friends.PendingCount())

	// A second identical request is rejected and creates no duplicate row.
	err = friends.SendRequest(ctx, alice.ID, "bob")
	assert.ErrorIs(t, err, repository.ErrRequestPending)
	assert.Equal(t, 1, stores.Friends.PendingCount())
}

// The duplicate check only looks at requests sent by the caller. Bob
// requesting Alice while Alice's request to Bob is still pending creates a
// second, opposite-direction pending instead of auto-accepting.
func TestFriendService_ReversePendingIsNotAutoResolved(t *testing.T) {
	ctx := context.Background()
	stores := storetest.New()
	friends := service.NewFriendService(stores.Friends, stores.Users)

	alice := seedUser(t, stores, "Alice", "alice")
	bob := seedUser(t, stores, "Bob", "bob")

	require.NoError(t, friends.SendRequest(ctx, alice.ID, "bob"))
	require.NoError(t, friends.SendRequest(ctx, bob.ID, "alice"))

	assert.Equal(t, 2, stores.Friends.PendingCount())
	assert.False(t, stores.Friends.FriendshipExists(alice.ID, bob.ID))
}

func TestFriendService_CrossedRequestsAcceptedOnBothSides(t *testing.T) {
	ctx := context.Background()
	stores := storetest.New()
	friends := service.NewFriendService(stores.Friends, stores.Users)

	alice := seedUser(t, stores, "Alice", "alice")
	bob := seedUser(t, stores, "Bob", "bob")

	require.NoError(t, friends.SendRequest(ctx, alice.ID, "bob"))
	require.NoError(t, friends.SendRequest(ctx, bob.ID, "alice"))

	require.NoError(t, friends.AcceptRequest(ctx, bob.ID, alice.ID))
	require.NoError(t, friends.AcceptRequest(ctx, alice.ID, bob.ID))

	// The second accept only clears its notification; the friendship and the
	// counters must not double up.
	assert.Equal(t, 0, stores.Friends.PendingCount())
	assert.True(t, stores.Friends.FriendshipExists(alice.ID, bob.ID))
	assert.True(t, stores.Friends.FriendshipExists(bob.ID, alice.ID))

	aliceNow, _ := stores.Users.GetByID(ctx, alice.ID)
	bobNow, _ := stores.Users.GetByID(ctx, bob.ID)
	assert.Equal(t, 1, aliceNow.FriendNum)
	assert.Equal(t, 1, bobNow.FriendNum)

	require.NoError(t, friends.RemoveFriend(ctx, alice.ID, bob.ID))

	aliceNow, _ = stores.Users.GetByID(ctx, alice.ID)
	bobNow, _ = stores.Users.GetByID(ctx, bob.ID)
	assert.Equal(t, 0, aliceNow.FriendNum)
	assert.Equal(t, 0, bobNow.FriendNum)
	assert.False(t, stores.Friends.FriendshipExists(alice.ID, bob.ID))
}

func TestFriendService_AcceptMakesSymmetricFriendship(t *testing.T) {
	ctx := context.Background()
	stores := storetest.New()
	friends := service.NewFriendService(stores.Friends, stores.Users)

	alice := seedUser(t, stores, "Alice", "alice")
	bob := seedUser(t, stores, "Bob", "bob")

	require.NoError(t, friends.SendRequest(ctx, alice.ID, "bob"))
	require.NoError(t, friends.AcceptRequest(ctx, bob.ID, alice.ID))

	assert.True(t, stores.Friends.FriendshipExists(alice.ID, bob.ID))
	assert.True(t, stores.Friends.FriendshipExists(bob.ID, alice.ID))
	assert.Equal(t, 0, stores.Friends.PendingCount(), "notification must be gone")

	aliceNow, _ := stores.Users.GetByID(ctx, alice.ID)
	bobNow, _ := stores.Users.GetByID(ctx, bob.ID)
	assert.Equal(t, 1, aliceNow.FriendNum)
	assert.Equal(t, 1, bobNow.FriendNum)

	aliceFriends, err := friends.Friends(ctx, alice.ID)
	require.NoError(t, err)
	require.Len(t, aliceFriends, 1)
	assert.Equal(t, "bob", aliceFriends[0].Username)

	bobFriends, err := friends.Friends(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, bobFriends, 1)
	assert.Equal(t, "alice", bobFriends[0].Username)
}

func TestFriendService_AcceptWithoutRequest(t *testing.T) {
	ctx := context.Background()
	stores := storetest.New()
	friends := service.NewFriendService(stores.Friends, stores.Users)

	alice := seedUser(t, stores, "Alice", "alice")
	bob := seedUser(t, stores, "Bob", "bob")

	err := friends.AcceptRequest(ctx, bob.ID, alice.ID)
	assert.ErrorIs(t, err, repository.ErrRequestNotFound)
}

func TestFriendService_DeclineLeavesNoFriendship(t *testing.T) {
	ctx := context.Background()
	stores := storetest.New()
	friends := service.NewFriendService(stores.Friends, stores.Users)

	alice := seedUser(t, stores, "Alice", "alice")
	bob := seedUser(t, stores, "Bob", "bob")

	require.NoError(t, friends.SendRequest(ctx, alice.ID, "bob"))
	require.NoError(t, friends.DeclineRequest(ctx, bob.ID, alice.ID))

	assert.Equal(t, 0, stores.Friends.PendingCount())
	assert.False(t, stores.Friends.FriendshipExists(alice.ID, bob.ID))

	aliceNow, _ := stores.Users.GetByID(ctx, alice.ID)
	assert.Equal(t, 0, aliceNow.FriendNum)
}

func TestFriendService_RemoveDeletesBothDirections(t *testing.T) {
	ctx := context.Background()
	stores := storetest.New()
	friends := service.NewFriendService(stores.Friends, stores.Users)

	alice := seedUser(t, stores, "Alice", "alice")
	bob := seedUser(t, stores, "Bob", "bob")

	require.NoError(t, friends.SendRequest(ctx, alice.ID, "bob"))
	require.NoError(t, friends.AcceptRequest(ctx, bob.ID, alice.ID))

	// Either party can remove; here Bob does.
	require.NoError(t, friends.RemoveFriend(ctx, bob.ID, alice.ID))

	assert.False(t, stores.Friends.FriendshipExists(alice.ID, bob.ID))
	assert.False(t, stores.Friends.FriendshipExists(bob.ID, alice.ID))

	aliceNow, _ := stores.Users.GetByID(ctx, alice.ID)
	bobNow, _ := stores.Users.GetByID(ctx, bob.ID)
	assert.Equal(t, 0, aliceNow.FriendNum)
	assert.Equal(t, 0, bobNow.FriendNum)

	err := friends.RemoveFriend(ctx, bob.ID, alice.ID)
	assert.ErrorIs(t, err, repository.ErrNotFriends)
}

func TestFriendService_NotificationsJoinNames(t *testing.T) {
	ctx := context.Background()
	stores := storetest.New()
	friends := service.NewFriendService(stores.Friends, stores.Users)

	alice := seedUser(t, stores, "Alice", "alice")
	bob := seedUser(t, stores, "Bob", "bob")

	require.NoError(t, friends.SendRequest(ctx, alice.ID, "bob"))
	// A request from a sender missing from the directory joins to a nil name.
	require.NoError(t, stores.Friends.CreateRequest(ctx, 999, bob.ID))

	feed, err := friends.Notifications(ctx, bob.ID)
	require.NoError(t, err)
	require.Len(t, feed, 2)

	byFrom := make(map[int64]*model.NotificationView)
	for _, n := range feed {
		byFrom[n.FromUser] = n
	}
	require.NotNil(t, byFrom[alice.ID].Name)
	assert.Equal(t, "Alice", *byFrom[alice.ID].Name)
	assert.Nil(t, byFrom[999].Name)
}

func TestFriendService_NotificationsEmpty(t *testing.T) {
	ctx := context.Background()
	stores := storetest.New()
	friends := service.NewFriendService(stores.Friends, stores.Users)

	alice := seedUser(t, stores, "Alice", "alice")

	feed, err := friends.Notifications(ctx, alice.ID)
	require.NoError(t, err)
	assert.Empty(t, feed)
}
