package handler

import (
	"errors"

	"github.com/gin-gonic/gin"

	"github.com/MouazMsh/Bookfliy/internal/middleware"
	"github.com/MouazMsh/Bookfliy/internal/repository"
	"github.com/MouazMsh/Bookfliy/internal/service"
	"github.com/MouazMsh/Bookfliy/pkg/respond"
)

// FriendHandler serves the profile page and the friend-request transitions.
// Every transition redirects to /profile; the outcome travels only in the
// flash message.
type FriendHandler struct {
	friends  *service.FriendService
	users    *service.UserService
	sessions service.SessionStore
}

// NewFriendHandler creates a friend handler.
func NewFriendHandler(friends *service.FriendService, users *service.UserService, sessions service.SessionStore) *FriendHandler {
	return &FriendHandler{friends: friends, users: users, sessions: sessions}
}

// Profile renders the current user with their friend list and the pending
// request feed.
// GET /profile
func (h *FriendHandler) Profile(c *gin.Context) {
	userID := middleware.GetUserID(c)
	ctx := c.Request.Context()

	user, err := h.users.GetByID(ctx, userID)
	if err != nil {
		respond.ServerError(c, err)
		return
	}
	friends, err := h.friends.Friends(ctx, userID)
	if err != nil {
		respond.ServerError(c, err)
		return
	}
	notifications, err := h.friends.Notifications(ctx, userID)
	if err != nil {
		respond.ServerError(c, err)
		return
	}

	message, _ := consumeFlash(c, h.sessions)
	respond.Page(c, "profile.html", gin.H{
		"User":          user,
		"Friends":       friends,
		"Notifications": notifications,
		"Message":       message,
	})
}

// Add sends a friend request to the submitted username.
// POST /addfriends (friendusername)
func (h *FriendHandler) Add(c *gin.Context) {
	userID := middleware.GetUserID(c)
	username := c.PostForm("friendusername")

	err := h.friends.SendRequest(c.Request.Context(), userID, username)
	switch {
	case err == nil:
		setFlash(c, h.sessions, "Friend request sent", false)
	case errors.Is(err, repository.ErrUserNotFound):
		setFlash(c, h.sessions, "User not found", false)
	case errors.Is(err, service.ErrCannotAddSelf):
		setFlash(c, h.sessions, "You cannot add yourself as a friend", false)
	case errors.Is(err, repository.ErrAlreadyFriends):
		setFlash(c, h.sessions, "You are already friends", false)
	case errors.Is(err, repository.ErrRequestPending):
		setFlash(c, h.sessions, "Friend request already sent", false)
	default:
		respond.ServerError(c, err)
		return
	}

	respond.Redirect(c, "/profile")
}

// Accept turns a pending request into a friendship.
// POST /acceptrequest (requestfrom = sender's user id)
func (h *FriendHandler) Accept(c *gin.Context) {
	userID := middleware.GetUserID(c)
	fromUser, ok := formInt64(c, "requestfrom")
	if !ok {
		setFlash(c, h.sessions, "Friend request not found", false)
		respond.Redirect(c, "/profile")
		return
	}

	err := h.friends.AcceptRequest(c.Request.Context(), userID, fromUser)
	switch {
	case err == nil:
		setFlash(c, h.sessions, "Friend request accepted", false)
	case errors.Is(err, repository.ErrRequestNotFound):
		setFlash(c, h.sessions, "Friend request not found", false)
	default:
		respond.ServerError(c, err)
		return
	}

	respond.Redirect(c, "/profile")
}

// Decline drops a pending request.
// POST /removerequest (requestfrom = sender's user id)
func (h *FriendHandler) Decline(c *gin.Context) {
	userID := middleware.GetUserID(c)
	fromUser, ok := formInt64(c, "requestfrom")
	if !ok {
		setFlash(c, h.sessions, "Friend request not found", false)
		respond.Redirect(c, "/profile")
		return
	}

	err := h.friends.DeclineRequest(c.Request.Context(), userID, fromUser)
	switch {
	case err == nil:
		setFlash(c, h.sessions, "Friend request removed", false)
	case errors.Is(err, repository.ErrRequestNotFound):
		setFlash(c, h.sessions, "Friend request not found", false)
	default:
		respond.ServerError(c, err)
		return
	}

	respond.Redirect(c, "/profile")
}

// Remove dissolves a friendship from either side.
// POST /removefriends (friendid)
func (h *FriendHandler) Remove(c *gin.Context) {
	userID := middleware.GetUserID(c)
	friendID, ok := formInt64(c, "friendid")
	if !ok {
		setFlash(c, h.sessions, "You are not friends", false)
		respond.Redirect(c, "/profile")
		return
	}

	err := h.friends.RemoveFriend(c.Request.Context(), userID, friendID)
	switch {
	case err == nil:
		setFlash(c, h.sessions, "Friend removed", false)
	case errors.Is(err, repository.ErrNotFriends):
		setFlash(c, h.sessions, "You are not friends", false)
	default:
		respond.ServerError(c, err)
		return
	}

	respond.Redirect(c, "/profile")
}
