package domain

import "github.com/MrNoFunsadface/FCommunityBE/pkg/apperr"

var (
	ErrUserNotFound    = apperr.NotFound("user not found")
	ErrChatNotFound    = apperr.NotFound("chat not found")
	ErrRequestNotFound = apperr.NotFound("no pending friend request from this user")

	ErrEmailTaken     = apperr.Conflict("email is already registered")
	ErrRequestExists  = apperr.Conflict("friend request already sent")
	ErrAlreadyFriends = apperr.Conflict("users are already friends")
	ErrAlreadyMember  = apperr.Conflict("user is already a member of this chat")

	ErrNotFriends = apperr.Forbidden("users are not friends")
	ErrNotMember  = apperr.Forbidden("not a member of this chat")
	ErrNotCreator = apperr.Forbidden("only the group creator may do this")

	ErrSelfRequest   = apperr.InvalidOp("cannot send a friend request to yourself")
	ErrNotGroup      = apperr.InvalidOp("chat is not a group")
	ErrGroupTooSmall = apperr.InvalidOp("a group requires at least 3 members")

	ErrEmptyGroupName = apperr.InvalidArg("group name cannot be empty")
	ErrEmptyMessage   = apperr.InvalidArg("message text cannot be empty")
)
