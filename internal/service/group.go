package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/Skotchmaster/little_lemon/internal/events"
	"github.com/Skotchmaster/little_lemon/internal/logging"
	"github.com/Skotchmaster/little_lemon/internal/models"
	"github.com/Skotchmaster/little_lemon/internal/repo"
)

// GroupService manages membership of the role groups. Adding and removing
// have set semantics: repeating either call is not an error.
type GroupService struct {
	Repo   *repo.GormRepo
	Events events.Publisher
}

type GroupEvent struct {
	Type     string `json:"type"`
	Group    string `json:"group"`
	UserID   uint   `json:"user_id"`
	Username string `json:"username"`
	At       int64  `json:"at"`
}

func (s *GroupService) group(ctx context.Context, name string) (*models.Group, error) {
	group, err := s.Repo.GetGroupByName(ctx, name)
	if err != nil {
		return nil, mapRepoErr(err, fmt.Sprintf("group %q", name))
	}
	return group, nil
}

func (s *GroupService) userByName(ctx context.Context, username string) (*models.User, error) {
	username = strings.TrimSpace(username)
	if username == "" {
		return nil, fmt.Errorf("username required: %w", ErrValidation)
	}
	user, err := s.Repo.GetUserByUsername(ctx, username)
	if err != nil {
		return nil, mapRepoErr(err, fmt.Sprintf("user %q", username))
	}
	return user, nil
}

func (s *GroupService) publish(ctx context.Context, typ string, group *models.Group, user *models.User) {
	ev := GroupEvent{
		Type:     typ,
		Group:    group.Name,
		UserID:   user.ID,
		Username: user.Username,
		At:       time.Now().Unix(),
	}
	events.Publish(ctx, s.Events, events.TopicGroups, user.Username, ev, logging.FromContext(ctx).Warn)
}

func (s *GroupService) ListGroupUsers(ctx context.Context, groupName string) ([]models.User, error) {
	group, err := s.group(ctx, groupName)
	if err != nil {
		return nil, err
	}
	users, err := s.Repo.ListGroupMembers(ctx, group.ID)
	if err != nil {
		return nil, mapRepoErr(err, "list group members")
	}
	return users, nil
}

func (s *GroupService) AddUserToGroup(ctx context.Context, groupName, username string) (*models.User, error) {
	l := logging.FromContext(ctx).With("svc", "group.add", "group", groupName, "username", username)

	group, err := s.group(ctx, groupName)
	if err != nil {
		return nil, err
	}
	user, err := s.userByName(ctx, username)
	if err != nil {
		return nil, err
	}

	member, err := s.Repo.IsGroupMember(ctx, user.ID, group.ID)
	if err != nil {
		return nil, mapRepoErr(err, "check membership")
	}
	if member {
		return user, nil
	}
	if err := s.Repo.AddUserToGroup(ctx, user, group); err != nil {
		l.Error("add_to_group_error", "error", err)
		return nil, mapRepoErr(err, "add to group")
	}

	l.Info("add_to_group_success", "user_id", user.ID)
	s.publish(ctx, "group_member_added", group, user)
	return user, nil
}

func (s *GroupService) RemoveUserFromGroup(ctx context.Context, groupName, username string) (*models.User, error) {
	group, err := s.group(ctx, groupName)
	if err != nil {
		return nil, err
	}
	user, err := s.userByName(ctx, username)
	if err != nil {
		return nil, err
	}
	return user, s.remove(ctx, group, user)
}

func (s *GroupService) RemoveUserIDFromGroup(ctx context.Context, groupName string, userID uint) (*models.User, error) {
	group, err := s.group(ctx, groupName)
	if err != nil {
		return nil, err
	}
	user, err := s.Repo.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapRepoErr(err, fmt.Sprintf("user %d", userID))
	}
	return user, s.remove(ctx, group, user)
}

func (s *GroupService) remove(ctx context.Context, group *models.Group, user *models.User) error {
	l := logging.FromContext(ctx).With("svc", "group.remove", "group", group.Name, "user_id", user.ID)

	member, err := s.Repo.IsGroupMember(ctx, user.ID, group.ID)
	if err != nil {
		return mapRepoErr(err, "check membership")
	}
	if !member {
		return nil
	}
	if err := s.Repo.RemoveUserFromGroup(ctx, user, group); err != nil {
		l.Error("remove_from_group_error", "error", err)
		return mapRepoErr(err, "remove from group")
	}

	l.Info("remove_from_group_success")
	s.publish(ctx, "group_member_removed", group, user)
	return nil
}
