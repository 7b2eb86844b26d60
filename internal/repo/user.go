package repo

import (
	"context"

	"github.com/Skotchmaster/little_lemon/internal/models"
)

func (r *GormRepo) CreateUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Omit("Groups").Create(u).Error
}

func (r *GormRepo) SaveUser(ctx context.Context, u *models.User) error {
	return r.DB.WithContext(ctx).Omit("Groups").Save(u).Error
}

func (r *GormRepo) GetUserByID(ctx context.Context, id uint) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *GormRepo) GetUserByUsername(ctx context.Context, username string) (*models.User, error) {
	var user models.User
	if err := r.DB.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// GroupNames returns the names of the groups the user belongs to.
func (r *GormRepo) GroupNames(ctx context.Context, userID uint) ([]string, error) {
	var names []string
	if err := r.DB.WithContext(ctx).
		Table("groups").
		Joins("JOIN user_groups ON user_groups.group_id = groups.id").
		Where("user_groups.user_id = ?", userID).
		Order("groups.name ASC").
		Pluck("groups.name", &names).Error; err != nil {
		return nil, err
	}
	return names, nil
}

func (r *GormRepo) GetGroupByName(ctx context.Context, name string) (*models.Group, error) {
	var group models.Group
	if err := r.DB.WithContext(ctx).Where("name = ?", name).First(&group).Error; err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *GormRepo) AddUserToGroup(ctx context.Context, user *models.User, group *models.Group) error {
	return r.DB.WithContext(ctx).Model(user).Association("Groups").Append(group)
}

func (r *GormRepo) RemoveUserFromGroup(ctx context.Context, user *models.User, group *models.Group) error {
	return r.DB.WithContext(ctx).Model(user).Association("Groups").Delete(group)
}

func (r *GormRepo) ListGroupMembers(ctx context.Context, groupID uint) ([]models.User, error) {
	users := []models.User{}
	if err := r.DB.WithContext(ctx).
		Model(&models.User{}).
		Joins("JOIN user_groups ON user_groups.user_id = users.id").
		Where("user_groups.group_id = ?", groupID).
		Order("users.id ASC").
		Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (r *GormRepo) IsGroupMember(ctx context.Context, userID, groupID uint) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Table("user_groups").
		Where("user_id = ? AND group_id = ?", userID, groupID).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}
