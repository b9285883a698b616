package repository

import (
	"errors"
	"go-shift-planner/internal/model"
	"go-shift-planner/pkg/db"

	"gorm.io/gorm"
)

type FriendRepository struct {
	db *gorm.DB
}

func NewFriendRepository() *FriendRepository {
	return &FriendRepository{db: db.DB}
}

// 创建好友请求
func (r *FriendRepository) CreateRequest(req *model.FriendRequest) error {
	return r.db.Create(req).Error
}

// 查找两个用户之间未处理的请求
func (r *FriendRepository) FindRequestBetween(senderID, receiverID int64) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := r.db.Where("sender_id = ? AND receiver_id = ?", senderID, receiverID).First(&req).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

func (r *FriendRepository) FindRequestByID(id int64) (*model.FriendRequest, error) {
	var req model.FriendRequest
	err := r.db.Preload("Sender").First(&req, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &req, nil
}

// 收到的全部请求
func (r *FriendRepository) FindIncomingRequests(userID int64) ([]model.FriendRequest, error) {
	var reqs []model.FriendRequest
	err := r.db.Where("receiver_id = ?", userID).
		Order("created_at DESC").
		Preload("Sender").
		Find(&reqs).Error
	return reqs, err
}

// 接受请求：删除请求并成对写入好友关系
func (r *FriendRepository) AcceptRequest(req *model.FriendRequest) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		pairs := []model.Friendship{
			{UserID: req.SenderID, FriendID: req.ReceiverID},
			{UserID: req.ReceiverID, FriendID: req.SenderID},
		}
		for i := range pairs {
			if err := tx.FirstOrCreate(&pairs[i]).Error; err != nil {
				return err
			}
		}
		return tx.Delete(&model.FriendRequest{}, req.ID).Error
	})
}

// 拒绝请求
func (r *FriendRepository) DeleteRequest(id int64) error {
	return r.db.Delete(&model.FriendRequest{}, id).Error
}

// 判断两个用户是否是好友
func (r *FriendRepository) AreFriends(userID, friendID int64) (bool, error) {
	var count int64
	err := r.db.Model(&model.Friendship{}).
		Where("user_id = ? AND friend_id = ?", userID, friendID).
		Count(&count).Error
	return count > 0, err
}

// 用户的好友列表
func (r *FriendRepository) FindFriends(userID int64) ([]model.User, error) {
	var users []model.User
	err := r.db.Joins("JOIN friendships ON friendships.friend_id = users.id").
		Where("friendships.user_id = ?", userID).
		Find(&users).Error
	return users, err
}
