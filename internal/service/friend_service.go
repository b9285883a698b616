package service

import (
	"errors"
	"go-shift-planner/internal/model"
	"go-shift-planner/internal/repository"
)

// 处理好友请求和好友关系。
// 好友关系同时是日历成员邀请的资格来源。
type FriendService struct {
	friendRepo *repository.FriendRepository
	userRepo   *repository.UserRepository
}

func NewFriendService(friendRepo *repository.FriendRepository, userRepo *repository.UserRepository) *FriendService {
	return &FriendService{
		friendRepo: friendRepo,
		userRepo:   userRepo,
	}
}

// 发送好友请求。对方已经发过来的话直接接受。
func (s *FriendService) SendRequest(senderID, receiverID int64) error {
	if senderID == receiverID {
		return errors.New("cannot send friend request to yourself")
	}
	receiver, err := s.userRepo.FindByID(receiverID)
	if err != nil {
		return err
	}
	if receiver == nil {
		return ErrNotFound
	}

	already, err := s.friendRepo.AreFriends(senderID, receiverID)
	if err != nil {
		return err
	}
	if already {
		return errors.New("already friends")
	}

	// 反向请求已存在则互相接受
	reverse, err := s.friendRepo.FindRequestBetween(receiverID, senderID)
	if err != nil {
		return err
	}
	if reverse != nil {
		return s.friendRepo.AcceptRequest(reverse)
	}

	existing, err := s.friendRepo.FindRequestBetween(senderID, receiverID)
	if err != nil {
		return err
	}
	if existing != nil {
		return errors.New("friend request already sent")
	}

	return s.friendRepo.CreateRequest(&model.FriendRequest{
		SenderID:   senderID,
		ReceiverID: receiverID,
	})
}

// 接受请求。只有接收者可以接受。
func (s *FriendService) AcceptRequest(requestID, userID int64) error {
	req, err := s.friendRepo.FindRequestByID(requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrNotFound
	}
	if req.ReceiverID != userID {
		return ErrAccessDenied
	}
	return s.friendRepo.AcceptRequest(req)
}

// 拒绝请求。只有接收者可以拒绝。
func (s *FriendService) DeclineRequest(requestID, userID int64) error {
	req, err := s.friendRepo.FindRequestByID(requestID)
	if err != nil {
		return err
	}
	if req == nil {
		return ErrNotFound
	}
	if req.ReceiverID != userID {
		return ErrAccessDenied
	}
	return s.friendRepo.DeleteRequest(requestID)
}

func (s *FriendService) ListIncomingRequests(userID int64) ([]model.FriendRequest, error) {
	return s.friendRepo.FindIncomingRequests(userID)
}

func (s *FriendService) ListFriends(userID int64) ([]model.User, error) {
	return s.friendRepo.FindFriends(userID)
}
