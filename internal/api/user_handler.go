package api

import (
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"go-shift-planner/internal/repository"
	"go-shift-planner/pkg/config"
	"go-shift-planner/pkg/logger"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const maxAvatarSize = 5 * 1024 * 1024

var allowedAvatarExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true,
	".webp": true, ".heic": true, ".heif": true,
}

type UserHandler struct {
	userRepo *repository.UserRepository
}

func NewUserHandler(userRepo *repository.UserRepository) *UserHandler {
	return &UserHandler{
		userRepo: userRepo,
	}
}

func (h *UserHandler) GetProfile(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}
	user, err := h.userRepo.FindByID(userID)
	if err != nil {
		logger.L.Error("Error fetching user", zap.Error(err), zap.Int64("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch user"})
		return
	}
	if user == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"id":       user.ID,
		"username": user.Username,
		"email":    user.Email,
		"avatar":   user.Avatar,
	})
}

// UploadAvatar 上传头像。文件名用uuid重写，原名只用来取扩展名。
func (h *UserHandler) UploadAvatar(c *gin.Context) {
	userID, ok := getUserIDFromContext(c)
	if !ok {
		return
	}

	file, err := c.FormFile("avatar")
	if err != nil {
		logger.L.Warn("Failed to get avatar from request", zap.Error(err))
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing or invalid file"})
		return
	}

	if file.Size > maxAvatarSize {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": fmt.Sprintf("file too large, max size is %d MB", maxAvatarSize/1024/1024),
		})
		return
	}

	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowedAvatarExts[ext] {
		c.JSON(http.StatusBadRequest, gin.H{"error": "file type not allowed"})
		return
	}

	filename := uuid.NewString() + ext
	dst := filepath.Join(config.GlobalConfig.Upload.AvatarDir, filename)
	if err := c.SaveUploadedFile(file, dst); err != nil {
		logger.L.Error("Failed to store avatar", zap.Error(err), zap.Int64("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to store file"})
		return
	}

	if err := h.userRepo.UpdateAvatar(userID, filename); err != nil {
		logger.L.Error("Failed to update avatar", zap.Error(err), zap.Int64("userID", userID))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update avatar"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"avatar": filename})
}
