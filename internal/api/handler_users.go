package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-backend/internal/auth"
	"booking-backend/internal/mw"
	"booking-backend/internal/store"
)

var userMessages = map[error]string{
	store.ErrInvalidID:      "유효하지 않은 사용자 ID입니다.",
	store.ErrMissingField:   "이름, 이메일은 필수 항목입니다.",
	store.ErrUserNotFound:   "사용자를 찾을 수 없습니다.",
	store.ErrTeamNotFound:   "해당 팀을 찾을 수 없습니다.",
	store.ErrDuplicateEmail: "이미 존재하는 이메일입니다.",
}

// GetUsers lists users, filterable by role and team, sortable by
// newest|oldest|alphabetical.
func (h *Handler) GetUsers(c *gin.Context) {
	users, err := h.store.ListUsers(c.Request.Context(), store.UserFilter{
		Role:       c.Query("role"),
		TeamID:     c.Query("team"),
		SortOption: c.Query("sort"),
	})
	if err != nil {
		respondStoreError(c, err, userMessages)
		return
	}
	c.JSON(http.StatusOK, users)
}

// GetUser returns a single user with their teams.
func (h *Handler) GetUser(c *gin.Context) {
	user, err := h.store.GetUser(c.Request.Context(), c.Param("userId"))
	if err != nil {
		respondStoreError(c, err, userMessages)
		return
	}
	c.JSON(http.StatusOK, user)
}

type createUserRequest struct {
	Name         string   `json:"name"`
	Email        string   `json:"email"`
	Password     string   `json:"password"`
	Role         string   `json:"role"`
	Teams        []string `json:"teams"`
	ProfileImage string   `json:"profileImage"`
}

// CreateUser registers a new user. Admin only.
func (h *Handler) CreateUser(c *gin.Context) {
	var req createUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "이름, 이메일은 필수 항목입니다."})
		return
	}

	user, err := h.store.CreateUser(c.Request.Context(), store.UserInput{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		TeamIDs:      req.Teams,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondStoreError(c, err, userMessages)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": "새로운 사용자가 생성되었습니다.", "user": user})
}

type updateUserRequest struct {
	Name         *string   `json:"name"`
	Email        *string   `json:"email"`
	Password     *string   `json:"password"`
	Role         *string   `json:"role"`
	Teams        *[]string `json:"teams"`
	ProfileImage *string   `json:"profileImage"`
}

// UpdateUser applies a partial update to a user. Admin only.
func (h *Handler) UpdateUser(c *gin.Context) {
	var req updateUserRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "필수 필드가 누락되었습니다."})
		return
	}

	user, err := h.store.UpdateUser(c.Request.Context(), c.Param("userId"), store.UserPatch{
		Name:         req.Name,
		Email:        req.Email,
		Password:     req.Password,
		Role:         req.Role,
		TeamIDs:      req.Teams,
		ProfileImage: req.ProfileImage,
	})
	if err != nil {
		respondStoreError(c, err, userMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "사용자 정보가 성공적으로 업데이트되었습니다.", "user": user})
}

// DeleteUser removes a user and their team memberships. Admin only.
func (h *Handler) DeleteUser(c *gin.Context) {
	if err := h.store.DeleteUser(c.Request.Context(), c.Param("userId")); err != nil {
		respondStoreError(c, err, userMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "사용자가 삭제되었습니다."})
}

type updatePasswordRequest struct {
	Password    string `json:"password"`
	NewPassword string `json:"newPassword"`
}

// UpdateMyPassword changes the caller's own password after verifying the
// current one.
func (h *Handler) UpdateMyPassword(c *gin.Context) {
	var req updatePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Password == "" || req.NewPassword == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "필수 필드가 누락되었습니다."})
		return
	}

	ctx := c.Request.Context()
	user, err := h.store.GetUser(ctx, c.GetString(mw.CtxUserID))
	if err != nil {
		respondStoreError(c, err, userMessages)
		return
	}
	if !auth.CheckPassword(user.Password, req.Password) {
		c.JSON(http.StatusBadRequest, gin.H{"message": "비밀번호가 일치하지 않습니다."})
		return
	}

	if _, err := h.store.UpdateUser(ctx, user.ID, store.UserPatch{Password: &req.NewPassword}); err != nil {
		respondStoreError(c, err, userMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "비밀번호가 변경되었습니다."})
}

type updateProfileImageRequest struct {
	ProfileImage string `json:"profileImage"`
}

// UpdateMyProfileImage changes the caller's own profile image.
func (h *Handler) UpdateMyProfileImage(c *gin.Context) {
	var req updateProfileImageRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.ProfileImage == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "사진이 누락되었습니다."})
		return
	}

	if _, err := h.store.UpdateUser(c.Request.Context(), c.GetString(mw.CtxUserID), store.UserPatch{ProfileImage: &req.ProfileImage}); err != nil {
		respondStoreError(c, err, userMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "프로필 사진이 변경되었습니다."})
}
