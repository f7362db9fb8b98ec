package api

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-backend/internal/auth"
	"booking-backend/internal/store"
)

type signInRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// SignIn authenticates a user by email and password and issues an access
// token. The token is also mirrored into an httpOnly cookie so browser
// clients stay signed in without storing it themselves.
func (h *Handler) SignIn(c *gin.Context) {
	var req signInRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Email == "" || req.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "모든 필드값을 전송해주세요."})
		return
	}

	user, err := h.store.GetUserByEmail(c.Request.Context(), req.Email)
	if errors.Is(err, store.ErrUserNotFound) || (err == nil && !auth.CheckPassword(user.Password, req.Password)) {
		c.JSON(http.StatusUnauthorized, gin.H{"message": "이메일 또는 비밀번호를 확인해 주세요."})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	token, err := h.tokens.Issue(user.ID, user.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	// The cookie lives exactly as long as the token it carries.
	c.SetCookie("token", token, int(h.tokens.TTL().Seconds()), "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{
		"accessToken": token,
		"user":        user,
		"message":     "배움의 기쁨을 세상 모두에게. 오늘도 환영합니다 :)",
	})
}

// SignOut clears the token cookie.
func (h *Handler) SignOut(c *gin.Context) {
	c.SetCookie("token", "", -1, "/", "", false, true)
	c.JSON(http.StatusOK, gin.H{"message": "로그아웃되었습니다."})
}
