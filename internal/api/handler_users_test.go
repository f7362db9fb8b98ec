package api

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-backend/internal/model"
)

func TestUserHandlers(t *testing.T) {
	router, s, tm := newTestAPI(t)
	_, adminToken := signedInUser(t, s, tm, "useradmin", model.RoleAdmin)

	w := doJSON(router, http.MethodPost, "/users", adminToken, gin.H{
		"name":     "지민",
		"email":    "jimin@example.com",
		"password": "initial-pw",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "새로운 사용자가 생성되었습니다.", body["message"])
	created, ok := body["user"].(map[string]any)
	require.True(t, ok)
	userID, _ := created["id"].(string)
	require.True(t, model.IsValidID(userID))
	// The hash never leaves the server.
	assert.NotContains(t, w.Body.String(), "initial-pw")
	assert.NotContains(t, w.Body.String(), "password")

	// Duplicate email.
	w = doJSON(router, http.MethodPost, "/users", adminToken, gin.H{
		"name": "짝퉁", "email": "jimin@example.com",
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "이미 존재하는 이메일입니다.", decodeBody(t, w)["message"])

	w = doJSON(router, http.MethodGet, "/users/"+userID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "지민", decodeBody(t, w)["name"])

	w = doJSON(router, http.MethodGet, "/users/invalid", adminToken, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "유효하지 않은 사용자 ID입니다.", decodeBody(t, w)["message"])

	w = doJSON(router, http.MethodPatch, "/users/"+userID, adminToken, gin.H{"name": "지민2"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "사용자 정보가 성공적으로 업데이트되었습니다.", decodeBody(t, w)["message"])

	w = doJSON(router, http.MethodDelete, "/users/"+userID, adminToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	w = doJSON(router, http.MethodDelete, "/users/"+userID, adminToken, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateMyPassword(t *testing.T) {
	router, s, tm := newTestAPI(t)
	user, token := signedInUser(t, s, tm, "selfservice", model.RoleMember)

	// Wrong current password.
	w := doJSON(router, http.MethodPatch, "/users/me/password", token, gin.H{
		"password": "wrong", "newPassword": "next-pw",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "비밀번호가 일치하지 않습니다.", decodeBody(t, w)["message"])

	w = doJSON(router, http.MethodPatch, "/users/me/password", token, gin.H{
		"password": "pw-selfservice", "newPassword": "next-pw",
	})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "비밀번호가 변경되었습니다.", decodeBody(t, w)["message"])

	// The new password signs in, the old one does not.
	w = doJSON(router, http.MethodPost, "/sign-in", "", gin.H{"email": user.Email, "password": "pw-selfservice"})
	require.Equal(t, http.StatusUnauthorized, w.Code)
	w = doJSON(router, http.MethodPost, "/sign-in", "", gin.H{"email": user.Email, "password": "next-pw"})
	require.Equal(t, http.StatusOK, w.Code)
}

func TestUpdateMyProfileImage(t *testing.T) {
	router, s, tm := newTestAPI(t)
	user, token := signedInUser(t, s, tm, "pictured", model.RoleMember)

	w := doJSON(router, http.MethodPatch, "/users/me/image", token, gin.H{})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "사진이 누락되었습니다.", decodeBody(t, w)["message"])

	w = doJSON(router, http.MethodPatch, "/users/me/image", token, gin.H{"profileImage": "https://cdn.example.com/me.png"})
	require.Equal(t, http.StatusOK, w.Code)

	loaded, err := s.GetUser(t.Context(), user.ID)
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/me.png", loaded.ProfileImage)
}
