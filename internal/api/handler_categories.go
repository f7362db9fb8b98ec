package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-backend/internal/store"
)

var categoryMessages = map[error]string{
	store.ErrInvalidID:        "유효하지 않은 카테고리 ID입니다.",
	store.ErrInvalidItemType:  "유효하지 않은 카테고리 타입입니다.",
	store.ErrDuplicateName:    "이미 존재하는 카테고리 이름입니다.",
	store.ErrCategoryNotFound: "카테고리를 찾을 수 없습니다.",
}

// GetCategories lists all categories.
func (h *Handler) GetCategories(c *gin.Context) {
	categories, err := h.store.ListCategories(c.Request.Context())
	if err != nil {
		respondStoreError(c, err, categoryMessages)
		return
	}
	c.JSON(http.StatusOK, categories)
}

type categoryRequest struct {
	Name     string `json:"name"`
	ItemType string `json:"itemType"`
}

// CreateCategory adds a category for rooms or equipment. Admin only.
func (h *Handler) CreateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "필수 필드가 누락되었습니다."})
		return
	}

	category, err := h.store.CreateCategory(c.Request.Context(), req.Name, req.ItemType)
	if err != nil {
		respondStoreError(c, err, categoryMessages)
		return
	}
	c.JSON(http.StatusCreated, category)
}

// UpdateCategory renames a category. Admin only.
func (h *Handler) UpdateCategory(c *gin.Context) {
	var req categoryRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.Name == "" {
		c.JSON(http.StatusBadRequest, gin.H{"message": "필수 필드가 누락되었습니다."})
		return
	}

	category, err := h.store.RenameCategory(c.Request.Context(), c.Param("categoryId"), req.Name)
	if err != nil {
		respondStoreError(c, err, categoryMessages)
		return
	}
	c.JSON(http.StatusOK, category)
}

// DeleteCategory removes a category and all its items in one transaction,
// refusing when any sub-item still has a reservation. Admin only.
func (h *Handler) DeleteCategory(c *gin.Context) {
	if err := h.store.DeleteCategory(c.Request.Context(), c.Param("categoryId")); err != nil {
		respondStoreError(c, err, categoryMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "카테고리와 하위 아이템이 성공적으로 삭제되었습니다."})
}
