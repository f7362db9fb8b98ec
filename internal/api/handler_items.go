package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-backend/internal/store"
)

// GetItems lists all items, or only those of the type in the path.
func (h *Handler) GetItems(c *gin.Context) {
	items, err := h.store.ListItems(c.Request.Context(), c.Param("itemType"))
	if err != nil {
		respondStoreError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, items)
}

type createItemRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Status      string  `json:"status"`
	ImageURL    string  `json:"imageUrl"`
	CategoryID  *string `json:"categoryId"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity"`
	UserID      *string `json:"userId"`
}

// CreateItem adds an item of the type in the path. Admin only.
func (h *Handler) CreateItem(c *gin.Context) {
	var req createItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "필수 필드가 누락되었습니다."})
		return
	}

	itemType := c.Param("itemType")
	item, err := h.store.CreateItem(c.Request.Context(), store.ItemInput{
		ItemType:    itemType,
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		Location:    req.Location,
		Capacity:    req.Capacity,
		UserID:      req.UserID,
	})
	if err != nil {
		respondStoreError(c, err, map[error]string{
			store.ErrDuplicateName: "이미 등록된 아이템 이름입니다.",
		})
		return
	}
	c.JSON(http.StatusCreated, gin.H{"message": fmt.Sprintf("%s이 생성되었습니다.", itemType), "createdItem": item})
}

type updateItemRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	Status      *string `json:"status"`
	ImageURL    *string `json:"imageUrl"`
	CategoryID  *string `json:"categoryId"`
	Location    *string `json:"location"`
	Capacity    *int    `json:"capacity"`
	UserID      *string `json:"userId"`
}

// UpdateItem applies a partial update. Fields from another item variant are
// rejected. Admin only.
func (h *Handler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "필수 필드가 누락되었습니다."})
		return
	}

	item, err := h.store.UpdateItem(c.Request.Context(), c.Param("itemId"), store.ItemPatch{
		Name:        req.Name,
		Description: req.Description,
		Status:      req.Status,
		ImageURL:    req.ImageURL,
		CategoryID:  req.CategoryID,
		Location:    req.Location,
		Capacity:    req.Capacity,
		UserID:      req.UserID,
	})
	if err != nil {
		respondStoreError(c, err, map[error]string{
			store.ErrDuplicateName: "이미 등록된 아이템 이름입니다.",
		})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s 아이템 정보가 업데이트되었습니다.", item.ItemType), "updatedItem": item})
}

// DeleteItem removes an item, refusing while it still has reserved
// reservations. Admin only.
func (h *Handler) DeleteItem(c *gin.Context) {
	ctx := c.Request.Context()
	id := c.Param("itemId")

	item, err := h.store.GetItem(ctx, id)
	if err != nil {
		respondStoreError(c, err, nil)
		return
	}
	if err := h.store.DeleteItem(ctx, id); err != nil {
		respondStoreError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": fmt.Sprintf("%s 아이템이 삭제되었습니다.", item.ItemType)})
}
