package api

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"booking-backend/internal/model"
	"booking-backend/internal/notification"
	"booking-backend/internal/store"
	"booking-backend/internal/timeutil"
)

// GetDashboard returns a user's reservations for today (KST), grouped by
// item type then start time.
func (h *Handler) GetDashboard(c *gin.Context) {
	userID := c.Param("userId")

	reservations, err := h.store.UserReservationsOn(c.Request.Context(), userID, timeutil.TodayKST(time.Now()))
	if err != nil {
		respondStoreError(c, err, map[error]string{
			store.ErrInvalidID: "유효하지 않은 사용자 ID입니다.",
		})
		return
	}
	c.JSON(http.StatusOK, reservations)
}

// GetReservationsByType lists reservations of one item type overlapping a
// calendar day (default today, KST), optionally filtered by status.
func (h *Handler) GetReservationsByType(c *gin.Context) {
	itemType := c.Param("itemType")
	status := c.Query("status")

	day := timeutil.TodayKST(time.Now())
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := timeutil.ParseDate(dateStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"message": "날짜 형식이 잘못되었습니다. YYYY-MM-DD 형식으로 입력해주세요."})
			return
		}
		day = parsed
	}

	reservations, err := h.store.ReservationsByTypeAndDate(c.Request.Context(), itemType, day, status)
	if err != nil {
		respondStoreError(c, err, map[error]string{
			store.ErrItemNotFound: "해당 타입의 아이템이 없습니다.",
		})
		return
	}
	c.JSON(http.StatusOK, reservations)
}

type createReservationRequest struct {
	UserID    string    `json:"userId"`
	StartAt   time.Time `json:"startAt"`
	EndAt     time.Time `json:"endAt"`
	Status    string    `json:"status"`
	Notes     string    `json:"notes"`
	Attendees []string  `json:"attendees"`
}

// CreateReservation books an item for a time window.
func (h *Handler) CreateReservation(c *gin.Context) {
	var req createReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil || req.UserID == "" || req.StartAt.IsZero() || req.EndAt.IsZero() {
		c.JSON(http.StatusBadRequest, gin.H{"message": "필수 정보가 누락되었습니다."})
		return
	}

	res, err := h.store.CreateReservation(c.Request.Context(), store.ReservationInput{
		UserID:    req.UserID,
		ItemID:    c.Param("itemId"),
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Status:    req.Status,
		Notes:     req.Notes,
		Attendees: req.Attendees,
	})
	if err != nil {
		respondStoreError(c, err, nil)
		return
	}

	h.pool.Dispatch(res.ID, notification.EventCreated)
	c.JSON(http.StatusCreated, gin.H{"message": "예약에 성공했습니다.", "savedReservation": res})
}

type updateReservationRequest struct {
	StartAt   *time.Time `json:"startAt"`
	EndAt     *time.Time `json:"endAt"`
	Status    *string    `json:"status"`
	Notes     *string    `json:"notes"`
	Attendees *[]string  `json:"attendees"`
}

// UpdateReservation applies a partial update to a reservation.
func (h *Handler) UpdateReservation(c *gin.Context) {
	var req updateReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "필수 정보가 누락되었습니다."})
		return
	}

	res, err := h.store.UpdateReservation(c.Request.Context(), c.Param("reservationId"), store.ReservationPatch{
		StartAt:   req.StartAt,
		EndAt:     req.EndAt,
		Status:    req.Status,
		Notes:     req.Notes,
		Attendees: req.Attendees,
	})
	if err != nil {
		respondStoreError(c, err, nil)
		return
	}

	switch {
	case req.Status != nil && *req.Status == model.ReservationStatusCanceled:
		h.pool.Dispatch(res.ID, notification.EventCanceled)
	case req.StartAt != nil || req.EndAt != nil || req.Status != nil:
		h.pool.Dispatch(res.ID, notification.EventUpdated)
	}
	c.JSON(http.StatusOK, res)
}

// DeleteReservation removes a reservation outright.
func (h *Handler) DeleteReservation(c *gin.Context) {
	if err := h.store.DeleteReservation(c.Request.Context(), c.Param("reservationId")); err != nil {
		respondStoreError(c, err, nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "예약이 삭제되었습니다."})
}
