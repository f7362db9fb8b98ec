package api

import (
	"errors"
	"net/http"

	"github.com/SherClockHolmes/webpush-go"
	"github.com/gin-gonic/gin"

	"booking-backend/internal/auth"
	"booking-backend/internal/notification"
	"booking-backend/internal/store"
)

// Handler holds shared dependencies for API handlers.
type Handler struct {
	store   store.Store
	tokens  *auth.TokenManager
	pool    *notification.WorkerPool
	webpush *webpush.Options
}

// NewHandler creates a new API handler.
func NewHandler(s store.Store, tm *auth.TokenManager, pool *notification.WorkerPool, webpushOptions *webpush.Options) *Handler {
	return &Handler{
		store:   s,
		tokens:  tm,
		pool:    pool,
		webpush: webpushOptions,
	}
}

// errorResponse pairs a store sentinel with the HTTP status and user-facing
// message it maps to. Category and item deletion guards answer 400 rather
// than 409, matching the behavior clients already depend on.
type errorResponse struct {
	sentinel error
	status   int
	message  string
}

var errorResponses = []errorResponse{
	{store.ErrCategoryReserved, http.StatusBadRequest, "카테고리 하위 아이템에 예약이 존재합니다."},
	{store.ErrItemReserved, http.StatusBadRequest, "아이템에 예약이 존재합니다."},
	{store.ErrOverlap, http.StatusConflict, "해당 시간에 이미 예약이 존재합니다."},
	{store.ErrStatusFinalized, http.StatusConflict, "이미 종료된 예약입니다."},
	{store.ErrDuplicateEmail, http.StatusConflict, "이미 존재하는 이메일입니다."},
	{store.ErrDuplicateName, http.StatusConflict, "이미 등록된 이름입니다."},
	{store.ErrBadGranularity, http.StatusBadRequest, "시간은 10분 단위로 설정해야 합니다."},
	{store.ErrStartNotBeforeEnd, http.StatusBadRequest, "시작 시간은 종료 시간보다 이전이어야 합니다."},
	{store.ErrStartTooOld, http.StatusBadRequest, "시작 시간은 10분 전까지 설정 가능합니다."},
	{store.ErrWrongVariantField, http.StatusBadRequest, "유효하지 않은 타입의 아이템입니다."},
	{store.ErrInvalidItemType, http.StatusBadRequest, "유효하지 않은 타입입니다."},
	{store.ErrInvalidStatus, http.StatusBadRequest, "유효하지 않은 상태입니다."},
	{store.ErrMissingField, http.StatusBadRequest, "필수 필드가 누락되었습니다."},
	{store.ErrTooLong, http.StatusBadRequest, "입력값이 최대 길이를 초과했습니다."},
	{store.ErrInvalidID, http.StatusBadRequest, "유효하지 않은 ID입니다."},
	{store.ErrUserNotFound, http.StatusNotFound, "사용자를 찾을 수 없습니다."},
	{store.ErrItemNotFound, http.StatusNotFound, "해당 아이템을 찾을 수 없습니다."},
	{store.ErrCategoryNotFound, http.StatusNotFound, "카테고리를 찾을 수 없습니다."},
	{store.ErrTeamNotFound, http.StatusNotFound, "팀을 찾을 수 없습니다."},
	{store.ErrReservationNotFound, http.StatusNotFound, "예약을 찾을 수 없습니다."},
	{store.ErrSubscriptionNotFound, http.StatusNotFound, "구독을 찾을 수 없습니다."},
}

// respondStoreError translates a store error into an HTTP response. Messages
// in overrides win over the defaults, so handlers can keep resource-specific
// wording (e.g. which kind of id was malformed).
func respondStoreError(c *gin.Context, err error, overrides map[error]string) {
	for _, er := range errorResponses {
		if errors.Is(err, er.sentinel) {
			msg := er.message
			if m, ok := overrides[er.sentinel]; ok {
				msg = m
			}
			c.JSON(er.status, gin.H{"message": msg})
			return
		}
	}
	c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
}
