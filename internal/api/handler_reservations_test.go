package api

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"booking-backend/internal/model"
	"booking-backend/internal/store"
	"booking-backend/internal/timeutil"
)

func seedTestRoom(t *testing.T, s store.Store, name string) *model.Item {
	t.Helper()
	category, err := s.CreateCategory(t.Context(), name+" category", model.ItemTypeRoom)
	require.NoError(t, err)
	capacity := 4
	item, err := s.CreateItem(t.Context(), store.ItemInput{
		ItemType:   model.ItemTypeRoom,
		Name:       name,
		CategoryID: &category.ID,
		Capacity:   &capacity,
	})
	require.NoError(t, err)
	return item
}

func testSlot() time.Time {
	base := timeutil.NextSlot(time.Now().UTC().Add(2 * time.Hour))
	_, endOfDay := timeutil.DayBounds(timeutil.TodayKST(base))
	if base.Add(3 * time.Hour).After(endOfDay) {
		base = endOfDay.Add(time.Millisecond)
	}
	return base
}

func TestCreateReservationHandler(t *testing.T) {
	router, s, tm := newTestAPI(t)
	user, token := signedInUser(t, s, tm, "booker", model.RoleMember)
	room := seedTestRoom(t, s, "Meeting Room")
	base := testSlot()

	// Missing fields.
	w := doJSON(router, http.MethodPost, "/reservations/"+room.ID, token, gin.H{"userId": user.ID})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "필수 정보가 누락되었습니다.", decodeBody(t, w)["message"])

	// Off-grid start.
	w = doJSON(router, http.MethodPost, "/reservations/"+room.ID, token, gin.H{
		"userId":  user.ID,
		"startAt": base.Add(5 * time.Minute).Format(time.RFC3339),
		"endAt":   base.Add(35 * time.Minute).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "시간은 10분 단위로 설정해야 합니다.", decodeBody(t, w)["message"])

	// Success.
	w = doJSON(router, http.MethodPost, "/reservations/"+room.ID, token, gin.H{
		"userId":  user.ID,
		"startAt": base.Format(time.RFC3339),
		"endAt":   base.Add(time.Hour).Format(time.RFC3339),
		"notes":   "주간 회의",
	})
	require.Equal(t, http.StatusCreated, w.Code)
	body := decodeBody(t, w)
	assert.Equal(t, "예약에 성공했습니다.", body["message"])
	saved, ok := body["savedReservation"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, model.ReservationStatusReserved, saved["status"])

	// Overlapping window conflicts.
	w = doJSON(router, http.MethodPost, "/reservations/"+room.ID, token, gin.H{
		"userId":  user.ID,
		"startAt": base.Add(30 * time.Minute).Format(time.RFC3339),
		"endAt":   base.Add(90 * time.Minute).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusConflict, w.Code)
	assert.Equal(t, "해당 시간에 이미 예약이 존재합니다.", decodeBody(t, w)["message"])

	// Unknown item.
	w = doJSON(router, http.MethodPost, "/reservations/"+model.NewID(), token, gin.H{
		"userId":  user.ID,
		"startAt": base.Add(2 * time.Hour).Format(time.RFC3339),
		"endAt":   base.Add(3 * time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestUpdateReservationHandler(t *testing.T) {
	router, s, tm := newTestAPI(t)
	user, token := signedInUser(t, s, tm, "editor", model.RoleMember)
	room := seedTestRoom(t, s, "Edit Room")
	base := testSlot()

	res, err := s.CreateReservation(t.Context(), store.ReservationInput{
		UserID: user.ID, ItemID: room.ID, StartAt: base, EndAt: base.Add(time.Hour),
	})
	require.NoError(t, err)

	// Notes-only patch.
	w := doJSON(router, http.MethodPatch, "/reservations/"+res.ID, token, gin.H{"notes": "변경된 안건"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "변경된 안건", decodeBody(t, w)["notes"])

	// Cancel, then try to revive.
	w = doJSON(router, http.MethodPatch, "/reservations/"+res.ID, token, gin.H{"status": model.ReservationStatusCanceled})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(router, http.MethodPatch, "/reservations/"+res.ID, token, gin.H{"status": model.ReservationStatusReserved})
	require.Equal(t, http.StatusConflict, w.Code)

	// Unknown reservation.
	w = doJSON(router, http.MethodPatch, "/reservations/"+model.NewID(), token, gin.H{"notes": "x"})
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "예약을 찾을 수 없습니다.", decodeBody(t, w)["message"])
}

func TestDeleteReservationHandler(t *testing.T) {
	router, s, tm := newTestAPI(t)
	user, token := signedInUser(t, s, tm, "remover", model.RoleMember)
	room := seedTestRoom(t, s, "Delete Room")
	base := testSlot()

	res, err := s.CreateReservation(t.Context(), store.ReservationInput{
		UserID: user.ID, ItemID: room.ID, StartAt: base, EndAt: base.Add(time.Hour),
	})
	require.NoError(t, err)

	w := doJSON(router, http.MethodDelete, "/reservations/"+res.ID, token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "예약이 삭제되었습니다.", decodeBody(t, w)["message"])

	w = doJSON(router, http.MethodDelete, "/reservations/"+res.ID, token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
}

func TestReservationQueries(t *testing.T) {
	router, s, tm := newTestAPI(t)
	user, token := signedInUser(t, s, tm, "viewer", model.RoleMember)
	room := seedTestRoom(t, s, "Query Room")
	base := testSlot()
	day := timeutil.TodayKST(base).Format("2006-01-02")

	_, err := s.CreateReservation(t.Context(), store.ReservationInput{
		UserID: user.ID, ItemID: room.ID, StartAt: base, EndAt: base.Add(time.Hour),
	})
	require.NoError(t, err)

	// Dashboard rejects malformed ids.
	w := doJSON(router, http.MethodGet, "/reservations/dashboard/short", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "유효하지 않은 사용자 ID입니다.", decodeBody(t, w)["message"])

	// Malformed date.
	w = doJSON(router, http.MethodGet, "/reservations/room?date=2026-13-01", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "날짜 형식이 잘못되었습니다. YYYY-MM-DD 형식으로 입력해주세요.", decodeBody(t, w)["message"])

	// Unknown type.
	w = doJSON(router, http.MethodGet, "/reservations/desk", token, nil)
	require.Equal(t, http.StatusBadRequest, w.Code)

	// A type with no items answers 404.
	w = doJSON(router, http.MethodGet, "/reservations/seat", token, nil)
	require.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "해당 타입의 아이템이 없습니다.", decodeBody(t, w)["message"])

	// Listing by type and date finds the booking.
	w = doJSON(router, http.MethodGet, fmt.Sprintf("/reservations/room?date=%s", day), token, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), room.ID)
}
