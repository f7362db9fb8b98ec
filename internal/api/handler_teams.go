package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"booking-backend/internal/store"
)

var teamMessages = map[error]string{
	store.ErrInvalidID:     "유효하지 않은 팀 ID 입니다.",
	store.ErrMissingField:  "팀 이름은 필수 항목입니다.",
	store.ErrDuplicateName: "이미 존재하는 팀 이름 입니다.",
	store.ErrTeamNotFound:  "팀을 찾을 수 없습니다.",
}

// GetTeams lists teams, sortable like the user listing.
func (h *Handler) GetTeams(c *gin.Context) {
	teams, err := h.store.ListTeams(c.Request.Context(), c.Query("sort"))
	if err != nil {
		respondStoreError(c, err, teamMessages)
		return
	}
	c.JSON(http.StatusOK, teams)
}

type teamRequest struct {
	Name string `json:"name"`
}

// CreateTeam adds a team. Admin only.
func (h *Handler) CreateTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "팀 이름은 필수 항목입니다."})
		return
	}

	team, err := h.store.CreateTeam(c.Request.Context(), req.Name)
	if err != nil {
		respondStoreError(c, err, teamMessages)
		return
	}
	c.JSON(http.StatusCreated, team)
}

// UpdateTeam renames a team. Admin only.
func (h *Handler) UpdateTeam(c *gin.Context) {
	var req teamRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"message": "팀 이름은 필수 항목입니다."})
		return
	}

	team, err := h.store.RenameTeam(c.Request.Context(), c.Param("teamId"), req.Name)
	if err != nil {
		respondStoreError(c, err, teamMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "팀 이름이 성공적으로 업데이트되었습니다.", "team": team})
}

// DeleteTeam removes a team and its memberships. Admin only.
func (h *Handler) DeleteTeam(c *gin.Context) {
	if err := h.store.DeleteTeam(c.Request.Context(), c.Param("teamId")); err != nil {
		respondStoreError(c, err, teamMessages)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "팀이 삭제되었습니다."})
}
