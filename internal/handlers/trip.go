package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tripacker/tripacker-backend/internal/requestdata"
	"github.com/tripacker/tripacker-backend/internal/services"
)

type TripHandler struct {
	tripService services.TripService
	listService services.GeneratedListService
}

func NewTripHandler(tripService services.TripService, listService services.GeneratedListService) *TripHandler {
	return &TripHandler{tripService: tripService, listService: listService}
}

func (th *TripHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input services.TripInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	trip, err := th.tripService.Create(c.Request.Context(), rd.UserID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"trip": trip})
}

func (th *TripHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	limit, offset := paginationParams(c)
	trips, total, err := th.tripService.ListByUser(c.Request.Context(), rd.UserID, limit, offset, c.Query("sort"))
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trips": trips, "total": total, "limit": limit, "offset": offset})
}

func (th *TripHandler) GetByID(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	trip, err := th.tripService.GetByID(c.Request.Context(), rd.UserID, tripID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"trip": trip})
}

func (th *TripHandler) Generate(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	var req struct {
		SpecialListIDs    []uuid.UUID `json:"special_list_ids"`
		ExcludeCategories []string    `json:"exclude_categories"`
	}
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
			return
		}
	}
	view, err := th.listService.GenerateForTrip(c.Request.Context(), rd.UserID, tripID, req.SpecialListIDs, req.ExcludeCategories)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"generated_list": view})
}

func (th *TripHandler) GetGeneratedList(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	tripID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid trip id"})
		return
	}
	view, err := th.listService.GetByTripID(c.Request.Context(), rd.UserID, tripID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"generated_list": view})
}
