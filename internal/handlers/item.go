package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/tripacker/tripacker-backend/internal/services"
)

type ItemHandler struct {
	itemService services.ItemService
}

func NewItemHandler(itemService services.ItemService) *ItemHandler {
	return &ItemHandler{itemService: itemService}
}

func (ih *ItemHandler) Create(c *gin.Context) {
	var input services.ItemInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	item, err := ih.itemService.Create(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": item})
}

func (ih *ItemHandler) List(c *gin.Context) {
	limit, offset := paginationParams(c)
	items, total, err := ih.itemService.List(c.Request.Context(), limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "total": total, "limit": limit, "offset": offset})
}
