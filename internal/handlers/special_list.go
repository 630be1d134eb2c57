package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/tripacker/tripacker-backend/internal/requestdata"
	"github.com/tripacker/tripacker-backend/internal/services"
)

type SpecialListHandler struct {
	listService services.SpecialListService
}

func NewSpecialListHandler(listService services.SpecialListService) *SpecialListHandler {
	return &SpecialListHandler{listService: listService}
}

func (slh *SpecialListHandler) Create(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	var input services.SpecialListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	list, err := slh.listService.Create(c.Request.Context(), rd.UserID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"special_list": list})
}

func (slh *SpecialListHandler) List(c *gin.Context) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	limit, offset := paginationParams(c)
	lists, total, err := slh.listService.ListByUser(c.Request.Context(), rd.UserID, limit, offset)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"special_lists": lists, "total": total, "limit": limit, "offset": offset})
}

func (slh *SpecialListHandler) GetByID(c *gin.Context) {
	rd, listID, ok := slh.listParams(c)
	if !ok {
		return
	}
	list, err := slh.listService.GetByID(c.Request.Context(), rd.UserID, listID)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"special_list": list})
}

func (slh *SpecialListHandler) Update(c *gin.Context) {
	rd, listID, ok := slh.listParams(c)
	if !ok {
		return
	}
	var input services.SpecialListInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	list, err := slh.listService.Update(c.Request.Context(), rd.UserID, listID, input)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"special_list": list})
}

func (slh *SpecialListHandler) Delete(c *gin.Context) {
	rd, listID, ok := slh.listParams(c)
	if !ok {
		return
	}
	if err := slh.listService.Delete(c.Request.Context(), rd.UserID, listID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

func (slh *SpecialListHandler) AddItem(c *gin.Context) {
	rd, listID, ok := slh.listParams(c)
	if !ok {
		return
	}
	var req struct {
		ItemID   uuid.UUID `json:"item_id"`
		Quantity int       `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}
	entry, err := slh.listService.AddItem(c.Request.Context(), rd.UserID, listID, req.ItemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"item": entry})
}

func (slh *SpecialListHandler) UpdateItem(c *gin.Context) {
	rd, listID, ok := slh.listParams(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	var req struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	entry, err := slh.listService.UpdateItemQuantity(c.Request.Context(), rd.UserID, listID, itemID, req.Quantity)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"item": entry})
}

func (slh *SpecialListHandler) RemoveItem(c *gin.Context) {
	rd, listID, ok := slh.listParams(c)
	if !ok {
		return
	}
	itemID, err := uuid.Parse(c.Param("itemID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid item id"})
		return
	}
	if err := slh.listService.RemoveItem(c.Request.Context(), rd.UserID, listID, itemID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

func (slh *SpecialListHandler) AddTag(c *gin.Context) {
	rd, listID, ok := slh.listParams(c)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	tag, err := slh.listService.AddTag(c.Request.Context(), rd.UserID, listID, req.Name)
	if err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"tag": tag})
}

func (slh *SpecialListHandler) RemoveTag(c *gin.Context) {
	rd, listID, ok := slh.listParams(c)
	if !ok {
		return
	}
	tagID, err := uuid.Parse(c.Param("tagID"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid tag id"})
		return
	}
	if err := slh.listService.RemoveTag(c.Request.Context(), rd.UserID, listID, tagID); err != nil {
		respondServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "removed"})
}

func (slh *SpecialListHandler) listParams(c *gin.Context) (*requestdata.RequestData, uuid.UUID, bool) {
	rd := requestdata.GetRequestData(c.Request.Context())
	if rd == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return nil, uuid.Nil, false
	}
	listID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid list id"})
		return nil, uuid.Nil, false
	}
	return rd, listID, true
}
