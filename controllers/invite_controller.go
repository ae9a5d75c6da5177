package controllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Sapphirecho8/misaka-danmu-server-plus/app"
	"github.com/Sapphirecho8/misaka-danmu-server-plus/invites"
)

type InviteController struct{ *Srv }

func GetInviteController(s *Srv) *InviteController { return &InviteController{Srv: s} }

// GET /api/invites
func (ic *InviteController) List(c *gin.Context) {
	caller := app.CurrentUser(c)
	infos, err := ic.Invites.List(c.Request.Context(), caller)
	if err != nil {
		if errors.Is(err, invites.ErrNotAllowed) {
			c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, infos)
}

// GET /api/invites/validate?code=  公开接口
func (ic *InviteController) Validate(c *gin.Context) {
	code := c.Query("code")
	resp, err := ic.Invites.Validate(c.Request.Context(), code)
	if err != nil {
		c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
		return
	}
	c.JSON(http.StatusOK, resp)
}

// POST /api/invites
func (ic *InviteController) Create(c *gin.Context) {
	var req invites.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		return
	}

	caller := app.CurrentUser(c)
	info, err := ic.Invites.Create(c.Request.Context(), caller, &req)
	if err != nil {
		switch {
		case errors.Is(err, invites.ErrNotAllowed):
			c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
		case errors.Is(err, invites.ErrMaxUsesOutOfRange):
			c.JSON(http.StatusBadRequest, app.H{"error": err.Error()})
		default:
			ic.Logger.Error("创建邀请码失败", zap.Error(err))
			c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
		}
		return
	}
	c.JSON(http.StatusCreated, info)
}

// DELETE /api/invites/:id
func (ic *InviteController) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, app.H{"error": "invalid invite id"})
		return
	}

	caller := app.CurrentUser(c)
	if err := ic.Invites.Delete(c.Request.Context(), caller, id); err != nil {
		switch {
		case errors.Is(err, invites.ErrNotAllowed):
			c.JSON(http.StatusForbidden, app.H{"error": err.Error()})
		case errors.Is(err, invites.ErrInviteNotFound):
			c.JSON(http.StatusNotFound, app.H{"error": "Invite not found"})
		default:
			ic.Logger.Error("删除邀请码失败", zap.Error(err))
			c.JSON(http.StatusInternalServerError, app.H{"error": "internal error"})
		}
		return
	}
	c.Status(http.StatusNoContent)
}
