package v1

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"plumenote/api/v1/request"
	"plumenote/internal/metrics"
	"plumenote/service"

	"github.com/gin-gonic/gin"
)

// NoteAPI 聚合笔记 CRUD、浏览打点和最近列表的 HTTP Handler。
type NoteAPI struct {
	notes *service.NoteService
	views *service.ViewService
}

func NewNoteAPI(notes *service.NoteService, views *service.ViewService) *NoteAPI {
	return &NoteAPI{notes: notes, views: views}
}

func currentUserID(c *gin.Context) uint64 {
	return c.MustGet("user_id").(uint64)
}

func noteIDParam(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
		return 0, false
	}
	return id, true
}

// Create 创建笔记
func (n *NoteAPI) Create(c *gin.Context) {
	var req request.CreateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := n.notes.Create(currentUserID(c), req.Title, req.Content, req.FolderID, req.WorkspaceID)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, note)
}

// Get 查询单篇笔记
func (n *NoteAPI) Get(c *gin.Context) {
	id, ok := noteIDParam(c)
	if !ok {
		return
	}
	note, err := n.notes.GetAccessible(id, currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, note)
}

// Update 修改笔记内容
func (n *NoteAPI) Update(c *gin.Context) {
	id, ok := noteIDParam(c)
	if !ok {
		return
	}
	var req request.UpdateNoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	note, err := n.notes.Update(id, currentUserID(c), req.Title, req.Content)
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, note)
}

// Delete 软删除笔记（幂等）
func (n *NoteAPI) Delete(c *gin.Context) {
	id, ok := noteIDParam(c)
	if !ok {
		return
	}
	if err := n.notes.Delete(id, currentUserID(c)); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "deleted"})
}

// List 列出当前用户的笔记
func (n *NoteAPI) List(c *gin.Context) {
	notes, err := n.notes.ListOwn(currentUserID(c), 100)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"notes": notes})
}

// RecordView tracks one view of a note. Deduplicated repeats still refresh
// the recency list but leave the counter alone. Clients treat this as
// best-effort telemetry, so the response stays small.
func (n *NoteAPI) RecordView(c *gin.Context) {
	id, ok := noteIDParam(c)
	if !ok {
		return
	}
	counted, viewCount, err := n.views.RecordView(currentUserID(c), id, time.Now())
	if err != nil {
		if errors.Is(err, service.ErrNoteNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "note not found"})
			return
		}
		metrics.IncNoteView("error")
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	if counted {
		metrics.IncNoteView("counted")
	} else {
		metrics.IncNoteView("deduplicated")
	}
	c.JSON(http.StatusOK, gin.H{
		"counted":     counted,
		"views_count": viewCount,
	})
}

// Recent returns the recently-viewed and recently-modified lists. A bad
// limit never fails the request; it falls back to the default.
func (n *NoteAPI) Recent(c *gin.Context) {
	limit := service.ParseRecentLimit(c.Query("limit"))
	lists, err := n.views.GetRecent(currentUserID(c), limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, lists)
}
