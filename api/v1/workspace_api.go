package v1

import (
	"errors"
	"net/http"
	"strconv"

	"plumenote/api/v1/request"
	"plumenote/service"

	"github.com/gin-gonic/gin"
)

// WorkspaceAPI 工作区与文件夹的 HTTP Handler。
type WorkspaceAPI struct {
	service *service.WorkspaceService
}

func NewWorkspaceAPI(s *service.WorkspaceService) *WorkspaceAPI {
	return &WorkspaceAPI{service: s}
}

// Create 创建工作区
func (w *WorkspaceAPI) Create(c *gin.Context) {
	var req request.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ws, err := w.service.Create(currentUserID(c), req.Name, req.Slug)
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceExists) {
			c.JSON(http.StatusBadRequest, gin.H{"error": "workspace slug already taken"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, ws)
}

// List 列出当前用户所属的工作区
func (w *WorkspaceAPI) List(c *gin.Context) {
	workspaces, err := w.service.ListForUser(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"workspaces": workspaces})
}

// AddMember 邀请用户加入工作区
func (w *WorkspaceAPI) AddMember(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
		return
	}
	var req request.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if err := w.service.AddMember(id, currentUserID(c), req.UserID); err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "member added"})
}

// ListMembers 列出工作区成员
func (w *WorkspaceAPI) ListMembers(c *gin.Context) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
		return
	}
	members, err := w.service.ListMembers(id, currentUserID(c))
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"members": members})
}

// CreateFolder 创建文件夹
func (w *WorkspaceAPI) CreateFolder(c *gin.Context) {
	var req request.CreateFolderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	folder, err := w.service.CreateFolder(currentUserID(c), req.Name, req.WorkspaceID)
	if err != nil {
		if errors.Is(err, service.ErrWorkspaceNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "workspace not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, folder)
}

// ListFolders 列出当前用户的文件夹
func (w *WorkspaceAPI) ListFolders(c *gin.Context) {
	folders, err := w.service.ListFolders(currentUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"folders": folders})
}
