package request

type CreateNoteRequest struct {
	Title       string  `json:"title" binding:"required,max=200"`
	Content     string  `json:"content"`
	FolderID    *uint64 `json:"folder_id"`
	WorkspaceID *uint64 `json:"workspace_id"`
}

type UpdateNoteRequest struct {
	Title   string `json:"title" binding:"required,max=200"`
	Content string `json:"content"`
}
