package request

type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,max=100"`
	Slug string `json:"slug" binding:"required,slug"`
}

type AddMemberRequest struct {
	UserID uint64 `json:"user_id" binding:"required"`
}

type CreateFolderRequest struct {
	Name        string  `json:"name" binding:"required,max=100"`
	WorkspaceID *uint64 `json:"workspace_id"`
}
