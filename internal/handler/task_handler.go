package handler

import (
	"fmt"
	"net/http"
	"path/filepath"
	"time"

	"teamtodo/internal/model"
	"teamtodo/internal/repository"
	"teamtodo/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// MaxAttachmentSize caps uploads at 10 MiB.
const MaxAttachmentSize = 10 << 20

type TaskHandler struct {
	tasks       *service.TaskService
	users       repository.UserRepositoryInterface
	comments    *repository.CommentRepository
	attachments *repository.AttachmentRepository
	activities  *repository.ActivityRepository
	uploadDir   string
}

func NewTaskHandler(
	tasks *service.TaskService,
	users repository.UserRepositoryInterface,
	comments *repository.CommentRepository,
	attachments *repository.AttachmentRepository,
	activities *repository.ActivityRepository,
	uploadDir string,
) *TaskHandler {
	return &TaskHandler{
		tasks:       tasks,
		users:       users,
		comments:    comments,
		attachments: attachments,
		activities:  activities,
		uploadDir:   uploadDir,
	}
}

type CreateTaskRequest struct {
	Title       string     `json:"title" binding:"required"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	AssigneeID  string     `json:"assignee_id"`
	Tags        string     `json:"tags"`
}

type UpdateTaskRequest struct {
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	DueDate     *time.Time `json:"due_date"`
	Tags        string     `json:"tags"`
}

type ChangeStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type AssignRequest struct {
	UserID string `json:"user_id" binding:"required"`
}

type AddCommentRequest struct {
	Body string `json:"body" binding:"required"`
}

type TaskResponse struct {
	ID          string     `json:"id"`
	TeamID      string     `json:"team_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	Priority    string     `json:"priority"`
	Status      string     `json:"status"`
	DueDate     *time.Time `json:"due_date,omitempty"`
	AssigneeID  string     `json:"assignee_id,omitempty"`
	CreatedBy   string     `json:"created_by"`
	Tags        string     `json:"tags"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

type CommentResponse struct {
	ID        string    `json:"id"`
	AuthorID  string    `json:"author_id"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
}

type AttachmentResponse struct {
	ID         string    `json:"id"`
	FileName   string    `json:"file_name"`
	UploadedBy string    `json:"uploaded_by"`
	UploadedAt time.Time `json:"uploaded_at"`
}

type ActivityResponse struct {
	ID          string    `json:"id"`
	ActorID     string    `json:"actor_id"`
	Kind        string    `json:"kind"`
	Description string    `json:"description"`
	OldValue    string    `json:"old_value,omitempty"`
	NewValue    string    `json:"new_value,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

func toTaskResponse(t *model.Task) TaskResponse {
	resp := TaskResponse{
		ID:          t.ID.String(),
		TeamID:      t.TeamID.String(),
		Title:       t.Title,
		Description: t.Description,
		Priority:    t.Priority,
		Status:      t.Status,
		DueDate:     t.DueDate,
		CreatedBy:   t.CreatedBy.String(),
		Tags:        t.Tags,
		CreatedAt:   t.CreatedAt,
		UpdatedAt:   t.UpdatedAt,
	}
	if t.AssigneeID != nil {
		resp.AssigneeID = t.AssigneeID.String()
	}
	return resp
}

// Create creates a task in a team
// @Summary      Create a task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Team ID"
// @Param        input body CreateTaskRequest true "Task data"
// @Success      201 {object} TaskResponse
// @Failure      403 {object} map[string]string
// @Router       /teams/{id}/tasks [post]
func (h *TaskHandler) Create(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	input := service.CreateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	}
	if req.AssigneeID != "" {
		assigneeID, err := uuid.Parse(req.AssigneeID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee_id"})
			return
		}
		input.AssigneeID = &assigneeID
	}

	task, err := h.tasks.Create(c.Request.Context(), actor, teamID, input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, toTaskResponse(task))
}

// ListByTeam returns a team's tasks with optional filters
// @Summary      List team tasks
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Team ID"
// @Param        status query string false "Filter by status"
// @Param        priority query string false "Filter by priority"
// @Param        assignee query string false "Filter by assignee ID"
// @Param        search query string false "Search in title and description"
// @Success      200 {array} TaskResponse
// @Router       /teams/{id}/tasks [get]
func (h *TaskHandler) ListByTeam(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	teamID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	filter := repository.TaskFilter{
		Status:   c.Query("status"),
		Priority: c.Query("priority"),
		Search:   c.Query("search"),
	}
	if raw := c.Query("assignee"); raw != "" {
		assigneeID, err := uuid.Parse(raw)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid assignee"})
			return
		}
		filter.AssigneeID = &assigneeID
	}

	tasks, err := h.tasks.ListByTeam(c.Request.Context(), actor, teamID, filter)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = toTaskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, response)
}

// MyTasks returns tasks assigned to the caller
// @Summary      My tasks
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Success      200 {array} TaskResponse
// @Router       /my-tasks [get]
func (h *TaskHandler) MyTasks(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}

	tasks, err := h.tasks.MyTasks(c.Request.Context(), actor)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]TaskResponse, len(tasks))
	for i := range tasks {
		response[i] = toTaskResponse(&tasks[i])
	}
	c.JSON(http.StatusOK, response)
}

// Get returns one task with its comments and attachments
// @Summary      Get a task
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {object} map[string]interface{}
// @Failure      404 {object} map[string]string
// @Router       /tasks/{id} [get]
func (h *TaskHandler) Get(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	task, err := h.tasks.Get(c.Request.Context(), actor, taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	comments, err := h.comments.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}
	attachments, err := h.attachments.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	commentList := make([]CommentResponse, len(comments))
	for i, cm := range comments {
		commentList[i] = CommentResponse{
			ID:        cm.ID.String(),
			AuthorID:  cm.AuthorID.String(),
			Body:      cm.Body,
			CreatedAt: cm.CreatedAt,
		}
	}
	attachmentList := make([]AttachmentResponse, len(attachments))
	for i, a := range attachments {
		attachmentList[i] = AttachmentResponse{
			ID:         a.ID.String(),
			FileName:   a.FileName,
			UploadedBy: a.UploadedBy.String(),
			UploadedAt: a.UploadedAt,
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"task":        toTaskResponse(task),
		"comments":    commentList,
		"attachments": attachmentList,
	})
}

// Update edits a task's descriptive fields
// @Summary      Update a task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        input body UpdateTaskRequest true "New values"
// @Success      200 {object} TaskResponse
// @Router       /tasks/{id} [put]
func (h *TaskHandler) Update(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req UpdateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	task, err := h.tasks.Update(c.Request.Context(), actor, taskID, service.UpdateTaskInput{
		Title:       req.Title,
		Description: req.Description,
		Priority:    req.Priority,
		DueDate:     req.DueDate,
		Tags:        req.Tags,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Delete removes a task
// @Summary      Delete a task
// @Tags         Tasks
// @Security     BearerAuth
// @Param        id path string true "Task ID"
// @Success      204
// @Router       /tasks/{id} [delete]
func (h *TaskHandler) Delete(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if err := h.tasks.Delete(c.Request.Context(), actor, taskID); err != nil {
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ChangeStatus moves a task through the status machine
// @Summary      Change task status
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        input body ChangeStatusRequest true "Target status"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /tasks/{id}/status [post]
func (h *TaskHandler) ChangeStatus(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req ChangeStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	task, err := h.tasks.ChangeStatus(c.Request.Context(), actor, taskID, req.Status)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// Assign sets the task assignee
// @Summary      Assign a task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        input body AssignRequest true "Assignee"
// @Success      200 {object} TaskResponse
// @Failure      400 {object} map[string]string
// @Failure      403 {object} map[string]string
// @Router       /tasks/{id}/assign [post]
func (h *TaskHandler) Assign(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req AssignRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}
	userID, err := uuid.Parse(req.UserID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid user_id"})
		return
	}

	task, err := h.tasks.Assign(c.Request.Context(), actor, taskID, userID)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, toTaskResponse(task))
}

// AddComment appends a comment to a task
// @Summary      Comment on a task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        input body AddCommentRequest true "Comment body"
// @Success      201 {object} CommentResponse
// @Router       /tasks/{id}/comments [post]
func (h *TaskHandler) AddComment(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	var req AddCommentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input"})
		return
	}

	comment, err := h.tasks.AddComment(c.Request.Context(), actor, taskID, req.Body)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, CommentResponse{
		ID:        comment.ID.String(),
		AuthorID:  comment.AuthorID.String(),
		Body:      comment.Body,
		CreatedAt: comment.CreatedAt,
	})
}

// ListComments returns a task's comments oldest first
// @Summary      List task comments
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {array} CommentResponse
// @Router       /tasks/{id}/comments [get]
func (h *TaskHandler) ListComments(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	// Get performs the view-permission check.
	if _, err := h.tasks.Get(c.Request.Context(), actor, taskID); err != nil {
		respondError(c, err)
		return
	}

	comments, err := h.comments.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]CommentResponse, len(comments))
	for i, cm := range comments {
		response[i] = CommentResponse{
			ID:        cm.ID.String(),
			AuthorID:  cm.AuthorID.String(),
			Body:      cm.Body,
			CreatedAt: cm.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}

// UploadAttachment stores an uploaded file and records its metadata
// @Summary      Attach a file to a task
// @Tags         Tasks
// @Security     BearerAuth
// @Accept       multipart/form-data
// @Produce      json
// @Param        id path string true "Task ID"
// @Param        file formData file true "File to attach"
// @Success      201 {object} AttachmentResponse
// @Router       /tasks/{id}/attachments [post]
func (h *TaskHandler) UploadAttachment(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File is required"})
		return
	}
	if file.Size > MaxAttachmentSize {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File too large"})
		return
	}

	// Stored under a random name so uploads cannot collide or escape the
	// upload directory.
	fileName := filepath.Base(file.Filename)
	storedPath := filepath.Join(h.uploadDir, fmt.Sprintf("%s%s", uuid.New().String(), filepath.Ext(fileName)))
	if err := c.SaveUploadedFile(file, storedPath); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to store file"})
		return
	}

	attachment, err := h.tasks.AddAttachment(c.Request.Context(), actor, taskID, fileName, storedPath)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, AttachmentResponse{
		ID:         attachment.ID.String(),
		FileName:   attachment.FileName,
		UploadedBy: attachment.UploadedBy.String(),
		UploadedAt: attachment.UploadedAt,
	})
}

// ListAttachments returns a task's attachment metadata
// @Summary      List task attachments
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {array} AttachmentResponse
// @Router       /tasks/{id}/attachments [get]
func (h *TaskHandler) ListAttachments(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if _, err := h.tasks.Get(c.Request.Context(), actor, taskID); err != nil {
		respondError(c, err)
		return
	}

	attachments, err := h.attachments.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]AttachmentResponse, len(attachments))
	for i, a := range attachments {
		response[i] = AttachmentResponse{
			ID:         a.ID.String(),
			FileName:   a.FileName,
			UploadedBy: a.UploadedBy.String(),
			UploadedAt: a.UploadedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}

// ListActivity returns a task's audit trail newest first
// @Summary      List task activity
// @Tags         Tasks
// @Security     BearerAuth
// @Produce      json
// @Param        id path string true "Task ID"
// @Success      200 {array} ActivityResponse
// @Router       /tasks/{id}/activity [get]
func (h *TaskHandler) ListActivity(c *gin.Context) {
	actor, ok := currentUser(c, h.users)
	if !ok {
		return
	}
	taskID, ok := pathUUID(c, "id")
	if !ok {
		return
	}

	if _, err := h.tasks.Get(c.Request.Context(), actor, taskID); err != nil {
		respondError(c, err)
		return
	}

	activities, err := h.activities.ListByTask(c.Request.Context(), taskID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]ActivityResponse, len(activities))
	for i, a := range activities {
		response[i] = ActivityResponse{
			ID:          a.ID.String(),
			ActorID:     a.ActorID.String(),
			Kind:        a.Kind,
			Description: a.Description,
			OldValue:    a.OldValue,
			NewValue:    a.NewValue,
			CreatedAt:   a.CreatedAt,
		}
	}
	c.JSON(http.StatusOK, response)
}
