package httpapi

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mmynk/stockroom/internal/middleware"
	"github.com/mmynk/stockroom/internal/models"
	"github.com/mmynk/stockroom/internal/service"
)

type handlers struct {
	auth      *service.AuthService
	inventory *service.InventoryService
	status    *service.StatusService
	uploads   *service.UploadService
	logger    *slog.Logger
	maxUpload int64
}

// CredentialsForm is the form body of register and login.
type CredentialsForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

// ItemRequest is the JSON body of inventory create and update.
// ID and OwnerID are accepted and ignored: the path and the token win.
type ItemRequest struct {
	ID          string `json:"id"`
	Name        string `json:"name" binding:"required"`
	Quantity    *int   `json:"quantity" binding:"required"`
	Description string `json:"description"`
	OwnerID     string `json:"owner_id"`
}

func (r ItemRequest) input() models.ItemInput {
	return models.ItemInput{
		Name:        r.Name,
		Quantity:    *r.Quantity,
		Description: r.Description,
	}
}

func (h *handlers) register(c *gin.Context) {
	var form CredentialsForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	if _, err := h.auth.Register(c.Request.Context(), form.Username, form.Password); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User registered successfully"})
}

func (h *handlers) login(c *gin.Context) {
	var form CredentialsForm
	if err := c.ShouldBind(&form); err != nil {
		badRequest(c, "username and password are required")
		return
	}

	token, err := h.auth.Login(c.Request.Context(), form.Username, form.Password)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Login successful", "token": token})
}

func (h *handlers) listUsers(c *gin.Context) {
	users, err := h.auth.ListUsers(c.Request.Context(), 0)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (h *handlers) dbStatus(c *gin.Context) {
	collections, err := h.status.Check(c.Request.Context())
	if err != nil {
		_ = c.Error(err)
		c.JSON(http.StatusOK, gin.H{"status": "error", "detail": "database unreachable"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "connected", "collections": collections})
}

func (h *handlers) listItems(c *gin.Context) {
	items, err := h.inventory.ListByOwner(c.Request.Context(), middleware.GetUserID(c.Request.Context()))
	if err != nil {
		writeError(c, err)
		return
	}
	if items == nil {
		items = []*models.InventoryItem{}
	}
	c.JSON(http.StatusOK, items)
}

func (h *handlers) createItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and integer quantity are required")
		return
	}

	item, err := h.inventory.Create(c.Request.Context(), middleware.GetUserID(c.Request.Context()), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) updateItem(c *gin.Context) {
	var req ItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "name and integer quantity are required")
		return
	}

	ctx := c.Request.Context()
	item, err := h.inventory.Update(ctx, middleware.GetUserID(ctx), c.Param("id"), req.input())
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, item)
}

func (h *handlers) deleteItem(c *gin.Context) {
	ctx := c.Request.Context()
	if err := h.inventory.Delete(ctx, middleware.GetUserID(ctx), c.Param("item_id")); err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Item deleted successfully"})
}

func (h *handlers) upload(c *gin.Context) {
	if c.Request.ContentLength > h.maxUpload {
		tooLarge(c, h.maxUpload)
		return
	}
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.maxUpload)

	fh, err := c.FormFile("file")
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			tooLarge(c, h.maxUpload)
			return
		}
		badRequest(c, "file is required")
		return
	}

	f, err := fh.Open()
	if err != nil {
		h.logger.ErrorContext(c.Request.Context(), "Failed to open upload", "error", err)
		c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"detail": "upload failed"})
		return
	}
	defer f.Close()

	filename, _, err := h.uploads.Save(c.Request.Context(), service.Upload{
		Filename:    fh.Filename,
		ContentType: fh.Header.Get("Content-Type"),
		Size:        fh.Size,
		Body:        f,
	})
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"filename": filename, "message": "File uploaded successfully"})
}

func tooLarge(c *gin.Context, limit int64) {
	c.AbortWithStatusJSON(http.StatusRequestEntityTooLarge,
		gin.H{"detail": fmt.Sprintf("upload exceeds %d bytes", limit)})
}
