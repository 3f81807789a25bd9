package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stalberm/business-directory-api/internal/middleware"
	"github.com/stalberm/business-directory-api/internal/models"
	"github.com/stalberm/business-directory-api/internal/service"
	"github.com/stalberm/business-directory-api/internal/store"
)

// PhotoHandler handles the photo CRUD surface.
type PhotoHandler struct {
	store  store.Store
	policy service.AuthorizationPolicy
	log    *logrus.Logger
}

// NewPhotoHandler creates a new PhotoHandler instance.
func NewPhotoHandler(st store.Store, policy service.AuthorizationPolicy, log *logrus.Logger) *PhotoHandler {
	return &PhotoHandler{
		store:  st,
		policy: policy,
		log:    log,
	}
}

// PhotoRequest describes the required/optional fields of a photo body.
type PhotoRequest struct {
	UserID     string `json:"userid" binding:"required"`
	BusinessID string `json:"businessid" binding:"required"`
	Caption    string `json:"caption"`
}

func (r *PhotoRequest) toModel() models.Photo {
	return models.Photo{
		UserID:     r.UserID,
		BusinessID: r.BusinessID,
		Caption:    r.Caption,
	}
}

// Create stores a new photo. The caller must be the declared submitter or an
// admin.
func (h *PhotoHandler) Create(c *gin.Context) {
	var req PhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Request body is not a valid photo object")
		return
	}

	if !h.policy.Authorize(c.Request.Context(), middleware.AuthUserID(c), req.UserID) {
		RespondForbidden(c)
		return
	}

	id, err := h.store.InsertOne(c.Request.Context(), store.CollectionPhotos, req.toModel())
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id": id.Hex(),
		"links": gin.H{
			"photo":    "/photos/" + id.Hex(),
			"business": "/businesses/" + req.BusinessID,
		},
	})
}

// Get returns a single photo. Public: no token required.
func (h *PhotoHandler) Get(c *gin.Context) {
	photoID, err := primitive.ObjectIDFromHex(c.Param("photoid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid photo ID")
		return
	}

	var photo models.Photo
	err = h.store.FindOne(c.Request.Context(), store.CollectionPhotos, bson.M{"_id": photoID}, &photo)
	if errors.Is(err, store.ErrNoDocuments) {
		RespondNotFound(c)
		return
	}
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, photo)
}

// Update replaces a photo. Owner or admin only, and the replacement must
// keep the original userid and businessid.
func (h *PhotoHandler) Update(c *gin.Context) {
	photoID, err := primitive.ObjectIDFromHex(c.Param("photoid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid photo ID")
		return
	}

	var req PhotoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Request body is not a valid photo object")
		return
	}

	existing, ok := h.fetchAuthorized(c, photoID)
	if !ok {
		return
	}

	if req.BusinessID != existing.BusinessID || req.UserID != existing.UserID {
		RespondError(c, http.StatusForbidden, "Updated photo cannot modify businessid or userid")
		return
	}

	matched, err := h.store.ReplaceOne(c.Request.Context(), store.CollectionPhotos, bson.M{"_id": photoID}, req.toModel())
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}
	if matched == 0 {
		RespondNotFound(c)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"links": gin.H{
			"photo":    "/photos/" + photoID.Hex(),
			"business": "/businesses/" + req.BusinessID,
		},
	})
}

// Delete removes a photo. Owner or admin only.
func (h *PhotoHandler) Delete(c *gin.Context) {
	photoID, err := primitive.ObjectIDFromHex(c.Param("photoid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid photo ID")
		return
	}

	if _, ok := h.fetchAuthorized(c, photoID); !ok {
		return
	}

	deleted, err := h.store.DeleteOne(c.Request.Context(), store.CollectionPhotos, bson.M{"_id": photoID})
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}
	if deleted == 0 {
		RespondNotFound(c)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *PhotoHandler) fetchAuthorized(c *gin.Context, photoID primitive.ObjectID) (models.Photo, bool) {
	var photo models.Photo
	err := h.store.FindOne(c.Request.Context(), store.CollectionPhotos, bson.M{"_id": photoID}, &photo)
	if errors.Is(err, store.ErrNoDocuments) {
		RespondNotFound(c)
		return models.Photo{}, false
	}
	if err != nil {
		RespondServerError(c, h.log, err)
		return models.Photo{}, false
	}

	if !h.policy.Authorize(c.Request.Context(), middleware.AuthUserID(c), photo.UserID) {
		RespondForbidden(c)
		return models.Photo{}, false
	}
	return photo, true
}
