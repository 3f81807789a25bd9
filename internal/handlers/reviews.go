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

// ReviewHandler handles the review CRUD surface.
type ReviewHandler struct {
	store  store.Store
	policy service.AuthorizationPolicy
	log    *logrus.Logger
}

// NewReviewHandler creates a new ReviewHandler instance.
func NewReviewHandler(st store.Store, policy service.AuthorizationPolicy, log *logrus.Logger) *ReviewHandler {
	return &ReviewHandler{
		store:  st,
		policy: policy,
		log:    log,
	}
}

// ReviewRequest describes the required/optional fields of a review body.
// Stars is a pointer so "required" rejects an absent field while a
// legitimate zero-star review still validates.
type ReviewRequest struct {
	UserID     string   `json:"userid" binding:"required"`
	BusinessID string   `json:"businessid" binding:"required"`
	Dollars    int      `json:"dollars" binding:"min=1,max=4"`
	Stars      *float64 `json:"stars" binding:"required,min=0,max=5"`
	Review     string   `json:"review"`
}

func (r *ReviewRequest) toModel() models.Review {
	return models.Review{
		UserID:     r.UserID,
		BusinessID: r.BusinessID,
		Dollars:    r.Dollars,
		Stars:      *r.Stars,
		Review:     r.Review,
	}
}

// Create stores a new review. The caller must be the declared author or an
// admin, and a user may only review a given business once.
func (h *ReviewHandler) Create(c *gin.Context) {
	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Request body is not a valid review object")
		return
	}

	if !h.policy.Authorize(c.Request.Context(), middleware.AuthUserID(c), req.UserID) {
		RespondForbidden(c)
		return
	}

	count, err := h.store.CountDocuments(c.Request.Context(), store.CollectionReviews,
		bson.M{"userid": req.UserID, "businessid": req.BusinessID})
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}
	if count > 0 {
		RespondError(c, http.StatusForbidden, "User has already posted a review of this business")
		return
	}

	id, err := h.store.InsertOne(c.Request.Context(), store.CollectionReviews, req.toModel())
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id": id.Hex(),
		"links": gin.H{
			"review":   "/reviews/" + id.Hex(),
			"business": "/businesses/" + req.BusinessID,
		},
	})
}

// Get returns a single review. Public: no token required.
func (h *ReviewHandler) Get(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var review models.Review
	err = h.store.FindOne(c.Request.Context(), store.CollectionReviews, bson.M{"_id": reviewID}, &review)
	if errors.Is(err, store.ErrNoDocuments) {
		RespondNotFound(c)
		return
	}
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, review)
}

// Update replaces a review. Owner or admin only, and the replacement must
// keep the original userid and businessid.
func (h *ReviewHandler) Update(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	var req ReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Request body is not a valid review object")
		return
	}

	existing, ok := h.fetchAuthorized(c, reviewID)
	if !ok {
		return
	}

	if req.BusinessID != existing.BusinessID || req.UserID != existing.UserID {
		RespondError(c, http.StatusForbidden, "Updated review cannot modify businessid or userid")
		return
	}

	matched, err := h.store.ReplaceOne(c.Request.Context(), store.CollectionReviews, bson.M{"_id": reviewID}, req.toModel())
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
			"review":   "/reviews/" + reviewID.Hex(),
			"business": "/businesses/" + req.BusinessID,
		},
	})
}

// Delete removes a review. Owner or admin only.
func (h *ReviewHandler) Delete(c *gin.Context) {
	reviewID, err := primitive.ObjectIDFromHex(c.Param("reviewid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid review ID")
		return
	}

	if _, ok := h.fetchAuthorized(c, reviewID); !ok {
		return
	}

	deleted, err := h.store.DeleteOne(c.Request.Context(), store.CollectionReviews, bson.M{"_id": reviewID})
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

func (h *ReviewHandler) fetchAuthorized(c *gin.Context, reviewID primitive.ObjectID) (models.Review, bool) {
	var review models.Review
	err := h.store.FindOne(c.Request.Context(), store.CollectionReviews, bson.M{"_id": reviewID}, &review)
	if errors.Is(err, store.ErrNoDocuments) {
		RespondNotFound(c)
		return models.Review{}, false
	}
	if err != nil {
		RespondServerError(c, h.log, err)
		return models.Review{}, false
	}

	if !h.policy.Authorize(c.Request.Context(), middleware.AuthUserID(c), review.UserID) {
		RespondForbidden(c)
		return models.Review{}, false
	}
	return review, true
}
