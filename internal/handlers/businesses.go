package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/stalberm/business-directory-api/internal/middleware"
	"github.com/stalberm/business-directory-api/internal/models"
	"github.com/stalberm/business-directory-api/internal/service"
	"github.com/stalberm/business-directory-api/internal/store"
)

const businessesPerPage = 10

// BusinessHandler handles the business CRUD surface.
type BusinessHandler struct {
	store  store.Store
	policy service.AuthorizationPolicy
	log    *logrus.Logger
}

// NewBusinessHandler creates a new BusinessHandler instance.
func NewBusinessHandler(st store.Store, policy service.AuthorizationPolicy, log *logrus.Logger) *BusinessHandler {
	return &BusinessHandler{
		store:  st,
		policy: policy,
		log:    log,
	}
}

// BusinessRequest describes the required/optional fields of a business body.
type BusinessRequest struct {
	OwnerID     string `json:"ownerid" binding:"required"`
	Name        string `json:"name" binding:"required"`
	Address     string `json:"address" binding:"required"`
	City        string `json:"city" binding:"required"`
	State       string `json:"state" binding:"required"`
	Zip         string `json:"zip" binding:"required"`
	Phone       string `json:"phone" binding:"required"`
	Category    string `json:"category" binding:"required"`
	Subcategory string `json:"subcategory" binding:"required"`
	Website     string `json:"website"`
	Email       string `json:"email"`
}

func (r *BusinessRequest) toModel() models.Business {
	return models.Business{
		OwnerID:     r.OwnerID,
		Name:        r.Name,
		Address:     r.Address,
		City:        r.City,
		State:       r.State,
		Zip:         r.Zip,
		Phone:       r.Phone,
		Category:    r.Category,
		Subcategory: r.Subcategory,
		Website:     r.Website,
		Email:       r.Email,
	}
}

// listResponse is the paginated business listing body.
type listResponse struct {
	Businesses []models.Business `json:"businesses"`
	PageNumber int               `json:"pageNumber"`
	TotalPages int               `json:"totalPages"`
	PageSize   int               `json:"pageSize"`
	TotalCount int               `json:"totalCount"`
	Links      map[string]string `json:"links"`
}

// businessDetail embeds a business with its reviews and photos.
type businessDetail struct {
	models.Business
	Reviews []models.Review `json:"reviews"`
	Photos  []models.Photo  `json:"photos"`
}

// List returns a page of businesses. Public.
func (h *BusinessHandler) List(c *gin.Context) {
	businesses := []models.Business{}
	if err := h.store.Find(c.Request.Context(), store.CollectionBusinesses, bson.M{}, &businesses); err != nil {
		RespondServerError(c, h.log, err)
		return
	}

	// Clamp the requested page into [1, lastPage].
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = 1
	}
	lastPage := (len(businesses) + businessesPerPage - 1) / businessesPerPage
	if lastPage < 1 {
		lastPage = 1
	}
	if page > lastPage {
		page = lastPage
	}

	start := (page - 1) * businessesPerPage
	end := start + businessesPerPage
	if end > len(businesses) {
		end = len(businesses)
	}

	links := map[string]string{}
	if page < lastPage {
		links["nextPage"] = fmt.Sprintf("/businesses?page=%d", page+1)
		links["lastPage"] = fmt.Sprintf("/businesses?page=%d", lastPage)
	}
	if page > 1 {
		links["prevPage"] = fmt.Sprintf("/businesses?page=%d", page-1)
		links["firstPage"] = "/businesses?page=1"
	}

	c.JSON(http.StatusOK, listResponse{
		Businesses: businesses[start:end],
		PageNumber: page,
		TotalPages: lastPage,
		PageSize:   businessesPerPage,
		TotalCount: len(businesses),
		Links:      links,
	})
}

// Create stores a new business. The caller must be the declared owner or an
// admin.
func (h *BusinessHandler) Create(c *gin.Context) {
	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Request body is not a valid business object")
		return
	}

	if !h.policy.Authorize(c.Request.Context(), middleware.AuthUserID(c), req.OwnerID) {
		RespondForbidden(c)
		return
	}

	id, err := h.store.InsertOne(c.Request.Context(), store.CollectionBusinesses, req.toModel())
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id": id.Hex(),
		"links": gin.H{
			"business": "/businesses/" + id.Hex(),
		},
	})
}

// Get returns a single business with its reviews and photos embedded.
// Public: no token required.
func (h *BusinessHandler) Get(c *gin.Context) {
	businessID, err := primitive.ObjectIDFromHex(c.Param("businessid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid business ID")
		return
	}

	var business models.Business
	err = h.store.FindOne(c.Request.Context(), store.CollectionBusinesses, bson.M{"_id": businessID}, &business)
	if errors.Is(err, store.ErrNoDocuments) {
		RespondNotFound(c)
		return
	}
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}

	detail := businessDetail{
		Business: business,
		Reviews:  []models.Review{},
		Photos:   []models.Photo{},
	}
	filter := bson.M{"businessid": businessID.Hex()}
	if err := h.store.Find(c.Request.Context(), store.CollectionReviews, filter, &detail.Reviews); err != nil {
		RespondServerError(c, h.log, err)
		return
	}
	if err := h.store.Find(c.Request.Context(), store.CollectionPhotos, filter, &detail.Photos); err != nil {
		RespondServerError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, detail)
}

// Update replaces a business. The caller must own the stored business or be
// an admin; validation and authorization must both pass before the store is
// touched.
func (h *BusinessHandler) Update(c *gin.Context) {
	businessID, err := primitive.ObjectIDFromHex(c.Param("businessid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid business ID")
		return
	}

	var req BusinessRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Request body is not a valid business object")
		return
	}

	if _, ok := h.fetchAuthorized(c, businessID); !ok {
		return
	}

	matched, err := h.store.ReplaceOne(c.Request.Context(), store.CollectionBusinesses, bson.M{"_id": businessID}, req.toModel())
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
			"business": "/businesses/" + businessID.Hex(),
		},
	})
}

// Delete removes a business. Owner or admin only.
func (h *BusinessHandler) Delete(c *gin.Context) {
	businessID, err := primitive.ObjectIDFromHex(c.Param("businessid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid business ID")
		return
	}

	if _, ok := h.fetchAuthorized(c, businessID); !ok {
		return
	}

	deleted, err := h.store.DeleteOne(c.Request.Context(), store.CollectionBusinesses, bson.M{"_id": businessID})
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

// fetchAuthorized loads the stored business and applies the owner-or-admin
// policy against its owner field. It writes the error response itself and
// returns ok=false when the request must not proceed.
func (h *BusinessHandler) fetchAuthorized(c *gin.Context, businessID primitive.ObjectID) (models.Business, bool) {
	var business models.Business
	err := h.store.FindOne(c.Request.Context(), store.CollectionBusinesses, bson.M{"_id": businessID}, &business)
	if errors.Is(err, store.ErrNoDocuments) {
		RespondNotFound(c)
		return models.Business{}, false
	}
	if err != nil {
		RespondServerError(c, h.log, err)
		return models.Business{}, false
	}

	if !h.policy.Authorize(c.Request.Context(), middleware.AuthUserID(c), business.OwnerID) {
		RespondForbidden(c)
		return models.Business{}, false
	}
	return business, true
}
