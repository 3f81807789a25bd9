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

// UserHandler handles registration, login and user-scoped reads.
type UserHandler struct {
	auth   service.AuthService
	policy service.AuthorizationPolicy
	store  store.Store
	log    *logrus.Logger
}

// NewUserHandler creates a new UserHandler instance.
func NewUserHandler(auth service.AuthService, policy service.AuthorizationPolicy, st store.Store, log *logrus.Logger) *UserHandler {
	return &UserHandler{
		auth:   auth,
		policy: policy,
		store:  st,
		log:    log,
	}
}

// RegisterRequest represents the user creation payload.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
	Admin    bool   `json:"admin"`
}

// LoginRequest represents the login payload.
type LoginRequest struct {
	Email    string `json:"email" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// Register creates a new user. Anonymous callers may self-register;
// requesting the admin flag requires an admin bearer token and is rejected
// with a 403 for everyone else.
func (h *UserHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Request body is not a valid user object")
		return
	}

	callerIsAdmin := h.policy.IsAdmin(c.Request.Context(), middleware.AuthUserID(c))

	id, err := h.auth.Register(c.Request.Context(), req.Name, req.Email, req.Password, req.Admin, callerIsAdmin)
	switch {
	case errors.Is(err, service.ErrAdminRequired):
		RespondForbidden(c)
		return
	case errors.Is(err, service.ErrDuplicateEmail):
		RespondError(c, http.StatusBadRequest, "A user with that email already exists")
		return
	case err != nil:
		RespondServerError(c, h.log, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id": id,
		"links": gin.H{
			"user": "/users/" + id,
		},
	})
}

// Login verifies credentials and returns a bearer token.
func (h *UserHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondError(c, http.StatusBadRequest, "Request body requires email and password")
		return
	}

	token, err := h.auth.Login(c.Request.Context(), req.Email, req.Password)
	if errors.Is(err, service.ErrInvalidCredentials) {
		RespondError(c, http.StatusUnauthorized, "Invalid authentication credentials")
		return
	}
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": token})
}

// GetUser returns a single user record. Gated: owner or admin only.
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}

	var user models.User
	err := h.store.FindOne(c.Request.Context(), store.CollectionUsers, bson.M{"_id": userID}, &user)
	if errors.Is(err, store.ErrNoDocuments) {
		RespondNotFound(c)
		return
	}
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}

	c.JSON(http.StatusOK, user)
}

// ListBusinesses returns the businesses owned by a user. Gated.
func (h *UserHandler) ListBusinesses(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	if !h.userExists(c, userID) {
		return
	}

	businesses := []models.Business{}
	err := h.store.Find(c.Request.Context(), store.CollectionBusinesses, bson.M{"ownerid": userID.Hex()}, &businesses)
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"businesses": businesses})
}

// ListReviews returns the reviews written by a user. Gated.
func (h *UserHandler) ListReviews(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	if !h.userExists(c, userID) {
		return
	}

	reviews := []models.Review{}
	err := h.store.Find(c.Request.Context(), store.CollectionReviews, bson.M{"userid": userID.Hex()}, &reviews)
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"reviews": reviews})
}

// ListPhotos returns the photos submitted by a user. Gated.
func (h *UserHandler) ListPhotos(c *gin.Context) {
	userID, ok := h.authorizedUserID(c)
	if !ok {
		return
	}
	if !h.userExists(c, userID) {
		return
	}

	photos := []models.Photo{}
	err := h.store.Find(c.Request.Context(), store.CollectionPhotos, bson.M{"userid": userID.Hex()}, &photos)
	if err != nil {
		RespondServerError(c, h.log, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"photos": photos})
}

// authorizedUserID parses the :userid path parameter and applies the
// owner-or-admin policy against it. It writes the error response itself and
// returns ok=false when the request must not proceed.
func (h *UserHandler) authorizedUserID(c *gin.Context) (primitive.ObjectID, bool) {
	userID, err := primitive.ObjectIDFromHex(c.Param("userid"))
	if err != nil {
		RespondError(c, http.StatusBadRequest, "Invalid user ID")
		return primitive.NilObjectID, false
	}

	if !h.policy.Authorize(c.Request.Context(), middleware.AuthUserID(c), userID.Hex()) {
		RespondForbidden(c)
		return primitive.NilObjectID, false
	}
	return userID, true
}

func (h *UserHandler) userExists(c *gin.Context, userID primitive.ObjectID) bool {
	var user models.User
	err := h.store.FindOne(c.Request.Context(), store.CollectionUsers, bson.M{"_id": userID}, &user)
	if errors.Is(err, store.ErrNoDocuments) {
		RespondNotFound(c)
		return false
	}
	if err != nil {
		RespondServerError(c, h.log, err)
		return false
	}
	return true
}
