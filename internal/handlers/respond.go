// Package handlers contains HTTP request handlers for the directory API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

const unauthorizedMessage = "Unauthorized to access the specified resource"

// RespondError writes a JSON error body with the given status.
func RespondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// RespondNotFound writes the generic 404 body used for unknown resources and
// unmatched routes alike.
func RespondNotFound(c *gin.Context) {
	c.JSON(http.StatusNotFound, gin.H{
		"error": "Requested resource " + c.Request.URL.Path + " does not exist",
	})
}

// RespondServerError logs the fault and writes the generic 500 body. Store
// and crypto faults surface to clients only through this path.
func RespondServerError(c *gin.Context, log *logrus.Logger, err error) {
	log.WithError(err).WithField("path", c.Request.URL.Path).Error("request failed")
	c.JSON(http.StatusInternalServerError, gin.H{
		"err": "Server error. Please try again later.",
	})
}

// RespondForbidden writes the stable 403 body for authorization failures,
// distinguishable from the 401 authentication failure.
func RespondForbidden(c *gin.Context) {
	c.JSON(http.StatusForbidden, gin.H{"error": unauthorizedMessage})
}
