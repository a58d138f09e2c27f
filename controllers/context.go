package controllers

import (
	"net/http"

	"glowdesk-backend/utils"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// accountUUID pulls the account id set by the auth middleware off the
// request context. On failure it has already written the error response.
func accountUUID(c *gin.Context) (uuid.UUID, bool) {
	accountID, exists := c.Get("accountId")
	if !exists {
		utils.RespondWithError(c, http.StatusUnauthorized, "Account ID not found in context")
		return uuid.Nil, false
	}

	id, ok := accountID.(string)
	if !ok {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid account ID format")
		return uuid.Nil, false
	}

	accountUUID, err := uuid.Parse(id)
	if err != nil {
		utils.RespondWithError(c, http.StatusInternalServerError, "Invalid account ID format")
		return uuid.Nil, false
	}

	return accountUUID, true
}

// pathUUID parses the :id path parameter.
func pathUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		utils.RespondWithError(c, http.StatusBadRequest, "Invalid ID format")
		return uuid.Nil, false
	}
	return id, true
}
