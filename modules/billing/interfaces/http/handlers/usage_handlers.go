package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/coachtranscribe/engine/modules/billing/application/queries"
	userentities "github.com/coachtranscribe/engine/modules/user/domain/entities"
	"github.com/coachtranscribe/engine/seedwork/domain"
)

// UsageHandlers exposes the billing module's one read endpoint (spec.md
// §3's usage ledger has no write RPC of its own; writes happen as a
// side effect of C6's complete/fail transitions).
type UsageHandlers struct {
	getUsageStatus *queries.GetUsageStatusHandler
}

func NewUsageHandlers(getUsageStatus *queries.GetUsageStatusHandler) *UsageHandlers {
	return &UsageHandlers{getUsageStatus: getUsageStatus}
}

func (h *UsageHandlers) GetUsageStatus(c *gin.Context) {
	raw, exists := c.Get("user")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	user, ok := raw.(*userentities.User)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	result, err := h.getUsageStatus.Handle(c.Request.Context(), queries.GetUsageStatusQuery{OwnerID: user.GetID()})
	if err != nil {
		status := http.StatusInternalServerError
		if domain.CodeOf(err) == domain.CodeNotFound {
			status = http.StatusNotFound
		}
		c.JSON(status, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, result)
}
