package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/trilytx/trilytx-backend/dto"
	"github.com/trilytx/trilytx-backend/usecases"
	"github.com/trilytx/trilytx-backend/utils"
)

func handleLivenessProbe(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"mood": "Ready to count bananas",
	})
}

func handleHealth(uc usecases.Usecases) func(c *gin.Context) {
	return func(c *gin.Context) {
		usecase := uc.NewHealthUsecase()
		status := usecase.GetHealthStatus(c.Request.Context())

		code := http.StatusOK
		if failing := status.Unhealthy(); len(failing) > 0 {
			utils.LoggerFromContext(c.Request.Context()).WarnContext(c.Request.Context(),
				"health check failed", "components", failing)
			code = http.StatusServiceUnavailable
		}
		c.JSON(code, dto.AdaptHealthStatus(status))
	}
}
