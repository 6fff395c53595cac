package api

import (
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/trilytx/trilytx-backend/usecases"
	"github.com/trilytx/trilytx-backend/utils"
)

// Grace period on top of the longest route deadline, so the 408 from the
// timeout middleware reaches the client before the connection is cut.
const serverTimeoutGrace = 5 * time.Second

func listenHost(env string) string {
	if env == "local" || env == "test" {
		return "localhost"
	}
	return "0.0.0.0"
}

func NewServer(
	router *gin.Engine,
	conf Configuration,
	uc usecases.Usecases,
	auth utils.Authentication,
	logger *slog.Logger,
) *http.Server {
	addRoutes(router, conf, uc, auth, logger)

	deadline := max(conf.QuestionTimeout, conf.DefaultTimeout) + serverTimeoutGrace

	return &http.Server{
		Addr:              net.JoinHostPort(listenHost(conf.Env), conf.Port),
		ReadHeaderTimeout: conf.DefaultTimeout,
		ReadTimeout:       deadline,
		WriteTimeout:      deadline,
		IdleTimeout:       deadline,
		Handler:           h2c.NewHandler(router, &http2.Server{}),
	}
}
