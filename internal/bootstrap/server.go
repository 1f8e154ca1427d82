package bootstrap

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/Domenick1991/villasync/api"
	"github.com/Domenick1991/villasync/config"
	"github.com/Domenick1991/villasync/internal/service/approval"
	"github.com/Domenick1991/villasync/internal/service/resolver"
	"github.com/gin-gonic/gin"
)

// Run starts the HTTP server and blocks until the context is canceled or
// the server fails.
func Run(ctx context.Context, cfg *config.Config, resolverSvc resolver.ResolverUseCase, approvalSvc approval.ApprovalUseCase) error {
	router := gin.Default()

	propertyHandler := api.NewPropertyHandler(resolverSvc)
	bookingHandler := api.NewBookingHandler(approvalSvc)

	propertyHandler.Register(router.Group("/properties"))
	bookingHandler.Register(router.Group("/bookings"))

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	httpServer := &http.Server{
		Addr:    cfg.HTTP.Address,
		Handler: router,
	}

	errCh := make(chan error, 1)
	go func() { errCh <- httpServer.ListenAndServe() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown http server: %w", err)
		}
		return nil
	}
}
