package main

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/travelwishlist/internal/logging"
	"github.com/dmitrijs2005/travelwishlist/internal/server"
	"github.com/dmitrijs2005/travelwishlist/internal/server/config"
	"github.com/gin-gonic/gin"
)

func main() {

	ctx := context.Background()
	cfg := config.LoadConfig()
	logger := logging.NewJSONLogger(os.Stdout, cfg.LogLevel)

	gin.SetMode(gin.ReleaseMode)

	app, err := server.NewApp(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("startup: %v", err)
	}

	app.Run(ctx)

}
