package main

import (
	"log"
	"strings"
	"time"

	"placepix/config"
	"placepix/db"
	"placepix/handlers"
	"placepix/models"
	"placepix/processing"
	"placepix/storage"
	"placepix/utils"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/autotls"
	"github.com/gin-gonic/gin"
)

func main() {
	db.Init()
	models.Init()
	storage.Init()
	processing.Init()
	go processing.StartProcessing()

	router := gin.Default()
	_ = router.SetTrustedProxies([]string{})
	if config.DEBUG_MODE {
		router.Use(utils.ErrorLogMiddleware)
	}
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST"},
		AllowHeaders:     []string{"Origin"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           30 * 24 * time.Hour,
	}))
	if !config.DEBUG_MODE {
		router.Use(gzip.Gzip(gzip.DefaultCompression))
	}

	// Queue ingestion and administration
	router.POST("/queue/add", handlers.QueueAdd)
	router.POST("/queue/drain", handlers.QueueDrain)
	router.POST("/queue/sweep", handlers.QueueSweep)
	router.POST("/queue/cleanup", handlers.QueueCleanup)
	// Review/curation
	router.GET("/place/list", handlers.PlaceList)
	router.POST("/place/top", handlers.PlaceTop)
	router.POST("/place/attention", handlers.PlaceAttention)
	router.POST("/place/delete", handlers.PlaceDelete)
	router.POST("/image/delete", handlers.ImageDelete)

	var err error
	if config.TLS_DOMAINS != "" {
		err = autotls.Run(router, strings.Split(config.TLS_DOMAINS, ",")...)
	} else {
		err = router.Run(config.BIND_ADDRESS)
	}
	log.Fatalf("Server stopped: %v", err)
}
