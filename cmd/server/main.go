package main

import (
	"github.com/sirupsen/logrus"

	"videotube/cmd/config"
	"videotube/pkg/database"
	"videotube/pkg/handlers"
	"videotube/pkg/media"
	"videotube/pkg/store"
)

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.JSONFormatter{})

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("error loading config: %s", err)
	}

	db, err := database.Open(cfg.DBDriver, cfg.DBDSN)
	if err != nil {
		log.Fatalf("failed to connect to database: %s", err)
	}

	var uploader *media.Uploader
	if cfg.S3Bucket != "" {
		uploader, err = media.NewUploader(cfg.AWSRegion, cfg.S3Bucket)
		if err != nil {
			log.Fatalf("failed to set up media host: %s", err)
		}
	} else {
		log.Warn("no S3 bucket configured, video uploads are disabled")
	}

	api := handlers.New(cfg, store.New(db, cfg.StoreTimeout), uploader, log)
	r := handlers.Router(api)

	log.Infof("server listening on :%s", cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatalf("server stopped: %s", err)
	}
}
