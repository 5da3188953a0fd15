package main

import (
	"paytrack/internal/api"

	log "github.com/sirupsen/logrus"
)

// @title PayTrack API
// @version 1.0
// @description Учет задолженностей перед поставщиками и платежей по ним
// @host localhost:8080
// @BasePath /
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	log.Println("App start")
	if err := api.StartServer(); err != nil {
		log.Fatal(err)
	}
	log.Println("App terminated")
}
