package main

import (
	"flag"
	"log"

	"tablebook/internal/validation"
)

func main() {
	var baseURL string
	flag.StringVar(&baseURL, "url", "http://localhost:8080", "Base URL for API validation")
	flag.Parse()

	log.Printf("Starting API smoke check against: %s", baseURL)

	validator := validation.NewSmokeValidator(baseURL)
	if err := validator.ValidateAll(); err != nil {
		log.Fatalf("Smoke check failed: %v", err)
	}

	log.Println("Smoke check passed")
}
