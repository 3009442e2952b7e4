package main

import (
	"fmt"
	"log"

	"beautystudio-backend/config"
	"beautystudio-backend/routes"
	"beautystudio-backend/services"
	"beautystudio-backend/supabase"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	db, err := supabase.New(supabase.Config{
		ProjectURL: cfg.SupabaseURL,
		APIKey:     cfg.SupabaseAnonKey,
	})
	if err != nil {
		log.Fatal(err)
	}

	if cfg.RemindersEnabled {
		services.NewReminderService(db, cfg).StartScheduler()
	}

	r := routes.SetupRouter(cfg, db)
	printRoutes(r)
	r.Run(":" + cfg.Port)
}

func printRoutes(r *gin.Engine) {
	routes := r.Routes()
	for _, route := range routes {
		fmt.Printf("%-6s %s\n", route.Method, route.Path)
	}
}
