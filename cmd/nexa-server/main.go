package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/MarcosAvg/nexa/internal/config"
	"github.com/MarcosAvg/nexa/internal/models"
	"github.com/MarcosAvg/nexa/internal/routes"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		fmt.Fprintf(os.Stderr, "no se pudo inicializar el logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	appConfig := config.Load()

	db, err := setupDatabase(appConfig)
	if err != nil {
		logger.Fatal("conexión a base de datos fallida", zap.Error(err))
	}

	router := routes.SetupRouter(db, appConfig, logger)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", appConfig.Port),
		Handler: router,
	}

	go func() {
		logger.Info("servidor iniciado", zap.String("puerto", appConfig.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("no se pudo iniciar el servidor", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("apagando el servidor")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("apagado forzado", zap.Error(err))
	}
}

func setupDatabase(cfg *config.Config) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(cfg.DBPath), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	if err := db.AutoMigrate(
		&models.Person{},
		&models.Card{},
		&models.Ticket{},
		&models.HistoryLog{},
		&models.Dependency{},
		&models.Building{},
		&models.SpecialAccess{},
		&models.Schedule{},
		&models.Profile{},
		&models.SignedResponsiva{},
	); err != nil {
		return nil, fmt.Errorf("migración de base de datos fallida: %w", err)
	}

	if err := createInitialData(db); err != nil {
		return nil, fmt.Errorf("creación de datos iniciales fallida: %w", err)
	}

	return db, nil
}

func createInitialData(db *gorm.DB) error {
	var adminCount int64
	if err := db.Model(&models.Profile{}).Where("role = ?", models.RoleAdmin).Count(&adminCount).Error; err != nil {
		return err
	}

	adminEmail := getEnv("ADMIN_EMAIL", "admin@nexa.local")

	if adminCount == 0 {
		var existing models.Profile
		result := db.Where("email = ?", adminEmail).First(&existing)

		if result.Error == nil {
			existing.Role = models.RoleAdmin
			if err := db.Save(&existing).Error; err != nil {
				return err
			}
		} else if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			admin := models.Profile{
				Email:    adminEmail,
				Password: getEnv("ADMIN_PASSWORD", "Admin123!"),
				FullName: getEnv("ADMIN_FULL_NAME", "Administrador del Sistema"),
				Role:     models.RoleAdmin,
			}
			if err := db.Create(&admin).Error; err != nil {
				return err
			}
		} else {
			return result.Error
		}
	}

	var scheduleCount int64
	if err := db.Model(&models.Schedule{}).Count(&scheduleCount).Error; err != nil {
		return err
	}

	if scheduleCount == 0 {
		schedules := []models.Schedule{
			{Name: "Completo", DefaultEntry: "09:00", DefaultExit: "18:00"},
			{Name: "Matutino", DefaultEntry: "07:00", DefaultExit: "15:00"},
			{Name: "Vespertino", DefaultEntry: "14:00", DefaultExit: "22:00"},
		}
		for _, schedule := range schedules {
			if err := db.Create(&schedule).Error; err != nil {
				return err
			}
		}
	}

	var buildingCount int64
	if err := db.Model(&models.Building{}).Count(&buildingCount).Error; err != nil {
		return err
	}

	if buildingCount == 0 {
		buildings := []models.Building{
			{Name: "Torre A"},
			{Name: "Torre B"},
		}
		for _, building := range buildings {
			if err := db.Create(&building).Error; err != nil {
				return err
			}
		}
	}

	return nil
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
