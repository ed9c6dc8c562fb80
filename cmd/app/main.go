package main

import (
	"fmt"
	"os"

	"verimoto/cmd"
	httpadapter "verimoto/internal/adapters/in/http"
	"verimoto/internal/adapters/out/postgres/appointmentrepo"
	"verimoto/internal/adapters/out/postgres/driverrepo"
	"verimoto/internal/adapters/out/postgres/outboxrepo"
	redisadapter "verimoto/internal/adapters/out/redis"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/gommon/log"
	gormpostgres "gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func main() {
	configs := getConfigs()

	gormDB := mustConnectDB(configs)
	mustMigrate(gormDB)

	publisher, err := redisadapter.NewEventPublisher(configs.RedisURL)
	if err != nil {
		log.Fatalf("Error connecting to Redis: %v", err)
	}
	defer publisher.Close()

	app := cmd.NewCompositionRoot(configs, gormDB, publisher)

	jobManager := app.CreateJobManager()
	if err := jobManager.StartAll(); err != nil {
		log.Fatalf("Error starting jobs: %v", err)
	}
	defer jobManager.StopAll()

	startWebServer(&app, configs.HTTPPort)
}

func getConfigs() cmd.Config {
	config := cmd.Config{
		HTTPPort:   goDotEnvVariable("HTTP_PORT"),
		DBHost:     goDotEnvVariable("DB_HOST"),
		DBPort:     goDotEnvVariable("DB_PORT"),
		DBUser:     goDotEnvVariable("DB_USER"),
		DBPassword: goDotEnvVariable("DB_PASSWORD"),
		DBName:     goDotEnvVariable("DB_NAME"),
		DBSslMode:  goDotEnvVariable("DB_SSLMODE"),
		RedisURL:   goDotEnvVariable("REDIS_URL"),
	}
	return config
}

func goDotEnvVariable(key string) string {
	err := godotenv.Load(".env")
	if err != nil {
		log.Fatalf("Error loading .env file")
	}
	return os.Getenv(key)
}

func mustConnectDB(configs cmd.Config) *gorm.DB {
	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		configs.DBHost, configs.DBPort, configs.DBUser,
		configs.DBPassword, configs.DBName, configs.DBSslMode)

	gormDB, err := gorm.Open(gormpostgres.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatalf("Error connecting to database: %v", err)
	}
	return gormDB
}

func mustMigrate(gormDB *gorm.DB) {
	err := gormDB.AutoMigrate(
		&appointmentrepo.AppointmentDTO{},
		&appointmentrepo.CounterDTO{},
		&driverrepo.DriverDTO{},
		&outboxrepo.EventDTO{},
	)
	if err != nil {
		log.Fatalf("Error migrating database: %v", err)
	}
}

func startWebServer(app *cmd.CompositionRoot, port string) {
	e := echo.New()

	server := httpadapter.NewServer(
		app.CreateCreateAppointmentCommandHandler(),
		app.CreateTransitionStatusCommandHandler(),
		app.CreateCancelAppointmentCommandHandler(),
		app.CreateRateAppointmentCommandHandler(),
		app.CreateAssignDriverCommandHandler(),
		app.CreateRegisterDriverCommandHandler(),
		app.CreateSetDriverOnlineCommandHandler(),
		app.CreateReportDriverLocationCommandHandler(),
		app.CreateGetAppointmentQueryHandler(),
		app.CreateGetActiveAppointmentsQueryHandler(),
	)
	server.RegisterRoutes(e)

	e.Logger.Fatal(e.Start(fmt.Sprintf("0.0.0.0:%s", port)))
}
