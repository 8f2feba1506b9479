package main

import (
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/time/rate"
	"gopkg.in/natefinch/lumberjack.v2"

	"petgenie/api"
	"petgenie/config"
	"petgenie/handlers"
	"petgenie/internal/database"
	"petgenie/services/classifier"
	"petgenie/services/gcal"
	"petgenie/services/icsfeed"
	"petgenie/services/matcher"
	"petgenie/services/schedule"
	"petgenie/services/visits"
	"petgenie/services/workload"
	"petgenie/utils"
)

func main() {
	cfg := config.Load()
	setupLogging(cfg)

	log.Printf("[main] petgenie %s starting", handlers.BackendVersion())

	db, err := database.NewDB(database.Config{DatabasePath: cfg.DatabasePath})
	if err != nil {
		log.Fatalf("[main] open database: %v", err)
	}
	defer db.Close()

	// Core analysis services
	classifierSvc := classifier.New()
	workloadSvc := workload.New(classifierSvc)
	visitsSvc := visits.New()
	matcherSvc := matcher.New(db.Mappings)

	// Calendar sources
	var sources []schedule.Source
	var gcalClient *gcal.Client
	if cfg.GoogleConfigured() {
		gcalClient, err = gcal.NewClient(gcal.Config{
			ClientID:     cfg.GoogleClientID,
			ClientSecret: cfg.GoogleClientSecret,
			RedirectURL:  cfg.GoogleRedirectURL,
			TokenPath:    cfg.GoogleTokenPath,
			CalendarID:   cfg.GoogleCalendarID,
		})
		if err != nil {
			log.Fatalf("[main] google calendar: %v", err)
		}
		sources = append(sources, gcalClient)
		log.Printf("[main] google calendar source enabled (%s)", cfg.GoogleCalendarID)
	}
	for name, url := range cfg.ICSFeeds {
		sources = append(sources, icsfeed.NewFeed(name, url))
		log.Printf("[main] ics feed source enabled (%s)", name)
	}
	if len(sources) == 0 {
		log.Println("[main] no calendar sources configured; schedule will stay empty until one is added")
	}

	scheduleSvc := schedule.New(classifierSvc, sources...)
	scheduleSvc.StartBackgroundRefresh(cfg.RefreshInterval)
	defer scheduleSvc.Stop()

	opts := workload.DefaultOptions()
	opts.IncludeTravel = cfg.IncludeTravel
	opts.TravelLegMinutes = cfg.TravelLegMinutes
	opts.WarningRatio = cfg.WarningRatio

	router := utils.NewRouter()

	limiter := api.NewIPRateLimiter(rate.Every(time.Second), 30)
	router.Use(limiter.Middleware)

	scheduleHandler := handlers.NewScheduleHandler(scheduleSvc)
	classifyHandler := handlers.NewClassifyHandler(classifierSvc)
	workloadHandler := handlers.NewWorkloadHandler(workloadSvc, scheduleSvc, opts)
	visitsHandler := handlers.NewVisitsHandler(visitsSvc, db.Templates, scheduleSvc)
	clientsHandler := handlers.NewClientsHandler(db.Clients, matcherSvc)
	googleHandler := handlers.NewGoogleAuthHandler(gcalClient)
	versionHandler := handlers.NewVersionHandler()

	router.HandleFunc("/api/version", versionHandler.GetVersion).Methods(http.MethodGet)

	router.HandleFunc("/api/schedule", scheduleHandler.GetSchedule).Methods(http.MethodGet)
	router.HandleFunc("/api/schedule/refresh", scheduleHandler.RefreshSchedule).Methods(http.MethodPost)
	router.HandleFunc("/api/schedule/status", scheduleHandler.GetStatus).Methods(http.MethodGet)

	router.HandleFunc("/api/classify", classifyHandler.Classify).Methods(http.MethodPost)

	router.HandleFunc("/api/workload/daily", workloadHandler.GetDaily).Methods(http.MethodGet)
	router.HandleFunc("/api/workload/range", workloadHandler.GetRange).Methods(http.MethodGet)
	router.HandleFunc("/api/workload/summary", workloadHandler.GetSummary).Methods(http.MethodGet)
	router.HandleFunc("/api/workload/warnings", workloadHandler.GetWarnings).Methods(http.MethodGet)

	router.HandleFunc("/api/visits/preview", visitsHandler.Preview).Methods(http.MethodPost)
	router.HandleFunc("/api/templates", visitsHandler.ListTemplates).Methods(http.MethodGet)
	router.HandleFunc("/api/templates", visitsHandler.CreateTemplate).Methods(http.MethodPost)
	router.HandleFunc("/api/templates/{id}", visitsHandler.DeleteTemplate).Methods(http.MethodDelete)

	router.HandleFunc("/api/clients", clientsHandler.ListClients).Methods(http.MethodGet)
	router.HandleFunc("/api/clients", clientsHandler.CreateClient).Methods(http.MethodPost)
	router.HandleFunc("/api/clients/suggest", clientsHandler.Suggest).Methods(http.MethodGet)
	router.HandleFunc("/api/clients/mappings", clientsHandler.SetMapping).Methods(http.MethodPut)
	router.HandleFunc("/api/clients/mappings", clientsHandler.RemoveMapping).Methods(http.MethodDelete)
	router.HandleFunc("/api/clients/{id}", clientsHandler.GetClient).Methods(http.MethodGet)
	router.HandleFunc("/api/clients/{id}", clientsHandler.UpdateClient).Methods(http.MethodPut)
	router.HandleFunc("/api/clients/{id}", clientsHandler.DeleteClient).Methods(http.MethodDelete)

	router.HandleFunc("/api/google/auth", googleHandler.GetAuthURL).Methods(http.MethodGet)
	router.HandleFunc("/oauth2callback", googleHandler.Callback).Methods(http.MethodGet)

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	go func() {
		log.Printf("[main] listening on :%s", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("[main] server: %v", err)
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	log.Println("[main] shutting down")
	server.Close()
}

// setupLogging routes log output to a rotating file when LOG_FILE is set,
// mirroring to stderr so container logs stay useful.
func setupLogging(cfg config.Config) {
	if cfg.LogFile == "" {
		return
	}
	rotator := &lumberjack.Logger{
		Filename:   cfg.LogFile,
		MaxSize:    20, // MB
		MaxBackups: 3,
		MaxAge:     14, // days
		Compress:   true,
	}
	log.SetOutput(io.MultiWriter(os.Stderr, rotator))
}
