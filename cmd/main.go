package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"angsuran-portal/internal/clients"
	"angsuran-portal/internal/config"
	"angsuran-portal/internal/repository"
	"angsuran-portal/internal/service"
	"angsuran-portal/internal/transport/ratelimit"
	"angsuran-portal/internal/transport/rest"
	"angsuran-portal/pkg/database/postgres"

	"github.com/go-chi/chi/v5"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/joho/godotenv"
)

const (
	loginAttemptLimit  = 10
	loginAttemptWindow = time.Minute
	scheduleFileTTL    = 30 * time.Minute
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("no .env file found, using system env or defaults")
	}

	// top-level context which we can cancel on shutdown
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	cfg := config.Load()

	// The store URL fallback is inert: a bad endpoint must not stop the
	// process, queries against it simply fail when a customer logs in.
	db, err := postgres.Open(cfg.Store.DSN())
	if err != nil {
		log.Printf("store init error: %v, falling back to placeholder endpoint", err)
		db, err = postgres.Open(config.PlaceholderStoreDSN)
		if err != nil {
			log.Fatalf("placeholder store init error: %v", err)
		}
	}
	defer postgres.Close(db)

	// Redis only backs the login rate limiter; the portal works without it.
	var limiter ratelimit.Limiter
	if cfg.Redis.Addr != "" {
		redisClient, err := clients.NewRedisClient(clients.RedisConfig{
			Addr:        cfg.Redis.Addr,
			Password:    cfg.Redis.Password,
			DB:          cfg.Redis.DB,
			MaxRetries:  cfg.Redis.MaxRetries,
			DialTimeout: time.Duration(cfg.Redis.DialTimeout) * time.Second,
			Timeout:     time.Duration(cfg.Redis.Timeout) * time.Second,
			Prefix:      cfg.Redis.Prefix,
		})
		if err != nil {
			log.Printf("redis init error: %v, login rate limiting disabled", err)
		} else {
			defer redisClient.Close()
			limiter = redisClient
		}
	} else {
		log.Println("redis not configured, login rate limiting disabled")
	}

	var (
		scheduleStore service.ScheduleStorage
		localStore    *clients.StorageClient
	)
	switch cfg.ExportBackend {
	case "s3":
		s3Client, err := clients.NewS3Client(ctx, clients.S3Config{
			Endpoint:        cfg.S3.Endpoint,
			AccessKeyID:     cfg.S3.AccessKeyID,
			SecretAccessKey: cfg.S3.SecretAccessKey,
			Bucket:          cfg.S3.Bucket,
			UseSSL:          cfg.S3.UseSSL,
			Region:          cfg.S3.Region,
			Prefix:          cfg.S3.Prefix,
		})
		if err != nil {
			log.Fatalf("s3 init error: %v", err)
		}
		scheduleStore = s3Client
	default:
		local, err := clients.NewLocalStorage(cfg.ExportDir, cfg.FilesPublicPrefix, cfg.ExternalURL)
		if err != nil {
			log.Fatalf("storage init error: %v", err)
		}
		localStore = local
		scheduleStore = local
	}

	customerRepo := repository.NewCustomerRepository(db)
	trxRepo := repository.NewTransactionRepository(db)

	resolverSvc := service.NewResolverService(customerRepo)
	dashboardSvc := service.NewDashboardService(customerRepo, trxRepo)
	exportSvc := service.NewExportService(customerRepo, trxRepo, scheduleStore)

	loginLimiter := ratelimit.Middleware(limiter, loginAttemptLimit, loginAttemptWindow)

	handler := rest.NewHandler(resolverSvc, dashboardSvc, exportSvc)
	router := handler.InitRouter(loginLimiter)

	root := chi.NewRouter()

	// public: serve generated schedule files when stored locally
	if localStore != nil {
		root.Get("/files/{file}", func(w http.ResponseWriter, r *http.Request) {
			file := chi.URLParam(r, "file")
			path := filepath.Join(localStore.BaseDir, file)
			if _, err := os.Stat(path); err != nil {
				if os.IsNotExist(err) {
					http.NotFound(w, r)
					return
				}
				http.Error(w, "failed to access file", http.StatusInternalServerError)
				return
			}

			// prefer original filename in Content-Disposition (strip random prefix)
			orig := file
			if idx := strings.IndexByte(file, '_'); idx >= 0 {
				orig = file[idx+1:]
			}
			w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", orig))

			http.ServeFile(w, r, path)
		})

		// delete generated schedules once their download window passes
		go func() {
			ticker := time.NewTicker(5 * time.Minute)
			defer ticker.Stop()
			for {
				select {
				case <-ctx.Done():
					return
				case <-ticker.C:
					if err := localStore.CleanupOlderThan(scheduleFileTTL); err != nil {
						log.Printf("storage cleanup error: %v", err)
					}
				}
			}
		}()
	}

	root.Mount("/", router)

	corsHandler := withCORS(root)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      corsHandler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	srvErr := make(chan error, 1)
	go func() {
		log.Printf("HTTP server listening on :%s\n", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			srvErr <- err
			return
		}
		srvErr <- nil
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-srvErr:
		if err != nil {
			log.Fatalf("HTTP server error: %v", err)
		}
	case sig := <-stop:
		log.Printf("Shutdown signal received: %v", sig)

		// Give server up to 10 seconds to finish ongoing requests
		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer shutdownCancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			log.Printf("HTTP server Shutdown error: %v", err)
		}

		cancel()

		log.Println("Shutdown complete")
	}
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if origin != "" {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Set("Vary", "Origin")

			w.Header().Set("Access-Control-Allow-Credentials", "true")
			w.Header().Set("Access-Control-Allow-Methods", "GET,POST,OPTIONS")
			w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Requested-With")
		}

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
