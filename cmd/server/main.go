package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/ayush/subtrack/internal/auth"
	"github.com/ayush/subtrack/internal/category"
	"github.com/ayush/subtrack/internal/config"
	"github.com/ayush/subtrack/internal/middleware"
	"github.com/ayush/subtrack/internal/reminder"
	"github.com/ayush/subtrack/internal/store"
	"github.com/ayush/subtrack/internal/subscription"
	"github.com/ayush/subtrack/internal/user"
)

func main() {
	godotenv.Load()
	cfg := config.Load()
	ctx := context.Background()

	// ── PostgreSQL ────────────────────────────────────────────
	pgPool, err := pgxpool.New(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("postgres connect: %v", err)
	}
	defer pgPool.Close()
	users := store.NewPostgresStore(pgPool)
	if err := users.Migrate(ctx); err != nil {
		log.Fatalf("postgres migrate: %v", err)
	}

	// ── MongoDB ──────────────────────────────────────────────
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	defer mongoClient.Disconnect(ctx)
	mongoDB := mongoClient.Database(cfg.MongoDB)

	// ── Redis ────────────────────────────────────────────────
	rdb, err := store.NewRedisClient(ctx, cfg.RedisAddr, cfg.RedisPassword)
	if err != nil {
		log.Fatalf("redis connect: %v", err)
	}
	defer rdb.Close()
	sessions := auth.NewSessionStore(rdb)

	// ── MinIO ────────────────────────────────────────────────
	avatars, err := store.NewAvatarStore(
		ctx, cfg.MinioEndpoint, cfg.MinioAccessKey,
		cfg.MinioSecretKey, cfg.MinioBucket, cfg.MinioUseSSL,
	)
	if err != nil {
		log.Fatalf("minio connect: %v", err)
	}

	// ── Handlers ─────────────────────────────────────────────
	authHandler := auth.NewHandler(users, sessions,
		cfg.GitHubClientID, cfg.GitHubClientSecret, cfg.GitHubRedirectURL)
	categoryHandler := category.NewHandler(store.NewCategoryStore(mongoDB))
	subscriptionHandler := subscription.NewHandler(store.NewSubscriptionStore(mongoDB))
	reminderHandler := reminder.NewHandler(store.NewReminderStore(mongoDB))
	userHandler := user.NewHandler(users, avatars)

	requireAuth := middleware.RequireAuth(sessions)

	// ── Router ───────────────────────────────────────────────
	r := chi.NewRouter()
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.RealIP)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"ok"}`))
	})

	// Auth routes (public)
	r.Route("/api/auth", func(r chi.Router) {
		r.Get("/github", authHandler.GitHubLogin)
		r.Get("/github/callback", authHandler.GitHubCallback)
		r.Get("/logout", authHandler.Logout)
	})

	// Resource routes (protected)
	r.Route("/api/categories", func(r chi.Router) {
		r.Use(requireAuth)
		categoryHandler.Routes(r)
	})
	r.Route("/api/subscriptions", func(r chi.Router) {
		r.Use(requireAuth)
		subscriptionHandler.Routes(r)
	})
	r.Route("/api/reminders", func(r chi.Router) {
		r.Use(requireAuth)
		reminderHandler.Routes(r)
	})

	// User routes (mixed: registration and listing public, profile gated)
	r.Route("/api/users", func(r chi.Router) {
		userHandler.Routes(r, requireAuth)
	})

	// ── Server ───────────────────────────────────────────────
	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  time.Minute,
		WriteTimeout: time.Minute,
	}

	go func() {
		log.Printf("Backend listening on :%s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down...")
	shutCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	srv.Shutdown(shutCtx)
}
