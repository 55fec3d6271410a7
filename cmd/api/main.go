package main

import (
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/prosthetix/prosthetics-backend/internal/modules/auth"
	"github.com/prosthetix/prosthetics-backend/internal/modules/customer"
	"github.com/prosthetix/prosthetics-backend/internal/modules/product"
	"github.com/prosthetix/prosthetics-backend/internal/modules/sale"
	"github.com/prosthetix/prosthetics-backend/internal/modules/user"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment")
	}

	// Monetary fields serialize as JSON numbers, matching the API clients.
	decimal.MarshalJSONWithoutQuotes = true

	db, err := sql.Open("postgres", os.Getenv("DATABASE_URL"))
	if err != nil {
		log.Fatal(err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatal(err)
	}
	fmt.Println("Successfully connected to the database!")

	uploadDir := os.Getenv("UPLOAD_DIR")
	if uploadDir == "" {
		uploadDir = "./uploads"
	}
	maxUpload := int64(1_000_000)
	if v, err := strconv.ParseInt(os.Getenv("MAX_UPLOAD_BYTES"), 10, 64); err == nil && v > 0 {
		maxUpload = v
	}

	// ── Router ──────────────────────────────────────────────
	router := chi.NewRouter()
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(middleware.RequestID)

	// ── Repositories & services ─────────────────────────────
	userRepo := user.NewPostgresRepository(db)
	userService := user.NewService(userRepo)
	userHandler := user.NewHandler(userService)

	authService := auth.NewService(user.NewAuthSource(userRepo))

	productRepo := product.NewPostgresRepository(db)
	productService := product.NewService(productRepo, uploadDir, maxUpload)

	customerRepo := customer.NewPostgresRepository(db)
	customerService := customer.NewService(customerRepo)

	saleRepo := sale.NewPostgresRepository(db)
	saleService := sale.NewService(saleRepo, productRepo, customerRepo)

	// ── Public routes ───────────────────────────────────────
	userHandler.RegisterRoutes(router)
	auth.NewHandler(authService).RegisterRoutes(router)
	router.Handle("/uploads/*", http.StripPrefix("/uploads/",
		http.FileServer(http.Dir(uploadDir))))

	// ── Protected routes ────────────────────────────────────
	router.Group(func(r chi.Router) {
		r.Use(auth.Protect)
		userHandler.RegisterProtectedRoutes(r)
		product.NewHandler(productService).RegisterRoutes(r)
		customer.NewHandler(customerService).RegisterRoutes(r)
		sale.NewHandler(saleService).RegisterRoutes(r)
	})

	// ── Start server ────────────────────────────────────────
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "8080"
	}
	fmt.Printf("Prosthetics admin API starting on :%s\n", port)
	log.Fatal(http.ListenAndServe(":"+port, router))
}
