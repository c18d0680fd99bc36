package api

import (
	"github.com/garnizeh/seekaclimb/internal/auth"
	"github.com/garnizeh/seekaclimb/internal/catalog"
	"github.com/garnizeh/seekaclimb/internal/config"
	"github.com/garnizeh/seekaclimb/internal/db"
	"github.com/garnizeh/seekaclimb/internal/images"
	"github.com/garnizeh/seekaclimb/internal/repository/sqlrepo"
	"github.com/gorilla/mux"
)

func SetupRoutes(cfg *config.Config, version, buildTime string, db *db.DB) *mux.Router {
	r := mux.NewRouter()

	// Middleware chain
	r.Use(LoggingMiddleware)
	r.Use(CORSMiddleware)
	r.Use(RecoveryMiddleware)
	r.Use(MaxBodyMiddleware(cfg.MaxBodyBytes))

	// Repository and services
	repo := sqlrepo.New(db, logger)
	authSvc := auth.NewService(repo, cfg.JWTSecret, cfg.TokenDuration)
	catalogSvc := catalog.New(repo, images.New(cfg.StaticDir), cfg.PageSize, logger)

	// Create handlers
	systemHandler := &SystemHandler{}
	authHandler := NewAuthHandler(authSvc)
	catalogHandler := NewCatalogHandler(catalogSvc)

	// Open endpoints
	r.HandleFunc("/", systemHandler.RootHandler).Methods("GET")
	r.HandleFunc("/version", systemHandler.VersionHandler(version, buildTime)).Methods("GET")
	r.HandleFunc("/health", systemHandler.HealthHandler).Methods("GET")
	r.HandleFunc("/auth/register", authHandler.Register).Methods("POST")
	r.HandleFunc("/auth/login", authHandler.Login).Methods("POST")

	// Protected routes
	jwtAuth := JWTAuthMiddleware(authSvc)

	places := r.PathPrefix("/places").Subrouter()
	places.Use(jwtAuth)
	places.HandleFunc("/search", catalogHandler.SearchPlaces).Methods("GET")
	places.HandleFunc("/{id:[0-9]+}/routes", catalogHandler.ListRoutes).Methods("GET")
	places.HandleFunc("/{id:[0-9]+}/walls", catalogHandler.ListWalls).Methods("GET")

	routes := r.PathPrefix("/routes").Subrouter()
	routes.Use(jwtAuth)
	routes.HandleFunc("/create", catalogHandler.CreateRoute).Methods("POST")
	routes.HandleFunc("/{id:[0-9]+}", catalogHandler.GetRoute).Methods("GET")

	walls := r.PathPrefix("/walls").Subrouter()
	walls.Use(jwtAuth)
	walls.HandleFunc("/create", catalogHandler.CreateWall).Methods("POST")
	walls.HandleFunc("/{id:[0-9]+}", catalogHandler.GetWall).Methods("GET")
	walls.HandleFunc("/{id:[0-9]+}/image", catalogHandler.WallImage(images.KindImage)).Methods("GET")
	walls.HandleFunc("/{id:[0-9]+}/thumbnail", catalogHandler.WallImage(images.KindThumbnail)).Methods("GET")

	return r
}
