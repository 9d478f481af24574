package api

import (
	"fmt"
	"log"
	"net/http"

	_ "github.com/chirpsocial/chirper-server/docs"
	httpSwagger "github.com/swaggo/http-swagger"

	"github.com/chirpsocial/chirper-server/internal/api/handlers"
	"github.com/chirpsocial/chirper-server/internal/api/middleware"
	"github.com/chirpsocial/chirper-server/internal/config"
	"github.com/chirpsocial/chirper-server/internal/service"
	"github.com/rs/cors"
)

// SetupRouter wires the HTTP surface around the service core.
func SetupRouter(svc *service.Service) http.Handler {
	mainMux := http.NewServeMux()
	c := cors.New(config.Envs.CorsConfig)

	mainMux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		fmt.Fprint(w, "OK")
	})

	mainMux.HandleFunc("/docs/", httpSwagger.WrapHandler)

	users := handlers.NewUserHandler(svc)
	posts := handlers.NewPostHandler(svc)

	apiMux := http.NewServeMux()
	apiMux.HandleFunc("POST /users", users.Create)
	apiMux.HandleFunc("GET /users", users.List)
	apiMux.HandleFunc("GET /users/{id}", users.Get)
	apiMux.HandleFunc("PUT /users/{id}", users.Update)
	apiMux.HandleFunc("DELETE /users/{id}", users.Delete)

	apiMux.HandleFunc("GET /posts", posts.List)
	apiMux.HandleFunc("POST /posts/user/{userId}", posts.Create)
	apiMux.HandleFunc("GET /posts/user/{userId}", posts.ListByUser)
	apiMux.HandleFunc("DELETE /posts/{id}", posts.Delete)

	mainMux.Handle("/api/", http.StripPrefix("/api", apiMux))

	// Stored avatars are served straight off the upload directory, so the
	// relative references saved on users resolve as URLs.
	if config.Envs.StorageBackend == "disk" {
		prefix := "/" + config.Envs.UploadDir + "/"
		mainMux.Handle(prefix, http.StripPrefix(prefix, http.FileServer(http.Dir(config.Envs.UploadDir))))
	}

	log.Println("Router initialized")
	handler := c.Handler(mainMux)
	handler = middleware.Logger(handler)
	return handler
}
