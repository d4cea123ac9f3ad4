package main

import (
	"github.com/gin-gonic/gin"

	askcore "codeberg.org/algopatterns/catalog/internal/ask"
	"codeberg.org/algopatterns/catalog/internal/auth"
	"codeberg.org/algopatterns/catalog/internal/config"
	"codeberg.org/algopatterns/catalog/internal/ratelimit"
	"codeberg.org/algopatterns/catalog/internal/storage"
	"codeberg.org/algopatterns/catalog/internal/vectorstore"
)

// holds all dependencies and state for the API server
type Server struct {
	config   *config.Config
	store    *storage.Client
	services *Services
	limiter  *ratelimit.Limiter
	issuer   *auth.Issuer // nil when api tokens are not enforced
	router   *gin.Engine
}

// holds the ask pipeline and the clients it owns
type Services struct {
	Ask    *askcore.Service
	Qdrant *vectorstore.QdrantStore // nil unless VECTOR_BACKEND=qdrant
}
