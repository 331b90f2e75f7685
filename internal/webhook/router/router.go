// Package router wires the webhook module routes.
package router

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"

	categorizeService "github.com/prscope/prscope/internal/categorize/service"
	appConfig "github.com/prscope/prscope/internal/config"
	"github.com/prscope/prscope/internal/githubclient"
	"github.com/prscope/prscope/internal/llm"
	organizationRepository "github.com/prscope/prscope/internal/organization/repository"
	pullrequestRepository "github.com/prscope/prscope/internal/pullrequest/repository"
	repoRepository "github.com/prscope/prscope/internal/repo/repository"
	"github.com/prscope/prscope/internal/webhook/handler"
	webhookService "github.com/prscope/prscope/internal/webhook/service"
)

// RegisterRoutes registers the webhook endpoint and its dependency graph.
func RegisterRoutes(
	r *gin.Engine,
	db *gorm.DB,
	cfg appConfig.GitHubConfig,
	clients *githubclient.Factory,
	logger *zap.SugaredLogger,
) {
	orgRepo := organizationRepository.New(db)
	prRepo := pullrequestRepository.New(db)
	repoRepo := repoRepository.New(db)

	categorizer := categorizeService.New(orgRepo, prRepo, clients, llm.New, logger)
	svc := webhookService.New(repoRepo, prRepo, orgRepo, categorizer, clients, logger)
	h := handler.New(svc, cfg.WebhookSecret, logger)

	r.POST("/webhooks/github", h.Handle)
}
