package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/pgs-software-club/club-service/internal/github"
	"github.com/pgs-software-club/club-service/internal/utils"
)

// PublicHandler serves the unauthenticated marketing endpoints backed by
// the club's GitHub organization.
type PublicHandler struct {
	BaseHandler
	github *github.Client
}

func NewPublicHandler(client *github.Client, logger utils.Logger) *PublicHandler {
	return &PublicHandler{
		BaseHandler: NewBaseHandler(logger),
		github:      client,
	}
}

// Projects lists the organization's public repositories
func (h *PublicHandler) Projects(c *gin.Context) {
	h.LogRequest(c, "Listing public projects")

	repos, err := h.github.OrgRepos(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"projects": repos})
}

// Members lists contributors aggregated across the organization
func (h *PublicHandler) Members(c *gin.Context) {
	h.LogRequest(c, "Listing public members")

	contributors, err := h.github.OrgContributors(c.Request.Context())
	if err != nil {
		h.handleServiceError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"members": contributors})
}
