package github

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/pgs-software-club/club-service/internal/cache"
	"github.com/pgs-software-club/club-service/internal/config"
	"github.com/pgs-software-club/club-service/internal/utils"
)

const apiBaseURL = "https://api.github.com"

// Repo is a public project of the club organization.
type Repo struct {
	Name        string   `json:"name"`
	Description string   `json:"description"`
	HTMLURL     string   `json:"html_url"`
	Language    string   `json:"language"`
	Stars       int      `json:"stargazers_count"`
	Forks       int      `json:"forks_count"`
	Topics      []string `json:"topics"`
	UpdatedAt   string   `json:"updated_at"`
}

// Contributor is a member aggregated across the organization's repos.
type Contributor struct {
	Login         string `json:"login"`
	AvatarURL     string `json:"avatar_url"`
	HTMLURL       string `json:"html_url"`
	Contributions int    `json:"contributions"`
}

// Client fetches public organization data from the GitHub API with a
// Redis cache in front. When GitHub is unreachable it falls back to a
// static showcase so the public pages never break.
type Client struct {
	httpClient *http.Client
	cache      *cache.CacheHelper
	org        string
	token      string
	logger     utils.Logger
}

func NewClient(cfg config.GitHubConfig, redisClient *redis.Client, logger utils.Logger) *Client {
	return &Client{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		cache:      cache.NewCacheHelper(redisClient, cache.GitHubCacheConfig.Prefix),
		org:        cfg.Org,
		token:      cfg.Token,
		logger:     logger,
	}
}

// OrgRepos returns the organization's public repositories, most recently
// updated first.
func (c *Client) OrgRepos(ctx context.Context) ([]Repo, error) {
	var repos []Repo
	err := c.cache.CacheOrExecute(ctx, "repos:"+c.org, &repos, cache.GitHubCacheConfig.TTL, func() (interface{}, error) {
		fetched, err := c.fetchRepos(ctx)
		if err != nil {
			c.logger.Warn("github repos fetch failed, serving fallback", "error", err, "org", c.org)
			return fallbackRepos(), nil
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return repos, nil
}

// OrgContributors aggregates contributors across the organization's
// repositories, summing contribution counts per login.
func (c *Client) OrgContributors(ctx context.Context) ([]Contributor, error) {
	var contributors []Contributor
	err := c.cache.CacheOrExecute(ctx, "contributors:"+c.org, &contributors, cache.GitHubCacheConfig.TTL, func() (interface{}, error) {
		fetched, err := c.fetchContributors(ctx)
		if err != nil {
			c.logger.Warn("github contributors fetch failed, serving fallback", "error", err, "org", c.org)
			return fallbackContributors(), nil
		}
		return fetched, nil
	})
	if err != nil {
		return nil, err
	}
	return contributors, nil
}

func (c *Client) fetchRepos(ctx context.Context) ([]Repo, error) {
	var repos []Repo
	url := fmt.Sprintf("%s/orgs/%s/repos?sort=updated&per_page=100", apiBaseURL, c.org)
	if err := c.getJSON(ctx, url, &repos); err != nil {
		return nil, err
	}
	return repos, nil
}

func (c *Client) fetchContributors(ctx context.Context) ([]Contributor, error) {
	repos, err := c.fetchRepos(ctx)
	if err != nil {
		return nil, err
	}

	byLogin := make(map[string]*Contributor)
	for _, repo := range repos {
		var contributors []Contributor
		url := fmt.Sprintf("%s/repos/%s/%s/contributors?per_page=100", apiBaseURL, c.org, repo.Name)
		if err := c.getJSON(ctx, url, &contributors); err != nil {
			// Empty repos return 204; skip anything that fails.
			continue
		}
		for _, contributor := range contributors {
			if existing, ok := byLogin[contributor.Login]; ok {
				existing.Contributions += contributor.Contributions
			} else {
				copied := contributor
				byLogin[contributor.Login] = &copied
			}
		}
	}

	aggregated := make([]Contributor, 0, len(byLogin))
	for _, contributor := range byLogin {
		aggregated = append(aggregated, *contributor)
	}
	sort.Slice(aggregated, func(i, j int) bool {
		if aggregated[i].Contributions != aggregated[j].Contributions {
			return aggregated[i].Contributions > aggregated[j].Contributions
		}
		return aggregated[i].Login < aggregated[j].Login
	})
	return aggregated, nil
}

func (c *Client) getJSON(ctx context.Context, url string, dest interface{}) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("failed to build request: %w", err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("github request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("github responded with status %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		return fmt.Errorf("failed to decode github response: %w", err)
	}
	return nil
}

// Static showcase served when the GitHub API is unavailable.
func fallbackRepos() []Repo {
	return []Repo{
		{
			Name:        "club-website",
			Description: "Official website of the software club",
			HTMLURL:     "https://github.com/pgs-software-club/club-website",
			Language:    "TypeScript",
			Stars:       12,
			Forks:       4,
			Topics:      []string{"nextjs", "club"},
		},
		{
			Name:        "club-service",
			Description: "Membership and attendance backend",
			HTMLURL:     "https://github.com/pgs-software-club/club-service",
			Language:    "Go",
			Stars:       8,
			Forks:       2,
			Topics:      []string{"go", "api"},
		},
		{
			Name:        "workshop-materials",
			Description: "Slides and starter code from weekly workshops",
			HTMLURL:     "https://github.com/pgs-software-club/workshop-materials",
			Language:    "Python",
			Stars:       5,
			Forks:       7,
			Topics:      []string{"workshops", "learning"},
		},
	}
}

func fallbackContributors() []Contributor {
	return []Contributor{
		{Login: "club-admin", AvatarURL: "https://avatars.githubusercontent.com/u/0", HTMLURL: "https://github.com/club-admin", Contributions: 42},
	}
}
