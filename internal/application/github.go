package application

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"regexp"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/singleflight"

	"github.com/oksasatya/bcit-connector/pkg/helpers"
)

var githubUsernameRe = regexp.MustCompile(`^[A-Za-z0-9-]{1,39}$`)

// GithubClient fetches a user's five oldest public repositories, cached in redis.
type GithubClient struct {
	BaseURL  string
	Token    string
	HTTP     *http.Client
	Redis    *redis.Client
	CacheTTL time.Duration
	Logger   *logrus.Logger

	inflight singleflight.Group
}

func NewGithubClient(baseURL, token string, rdb *redis.Client, ttl time.Duration, logger *logrus.Logger) *GithubClient {
	if baseURL == "" {
		baseURL = "https://api.github.com"
	}
	return &GithubClient{
		BaseURL:  strings.TrimRight(baseURL, "/"),
		Token:    token,
		HTTP:     &http.Client{Timeout: 5 * time.Second},
		Redis:    rdb,
		CacheTTL: ttl,
		Logger:   logger,
	}
}

func githubCacheKey(username string) string {
	return "github:repos:" + strings.ToLower(username)
}

// Repos returns the raw GitHub repository list. Unknown users, invalid
// names and upstream failures all map to ErrGithubNotFound.
func (g *GithubClient) Repos(ctx context.Context, username string) (json.RawMessage, error) {
	if !githubUsernameRe.MatchString(username) {
		return nil, ErrGithubNotFound
	}

	key := githubCacheKey(username)
	if g.Redis != nil && g.CacheTTL > 0 {
		var cached json.RawMessage
		found, err := helpers.RedisGetJSON(ctx, g.Redis, key, &cached)
		if err != nil {
			helpers.LogError(g.Logger, "github cache read failed", err, logrus.Fields{"username": username})
		} else if found {
			return cached, nil
		}
	}

	// concurrent misses for the same user share one upstream call
	ch := g.inflight.DoChan(key, func() (interface{}, error) {
		return g.fetch(context.WithoutCancel(ctx), username, key)
	})
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(json.RawMessage), nil
	}
}

func (g *GithubClient) fetch(ctx context.Context, username, key string) (json.RawMessage, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	q := url.Values{}
	q.Set("per_page", "5")
	q.Set("sort", "created")
	q.Set("direction", "asc")
	endpoint := fmt.Sprintf("%s/users/%s/repos?%s", g.BaseURL, url.PathEscape(username), q.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "bcit-connector")
	req.Header.Set("Accept", "application/vnd.github+json")
	if g.Token != "" {
		req.Header.Set("Authorization", "Bearer "+g.Token)
	}

	res, err := g.HTTP.Do(req)
	if err != nil {
		helpers.LogError(g.Logger, "github request failed", err, logrus.Fields{"username": username})
		return nil, ErrGithubNotFound
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return nil, ErrGithubNotFound
	}

	body, err := io.ReadAll(io.LimitReader(res.Body, 1<<20))
	if err != nil || !json.Valid(body) {
		return nil, ErrGithubNotFound
	}
	repos := json.RawMessage(body)

	if g.Redis != nil && g.CacheTTL > 0 {
		if err := helpers.RedisSetJSON(ctx, g.Redis, key, repos, g.CacheTTL); err != nil {
			helpers.LogError(g.Logger, "github cache write failed", err, logrus.Fields{"username": username})
		}
	}
	return repos, nil
}
