package cli

import (
	"context"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/runnerr0/trafficlog/internal/ghtraffic"
	"github.com/runnerr0/trafficlog/internal/trafficstore"
)

// Execute implements the go-flags Commander interface for FetchCommand.
func (c *FetchCommand) Execute(args []string) error {
	e, err := loadEnv(c.globals)
	if err != nil {
		return err
	}

	client, err := ghtraffic.NewClient(
		e.Config.API.TokenEnv,
		ghtraffic.WithBaseURL(e.Config.API.BaseURL),
		ghtraffic.WithTimeout(time.Duration(e.Config.API.TimeoutSeconds)*time.Second),
	)
	if err != nil {
		return err
	}

	return c.executeWithClient(e, client)
}

// executeWithClient runs the fetch against a provided client (for testing).
//
// Each repository is fetched and appended independently: one failing repo
// never blocks the others, and the command fails only when every repository
// failed.
func (c *FetchCommand) executeWithClient(e *env, client *ghtraffic.Client) error {
	repos, err := selectRepos(e.Registry, c.Repo)
	if err != nil {
		return err
	}

	ctx := context.Background()
	var failed int

	for _, repo := range repos {
		blob, err := client.FetchViews(ctx, repo.Owner, repo.Name)
		if err != nil {
			log.WithField("repo", repo.DisplayName).Warnf("fetch failed: %v", err)
			failed++
			continue
		}

		store := trafficstore.Open(e.StoreDir, repo.DisplayName)
		if err := store.Append(blob); err != nil {
			log.WithField("repo", repo.DisplayName).Warnf("append failed: %v", err)
			failed++
			continue
		}

		fmt.Printf("Fetched %s: appended %d bytes\n", repo.FullName(), len(blob))
	}

	if failed == len(repos) {
		return fmt.Errorf("all %d fetches failed", len(repos))
	}
	if failed > 0 {
		fmt.Printf("%d of %d repositories failed; see warnings above\n", failed, len(repos))
	}
	return nil
}
