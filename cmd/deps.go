package cmd

import (
	"github.com/huangsam/marquee/internal/contract"
	"github.com/huangsam/marquee/internal/dataset"
	"github.com/huangsam/marquee/internal/social"
)

// newFetcher builds the dated dataset cache from validated config.
func newFetcher(c *contract.Config, clock contract.Clock) *dataset.CachedFetcher {
	return dataset.NewCachedFetcher(c.DataDir,
		dataset.WithBaseURL(c.DatasetBaseURL),
		dataset.WithTimeout(c.HTTPTimeout),
		dataset.WithClock(clock),
	)
}

// newSearcher builds the search client from validated config.
func newSearcher(c *contract.Config) *social.Client {
	return social.NewClient(social.Options{
		BaseURL:   c.SearchBaseURL,
		UserAgent: "marquee/" + version,
		Timeout:   c.HTTPTimeout,
		Count:     c.SearchCount,
		Verify:    c.VerifyCredentials,
		Credentials: social.Credentials{
			ConsumerKey:    c.ConsumerKey,
			ConsumerSecret: c.ConsumerSecret,
			AccessKey:      c.AccessKey,
			AccessSecret:   c.AccessSecret,
		},
	})
}
