package github

import (
	"context"
	"fmt"

	"relbot/internal/domain/pullrequest"
	"relbot/internal/domain/release"
	"relbot/internal/pkg/client"

	"github.com/go-resty/resty/v2"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"github.com/tidwall/gjson"
)

const DefaultBaseURL = "https://api.github.com"

// Open pull requests beyond the first page are not listed.
const openPageSize = "100"

type GithubCloudClient struct {
	Token   string
	BaseURL string
	rc      *resty.Client
}

type ClientOptions struct {
	Token   string
	BaseURL string
}

func New(o *ClientOptions) *GithubCloudClient {
	baseURL := o.BaseURL
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}

	return &GithubCloudClient{
		Token:   o.Token,
		BaseURL: baseURL,
		rc: client.NewRestClient(baseURL, o.Token).
			SetHeader("Accept", "application/vnd.github+json"),
	}
}

func (c *GithubCloudClient) request(ctx context.Context) *resty.Request {
	return c.rc.R().SetContext(ctx)
}

func parsePullRequest(value gjson.Result) *pullrequest.Entity {
	return &pullrequest.Entity{
		ID:       pullrequest.EntityID(value.Get("number").Int()),
		HostID:   value.Get("id").Int(),
		Title:    value.Get("title").String(),
		URL:      value.Get("html_url").String(),
		Author:   value.Get("user.login").String(),
		State:    pullrequest.State(value.Get("state").String()),
		MergedAt: value.Get("merged_at").Time(),
	}
}

func (c *GithubCloudClient) Get(ctx context.Context, o *pullrequest.GetOptions) (*pullrequest.Entity, error) {
	url := fmt.Sprintf("/repos/%s/pulls/%d", o.Repository.FullName(), o.ID)
	log.Debugf("GET %s", url)

	r, err := c.request(ctx).Get(url)
	if err != nil {
		return nil, err
	}
	if err = client.CheckResponse(r); err != nil {
		return nil, err
	}

	return parsePullRequest(gjson.ParseBytes(r.Body())), nil
}

func (c *GithubCloudClient) ListOpen(ctx context.Context, o *pullrequest.ListOptions) ([]*pullrequest.Entity, error) {
	url := fmt.Sprintf("/repos/%s/pulls", o.Repository.FullName())
	log.Debugf("GET %s", url)

	r, err := c.request(ctx).
		SetQueryParam("state", string(pullrequest.StateOpen)).
		SetQueryParam("per_page", openPageSize).
		Get(url)
	if err != nil {
		return nil, err
	}
	if err = client.CheckResponse(r); err != nil {
		return nil, err
	}

	prs := []*pullrequest.Entity{}
	gjson.ParseBytes(r.Body()).ForEach(func(key, value gjson.Result) bool {
		prs = append(prs, parsePullRequest(value))
		return true
	})

	return prs, nil
}

func (c *GithubCloudClient) CreateRelease(ctx context.Context, o *release.CreateOptions) (*release.Entity, error) {
	if o.TagName == "" {
		return nil, errors.New("missing tag name")
	}

	url := fmt.Sprintf("/repos/%s/releases", o.Repository.FullName())
	log.Debugf("POST %s tag=%s", url, o.TagName)

	r, err := c.request(ctx).
		SetBody(ghReleaseOptions{
			TagName: o.TagName,
			Name:    o.Name,
			Body:    o.Body,
		}).
		Post(url)
	if err != nil {
		return nil, err
	}
	if err = client.CheckResponse(r); err != nil {
		return nil, errors.Wrapf(err, "cannot create release %s", o.TagName)
	}

	parsed := gjson.ParseBytes(r.Body())

	return &release.Entity{
		ID:      parsed.Get("id").Int(),
		TagName: parsed.Get("tag_name").String(),
		Name:    parsed.Get("name").String(),
		URL:     parsed.Get("html_url").String(),
	}, nil
}
