// Package apify talks to the remote actor platform: listing actors, fetching
// actor details with their input schema, and starting runs. The platform is
// an opaque collaborator; nothing here retries or interprets run semantics.
package apify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/performate/performate/pkg/form"
	"github.com/performate/performate/pkg/schema"
)

// DefaultBaseURL is the public platform endpoint.
const DefaultBaseURL = "https://api.apify.com/v2"

// Config carries per-session client settings. Token is the user's API
// credential and travels as a bearer authorization header.
type Config struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// Client is a thin typed wrapper over the platform's REST API. One client is
// built per authenticated session; it holds that session's credential and
// nothing global.
type Client struct {
	baseURL string
	token   string
	http    *http.Client
}

func New(cfg Config) *Client {
	base := strings.TrimRight(cfg.BaseURL, "/")
	if base == "" {
		base = DefaultBaseURL
	}
	client := cfg.HTTPClient
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &Client{baseURL: base, token: cfg.Token, http: client}
}

// ListActors returns the actors visible to the session credential, in the
// platform's order.
func (c *Client) ListActors(ctx context.Context) ([]Actor, error) {
	raw, err := c.get(ctx, "/acts", nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		Items []Actor `json:"items"`
	}
	if err := json.Unmarshal(envelope(raw), &payload); err != nil {
		return nil, fmt.Errorf("apify: decode actor list: %w", err)
	}
	return payload.Items, nil
}

// ActorDetail fetches an actor's metadata plus, when the latest tagged build
// publishes one, its input schema. A missing or unparsable schema is not an
// error; the detail simply carries no schema.
func (c *Client) ActorDetail(ctx context.Context, username, name string) (*ActorDetail, error) {
	ref := url.PathEscape(username + "~" + name)
	raw, err := c.get(ctx, "/acts/"+ref, nil)
	if err != nil {
		return nil, err
	}

	var payload struct {
		ID           string `json:"id"`
		UserID       string `json:"userId"`
		Name         string `json:"name"`
		Username     string `json:"username"`
		Description  string `json:"description"`
		PictureURL   string `json:"pictureUrl"`
		TaggedBuilds map[string]struct {
			BuildID string `json:"buildId"`
		} `json:"taggedBuilds"`
	}
	if err := json.Unmarshal(envelope(raw), &payload); err != nil {
		return nil, fmt.Errorf("apify: decode actor detail: %w", err)
	}

	detail := &ActorDetail{
		ID:          payload.ID,
		UserID:      payload.UserID,
		Name:        payload.Name,
		Username:    payload.Username,
		Description: payload.Description,
		PictureURL:  payload.PictureURL,
	}

	if latest, ok := payload.TaggedBuilds["latest"]; ok && latest.BuildID != "" {
		detail.InputSchema = c.buildSchema(ctx, latest.BuildID)
	}
	return detail, nil
}

// buildSchema loads the input schema attached to a build. Failures degrade
// to a nil schema: the actor page renders without a form rather than erroring.
func (c *Client) buildSchema(ctx context.Context, buildID string) *schema.InputSchema {
	raw, err := c.get(ctx, "/actor-builds/"+url.PathEscape(buildID), nil)
	if err != nil {
		return nil
	}

	var payload struct {
		InputSchema json.RawMessage `json:"inputSchema"`
	}
	if err := json.Unmarshal(envelope(raw), &payload); err != nil {
		return nil
	}
	if len(payload.InputSchema) == 0 {
		return nil
	}
	parsed, err := schema.Parse(payload.InputSchema)
	if err != nil {
		return nil
	}
	return parsed
}

// StartRun submits the value map verbatim as the run input. The values are
// serialized as-is; editors already enforced whatever constraints apply.
func (c *Client) StartRun(ctx context.Context, actorID string, values form.ValueMap, buildTag string) (*RunDescriptor, error) {
	query := url.Values{}
	if buildTag != "" {
		query.Set("build", buildTag)
	}

	body, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("apify: encode run input: %w", err)
	}

	raw, err := c.do(ctx, http.MethodPost, "/acts/"+url.PathEscape(actorID)+"/runs", query, body)
	if err != nil {
		return nil, err
	}

	var payload runPayload
	if err := json.Unmarshal(envelope(raw), &payload); err != nil {
		return nil, fmt.Errorf("apify: decode run descriptor: %w", err)
	}
	return payload.descriptor(), nil
}

func (c *Client) get(ctx context.Context, path string, query url.Values) ([]byte, error) {
	return c.do(ctx, http.MethodGet, path, query, nil)
}

// do performs one authenticated request. The credential precondition is
// checked before anything touches the network.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, body []byte) ([]byte, error) {
	if strings.TrimSpace(c.token) == "" {
		return nil, ErrMissingToken
	}

	target := c.baseURL + path
	if len(query) > 0 {
		target += "?" + query.Encode()
	}

	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, reader)
	if err != nil {
		return nil, fmt.Errorf("apify: build request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, &APIError{Method: method, URL: target, Message: err.Error()}
	}
	defer resp.Body.Close()

	payload, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &APIError{Method: method, URL: target, StatusCode: resp.StatusCode, Message: err.Error()}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &APIError{
			Method:     method,
			URL:        target,
			StatusCode: resp.StatusCode,
			Message:    messageFromBody(payload),
		}
	}
	return payload, nil
}
