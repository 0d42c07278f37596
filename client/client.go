// Package client is the Go consumer of the post API. It mirrors the four
// store operations, maps wire records into view models, and owns the
// session-scoped admin secret needed for mutations.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AdminSecretHeader matches the header the server's auth middleware reads.
const AdminSecretHeader = "X-Admin-Secret"

// PostView is the client-side view model of a post. Tags is never nil and
// ReadTime is derived locally, not carried on the wire.
type PostView struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Excerpt   string    `json:"excerpt"`
	Tags      []string  `json:"tags"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	ReadTime  int       `json:"-"`
}

// Draft is the editable input to Save. ID is empty for a new post.
type Draft struct {
	ID      string
	Title   string
	Content string
	Tags    []string
}

type Client struct {
	baseURL     string
	httpClient  *http.Client
	logger      zerolog.Logger
	credentials *Credentials
	prompter    SecretPrompter
	notifier    Notifier
}

type Option func(*Client)

func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

func WithPrompter(prompter SecretPrompter) Option {
	return func(c *Client) {
		c.prompter = prompter
	}
}

func WithNotifier(notifier Notifier) Option {
	return func(c *Client) {
		c.notifier = notifier
	}
}

func WithCredentials(credentials *Credentials) Option {
	return func(c *Client) {
		c.credentials = credentials
	}
}

func New(baseURL string, opts ...Option) *Client {
	logger := log.With().Str("component", "postClient").Logger()

	c := &Client{
		baseURL:     baseURL,
		httpClient:  &http.Client{Timeout: 30 * time.Second},
		logger:      logger,
		credentials: NewCredentials(),
		notifier:    logNotifier{logger},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Credentials exposes the client's secret holder, mainly so a UI can clear
// it when the session ends.
func (c *Client) Credentials() *Credentials {
	return c.credentials
}

// List returns summaries of all posts. Any transport or non-success
// response degrades to an empty slice; callers treat no data as the uniform
// read-failure signal.
func (c *Client) List(ctx context.Context) []PostView {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/posts", nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("building list request")
		return []PostView{}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Msg("listing posts")
		return []PostView{}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Msg("listing posts")
		return []PostView{}
	}

	var posts []PostView
	if err := json.NewDecoder(resp.Body).Decode(&posts); err != nil {
		c.logger.Error().Err(err).Msg("decoding post list")
		return []PostView{}
	}

	for i := range posts {
		normalize(&posts[i])
	}
	return posts
}

// Get returns the full post for id, or nil on any failure.
func (c *Client) Get(ctx context.Context, id string) *PostView {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+"/posts/"+id, nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("building get request")
		return nil
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("id", id).Msg("fetching post")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		c.logger.Error().Int("status", resp.StatusCode).Str("id", id).Msg("fetching post")
		return nil
	}

	var post PostView
	if err := json.NewDecoder(resp.Body).Decode(&post); err != nil {
		c.logger.Error().Err(err).Str("id", id).Msg("decoding post")
		return nil
	}

	normalize(&post)
	return &post
}

// Save upserts the draft. The excerpt is derived here at save time and the
// ID is generated for new posts. Reports success; on Forbidden the held
// secret is discarded so the next attempt re-prompts.
func (c *Client) Save(ctx context.Context, draft Draft) bool {
	if draft.Title == "" {
		c.notifier.Notify("A title is required before saving.")
		return false
	}
	if plainText(draft.Content) == "" {
		c.notifier.Notify("Post content is empty.")
		return false
	}

	secret, ok := c.obtainSecret()
	if !ok {
		return false
	}

	if draft.ID == "" {
		draft.ID = NewPostID()
	}

	payload := map[string]any{
		"id":      draft.ID,
		"title":   draft.Title,
		"content": draft.Content,
		"excerpt": Excerpt(draft.Content),
		"tags":    draft.Tags,
	}

	body, err := json.Marshal(payload)
	if err != nil {
		c.logger.Error().Err(err).Msg("encoding post payload")
		c.notifier.Notify("Could not save the post.")
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/posts", bytes.NewReader(body))
	if err != nil {
		c.logger.Error().Err(err).Msg("building save request")
		c.notifier.Notify("Could not save the post.")
		return false
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(AdminSecretHeader, secret)

	return c.doMutation(req, "save")
}

// Delete removes the post with id. Identical secret handling to Save.
func (c *Client) Delete(ctx context.Context, id string) bool {
	secret, ok := c.obtainSecret()
	if !ok {
		return false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, c.baseURL+"/posts/"+id, nil)
	if err != nil {
		c.logger.Error().Err(err).Msg("building delete request")
		c.notifier.Notify("Could not delete the post.")
		return false
	}
	req.Header.Set(AdminSecretHeader, secret)

	return c.doMutation(req, "delete")
}

// obtainSecret returns the held secret, prompting for one when none is
// held. Declining the prompt aborts the mutation without contacting the
// server.
func (c *Client) obtainSecret() (string, bool) {
	if secret := c.credentials.Get(); secret != "" {
		return secret, true
	}

	if c.prompter == nil {
		c.notifier.Notify("An admin secret is required for this action.")
		return "", false
	}

	secret, ok := c.prompter.Prompt()
	if !ok || secret == "" {
		c.notifier.Notify("An admin secret is required for this action.")
		return "", false
	}

	c.credentials.Set(secret)
	return secret, true
}

func (c *Client) doMutation(req *http.Request, action string) bool {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Error().Err(err).Str("action", action).Msg("request failed")
		c.notifier.Notify(fmt.Sprintf("Could not %s the post.", action))
		return false
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusOK:
		return true
	case resp.StatusCode == http.StatusForbidden:
		// Wrong secret: drop it so the next attempt prompts again.
		c.credentials.Clear()
		c.notifier.Notify("Admin secret rejected. You will be asked again on the next attempt.")
		return false
	default:
		c.logger.Error().Int("status", resp.StatusCode).Str("action", action).Msg("request rejected")
		c.notifier.Notify(fmt.Sprintf("Could not %s the post.", action))
		return false
	}
}

func normalize(post *PostView) {
	if post.Tags == nil {
		post.Tags = []string{}
	}
	if post.Content != "" {
		post.ReadTime = ReadTime(post.Content)
	}
}
