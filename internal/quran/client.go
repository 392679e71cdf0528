// Package quran talks to the Quran Foundation content API.
package quran

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/aliskhannn/tahfeedh-quiz-bot/internal/domain/entities"
)

var (
	ErrVerseNotFound     = errors.New("verse not found")
	ErrChapterNotFound   = errors.New("chapter not found")
	ErrUnexpectedStatus  = errors.New("unexpected upstream status")
	ErrMalformedResponse = errors.New("malformed upstream response")
)

// TokenSource supplies the access token sent with every request.
type TokenSource interface {
	Token(ctx context.Context) (string, error)
}

type invalidator interface {
	Invalidate()
}

type Config struct {
	BaseURL  string // e.g. https://apis.quran.foundation/content/api/v4
	ClientID string
	Timeout  time.Duration
}

type Client struct {
	baseURL  string
	clientID string
	tokens   TokenSource
	http     *http.Client
}

func NewClient(cfg Config, tokens TokenSource) *Client {
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}

	return &Client{
		baseURL:  strings.TrimRight(cfg.BaseURL, "/"),
		clientID: cfg.ClientID,
		tokens:   tokens,
		http:     &http.Client{Timeout: timeout},
	}
}

type verseResponse struct {
	Verse struct {
		VerseKey          string `json:"verse_key"`
		TextUthmani       string `json:"text_uthmani"`
		TextUthmaniSimple string `json:"text_uthmani_simple"`
		TextImlaei        string `json:"text_imlaei"`
		Text              string `json:"text"`
	} `json:"verse"`
}

type chapterResponse struct {
	Chapter struct {
		ID          int `json:"id"`
		VersesCount int `json:"verses_count"`
	} `json:"chapter"`
}

// VerseText fetches the Uthmani text of a single verse.
func (c *Client) VerseText(ctx context.Context, ref entities.VerseRef) (string, error) {
	q := url.Values{}
	q.Set("words", "false")
	q.Set("fields", "text_uthmani")

	var resp verseResponse
	err := c.get(ctx, "/verses/by_key/"+ref.Key(), q, &resp)
	if errors.Is(err, errNotFound) {
		return "", fmt.Errorf("%s: %w", ref, ErrVerseNotFound)
	}
	if err != nil {
		return "", fmt.Errorf("fetch verse %s: %w", ref, err)
	}

	v := resp.Verse
	for _, text := range []string{v.TextUthmani, v.TextUthmaniSimple, v.TextImlaei, v.Text} {
		if text = strings.TrimSpace(text); text != "" {
			return text, nil
		}
	}

	return "", fmt.Errorf("verse %s has no text: %w", ref, ErrMalformedResponse)
}

// ChapterVerseCount fetches the number of verses in a chapter.
func (c *Client) ChapterVerseCount(ctx context.Context, chapter int) (int, error) {
	var resp chapterResponse
	err := c.get(ctx, "/chapters/"+strconv.Itoa(chapter), nil, &resp)
	if errors.Is(err, errNotFound) {
		return 0, fmt.Errorf("chapter %d: %w", chapter, ErrChapterNotFound)
	}
	if err != nil {
		return 0, fmt.Errorf("fetch chapter %d: %w", chapter, err)
	}

	if resp.Chapter.VersesCount < 1 {
		return 0, fmt.Errorf("chapter %d verses_count %d: %w", chapter, resp.Chapter.VersesCount, ErrMalformedResponse)
	}

	return resp.Chapter.VersesCount, nil
}

// ErrPageNotFound is returned for a mushaf page outside 1-604.
var ErrPageNotFound = errors.New("page not found")

type pageResponse struct {
	Verses []struct {
		VerseKey string `json:"verse_key"`
	} `json:"verses"`
	Pagination struct {
		NextPage *int `json:"next_page"`
	} `json:"pagination"`
}

// PageVerses lists the verses printed on a Madani mushaf page, in order.
func (c *Client) PageVerses(ctx context.Context, page int) ([]entities.VerseRef, error) {
	var refs []entities.VerseRef

	for next := 1; next > 0; {
		q := url.Values{}
		q.Set("words", "false")
		q.Set("per_page", "50")
		q.Set("page", strconv.Itoa(next))

		var resp pageResponse
		err := c.get(ctx, "/verses/by_page/"+strconv.Itoa(page), q, &resp)
		if errors.Is(err, errNotFound) {
			return nil, fmt.Errorf("page %d: %w", page, ErrPageNotFound)
		}
		if err != nil {
			return nil, fmt.Errorf("fetch page %d: %w", page, err)
		}

		for _, v := range resp.Verses {
			ref, err := entities.ParseVerseRef(v.VerseKey)
			if err != nil {
				return nil, fmt.Errorf("page %d: %w: %w", page, ErrMalformedResponse, err)
			}
			refs = append(refs, ref)
		}

		next = 0
		if resp.Pagination.NextPage != nil {
			next = *resp.Pagination.NextPage
		}
	}

	if len(refs) == 0 {
		return nil, fmt.Errorf("page %d has no verses: %w", page, ErrMalformedResponse)
	}

	return refs, nil
}

var errNotFound = errors.New("not found")

func (c *Client) get(ctx context.Context, path string, query url.Values, out any) error {
	token, err := c.tokens.Token(ctx)
	if err != nil {
		return err
	}

	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return fmt.Errorf("new request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("x-auth-token", token)
	req.Header.Set("x-client-id", c.clientID)

	res, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer res.Body.Close()

	switch {
	case res.StatusCode == http.StatusNotFound:
		return errNotFound
	case res.StatusCode == http.StatusUnauthorized:
		// The next request will fetch a fresh token.
		if inv, ok := c.tokens.(invalidator); ok {
			inv.Invalidate()
		}
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	case res.StatusCode/100 != 2:
		_, _ = io.Copy(io.Discard, io.LimitReader(res.Body, 4<<10))
		return fmt.Errorf("%w: %s", ErrUnexpectedStatus, res.Status)
	}

	if err = json.NewDecoder(res.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return nil
}
