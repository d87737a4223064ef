// Package view holds the client side of the database clock: a component that
// fetches /api/neon once and renders whatever comes back.
package view

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sync"
)

const Placeholder = "Loading..."

// Result is the body served by the time endpoint. Exactly one field is set.
type Result struct {
	Time  string `json:"time,omitempty"`
	Error string `json:"error,omitempty"`
}

// Text is what the component displays for r.
func (r Result) Text() string {
	if r.Time != "" {
		return r.Time
	}
	return r.Error
}

// Display starts out showing Placeholder. The first Show issues one request
// to URL; when it completes the text is replaced and Render runs again.
// Build it with New.
type Display struct {
	URL    string
	Client *http.Client
	// Render is called with the current text on first show and once more after
	// the response lands. It may be nil.
	Render func(text string)

	once sync.Once
	done chan struct{}

	mu     sync.Mutex
	text   string
	loaded bool
}

func New(url string, render func(string)) *Display {
	return &Display{
		URL:    url,
		Client: http.DefaultClient,
		Render: render,
		done:   make(chan struct{}),
		text:   Placeholder,
	}
}

// Show makes the component visible. Only the first call does anything; the
// fetch runs in the background and is not cancelled if the component goes away.
func (d *Display) Show(ctx context.Context) {
	d.once.Do(func() {
		d.render(d.Text())
		go d.load(context.WithoutCancel(ctx))
	})
}

// Wait blocks until the fetch has resolved or ctx ends.
func (d *Display) Wait(ctx context.Context) error {
	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (d *Display) Text() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.text
}

func (d *Display) Loaded() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.loaded
}

func (d *Display) load(ctx context.Context) {
	defer close(d.done)

	res, err := Fetch(ctx, d.Client, d.URL)
	text := res.Text()
	if err != nil {
		text = err.Error()
	}

	d.mu.Lock()
	d.text = text
	d.loaded = true
	d.mu.Unlock()

	d.render(text)
}

func (d *Display) render(text string) {
	if d.Render != nil {
		d.Render(text)
	}
}

// Fetch performs one GET against the time endpoint and decodes the body. A
// 500 with an error body is a valid Result, not an error.
func Fetch(ctx context.Context, client *http.Client, url string) (Result, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Result{}, err
	}
	resp, err := client.Do(req)
	if err != nil {
		return Result{}, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return Result{}, err
	}
	var res Result
	if err := json.Unmarshal(body, &res); err != nil {
		return Result{}, fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	return res, nil
}
