package fetch

import (
	"context"
	"log/slog"
)

// Posting is the readable text of a job posting.
type Posting struct {
	URL      string   `json:"url"`
	Platform Platform `json:"platform"`
	Text     string   `json:"text"`
	// Rendered is set when the text came from the headless browser.
	Rendered bool `json:"rendered"`
}

// Fetcher retrieves job postings over HTTP with an optional browser fallback.
type Fetcher struct {
	Options *Options
	// Browser is used when the HTTP response yields too little text. Nil disables the fallback.
	Browser BrowserFunc
	Logger  *slog.Logger
}

// NewFetcher returns a Fetcher with default options.
func NewFetcher(browser BrowserFunc, logger *slog.Logger) *Fetcher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Fetcher{Options: DefaultOptions(), Browser: browser, Logger: logger}
}

// Posting fetches urlStr and extracts the job posting text.
func (f *Fetcher) Posting(ctx context.Context, urlStr string) (*Posting, error) {
	logger := f.Logger
	if logger == nil {
		logger = slog.Default()
	}
	platform := DetectPlatform(urlStr)
	content, noise := ContentSelectors(platform), NoiseSelectors(platform)

	result, fetchErr := URL(ctx, urlStr, f.Options)
	var text string
	if fetchErr == nil {
		var err error
		text, err = ExtractMainText(result.HTML, content, noise...)
		if err != nil {
			return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
		}
		if !ShouldUseBrowser(text) || f.Browser == nil {
			return f.finish(urlStr, platform, text, false)
		}
	} else if f.Browser == nil || result == nil {
		return nil, fetchErr
	}

	logger.Info("falling back to browser rendering",
		slog.String("url", urlStr),
		slog.Int("http_text_len", len(text)),
	)
	html, err := f.Browser(ctx, urlStr)
	if err != nil {
		if text != "" {
			logger.Warn("browser rendering failed, keeping HTTP text", slog.String("url", urlStr), slog.Any("error", err))
			return f.finish(urlStr, platform, text, false)
		}
		return nil, &Error{URL: urlStr, Message: "browser rendering failed", Cause: err}
	}
	rendered, err := ExtractMainText(html, content, noise...)
	if err != nil {
		return nil, &Error{URL: urlStr, Message: "failed to extract text", Cause: err}
	}
	if len(rendered) < len(text) {
		return f.finish(urlStr, platform, text, false)
	}
	return f.finish(urlStr, platform, rendered, true)
}

func (f *Fetcher) finish(urlStr string, platform Platform, text string, rendered bool) (*Posting, error) {
	if text == "" {
		return nil, &Error{URL: urlStr, Message: "no text found on page"}
	}
	return &Posting{URL: urlStr, Platform: platform, Text: text, Rendered: rendered}, nil
}
