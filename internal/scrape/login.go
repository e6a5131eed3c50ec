package scrape

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/chromedp/cdproto/storage"
	"github.com/chromedp/chromedp"
)

// LoginURL is where an interactive session starts.
const LoginURL = "https://www.upwork.com/ab/account-security/login"

// LoginOptions configures an interactive login session.
type LoginOptions struct {
	// CookieFile receives the captured session on success.
	CookieFile string
	// Timeout bounds how long the user gets to complete the login.
	Timeout time.Duration
	Verbose bool
}

// Login opens a visible browser window, lets the user complete the login
// flow by hand (password, two-factor, captcha), and persists the session
// cookies once the browser lands off the login pages. The saved session is
// what Scraper picks up through Options.CookieFile.
func Login(ctx context.Context, opts LoginOptions) error {
	if opts.Timeout == 0 {
		opts.Timeout = 5 * time.Minute
	}

	// A visible window, the user has to interact with it.
	allocCtx, cancel := chromedp.NewExecAllocator(ctx,
		append(chromedp.DefaultExecAllocatorOptions[:],
			chromedp.Flag("headless", false),
			chromedp.Flag("disable-gpu", true),
			chromedp.Flag("no-sandbox", true),
		)...,
	)
	defer cancel()

	browserCtx, cancel := chromedp.NewContext(allocCtx)
	defer cancel()

	browserCtx, cancel = context.WithTimeout(browserCtx, opts.Timeout)
	defer cancel()

	if err := chromedp.Run(browserCtx, chromedp.Navigate(LoginURL)); err != nil {
		return fmt.Errorf("failed to open login page: %w", err)
	}

	log.Printf("Complete the login in the browser window (waiting up to %s)", opts.Timeout)

	if err := waitForLogin(browserCtx, opts.Verbose); err != nil {
		return err
	}

	var cookies []Cookie
	err := chromedp.Run(browserCtx, chromedp.ActionFunc(func(ctx context.Context) error {
		captured, err := storage.GetCookies().Do(ctx)
		if err != nil {
			return err
		}
		for _, c := range captured {
			cookies = append(cookies, Cookie{
				Name:     c.Name,
				Value:    c.Value,
				Domain:   c.Domain,
				Path:     c.Path,
				Expires:  c.Expires,
				HTTPOnly: c.HTTPOnly,
				Secure:   c.Secure,
				SameSite: c.SameSite.String(),
			})
		}
		return nil
	}))
	if err != nil {
		return fmt.Errorf("failed to capture session cookies: %w", err)
	}

	if err := SaveCookies(opts.CookieFile, cookies); err != nil {
		return err
	}

	log.Printf("Saved %d session cookies to %s", len(cookies), opts.CookieFile)
	return nil
}

// waitForLogin polls the browser location until it leaves the login flow.
func waitForLogin(ctx context.Context, verbose bool) error {
	for {
		var location string
		if err := chromedp.Run(ctx, chromedp.Location(&location)); err != nil {
			if ctx.Err() != nil {
				return fmt.Errorf("login not completed in time: %w", ctx.Err())
			}
			return fmt.Errorf("failed to read browser location: %w", err)
		}
		if verbose {
			log.Printf("[VERBOSE] Browser at %s", location)
		}
		if location != "" && !strings.Contains(location, "/ab/account-security/") {
			return nil
		}

		select {
		case <-ctx.Done():
			return fmt.Errorf("login not completed in time: %w", ctx.Err())
		case <-time.After(2 * time.Second):
		}
	}
}
