// Package gcal serves the matcher's calendar-query contract from Google
// Calendar. The provider applies timezone conversion on its side; everything
// this package returns is UTC.
package gcal

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// Client wraps the Google Calendar API for one calendar.
type Client struct {
	service    *calendar.Service
	config     *oauth2.Config
	token      *oauth2.Token
	tokenFile  string
	calendarID string
}

// NewClient builds a client from an OAuth credentials file and a previously
// saved token. An empty calendarID means the user's primary calendar.
func NewClient(ctx context.Context, credentialsFile, tokenFile, calendarID string) (*Client, error) {
	config, err := loadOAuthConfig(credentialsFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load OAuth config: %w", err)
	}

	token, err := loadToken(tokenFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load token (run authorization first): %w", err)
	}

	if calendarID == "" {
		calendarID = "primary"
	}

	c := &Client{
		config:     config,
		token:      token,
		tokenFile:  tokenFile,
		calendarID: calendarID,
	}
	if err := c.initService(ctx); err != nil {
		return nil, err
	}
	return c, nil
}

// initService builds the Calendar service, refreshing an expired token when
// a refresh token is available.
func (c *Client) initService(ctx context.Context) error {
	if !c.token.Valid() && c.token.RefreshToken != "" {
		newToken, err := c.config.TokenSource(ctx, c.token).Token()
		if err != nil {
			return fmt.Errorf("failed to refresh token: %w", err)
		}
		c.token = newToken
		if err := saveToken(c.tokenFile, newToken); err != nil {
			return fmt.Errorf("failed to save refreshed token: %w", err)
		}
	}

	httpClient := c.config.Client(ctx, c.token)
	service, err := calendar.NewService(ctx, option.WithHTTPClient(httpClient))
	if err != nil {
		return fmt.Errorf("failed to create calendar service: %w", err)
	}
	c.service = service
	return nil
}
