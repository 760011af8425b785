package v1

import "time"

// Option configures a Client.
type Option func(*clientConfig)

type clientConfig struct {
	baseURL string
	agentID string
	userID  string
	timeout time.Duration
}

// WithBaseURL sets the memory server address.
func WithBaseURL(url string) Option {
	return func(c *clientConfig) {
		c.baseURL = url
	}
}

// WithAgentID sets the default agent identity for calls.
func WithAgentID(id string) Option {
	return func(c *clientConfig) {
		c.agentID = id
	}
}

// WithUserID sets the default user identity for calls.
func WithUserID(id string) Option {
	return func(c *clientConfig) {
		c.userID = id
	}
}

// WithTimeout sets the request timeout for add calls.
func WithTimeout(d time.Duration) Option {
	return func(c *clientConfig) {
		c.timeout = d
	}
}
