package webui

import (
	"time"

	"github.com/productivity-engines/website/core/deploy"
	"github.com/productivity-engines/website/core/sse"
	"github.com/productivity-engines/website/core/store"
	"github.com/productivity-engines/website/pkg/agentclient"
	"github.com/productivity-engines/website/pkg/gotrue"
	"github.com/productivity-engines/website/pkg/mailer"
)

type Config struct {
	Store          *store.Store
	Auth           *gotrue.Client
	Mailer         mailer.Sender
	AgentClient    *agentclient.Client
	Deploy         *deploy.Service
	Events         sse.Manager
	AdminEmails    []string
	ServiceRoleKey string
	SiteURL        string
	SecureCookies  bool
	ContactLimit   int
	Now            func() time.Time
}

type Option func(*Config)

func WithStore(s *store.Store) Option {
	return func(c *Config) {
		c.Store = s
	}
}

func WithAuth(client *gotrue.Client) Option {
	return func(c *Config) {
		c.Auth = client
	}
}

// WithMailer sets the contact relay. A nil sender turns the contact form
// into a "not configured" message.
func WithMailer(m mailer.Sender) Option {
	return func(c *Config) {
		c.Mailer = m
	}
}

func WithAgentClient(client *agentclient.Client) Option {
	return func(c *Config) {
		c.AgentClient = client
	}
}

func WithDeployService(d *deploy.Service) Option {
	return func(c *Config) {
		c.Deploy = d
	}
}

func WithEvents(m sse.Manager) Option {
	return func(c *Config) {
		c.Events = m
	}
}

func WithAdminEmails(emails ...string) Option {
	return func(c *Config) {
		c.AdminEmails = append(c.AdminEmails, emails...)
	}
}

// WithServiceRoleKey protects the maintenance API routes. Without it they
// answer 500.
func WithServiceRoleKey(key string) Option {
	return func(c *Config) {
		c.ServiceRoleKey = key
	}
}

func WithSiteURL(url string) Option {
	return func(c *Config) {
		c.SiteURL = url
	}
}

func WithSecureCookies(secure bool) Option {
	return func(c *Config) {
		c.SecureCookies = secure
	}
}

// WithContactLimit caps contact submissions per client IP and minute.
func WithContactLimit(n int) Option {
	return func(c *Config) {
		c.ContactLimit = n
	}
}

func WithClock(now func() time.Time) Option {
	return func(c *Config) {
		c.Now = now
	}
}

func (c *Config) Apply(opts ...Option) {
	for _, opt := range opts {
		opt(c)
	}
}

func NewConfig(opts ...Option) *Config {
	c := &Config{
		SiteURL:      "http://localhost:3000",
		ContactLimit: 5,
		Now:          time.Now,
	}
	c.Apply(opts...)
	return c
}
