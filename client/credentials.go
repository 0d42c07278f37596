package client

import (
	"sync"

	"github.com/rs/zerolog"
)

// Credentials holds the admin secret for the lifetime of a client session.
// The secret lives only in memory; a Forbidden response clears it so the
// next mutation re-prompts.
type Credentials struct {
	mu     sync.Mutex
	secret string
}

func NewCredentials() *Credentials {
	return &Credentials{}
}

func (c *Credentials) Set(secret string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.secret = secret
}

func (c *Credentials) Get() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.secret
}

func (c *Credentials) Clear() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.secret = ""
}

// SecretPrompter obtains an admin secret interactively when none is held.
// ok is false when the user declines.
type SecretPrompter interface {
	Prompt() (secret string, ok bool)
}

// PrompterFunc adapts a function to the SecretPrompter interface.
type PrompterFunc func() (string, bool)

func (f PrompterFunc) Prompt() (string, bool) {
	return f()
}

// Notifier surfaces user-visible warnings.
type Notifier interface {
	Notify(message string)
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(message string)

func (f NotifierFunc) Notify(message string) {
	f(message)
}

type logNotifier struct {
	logger zerolog.Logger
}

func (n logNotifier) Notify(message string) {
	n.logger.Warn().Msg(message)
}
