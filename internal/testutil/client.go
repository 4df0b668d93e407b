// Package testutil provides test doubles and fixtures for pagecraft tests.
package testutil

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/raveheart1/pagecraft/internal/llm"
	"github.com/raveheart1/pagecraft/internal/schema"
)

// CallRecord captures one Generate invocation for later assertions.
type CallRecord struct {
	Schema    string
	System    string
	User      string
	Response  string
	Err       error
	Timestamp time.Time
}

// ScriptedClient is an llm.Client that replays canned responses keyed by
// schema name. Each call is recorded. When a schema has a queue of responses,
// they are consumed in order, which lets a test serve a rejected attempt
// followed by a valid one.
type ScriptedClient struct {
	mu        sync.Mutex
	responses map[string][]string
	errs      map[string]error
	calls     []CallRecord
}

// NewScriptedClient returns an empty client; use Respond and Fail to script it.
func NewScriptedClient() *ScriptedClient {
	return &ScriptedClient{
		responses: make(map[string][]string),
		errs:      make(map[string]error),
	}
}

// Respond queues responses for the named schema, served in order. The last
// response is repeated once the queue is exhausted.
func (c *ScriptedClient) Respond(schemaName string, responses ...string) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.responses[schemaName] = append(c.responses[schemaName], responses...)
	return c
}

// Fail makes every call for the named schema return err.
func (c *ScriptedClient) Fail(schemaName string, err error) *ScriptedClient {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.errs[schemaName] = err
	return c
}

// Generate implements llm.Client.
func (c *ScriptedClient) Generate(ctx context.Context, p llm.Prompt, s schema.Schema) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	rec := CallRecord{
		Schema:    s.Name,
		System:    p.System,
		User:      p.User,
		Timestamp: time.Now(),
	}

	if err, ok := c.errs[s.Name]; ok {
		rec.Err = err
		c.calls = append(c.calls, rec)
		return "", err
	}

	queue := c.responses[s.Name]
	if len(queue) == 0 {
		err := fmt.Errorf("no scripted response for schema %q", s.Name)
		rec.Err = err
		c.calls = append(c.calls, rec)
		return "", err
	}

	resp := queue[0]
	if len(queue) > 1 {
		c.responses[s.Name] = queue[1:]
	}
	rec.Response = resp
	c.calls = append(c.calls, rec)
	return resp, nil
}

// Name implements llm.Client.
func (c *ScriptedClient) Name() string { return "scripted" }

// Calls returns a copy of all recorded calls.
func (c *ScriptedClient) Calls() []CallRecord {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]CallRecord, len(c.calls))
	copy(out, c.calls)
	return out
}

// CallsFor returns recorded calls for one schema.
func (c *ScriptedClient) CallsFor(schemaName string) []CallRecord {
	var out []CallRecord
	for _, rec := range c.Calls() {
		if rec.Schema == schemaName {
			out = append(out, rec)
		}
	}
	return out
}

var _ llm.Client = (*ScriptedClient)(nil)
