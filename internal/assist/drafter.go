// Package assist drafts Cypher queries from plain-language requests using an
// LLM provider. Drafts are returned to the user for review and are never run
// automatically.
package assist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
)

const systemPrompt = "You are an assistant that writes Cypher queries for Neo4j. " +
	"Answer with a JSON object only."

// DefaultPrompt is used when no prompt is configured. %s receives the request.
const DefaultPrompt = `Write a single Cypher query for the following request.
Use $parameters instead of inlining user-supplied values.
Respond with JSON of the form {"cypher": "...", "explanation": "..."}.

Request: %s`

var ErrEmptyDraft = errors.New("assistant returned no query")

type Draft struct {
	Cypher      string `json:"cypher"`
	Explanation string `json:"explanation"`
}

type Drafter struct {
	gen    Generator
	prompt string
}

// NewDrafter returns a Drafter using prompt, or DefaultPrompt when prompt is
// empty. The prompt must contain one %s for the request.
func NewDrafter(gen Generator, prompt string) *Drafter {
	if strings.TrimSpace(prompt) == "" {
		prompt = DefaultPrompt
	}
	return &Drafter{gen: gen, prompt: prompt}
}

func (d *Drafter) Draft(ctx context.Context, request string) (*Draft, error) {
	request = strings.TrimSpace(request)
	if request == "" {
		return nil, fmt.Errorf("request is empty")
	}

	response, err := d.gen.Generate(ctx, fmt.Sprintf(d.prompt, request))
	if err != nil {
		return nil, fmt.Errorf("failed to generate draft: %w", err)
	}

	draft, err := parseJSON[Draft](response)
	if err != nil {
		// Some models ignore the format and answer with a code block.
		cypher := fencedBlock(response)
		if cypher == "" {
			return nil, fmt.Errorf("failed to parse draft: %w", err)
		}
		draft = Draft{Cypher: cypher}
	}

	draft.Cypher = strings.TrimSpace(draft.Cypher)
	if draft.Cypher == "" {
		return nil, ErrEmptyDraft
	}
	return &draft, nil
}

// parseJSON extracts the outermost JSON object from an LLM response, ignoring
// markdown fences or chatter around it.
func parseJSON[T any](response string) (T, error) {
	var zero T

	start := strings.IndexByte(response, '{')
	end := strings.LastIndexByte(response, '}')
	if start == -1 || end < start {
		return zero, fmt.Errorf("no JSON object found in response")
	}

	var result T
	if err := json.Unmarshal([]byte(response[start:end+1]), &result); err != nil {
		return zero, fmt.Errorf("failed to unmarshal JSON: %w", err)
	}
	return result, nil
}

var fence = regexp.MustCompile("(?s)```[a-zA-Z]*\\s*\\n(.*?)```")

func fencedBlock(s string) string {
	m := fence.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return strings.TrimSpace(m[1])
}
