// Package catalog serves a YAML-defined set of actors for demo deployments,
// mirroring the remote platform's surface without network access. Runs
// started against the catalog return synthetic descriptors.
package catalog

import (
	"context"
	_ "embed"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/performate/performate/internal/apify"
	"github.com/performate/performate/pkg/form"
	"github.com/performate/performate/pkg/schema"
)

//go:embed catalog.yaml
var bundled []byte

type entry struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Username    string `yaml:"username"`
	Title       string `yaml:"title"`
	CreatedAt   string `yaml:"createdAt"`
	Description string `yaml:"description"`
	InputSchema string `yaml:"inputSchema"`
}

type document struct {
	Actors []entry `yaml:"actors"`
}

// Catalog is an in-process actor source.
type Catalog struct {
	actors  []entry
	schemas map[string]*schema.InputSchema
}

// Load reads a catalog from path, or the bundled one when path is empty.
func Load(path string) (*Catalog, error) {
	raw := bundled
	if path != "" {
		var err error
		raw, err = os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("catalog: read %s: %w", path, err)
		}
	}

	var doc document
	if err := yaml.Unmarshal(raw, &doc); err != nil {
		return nil, fmt.Errorf("catalog: parse: %w", err)
	}

	c := &Catalog{actors: doc.Actors, schemas: make(map[string]*schema.InputSchema)}
	for _, actor := range doc.Actors {
		if actor.InputSchema == "" {
			continue
		}
		parsed, err := schema.Parse([]byte(actor.InputSchema))
		if err != nil {
			return nil, fmt.Errorf("catalog: schema for %s: %w", actor.Name, err)
		}
		c.schemas[actor.Username+"/"+actor.Name] = parsed
	}
	return c, nil
}

// ListActors returns the catalog entries in file order.
func (c *Catalog) ListActors(_ context.Context) ([]apify.Actor, error) {
	actors := make([]apify.Actor, 0, len(c.actors))
	for _, a := range c.actors {
		actors = append(actors, apify.Actor{
			ID:        a.ID,
			Name:      a.Name,
			Username:  a.Username,
			Title:     a.Title,
			CreatedAt: a.CreatedAt,
		})
	}
	return actors, nil
}

// ActorDetail resolves one catalog entry.
func (c *Catalog) ActorDetail(_ context.Context, username, name string) (*apify.ActorDetail, error) {
	for _, a := range c.actors {
		if a.Username == username && a.Name == name {
			return &apify.ActorDetail{
				ID:          a.ID,
				Name:        a.Name,
				Username:    a.Username,
				Description: a.Description,
				InputSchema: c.schemas[username+"/"+name],
			}, nil
		}
	}
	return nil, &apify.APIError{Method: "GET", URL: "catalog:" + username + "/" + name,
		StatusCode: 404, Message: "actor not found"}
}

// StartRun fabricates a run descriptor; the catalog executes nothing.
func (c *Catalog) StartRun(_ context.Context, actorID string, _ form.ValueMap, buildTag string) (*apify.RunDescriptor, error) {
	return &apify.RunDescriptor{
		ID:               uuid.New().String(),
		ActorID:          actorID,
		BuildID:          buildTag,
		Status:           "RUNNING",
		DefaultDatasetID: uuid.New().String(),
		StartedAt:        time.Now().UTC().Format(time.RFC3339),
	}, nil
}
