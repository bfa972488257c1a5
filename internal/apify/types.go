package apify

import (
	"encoding/json"

	"github.com/performate/performate/pkg/schema"
)

// Actor is one entry of the actor list.
type Actor struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	Username  string `json:"username"`
	Title     string `json:"title"`
	CreatedAt string `json:"createdAt"`
}

// ActorDetail is the detail view payload. InputSchema is nil when the
// actor's latest build does not publish one; the form degrades to a notice.
type ActorDetail struct {
	ID          string
	UserID      string
	Name        string
	Username    string
	Description string
	PictureURL  string
	InputSchema *schema.InputSchema
}

// RunDescriptor is the opaque record the execution API returns for a
// started run. Every field is best-effort display data.
type RunDescriptor struct {
	ID               string
	ActorID          string
	BuildID          string
	Status           string
	DefaultDatasetID string
	StartedAt        string
}

// runPayload tolerates the field aliases the API has used over time
// (actId/actorId, buildId/build).
type runPayload struct {
	ID               string `json:"id"`
	ActID            string `json:"actId"`
	ActorID          string `json:"actorId"`
	BuildID          string `json:"buildId"`
	Build            string `json:"build"`
	Status           string `json:"status"`
	DefaultDatasetID string `json:"defaultDatasetId"`
	StartedAt        string `json:"startedAt"`
}

func (p runPayload) descriptor() *RunDescriptor {
	desc := &RunDescriptor{
		ID:               p.ID,
		ActorID:          p.ActID,
		BuildID:          p.BuildID,
		Status:           p.Status,
		DefaultDatasetID: p.DefaultDatasetID,
		StartedAt:        p.StartedAt,
	}
	if desc.ActorID == "" {
		desc.ActorID = p.ActorID
	}
	if desc.BuildID == "" {
		desc.BuildID = p.Build
	}
	return desc
}

// envelope unwraps the {"data": ...} wrapper the API puts around payloads.
// Some deployments answer bare payloads; those pass through untouched.
func envelope(raw []byte) json.RawMessage {
	var wrapped struct {
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(raw, &wrapped); err == nil && len(wrapped.Data) > 0 {
		return wrapped.Data
	}
	return raw
}
