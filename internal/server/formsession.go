package server

import (
	"strings"
	"sync"

	"github.com/performate/performate/internal/apify"
	"github.com/performate/performate/pkg/form"
	"github.com/performate/performate/pkg/schema"
)

// formSession is the server-side state behind one actor form: the schema of
// the last fetch, the values the user has edited so far, the overflow tracker
// for the description affordances, and the outcome of the last run attempt.
//
// Generation guards against overlapping detail fetches: each fetch reserves a
// generation before it starts, and only the fetch holding the latest
// generation may install its schema. A slow response for an earlier
// navigation can never clobber the form the user is looking at.
type formSession struct {
	mu sync.Mutex

	actorID    string
	schema     *schema.InputSchema
	values     form.ValueMap
	tracker    *form.OverflowTracker
	generation uint64

	pending  bool
	run      *apify.RunDescriptor
	runError string
	problems []string
}

// formSnapshot is a consistent read of the session for one render pass.
type formSnapshot struct {
	Schema   *schema.InputSchema
	Values   form.ValueMap
	Tracker  *form.OverflowTracker
	Pending  bool
	Run      *apify.RunDescriptor
	RunError string
	Problems []string
}

func (fs *formSession) snapshot() formSnapshot {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return formSnapshot{
		Schema:   fs.schema,
		Values:   fs.values,
		Tracker:  fs.tracker,
		Pending:  fs.pending,
		Run:      fs.run,
		RunError: fs.runError,
		Problems: fs.problems,
	}
}

// beginFetch reserves the next generation for a detail fetch.
func (fs *formSession) beginFetch() uint64 {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.generation++
	return fs.generation
}

// install adopts a freshly fetched actor detail, deriving initial values,
// unless a newer fetch has been reserved since gen was handed out. Repeated
// installs of the same actor keep the user's edits.
func (fs *formSession) install(gen uint64, detail *apify.ActorDetail) bool {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	if gen != fs.generation {
		return false
	}
	fs.actorID = detail.ID
	if fs.values == nil {
		fs.schema = detail.InputSchema
		fs.values = form.DeriveValues(detail.InputSchema)
		fs.tracker = form.NewOverflowTracker()
	}
	return true
}

func (fs *formSession) finishRun(run *apify.RunDescriptor, err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.pending = false
	fs.run = run
	if err != nil {
		fs.runError = userMessage(err)
	}
}

// formSessions holds the per-user, per-actor form state, keyed by session
// token and actor reference. Logout drops every form the session owned.
type formSessions struct {
	mu    sync.Mutex
	forms map[string]*formSession
}

func newFormSessions() *formSessions {
	return &formSessions{forms: make(map[string]*formSession)}
}

func formKey(sessionToken, username, name string) string {
	return sessionToken + "\x00" + username + "/" + name
}

func (f *formSessions) get(key string) *formSession {
	f.mu.Lock()
	defer f.mu.Unlock()
	fs, ok := f.forms[key]
	if !ok {
		fs = &formSession{}
		f.forms[key] = fs
	}
	return fs
}

func (f *formSessions) dropSession(sessionToken string) {
	prefix := sessionToken + "\x00"
	f.mu.Lock()
	defer f.mu.Unlock()
	for key := range f.forms {
		if strings.HasPrefix(key, prefix) {
			delete(f.forms, key)
		}
	}
}
