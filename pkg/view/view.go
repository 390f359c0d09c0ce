package view

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/helmcode/casediag/pkg/auth"
	"github.com/helmcode/casediag/pkg/client"
	"github.com/helmcode/casediag/pkg/model"
	"github.com/helmcode/casediag/pkg/report"
)

// State is the lifecycle position of a case view
type State int

const (
	StateNoCase State = iota
	StateLoading
	StateLoaded
	StateReAnalyzing
	StateError
)

func (s State) String() string {
	switch s {
	case StateNoCase:
		return "no-case-loaded"
	case StateLoading:
		return "loading"
	case StateLoaded:
		return "loaded"
	case StateReAnalyzing:
		return "re-analyzing"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

var (
	ErrNotLoaded = errors.New("no case loaded")
	ErrBusy      = errors.New("case view is busy")
	ErrNoFile    = errors.New("no file selected")
)

const (
	msgNoFile     = "Please select a file to upload."
	msgUnexpected = "An unexpected error occurred."
)

// CaseFetcher reads a case from the Case Service
type CaseFetcher interface {
	GetCase(ctx context.Context, cred auth.Credential, id int) (*model.Case, error)
}

// ResultUploader sends a results file to the Diagnostic Service
type ResultUploader interface {
	Upload(ctx context.Context, cred auth.Credential, id int, filename string, r io.Reader) (string, error)
}

// Snapshot is a consistent copy of the view state
type Snapshot struct {
	State   State
	CaseID  int
	Case    *model.Case
	Report  *report.Report
	Message string
}

// CaseView drives loading and re-analysis of one case at a time. Case data
// is never cached: every load and every successful upload fetches afresh and
// replaces the rendered report whole.
type CaseView struct {
	cases    CaseFetcher
	uploads  ResultUploader
	renderer *report.Renderer
	cred     auth.Credential

	mu         sync.Mutex
	state      State
	caseID     int
	current    *model.Case
	rep        *report.Report
	message    string
	generation uint64
}

func New(cases CaseFetcher, uploads ResultUploader, renderer *report.Renderer, cred auth.Credential) *CaseView {
	if renderer == nil {
		renderer = report.NewRenderer(nil)
	}
	return &CaseView{
		cases:    cases,
		uploads:  uploads,
		renderer: renderer,
		cred:     cred,
		state:    StateNoCase,
	}
}

// Load fetches a case and renders it. It may be called from any state; a
// load started later supersedes one still in flight.
func (v *CaseView) Load(ctx context.Context, id int) error {
	v.mu.Lock()
	v.generation++
	gen := v.generation
	v.state = StateLoading
	v.caseID = id
	v.current = nil
	v.rep = nil
	v.message = ""
	v.mu.Unlock()

	c, err := v.cases.GetCase(ctx, v.cred, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return nil
	}
	if err != nil {
		v.state = StateError
		v.message = "Error fetching case details: " + describe(err)
		return fmt.Errorf("failed to fetch case %d: %w", id, err)
	}
	v.loaded(c)
	return nil
}

// Upload sends a results file for the loaded case and, once the service has
// analyzed it, re-fetches the case. A failed upload leaves the previous
// report in place with an error message.
func (v *CaseView) Upload(ctx context.Context, filename string, r io.Reader) error {
	v.mu.Lock()
	if filename == "" || r == nil {
		v.message = msgNoFile
		v.mu.Unlock()
		return ErrNoFile
	}
	switch v.state {
	case StateLoaded:
	case StateLoading, StateReAnalyzing:
		v.mu.Unlock()
		return ErrBusy
	default:
		v.mu.Unlock()
		return ErrNotLoaded
	}
	v.state = StateReAnalyzing
	v.message = ""
	gen := v.generation
	id := v.caseID
	v.mu.Unlock()

	ack, err := v.uploads.Upload(ctx, v.cred, id, filename, r)
	if err != nil {
		v.mu.Lock()
		defer v.mu.Unlock()
		if gen == v.generation {
			v.state = StateLoaded
			v.message = "Error uploading file: " + describe(err)
		}
		return fmt.Errorf("failed to upload %s: %w", filename, err)
	}

	c, err := v.cases.GetCase(ctx, v.cred, id)

	v.mu.Lock()
	defer v.mu.Unlock()
	if gen != v.generation {
		return nil
	}
	if err != nil {
		v.state = StateError
		v.current = nil
		v.rep = nil
		v.message = "Error fetching case details: " + describe(err)
		return fmt.Errorf("failed to fetch case %d: %w", id, err)
	}
	v.loaded(c)
	v.message = ack
	return nil
}

// loaded must be called with mu held
func (v *CaseView) loaded(c *model.Case) {
	v.state = StateLoaded
	v.current = c
	v.rep = v.renderer.Render(c)
}

func (v *CaseView) Snapshot() Snapshot {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Snapshot{
		State:   v.state,
		CaseID:  v.caseID,
		Case:    v.current,
		Report:  v.rep,
		Message: v.message,
	}
}

func (v *CaseView) State() State {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.state
}

func (v *CaseView) Report() *report.Report {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.rep
}

// Message is the banner text: an upload acknowledgement or the last failure
func (v *CaseView) Message() string {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.message
}

func describe(err error) string {
	var apiErr *client.APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return msgUnexpected
}
