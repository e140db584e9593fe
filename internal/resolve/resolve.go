// Package resolve picks the model a story run is generated with. Resolution
// never fails: when the provider cannot list models, nothing matches the
// filter, or the player backs out of the picker, the fallback model is used
// and the degradation is reported.
package resolve

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrResolutionDegraded = errors.New("model resolution degraded")
	ErrNoCandidates       = errors.New("no suitable models found")
)

// Lister returns the model identifiers a provider offers.
type Lister interface {
	ListModels(ctx context.Context) ([]string, error)
}

// Picker presents a list and returns the item the player chose.
type Picker interface {
	Choose(ctx context.Context, title string, items []string, defaultIndex int) (string, error)
}

// Reporter receives user-facing progress and degradation notices.
type Reporter interface {
	Status(msg string)
	Warn(msg string)
}

// Options configures a Resolver.
type Options struct {
	// Markers are the substrings that mark a chat/instruction model
	Markers []string

	// DefaultModel is pre-highlighted in the picker when listed
	DefaultModel string

	// FallbackModel is used whenever resolution degrades
	FallbackModel string

	// Title is shown above the picker
	Title string
}

// Resolution is the outcome of model resolution.
type Resolution struct {
	Model string

	// Degraded is true when Model is the fallback
	Degraded bool

	// Reason wraps ErrResolutionDegraded and the cause when Degraded
	Reason error

	// Candidates are the filtered identifiers offered to the player
	Candidates []string
}

// Resolver chooses a model identifier.
type Resolver struct {
	lister   Lister
	picker   Picker
	reporter Reporter
	opts     Options
}

// NewResolver creates a resolver. reporter may be nil.
func NewResolver(lister Lister, picker Picker, reporter Reporter, opts Options) *Resolver {
	if opts.Title == "" {
		opts.Title = "Please choose a model (navigate with arrows, select with Enter):"
	}
	return &Resolver{
		lister:   lister,
		picker:   picker,
		reporter: reporter,
		opts:     opts,
	}
}

// Resolve lists, filters and offers models, always returning some identifier.
func (r *Resolver) Resolve(ctx context.Context) Resolution {
	if r.lister == nil {
		return r.degrade(nil, errors.New("no model listing available"))
	}

	r.status("Fetching available models...")
	ids, err := r.lister.ListModels(ctx)
	if err != nil {
		return r.degrade(nil, fmt.Errorf("listing models: %w", err))
	}

	candidates := FilterModels(ids, r.opts.Markers)
	if len(candidates) == 0 {
		return r.degrade(nil, ErrNoCandidates)
	}

	if r.picker == nil {
		return r.degrade(candidates, errors.New("no model picker available"))
	}

	chosen, err := r.picker.Choose(ctx, r.opts.Title, candidates, DefaultIndex(candidates, r.opts.DefaultModel))
	if err != nil {
		return r.degrade(candidates, fmt.Errorf("model selection: %w", err))
	}
	if chosen == "" {
		return r.degrade(candidates, errors.New("model selection returned nothing"))
	}

	r.status(fmt.Sprintf("Using model: %s", chosen))
	return Resolution{Model: chosen, Candidates: candidates}
}

func (r *Resolver) degrade(candidates []string, cause error) Resolution {
	reason := fmt.Errorf("%w: %w", ErrResolutionDegraded, cause)
	if r.reporter != nil {
		r.reporter.Warn(fmt.Sprintf("%v. Using default: %s", cause, r.opts.FallbackModel))
	}
	return Resolution{
		Model:      r.opts.FallbackModel,
		Degraded:   true,
		Reason:     reason,
		Candidates: candidates,
	}
}

func (r *Resolver) status(msg string) {
	if r.reporter != nil {
		r.reporter.Status(msg)
	}
}

// FilterModels keeps identifiers containing any marker, sorted and without
// duplicates.
func FilterModels(ids []string, markers []string) []string {
	seen := make(map[string]struct{})
	var out []string

	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		for _, marker := range markers {
			if marker != "" && strings.Contains(id, marker) {
				seen[id] = struct{}{}
				out = append(out, id)
				break
			}
		}
	}

	sort.Strings(out)
	return out
}

// DefaultIndex returns the position of def in items, or 0 when absent.
func DefaultIndex(items []string, def string) int {
	for i, item := range items {
		if item == def {
			return i
		}
	}
	return 0
}
