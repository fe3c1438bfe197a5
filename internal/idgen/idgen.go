// Package idgen issues opaque string identifiers, used as JWT IDs (jti)
// so that individual tokens can be told apart in logs.
package idgen

import (
	"fmt"

	"github.com/google/uuid"
)

// Generator produces unique identifiers. Implementations must be safe for
// concurrent use.
type Generator interface {
	NewID() (string, error)
}

// Func adapts a plain function to Generator.
type Func func() (string, error)

func (f Func) NewID() (string, error) { return f() }

type random struct{}

// Random returns a Generator backed by UUID v4.
func Random() Generator { return random{} }

func (random) NewID() (string, error) {
	return uuid.NewString(), nil
}

type timeOrdered struct {
	retries int
}

// TimeOrdered returns a Generator backed by UUID v7, so identifiers sort by
// issue time. uuid.NewV7 is retried up to retries extra times before failing.
func TimeOrdered(retries int) Generator {
	if retries < 0 {
		retries = 0
	}
	return &timeOrdered{retries: retries}
}

func (g *timeOrdered) NewID() (string, error) {
	var last error
	for range g.retries + 1 {
		id, err := uuid.NewV7()
		if err == nil {
			return id.String(), nil
		}
		last = err
	}
	return "", fmt.Errorf("uuid v7 generation failed after %d attempts: %w", g.retries+1, last)
}
