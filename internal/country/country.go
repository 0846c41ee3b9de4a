// Package country resolves free-form country names to ISO 3166-1 identities.
package country

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/biter777/countries"
	"github.com/huangsam/marketscope/internal/contract"
	"github.com/huangsam/marketscope/schema"
)

// ErrUnknownCountry is returned when a name matches no country.
var ErrUnknownCountry = errors.New("unknown country")

// Resolver looks names up in the offline ISO 3166 table.
type Resolver struct{}

var _ contract.TargetResolver = Resolver{} // Compile-time check

// NewResolver returns a resolver backed by github.com/biter777/countries.
func NewResolver() Resolver {
	return Resolver{}
}

// Resolve accepts English names, common aliases and alpha-2 or alpha-3 codes.
func (Resolver) Resolve(ctx context.Context, name string) (schema.ResolvedTarget, error) {
	if err := ctx.Err(); err != nil {
		return schema.ResolvedTarget{}, err
	}

	trimmed := strings.TrimSpace(name)
	code := countries.ByName(trimmed)
	if code == countries.Unknown || !code.IsValid() {
		return schema.ResolvedTarget{}, fmt.Errorf("%w: %q", ErrUnknownCountry, trimmed)
	}
	return schema.ResolvedTarget{Code: code.Alpha2(), Name: code.String()}, nil
}
