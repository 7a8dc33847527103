package service

import (
	"errors"

	"github.com/rs/zerolog"

	"github.com/coderr/marketplace/internal/core/domain"
	"github.com/coderr/marketplace/internal/core/policy"
	"github.com/coderr/marketplace/internal/pkg/metrics"
)

// authorize evaluates req, records the decision and returns the permitted
// update fields. A not-found denial is reported as notFound so the caller
// learns which resource was missing.
func authorize(log zerolog.Logger, req policy.Request, notFound error) (policy.FieldSet, error) {
	d := policy.Evaluate(req)
	metrics.PolicyDecisionsTotal.WithLabelValues(string(req.Resource), string(req.Action), d.Outcome()).Inc()
	if d.Allowed {
		return d.Fields, nil
	}

	log.Debug().
		Str("actor_id", req.Actor.ID).
		Str("role", string(req.Actor.Role)).
		Str("resource", string(req.Resource)).
		Str("action", string(req.Action)).
		Str("outcome", d.Outcome()).
		Msg("access denied")

	if errors.Is(d.Err, domain.ErrNotFound) && notFound != nil {
		return nil, notFound
	}
	return nil, d.Err
}

// lookup splits a repository error into "missing" and a real failure.
func lookup(err error) (missing bool, fatal error) {
	if err == nil {
		return false, nil
	}
	if errors.Is(err, domain.ErrNotFound) {
		return true, nil
	}
	return false, err
}
