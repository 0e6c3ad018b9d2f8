package query

import (
	"github.com/wurlab/sparq/rdf"
	"github.com/wurlab/sparq/sparql"
)

// Collect walks the binding sequence once and appends the string
// rendering of key's term in each solution to acc, which is returned.
// Solutions where key is unbound contribute nothing — no placeholder is
// inserted, so the output can be shorter than the solution count.
//
// The accumulator is appended to, never replaced, so one accumulator can
// aggregate the results of several queries.
func (e *Engine) Collect(rs *sparql.Results, key string, acc []string) ([]string, error) {
	count := 0
	for rs.Next() {
		soln := rs.Solution()
		if e.debug {
			e.logger.Debugw("solution", "bindings", soln.String())
		}
		if node := soln.Get(key); node != nil {
			value := rdf.TermString(node)
			acc = append(acc, value)
			if e.debug {
				e.logger.Debugw("extracted binding", "key", key, "value", value)
			}
		}
		count++
	}
	if e.debug {
		e.logger.Debugw("result sequence consumed", "solutions", count)
	}
	return acc, rs.Err()
}

// CollectTuples walks the binding sequence once and appends one tuple
// per solution to acc, which is returned. Tuple fields follow the
// caller-supplied key order, not the engine's variable order. Unbound
// keys are omitted from their tuple — the tuple is not padded, so its
// arity can be smaller than len(keys).
func (e *Engine) CollectTuples(rs *sparql.Results, keys []string, acc [][]string) ([][]string, error) {
	count := 0
	for rs.Next() {
		soln := rs.Solution()
		tuple := make([]string, 0, len(keys))
		for _, key := range keys {
			node := soln.Get(key)
			if node == nil {
				if e.debug {
					e.logger.Debugw("unbound key", "key", key)
				}
				continue
			}
			value := rdf.TermString(node)
			tuple = append(tuple, value)
			if e.debug {
				e.logger.Debugw("extracted binding", "key", key, "value", value)
			}
		}
		acc = append(acc, tuple)
		count++
	}
	if e.debug {
		e.logger.Debugw("result sequence consumed", "solutions", count)
	}
	return acc, rs.Err()
}

// PrintResults walks the binding sequence and writes each bound
// (key, value) pair to the log instead of collecting it. An inspection
// aid, not part of the data pipeline.
func (e *Engine) PrintResults(rs *sparql.Results, keys ...string) error {
	count := 0
	for rs.Next() {
		soln := rs.Solution()
		for _, key := range keys {
			if node := soln.Get(key); node != nil {
				e.logger.Infow("binding", "key", key, "value", rdf.TermString(node))
			}
		}
		count++
	}
	if e.debug {
		e.logger.Debugw("result sequence consumed", "solutions", count)
	}
	return rs.Err()
}
