// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"cmp"
	"slices"
)

const (
	DefaultMaxVoices        = 32
	DefaultMaxSpatialVoices = 64
)

type Option func(*options)

type options struct {
	maxVoices int
}

// WithMaxVoices caps concurrent voices; non-positive values keep the default.
func WithMaxVoices(n int) Option {
	return func(o *options) {
		if n > 0 {
			o.maxVoices = n
		}
	}
}

func buildOptions(def int, opts []Option) options {
	o := options{maxVoices: def}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Loudest returns at most n sources, loudest first. Equal gains keep their
// input order and n <= 0 keeps everything.
func Loudest[S any](srcs []S, n int, gain func(S) float64) []S {
	if n <= 0 || len(srcs) <= n {
		return srcs
	}

	sorted := slices.Clone(srcs)
	slices.SortStableFunc(sorted, func(a, b S) int {
		return cmp.Compare(gain(b), gain(a))
	})
	return sorted[:n]
}

type keyed[S any] struct {
	key string
	src S
}

// identify keys every source and folds duplicates onto the loudest one;
// ties keep the first.
func identify[S any](srcs []S, key func(S) string, gain func(S) float64) []keyed[S] {
	out := make([]keyed[S], 0, len(srcs))
	at := make(map[string]int, len(srcs))

	for _, s := range srcs {
		k := key(s)
		if i, ok := at[k]; ok {
			if gain(s) > gain(out[i].src) {
				out[i].src = s
			}
			continue
		}
		at[k] = len(out)
		out = append(out, keyed[S]{key: k, src: s})
	}
	return out
}

// pick keys srcs, folds duplicate identities and keeps the n loudest of
// what remains, so a cap is never spent on merged sources.
func pick[S any](srcs []S, n int, key func(S) string, gain func(S) float64) []keyed[S] {
	return Loudest(identify(srcs, key, gain), n, func(k keyed[S]) float64 { return gain(k.src) })
}

// pool holds live voices by identity. Callers guard it with their own mutex.
// A closed pool admits no voices until it is reopened.
type pool[V any] struct {
	live   map[string]V
	order  []string
	closed bool
}

func newPool[V any]() pool[V] {
	return pool[V]{live: make(map[string]V)}
}

func (p *pool[V]) len() int { return len(p.order) }

func (p *pool[V]) get(key string) (V, bool) {
	v, ok := p.live[key]
	return v, ok
}

// drain empties the pool and hands back every voice.
func (p *pool[V]) drain() []V {
	out := make([]V, 0, len(p.order))
	for _, k := range p.order {
		out = append(out, p.live[k])
	}
	clear(p.live)
	p.order = p.order[:0]
	return out
}

// close drains the pool and refuses further voices.
func (p *pool[V]) close() []V {
	p.closed = true
	return p.drain()
}

func (p *pool[V]) reopen() { p.closed = false }

// missing lists the incoming identities with no live voice.
func missing[S, V any](p *pool[V], in []keyed[S]) []keyed[S] {
	if p.closed {
		return nil
	}
	var out []keyed[S]
	for _, k := range in {
		if _, ok := p.live[k.key]; !ok {
			out = append(out, k)
		}
	}
	return out
}

// reconcile applies one update. Live identities are passed to update, fresh
// voices fill new identities, and everything else leaves the pool. The
// removed voices and any unused fresh ones are returned for release. A
// closed pool hands every fresh voice straight back.
func reconcile[S, V any](p *pool[V], in []keyed[S], fresh map[string]V, update func(V, S)) []V {
	if p.closed {
		dropped := make([]V, 0, len(fresh))
		for _, v := range fresh {
			dropped = append(dropped, v)
		}
		return dropped
	}

	next := make([]string, 0, len(in))
	keep := make(map[string]struct{}, len(in))

	for _, k := range in {
		v, ok := p.live[k.key]
		if !ok {
			if v, ok = fresh[k.key]; !ok {
				continue
			}
			delete(fresh, k.key)
			p.live[k.key] = v
		}
		update(v, k.src)
		next = append(next, k.key)
		keep[k.key] = struct{}{}
	}

	var dropped []V
	for _, k := range p.order {
		if _, ok := keep[k]; !ok {
			dropped = append(dropped, p.live[k])
			delete(p.live, k)
		}
	}
	for _, v := range fresh {
		dropped = append(dropped, v)
	}

	p.order = next
	return dropped
}
