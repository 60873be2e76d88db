package chat

import (
	"sealchat/internal/domain"
	"sealchat/internal/services/codec"
)

type openResult struct {
	text string
	err  error
}

// openedCache holds the outcome of opening each stored message. Messages are
// comparable values, so identical redeliveries share one entry.
type openedCache map[domain.Message]openResult

// prune drops entries for messages no longer in the log.
func (oc openedCache) prune(live []domain.Message) {
	if len(oc) <= len(live) {
		return
	}
	keep := make(map[domain.Message]struct{}, len(live))
	for _, m := range live {
		keep[m] = struct{}{}
	}
	for m := range oc {
		if _, ok := keep[m]; !ok {
			delete(oc, m)
		}
	}
}

// cachedOpener answers from the cache and opens anything it has not seen.
type cachedOpener struct {
	cache    openedCache
	fallback codec.Opener
}

func (o cachedOpener) Open(msg domain.Message) (string, error) {
	if r, ok := o.cache[msg]; ok {
		return r.text, r.err
	}
	return o.fallback.Open(msg)
}

var _ codec.Opener = cachedOpener{}
