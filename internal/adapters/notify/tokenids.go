package notify

import "strconv"

const defaultIDCapacity = 1000

// tokenIDs maps short display IDs to full denom strings so that console
// output and user commands can reference a token as "t17" instead of a
// 70-character denom. Bounded: once capacity is reached the oldest
// mapping is evicted. Not safe for concurrent use on its own; Console
// serializes access.
type tokenIDs struct {
	cap     int
	next    int
	byID    map[string]string
	byDenom map[string]string
	order   []string
}

func newTokenIDs(capacity int) *tokenIDs {
	return &tokenIDs{
		cap:     capacity,
		next:    1,
		byID:    make(map[string]string),
		byDenom: make(map[string]string),
	}
}

// register returns the existing ID for the denom, or issues a new one.
func (t *tokenIDs) register(denom string) string {
	if id, ok := t.byDenom[denom]; ok {
		return id
	}

	if len(t.order) >= t.cap {
		oldest := t.order[0]
		t.order = t.order[1:]
		delete(t.byDenom, t.byID[oldest])
		delete(t.byID, oldest)
	}

	id := "t" + strconv.Itoa(t.next)
	t.next++
	t.byID[id] = denom
	t.byDenom[denom] = id
	t.order = append(t.order, id)
	return id
}

// resolve maps an ID back to its denom.
func (t *tokenIDs) resolve(id string) (string, bool) {
	denom, ok := t.byID[id]
	return denom, ok
}
