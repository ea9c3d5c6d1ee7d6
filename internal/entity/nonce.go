package entity

// NonceSet remembers move identifiers already accepted in a room.
// With a positive limit the oldest nonce is forgotten once the limit is reached.
type NonceSet struct {
	limit int
	seen  map[string]struct{}
	order []string
}

func NewNonceSet(limit int) *NonceSet {
	return &NonceSet{
		limit: max(limit, 0),
		seen:  make(map[string]struct{}),
	}
}

func (that *NonceSet) Seen(nonce string) bool {
	_, ok := that.seen[nonce]
	return ok
}

// Record adds nonce and reports false if it was already present.
func (that *NonceSet) Record(nonce string) bool {
	if that.Seen(nonce) {
		return false
	}

	if that.limit > 0 && len(that.order) >= that.limit {
		oldest := that.order[0]
		that.order = that.order[1:]
		delete(that.seen, oldest)
	}

	that.seen[nonce] = struct{}{}
	if that.limit > 0 {
		that.order = append(that.order, nonce)
	}

	return true
}

func (that *NonceSet) Len() int {
	return len(that.seen)
}
