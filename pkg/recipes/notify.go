package recipes

// Subscribe returns a channel that receives a signal after every committed
// write. Signals coalesce: a slow reader sees at most one pending value.
// Call the returned func to stop receiving; it closes the channel.
func (g *Gateway) Subscribe() (<-chan struct{}, func()) {
	ch := make(chan struct{}, 1)

	g.subsMu.Lock()
	id := g.nextSub
	g.nextSub++
	g.subs[id] = ch
	g.subsMu.Unlock()

	cancel := func() {
		g.subsMu.Lock()
		defer g.subsMu.Unlock()
		if c, ok := g.subs[id]; ok {
			delete(g.subs, id)
			close(c)
		}
	}
	return ch, cancel
}

func (g *Gateway) notify() {
	g.subsMu.Lock()
	defer g.subsMu.Unlock()
	for _, ch := range g.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}
