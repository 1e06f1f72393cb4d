package graph

import "sort"

// Bipartite is a read-only sender/recipient projection of a graph. Senders
// and recipients form two disjoint partitions even when one identity acts as
// both in the full graph; the two partition-scoped copies share the
// identifier string.
type Bipartite struct {
	senders        []string
	recipients     []string
	senderIndex    map[string]int
	recipientIndex map[string]int
	targets        [][]int // sender partition index -> recipient partition indices
	sources        [][]int // recipient partition index -> sender partition indices
	weights        map[[2]int]int
}

// Bipartite derives the bipartite projection. Partition membership follows
// edge insertion order, so iteration over Senders and Recipients is stable.
func (g *Graph) Bipartite() *Bipartite {
	b := &Bipartite{
		senderIndex:    make(map[string]int),
		recipientIndex: make(map[string]int),
		weights:        make(map[[2]int]int),
	}
	for _, e := range g.edges {
		s := g.nodes[e.From].ID
		r := g.nodes[e.To].ID
		si, ok := b.senderIndex[s]
		if !ok {
			si = len(b.senders)
			b.senderIndex[s] = si
			b.senders = append(b.senders, s)
			b.targets = append(b.targets, nil)
		}
		ri, ok := b.recipientIndex[r]
		if !ok {
			ri = len(b.recipients)
			b.recipientIndex[r] = ri
			b.recipients = append(b.recipients, r)
			b.sources = append(b.sources, nil)
		}
		key := [2]int{si, ri}
		if _, seen := b.weights[key]; !seen {
			b.targets[si] = append(b.targets[si], ri)
			b.sources[ri] = append(b.sources[ri], si)
		}
		b.weights[key] += e.Weight
	}
	return b
}

// Senders returns the sender partition in first-appearance order.
func (b *Bipartite) Senders() []string {
	return append([]string(nil), b.senders...)
}

// Recipients returns the recipient partition in first-appearance order.
func (b *Bipartite) Recipients() []string {
	return append([]string(nil), b.recipients...)
}

// SenderDegree returns the number of distinct recipients a sender targets.
func (b *Bipartite) SenderDegree(sender string) int {
	if si, ok := b.senderIndex[sender]; ok {
		return len(b.targets[si])
	}
	return 0
}

// RecipientDegree returns the number of distinct senders targeting a
// recipient.
func (b *Bipartite) RecipientDegree(recipient string) int {
	if ri, ok := b.recipientIndex[recipient]; ok {
		return len(b.sources[ri])
	}
	return 0
}

// Weight returns the total email count on the (sender, recipient) pair.
func (b *Bipartite) Weight(sender, recipient string) int {
	si, ok := b.senderIndex[sender]
	if !ok {
		return 0
	}
	ri, ok := b.recipientIndex[recipient]
	if !ok {
		return 0
	}
	return b.weights[[2]int{si, ri}]
}

// SharedRecipients returns the recipients targeted by both senders, sorted
// for determinism. Senders sharing many targets are candidates for
// coordinated spam rings.
func (b *Bipartite) SharedRecipients(sender1, sender2 string) []string {
	s1, ok := b.senderIndex[sender1]
	if !ok {
		return nil
	}
	s2, ok := b.senderIndex[sender2]
	if !ok {
		return nil
	}
	seen := make(map[int]bool, len(b.targets[s1]))
	for _, ri := range b.targets[s1] {
		seen[ri] = true
	}
	var shared []string
	for _, ri := range b.targets[s2] {
		if seen[ri] {
			shared = append(shared, b.recipients[ri])
		}
	}
	sort.Strings(shared)
	return shared
}

// ProjectSenders collapses the bipartite graph onto the sender partition:
// two senders are linked when they share at least one recipient, and the
// link weight is the count of shared recipients.
func (b *Bipartite) ProjectSenders() map[string]map[string]int {
	projection := make(map[string]map[string]int, len(b.senders))
	for _, s := range b.senders {
		projection[s] = make(map[string]int)
	}
	for ri := range b.recipients {
		srcs := b.sources[ri]
		for i := 0; i < len(srcs); i++ {
			for j := i + 1; j < len(srcs); j++ {
				a := b.senders[srcs[i]]
				c := b.senders[srcs[j]]
				projection[a][c]++
				projection[c][a]++
			}
		}
	}
	return projection
}
