package matcher

// acAutomaton is a byte-level Aho-Corasick automaton used as the prefilter.
// Every node carries a dense 256-way transition table; -1 marks a missing edge.
// Patterns are fed already case-folded, so the automaton itself is case-blind
type acAutomaton struct {
	nodes []acNode
}

type acNode struct {
	next [256]int32
	fail int32
	// terminal is true when some pattern ends here or at a fail ancestor
	terminal bool
}

func newNode() acNode {
	var n acNode
	for i := range n.next {
		n.next[i] = -1
	}
	return n
}

func newAutomaton() *acAutomaton {
	return &acAutomaton{nodes: []acNode{newNode()}}
}

// add inserts pat into the trie. Empty patterns are ignored
func (a *acAutomaton) add(pat string) {
	if pat == "" {
		return
	}
	var state int32
	for i := 0; i < len(pat); i++ {
		b := pat[i]
		nxt := a.nodes[state].next[b]
		if nxt == -1 {
			nxt = int32(len(a.nodes))
			a.nodes[state].next[b] = nxt
			a.nodes = append(a.nodes, newNode())
		}
		state = nxt
	}
	a.nodes[state].terminal = true
}

// build computes failure links breadth first
func (a *acAutomaton) build() {
	q := make([]int32, 0, len(a.nodes))
	for b := range 256 {
		if s := a.nodes[0].next[b]; s != -1 {
			a.nodes[s].fail = 0
			q = append(q, s)
		}
	}
	for qi := 0; qi < len(q); qi++ {
		r := q[qi]
		for b := range 256 {
			s := a.nodes[r].next[b]
			if s == -1 {
				continue
			}
			q = append(q, s)

			f := a.nodes[r].fail
			for f != 0 && a.nodes[f].next[b] == -1 {
				f = a.nodes[f].fail
			}
			if nxt := a.nodes[f].next[b]; nxt != -1 {
				a.nodes[s].fail = nxt
			} else {
				a.nodes[s].fail = 0
			}
			if a.nodes[a.nodes[s].fail].terminal {
				a.nodes[s].terminal = true
			}
		}
	}
}

// contains reports whether any pattern occurs in text
func (a *acAutomaton) contains(text string) bool {
	if len(a.nodes) == 1 {
		return false
	}
	var state int32
	for i := 0; i < len(text); i++ {
		b := text[i]
		for state != 0 && a.nodes[state].next[b] == -1 {
			state = a.nodes[state].fail
		}
		if nxt := a.nodes[state].next[b]; nxt != -1 {
			state = nxt
		}
		if a.nodes[state].terminal {
			return true
		}
	}
	return false
}
