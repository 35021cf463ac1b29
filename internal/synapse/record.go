// Package synapse implements the Synapse Store: hot and cold
// concept weight maps, Hebbian co-occurrence links, LTP reinforcement, and
// LTD decay with hot<->cold migration.
package synapse

// Synapse is the hot-store record for one concept key.
//
// first_seen is written once at creation and never touched again; every
// other timestamp may advance on reinforcement, recall, or revival.
type Synapse struct {
	Weight      float64        `json:"weight"`
	Count       int            `json:"count"`
	RecallCount int            `json:"recall_count"`
	FirstSeen   int64          `json:"first_seen"`
	LastSeen    int64          `json:"last_seen"`
	LastAccess  int64          `json:"last_access"`
	Refs        []string       `json:"refs"`
	Synapses    map[string]int `json:"synapses"`

	Pinned  bool   `json:"pinned,omitempty"`
	Rule    string `json:"rule,omitempty"`
	Domain  string `json:"domain,omitempty"`
	Source  string `json:"source,omitempty"`
	Trigger string `json:"trigger,omitempty"`

	Evidence   []string `json:"evidence,omitempty"`
	Confidence float64  `json:"confidence,omitempty"`

	RevivedFrom string `json:"revived_from,omitempty"`
	RevivedAt   int64  `json:"revived_at,omitempty"`
	MemorizedAt int64  `json:"memorized_at,omitempty"`
}

// Latent is the cold-store record: a Synapse plus the demotion timestamp
// and the weight it carried at the moment it was archived.
type Latent struct {
	Synapse
	ArchivedAt     int64   `json:"archived_at"`
	OriginalWeight float64 `json:"original_weight"`
}

// addRef appends file to Refs if not already present, preserving order.
func (s *Synapse) addRef(file string) {
	for _, r := range s.Refs {
		if r == file {
			return
		}
	}
	s.Refs = append(s.Refs, file)
}

// link adds delta to this record's co-occurrence strength toward partner.
// It does not touch the partner's record: callers apply the mirrored
// increment themselves. Callers hold the store write lock.
func (s *Synapse) link(partner string, delta int) {
	if s.Synapses == nil {
		s.Synapses = make(map[string]int)
	}
	s.Synapses[partner] += delta
}

func newSynapse(weight float64, now int64) *Synapse {
	return &Synapse{
		Weight:     weight,
		FirstSeen:  now,
		LastSeen:   now,
		LastAccess: now,
		Synapses:   make(map[string]int),
		Refs:       []string{},
	}
}
