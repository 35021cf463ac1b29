package synapse

// PredictiveLTD penalizes concepts recalled often but never consolidated by
// further observation, then resets RecallCount on every record.
// Must run after reinforcement and before BuildHebbianLinks/ApplyLTD within
// one distillation.
func (s *Store) PredictiveLTD() {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, rec := range s.hot {
		if !rec.Pinned && rec.RecallCount >= 3 {
			if float64(rec.Count) < 0.5*float64(rec.RecallCount) {
				rec.Weight -= 0.1 * float64(rec.RecallCount)
			}
		}
	}
	for _, rec := range s.hot {
		rec.RecallCount = 0
	}
}

// ApplyLTD multiplies every non-pinned weight by the configured decay rate,
// then demotes any record whose weight falls below the forget threshold
// into the cold store. Must run last within one distillation.
func (s *Store) ApplyLTD() {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.nowMillis()
	var demote []string
	for key, rec := range s.hot {
		if rec.Pinned {
			continue
		}
		rec.Weight *= s.ltd.DecayRate
		if rec.Weight < s.ltd.ForgetThreshold {
			demote = append(demote, key)
		}
	}

	for _, key := range demote {
		rec := s.hot[key]
		latent := &Latent{
			Synapse:        *rec,
			ArchivedAt:     now,
			OriginalWeight: rec.Weight,
		}
		s.cold[key] = latent
		delete(s.hot, key)
	}
}
