package synapse

// LatentStats summarizes the cold store (backs the latent-stats command).
type LatentStats struct {
	TotalLatent     int
	OldestArchive   int64
	NewestArchive   int64
	AverageAgeDays  float64
}

// LatentStats computes cold-store statistics from ArchivedAt timestamps.
func (s *Store) LatentStats() LatentStats {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(s.cold) == 0 {
		return LatentStats{}
	}

	var oldest, newest int64
	var totalAgeDays float64
	now := s.nowMillis()
	first := true
	for _, lat := range s.cold {
		if first || lat.ArchivedAt < oldest {
			oldest = lat.ArchivedAt
		}
		if first || lat.ArchivedAt > newest {
			newest = lat.ArchivedAt
		}
		first = false
		ageMillis := now - lat.ArchivedAt
		totalAgeDays += float64(ageMillis) / float64(24*60*60*1000)
	}

	return LatentStats{
		TotalLatent:    len(s.cold),
		OldestArchive:  oldest,
		NewestArchive:  newest,
		AverageAgeDays: totalAgeDays / float64(len(s.cold)),
	}
}
