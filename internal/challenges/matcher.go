package challenges

// ComputeUpdates diffs freshly computed metrics against the stored progress of
// the active challenges. Only challenges whose metric key is registered and
// whose value actually changed produce an update; everything else, unknown
// keys included, is left untouched. Running it again after the updates are
// applied yields nothing. A challenge that reached its target is done: its
// progress is frozen even when a periodic metric resets afterwards.
func ComputeUpdates(active []Challenge, metrics map[MetricKey]float64) []Update {
	var updates []Update
	for _, ch := range active {
		if !ch.IsActive() || ch.MetricKey == "" || ch.IsCompleted() {
			continue
		}
		value, ok := metrics[ch.MetricKey]
		if !ok || value == ch.Current {
			continue
		}
		updates = append(updates, Update{
			ChallengeID: ch.ID,
			NewCurrent:  value,
		})
	}
	return updates
}

// ResolveKeys fills in the metric key of legacy challenges from their title.
// Challenges whose title is unknown to the catalog keep an empty key.
func ResolveKeys(catalog *Catalog, chs []Challenge) []Challenge {
	resolved := make([]Challenge, len(chs))
	for i, ch := range chs {
		if key, ok := catalog.Resolve(ch); ok {
			ch.MetricKey = key
		}
		resolved[i] = ch
	}
	return resolved
}
