package planner

// NumPaths returns the number of path buckets implied by the given hops, which
// is one more than the largest path id, or zero if there are no hops.
func NumPaths(hops []*Hop) int {
	if len(hops) == 0 {
		return 0
	}

	var maxID uint32
	for _, hop := range hops {
		if hop.PathID > maxID {
			maxID = hop.PathID
		}
	}

	return int(maxID) + 1
}

// GroupByPath partitions the hops into paths by their path id. The returned
// slice has one entry for every id between zero and the largest id seen, so
// ids without any hop result in an empty path. Within each path the hops keep
// the relative order they had in the input.
func GroupByPath(hops []*Hop) ([]*Path, error) {
	return GroupByPathN(hops, NumPaths(hops))
}

// GroupByPathN is like GroupByPath, but uses an explicit number of paths. A
// hop whose path id doesn't fall into [0, numPaths) results in an
// ErrInvalidPathID error.
func GroupByPathN(hops []*Hop, numPaths int) ([]*Path, error) {
	if numPaths < 0 {
		return nil, newErrf(ErrInvalidPathID,
			"negative number of paths: %d", numPaths)
	}

	paths := make([]*Path, numPaths)
	for i := range paths {
		paths[i] = &Path{ID: uint32(i)}
	}

	for _, hop := range hops {
		if uint64(hop.PathID) >= uint64(numPaths) {
			return nil, newErrf(ErrInvalidPathID, "hop %v "+
				"references path %d, but only %d paths exist",
				hop.ChannelName, hop.PathID, numPaths)
		}

		path := paths[hop.PathID]
		path.Hops = append(path.Hops, hop)
	}

	return paths, nil
}

// nonEmpty returns the paths that have at least one hop, preserving order.
func nonEmpty(paths []*Path) []*Path {
	filtered := make([]*Path, 0, len(paths))
	for _, path := range paths {
		if path.IsEmpty() {
			log.Debugf("Skipping path %d without hops", path.ID)
			continue
		}

		filtered = append(filtered, path)
	}

	return filtered
}
