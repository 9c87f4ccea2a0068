// Package blocking restricts pairwise comparison to plausible candidate
// pairs. Records are partitioned by canonical crop key and the cross product
// is emitted only within each block, turning the full O(n*m) comparison into
// per-crop work. Records with an unknown crop form a wildcard side compared
// against every block, so unclassifiable rows are never silently dropped.
package blocking

import (
	"sort"

	"seedlink/internal/record"
)

// UnknownKey labels the block for records with no canonical crop.
const UnknownKey = ""

// Pair references one record from each source together with the crop block
// it was generated under. Pairs live only for the duration of a matching run.
type Pair struct {
	Regulatory *record.SourceRecord
	Portal     *record.SourceRecord
	Block      string
}

// Block groups the candidate pairs generated under one crop key.
type Block struct {
	Key   string
	Pairs []Pair
}

// Partition generates candidate pairs for both sources, grouped by crop
// block and sorted by block key so workers can be scheduled deterministically.
// A block that is empty on either side generates no pairs; its records flow
// through as unmatched.
func Partition(regulatory, portal []record.SourceRecord) []Block {
	regByCrop := groupByCrop(regulatory)
	portalByCrop := groupByCrop(portal)

	pairsByBlock := make(map[string][]Pair)
	add := func(key string, reg, por *record.SourceRecord) {
		pairsByBlock[key] = append(pairsByBlock[key], Pair{Regulatory: reg, Portal: por, Block: key})
	}

	for crop, regs := range regByCrop {
		if crop == UnknownKey {
			continue
		}
		for _, reg := range regs {
			for _, por := range portalByCrop[crop] {
				add(crop, reg, por)
			}
			// Unknown-crop portal rows are candidates in every block.
			for _, por := range portalByCrop[UnknownKey] {
				add(crop, reg, por)
			}
		}
	}
	for _, reg := range regByCrop[UnknownKey] {
		for crop, portals := range portalByCrop {
			for _, por := range portals {
				add(crop, reg, por)
			}
		}
	}

	keys := make([]string, 0, len(pairsByBlock))
	for key := range pairsByBlock {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	blocks := make([]Block, 0, len(keys))
	for _, key := range keys {
		blocks = append(blocks, Block{Key: key, Pairs: pairsByBlock[key]})
	}
	return blocks
}

func groupByCrop(records []record.SourceRecord) map[string][]*record.SourceRecord {
	grouped := make(map[string][]*record.SourceRecord)
	for i := range records {
		r := &records[i]
		grouped[r.CropKey] = append(grouped[r.CropKey], r)
	}
	return grouped
}
