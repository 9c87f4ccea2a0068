package blocking

import (
	"testing"

	"seedlink/internal/record"
)

func src(id string, source record.Source, name, crop string) record.SourceRecord {
	return record.SourceRecord{
		ID:             id,
		Source:         source,
		VarietyName:    name,
		NormalizedName: name,
		CropKey:        crop,
	}
}

func TestPartitionWithinBlocks(t *testing.T) {
	regulatory := []record.SourceRecord{
		src("REG_1", record.SourceRegulatory, "pusa basmati 1718", "rice"),
		src("REG_2", record.SourceRegulatory, "hd 3226", "wheat"),
	}
	portal := []record.SourceRecord{
		src("POR_1", record.SourcePortal, "pb 1718", "rice"),
		src("POR_2", record.SourcePortal, "hd 3226", "wheat"),
		src("POR_3", record.SourcePortal, "bhima shakti", "onion"),
	}

	blocks := Partition(regulatory, portal)

	total := 0
	for _, block := range blocks {
		for _, pair := range block.Pairs {
			total++
			regCrop := pair.Regulatory.CropKey
			porCrop := pair.Portal.CropKey
			if regCrop != UnknownKey && porCrop != UnknownKey && regCrop != porCrop {
				t.Errorf("pair %s/%s crosses blocks %q and %q", pair.Regulatory.ID, pair.Portal.ID, regCrop, porCrop)
			}
		}
	}
	// rice x rice and wheat x wheat only; onion has no regulatory side.
	if total != 2 {
		t.Errorf("Partition generated %d pairs, want 2", total)
	}
}

func TestPartitionIdenticalNameDifferentCrop(t *testing.T) {
	regulatory := []record.SourceRecord{src("REG_1", record.SourceRegulatory, "swarna", "rice")}
	portal := []record.SourceRecord{src("POR_1", record.SourcePortal, "swarna", "wheat")}

	blocks := Partition(regulatory, portal)
	for _, block := range blocks {
		if len(block.Pairs) != 0 {
			t.Errorf("block %q generated pairs for records in different crops", block.Key)
		}
	}
}

func TestPartitionUnknownCropComparedAgainstAll(t *testing.T) {
	regulatory := []record.SourceRecord{src("REG_1", record.SourceRegulatory, "mystery", UnknownKey)}
	portal := []record.SourceRecord{
		src("POR_1", record.SourcePortal, "a", "rice"),
		src("POR_2", record.SourcePortal, "b", "wheat"),
		src("POR_3", record.SourcePortal, "c", UnknownKey),
	}

	blocks := Partition(regulatory, portal)
	total := 0
	seen := map[string]bool{}
	for _, block := range blocks {
		for _, pair := range block.Pairs {
			total++
			seen[pair.Portal.ID] = true
		}
	}
	if total != 3 {
		t.Fatalf("Partition generated %d pairs, want 3 (unknown side pairs everywhere)", total)
	}
	for _, id := range []string{"POR_1", "POR_2", "POR_3"} {
		if !seen[id] {
			t.Errorf("portal record %s never paired against unknown-crop record", id)
		}
	}
}

func TestPartitionEmptySide(t *testing.T) {
	regulatory := []record.SourceRecord{src("REG_1", record.SourceRegulatory, "x", "rice")}

	if blocks := Partition(regulatory, nil); len(blocks) != 0 {
		t.Errorf("Partition with empty portal side produced %d blocks, want 0", len(blocks))
	}
	if blocks := Partition(nil, nil); len(blocks) != 0 {
		t.Errorf("Partition with no input produced %d blocks, want 0", len(blocks))
	}
}

func TestPartitionDeterministicOrder(t *testing.T) {
	regulatory := []record.SourceRecord{
		src("REG_1", record.SourceRegulatory, "a", "wheat"),
		src("REG_2", record.SourceRegulatory, "b", "rice"),
		src("REG_3", record.SourceRegulatory, "c", UnknownKey),
	}
	portal := []record.SourceRecord{
		src("POR_1", record.SourcePortal, "d", "rice"),
		src("POR_2", record.SourcePortal, "e", "wheat"),
	}

	first := Partition(regulatory, portal)
	for i := 0; i < 10; i++ {
		again := Partition(regulatory, portal)
		if len(again) != len(first) {
			t.Fatalf("block count changed between runs: %d vs %d", len(again), len(first))
		}
		for bi := range first {
			if again[bi].Key != first[bi].Key {
				t.Fatalf("block order changed: %q vs %q", again[bi].Key, first[bi].Key)
			}
			if len(again[bi].Pairs) != len(first[bi].Pairs) {
				t.Fatalf("pair count changed in block %q", first[bi].Key)
			}
			for pi := range first[bi].Pairs {
				if again[bi].Pairs[pi].Regulatory.ID != first[bi].Pairs[pi].Regulatory.ID ||
					again[bi].Pairs[pi].Portal.ID != first[bi].Pairs[pi].Portal.ID {
					t.Fatalf("pair order changed in block %q", first[bi].Key)
				}
			}
		}
	}
}
