package indexing

import "github.com/adfharrison1/go-jsonindex/pkg/domain"

// Accepts reports whether value is eligible for an index built with config.
// A json index requires every declared path to resolve to a non-null value;
// scalar indexes require the whole value to have the declared type.
func Accepts(config domain.IndexConfig, value interface{}) bool {
	switch config.Kind {
	case domain.ConfigJSON:
		for _, po := range config.PathOrders {
			if domain.GetPath(value, po.Path) == nil {
				return false
			}
		}
		return true
	case domain.ConfigInteger:
		return domain.ScalarOf(value).Kind == domain.KindInt
	case domain.ConfigFloat:
		return domain.ScalarOf(value).Kind == domain.KindFloat
	case domain.ConfigString:
		return domain.ScalarOf(value).Kind == domain.KindString
	default:
		return false
	}
}

// filterRecords keeps the accepted records, later duplicates of a key
// replacing earlier ones in place.
func filterRecords(config domain.IndexConfig, records []domain.Record) []domain.Record {
	out := make([]domain.Record, 0, len(records))
	pos := make(map[string]int, len(records))
	for _, r := range records {
		if !Accepts(config, r.Value) {
			continue
		}
		if i, ok := pos[r.Key]; ok {
			out[i].Value = r.Value
			continue
		}
		pos[r.Key] = len(out)
		out = append(out, r)
	}
	return out
}
