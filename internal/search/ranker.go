package search

import (
	"sort"

	"github.com/sells-group/zipsearch/internal/model"
)

// Rank totally orders results in place: descending rating, ties broken by
// descending review count. The sort is stable, so full ties keep the order
// the provider returned them in.
func Rank(results []model.Business) {
	sort.SliceStable(results, func(i, j int) bool {
		if results[i].Rating != results[j].Rating {
			return results[i].Rating > results[j].Rating
		}
		return results[i].ReviewCount > results[j].ReviewCount
	})
}
