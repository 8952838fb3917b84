package recommendation

import "github.com/osse101/ChocoboBot_Go/internal/domain"

// ResolveMissing returns the catalog entries not in owned, in catalog order.
// Owned ids that are not in the catalog are ignored.
func ResolveMissing(all []domain.Collectible, owned domain.OwnedSet) []domain.Collectible {
	missing := make([]domain.Collectible, 0, len(all))
	for _, c := range all {
		if !owned.Has(c.ID) {
			missing = append(missing, c)
		}
	}
	return missing
}
