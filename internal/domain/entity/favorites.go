package entity

// FavoriteAction is the mutation applied to a favorites list.
type FavoriteAction string

const (
	FavoriteAdd    FavoriteAction = "add"
	FavoriteRemove FavoriteAction = "remove"
)

// ApplyFavorite computes the next favorites list. Adding an existing id and
// unknown actions leave the list unchanged. Removing always reports a change
// so the caller writes the filtered list back. The input slice is not mutated.
func ApplyFavorite(list []string, coinID string, action FavoriteAction) ([]string, bool) {
	switch action {
	case FavoriteAdd:
		for _, id := range list {
			if id == coinID {
				return list, false
			}
		}
		next := make([]string, 0, len(list)+1)
		next = append(next, list...)
		return append(next, coinID), true
	case FavoriteRemove:
		next := make([]string, 0, len(list))
		for _, id := range list {
			if id != coinID {
				next = append(next, id)
			}
		}
		return next, true
	default:
		return list, false
	}
}
